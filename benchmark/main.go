// Package main provides a performance benchmarking tool for the questlog CLI.
// It generates synthetic libraries of increasing size, then measures each analytics
// command reading the snapshot file directly and reading an imported SQLite library.
// Each command runs several times; the first successful run is treated as cold and
// the rest are averaged as warm. Results are written to a CSV file.
//
// Prerequisites:
// - questlog binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory for the generated libraries and SQLite databases
package main

import (
	"encoding/csv"
	"fmt"
	"math/rand/v2"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/huangsam/questlog/internal/library"
	"github.com/huangsam/questlog/schema"
)

// BenchmarkResult holds the result of a benchmark run (file average, cold library run and average of warm library runs).
type BenchmarkResult struct {
	Library  string
	Command  string
	FileTime string
	ColdTime string
	WarmTime string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir     string
	Timeout     time.Duration
	FileRuns    int
	LibraryRuns int
	Libraries   map[string]int // name -> number of games
	Order       []string
	Commands    []string
}

func main() {
	// Parse command line arguments
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir:     os.Args[1],
		Timeout:     2 * time.Minute,
		FileRuns:    3,
		LibraryRuns: 4,
		Libraries:   map[string]int{"small": 100, "medium": 2_000, "large": 20_000},
		Order:       []string{"small", "medium", "large"},
		Commands:    []string{"genres", "sentiment", "lifecycle", "engagement", "insights"},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(config, results)
}

// checkPrerequisites verifies that the questlog binary exists and the work dir is usable
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("questlog"); err != nil {
		return fmt.Errorf("questlog binary not found in PATH")
	}
	return os.MkdirAll(config.WorkDir, 0o755)
}

// runBenchmarks executes all benchmark tests across the generated libraries
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d libraries, %v timeout, file: %d runs, library: %d runs\n",
		len(config.Order), config.Timeout, config.FileRuns, config.LibraryRuns)

	for _, name := range config.Order {
		games := config.Libraries[name]
		fmt.Printf("Benchmarking %s library (%d games)\n", name, games)

		snapPath := filepath.Join(config.WorkDir, name+".json")
		dbPath := filepath.Join(config.WorkDir, name+".db")
		if err := writeLibrary(snapPath, games); err != nil {
			fmt.Printf("  Failed to generate library: %v\n", err)
			continue
		}
		_ = os.Remove(dbPath)
		importArgs := []string{"library", "import", snapPath, "--library-db-connect", dbPath}
		if output, err := exec.Command("questlog", importArgs...).CombinedOutput(); err != nil {
			fmt.Printf("  Failed to import library: %v\nOutput: %s\n", err, string(output))
			continue
		}

		for _, command := range config.Commands {
			results = append(results, runBenchmarkSuite(config, name, command, snapPath, dbPath))
		}
	}

	return results
}

// runBenchmarkSuite runs both file and library benchmarks for a command
func runBenchmarkSuite(config BenchmarkConfig, name, command, snapPath, dbPath string) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", command, name)

	// Helper to run a benchmark phase
	runPhase := func(args []string, numRuns int, phaseName string, includeCold bool) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, args, numRuns)
		// File runs have no warm state
		all := times
		if includeCold && cold > 0 {
			all = append([]float64{cold}, times...)
		}
		if len(all) == 0 {
			return cold, "TIMEOUT"
		}
		var sum float64
		for _, t := range all {
			sum += t
		}
		return cold, fmt.Sprintf("%.3fs", sum/float64(len(all)))
	}

	base := []string{command, "--output", "json", "--output-file", os.DevNull, "--today", "2024-06-30"}

	// Phase 1: snapshot file runs
	fileArgs := append(append([]string{}, base...), "--input", snapPath)
	_, fileAvg := runPhase(fileArgs, config.FileRuns, "File", true)

	// Phase 2: imported library runs
	libArgs := append(append([]string{}, base...), "--library-backend", "sqlite", "--library-db-connect", dbPath)
	coldTime, warmAvg := runPhase(libArgs, config.LibraryRuns, "Library", false)

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  File average: %s, Cold time: %s, Warm average: %s\n", fileAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Library:  name,
		Command:  command,
		FileTime: fileAvg,
		ColdTime: coldTimeStr,
		WarmTime: warmAvg,
	}
}

// runBenchmark executes a questlog command multiple times and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, args []string, numRuns int) (coldTime float64, warmTimes []float64) {
	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()
		cmd := exec.Command("questlog", args...)

		done := make(chan error, 1)
		go func() {
			_, err := cmd.CombinedOutput()
			done <- err
		}()

		select {
		case err := <-done:
			if err == nil {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			// Timeout - don't add to times
			_ = cmd.Process.Kill()
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

var (
	benchGenres     = []string{"RPG", "Adventure", "Strategy", "Racing", "Puzzle", "Shooter", "Platformer", "Roguelike", "Simulation", "Horror"}
	benchSentiments = []string{"good", "mediocre", "bad", "positive", "neutral", "negative"}
)

// addDays shifts d by n calendar days.
func addDays(d schema.Date, n int) schema.Date {
	return schema.DateOf(d.AddDate(0, 0, n))
}

// writeLibrary generates a deterministic library with the given number of games and
// roughly ten sessions per game spread over two years.
func writeLibrary(path string, games int) error {
	rng := rand.New(rand.NewPCG(42, uint64(games)))
	statuses := schema.AllStatuses()
	origin := schema.NewDate(2022, time.July, 1)

	snap := schema.Snapshot{
		Games:    make([]schema.Game, 0, games),
		Sessions: make([]schema.Session, 0, games*10),
	}
	for i := range games {
		id := int64(i + 1)
		g := schema.Game{
			ID:     id,
			Title:  fmt.Sprintf("Game %05d", id),
			Status: string(statuses[rng.IntN(len(statuses))]),
			Genres: []string{benchGenres[rng.IntN(len(benchGenres))], benchGenres[rng.IntN(len(benchGenres))]},
		}
		if rng.IntN(3) > 0 {
			elo := 1200 + rng.Float64()*600
			g.EloRating = &elo
		}
		g.PurchaseDate = addDays(origin, rng.IntN(600))
		if rng.IntN(2) == 0 {
			g.StartDate = addDays(g.PurchaseDate, rng.IntN(90))
			if rng.IntN(2) == 0 {
				g.FinishDate = addDays(g.StartDate, 1+rng.IntN(120))
			}
		}
		snap.Games = append(snap.Games, g)

		for range rng.IntN(20) {
			snap.Sessions = append(snap.Sessions, schema.Session{
				ID:              int64(len(snap.Sessions) + 1),
				GameID:          id,
				GameTitle:       g.Title,
				SessionDate:     addDays(origin, rng.IntN(730)),
				PlaytimeMinutes: float64(15 + rng.IntN(240)),
				Sentiment:       benchSentiments[rng.IntN(len(benchSentiments))],
			})
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := library.Encode(file, snap, library.JSONFormat); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/questlog_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	if err := writer.Write([]string{"library", "cmd", "file_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write results
	for _, result := range results {
		if err := writer.Write([]string{result.Library, result.Command, result.FileTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(config BenchmarkConfig, results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, command := range config.Commands {
		fmt.Printf("%s:\n", command)
		for _, result := range results {
			if result.Command == command {
				fmt.Printf("  %-8s: File: %s, Cold: %s, Warm: %s\n", result.Library, result.FileTime, result.ColdTime, result.WarmTime)
			}
		}
	}
	fmt.Printf("Benchmark script completed successfully\n")
}
