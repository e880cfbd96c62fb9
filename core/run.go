package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/huangsam/questlog/internal/contract"
	"github.com/huangsam/questlog/internal/library"
	"github.com/huangsam/questlog/internal/logging"
	"github.com/huangsam/questlog/internal/metrics"
	"github.com/huangsam/questlog/internal/notify"
	"github.com/huangsam/questlog/schema"
)

// ErrNoLibrary is returned when neither a snapshot file nor a library store is available.
var ErrNoLibrary = errors.New("no library available: pass --input <file> or import one with 'questlog library import'")

// run carries one analytics invocation from snapshot loading to tracking.
type run struct {
	ctx      context.Context
	cfg      *contract.Config
	command  string
	start    time.Time
	snap     schema.Snapshot
	screened schema.DataQuality // records dropped while loading
	store    contract.RunStore
	runID    int64
}

// beginRun loads the snapshot, prints the header and opens run tracking.
// Tracking failures are logged and never stop the analysis.
func beginRun(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, command string) (*run, error) {
	start := time.Now()
	ctx = logging.WithRunID(withCommand(ctx, command), logging.NewRunID())

	snap, screened, source, err := loadSnapshot(cfg, mgr)
	if err != nil {
		return nil, err
	}
	logging.Ctx(ctx).Debug().
		Str("command", command).
		Str("source", source).
		Int("games", len(snap.Games)).
		Int("sessions", len(snap.Sessions)).
		Msg("Run started")

	if !shouldSuppressHeader(ctx) && cfg.Output == schema.TextOut && cfg.OutputFile == "" {
		printRunHeader(cfg, command, source, snap)
	}

	r := &run{ctx: ctx, cfg: cfg, command: command, start: start, snap: snap, screened: screened}
	if mgr == nil {
		return r, nil
	}
	if store := mgr.GetRunStore(); store != nil {
		runID, err := store.BeginRun(logging.RunIDFromContext(ctx), command, start, configParams(cfg))
		if err != nil {
			contract.LogWarn("Run tracking initialization failed", err)
		} else {
			r.store = store
			r.runID = runID
		}
	}
	return r, nil
}

// loadSnapshot reads --input when given, otherwise the library store.
func loadSnapshot(cfg *contract.Config, mgr contract.StoreManager) (schema.Snapshot, schema.DataQuality, string, error) {
	if cfg.InputFile != "" {
		snap, dq, err := library.LoadFile(cfg.InputFile)
		if err != nil {
			return schema.Snapshot{}, nil, "", err
		}
		return snap, dq, cfg.InputFile, nil
	}

	if mgr == nil || cfg.LibraryBackend == schema.NoneBackend {
		return schema.Snapshot{}, nil, "", ErrNoLibrary
	}
	store := mgr.GetLibraryStore()
	if store == nil {
		return schema.Snapshot{}, nil, "", ErrNoLibrary
	}
	snap, err := store.LoadSnapshot()
	if err != nil {
		return schema.Snapshot{}, nil, "", fmt.Errorf("failed to load library: %w", err)
	}
	if len(snap.Games) == 0 && len(snap.Sessions) == 0 {
		logging.Warn().Str("backend", string(cfg.LibraryBackend)).Msg("Library is empty; results will be empty")
	}
	return snap, schema.DataQuality{}, string(cfg.LibraryBackend) + " library", nil
}

// configParams captures the settings that shape a run's results.
func configParams(cfg *contract.Config) map[string]any {
	params := map[string]any{
		"output":       string(cfg.Output),
		"result_limit": cfg.ResultLimit,
		"period":       string(cfg.Period),
		"thresholds":   cfg.Thresholds,
	}
	if cfg.InputFile != "" {
		params["input"] = cfg.InputFile
	} else {
		params["library_backend"] = string(cfg.LibraryBackend)
	}
	if !cfg.StartDate.IsZero() {
		params["start"] = cfg.StartDate.String()
	}
	if !cfg.EndDate.IsZero() {
		params["end"] = cfg.EndDate.String()
	}
	if !cfg.Today.IsZero() {
		params["today"] = cfg.Today.String()
	}
	return params
}

// withScreened returns dq plus the records dropped while loading.
func (r *run) withScreened(dq schema.DataQuality) schema.DataQuality {
	out := make(schema.DataQuality, len(dq)+len(r.screened))
	for reason, n := range dq {
		out[reason] += n
	}
	for reason, n := range r.screened {
		out[reason] += n
	}
	return out
}

// finish closes run tracking, writes metrics and raises notifications.
// skipped is the number of records the analytics excluded.
func (r *run) finish(skipped int, callouts []schema.Callout) time.Duration {
	duration := time.Since(r.start)
	stats := schema.RunStats{
		TotalGames:     len(r.snap.Games),
		TotalSessions:  len(r.snap.Sessions),
		SkippedRecords: skipped + r.screened.Total(),
	}

	if r.store != nil && r.runID > 0 {
		if len(callouts) > 0 {
			if err := r.store.RecordCallouts(r.runID, callouts); err != nil {
				contract.LogWarn("Failed to record callouts", err)
			}
		}
		if err := r.store.EndRun(r.runID, time.Now(), stats); err != nil {
			contract.LogWarn("Failed to finalize run tracking", err)
		}
	}

	if r.cfg.MetricsFile != "" {
		m := metrics.NewRunMetrics()
		m.Observe(r.command, stats, callouts, duration)
		if err := m.WriteTextfile(r.cfg.MetricsFile); err != nil {
			contract.LogWarn("Failed to write run metrics", err)
		}
	}

	if r.cfg.Notify {
		if _, err := notify.Burnout(callouts); err != nil {
			contract.LogWarn("Failed to send notification", err)
		}
	}

	logging.Ctx(r.ctx).Info().
		Str("command", commandFromContext(r.ctx)).
		Int("games", stats.TotalGames).
		Int("sessions", stats.TotalSessions).
		Int("skipped", stats.SkippedRecords).
		Int("callouts", len(callouts)).
		Dur("duration", duration).
		Msg("Run completed")
	return duration
}

// abort closes run tracking for an analysis that stopped early.
// No callouts, metrics or notifications are emitted.
func (r *run) abort(cause error) {
	if r.store != nil && r.runID > 0 {
		stats := schema.RunStats{
			TotalGames:     len(r.snap.Games),
			TotalSessions:  len(r.snap.Sessions),
			SkippedRecords: r.screened.Total(),
		}
		if err := r.store.EndRun(r.runID, time.Now(), stats); err != nil {
			contract.LogWarn("Failed to finalize run tracking", err)
		}
	}
	logging.Ctx(r.ctx).Warn().
		Str("command", commandFromContext(r.ctx)).
		Err(cause).
		Dur("duration", time.Since(r.start)).
		Msg("Run aborted")
}

// truncate keeps the first limit entries; limit <= 0 keeps all.
func truncate[T any](items []T, limit int) []T {
	if limit <= 0 || len(items) <= limit {
		return items
	}
	return items[:limit]
}
