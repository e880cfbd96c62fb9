package core

import (
	"time"

	"github.com/huangsam/questlog/schema"
)

func f64(v float64) *float64 { return &v }

func day(year int, month time.Month, d int) schema.Date {
	return schema.NewDate(year, month, d)
}

func game(id int64, title, status string, genres ...string) schema.Game {
	return schema.Game{ID: id, Title: title, Status: status, Genres: genres}
}

func session(gameID int64, title string, date schema.Date, minutes float64, sentiment string) schema.Session {
	return schema.Session{GameID: gameID, GameTitle: title, SessionDate: date, PlaytimeMinutes: minutes, Sentiment: sentiment}
}

// testOptions pins today so aging results do not depend on the wall clock.
func testOptions() Options {
	opts := DefaultOptions()
	opts.Today = day(2024, 6, 30)
	return opts
}

// sampleSnapshot is a small library that exercises every analyzer.
func sampleSnapshot() schema.Snapshot {
	aurora := game(1, "Aurora Trails", "playing", "RPG", "Adventure")
	aurora.EloRating = f64(1500)
	aurora.PurchaseDate = day(2023, 12, 1)
	aurora.StartDate = day(2024, 1, 2)

	grid := game(2, "Grid Tactics", "wishlist", "Strategy")
	grid.EloRating = f64(1400)

	cinder := game(3, "Cinder Keep", "backlog", "RPG")
	cinder.EloRating = f64(1600)
	cinder.PurchaseDate = day(2023, 6, 10)

	neon := game(4, "Neon Drift", "story_clear", "Racing")
	neon.PurchaseDate = day(2024, 1, 1)
	neon.StartDate = day(2024, 1, 11)
	neon.FinishDate = day(2024, 2, 10)

	return schema.Snapshot{
		Games: []schema.Game{aurora, grid, cinder, neon},
		Sessions: []schema.Session{
			session(1, "Aurora Trails", day(2024, 1, 5), 120, "good"),
			session(4, "Neon Drift", day(2024, 1, 20), 60, "good"),
			session(1, "Aurora Trails", day(2024, 2, 10), 300, "mediocre"),
			session(0, "neon drift", day(2024, 2, 12), 60, "mediocre"),
		},
	}
}
