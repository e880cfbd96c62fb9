// Package schema has models, constants and result types for all parts of questlog.
package schema

import "strings"

// Game is a tracked game as supplied by the library snapshot. It is read-only input.
type Game struct {
	ID           int64    `json:"id" yaml:"id" validate:"gte=0"`
	Title        string   `json:"title" yaml:"title" validate:"required"`
	Status       string   `json:"status" yaml:"status"`
	Genres       []string `json:"genres" yaml:"genres"`
	Modes        []string `json:"modes,omitempty" yaml:"modes"`
	EloRating    *float64 `json:"elo_rating,omitempty" yaml:"elo_rating" validate:"omitnil,finite"`
	PurchaseDate Date     `json:"purchase_date" yaml:"purchase_date"`
	StartDate    Date     `json:"start_date" yaml:"start_date"`
	FinishDate   Date     `json:"finish_date" yaml:"finish_date"`
	CreatedAt    Date     `json:"created_at" yaml:"created_at"`
	Thoughts     string   `json:"thoughts,omitempty" yaml:"thoughts"`
	SteamAppID   string   `json:"steam_app_id,omitempty" yaml:"steam_app_id"`
	IconURL      string   `json:"icon_url,omitempty" yaml:"icon_url"`
}

// Session is a logged play session. GameID 0 means the session is linked by title only.
type Session struct {
	ID              int64   `json:"id" yaml:"id" validate:"gte=0"`
	GameID          int64   `json:"game_id,omitempty" yaml:"game_id" validate:"gte=0"`
	GameTitle       string  `json:"game_title" yaml:"game_title" validate:"required_without=GameID"`
	SessionDate     Date    `json:"session_date" yaml:"session_date"`
	PlaytimeMinutes float64 `json:"playtime_minutes" yaml:"playtime_minutes" validate:"finite"`
	Sentiment       string  `json:"sentiment" yaml:"sentiment"`
	Comment         string  `json:"comment,omitempty" yaml:"comment"`
}

// Snapshot is the full input to one analytics computation.
type Snapshot struct {
	Games    []Game    `json:"games" yaml:"games" validate:"dive"`
	Sessions []Session `json:"sessions" yaml:"sessions" validate:"dive"`
}

// StatusDefinition returns the registry entry for the game, falling back to the default bucket.
func (g Game) StatusDefinition() StatusDefinition {
	return DefinitionOf(Status(g.Status))
}

// NormalizedGenres trims genre labels, drops blanks and removes case-insensitive duplicates
// while keeping first-seen order.
func (g Game) NormalizedGenres() []string {
	if len(g.Genres) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(g.Genres))
	out := make([]string, 0, len(g.Genres))
	for _, raw := range g.Genres {
		genre := strings.TrimSpace(raw)
		if genre == "" {
			continue
		}
		key := strings.ToLower(genre)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, genre)
	}
	return out
}

// TitleKey is the case-insensitive join key for titles.
func TitleKey(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}
