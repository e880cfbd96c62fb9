package iocache

import (
	"database/sql"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/huangsam/questlog/internal/contract"
	"github.com/huangsam/questlog/schema"
)

// Table names for the library store.
const (
	gamesTable    = "questlog_games"
	sessionsTable = "questlog_sessions"
)

// LibraryStoreImpl persists library snapshots using various database backends.
type LibraryStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
	connStr string
}

var _ contract.LibraryStore = &LibraryStoreImpl{} // Compile-time check

// NewLibraryStore initializes and returns a new LibraryStore based on the backend type.
func NewLibraryStore(backend schema.DatabaseBackend, connStr string) (contract.LibraryStore, error) {
	if backend == schema.NoneBackend {
		// No-op store for disabled persistence
		return &LibraryStoreImpl{backend: backend, connStr: connStr}, nil
	}

	db, err := openDB(backend, connStr, GetLibraryDBFilePath())
	if err != nil {
		return nil, err
	}

	if err := createTables(db, []tableDDL{
		{gamesTable, getCreateGamesQuery(backend)},
		{sessionsTable, getCreateSessionsQuery(backend)},
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create library tables: %w", err)
	}

	return &LibraryStoreImpl{db: db, backend: backend, connStr: connStr}, nil
}

// tableDDL pairs a table name with its CREATE statement.
type tableDDL struct {
	name  string
	query string
}

// createTables runs each CREATE TABLE IF NOT EXISTS statement in order.
func createTables(db *sql.DB, tables []tableDDL) error {
	for _, table := range tables {
		if err := validateTableName(table.name); err != nil {
			return err
		}
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}
	return nil
}

// getCreateGamesQuery returns the CREATE TABLE query for games.
func getCreateGamesQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(gamesTable, backend)
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				position INT PRIMARY KEY,
				game_id BIGINT NOT NULL,
				title VARCHAR(512) NOT NULL,
				status VARCHAR(64) NOT NULL,
				genres TEXT NOT NULL,
				modes TEXT NOT NULL,
				elo_rating DOUBLE,
				purchase_date VARCHAR(10),
				start_date VARCHAR(10),
				finish_date VARCHAR(10),
				created_at VARCHAR(10),
				thoughts TEXT,
				steam_app_id VARCHAR(64),
				icon_url TEXT
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				position INTEGER PRIMARY KEY,
				game_id BIGINT NOT NULL,
				title TEXT NOT NULL,
				status TEXT NOT NULL,
				genres TEXT NOT NULL,
				modes TEXT NOT NULL,
				elo_rating DOUBLE PRECISION,
				purchase_date TEXT,
				start_date TEXT,
				finish_date TEXT,
				created_at TEXT,
				thoughts TEXT,
				steam_app_id TEXT,
				icon_url TEXT
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				position INTEGER PRIMARY KEY,
				game_id INTEGER NOT NULL,
				title TEXT NOT NULL,
				status TEXT NOT NULL,
				genres TEXT NOT NULL,
				modes TEXT NOT NULL,
				elo_rating REAL,
				purchase_date TEXT,
				start_date TEXT,
				finish_date TEXT,
				created_at TEXT,
				thoughts TEXT,
				steam_app_id TEXT,
				icon_url TEXT
			);
		`, quotedTableName)
	}
}

// getCreateSessionsQuery returns the CREATE TABLE query for sessions.
func getCreateSessionsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(sessionsTable, backend)
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				position INT PRIMARY KEY,
				session_id BIGINT NOT NULL,
				game_id BIGINT NOT NULL,
				game_title VARCHAR(512) NOT NULL,
				session_date VARCHAR(10),
				playtime_minutes DOUBLE NOT NULL,
				sentiment VARCHAR(64) NOT NULL,
				comment TEXT
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				position INTEGER PRIMARY KEY,
				session_id BIGINT NOT NULL,
				game_id BIGINT NOT NULL,
				game_title TEXT NOT NULL,
				session_date TEXT,
				playtime_minutes DOUBLE PRECISION NOT NULL,
				sentiment TEXT NOT NULL,
				comment TEXT
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				position INTEGER PRIMARY KEY,
				session_id INTEGER NOT NULL,
				game_id INTEGER NOT NULL,
				game_title TEXT NOT NULL,
				session_date TEXT,
				playtime_minutes REAL NOT NULL,
				sentiment TEXT NOT NULL,
				comment TEXT
			);
		`, quotedTableName)
	}
}

// ReplaceSnapshot swaps all stored games and sessions for snap in one transaction.
func (ls *LibraryStoreImpl) ReplaceSnapshot(snap schema.Snapshot, progress contract.ProgressFunc) error {
	// Skip for NoneBackend
	if ls.backend == schema.NoneBackend || ls.db == nil {
		return nil
	}

	tx, err := ls.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{sessionsTable, gamesTable} {
		if _, err := tx.Exec(fmt.Sprintf("DELETE FROM %s", quoteTableName(table, ls.backend))); err != nil {
			return fmt.Errorf("failed to clear table %s: %w", table, err)
		}
	}

	gameStmt, err := tx.Prepare(bind(ls.backend, fmt.Sprintf(`
		INSERT INTO %s (position, game_id, title, status, genres, modes, elo_rating,
		                purchase_date, start_date, finish_date, created_at, thoughts, steam_app_id, icon_url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, quoteTableName(gamesTable, ls.backend))))
	if err != nil {
		return fmt.Errorf("failed to prepare game insert: %w", err)
	}
	defer func() { _ = gameStmt.Close() }()

	for i, g := range snap.Games {
		genres, err := encodeLabels(g.Genres)
		if err != nil {
			return err
		}
		modes, err := encodeLabels(g.Modes)
		if err != nil {
			return err
		}
		if _, err := gameStmt.Exec(
			i, g.ID, g.Title, g.Status, genres, modes, g.EloRating,
			dateValue(g.PurchaseDate), dateValue(g.StartDate), dateValue(g.FinishDate), dateValue(g.CreatedAt),
			g.Thoughts, g.SteamAppID, g.IconURL,
		); err != nil {
			return fmt.Errorf("failed to insert game %q: %w", g.Title, err)
		}
		if progress != nil {
			progress(1)
		}
	}

	sessionStmt, err := tx.Prepare(bind(ls.backend, fmt.Sprintf(`
		INSERT INTO %s (position, session_id, game_id, game_title, session_date, playtime_minutes, sentiment, comment)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, quoteTableName(sessionsTable, ls.backend))))
	if err != nil {
		return fmt.Errorf("failed to prepare session insert: %w", err)
	}
	defer func() { _ = sessionStmt.Close() }()

	for i, s := range snap.Sessions {
		if _, err := sessionStmt.Exec(
			i, s.ID, s.GameID, s.GameTitle, dateValue(s.SessionDate), s.PlaytimeMinutes, s.Sentiment, s.Comment,
		); err != nil {
			return fmt.Errorf("failed to insert session %d: %w", s.ID, err)
		}
		if progress != nil {
			progress(1)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot reads every stored game and session in insertion order.
func (ls *LibraryStoreImpl) LoadSnapshot() (schema.Snapshot, error) {
	snap := schema.Snapshot{Games: []schema.Game{}, Sessions: []schema.Session{}}
	if ls.backend == schema.NoneBackend || ls.db == nil {
		return snap, nil
	}

	games, err := ls.loadGames()
	if err != nil {
		return schema.Snapshot{}, err
	}
	sessions, err := ls.loadSessions()
	if err != nil {
		return schema.Snapshot{}, err
	}
	snap.Games = games
	snap.Sessions = sessions
	return snap, nil
}

func (ls *LibraryStoreImpl) loadGames() ([]schema.Game, error) {
	query := fmt.Sprintf(`SELECT game_id, title, status, genres, modes, elo_rating,
		purchase_date, start_date, finish_date, created_at, thoughts, steam_app_id, icon_url
		FROM %s ORDER BY position`, quoteTableName(gamesTable, ls.backend))
	rows, err := ls.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query games: %w", err)
	}
	defer func() { _ = rows.Close() }()

	games := []schema.Game{}
	for rows.Next() {
		var (
			g                                  schema.Game
			genres, modes                      string
			elo                                sql.NullFloat64
			purchase, start, finish, createdAt sql.NullString
			thoughts, steamAppID, iconURL      sql.NullString
		)
		if err := rows.Scan(&g.ID, &g.Title, &g.Status, &genres, &modes, &elo,
			&purchase, &start, &finish, &createdAt, &thoughts, &steamAppID, &iconURL); err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		if g.Genres, err = decodeLabels(genres); err != nil {
			return nil, err
		}
		if g.Modes, err = decodeLabels(modes); err != nil {
			return nil, err
		}
		if elo.Valid {
			v := elo.Float64
			g.EloRating = &v
		}
		g.PurchaseDate = parseDateColumn(purchase)
		g.StartDate = parseDateColumn(start)
		g.FinishDate = parseDateColumn(finish)
		g.CreatedAt = parseDateColumn(createdAt)
		g.Thoughts = thoughts.String
		g.SteamAppID = steamAppID.String
		g.IconURL = iconURL.String
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating games: %w", err)
	}
	return games, nil
}

func (ls *LibraryStoreImpl) loadSessions() ([]schema.Session, error) {
	query := fmt.Sprintf(`SELECT session_id, game_id, game_title, session_date, playtime_minutes, sentiment, comment
		FROM %s ORDER BY position`, quoteTableName(sessionsTable, ls.backend))
	rows, err := ls.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	sessions := []schema.Session{}
	for rows.Next() {
		var (
			s             schema.Session
			date, comment sql.NullString
		)
		if err := rows.Scan(&s.ID, &s.GameID, &s.GameTitle, &date, &s.PlaytimeMinutes, &s.Sentiment, &comment); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		s.SessionDate = parseDateColumn(date)
		s.Comment = comment.String
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sessions: %w", err)
	}
	return sessions, nil
}

// Clear removes all games and sessions while keeping the tables.
func (ls *LibraryStoreImpl) Clear() error {
	if ls.backend == schema.NoneBackend || ls.db == nil {
		return nil
	}
	return ls.ReplaceSnapshot(schema.Snapshot{}, nil)
}

// Close closes the underlying connection.
func (ls *LibraryStoreImpl) Close() error {
	if ls.db != nil {
		return ls.db.Close()
	}
	return nil
}

// GetStatus returns status information about the library store.
func (ls *LibraryStoreImpl) GetStatus() (schema.LibraryStatus, error) {
	status := schema.LibraryStatus{
		Backend:    string(ls.backend),
		Connected:  ls.db != nil,
		TableSizes: make(map[string]int64),
	}
	if ls.backend == schema.NoneBackend || ls.db == nil {
		return status, nil
	}

	for _, table := range []string{gamesTable, sessionsTable} {
		count, err := countRows(ls.db, table, ls.backend)
		if err != nil {
			return status, err
		}
		status.TableSizes[table] = count
	}
	status.TotalGames = int(status.TableSizes[gamesTable])
	status.TotalSessions = int(status.TableSizes[sessionsTable])

	if status.TotalSessions > 0 {
		// YYYY-MM-DD text sorts chronologically
		var first, last sql.NullString
		query := fmt.Sprintf("SELECT MIN(session_date), MAX(session_date) FROM %s", quoteTableName(sessionsTable, ls.backend))
		if err := ls.db.QueryRow(query).Scan(&first, &last); err != nil {
			return status, fmt.Errorf("failed to get session range: %w", err)
		}
		status.FirstSession = parseDateColumn(first)
		status.LastSession = parseDateColumn(last)
	}

	status.SizeBytes = storageBytes(ls.db, ls.backend, ls.connStr, []string{gamesTable, sessionsTable})
	return status, nil
}

// encodeLabels stores a label list as a JSON array.
func encodeLabels(labels []string) (string, error) {
	if labels == nil {
		labels = []string{}
	}
	data, err := json.Marshal(labels)
	if err != nil {
		return "", fmt.Errorf("failed to encode labels: %w", err)
	}
	return string(data), nil
}

// decodeLabels reads a JSON array column back into a label list. Empty arrays decode as nil.
func decodeLabels(raw string) ([]string, error) {
	if raw == "" {
		return nil, nil
	}
	var labels []string
	if err := json.Unmarshal([]byte(raw), &labels); err != nil {
		return nil, fmt.Errorf("failed to decode labels %q: %w", raw, err)
	}
	if len(labels) == 0 {
		return nil, nil
	}
	return labels, nil
}
