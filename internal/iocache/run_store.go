package iocache

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/huangsam/questlog/internal/contract"
	"github.com/huangsam/questlog/schema"
)

// Table names for run tracking.
const (
	insightRunsTable = "questlog_insight_runs"
	calloutsTable    = "questlog_callouts"
)

// RunStoreImpl implements the RunStore interface.
type RunStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
	connStr string
}

var _ contract.RunStore = &RunStoreImpl{} // Compile-time check

// NewRunStore creates a new RunStore with the specified backend.
func NewRunStore(backend schema.DatabaseBackend, connStr string) (contract.RunStore, error) {
	if backend == schema.NoneBackend {
		// Return a no-op store for disabled tracking
		return &RunStoreImpl{backend: backend, connStr: connStr}, nil
	}

	db, err := openDB(backend, connStr, GetRunsDBFilePath())
	if err != nil {
		return nil, err
	}

	if err := createTables(db, []tableDDL{
		{insightRunsTable, getCreateInsightRunsQuery(backend)},
		{calloutsTable, getCreateCalloutsQuery(backend)},
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create run tables: %w", err)
	}

	return &RunStoreImpl{db: db, backend: backend, connStr: connStr}, nil
}

// getCreateInsightRunsQuery returns the CREATE TABLE query for insight runs.
func getCreateInsightRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(insightRunsTable, backend)
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				run_uuid VARCHAR(36) NOT NULL,
				command VARCHAR(64) NOT NULL,
				start_time DATETIME(6) NOT NULL,
				end_time DATETIME(6),
				run_duration_ms INT,
				total_games INT NOT NULL DEFAULT 0,
				total_sessions INT NOT NULL DEFAULT 0,
				skipped_records INT NOT NULL DEFAULT 0,
				config_params TEXT
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGSERIAL PRIMARY KEY,
				run_uuid TEXT NOT NULL,
				command TEXT NOT NULL,
				start_time TIMESTAMPTZ NOT NULL,
				end_time TIMESTAMPTZ,
				run_duration_ms INTEGER,
				total_games INTEGER NOT NULL DEFAULT 0,
				total_sessions INTEGER NOT NULL DEFAULT 0,
				skipped_records INTEGER NOT NULL DEFAULT 0,
				config_params TEXT
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER PRIMARY KEY AUTOINCREMENT,
				run_uuid TEXT NOT NULL,
				command TEXT NOT NULL,
				start_time TEXT NOT NULL,
				end_time TEXT,
				run_duration_ms INTEGER,
				total_games INTEGER NOT NULL DEFAULT 0,
				total_sessions INTEGER NOT NULL DEFAULT 0,
				skipped_records INTEGER NOT NULL DEFAULT 0,
				config_params TEXT
			);
		`, quotedTableName)
	}
}

// getCreateCalloutsQuery returns the CREATE TABLE query for callouts.
func getCreateCalloutsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(calloutsTable, backend)
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				position INT NOT NULL,
				callout_type VARCHAR(16) NOT NULL,
				period_start VARCHAR(10) NOT NULL,
				label VARCHAR(64) NOT NULL,
				percent_change DOUBLE NOT NULL,
				change_minutes DOUBLE NOT NULL,
				sentiment_change DOUBLE,
				drivers TEXT NOT NULL,
				PRIMARY KEY (run_id, position)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				position INTEGER NOT NULL,
				callout_type TEXT NOT NULL,
				period_start TEXT NOT NULL,
				label TEXT NOT NULL,
				percent_change DOUBLE PRECISION NOT NULL,
				change_minutes DOUBLE PRECISION NOT NULL,
				sentiment_change DOUBLE PRECISION,
				drivers TEXT NOT NULL,
				PRIMARY KEY (run_id, position)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER NOT NULL,
				position INTEGER NOT NULL,
				callout_type TEXT NOT NULL,
				period_start TEXT NOT NULL,
				label TEXT NOT NULL,
				percent_change REAL NOT NULL,
				change_minutes REAL NOT NULL,
				sentiment_change REAL,
				drivers TEXT NOT NULL,
				PRIMARY KEY (run_id, position)
			);
		`, quotedTableName)
	}
}

// BeginRun creates a new insight run and returns its numeric ID.
func (rs *RunStoreImpl) BeginRun(runUUID, command string, startTime time.Time, configParams map[string]any) (int64, error) {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return 0, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	quotedTableName := quoteTableName(insightRunsTable, rs.backend)
	args := []any{runUUID, command, formatTime(startTime, rs.backend), string(configJSON)}

	var runID int64
	switch rs.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (run_uuid, command, start_time, config_params) VALUES ($1, $2, $3, $4) RETURNING run_id`, quotedTableName)
		err = rs.db.QueryRow(query, args...).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (run_uuid, command, start_time, config_params) VALUES (?, ?, ?, ?)`, quotedTableName)
		var result sql.Result
		result, err = rs.db.Exec(query, args...)
		if err == nil {
			runID, err = result.LastInsertId()
		}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert insight run: %w", err)
	}
	return runID, nil
}

// EndRun updates the run with completion data.
func (rs *RunStoreImpl) EndRun(runID int64, endTime time.Time, stats schema.RunStats) error {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil
	}

	quotedTableName := quoteTableName(insightRunsTable, rs.backend)

	var startTime timeScanner
	query := bind(rs.backend, fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = ?`, quotedTableName))
	if err := rs.db.QueryRow(query, runID).Scan(&startTime); err != nil {
		return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
	}
	durationMs := endTime.Sub(startTime.Time).Milliseconds()

	update := bind(rs.backend, fmt.Sprintf(`UPDATE %s SET end_time = ?, run_duration_ms = ?, total_games = ?,
		total_sessions = ?, skipped_records = ? WHERE run_id = ?`, quotedTableName))
	if _, err := rs.db.Exec(update, formatTime(endTime, rs.backend), durationMs,
		stats.TotalGames, stats.TotalSessions, stats.SkippedRecords, runID); err != nil {
		return fmt.Errorf("failed to update insight run: %w", err)
	}
	return nil
}

// RecordCallouts stores the callouts of a run in detection order.
func (rs *RunStoreImpl) RecordCallouts(runID int64, callouts []schema.Callout) error {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil || len(callouts) == 0 {
		return nil
	}

	tx, err := rs.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(bind(rs.backend, fmt.Sprintf(`
		INSERT INTO %s (run_id, position, callout_type, period_start, label,
		                percent_change, change_minutes, sentiment_change, drivers)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, quoteTableName(calloutsTable, rs.backend))))
	if err != nil {
		return fmt.Errorf("failed to prepare callout insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, c := range callouts {
		drivers, err := json.Marshal(c.Drivers)
		if err != nil {
			return fmt.Errorf("failed to marshal callout drivers: %w", err)
		}
		if _, err := stmt.Exec(runID, i, string(c.Type), c.PeriodStart.String(), c.Label,
			c.PercentChange, c.ChangeMinutes, c.SentimentChange, string(drivers)); err != nil {
			return fmt.Errorf("failed to insert callout %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit callouts: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (rs *RunStoreImpl) Close() error {
	if rs.db != nil {
		return rs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the run store.
func (rs *RunStoreImpl) GetStatus() (schema.RunStatus, error) {
	status := schema.RunStatus{
		Backend:    string(rs.backend),
		Connected:  rs.db != nil,
		TableSizes: make(map[string]int64),
	}
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return status, nil
	}

	for _, table := range []string{insightRunsTable, calloutsTable} {
		count, err := countRows(rs.db, table, rs.backend)
		if err != nil {
			return status, err
		}
		status.TableSizes[table] = count
	}
	status.TotalRuns = int(status.TableSizes[insightRunsTable])
	status.TotalCallouts = int(status.TableSizes[calloutsTable])

	if status.TotalRuns > 0 {
		quotedTableName := quoteTableName(insightRunsTable, rs.backend)

		var lastRunTime timeScanner
		lastRunQuery := fmt.Sprintf("SELECT run_id, start_time FROM %s ORDER BY run_id DESC LIMIT 1", quotedTableName)
		if err := rs.db.QueryRow(lastRunQuery).Scan(&status.LastRunID, &lastRunTime); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		status.LastRunTime = lastRunTime.Time

		var oldestRunTime timeScanner
		oldestRunQuery := fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id ASC LIMIT 1", quotedTableName)
		if err := rs.db.QueryRow(oldestRunQuery).Scan(&oldestRunTime); err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		status.OldestRunTime = oldestRunTime.Time
	}

	status.SizeBytes = storageBytes(rs.db, rs.backend, rs.connStr, []string{insightRunsTable, calloutsTable})
	return status, nil
}

// GetAllRuns retrieves every insight run ordered by ID.
func (rs *RunStoreImpl) GetAllRuns() ([]schema.InsightRunRecord, error) {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, run_uuid, command, start_time, end_time, run_duration_ms,
		total_games, total_sessions, skipped_records, config_params
		FROM %s ORDER BY run_id`, quoteTableName(insightRunsTable, rs.backend))
	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query insight runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.InsightRunRecord
	for rows.Next() {
		var (
			record       schema.InsightRunRecord
			start, end   timeScanner
			duration     sql.NullInt32
			configParams sql.NullString
		)
		if err := rows.Scan(&record.RunID, &record.RunUUID, &record.Command, &start, &end, &duration,
			&record.TotalGames, &record.TotalSessions, &record.SkippedRecords, &configParams); err != nil {
			return nil, fmt.Errorf("failed to scan insight run: %w", err)
		}
		record.StartTime = start.Time
		if end.Valid {
			endTime := end.Time
			record.EndTime = &endTime
		}
		if duration.Valid {
			d := duration.Int32
			record.RunDurationMs = &d
		}
		if configParams.Valid {
			p := configParams.String
			record.ConfigParams = &p
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating insight runs: %w", err)
	}
	return results, nil
}

// GetAllCallouts retrieves every recorded callout ordered by run and position.
func (rs *RunStoreImpl) GetAllCallouts() ([]schema.CalloutRecord, error) {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, position, callout_type, period_start, label,
		percent_change, change_minutes, sentiment_change, drivers
		FROM %s ORDER BY run_id, position`, quoteTableName(calloutsTable, rs.backend))
	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query callouts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.CalloutRecord
	for rows.Next() {
		var (
			record      schema.CalloutRecord
			periodStart sql.NullString
			sentiment   sql.NullFloat64
		)
		if err := rows.Scan(&record.RunID, &record.Position, &record.CalloutType, &periodStart, &record.Label,
			&record.PercentChange, &record.ChangeMinutes, &sentiment, &record.Drivers); err != nil {
			return nil, fmt.Errorf("failed to scan callout: %w", err)
		}
		record.PeriodStart = parseDateColumn(periodStart).Time
		if sentiment.Valid {
			v := sentiment.Float64
			record.SentimentChange = &v
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating callouts: %w", err)
	}
	return results, nil
}
