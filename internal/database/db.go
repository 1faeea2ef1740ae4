package database

import (
	"database/sql"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/jgoulah/ratecompare/pkg/models"
)

const dateFormat = "2006-01-02"

// Wall-clock time with its offset, so both hours of a DST fold are distinct keys
const timestampFormat = "2006-01-02 15:04:05Z07:00"

// DB wraps the database connection
type DB struct {
	conn *sql.DB
}

// DailyTotal is the stored usage of one day for one source
type DailyTotal struct {
	Date    time.Time
	Source  models.Source
	KWh     float64
	Samples int
}

// New creates a new database connection and initializes the schema
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// initSchema creates the necessary tables
func (db *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS usage_samples (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		date TEXT NOT NULL,
		start_time TEXT NOT NULL,
		kwh REAL NOT NULL,
		source TEXT NOT NULL,
		import_id TEXT NOT NULL,
		created_at TEXT NOT NULL,
		UNIQUE(start_time, source)
	);
	CREATE INDEX IF NOT EXISTS idx_samples_date ON usage_samples(date);
	CREATE INDEX IF NOT EXISTS idx_samples_source ON usage_samples(source);
	`

	_, err := db.conn.Exec(schema)
	return err
}

// InsertSamples stores samples under one import batch id, ignoring hours already
// stored for the source. It returns the batch id and how many rows were new.
func (db *DB) InsertSamples(source models.Source, samples []models.UsageSample) (string, int, error) {
	importID := uuid.NewString()
	createdAt := time.Now().UTC().Format(time.RFC3339)

	tx, err := db.conn.Begin()
	if err != nil {
		return "", 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
	INSERT OR IGNORE INTO usage_samples (date, start_time, kwh, source, import_id, created_at)
	VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return "", 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, s := range samples {
		res, err := stmt.Exec(
			s.Timestamp.Format(dateFormat),
			s.Timestamp.Format(timestampFormat),
			s.KWh,
			string(source),
			importID,
			createdAt,
		)
		if err != nil {
			return "", 0, fmt.Errorf("inserting usage sample: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return "", 0, fmt.Errorf("counting inserted rows: %w", err)
		}
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return "", 0, fmt.Errorf("committing samples: %w", err)
	}
	return importID, inserted, nil
}

// ListSamples retrieves stored samples ordered by time. An empty source
// returns every source.
func (db *DB) ListSamples(source models.Source) ([]models.UsageSample, error) {
	query := `
	SELECT start_time, kwh
	FROM usage_samples
	WHERE (? = '' OR source = ?)
	ORDER BY start_time ASC
	`

	rows, err := db.conn.Query(query, string(source), string(source))
	if err != nil {
		return nil, fmt.Errorf("querying usage samples: %w", err)
	}
	defer rows.Close()

	var results []models.UsageSample
	for rows.Next() {
		var startTimeStr string
		var kwh float64
		if err := rows.Scan(&startTimeStr, &kwh); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		startTime, err := time.Parse(timestampFormat, startTimeStr)
		if err != nil {
			return nil, fmt.Errorf("parsing start_time: %w", err)
		}
		results = append(results, models.UsageSample{Timestamp: startTime, KWh: kwh})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Text order is wall-clock order; instants can differ across offsets
	slices.SortStableFunc(results, func(a, b models.UsageSample) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	return results, nil
}

// DailyTotals sums stored usage by day and source, newest first
func (db *DB) DailyTotals(source models.Source) ([]DailyTotal, error) {
	query := `
	SELECT date, source, SUM(kwh), COUNT(*)
	FROM usage_samples
	WHERE (? = '' OR source = ?)
	GROUP BY date, source
	ORDER BY date DESC, source ASC
	`

	rows, err := db.conn.Query(query, string(source), string(source))
	if err != nil {
		return nil, fmt.Errorf("querying daily totals: %w", err)
	}
	defer rows.Close()

	var results []DailyTotal
	for rows.Next() {
		var total DailyTotal
		var dateStr, sourceStr string
		if err := rows.Scan(&dateStr, &sourceStr, &total.KWh, &total.Samples); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		total.Date, err = time.Parse(dateFormat, dateStr)
		if err != nil {
			return nil, fmt.Errorf("parsing date: %w", err)
		}
		total.Source = models.Source(sourceStr)
		results = append(results, total)
	}

	return results, rows.Err()
}
