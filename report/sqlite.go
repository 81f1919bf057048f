package report

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/andareed/markwrite/logging"
	"github.com/andareed/markwrite/segment"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		file TEXT NOT NULL,
		project TEXT NOT NULL,
		createdAt REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS segments (
		runId TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		segId INTEGER NOT NULL,
		category TEXT NOT NULL,
		level INTEGER NOT NULL,
		segpath TEXT NOT NULL,
		name TEXT NOT NULL,
		startTime REAL NOT NULL,
		endTime REAL NOT NULL,
		duration REAL NOT NULL,
		startIndex INTEGER NOT NULL,
		endIndex INTEGER NOT NULL,
		sampleCount INTEGER NOT NULL,
		subsegmentCount INTEGER NOT NULL,
		prevPenpressTime REAL,
		nextPenpressTime REAL,
		PRIMARY KEY (runId, segId)
	);
`

// SQLiteSink stores segment reports in a SQLite database. Every export is a
// separate run so repeated exports of one file can be told apart.
type SQLiteSink struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path and ensures the schema.
func OpenSQLite(path string) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteSink{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteSink) Close() error {
	return s.db.Close()
}

// WriteSegments stores recs as a new run and returns the run id. Either all
// rows are written or none.
func (s *SQLiteSink) WriteSegments(file, projectID string, recs []SegmentRecord, progress Progress) (string, error) {
	runID := uuid.NewString()

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT INTO runs (id, file, project, createdAt) VALUES (?, ?, ?, ?)`,
		runID, file, projectID, float64(time.Now().Unix())); err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO segments (runId, segId, category, level, segpath, name,
			startTime, endTime, duration, startIndex, endIndex,
			sampleCount, subsegmentCount, prevPenpressTime, nextPenpressTime)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return "", fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range recs {
		if _, err := stmt.Exec(runID, int(r.ID), r.Category, r.Level, r.SegmentPath(), r.Name,
			r.Start, r.End, r.Duration, r.StartIndex, r.EndIndex,
			r.SampleCount, r.SubsegmentCount, nullFloat(r.PrevPenPress), nullFloat(r.NextPenPress)); err != nil {
			return "", fmt.Errorf("insert segment %d: %w", r.ID, err)
		}
		progress.report(i+1, len(recs))
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	logging.Infof("report: stored %d segments of %s as run %s", len(recs), file, runID)
	return runID, nil
}

// Segments reads the rows of one run back in report order.
func (s *SQLiteSink) Segments(runID string) ([]SegmentRecord, error) {
	rows, err := s.db.Query(`
		SELECT r.file, s.segId, s.category, s.level, s.segpath, s.name,
			s.startTime, s.endTime, s.duration, s.startIndex, s.endIndex,
			s.sampleCount, s.subsegmentCount, s.prevPenpressTime, s.nextPenpressTime
		FROM segments s JOIN runs r ON r.id = s.runId
		WHERE s.runId = ?
		ORDER BY s.level ASC, s.rowid ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query segments: %w", err)
	}
	defer rows.Close()

	var recs []SegmentRecord
	for rows.Next() {
		var r SegmentRecord
		var id int
		var segpath string
		var prev, next sql.NullFloat64
		if err := rows.Scan(&r.File, &id, &r.Category, &r.Level, &segpath, &r.Name,
			&r.Start, &r.End, &r.Duration, &r.StartIndex, &r.EndIndex,
			&r.SampleCount, &r.SubsegmentCount, &prev, &next); err != nil {
			return nil, fmt.Errorf("scan segment: %w", err)
		}
		r.ID = segment.ID(id)
		r.Path = splitPath(segpath)
		r.PrevPenPress = floatPtr(prev)
		r.NextPenPress = floatPtr(next)
		recs = append(recs, r)
	}
	return recs, rows.Err()
}

func splitPath(p string) []string {
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
