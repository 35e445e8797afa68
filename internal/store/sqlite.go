// Package store is the local SQLite cache of completed investigations.
// The backend remains the source of truth; the cache makes browsing,
// comparing, and exporting work offline and survives backend purges.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/meridianhq/meridian-console/internal/session"
)

// Store wraps the SQLite handle. All methods take a context.
type Store struct {
	db *sql.DB
}

// NewStore opens (creating if needed) the database at dbPath and runs
// migrations. Use ":memory:" for tests.
func NewStore(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "" && dir != "." && dbPath != ":memory:" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open(sqliteDriver, dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS investigations (
			id TEXT PRIMARY KEY,
			target_name TEXT NOT NULL,
			overall_score REAL NOT NULL DEFAULT 0,
			risk_level TEXT,
			summary TEXT,
			red_flags TEXT NOT NULL DEFAULT '[]',
			recommended_actions TEXT NOT NULL DEFAULT '[]',
			agent_findings TEXT NOT NULL DEFAULT '[]',
			started_at INTEGER,
			completed_at INTEGER,
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_investigations_created ON investigations(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_investigations_target ON investigations(target_name)`,
		`CREATE INDEX IF NOT EXISTS idx_investigations_level ON investigations(risk_level)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// SaveReport upserts one completed investigation. A record without an id
// is assigned one, so drop-folder imports without ids still land.
func (s *Store) SaveReport(ctx context.Context, rec session.HistoryRecord) (string, error) {
	id := rec.InvestigationID
	if id == "" {
		id = uuid.New().String()
	}

	flags, err := json.Marshal(emptyIfNil(rec.RedFlags))
	if err != nil {
		return "", fmt.Errorf("encode red flags: %w", err)
	}
	actions, err := json.Marshal(emptyIfNil(rec.RecommendedActions))
	if err != nil {
		return "", fmt.Errorf("encode recommended actions: %w", err)
	}
	findings, err := json.Marshal(rec.AgentFindings)
	if err != nil {
		return "", fmt.Errorf("encode agent findings: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO investigations
			(id, target_name, overall_score, risk_level, summary, red_flags,
			 recommended_actions, agent_findings, started_at, completed_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			target_name = excluded.target_name,
			overall_score = excluded.overall_score,
			risk_level = excluded.risk_level,
			summary = excluded.summary,
			red_flags = excluded.red_flags,
			recommended_actions = excluded.recommended_actions,
			agent_findings = excluded.agent_findings,
			started_at = excluded.started_at,
			completed_at = excluded.completed_at`,
		id, rec.TargetName, rec.OverallScore, rec.RiskLevel, rec.Summary,
		string(flags), string(actions), string(findings),
		unixOrZero(rec.StartedAt), unixOrZero(rec.CompletedAt), time.Now().Unix(),
	)
	if err != nil {
		return "", fmt.Errorf("save investigation %s: %w", id, err)
	}
	return id, nil
}

// ListReports returns up to limit cached investigations, newest first.
func (s *Store) ListReports(ctx context.Context, limit int) ([]session.HistoryRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, target_name, overall_score, risk_level, summary,
		       red_flags, recommended_actions, agent_findings, started_at, completed_at
		FROM investigations
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list investigations: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// GetReport fetches one cached investigation; sql.ErrNoRows when absent.
func (s *Store) GetReport(ctx context.Context, id string) (session.HistoryRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, target_name, overall_score, risk_level, summary,
		       red_flags, recommended_actions, agent_findings, started_at, completed_at
		FROM investigations WHERE id = ?`, id)
	if err != nil {
		return session.HistoryRecord{}, fmt.Errorf("get investigation %s: %w", id, err)
	}
	defer rows.Close()

	records, err := scanRecords(rows)
	if err != nil {
		return session.HistoryRecord{}, err
	}
	if len(records) == 0 {
		return session.HistoryRecord{}, sql.ErrNoRows
	}
	return records[0], nil
}

// DeleteReport removes one cached investigation.
func (s *Store) DeleteReport(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM investigations WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete investigation %s: %w", id, err)
	}
	return nil
}

// ClearReports removes every cached investigation and reports the count.
func (s *Store) ClearReports(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM investigations`)
	if err != nil {
		return 0, fmt.Errorf("clear investigations: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// CountByRiskLevel is the local analytics fallback when the backend's
// counter endpoint is unavailable.
func (s *Store) CountByRiskLevel(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT risk_level, COUNT(*) FROM investigations GROUP BY risk_level`)
	if err != nil {
		return nil, fmt.Errorf("count by risk level: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var level string
		var n int
		if err := rows.Scan(&level, &n); err != nil {
			return nil, err
		}
		counts[level] = n
	}
	return counts, rows.Err()
}

func scanRecords(rows *sql.Rows) ([]session.HistoryRecord, error) {
	var out []session.HistoryRecord
	for rows.Next() {
		var rec session.HistoryRecord
		var flags, actions, findings string
		var started, completed int64

		if err := rows.Scan(&rec.InvestigationID, &rec.TargetName, &rec.OverallScore,
			&rec.RiskLevel, &rec.Summary, &flags, &actions, &findings,
			&started, &completed); err != nil {
			return nil, fmt.Errorf("scan investigation: %w", err)
		}

		// Stored JSON came from us; a decode failure means corruption, and
		// an empty field is preferable to losing the whole row.
		_ = json.Unmarshal([]byte(flags), &rec.RedFlags)
		_ = json.Unmarshal([]byte(actions), &rec.RecommendedActions)
		_ = json.Unmarshal([]byte(findings), &rec.AgentFindings)
		rec.StartedAt = timeOrZero(started)
		rec.CompletedAt = timeOrZero(completed)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func unixOrZero(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

func timeOrZero(unix int64) time.Time {
	if unix == 0 {
		return time.Time{}
	}
	return time.Unix(unix, 0).UTC()
}
