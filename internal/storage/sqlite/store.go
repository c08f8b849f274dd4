// Package sqlite persists call results in a local SQLite database for
// later inspection. It is one Reporter sink; the pipeline itself never
// persists anything.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/callwatch/callwatch/internal/core/domain"
	"github.com/callwatch/callwatch/internal/core/ports"
)

// Store is the SQLite implementation of ports.ResultStore.
type Store struct {
	db *sql.DB
}

var _ ports.ResultStore = (*Store)(nil)

// New opens (or creates) the database at dbPath and initializes the
// schema.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

func (s *Store) initSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS call_results (
			id TEXT PRIMARY KEY,
			namespace TEXT NOT NULL,
			service TEXT NOT NULL,
			method TEXT NOT NULL,
			ret_code INTEGER NOT NULL,
			delay_ms INTEGER NOT NULL,
			caller_namespace TEXT NOT NULL,
			caller_service TEXT NOT NULL,
			caller_ip TEXT,
			host TEXT NOT NULL,
			port INTEGER NOT NULL,
			labels TEXT,
			ret_status TEXT NOT NULL,
			rule_name TEXT,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_call_results_created_at
			ON call_results(created_at DESC)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}
	return nil
}

// SaveCallResult stores one record, filling ID and CreatedAt when unset.
func (s *Store) SaveCallResult(ctx context.Context, result *domain.CallResult) error {
	if result.ID == "" {
		result.ID = uuid.New().String()
	}
	if result.CreatedAt.IsZero() {
		result.CreatedAt = time.Now().UTC()
	}

	var labels, ruleName, callerIP sql.NullString
	if result.Labels != "" {
		labels = sql.NullString{String: result.Labels, Valid: true}
	}
	if result.RuleName != "" {
		ruleName = sql.NullString{String: result.RuleName, Valid: true}
	}
	if result.CallerIP != "" {
		callerIP = sql.NullString{String: result.CallerIP, Valid: true}
	}

	query := `INSERT INTO call_results (
		id, namespace, service, method, ret_code, delay_ms,
		caller_namespace, caller_service, caller_ip, host, port,
		labels, ret_status, rule_name, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		result.ID, result.Namespace, result.Service, result.Method,
		result.RetCode, result.Delay.Milliseconds(),
		result.CallerService.Namespace, result.CallerService.Service,
		callerIP, result.Host, result.Port,
		labels, string(result.RetStatus), ruleName, result.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save call result: %w", err)
	}
	return nil
}

// ListCallResults returns up to limit records, most recent first.
func (s *Store) ListCallResults(ctx context.Context, limit int) ([]*domain.CallResult, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT id, namespace, service, method, ret_code, delay_ms,
		caller_namespace, caller_service, caller_ip, host, port,
		labels, ret_status, rule_name, created_at
	FROM call_results ORDER BY created_at DESC, id LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list call results: %w", err)
	}
	defer rows.Close()

	var results []*domain.CallResult
	for rows.Next() {
		var (
			r                          domain.CallResult
			delayMS                    int64
			labels, ruleName, callerIP sql.NullString
			retStatus                  string
		)
		if err := rows.Scan(
			&r.ID, &r.Namespace, &r.Service, &r.Method, &r.RetCode, &delayMS,
			&r.CallerService.Namespace, &r.CallerService.Service, &callerIP,
			&r.Host, &r.Port, &labels, &retStatus, &ruleName, &r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan call result: %w", err)
		}
		r.Delay = time.Duration(delayMS) * time.Millisecond
		r.Labels = labels.String
		r.RuleName = ruleName.String
		r.CallerIP = callerIP.String
		r.RetStatus = domain.RetStatus(retStatus)
		results = append(results, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate call results: %w", err)
	}
	return results, nil
}

// Close closes the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
