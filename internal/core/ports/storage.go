package ports

import (
	"context"

	"github.com/callwatch/callwatch/internal/core/domain"
)

// ResultStore persists call results for later inspection. The core
// pipeline never persists anything itself; storage is one Reporter
// adapter away.
type ResultStore interface {
	// SaveCallResult stores one record. The record's ID and CreatedAt are
	// filled in if unset.
	SaveCallResult(ctx context.Context, result *domain.CallResult) error
	// ListCallResults returns up to limit records, most recent first.
	ListCallResults(ctx context.Context, limit int) ([]*domain.CallResult, error)
	// Close releases the underlying database handle.
	Close() error
}
