package repo

import (
	"context"

	"github.com/hamed0406/apihealth/internal/domain"
)

// RecentLimit is how many checks the dashboard shows.
const RecentLimit = 10

// CheckStore is an append-only log of probe records. Every listing is
// newest-first by CheckedAt; records inserted at the same instant come back
// in reverse insertion order.
type CheckStore interface {
	// Insert appends r, assigning its ID and CheckedAt.
	Insert(ctx context.Context, r *domain.ProbeRecord) error
	// Recent returns at most limit records.
	Recent(ctx context.Context, limit int) ([]domain.ProbeRecord, error)
	All(ctx context.Context) ([]domain.ProbeRecord, error)
	// ByTarget matches url exactly, without any normalization.
	ByTarget(ctx context.Context, url string) ([]domain.ProbeRecord, error)
}

// EndpointStore keeps the bookmarked endpoints.
type EndpointStore interface {
	AddEndpoint(ctx context.Context, e *domain.Endpoint) error
	ListEndpoints(ctx context.Context) ([]domain.Endpoint, error)
}
