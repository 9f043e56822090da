package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/hamed0406/apihealth/internal/domain"
	"github.com/hamed0406/apihealth/internal/repo"
)

var _ repo.CheckStore = (*Store)(nil)
var _ repo.EndpointStore = (*Store)(nil)

type Store struct {
	pool *pgxpool.Pool
	log  *zap.Logger
}

func New(ctx context.Context, dsn string, log *zap.Logger) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	ctxPing, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctxPing); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	log.Info("postgres_connected",
		zap.Int32("max_conns", pool.Config().MaxConns),
	)
	return &Store{pool: pool, log: log}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// ---- CheckStore ----

const checkColumns = `id::text, target_url, status_code, is_up, response_time_ms, error_message, checked_at`

// insertLockKey names the advisory lock that serializes check inserts.
const insertLockKey int64 = 0x61706968656c7468 // "apihelth"

// Insert holds a transaction-scoped advisory lock while it writes, so rows
// commit in checked_at order and a reader never sees an older timestamp
// appear after a newer one.
func (s *Store) Insert(ctx context.Context, r *domain.ProbeRecord) error {
	id := uuid.NewString()
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, insertLockKey); err != nil {
			return fmt.Errorf("lock: %w", err)
		}
		return tx.QueryRow(ctx,
			`INSERT INTO health_checks
			   (id, target_url, status_code, is_up, response_time_ms, error_message)
			 VALUES
			   ($1, $2, $3, $4, $5, $6)
			 RETURNING checked_at`,
			id, r.TargetURL, r.StatusCode, r.IsUp, r.ResponseTimeMS, r.ErrorMessage,
		).Scan(&r.CheckedAt)
	})
	if err != nil {
		return fmt.Errorf("insert check: %w", err)
	}
	r.ID = id
	r.CheckedAt = r.CheckedAt.UTC()
	return nil
}

func (s *Store) Recent(ctx context.Context, limit int) ([]domain.ProbeRecord, error) {
	if limit <= 0 {
		return []domain.ProbeRecord{}, nil
	}
	return s.queryChecks(ctx, "recent checks",
		`SELECT `+checkColumns+`
		   FROM health_checks
		  ORDER BY checked_at DESC, seq DESC
		  LIMIT $1`, limit)
}

func (s *Store) All(ctx context.Context) ([]domain.ProbeRecord, error) {
	return s.queryChecks(ctx, "all checks",
		`SELECT `+checkColumns+`
		   FROM health_checks
		  ORDER BY checked_at DESC, seq DESC`)
}

func (s *Store) ByTarget(ctx context.Context, url string) ([]domain.ProbeRecord, error) {
	return s.queryChecks(ctx, "checks by target",
		`SELECT `+checkColumns+`
		   FROM health_checks
		  WHERE target_url = $1
		  ORDER BY checked_at DESC, seq DESC`, url)
}

func (s *Store) queryChecks(ctx context.Context, what, q string, args ...any) ([]domain.ProbeRecord, error) {
	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", what, err)
	}
	defer rows.Close()

	out := make([]domain.ProbeRecord, 0)
	for rows.Next() {
		var r domain.ProbeRecord
		if err := scanCheck(rows, &r); err != nil {
			return nil, fmt.Errorf("scan %s: %w", what, err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", what, err)
	}
	return out, nil
}

func scanCheck(row pgx.Row, r *domain.ProbeRecord) error {
	if err := row.Scan(&r.ID, &r.TargetURL, &r.StatusCode, &r.IsUp,
		&r.ResponseTimeMS, &r.ErrorMessage, &r.CheckedAt); err != nil {
		return err
	}
	r.CheckedAt = r.CheckedAt.UTC()
	return nil
}

// ---- EndpointStore ----

// AddEndpoint is idempotent on (name, url); an existing row keeps its ID.
func (s *Store) AddEndpoint(ctx context.Context, e *domain.Endpoint) error {
	id := e.ID
	if id == "" {
		id = uuid.NewString()
	}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO endpoints (id, name, url)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (name, url) DO UPDATE SET name = EXCLUDED.name
		 RETURNING id::text`,
		id, e.Name, e.URL,
	).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("insert endpoint: %w", err)
	}
	return nil
}

func (s *Store) ListEndpoints(ctx context.Context) ([]domain.Endpoint, error) {
	rows, err := s.pool.Query(ctx, `SELECT id::text, name, url FROM endpoints ORDER BY name, url`)
	if err != nil {
		return nil, fmt.Errorf("list endpoints: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Endpoint, 0)
	for rows.Next() {
		var e domain.Endpoint
		if err := rows.Scan(&e.ID, &e.Name, &e.URL); err != nil {
			return nil, fmt.Errorf("scan endpoint: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
