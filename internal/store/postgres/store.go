package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mathswe/cookie-consent/internal/domain"
)

// ErrDuplicateConsent is returned when a record with the same ID already exists.
var ErrDuplicateConsent = errors.New("consent record already exists")

const schema = `
CREATE TABLE IF NOT EXISTS cookie_consent (
    id        TEXT PRIMARY KEY,
    value     JSONB NOT NULL,
    stored_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const insertConsent = `
INSERT INTO cookie_consent (id, value)
VALUES ($1, $2)
ON CONFLICT (id) DO NOTHING`

// Store persists consent records in a single Postgres table.
type Store struct {
	db *pgxpool.Pool
}

// New opens a pool for databaseURL. maxConns <= 0 keeps the pgx default.
func New(ctx context.Context, databaseURL string, maxConns int) (*Store, error) {
	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid database url: %w", err)
	}
	if maxConns > 0 {
		poolCfg.MaxConns = int32(maxConns)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	return &Store{db: pool}, nil
}

// NewStore wraps an existing pool.
func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the consent table if it is missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create cookie_consent table: %w", err)
	}
	return nil
}

func (s *Store) SaveConsent(ctx context.Context, id string, value domain.StoredConsent) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal consent: %w", err)
	}

	tag, err := s.db.Exec(ctx, insertConsent, id, data)
	if err != nil {
		return fmt.Errorf("failed to save consent %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateConsent, id)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *Store) Close() {
	s.db.Close()
}
