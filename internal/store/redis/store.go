package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/mathswe/cookie-consent/internal/domain"
)

// ErrDuplicateConsent is returned when a record with the same ID already exists.
// Records are append-only and never overwritten.
var ErrDuplicateConsent = errors.New("consent record already exists")

// Store persists consent records in Redis.
type Store struct {
	client *redis.Client
}

// NewStore creates a new Redis store
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
	}
}

// SaveConsent writes value under ConsentKey(id). No expiry is set.
func (s *Store) SaveConsent(ctx context.Context, id string, value domain.StoredConsent) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal consent: %w", err)
	}

	ok, err := s.client.SetNX(ctx, ConsentKey(id), data, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to save consent %s: %w", id, err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrDuplicateConsent, id)
	}
	return nil
}

// GetConsent reads a record back. Only tests and operators use it; the
// endpoint never reads consents.
func (s *Store) GetConsent(ctx context.Context, id string) (domain.StoredConsent, error) {
	data, err := s.client.Get(ctx, ConsentKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.StoredConsent{}, fmt.Errorf("consent not found: %s", id)
		}
		return domain.StoredConsent{}, fmt.Errorf("failed to get consent: %w", err)
	}

	var value domain.StoredConsent
	if err := json.Unmarshal(data, &value); err != nil {
		return domain.StoredConsent{}, fmt.Errorf("failed to unmarshal consent: %w", err)
	}
	return value, nil
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
