package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"lifelink/pkg/domain"
	"lifelink/pkg/platform/sentinel"
)

const (
	// Redis key prefixes for verification requests and the per-donor
	// latest-request pointer.
	requestKeyPrefix = "oracle:req:"
	latestKeyPrefix  = "oracle:donor:"
)

// RedisStore is a Redis-backed verification request store for deployments
// where multiple gateway instances share in-flight request state.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore constructs a Redis-backed store. The client lifecycle is
// managed by the caller.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Create(ctx context.Context, req *DeathVerificationRequest) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal verification request: %w", err)
	}

	key := requestKeyPrefix + req.ID.String()
	created, err := s.client.SetNX(ctx, key, payload, 0).Result()
	if err != nil {
		return fmt.Errorf("store verification request: %w", err)
	}
	if !created {
		return sentinel.ErrConflict
	}
	if err := s.client.Set(ctx, latestKeyPrefix+req.Donor.String(), req.ID.String(), 0).Err(); err != nil {
		return fmt.Errorf("store latest-request pointer: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id domain.RequestID) (*DeathVerificationRequest, error) {
	return s.get(ctx, requestKeyPrefix+id.String())
}

func (s *RedisStore) Update(ctx context.Context, req *DeathVerificationRequest) error {
	key := requestKeyPrefix + req.ID.String()
	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("check verification request: %w", err)
	}
	if exists == 0 {
		return sentinel.ErrNotFound
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal verification request: %w", err)
	}
	if err := s.client.Set(ctx, key, payload, 0).Err(); err != nil {
		return fmt.Errorf("update verification request: %w", err)
	}
	return nil
}

func (s *RedisStore) LatestForDonor(ctx context.Context, donor domain.DonorID) (*DeathVerificationRequest, error) {
	id, err := s.client.Get(ctx, latestKeyPrefix+donor.String()).Result()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get latest-request pointer: %w", err)
	}
	return s.get(ctx, requestKeyPrefix+id)
}

func (s *RedisStore) get(ctx context.Context, key string) (*DeathVerificationRequest, error) {
	payload, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get verification request: %w", err)
	}
	var req DeathVerificationRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, fmt.Errorf("unmarshal verification request: %w", err)
	}
	return &req, nil
}
