// Package riskstore keeps the latest per-session risk level in Redis so
// dashboards can read live risk without replaying alert history. Entries
// expire on their own once a session stops ticking.
package riskstore

import (
	"context"
	"fmt"
	"time"

	"proctoflex-be/internal/entity"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session_risk:"

type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

// New wraps the given client. A nil client degrades to a no-op store so the
// surveillance pipeline keeps working when Redis is down.
func New(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

func (s *Store) Set(ctx context.Context, sessionID uint, level entity.RiskLevel) error {
	if s.rdb == nil {
		return nil
	}
	return s.rdb.Set(ctx, fmt.Sprintf("%s%d", keyPrefix, sessionID), string(level), s.ttl).Err()
}

func (s *Store) Get(ctx context.Context, sessionID uint) (entity.RiskLevel, error) {
	if s.rdb == nil {
		return entity.RiskNone, nil
	}
	val, err := s.rdb.Get(ctx, fmt.Sprintf("%s%d", keyPrefix, sessionID)).Result()
	if err == redis.Nil {
		return entity.RiskNone, nil
	}
	if err != nil {
		return entity.RiskNone, err
	}
	return entity.RiskLevel(val), nil
}
