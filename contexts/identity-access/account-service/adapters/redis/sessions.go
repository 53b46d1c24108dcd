package redisadapter

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const sessionTTL = 24 * time.Hour

// SessionStore keeps session-id -> user-id mappings in redis with a 24h TTL.
type SessionStore struct {
	rdb *redis.Client
}

func NewSessionStore(rdb *redis.Client) *SessionStore {
	return &SessionStore{rdb: rdb}
}

func (s *SessionStore) Create(ctx context.Context, userID uint) (string, error) {
	sessionID := uuid.NewString()
	if err := s.rdb.Set(ctx, sessionKey(sessionID), strconv.FormatUint(uint64(userID), 10), sessionTTL).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return sessionID, nil
}

func (s *SessionStore) Get(ctx context.Context, sessionID string) (uint, bool, error) {
	value, err := s.rdb.Get(ctx, sessionKey(sessionID)).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("load session: %w", err)
	}
	userID, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, false, nil
	}
	return uint(userID), true, nil
}

func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.rdb.Del(ctx, sessionKey(sessionID)).Err()
}

func sessionKey(sessionID string) string {
	return "session:" + sessionID
}
