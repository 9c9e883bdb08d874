package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"selfquiz-service/internal/domain"
)

// SessionState keeps per-user test and results state in Redis so a restart
// (or a second instance behind the same balancer) does not drop in-flight
// tests. Values are JSON blobs with a TTL; an expired session reads back
// as "not set".
type SessionState struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionState(client *redis.Client, ttl time.Duration) *SessionState {
	return &SessionState{client: client, ttl: ttl}
}

func (s *SessionState) Session(ctx context.Context, user string) (*domain.TestSession, error) {
	var session domain.TestSession
	ok, err := s.get(ctx, s.sessionKey(user), &session)
	if err != nil || !ok {
		return nil, err
	}
	return &session, nil
}

func (s *SessionState) SetSession(ctx context.Context, user string, session domain.TestSession) error {
	return s.set(ctx, s.sessionKey(user), session)
}

func (s *SessionState) PopSession(ctx context.Context, user string) (*domain.TestSession, error) {
	key := s.sessionKey(user)
	data, err := s.client.GetDel(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("pop session: %w", err)
	}
	var session domain.TestSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &session, nil
}

func (s *SessionState) Results(ctx context.Context, user string) (*domain.Results, error) {
	var results domain.Results
	ok, err := s.get(ctx, s.resultsKey(user), &results)
	if err != nil || !ok {
		return nil, err
	}
	return &results, nil
}

func (s *SessionState) SetResults(ctx context.Context, user string, results domain.Results) error {
	return s.set(ctx, s.resultsKey(user), results)
}

func (s *SessionState) get(ctx context.Context, key string, out any) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get %s: %w", key, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (s *SessionState) set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (s *SessionState) sessionKey(user string) string {
	return "selfquiz:session:" + user
}

func (s *SessionState) resultsKey(user string) string {
	return "selfquiz:results:" + user
}
