package memory

import (
	"context"
	"sync"

	"selfquiz-service/internal/domain"
)

// SessionState holds per-user ephemeral test and results state in process
// memory. Each user's state is independent; nothing here touches the
// shared question or mistake stores.
type SessionState struct {
	mu    sync.Mutex
	users map[string]*userState
}

type userState struct {
	session *domain.TestSession
	results *domain.Results
}

func NewSessionState() *SessionState {
	return &SessionState{users: make(map[string]*userState)}
}

func (s *SessionState) Session(_ context.Context, user string) (*domain.TestSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if state, ok := s.users[user]; ok {
		return state.session, nil
	}
	return nil, nil
}

func (s *SessionState) SetSession(_ context.Context, user string, session domain.TestSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state(user).session = &session
	return nil
}

func (s *SessionState) PopSession(_ context.Context, user string) (*domain.TestSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.users[user]
	if !ok {
		return nil, nil
	}
	session := state.session
	state.session = nil
	return session, nil
}

func (s *SessionState) Results(_ context.Context, user string) (*domain.Results, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if state, ok := s.users[user]; ok {
		return state.results, nil
	}
	return nil, nil
}

func (s *SessionState) SetResults(_ context.Context, user string, results domain.Results) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state(user).results = &results
	return nil
}

func (s *SessionState) state(user string) *userState {
	if state, ok := s.users[user]; ok {
		return state
	}
	state := &userState{}
	s.users[user] = state
	return state
}
