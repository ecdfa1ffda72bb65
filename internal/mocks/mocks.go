package mocks

import (
	"context"
	"io"
	"sync"

	"storefront/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, message interface{}) error {
	args := m.Called(ctx, topic, message)
	return args.Error(0)
}

func (m *MockPublisher) Close() {
	m.Called()
}

type MockImageStore struct {
	mock.Mock
}

func (m *MockImageStore) Save(r io.Reader) (string, error) {
	args := m.Called(r)
	return args.String(0), args.Error(1)
}

func (m *MockImageStore) Remove(rel string) error {
	args := m.Called(rel)
	return args.Error(0)
}

// SessionStore keeps sessions in a map.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]domain.Identity
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: map[string]domain.Identity{}}
}

func (s *SessionStore) Create(ctx context.Context, id domain.Identity) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sid := uuid.NewString()
	s.sessions[sid] = id
	return sid, nil
}

func (s *SessionStore) Get(ctx context.Context, sid string) (*domain.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.sessions[sid]
	if !ok {
		return nil, nil
	}
	return &id, nil
}

func (s *SessionStore) Delete(ctx context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sid)
	return nil
}

func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
