package tokenstore

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/medcasegen/internal/logging"
)

// MemoryStore keeps the token in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	token  string
	logger logging.Logger
}

func NewMemoryStore(logger logging.Logger) *MemoryStore {
	return &MemoryStore{logger: logger}
}

func (s *MemoryStore) Save(ctx context.Context, token string) {
	if token == "" {
		s.logger.Warn(ctx, "refusing to store an empty session token")
		return
	}
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

func (s *MemoryStore) Read(ctx context.Context) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

func (s *MemoryStore) Clear(ctx context.Context) {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
}
