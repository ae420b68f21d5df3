package storage

import (
	"context"
	"sync"

	"github.com/glowpos/backend/internal/domain/reconciliation"
)

// StubArchiver keeps archived keys in memory. It is used when object
// storage is disabled.
type StubArchiver struct {
	mu   sync.Mutex
	keys []string
}

// NewStubArchiver creates a new StubArchiver
func NewStubArchiver() *StubArchiver {
	return &StubArchiver{}
}

// Archive records the key the report would have been stored under
func (s *StubArchiver) Archive(_ context.Context, report *reconciliation.Report) (string, error) {
	key := ReportKey(report)
	s.mu.Lock()
	s.keys = append(s.keys, key)
	s.mu.Unlock()
	return key, nil
}

// Keys returns the recorded keys in archive order
func (s *StubArchiver) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.keys...)
}

var _ reconciliation.Archiver = (*StubArchiver)(nil)
