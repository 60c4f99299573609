package analysis

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/yotamfogel/Dress-App/internal/vision"
)

// ErrPendingNotFound is returned by a PendingStore when the id is unknown
// or the entry has already expired.
var ErrPendingNotFound = errors.New("pending selection not found")

// SelectionError reports a disambiguation request the client got wrong:
// an unknown session or an item id outside the offered set.
type SelectionError struct {
	Reason string
}

func (e *SelectionError) Error() string {
	return fmt.Sprintf("item selection: %s", e.Reason)
}

// PendingSelection holds the candidates offered to the client while it
// decides which garment to analyze. It is consumed exactly once, either by
// a valid selection or by expiry.
type PendingSelection struct {
	ID         string             `json:"id"`
	Candidates []vision.Candidate `json:"candidates"`
	CreatedAt  time.Time          `json:"created_at"`
	ExpiresAt  time.Time          `json:"expires_at"`
}

// Expired reports whether the entry is past its deadline at the given time.
func (p *PendingSelection) Expired(now time.Time) bool {
	return !p.ExpiresAt.IsZero() && now.After(p.ExpiresAt)
}

// PendingStore keeps pending selections between the prompt call and the
// resolution call. Implementations must treat expired entries as absent.
type PendingStore interface {
	Put(ctx context.Context, p *PendingSelection) error
	Get(ctx context.Context, id string) (*PendingSelection, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

const janitorInterval = 30 * time.Second

// MemoryStore is the default PendingStore: a mutex-guarded map with a
// janitor goroutine sweeping expired entries.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*PendingSelection
	done    chan struct{}
	once    sync.Once
}

func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]*PendingSelection),
		done:    make(chan struct{}),
	}
	go s.janitor()
	return s
}

func (s *MemoryStore) Put(_ context.Context, p *PendingSelection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[p.ID] = p
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*PendingSelection, error) {
	s.mu.RLock()
	p, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok || p.Expired(time.Now()) {
		return nil, ErrPendingNotFound
	}
	return p, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}

func (s *MemoryStore) Close() error {
	s.once.Do(func() { close(s.done) })
	return nil
}

func (s *MemoryStore) janitor() {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case now := <-ticker.C:
			s.mu.Lock()
			for id, p := range s.entries {
				if p.Expired(now) {
					delete(s.entries, id)
				}
			}
			s.mu.Unlock()
		}
	}
}
