package gateway

import (
	"sync"

	"github.com/google/uuid"
)

// Token identifies one submitted request
type Token struct {
	Key string
	ID  uuid.UUID
	Gen uint64
}

// Sequencer hands out request tokens per key so a policy layer can tell
// whether a completing request is still the newest one for its key.
// It neither cancels nor coalesces requests.
type Sequencer struct {
	mu     sync.Mutex
	latest map[string]uint64
}

// NewSequencer creates an empty sequencer
func NewSequencer() *Sequencer {
	return &Sequencer{latest: make(map[string]uint64)}
}

// Next issues a token that supersedes every earlier token for key
func (s *Sequencer) Next(key string) Token {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.latest[key]++
	return Token{Key: key, ID: uuid.New(), Gen: s.latest[key]}
}

// IsLatest reports whether no newer token was issued for the token's key
func (s *Sequencer) IsLatest(t Token) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest[t.Key] == t.Gen
}
