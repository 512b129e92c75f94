package catalog

import (
	"strings"
	"sync"
)

// Staging tracks which changed files are staged for commit
type Staging struct {
	mu     sync.Mutex
	staged []string
}

// NewStaging creates an empty staging area
func NewStaging() *Staging {
	return &Staging{}
}

// Toggle stages an unstaged file or unstages a staged one and reports whether it is now staged
func (s *Staging) Toggle(file string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, f := range s.staged {
		if f == file {
			s.staged = append(s.staged[:i], s.staged[i+1:]...)
			return false
		}
	}
	s.staged = append(s.staged, file)
	return true
}

// Staged returns staged files in staging order
func (s *Staging) Staged() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.staged...)
}

// CanCommit requires at least one staged file and a non-blank message
func (s *Staging) CanCommit(message string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.staged) > 0 && strings.TrimSpace(message) != ""
}
