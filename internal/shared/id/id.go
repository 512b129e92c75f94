// Package id generates the identifiers used across the workspace backend.
//
// All ids are ULIDs from one monotonic source, so ids sort in creation order
// even within a millisecond. Some kinds carry a prefix to keep logs readable:
//
//	msg_01HZX...          conversation message
//	trc_01HZX...          trace
//	spn_01HZX...          span
//	01HZX...-App.tsx      session opened from the explorer
//	generated-01HZX...    session holding generated code
package id

import (
	"crypto/rand"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// SessionID identifies an editor session
type SessionID string

// MessageID identifies a conversation message
type MessageID string

// TraceID identifies a request flow
type TraceID string

// SpanID identifies one traced operation
type SpanID string

const (
	MessagePrefix   = "msg"
	TracePrefix     = "trc"
	SpanPrefix      = "spn"
	GeneratedPrefix = "generated-"
)

// Source produces ULIDs. It is safe for concurrent use.
type Source struct {
	mu      sync.Mutex
	entropy io.Reader
	now     func() time.Time
}

var (
	shared     *Source
	sharedOnce sync.Once
)

func source() *Source {
	sharedOnce.Do(func() {
		shared = NewSource(ulid.Monotonic(rand.Reader, 0))
	})
	return shared
}

// NewSource creates a source over entropy. Tests pass a deterministic reader.
func NewSource(entropy io.Reader) *Source {
	return &Source{entropy: entropy, now: time.Now}
}

// Next returns a new ULID
func (s *Source) Next() ulid.ULID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(s.now()), s.entropy)
}

// NextString returns a new ULID in its canonical text form
func (s *Source) NextString() string {
	return s.Next().String()
}

func prefixed(prefix string) string {
	return prefix + "_" + source().NextString()
}

// NewMessageID generates a conversation message id
func NewMessageID() MessageID {
	return MessageID(prefixed(MessagePrefix))
}

// NewTraceID generates a trace id
func NewTraceID() TraceID {
	return TraceID(prefixed(TracePrefix))
}

// NewSpanID generates a span id
func NewSpanID() SpanID {
	return SpanID(prefixed(SpanPrefix))
}

// NewFileSessionID builds the session id for a file opened from the explorer.
// The file name stays readable as a suffix.
func NewFileSessionID(name string) SessionID {
	return SessionID(source().NextString() + "-" + name)
}

// NewGeneratedSessionID builds the session id for generated code added to the editor
func NewGeneratedSessionID() SessionID {
	return SessionID(GeneratedPrefix + source().NextString())
}

func (id SessionID) String() string { return string(id) }
func (id MessageID) String() string { return string(id) }
func (id TraceID) String() string   { return string(id) }
func (id SpanID) String() string    { return string(id) }

// Parse extracts the ULID from any id this package generates
func Parse(id string) (ulid.ULID, error) {
	switch {
	case strings.HasPrefix(id, GeneratedPrefix):
		id = strings.TrimPrefix(id, GeneratedPrefix)
	case len(id) > ulid.EncodedSize && id[ulid.EncodedSize] == '-':
		id = id[:ulid.EncodedSize]
	case strings.IndexByte(id, '_') >= 0:
		id = id[strings.IndexByte(id, '_')+1:]
	}
	return ulid.Parse(id)
}

// IsValid reports whether id carries a well-formed ULID
func IsValid(id string) bool {
	_, err := Parse(id)
	return err == nil
}

// Timestamp returns the creation time encoded in id
func Timestamp(id string) (time.Time, error) {
	parsed, err := Parse(id)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(parsed.Time()), nil
}
