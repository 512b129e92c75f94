package workspace

import "errors"

var (
	// ErrNotFound is returned when an operation that requires an existing session is given an unknown id
	ErrNotFound = errors.New("session not found")
	// ErrDuplicateSession is returned when opening a session whose id is already open
	ErrDuplicateSession = errors.New("session already open")
	// ErrInvalidSession is returned for a session without an id
	ErrInvalidSession = errors.New("invalid session")
	// ErrUnknownPanel is returned for a panel name outside the known set
	ErrUnknownPanel = errors.New("unknown panel")
	// ErrUnknownTheme is returned for a theme outside the known set
	ErrUnknownTheme = errors.New("unknown theme")
	// ErrInvalidMessage is returned for a conversation message with an unknown role
	ErrInvalidMessage = errors.New("invalid message")
)
