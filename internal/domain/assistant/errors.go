package assistant

import "errors"

var (
	// ErrNoActiveSession is returned when a mode that needs file context runs with no open session
	ErrNoActiveSession = errors.New("no active session")
	// ErrUnknownMode is returned for an assist mode outside the known set
	ErrUnknownMode = errors.New("unknown assist mode")
	// ErrEmptyPrompt is returned for a blank prompt
	ErrEmptyPrompt = errors.New("prompt is empty")
	// ErrUnknownFramework is returned for a generation target outside the known set
	ErrUnknownFramework = errors.New("unknown framework")
)
