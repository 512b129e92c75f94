package workspace

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/NebulaStudio/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/NebulaStudio/backend/internal/shared/id"
	"github.com/GriffinCanCode/NebulaStudio/backend/internal/shared/types"
)

// Store owns the workspace state: open sessions, the active selection,
// panel visibility, theme and the assistant conversation log.
type Store struct {
	mu           sync.RWMutex
	sessions     []*types.Session // Protected by mu, creation order
	index        map[string]int   // Protected by mu, session id -> position in sessions
	activeID     *string          // Protected by mu
	panels       map[types.Panel]bool
	theme        types.Theme
	conversation []types.Message

	clock   func() time.Time
	logger  *zap.Logger
	metrics *monitoring.Metrics
	events  *eventBus
}

// New creates an empty workspace with the default theme and panel layout
func New() *Store {
	return &Store{
		index:  make(map[string]int),
		panels: types.DefaultPanels(),
		theme:  types.DefaultTheme,
		clock:  time.Now,
		logger: zap.NewNop(),
		events: newEventBus(),
	}
}

// WithMetrics adds metrics tracking to the store
func (s *Store) WithMetrics(metrics *monitoring.Metrics) *Store {
	s.metrics = metrics
	return s
}

// WithLogger sets the logger used for mutation tracing
func (s *Store) WithLogger(logger *zap.Logger) *Store {
	if logger != nil {
		s.logger = logger
		s.events.logger = logger
	}
	return s
}

// WithClock overrides the time source used to stamp messages
func (s *Store) WithClock(clock func() time.Time) *Store {
	if clock != nil {
		s.clock = clock
	}
	return s
}

// Subscribe registers fn for every subsequent mutation event.
// The returned function removes the subscription; calling it twice is safe.
func (s *Store) Subscribe(fn Subscriber) func() {
	return s.events.subscribe(fn)
}

// Subscribers returns the number of registered subscribers
func (s *Store) Subscribers() int {
	return s.events.count()
}

// OpenSession appends a session and makes it active
func (s *Store) OpenSession(session types.Session) error {
	if session.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidSession)
	}

	s.mu.Lock()
	if _, exists := s.index[session.ID]; exists {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrDuplicateSession, session.ID)
	}

	stored := session
	s.sessions = append(s.sessions, &stored)
	s.index[stored.ID] = len(s.sessions) - 1
	s.activeID = &stored.ID
	count := len(s.sessions)
	active := s.activeCopy()

	s.events.enqueue(
		Event{Kind: EventSessionOpened, SessionID: stored.ID},
		Event{Kind: EventActiveChanged, SessionID: stored.ID, ActiveID: active},
	)
	s.mu.Unlock()

	s.logger.Debug("session opened",
		zap.String("session_id", stored.ID),
		zap.String("title", stored.Title),
		zap.Int("sessions", count),
	)
	if s.metrics != nil {
		s.metrics.RecordMutation("open_session")
		s.metrics.IncSessionsOpened()
		s.metrics.SetSessionsOpen(count)
	}

	s.events.dispatch()
	return nil
}

// CloseSession removes a session. Closing the active session selects the first
// remaining session in creation order, or nothing. Returns false if id is not open.
func (s *Store) CloseSession(sessionID string) bool {
	s.mu.Lock()
	pos, ok := s.index[sessionID]
	if !ok {
		s.mu.Unlock()
		return false
	}

	s.sessions = append(s.sessions[:pos], s.sessions[pos+1:]...)
	delete(s.index, sessionID)
	for i := pos; i < len(s.sessions); i++ {
		s.index[s.sessions[i].ID] = i
	}

	events := []Event{{Kind: EventSessionClosed, SessionID: sessionID}}

	wasActive := s.activeID != nil && *s.activeID == sessionID
	if wasActive {
		s.activeID = nil
		if len(s.sessions) > 0 {
			first := s.sessions[0].ID
			s.activeID = &first
		}
		events = append(events, Event{Kind: EventActiveChanged, ActiveID: s.activeCopy()})
	}

	count := len(s.sessions)
	s.events.enqueue(events...)
	s.mu.Unlock()

	s.logger.Debug("session closed",
		zap.String("session_id", sessionID),
		zap.Bool("was_active", wasActive),
		zap.Int("sessions", count),
	)
	if s.metrics != nil {
		s.metrics.RecordMutation("close_session")
		s.metrics.IncSessionsClosed()
		s.metrics.SetSessionsOpen(count)
	}

	s.events.dispatch()
	return true
}

// SetActiveSession selects an open session. An unknown id leaves the
// selection unchanged and returns ErrNotFound.
func (s *Store) SetActiveSession(sessionID string) error {
	s.mu.Lock()
	if _, ok := s.index[sessionID]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotFound, sessionID)
	}

	target := sessionID
	s.activeID = &target
	s.events.enqueue(Event{Kind: EventActiveChanged, SessionID: target, ActiveID: s.activeCopy()})
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.RecordMutation("set_active")
	}

	s.events.dispatch()
	return nil
}

// UpdateSessionContent replaces a session's buffer and marks it modified,
// even when the content is unchanged. Returns false if id is not open.
func (s *Store) UpdateSessionContent(sessionID, content string) bool {
	s.mu.Lock()
	pos, ok := s.index[sessionID]
	if !ok {
		s.mu.Unlock()
		return false
	}

	session := s.sessions[pos]
	session.Content = content
	session.Modified = true
	s.events.enqueue(Event{Kind: EventContentUpdated, SessionID: sessionID})
	s.mu.Unlock()

	// keystroke frequency: metrics only, no logging
	if s.metrics != nil {
		s.metrics.RecordMutation("update_content")
	}

	s.events.dispatch()
	return true
}

// TogglePanel flips one panel's visibility and returns the new state
func (s *Store) TogglePanel(panel types.Panel) (bool, error) {
	if !panel.Valid() {
		return false, fmt.Errorf("%w: %s", ErrUnknownPanel, panel)
	}

	s.mu.Lock()
	open := !s.panels[panel]
	s.panels[panel] = open
	s.events.enqueue(Event{Kind: EventPanelToggled, Panel: panel, Open: open})
	s.mu.Unlock()

	s.logger.Debug("panel toggled", zap.String("panel", string(panel)), zap.Bool("open", open))
	if s.metrics != nil {
		s.metrics.RecordMutation("toggle_panel")
	}

	s.events.dispatch()
	return open, nil
}

// SetTheme replaces the active theme
func (s *Store) SetTheme(theme types.Theme) error {
	if !theme.Valid() {
		return fmt.Errorf("%w: %s", ErrUnknownTheme, theme)
	}

	s.mu.Lock()
	s.theme = theme
	s.events.enqueue(Event{Kind: EventThemeChanged, Theme: theme})
	s.mu.Unlock()

	s.logger.Debug("theme changed", zap.String("theme", string(theme)))
	if s.metrics != nil {
		s.metrics.RecordMutation("set_theme")
	}

	s.events.dispatch()
	return nil
}

// AppendMessage adds a message to the end of the conversation log. An empty
// id and a zero timestamp are filled in; a timestamp not after the previous
// message's is moved forward so timestamps strictly increase along the log.
func (s *Store) AppendMessage(message types.Message) (types.Message, error) {
	if message.Role != types.RoleUser && message.Role != types.RoleAssistant {
		return types.Message{}, fmt.Errorf("%w: role %q", ErrInvalidMessage, message.Role)
	}
	if message.ID == "" {
		message.ID = id.NewMessageID().String()
	}

	s.mu.Lock()
	if message.Timestamp.IsZero() {
		message.Timestamp = s.clock()
	}
	if n := len(s.conversation); n > 0 {
		last := s.conversation[n-1].Timestamp
		if !message.Timestamp.After(last) {
			message.Timestamp = last.Add(time.Millisecond)
		}
	}
	s.conversation = append(s.conversation, message)
	count := len(s.conversation)
	appended := message
	s.events.enqueue(Event{Kind: EventMessageAppended, Message: &appended})
	s.mu.Unlock()

	s.logger.Debug("message appended",
		zap.String("message_id", message.ID),
		zap.String("role", string(message.Role)),
		zap.String("mode", string(message.Mode)),
	)
	if s.metrics != nil {
		s.metrics.RecordMutation("append_message")
		s.metrics.SetConversationMessages(count)
	}

	s.events.dispatch()
	return message, nil
}

// ClearConversation empties the conversation log
func (s *Store) ClearConversation() {
	s.mu.Lock()
	s.conversation = nil
	s.events.enqueue(Event{Kind: EventConversationCleared})
	s.mu.Unlock()

	s.logger.Debug("conversation cleared")
	if s.metrics != nil {
		s.metrics.RecordMutation("clear_conversation")
		s.metrics.SetConversationMessages(0)
	}

	s.events.dispatch()
}

// Session retrieves a session by ID
func (s *Store) Session(sessionID string) (types.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pos, ok := s.index[sessionID]
	if !ok {
		return types.Session{}, false
	}
	return *s.sessions[pos], true
}

// FindByTitle returns the first session, in creation order, with the given title
func (s *Store) FindByTitle(title string) (types.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, session := range s.sessions {
		if session.Title == title {
			return *session, true
		}
	}
	return types.Session{}, false
}

// Sessions returns copies of all sessions in creation order
func (s *Store) Sessions() []types.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessionsCopy()
}

// ActiveSession returns the active session, if any
func (s *Store) ActiveSession() (types.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.activeID == nil {
		return types.Session{}, false
	}
	return *s.sessions[s.index[*s.activeID]], true
}

// ActiveSessionID returns the active session id, or nil when nothing is selected
func (s *Store) ActiveSessionID() *string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeCopy()
}

// PanelOpen reports whether a panel is visible
func (s *Store) PanelOpen(panel types.Panel) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.panels[panel]
}

// Panels returns a copy of all panel flags
func (s *Store) Panels() map[types.Panel]bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.panelsCopy()
}

// Theme returns the active theme
func (s *Store) Theme() types.Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme
}

// Conversation returns a copy of the conversation log
func (s *Store) Conversation() []types.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.conversationCopy()
}

// Snapshot returns a consistent copy of the whole workspace
func (s *Store) Snapshot() types.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return types.Snapshot{
		Sessions:        s.sessionsCopy(),
		ActiveSessionID: s.activeCopy(),
		Panels:          s.panelsCopy(),
		Theme:           s.theme,
		Conversation:    s.conversationCopy(),
		// events are stamped under mu, so no later event is part of this view
		Seq: s.events.current(),
	}
}

// Stats returns workspace statistics
func (s *Store) Stats() types.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	modified := 0
	for _, session := range s.sessions {
		if session.Modified {
			modified++
		}
	}

	return types.Stats{
		Sessions:         len(s.sessions),
		ModifiedSessions: modified,
		Messages:         len(s.conversation),
		ActiveSessionID:  s.activeCopy(),
		Theme:            s.theme,
	}
}

// The helpers below must be called with mu held.

func (s *Store) activeCopy() *string {
	if s.activeID == nil {
		return nil
	}
	active := *s.activeID
	return &active
}

func (s *Store) sessionsCopy() []types.Session {
	sessions := make([]types.Session, len(s.sessions))
	for i, session := range s.sessions {
		sessions[i] = *session
	}
	return sessions
}

func (s *Store) panelsCopy() map[types.Panel]bool {
	panels := make(map[types.Panel]bool, len(s.panels))
	for panel, open := range s.panels {
		panels[panel] = open
	}
	return panels
}

func (s *Store) conversationCopy() []types.Message {
	conversation := make([]types.Message, len(s.conversation))
	copy(conversation, s.conversation)
	return conversation
}
