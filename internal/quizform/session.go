package quizform

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"quiz-maker/internal/quiz"
)

var (
	ErrSessionNotFound = errors.New("edit session not found")
	ErrSubmitPending   = errors.New("submission already in progress")
	ErrIndexOutOfRange = errors.New("index out of range")
)

const DefaultSessionTTL = 30 * time.Minute

type session struct {
	mu       sync.Mutex
	editor   *Editor
	pending  bool
	lastUsed time.Time
}

// Sessions keeps one exclusive editor per editing session. Operations on a
// session are serialized and a session accepts one submission at a time.
type Sessions struct {
	ttl time.Duration
	now func() time.Time

	mu    sync.Mutex
	items map[string]*session
}

func NewSessions(ttl time.Duration) *Sessions {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Sessions{
		ttl:   ttl,
		now:   time.Now,
		items: make(map[string]*session),
	}
}

// Create registers a session around editor and returns its id.
func (s *Sessions) Create(editor *Editor) (string, State) {
	id := uuid.NewString()
	item := &session{editor: editor, lastUsed: s.now()}

	s.mu.Lock()
	s.items[id] = item
	s.mu.Unlock()

	return id, editor.Snapshot()
}

func (s *Sessions) Snapshot(id string) (State, error) {
	item, err := s.lookup(id)
	if err != nil {
		return State{}, err
	}
	item.mu.Lock()
	defer item.mu.Unlock()
	item.lastUsed = s.now()
	return item.editor.Snapshot(), nil
}

// Edit applies fn to the session's editor. Edits are refused while a
// submission is in flight.
func (s *Sessions) Edit(id string, fn func(*Editor) error) (State, error) {
	item, err := s.lookup(id)
	if err != nil {
		return State{}, err
	}
	item.mu.Lock()
	defer item.mu.Unlock()

	if item.pending {
		return item.editor.Snapshot(), ErrSubmitPending
	}
	item.lastUsed = s.now()
	if err := fn(item.editor); err != nil {
		return item.editor.Snapshot(), err
	}
	return item.editor.Snapshot(), nil
}

// BeginSubmit marks the session pending and returns what to submit. The
// caller must finish with EndSubmit.
func (s *Sessions) BeginSubmit(id string) (quiz.Submission, error) {
	item, err := s.lookup(id)
	if err != nil {
		return quiz.Submission{}, err
	}
	item.mu.Lock()
	defer item.mu.Unlock()

	if item.pending {
		return quiz.Submission{}, ErrSubmitPending
	}
	item.pending = true
	item.lastUsed = s.now()
	return item.editor.Submission(), nil
}

// EndSubmit clears the pending mark. A successful result binds the editor to
// the saved quiz.
func (s *Sessions) EndSubmit(id string, result quiz.Result) (Confirmation, State, error) {
	item, err := s.lookup(id)
	if err != nil {
		return ConfirmNone, State{}, err
	}
	item.mu.Lock()
	defer item.mu.Unlock()

	item.pending = false
	item.lastUsed = s.now()
	if result.IsSuccess && result.Quiz != nil {
		item.editor.MarkSaved(*result.Quiz)
	}
	return ConfirmationFor(result), item.editor.Snapshot(), nil
}

func (s *Sessions) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.items, id)
	return nil
}

// Sweep drops sessions idle for longer than the TTL and reports how many
// were removed. Sessions with a submission in flight are kept.
func (s *Sessions) Sweep() int {
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, item := range s.items {
		item.mu.Lock()
		expired := !item.pending && item.lastUsed.Before(cutoff)
		item.mu.Unlock()
		if expired {
			delete(s.items, id)
			removed++
		}
	}
	return removed
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Sessions) lookup(id string) (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return item, nil
}
