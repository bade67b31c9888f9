package quiz

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/korjavin/repotrivia/models"
)

// State is the phase of a session
type State int

const (
	StatePresenting State = iota
	StateFeedback
)

func (s State) String() string {
	switch s {
	case StatePresenting:
		return "presenting"
	case StateFeedback:
		return "feedback"
	default:
		return "unknown"
	}
}

// Feedback is the outcome shown after an answer
type Feedback int

const (
	FeedbackNone Feedback = iota
	FeedbackCorrect
	FeedbackWrong
)

func (f Feedback) String() string {
	switch f {
	case FeedbackCorrect:
		return "correct"
	case FeedbackWrong:
		return "wrong"
	default:
		return "none"
	}
}

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Option configures a session at start
type Option func(*Session)

// WithRand sets the random source used for question selection
func WithRand(rnd Rand) Option {
	return func(s *Session) { s.selector = NewSelector(rnd) }
}

// WithID overrides the generated session ID
func WithID(id string) Option {
	return func(s *Session) { s.id = id }
}

// WithUserID tags the session and its events with the owning user
func WithUserID(userID int64) Option {
	return func(s *Session) { s.userID = userID }
}

// WithClock sets the clock used for the start time
func WithClock(c Clock) Option {
	return func(s *Session) { s.clock = c }
}

// WithObserver subscribes fn before the first question is presented
func WithObserver(fn Observer) Option {
	return func(s *Session) {
		s.nextSub++
		s.observers = append(s.observers, subscription{id: s.nextSub, fn: fn})
	}
}

// Session drives presentation, answer, feedback and next question for one user.
// The session never ends; it cycles until the caller drops it.
//
// Observers see events in the order the mutations happened. They run outside
// the state lock and may read the session, but must not call Submit or Advance.
type Session struct {
	mu        sync.Mutex
	// notifyMu is taken before mu is released so deliveries keep mutation order
	notifyMu  sync.Mutex
	id        string
	userID    int64
	clock     Clock
	startedAt time.Time
	catalog   *Catalog
	selector  *Selector
	history   History
	current   models.Question
	state     State
	feedback  Feedback
	observers []subscription
	nextSub   int
}

// Start begins a session with an empty history and presents the first question.
func Start(catalog *Catalog, opts ...Option) (*Session, error) {
	if catalog == nil || catalog.Len() == 0 {
		return nil, ErrEmptyCatalog
	}

	s := &Session{
		catalog: catalog,
		clock:   systemClock{},
		state:   StatePresenting,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.id == "" {
		s.id = uuid.NewString()
	}
	if s.selector == nil {
		s.selector = NewSelector(nil)
	}
	s.startedAt = s.clock.Now()
	s.current = s.selector.Next(catalog, nil)

	notify(s.observers, s.event(EventPresented, models.AnsweredRecord{}))
	return s, nil
}

func (s *Session) ID() string { return s.id }

func (s *Session) UserID() int64 { return s.userID }

func (s *Session) StartedAt() time.Time { return s.startedAt }

func (s *Session) Catalog() *Catalog { return s.catalog }

// Current returns the question being presented or, in feedback, the one just answered
func (s *Session) Current() models.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Clone()
}

// State returns the session phase
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Feedback returns the outcome of the last answer while in StateFeedback
func (s *Session) Feedback() Feedback {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.feedback
}

// Submit records the chosen 1-based answer for the current question and
// moves the session into feedback.
func (s *Session) Submit(chosen int) (models.AnsweredRecord, error) {
	s.mu.Lock()
	if s.state != StatePresenting {
		s.mu.Unlock()
		return models.AnsweredRecord{}, ErrAwaitingAdvance
	}

	record, err := s.history.Record(s.current, chosen)
	if err != nil {
		s.mu.Unlock()
		return models.AnsweredRecord{}, err
	}

	s.state = StateFeedback
	if record.Correct {
		s.feedback = FeedbackCorrect
	} else {
		s.feedback = FeedbackWrong
	}
	event := s.event(EventAnswered, record)
	observers := s.observers
	s.notifyMu.Lock()
	s.mu.Unlock()

	notify(observers, event)
	s.notifyMu.Unlock()
	return record, nil
}

// Advance leaves feedback and presents the next question.
func (s *Session) Advance() (models.Question, error) {
	s.mu.Lock()
	if s.state != StateFeedback {
		s.mu.Unlock()
		return models.Question{}, ErrNoFeedback
	}

	s.current = s.selector.Next(s.catalog, s.history.answered)
	s.state = StatePresenting
	s.feedback = FeedbackNone
	event := s.event(EventPresented, models.AnsweredRecord{})
	observers := s.observers
	current := s.current.Clone()
	s.notifyMu.Lock()
	s.mu.Unlock()

	notify(observers, event)
	s.notifyMu.Unlock()
	return current, nil
}

// Summary returns the score, number of answers and catalog size
func (s *Session) Summary() models.ScoreSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summary()
}

// Answered returns a copy of the answer history
func (s *Session) Answered() []models.AnsweredRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Answered()
}

// Remaining returns how many questions have not been answered yet
func (s *Session) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(Eligible(s.catalog, s.history.answered))
}

// Subscribe adds an observer and returns a function that removes it
func (s *Session) Subscribe(fn Observer) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSub++
	id := s.nextSub
	s.observers = append(s.observers, subscription{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			// Build a new slice so snapshots held by in-flight notifications stay intact.
			remaining := make([]subscription, 0, len(s.observers))
			for _, sub := range s.observers {
				if sub.id != id {
					remaining = append(remaining, sub)
				}
			}
			s.observers = remaining
		})
	}
}

func (s *Session) summary() models.ScoreSummary {
	return models.ScoreSummary{
		Score:         s.history.Score(),
		TotalAnswered: s.history.Len(),
		CatalogSize:   s.catalog.Len(),
	}
}

func (s *Session) event(kind EventKind, record models.AnsweredRecord) Event {
	return Event{
		Kind:      kind,
		SessionID: s.id,
		UserID:    s.userID,
		Question:  s.current.Clone(),
		Record:    record,
		Summary:   s.summary(),
	}
}
