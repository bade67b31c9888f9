package quiz

import (
	"errors"
	"runtime"
	"sync"
	"testing"
	"time"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

// TestSessionTwoQuestionScenario walks the two-question scenario end to end.
func TestSessionTwoQuestionScenario(t *testing.T) {
	a := question("stars", "a/one", 1, "x", "y")
	b := question("stars", "a/two", 2, "x", "y")
	catalog := mustCatalog(t, a, b)

	rnd := &seqRand{values: []int{0, 0, 1}}
	s, err := Start(catalog, WithRand(rnd))
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if s.State() != StatePresenting || s.Current().Key() != a.Key() {
		t.Fatalf("expected to present A, got %s in %s", s.Current().Key(), s.State())
	}

	record, err := s.Submit(1)
	if err != nil {
		t.Fatalf("submit A: %v", err)
	}
	if !record.Correct || s.Summary().Score != 1 {
		t.Fatalf("expected correct answer and score 1, got %+v score=%d", record, s.Summary().Score)
	}
	if s.State() != StateFeedback || s.Feedback() != FeedbackCorrect {
		t.Fatalf("expected correct feedback, got %s/%s", s.State(), s.Feedback())
	}

	next, err := s.Advance()
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if next.Key() != b.Key() {
		t.Fatalf("expected B as the only eligible question, got %s", next.Key())
	}

	record, err = s.Submit(1)
	if err != nil {
		t.Fatalf("submit B: %v", err)
	}
	if record.Correct || s.Feedback() != FeedbackWrong {
		t.Fatalf("expected wrong answer for B")
	}
	if got := s.Summary(); got.Score != 1 || got.TotalAnswered != 2 || got.CatalogSize != 2 {
		t.Fatalf("unexpected summary %+v", got)
	}

	next, err = s.Advance()
	if err != nil {
		t.Fatalf("advance after exhaustion: %v", err)
	}
	if next.Key() != b.Key() {
		t.Fatalf("expected fallback draw to pick B, got %s", next.Key())
	}
	if got := rnd.calls[len(rnd.calls)-1]; got != 2 {
		t.Fatalf("expected fallback over full catalog of 2, drew over %d", got)
	}
}

// TestSessionSingleQuestionRepeats verifies a single-question catalog repeats after answering.
func TestSessionSingleQuestionRepeats(t *testing.T) {
	only := question("language", "a/only", 1, "Go")
	s, err := Start(mustCatalog(t, only))
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := s.Submit(1); err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
		next, err := s.Advance()
		if err != nil {
			t.Fatalf("advance %d: %v", i, err)
		}
		if next.Key() != only.Key() {
			t.Fatalf("expected the only question again, got %s", next.Key())
		}
	}
	if got := s.Summary(); got.Score != 3 || got.TotalAnswered != 3 || got.CatalogSize != 1 {
		t.Fatalf("unexpected summary %+v", got)
	}
}

// TestSessionRejectsEmptyCatalog verifies a session cannot start without questions.
func TestSessionRejectsEmptyCatalog(t *testing.T) {
	if _, err := Start(nil); !errors.Is(err, ErrEmptyCatalog) {
		t.Fatalf("expected ErrEmptyCatalog, got %v", err)
	}
	if _, err := Start(&Catalog{}); !errors.Is(err, ErrEmptyCatalog) {
		t.Fatalf("expected ErrEmptyCatalog for zero catalog, got %v", err)
	}
}

// TestSessionTransitionGuards verifies submit and advance are only valid in their phase.
func TestSessionTransitionGuards(t *testing.T) {
	s, err := Start(mustCatalog(t, question("stars", "a/one", 1), question("stars", "a/two", 1)))
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := s.Advance(); !errors.Is(err, ErrNoFeedback) {
		t.Fatalf("expected ErrNoFeedback, got %v", err)
	}
	if _, err := s.Submit(2); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := s.Submit(1); !errors.Is(err, ErrAwaitingAdvance) {
		t.Fatalf("expected ErrAwaitingAdvance, got %v", err)
	}
	if got := s.Summary().TotalAnswered; got != 1 {
		t.Fatalf("second submit must not record, got %d answers", got)
	}
}

// TestSessionInvalidIndexKeepsPresenting verifies a rejected answer leaves the session unchanged.
func TestSessionInvalidIndexKeepsPresenting(t *testing.T) {
	s, err := Start(mustCatalog(t, question("stars", "a/one", 1)))
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	before := s.Summary()
	if _, err := s.Submit(5); !errors.Is(err, ErrInvalidAnswerIndex) {
		t.Fatalf("expected ErrInvalidAnswerIndex, got %v", err)
	}
	if s.State() != StatePresenting || s.Summary() != before {
		t.Fatalf("session changed after invalid answer: %s %+v", s.State(), s.Summary())
	}
}

// TestSessionSummaryIsStable verifies read-only calls return identical results.
func TestSessionSummaryIsStable(t *testing.T) {
	s, err := Start(mustCatalog(t, question("stars", "a/one", 1), question("stars", "a/two", 1)))
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := s.Submit(1); err != nil {
		t.Fatalf("submit: %v", err)
	}
	first, second := s.Summary(), s.Summary()
	if first != second {
		t.Fatalf("summary changed between reads: %+v vs %+v", first, second)
	}
	if got := first.Percent(); got != 50 {
		t.Fatalf("expected 50%%, got %v", got)
	}
}

// TestSessionObservers verifies events are emitted per mutation and unsubscribe works.
func TestSessionObservers(t *testing.T) {
	var events []Event
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s, err := Start(
		mustCatalog(t, question("stars", "a/one", 1), question("stars", "a/two", 1)),
		WithID("session-1"),
		WithUserID(42),
		WithClock(fixedClock{now: start}),
		WithObserver(func(e Event) { events = append(events, e) }),
	)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if !s.StartedAt().Equal(start) {
		t.Fatalf("expected start time %v, got %v", start, s.StartedAt())
	}

	var late int
	unsubscribe := s.Subscribe(func(Event) { late++ })
	s.Subscribe(func(Event) { panic("boom") })

	if _, err := s.Submit(1); err != nil {
		t.Fatalf("submit: %v", err)
	}
	unsubscribe()
	if _, err := s.Advance(); err != nil {
		t.Fatalf("advance: %v", err)
	}

	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	kinds := []EventKind{EventPresented, EventAnswered, EventPresented}
	for i, kind := range kinds {
		if events[i].Kind != kind {
			t.Fatalf("event %d: expected %s, got %s", i, kind, events[i].Kind)
		}
		if events[i].SessionID != "session-1" || events[i].UserID != 42 {
			t.Fatalf("event %d has wrong identity: %+v", i, events[i])
		}
	}
	if !events[1].Record.Correct || events[1].Summary.Score != 1 {
		t.Fatalf("answered event missing record: %+v", events[1])
	}
	if late != 1 {
		t.Fatalf("expected unsubscribed observer to see 1 event, saw %d", late)
	}
}

// TestSessionConcurrentSubmit verifies only one of many racing submits is recorded.
func TestSessionConcurrentSubmit(t *testing.T) {
	s, err := Start(mustCatalog(t, question("stars", "a/one", 1), question("stars", "a/two", 1)))
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted := 0
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Submit(1); err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if accepted != 1 || s.Summary().TotalAnswered != 1 {
		t.Fatalf("expected exactly one accepted submit, got %d (answered %d)", accepted, s.Summary().TotalAnswered)
	}
}

// TestSessionObserversSeeMutationOrder verifies racing Submit and Advance
// calls deliver answered and presented events in the order they happened.
func TestSessionObserversSeeMutationOrder(t *testing.T) {
	const rounds = 200
	var mu sync.Mutex
	var kinds []EventKind
	s, err := Start(
		mustCatalog(t, question("stars", "a/one", 1), question("stars", "a/two", 1)),
		WithObserver(func(e Event) {
			mu.Lock()
			kinds = append(kinds, e.Kind)
			mu.Unlock()
		}),
	)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for n := 0; n < rounds; {
			if _, err := s.Submit(1); err == nil {
				n++
			} else {
				runtime.Gosched()
			}
		}
	}()
	go func() {
		defer wg.Done()
		for n := 0; n < rounds; {
			if _, err := s.Advance(); err == nil {
				n++
			} else {
				runtime.Gosched()
			}
		}
	}()
	wg.Wait()

	if len(kinds) != 2*rounds+1 {
		t.Fatalf("expected %d events, got %d", 2*rounds+1, len(kinds))
	}
	for i, k := range kinds {
		want := EventPresented
		if i%2 == 1 {
			want = EventAnswered
		}
		if k != want {
			t.Fatalf("event %d: expected %s, got %s", i, want, k)
		}
	}
}
