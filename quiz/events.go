package quiz

import (
	"log"

	"github.com/korjavin/repotrivia/models"
)

// EventKind describes what changed in a session
type EventKind string

const (
	EventPresented EventKind = "presented"
	EventAnswered  EventKind = "answered"
)

// Event is delivered to observers after each session mutation.
// Record is only set for EventAnswered.
type Event struct {
	Kind      EventKind
	SessionID string
	UserID    int64
	Question  models.Question
	Record    models.AnsweredRecord
	Summary   models.ScoreSummary
}

// Observer is notified synchronously after a session changes
type Observer func(Event)

type subscription struct {
	id int
	fn Observer
}

// notify calls every observer, isolating the session from observer panics.
func notify(observers []subscription, event Event) {
	for _, sub := range observers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("Recovered from panic in session observer (%s): %v", event.Kind, r)
				}
			}()
			sub.fn(event)
		}()
	}
}
