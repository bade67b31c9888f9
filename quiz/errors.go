package quiz

import "errors"

// ErrEmptyCatalog indicates a session was requested against a catalog with no questions.
var ErrEmptyCatalog = errors.New("empty question catalog")

// ErrDuplicateKey indicates two catalog questions share the same (type, repo) key.
var ErrDuplicateKey = errors.New("duplicate question key")

// ErrInvalidQuestion indicates a catalog question has no answers or an out-of-range correct index.
var ErrInvalidQuestion = errors.New("invalid question")

// ErrInvalidAnswerIndex indicates the chosen answer is outside [1, len(answers)].
var ErrInvalidAnswerIndex = errors.New("invalid answer index")

// ErrAwaitingAdvance indicates an answer was submitted while feedback is still pending.
var ErrAwaitingAdvance = errors.New("answer already submitted, advance to the next question")

// ErrNoFeedback indicates advance was requested before the current question was answered.
var ErrNoFeedback = errors.New("current question has not been answered")

// ErrNoSession indicates the user has no active session.
var ErrNoSession = errors.New("no active session")
