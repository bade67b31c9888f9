package quiz

import (
	"fmt"

	"github.com/korjavin/repotrivia/models"
)

// MaxAnswers is the most answers a question may offer; front-ends pick
// answers with a single digit.
const MaxAnswers = 9

// Catalog is the immutable, ordered set of questions available to a session.
type Catalog struct {
	questions []models.Question
}

// NewCatalog validates and copies the questions. Keys must be unique: a
// duplicate (type, repo) pair would leave one of the questions unreachable.
func NewCatalog(questions []models.Question) (*Catalog, error) {
	if len(questions) == 0 {
		return nil, ErrEmptyCatalog
	}

	seen := make(map[models.Key]int, len(questions))
	copied := make([]models.Question, len(questions))
	for i, q := range questions {
		if len(q.Answers) == 0 {
			return nil, fmt.Errorf("%w: question %d (%s) has no answers", ErrInvalidQuestion, i, q.Key())
		}
		if len(q.Answers) > MaxAnswers {
			return nil, fmt.Errorf("%w: question %d (%s) has %d answers, at most %d allowed",
				ErrInvalidQuestion, i, q.Key(), len(q.Answers), MaxAnswers)
		}
		if q.Correct < 1 || q.Correct > len(q.Answers) {
			return nil, fmt.Errorf("%w: question %d (%s) has correct=%d with %d answers",
				ErrInvalidQuestion, i, q.Key(), q.Correct, len(q.Answers))
		}
		if prev, exists := seen[q.Key()]; exists {
			return nil, fmt.Errorf("%w: %s at positions %d and %d", ErrDuplicateKey, q.Key(), prev, i)
		}
		seen[q.Key()] = i

		copied[i] = q.Clone()
	}

	return &Catalog{questions: copied}, nil
}

// Len returns the number of questions
func (c *Catalog) Len() int {
	return len(c.questions)
}

// At returns a copy of the i-th question
func (c *Catalog) At(i int) models.Question {
	return c.questions[i].Clone()
}

// Questions returns a copy of the catalog's questions in order
func (c *Catalog) Questions() []models.Question {
	out := make([]models.Question, len(c.questions))
	for i, q := range c.questions {
		out[i] = q.Clone()
	}
	return out
}
