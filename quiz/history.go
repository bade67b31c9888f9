package quiz

import (
	"fmt"

	"github.com/korjavin/repotrivia/models"
)

// History is the append-only record of answered questions and the running score.
// It is not safe for concurrent use; Session serializes access to it.
type History struct {
	answered []models.AnsweredRecord
	score    int
}

// Record scores the chosen 1-based answer and appends it to the history.
// An out-of-range index is rejected and leaves the history untouched.
func (h *History) Record(q models.Question, chosen int) (models.AnsweredRecord, error) {
	if chosen < 1 || chosen > len(q.Answers) {
		return models.AnsweredRecord{}, fmt.Errorf("%w: %d not in [1, %d]", ErrInvalidAnswerIndex, chosen, len(q.Answers))
	}

	record := models.AnsweredRecord{
		Question: q,
		Chosen:   chosen,
		Correct:  chosen == q.Correct,
	}
	h.answered = append(h.answered, record)
	if record.Correct {
		h.score++
	}
	return record, nil
}

// Answered returns a copy of the records in answer order
func (h *History) Answered() []models.AnsweredRecord {
	out := make([]models.AnsweredRecord, len(h.answered))
	copy(out, h.answered)
	return out
}

func (h *History) Score() int { return h.score }

func (h *History) Len() int { return len(h.answered) }
