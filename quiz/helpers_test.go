package quiz

import (
	"testing"

	"github.com/korjavin/repotrivia/models"
)

// seqRand returns the queued values in order (modulo n), then zero.
type seqRand struct {
	values []int
	calls  []int
}

func (r *seqRand) IntN(n int) int {
	r.calls = append(r.calls, n)
	if len(r.values) == 0 {
		return 0
	}
	v := r.values[0]
	r.values = r.values[1:]
	return v % n
}

func question(typ, repo string, correct int, answers ...string) models.Question {
	if len(answers) == 0 {
		answers = []string{"x", "y"}
	}
	return models.Question{
		Type:     typ,
		Repo:     models.Repo{FullName: repo},
		Question: typ + " of " + repo + "?",
		Answers:  answers,
		Correct:  correct,
	}
}

func mustCatalog(t *testing.T, questions ...models.Question) *Catalog {
	t.Helper()
	c, err := NewCatalog(questions)
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}
	return c
}
