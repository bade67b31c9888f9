package quiz

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/korjavin/repotrivia/models"
)

// Rand is the random source used for question selection.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

// Selector picks the next question to present.
type Selector struct {
	rnd Rand
}

// NewSelector creates a selector. A nil source is replaced with a time-seeded one.
func NewSelector(rnd Rand) *Selector {
	if rnd == nil {
		seed := uint64(time.Now().UnixNano())
		rnd = rand.New(rand.NewPCG(seed, seed>>1|1))
	}
	return &Selector{rnd: rnd}
}

// Eligible returns the catalog questions whose key does not appear in history
func Eligible(catalog *Catalog, history []models.AnsweredRecord) []models.Question {
	answered := make(map[models.Key]bool, len(history))
	for _, r := range history {
		answered[r.Question.Key()] = true
	}

	var eligible []models.Question
	for _, q := range catalog.questions {
		if !answered[q.Key()] {
			eligible = append(eligible, q.Clone())
		}
	}
	return eligible
}

// Next selects uniformly among questions not yet answered. Once every
// question has been answered it selects uniformly from the whole catalog.
func (s *Selector) Next(catalog *Catalog, history []models.AnsweredRecord) models.Question {
	eligible := Eligible(catalog, history)
	if len(eligible) == 0 {
		return catalog.At(s.rnd.IntN(len(catalog.questions)))
	}
	return eligible[s.rnd.IntN(len(eligible))]
}

// lockedRand serializes access to a source shared between sessions.
type lockedRand struct {
	mu  sync.Mutex
	rnd Rand
}

func (l *lockedRand) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rnd.IntN(n)
}
