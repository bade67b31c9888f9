package catalog

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strings"

	"github.com/korjavin/repotrivia/models"
)

// Question types produced by Generate
const (
	TypeLanguage    = "language"
	TypeStars       = "stars"
	TypeDescription = "description"
)

const maxChoices = 4

var starBuckets = []struct {
	label string
	below int
}{
	{"Less than 1,000", 1_000},
	{"1,000 to 10,000", 10_000},
	{"10,000 to 50,000", 50_000},
	{"More than 50,000", 0},
}

// Generate turns repository records into questions. The output only depends
// on the input set: repositories are sorted by name and answer order is
// derived from a hash of the repository name.
func Generate(repos []models.Repo) []models.Question {
	sorted := make([]models.Repo, 0, len(repos))
	for _, r := range repos {
		if strings.TrimSpace(r.FullName) == "" {
			continue
		}
		sorted = append(sorted, r)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].FullName < sorted[j].FullName })

	languages := distinctLanguages(sorted)
	names := make([]string, len(sorted))
	for i, r := range sorted {
		names[i] = r.FullName
	}

	var questions []models.Question
	for _, r := range sorted {
		if q, ok := languageQuestion(r, languages); ok {
			questions = append(questions, q)
		}
		if r.Stars > 0 {
			questions = append(questions, starsQuestion(r))
		}
		if q, ok := descriptionQuestion(r, names); ok {
			questions = append(questions, q)
		}
	}
	return questions
}

func languageQuestion(r models.Repo, languages []string) (models.Question, bool) {
	if r.Language == "" {
		return models.Question{}, false
	}
	distractors := pickOthers(languages, r.Language, maxChoices-1)
	if len(distractors) == 0 {
		return models.Question{}, false
	}
	answers, correct := place(r.FullName, r.Language, distractors)
	return models.Question{
		Type:     TypeLanguage,
		Repo:     r,
		Question: fmt.Sprintf("Which language is %s mostly written in?", r.FullName),
		Answers:  answers,
		Correct:  correct,
	}, true
}

func starsQuestion(r models.Repo) models.Question {
	answers := make([]string, len(starBuckets))
	correct := len(starBuckets)
	for i, b := range starBuckets {
		answers[i] = b.label
		if b.below > 0 && r.Stars < b.below && correct == len(starBuckets) {
			correct = i + 1
		}
	}
	return models.Question{
		Type:     TypeStars,
		Repo:     r,
		Question: fmt.Sprintf("How many stars does %s have?", r.FullName),
		Answers:  answers,
		Correct:  correct,
	}
}

func descriptionQuestion(r models.Repo, names []string) (models.Question, bool) {
	if strings.TrimSpace(r.Description) == "" {
		return models.Question{}, false
	}
	distractors := pickOthers(names, r.FullName, maxChoices-1)
	if len(distractors) == 0 {
		return models.Question{}, false
	}
	answers, correct := place(r.FullName, r.FullName, distractors)
	return models.Question{
		Type:     TypeDescription,
		Repo:     r,
		Question: fmt.Sprintf("Which repository describes itself as %q?", strings.TrimSpace(r.Description)),
		Answers:  answers,
		Correct:  correct,
	}, true
}

// pickOthers returns up to n values after exclude in the sorted pool, wrapping around.
func pickOthers(pool []string, exclude string, n int) []string {
	start := sort.SearchStrings(pool, exclude)
	var out []string
	for i := 1; i <= len(pool) && len(out) < n; i++ {
		v := pool[(start+i)%len(pool)]
		if v != exclude {
			out = append(out, v)
		}
	}
	return out
}

// place inserts the right answer among the distractors at a position
// derived from seed and returns the 1-based index of the right answer.
func place(seed, right string, distractors []string) ([]string, int) {
	h := fnv.New32a()
	h.Write([]byte(seed))
	pos := int(h.Sum32() % uint32(len(distractors)+1))

	answers := make([]string, 0, len(distractors)+1)
	answers = append(answers, distractors[:pos]...)
	answers = append(answers, right)
	answers = append(answers, distractors[pos:]...)
	return answers, pos + 1
}

func distinctLanguages(repos []models.Repo) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range repos {
		if r.Language != "" && !seen[r.Language] {
			seen[r.Language] = true
			out = append(out, r.Language)
		}
	}
	sort.Strings(out)
	return out
}
