package models

import "fmt"

// Repo identifies the repository a question is about
type Repo struct {
	FullName    string   `json:"full_name" yaml:"full_name"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Language    string   `json:"language,omitempty" yaml:"language,omitempty"`
	Stars       int      `json:"stargazers_count,omitempty" yaml:"stars,omitempty"`
	Topics      []string `json:"topics,omitempty" yaml:"topics,omitempty"`
}

// Question is a single multiple-choice item from the catalog.
// Correct is a 1-based index into Answers.
type Question struct {
	Type     string   `json:"type" yaml:"type"`
	Repo     Repo     `json:"repo" yaml:"repo"`
	Question string   `json:"question" yaml:"question"`
	Answers  []string `json:"answers" yaml:"answers"`
	Correct  int      `json:"correct" yaml:"correct"`
}

// Clone returns a copy of q that shares no slices with it
func (q Question) Clone() Question {
	q.Answers = append([]string(nil), q.Answers...)
	if q.Repo.Topics != nil {
		q.Repo.Topics = append([]string(nil), q.Repo.Topics...)
	}
	return q
}

// Key identifies a question for no-repeat tracking
type Key struct {
	Type     string
	FullName string
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%s", k.Type, k.FullName)
}

// Key returns the composite (type, repo.full_name) key of the question
func (q Question) Key() Key {
	return Key{Type: q.Type, FullName: q.Repo.FullName}
}

// CorrectAnswer returns the label of the correct answer, or "" when Correct is out of range
func (q Question) CorrectAnswer() string {
	if q.Correct < 1 || q.Correct > len(q.Answers) {
		return ""
	}
	return q.Answers[q.Correct-1]
}

// AnsweredRecord is appended to the history every time a question is answered
type AnsweredRecord struct {
	Question Question `json:"question"`
	Chosen   int      `json:"chosen"`
	Correct  bool     `json:"correct"`
}

// ScoreSummary is a read-only snapshot of a session's progress
type ScoreSummary struct {
	Score         int `json:"score"`
	TotalAnswered int `json:"total_answered"`
	CatalogSize   int `json:"catalog_size"`
}

// Percent returns the score relative to the catalog size
func (s ScoreSummary) Percent() float64 {
	if s.CatalogSize == 0 {
		return 0
	}
	return float64(s.Score) / float64(s.CatalogSize) * 100
}

// UserActivity is a journaled answer
type UserActivity struct {
	UserID    int64
	SessionID string
	Type      string
	RepoName  string
	Answer    int
	Correct   bool
	Timestamp int64
}
