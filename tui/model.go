package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/korjavin/repotrivia/models"
	"github.com/korjavin/repotrivia/quiz"
)

// Starrer bookmarks a repository for the owner of accessToken
type Starrer interface {
	Star(ctx context.Context, accessToken, fullName string) error
}

// Options configures the terminal UI model.
type Options struct {
	NoColor       bool
	FeedbackDelay time.Duration
	GitHubToken   string
	Stars         Starrer
}

// Model renders a quiz session using Bubble Tea.
type Model struct {
	session       *quiz.Session
	stars         Starrer
	githubToken   string
	feedbackDelay time.Duration
	noColor       bool
	status        string
	last          models.AnsweredRecord
}

// NewModel constructs a terminal UI model for a running session.
func NewModel(session *quiz.Session, opts Options) Model {
	delay := opts.FeedbackDelay
	if delay <= 0 {
		delay = 1500 * time.Millisecond
	}
	return Model{
		session:       session,
		stars:         opts.Stars,
		githubToken:   opts.GitHubToken,
		feedbackDelay: delay,
		noColor:       opts.NoColor,
	}
}

// feedbackDoneMsg ends the feedback display for the answer with the given sequence number.
type feedbackDoneMsg struct {
	seq int
}

// starResultMsg reports the outcome of a bookmark request.
type starResultMsg struct {
	fullName string
	err      error
}

// Init has nothing to start; the first question is already presented.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles key presses, feedback timers and bookmark results.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(typed)
	case feedbackDoneMsg:
		if m.session.State() == quiz.StateFeedback && m.session.Summary().TotalAnswered == typed.seq {
			return m.advance()
		}
		return m, nil
	case starResultMsg:
		if typed.err != nil {
			m.status = fmt.Sprintf("Could not bookmark %s", typed.fullName)
		} else {
			m.status = fmt.Sprintf("Bookmarked %s", typed.fullName)
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit
	case "enter", "n", " ":
		if m.session.State() == quiz.StateFeedback {
			return m.advance()
		}
		return m, nil
	case "b":
		return m.bookmark()
	}

	if len(key.Runes) == 1 && key.Runes[0] >= '1' && key.Runes[0] <= '0'+quiz.MaxAnswers {
		return m.answer(int(key.Runes[0] - '0'))
	}
	return m, nil
}

func (m Model) answer(chosen int) (tea.Model, tea.Cmd) {
	if m.session.State() != quiz.StatePresenting {
		return m, nil
	}
	record, err := m.session.Submit(chosen)
	if errors.Is(err, quiz.ErrInvalidAnswerIndex) {
		m.status = fmt.Sprintf("Pick a number between 1 and %d", len(m.session.Current().Answers))
		return m, nil
	}
	if err != nil {
		m.status = err.Error()
		return m, nil
	}
	m.last = record
	m.status = ""
	seq := m.session.Summary().TotalAnswered
	return m, tea.Tick(m.feedbackDelay, func(time.Time) tea.Msg { return feedbackDoneMsg{seq: seq} })
}

func (m Model) advance() (tea.Model, tea.Cmd) {
	if _, err := m.session.Advance(); err != nil {
		m.status = err.Error()
		return m, nil
	}
	m.last = models.AnsweredRecord{}
	return m, nil
}

// bookmark runs the star request as a command so the session never waits on it.
func (m Model) bookmark() (tea.Model, tea.Cmd) {
	if m.githubToken == "" || m.stars == nil {
		m.status = "You can bookmark a repo if you are logged in"
		return m, nil
	}
	if m.session.State() != quiz.StatePresenting {
		return m, nil
	}
	fullName := m.session.Current().Repo.FullName
	m.status = "Bookmarking " + fullName + "..."
	stars, token := m.stars, m.githubToken
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return starResultMsg{fullName: fullName, err: stars.Star(ctx, token, fullName)}
	}
}

// View renders the current question or feedback and the score line.
func (m Model) View() string {
	question := m.session.Current()
	parts := []string{
		stylize("Repo Trivia", m.noColor, lipgloss.Color("33")),
		stylize(question.Repo.FullName, m.noColor, lipgloss.Color("244")),
		"",
		question.Question,
		"",
	}

	if m.session.State() == quiz.StateFeedback {
		parts = append(parts, renderFeedback(m.last, m.noColor), "", stylize("Press enter for the next question", m.noColor, lipgloss.Color("240")))
	} else {
		parts = append(parts, renderAnswers(question)...)
		parts = append(parts, "", stylize(m.hint(), m.noColor, lipgloss.Color("240")))
	}

	parts = append(parts, "", renderScore(m.session.Summary(), m.noColor))
	if m.status != "" {
		parts = append(parts, stylize(m.status, m.noColor, lipgloss.Color("214")))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...) + "\n"
}

func (m Model) hint() string {
	if m.githubToken == "" {
		return "1-9 answer | q quit | You can bookmark a repo if you are logged in"
	}
	return "1-9 answer | b bookmark | q quit"
}
