package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/korjavin/repotrivia/models"
)

func renderAnswers(q models.Question) []string {
	lines := make([]string, len(q.Answers))
	for i, a := range q.Answers {
		lines[i] = fmt.Sprintf("  %d) %s", i+1, a)
	}
	return lines
}

func renderFeedback(record models.AnsweredRecord, noColor bool) string {
	if record.Correct {
		return stylize("Correct!", noColor, lipgloss.Color("42"))
	}
	return stylize("Wrong. The right answer is: "+record.Question.CorrectAnswer(), noColor, lipgloss.Color("196"))
}

func renderScore(s models.ScoreSummary, noColor bool) string {
	line := fmt.Sprintf("Your Score %d (%.2f%%)", s.Score, s.Percent())
	return stylize(line, noColor, lipgloss.Color("33"))
}

// stylize applies optional color styling.
func stylize(text string, noColor bool, color lipgloss.Color) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}
