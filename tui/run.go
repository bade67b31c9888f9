package tui

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/korjavin/repotrivia/quiz"
)

// Run drives the session in the terminal until the user quits.
func Run(session *quiz.Session, in io.Reader, out io.Writer, opts Options) error {
	program := tea.NewProgram(NewModel(session, opts), tea.WithInput(in), tea.WithOutput(out), tea.WithAltScreen())
	_, err := program.Run()
	return err
}
