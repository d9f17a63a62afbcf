package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexanderramin/capplan/internal/cli/formatter"
	"github.com/alexanderramin/capplan/internal/importer"
)

type importProgressMsg struct {
	processed, total int
}

type importDoneMsg struct {
	err error
}

// importProgressModel draws a progress bar while an import runs in the
// background. The import reports through importProgressMsg and finishes
// with importDoneMsg.
type importProgressModel struct {
	title     string
	bar       progress.Model
	processed int
	total     int
	done      bool
	err       error
}

func newImportProgressModel(title string) importProgressModel {
	return importProgressModel{
		title: title,
		bar: progress.New(
			progress.WithGradient(string(formatter.ColorBlue), string(formatter.ColorGreen)),
			progress.WithWidth(40),
		),
	}
}

func (m importProgressModel) Init() tea.Cmd {
	return nil
}

func (m importProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case importProgressMsg:
		m.processed, m.total = msg.processed, msg.total
		return m, nil
	case importDoneMsg:
		m.done, m.err = true, msg.err
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.err = errCancelled
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m importProgressModel) fraction() float64 {
	if m.total == 0 {
		return 0
	}
	return float64(m.processed) / float64(m.total)
}

func (m importProgressModel) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("%s\n%s %s\n",
		formatter.Dim(m.title),
		m.bar.ViewAs(m.fraction()),
		formatter.Dim(fmt.Sprintf("%d/%d rows", m.processed, m.total)))
}

// runWithProgress runs work while rendering its progress to out. Ctrl-C
// cancels the context handed to work and waits for it to stop, so an
// interrupted import never commits behind the user's back.
func runWithProgress(ctx context.Context, out io.Writer, title string, work func(context.Context, importer.ProgressFunc) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newImportProgressModel(title), tea.WithOutput(out), tea.WithContext(ctx))

	finished := make(chan error, 1)
	go func() {
		err := work(ctx, func(processed, total int) {
			p.Send(importProgressMsg{processed: processed, total: total})
		})
		finished <- err
		p.Send(importDoneMsg{err: err})
	}()

	final, runErr := p.Run()
	m, _ := final.(importProgressModel)
	if m.done {
		return m.err
	}

	cancel()
	workErr := <-finished
	if m.err != nil {
		return m.err
	}
	if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) {
		return fmt.Errorf("progress display: %w", runErr)
	}
	return workErr
}
