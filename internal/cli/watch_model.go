package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/avelarbuild/quotient/internal/cli/formatter"
	"github.com/avelarbuild/quotient/internal/service"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const watchPollInterval = time.Second

type watchKeyMap struct {
	Quit key.Binding
}

func defaultWatchKeyMap() watchKeyMap {
	return watchKeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

type watchTickMsg struct{}

type watchStatusMsg struct {
	st  *service.StatusProjection
	err error
}

// watchModel polls a quotation's status until it reaches a terminal
// state, rendering the live projection with a spinner.
type watchModel struct {
	app  *App
	id   string
	spin spinner.Model
	keys watchKeyMap

	st   *service.StatusProjection
	err  error
	done bool
}

func newWatchModel(app *App, id string) watchModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(formatter.ColorHeader)

	return watchModel{
		app:  app,
		id:   id,
		spin: sp,
		keys: defaultWatchKeyMap(),
	}
}

func (m watchModel) pollStatus() tea.Msg {
	st, err := m.app.Quotations.GetStatus(context.Background(), m.id)
	return watchStatusMsg{st: st, err: err}
}

func scheduleWatchTick() tea.Cmd {
	return tea.Tick(watchPollInterval, func(time.Time) tea.Msg {
		return watchTickMsg{}
	})
}

func (m watchModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.pollStatus)
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		return m, nil

	case watchStatusMsg:
		if msg.err != nil {
			m.err = msg.err
			m.done = true
			return m, tea.Quit
		}
		m.st = msg.st
		if msg.st.Status.Terminal() {
			m.done = true
			return m, tea.Quit
		}
		return m, scheduleWatchTick()

	case watchTickMsg:
		return m, m.pollStatus

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m watchModel) View() string {
	if m.err != nil {
		return ""
	}
	if m.st == nil {
		return fmt.Sprintf("%s Fetching status for %s...\n", m.spin.View(), m.id)
	}

	out := formatter.FormatStatus(m.st) + "\n"
	if !m.done {
		out += fmt.Sprintf("%s %s\n", m.spin.View(), formatter.Dim("Polling every second. Press q to stop."))
	}
	return out
}

// watchQuotation blocks until the quotation reaches a terminal state or
// the user quits, then prints the last projection seen.
func watchQuotation(app *App, id string) error {
	final, err := tea.NewProgram(newWatchModel(app, id)).Run()
	if err != nil {
		return err
	}

	m, ok := final.(watchModel)
	if !ok {
		return nil
	}
	if m.err != nil {
		return m.err
	}
	if m.st != nil {
		fmt.Print(formatter.FormatStatus(m.st))
		fmt.Println()
	}
	return nil
}
