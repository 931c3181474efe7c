package tui

import (
	"strings"

	"github.com/aretw0/aria/pkg/domain"
	"github.com/aretw0/aria/pkg/history"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Console is the part of a console the view drives. *aria.Console satisfies it.
type Console interface {
	SubmitCommand(input string)
	CurrentState() domain.State
	Subscribe() (<-chan history.Change, func())
	Closed() bool
	Done() <-chan struct{}
	Prompt() string
	Name() string
}

type changeMsg history.Change

type doneMsg struct{}

type closedMsg struct{}

// droppedMsg means the log cut the subscription because the view fell behind.
type droppedMsg struct{}

// feed is shared by every copy of a Model so a resubscribe is seen by all of them.
type feed struct {
	changes <-chan history.Change
	cancel  func()
}

// Model is the bubbletea view of a console: a scrolling transcript and an input line
// that disappears while a pipeline runs.
type Model struct {
	console Console
	feed    *feed

	input    textinput.Model
	viewport viewport.Model
	styles   Styles

	lines []domain.Line
	busy  bool
	ready bool
	quit  bool

	width  int
	height int
}

// ModelOption configures a Model.
type ModelOption func(*Model)

// WithStyles replaces DefaultStyles.
func WithStyles(s Styles) ModelOption {
	return func(m *Model) {
		m.styles = s
	}
}

// NewModel subscribes to console and builds the initial view.
// Call Close (or let the program quit) to end the subscription.
func NewModel(console Console, opts ...ModelOption) Model {
	changes, cancel := console.Subscribe()

	input := textinput.New()
	input.Placeholder = "..."
	input.CharLimit = 256
	input.Focus()

	m := Model{
		console:  console,
		feed:     &feed{changes: changes, cancel: cancel},
		input:    input,
		viewport: viewport.New(80, 20),
		styles:   DefaultStyles(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.input.Prompt = m.styles.Prompt.Render(console.Prompt()) + " "
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.waitForChange()}
	if m.busy {
		cmds = append(cmds, m.waitForDone())
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		m.layout()
		m.render()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m.exit()
		case tea.KeyEnter:
			if m.busy {
				return m, nil
			}
			value := m.input.Value()
			m.input.Reset()
			switch strings.ToLower(strings.TrimSpace(value)) {
			case "exit", "quit":
				return m.exit()
			}
			m.console.SubmitCommand(value)
			m.refresh()
			if m.busy {
				return m, m.waitForDone()
			}
			return m, nil
		}

	case changeMsg:
		m.refresh()
		return m, m.waitForChange()

	case droppedMsg:
		m.feed.cancel()
		m.feed.changes, m.feed.cancel = m.console.Subscribe()
		// The view renders from CurrentState, so nothing missed needs replaying.
		m.refresh()
		return m, m.waitForChange()

	case doneMsg:
		m.refresh()
		if m.busy {
			// Another host started a pipeline in between.
			return m, m.waitForDone()
		}
		return m, textinput.Blink

	case closedMsg:
		return m.exit()
	}

	var cmd tea.Cmd
	if !m.busy {
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.quit {
		return ""
	}
	var b strings.Builder
	title := "Aria Console"
	if name := m.console.Name(); name != "" {
		title += " · " + name
	}
	b.WriteString(m.styles.Title.Render(strings.ToUpper(title)))
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	if m.busy {
		b.WriteString(m.styles.Status.Render("procesando..."))
	} else {
		b.WriteString(m.input.View())
	}
	return m.styles.Frame.Render(b.String())
}

// Lines returns the transcript the view last rendered.
func (m Model) Lines() []domain.Line {
	return m.lines
}

// Busy reports whether the input line is hidden.
func (m Model) Busy() bool {
	return m.busy
}

// Close ends the transcript subscription.
func (m Model) Close() {
	if m.feed != nil {
		m.feed.cancel()
	}
}

func (m Model) exit() (tea.Model, tea.Cmd) {
	m.quit = true
	m.Close()
	return m, tea.Quit
}

func (m *Model) refresh() {
	state := m.console.CurrentState()
	m.lines = state.Lines
	m.busy = state.Busy
	if m.busy {
		m.input.Blur()
	} else {
		m.input.Focus()
	}
	m.render()
}

func (m *Model) layout() {
	frameW, frameH := m.styles.Frame.GetFrameSize()
	// Title and input rows.
	m.viewport.Width = max(m.width-frameW, 10)
	m.viewport.Height = max(m.height-frameH-2, 3)
	m.input.Width = max(m.viewport.Width-lipgloss.Width(m.input.Prompt)-1, 1)
}

func (m *Model) render() {
	wrap := lipgloss.NewStyle().Width(m.viewport.Width)
	rows := make([]string, len(m.lines))
	for i, l := range m.lines {
		rows[i] = wrap.Render(m.styles.Line(l))
	}
	m.viewport.SetContent(strings.Join(rows, "\n"))
	m.viewport.GotoBottom()
}

func (m Model) waitForChange() tea.Cmd {
	changes := m.feed.changes
	console := m.console
	return func() tea.Msg {
		c, ok := <-changes
		if !ok {
			if console.Closed() {
				return closedMsg{}
			}
			return droppedMsg{}
		}
		return changeMsg(c)
	}
}

func (m Model) waitForDone() tea.Cmd {
	done := m.console.Done()
	return func() tea.Msg {
		<-done
		return doneMsg{}
	}
}

// Run starts a full-screen program on console and blocks until the user quits.
func Run(console Console, opts ...ModelOption) error {
	m := NewModel(console, opts...)
	defer m.Close()
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
