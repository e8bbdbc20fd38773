package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
	"go.uber.org/zap"

	"github.com/spicelab/spice-runtime/runtime"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	vectorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	consoleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#D0D0D0"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

const (
	scrollbackLimit = 200
	consoleWindow   = 12
	browseWindow    = 15
)

type modelState int

const (
	statePrompt modelState = iota
	stateBrowse
)

type interactiveModel struct {
	libPath string
	circuit string
	logger  *zap.Logger

	rt     *runtime.Runtime
	events chan tea.Msg

	input  textinput.Model
	filter textinput.Model
	bar    progress.Model

	state modelState
	lines []string
	err   error
	busy  bool

	runLabel   string
	runPercent float64
	running    bool

	vectors  []string
	matches  []string
	selected int
}

type engineReadyMsg struct {
	rt  *runtime.Runtime
	err error
}

type consoleMsg string
type progressStartMsg string
type progressSetMsg float64
type progressDoneMsg struct{}

type dispatchDoneMsg struct{ err error }

type vectorsMsg struct {
	names []string
	err   error
}

// channelSink forwards engine console lines into the program loop.
type channelSink struct{ ch chan<- tea.Msg }

func (s channelSink) WriteLine(line string) { post(s.ch, consoleMsg(line)) }

// channelRenderer forwards progress updates into the program loop.
type channelRenderer struct{ ch chan<- tea.Msg }

func (r channelRenderer) Start(label string) { post(r.ch, progressStartMsg(label)) }

func (r channelRenderer) Set(percent float64) { post(r.ch, progressSetMsg(percent)) }

func (r channelRenderer) Done() { post(r.ch, progressDoneMsg{}) }

// post forwards one event without blocking. Engine callbacks must not
// wait on the program loop, so when the buffer is full the event is
// dropped.
func post(ch chan<- tea.Msg, msg tea.Msg) {
	select {
	case ch <- msg:
	default:
	}
}

func newInteractiveModel(libPath, circuit string, logger *zap.Logger) *interactiveModel {
	input := textinput.New()
	input.Placeholder = "engine command"
	input.Prompt = "spice> "
	input.Focus()

	filter := textinput.New()
	filter.Placeholder = "filter vectors"
	filter.Prompt = "/ "

	return &interactiveModel{
		libPath: libPath,
		circuit: circuit,
		logger:  logger,
		events:  make(chan tea.Msg, 256),
		input:   input,
		filter:  filter,
		bar:     progress.New(progress.WithDefaultGradient()),
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return tea.Batch(m.openEngine, m.listen)
}

// openEngine attaches the runtime with callbacks routed through the
// event channel, then sources the optional startup circuit.
func (m *interactiveModel) openEngine() tea.Msg {
	opts := []runtime.Option{
		runtime.WithLogger(m.logger),
		runtime.WithMessageSink(channelSink{ch: m.events}),
		runtime.WithProgress(channelRenderer{ch: m.events}),
	}
	if m.libPath != "" {
		opts = append(opts, runtime.WithLibraryPath(m.libPath))
	}
	rt, err := runtime.Open(opts...)
	if err != nil {
		return engineReadyMsg{err: err}
	}
	if m.circuit != "" {
		if err := rt.Source(m.circuit); err != nil {
			rt.Close()
			return engineReadyMsg{err: err}
		}
	}
	return engineReadyMsg{rt: rt}
}

// listen pumps one callback event into the program; it is re-armed on
// every event it delivers.
func (m *interactiveModel) listen() tea.Msg {
	return <-m.events
}

func (m *interactiveModel) dispatch(cmd string) tea.Cmd {
	rt := m.rt
	return func() tea.Msg {
		return dispatchDoneMsg{err: rt.Command(cmd)}
	}
}

func (m *interactiveModel) queryVectors() tea.Cmd {
	rt := m.rt
	return func() tea.Msg {
		names, err := rt.Vectors("")
		return vectorsMsg{names: names, err: err}
	}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			if m.rt != nil {
				m.rt.Close()
			}
			return m, tea.Quit

		case "ctrl+b":
			if m.state == statePrompt && m.rt != nil && !m.busy {
				m.state = stateBrowse
				m.filter.SetValue("")
				m.filter.Focus()
				m.input.Blur()
				m.selected = 0
				m.busy = true
				return m, m.queryVectors()
			}

		case "esc":
			if m.state == stateBrowse {
				m.backToPrompt()
				return m, nil
			}

		case "up", "ctrl+p":
			if m.state == stateBrowse && m.selected > 0 {
				m.selected--
				return m, nil
			}

		case "down", "ctrl+n":
			if m.state == stateBrowse && m.selected < len(m.matches)-1 {
				m.selected++
				return m, nil
			}

		case "enter":
			switch m.state {
			case statePrompt:
				cmd := strings.TrimSpace(m.input.Value())
				if cmd == "" || m.rt == nil || m.busy {
					return m, nil
				}
				m.input.SetValue("")
				m.appendLine("spice> " + cmd)
				m.busy = true
				return m, m.dispatch(cmd)
			case stateBrowse:
				if m.selected < len(m.matches) {
					name := m.matches[m.selected]
					value := m.input.Value()
					if value != "" && !strings.HasSuffix(value, " ") {
						value += " "
					}
					m.input.SetValue(value + name)
					m.input.CursorEnd()
				}
				m.backToPrompt()
				return m, nil
			}
		}

	case engineReadyMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.rt = msg.rt
		return m, nil

	case consoleMsg:
		m.appendLine(string(msg))
		return m, m.listen

	case progressStartMsg:
		m.running = true
		m.runLabel = string(msg)
		m.runPercent = 0
		return m, m.listen

	case progressSetMsg:
		m.runPercent = float64(msg)
		return m, m.listen

	case progressDoneMsg:
		m.running = false
		return m, m.listen

	case dispatchDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.appendLine("! " + msg.err.Error())
		}
		return m, nil

	case vectorsMsg:
		m.busy = false
		if msg.err != nil {
			m.appendLine("! " + msg.err.Error())
			m.backToPrompt()
			return m, nil
		}
		m.vectors = msg.names
		m.refilter()
		return m, nil
	}

	var cmd tea.Cmd
	switch m.state {
	case statePrompt:
		m.input, cmd = m.input.Update(msg)
	case stateBrowse:
		m.filter, cmd = m.filter.Update(msg)
		m.refilter()
	}
	return m, cmd
}

func (m *interactiveModel) backToPrompt() {
	m.state = statePrompt
	m.filter.Blur()
	m.input.Focus()
}

func (m *interactiveModel) appendLine(line string) {
	m.lines = append(m.lines, line)
	if len(m.lines) > scrollbackLimit {
		m.lines = m.lines[len(m.lines)-scrollbackLimit:]
	}
}

func (m *interactiveModel) refilter() {
	pattern := m.filter.Value()
	if pattern == "" {
		m.matches = m.vectors
	} else {
		results := fuzzy.Find(pattern, m.vectors)
		m.matches = make([]string, len(results))
		for i, r := range results {
			m.matches[i] = r.Str
		}
	}
	if m.selected >= len(m.matches) {
		m.selected = 0
	}
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("spicerun"))
	if m.circuit != "" {
		b.WriteString(" ")
		b.WriteString(m.circuit)
	}
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("ctrl+c quit"))
		return b.String()
	}
	if m.rt == nil {
		b.WriteString("Attaching engine...\n")
		return b.String()
	}

	switch m.state {
	case statePrompt:
		start := len(m.lines) - consoleWindow
		if start < 0 {
			start = 0
		}
		for _, line := range m.lines[start:] {
			b.WriteString(consoleStyle.Render(line))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		if m.running {
			b.WriteString(m.runLabel)
			b.WriteString(" ")
			b.WriteString(m.bar.ViewAs(m.runPercent / 100))
			b.WriteString("\n")
		}
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter dispatch • ctrl+b vectors • ctrl+c quit"))

	case stateBrowse:
		b.WriteString("Vectors of the current plot:\n\n")
		b.WriteString(m.filter.View())
		b.WriteString("\n\n")
		if len(m.matches) == 0 {
			b.WriteString(helpStyle.Render("no matches"))
			b.WriteString("\n")
		}
		start := 0
		if m.selected >= browseWindow {
			start = m.selected - browseWindow + 1
		}
		end := start + browseWindow
		if end > len(m.matches) {
			end = len(m.matches)
		}
		for i := start; i < end; i++ {
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + m.matches[i]))
			} else {
				b.WriteString("  " + vectorStyle.Render(m.matches[i]))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter insert • esc back"))
	}

	return b.String()
}

func runInteractive(libPath, circuit string, logger *zap.Logger) error {
	p := tea.NewProgram(newInteractiveModel(libPath, circuit, logger), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
