package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// Asker answers a question given the prior conversation.
type Asker interface {
	Ask(ctx context.Context, history []string, question string) (string, error)
}

// Options configures the panel.
type Options struct {
	// History seeds the conversation with alternating user and assistant
	// turns.
	History []string
	// Title is shown above the conversation.
	Title string
}

type answerMsg struct {
	question string
	answer   string
	err      error
}

type styles struct {
	title     lipgloss.Style
	question  lipgloss.Style
	answer    lipgloss.Style
	errorText lipgloss.Style
	help      lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		title: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Background(lipgloss.Color("#7C3AED")).
			Padding(0, 1).
			Bold(true),
		question: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true).
			Align(lipgloss.Right),
		answer: lipgloss.NewStyle().
			PaddingLeft(1).
			BorderLeft(true).
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(lipgloss.Color("#10B981")),
		errorText: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444")).
			Bold(true),
		help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280")),
	}
}

// Model is the bubbletea model of the chat panel.
type Model struct {
	ctx      context.Context
	asker    Asker
	title    string
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	md       *glamour.TermRenderer
	styles   styles

	history []string
	entries []string
	waiting bool
	width   int
}

// New creates a chat model that sends questions to asker.
func New(ctx context.Context, asker Asker, opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = "Ask about the last review... (Enter to send, Esc to quit)"
	ti.Prompt = "│ "
	ti.CharLimit = 4096
	ti.Width = 80
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	title := opts.Title
	if title == "" {
		title = "unprompted chat"
	}

	m := Model{
		ctx:      ctx,
		asker:    asker,
		title:    title,
		input:    ti,
		viewport: viewport.New(80, 20),
		spinner:  sp,
		styles:   defaultStyles(),
		history:  append([]string(nil), opts.History...),
		width:    80,
	}
	m.md = newRenderer(m.width)
	for i, turn := range m.history {
		if i%2 == 0 {
			m.entries = append(m.entries, m.renderQuestion(turn))
		} else {
			m.entries = append(m.entries, m.renderAnswer(turn))
		}
	}
	m.refresh()
	return m
}

func newRenderer(width int) *glamour.TermRenderer {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	return r
}

// History returns the conversation as alternating user and assistant turns.
func (m Model) History() []string {
	return append([]string(nil), m.history...)
}

// Waiting reports whether a question is in flight.
func (m Model) Waiting() bool {
	return m.waiting
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			return m.submit()
		}
		if !m.waiting {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		headerHeight, inputHeight := 2, 3
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-headerHeight-inputHeight, 1)
		m.input.Width = max(msg.Width-4, 10)
		m.md = newRenderer(max(msg.Width-4, 20))
		m.refresh()

	case spinner.TickMsg:
		if m.waiting {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case answerMsg:
		m.waiting = false
		if msg.err != nil {
			m.entries = append(m.entries, m.styles.errorText.Render("error: "+msg.err.Error()))
		} else {
			m.history = append(m.history, msg.question, msg.answer)
			m.entries = append(m.entries, m.renderAnswer(msg.answer))
		}
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	question := strings.TrimSpace(m.input.Value())
	if question == "" || m.waiting {
		return m, nil
	}
	m.input.Reset()
	m.waiting = true
	m.entries = append(m.entries, m.renderQuestion(question))
	m.refresh()
	return m, tea.Batch(m.ask(question), m.spinner.Tick)
}

func (m Model) ask(question string) tea.Cmd {
	history := m.History()
	ctx, asker := m.ctx, m.asker
	return func() tea.Msg {
		answer, err := asker.Ask(ctx, history, question)
		return answerMsg{question: question, answer: answer, err: err}
	}
}

func (m Model) renderQuestion(q string) string {
	return m.styles.question.Width(m.width).Render(q)
}

func (m Model) renderAnswer(a string) string {
	body := a
	if m.md != nil {
		if out, err := m.md.Render(a); err == nil {
			body = strings.TrimRight(out, "\n")
		}
	}
	return m.styles.answer.Render(body)
}

func (m *Model) refresh() {
	m.viewport.SetContent(strings.Join(m.entries, "\n\n"))
	m.viewport.GotoBottom()
}

func (m Model) View() string {
	status := m.styles.help.Render("Enter to send · Esc to quit")
	if m.waiting {
		status = fmt.Sprintf("%s %s", m.spinner.View(), m.styles.help.Render("thinking..."))
	}
	return fmt.Sprintf("%s\n%s\n%s\n%s",
		m.styles.title.Render(m.title),
		m.viewport.View(),
		status,
		m.input.View(),
	)
}

// Run opens the panel on the terminal and blocks until the user quits.
func Run(ctx context.Context, asker Asker, opts Options) ([]string, error) {
	p := tea.NewProgram(New(ctx, asker, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("running chat: %w", err)
	}
	if m, ok := final.(Model); ok {
		return m.History(), nil
	}
	return nil, nil
}
