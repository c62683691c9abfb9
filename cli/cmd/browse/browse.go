// Package browse implements an interactive fuzzy finder over loaded pairs.
package browse

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/dotenv/envfile"
	"github.com/ardnew/dotenv/log"
)

const (
	prompt        = "➜ "
	defaultWidth  = 80
	defaultHeight = 12
	// chromeLines is the number of lines besides the match list: the input
	// line and the status line.
	chromeLines = 2
)

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	keyStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Bold(true)
	valueStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	hintStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	selectedStyle  = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

// Run shows the keys of m in an interactive fuzzy finder and returns the key
// the user selected. An empty key with a nil error means the user cancelled.
func Run(ctx context.Context, m envfile.Map, logger log.Logger) (string, error) {
	logger.TraceContext(ctx, "browse start", slog.Int("pairs", len(m)))

	p := tea.NewProgram(newModel(ctx, m, logger), tea.WithContext(ctx))

	final, err := p.Run()
	if err != nil {
		return "", err
	}

	fm, ok := final.(model)
	if !ok {
		return "", nil
	}

	chosen := fm.chosen

	logger.TraceContext(ctx, "browse done", slog.String("key", chosen))

	return chosen, nil
}

// model is the Bubble Tea model for the finder.
type model struct {
	ctxFunc  func() context.Context
	logger   log.Logger
	pairs    envfile.Map
	input    textinput.Model
	keys     []string      // sorted candidate keys
	matches  fuzzy.Matches // keys matching the current query, best first
	chosen   string
	cursor   int // index into matches
	width    int
	height   int
	quitting bool
}

func newModel(ctx context.Context, m envfile.Map, logger log.Logger) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(prompt)
	ti.Placeholder = "type to filter keys"
	ti.Focus()
	ti.Width = defaultWidth

	mod := model{
		ctxFunc: func() context.Context { return ctx },
		logger:  logger,
		pairs:   m,
		input:   ti,
		keys:    m.Keys(),
		width:   defaultWidth,
		height:  defaultHeight,
	}
	mod.refresh()

	return mod
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - len(prompt) - 2

		return m, nil
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctxFunc(), "browse keypress",
		slog.String("key", msg.String()),
	)

	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.quitting = true

		return m, tea.Quit

	case tea.KeyEnter:
		if len(m.matches) == 0 {
			return m, nil
		}

		m.chosen = m.matches[m.cursor].Str
		m.quitting = true

		return m, tea.Quit

	case tea.KeyUp, tea.KeyCtrlP:
		if m.cursor > 0 {
			m.cursor--
		}

		return m, nil

	case tea.KeyDown, tea.KeyCtrlN:
		if m.cursor < len(m.matches)-1 {
			m.cursor++
		}

		return m, nil
	}

	var cmd tea.Cmd

	before := m.input.Value()
	m.input, cmd = m.input.Update(msg)

	if m.input.Value() != before {
		m.refresh()
	}

	return m, cmd
}

// refresh recomputes the matches for the current query and resets the cursor.
func (m *model) refresh() {
	m.cursor = 0

	query := m.input.Value()
	if query == "" {
		m.matches = make(fuzzy.Matches, len(m.keys))
		for i, k := range m.keys {
			m.matches[i] = fuzzy.Match{Str: k, Index: i}
		}

		return
	}

	m.matches = fuzzy.Find(query, m.keys)
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")

	rows := max(m.height-chromeLines, 1)

	// Scroll so the cursor stays visible.
	first := max(m.cursor-rows+1, 0)
	last := min(first+rows, len(m.matches))

	for i := first; i < last; i++ {
		b.WriteString(m.renderMatch(m.matches[i], i == m.cursor))
		b.WriteString("\n")
	}

	b.WriteString(hintStyle.Render(
		fmt.Sprintf("%d/%d  ↑/↓ select  enter print  esc quit", len(m.matches), len(m.keys)),
	))

	return b.String()
}

// renderMatch renders one key with its matched characters highlighted,
// followed by its value truncated to the terminal width.
func (m model) renderMatch(match fuzzy.Match, selected bool) string {
	if selected {
		return selectedStyle.Render(truncate(match.Str+"="+m.pairs[match.Str], m.width))
	}

	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matched[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matched[i] {
			b.WriteString(highlightStyle.Render(string(r)))
		} else {
			b.WriteString(keyStyle.Render(string(r)))
		}
	}

	b.WriteString("=")

	room := m.width - len(match.Str) - 1
	b.WriteString(valueStyle.Render(truncate(m.pairs[match.Str], room)))

	return b.String()
}

// truncate shortens s to at most width runes, marking the cut with an
// ellipsis. Control characters are escaped as in an env file, without the
// surrounding quotes, so a value occupies one line.
func truncate(s string, width int) string {
	if q := envfile.Quote(s); q != s {
		s = q[1 : len(q)-1]
	}

	if width <= 0 {
		return ""
	}

	r := []rune(s)
	if len(r) <= width {
		return s
	}

	if width == 1 {
		return "…"
	}

	return string(r[:width-1]) + "…"
}
