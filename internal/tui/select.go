package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Rows above the first text line and columns left of it.
const (
	headerHeight = 2
	gutterWidth  = 2
	footerHeight = 3
)

// DefaultDoubleClick is the longest gap between two clicks of a double-click.
const DefaultDoubleClick = 400 * time.Millisecond

// WordSeeker finds the word around a character offset.
type WordSeeker interface {
	SeekWord(text string, offset int) (start, length int)
}

// Options configures a SelectModel.
type Options struct {
	Title       string
	Seeker      WordSeeker
	Copy        func(text string) error
	Open        func(ctx context.Context, rawURL string) error
	Logger      *slog.Logger
	DoubleClick time.Duration
	Now         func() time.Time
}

// Selection is a word chosen in one line, in rune offsets.
type Selection struct {
	Row    int
	Start  int
	Length int
}

type click struct {
	at   time.Time
	x, y int
}

type copiedMsg struct {
	text string
	err  error
}

type openedMsg struct {
	url string
	err error
}

var (
	lineStyle      = lipgloss.NewStyle()
	highlightStyle = lipgloss.NewStyle().Background(lipgloss.Color("170")).Foreground(lipgloss.Color("230"))
	cursorStyle    = lipgloss.NewStyle().Reverse(true)
	gutterStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("170")).Bold(true)
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("170"))
	helpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// SelectModel shows lines of text and selects words the way a terminal
// does on double-click.
type SelectModel struct {
	opts  Options
	lines []string

	row, col int
	top      int
	width    int
	height   int

	selection *Selection
	lastClick click

	input   textinput.Model
	editing bool

	status    string
	statusErr bool
}

// NewSelectModel creates a selection view over lines.
func NewSelectModel(lines []string, opts Options) SelectModel {
	if opts.Title == "" {
		opts.Title = "quillkit select"
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.DoubleClick <= 0 {
		opts.DoubleClick = DefaultDoubleClick
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	ti := textinput.New()
	ti.Placeholder = "type a line to try"
	ti.Prompt = "> "
	ti.CharLimit = 512

	if len(lines) == 0 {
		lines = []string{""}
	}

	return SelectModel{
		opts:   opts,
		lines:  lines,
		input:  ti,
		status: "double-click a word",
	}
}

// Selection returns the current selection, or nil.
func (m SelectModel) Selection() *Selection { return m.selection }

// SelectedText returns the selected characters.
func (m SelectModel) SelectedText() string {
	if m.selection == nil {
		return ""
	}
	runes := []rune(m.lines[m.selection.Row])
	return string(runes[m.selection.Start : m.selection.Start+m.selection.Length])
}

// Cursor returns the keyboard cursor as line and rune offset.
func (m SelectModel) Cursor() (row, col int) { return m.row, m.col }

// Lines returns the lines being shown.
func (m SelectModel) Lines() []string { return m.lines }

func (m SelectModel) Init() tea.Cmd {
	return nil
}

func (m SelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.scrollToCursor()
		return m, nil

	case copiedMsg:
		if msg.err != nil {
			m.setError(fmt.Sprintf("copy failed: %v", msg.err))
		} else {
			m.setStatus(fmt.Sprintf("copied %q", msg.text))
		}
		return m, nil

	case openedMsg:
		if msg.err != nil {
			m.setError(fmt.Sprintf("open failed: %v", msg.err))
		} else {
			m.setStatus("opened " + msg.url)
		}
		return m, nil

	case tea.MouseMsg:
		if m.editing {
			return m, nil
		}
		return m.handleMouse(msg)

	case tea.KeyMsg:
		if m.editing {
			return m.handleInputKey(msg)
		}
		return m.handleKey(msg)
	}

	return m, nil
}

func (m SelectModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}

	now := m.opts.Now()
	elapsed := now.Sub(m.lastClick.at)
	double := !m.lastClick.at.IsZero() &&
		elapsed >= 0 && elapsed <= m.opts.DoubleClick &&
		m.lastClick.x == msg.X && m.lastClick.y == msg.Y

	if !double {
		m.lastClick = click{at: now, x: msg.X, y: msg.Y}
		m.selection = nil
		return m, nil
	}
	m.lastClick = click{}

	row := m.top + msg.Y - headerHeight
	if row < 0 || row >= len(m.lines) {
		return m, nil
	}
	offset, ok := OffsetAtColumn(m.lines[row], msg.X-gutterWidth)
	if !ok {
		m.selection = nil
		m.setStatus("nothing to select there")
		return m, nil
	}

	m.row, m.col = row, offset
	m.selectAtCursor()
	return m, nil
}

func (m SelectModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "up", "k":
		if m.row > 0 {
			m.row--
			m.clampCol()
		}

	case "down", "j":
		if m.row < len(m.lines)-1 {
			m.row++
			m.clampCol()
		}

	case "left", "h":
		if m.col > 0 {
			m.col--
		}

	case "right", "l":
		if m.col < utf8.RuneCountInString(m.lines[m.row])-1 {
			m.col++
		}

	case "home", "0":
		m.col = 0

	case "end", "$":
		m.col = utf8.RuneCountInString(m.lines[m.row]) - 1
		m.clampCol()

	case "enter", " ":
		m.selectAtCursor()

	case "esc":
		m.selection = nil
		m.setStatus("selection cleared")

	case "y":
		return m, m.copySelection()

	case "o":
		return m, m.openSelection()

	case "i", "/":
		m.editing = true
		m.input.SetValue("")
		m.input.Focus()
		return m, textinput.Blink
	}

	m.scrollToCursor()
	return m, nil
}

func (m SelectModel) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		m.editing = false
		m.input.Blur()
		return m, nil

	case "enter":
		line := ExpandTabs(m.input.Value())
		m.editing = false
		m.input.Blur()
		if strings.TrimSpace(line) == "" {
			return m, nil
		}
		m.lines = append(m.lines, line)
		m.row = len(m.lines) - 1
		m.col = 0
		m.selection = nil
		m.setStatus("line added")
		m.scrollToCursor()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *SelectModel) selectAtCursor() {
	line := m.lines[m.row]
	n := utf8.RuneCountInString(line)
	if m.col >= n {
		m.selection = nil
		m.setStatus("nothing to select there")
		return
	}

	start, length := m.opts.Seeker.SeekWord(line, m.col)
	if start < 0 || length < 1 || start+length > n {
		start, length = m.col, 1
	}
	m.selection = &Selection{Row: m.row, Start: start, Length: length}
	m.setStatus(fmt.Sprintf("selected %q at %d+%d", m.SelectedText(), start, length))
	m.opts.Logger.Debug("word selected", "row", m.row, "offset", m.col, "start", start, "length", length)
}

func (m SelectModel) copySelection() tea.Cmd {
	text := m.SelectedText()
	if text == "" || m.opts.Copy == nil {
		return nil
	}
	copyFn := m.opts.Copy
	return func() tea.Msg {
		return copiedMsg{text: text, err: copyFn(text)}
	}
}

func (m SelectModel) openSelection() tea.Cmd {
	text := m.SelectedText()
	if text == "" || m.opts.Open == nil {
		return nil
	}
	open := m.opts.Open
	return func() tea.Msg {
		return openedMsg{url: text, err: open(context.Background(), text)}
	}
}

func (m *SelectModel) clampCol() {
	n := utf8.RuneCountInString(m.lines[m.row])
	if m.col > n-1 {
		m.col = n - 1
	}
	if m.col < 0 {
		m.col = 0
	}
}

func (m *SelectModel) visibleRows() int {
	if m.height <= 0 {
		return len(m.lines)
	}
	rows := m.height - headerHeight - footerHeight
	if m.editing {
		rows--
	}
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (m *SelectModel) scrollToCursor() {
	rows := m.visibleRows()
	if m.row < m.top {
		m.top = m.row
	}
	if m.row >= m.top+rows {
		m.top = m.row - rows + 1
	}
}

func (m *SelectModel) setStatus(s string) {
	m.status, m.statusErr = s, false
}

func (m *SelectModel) setError(s string) {
	m.status, m.statusErr = s, true
	m.opts.Logger.Warn(s)
}

func (m SelectModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.opts.Title))
	b.WriteString("\n\n")

	end := m.top + m.visibleRows()
	if end > len(m.lines) {
		end = len(m.lines)
	}
	for row := m.top; row < end; row++ {
		if row == m.row {
			b.WriteString(gutterStyle.Render("▶ "))
		} else {
			b.WriteString("  ")
		}
		b.WriteString(m.renderLine(row))
		b.WriteString("\n")
	}

	if m.editing {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.statusErr {
		b.WriteString(errorStyle.Render(m.status))
	} else {
		b.WriteString(statusStyle.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("double-click/enter: select • y: copy • o: open • i: add line • esc: clear • q: quit"))

	return b.String()
}

func (m SelectModel) renderLine(row int) string {
	runes := []rune(m.lines[row])

	if m.selection != nil && m.selection.Row == row {
		s := m.selection
		return lineStyle.Render(string(runes[:s.Start])) +
			highlightStyle.Render(string(runes[s.Start:s.Start+s.Length])) +
			lineStyle.Render(string(runes[s.Start+s.Length:]))
	}

	if row != m.row {
		return lineStyle.Render(string(runes))
	}
	if len(runes) == 0 {
		return cursorStyle.Render(" ")
	}
	return lineStyle.Render(string(runes[:m.col])) +
		cursorStyle.Render(string(runes[m.col])) +
		lineStyle.Render(string(runes[m.col+1:]))
}

// Run shows lines in a full-screen view with mouse reporting enabled.
func Run(lines []string, opts Options, progOpts ...tea.ProgramOption) error {
	progOpts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithMouseCellMotion()}, progOpts...)
	p := tea.NewProgram(NewSelectModel(lines, opts), progOpts...)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("selection view failed: %w", err)
	}
	return nil
}
