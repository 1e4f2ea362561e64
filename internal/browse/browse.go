// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package browse

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tidwall/gjson"
	"golang.org/x/term"

	"github.com/tfctl/nodectl/internal/attrs"
	"github.com/tfctl/nodectl/internal/log"
	"github.com/tfctl/nodectl/internal/output"
	"github.com/tfctl/nodectl/internal/store"
)

// ErrNotTerminal is returned when browse runs without a terminal.
var ErrNotTerminal = errors.New("browse needs an interactive terminal")

const defaultHeight = 20

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	cursorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f6be00"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00c8f0"))
	helpStyle     = lipgloss.NewStyle().Faint(true)
)

// Result is what the user picked.
type Result struct {
	Search   string
	Active   string
	Selected []string
}

type options struct {
	search  string
	columns attrs.AttrList
	in      io.Reader
	out     io.Writer
}

// Option customizes a browse session.
type Option func(*options)

// WithSearch pre-fills the search box.
func WithSearch(search string) Option {
	return func(o *options) { o.search = search }
}

// WithColumns sets the attributes shown for each record.
func WithColumns(columns attrs.AttrList) Option {
	return func(o *options) { o.columns = columns }
}

// WithIO replaces the terminal, mostly for tests.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(o *options) {
		o.in = in
		o.out = out
	}
}

// Model is the bubbletea model of a browse session.
type Model struct {
	store   *store.Store
	columns attrs.AttrList
	input   textinput.Model
	results []gjson.Result
	cursor  int
	height  int
	done    bool
	aborted bool
}

// New returns a model over st.
func New(st *store.Store, opts ...Option) Model {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	input := textinput.New()
	input.Placeholder = "status:(deployed) tags:!virtual ..."
	input.Prompt = "search> "
	input.CharLimit = 256
	input.SetValue(o.search)
	input.Focus()

	m := Model{
		store:   st,
		columns: o.columns.Included(),
		input:   input,
		height:  defaultHeight,
	}
	m.refresh()
	return m
}

// Run starts an interactive session and returns the user's picks.
func Run(ctx context.Context, st *store.Store, opts ...Option) (Result, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	programOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if o.in != nil || o.out != nil {
		programOpts = append(programOpts, tea.WithInput(o.in), tea.WithOutput(o.out))
	} else {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return Result{}, ErrNotTerminal
		}
		// Records may have been piped in, so keys come from the tty.
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			programOpts = append(programOpts, tea.WithInputTTY())
		}
	}

	final, err := tea.NewProgram(New(st, opts...), programOpts...).Run()
	if err != nil {
		return Result{}, fmt.Errorf("browse failed: %w", err)
	}

	m := final.(Model)
	res := Result{Search: m.input.Value(), Selected: st.Selected()}
	if active, ok := st.Active(); ok {
		res.Active = st.Accessor().PrimaryKey(active)
	}
	log.Debugf("browse done: aborted=%v, active=%s, selected=%d", m.aborted, res.Active, len(res.Selected))
	return res, nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-6, 1)
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.aborted = true
			m.done = true
			return m, tea.Quit
		case tea.KeyUp:
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case tea.KeyDown:
			if m.cursor < len(m.results)-1 {
				m.cursor++
			}
			return m, nil
		case tea.KeyTab:
			if id, ok := m.current(); ok {
				m.store.ToggleSelected(id)
				m.refresh()
			}
			return m, nil
		case tea.KeyEnter:
			if id, ok := m.current(); ok {
				m.store.SetActive(id)
			}
			m.done = true
			return m, tea.Quit
		}
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.refresh()
	}
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(titleStyle.Render(fmt.Sprintf("%d of %d %s records, %d selected",
		len(m.results), m.store.Len(), m.store.Kind().Name, len(m.store.Selected()))))
	b.WriteString("\n\n")

	selected := m.store.Selected()
	start := 0
	if m.cursor >= m.height {
		start = m.cursor - m.height + 1
	}
	end := min(start+m.height, len(m.results))
	for i := start; i < end; i++ {
		record := m.results[i]
		id := m.store.Accessor().PrimaryKey(record)

		mark := " "
		if slices.Contains(selected, id) {
			mark = "x"
		}
		line := fmt.Sprintf("[%s] %s", mark, m.summary(record))
		switch {
		case i == m.cursor:
			line = cursorStyle.Render("> " + line)
		case mark == "x":
			line = selectedStyle.Render("  " + line)
		default:
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("\nUP/DOWN: move, TAB: toggle selection, ENTER: pick, ESC: quit"))
	b.WriteString("\n")
	return b.String()
}

// Results returns the records matching the current search.
func (m Model) Results() []gjson.Result {
	return m.results
}

func (m *Model) refresh() {
	m.results = m.store.Search(m.input.Value())
	if m.cursor >= len(m.results) {
		m.cursor = max(len(m.results)-1, 0)
	}
}

func (m Model) current() (string, bool) {
	if m.cursor >= len(m.results) {
		return "", false
	}
	return m.store.Accessor().PrimaryKey(m.results[m.cursor]), true
}

// summary renders the configured columns of a record, or its primary key.
func (m Model) summary(record gjson.Result) string {
	accessor := m.store.Accessor()
	if len(m.columns) == 0 {
		return accessor.PrimaryKey(record)
	}
	parts := make([]string, 0, len(m.columns))
	for _, col := range m.columns {
		value := col.Transform(accessor.Value(record, col.Key))
		parts = append(parts, output.InterfaceToString(value, "-"))
	}
	return strings.Join(parts, "  ")
}
