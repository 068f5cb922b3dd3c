package main

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/PatchedDragon/Parser/syntax"
)

func newREPLCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Parse notation lines interactively",
		Long: `Starts an interactive session. Each line is notation such as
"int x = 5 ;" and is parsed together with every earlier accepted line, so
declarations carry over. Lines that produce diagnostics are rejected.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runREPL(newREPLModel(c.theme(), c.logger))
		},
	}
}

type historyEntry struct {
	input  string
	output string
	isErr  bool
}

type replModel struct {
	textInput textinput.Model
	theme     theme
	logger    *slog.Logger

	// accepted holds every line that parsed cleanly; each evaluation
	// reparses them with the new line appended.
	accepted       []string
	statementCount int
	symbols        *syntax.SymbolTable

	history     []historyEntry
	cmdHistory  []string
	historyIdx  int
	width       int
	height      int
	showHelp    bool
	showSymbols bool
	quitting    bool
	initialized bool
}

type keyMap struct {
	Up    key.Binding
	Down  key.Binding
	Enter key.Binding
	CtrlC key.Binding
	CtrlD key.Binding
	CtrlL key.Binding
	Tab   key.Binding
	CtrlS key.Binding
	CtrlK key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up"),
		key.WithHelp("↑", "previous line"),
	),
	Down: key.NewBinding(
		key.WithKeys("down"),
		key.WithHelp("↓", "next line"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "parse"),
	),
	CtrlC: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
	CtrlD: key.NewBinding(
		key.WithKeys("ctrl+d"),
		key.WithHelp("ctrl+d", "quit"),
	),
	CtrlL: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("ctrl+l", "clear"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "autocomplete"),
	),
	CtrlS: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("ctrl+s", "toggle symbols"),
	),
	CtrlK: key.NewBinding(
		key.WithKeys("ctrl+k"),
		key.WithHelp("ctrl+k", "toggle help"),
	),
}

var completionWords = []string{"int", "float", "double", "char", "bool", "string"}

func newREPLModel(th theme, logger *slog.Logger) replModel {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	ti := textinput.New()
	ti.Placeholder = "int x = 5 ;"
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60
	ti.PromptStyle = th.header
	ti.Prompt = "parse> "

	return replModel{
		textInput:  ti,
		theme:      th,
		logger:     logger,
		accepted:   make([]string, 0),
		symbols:    syntax.NewSymbolTable(),
		history:    make([]historyEntry, 0),
		cmdHistory: make([]string, 0),
		historyIdx: -1,
	}
}

func (m replModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tea.EnterAltScreen)
}

func (m replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.textInput.Width = msg.Width - 10
		m.initialized = true
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.CtrlC), key.Matches(msg, keys.CtrlD):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.CtrlL):
			m.history = make([]historyEntry, 0)
			return m, nil

		case key.Matches(msg, keys.CtrlS):
			m.showSymbols = !m.showSymbols
			return m, nil

		case key.Matches(msg, keys.CtrlK):
			m.showHelp = !m.showHelp
			return m, nil

		case key.Matches(msg, keys.Up):
			if len(m.cmdHistory) > 0 {
				if m.historyIdx == -1 {
					m.historyIdx = len(m.cmdHistory) - 1
				} else if m.historyIdx > 0 {
					m.historyIdx--
				}
				m.textInput.SetValue(m.cmdHistory[m.historyIdx])
				m.textInput.CursorEnd()
			}
			return m, nil

		case key.Matches(msg, keys.Down):
			if m.historyIdx != -1 {
				if m.historyIdx < len(m.cmdHistory)-1 {
					m.historyIdx++
					m.textInput.SetValue(m.cmdHistory[m.historyIdx])
				} else {
					m.historyIdx = -1
					m.textInput.SetValue("")
				}
				m.textInput.CursorEnd()
			}
			return m, nil

		case key.Matches(msg, keys.Tab):
			m = m.handleAutocomplete()
			return m, nil

		case key.Matches(msg, keys.Enter):
			input := strings.TrimSpace(m.textInput.Value())
			if input == "" {
				return m, nil
			}

			if strings.HasPrefix(input, ":") {
				var cmd tea.Cmd
				m, cmd = m.handleCommand(input)
				m.textInput.SetValue("")
				m.historyIdx = -1
				return m, cmd
			}

			output, isErr := m.evaluate(input)
			m.history = append(m.history, historyEntry{
				input:  input,
				output: output,
				isErr:  isErr,
			})
			m.cmdHistory = append(m.cmdHistory, input)
			m.textInput.SetValue("")
			m.historyIdx = -1
			return m, nil
		}
	}

	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m replModel) handleCommand(input string) (replModel, tea.Cmd) {
	parts := strings.Fields(input)
	cmd := parts[0]

	switch cmd {
	case ":help", ":h":
		m.showHelp = !m.showHelp
	case ":clear", ":c":
		m.history = make([]historyEntry, 0)
	case ":symbols", ":s":
		m.showSymbols = !m.showSymbols
	case ":reset", ":r":
		m.accepted = make([]string, 0)
		m.statementCount = 0
		m.symbols = syntax.NewSymbolTable()
		m.history = append(m.history, historyEntry{
			input:  input,
			output: "Program reset",
		})
	case ":quit", ":q":
		m.quitting = true
		return m, tea.Quit
	default:
		m.history = append(m.history, historyEntry{
			input:  input,
			output: fmt.Sprintf("Unknown command: %s", cmd),
			isErr:  true,
		})
	}
	return m, nil
}

func (m replModel) handleAutocomplete() replModel {
	input := m.textInput.Value()
	words := strings.Fields(input)
	if len(words) == 0 || strings.HasSuffix(input, " ") {
		return m
	}
	lastWord := words[len(words)-1]

	var completions []string
	for _, word := range completionWords {
		if strings.HasPrefix(word, lastWord) {
			completions = append(completions, word)
		}
	}
	for _, sym := range m.symbols.Symbols() {
		if strings.HasPrefix(sym.Name, lastWord) {
			completions = append(completions, sym.Name)
		}
	}
	sort.Strings(completions)

	if len(completions) == 1 {
		prefix := strings.TrimSuffix(input, lastWord)
		m.textInput.SetValue(prefix + completions[0])
		m.textInput.CursorEnd()
	} else if len(completions) > 1 {
		m.history = append(m.history, historyEntry{
			output: "Completions: " + strings.Join(completions, ", "),
		})
	}
	return m
}

// evaluate parses the accepted lines plus input. The line is kept only if
// the whole program still parses without diagnostics.
func (m *replModel) evaluate(input string) (string, bool) {
	lines := append(append([]string{}, m.accepted...), input)
	source := strings.Join(lines, "\n")

	tokens, err := syntax.DecodeTokens(strings.NewReader(source), syntax.FormatNotation)
	if err != nil {
		return err.Error(), true
	}

	p := syntax.NewParser(tokens, syntax.Options{Logger: m.logger})
	program, errs := p.Parse()
	if len(errs) > 0 {
		msgs := make([]string, 0, len(errs))
		for _, err := range errs {
			msgs = append(msgs, syntax.FormatDiagnostic(err, source))
		}
		return strings.Join(msgs, "\n"), true
	}

	added := program.Statements[min(m.statementCount, len(program.Statements)):]
	m.accepted = lines
	m.statementCount = len(program.Statements)
	m.symbols = p.Symbols()

	if len(added) == 0 {
		return "(no statements)", false
	}
	out := make([]string, 0, len(added))
	for _, stmt := range added {
		out = append(out, stmt.String())
	}
	return strings.Join(out, "\n"), false
}

func (m replModel) View() string {
	if !m.initialized {
		return "Loading..."
	}

	th := m.theme
	if m.quitting {
		return th.muted.Render("Goodbye!\n")
	}

	var b strings.Builder

	b.WriteString(th.header.Padding(0, 1).Render("Parser REPL") + "\n")
	b.WriteString(th.muted.Render(strings.Repeat("─", max(min(m.width-2, 60), 0))) + "\n\n")

	reservedLines := 8
	if m.showHelp {
		reservedLines += 10
	}
	if m.showSymbols {
		reservedLines += m.symbols.Len() + 3
	}
	availableHeight := max(m.height-reservedLines, 0)

	historyStart := 0
	if len(m.history) > availableHeight {
		historyStart = len(m.history) - availableHeight
	}

	for i := historyStart; i < len(m.history); i++ {
		entry := m.history[i]
		if entry.input != "" {
			b.WriteString(th.muted.Render("  › ") + entry.input + "\n")
		}
		for _, line := range strings.Split(entry.output, "\n") {
			if entry.isErr {
				b.WriteString("  " + th.err.Render("✗ "+line) + "\n")
			} else {
				b.WriteString("  " + th.result.Render("→ "+line) + "\n")
			}
		}
		b.WriteString("\n")
	}

	if m.showSymbols {
		b.WriteString(m.renderSymbolsPanel())
		b.WriteString("\n")
	}

	if m.showHelp {
		b.WriteString(m.renderHelpPanel())
		b.WriteString("\n")
	}

	b.WriteString(m.textInput.View() + "\n\n")

	footer := th.highlight.Render("ctrl+k") + th.muted.Render(" help  ") +
		th.highlight.Render("ctrl+s") + th.muted.Render(" symbols  ") +
		th.highlight.Render("ctrl+l") + th.muted.Render(" clear  ") +
		th.highlight.Render("ctrl+c") + th.muted.Render(" quit")
	b.WriteString(footer)

	return b.String()
}

func (m replModel) renderSymbolsPanel() string {
	th := m.theme
	if m.symbols.Len() == 0 {
		return th.border.Render(th.muted.Render("No variables declared"))
	}
	lines := []string{th.header.Render("Symbols")}
	for _, line := range th.symbolLines(m.symbols.Symbols()) {
		lines = append(lines, "  "+line)
	}
	return th.border.Render(strings.Join(lines, "\n"))
}

func (m replModel) renderHelpPanel() string {
	th := m.theme
	help := []struct {
		key  string
		desc string
	}{
		{"↑/↓", "Navigate line history"},
		{"Tab", "Complete type keywords and declared names"},
		{"Enter", "Parse line"},
		{":help", "Toggle this help"},
		{":symbols", "Toggle symbol table"},
		{":clear", "Clear history"},
		{":reset", "Forget accepted lines"},
		{":quit", "Exit REPL"},
	}

	lines := []string{th.header.Render("Help")}
	for _, h := range help {
		lines = append(lines, fmt.Sprintf("  %s  %s",
			th.highlight.Render(fmt.Sprintf("%-9s", h.key)),
			th.muted.Render(h.desc)))
	}
	return th.border.Render(strings.Join(lines, "\n"))
}

func runREPL(model replModel) error {
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
