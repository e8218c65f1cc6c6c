// Package console provides an interactive terminal for exercising the
// toolset in-process, without an MCP client attached. Commands are
// "<tool> <json arguments>" plus a few colon commands.
package console

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kvit-s/filesmith/internal/tools"
)

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("136")).Bold(true)
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("160"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("70"))
)

// Model is the bubbletea model for the console.
type Model struct {
	registry  *tools.Registry
	workspace string
	input     textinput.Model
	output    viewport.Model
	history   []string
	ready     bool
	quitting  bool
}

// New creates a console bound to a tool registry.
func New(registry *tools.Registry, workspaceRoot string) Model {
	ti := textinput.New()
	ti.Placeholder = `tool {"arg": "value"}  (:tools lists tools, :quit exits)`
	ti.Prompt = "> "
	ti.PromptStyle = promptStyle
	ti.CharLimit = 0
	ti.Focus()

	return Model{
		registry:  registry,
		workspace: workspaceRoot,
		input:     ti,
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		inputHeight := 3
		if !m.ready {
			m.output = viewport.New(msg.Width, msg.Height-inputHeight)
			m.output.SetContent(m.banner())
			m.ready = true
		} else {
			m.output.Width = msg.Width
			m.output.Height = msg.Height - inputHeight
		}
		m.input.Width = msg.Width - 4

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "enter":
			line := strings.TrimSpace(m.input.Value())
			m.input.SetValue("")
			if line == "" {
				break
			}
			if line == ":quit" || line == ":q" {
				m.quitting = true
				return m, tea.Quit
			}
			m.history = append(m.history, promptStyle.Render("> "+line), m.execute(line), "")
			m.output.SetContent(m.banner() + "\n" + strings.Join(m.history, "\n"))
			m.output.GotoBottom()
		case "pgup":
			m.output.HalfViewUp()
		case "pgdown":
			m.output.HalfViewDown()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "loading..."
	}
	return m.output.View() + "\n\n" + m.input.View()
}

func (m Model) banner() string {
	return titleStyle.Render("filesmith console") + promptStyle.Render("  workspace: "+m.workspace)
}

// execute runs one console command and renders its result.
func (m Model) execute(line string) string {
	if line == ":tools" {
		var sb strings.Builder
		for _, def := range m.registry.Definitions() {
			sb.WriteString(okStyle.Render(def.Name))
			sb.WriteString("  " + def.Description + "\n")
		}
		return strings.TrimRight(sb.String(), "\n")
	}
	if strings.HasPrefix(line, ":") {
		return errorStyle.Render(fmt.Sprintf("unknown command %s", line))
	}

	name, rawArgs, _ := strings.Cut(line, " ")
	rawArgs = strings.TrimSpace(rawArgs)
	if rawArgs == "" {
		rawArgs = "{}"
	}
	if !json.Valid([]byte(rawArgs)) {
		return errorStyle.Render("arguments must be a JSON object")
	}

	tool := m.registry.Get(name)
	if tool == nil {
		return errorStyle.Render(fmt.Sprintf("unknown tool %q, :tools lists them", name))
	}

	result, err := tool.Call(context.Background(), json.RawMessage(rawArgs))
	if err != nil {
		return errorStyle.Render(fmt.Sprintf("%s failed: %v", name, err))
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return errorStyle.Render(err.Error())
	}
	return string(data)
}
