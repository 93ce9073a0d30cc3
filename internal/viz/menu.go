package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/rodsim/internal/config"
	"github.com/san-kum/rodsim/internal/experiment"
)

var presetInfo = map[string]string{
	"resting": "rod lying on the floor",
	"drop":    "horizontal rod falling onto the floor",
	"incline": "static friction on a 10° slope",
	"push":    "sideways shove against lateral friction",
	"crawl":   "stretch wave on anisotropic friction",
}

var (
	menuTitle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	menuCursor   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	menuSelected = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	menuDesc     = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	menuDim      = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	menuKey      = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
)

// Menu lists the presets and opens the chosen one in a LiveModel.
type Menu struct {
	presets []string
	cursor  int
	live    *LiveModel
	err     error
}

func NewMenu() *Menu {
	return &Menu{presets: config.ListPresets()}
}

func (m *Menu) Init() tea.Cmd { return nil }

func (m *Menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.live != nil {
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
			m.live = nil
			return m, nil
		}
		_, cmd := m.live.Update(msg)
		return m, cmd
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		return m, m.start(m.presets[m.cursor])
	}
	return m, nil
}

func (m *Menu) start(name string) tea.Cmd {
	exp := experiment.New(config.GetPreset(name))
	if err := exp.Setup(); err != nil {
		m.err = err
		return nil
	}
	m.err = nil
	m.live = NewLiveModel(exp)
	return m.live.Init()
}

func (m *Menu) View() string {
	if m.live != nil {
		return m.live.View()
	}

	var b strings.Builder
	b.WriteString("\n\n    " + menuTitle.Render("RODSIM") + "\n    " + menuDim.Render("rod contact and friction") + "\n    " + menuDim.Render("─────────────────────────") + "\n\n")
	for i, name := range m.presets {
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", menuCursor.Render("▸"), menuSelected.Render(fmt.Sprintf("%-10s", name)), menuDesc.Render(presetInfo[name])))
		} else {
			b.WriteString(fmt.Sprintf("      %s  %s\n", menuDim.Render(fmt.Sprintf("%-10s", name)), menuDim.Render(presetInfo[name])))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + StatusError.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + menuKey.Render("j/k") + menuDim.Render(" navigate  ") + menuKey.Render("enter") + menuDim.Render(" select  ") + menuKey.Render("esc") + menuDim.Render(" back  ") + menuKey.Render("q") + menuDim.Render(" quit") + "\n")
	return b.String()
}

// RunMenu opens the preset picker.
func RunMenu() error {
	_, err := tea.NewProgram(NewMenu(), tea.WithAltScreen()).Run()
	return err
}
