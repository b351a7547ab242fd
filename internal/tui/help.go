package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
)

type helpClosedMessage struct{}

// helpModel is the modal listing key bindings and mouse gestures.
type helpModel struct {
	help help.Model
}

func newHelpModel() *helpModel {
	h := help.New()
	h.ShowAll = true
	return &helpModel{help: h}
}

func (m *helpModel) Init() tea.Cmd {
	return nil
}

func (m *helpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" || msg.String() == "?" {
			return m, func() tea.Msg { return helpClosedMessage{} }
		}
	}
	return m, nil
}

func (m *helpModel) View() string {
	var s strings.Builder
	s.WriteString(titleStyle.Render("Keys"))
	s.WriteString("\n\n")
	s.WriteString(m.help.View(keys))
	s.WriteString("\n\n")
	s.WriteString(titleStyle.Render("Mouse"))
	s.WriteString("\n\n")
	s.WriteString("drag background   pan\n")
	s.WriteString("wheel             pan (shift: sideways)\n")
	s.WriteString("drag palette item add node, scrolls near edges")
	return modalStyle.Render(s.String())
}
