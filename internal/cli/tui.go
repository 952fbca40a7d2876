package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"archcanvas/pkg/diagram"
	"archcanvas/pkg/render"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// NodeInspectorModel - Interactive node browsing
// =============================================================================

// NodeInspectorModel is the bubbletea model for browsing a diagram's nodes.
// The left pane lists nodes; the right pane shows the selected node's
// payload, the same data a click on the canvas hands to the detail panel.
type NodeInspectorModel struct {
	Nodes  []render.Node
	Edges  []render.Edge
	Cursor int
	Height int
	Offset int
	Done   bool
}

// NewNodeInspectorModel creates an inspector over the adapted diagram.
func NewNodeInspectorModel(d diagram.Description) NodeInspectorModel {
	nodes, edges := render.Adapt(d)
	return NodeInspectorModel{
		Nodes:  nodes,
		Edges:  edges,
		Height: 15,
	}
}

func (m NodeInspectorModel) Init() tea.Cmd {
	return nil
}

func (m NodeInspectorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.Done = true
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Nodes)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		}
	case tea.WindowSizeMsg:
		if msg.Height > 6 {
			m.Height = msg.Height - 6
		}
	}
	return m, nil
}

func (m NodeInspectorModel) View() string {
	if m.Done {
		return ""
	}
	if len(m.Nodes) == 0 {
		return listDimStyle.Render("No nodes in this diagram.") + "\n"
	}

	var b strings.Builder
	b.WriteString(StyleTitle.Render("Nodes") + "\n\n")

	end := min(m.Offset+m.Height, len(m.Nodes))
	for i := m.Offset; i < end; i++ {
		n := m.Nodes[i]
		label := n.Data.Label
		if label == "" {
			label = n.ID
		}
		line := fmt.Sprintf("%s %s", label, listDimStyle.Render("("+n.Data.Type+")"))
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render("> "+line) + "\n")
		} else {
			b.WriteString(listNormalStyle.Render("  "+line) + "\n")
		}
	}

	b.WriteString("\n" + m.detailView())
	b.WriteString("\n" + listDimStyle.Render("↑/↓ navigate · q quit") + "\n")
	return b.String()
}

// detailView renders the selected node's payload.
func (m NodeInspectorModel) detailView() string {
	n := m.Nodes[m.Cursor]

	var b strings.Builder
	b.WriteString(StyleHighlight.Render(n.ID) + "\n")
	if n.Data.Description != "" {
		b.WriteString(StyleValue.Render(n.Data.Description) + "\n")
	}
	if len(n.Data.Inputs) > 0 {
		b.WriteString(listDimStyle.Render("inputs:  ") + StyleValue.Render(strings.Join(n.Data.Inputs, ", ")) + "\n")
	}
	if len(n.Data.Outputs) > 0 {
		b.WriteString(listDimStyle.Render("outputs: ") + StyleValue.Render(strings.Join(n.Data.Outputs, ", ")) + "\n")
	}

	degree := 0
	animated := 0
	for _, e := range m.Edges {
		if e.Source == n.ID || e.Target == n.ID {
			degree++
			if e.Animated {
				animated++
			}
		}
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("connections: %d", degree)))
	if animated > 0 {
		b.WriteString(StyleSuccess.Render(fmt.Sprintf(" (%d live)", animated)))
	}
	b.WriteString("\n")
	return b.String()
}
