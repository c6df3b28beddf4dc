package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/taskflow/pkg/source"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// ProjectListModel is the bubbletea model for interactive project selection.
type ProjectListModel struct {
	Projects []source.Project
	Cursor   int
	Selected *source.Project
	Height   int
	Offset   int
}

// NewProjectListModel creates a project picker.
func NewProjectListModel(projects []source.Project) ProjectListModel {
	return ProjectListModel{Projects: projects, Height: 15}
}

func (m ProjectListModel) Init() tea.Cmd {
	return nil
}

func (m ProjectListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Projects)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Projects) == 0 {
				return m, nil
			}
			p := m.Projects[m.Cursor]
			m.Selected = &p
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m ProjectListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Project"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Projects))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		p := m.Projects[i]
		rows = append(rows, []string{cursor, p.ID, strconv.Itoa(p.TaskCount)})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleTableBorder).
		Headers("", "Project", "Tasks").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleTableHeader
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			return StyleDim
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Projects))))
	return b.String()
}

// pickProject runs the picker and returns the chosen project id, or "" if
// the user quit.
func pickProject(projects []source.Project) (string, error) {
	final, err := tea.NewProgram(NewProjectListModel(projects)).Run()
	if err != nil {
		return "", err
	}
	if m, ok := final.(ProjectListModel); ok && m.Selected != nil {
		return m.Selected.ID, nil
	}
	return "", nil
}
