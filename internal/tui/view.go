package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/aanand-mishra/students-manager/internal/validation"
)

// Column widths for the list table.
const (
	colID      = 5
	colName    = 20
	colEmail   = 26
	colPhone   = 14
	colAddress = 24
)

// View implements tea.Model.
func (m Model) View() string {
	switch {
	case m.confirm:
		return m.confirmView()
	case m.state.FormVisible:
		return m.formView()
	default:
		return m.listView()
	}
}

func (m Model) errorBanner() string {
	if !m.state.HasError() {
		return ""
	}
	return m.styles.ErrorBar.Render("Error: "+m.state.Error) + "\n"
}

func (m Model) listView() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Students"))
	b.WriteString("\n")
	b.WriteString(m.errorBanner())

	switch {
	case m.state.ListLoading:
		b.WriteString(m.spinner.View() + m.styles.Loading.Render(" Loading students..."))
		b.WriteString("\n")
	case len(m.state.Students) == 0:
		b.WriteString(m.styles.Muted.Render("No students yet. Press a to add one."))
		b.WriteString("\n")
	default:
		b.WriteString(m.styles.Header.Render(row("ID", "Name", "Email", "Phone", "Address")))
		b.WriteString("\n")
		for i, st := range m.state.Students {
			line := row(fmt.Sprint(st.ID), st.Name, st.Email, st.Phone, st.Address)
			if i == m.cursor {
				b.WriteString(m.styles.Selected.Render("> " + line))
			} else {
				b.WriteString(m.styles.Row.Render("  " + line))
			}
			b.WriteString("\n")
		}
	}

	if m.state.OperationLoading {
		b.WriteString(m.spinner.View() + m.styles.Loading.Render(" Saving..."))
		b.WriteString("\n")
	}

	help := "↑/↓ move • a add • e edit • d delete • q quit"
	if m.state.HasError() {
		help = "r retry • " + help
	}
	b.WriteString(m.styles.Help.Render(help))
	return b.String()
}

func row(id, name, email, phone, address string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		cell(id, colID),
		cell(name, colName),
		cell(email, colEmail),
		cell(phone, colPhone),
		cell(address, colAddress),
	)
}

func cell(s string, width int) string {
	if lipgloss.Width(s) > width-1 {
		s = ansi.Truncate(s, width-1, "…")
	}
	return lipgloss.NewStyle().Width(width).Render(s)
}

func (m Model) formView() string {
	var b strings.Builder
	title := "Add Student"
	if m.state.Editing != nil {
		title = "Edit Student"
	}
	b.WriteString(m.styles.Title.Render(title))
	b.WriteString("\n")
	b.WriteString(m.errorBanner())

	for i, f := range validation.Fields {
		label := m.styles.FieldLabel.Render(f.Label())
		if i == m.focus {
			label = m.styles.Focused.Inherit(m.styles.FieldLabel).Render(f.Label())
		}
		b.WriteString(label)
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n")
		if msg, ok := m.formErrs[f]; ok {
			b.WriteString(m.styles.FieldError.Render(strings.Repeat(" ", 10) + msg))
			b.WriteString("\n")
		}
	}

	submit := "Create"
	if m.state.Editing != nil {
		submit = "Update"
	}
	if m.state.OperationLoading {
		submit = "Saving..."
	}
	b.WriteString("\n")
	b.WriteString(m.styles.Selected.Render("[ " + submit + " ]"))

	b.WriteString(m.styles.Help.Render("\ntab/shift+tab move • enter submit • esc cancel"))
	return m.styles.Box.Render(b.String())
}

func (m Model) confirmView() string {
	name := fmt.Sprintf("#%d", m.confirmID)
	if st, ok := m.state.Find(m.confirmID); ok {
		name = st.Name
	}
	body := fmt.Sprintf("Are you sure you want to delete %s?\n\n", name) +
		m.styles.Help.Render("y confirm • n cancel")
	return m.styles.Box.BorderForeground(colorDanger).Render(body)
}
