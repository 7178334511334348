package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")).
			MarginBottom(1)

	tableStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240"))

	detailStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1).
			MarginTop(1)

	emptyStyle = lipgloss.NewStyle().
			Faint(true).
			Italic(true)

	helpStyle = lipgloss.NewStyle().
			Faint(true).
			MarginTop(1)
)

// model drives the interactive annotation browser: a table of annotated
// hosts with the selected host's annotation pretty-printed below.
type model struct {
	report *inspectReport
	table  table.Model
}

func newModel(report *inspectReport) model {
	columns := []table.Column{
		{Title: "Host", Width: 24},
		{Title: "ngh", Width: 5},
		{Title: "Context", Width: 10},
		{Title: "Annotation", Width: 40},
	}
	rows := make([]table.Row, 0, len(report.Hosts))
	for _, h := range report.Hosts {
		rows = append(rows, table.Row{
			"<" + h.Tag + ">",
			strconv.Itoa(h.Index),
			h.ServerContext,
			summarize(h.Annotation),
		})
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(min(len(rows)+1, 12)),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).BorderBottom(true)
	styles.Selected = styles.Selected.Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	t.SetStyles(styles)
	return model{report: report, table: t}
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m model) View() string {
	var b bytes.Buffer
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s — app %q, %d annotation(s), %d host(s)",
		m.report.File, m.report.AppID, len(m.report.Table), len(m.report.Hosts))))
	b.WriteString("\n")
	b.WriteString(tableStyle.Render(m.table.View()))

	if cur := m.table.Cursor(); cur >= 0 && cur < len(m.report.Hosts) {
		b.WriteString(detailStyle.Render(pretty(m.report.Hosts[cur].Annotation)))
	}
	b.WriteString(helpStyle.Render("↑/↓ select · q quit"))
	return b.String()
}

// summarize renders a one-line preview of an annotation for the table.
func summarize(raw json.RawMessage) string {
	if len(raw) == 0 {
		return emptyStyle.Render("(missing)")
	}
	if string(raw) == "{}" {
		return emptyStyle.Render("(empty)")
	}
	var counts struct {
		N map[string]json.RawMessage `json:"n"`
		C map[string]json.RawMessage `json:"c"`
		T map[string]json.RawMessage `json:"t"`
	}
	if err := json.Unmarshal(raw, &counts); err != nil {
		return string(raw)
	}
	return fmt.Sprintf("%d node(s), %d container(s), %d template(s)",
		len(counts.N), len(counts.C), len(counts.T))
}

// pretty indents an annotation's JSON for the detail pane.
func pretty(raw json.RawMessage) string {
	if len(raw) == 0 {
		return emptyStyle.Render("host has no table entry")
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}
