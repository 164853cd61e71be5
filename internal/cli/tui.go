package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/filtergraph/pkg/graph"
)

// List styles
var (
	listDimStyle   = lipgloss.NewStyle().Foreground(colorDim)
	listTabStyle   = lipgloss.NewStyle().Foreground(colorGray).Padding(0, 1)
	listActiveTab  = lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Padding(0, 1)
	listDetailBox  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
	listDetailKey  = lipgloss.NewStyle().Foreground(colorGray).Width(10)
	listCursorMark = "▸ "
)

// =============================================================================
// ReportModel - Interactive report browser
// =============================================================================

// reportTab selects which element list the browser shows.
type reportTab int

const (
	tabLinks reportTab = iota
	tabNodes
)

// ReportModel is the bubbletea model for browsing a configure report.
type ReportModel struct {
	Report graph.Report
	Tab    reportTab
	Cursor int
	Height int
	Offset int
}

// NewReportModel creates a browser over r, starting on the link list.
func NewReportModel(r graph.Report) ReportModel {
	return ReportModel{
		Report: r,
		Height: 12,
	}
}

func (m ReportModel) Init() tea.Cmd {
	return nil
}

func (m ReportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "left", "right", "h", "l":
			if m.Tab == tabLinks {
				m.Tab = tabNodes
			} else {
				m.Tab = tabLinks
			}
			m.Cursor, m.Offset = 0, 0
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < m.count()-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "end", "G":
			if n := m.count(); n > 0 {
				m.Cursor = n - 1
				if m.Cursor >= m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 16
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

// count is the number of rows in the current tab.
func (m ReportModel) count() int {
	if m.Tab == tabNodes {
		return len(m.Report.Nodes)
	}
	return len(m.Report.Links)
}

func (m ReportModel) View() string {
	var b strings.Builder

	name := m.Report.Name
	if name == "" {
		name = "graph"
	}
	b.WriteString(StyleTitle.Render(name))
	if m.Report.Configured {
		b.WriteString("  " + StyleSuccess.Render(iconSuccess+" configured"))
	} else {
		b.WriteString("  " + StyleError.Render(iconError+" failed"))
	}
	b.WriteString("\n")

	links := fmt.Sprintf("Links (%d)", len(m.Report.Links))
	nodes := fmt.Sprintf("Nodes (%d)", len(m.Report.Nodes))
	if m.Tab == tabLinks {
		b.WriteString(listActiveTab.Render(links) + listTabStyle.Render(nodes))
	} else {
		b.WriteString(listTabStyle.Render(links) + listActiveTab.Render(nodes))
	}
	b.WriteString("\n")

	if m.Tab == tabLinks {
		b.WriteString(m.linksView())
	} else {
		b.WriteString(m.nodesView())
	}
	b.WriteString("\n")

	if detail := m.detailView(); detail != "" {
		b.WriteString(listDetailBox.Render(detail))
		b.WriteString("\n")
	}
	if m.Report.Error != nil {
		b.WriteString(StyleError.Render(m.Report.Error.Code + ": " + m.Report.Error.Message))
		b.WriteString("\n")
	}

	b.WriteString(listDimStyle.Render(fmt.Sprintf("[%d/%d]  ↑/↓ navigate  tab switch  q quit", m.Cursor+1, m.count())))
	return b.String()
}

// window returns the visible row range.
func (m ReportModel) window() (int, int) {
	end := m.Offset + m.Height
	if n := m.count(); end > n {
		end = n
	}
	return m.Offset, end
}

func (m ReportModel) linksView() string {
	start, end := m.window()
	auto := autoSet(m.Report)
	rows := [][]string{}
	for i := start; i < end; i++ {
		l := m.Report.Links[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = listCursorMark
		}
		format := l.Format
		if format == "" {
			format = "—"
		}
		rows = append(rows, []string{cursor, l.From + ":" + l.FromPad, l.To + ":" + l.ToPad, l.Type, format})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleTableBorder).
		Headers("", "From", "To", "Type", "Format").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleTableHeader
			}
			idx := start + row
			if row < 0 || idx >= end {
				return lipgloss.NewStyle()
			}
			l := m.Report.Links[idx]
			base := styleVideo
			if l.Type == "audio" {
				base = styleAudio
			}
			if auto[l.From] || auto[l.To] {
				base = styleAutoNode
			}
			if idx == m.Cursor {
				return base.Bold(true)
			}
			return base
		}).
		Render()
}

func (m ReportModel) nodesView() string {
	start, end := m.window()
	rows := [][]string{}
	for i := start; i < end; i++ {
		n := m.Report.Nodes[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = listCursorMark
		}
		mark := ""
		if n.AutoInserted {
			mark = iconAuto
		}
		rows = append(rows, []string{cursor, n.Name, n.Filter, mark,
			fmt.Sprintf("%d", len(n.Inputs)), fmt.Sprintf("%d", len(n.Outputs))})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleTableBorder).
		Headers("", "Name", "Filter", "Auto", "In", "Out").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleTableHeader
			}
			idx := start + row
			if row < 0 || idx >= end {
				return lipgloss.NewStyle()
			}
			base := StyleValue
			if m.Report.Nodes[idx].AutoInserted {
				base = styleAutoNode
			}
			if idx == m.Cursor {
				return base.Bold(true)
			}
			return base
		}).
		Render()
}

// detailView describes the element under the cursor.
func (m ReportModel) detailView() string {
	if m.Cursor >= m.count() {
		return ""
	}
	var lines []string
	kv := func(k, v string) {
		if v != "" {
			lines = append(lines, listDetailKey.Render(k)+" "+v)
		}
	}

	if m.Tab == tabNodes {
		n := m.Report.Nodes[m.Cursor]
		kv("node", n.Name)
		kv("filter", n.Filter)
		kv("inputs", padList(n.Inputs))
		kv("outputs", padList(n.Outputs))
		return strings.Join(lines, "\n")
	}

	l := m.Report.Links[m.Cursor]
	kv("link", l.Label())
	kv("type", l.Type)
	kv("format", l.Format)
	kv("props", linkProps(l))
	if len(l.LineSizes) > 0 {
		kv("linesize", fmt.Sprint(l.LineSizes))
	}
	if l.FrameSize > 0 {
		kv("frame", fmt.Sprintf("%d samples", l.FrameSize))
	}
	return strings.Join(lines, "\n")
}

func padList(pads []graph.Pad) string {
	parts := make([]string, len(pads))
	for i, p := range pads {
		parts[i] = p.Name + ":" + p.Type
	}
	return strings.Join(parts, " ")
}

func autoSet(r graph.Report) map[string]bool {
	auto := make(map[string]bool)
	for _, name := range r.AutoInserted() {
		auto[name] = true
	}
	return auto
}
