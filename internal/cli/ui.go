package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/filtergraph/pkg/graph"
	"github.com/matzehuels/filtergraph/pkg/pipeline"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - audio links, commands
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight for emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleLink for URLs.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)

	// StyleError for failure messages.
	StyleError = lipgloss.NewStyle().Foreground(colorRed)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)

	styleTableHeader = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleTableBorder = lipgloss.NewStyle().Foreground(colorDim)
	styleVideo       = lipgloss.NewStyle().Foreground(colorWhite)
	styleAudio       = lipgloss.NewStyle().Foreground(colorBlue)
	styleAutoNode    = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
	iconAuto    = "+"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

// printError prints an error message.
func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconError.Render(iconError) + " " + msg)
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + msg)
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println("  " + StyleDim.Render(msg))
}

// =============================================================================
// File Output
// =============================================================================

// printFile prints a file output line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// =============================================================================
// Key-Value Output
// =============================================================================

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Println(keyStyle.Render(key) + " " + StyleValue.Render(value))
}

// =============================================================================
// Stats Display
// =============================================================================

// printStats prints configure statistics on a single line.
func printStats(stats pipeline.Stats, cached bool) {
	parts := []string{
		fmt.Sprintf("%d nodes", stats.NodeCount),
		fmt.Sprintf("%d links", stats.LinkCount),
	}
	if stats.AutoInserted > 0 {
		parts = append(parts, fmt.Sprintf("%d converters", stats.AutoInserted))
	}

	status := iconFresh
	statusStyle := styleComputed
	if cached {
		status = iconCached
		statusStyle = styleCached
	}

	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleDim.Render(part)
	}
	line += StyleDim.Render(" · ") + statusStyle.Render(status)
	fmt.Println(line)
}

// =============================================================================
// Report Display
// =============================================================================

// printReportError prints the failure recorded in a report.
func printReportError(e *graph.Error) {
	printError("%s %s", StyleError.Render(e.Code), e.Message)
	if e.Node != "" {
		loc := e.Node
		if e.Filter != "" {
			loc += " (" + e.Filter + ")"
		}
		if e.Pad != "" {
			loc += ", " + e.Direction + " pad " + e.Pad
		}
		printDetail("at %s", loc)
	}
}

// linkTable renders a report's links as a table. Links touching an
// auto-inserted converter are marked.
func linkTable(r graph.Report) string {
	auto := autoSet(r)

	rows := make([][]string, 0, len(r.Links))
	for _, l := range r.Links {
		mark := ""
		if auto[l.From] || auto[l.To] {
			mark = iconAuto
		}
		format := l.Format
		if format == "" {
			format = "—"
		}
		rows = append(rows, []string{mark, l.From + ":" + l.FromPad, l.To + ":" + l.ToPad, l.Type, format, linkProps(l)})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleTableBorder).
		Headers("", "From", "To", "Type", "Format", "Properties").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleTableHeader
			}
			if row < 0 || row >= len(rows) {
				return lipgloss.NewStyle()
			}
			if col == 0 {
				return styleAutoNode
			}
			if col == 5 {
				return StyleDim
			}
			if r.Links[row].Type == "audio" {
				return styleAudio
			}
			return styleVideo
		})
	return t.Render()
}

// linkProps summarizes the negotiated properties of a link.
func linkProps(l graph.Link) string {
	var parts []string
	switch l.Type {
	case "video":
		if l.Width > 0 && l.Height > 0 {
			parts = append(parts, fmt.Sprintf("%dx%d", l.Width, l.Height))
		}
		if l.SampleAspectRatio != "" {
			parts = append(parts, "sar "+l.SampleAspectRatio)
		}
	case "audio":
		if l.SampleRate > 0 {
			parts = append(parts, fmt.Sprintf("%d Hz", l.SampleRate))
		}
		if l.ChannelLayout != "" {
			parts = append(parts, l.ChannelLayout)
		}
	}
	if l.TimeBase != "" {
		parts = append(parts, "tb "+l.TimeBase)
	}
	return strings.Join(parts, " ")
}

// =============================================================================
// Commands & Next Steps
// =============================================================================

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// =============================================================================
// Utilities
// =============================================================================

// printNewline prints an empty line.
func printNewline() {
	fmt.Println()
}
