package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/filtergraph/pkg/filters"
)

// filtersCommand creates the filters command listing registered filter kinds.
func (c *CLI) filtersCommand() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "filters",
		Short: "List the filter kinds available to descriptions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			infos := filters.Describe(filters.Default())
			if jsonOut {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(infos)
			}
			fmt.Println(filterTable(infos))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "print as JSON")
	return cmd
}

func filterTable(infos []filters.Info) string {
	rows := make([][]string, 0, len(infos))
	for _, info := range infos {
		rows = append(rows, []string{info.Name, padSummary(info.Inputs), padSummary(info.Outputs), info.Description})
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleTableBorder).
		Headers("Filter", "Inputs", "Outputs", "Description").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return styleTableHeader
			case col == 0:
				return StyleHighlight
			case col == 3:
				return StyleDim
			}
			return StyleValue
		}).
		Render()
}

// padSummary renders pads as "name:type" pairs, or "—" for none.
func padSummary(pads []filters.PadInfo) string {
	if len(pads) == 0 {
		return "—"
	}
	parts := make([]string, len(pads))
	for i, p := range pads {
		parts[i] = p.Name + ":" + p.Type
	}
	return strings.Join(parts, " ")
}
