package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/filtergraph/pkg/archive"
	"github.com/matzehuels/filtergraph/pkg/graph"
)

// reportsCommand creates the reports command for the local archive.
func (c *CLI) reportsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Browse archived configure reports",
	}

	cmd.AddCommand(c.reportsListCommand())
	cmd.AddCommand(c.reportsShowCommand())
	cmd.AddCommand(c.reportsDeleteCommand())
	cmd.AddCommand(c.reportsPathCommand())

	return cmd
}

func (c *CLI) reportsListCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List archived reports, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(store archive.Store) error {
				reports, err := store.List(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if len(reports) == 0 {
					printInfo("No reports archived yet")
					return nil
				}
				fmt.Println(reportTable(reports, time.Now()))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", archive.DefaultListLimit, "maximum number of reports")
	return cmd
}

func (c *CLI) reportsShowCommand() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one archived report",
		Args:  cobra.ExactArgs(1),

		ValidArgsFunction: completeReportIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := c.loadReport(cmd.Context(), "", args[0])
			if err != nil {
				return err
			}
			if jsonOut {
				return graph.WriteReport(r, os.Stdout)
			}
			printKeyValue("ID", r.ID)
			printKeyValue("Created", r.CreatedAt.Local().Format(time.DateTime))
			printKeyValue("Nodes", strconv.Itoa(len(r.Nodes)))
			printNewline()
			printReport(r)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the report as JSON")
	return cmd
}

func (c *CLI) reportsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an archived report",
		Args:  cobra.ExactArgs(1),

		ValidArgsFunction: completeReportIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(store archive.Store) error {
				ctx := cmd.Context()
				if _, err := store.Get(ctx, args[0]); errors.Is(err, archive.ErrNotFound) {
					return fmt.Errorf("report %s: %w", args[0], err)
				}
				if err := store.Delete(ctx, args[0]); err != nil {
					return err
				}
				printSuccess("Deleted report %s", args[0])
				return nil
			})
		},
	}
}

func (c *CLI) reportsPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the report archive directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := reportsDir()
			if err != nil {
				return fmt.Errorf("get report dir: %w", err)
			}
			fmt.Println(dir)
			return nil
		},
	}
}

// withStore opens the local archive for the duration of fn.
func withStore(fn func(archive.Store) error) error {
	store, err := newStore()
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer store.Close()
	return fn(store)
}

func reportTable(reports []graph.Report, now time.Time) string {
	rows := make([][]string, 0, len(reports))
	for _, r := range reports {
		status := iconSuccess
		if !r.Configured {
			status = iconError
			if r.Error != nil {
				status += " " + r.Error.Code
			}
		}
		name := r.Name
		if name == "" {
			name = "—"
		}
		rows = append(rows, []string{
			r.ID,
			name,
			status,
			strconv.Itoa(len(r.Nodes)),
			strconv.Itoa(len(r.AutoInserted())),
			formatRelativeTime(r.CreatedAt, now),
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleTableBorder).
		Headers("ID", "Name", "Status", "Nodes", "Converters", "Created").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleTableHeader
			}
			if row < 0 || row >= len(reports) {
				return lipgloss.NewStyle()
			}
			switch col {
			case 0, 5:
				return StyleDim
			case 2:
				if reports[row].Configured {
					return StyleSuccess
				}
				return StyleError
			}
			return StyleValue
		}).
		Render()
}

// formatRelativeTime renders t relative to now for listings.
func formatRelativeTime(t, now time.Time) string {
	diff := now.Sub(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}

