package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/filtergraph/pkg/graph"
	"github.com/matzehuels/filtergraph/pkg/pipeline"
)

// inspectCommand creates the inspect command, an interactive report browser.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		flags configureFlags
		id    string
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "inspect [description]",
		Short: "Configure a description and browse the result interactively",
		Long: `Configure a description and browse the result interactively.

Lists every link with its negotiated format and every node, auto-inserted
converters highlighted. Failed configurations open too, showing the graph as
it stood and the error. Use --id to browse an archived report instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				report graph.Report
				err    error
			)
			if id != "" {
				report, err = c.loadReport(cmd.Context(), "", id)
			} else {
				input := ""
				if len(args) == 1 {
					input = args[0]
				}
				if err := flags.apply(input, cmd.InOrStdin(), &opts); err != nil {
					return err
				}
				report, err = c.configureReport(cmd.Context(), opts, flags)
			}
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(NewReportModel(report), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	flags.register(cmd, &opts)
	cmd.Flags().StringVar(&id, "id", "", "browse an archived report")
	_ = cmd.RegisterFlagCompletionFunc("id", completeReportIDs)
	return cmd
}

// configureReport runs the pipeline without rendering. Configure failures
// still yield the report.
func (c *CLI) configureReport(ctx context.Context, opts pipeline.Options, flags configureFlags) (graph.Report, error) {
	runner, err := c.newRunner(flags.noCache, flags.noArchive)
	if err != nil {
		return graph.Report{}, fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Configuring...")
	spinner.Start()
	result, err := runner.Execute(ctx, opts)
	spinner.Stop()
	if result == nil {
		return graph.Report{}, err
	}
	if err != nil {
		c.Logger.Warn("configure failed", "err", err)
	}
	return result.Report, nil
}
