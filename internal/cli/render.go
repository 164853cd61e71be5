package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/filtergraph/pkg/graph"
	"github.com/matzehuels/filtergraph/pkg/pipeline"
	"github.com/matzehuels/filtergraph/pkg/render"
)

// renderOpts holds the flags of the render command.
type renderOpts struct {
	formats  []string
	output   string
	detailed bool
	id       string // archived report ID, instead of a file
}

// renderCommand creates the render command for drawing saved reports.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{}

	cmd := &cobra.Command{
		Use:   "render [report.json]",
		Short: "Render a configure report to SVG, PNG or DOT",
		Long: `Render a configure report to SVG, PNG or DOT.

The report is a file written by 'configure --json' or 'configure -f json', or
an archived report selected with --id. Rendering needs no filter registry, so
reports from other machines draw the same way.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (len(args) == 1) == (opts.id != "") {
				return fmt.Errorf("provide either a report file or --id")
			}
			opts.formats = parseFormats(formatsStr)
			if len(opts.formats) == 0 {
				opts.formats = []string{render.FormatSVG}
			}
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			return c.runRender(cmd.Context(), input, opts)
		},
	}

	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, dot, json (comma-separated)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "label links with dimensions and sample rates")
	cmd.Flags().StringVar(&opts.id, "id", "", "render an archived report")
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)
	_ = cmd.RegisterFlagCompletionFunc("id", completeReportIDs)

	return cmd
}

// runRender loads a report and writes the requested renderings.
func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	report, err := c.loadReport(ctx, input, opts.id)
	if err != nil {
		return err
	}
	if input == "" {
		input = report.ID
	}
	c.Logger.Debug("loaded report", "id", report.ID, "nodes", len(report.Nodes), "links", len(report.Links))

	spinner := newSpinnerWithContext(ctx, "Rendering...")
	spinner.Start()

	artifacts := make(map[string][]byte, len(opts.formats))
	for _, format := range opts.formats {
		spinner.SetMessage(fmt.Sprintf("Rendering %s...", format))
		data, err := render.Render(ctx, report, format, render.Options{Detailed: opts.detailed})
		if err != nil {
			spinner.StopWithError("Rendering failed")
			return fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	spinner.Stop()

	return writeArtifacts(artifactWriteParams{
		artifacts: artifacts,
		formats:   opts.formats,
		input:     input,
		output:    opts.output,
	})
}

// loadReport reads a report file, or fetches id from the local archive.
func (c *CLI) loadReport(ctx context.Context, path, id string) (graph.Report, error) {
	if id == "" {
		r, err := graph.ReadReportFile(path)
		if err != nil {
			return graph.Report{}, fmt.Errorf("load report %s: %w", path, err)
		}
		return r, nil
	}
	store, err := newStore()
	if err != nil {
		return graph.Report{}, fmt.Errorf("open archive: %w", err)
	}
	defer store.Close()
	r, err := store.Get(ctx, id)
	if err != nil {
		return graph.Report{}, fmt.Errorf("report %s: %w", id, err)
	}
	return r, nil
}
