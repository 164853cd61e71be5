package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/filtergraph/pkg/graph"
	"github.com/matzehuels/filtergraph/pkg/graphdesc"
	"github.com/matzehuels/filtergraph/pkg/pipeline"
)

// configureFlags holds the flags shared by configure and inspect.
type configureFlags struct {
	inputFormat string
	noCache     bool
	noArchive   bool
}

func (f *configureFlags) register(cmd *cobra.Command, opts *pipeline.Options) {
	cmd.Flags().StringVar(&f.inputFormat, "input-format", "", "description encoding: toml, json (default: from file extension)")
	cmd.Flags().StringVar(&opts.ScaleOptions, "scale-options", "", "options passed to auto-inserted scale filters")
	cmd.Flags().IntVar(&opts.MaxNodes, "max-nodes", 0, "maximum number of nodes, converters included (0 = unbounded)")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "ignore cached reports")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.noArchive, "no-archive", false, "do not save the report to the local archive")
}

// apply reads the description named by input into opts. "-" or an empty
// input reads standard input.
func (f *configureFlags) apply(input string, stdin io.Reader, opts *pipeline.Options) error {
	if f.inputFormat != "" {
		opts.Format = graphdesc.Format(f.inputFormat)
	}
	if input == "" || input == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		opts.Description = data
		return nil
	}
	opts.Path = input
	return nil
}

// configureCommand creates the configure command.
func (c *CLI) configureCommand() *cobra.Command {
	var (
		flags      configureFlags
		formatsStr string
		output     string
		jsonOut    bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "configure [description]",
		Short: "Configure a filter graph description",
		Long: `Configure a filter graph description.

The description is a TOML or JSON file listing nodes and links (use "-" or
no argument to read standard input). Every link gets a negotiated format;
scale and resample converters are inserted where neighbours disagree.

The resulting report is printed as a link table, or as JSON with --json, and
saved to the local archive. Use --format to also write renderings of the
configured graph.

Examples:
  filtergraph configure chain.toml
  filtergraph configure chain.toml -f svg,png -o chain
  cat chain.json | filtergraph configure --input-format json --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			if err := flags.apply(input, cmd.InOrStdin(), &opts); err != nil {
				return err
			}
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runConfigure(cmd.Context(), input, opts, flags, output, jsonOut)
		},
	}

	flags.register(cmd, &opts)
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "render format(s): svg, png, dot, json (comma-separated)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "label rendered links with dimensions and sample rates")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the report as JSON instead of a table")
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)
	_ = cmd.RegisterFlagCompletionFunc("input-format", cobra.FixedCompletions([]string{"toml", "json"}, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

// runConfigure executes the pipeline and prints the outcome. A configure
// failure is reported and returned after the report has been written.
func (c *CLI) runConfigure(ctx context.Context, input string, opts pipeline.Options, flags configureFlags, output string, jsonOut bool) error {
	runner, err := c.newRunner(flags.noCache, flags.noArchive)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Configuring %s...", displayName(input)))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if result == nil {
		spinner.StopWithError("Invalid description")
		return err
	}
	spinner.Stop()
	prog.done("Configured " + displayName(input))

	if jsonOut {
		if werr := graph.WriteReport(result.Report, os.Stdout); werr != nil {
			return werr
		}
	} else {
		printReport(result.Report)
		printStats(result.Stats, result.CacheInfo.ReportHit)
	}

	if werr := writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    output,
	}); werr != nil {
		return werr
	}

	if runner.Store != nil && !jsonOut {
		printNextStep("Browse it", "filtergraph reports show "+result.Report.ID)
	}
	return err
}

// printReport prints the headline and link table of a report.
func printReport(r graph.Report) {
	name := r.Name
	if name == "" {
		name = "graph"
	}
	if r.Configured {
		printSuccess("Configured %s", StyleHighlight.Render(name))
		if auto := r.AutoInserted(); len(auto) > 0 {
			printDetail("auto-inserted: %v", auto)
		}
	} else {
		printError("Failed to configure %s", StyleHighlight.Render(name))
		if r.Error != nil {
			printReportError(r.Error)
		}
	}
	if len(r.Links) > 0 {
		fmt.Println(linkTable(r))
	}
}

// displayName is the name shown for an input in progress messages.
func displayName(input string) string {
	if input == "" || input == "-" {
		return "stdin"
	}
	return filepath.Base(input)
}
