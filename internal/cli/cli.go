package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/filtergraph/pkg/archive"
	"github.com/matzehuels/filtergraph/pkg/buildinfo"
	"github.com/matzehuels/filtergraph/pkg/cache"
	"github.com/matzehuels/filtergraph/pkg/pipeline"
	"github.com/matzehuels/filtergraph/pkg/render"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "filtergraph"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Filtergraph builds media filter graphs and negotiates their formats",
		Long: `Filtergraph builds media filter graphs from TOML or JSON descriptions,
negotiates pixel and sample formats across every link, inserts scale and
resample converters where neighbours disagree, and reports the result.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.configureCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.filtersCommand())
	root.AddCommand(c.reportsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. Reports are archived to
// the local report directory unless noArchive is set.
func (c *CLI) newRunner(noCache, noArchive bool) (*pipeline.Runner, error) {
	cache, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	runner := pipeline.NewRunner(cache, nil, c.Logger)
	if noArchive {
		return runner, nil
	}
	store, err := newStore()
	if err != nil {
		printWarning("Report archive disabled: %v", err)
		return runner, nil
	}
	runner.Store = store
	return runner, nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return fc, nil
}

func newStore() (*archive.FileStore, error) {
	dir, err := reportsDir()
	if err != nil {
		return nil, err
	}
	return archive.NewFileStore(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/filtergraph/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// reportsDir returns the report archive directory (~/.config/filtergraph/reports/).
func reportsDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "reports"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "reports"), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
// Empty input means no rendered outputs.
func parseFormats(s string) []string {
	if s == "" {
		return nil
	}
	var formats []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			formats = append(formats, f)
		}
	}
	return formats
}

// basePath derives the base output path. Without an explicit output the
// input's extension is stripped; a known format extension on output is
// stripped too, so "-o chain.svg -f svg,png" writes chain.svg and chain.png.
func basePath(output, input string) string {
	if output == "" {
		if input == "" || input == "-" {
			return appName
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidateFormat(strings.TrimPrefix(ext, ".")) == nil {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPath is the file a format is written to. A single format with an
// explicit output goes exactly where the user asked.
func outputPath(output, input, format string, formats []string) string {
	if output != "" && len(formats) == 1 && filepath.Ext(output) != "" {
		return output
	}
	suffix := "." + format
	if format == render.FormatJSON {
		suffix = ".report.json"
	}
	return basePath(output, input) + suffix
}
