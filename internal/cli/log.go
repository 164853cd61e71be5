// Package cli implements the filtergraph command-line interface.
//
// The CLI is built using cobra and logs through charmbracelet/log. Interactive
// output uses lipgloss styling and the inspect command runs a bubbletea
// browser over a configured graph.
//
// # Commands
//
// The main commands are:
//   - configure: Configure a graph description and write the report or renderings
//   - inspect: Configure a description and browse its nodes and links
//   - render: Draw a saved report as SVG, PNG or DOT
//   - filters: List the registered filter kinds
//   - reports: Browse the local report archive
//   - serve: Run the HTTP API
//   - cache: Manage the report cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
//
// # Example
//
//	c := cli.New(os.Stderr, cli.LogInfo)
//	if err := c.RootCommand().ExecuteContext(ctx); err != nil {
//	    os.Exit(1)
//	}
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
// The returned progress should call done when the operation completes.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// The duration is rounded to the nearest millisecond.
// Example output: "Configured scaled (12ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
