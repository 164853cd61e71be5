package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/filtergraph/internal/cli"
	fgerr "github.com/matzehuels/filtergraph/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130) // Standard shell convention for SIGINT
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

func run(ctx context.Context) error {
	var verbose, quiet bool

	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "log warnings and errors only")
	root.MarkFlagsMutuallyExclusive("verbose", "quiet")

	originalPreRun := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		level := cli.LogInfo
		switch {
		case verbose:
			level = cli.LogDebug
		case quiet:
			level = log.WarnLevel
		}
		c.SetLogLevel(level)

		if originalPreRun != nil {
			return originalPreRun(cmd, args)
		}
		return nil
	}

	return root.ExecuteContext(ctx)
}

// exitCode is 2 for graphs that were read but could not be configured, 1
// for everything else.
func exitCode(err error) int {
	switch fgerr.GetCode(err) {
	case fgerr.ErrCodeDisconnectedPad, fgerr.ErrCodeUnsupportedMediaType, fgerr.ErrCodeConversionFilter,
		fgerr.ErrCodeIncompatibleFormats, fgerr.ErrCodeNodeConfiguration, fgerr.ErrCodeAllocation:
		return 2
	}
	return 1
}
