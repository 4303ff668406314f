// Command kar packs a directory tree into a single checksummed archive
// and unpacks or lists it again.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var verbose bool

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// newRootCmd assembles the command tree. Usage is printed for argument
// and flag errors; each subcommand silences it once its arguments have
// validated, so runtime failures report only the error. Invoking the
// bare root shows help and returns a non-nil error.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "kar",
		Short:         "Pack, unpack, and list kar archives",
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			logrus.SetOutput(os.Stderr)
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if err := cmd.Help(); err != nil {
				return err
			}
			return errors.New("a command is required")
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.AddCommand(newPackCmd(), newUnpackCmd(), newListCmd())
	return root
}

// libraryLogger returns the logger handed to the kar library; debug
// lines only appear with --verbose.
func libraryLogger() *slog.Logger {
	if !verbose {
		return nil
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
