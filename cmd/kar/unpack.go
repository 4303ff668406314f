package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/meigma/kar"
)

func newUnpackCmd() *cobra.Command {
	var preserveTimes bool

	cmd := &cobra.Command{
		Use:   "unpack <archive.kar> <target_dir>",
		Short: "Extract an archive into a directory",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			archivePath, targetDir := args[0], args[1]
			logrus.Debugf("unpacking %s into %s", archivePath, targetDir)

			bar := newProgressBar(os.Stderr)
			sum, err := kar.Unpack(cmd.Context(), archivePath, targetDir,
				kar.UnpackWithProgress(bar.update),
				kar.UnpackWithPreserveTimes(preserveTimes),
				kar.UnpackWithLogger(libraryLogger()),
			)
			bar.done()
			if err != nil {
				return err
			}

			fmt.Printf("Extracted to: %s (%d files)\n", targetDir, sum.Files)
			return nil
		},
	}
	cmd.Flags().BoolVar(&preserveTimes, "preserve-times", false, "restore modification times from the archive")
	return cmd
}
