package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/meigma/kar"
)

func newPackCmd() *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "pack <source_dir> <archive.kar>",
		Short: "Pack a directory tree into an archive",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			sourceDir, archivePath := args[0], args[1]
			logrus.Debugf("packing %s into %s", sourceDir, archivePath)

			bar := newProgressBar(os.Stderr)
			sum, err := kar.Pack(cmd.Context(), sourceDir, archivePath,
				kar.PackWithWorkers(workers),
				kar.PackWithProgress(bar.update),
				kar.PackWithLogger(libraryLogger()),
			)
			bar.done()
			if err != nil {
				return err
			}

			fmt.Printf("Archive created: %s (%d files)\n", archivePath, sum.Files)
			return nil
		},
	}
	cmd.Flags().IntVarP(&workers, "workers", "j", 1, "parallel file readers (1 = sequential)")
	return cmd
}
