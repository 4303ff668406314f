package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/meigma/kar"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <archive.kar>",
		Short: "List archive entries without extracting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			info, err := kar.List(cmd.Context(), args[0], kar.ListWithLogger(libraryLogger()))
			if err != nil {
				return err
			}

			fmt.Printf("Archive: %s\n", info.Path)
			fmt.Printf("Entries: %d\n", len(info.Entries))
			fmt.Println("------------------------")
			for _, e := range info.Entries {
				fmt.Printf("%s (%s)\n", e.Path, humanize.IBytes(e.Size))
			}
			return nil
		},
	}
}
