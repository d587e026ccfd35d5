package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"mediaphile/internal/cleanup"
	"mediaphile/internal/relocate"
	"mediaphile/internal/walk"
)

func newCleanupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete junk files (thumbs.db, picasa.ini, ...) and empty folders",
		RunE: func(cmd *cobra.Command, _ []string) error {
			source, _ := cmd.Flags().GetString("source")
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			if err := requireDir(source); err != nil {
				return err
			}
			res, err := cleanup.Clean(source, state.cfg.IgnoreFiles, dryRun, state.log)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, p := range res.RemovedFiles {
				fmt.Fprintln(out, p)
			}
			fmt.Fprintf(out, "Removed files: %d  Removed folders: %d\n", len(res.RemovedFiles), res.RemovedFolders)
			return nil
		},
	}
	cmd.Flags().StringP("source", "s", "", "Folder to clean (required)")
	cmd.Flags().Bool("dry-run", false, "Only list the files that would be removed")
	_ = cmd.MarkFlagRequired("source")
	return cmd
}

func newPrintTagsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "print-tags",
		Short: "Show the tag --auto-tag would give each file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			source, _ := cmd.Flags().GetString("source")
			if err := requireDir(source); err != nil {
				return err
			}
			source, err := filepath.Abs(source)
			if err != nil {
				return err
			}
			entries, err := walk.Files(source, walk.Options{
				Extensions:    state.cfg.MediaExtensions(),
				IgnoreFolders: state.cfg.IgnoreFolders,
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, e := range entries {
				fmt.Fprintf(out, "%s\t%s\n", e.Path, relocate.TagFor(source, e.Path))
			}
			return nil
		},
	}
	cmd.Flags().StringP("source", "s", "", "Folder to inspect (required)")
	_ = cmd.MarkFlagRequired("source")
	return cmd
}
