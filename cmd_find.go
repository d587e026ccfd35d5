package main

import (
	"fmt"
	"iter"

	"github.com/spf13/cobra"

	"mediaphile/internal/compare"
)

func newFindDuplicatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "find-duplicates",
		Short: "List source files already present in the target folder",
		Long: `Compare files of equal size by SHA-512 checksum (or, with --use-timestamp,
by creation time) and print every source file that duplicates a target file.
With --delete the duplicates are removed from the source folder.`,
		RunE: runFindDuplicates,
	}
	addCompareFlags(cmd)
	cmd.Flags().Bool("delete", false, "Delete duplicates from the source folder")
	cmd.Flags().Bool("dry-run", false, "Never delete, even with --delete")
	cmd.Flags().Bool("use-timestamp", false, "Match on creation time instead of checksum")
	return cmd
}

func newFindNewFilesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "find-new-files",
		Short: "List target files whose content is missing from the source folder",
		RunE:  runFindNewFiles,
	}
	addCompareFlags(cmd)
	return cmd
}

func addCompareFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("source", "s", "", "Source folder (required)")
	cmd.Flags().StringP("target", "t", "", "Target folder (required)")
	_ = cmd.MarkFlagRequired("source")
	_ = cmd.MarkFlagRequired("target")
}

func compareFolders(cmd *cobra.Command) (string, string, error) {
	source, _ := cmd.Flags().GetString("source")
	target, _ := cmd.Flags().GetString("target")
	if source == "" || target == "" {
		return "", "", fmt.Errorf("both --source and --target are required")
	}
	if err := requireDir(source); err != nil {
		return "", "", err
	}
	if err := requireDir(target); err != nil {
		return "", "", err
	}
	return source, target, nil
}

func newFinder() *compare.Finder {
	f := compare.NewFinder(state.log)
	f.IgnoreFiles = state.cfg.IgnoreFiles
	if state.cfg.ChecksumCacheSize > 0 {
		f.CacheSize = state.cfg.ChecksumCacheSize
	}
	return f
}

func runFindDuplicates(cmd *cobra.Command, _ []string) error {
	source, target, err := compareFolders(cmd)
	if err != nil {
		return err
	}
	f := newFinder()
	f.Delete, _ = cmd.Flags().GetBool("delete")
	f.DryRun, _ = cmd.Flags().GetBool("dry-run")
	f.UseTimestamp, _ = cmd.Flags().GetBool("use-timestamp")
	return printPaths(cmd, f.FindDuplicates(source, target))
}

func runFindNewFiles(cmd *cobra.Command, _ []string) error {
	source, target, err := compareFolders(cmd)
	if err != nil {
		return err
	}
	return printPaths(cmd, newFinder().FindNewFiles(source, target))
}

// printPaths writes each path as it is produced, so results show up before
// a long comparison completes.
func printPaths(cmd *cobra.Command, seq iter.Seq2[string, error]) error {
	out := cmd.OutOrStdout()
	for path, err := range seq {
		if err != nil {
			return err
		}
		fmt.Fprintln(out, path)
	}
	return nil
}
