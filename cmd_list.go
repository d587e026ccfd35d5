package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"mediaphile/internal/catalog"
	"mediaphile/internal/metadata"
	"mediaphile/internal/walk"
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List photos and movies with size, camera and MIME type",
		RunE:  runList,
	}
	cmd.Flags().StringP("source", "s", "", "Folder to list (required)")
	_ = cmd.MarkFlagRequired("source")
	return cmd
}

func runList(cmd *cobra.Command, _ []string) error {
	source, _ := cmd.Flags().GetString("source")
	if err := requireDir(source); err != nil {
		return err
	}

	entries, err := catalog.List(source, walk.Options{
		Extensions:    state.cfg.MediaExtensions(),
		IgnoreFolders: state.cfg.IgnoreFolders,
		IgnoreFiles:   state.cfg.IgnoreFiles,
	}, metadata.NewExifReader())
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PATH\tSIZE\tCAMERA\tTYPE")
	for _, e := range entries {
		camera := e.Make
		if e.Model != "" {
			camera = fmt.Sprintf("%s %s", e.Make, e.Model)
		}
		if camera == "" {
			camera = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Path, e.HumanSize(), camera, e.MIME)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d file(s)\n", len(entries))
	return nil
}
