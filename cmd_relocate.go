package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mediaphile/internal/config"
	"mediaphile/internal/dates"
	"mediaphile/internal/metadata"
	"mediaphile/internal/relocate"
)

func newRelocatePhotosCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "relocate-photos",
		Short: "File photos into a date-based folder structure",
		Long: `Copy (or with --delete, move) every photo under the source folder into
<target>/[prefix/]YEAR/Month/<day or tag>/, naming files with their capture
timestamp. The date comes from EXIF metadata, or from the file's creation
time when the photo carries none.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRelocate(cmd, state.cfg.PhotoExtensions, metadata.NewExifReader())
		},
	}
	addRelocateFlags(cmd)
	return cmd
}

func newRelocateMoviesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "relocate-movies",
		Short: "File movies into a date-based folder structure",
		Long: `Same as relocate-photos for movie files. Movie dates always come from
the filesystem creation time.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRelocate(cmd, state.cfg.MovieExtensions, nil)
		},
	}
	addRelocateFlags(cmd)
	return cmd
}

func addRelocateFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("source", "s", "", "Folder to relocate files from (required)")
	f.StringP("target", "t", "", "Folder to build the date structure in (default: source)")
	f.Bool("delete", false, "Move files instead of copying them, then remove emptied folders")
	f.Bool("dry-run", false, "Report what would happen without touching any file")
	f.String("path-prefix", "", "Extra folder inserted above the year folder")
	f.String("tag", "", "Use this name instead of the day folder")
	f.Bool("auto-tag", false, "Use the first folder below source as tag")
	f.Bool("skip-existing", false, "Skip files whose target name already exists (overrides config when set)")
	f.Bool("no-timestamp", false, "Keep original file names")
	f.Bool("progress", false, "Show a progress bar")
	_ = cmd.MarkFlagRequired("source")
}

func runRelocate(cmd *cobra.Command, exts []string, reader metadata.Reader) error {
	f := cmd.Flags()
	source, _ := f.GetString("source")
	target, _ := f.GetString("target")
	if source == "" {
		return fmt.Errorf("--source is required")
	}

	opts, err := relocateOptions(state.cfg, exts)
	if err != nil {
		return err
	}
	opts.RemoveSource, _ = f.GetBool("delete")
	opts.DryRun, _ = f.GetBool("dry-run")
	opts.PathPrefix, _ = f.GetString("path-prefix")
	opts.Tag, _ = f.GetString("tag")
	opts.AutoTag, _ = f.GetBool("auto-tag")
	if f.Changed("skip-existing") {
		opts.SkipExisting, _ = f.GetBool("skip-existing")
	}
	if noTS, _ := f.GetBool("no-timestamp"); noTS {
		opts.AppendTimestamp = false
	}

	if err := requireDir(source); err != nil {
		return err
	}

	r := relocate.New(opts, dates.NewResolver(reader, state.log), state.log)
	out := cmd.OutOrStdout()
	if progress, _ := f.GetBool("progress"); progress {
		r.Observer = newProgressObserver(cmd.ErrOrStderr())
	} else if opts.DryRun {
		r.Observer = &printObserver{w: out}
	}

	sum, err := r.Relocate(source, target)
	if err != nil {
		return err
	}

	if opts.DryRun {
		fmt.Fprintln(out, "[DRY RUN - nothing was changed]")
	}
	fmt.Fprintf(out, "Moved: %d  Copied: %d  Skipped: %d  Removed folders: %d\n",
		sum.Moved, sum.Copied, sum.Skipped, sum.RemovedFolders)
	return nil
}

// relocateOptions translates configuration into relocation options.
func relocateOptions(cfg *config.Config, exts []string) (relocate.Options, error) {
	newName, err := cfg.NewFilenameTemplate()
	if err != nil {
		return relocate.Options{}, err
	}
	dupName, err := cfg.DuplicateFilenameTemplate()
	if err != nil {
		return relocate.Options{}, err
	}
	return relocate.Options{
		Extensions:                exts,
		IgnoreFolders:             cfg.IgnoreFolders,
		AppendTimestamp:           cfg.AppendTimestamp,
		SkipExisting:              cfg.SkipExisting,
		UseChecksumExistenceCheck: cfg.UseChecksumExistenceCheck,
		TimestampLayout:           cfg.TimestampFormat,
		NewFilename:               newName,
		DuplicateFilename:         dupName,
	}, nil
}
