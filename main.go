// mediaphile - organize photos and movies by date and find duplicate content
//
// Files are filed into a date hierarchy (YYYY/Month/day or YYYY/Month/tag)
// using the capture date from EXIF metadata, falling back to the filesystem
// creation timestamp. Two folder trees can be compared by size and SHA-512
// checksum to find duplicates or content missing from one of them.
//
// Features:
//   - EXIF date extraction from photos
//   - Configurable file naming with timestamp and collision counters
//   - Tagged folders instead of day folders (explicit or automatic)
//   - Copy or move, with cross-device move support
//   - Duplicate and new-content detection between folder trees
//   - Cleanup of junk files and empty folders
//
// Usage:
//
//	mediaphile relocate-photos -s ~/Incoming -t ~/Photos
//	mediaphile relocate-movies -s ~/Incoming -t ~/Movies --delete
//	mediaphile find-duplicates -s ~/Incoming -t ~/Photos --delete
//	mediaphile find-new-files -s ~/Photos -t ~/Camera
//	mediaphile list -s ~/Photos
//	mediaphile cleanup -s ~/Incoming
//
// Settings are read from <user config dir>/mediaphile/config.yaml, created
// with defaults on first run.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"mediaphile/internal/config"
	"mediaphile/internal/logging"
)

var version = "0.4.0"

// =============================================================================
// Shared State
// =============================================================================

// app is filled in by the root command before any subcommand runs.
type app struct {
	cfg *config.Config
	log zerolog.Logger
}

var state app

// =============================================================================
// Root Command
// =============================================================================

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "mediaphile",
		Short: "Organize photos and movies into a date-based folder structure",
		Long: `mediaphile files photos and movies into YEAR/Month/day folders using
EXIF capture dates or filesystem timestamps, and finds duplicate or new
content between folder trees.

Examples:
  # Copy photos into a dated library, preview first
  mediaphile relocate-photos -s ~/Incoming -t ~/Photos --dry-run

  # Move movies, tagging folders with the source album name
  mediaphile relocate-movies -s ~/Incoming -t ~/Movies --delete --auto-tag

  # Delete files from Incoming that already exist in the library
  mediaphile find-duplicates -s ~/Incoming -t ~/Photos --delete`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")
			path, _ := cmd.Flags().GetString("config")

			cfg, err := config.Load(path)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			state.cfg = cfg
			state.log = logging.New(cfg.LogLevel, verbose, cmd.ErrOrStderr())
			state.log.Debug().Str("config", path).Msg("configuration loaded")
			return nil
		},
	}

	root.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().String("config", "", "Config file (default: <user config dir>/mediaphile/config.yaml)")

	root.AddCommand(newRelocatePhotosCmd())
	root.AddCommand(newRelocateMoviesCmd())
	root.AddCommand(newFindDuplicatesCmd())
	root.AddCommand(newFindNewFilesCmd())
	root.AddCommand(newListCmd())
	root.AddCommand(newCleanupCmd())
	root.AddCommand(newPrintTagsCmd())
	return root
}

// =============================================================================
// Main Entry Point
// =============================================================================

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// Helpers
// =============================================================================

// requireDir fails unless path is an existing directory.
func requireDir(path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("folder %s: %w", path, err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("%s is not a folder", path)
	}
	return nil
}
