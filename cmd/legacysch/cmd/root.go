package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/legacysch/pkg/pads/importer"
)

var (
	// Global flags
	verbose     bool
	optionsFile string
)

var rootCmd = &cobra.Command{
	Use:   "legacysch",
	Short: "Legacy schematic importer",
	Long: `legacysch converts legacy schematic record dumps into KiCad schematics.

Examples:
  legacysch info design.asc                      # Show what the dump contains
  legacysch import design.asc -o out.kicad_sch   # Convert to .kicad_sch
  legacysch import design.asc --report run.yaml  # Also write the import report`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&optionsFile, "options", "", "YAML file with import options")
}

// loadOptions reads --options when given and wires logging and progress
func loadOptions(cmd *cobra.Command) (importer.Options, error) {
	opts := importer.DefaultOptions()
	if optionsFile != "" {
		var err error
		if opts, err = importer.LoadOptions(optionsFile); err != nil {
			return opts, err
		}
	}
	opts.Logger = log.New(cmd.ErrOrStderr(), "legacysch: ", 0)
	if verbose {
		out := cmd.OutOrStdout()
		opts.Progress = func(p importer.Phase) {
			fmt.Fprintln(out, mutedStyle.Render("· "+p.String()))
		}
	}
	return opts, nil
}
