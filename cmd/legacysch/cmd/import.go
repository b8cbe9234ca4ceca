package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/OpenTraceLab/legacysch/pkg/kicad/schematic"
	"github.com/OpenTraceLab/legacysch/pkg/pads/asc"
	"github.com/OpenTraceLab/legacysch/pkg/pads/importer"
)

var (
	outputFile string
	reportFile string
	dumpInput  bool
)

var importCmd = &cobra.Command{
	Use:   "import <dump_file>",
	Short: "Convert a record dump to .kicad_sch",
	Long: `Convert a legacy schematic record dump into KiCad schematic files.

A single-sheet design produces one file. A multi-sheet design produces a root
file holding one sheet box per page, plus one file per page next to it.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().StringVarP(&outputFile, "output", "o", "", "root output file (default: <input>.kicad_sch)")
	importCmd.Flags().StringVar(&reportFile, "report", "", "write the import report as YAML")
	importCmd.Flags().BoolVar(&dumpInput, "dump", false, "dump the parsed records before importing")
}

func runImport(cmd *cobra.Command, args []string) error {
	input := args[0]
	out := cmd.OutOrStdout()

	design, err := asc.ReadFile(input)
	if err != nil {
		return fmt.Errorf("error reading %s: %w", input, err)
	}
	if dumpInput {
		spew.Fdump(out, design)
	}

	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}

	sch, report, err := importer.Import(design, opts)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	root := outputFile
	if root == "" {
		root = strings.TrimSuffix(input, filepath.Ext(input)) + ".kicad_sch"
	}
	files, err := writeSchematic(sch, root)
	if err != nil {
		return err
	}

	if reportFile != "" {
		if err := writeReport(report, reportFile); err != nil {
			return err
		}
	}

	printImportSummary(out, input, files, report)
	return nil
}

// writeSchematic writes the root sheet to root and every sub-sheet next to it
func writeSchematic(sch *schematic.Schematic, root string) ([]string, error) {
	if err := schematic.WriteFile(root, sch, sch.Root); err != nil {
		return nil, fmt.Errorf("error writing %s: %w", root, err)
	}
	files := []string{root}

	dir := filepath.Dir(root)
	for _, ref := range sch.Root.SheetRefs {
		name := filepath.Join(dir, ref.FileName)
		if err := schematic.WriteFile(name, sch, ref.Sheet); err != nil {
			return files, fmt.Errorf("error writing %s: %w", name, err)
		}
		files = append(files, name)
	}
	return files, nil
}

func writeReport(report *importer.Report, filename string) error {
	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func printImportSummary(w io.Writer, input string, files []string, report *importer.Report) {
	st := report.Stats
	lines := []string{
		titleStyle.Render("Import: " + filepath.Base(input)),
		row("Run", report.RunID.String()),
		row("Sheets", st.Sheets),
		row("Symbols", st.Symbols),
		row("Power symbols", st.PowerSymbols),
		row("Library symbols", st.LibSymbols),
		row("Wires", st.Wires),
		row("Junctions", st.Junctions),
		row("Labels", st.Labels),
		row("Texts", st.Texts),
	}
	fmt.Fprintln(w, boxStyle.Render(strings.Join(lines, "\n")))

	for _, f := range files {
		fmt.Fprintln(w, okStyle.Render("wrote "+f))
	}
	if report.HasWarnings() {
		fmt.Fprintln(w, warnStyle.Render(fmt.Sprintf("%d warning(s)", len(report.Warnings))))
	}
	if verbose {
		for _, r := range report.Reviews {
			fmt.Fprintln(w, mutedStyle.Render("review: "+r.String()))
		}
	}
}
