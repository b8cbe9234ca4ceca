package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/legacysch/pkg/kicad/sexp"
	"github.com/OpenTraceLab/legacysch/pkg/kicad/sexp/kicadsexp"
	"github.com/OpenTraceLab/legacysch/pkg/pads"
	"github.com/OpenTraceLab/legacysch/pkg/pads/asc"
)

var infoCmd = &cobra.Command{
	Use:   "info <dump_file|kicad_sch> [reference]",
	Short: "Show record dump or schematic information",
	Long: `Display information about a legacy schematic record dump.

Without reference argument: shows a summary
With reference argument: shows the placements of that reference

Given a .kicad_sch file written by import, shows what the sheet holds.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	if filepath.Ext(args[0]) == ".kicad_sch" {
		return showSchematicSummary(cmd.OutOrStdout(), args[0])
	}

	design, err := asc.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("error reading %s: %w", args[0], err)
	}

	out := cmd.OutOrStdout()
	if len(args) >= 2 {
		return showPartDetails(out, design, args[1])
	}
	showDesignSummary(out, design, args[0])
	return nil
}

func showDesignSummary(w io.Writer, d *pads.Design, filename string) {
	p := d.Parameters
	fmt.Fprintln(w, titleStyle.Render("Design: "+filename))
	if p.DesignName != "" {
		fmt.Fprintln(w, row("Name", p.DesignName))
	}
	fmt.Fprintln(w, row("Sheet size", sheetSize(p)))
	if p.GateSeparator != "" {
		fmt.Fprintln(w, row("Gate separator", p.GateSeparator))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, titleStyle.Render("Statistics"))
	fmt.Fprintln(w, row("Sheets", len(d.SheetNumbers())))
	fmt.Fprintln(w, row("Part types", len(d.PartTypes)))
	fmt.Fprintln(w, row("Decals", len(d.Decals)))
	fmt.Fprintln(w, row("Parts", len(d.Parts)))
	fmt.Fprintln(w, row("Signals", len(d.Signals)))
	fmt.Fprintln(w, row("Connectors", len(d.Connectors)))
	fmt.Fprintln(w, row("Tied dots", len(d.TiedDots)))
	fmt.Fprintln(w, row("Texts", len(d.Texts)))
	fmt.Fprintln(w, row("Groups", len(d.Groups)))
	fmt.Fprintln(w)

	if len(d.Parts) > 0 {
		fmt.Fprintln(w, titleStyle.Render("Components"))

		// Group by reference prefix
		byPrefix := make(map[string][]string)
		for _, part := range d.Parts {
			prefix := getRefPrefix(part.Reference)
			byPrefix[prefix] = append(byPrefix[prefix], part.Reference)
		}

		var prefixes []string
		for p := range byPrefix {
			prefixes = append(prefixes, p)
		}
		sort.Strings(prefixes)

		for _, prefix := range prefixes {
			refs := byPrefix[prefix]
			sort.Strings(refs)
			fmt.Fprintln(w, row(prefix, strings.Join(refs, ", ")))
		}
		fmt.Fprintln(w)
	}

	var names []string
	seen := make(map[string]bool)
	for _, s := range d.Signals {
		if !pads.IsAutoNetName(s.Name) && !seen[s.Name] {
			seen[s.Name] = true
			names = append(names, s.Name)
		}
	}
	if len(names) > 0 {
		sort.Strings(names)
		fmt.Fprintln(w, titleStyle.Render("Named Signals"))
		for _, n := range names {
			fmt.Fprintln(w, "  "+n)
		}
	}
}

func showPartDetails(w io.Writer, d *pads.Design, ref string) error {
	found := false
	for _, part := range d.Parts {
		if part.Reference != ref {
			continue
		}
		found = true
		fmt.Fprintln(w, titleStyle.Render("Component: "+ref))
		fmt.Fprintln(w, row("Part type", part.PartType))
		fmt.Fprintln(w, row("Sheet", part.Sheet))
		fmt.Fprintln(w, row("Position", fmt.Sprintf("(%.2f, %.2f)", part.Position.X, part.Position.Y)))
		if part.Rotation != 0 {
			fmt.Fprintln(w, row("Rotation", fmt.Sprintf("%.1f°", part.Rotation)))
		}
		if part.Mirror != 0 {
			fmt.Fprintln(w, row("Mirror", part.Mirror))
		}
		fmt.Fprintln(w, row("Gate", part.Gate))
		for _, a := range part.Attributes {
			fmt.Fprintln(w, row(a.Name, a.Value))
		}
		fmt.Fprintln(w)
	}
	if !found {
		return fmt.Errorf("component '%s' not found", ref)
	}
	return nil
}

// showSchematicSummary counts the items of a written sheet
func showSchematicSummary(w io.Writer, filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("error opening %s: %w", filename, err)
	}
	defer f.Close()

	sexps, err := kicadsexp.NewParser(f).ParseAll()
	if err != nil {
		return fmt.Errorf("error parsing %s: %w", filename, err)
	}
	if len(sexps) != 1 || sexp.NodeName(sexps[0]) != "kicad_sch" {
		return fmt.Errorf("%s is not a schematic", filename)
	}
	root := sexps[0]

	var symbols, power int
	refs := make(map[string]bool)
	for _, s := range sexp.FindAllNodes(root, "symbol") {
		symbols++
		ref, _ := sexp.GetProperty(s, "Reference")
		if strings.HasPrefix(ref, "#") {
			power++
			continue
		}
		refs[ref] = true
	}
	libs := 0
	if l, ok := sexp.FindNode(root, "lib_symbols"); ok {
		libs = len(sexp.FindAllNodes(l, "symbol"))
	}

	fmt.Fprintln(w, titleStyle.Render("Schematic: "+filename))
	if id, err := sexp.GetUUID(root); err == nil {
		fmt.Fprintln(w, row("UUID", id))
	}
	if paper, ok := sexp.FindNode(root, "paper"); ok {
		name, _ := sexp.GetString(paper, 1)
		fmt.Fprintln(w, row("Paper", name))
	}
	fmt.Fprintln(w, row("Components", len(refs)))
	fmt.Fprintln(w, row("Symbols", symbols))
	fmt.Fprintln(w, row("Power symbols", power))
	fmt.Fprintln(w, row("Library symbols", libs))
	fmt.Fprintln(w, row("Wires", len(sexp.FindAllNodes(root, "wire"))))
	fmt.Fprintln(w, row("Buses", len(sexp.FindAllNodes(root, "bus"))))
	fmt.Fprintln(w, row("Junctions", len(sexp.FindAllNodes(root, "junction"))))
	fmt.Fprintln(w, row("Labels", len(sexp.FindAllNodes(root, "label"))+len(sexp.FindAllNodes(root, "global_label"))))
	fmt.Fprintln(w, row("Sheets", len(sexp.FindAllNodes(root, "sheet"))))
	return nil
}

func sheetSize(p pads.Parameters) string {
	if p.SheetSize != "" {
		return p.SheetSize
	}
	if p.SheetWidth > 0 && p.SheetHeight > 0 {
		return fmt.Sprintf("%gx%g", p.SheetWidth, p.SheetHeight)
	}
	return "default"
}

func getRefPrefix(ref string) string {
	// Extract prefix (letters before numbers)
	for i, c := range ref {
		if c >= '0' && c <= '9' {
			return ref[:i]
		}
	}
	return ref
}
