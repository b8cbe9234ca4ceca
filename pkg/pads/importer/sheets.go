package importer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/OpenTraceLab/legacysch/pkg/kicad/schematic"
	"github.com/OpenTraceLab/legacysch/pkg/kicad/sexp"
	"github.com/OpenTraceLab/legacysch/pkg/pads"
)

// pageSizes are landscape page dimensions in internal units
var pageSizes = map[string]schematic.PageGeometry{
	"A":  {Paper: "A", Width: 11000 * sexp.IUPerMil, Height: 8500 * sexp.IUPerMil},
	"B":  {Paper: "B", Width: 17000 * sexp.IUPerMil, Height: 11000 * sexp.IUPerMil},
	"C":  {Paper: "C", Width: 22000 * sexp.IUPerMil, Height: 17000 * sexp.IUPerMil},
	"D":  {Paper: "D", Width: 34000 * sexp.IUPerMil, Height: 22000 * sexp.IUPerMil},
	"E":  {Paper: "E", Width: 44000 * sexp.IUPerMil, Height: 34000 * sexp.IUPerMil},
	"A4": {Paper: "A4", Width: 297 * sexp.IUPerMM, Height: 210 * sexp.IUPerMM},
	"A3": {Paper: "A3", Width: 420 * sexp.IUPerMM, Height: 297 * sexp.IUPerMM},
	"A2": {Paper: "A2", Width: 594 * sexp.IUPerMM, Height: 420 * sexp.IUPerMM},
	"A1": {Paper: "A1", Width: 841 * sexp.IUPerMM, Height: 594 * sexp.IUPerMM},
	"A0": {Paper: "A0", Width: 1189 * sexp.IUPerMM, Height: 841 * sexp.IUPerMM},
}

// PageGeometryFor picks the page for a named size, falling back to an explicit
// width and height in foreign units and then to the default page name.
func PageGeometryFor(name string, width, height, scale float64, fallback string) schematic.PageGeometry {
	if g, ok := pageSizes[strings.ToUpper(strings.TrimSpace(name))]; ok {
		return g
	}
	if width > 0 && height > 0 {
		xf := Transform{Scale: scale}
		return schematic.PageGeometry{
			Paper:  "User",
			Width:  xf.ToCanonicalLen(width),
			Height: xf.ToCanonicalLen(height),
		}
	}
	if g, ok := pageSizes[strings.ToUpper(fallback)]; ok {
		return g
	}
	return pageSizes["B"]
}

// sheetContext is the per-sheet working state of one import
type sheetContext struct {
	sheet     *schematic.Sheet
	labels    *PositionMap[schematic.Label]
	powers    *PositionMap[*schematic.SymbolInstance]
	junctions *PositionMap[schematic.Junction]
}

func newSheetContext(sheet *schematic.Sheet) *sheetContext {
	return &sheetContext{
		sheet:     sheet,
		labels:    NewPositionMap[schematic.Label](),
		powers:    NewPositionMap[*schematic.SymbolInstance](),
		junctions: NewPositionMap[schematic.Junction](),
	}
}

// Sheet reference boxes on the root sheet
var (
	refBoxSize   = sexp.Size{Width: 2000 * sexp.IUPerMil, Height: 1000 * sexp.IUPerMil}
	refBoxOrigin = sexp.Point{X: 1000 * sexp.IUPerMil, Y: 1000 * sexp.IUPerMil}
	refBoxPitch  = sexp.Point{X: 2500 * sexp.IUPerMil, Y: 1500 * sexp.IUPerMil}
)

const refBoxColumns = 4

// establishSheets creates one context per foreign sheet number in ascending
// order. A single sheet is the root; several sheets hang below a synthetic
// root that holds a reference box for each.
func (b *builder) establishSheets() error {
	numbers := b.design.SheetNumbers()
	if len(numbers) == 0 {
		if !hasRecords(b.design) {
			return ErrNoRootSheet
		}
		// records without sheet numbers all go onto one sheet
		numbers = []int{1}
	}

	params := b.design.Parameters
	tb := schematic.TitleBlock{Title: params.DesignName, Date: params.Date, Company: params.Company}
	rootID := uuid.NewSHA1(b.ns, []byte("root"))

	for _, n := range numbers {
		name, ok := b.design.SheetName(n)
		if !ok {
			name = fmt.Sprintf("Sheet %d", n)
		}
		sheet := &schematic.Sheet{
			Number:     n,
			Page:       strconv.Itoa(n),
			Name:       name,
			Geometry:   b.page,
			TitleBlock: tb,
		}
		if len(numbers) == 1 {
			sheet.ID = schematic.UUID(rootID.String())
		} else {
			sheet.ID = schematic.UUID(uuid.NewSHA1(rootID, []byte(strconv.Itoa(n))).String())
		}
		ctx := newSheetContext(sheet)
		b.contexts[n] = ctx
		b.order = append(b.order, ctx)
	}

	if len(numbers) == 1 {
		b.sch.Root = b.order[0].sheet
		return nil
	}

	root := &schematic.Sheet{
		ID:         schematic.UUID(rootID.String()),
		Page:       "1",
		Name:       nameOr(params.DesignName, "Root"),
		Geometry:   b.page,
		TitleBlock: tb,
	}
	for i, ctx := range b.order {
		sub := ctx.sheet
		pos := refBoxOrigin.Add(sexp.Point{
			X: int64(i%refBoxColumns) * refBoxPitch.X,
			Y: int64(i/refBoxColumns) * refBoxPitch.Y,
		})
		root.SheetRefs = append(root.SheetRefs, schematic.SheetRef{
			ID:       sub.ID,
			Sheet:    sub,
			Position: pos,
			Size:     refBoxSize,
			FileName: SheetFileName(params.DesignName, sub.Number),
		})
		b.sch.Sheets = append(b.sch.Sheets, sub)
	}
	b.sch.Root = root
	return nil
}

// SheetFileName is the file a sub-sheet is written to, relative to the root file
func SheetFileName(design string, number int) string {
	return fmt.Sprintf("%s_sheet%d.kicad_sch", sanitize(nameOr(design, "design")), number)
}

// context returns the sheet context for a foreign sheet number. Records
// without a sheet number belong to the first sheet.
func (b *builder) context(n int) (*sheetContext, bool) {
	if n <= 0 {
		return b.order[0], true
	}
	ctx, ok := b.contexts[n]
	return ctx, ok
}

func hasRecords(d *pads.Design) bool {
	return len(d.Parts) > 0 || len(d.Signals) > 0 || len(d.Connectors) > 0 ||
		len(d.TiedDots) > 0 || len(d.Texts) > 0 || len(d.Groups) > 0
}

func nameOr(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
