package schematic

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/OpenTraceLab/legacysch/pkg/kicad/sexp"
	"github.com/OpenTraceLab/legacysch/pkg/kicad/sexp/kicadsexp"
)

// FileVersion is the .kicad_sch format version written by this package
const FileVersion = 20231120

// Generator is the generator name written into every file
const Generator = "legacysch"

type node = kicadsexp.Sexp

var (
	sym = func(s string) node { return kicadsexp.Symbol(s) }
	str = func(s string) node { return kicadsexp.Quoted(s) }
)

// WriteFile serializes one sheet of the schematic to a file
func WriteFile(filename string, sch *Schematic, sheet *Sheet) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := Write(f, sch, sheet); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Write serializes one sheet as a .kicad_sch document
func Write(w io.Writer, sch *Schematic, sheet *Sheet) error {
	if sheet == nil {
		return fmt.Errorf("nil sheet")
	}
	if err := kicadsexp.Write(w, SheetSexp(sch, sheet)); err != nil {
		return fmt.Errorf("failed to write sheet %q: %w", sheet.Name, err)
	}
	return nil
}

// SheetSexp builds the s-expression tree for one sheet
func SheetSexp(sch *Schematic, sheet *Sheet) *kicadsexp.List {
	root := kicadsexp.NewList("kicad_sch",
		kicadsexp.NewList("version", kicadsexp.Int(FileVersion)),
		kicadsexp.NewList("generator", str(Generator)),
		kicadsexp.NewList("uuid", str(string(sheet.ID))),
		paperSexp(sheet.Geometry),
	)

	if tb := sheet.TitleBlock; tb.Title != "" || tb.Date != "" || tb.Company != "" {
		block := kicadsexp.NewList("title_block")
		if tb.Title != "" {
			block.Append(kicadsexp.NewList("title", str(tb.Title)))
		}
		if tb.Date != "" {
			block.Append(kicadsexp.NewList("date", str(tb.Date)))
		}
		if tb.Company != "" {
			block.Append(kicadsexp.NewList("company", str(tb.Company)))
		}
		root.Append(block)
	}

	libs := kicadsexp.NewList("lib_symbols")
	seen := make(map[*LibSymbol]bool)
	for _, inst := range sheet.Symbols {
		if inst.Lib == nil || seen[inst.Lib] {
			continue
		}
		seen[inst.Lib] = true
		libs.Append(libSymbolSexp(inst.Lib))
	}
	root.Append(libs)

	for _, j := range sheet.Junctions {
		root.Append(kicadsexp.NewList("junction",
			at(j.Position), kicadsexp.NewList("diameter", sym("0")),
			kicadsexp.NewList("color", sym("0"), sym("0"), sym("0"), sym("0")),
			uuidSexp(j.UUID)))
	}

	for _, wire := range sheet.Wires {
		key := "wire"
		if wire.Layer == LayerBus {
			key = "bus"
		}
		root.Append(kicadsexp.NewList(key,
			kicadsexp.NewList("pts", xy(wire.Start), xy(wire.End)),
			strokeSexp(Stroke{}),
			uuidSexp(wire.UUID)))
	}

	for _, l := range sheet.Labels {
		if l.Kind == LabelGlobal {
			root.Append(kicadsexp.NewList("global_label", str(l.Text),
				kicadsexp.NewList("shape", sym("passive")),
				atAngle(l.Position, l.Spin.Angle()),
				effectsSexp(l.Effects),
				uuidSexp(l.UUID)))
			continue
		}
		root.Append(kicadsexp.NewList("label", str(l.Text),
			atAngle(l.Position, l.Spin.Angle()),
			effectsSexp(l.Effects),
			uuidSexp(l.UUID)))
	}

	for _, t := range sheet.Texts {
		root.Append(kicadsexp.NewList("text", str(t.Text),
			atAngle(t.Position, t.Angle),
			effectsSexp(t.Effects),
			uuidSexp(t.UUID)))
	}

	for _, g := range sheet.Graphics {
		root.Append(graphicSexp(g, false))
	}

	for _, inst := range sheet.Symbols {
		root.Append(instanceSexp(sch, sheet, inst))
	}

	for _, ref := range sheet.SheetRefs {
		root.Append(sheetRefSexp(ref))
	}

	instances := kicadsexp.NewList("sheet_instances")
	instances.Append(kicadsexp.NewList("path", str("/"), kicadsexp.NewList("page", str(pageOf(sheet)))))
	for _, ref := range sheet.SheetRefs {
		instances.Append(kicadsexp.NewList("path", str("/"+string(ref.ID)),
			kicadsexp.NewList("page", str(pageOf(ref.Sheet)))))
	}
	root.Append(instances)

	return root
}

func pageOf(sheet *Sheet) string {
	if sheet == nil || sheet.Page == "" {
		return "1"
	}
	return sheet.Page
}

func paperSexp(g PageGeometry) node {
	switch g.Paper {
	case "", "User":
		return kicadsexp.NewList("paper", str("User"), mm(g.Width), mm(g.Height))
	default:
		return kicadsexp.NewList("paper", str(g.Paper))
	}
}

func libSymbolSexp(ls *LibSymbol) node {
	out := kicadsexp.NewList("symbol", str(ls.Name))
	if ls.Power {
		out.Append(kicadsexp.NewList("power"))
	}
	if !ls.ShowPinNums {
		out.Append(kicadsexp.NewList("pin_numbers", sym("hide")))
	}
	if !ls.ShowPinNames {
		out.Append(kicadsexp.NewList("pin_names", sym("hide")))
	}
	out.Append(
		kicadsexp.NewList("in_bom", kicadsexp.Bool(!ls.Power)),
		kicadsexp.NewList("on_board", kicadsexp.Bool(!ls.Power)),
	)
	for _, p := range ls.Properties {
		out.Append(propertySexp(p, true))
	}
	// Unit names repeat the item name without the library nickname
	item := ls.Name
	if i := strings.LastIndexByte(item, ':'); i >= 0 {
		item = item[i+1:]
	}
	for _, u := range ls.Units {
		unit := kicadsexp.NewList("symbol", str(fmt.Sprintf("%s_%d_1", item, u.Number)))
		for _, g := range u.Graphics {
			unit.Append(graphicSexp(g, true))
		}
		for _, p := range u.Pins {
			unit.Append(pinSexp(p))
		}
		out.Append(unit)
	}
	return out
}

func pinSexp(p Pin) node {
	out := kicadsexp.NewList("pin", sym(string(p.Type)), sym("line"),
		atAngle(flipY(p.Position), p.Angle),
		kicadsexp.NewList("length", mm(p.Length)))
	if p.Hide {
		out.Append(sym("hide"))
	}
	out.Append(
		kicadsexp.NewList("name", str(p.Name), defaultEffects()),
		kicadsexp.NewList("number", str(p.Number), defaultEffects()),
	)
	return out
}

// graphicSexp writes a primitive. Library symbols are stored Y-up on disk.
func graphicSexp(g Graphic, yUp bool) node {
	pt := func(p Point) Point {
		if yUp {
			return flipY(p)
		}
		return p
	}

	switch g.Kind {
	case GraphicPolyline:
		pts := kicadsexp.NewList("pts")
		for _, p := range g.Points {
			pts.Append(xy(pt(p)))
		}
		return kicadsexp.NewList("polyline", pts, strokeSexp(g.Stroke), fillSexp(g.Fill))
	case GraphicArc:
		return kicadsexp.NewList("arc",
			kicadsexp.NewList("start", mm(pt(g.Start).X), mm(pt(g.Start).Y)),
			kicadsexp.NewList("mid", mm(pt(g.Mid).X), mm(pt(g.Mid).Y)),
			kicadsexp.NewList("end", mm(pt(g.End).X), mm(pt(g.End).Y)),
			strokeSexp(g.Stroke), fillSexp(g.Fill))
	case GraphicCircle:
		return kicadsexp.NewList("circle",
			kicadsexp.NewList("center", mm(pt(g.Center).X), mm(pt(g.Center).Y)),
			kicadsexp.NewList("radius", mm(g.Radius)),
			strokeSexp(g.Stroke), fillSexp(g.Fill))
	case GraphicRectangle:
		return kicadsexp.NewList("rectangle",
			kicadsexp.NewList("start", mm(pt(g.Start).X), mm(pt(g.Start).Y)),
			kicadsexp.NewList("end", mm(pt(g.End).X), mm(pt(g.End).Y)),
			strokeSexp(g.Stroke), fillSexp(g.Fill))
	case GraphicText:
		return kicadsexp.NewList("text", str(g.Text), atAngle(pt(g.Start), g.Angle), effectsSexp(g.Effects))
	}
	panic(fmt.Sprintf("schematic: unhandled graphic kind %v", g.Kind))
}

func instanceSexp(sch *Schematic, sheet *Sheet, inst *SymbolInstance) node {
	out := kicadsexp.NewList("symbol",
		kicadsexp.NewList("lib_id", str(inst.Lib.Name)),
		atAngle(inst.Position, inst.Orientation.Angle()))
	if inst.Orientation.Mirrored() {
		out.Append(kicadsexp.NewList("mirror", sym("y")))
	}
	unit := inst.Unit
	if unit < 1 {
		unit = 1
	}
	// Footprints link back to the primary unit through its uuid
	id := inst.UUID
	if inst.LinkID != "" {
		id = inst.LinkID
	}
	out.Append(
		kicadsexp.NewList("unit", kicadsexp.Int(int64(unit))),
		kicadsexp.NewList("in_bom", kicadsexp.Bool(!inst.Power)),
		kicadsexp.NewList("on_board", kicadsexp.Bool(!inst.Power)),
		uuidSexp(id),
	)
	for _, p := range inst.Properties {
		out.Append(propertySexp(p, false))
	}

	path := "/"
	if sch != nil && sch.Root != nil && sheet != sch.Root {
		path = "/" + string(sheet.ID)
	}
	out.Append(kicadsexp.NewList("instances",
		kicadsexp.NewList("project", str(""),
			kicadsexp.NewList("path", str(path),
				kicadsexp.NewList("reference", str(inst.Reference)),
				kicadsexp.NewList("unit", kicadsexp.Int(int64(unit)))))))
	return out
}

func sheetRefSexp(ref SheetRef) node {
	name := ""
	if ref.Sheet != nil {
		name = ref.Sheet.Name
	}
	return kicadsexp.NewList("sheet",
		at(ref.Position),
		kicadsexp.NewList("size", mm(ref.Size.Width), mm(ref.Size.Height)),
		strokeSexp(Stroke{}),
		kicadsexp.NewList("fill", kicadsexp.NewList("color", sym("0"), sym("0"), sym("0"), sym("0"))),
		uuidSexp(ref.ID),
		kicadsexp.NewList("property", str("Sheetname"), str(name),
			at(ref.Position), defaultEffects()),
		kicadsexp.NewList("property", str("Sheetfile"), str(ref.FileName),
			at(ref.Position.Add(Point{Y: ref.Size.Height})), defaultEffects()))
}

func propertySexp(p Property, local bool) node {
	pos := p.Position
	if local {
		pos = flipY(pos)
	}
	return kicadsexp.NewList("property", str(p.Key), str(p.Value),
		atAngle(pos, p.Angle), effectsSexp(p.Effects))
}

func effectsSexp(e Effects) node {
	size := e.Font.Size
	if size.Width == 0 && size.Height == 0 {
		size = Size{Width: DefaultTextSize, Height: DefaultTextSize}
	}
	out := kicadsexp.NewList("effects",
		kicadsexp.NewList("font", kicadsexp.NewList("size", mm(size.Height), mm(size.Width))))

	j := kicadsexp.NewList("justify")
	if e.Justify.Horizontal != sexp.HAlignCenter {
		j.Append(sym(e.Justify.Horizontal.String()))
	}
	if e.Justify.Vertical != sexp.VAlignCenter {
		j.Append(sym(e.Justify.Vertical.String()))
	}
	if e.Justify.Mirror {
		j.Append(sym("mirror"))
	}
	if j.Len() > 1 {
		out.Append(j)
	}
	if e.Hide {
		out.Append(sym("hide"))
	}
	return out
}

func defaultEffects() node {
	return effectsSexp(Effects{})
}

func strokeSexp(s Stroke) node {
	t := s.Type
	if t == "" {
		t = "default"
	}
	return kicadsexp.NewList("stroke", kicadsexp.NewList("width", mm(s.Width)), kicadsexp.NewList("type", sym(t)))
}

func fillSexp(f Fill) node {
	t := f.Type
	if t == "" {
		t = "none"
	}
	return kicadsexp.NewList("fill", kicadsexp.NewList("type", sym(t)))
}

func uuidSexp(id UUID) node {
	return kicadsexp.NewList("uuid", str(string(id)))
}

func at(p Point) node {
	return kicadsexp.NewList("at", mm(p.X), mm(p.Y))
}

func atAngle(p Point, a Angle) node {
	return kicadsexp.NewList("at", mm(p.X), mm(p.Y), kicadsexp.Float(float64(a.Normalize())))
}

func xy(p Point) node {
	return kicadsexp.NewList("xy", mm(p.X), mm(p.Y))
}

func mm(v int64) node {
	return kicadsexp.Float(float64(v) / sexp.IUPerMM)
}

func flipY(p Point) Point {
	return Point{X: p.X, Y: -p.Y}
}
