package importer

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/OpenTraceLab/legacysch/pkg/kicad/schematic"
	"github.com/OpenTraceLab/legacysch/pkg/kicad/sexp"
)

// Justification code layout: value = vertical band offset + horizontal code.
const (
	bandBottom = 0
	bandTop    = 2
	bandMiddle = 8

	codeLeft   = 0
	codeRight  = 1
	codeCenter = 4
)

var bands = []struct {
	offset int
	align  sexp.VAlign
}{
	{bandMiddle, sexp.VAlignCenter},
	{bandTop, sexp.VAlignTop},
	{bandBottom, sexp.VAlignBottom},
}

// DecodeJustify decodes a foreign justification code. Bands are tested from
// the largest offset down; a band only matches when the remainder is a valid
// horizontal code, which keeps bottom+center (4) from being read as top+2.
// Unknown values decode as left/bottom.
func DecodeJustify(value int) (sexp.HAlign, sexp.VAlign) {
	for _, b := range bands {
		if value < b.offset {
			continue
		}
		if h, ok := horizontalCode(value - b.offset); ok {
			return h, b.align
		}
	}
	return sexp.HAlignLeft, sexp.VAlignBottom
}

func horizontalCode(code int) (sexp.HAlign, bool) {
	switch code {
	case codeLeft:
		return sexp.HAlignLeft, true
	case codeRight:
		return sexp.HAlignRight, true
	case codeCenter:
		return sexp.HAlignCenter, true
	}
	return 0, false
}

// TextMapper converts foreign text attributes into canonical effects
type TextMapper struct {
	xf Transform
}

// Effects builds text effects from a foreign height and justification code
func (m TextMapper) Effects(height float64, justify int, hidden bool) sexp.Effects {
	size := m.xf.ToCanonicalLen(height)
	if size <= 0 {
		size = schematic.DefaultTextSize
	}
	h, v := DecodeJustify(justify)
	return sexp.Effects{
		Font:    sexp.Font{Size: sexp.Size{Width: size, Height: size}},
		Justify: sexp.Justify{Horizontal: h, Vertical: v},
		Hide:    hidden,
	}
}

// Place applies the multi-line rule: text containing a line break is always
// top aligned and its anchor moves half a line toward the top of the text,
// whatever the justification code said.
func (m TextMapper) Place(pos sexp.Point, angle sexp.Angle, text string, eff sexp.Effects) (sexp.Point, sexp.Effects) {
	if !strings.Contains(text, "\n") {
		return pos, eff
	}
	eff.Justify.Vertical = sexp.VAlignTop
	half := eff.Font.Size.Height / 2
	switch schematic.Rotation(float64(angle)) {
	case schematic.Orient90:
		pos.X -= half
	case schematic.Orient180:
		pos.Y += half
	case schematic.Orient270:
		pos.X += half
	default:
		pos.Y -= half
	}
	return pos, eff
}

// Angle normalizes a foreign rotation in degrees
func (m TextMapper) Angle(deg float64) sexp.Angle {
	return sexp.Angle(deg).Normalize()
}

// DecodeText converts foreign text conventions: 8-bit strings are decoded as
// Windows-1252, CRLF becomes LF, and \NAME\ overbars become ~{NAME}.
func DecodeText(s string) string {
	if !utf8.ValidString(s) {
		if dec, err := charmap.Windows1252.NewDecoder().String(s); err == nil {
			s = dec
		}
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return convertOverbars(s)
}

func convertOverbars(s string) string {
	if strings.Count(s, `\`) < 2 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 4)
	open := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		if !open && strings.IndexByte(s[i+1:], '\\') < 0 {
			b.WriteByte(c)
			continue
		}
		if open {
			b.WriteByte('}')
		} else {
			b.WriteString("~{")
		}
		open = !open
	}
	return b.String()
}
