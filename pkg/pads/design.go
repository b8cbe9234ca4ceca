package pads

import (
	"sort"
	"strings"
)

// PartType returns the part-type with the given name
func (d *Design) PartType(name string) (*PartType, bool) {
	for i := range d.PartTypes {
		if d.PartTypes[i].Name == name {
			return &d.PartTypes[i], true
		}
	}
	return nil, false
}

// Decal returns the decal with the given name
func (d *Design) Decal(name string) (*Decal, bool) {
	for i := range d.Decals {
		if d.Decals[i].Name == name {
			return &d.Decals[i], true
		}
	}
	return nil, false
}

// Connector returns the off-page connector with the given ID
func (d *Design) Connector(id int) (*OffPageConnector, bool) {
	for i := range d.Connectors {
		if d.Connectors[i].ID == id {
			return &d.Connectors[i], true
		}
	}
	return nil, false
}

// SheetNumbers returns every sheet number referenced anywhere in the design,
// ascending and without duplicates
func (d *Design) SheetNumbers() []int {
	seen := make(map[int]bool)
	add := func(n int) {
		if n > 0 {
			seen[n] = true
		}
	}
	for _, h := range d.SheetHeaders {
		add(h.Number)
	}
	for _, p := range d.Parts {
		add(p.Sheet)
	}
	for _, s := range d.Signals {
		add(s.Sheet)
	}
	for _, c := range d.Connectors {
		add(c.Sheet)
	}
	for _, t := range d.TiedDots {
		add(t.Sheet)
	}
	for _, t := range d.Texts {
		add(t.Sheet)
	}
	for _, g := range d.Groups {
		if !d.IsBorderGroup(g) {
			add(g.Sheet)
		}
	}

	nums := make([]int, 0, len(seen))
	for n := range seen {
		nums = append(nums, n)
	}
	sort.Ints(nums)
	return nums
}

// SheetName returns the header name for a sheet number
func (d *Design) SheetName(n int) (string, bool) {
	for _, h := range d.SheetHeaders {
		if h.Number == n && h.Name != "" {
			return h.Name, true
		}
	}
	return "", false
}

// IsBorderGroup reports whether g is the page border template named by the
// design parameters
func (d *Design) IsBorderGroup(g GraphicsGroup) bool {
	border := d.Parameters.BorderName
	return border != "" && strings.EqualFold(g.Name, border)
}
