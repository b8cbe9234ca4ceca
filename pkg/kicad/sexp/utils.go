package sexp

import (
	"fmt"
	"math"
	"strconv"

	"github.com/OpenTraceLab/legacysch/pkg/kicad/sexp/kicadsexp"
)

// S-expression navigation helpers

// FindNode returns the first child list whose head is key.
// Example: FindNode(sym, "at") finds (at 100 50) inside a symbol
func FindNode(s kicadsexp.Sexp, key string) (kicadsexp.Sexp, bool) {
	for _, item := range SexpToSlice(s) {
		if NodeName(item) == key {
			return item, true
		}
	}
	return nil, false
}

// FindAllNodes returns every child list whose head is key
func FindAllNodes(s kicadsexp.Sexp, key string) []kicadsexp.Sexp {
	var results []kicadsexp.Sexp
	for _, item := range SexpToSlice(s) {
		if NodeName(item) == key {
			results = append(results, item)
		}
	}
	return results
}

// CountNodes counts lists with the given head anywhere below s
func CountNodes(s kicadsexp.Sexp, key string) int {
	n := 0
	for _, item := range SexpToSlice(s) {
		if item.IsLeaf() {
			continue
		}
		if NodeName(item) == key {
			n++
		}
		n += CountNodes(item, key)
	}
	return n
}

// NodeName returns the head symbol of a list, or "" for atoms
func NodeName(s kicadsexp.Sexp) string {
	l, ok := s.(*kicadsexp.List)
	if !ok || l.Len() == 0 {
		return ""
	}
	if sym, ok := l.Head().(kicadsexp.Symbol); ok {
		return string(sym)
	}
	return ""
}

// GetListItems returns all items in a list after the key
// Example: GetListItems((pts (xy 0 0) (xy 1 1))) returns the two xy lists
func GetListItems(s kicadsexp.Sexp) []kicadsexp.Sexp {
	items := SexpToSlice(s)
	if len(items) <= 1 {
		return nil
	}
	return items[1:]
}

// SexpToSlice returns the elements of a list, or nil for atoms
func SexpToSlice(s kicadsexp.Sexp) []kicadsexp.Sexp {
	l, ok := s.(*kicadsexp.List)
	if !ok {
		return nil
	}
	items := make([]kicadsexp.Sexp, 0, l.Len())
	for i := 0; i < l.Len(); i++ {
		items = append(items, l.Get(i))
	}
	return items
}

// Typed value extraction helpers

// GetString extracts the atom at the given index of a list, quoted or not.
// Index 0 is the key, 1 is the first value.
func GetString(s kicadsexp.Sexp, index int) (string, error) {
	items := SexpToSlice(s)
	if items == nil {
		return "", fmt.Errorf("expected list, got %v", s)
	}
	if index < 0 || index >= len(items) {
		return "", fmt.Errorf("index %d out of bounds (length %d)", index, len(items))
	}

	switch v := items[index].(type) {
	case kicadsexp.Symbol:
		return string(v), nil
	case kicadsexp.Quoted:
		return string(v), nil
	default:
		return "", fmt.Errorf("expected atom at index %d, got %T", index, items[index])
	}
}

// GetFloat extracts a float64 value at the given index
func GetFloat(s kicadsexp.Sexp, index int) (float64, error) {
	str, err := GetString(s, index)
	if err != nil {
		return 0, err
	}

	val, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse float %q: %w", str, err)
	}
	return val, nil
}

// GetInt extracts an int value at the given index
func GetInt(s kicadsexp.Sexp, index int) (int, error) {
	str, err := GetString(s, index)
	if err != nil {
		return 0, err
	}

	val, err := strconv.Atoi(str)
	if err != nil {
		return 0, fmt.Errorf("failed to parse int %q: %w", str, err)
	}
	return val, nil
}

// Domain-specific extraction helpers

// GetPoint reads an (at X Y [angle]) or (xy X Y) node written in millimeters
// back into internal units.
func GetPoint(s kicadsexp.Sexp) (Point, error) {
	x, err := GetFloat(s, 1)
	if err != nil {
		return Point{}, fmt.Errorf("x: %w", err)
	}
	y, err := GetFloat(s, 2)
	if err != nil {
		return Point{}, fmt.Errorf("y: %w", err)
	}
	return Point{
		X: int64(math.Round(x * IUPerMM)),
		Y: int64(math.Round(y * IUPerMM)),
	}, nil
}

// GetAngle reads the optional rotation of an (at X Y angle) node
func GetAngle(s kicadsexp.Sexp) Angle {
	a, err := GetFloat(s, 3)
	if err != nil {
		return 0
	}
	return Angle(a).Normalize()
}

// GetUUID returns the value of the (uuid ...) child of s
func GetUUID(s kicadsexp.Sexp) (UUID, error) {
	node, ok := FindNode(s, "uuid")
	if !ok {
		return "", fmt.Errorf("missing uuid")
	}
	id, err := GetString(node, 1)
	return UUID(id), err
}

// GetProperties reads every (property "key" "value" ...) child of s
func GetProperties(s kicadsexp.Sexp) ([]Property, error) {
	var props []Property
	for _, node := range FindAllNodes(s, "property") {
		key, err := GetString(node, 1)
		if err != nil {
			return nil, fmt.Errorf("property key: %w", err)
		}
		value, err := GetString(node, 2)
		if err != nil {
			return nil, fmt.Errorf("property %s: %w", key, err)
		}

		p := Property{Key: key, Value: value}
		if at, ok := FindNode(node, "at"); ok {
			if p.Position, err = GetPoint(at); err != nil {
				return nil, fmt.Errorf("property %s: %w", key, err)
			}
			p.Angle = GetAngle(at)
		}
		props = append(props, p)
	}
	return props, nil
}

// GetProperty returns the value of the named property of s
func GetProperty(s kicadsexp.Sexp, key string) (string, bool) {
	for _, node := range FindAllNodes(s, "property") {
		if k, err := GetString(node, 1); err == nil && k == key {
			v, err := GetString(node, 2)
			return v, err == nil
		}
	}
	return "", false
}
