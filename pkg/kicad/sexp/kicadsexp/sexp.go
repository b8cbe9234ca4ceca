// Package kicadsexp provides a small S-expression tree used to serialize the
// canonical schematic model in KiCad's file syntax.
package kicadsexp

import (
	"strconv"
	"strings"
)

// Sexp represents an S-expression node.
// It can be either a leaf (atom) or a list.
type Sexp interface {
	// IsLeaf returns true if this is an atom (not a list)
	IsLeaf() bool

	// LeafCount returns the number of elements in a list (1 for atoms)
	LeafCount() int

	// Head returns the first element of a list (the atom itself for atoms)
	Head() Sexp

	// String returns the string representation
	String() string
}

// Symbol represents a bare atom (keyword, number, identifier)
type Symbol string

func (s Symbol) IsLeaf() bool   { return true }
func (s Symbol) LeafCount() int { return 1 }
func (s Symbol) Head() Sexp     { return s }
func (s Symbol) String() string { return string(s) }

// Quoted represents a string atom that is always written with quotes
type Quoted string

func (q Quoted) IsLeaf() bool   { return true }
func (q Quoted) LeafCount() int { return 1 }
func (q Quoted) Head() Sexp     { return q }

func (q Quoted) String() string {
	var b strings.Builder
	b.Grow(len(q) + 2)
	b.WriteByte('"')
	for _, r := range string(q) {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// List represents a list of S-expressions
type List struct {
	elements []Sexp
}

// NewList creates a list that starts with the given keyword
func NewList(key string, items ...Sexp) *List {
	l := &List{elements: make([]Sexp, 0, len(items)+1)}
	l.elements = append(l.elements, Symbol(key))
	l.elements = append(l.elements, items...)
	return l
}

// Append adds items to the end of the list and returns the list
func (l *List) Append(items ...Sexp) *List {
	l.elements = append(l.elements, items...)
	return l
}

func (l *List) IsLeaf() bool { return false }

func (l *List) LeafCount() int {
	return len(l.elements)
}

func (l *List) Head() Sexp {
	if len(l.elements) == 0 {
		return nil
	}
	return l.elements[0]
}

func (l *List) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, elem := range l.elements {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(elem.String())
	}
	b.WriteByte(')')
	return b.String()
}

// Get returns the element at the given index
func (l *List) Get(index int) Sexp {
	if index < 0 || index >= len(l.elements) {
		return nil
	}
	return l.elements[index]
}

// Len returns the number of elements in the list
func (l *List) Len() int {
	return len(l.elements)
}

// Int formats an integer atom
func Int(v int64) Symbol {
	return Symbol(strconv.FormatInt(v, 10))
}

// Float formats a decimal atom with at most four fractional digits and no
// trailing zeros, which is how KiCad writes millimeter values.
func Float(v float64) Symbol {
	s := strconv.FormatFloat(v, 'f', 4, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" || s == "" {
		s = "0"
	}
	return Symbol(s)
}

// Bool formats a yes/no atom
func Bool(v bool) Symbol {
	if v {
		return Symbol("yes")
	}
	return Symbol("no")
}
