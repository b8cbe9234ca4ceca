package kicadsexp

import (
	"bufio"
	"io"
	"strings"
)

// maxInlineWidth is the longest list written on a single line
const maxInlineWidth = 96

// Write serializes an S-expression with KiCad-style indentation: short lists
// stay on one line, longer ones put each nested list on its own line.
func Write(w io.Writer, s Sexp) error {
	bw := bufio.NewWriter(w)
	writeNode(bw, s, 0)
	bw.WriteByte('\n')
	return bw.Flush()
}

// Format returns the indented representation of s
func Format(s Sexp) string {
	var b strings.Builder
	_ = Write(&b, s)
	return b.String()
}

func writeNode(w *bufio.Writer, s Sexp, depth int) {
	l, ok := s.(*List)
	if !ok {
		w.WriteString(s.String())
		return
	}

	flat := l.String()
	if len(flat)+depth*2 <= maxInlineWidth || !hasNestedList(l) {
		w.WriteString(flat)
		return
	}

	w.WriteByte('(')
	for i, elem := range l.elements {
		if elem.IsLeaf() {
			if i > 0 {
				w.WriteByte(' ')
			}
			w.WriteString(elem.String())
			continue
		}
		w.WriteByte('\n')
		w.WriteString(strings.Repeat("\t", depth+1))
		writeNode(w, elem, depth+1)
	}
	w.WriteByte('\n')
	w.WriteString(strings.Repeat("\t", depth))
	w.WriteByte(')')
}

func hasNestedList(l *List) bool {
	for _, elem := range l.elements {
		if !elem.IsLeaf() {
			return true
		}
	}
	return false
}
