package asc

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// File is a parsed record dump: one record per non-empty line
type File struct {
	Records []*Record `parser:"( @@ | EOL )*"`
}

// Record is a keyword followed by its values
// Example: PART R1 RES10K 1 1000 2000 90 0 0
type Record struct {
	Pos lexer.Position

	Keyword string   `parser:"@Word"`
	Values  []*Value `parser:"@@* EOL"`
}

// Value is a bare word or a quoted string
type Value struct {
	Quoted *string `parser:"  @String"`
	Word   *string `parser:"| @Word"`
}

// Text returns the value as written, without quotes
func (v *Value) Text() string {
	switch {
	case v.Quoted != nil:
		return *v.Quoted
	case v.Word != nil:
		return *v.Word
	}
	return ""
}

// Texts returns every value of the record as text
func (r *Record) Texts() []string {
	out := make([]string, len(r.Values))
	for i, v := range r.Values {
		out[i] = v.Text()
	}
	return out
}
