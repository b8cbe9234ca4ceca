package asc

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// ASCLexer splits a record dump into words, quoted strings and line ends.
// Numbers are words too; the mapper converts them per field.
var ASCLexer = lexer.MustSimple([]lexer.SimpleRule{
	// Comments run to the end of the line
	{Name: "Comment", Pattern: `#[^\n]*`},

	// Line ends terminate records
	{Name: "EOL", Pattern: `\r?\n`},

	{Name: "Whitespace", Pattern: `[ \t\r]+`},

	// Quoted strings with backslash escapes
	{Name: "String", Pattern: `"(?:[^"\\]|\\.)*"`},

	// Anything else up to whitespace
	{Name: "Word", Pattern: `[^\s"#]+`},
})
