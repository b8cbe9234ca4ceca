package asc

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/participle/v2"

	"github.com/OpenTraceLab/legacysch/pkg/pads"
)

// Parser reads the line-oriented record dump of a legacy schematic
type Parser struct {
	parser *participle.Parser[File]
}

// NewParser creates a new record dump parser
func NewParser() (*Parser, error) {
	parser, err := participle.Build[File](
		participle.Lexer(ASCLexer),
		participle.Elide("Comment", "Whitespace"),
		participle.Unquote("String"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build parser: %w", err)
	}

	return &Parser{parser: parser}, nil
}

// Parse parses a record dump from a reader
func (p *Parser) Parse(r io.Reader) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return p.ParseString(string(data))
}

// ParseString parses a record dump from a string
func (p *Parser) ParseString(input string) (*File, error) {
	// the last record needs a line end too
	f, err := p.parser.ParseString("", input+"\n")
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return f, nil
}

// ParseFile parses a record dump from a file path
func (p *Parser) ParseFile(filename string) (*File, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return p.Parse(file)
}

// Read parses a record dump and maps it to a design
func Read(r io.Reader) (*pads.Design, error) {
	p, err := NewParser()
	if err != nil {
		return nil, err
	}
	f, err := p.Parse(r)
	if err != nil {
		return nil, err
	}
	return Map(f)
}

// ReadFile parses and maps a record dump file
func ReadFile(filename string) (*pads.Design, error) {
	p, err := NewParser()
	if err != nil {
		return nil, err
	}
	f, err := p.ParseFile(filename)
	if err != nil {
		return nil, err
	}
	return Map(f)
}
