package pads

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// TokenKind classifies a wire endpoint token
type TokenKind uint8

const (
	TokenUnnamed TokenKind = iota // free vertex or anything unrecognized
	TokenPin                      // <reference>.<pin>
	TokenOffPage                  // @@@O<id>
	TokenDot                      // @@@D<id>
)

// Prefixes of the reserved endpoint tokens
const (
	offPagePrefix = "@@@O"
	dotPrefix     = "@@@D"
)

// Token is a classified endpoint token
type Token struct {
	Kind      TokenKind
	Raw       string
	Reference string // TokenPin only
	Pin       string // TokenPin only
	ID        int    // TokenOffPage and TokenDot
}

// ClassifyToken splits an endpoint token into its kind and parts
func ClassifyToken(raw string) Token {
	tok := Token{Raw: raw}
	switch {
	case raw == "":
		return tok
	case strings.HasPrefix(raw, offPagePrefix):
		if id, err := strconv.Atoi(raw[len(offPagePrefix):]); err == nil {
			tok.Kind, tok.ID = TokenOffPage, id
		}
		return tok
	case strings.HasPrefix(raw, dotPrefix):
		if id, err := strconv.Atoi(raw[len(dotPrefix):]); err == nil {
			tok.Kind, tok.ID = TokenDot, id
		}
		return tok
	}

	i := strings.LastIndexByte(raw, '.')
	if i <= 0 || i == len(raw)-1 {
		return tok
	}
	tok.Kind = TokenPin
	tok.Reference = raw[:i]
	tok.Pin = raw[i+1:]
	return tok
}

// OffPageToken formats the endpoint token for a connector ID
func OffPageToken(id int) string {
	return offPagePrefix + strconv.Itoa(id)
}

var connectorPinRe = regexp.MustCompile(`^(.*[^-.])[-.](\d+)$`)

// ConnectorPin reports whether a reference designator names a single pin of
// a multi-pin connector ("J1-3", "J1.3") and splits it.
func ConnectorPin(ref string) (base, pin string, ok bool) {
	m := connectorPinRe.FindStringSubmatch(ref)
	if m == nil || !hasLetter(m[1]) {
		return "", "", false
	}
	return m[1], m[2], true
}

// SplitGate strips a trailing gate suffix ("U1-A" with separator "-") and
// returns the base reference and the gate letters. References without a
// suffix are returned unchanged with an empty gate.
func SplitGate(ref, sep string) (base, gate string) {
	if sep == "" {
		return ref, ""
	}
	i := strings.LastIndex(ref, sep)
	if i <= 0 || i+len(sep) >= len(ref) {
		return ref, ""
	}
	suffix := ref[i+len(sep):]
	for _, r := range suffix {
		if !unicode.IsLetter(r) {
			return ref, ""
		}
	}
	return ref[:i], suffix
}

// IsAutoNetName reports whether a signal name was generated by the tool
// rather than typed by the user
func IsAutoNetName(name string) bool {
	return name == "" || strings.HasPrefix(name, "$$$")
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
