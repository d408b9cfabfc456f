// Package engine implements the template rendering core: a scanner that
// splits template text into literal runs and directive markers, a parser that
// builds a directive tree, and a renderer that evaluates the tree against a
// configuration scope chain.
//
// Directive grammar (delimited by "{{" and "}}"):
//
//	{{PATH}}          variable reference (dotted path)
//	{{#if PATH}}      conditional block open
//	{{/if}}           conditional block close
//	{{#each PATH}}    loop block open
//	{{/each}}         loop block close
//
// Any bracket pair not matching one of those five shapes is a fatal scan
// error. Missing variables and type mismatches during rendering are not
// errors; they accumulate as diagnostics next to the rendered output.
package engine

import (
	"fmt"
	"strings"

	"github.com/pilotgen/pilotgen/internal/errors"
)

const (
	openDelim  = "{{"
	closeDelim = "}}"

	ifKeyword   = "#if"
	eachKeyword = "#each"
	closeIf     = "/if"
	closeEach   = "/each"
)

// TokenKind identifies a scanner token.
type TokenKind int

const (
	TokenText TokenKind = iota
	TokenOpenVar
	TokenOpenIf
	TokenCloseIf
	TokenOpenEach
	TokenCloseEach
)

// String returns the string representation of the TokenKind.
func (k TokenKind) String() string {
	switch k {
	case TokenText:
		return "text"
	case TokenOpenVar:
		return "variable"
	case TokenOpenIf:
		return "#if"
	case TokenCloseIf:
		return "/if"
	case TokenOpenEach:
		return "#each"
	case TokenCloseEach:
		return "/each"
	default:
		return "unknown"
	}
}

// Token is a single scanner output: a literal text run or one directive
// marker. Offset is the byte offset of the token's start in the template.
type Token struct {
	Kind   TokenKind
	Text   string // literal run, only for TokenText
	Path   string // dotted path, only for variable/#if/#each tokens
	Offset int
}

// Scanner walks template text and produces tokens one at a time. It performs
// no nesting validation; block matching belongs to the parser.
type Scanner struct {
	input string
	pos   int
}

// NewScanner creates a scanner over the given template text. Scanning the
// same text again only requires a new Scanner; the input is never mutated.
func NewScanner(input string) *Scanner {
	return &Scanner{input: input}
}

// Next returns the next token. The boolean result is false once the input is
// exhausted. A malformed bracket pair returns a fatal scan error carrying the
// byte offset of the opening delimiter.
func (s *Scanner) Next() (Token, bool, error) {
	if s.pos >= len(s.input) {
		return Token{}, false, nil
	}

	rest := s.input[s.pos:]
	open := strings.Index(rest, openDelim)

	// No more directives: the remainder is one literal run.
	if open < 0 {
		tok := Token{Kind: TokenText, Text: rest, Offset: s.pos}
		s.pos = len(s.input)
		return tok, true, nil
	}

	// Literal text before the next directive.
	if open > 0 {
		tok := Token{Kind: TokenText, Text: rest[:open], Offset: s.pos}
		s.pos += open
		return tok, true, nil
	}

	// Directive at the current position.
	markerOffset := s.pos
	end := strings.Index(rest[len(openDelim):], closeDelim)
	if end < 0 {
		return Token{}, false, malformedErr(markerOffset, s.input, "unterminated directive")
	}
	inner := rest[len(openDelim) : len(openDelim)+end]
	s.pos += len(openDelim) + end + len(closeDelim)

	tok, err := classify(inner, markerOffset, s.input)
	if err != nil {
		return Token{}, false, err
	}
	return tok, true, nil
}

// Scan collects all tokens. It is a convenience for callers that do not need
// lazy consumption.
func (s *Scanner) Scan() ([]Token, error) {
	var tokens []Token
	for {
		tok, ok, err := s.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return tokens, nil
		}
		tokens = append(tokens, tok)
	}
}

func classify(inner string, offset int, input string) (Token, error) {
	body := strings.TrimSpace(inner)
	switch {
	case body == closeIf:
		return Token{Kind: TokenCloseIf, Offset: offset}, nil

	case body == closeEach:
		return Token{Kind: TokenCloseEach, Offset: offset}, nil

	case strings.HasPrefix(body, ifKeyword):
		path, ok := keywordPath(body, ifKeyword)
		if !ok {
			return Token{}, malformedErr(offset, input, fmt.Sprintf("invalid #if directive %q", body))
		}
		return Token{Kind: TokenOpenIf, Path: path, Offset: offset}, nil

	case strings.HasPrefix(body, eachKeyword):
		path, ok := keywordPath(body, eachKeyword)
		if !ok {
			return Token{}, malformedErr(offset, input, fmt.Sprintf("invalid #each directive %q", body))
		}
		return Token{Kind: TokenOpenEach, Path: path, Offset: offset}, nil

	default:
		if !validPath(body) {
			return Token{}, malformedErr(offset, input, fmt.Sprintf("unrecognized directive %q", body))
		}
		return Token{Kind: TokenOpenVar, Path: body, Offset: offset}, nil
	}
}

// keywordPath extracts the path argument of "#if <path>" or "#each <path>".
func keywordPath(body, keyword string) (string, bool) {
	rest := body[len(keyword):]
	if rest == "" || (rest[0] != ' ' && rest[0] != '\t') {
		return "", false
	}
	path := strings.TrimSpace(rest)
	if !validPath(path) {
		return "", false
	}
	return path, true
}

// validPath accepts dotted paths of non-empty segments made of letters,
// digits, underscores, and hyphens.
func validPath(path string) bool {
	if path == "" {
		return false
	}
	for _, segment := range strings.Split(path, ".") {
		if segment == "" {
			return false
		}
		for _, r := range segment {
			switch {
			case r >= 'a' && r <= 'z':
			case r >= 'A' && r <= 'Z':
			case r >= '0' && r <= '9':
			case r == '_' || r == '-':
			default:
				return false
			}
		}
	}
	return true
}

func malformedErr(offset int, input, message string) error {
	line, column := lineColumn(input, offset)
	return errors.NewScanError(errors.CodeMalformedDirective, message).
		WithLocation(offset, line, column)
}

// lineColumn converts a byte offset into 1-based line and column numbers.
func lineColumn(input string, offset int) (int, int) {
	if offset > len(input) {
		offset = len(input)
	}
	line := 1
	column := 1
	for _, b := range []byte(input[:offset]) {
		if b == '\n' {
			line++
			column = 1
			continue
		}
		column++
	}
	return line, column
}
