package shexc

import "fmt"

// ErrorKind enumerates the ShExC parser's error categories (spec.md 7,
// categories 1-3; category 4 "Structural" belongs to the SHACL ingest side,
// internal/shaclrdf).
type ErrorKind int

const (
	// Lexical
	UnterminatedString ErrorKind = iota
	BadEscape
	InvalidToken

	// Syntactic
	UnexpectedToken
	InvalidCardinality
	UnknownKeyword

	// Name resolution
	UnknownPrefix
	DuplicateShapeId
)

func (k ErrorKind) String() string {
	switch k {
	case UnterminatedString:
		return "UnterminatedString"
	case BadEscape:
		return "BadEscape"
	case InvalidToken:
		return "InvalidToken"
	case UnexpectedToken:
		return "UnexpectedToken"
	case InvalidCardinality:
		return "InvalidCardinality"
	case UnknownKeyword:
		return "UnknownKeyword"
	case UnknownPrefix:
		return "UnknownPrefix"
	case DuplicateShapeId:
		return "DuplicateShapeId"
	default:
		return "ParseError"
	}
}

// ParseError is returned by Parser.Parse on the first hard error
// encountered (spec.md 4.1: "fail-fast... reports the first error with a
// precise position").
type ParseError struct {
	Kind    ErrorKind
	Line    int
	Col     int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s: %s", e.Line, e.Col, e.Kind, e.Message)
}

func newParseError(kind ErrorKind, tok token, format string, args ...interface{}) *ParseError {
	return &ParseError{
		Kind:    kind,
		Line:    tok.line,
		Col:     tok.col,
		Message: fmt.Sprintf(format, args...),
	}
}
