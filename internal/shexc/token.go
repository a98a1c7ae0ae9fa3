package shexc

import "fmt"

type tokenType int

const (
	tokenEOF tokenType = iota
	tokenError

	tokenIRIREF  // <...>
	tokenPNameNS // prefix:  (empty local, used in directives)
	tokenPNameLN // prefix:local
	tokenString  // "..." or '...'
	tokenInteger // [+-]?[0-9]+
	tokenLangTag // @en, @en-US

	tokenPREFIX
	tokenBASE
	tokenEXTRA
	tokenCLOSED
	tokenIRIKw
	tokenLiteralKw
	tokenBNodeKw
	tokenNonLiteralKw
	tokenOR

	tokenLBrace   // {
	tokenRBrace   // }
	tokenLBracket // [
	tokenRBracket // ]
	tokenLParen   // (
	tokenRParen   // )
	tokenComma    // ,
	tokenSemi     // ;
	tokenDot      // .
	tokenCaret    // ^
	tokenCaret2   // ^^
	tokenQuestion // ?
	tokenStar     // *
	tokenPlus     // +
	tokenAt       // @
	tokenTilde    // ~
)

func (t tokenType) String() string {
	switch t {
	case tokenEOF:
		return "end of input"
	case tokenError:
		return "lexical error"
	case tokenIRIREF:
		return "IRIREF"
	case tokenPNameNS:
		return "prefixed name (namespace)"
	case tokenPNameLN:
		return "prefixed name"
	case tokenString:
		return "string"
	case tokenInteger:
		return "integer"
	case tokenLangTag:
		return "language tag"
	case tokenPREFIX:
		return "PREFIX"
	case tokenBASE:
		return "BASE"
	case tokenEXTRA:
		return "EXTRA"
	case tokenCLOSED:
		return "CLOSED"
	case tokenIRIKw:
		return "IRI"
	case tokenLiteralKw:
		return "LITERAL"
	case tokenBNodeKw:
		return "BNODE"
	case tokenNonLiteralKw:
		return "NONLITERAL"
	case tokenOR:
		return "OR"
	case tokenLBrace:
		return "'{'"
	case tokenRBrace:
		return "'}'"
	case tokenLBracket:
		return "'['"
	case tokenRBracket:
		return "']'"
	case tokenLParen:
		return "'('"
	case tokenRParen:
		return "')'"
	case tokenComma:
		return "','"
	case tokenSemi:
		return "';'"
	case tokenDot:
		return "'.'"
	case tokenCaret:
		return "'^'"
	case tokenCaret2:
		return "'^^'"
	case tokenQuestion:
		return "'?'"
	case tokenStar:
		return "'*'"
	case tokenPlus:
		return "'+'"
	case tokenAt:
		return "'@'"
	case tokenTilde:
		return "'~'"
	default:
		return fmt.Sprintf("tokenType(%d)", int(t))
	}
}

// token is a single lexeme emitted by the lexer, carrying its position for
// error reporting (spec.md 4.1: "Tokens carry absolute byte offset, line,
// and column").
type token struct {
	typ        tokenType
	line, col  int
	offset     int
	text       string // unescaped value for strings/IRIs, raw text otherwise
	prefix     string // for tokenPNameNS / tokenPNameLN: the prefix part
	local      string // for tokenPNameLN: the local part
	errKind    ErrorKind // valid only when typ == tokenError
}
