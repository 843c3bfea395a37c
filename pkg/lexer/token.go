package lexer

// Kind represents the type of token identified by the scanner.
type Kind uint8

const (
	KindEOF Kind = iota
	KindError
	KindName
	KindNumber
	KindString
	KindLParen   // (
	KindRParen   // )
	KindLBracket // [
	KindRBracket // ]
	KindLBrace   // {
	KindRBrace   // }
	KindColon    // :
	KindArrow    // ->
	KindIndent
	KindDedent
	KindNewline
	KindOp    // any other operator or delimiter
	KindOther // characters Python does not know
)

var kindNames = [...]string{
	KindEOF:      "EOF",
	KindError:    "ERROR",
	KindName:     "NAME",
	KindNumber:   "NUMBER",
	KindString:   "STRING",
	KindLParen:   "LPAR",
	KindRParen:   "RPAR",
	KindLBracket: "LSQB",
	KindRBracket: "RSQB",
	KindLBrace:   "LBRACE",
	KindRBrace:   "RBRACE",
	KindColon:    "COLON",
	KindArrow:    "RARROW",
	KindIndent:   "INDENT",
	KindDedent:   "DEDENT",
	KindNewline:  "NEWLINE",
	KindOp:       "OP",
	KindOther:    "ERRORTOKEN",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "UNKNOWN"
}

// IsOpener reports whether k opens a bracketed group.
func (k Kind) IsOpener() bool {
	return k == KindLParen || k == KindLBracket || k == KindLBrace
}

// IsCloser reports whether k closes a bracketed group.
func (k Kind) IsCloser() bool {
	return k == KindRParen || k == KindRBracket || k == KindRBrace
}

// Closer returns the kind that closes opener k, or KindEOF when k is not an opener.
func (k Kind) Closer() Kind {
	switch k {
	case KindLParen:
		return KindRParen
	case KindLBracket:
		return KindRBracket
	case KindLBrace:
		return KindRBrace
	}
	return KindEOF
}

// Token is a lexical unit of Python source.
// Line and Col are 0-based and relative to the scanned text; Col counts runes.
type Token struct {
	Kind     Kind
	Text     string
	Line     int
	Col      int
	LineText string
}

// Stream is a forward-only sequence of tokens. Once exhausted it keeps
// returning KindEOF; a lexical failure is reported as a single KindError token.
type Stream interface {
	Next() Token
}

// SliceStream replays a prebuilt token slice.
type SliceStream struct {
	tokens []Token
	pos    int
}

// NewSliceStream returns a Stream over tokens.
func NewSliceStream(tokens []Token) *SliceStream {
	return &SliceStream{tokens: tokens}
}

// Next returns the next token, or KindEOF past the end.
func (s *SliceStream) Next() Token {
	if s.pos >= len(s.tokens) {
		return Token{Kind: KindEOF}
	}
	tok := s.tokens[s.pos]
	s.pos++
	return tok
}
