package lexer

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	ErrUnterminatedString = errors.New("lexer: unterminated string literal")
	ErrEOFInStatement     = errors.New("lexer: EOF in multi-line statement")
	ErrInconsistentDedent = errors.New("lexer: unindent does not match any outer indentation level")

	// ErrLexical is returned by stream consumers that run into a KindError token.
	ErrLexical = errors.New("lexer: invalid input")
)

const tabSize = 8

// Scanner performs lexical analysis on Python source.
type Scanner struct {
	source    string
	cursor    int
	line      int
	lineStart int // byte offset of the current physical line
	depth     int // open bracket depth
	indents   []int

	pending []Token
	head    int

	atLineStart   bool
	lineHasTokens bool
	done          bool
	err           error
}

// NewScanner creates a new scanner for the given source.
func NewScanner(source string) *Scanner {
	s := &Scanner{}
	s.Reset(source)
	return s
}

// Reset re-initializes the scanner with new source for reuse.
func (s *Scanner) Reset(source string) {
	s.source = source
	s.cursor = 0
	s.line = 0
	s.lineStart = 0
	s.depth = 0
	s.indents = append(s.indents[:0], 0)
	s.pending = s.pending[:0]
	s.head = 0
	s.atLineStart = true
	s.lineHasTokens = false
	s.done = false
	s.err = nil
}

// Err returns the cause of the KindError token, if one was produced.
func (s *Scanner) Err() error {
	return s.err
}

// Next returns the next token from the source.
func (s *Scanner) Next() Token {
	for s.head == len(s.pending) {
		s.pending = s.pending[:0]
		s.head = 0
		if s.done {
			return Token{Kind: KindEOF, Line: s.line}
		}
		s.scan()
	}
	tok := s.pending[s.head]
	s.head++
	return tok
}

func (s *Scanner) scan() {
	if s.atLineStart {
		s.atLineStart = false
		if s.indentation() {
			return
		}
	}

	s.skipSpace()
	if s.cursor >= len(s.source) {
		s.finish()
		return
	}

	start := s.cursor
	ch := s.source[start]

	switch {
	case ch == '\n':
		s.newline()
		return
	case ch == '"' || ch == '\'':
		s.scanString(start, start)
	case isDigit(ch) || (ch == '.' && isDigit(s.peek())):
		s.scanNumber()
	default:
		r, _ := utf8.DecodeRuneInString(s.source[start:])
		if isNameStart(r) {
			s.scanName()
		} else {
			s.scanOperator()
		}
	}
	s.lineHasTokens = true
}

// indentation handles the leading whitespace of a logical line. It reports
// whether tokens were queued or scanning stopped.
func (s *Scanner) indentation() bool {
	col, pos := s.measureIndent()

	// Blank lines, comment-only lines and end of input do not change depth.
	if pos >= len(s.source) {
		return false
	}
	switch s.source[pos] {
	case '#', '\n', '\r':
		return false
	}

	top := s.indents[len(s.indents)-1]
	switch {
	case col > top:
		s.indents = append(s.indents, col)
		s.emit(Token{Kind: KindIndent, Text: s.source[s.cursor:pos], Line: s.line, LineText: s.lineText()})
	case col < top:
		level := len(s.indents) - 1
		for level > 0 && s.indents[level] > col {
			level--
		}
		if s.indents[level] != col {
			s.fail(pos, fmt.Errorf("%w (line %d)", ErrInconsistentDedent, s.line+1))
			return true
		}
		tokCol := s.col(pos)
		for len(s.indents)-1 > level {
			s.indents = s.indents[:len(s.indents)-1]
			s.emit(Token{Kind: KindDedent, Line: s.line, Col: tokCol, LineText: s.lineText()})
		}
	}
	s.cursor = pos
	return s.head < len(s.pending)
}

func (s *Scanner) measureIndent() (col, pos int) {
	for pos = s.cursor; pos < len(s.source); pos++ {
		switch s.source[pos] {
		case ' ':
			col++
		case '\t':
			col = (col/tabSize + 1) * tabSize
		case '\f':
			col = 0
		default:
			return col, pos
		}
	}
	return col, pos
}

func (s *Scanner) skipSpace() {
	for s.cursor < len(s.source) {
		switch ch := s.source[s.cursor]; {
		case ch == ' ' || ch == '\t' || ch == '\f' || ch == '\r':
			s.cursor++
		case ch == '#':
			for s.cursor < len(s.source) && s.source[s.cursor] != '\n' {
				s.cursor++
			}
		case ch == '\\' && s.continuation():
			// Explicit line joining: the next physical line continues this one.
		default:
			return
		}
	}
}

// continuation consumes a backslash that ends a physical line.
func (s *Scanner) continuation() bool {
	pos := s.cursor + 1
	if pos < len(s.source) && s.source[pos] == '\r' {
		pos++
	}
	if pos >= len(s.source) || s.source[pos] != '\n' {
		return false
	}
	s.startLine(pos + 1)
	s.cursor = pos + 1
	return true
}

func (s *Scanner) newline() {
	tok := Token{Kind: KindNewline, Text: "\n", Line: s.line, Col: s.col(s.cursor), LineText: s.lineText()}
	s.startLine(s.cursor + 1)
	s.cursor++

	if s.depth > 0 {
		return
	}
	if s.lineHasTokens {
		s.emit(tok)
	}
	s.lineHasTokens = false
	s.atLineStart = true
}

func (s *Scanner) finish() {
	if s.depth > 0 {
		s.fail(s.cursor, fmt.Errorf("%w (line %d)", ErrEOFInStatement, s.line+1))
		return
	}
	if s.lineHasTokens {
		s.emit(Token{Kind: KindNewline, Line: s.line, Col: s.col(s.cursor), LineText: s.lineText()})
		s.lineHasTokens = false
	}
	for len(s.indents) > 1 {
		s.indents = s.indents[:len(s.indents)-1]
		s.emit(Token{Kind: KindDedent, Line: s.line})
	}
	s.emit(Token{Kind: KindEOF, Line: s.line})
	s.done = true
}

func (s *Scanner) scanString(start, quote int) {
	line, col, lineText := s.line, s.col(start), s.lineText()
	q := s.source[quote]
	triple := quote+2 < len(s.source) && s.source[quote+1] == q && s.source[quote+2] == q
	delim := s.source[quote : quote+1]
	if triple {
		delim = s.source[quote : quote+3]
	}

	pos := quote + len(delim)
	for {
		if pos >= len(s.source) {
			s.fail(start, fmt.Errorf("%w (line %d)", ErrUnterminatedString, line+1))
			return
		}
		c := s.source[pos]
		if c == '\\' && pos+1 < len(s.source) {
			next := pos + 1
			if s.source[next] == '\r' && next+1 < len(s.source) && s.source[next+1] == '\n' {
				next++
			}
			if s.source[next] == '\n' {
				s.startLine(next + 1)
			}
			pos = next + 1
			continue
		}
		if triple && strings.HasPrefix(s.source[pos:], delim) {
			pos += 3
			break
		}
		if !triple && c == q {
			pos++
			break
		}
		if c == '\n' {
			if !triple {
				s.fail(start, fmt.Errorf("%w (line %d)", ErrUnterminatedString, line+1))
				return
			}
			s.startLine(pos + 1)
		}
		pos++
	}

	s.cursor = pos
	s.emit(Token{Kind: KindString, Text: s.source[start:pos], Line: line, Col: col, LineText: lineText})
}

func (s *Scanner) scanNumber() {
	start := s.cursor
	if s.cursor+1 < len(s.source) && s.source[start] == '0' && strings.IndexByte("xXoObB", s.source[start+1]) >= 0 {
		s.cursor += 2
		for s.cursor < len(s.source) && (isHexDigit(s.source[s.cursor]) || s.source[s.cursor] == '_') {
			s.cursor++
		}
	} else {
		for s.cursor < len(s.source) {
			c := s.source[s.cursor]
			if isDigit(c) || c == '_' || c == '.' {
				s.cursor++
				continue
			}
			if (c == 'e' || c == 'E') && s.exponent() {
				continue
			}
			break
		}
		if s.cursor < len(s.source) && (s.source[s.cursor] == 'j' || s.source[s.cursor] == 'J') {
			s.cursor++
		}
	}
	s.emit(Token{Kind: KindNumber, Text: s.source[start:s.cursor], Line: s.line, Col: s.col(start), LineText: s.lineText()})
}

// exponent consumes an exponent marker, its optional sign and first digit.
// An 'e' not followed by digits is left for the next token, as in "1else".
func (s *Scanner) exponent() bool {
	pos := s.cursor + 1
	if pos < len(s.source) && (s.source[pos] == '+' || s.source[pos] == '-') {
		pos++
	}
	if pos >= len(s.source) || !isDigit(s.source[pos]) {
		return false
	}
	s.cursor = pos + 1
	return true
}

func (s *Scanner) scanName() {
	start := s.cursor
	for s.cursor < len(s.source) {
		r, size := utf8.DecodeRuneInString(s.source[s.cursor:])
		if !isNameStart(r) && !unicode.IsDigit(r) {
			break
		}
		s.cursor += size
	}

	// String prefixes such as r"", b'', f"""...""".
	if s.cursor < len(s.source) && (s.source[s.cursor] == '"' || s.source[s.cursor] == '\'') && isStringPrefix(s.source[start:s.cursor]) {
		s.scanString(start, s.cursor)
		return
	}
	s.emit(Token{Kind: KindName, Text: s.source[start:s.cursor], Line: s.line, Col: s.col(start), LineText: s.lineText()})
}

var (
	operators3 = []string{"**=", "//=", ">>=", "<<=", "..."}
	operators2 = []string{
		"->", "**", "//", "<<", ">>", "<=", ">=", "==", "!=", ":=",
		"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "@=",
	}
)

const operators1 = "()[]{}:,;.+-*/%&|^~<>=@"

func (s *Scanner) scanOperator() {
	start := s.cursor
	rest := s.source[start:]
	text := matchOperator(rest, operators3)
	if text == "" {
		text = matchOperator(rest, operators2)
	}

	kind := KindOp
	switch {
	case text != "":
		if text == "->" {
			kind = KindArrow
		}
	case strings.IndexByte(operators1, rest[0]) >= 0:
		text = rest[:1]
		kind = singleKind(rest[0])
	default:
		_, size := utf8.DecodeRuneInString(rest)
		text = rest[:size]
		kind = KindOther
	}

	switch {
	case kind.IsOpener():
		s.depth++
	case kind.IsCloser() && s.depth > 0:
		s.depth--
	}

	s.cursor += len(text)
	s.emit(Token{Kind: kind, Text: text, Line: s.line, Col: s.col(start), LineText: s.lineText()})
}

func matchOperator(rest string, ops []string) string {
	for _, op := range ops {
		if strings.HasPrefix(rest, op) {
			return op
		}
	}
	return ""
}

func singleKind(ch byte) Kind {
	switch ch {
	case '(':
		return KindLParen
	case ')':
		return KindRParen
	case '[':
		return KindLBracket
	case ']':
		return KindRBracket
	case '{':
		return KindLBrace
	case '}':
		return KindRBrace
	case ':':
		return KindColon
	}
	return KindOp
}

func (s *Scanner) emit(tok Token) {
	s.pending = append(s.pending, tok)
}

func (s *Scanner) fail(pos int, err error) {
	s.err = err
	s.pending = s.pending[:s.head]
	s.emit(Token{Kind: KindError, Text: s.source[pos:min(pos+1, len(s.source))], Line: s.line, Col: s.col(min(pos, len(s.source))), LineText: s.lineText()})
	s.done = true
}

func (s *Scanner) startLine(offset int) {
	s.line++
	s.lineStart = offset
}

func (s *Scanner) col(pos int) int {
	if pos < s.lineStart {
		return 0
	}
	return utf8.RuneCountInString(s.source[s.lineStart:pos])
}

func (s *Scanner) lineText() string {
	end := strings.IndexByte(s.source[s.lineStart:], '\n')
	if end < 0 {
		end = len(s.source) - s.lineStart
	}
	return strings.TrimSuffix(s.source[s.lineStart:s.lineStart+end], "\r")
}

func (s *Scanner) peek() byte {
	if s.cursor+1 >= len(s.source) {
		return 0
	}
	return s.source[s.cursor+1]
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isNameStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isStringPrefix(lit string) bool {
	switch strings.ToLower(lit) {
	case "r", "u", "b", "f", "br", "rb", "fr", "rf":
		return true
	}
	return false
}
