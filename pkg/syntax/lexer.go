package syntax

import (
	"fmt"
	"regexp"
)

var (
	pathPattern       = regexp.MustCompile(`^(~|[a-zA-Z0-9._\-+]*)(/[a-zA-Z0-9._\-+]+)+/?`)
	searchPathPattern = regexp.MustCompile(`^<[a-zA-Z0-9._\-+]+(/[a-zA-Z0-9._\-+]+)*>`)
	uriPattern        = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+\-.]*:[a-zA-Z0-9%/?:@&=+$,\-_.!~*']+`)
)

// Lexer tokenizes Nix source. Unlike most lexers it keeps whitespace and
// comments as tokens so the parser can build a lossless tree.
type Lexer struct {
	input string
	pos   int // offset of the next unread byte
	line  int // line of input[pos], 1-based
	col   int // column of input[pos], 1-based
}

// NewLexer creates a new Lexer for the given input.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input, line: 1, col: 1}
}

// Tokenize lexes the whole input. The final token is always TokenEOF.
func Tokenize(input string) ([]*Token, error) {
	l := NewLexer(input)
	var toks []*Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Kind == TokenEOF {
			return toks, nil
		}
	}
}

func (l *Lexer) currentPos() Position {
	return Position{Line: l.line, Column: l.col, Offset: l.pos}
}

func (l *Lexer) peekAt(i int) byte {
	if l.pos+i >= len(l.input) {
		return 0
	}
	return l.input[l.pos+i]
}

// advance consumes n bytes, keeping line and column current.
func (l *Lexer) advance(n int) {
	for i := 0; i < n && l.pos < len(l.input); i++ {
		if l.input[l.pos] == '\n' {
			l.line++
			l.col = 1
		} else {
			l.col++
		}
		l.pos++
	}
}

func (l *Lexer) emit(kind TokenKind, start Position) *Token {
	return &Token{Kind: kind, Lit: l.input[start.Offset:l.pos], Pos: start}
}

func (l *Lexer) errorf(pos Position, format string, args ...any) error {
	return &LexError{Pos: pos, Message: fmt.Sprintf(format, args...)}
}

// NextToken returns the next token, trivia included.
func (l *Lexer) NextToken() (*Token, error) {
	start := l.currentPos()
	if l.pos >= len(l.input) {
		return &Token{Kind: TokenEOF, Pos: start}, nil
	}

	ch := l.input[l.pos]
	rest := l.input[l.pos:]

	switch {
	case isSpace(ch):
		for l.pos < len(l.input) && isSpace(l.input[l.pos]) {
			l.advance(1)
		}
		return l.emit(TokenWhitespace, start), nil
	case ch == '#':
		for l.pos < len(l.input) && l.input[l.pos] != '\n' {
			l.advance(1)
		}
		return l.emit(TokenComment, start), nil
	case ch == '/' && l.peekAt(1) == '*':
		l.advance(2)
		for {
			if l.pos >= len(l.input) {
				return nil, l.errorf(start, ErrUnterminatedBlock)
			}
			if l.input[l.pos] == '*' && l.peekAt(1) == '/' {
				l.advance(2)
				return l.emit(TokenComment, start), nil
			}
			l.advance(1)
		}
	case ch == '"':
		if err := l.readString(start); err != nil {
			return nil, err
		}
		return l.emit(TokenString, start), nil
	case ch == '\'' && l.peekAt(1) == '\'':
		if err := l.readIndentedString(start); err != nil {
			return nil, err
		}
		return l.emit(TokenString, start), nil
	}

	if isPathStart(ch) {
		if m := pathPattern.FindString(rest); m != "" {
			l.advance(len(m))
			return l.emit(TokenPath, start), nil
		}
	}
	if ch == '<' {
		if m := searchPathPattern.FindString(rest); m != "" {
			l.advance(len(m))
			return l.emit(TokenPath, start), nil
		}
	}
	if isLetter(ch) {
		if m := uriPattern.FindString(rest); m != "" {
			l.advance(len(m))
			return l.emit(TokenURI, start), nil
		}
	}

	switch {
	case isLetter(ch) || ch == '_':
		n := 1
		for n < len(rest) && isIdentChar(rest[n]) {
			n++
		}
		l.advance(n)
		tok := l.emit(TokenIdent, start)
		tok.Kind = LookupIdent(tok.Lit)
		return tok, nil
	case isDigit(ch) || (ch == '.' && isDigit(l.peekAt(1))):
		return l.readNumber(start), nil
	}

	if kind, n := matchOperator(rest); n > 0 {
		l.advance(n)
		return l.emit(kind, start), nil
	}

	return nil, l.errorf(start, ErrUnexpectedChar, ch)
}

func (l *Lexer) readNumber(start Position) *Token {
	for isDigit(l.peekAt(0)) {
		l.advance(1)
	}
	kind := TokenInteger
	if l.peekAt(0) == '.' && isDigit(l.peekAt(1)) {
		kind = TokenFloat
		l.advance(1)
		for isDigit(l.peekAt(0)) {
			l.advance(1)
		}
		if e := l.peekAt(0); e == 'e' || e == 'E' {
			n := 1
			if s := l.peekAt(1); s == '+' || s == '-' {
				n++
			}
			if isDigit(l.peekAt(n)) {
				l.advance(n)
				for isDigit(l.peekAt(0)) {
					l.advance(1)
				}
			}
		}
	}
	return l.emit(kind, start)
}

// readString consumes a "double quoted" string, interpolations included.
func (l *Lexer) readString(start Position) error {
	l.advance(1)
	for {
		switch {
		case l.pos >= len(l.input):
			return l.errorf(start, ErrUnterminatedString)
		case l.input[l.pos] == '\\':
			l.advance(2)
		case l.input[l.pos] == '"':
			l.advance(1)
			return nil
		case l.input[l.pos] == '$' && l.peekAt(1) == '{':
			if err := l.readInterpolation(start); err != nil {
				return err
			}
		default:
			l.advance(1)
		}
	}
}

// readIndentedString consumes a ''indented'' string.
func (l *Lexer) readIndentedString(start Position) error {
	l.advance(2)
	for {
		switch {
		case l.pos >= len(l.input):
			return l.errorf(start, ErrUnterminatedString)
		case l.input[l.pos] == '\'' && l.peekAt(1) == '\'':
			switch l.peekAt(2) {
			case '\'', '$':
				l.advance(3)
			case '\\':
				l.advance(4)
			default:
				l.advance(2)
				return nil
			}
		case l.input[l.pos] == '$' && l.peekAt(1) == '{':
			if err := l.readInterpolation(start); err != nil {
				return err
			}
		default:
			l.advance(1)
		}
	}
}

// readInterpolation consumes ${ ... } up to the matching brace, skipping
// nested strings so their braces are not counted.
func (l *Lexer) readInterpolation(start Position) error {
	l.advance(2)
	depth := 1
	for depth > 0 {
		if l.pos >= len(l.input) {
			return l.errorf(start, ErrUnterminatedString)
		}
		switch ch := l.input[l.pos]; {
		case ch == '{':
			depth++
			l.advance(1)
		case ch == '}':
			depth--
			l.advance(1)
		case ch == '"':
			if err := l.readString(l.currentPos()); err != nil {
				return err
			}
		case ch == '\'' && l.peekAt(1) == '\'':
			if err := l.readIndentedString(l.currentPos()); err != nil {
				return err
			}
		case ch == '#':
			for l.pos < len(l.input) && l.input[l.pos] != '\n' {
				l.advance(1)
			}
		default:
			l.advance(1)
		}
	}
	return nil
}

// operators is ordered longest first so that prefixes never shadow.
var operators = []struct {
	lit  string
	kind TokenKind
}{
	{"...", TokenEllipsis},
	{"++", TokenConcat},
	{"//", TokenUpdate},
	{"==", TokenEqual},
	{"!=", TokenNotEqual},
	{"<=", TokenLessEq},
	{">=", TokenGreaterEq},
	{"&&", TokenAnd},
	{"||", TokenOrOr},
	{"->", TokenImplies},
	{"{", TokenLBrace},
	{"}", TokenRBrace},
	{"[", TokenLBracket},
	{"]", TokenRBracket},
	{"(", TokenLParen},
	{")", TokenRParen},
	{";", TokenSemicolon},
	{"=", TokenAssign},
	{".", TokenDot},
	{",", TokenComma},
	{":", TokenColon},
	{"@", TokenAt},
	{"?", TokenQuestion},
	{"+", TokenPlus},
	{"-", TokenMinus},
	{"*", TokenStar},
	{"/", TokenSlash},
	{"<", TokenLess},
	{">", TokenGreater},
	{"!", TokenNot},
}

func matchOperator(s string) (TokenKind, int) {
	for _, op := range operators {
		if len(s) >= len(op.lit) && s[:len(op.lit)] == op.lit {
			return op.kind, len(op.lit)
		}
	}
	return TokenError, 0
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n'
}

func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentChar(ch byte) bool {
	return isLetter(ch) || isDigit(ch) || ch == '_' || ch == '\'' || ch == '-'
}

func isPathStart(ch byte) bool {
	return isLetter(ch) || isDigit(ch) || ch == '.' || ch == '_' || ch == '-' || ch == '+' || ch == '~' || ch == '/'
}
