package syntax

// TokenKind identifies the lexical class of a token.
type TokenKind int

//nolint:revive // names mirror the grammar terminals
const (
	TokenError TokenKind = iota
	TokenWhitespace
	TokenComment

	TokenIdent
	TokenInteger
	TokenFloat
	TokenString
	TokenPath
	TokenURI

	// Keywords
	TokenLet
	TokenIn
	TokenInherit
	TokenRec
	TokenWith
	TokenAssert
	TokenIf
	TokenThen
	TokenElse
	TokenOr

	// Punctuation
	TokenLBrace
	TokenRBrace
	TokenLBracket
	TokenRBracket
	TokenLParen
	TokenRParen
	TokenSemicolon
	TokenAssign
	TokenDot
	TokenComma
	TokenColon
	TokenAt
	TokenQuestion
	TokenEllipsis

	// Operators
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenConcat
	TokenUpdate
	TokenEqual
	TokenNotEqual
	TokenLess
	TokenLessEq
	TokenGreater
	TokenGreaterEq
	TokenAnd
	TokenOrOr
	TokenImplies
	TokenNot

	TokenEOF
)

var tokenNames = [...]string{
	TokenError:      "ERROR",
	TokenWhitespace: "WHITESPACE",
	TokenComment:    "COMMENT",
	TokenIdent:      "IDENT",
	TokenInteger:    "INTEGER",
	TokenFloat:      "FLOAT",
	TokenString:     "STRING",
	TokenPath:       "PATH",
	TokenURI:        "URI",
	TokenLet:        "let",
	TokenIn:         "in",
	TokenInherit:    "inherit",
	TokenRec:        "rec",
	TokenWith:       "with",
	TokenAssert:     "assert",
	TokenIf:         "if",
	TokenThen:       "then",
	TokenElse:       "else",
	TokenOr:         "or",
	TokenLBrace:     "{",
	TokenRBrace:     "}",
	TokenLBracket:   "[",
	TokenRBracket:   "]",
	TokenLParen:     "(",
	TokenRParen:     ")",
	TokenSemicolon:  ";",
	TokenAssign:     "=",
	TokenDot:        ".",
	TokenComma:      ",",
	TokenColon:      ":",
	TokenAt:         "@",
	TokenQuestion:   "?",
	TokenEllipsis:   "...",
	TokenPlus:       "+",
	TokenMinus:      "-",
	TokenStar:       "*",
	TokenSlash:      "/",
	TokenConcat:     "++",
	TokenUpdate:     "//",
	TokenEqual:      "==",
	TokenNotEqual:   "!=",
	TokenLess:       "<",
	TokenLessEq:     "<=",
	TokenGreater:    ">",
	TokenGreaterEq:  ">=",
	TokenAnd:        "&&",
	TokenOrOr:       "||",
	TokenImplies:    "->",
	TokenNot:        "!",
	TokenEOF:        "EOF",
}

func (k TokenKind) String() string {
	if k >= 0 && int(k) < len(tokenNames) && tokenNames[k] != "" {
		return tokenNames[k]
	}
	return "TOKEN?"
}

// IsTrivia reports whether tokens of this kind carry no meaning.
func (k TokenKind) IsTrivia() bool {
	return k == TokenWhitespace || k == TokenComment
}

var keywords = map[string]TokenKind{
	"let":     TokenLet,
	"in":      TokenIn,
	"inherit": TokenInherit,
	"rec":     TokenRec,
	"with":    TokenWith,
	"assert":  TokenAssert,
	"if":      TokenIf,
	"then":    TokenThen,
	"else":    TokenElse,
	"or":      TokenOr,
}

// LookupIdent returns the keyword kind for ident, or TokenIdent.
func LookupIdent(ident string) TokenKind {
	if k, ok := keywords[ident]; ok {
		return k
	}
	return TokenIdent
}

// NodeKind identifies the grammar production a node was built from.
type NodeKind int

const (
	NodeRoot NodeKind = iota
	NodeAttrSet
	NodeLetIn
	NodeInherit
	NodeInheritFrom
	NodeAttrpathValue
	NodeAttrpath
	NodeList
	NodeParen
	NodeApply
	NodeSelect
	NodeHasAttr
	NodeLambda
	NodePattern
	NodePatEntry
	NodePatBind
	NodeIfElse
	NodeWith
	NodeAssert
	NodeBinOp
	NodeUnaryOp

	// NodeKindCount is the number of node kinds. It must stay last.
	NodeKindCount
)

var nodeNames = [...]string{
	NodeRoot:          "Root",
	NodeAttrSet:       "AttrSet",
	NodeLetIn:         "LetIn",
	NodeInherit:       "Inherit",
	NodeInheritFrom:   "InheritFrom",
	NodeAttrpathValue: "AttrpathValue",
	NodeAttrpath:      "Attrpath",
	NodeList:          "List",
	NodeParen:         "Paren",
	NodeApply:         "Apply",
	NodeSelect:        "Select",
	NodeHasAttr:       "HasAttr",
	NodeLambda:        "Lambda",
	NodePattern:       "Pattern",
	NodePatEntry:      "PatEntry",
	NodePatBind:       "PatBind",
	NodeIfElse:        "IfElse",
	NodeWith:          "With",
	NodeAssert:        "Assert",
	NodeBinOp:         "BinOp",
	NodeUnaryOp:       "UnaryOp",
}

func (k NodeKind) String() string {
	if k >= 0 && k < NodeKindCount {
		return nodeNames[k]
	}
	return "Node?"
}
