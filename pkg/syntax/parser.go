package syntax

import (
	"fmt"
	"strconv"
)

// MaxDepth bounds expression nesting so that recursive consumers of the
// tree (the formatter included) have a bounded call stack.
const MaxDepth = 512

// Parser builds a lossless syntax tree from a token stream.
//
// Grammar (simplified):
//
//	root      → expr
//	expr      → lambda | let bindings in expr | with expr ; expr
//	          | assert expr ; expr | if expr then expr else expr | binary
//	binary    → unary (binop unary)* | binary ? attrpath
//	unary     → - unary | ! unary | apply
//	apply     → select select*
//	select    → primary [. attrpath [or select]]
//	primary   → ident | number | string | path | uri | ( expr )
//	          | [ select* ] | [rec] { binding* }
//	binding   → inherit [( expr )] attr* ; | attrpath = expr ;
//
// Trivia is attached lazily: whitespace and comments are added to whichever
// node is open when the next meaningful token (or node) is added. A node
// therefore never starts or ends with trivia; only the root can.
type Parser struct {
	toks  []*Token
	pos   int
	stack []*Node
	depth int
	err   error
}

type bailout struct{}

// Parse parses a complete Nix expression.
func Parse(src string) (*Node, error) {
	toks, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	return NewParser(toks).ParseRoot()
}

// NewParser creates a parser over toks, which must end with TokenEOF.
func NewParser(toks []*Token) *Parser {
	return &Parser{toks: toks}
}

// ParseRoot parses the token stream into a NodeRoot.
func (p *Parser) ParseRoot() (root *Node, err error) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			root, err = nil, p.err
		}
	}()

	root = &Node{Kind: NodeRoot}
	p.stack = []*Node{root}

	if p.peek(0).Kind == TokenEOF {
		p.errorf(p.peek(0).Pos, ErrEmptyInput)
	}
	p.parseExpr()
	p.flushTrivia()
	if tok := p.peek(0); tok.Kind != TokenEOF {
		p.errorf(tok.Pos, ErrUnexpectedToken, describe(tok), "end of input")
	}
	return root, nil
}

// ---------- Token Helpers ----------

// peek returns the n-th upcoming meaningful token.
func (p *Parser) peek(n int) *Token {
	for i := p.pos; i < len(p.toks); i++ {
		if p.toks[i].IsTrivia() {
			continue
		}
		if n == 0 {
			return p.toks[i]
		}
		n--
	}
	return p.toks[len(p.toks)-1]
}

func (p *Parser) check(k TokenKind) bool {
	return p.peek(0).Kind == k
}

func (p *Parser) top() *Node {
	return p.stack[len(p.stack)-1]
}

func (p *Parser) flushTrivia() {
	for p.pos < len(p.toks) && p.toks[p.pos].IsTrivia() {
		p.top().Children = append(p.top().Children, p.toks[p.pos])
		p.pos++
	}
}

// bump adds the next meaningful token, and any trivia before it, to the
// open node.
func (p *Parser) bump() {
	p.flushTrivia()
	if p.toks[p.pos].Kind == TokenEOF {
		p.errorf(p.toks[p.pos].Pos, ErrUnexpectedToken, "end of input", "more input")
	}
	p.top().Children = append(p.top().Children, p.toks[p.pos])
	p.pos++
}

func (p *Parser) expect(k TokenKind) {
	if tok := p.peek(0); tok.Kind != k {
		p.errorf(tok.Pos, ErrUnexpectedToken, describe(tok), strconv.Quote(k.String()))
	}
	p.bump()
}

func (p *Parser) startNode(k NodeKind) {
	p.flushTrivia()
	p.stack = append(p.stack, &Node{Kind: k})
}

// checkpoint marks the position where a node may later be opened around
// already parsed children.
func (p *Parser) checkpoint() int {
	p.flushTrivia()
	return len(p.top().Children)
}

func (p *Parser) startNodeAt(cp int, k NodeKind) {
	parent := p.top()
	wrapped := make([]Element, len(parent.Children)-cp)
	copy(wrapped, parent.Children[cp:])
	parent.Children = parent.Children[:cp]
	p.stack = append(p.stack, &Node{Kind: k, Children: wrapped})
}

func (p *Parser) finishNode() {
	n := p.top()
	p.stack = p.stack[:len(p.stack)-1]
	p.top().Children = append(p.top().Children, n)
}

func (p *Parser) errorf(pos Position, format string, args ...any) {
	p.err = &ParseError{Pos: pos, Message: fmt.Sprintf(format, args...)}
	panic(bailout{})
}

func describe(tok *Token) string {
	if tok.Kind == TokenEOF {
		return "end of input"
	}
	return strconv.Quote(tok.Lit)
}

// ---------- Expressions ----------

func (p *Parser) parseExpr() {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > MaxDepth {
		p.errorf(p.peek(0).Pos, ErrTooDeep, MaxDepth)
	}

	switch tok := p.peek(0); tok.Kind {
	case TokenLet:
		p.startNode(NodeLetIn)
		p.bump()
		for !p.check(TokenIn) {
			p.parseBinding()
		}
		p.bump()
		p.parseExpr()
		p.finishNode()
	case TokenWith, TokenAssert:
		kind := NodeWith
		if tok.Kind == TokenAssert {
			kind = NodeAssert
		}
		p.startNode(kind)
		p.bump()
		p.parseExpr()
		p.expect(TokenSemicolon)
		p.parseExpr()
		p.finishNode()
	case TokenIf:
		p.startNode(NodeIfElse)
		p.bump()
		p.parseExpr()
		p.expect(TokenThen)
		p.parseExpr()
		p.expect(TokenElse)
		p.parseExpr()
		p.finishNode()
	case TokenIdent:
		switch p.peek(1).Kind {
		case TokenColon:
			p.startNode(NodeLambda)
			p.bump()
			p.bump()
			p.parseExpr()
			p.finishNode()
		case TokenAt:
			p.parseLambdaWithPattern()
		default:
			p.parseBinary(0)
		}
	case TokenLBrace:
		if p.isPattern() {
			p.parseLambdaWithPattern()
			return
		}
		p.parseBinary(0)
	default:
		p.parseBinary(0)
	}
}

// isPattern looks ahead from '{' to tell a lambda pattern from an attrset.
func (p *Parser) isPattern() bool {
	switch p.peek(1).Kind {
	case TokenRBrace:
		k := p.peek(2).Kind
		return k == TokenColon || k == TokenAt
	case TokenEllipsis:
		return true
	case TokenIdent:
		switch p.peek(2).Kind {
		case TokenComma, TokenQuestion:
			return true
		case TokenRBrace:
			k := p.peek(3).Kind
			return k == TokenColon || k == TokenAt
		}
	}
	return false
}

func (p *Parser) parseLambdaWithPattern() {
	p.startNode(NodeLambda)
	p.startNode(NodePattern)
	if p.check(TokenIdent) {
		p.startNode(NodePatBind)
		p.bump()
		p.expect(TokenAt)
		p.finishNode()
	}
	p.expect(TokenLBrace)
	for !p.check(TokenRBrace) {
		if p.check(TokenEllipsis) {
			p.bump()
		} else {
			p.startNode(NodePatEntry)
			p.expect(TokenIdent)
			if p.check(TokenQuestion) {
				p.bump()
				p.parseExpr()
			}
			p.finishNode()
		}
		if !p.check(TokenComma) {
			break
		}
		p.bump()
	}
	p.expect(TokenRBrace)
	if p.check(TokenAt) {
		p.startNode(NodePatBind)
		p.bump()
		p.expect(TokenIdent)
		p.finishNode()
	}
	p.finishNode()
	p.expect(TokenColon)
	p.parseExpr()
	p.finishNode()
}

type bindingPower struct {
	left, right int
}

// binaryOps lists infix operators from loosest to tightest. Right
// associative operators use equal left and right powers.
var binaryOps = map[TokenKind]bindingPower{
	TokenImplies:   {1, 1},
	TokenOrOr:      {2, 3},
	TokenAnd:       {4, 5},
	TokenEqual:     {6, 7},
	TokenNotEqual:  {6, 7},
	TokenLess:      {8, 9},
	TokenLessEq:    {8, 9},
	TokenGreater:   {8, 9},
	TokenGreaterEq: {8, 9},
	TokenUpdate:    {10, 10},
	TokenPlus:      {12, 13},
	TokenMinus:     {12, 13},
	TokenStar:      {14, 15},
	TokenSlash:     {14, 15},
	TokenConcat:    {16, 16},
	TokenQuestion:  {17, 17},
}

const (
	notPower    = 11
	negatePower = 18
)

func (p *Parser) parseBinary(minPower int) {
	cp := p.checkpoint()

	switch p.peek(0).Kind {
	case TokenMinus:
		p.startNode(NodeUnaryOp)
		p.bump()
		p.parseBinary(negatePower)
		p.finishNode()
	case TokenNot:
		p.startNode(NodeUnaryOp)
		p.bump()
		p.parseBinary(notPower)
		p.finishNode()
	default:
		p.parseApply()
	}

	for {
		op := p.peek(0).Kind
		bp, ok := binaryOps[op]
		if !ok || bp.left < minPower {
			return
		}
		if op == TokenQuestion {
			p.startNodeAt(cp, NodeHasAttr)
			p.bump()
			p.parseAttrpath()
			p.finishNode()
			continue
		}
		p.startNodeAt(cp, NodeBinOp)
		p.bump()
		p.parseBinary(bp.right)
		p.finishNode()
	}
}

func (p *Parser) parseApply() {
	cp := p.checkpoint()
	p.parseSelect()
	for startsOperand(p.peek(0).Kind) {
		p.startNodeAt(cp, NodeApply)
		p.parseSelect()
		p.finishNode()
	}
}

func startsOperand(k TokenKind) bool {
	switch k {
	case TokenIdent, TokenInteger, TokenFloat, TokenString, TokenPath, TokenURI,
		TokenLParen, TokenLBracket, TokenLBrace, TokenRec:
		return true
	}
	return false
}

func (p *Parser) parseSelect() {
	cp := p.checkpoint()
	p.parsePrimary()
	if !p.check(TokenDot) {
		return
	}
	p.startNodeAt(cp, NodeSelect)
	p.bump()
	p.parseAttrpath()
	if p.check(TokenOr) {
		p.bump()
		p.parseSelect()
	}
	p.finishNode()
}

func (p *Parser) parsePrimary() {
	switch tok := p.peek(0); tok.Kind {
	case TokenIdent, TokenInteger, TokenFloat, TokenString, TokenPath, TokenURI:
		p.bump()
	case TokenLParen:
		p.startNode(NodeParen)
		p.bump()
		p.parseExpr()
		p.expect(TokenRParen)
		p.finishNode()
	case TokenLBracket:
		p.startNode(NodeList)
		p.bump()
		for startsOperand(p.peek(0).Kind) {
			p.parseSelect()
		}
		p.expect(TokenRBracket)
		p.finishNode()
	case TokenLBrace, TokenRec:
		p.startNode(NodeAttrSet)
		if tok.Kind == TokenRec {
			p.bump()
		}
		p.expect(TokenLBrace)
		for !p.check(TokenRBrace) {
			p.parseBinding()
		}
		p.bump()
		p.finishNode()
	default:
		p.errorf(tok.Pos, ErrUnexpectedToken, describe(tok), "an expression")
	}
}

func (p *Parser) parseBinding() {
	if p.check(TokenInherit) {
		p.startNode(NodeInherit)
		p.bump()
		if p.check(TokenLParen) {
			p.startNode(NodeInheritFrom)
			p.bump()
			p.parseExpr()
			p.expect(TokenRParen)
			p.finishNode()
		}
		for p.check(TokenIdent) || p.check(TokenString) {
			p.bump()
		}
		p.expect(TokenSemicolon)
		p.finishNode()
		return
	}

	p.startNode(NodeAttrpathValue)
	p.parseAttrpath()
	p.expect(TokenAssign)
	p.parseExpr()
	p.expect(TokenSemicolon)
	p.finishNode()
}

func (p *Parser) parseAttrpath() {
	p.startNode(NodeAttrpath)
	p.parseAttr()
	for p.check(TokenDot) {
		p.bump()
		p.parseAttr()
	}
	p.finishNode()
}

func (p *Parser) parseAttr() {
	switch tok := p.peek(0); tok.Kind {
	case TokenIdent, TokenString, TokenOr:
		p.bump()
	default:
		p.errorf(tok.Pos, ErrUnexpectedToken, describe(tok), "an attribute name")
	}
}
