package parser

import (
	"errors"
	"math"

	"github.com/mna/liana/lang/ast"
	"github.com/mna/liana/lang/token"
)

// parseExpr is the entry point for parsing a full expression: a unary LHS
// followed by zero or more precedence-climbed binary operators.
func (p *parser) parseExpr(settings parseSettings) ast.Expr {
	p.checkDepth(settings)
	lhs := p.parseUnaryExpr(settings)
	return p.parseBinaryTail(settings, lhs, 1)
}

// binOpInfo describes one binary operator occurrence: its precedence, its
// associativity, and the function name an arithmetic/comparison operator
// lowers to.
type binOpInfo struct {
	tok        token.Token
	name       string
	prec       int
	rightAssoc bool
	custom     bool
}

// peekBinOp reports the binary operator the current token represents, if
// any - either a built-in operator or a registered custom operator (whose
// trigger is an ordinary identifier).
func (p *parser) peekBinOp() (binOpInfo, bool) {
	if p.tok.IsBinop() {
		prec, right := builtinPrecedence(p.tok)
		return binOpInfo{tok: p.tok, name: binOpFuncName(p.tok), prec: prec, rightAssoc: right}, true
	}
	if p.tok == token.IDENT {
		if op, ok := p.eng.CustomOperator(p.val.Raw); ok {
			return binOpInfo{tok: p.tok, name: p.val.Raw, prec: int(op.Precedence), custom: true}, true
		}
	}
	return binOpInfo{}, false
}

// builtinPrecedence assigns each built-in binary operator a precedence
// level, spaced out by multiples of ten so that the full 1..=255 range of a
// registered custom operator's precedence (spec.md §6) can interleave
// anywhere among them, including above '**'.
func builtinPrecedence(tok token.Token) (prec int, rightAssoc bool) {
	switch tok {
	case token.OROR:
		return 10, false
	case token.ANDAND:
		return 20, false
	case token.IN:
		return 30, false
	case token.EQEQ, token.BANGEQ, token.LT, token.LE, token.GT, token.GE:
		return 40, false
	case token.PIPE:
		return 50, false
	case token.CARET:
		return 60, false
	case token.AMP:
		return 70, false
	case token.LTLT, token.GTGT:
		return 80, false
	case token.PLUS, token.MINUS:
		return 90, false
	case token.STAR, token.SLASH, token.PERCENT:
		return 100, false
	case token.STARSTAR:
		return 110, true
	}
	return 0, false
}

func binOpFuncName(tok token.Token) string {
	switch tok {
	case token.PLUS:
		return "+"
	case token.MINUS:
		return "-"
	case token.STAR:
		return "*"
	case token.SLASH:
		return "/"
	case token.PERCENT:
		return "%"
	case token.STARSTAR:
		return "**"
	case token.AMP:
		return "&"
	case token.PIPE:
		return "|"
	case token.CARET:
		return "^"
	case token.LTLT:
		return "<<"
	case token.GTGT:
		return ">>"
	case token.EQEQ:
		return "=="
	case token.BANGEQ:
		return "!="
	case token.LT:
		return "<"
	case token.LE:
		return "<="
	case token.GT:
		return ">"
	case token.GE:
		return ">="
	default:
		return tok.String()
	}
}

// parseBinaryTail implements precedence climbing starting from lhs: while
// the current token is a binary operator whose precedence is at least
// minPrec, consume it, parse a unary RHS, greedily fold any higher (or
// equal-and-right-associative) precedence tail onto that RHS, then emit the
// binary node and continue.
func (p *parser) parseBinaryTail(settings parseSettings, lhs ast.Expr, minPrec int) ast.Expr {
	for {
		op, ok := p.peekBinOp()
		if !ok || op.prec < minPrec {
			return lhs
		}
		opPos := p.val.Pos
		p.advance()

		rhs := p.parseUnaryExpr(settings.nested())
		for {
			next, ok := p.peekBinOp()
			if !ok {
				break
			}
			if next.prec > op.prec || (next.prec == op.prec && next.rightAssoc) {
				rhs = p.parseBinaryTail(settings, rhs, next.prec)
				continue
			}
			break
		}

		node, err := p.makeBinary(op, opPos, lhs, rhs)
		if err != nil {
			p.fail(ErrMalformedInExpr, opPos, "%s", err)
		}
		lhs = node
	}
}

func (p *parser) makeBinary(op binOpInfo, opPos token.Pos, lhs, rhs ast.Expr) (ast.Expr, error) {
	switch op.tok {
	case token.ANDAND:
		return &ast.AndExpr{Left: lhs, Op: opPos, Right: rhs}, nil
	case token.OROR:
		return &ast.OrExpr{Left: lhs, Op: opPos, Right: rhs}, nil
	case token.IN:
		if err := ast.ValidateInOperands(lhs, rhs); err != nil {
			return nil, err
		}
		return &ast.InExpr{Left: lhs, Op: opPos, Right: rhs}, nil
	}

	call := &ast.FnCallExpr{
		Name:   &ast.Ident{Name: op.name, Pos: opPos},
		Lparen: opPos,
		Rparen: opPos,
		Args:   []ast.Expr{lhs, rhs},
	}
	switch op.tok {
	case token.BANGEQ:
		dv := true
		call.DefaultValue = &dv
	case token.EQEQ, token.LT, token.LE, token.GT, token.GE:
		dv := false
		call.DefaultValue = &dv
	}
	if op.custom {
		call.HasHashScript = true
		call.HashScript = p.seed.Script(nil, op.name, 2)
	}
	return call, nil
}

// parseUnaryExpr handles prefix '-', '+', '!', falling through to the
// postfix chain for everything else.
func (p *parser) parseUnaryExpr(settings parseSettings) ast.Expr {
	p.checkDepth(settings)

	switch p.tok {
	case token.MINUS:
		pos := p.expect(token.MINUS)
		operand := p.parseUnaryExpr(settings.nested())
		if lit, ok := operand.(*ast.IntExpr); ok && lit.Value != math.MinInt64 {
			return &ast.IntExpr{Start: pos, Raw: "-" + lit.Raw, Value: -lit.Value}
		}
		if p.eng.Config.AllowFloats {
			switch lit := operand.(type) {
			case *ast.FloatExpr:
				return &ast.FloatExpr{Start: pos, Raw: "-" + lit.Raw, Value: -lit.Value}
			case *ast.IntExpr:
				return &ast.FloatExpr{Start: pos, Value: -float64(lit.Value)}
			}
		}
		return &ast.FnCallExpr{Name: &ast.Ident{Name: "-", Pos: pos}, Lparen: pos, Rparen: pos, Args: []ast.Expr{operand}}

	case token.PLUS:
		pos := p.expect(token.PLUS)
		operand := p.parseUnaryExpr(settings.nested())
		return &ast.FnCallExpr{Name: &ast.Ident{Name: "+", Pos: pos}, Lparen: pos, Rparen: pos, Args: []ast.Expr{operand}}

	case token.BANG:
		pos := p.expect(token.BANG)
		operand := p.parseUnaryExpr(settings.nested())
		dv := false
		return &ast.FnCallExpr{Name: &ast.Ident{Name: "!", Pos: pos}, Lparen: pos, Rparen: pos, Args: []ast.Expr{operand}, DefaultValue: &dv}

	default:
		return p.parsePostfixExpr(settings)
	}
}

// parsePostfixExpr parses a primary expression, then folds any trailing
// '[' or '.' postfix operators (call and '::' qualification are folded
// directly into the primary identifier production, since in this grammar
// only a bare name - qualified or not - can be called).
func (p *parser) parsePostfixExpr(settings parseSettings) ast.Expr {
	expr := p.parsePrimaryExpr(settings)
	for {
		switch p.tok {
		case token.LBRACK:
			if !p.eng.Config.AllowIndexing {
				return expr
			}
			expr = p.parseIndexPostfix(settings, expr)
		case token.DOT:
			if !p.eng.Config.AllowObjectMaps {
				return expr
			}
			expr = p.parseDotPostfix(settings, expr)
		default:
			return expr
		}
	}
}

// parseIndexPostfix parses "[idx]" and folds any immediately following
// "[idx]" right-associatively into the index itself rather than the usual
// left-fold: "a[b][c]" is Index(a, Index(b, c)), not Index(Index(a,b), c)
// (spec.md §4.2.1). It recurses with the just-parsed index expression as
// the new lhs when another '[' follows, then wraps the result around the
// original base.
func (p *parser) parseIndexPostfix(settings parseSettings, lhs ast.Expr) ast.Expr {
	lbrack := p.expect(token.LBRACK)
	idxPos := p.val.Pos
	idx := p.parseExpr(settings.nested())
	if err := validateIndexExpr(idx); err != nil {
		p.fail(ErrMalformedIndexExpr, idxPos, "%s", err)
	}
	rbrack := p.expect(token.RBRACK)
	if p.tok == token.LBRACK {
		idx = p.parseIndexPostfix(settings, idx)
	}
	return &ast.IndexExpr{Left: lhs, Lbrack: lbrack, Index: idx, Rbrack: rbrack}
}

var errNegativeIndex = errors.New("negative integer literal is not a valid index")
var errBadIndexType = errors.New("index must be an integer or string expression")

// validateIndexExpr rejects literal-typed index expressions that can never
// be valid at runtime: floats, booleans, unit, chars, arrays and maps are
// never valid array/string/map keys, and a negative integer literal index
// is always out of range for array/string indexing.
func validateIndexExpr(e ast.Expr) error {
	switch v := e.(type) {
	case *ast.IntExpr:
		if v.Value < 0 {
			return errNegativeIndex
		}
	case *ast.FloatExpr, *ast.BoolExpr, *ast.UnitExpr, *ast.CharExpr, *ast.ArrayExpr, *ast.MapExpr:
		return errBadIndexType
	}
	return nil
}

func (p *parser) parseDotPostfix(settings parseSettings, lhs ast.Expr) ast.Expr {
	dotPos := p.expect(token.DOT)
	p.scope.suppressNextCapture()
	rhs := p.parsePostfixExpr(settings)
	expr, err := ast.MakeDot(lhs, rhs)
	if err != nil {
		p.fail(dotErrKind(err), dotPos, "%s", err)
	}
	return expr
}

func dotErrKind(err error) ErrorKind {
	switch err {
	case ast.ErrMethodStyleCall:
		return ErrReserved
	case ast.ErrMalformedCapture:
		return ErrMalformedCapture
	case ast.ErrPropertyExpected:
		return ErrPropertyExpected
	default:
		return ErrPropertyExpected
	}
}

// parsePrimaryExpr dispatches on the leading token of a primary expression.
func (p *parser) parsePrimaryExpr(settings parseSettings) ast.Expr {
	switch {
	case p.tok.IsAtom() && p.tok != token.IDENT:
		return p.parseLiteral()
	case p.tok == token.LPAREN:
		return p.parseParenOrUnit(settings)
	case p.tok == token.LBRACK:
		return p.parseArrayExpr(settings)
	case p.tok == token.HASHBRACE:
		return p.parseMapLiteral(settings)
	case p.tok == token.LBRACE:
		return p.parseBlockAsExpr(settings)
	case p.tok == token.IF:
		return p.parseIfAsExpr(settings)
	case p.tok == token.SWITCH:
		return p.parseSwitchAsExpr(settings)
	case (p.tok == token.PIPE || p.tok == token.OROR) && p.eng.Config.AllowAnonymousFunctions:
		return p.parseAnonFnExpr(settings)
	case p.tok == token.IDENT:
		if cs, ok := p.eng.CustomSyntax(p.val.Raw); ok {
			return p.parseCustomSyntax(settings, cs)
		}
		return p.parseIdentPrimary(settings)
	default:
		p.fail(ErrExprExpected, p.val.Pos, "expression, found %s", describeCurrent(p))
		panic("unreachable")
	}
}

func describeCurrent(p *parser) string {
	if lit := p.tok.Literal(p.val); lit != "" {
		return lit
	}
	return p.tok.GoString()
}

func (p *parser) parseLiteral() ast.Expr {
	switch p.tok {
	case token.INT:
		pos, raw, v := p.val.Pos, p.val.Raw, p.val.Int
		p.advance()
		return &ast.IntExpr{Start: pos, Raw: raw, Value: v}
	case token.FLOAT:
		if !p.eng.Config.AllowFloats {
			p.fail(ErrUnexpectedInput, p.val.Pos, "float literals are disabled")
		}
		pos, raw, v := p.val.Pos, p.val.Raw, p.val.Float
		p.advance()
		return &ast.FloatExpr{Start: pos, Raw: raw, Value: v}
	case token.CHAR:
		pos, raw, v := p.val.Pos, p.val.Raw, p.val.Char
		p.advance()
		return &ast.CharExpr{Start: pos, Raw: raw, Value: v}
	case token.STRING:
		pos, raw, v := p.val.Pos, p.val.Raw, p.val.String
		p.advance()
		return &ast.StringExpr{Start: pos, Raw: raw, Value: p.scope.internString(v)}
	case token.TRUE, token.FALSE:
		pos, b := p.val.Pos, p.tok == token.TRUE
		p.advance()
		return &ast.BoolExpr{Start: pos, Value: b}
	case token.NULL:
		pos := p.val.Pos
		p.advance()
		return &ast.UnitExpr{Lparen: pos, Rparen: pos}
	default:
		panic("unreachable: parseLiteral called on a non-atom token")
	}
}

func (p *parser) parseParenOrUnit(settings parseSettings) ast.Expr {
	lparen := p.expect(token.LPAREN)
	if p.tok == token.RPAREN {
		rparen := p.expect(token.RPAREN)
		return &ast.UnitExpr{Lparen: lparen, Rparen: rparen}
	}
	expr := p.parseExpr(settings.nested())
	p.expect(token.RPAREN)
	// No ParenExpr wrapper: grouping parens only influence precedence
	// during parsing and leave no trace in the tree.
	return expr
}

func (p *parser) parseArrayExpr(settings parseSettings) ast.Expr {
	lbrack := p.expect(token.LBRACK)
	var items []ast.Expr
	var commas []token.Pos
	for p.tok != token.RBRACK {
		if len(items) >= p.eng.Config.MaxArraySize {
			p.fail(ErrLiteralTooLarge, p.val.Pos, "array literal exceeds maximum size of %d", p.eng.Config.MaxArraySize)
		}
		items = append(items, p.parseExpr(settings.nested()))
		if p.tok == token.COMMA {
			commas = append(commas, p.expect(token.COMMA))
		} else {
			break
		}
	}
	rbrack := p.expect(token.RBRACK)
	return &ast.ArrayExpr{Lbrack: lbrack, Items: items, Commas: commas, Rbrack: rbrack}
}

func (p *parser) parseMapLiteral(settings parseSettings) ast.Expr {
	if !p.eng.Config.AllowObjectMaps {
		p.fail(ErrUnexpectedInput, p.val.Pos, "object maps are disabled")
	}
	hashbrace := p.expect(token.HASHBRACE)
	var items []*ast.KeyVal
	var commas []token.Pos
	seen := make(map[string]bool)
	for p.tok != token.RBRACE {
		if len(items) >= p.eng.Config.MaxMapSize {
			p.fail(ErrLiteralTooLarge, p.val.Pos, "map literal exceeds maximum size of %d", p.eng.Config.MaxMapSize)
		}
		key := p.parseIdent()
		if seen[key.Name] {
			p.fail(ErrDuplicatedProperty, key.Pos, "duplicate key %q in object map literal", key.Name)
		}
		seen[key.Name] = true
		colon := p.expect(token.COLON)
		val := p.parseExpr(settings.nested())
		items = append(items, &ast.KeyVal{Key: key, Colon: colon, Value: val})
		if p.tok == token.COMMA {
			commas = append(commas, p.expect(token.COMMA))
		} else {
			break
		}
	}
	rbrace := p.expect(token.RBRACE)
	return &ast.MapExpr{Hashbrace: hashbrace, Items: items, Commas: commas, Rbrace: rbrace}
}

func (p *parser) parseBlockAsExpr(settings parseSettings) ast.Expr {
	if !settings.allowStmtExpr {
		p.fail(ErrUnexpectedInput, p.val.Pos, "block expression not allowed here")
	}
	block := p.parseBlock(settings.notGlobal().nested())
	return &ast.StmtExpr{Block: block}
}

func (p *parser) parseIfAsExpr(settings parseSettings) ast.Expr {
	if !settings.allowIfExpr {
		p.fail(ErrUnexpectedInput, p.val.Pos, "if expression not allowed here")
	}
	start := p.val.Pos
	stmt := p.parseIfStmt(settings.notGlobal().nested())
	_, end := stmt.Span()
	return &ast.StmtExpr{Block: &ast.Block{Start: start, End: end, Stmts: []ast.Stmt{stmt}}}
}

func (p *parser) parseSwitchAsExpr(settings parseSettings) ast.Expr {
	if !settings.allowSwitchExpr {
		p.fail(ErrUnexpectedInput, p.val.Pos, "switch expression not allowed here")
	}
	start := p.val.Pos
	stmt := p.parseSwitchStmt(settings.notGlobal().nested())
	_, end := stmt.Span()
	return &ast.StmtExpr{Block: &ast.Block{Start: start, End: end, Stmts: []ast.Stmt{stmt}}}
}

// parseIdent consumes an IDENT token and interns its name.
func (p *parser) parseIdent() *ast.Ident {
	raw := p.val.Raw
	pos := p.expect(token.IDENT)
	return &ast.Ident{Name: p.scope.internString(raw), Pos: pos}
}

func identNames(ids []*ast.Ident) []string {
	if len(ids) == 0 {
		return nil
	}
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = id.Name
	}
	return names
}

// parseIdentPrimary parses a bare or '::'-qualified identifier, folding in
// an immediately following call (plain or '!'-capture) and, on completion
// of the chain, precomputing the dispatch hash: a call's hash covers its
// real arity, a namespace-qualified variable's hash is precomputed for
// arity 0 (spec.md §4.2.1).
func (p *parser) parseIdentPrimary(settings parseSettings) ast.Expr {
	name := p.parseIdent()
	var qualifiers []*ast.Ident
	for p.tok == token.COLONCOLON {
		if !p.eng.Config.AllowModules {
			p.fail(ErrUnexpectedInput, p.val.Pos, "module qualification is disabled")
		}
		p.expect(token.COLONCOLON)
		qualifiers = append(qualifiers, name)
		name = p.parseIdent()
	}

	switch p.tok {
	case token.LPAREN:
		return p.finishCall(settings, qualifiers, name, token.NoPos)
	case token.BANG:
		bangPos := p.expect(token.BANG)
		if len(qualifiers) > 0 {
			p.fail(ErrMalformedCapture, bangPos, "'!' capture call not allowed on a qualified name")
		}
		return p.finishCall(settings, nil, name, bangPos)
	default:
		if len(qualifiers) > 0 {
			v := &ast.VariableExpr{Qualifiers: qualifiers, Ident: name}
			if idx, ok := p.scope.findModule(qualifiers[0].Name); ok {
				v.ModuleIndex = idx
			}
			v.HashScript = p.seed.Script(identNames(qualifiers), name.Name, 0)
			return v
		}
		v := &ast.VariableExpr{Ident: name}
		if idx, ok := p.scope.accessVar(name.Name, name.Pos); ok {
			v.StackIndex = idx
		}
		return v
	}
}

func (p *parser) finishCall(settings parseSettings, qualifiers []*ast.Ident, name *ast.Ident, bangPos token.Pos) ast.Expr {
	if bangPos.IsValid() && (name.Name == "Fn" || name.Name == "eval") {
		p.fail(ErrMalformedCapture, bangPos, "'!' capture call not allowed on %q", name.Name)
	}
	lparen := p.expect(token.LPAREN)
	var args []ast.Expr
	var commas []token.Pos
	for p.tok != token.RPAREN {
		args = append(args, p.parseExpr(settings.nested()))
		if p.tok == token.COMMA {
			commas = append(commas, p.expect(token.COMMA))
		} else {
			break
		}
	}
	rparen := p.expect(token.RPAREN)

	call := &ast.FnCallExpr{
		Qualifiers:    qualifiers,
		Name:          name,
		Bang:          bangPos,
		Lparen:        lparen,
		Args:          args,
		Commas:        commas,
		Rparen:        rparen,
		HasHashScript: true,
	}
	call.HashScript = p.seed.Script(identNames(qualifiers), name.Name, len(args))
	return call
}
