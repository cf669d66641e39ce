package parser

import (
	"strconv"

	"github.com/mna/liana/lang/ast"
	"github.com/mna/liana/lang/token"
)

// parseBlock parses a sequence of statements until the caller's delimiter
// (RBRACE for a braced block, EOF for the top-level chunk) is reached. The
// enclosing '{'/'}' pair, if any, is consumed by the caller, not here - this
// lets the same loop serve both the top-level chunk (no braces) and every
// nested block.
func (p *parser) parseBlock(settings parseSettings) *ast.Block {
	start := p.val.Pos
	var stmts []ast.Stmt
	for !p.at(token.RBRACE, token.EOF) {
		if p.at(token.FN, token.PRIVATE) {
			if !settings.isGlobal {
				p.fail(ErrWrongFnDefinition, p.val.Pos, "function declarations are only allowed at the top level")
			}
			p.parseFuncDecl()
			continue
		}

		s := p.parseStmt(settings)
		if _, isNoop := s.(*ast.NoopStmt); !isNoop && p.tok == token.SEMICOLON {
			p.advance() // a ';' terminating a statement is not a statement of its own
		}
		for _, id := range p.pendingShares {
			stmts = append(stmts, &ast.ShareStmt{Start: id.Pos, Name: id})
		}
		p.pendingShares = p.pendingShares[:0]
		stmts = append(stmts, s)

		if s.BlockEnding() {
			if !p.at(token.RBRACE, token.EOF) {
				p.fail(ErrUnexpectedInput, p.val.Pos, "unreachable statement after %s", describeCurrent(p))
			}
			break
		}
	}
	end := p.val.Pos
	return &ast.Block{Start: start, End: end, Stmts: stmts}
}

// parseBracedBlock parses a '{' ... '}' delimited block, saving and
// restoring the scope stack depth around it so that bindings introduced
// inside the block do not leak to its continuation.
func (p *parser) parseBracedBlock(settings parseSettings) *ast.Block {
	p.expect(token.LBRACE)
	saved := p.scope.stackLen()
	block := p.parseBlock(settings)
	p.scope.truncateStack(saved)
	p.expect(token.RBRACE)
	return block
}

// parseStmt dispatches on the leading token of a statement.
func (p *parser) parseStmt(settings parseSettings) ast.Stmt {
	switch p.tok {
	case token.SEMICOLON:
		p.clearDocComment()
		pos := p.expect(token.SEMICOLON)
		return &ast.NoopStmt{Start: pos}

	case token.LBRACE:
		p.clearDocComment()
		return p.parseBracedBlock(settings.notGlobal().nested())

	case token.IF:
		p.clearDocComment()
		return p.parseIfStmt(settings)

	case token.SWITCH:
		p.clearDocComment()
		return p.parseSwitchStmt(settings)

	case token.WHILE:
		p.clearDocComment()
		return p.parseWhileStmt(settings)

	case token.LOOP:
		p.clearDocComment()
		return p.parseLoopStmt(settings)

	case token.DO:
		p.clearDocComment()
		return p.parseDoStmt(settings)

	case token.FOR:
		p.clearDocComment()
		return p.parseForStmt(settings)

	case token.BREAK:
		p.clearDocComment()
		pos := p.expect(token.BREAK)
		if !settings.isBreakable {
			p.fail(ErrLoopBreak, pos, "'break' outside of a loop")
		}
		return &ast.BreakStmt{Start: pos}

	case token.CONTINUE:
		p.clearDocComment()
		pos := p.expect(token.CONTINUE)
		if !settings.isBreakable {
			p.fail(ErrLoopBreak, pos, "'continue' outside of a loop")
		}
		return &ast.ContinueStmt{Start: pos}

	case token.RETURN, token.THROW:
		p.clearDocComment()
		return p.parseReturnStmt(settings)

	case token.TRY:
		p.clearDocComment()
		return p.parseTryCatchStmt(settings)

	case token.LET, token.CONST:
		p.clearDocComment()
		return p.parseLetConstStmt(settings, false)

	case token.IMPORT:
		p.clearDocComment()
		if !settings.isGlobal {
			p.fail(ErrUnexpectedInput, p.val.Pos, "'import' is only allowed at the top level")
		}
		return p.parseImportStmt(settings)

	case token.EXPORT:
		p.clearDocComment()
		return p.parseExportStmt(settings)

	default:
		p.clearDocComment()
		return p.parseExprOrAssignStmt(settings)
	}
}

func (p *parser) parseIfStmt(settings parseSettings) ast.Stmt {
	ifPos := p.expect(token.IF)
	cond := p.parseExpr(settings.nested())
	then := p.parseBracedBlock(settings.notGlobal().nested())

	stmt := &ast.IfStmt{If: ifPos, Cond: cond, Then: then}
	if p.tok == token.ELSE {
		stmt.Else = p.expect(token.ELSE)
		if p.tok == token.IF {
			elsePos := p.val.Pos
			nested := p.parseIfStmt(settings)
			_, end := nested.Span()
			stmt.False = &ast.Block{Start: elsePos, End: end, Stmts: []ast.Stmt{nested}}
		} else {
			stmt.False = p.parseBracedBlock(settings.notGlobal().nested())
		}
	}
	return stmt
}

func (p *parser) parseWhileStmt(settings parseSettings) ast.Stmt {
	pos := p.expect(token.WHILE)
	cond := p.parseExpr(settings.nested())
	body := p.parseBracedBlock(settings.notGlobal().inLoop())
	return &ast.WhileStmt{While: pos, Cond: cond, Body: body}
}

// parseLoopStmt parses an unconditional "loop { ... }", lowered to a
// WhileStmt with a nil condition - there is no dedicated AST node for it,
// and a nil Cond is otherwise never produced by any other production.
func (p *parser) parseLoopStmt(settings parseSettings) ast.Stmt {
	pos := p.expect(token.LOOP)
	body := p.parseBracedBlock(settings.notGlobal().inLoop())
	return &ast.WhileStmt{While: pos, Body: body}
}

func (p *parser) parseDoStmt(settings parseSettings) ast.Stmt {
	pos := p.expect(token.DO)
	body := p.parseBracedBlock(settings.notGlobal().inLoop())
	isWhile := !(p.tok == token.IDENT && p.val.Raw == "until")
	var guardPos token.Pos
	if isWhile {
		guardPos = p.expect(token.WHILE)
	} else {
		guardPos = p.expect(token.IDENT) // "until" is not a reserved word
	}
	cond := p.parseExpr(settings.nested())
	return &ast.DoStmt{Do: pos, Body: body, Guard: guardPos, IsWhile: isWhile, Cond: cond}
}

func (p *parser) parseForStmt(settings parseSettings) ast.Stmt {
	pos := p.expect(token.FOR)
	name := p.parseIdent()
	p.expect(token.IN)
	iter := p.parseExpr(settings.nested())

	p.expect(token.LBRACE)
	saved := p.scope.stackLen()
	p.scope.pushVar(name.Name, readWrite)
	body := p.parseBlock(settings.notGlobal().inLoop())
	p.scope.truncateStack(saved)
	p.expect(token.RBRACE)

	return &ast.ForStmt{For: pos, Name: name, Iter: iter, Body: body}
}

func (p *parser) parseSwitchStmt(settings parseSettings) ast.Stmt {
	switchPos := p.expect(token.SWITCH)
	scrutinee := p.parseExpr(settings.nested())
	lbrace := p.expect(token.LBRACE)

	bodySettings := settings.notGlobal().nested()
	var cases []*ast.SwitchCase
	var def *ast.SwitchCase
	seen := make(map[uint64]bool)
	for p.tok != token.RBRACE {
		c := &ast.SwitchCase{}
		if p.tok == token.IDENT && p.val.Raw == "_" {
			if def != nil {
				p.fail(ErrDuplicatedSwitchCase, p.val.Pos, "duplicate default switch arm")
			}
			p.expect(token.IDENT)
		} else {
			patPos := p.val.Pos
			pat := p.parseExpr(bodySettings)
			h := p.switchCaseHash(patPos, pat)
			if seen[h] {
				p.fail(ErrDuplicatedSwitchCase, patPos, "duplicate switch case")
			}
			seen[h] = true
			c.Pattern = pat
			c.Hash = h
		}
		c.Arrow = p.expect(token.CASEARROW)
		c.Body = p.parseStmt(bodySettings)

		if c.Pattern == nil {
			def = c
		} else {
			cases = append(cases, c)
		}

		if p.tok == token.COMMA {
			p.expect(token.COMMA)
		} else {
			break
		}
	}
	rbrace := p.expect(token.RBRACE)
	return &ast.SwitchStmt{Switch: switchPos, Scrutinee: scrutinee, Lbrace: lbrace, Cases: cases, Default: def, Rbrace: rbrace}
}

// switchCaseHash computes the content hash of a case pattern, which must be
// a literal: int, string, char or bool. Any other shape can never be known
// at parse time and is rejected.
func (p *parser) switchCaseHash(pos token.Pos, e ast.Expr) uint64 {
	switch v := e.(type) {
	case *ast.IntExpr:
		return p.seed.Value("i:" + strconv.FormatInt(v.Value, 10))
	case *ast.StringExpr:
		return p.seed.Value("s:" + v.Value)
	case *ast.CharExpr:
		return p.seed.Value("c:" + string(v.Value))
	case *ast.BoolExpr:
		return p.seed.Value("b:" + strconv.FormatBool(v.Value))
	default:
		p.fail(ErrUnexpectedInput, pos, "switch case pattern must be an int, string, char or bool literal")
		panic("unreachable")
	}
}

func (p *parser) parseLetConstStmt(settings parseSettings, exported bool) ast.Stmt {
	isConst := p.tok == token.CONST
	pos := p.expect(token.LET, token.CONST)
	name := p.parseIdent()

	var value ast.Expr
	if p.tok == token.EQ {
		p.expect(token.EQ)
		value = p.parseExpr(settings.nested())
	}

	mode := readWrite
	if isConst {
		mode = readOnly
	}
	p.scope.pushVar(name.Name, mode)

	if isConst {
		return &ast.ConstStmt{Const: pos, Name: name, Value: value, Export: exported}
	}
	return &ast.LetStmt{Let: pos, Name: name, Value: value, Export: exported}
}

func (p *parser) parseExportStmt(settings parseSettings) ast.Stmt {
	pos := p.expect(token.EXPORT)
	if !settings.isGlobal {
		p.fail(ErrWrongExport, pos, "'export' is only allowed at the top level")
	}
	if p.tok == token.LET || p.tok == token.CONST {
		return p.parseLetConstStmt(settings, true)
	}

	names := []*ast.Ident{p.parseIdent()}
	for p.tok == token.COMMA {
		p.expect(token.COMMA)
		names = append(names, p.parseIdent())
	}
	return &ast.ExportStmt{Export: pos, Names: names}
}

func (p *parser) parseImportStmt(settings parseSettings) ast.Stmt {
	pos := p.expect(token.IMPORT)
	if !p.eng.Config.AllowModules {
		p.fail(ErrUnexpectedInput, pos, "module imports are disabled")
	}
	path := p.parseExpr(settings.nested())

	var alias *ast.Ident
	if p.tok == token.IDENT && p.val.Raw == "as" {
		p.expect(token.IDENT)
		alias = p.parseIdent()
		p.scope.pushModule(alias.Name)
	}
	return &ast.ImportStmt{Import: pos, Path: path, Alias: alias}
}

func (p *parser) parseReturnStmt(settings parseSettings) ast.Stmt {
	kind := p.tok
	pos := p.expect(kind)
	var value ast.Expr
	if !p.at(token.RBRACE, token.EOF, token.SEMICOLON) {
		value = p.parseExpr(settings.nested())
	}
	return &ast.ReturnStmt{Kind: kind, Start: pos, Value: value}
}

func (p *parser) parseTryCatchStmt(settings parseSettings) ast.Stmt {
	tryPos := p.expect(token.TRY)
	body := p.parseBracedBlock(settings.notGlobal().nested())
	catchPos := p.expect(token.CATCH)

	saved := p.scope.stackLen()
	var catchVar *ast.Ident
	if p.tok == token.LPAREN {
		p.expect(token.LPAREN)
		catchVar = p.parseIdent()
		p.expect(token.RPAREN)
		p.scope.pushVar(catchVar.Name, readWrite)
	}
	catchBody := p.parseBracedBlock(settings.notGlobal().nested())
	p.scope.truncateStack(saved)

	return &ast.TryCatchStmt{Try: tryPos, Body: body, Catch: catchPos, CatchVar: catchVar, CatchBody: catchBody}
}

// parseExprOrAssignStmt parses a leading expression and, if followed by '='
// or a compound-assignment operator, canonicalizes it into an AssignStmt;
// otherwise the expression stands as its own statement as-is (a bare
// property access or variable reference is a no-op, not a parse error).
func (p *parser) parseExprOrAssignStmt(settings parseSettings) ast.Stmt {
	startPos := p.val.Pos
	expr := p.parseExpr(settings)

	if p.tok == token.EQ || p.tok.IsAugBinop() {
		return p.finishAssignStmt(settings, expr, startPos)
	}

	return &ast.ExprStmt{Expr: expr}
}

func (p *parser) finishAssignStmt(settings parseSettings, lhs ast.Expr, startPos token.Pos) ast.Stmt {
	op := p.tok
	opPos := p.val.Pos
	p.expect(op)

	if !ast.IsAssignable(lhs) {
		switch lhs.(type) {
		case *ast.AndExpr, *ast.OrExpr:
			p.improperSymbol(opPos, token.EQ.String(), "assignment target must be a single variable or property/index chain, possibly a typo of '=='?")
		default:
			p.fail(ErrAssignmentToInvalidLHS, startPos, "invalid assignment target")
		}
	}
	if v := ast.BaseVariable(lhs); v != nil && len(v.Qualifiers) == 0 && v.StackIndex > 0 {
		if p.scope.modeAt(v.StackIndex) == readOnly {
			p.fail(ErrAssignmentToConstant, startPos, "cannot assign to constant %q", v.Ident.Name)
		}
	}

	rhs := p.parseExpr(settings.nested())
	return &ast.AssignStmt{Left: lhs, Op: op, OpPos: opPos, Right: rhs}
}
