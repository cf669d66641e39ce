package parser

import (
	"fmt"
	"strconv"

	"github.com/mna/liana/lang/ast"
	"github.com/mna/liana/lang/token"
)

// parseFuncName consumes the identifier naming a "fn"/"private fn"
// declaration, distinguishing a reserved word used in name position
// (ErrReserved) from anything else that isn't a name at all (ErrFnMissingName).
func (p *parser) parseFuncName() *ast.Ident {
	if p.tok != token.IDENT {
		pos := p.val.Pos
		if p.tok.IsKeyword() {
			p.fail(ErrReserved, pos, "%q is a reserved word and cannot be used as a function name", p.tok.String())
		}
		p.fail(ErrFnMissingName, pos, "expected a function name, found %s", describeCurrent(p))
	}
	return p.parseIdent()
}

// parseParamList parses a comma-separated, parenthesized parameter list,
// rejecting a name reused within the same list.
func (p *parser) parseParamList() []*ast.Ident {
	p.expect(token.LPAREN)
	var params []*ast.Ident
	seen := make(map[string]bool, 4)
	for p.tok != token.RPAREN {
		id := p.parseIdent()
		if seen[id.Name] {
			p.fail(ErrFnDuplicatedParam, id.Pos, "duplicate parameter name %q", id.Name)
		}
		seen[id.Name] = true
		params = append(params, id)
		if p.tok == token.COMMA {
			p.expect(token.COMMA)
		} else {
			break
		}
	}
	p.expect(token.RPAREN)
	return params
}

// parseFuncDecl parses a top-level "[private] fn name(params) { body }"
// declaration and appends it to the per-parse function library. It produces
// no statement node: a declaration is spliced out of the block's statement
// stream entirely, unlike an anonymous function literal, which stays in
// expression position as a curry call.
func (p *parser) parseFuncDecl() {
	doc := p.takeDocComment()

	var private bool
	fnPos := p.val.Pos
	if p.tok == token.PRIVATE {
		private = true
		p.expect(token.PRIVATE)
		fnPos = p.val.Pos
	}
	p.expect(token.FN)
	name := p.parseFuncName()
	if p.tok != token.LPAREN {
		p.fail(ErrFnMissingParams, p.val.Pos, "expected '(' to begin the parameter list of function %q", name.Name)
	}
	params := p.parseParamList()

	restore := p.scope.isolateStack()
	for _, prm := range params {
		p.scope.pushVar(prm.Name, readWrite)
	}
	if p.tok != token.LBRACE {
		p.fail(ErrFnMissingBody, p.val.Pos, "expected '{' to begin the body of function %q", name.Name)
	}
	p.expect(token.LBRACE)
	body := p.parseBlock(topLevelSettings(p.eng).inFunction())
	endPos := p.expect(token.RBRACE)
	restore() // a named declaration never closes over anything; free names are discarded

	p.functions = append(p.functions, &ast.FuncDef{
		Fn:         fnPos,
		Private:    private,
		Name:       name,
		Params:     params,
		Body:       body,
		End:        endPos,
		DocComment: doc,
		HashScript: p.seed.Script(nil, name.Name, len(params)),
	})
}

// parseAnonFnExpr parses an anonymous function literal, "|params| body" or
// "|| body" (a bare expression is an implicit return), registers it in the
// function library under a hash-derived name, and returns the expression
// that constructs its closure: a bare Fn pointer if it captures nothing, or
// a curry call over its captured free variables otherwise.
func (p *parser) parseAnonFnExpr(settings parseSettings) ast.Expr {
	start := p.val.Pos
	var params []*ast.Ident
	if p.tok == token.OROR {
		p.expect(token.OROR)
	} else {
		p.expect(token.PIPE)
		seen := make(map[string]bool, 4)
		for p.tok != token.PIPE {
			id := p.parseIdent()
			if seen[id.Name] {
				p.fail(ErrFnDuplicatedParam, id.Pos, "duplicate parameter name %q", id.Name)
			}
			seen[id.Name] = true
			params = append(params, id)
			if p.tok == token.COMMA {
				p.expect(token.COMMA)
			} else {
				break
			}
		}
		p.expect(token.PIPE)
	}

	restore := p.scope.isolateStack()
	for _, prm := range params {
		p.scope.pushVar(prm.Name, readWrite)
	}

	fnSettings := settings.inFunction()
	var body *ast.Block
	if p.tok == token.LBRACE {
		p.expect(token.LBRACE)
		body = p.parseBlock(fnSettings)
		p.expect(token.RBRACE)
	} else {
		bodyExpr := p.parseExpr(fnSettings)
		_, end := bodyExpr.Span()
		body = &ast.Block{
			Start: start,
			End:   end,
			Stmts: []ast.Stmt{&ast.ReturnStmt{Kind: token.RETURN, Start: start, Value: bodyExpr}},
		}
	}
	free := restore()
	if !p.eng.Config.AllowClosures {
		// Capture recording and Share emission are a closures-only feature
		// (spec.md §5): with the gate off, free identifiers are simply
		// discarded rather than curried in, so they fall through to an
		// unresolved runtime lookup inside the function body instead.
		free = nil
	}

	name := p.anonFuncName(start)
	freeIdents := make([]*ast.Ident, len(free))
	for i, n := range free {
		freeIdents[i] = &ast.Ident{Name: n, Pos: start}
	}

	_, end := body.Span()
	p.functions = append(p.functions, &ast.FuncDef{
		Fn:         start,
		Name:       &ast.Ident{Name: name, Pos: start},
		Params:     params,
		Body:       body,
		End:        end,
		FreeVars:   freeIdents,
		HashScript: p.seed.Script(nil, name, len(params)),
	})

	return p.curryClosure(start, name, freeIdents)
}

// anonFuncName derives a stable, collision-resistant name for an anonymous
// function from the chunk's fingerprint and the literal's source position,
// so re-parsing identical source yields identical names.
func (p *parser) anonFuncName(pos token.Pos) string {
	h := p.seed.Value(p.fingerprint + "@" + strconv.Itoa(int(pos)))
	return fmt.Sprintf("anon$%016x", h)
}

// curryClosure builds the expression that constructs a closure over free:
// a bare Fn pointer when there is nothing to capture, otherwise a curry
// call binding each captured variable, read from the enclosing scope now in
// effect (the caller restores it before calling curryClosure). Every
// captured name is also queued as a pending Share, since ownership sharing
// is a statement-level effect that the nearest enclosing block must splice
// in ahead of the statement holding this expression.
func (p *parser) curryClosure(pos token.Pos, name string, free []*ast.Ident) ast.Expr {
	fnRef := &ast.FnPointerExpr{Start: pos, Name: &ast.Ident{Name: name, Pos: pos}}
	if len(free) == 0 {
		return fnRef
	}

	args := make([]ast.Expr, 0, len(free)+1)
	args = append(args, fnRef)
	for _, id := range free {
		p.pendingShares = append(p.pendingShares, id)
		v := &ast.VariableExpr{Ident: id}
		if idx, ok := p.scope.accessVar(id.Name, id.Pos); ok {
			v.StackIndex = idx
		}
		args = append(args, v)
	}

	call := &ast.FnCallExpr{
		Name:          &ast.Ident{Name: "curry", Pos: pos},
		Lparen:        pos,
		Rparen:        pos,
		Args:          args,
		IsMethod:      true,
		HasHashScript: true,
	}
	call.HashScript = p.seed.Script(nil, "curry", len(args))
	return call
}
