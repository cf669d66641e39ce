// Package parser implements the recursive-descent front end: it turns a
// token stream into a (statements, functions) pair of AST nodes, tracking
// lexical scope and closure captures as it goes. Parsing is single-pass and
// single-threaded, and the first error encountered aborts the parse - there
// is no error recovery and no multi-error reporting.
package parser

import (
	"github.com/mna/liana/lang/ast"
	"github.com/mna/liana/lang/engine"
	"github.com/mna/liana/lang/fnhash"
	"github.com/mna/liana/lang/scanner"
	"github.com/mna/liana/lang/token"
)

// Parse parses src as a single chunk named filename, registered in fset for
// position reporting. fingerprint salts anonymous-function name hashing
// (spec.md: "script fingerprint... used as salt for anonymous-function
// naming") - the caller typically derives it from the source's content
// hash or logical path, so that re-parsing identical source yields
// identical anonymous-function names (Testable Property #3).
//
// The returned error, when non-nil, is always an *Error.
func Parse(eng *engine.Engine, seed fnhash.Seed, fset *token.FileSet, filename string, src []byte, fingerprint string) (chunk *ast.Chunk, err error) {
	var p parser
	p.eng = eng
	p.seed = seed
	p.fingerprint = fingerprint
	p.scope = newScopeState()

	p.file = fset.AddFile(filename, -1, len(src))

	defer func() {
		if r := recover(); r != nil {
			if ep, ok := r.(exitParse); ok {
				chunk, err = nil, ep.err
				return
			}
			panic(r)
		}
	}()

	p.scanner.Init(p.file, src, func(pos token.Position, msg string) {
		panic(exitParse{&Error{Kind: ErrLexical, Message: msg, Position: pos}})
	})
	p.advance()

	chunk = p.parseChunk(filename)
	return chunk, nil
}

// parser holds all per-parse mutable state: the token stream cursor, the
// Interning & Scope State, and the function library being accumulated.
type parser struct {
	eng         *engine.Engine
	seed        fnhash.Seed
	fingerprint string

	scanner scanner.Scanner
	file    *token.File

	tok token.Token
	val token.Value

	scope     *scopeState
	functions []*ast.FuncDef

	// pendingShares accumulates the free variables captured by an anonymous
	// function expression just parsed, to be flushed as ShareStmt nodes
	// immediately ahead of the enclosing statement by parseBlock. A closure
	// expression cannot inject a statement itself, so it hands the names up
	// through this side channel instead.
	pendingShares []*ast.Ident

	// docComment and docCommentEnd track the most recently scanned comment,
	// so that a function declaration immediately following it can claim it
	// as a doc comment. Any statement production other than a function
	// declaration clears it, so a comment never attaches to an unrelated,
	// later declaration.
	docComment    string
	docCommentEnd token.Pos
}

func (p *parser) parseChunk(filename string) *ast.Chunk {
	settings := topLevelSettings(p.eng)

	block := p.parseBlock(settings)
	eofPos := p.expect(token.EOF)

	// The top-level block's bindings and module aliases go out of scope at
	// its end, like those of any other block.
	p.scope.truncateStack(0)
	p.scope.truncateModules(0)

	return &ast.Chunk{
		Name:      filename,
		Block:     block,
		Functions: p.functions,
		EOF:       eofPos,
	}
}

// advance consumes the current token and scans the next one, transparently
// skipping (and recording, for doc-comment attachment) comment tokens.
func (p *parser) advance() {
	for {
		p.tok = p.scanner.Scan(&p.val)
		if p.tok != token.COMMENT {
			return
		}
		p.docComment = p.val.String
		p.docCommentEnd = p.val.Pos + token.Pos(len(p.val.Raw))
	}
}

// clearDocComment discards any pending doc comment, called at the start of
// every statement production that cannot consume one.
func (p *parser) clearDocComment() {
	p.docComment = ""
}

// takeDocComment returns and clears the pending doc comment.
func (p *parser) takeDocComment() string {
	c := p.docComment
	p.docComment = ""
	return c
}

// expect consumes the current token if it is one of toks and returns its
// position, otherwise it raises ErrMissingToken.
func (p *parser) expect(toks ...token.Token) token.Pos {
	pos := p.val.Pos
	for _, t := range toks {
		if p.tok == t {
			p.advance()
			return pos
		}
	}
	p.expectFailed(pos, toks)
	panic("unreachable")
}

func (p *parser) expectFailed(pos token.Pos, toks []token.Token) {
	msg := "expected "
	if len(toks) == 1 {
		msg += toks[0].GoString()
	} else {
		msg += "one of "
		for i, t := range toks {
			if i > 0 {
				msg += ", "
			}
			msg += t.GoString()
		}
	}
	if lit := p.tok.Literal(p.val); lit != "" {
		msg += ", found " + lit
	} else {
		msg += ", found " + p.tok.GoString()
	}
	p.fail(ErrMissingToken, pos, "%s", msg)
}

// at reports whether the current token is one of toks.
func (p *parser) at(toks ...token.Token) bool {
	for _, t := range toks {
		if p.tok == t {
			return true
		}
	}
	return false
}

// checkDepth raises ErrExprTooDeep if settings.level exceeds the
// configured max depth for the settings' context (function body vs.
// top-level expression).
func (p *parser) checkDepth(settings parseSettings) {
	limit := p.eng.Config.MaxExprDepth
	if settings.isFunctionScope {
		limit = p.eng.Config.MaxFunctionExprDepth
	}
	if settings.level > limit {
		p.fail(ErrExprTooDeep, settings.pos, "expression nesting exceeds maximum depth of %d", limit)
	}
}
