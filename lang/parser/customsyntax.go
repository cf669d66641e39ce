package parser

import (
	"github.com/mna/liana/lang/ast"
	"github.com/mna/liana/lang/engine"
	"github.com/mna/liana/lang/token"
)

// parseCustomSyntax drives a registered custom-syntax hook segment by
// segment: cs.Parse is consulted before every segment, given the segments
// parsed so far and the lexeme of the upcoming token, and decides what kind
// of segment comes next ("$ident$", "$expr$", "$block$", or a literal token
// spelling) or that the syntax is complete. RequiredSegmentsFirst is purely
// declarative (surfaced for introspection/registration validation); cs.Parse
// alone drives actual segment sequencing here, since a hook can make later
// segments conditional on what earlier ones turned out to be.
func (p *parser) parseCustomSyntax(settings parseSettings, cs *engine.CustomSyntax) ast.Expr {
	start := p.val.Pos
	key := p.val.Raw
	p.expect(token.IDENT)

	saved := p.scope.stackLen()
	if cs.ScopeDelta != 0 {
		// A barrier isolates whatever this syntax's $block$/$expr$ segments
		// bind from leaking into the surrounding scope once it completes.
		p.scope.pushBarrier()
	}

	var segments []string
	var keywords []string
	var nodes []ast.Node
	for {
		nextSeg, done, err := cs.Parse(segments, currentLexeme(p))
		if err != nil {
			p.fail(ErrUnexpectedInput, p.val.Pos, "custom syntax %q: %s", cs.Key, err)
		}
		if done {
			break
		}

		var node ast.Node
		switch nextSeg {
		case "$ident$":
			node = p.parseIdent()
		case "$expr$":
			node = p.parseExpr(settings.nested())
		case "$block$":
			node = p.parseBracedBlock(settings.notGlobal().nested())
		default:
			pos := p.val.Pos
			lit := currentLexeme(p)
			if lit != nextSeg {
				p.fail(ErrMissingToken, pos, "custom syntax %q: expected %q, found %q", cs.Key, nextSeg, lit)
			}
			p.advance()
		}

		keywords = append(keywords, nextSeg)
		segments = append(segments, nextSeg)
		if node != nil {
			nodes = append(nodes, node)
		}
	}

	if cs.ScopeDelta != 0 {
		p.scope.truncateStack(saved)
	}

	return &ast.CustomExpr{Start: start, End: p.val.Pos, Key: key, Keywords: keywords, Segments: nodes}
}

// currentLexeme renders the current token's spelling the way a custom
// syntax's Parse hook expects to see it: the decoded literal for an
// identifier/literal token, or the fixed spelling for punctuation/keywords.
func currentLexeme(p *parser) string {
	if lit := p.tok.Literal(p.val); lit != "" {
		return lit
	}
	return p.tok.String()
}
