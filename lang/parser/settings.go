package parser

import (
	"github.com/mna/liana/lang/engine"
	"github.com/mna/liana/lang/token"
)

// parseSettings is the per-production configuration threaded explicitly
// through every mutually recursive parsing procedure. It is always passed
// and returned by value: copying on every recursive call means a production
// that fails and unwinds never leaves stale settings behind for its caller
// to see, rollback is automatic.
type parseSettings struct {
	pos token.Pos

	isGlobal         bool
	isFunctionScope  bool
	isBreakable      bool
	allowAnonymousFn bool
	allowIfExpr      bool
	allowSwitchExpr  bool
	allowStmtExpr    bool

	level int
}

// topLevelSettings returns the settings in effect at the start of a chunk:
// global scope, no enclosing function, not breakable, every expression
// position allowed, feature gates applied per the engine configuration.
func topLevelSettings(eng *engine.Engine) parseSettings {
	return parseSettings{
		isGlobal:         true,
		allowAnonymousFn: eng.Config.AllowAnonymousFunctions,
		allowIfExpr:      true,
		allowSwitchExpr:  true,
		allowStmtExpr:    true,
	}
}

// nested returns a copy of s with level incremented by one, for use by any
// production that recurses into a sub-expression or sub-statement. The
// caller is responsible for failing with ErrExprTooDeep once level exceeds
// the configured limit.
func (s parseSettings) nested() parseSettings {
	s.level++
	return s
}

// notGlobal returns a copy of s scoped to a non-global block (e.g. entering
// a function body, a loop body, or any nested block): fn/import/export are
// no longer legal there.
func (s parseSettings) notGlobal() parseSettings {
	s.isGlobal = false
	return s
}

// inLoop returns a copy of s with isBreakable set, for a while/do/for body.
func (s parseSettings) inLoop() parseSettings {
	s.isBreakable = true
	return s
}

// inFunction returns a copy of s scoped to a fresh function body: not
// global, not inside the enclosing loop (break/continue do not cross a
// function boundary), function-scoped for statement-as-expression gating.
func (s parseSettings) inFunction() parseSettings {
	s.isGlobal = false
	s.isFunctionScope = true
	s.isBreakable = false
	s.level = 0
	return s
}
