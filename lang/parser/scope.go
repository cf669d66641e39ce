package parser

import (
	"github.com/dolthub/swiss"
	"github.com/mna/liana/lang/token"
)

// accessMode records whether a scope slot may be assigned to.
type accessMode uint8

const (
	readWrite accessMode = iota
	readOnly
)

// scopeEntry is one slot of the scope stack. An entry with an empty name is
// a barrier: it forbids reverse lookup from crossing it.
type scopeEntry struct {
	name string
	mode accessMode
}

// isBarrier reports whether e is a capture/lookup barrier sentinel.
func (e scopeEntry) isBarrier() bool { return e.name == "" }

// scopeState is the per-parse mutable context described by the Interning &
// Scope State component: a string intern table, the lexically-bound
// identifier stack, the imported-module alias stack, and the closure
// free-variable set, along with the single-shot capture inhibitor.
type scopeState struct {
	intern *swiss.Map[string, string]

	scope   []scopeEntry
	modules []string

	// externals maps a free-variable name to the position of its first use,
	// for every identifier referenced but not resolved in the current
	// lexical chain while allowCapture was in effect.
	externals *swiss.Map[string, token.Pos]

	// allowCapture is the single-shot capture inhibitor: true by default, it
	// is consulted and then unconditionally reset to true by the very next
	// call to accessVar, regardless of that call's outcome.
	// suppressNextCapture sets it false ahead of a lookup that must never be
	// captured (e.g. the identifier immediately following a '.').
	allowCapture bool
}

func newScopeState() *scopeState {
	return &scopeState{
		intern:       swiss.NewMap[string, string](64),
		externals:    swiss.NewMap[string, token.Pos](8),
		allowCapture: true,
	}
}

// internString returns the canonical handle for text, inserting it on
// first sight.
// Go strings already compare by content, so this mostly buys shared
// backing storage for repeated identifiers within one parse.
func (s *scopeState) internString(text string) string {
	if canon, ok := s.intern.Get(text); ok {
		return canon
	}
	s.intern.Put(text, text)
	return text
}

// pushVar extends the scope stack with a new binding.
func (s *scopeState) pushVar(name string, mode accessMode) {
	s.scope = append(s.scope, scopeEntry{name: name, mode: mode})
}

// pushBarrier pushes an empty-named entry that stops reverse lookup (and
// capture) from crossing it. Used for custom-syntax scope deltas; function
// bodies are isolated with isolateStack instead.
func (s *scopeState) pushBarrier() {
	s.scope = append(s.scope, scopeEntry{})
}

// stackLen returns the current scope stack depth, to be saved as a block's
// entry_stack_len and restored with truncateStack on block exit.
func (s *scopeState) stackLen() int { return len(s.scope) }

// truncateStack restores the scope stack to a previously saved length,
// discarding every binding pushed since.
func (s *scopeState) truncateStack(n int) { s.scope = s.scope[:n] }

// moduleLen and truncateModules provide the same save/restore protocol for
// the module alias stack.
func (s *scopeState) moduleLen() int          { return len(s.modules) }
func (s *scopeState) truncateModules(n int)   { s.modules = s.modules[:n] }
func (s *scopeState) pushModule(alias string) { s.modules = append(s.modules, alias) }

// isolateStack swaps in a fresh, empty scope stack and a fresh externals
// map for the duration of a closure body, and returns a restore function
// the caller must call to put the enclosing scope back; restore returns
// the captured free variables (in first-use order). Unlike pushBarrier,
// which makes an outer reference unresolved WITHOUT capturing it, an isolated stack runs
// out at the bottom on any outer reference - exactly the accessVar case
// that records a capture - which is how a closure's free variables are
// discovered.
func (s *scopeState) isolateStack() (restore func() []string) {
	savedStack := s.scope
	savedExternals := s.externals
	s.scope = nil
	s.externals = swiss.NewMap[string, token.Pos](8)
	return func() []string {
		free := s.externalNames()
		s.scope = savedStack
		s.externals = savedExternals
		return free
	}
}

// suppressNextCapture disables capture recording for exactly the next
// accessVar lookup (e.g. the identifier immediately following a '.', which
// names a property rather than a variable).
func (s *scopeState) suppressNextCapture() { s.allowCapture = false }

// accessVar reverse-scans the scope stack for name. If a barrier is
// encountered first, the lookup is unresolved and, crucially, no capture is
// recorded regardless of allowCapture. If the whole stack is scanned without
// crossing a barrier and without finding name, the lookup is unresolved and,
// if allowCapture was set, name is recorded in externals (first use wins).
// Every call consumes the single-shot inhibitor: allowCapture reverts to
// true immediately, independent of this call's outcome.
func (s *scopeState) accessVar(name string, pos token.Pos) (stackIndex int, resolved bool) {
	allow := s.allowCapture
	s.allowCapture = true

	for i := len(s.scope) - 1; i >= 0; i-- {
		e := s.scope[i]
		if e.isBarrier() {
			return 0, false
		}
		if e.name == name {
			return len(s.scope) - i, true
		}
	}

	if allow {
		if _, ok := s.externals.Get(name); !ok {
			s.externals.Put(name, pos)
		}
	}
	return 0, false
}

// modeAt returns the access mode recorded at the given 1-based top-offset,
// as produced by a prior accessVar resolution.
func (s *scopeState) modeAt(stackIndex int) accessMode {
	return s.scope[len(s.scope)-stackIndex].mode
}

// findModule applies the same reverse-scan protocol as accessVar over the
// module alias stack, without any capture semantics.
func (s *scopeState) findModule(name string) (stackIndex int, resolved bool) {
	for i := len(s.modules) - 1; i >= 0; i-- {
		if s.modules[i] == name {
			return len(s.modules) - i, true
		}
	}
	return 0, false
}

// externalNames returns the free variables recorded so far, in first-use
// position order, for emitting as curry captures.
func (s *scopeState) externalNames() []string {
	type named struct {
		name string
		pos  token.Pos
	}
	all := make([]named, 0, s.externals.Count())
	s.externals.Iter(func(k string, v token.Pos) bool {
		all = append(all, named{k, v})
		return false
	})
	for i := 1; i < len(all); i++ {
		for j := i; j > 0 && all[j].pos < all[j-1].pos; j-- {
			all[j], all[j-1] = all[j-1], all[j]
		}
	}
	names := make([]string, len(all))
	for i, n := range all {
		names[i] = n.name
	}
	return names
}
