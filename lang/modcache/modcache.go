// Package modcache gives the parser's "import" statement somewhere to
// resolve to. spec.md describes the module resolver only as an external
// collaborator the evaluator lazily invokes; this package supplies one
// concrete, swappable implementation of that contract so a logical import
// path has a real module artifact behind it.
package modcache

import (
	"context"

	"github.com/mna/liana/lang/ast"
	"github.com/mna/liana/lang/engine"
	"github.com/mna/liana/lang/token"
)

// Module is a compiled module artifact: the parsed chunk for a logical
// import path, plus the identity fields a cache needs to decide whether a
// previously-compiled artifact is still fresh.
type Module struct {
	// LogicalPath is the path as written in the import statement, e.g.
	// "collections/set".
	LogicalPath string

	// Chunk is the parsed module body.
	Chunk *ast.Chunk

	// Hash is fnhash.Seed.Script(nil, LogicalPath, 0), used as the cache key.
	Hash uint64

	// Fingerprint identifies the exact source content that produced Chunk,
	// the same value passed as parser.Parse's fingerprint argument. Two
	// resolutions of the same LogicalPath with equal Fingerprint are
	// guaranteed to have parsed identical source.
	Fingerprint string
}

// Resolver loads and caches a compiled module by logical path, the
// interface spec.md §5 names for the evaluator's "import" support.
type Resolver interface {
	Resolve(ctx context.Context, eng *engine.Engine, logicalPath string, pos token.Pos) (*Module, error)
}
