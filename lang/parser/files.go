package parser

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/liana/lang/ast"
	"github.com/mna/liana/lang/engine"
	"github.com/mna/liana/lang/fnhash"
	"github.com/mna/liana/lang/token"
)

// ParseFiles parses each of files in order, sharing a single FileSet and
// fnhash.Seed across all of them (so e.g. two files importing the same
// module hash it identically). It stops at the first file that fails to
// parse, returning the chunks successfully parsed so far alongside the
// error - consistent with the package's abort-on-first-error model.
func ParseFiles(ctx context.Context, eng *engine.Engine, files ...string) (*token.FileSet, []*ast.Chunk, error) {
	if len(files) == 0 {
		return nil, nil, nil
	}

	fs := token.NewFileSet()
	seed := fnhash.NewSeed()
	chunks := make([]*ast.Chunk, 0, len(files))
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return fs, chunks, err
		}

		src, err := os.ReadFile(file)
		if err != nil {
			return fs, chunks, fmt.Errorf("parser: read %q: %w", file, err)
		}

		chunk, err := Parse(eng, seed, fs, file, src, file)
		if err != nil {
			return fs, chunks, err
		}
		chunks = append(chunks, chunk)
	}
	return fs, chunks, nil
}
