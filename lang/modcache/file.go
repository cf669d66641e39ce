package modcache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/mna/liana/lang/engine"
	"github.com/mna/liana/lang/fnhash"
	"github.com/mna/liana/lang/parser"
	"github.com/mna/liana/lang/token"
)

// ErrModuleNotFound is returned when a logical path does not resolve to a
// file under any configured root.
type ErrModuleNotFound struct {
	LogicalPath string
	Roots       []string
}

func (e *ErrModuleNotFound) Error() string {
	return fmt.Sprintf("modcache: module %q not found under roots %v", e.LogicalPath, e.Roots)
}

// FileResolver resolves a logical module path to a file under one of
// several root directories, forcing a fixed extension - the same
// base-path-plus-extension search original_source/src/module/resolvers/file.rs
// performs, minus its in-memory cache (that concern belongs to
// CachedResolver here, so a FileResolver can stay a stateless leaf).
type FileResolver struct {
	Roots     []string
	Extension string

	seed fnhash.Seed
	fset *token.FileSet
}

// NewFileResolver returns a FileResolver searching roots in order, with the
// default ".liana" extension.
func NewFileResolver(roots ...string) *FileResolver {
	return &FileResolver{
		Roots:     roots,
		Extension: "liana",
		seed:      fnhash.NewSeed(),
		fset:      token.NewFileSet(),
	}
}

// Resolve searches each root in order for "<root>/<logicalPath>.<Extension>",
// parsing the first one found. eng's feature gates and registries apply to
// the module body exactly as they do to the importing chunk.
func (r *FileResolver) Resolve(_ context.Context, eng *engine.Engine, logicalPath string, _ token.Pos) (*Module, error) {
	for _, root := range r.Roots {
		path := filepath.Join(root, logicalPath) + "." + r.Extension
		src, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("modcache: read %q: %w", path, err)
		}

		fingerprint := strconv.FormatUint(r.seed.Value(path+"\x00"+string(src)), 16)
		chunk, err := parser.Parse(eng, r.seed, r.fset, path, src, fingerprint)
		if err != nil {
			return nil, fmt.Errorf("modcache: parse module %q: %w", logicalPath, err)
		}

		return &Module{
			LogicalPath: logicalPath,
			Chunk:       chunk,
			Hash:        r.seed.Script(nil, logicalPath, 0),
			Fingerprint: fingerprint,
		}, nil
	}
	return nil, &ErrModuleNotFound{LogicalPath: logicalPath, Roots: r.Roots}
}
