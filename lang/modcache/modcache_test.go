package modcache_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mna/liana/lang/engine"
	"github.com/mna/liana/lang/modcache"
	"github.com/mna/liana/lang/token"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func writeModule(t *testing.T, dir, logicalPath, src string) {
	t.Helper()
	full := filepath.Join(dir, logicalPath) + ".liana"
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(src), 0o644))
}

func TestFileResolverResolvesAndParses(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "collections/set", `let x = 1;`)

	r := modcache.NewFileResolver(dir)
	eng := engine.New(engine.DefaultConfig())
	mod, err := r.Resolve(context.Background(), eng, "collections/set", token.NoPos)
	require.NoError(t, err)
	require.Equal(t, "collections/set", mod.LogicalPath)
	require.Len(t, mod.Chunk.Block.Stmts, 1)
	require.NotZero(t, mod.Hash)
	require.NotEmpty(t, mod.Fingerprint)
}

func TestFileResolverSearchesMultipleRoots(t *testing.T) {
	dirA, dirB := t.TempDir(), t.TempDir()
	writeModule(t, dirB, "util", `let y = 2;`)

	r := modcache.NewFileResolver(dirA, dirB)
	eng := engine.New(engine.DefaultConfig())
	mod, err := r.Resolve(context.Background(), eng, "util", token.NoPos)
	require.NoError(t, err)
	require.Len(t, mod.Chunk.Block.Stmts, 1)
}

func TestFileResolverMissingModule(t *testing.T) {
	r := modcache.NewFileResolver(t.TempDir())
	eng := engine.New(engine.DefaultConfig())
	_, err := r.Resolve(context.Background(), eng, "nope", token.NoPos)
	require.Error(t, err)
	var notFound *modcache.ErrModuleNotFound
	require.ErrorAs(t, err, &notFound)
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	return db
}

func TestCachedResolverHitsOnUnchangedModule(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "m", `let a = 1;`)

	inner := modcache.NewFileResolver(dir)
	cached, err := modcache.NewCachedResolver(openTestDB(t), inner)
	require.NoError(t, err)

	eng := engine.New(engine.DefaultConfig())
	ctx := context.Background()

	first, err := cached.Resolve(ctx, eng, "m", token.NoPos)
	require.NoError(t, err)
	require.Len(t, first.Chunk.Block.Stmts, 1)

	second, err := cached.Resolve(ctx, eng, "m", token.NoPos)
	require.NoError(t, err)
	require.Equal(t, first.Fingerprint, second.Fingerprint)
	require.Len(t, second.Chunk.Block.Stmts, 1)
}

func TestCachedResolverMissesOnChangedContent(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "m", `let a = 1;`)

	inner := modcache.NewFileResolver(dir)
	cached, err := modcache.NewCachedResolver(openTestDB(t), inner)
	require.NoError(t, err)

	eng := engine.New(engine.DefaultConfig())
	ctx := context.Background()

	first, err := cached.Resolve(ctx, eng, "m", token.NoPos)
	require.NoError(t, err)

	writeModule(t, dir, "m", `let a = 1; let b = 2;`)
	second, err := cached.Resolve(ctx, eng, "m", token.NoPos)
	require.NoError(t, err)
	require.NotEqual(t, first.Fingerprint, second.Fingerprint)
	require.Len(t, second.Chunk.Block.Stmts, 2)
}
