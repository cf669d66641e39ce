package modcache

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"time"

	"github.com/mna/liana/lang/ast"
	"github.com/mna/liana/lang/engine"
	"github.com/mna/liana/lang/token"
	"gorm.io/gorm"
)

func init() {
	// Every concrete Stmt/Expr shape must be registered so gob can encode
	// and decode them through the Node/Expr/Stmt interface fields a Chunk is
	// built from.
	for _, v := range []any{
		&ast.Ident{},
		&ast.Block{},
		&ast.UnitExpr{}, &ast.BoolExpr{}, &ast.IntExpr{}, &ast.FloatExpr{},
		&ast.CharExpr{}, &ast.StringExpr{}, &ast.ArrayExpr{}, &ast.MapExpr{},
		&ast.VariableExpr{}, &ast.PropertyExpr{}, &ast.FnCallExpr{},
		&ast.FnPointerExpr{}, &ast.DotExpr{}, &ast.IndexExpr{}, &ast.AndExpr{},
		&ast.OrExpr{}, &ast.InExpr{}, &ast.CustomExpr{}, &ast.StmtExpr{},
		&ast.NoopStmt{}, &ast.ExprStmt{}, &ast.AssignStmt{}, &ast.IfStmt{},
		&ast.WhileStmt{}, &ast.DoStmt{}, &ast.ForStmt{}, &ast.SwitchStmt{},
		&ast.LetStmt{}, &ast.ConstStmt{}, &ast.ReturnStmt{}, &ast.TryCatchStmt{},
		&ast.ImportStmt{}, &ast.ExportStmt{}, &ast.BreakStmt{}, &ast.ContinueStmt{},
		&ast.ShareStmt{},
	} {
		gob.Register(v)
	}
}

// moduleCacheEntry is the GORM model backing CachedResolver's SQLite table.
// Hash is the primary key (fnhash.Seed.Script(nil, logicalPath, 0)); a
// second lookup on Fingerprint within the row decides whether the stored
// payload is still fresh, so a logical path can change underneath without
// ever returning a stale chunk.
type moduleCacheEntry struct {
	Hash        uint64 `gorm:"primaryKey"`
	LogicalPath string `gorm:"index"`
	Fingerprint string
	Payload     []byte
	UpdatedAt   time.Time
}

func (moduleCacheEntry) TableName() string { return "module_cache_entries" }

// CachedResolver wraps a Resolver and memoizes compiled module artifacts in
// a SQLite table, keyed by the module's dispatch hash and validated by a
// content fingerprint. Resolve always calls Next first (for a FileResolver
// that reads and parses the module) to learn the hash and fingerprint, so a
// cache hit returns the stored chunk in place of Next's but does not avoid
// the parse.
type CachedResolver struct {
	Next Resolver
	db   *gorm.DB
}

// NewCachedResolver migrates the module-cache schema on db, an already
// opened GORM database, and returns a CachedResolver wrapping next.
func NewCachedResolver(db *gorm.DB, next Resolver) (*CachedResolver, error) {
	if err := db.AutoMigrate(&moduleCacheEntry{}); err != nil {
		return nil, fmt.Errorf("modcache: migrate cache schema: %w", err)
	}
	return &CachedResolver{Next: next, db: db}, nil
}

// Resolve looks up logicalPath's dispatch hash in the cache; a row whose
// Fingerprint doesn't match what Next currently resolves to is treated as a
// miss, so a module edited since the last cache write is always recompiled.
func (c *CachedResolver) Resolve(ctx context.Context, eng *engine.Engine, logicalPath string, pos token.Pos) (*Module, error) {
	mod, err := c.Next.Resolve(ctx, eng, logicalPath, pos)
	if err != nil {
		return nil, err
	}

	var entry moduleCacheEntry
	err = c.db.WithContext(ctx).First(&entry, "hash = ?", mod.Hash).Error
	switch {
	case err == nil:
		if entry.Fingerprint == mod.Fingerprint {
			cached, decErr := decodeChunk(entry.Payload)
			if decErr != nil {
				return nil, fmt.Errorf("modcache: decode cached module %q: %w", logicalPath, decErr)
			}
			mod.Chunk = cached
			return mod, nil
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		// fall through to insert below
	default:
		return nil, fmt.Errorf("modcache: query cache for %q: %w", logicalPath, err)
	}

	payload, err := encodeChunk(mod.Chunk)
	if err != nil {
		return nil, fmt.Errorf("modcache: encode module %q: %w", logicalPath, err)
	}
	entry = moduleCacheEntry{
		Hash:        mod.Hash,
		LogicalPath: mod.LogicalPath,
		Fingerprint: mod.Fingerprint,
		Payload:     payload,
		UpdatedAt:   time.Now(),
	}
	if err := c.db.WithContext(ctx).Save(&entry).Error; err != nil {
		return nil, fmt.Errorf("modcache: upsert cache entry for %q: %w", logicalPath, err)
	}
	return mod, nil
}

func encodeChunk(chunk *ast.Chunk) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(chunk); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeChunk(payload []byte) (*ast.Chunk, error) {
	var chunk ast.Chunk
	if err := gob.NewDecoder(bytes.NewReader(payload)).Decode(&chunk); err != nil {
		return nil, err
	}
	return &chunk, nil
}
