package engine_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mna/liana/lang/engine"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigEnablesEverything(t *testing.T) {
	c := engine.DefaultConfig()
	require.True(t, c.AllowIndexing)
	require.True(t, c.AllowObjectMaps)
	require.True(t, c.AllowClosures)
	require.True(t, c.AllowModules)
	require.True(t, c.AllowFloats)
	require.True(t, c.AllowAnonymousFunctions)
	require.Equal(t, 256, c.MaxExprDepth)
	require.Equal(t, 10000, c.MaxArraySize)
}

func TestLoadConfigFileOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "liana.yaml")
	require.NoError(t, os.WriteFile(path, []byte("allow_floats: false\nmax_expr_depth: 8\n"), 0o644))

	c, err := engine.LoadConfig(path)
	require.NoError(t, err)
	require.False(t, c.AllowFloats)
	require.Equal(t, 8, c.MaxExprDepth)
	require.True(t, c.AllowIndexing) // untouched fields keep their default
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "liana.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_expr_depth: 8\n"), 0o644))

	t.Setenv("LIANA_MAX_EXPR_DEPTH", "16")
	c, err := engine.LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, 16, c.MaxExprDepth)
}

func TestRegisterCustomOperator(t *testing.T) {
	e := engine.New(engine.DefaultConfig())
	require.NoError(t, e.RegisterCustomOperator("xor", 5))

	op, ok := e.CustomOperator("xor")
	require.True(t, ok)
	require.EqualValues(t, 5, op.Precedence)

	_, ok = e.CustomOperator("nope")
	require.False(t, ok)
}

func TestRegisterCustomOperatorRejectsReservedWord(t *testing.T) {
	e := engine.New(engine.DefaultConfig())
	require.Error(t, e.RegisterCustomOperator("while", 5))
}

func TestRegisterCustomOperatorRejectsZeroPrecedence(t *testing.T) {
	e := engine.New(engine.DefaultConfig())
	require.Error(t, e.RegisterCustomOperator("xor", 0))
}

func TestRegisterCustomSyntax(t *testing.T) {
	e := engine.New(engine.DefaultConfig())
	err := e.RegisterCustomSyntax(engine.CustomSyntax{
		Key:                   "repeat",
		RequiredSegmentsFirst: []string{"$block$"},
		Parse: func(segments []string, nextLexeme string) (string, bool, error) {
			return "", true, nil
		},
	})
	require.NoError(t, err)

	cs, ok := e.CustomSyntax("repeat")
	require.True(t, ok)
	require.Equal(t, []string{"$block$"}, cs.RequiredSegmentsFirst)
}

func TestRegisterCustomSyntaxRequiresParseFunc(t *testing.T) {
	e := engine.New(engine.DefaultConfig())
	err := e.RegisterCustomSyntax(engine.CustomSyntax{Key: "repeat"})
	require.Error(t, err)
}

func TestIsKeywordFunction(t *testing.T) {
	e := engine.New(engine.DefaultConfig())
	require.True(t, e.IsKeywordFunction("while"))
	require.True(t, e.IsKeywordFunction("fn"))
	require.False(t, e.IsKeywordFunction("foobar"))
}
