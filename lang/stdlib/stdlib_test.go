package stdlib_test

import (
	"testing"

	"github.com/mna/liana/lang/ast"
	"github.com/mna/liana/lang/engine"
	"github.com/mna/liana/lang/fnhash"
	"github.com/mna/liana/lang/parser"
	"github.com/mna/liana/lang/stdlib"
	"github.com/mna/liana/lang/token"
	"github.com/stretchr/testify/require"
)

func TestRegisterMapModule(t *testing.T) {
	eng := engine.New(engine.DefaultConfig())
	require.NoError(t, stdlib.RegisterMapModule(eng))

	mod, ok := eng.Module("map")
	require.True(t, ok)
	require.Equal(t, 2, mod.Funcs["has"])
	require.Equal(t, 1, mod.Funcs["len"])
}

func TestRegisterArrayModule(t *testing.T) {
	eng := engine.New(engine.DefaultConfig())
	require.NoError(t, stdlib.RegisterArrayModule(eng))

	mod, ok := eng.Module("array")
	require.True(t, ok)
	require.Equal(t, 2, mod.Funcs["push"])
}

// A registered module's namespace is just a name as far as the parser is
// concerned: it parses "map::has(...)" the same whether or not "map" was
// ever registered. This confirms the two machineries compose: a
// registered module gives a real namespace for tests like this one to
// qualify a call against.
func TestNamespaceQualifiedCallAgainstRegisteredModule(t *testing.T) {
	eng := engine.New(engine.DefaultConfig())
	require.NoError(t, stdlib.RegisterMapModule(eng))

	fset := token.NewFileSet()
	chunk, err := parser.Parse(eng, fnhash.NewSeed(), fset, "test.liana", []byte(`map::has(m, "k");`), "test.liana")
	require.NoError(t, err)

	stmt := chunk.Block.Stmts[0].(*ast.ExprStmt)
	call := stmt.Expr.(*ast.FnCallExpr)
	require.Len(t, call.Qualifiers, 1)
	require.Equal(t, "map", call.Qualifiers[0].Name)
	require.Equal(t, "has", call.Name.Name)

	mod, ok := eng.Module("map")
	require.True(t, ok)
	require.Equal(t, len(call.Args), mod.Funcs[call.Name.Name])
}
