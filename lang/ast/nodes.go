package ast

import (
	"fmt"
	"os"
	"strings"

	"github.com/mna/liana/lang/token"
)

type (
	// Chunk represents a whole parsed source file (or REPL chunk). It pairs
	// the top-level statement list with the separate library of function
	// definitions collected out of the statement stream during parsing.
	Chunk struct {
		// Name is the filename, which may be empty if the chunk is not a file.
		Name string

		// Comments is filled only if parsing comments was requested, and it
		// lists comments ordered by position in the chunk. Each Comment.Node
		// field holds the node it is most likely associated with.
		Comments []*Comment

		// Block is the block of statements at the top level of the chunk.
		Block *Block

		// Functions is the per-parse library of function definitions, keyed
		// by their dispatch hash, collected as fn/private fn declarations and
		// anonymous function literals are parsed out of the statement and
		// expression streams.
		Functions []*FuncDef

		EOF token.Pos // position of the EOF marker
	}

	// Comment represents a single line or block comment.
	Comment struct {
		// Node this comment is associated with, only set if parsing comments
		// was requested, and only after parsing (via post-processing).
		Node     Node
		Start    token.Pos
		Raw, Val string
	}

	// Block represents a sequence of statements delimited by braces (or the
	// implicit top-level block of a chunk).
	Block struct {
		// Both Start and End are saved because the block may start and end
		// before or after the statements due to comments.
		Start token.Pos
		End   token.Pos
		Stmts []Stmt
	}

	// FuncDef represents a named function body collected into the per-parse
	// function library, whether declared with fn/private fn or synthesized
	// for an anonymous function literal.
	FuncDef struct {
		Fn       token.Pos
		Private  bool
		Name     *Ident
		Params   []*Ident
		Variadic token.Pos // position of the variadic marker, 0 if none
		Body     *Block
		End      token.Pos

		// FreeVars lists the free variables captured by this definition, in
		// the order they were first referenced, only non-empty for anonymous
		// function literals (named declarations may not close over anything).
		FreeVars []*Ident

		// DocComment holds doc comments immediately preceding the definition,
		// if any were attached.
		DocComment string

		// HashScript is the precomputed dispatch hash H(qualifiers=nil, name,
		// arity), used to key the function library.
		HashScript uint64
	}
)

func (n *Chunk) Format(f fmt.State, verb rune) {
	lbl := "chunk"
	if n.Name != "" {
		lbl += " " + strings.ReplaceAll(n.Name, string(os.PathSeparator), "/")
	}
	format(f, verb, n, lbl, map[string]int{"functions": len(n.Functions)})
}
func (n *Chunk) Span() (start, end token.Pos) {
	if n.Block != nil {
		return n.Block.Span()
	}
	return n.EOF, n.EOF
}
func (n *Chunk) Walk(v Visitor) {
	if n.Block != nil {
		Walk(v, n.Block)
	}
	for _, fn := range n.Functions {
		Walk(v, fn)
	}
}

func (n *Comment) Format(f fmt.State, verb rune) { format(f, verb, n, "comment "+n.Val, nil) }
func (n *Comment) Span() (start, end token.Pos)  { return n.Start, n.Start + token.Pos(len(n.Raw)) }
func (n *Comment) Walk(_ Visitor)                {}

func (n *Block) Format(f fmt.State, verb rune) {
	format(f, verb, n, "block", map[string]int{"stmts": len(n.Stmts)})
}
func (n *Block) Span() (start, end token.Pos) { return n.Start, n.End }
func (n *Block) Walk(v Visitor) {
	for _, s := range n.Stmts {
		Walk(v, s)
	}
}

// BlockEnding lets a nested block appear directly in a statement list (the
// Stmt::Block(list) production) without a dedicated wrapper type.
func (n *Block) BlockEnding() bool { return false }

func (n *FuncDef) Format(f fmt.State, verb rune) {
	lbl := "fn " + n.Name.Name
	if n.Private {
		lbl = "private " + lbl
	}
	if n.Variadic.IsValid() {
		lbl += " ..."
	}
	format(f, verb, n, lbl, map[string]int{"params": len(n.Params), "free": len(n.FreeVars)})
}
func (n *FuncDef) Span() (start, end token.Pos) { return n.Fn, n.End }
func (n *FuncDef) Walk(v Visitor) {
	Walk(v, n.Name)
	for _, p := range n.Params {
		Walk(v, p)
	}
	Walk(v, n.Body)
}
