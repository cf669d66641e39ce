package ast

import (
	"fmt"

	"github.com/mna/liana/lang/token"
)

// Property name prefixes used to turn a bare identifier following a '.' into
// a getter/setter pair. Stable but otherwise an implementation detail.
const (
	getterPrefix = "get$"
	setterPrefix = "set$"
)

type (
	// UnitExpr represents the unit value, produced by an empty "()".
	UnitExpr struct {
		Lparen, Rparen token.Pos
	}

	// BoolExpr represents a boolean literal, true or false.
	BoolExpr struct {
		Start token.Pos
		Value bool
	}

	// IntExpr represents an integer literal.
	IntExpr struct {
		Start token.Pos
		Raw   string
		Value int64
	}

	// FloatExpr represents a float literal.
	FloatExpr struct {
		Start token.Pos
		Raw   string
		Value float64
	}

	// CharExpr represents a char literal.
	CharExpr struct {
		Start token.Pos
		Raw   string
		Value rune
	}

	// StringExpr represents a string literal. Value is the interned string
	// handle (for this package, simply the decoded string content).
	StringExpr struct {
		Start token.Pos
		Raw   string
		Value string
	}

	// ArrayExpr represents an array literal, e.g. [1, 2, 3].
	ArrayExpr struct {
		Lbrack token.Pos
		Items  []Expr
		Commas []token.Pos // len(Items)-1 or len(Items) if a trailing comma is allowed
		Rbrack token.Pos
	}

	// KeyVal represents a single key: value pair of a map literal. The key
	// is always a bare identifier (possibly itself coerced from what parsed
	// as a Variable), per the Variable -> Property coercion rule.
	KeyVal struct {
		Key   *Ident
		Colon token.Pos
		Value Expr
	}

	// MapExpr represents an object-map literal, e.g. #{ a: 1, b: 2 }.
	MapExpr struct {
		Hashbrace token.Pos
		Items     []*KeyVal
		Commas    []token.Pos
		Rbrace    token.Pos
	}

	// VariableExpr represents a reference to a variable, possibly namespace
	// qualified (ns::name) and possibly resolved to a lexical scope-stack
	// slot at parse time.
	VariableExpr struct {
		Qualifiers []*Ident // nil if unqualified
		Ident      *Ident

		// StackIndex is the 1-based offset from the top of the scope stack at
		// the point of use, or 0 if the variable could not be resolved at
		// parse time (forcing a runtime lookup, e.g. for globals or captured
		// free variables).
		StackIndex int

		// HashScript is only meaningful when Qualifiers is non-empty: the
		// precomputed dispatch hash H(qualifiers, name, arity=0) used to look
		// the binding up in its module at runtime. ModuleIndex is the
		// resolved index into the module alias stack.
		HashScript  uint64
		ModuleIndex int
	}

	// PropertyExpr represents a variable reference re-interpreted as an
	// object-field access, e.g. the "b" in "a.b".
	PropertyExpr struct {
		Ident          *Ident
		Getter, Setter string
	}

	// FnCallExpr represents a function or method call.
	FnCallExpr struct {
		Qualifiers []*Ident // non-nil for a namespace-qualified call, e.g. ns::f(...)
		Name       *Ident
		Bang       token.Pos // position of '!' if this is a capture-call, else 0
		Lparen     token.Pos
		Args       []Expr
		Commas     []token.Pos
		Rparen     token.Pos

		// IsMethod is true for a dot-chained call, e.g. the "b(x)" in "a.b(x)".
		IsMethod bool

		// HasHashScript reports whether HashScript was precomputed: true for
		// calls by name (plain, qualified, '!'-capture or method-style), for
		// custom-operator calls and for the closure curry call; false for the
		// calls built for the built-in unary and binary operators.
		HasHashScript bool
		HashScript    uint64

		// DefaultValue is set for comparison-operator calls synthesized by
		// the binary precedence climber: "!=" defaults unknown operands to
		// true, "==","<","<=",">",">=" default to false. Nil for ordinary
		// calls.
		DefaultValue *bool
	}

	// FnPointerExpr represents an anonymous reference to a named function,
	// used as the first argument of a closure's curry call.
	FnPointerExpr struct {
		Start token.Pos
		Name  *Ident
	}

	// DotExpr represents a dot-chain node, e.g. x.y. Right is restricted by
	// construction (see MakeDot) to *PropertyExpr, *FnCallExpr (method-style
	// only), *DotExpr or *IndexExpr.
	DotExpr struct {
		Left  Expr
		Dot   token.Pos
		Right Expr
	}

	// IndexExpr represents an index expression, e.g. x[y]. Chained indexing
	// is right-associative: a[b][c] parses as Index(a, Index(b, c)).
	IndexExpr struct {
		Left   Expr
		Lbrack token.Pos
		Index  Expr
		Rbrack token.Pos
	}

	// AndExpr represents a short-circuit "&&" expression.
	AndExpr struct {
		Left  Expr
		Op    token.Pos
		Right Expr
	}

	// OrExpr represents a short-circuit "||" expression.
	OrExpr struct {
		Left  Expr
		Op    token.Pos
		Right Expr
	}

	// InExpr represents a membership test, e.g. "c" in s.
	InExpr struct {
		Left  Expr
		Op    token.Pos
		Right Expr
	}

	// CustomExpr represents the node produced by a registered custom-syntax
	// hook: the sequence of segment keywords it consumed and the raw tokens
	// making up each parsed segment.
	CustomExpr struct {
		Start, End token.Pos
		Key        string
		Keywords   []string
		Segments   []Node // *Ident, Expr or *Block per segment kind
	}

	// StmtExpr represents a block used in expression position: "{ … }" as an
	// if/switch/anonymous-function body, or a curry-call wrapper block
	// emitted for closure capture.
	StmtExpr struct {
		Block *Block
	}
)

func (n *UnitExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "unit", nil) }
func (n *UnitExpr) Span() (start, end token.Pos) {
	return n.Lparen, n.Rparen + token.Pos(len(token.RPAREN.String()))
}
func (n *UnitExpr) Walk(_ Visitor) {}
func (n *UnitExpr) expr()          {}

func (n *BoolExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, fmt.Sprintf("%t", n.Value), nil)
}
func (n *BoolExpr) Span() (start, end token.Pos) {
	lit := "false"
	if n.Value {
		lit = "true"
	}
	return n.Start, n.Start + token.Pos(len(lit))
}
func (n *BoolExpr) Walk(_ Visitor) {}
func (n *BoolExpr) expr()          {}

func (n *IntExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "int "+n.Raw, nil) }
func (n *IntExpr) Span() (start, end token.Pos) {
	return n.Start, n.Start + token.Pos(len(n.Raw))
}
func (n *IntExpr) Walk(_ Visitor) {}
func (n *IntExpr) expr()          {}

func (n *FloatExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "float "+n.Raw, nil) }
func (n *FloatExpr) Span() (start, end token.Pos) {
	return n.Start, n.Start + token.Pos(len(n.Raw))
}
func (n *FloatExpr) Walk(_ Visitor) {}
func (n *FloatExpr) expr()          {}

func (n *CharExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "char "+n.Raw, nil) }
func (n *CharExpr) Span() (start, end token.Pos) {
	return n.Start, n.Start + token.Pos(len(n.Raw))
}
func (n *CharExpr) Walk(_ Visitor) {}
func (n *CharExpr) expr()          {}

func (n *StringExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "string "+n.Raw, nil) }
func (n *StringExpr) Span() (start, end token.Pos) {
	return n.Start, n.Start + token.Pos(len(n.Raw))
}
func (n *StringExpr) Walk(_ Visitor) {}
func (n *StringExpr) expr()          {}

func (n *ArrayExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "array", map[string]int{"items": len(n.Items)})
}
func (n *ArrayExpr) Span() (start, end token.Pos) {
	return n.Lbrack, n.Rbrack + token.Pos(len(token.RBRACK.String()))
}
func (n *ArrayExpr) Walk(v Visitor) {
	for _, e := range n.Items {
		Walk(v, e)
	}
}
func (n *ArrayExpr) expr() {}

func (n *MapExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "map", map[string]int{"pairs": len(n.Items)})
}
func (n *MapExpr) Span() (start, end token.Pos) {
	return n.Hashbrace, n.Rbrace + token.Pos(len(token.RBRACE.String()))
}
func (n *MapExpr) Walk(v Visitor) {
	for _, kv := range n.Items {
		Walk(v, kv.Key)
		Walk(v, kv.Value)
	}
}
func (n *MapExpr) expr() {}

func (n *VariableExpr) Format(f fmt.State, verb rune) {
	lbl := n.Ident.Name
	if len(n.Qualifiers) > 0 {
		lbl = qualifiedName(n.Qualifiers) + "::" + lbl
	}
	format(f, verb, n, "var "+lbl, nil)
}
func (n *VariableExpr) Span() (start, end token.Pos) {
	if len(n.Qualifiers) > 0 {
		start, _ = n.Qualifiers[0].Span()
	} else {
		start = n.Ident.Pos
	}
	_, end = n.Ident.Span()
	return start, end
}
func (n *VariableExpr) Walk(v Visitor) {
	for _, q := range n.Qualifiers {
		Walk(v, q)
	}
	Walk(v, n.Ident)
}
func (n *VariableExpr) expr() {}

func (n *PropertyExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "prop "+n.Ident.Name, nil) }
func (n *PropertyExpr) Span() (start, end token.Pos)  { return n.Ident.Span() }
func (n *PropertyExpr) Walk(v Visitor)                { Walk(v, n.Ident) }
func (n *PropertyExpr) expr()                         {}

// NewProperty builds a PropertyExpr for id, filling in the stable
// getter/setter names.
func NewProperty(id *Ident) *PropertyExpr {
	return &PropertyExpr{Ident: id, Getter: getterPrefix + id.Name, Setter: setterPrefix + id.Name}
}

func (n *FnCallExpr) Format(f fmt.State, verb rune) {
	lbl := "call " + n.Name.Name
	if n.IsMethod {
		lbl = "method " + n.Name.Name
	}
	if n.Bang.IsValid() {
		lbl += "!"
	}
	format(f, verb, n, lbl, map[string]int{"args": len(n.Args)})
}
func (n *FnCallExpr) Span() (start, end token.Pos) {
	if len(n.Qualifiers) > 0 {
		start, _ = n.Qualifiers[0].Span()
	} else {
		start = n.Name.Pos
	}
	switch {
	case n.Bang.IsValid():
		end = n.Bang + token.Pos(len(token.BANG.String()))
	case n.Rparen.IsValid():
		end = n.Rparen + token.Pos(len(token.RPAREN.String()))
	default:
		_, end = n.Name.Span()
	}
	return start, end
}
func (n *FnCallExpr) Walk(v Visitor) {
	for _, q := range n.Qualifiers {
		Walk(v, q)
	}
	Walk(v, n.Name)
	for _, e := range n.Args {
		Walk(v, e)
	}
}
func (n *FnCallExpr) expr() {}

func (n *FnPointerExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "fnptr "+n.Name.Name, nil)
}
func (n *FnPointerExpr) Span() (start, end token.Pos) {
	_, end = n.Name.Span()
	return n.Start, end
}
func (n *FnPointerExpr) Walk(v Visitor) { Walk(v, n.Name) }
func (n *FnPointerExpr) expr()          {}

func (n *DotExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "dot", nil) }
func (n *DotExpr) Span() (start, end token.Pos) {
	start, _ = n.Left.Span()
	_, end = n.Right.Span()
	return start, end
}
func (n *DotExpr) Walk(v Visitor) {
	Walk(v, n.Left)
	Walk(v, n.Right)
}
func (n *DotExpr) expr() {}

func (n *IndexExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "index", nil) }
func (n *IndexExpr) Span() (start, end token.Pos) {
	start, _ = n.Left.Span()
	return start, n.Rbrack + token.Pos(len(token.RBRACK.String()))
}
func (n *IndexExpr) Walk(v Visitor) {
	Walk(v, n.Left)
	Walk(v, n.Index)
}
func (n *IndexExpr) expr() {}

func (n *AndExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "and", nil) }
func (n *AndExpr) Span() (start, end token.Pos) {
	start, _ = n.Left.Span()
	_, end = n.Right.Span()
	return start, end
}
func (n *AndExpr) Walk(v Visitor) { Walk(v, n.Left); Walk(v, n.Right) }
func (n *AndExpr) expr()          {}

func (n *OrExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "or", nil) }
func (n *OrExpr) Span() (start, end token.Pos) {
	start, _ = n.Left.Span()
	_, end = n.Right.Span()
	return start, end
}
func (n *OrExpr) Walk(v Visitor) { Walk(v, n.Left); Walk(v, n.Right) }
func (n *OrExpr) expr()          {}

func (n *InExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "in", nil) }
func (n *InExpr) Span() (start, end token.Pos) {
	start, _ = n.Left.Span()
	_, end = n.Right.Span()
	return start, end
}
func (n *InExpr) Walk(v Visitor) { Walk(v, n.Left); Walk(v, n.Right) }
func (n *InExpr) expr()          {}

func (n *CustomExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "custom "+n.Key, map[string]int{"segments": len(n.Segments)})
}
func (n *CustomExpr) Span() (start, end token.Pos) { return n.Start, n.End }
func (n *CustomExpr) Walk(v Visitor) {
	for _, seg := range n.Segments {
		Walk(v, seg)
	}
}
func (n *CustomExpr) expr() {}

func (n *StmtExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "stmt-expr", nil) }
func (n *StmtExpr) Span() (start, end token.Pos)  { return n.Block.Span() }
func (n *StmtExpr) Walk(v Visitor)                { Walk(v, n.Block) }
func (n *StmtExpr) expr()                         {}

func qualifiedName(qs []*Ident) string {
	s := ""
	for i, q := range qs {
		if i > 0 {
			s += "::"
		}
		s += q.Name
	}
	return s
}
