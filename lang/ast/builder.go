package ast

import (
	"errors"

	"github.com/mna/liana/lang/token"
)

// Errors returned by the AST builder normalizations. The parser wraps these
// with position information before surfacing them to callers.
var (
	ErrPropertyExpected = errors.New("property expected")
	ErrMethodStyleCall  = errors.New("Fn and eval cannot be called method-style")
	ErrMalformedCapture = errors.New("'!' capture call not allowed here")
	ErrVariableExpected = errors.New("variable expected")
)

// MakeDot builds the node for "lhs . rhs", where rhs is whatever the postfix
// chain parsed immediately after the '.': a bare identifier (folded to a
// Variable by the primary parser), a call, or - when the postfix loop
// greedily folded further before returning control here - an already-built
// Dot or Index whose own left edge still needs promoting to a Property. In
// that last case lhs stays the outer-left child and the inner Dot/Index is
// rethreaded as the outer-right child, so "a.b.c" becomes Dot(a,
// Dot(Property(b), Property(c))): a right spine, not a left-leaning fold.
// This keeps the invariant that the leftmost leaf of the resulting tree is
// never a Property (TestableProperty #6).
func MakeDot(lhs, rhs Expr) (Expr, error) {
	switch r := rhs.(type) {
	case *VariableExpr:
		if len(r.Qualifiers) > 0 {
			return nil, ErrPropertyExpected
		}
		return &DotExpr{Left: lhs, Right: NewProperty(r.Ident)}, nil

	case *PropertyExpr:
		// Already coerced to a Property by an earlier call (e.g. promoteToProperty
		// below): thread it through as-is.
		return &DotExpr{Left: lhs, Right: r}, nil

	case *FnCallExpr:
		if len(r.Qualifiers) > 0 {
			return nil, ErrPropertyExpected
		}
		if r.Name.Name == "Fn" || r.Name.Name == "eval" {
			return nil, ErrMethodStyleCall
		}
		if r.Bang.IsValid() {
			return nil, ErrMalformedCapture
		}
		r.IsMethod = true
		return &DotExpr{Left: lhs, Right: r}, nil

	case *DotExpr:
		// The base receiver stays the outer-left child; the inner chain's own
		// left edge is promoted to a Property and rethreaded as the outer-right
		// child, keeping lhs.(b.c) as Dot(lhs, Dot(Property(b), c)) rather than
		// flattening it onto a left-leaning Dot(Dot(lhs,Property(b)), c).
		promoted, err := promoteToProperty(r.Left)
		if err != nil {
			return nil, err
		}
		return &DotExpr{Left: lhs, Right: &DotExpr{Left: promoted, Right: r.Right}}, nil

	case *IndexExpr:
		promoted, err := promoteToProperty(r.Left)
		if err != nil {
			return nil, err
		}
		return &DotExpr{Left: lhs, Right: &IndexExpr{Left: promoted, Lbrack: r.Lbrack, Index: r.Index, Rbrack: r.Rbrack}}, nil

	default:
		return nil, ErrPropertyExpected
	}
}

// promoteToProperty turns an unqualified Variable into a Property; any other
// expression is assumed already-coerced by an earlier fold step.
func promoteToProperty(e Expr) (Expr, error) {
	if v, ok := e.(*VariableExpr); ok {
		if len(v.Qualifiers) > 0 {
			return nil, ErrPropertyExpected
		}
		return NewProperty(v.Ident), nil
	}
	return e, nil
}

// ErrMalformedIn is returned by ValidateInOperands when both sides of an
// "in" expression are literal-typed and of an incompatible combination.
var ErrMalformedIn = errors.New("malformed 'in' expression")

// ValidateInOperands checks the only meaningful literal-typed shapes for an
// "in" expression: string/char in string, and string/char in object-map.
// Non-literal operands (variables, calls, etc.) are always accepted here;
// their shape can only be checked at runtime.
func ValidateInOperands(lhs, rhs Expr) error {
	lhsOK := true
	switch lhs.(type) {
	case *StringExpr, *CharExpr:
		lhsOK = true
	case *IntExpr, *FloatExpr, *BoolExpr, *ArrayExpr, *UnitExpr:
		lhsOK = false
	default:
		return nil // not literal-typed, defer to runtime
	}
	switch rhs.(type) {
	case *StringExpr, *MapExpr:
		if !lhsOK {
			return ErrMalformedIn
		}
		return nil
	case *IntExpr, *FloatExpr, *BoolExpr, *CharExpr, *ArrayExpr, *UnitExpr:
		return ErrMalformedIn
	default:
		return nil // not literal-typed, defer to runtime
	}
}

// IsAssignable reports whether e can appear on the left-hand side of an
// assignment: a Variable, or a Dot/Index chain whose base is itself
// assignable.
func IsAssignable(e Expr) bool {
	switch e := e.(type) {
	case *VariableExpr:
		return true
	case *DotExpr:
		return IsAssignable(e.Left)
	case *IndexExpr:
		return IsAssignable(e.Left)
	default:
		return false
	}
}

// BaseVariable returns the Variable at the bottom-left base of e, walking
// through any Dot/Index chain the same way IsAssignable does, so that a
// const check on "c.x = 2" or "c[0] = 2" reaches the same variable it would
// reach if e were the bare name "c".
func BaseVariable(e Expr) *VariableExpr {
	switch e := e.(type) {
	case *VariableExpr:
		return e
	case *DotExpr:
		return BaseVariable(e.Left)
	case *IndexExpr:
		return BaseVariable(e.Left)
	default:
		return nil
	}
}

// Dynamic is a tagged constant value that can be lowered into a constant
// Expr, used to fold values supplied by an external source (e.g. an
// engine-level constant) into the AST at parse time.
type Dynamic struct {
	Kind  DynamicKind
	Bool  bool
	Int   int64
	Float float64
	Char  rune
	Str   string
	Array []Dynamic
	Map   []DynamicMapEntry
}

// DynamicMapEntry is a single key/value pair of a Dynamic map value.
type DynamicMapEntry struct {
	Key   string
	Value Dynamic
}

// DynamicKind enumerates the possible shapes of a Dynamic value.
type DynamicKind uint8

const (
	DynUnit DynamicKind = iota
	DynBool
	DynInt
	DynFloat
	DynChar
	DynString
	DynArray
	DynMap
)

// Lower converts d into a constant Expr positioned at pos. It returns false
// if d (or, recursively, one of its elements) cannot be lowered - only
// Array and Map values can fail, when one of their elements fails.
func (d Dynamic) Lower(pos token.Pos) (Expr, bool) {
	switch d.Kind {
	case DynUnit:
		return &UnitExpr{Lparen: pos, Rparen: pos}, true
	case DynBool:
		return &BoolExpr{Start: pos, Value: d.Bool}, true
	case DynInt:
		return &IntExpr{Start: pos, Value: d.Int}, true
	case DynFloat:
		return &FloatExpr{Start: pos, Value: d.Float}, true
	case DynChar:
		return &CharExpr{Start: pos, Value: d.Char}, true
	case DynString:
		return &StringExpr{Start: pos, Value: d.Str}, true
	case DynArray:
		items := make([]Expr, len(d.Array))
		for i, el := range d.Array {
			e, ok := el.Lower(pos)
			if !ok {
				return nil, false
			}
			items[i] = e
		}
		return &ArrayExpr{Lbrack: pos, Rbrack: pos, Items: items}, true
	case DynMap:
		items := make([]*KeyVal, len(d.Map))
		for i, entry := range d.Map {
			e, ok := entry.Value.Lower(pos)
			if !ok {
				return nil, false
			}
			items[i] = &KeyVal{Key: &Ident{Name: entry.Key, Pos: pos}, Value: e}
		}
		return &MapExpr{Hashbrace: pos, Rbrace: pos, Items: items}, true
	default:
		return nil, false
	}
}
