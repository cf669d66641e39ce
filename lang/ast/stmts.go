package ast

import (
	"fmt"

	"github.com/mna/liana/lang/token"
)

type (
	// NoopStmt represents an empty ';' statement.
	NoopStmt struct {
		Start token.Pos
	}

	// ExprStmt represents an expression used as a statement.
	ExprStmt struct {
		Expr Expr
	}

	// AssignStmt represents an assignment or compound assignment, e.g.
	// x = y or x += y, after lvalue validation and operator canonicalization.
	AssignStmt struct {
		Left  Expr // a Variable, or an Index/Dot chain rooted at one
		Op    token.Token // EQ or one of the augmented-assign tokens
		OpPos token.Pos
		Right Expr
	}

	// IfStmt represents an if/else statement. False holds a single-statement
	// block wrapping a nested *IfStmt for an "else if" chain, or an ordinary
	// block for a plain "else", or nil if there is no else branch.
	IfStmt struct {
		If    token.Pos
		Cond  Expr
		Then  *Block
		Else  token.Pos // zero if no else branch
		False *Block
	}

	// WhileStmt represents a "while cond { body }" loop, or an unconditional
	// "loop { body }" with a nil Cond.
	WhileStmt struct {
		While token.Pos
		Cond  Expr
		Body  *Block
	}

	// DoStmt represents a "do { body } while cond" or "do { body } until
	// cond" loop; IsWhile distinguishes the two (until is sugar for
	// while !cond, represented here with IsWhile=false).
	DoStmt struct {
		Do      token.Pos
		Body    *Block
		Guard   token.Pos // position of the while/until keyword
		IsWhile bool
		Cond    Expr
	}

	// ForStmt represents a "for name in iter { body }" loop.
	ForStmt struct {
		For  token.Pos
		Name *Ident
		Iter Expr
		Body *Block
	}

	// SwitchCase represents a single "pattern =>> stmt" arm. Pattern is nil
	// for the default ("_") arm, of which at most one may be present.
	SwitchCase struct {
		Hash    uint64 // content hash of Pattern's constant value; unused for default
		Pattern Expr
		Arrow   token.Pos
		Body    Stmt
	}

	// SwitchStmt represents a switch statement over a scrutinee expression.
	SwitchStmt struct {
		Switch     token.Pos
		Scrutinee  Expr
		Lbrace     token.Pos
		Cases      []*SwitchCase
		Default    *SwitchCase // nil if no "_" arm
		Rbrace     token.Pos
	}

	// LetStmt represents a "let name = expr;" or "export let name = expr;"
	// binding. Value may be nil for "let name;".
	LetStmt struct {
		Let    token.Pos
		Name   *Ident
		Value  Expr
		Export bool
	}

	// ConstStmt represents a "const name = expr;" or "export const ...".
	ConstStmt struct {
		Const  token.Pos
		Name   *Ident
		Value  Expr
		Export bool
	}

	// ReturnStmt represents a return or throw statement. Kind is
	// token.RETURN or token.THROW.
	ReturnStmt struct {
		Kind  token.Token
		Start token.Pos
		Value Expr // may be nil
	}

	// TryCatchStmt represents a try/catch statement. CatchVar is nil if no
	// "(var)" binding was given.
	TryCatchStmt struct {
		Try       token.Pos
		Body      *Block
		Catch     token.Pos
		CatchVar  *Ident
		CatchBody *Block
	}

	// ImportStmt represents "import path as name;". Alias is nil if the
	// module was imported without an "as" clause.
	ImportStmt struct {
		Import token.Pos
		Path   Expr
		Alias  *Ident
	}

	// ExportStmt represents "export name, name2, ...;" for names that were
	// already bound earlier in the same scope (as opposed to the inline
	// export-flag carried by LetStmt/ConstStmt).
	ExportStmt struct {
		Export token.Pos
		Names  []*Ident
	}

	// BreakStmt represents a break statement, only valid inside a breakable
	// (loop) context.
	BreakStmt struct {
		Start token.Pos
	}

	// ContinueStmt represents a continue statement, only valid inside a
	// breakable (loop) context.
	ContinueStmt struct {
		Start token.Pos
	}

	// ShareStmt represents a "share name;" statement, emitted by the parser
	// (never written by hand) to transfer ownership/sharing semantics of a
	// variable captured by an anonymous function's curry call.
	ShareStmt struct {
		Start token.Pos
		Name  *Ident
	}
)

func (n *NoopStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "noop", nil) }
func (n *NoopStmt) Span() (start, end token.Pos) {
	return n.Start, n.Start + token.Pos(len(token.SEMICOLON.String()))
}
func (n *NoopStmt) Walk(_ Visitor)      {}
func (n *NoopStmt) BlockEnding() bool   { return false }

func (n *ExprStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "expr stmt", nil) }
func (n *ExprStmt) Span() (start, end token.Pos)  { return n.Expr.Span() }
func (n *ExprStmt) Walk(v Visitor)                { Walk(v, n.Expr) }
func (n *ExprStmt) BlockEnding() bool             { return false }

func (n *AssignStmt) Format(f fmt.State, verb rune) {
	lbl := "assign"
	if n.Op != token.EQ {
		lbl = "aug-assign " + n.Op.GoString()
	}
	format(f, verb, n, lbl, nil)
}
func (n *AssignStmt) Span() (start, end token.Pos) {
	start, _ = n.Left.Span()
	_, end = n.Right.Span()
	return start, end
}
func (n *AssignStmt) Walk(v Visitor) {
	Walk(v, n.Left)
	Walk(v, n.Right)
}
func (n *AssignStmt) BlockEnding() bool { return false }

func (n *IfStmt) Format(f fmt.State, verb rune) {
	lbl := "if"
	if n.Else.IsValid() {
		lbl = "if-else"
	}
	format(f, verb, n, lbl, nil)
}
func (n *IfStmt) Span() (start, end token.Pos) {
	_, end = n.Then.Span()
	if n.False != nil {
		_, end = n.False.Span()
	}
	return n.If, end
}
func (n *IfStmt) Walk(v Visitor) {
	Walk(v, n.Cond)
	Walk(v, n.Then)
	if n.False != nil {
		Walk(v, n.False)
	}
}
func (n *IfStmt) BlockEnding() bool { return false }

func (n *WhileStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "while", nil) }
func (n *WhileStmt) Span() (start, end token.Pos) {
	_, end = n.Body.Span()
	return n.While, end
}
func (n *WhileStmt) Walk(v Visitor) {
	if n.Cond != nil { // nil for "loop { }"
		Walk(v, n.Cond)
	}
	Walk(v, n.Body)
}
func (n *WhileStmt) BlockEnding() bool { return false }

func (n *DoStmt) Format(f fmt.State, verb rune) {
	lbl := "do-until"
	if n.IsWhile {
		lbl = "do-while"
	}
	format(f, verb, n, lbl, nil)
}
func (n *DoStmt) Span() (start, end token.Pos) {
	_, end = n.Cond.Span()
	return n.Do, end
}
func (n *DoStmt) Walk(v Visitor) {
	Walk(v, n.Body)
	Walk(v, n.Cond)
}
func (n *DoStmt) BlockEnding() bool { return false }

func (n *ForStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "for "+n.Name.Name+" in", nil) }
func (n *ForStmt) Span() (start, end token.Pos) {
	_, end = n.Body.Span()
	return n.For, end
}
func (n *ForStmt) Walk(v Visitor) {
	Walk(v, n.Name)
	Walk(v, n.Iter)
	Walk(v, n.Body)
}
func (n *ForStmt) BlockEnding() bool { return false }

func (n *SwitchStmt) Format(f fmt.State, verb rune) {
	format(f, verb, n, "switch", map[string]int{"cases": len(n.Cases)})
}
func (n *SwitchStmt) Span() (start, end token.Pos) {
	return n.Switch, n.Rbrace + token.Pos(len(token.RBRACE.String()))
}
func (n *SwitchStmt) Walk(v Visitor) {
	Walk(v, n.Scrutinee)
	for _, c := range n.Cases {
		if c.Pattern != nil {
			Walk(v, c.Pattern)
		}
		Walk(v, c.Body)
	}
	if n.Default != nil {
		Walk(v, n.Default.Body)
	}
}
func (n *SwitchStmt) BlockEnding() bool { return false }

func (n *LetStmt) Format(f fmt.State, verb rune) {
	lbl := "let " + n.Name.Name
	if n.Export {
		lbl = "export " + lbl
	}
	format(f, verb, n, lbl, nil)
}
func (n *LetStmt) Span() (start, end token.Pos) {
	if n.Value != nil {
		_, end = n.Value.Span()
	} else {
		_, end = n.Name.Span()
	}
	return n.Let, end
}
func (n *LetStmt) Walk(v Visitor) {
	Walk(v, n.Name)
	if n.Value != nil {
		Walk(v, n.Value)
	}
}
func (n *LetStmt) BlockEnding() bool { return false }

func (n *ConstStmt) Format(f fmt.State, verb rune) {
	lbl := "const " + n.Name.Name
	if n.Export {
		lbl = "export " + lbl
	}
	format(f, verb, n, lbl, nil)
}
func (n *ConstStmt) Span() (start, end token.Pos) {
	if n.Value != nil {
		_, end = n.Value.Span()
	} else {
		_, end = n.Name.Span()
	}
	return n.Const, end
}
func (n *ConstStmt) Walk(v Visitor) {
	Walk(v, n.Name)
	if n.Value != nil {
		Walk(v, n.Value)
	}
}
func (n *ConstStmt) BlockEnding() bool { return false }

func (n *ReturnStmt) Format(f fmt.State, verb rune) {
	var exprCount int
	if n.Value != nil {
		exprCount = 1
	}
	format(f, verb, n, n.Kind.String(), map[string]int{"expr": exprCount})
}
func (n *ReturnStmt) Span() (start, end token.Pos) {
	end = n.Start + token.Pos(len(n.Kind.String()))
	if n.Value != nil {
		_, end = n.Value.Span()
	}
	return n.Start, end
}
func (n *ReturnStmt) Walk(v Visitor) {
	if n.Value != nil {
		Walk(v, n.Value)
	}
}
func (n *ReturnStmt) BlockEnding() bool { return true }

func (n *TryCatchStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "try-catch", nil) }
func (n *TryCatchStmt) Span() (start, end token.Pos) {
	_, end = n.CatchBody.Span()
	return n.Try, end
}
func (n *TryCatchStmt) Walk(v Visitor) {
	Walk(v, n.Body)
	if n.CatchVar != nil {
		Walk(v, n.CatchVar)
	}
	Walk(v, n.CatchBody)
}
func (n *TryCatchStmt) BlockEnding() bool { return false }

func (n *ImportStmt) Format(f fmt.State, verb rune) {
	lbl := "import"
	if n.Alias != nil {
		lbl += " as " + n.Alias.Name
	}
	format(f, verb, n, lbl, nil)
}
func (n *ImportStmt) Span() (start, end token.Pos) {
	_, end = n.Path.Span()
	if n.Alias != nil {
		_, end = n.Alias.Span()
	}
	return n.Import, end
}
func (n *ImportStmt) Walk(v Visitor) {
	Walk(v, n.Path)
	if n.Alias != nil {
		Walk(v, n.Alias)
	}
}
func (n *ImportStmt) BlockEnding() bool { return false }

func (n *ExportStmt) Format(f fmt.State, verb rune) {
	format(f, verb, n, "export", map[string]int{"names": len(n.Names)})
}
func (n *ExportStmt) Span() (start, end token.Pos) {
	end = n.Export + token.Pos(len(token.EXPORT.String()))
	if len(n.Names) > 0 {
		_, end = n.Names[len(n.Names)-1].Span()
	}
	return n.Export, end
}
func (n *ExportStmt) Walk(v Visitor) {
	for _, name := range n.Names {
		Walk(v, name)
	}
}
func (n *ExportStmt) BlockEnding() bool { return false }

func (n *BreakStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "break", nil) }
func (n *BreakStmt) Span() (start, end token.Pos) {
	return n.Start, n.Start + token.Pos(len(token.BREAK.String()))
}
func (n *BreakStmt) Walk(_ Visitor)    {}
func (n *BreakStmt) BlockEnding() bool { return true }

func (n *ContinueStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "continue", nil) }
func (n *ContinueStmt) Span() (start, end token.Pos) {
	return n.Start, n.Start + token.Pos(len(token.CONTINUE.String()))
}
func (n *ContinueStmt) Walk(_ Visitor)    {}
func (n *ContinueStmt) BlockEnding() bool { return true }

func (n *ShareStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "share "+n.Name.Name, nil) }
func (n *ShareStmt) Span() (start, end token.Pos) {
	_, end = n.Name.Span()
	return n.Start, end
}
func (n *ShareStmt) Walk(v Visitor)    { Walk(v, n.Name) }
func (n *ShareStmt) BlockEnding() bool { return false }
