// Package ast defines the types used to represent the abstract syntax tree
// produced by the parser: expressions, statements, and the function
// definitions that are lifted out of the statement stream into their own
// per-parse library.
package ast

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mna/liana/lang/token"
)

// Node represents any node in the AST.
type Node interface {
	// Every Node implements the fmt.Formatter interface so they can print a
	// description of themselves. The only supported verbs are 'v' and 's'.
	// The '#' flag prints count information about children nodes. A width
	// can be set to define the number of runes to print for the node
	// description - by default, that width is padded with spaces on the
	// left if the description is shorter, otherwise it is truncated to that
	// width. The '-' flag pads with spaces on the right instead, and '+'
	// prevents padding altogether (only truncates if longer).
	fmt.Formatter

	// Span reports the start and end position of the node.
	Span() (start, end token.Pos)

	// Walk enters each node inside itself to implement the Visitor pattern.
	Walk(v Visitor)
}

// Expr represents an expression in the AST.
type Expr interface {
	Node
	expr()
}

// Stmt represents a statement in the AST.
type Stmt interface {
	Node

	// BlockEnding reports whether this statement may only appear as the
	// last statement in a block (return, throw, break, continue).
	BlockEnding() bool
}

// Ident is an identifier together with its source position. It is not
// itself an Expr - a bare identifier used as an expression is always a
// *VariableExpr wrapping an Ident.
type Ident struct {
	Name string
	Pos  token.Pos
}

func (id *Ident) Span() (start, end token.Pos) {
	return id.Pos, id.Pos + token.Pos(len(id.Name))
}
func (id *Ident) Format(f fmt.State, verb rune) { format(f, verb, id, id.Name, nil) }
func (id *Ident) Walk(_ Visitor)                {}

func format(f fmt.State, verb rune, n any, label string, counts map[string]int) {
	if verb != 'v' && verb != 's' {
		fmt.Fprintf(f, "%%!%c(%T)", verb, n)
		return
	}

	// replace tabs and newlines with the corresponding unicode key
	label = strings.ReplaceAll(label, "\r\n", "⏎")
	label = strings.ReplaceAll(label, "\n", "⏎")
	label = strings.ReplaceAll(label, "\t", "⭾")
	label = strings.ReplaceAll(label, "\v", "⭿")

	if w, ok := f.Width(); ok {
		minus, plus := f.Flag('-'), f.Flag('+')
		runes := []rune(label)
		if len(runes) >= w {
			runes = runes[:w]
		} else if minus {
			runes = append(runes, []rune(strings.Repeat(" ", w-len(runes)))...)
		} else if !plus {
			runes = append([]rune(strings.Repeat(" ", w-len(runes))), runes...)
		}
		label = string(runes)
	}

	fmt.Fprint(f, label)
	if f.Flag('#') && len(counts) > 0 {
		keys := make([]string, 0, len(counts))
		for k := range counts {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		fmt.Fprint(f, " {")
		for i, k := range keys {
			if i > 0 {
				fmt.Fprint(f, ", ")
			}
			fmt.Fprintf(f, "%s=%d", k, counts[k])
		}
		fmt.Fprint(f, "}")
	}
}
