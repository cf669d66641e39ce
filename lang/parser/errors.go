package parser

import (
	"fmt"

	"github.com/mna/liana/lang/token"
)

// ErrorKind classifies a parse error, mirroring the taxonomy of fatal parse
// errors: lexical errors pass through from the scanner unchanged, the rest
// are raised by the parser itself.
type ErrorKind string

// The full error taxonomy. Every kind is fatal to the current parse: there
// is no recovery and no multiple-error reporting, the first error aborts.
const (
	ErrLexical ErrorKind = "lexical" // malformed number, unterminated string, invalid escape

	ErrMissingToken ErrorKind = "missing_token"

	ErrUnexpectedEOF     ErrorKind = "unexpected_eof"
	ErrUnexpectedInput    ErrorKind = "unexpected_input"
	ErrMalformedIndexExpr ErrorKind = "malformed_index_expr"
	ErrMalformedInExpr    ErrorKind = "malformed_in_expr"
	ErrMalformedCapture   ErrorKind = "malformed_capture"
	ErrPropertyExpected   ErrorKind = "property_expected"
	ErrVariableExpected   ErrorKind = "variable_expected"
	ErrExprExpected       ErrorKind = "expr_expected"
	ErrDuplicatedProperty ErrorKind = "duplicated_property"
	ErrDuplicatedSwitchCase ErrorKind = "duplicated_switch_case"

	ErrAssignmentToConstant ErrorKind = "assignment_to_constant"
	ErrAssignmentToInvalidLHS ErrorKind = "assignment_to_invalid_lhs"
	ErrReserved             ErrorKind = "reserved"
	ErrUnknownOperator      ErrorKind = "unknown_operator"
	ErrLoopBreak            ErrorKind = "loop_break"
	ErrLiteralTooLarge      ErrorKind = "literal_too_large"
	ErrExprTooDeep          ErrorKind = "expr_too_deep"

	ErrFnMissingName     ErrorKind = "fn_missing_name"
	ErrFnMissingParams   ErrorKind = "fn_missing_params"
	ErrFnMissingBody     ErrorKind = "fn_missing_body"
	ErrFnDuplicatedParam ErrorKind = "fn_duplicated_param"
	ErrWrongFnDefinition ErrorKind = "wrong_fn_definition"
	ErrWrongExport       ErrorKind = "wrong_export"
	ErrWrongDocComment   ErrorKind = "wrong_doc_comment"

	ErrImproperSymbol ErrorKind = "improper_symbol"
)

// Error is the structured parse error delivered at the package boundary:
// {kind, message, position}.
type Error struct {
	Kind     ErrorKind
	Message  string
	Position token.Position
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Position, e.Kind, e.Message)
}

// exitParse is the sentinel panic value used to unwind out of an arbitrarily
// deep recursive-descent call stack the moment a fatal error is raised. It
// is recovered exactly once, at the top-level Parse entry point: the parser
// does not recover and resynchronize like a multi-error compiler would,
// matching the "errors abort parsing" design.
type exitParse struct{ err *Error }

func (p *parser) fail(kind ErrorKind, pos token.Pos, format string, args ...any) {
	panic(exitParse{&Error{
		Kind:     kind,
		Message:  fmt.Sprintf(format, args...),
		Position: p.file.Position(pos),
	}})
}

// improperSymbol raises an ErrImproperSymbol with a typo-steering hint, e.g.
// "possibly a typo of '=='?" or a reserved-word-outside-context nudge.
func (p *parser) improperSymbol(pos token.Pos, symbol, hint string) {
	p.fail(ErrImproperSymbol, pos, "unexpected %q: %s", symbol, hint)
}
