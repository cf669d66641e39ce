package token

// PosMode controls how FormatPos renders a Pos for diagnostics.
type PosMode uint8

const (
	// PosNone renders nothing at all.
	PosNone PosMode = iota
	// PosOffsets renders the bare 0-based byte offset within its file.
	PosOffsets
	// PosRaw renders the raw Pos integer, ignoring file boundaries.
	PosRaw
	// PosLong renders "filename:line:column", the default for error
	// messages.
	PosLong
)

func (m PosMode) String() string {
	switch m {
	case PosNone:
		return "none"
	case PosOffsets:
		return "offsets"
	case PosRaw:
		return "raw"
	case PosLong:
		return "long"
	default:
		return "unknown"
	}
}

// FormatPos renders pos according to mode. file gives pos its meaning (for
// PosLong and PosOffsets); includeFilename controls whether the filename
// prefix is emitted for PosLong.
func FormatPos(mode PosMode, file *File, pos Pos, includeFilename bool) string {
	switch mode {
	case PosNone:
		return ""
	case PosRaw:
		return itoa(int(pos))
	case PosOffsets:
		if pos == NoPos {
			return "-"
		}
		return itoa(file.Offset(pos))
	default: // PosLong
		var fname string
		if includeFilename {
			fname = file.Name()
		}
		if pos == NoPos {
			if fname != "" {
				return fname + ":-:-"
			}
			return ":-:-"
		}
		p := file.Position(pos)
		if fname != "" {
			return fname + ":" + itoa(p.Line) + ":" + itoa(p.Column)
		}
		return ":" + itoa(p.Line) + ":" + itoa(p.Column)
	}
}

// Spannable is satisfied by anything with a source span, e.g. an ast.Node or
// ast.Comment. It lets this package reason about adjacency and containment
// without importing the ast package.
type Spannable interface {
	Span() (start, end Pos)
}

// PosInside reports whether test's span is entirely contained within ref's
// span (inclusive on both ends).
func PosInside(ref, test Spannable) bool {
	rs, re := ref.Span()
	ts, te := test.Span()
	return ts >= rs && te <= re
}

// PosAdjacent reports whether test is close enough to ref to be considered
// attached to it, e.g. for associating a comment with the statement it
// documents. Overlapping or touching spans are always adjacent. A test span
// entirely before ref (a candidate leading comment) is adjacent if it ends
// on ref's own line or the line immediately before it. A test span entirely
// after ref (a candidate trailing comment) is adjacent only if it starts on
// ref's own line.
func PosAdjacent(ref, test Spannable, file *File) bool {
	rs, re := ref.Span()
	ts, te := test.Span()
	if rs <= te && ts <= re {
		return true
	}
	if te < rs {
		diff := lineOf(file, rs) - lineOf(file, te)
		return diff == 0 || diff == 1
	}
	diff := lineOf(file, ts) - lineOf(file, re)
	return diff == 0
}

func lineOf(file *File, p Pos) int {
	return file.Position(p).Line
}
