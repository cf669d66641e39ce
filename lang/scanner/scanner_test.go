package scanner_test

import (
	"testing"

	"github.com/mna/liana/lang/scanner"
	"github.com/mna/liana/lang/token"
	"github.com/stretchr/testify/require"
)

func scanAll(t *testing.T, src string) ([]scanner.TokenAndValue, []string) {
	toks, errs, _ := scanAllFile(t, src)
	return toks, errs
}

func scanAllFile(t *testing.T, src string) ([]scanner.TokenAndValue, []string, *token.File) {
	t.Helper()

	var errs []string
	fs := token.NewFileSet()
	f := fs.AddFile("test.li", -1, len(src))

	var s scanner.Scanner
	s.Init(f, []byte(src), func(pos token.Position, msg string) {
		errs = append(errs, pos.String()+": "+msg)
	})

	var toks []scanner.TokenAndValue
	var val token.Value
	for {
		tok := s.Scan(&val)
		toks = append(toks, scanner.TokenAndValue{Token: tok, Value: val})
		if tok == token.EOF {
			break
		}
	}
	return toks, errs, f
}

func tokenKinds(toks []scanner.TokenAndValue) []token.Token {
	kinds := make([]token.Token, len(toks))
	for i, tv := range toks {
		kinds[i] = tv.Token
	}
	return kinds
}

func TestScanPunctuationAndOperators(t *testing.T) {
	toks, errs := scanAll(t, "let x = 1 + 2 * (3 - 4) / 5 % 6 ** 7;")
	require.Empty(t, errs)
	require.Equal(t, []token.Token{
		token.LET, token.IDENT, token.EQ, token.INT, token.PLUS, token.INT,
		token.STAR, token.LPAREN, token.INT, token.MINUS, token.INT, token.RPAREN,
		token.SLASH, token.INT, token.PERCENT, token.INT, token.STARSTAR, token.INT,
		token.SEMICOLON, token.EOF,
	}, tokenKinds(toks))
}

func TestScanCompoundAssignAndShift(t *testing.T) {
	toks, errs := scanAll(t, "x <<= 1 >>= 2 &= 3 |= 4 ^= 5 += 6 -= 7 *= 8 /= 9 %= 1 **= 2")
	require.Empty(t, errs)
	require.Equal(t, []token.Token{
		token.IDENT,
		token.LTLTEQ, token.INT, token.GTGTEQ, token.INT, token.AMPEQ, token.INT,
		token.PIPEEQ, token.INT, token.CARETEQ, token.INT, token.PLUSEQ, token.INT,
		token.MINUSEQ, token.INT, token.STAREQ, token.INT, token.SLASHEQ, token.INT,
		token.PERCENTEQ, token.INT, token.STARSTAREQ, token.INT, token.EOF,
	}, tokenKinds(toks))
}

func TestScanComparisonAndLogical(t *testing.T) {
	toks, errs := scanAll(t, "a < b <= c > d >= e == f != g && h || i")
	require.Empty(t, errs)
	require.Equal(t, []token.Token{
		token.IDENT, token.LT, token.IDENT, token.LE, token.IDENT, token.GT,
		token.IDENT, token.GE, token.IDENT, token.EQEQ, token.IDENT, token.BANGEQ,
		token.IDENT, token.ANDAND, token.IDENT, token.OROR, token.IDENT, token.EOF,
	}, tokenKinds(toks))
}

func TestScanKeywords(t *testing.T) {
	src := "fn private if else switch while loop do for in break continue return throw try catch let const import export share this true false null"
	toks, errs := scanAll(t, src)
	require.Empty(t, errs)
	want := []token.Token{
		token.FN, token.PRIVATE, token.IF, token.ELSE, token.SWITCH, token.WHILE,
		token.LOOP, token.DO, token.FOR, token.IN, token.BREAK, token.CONTINUE,
		token.RETURN, token.THROW, token.TRY, token.CATCH, token.LET, token.CONST,
		token.IMPORT, token.EXPORT, token.SHARE, token.THIS, token.TRUE,
		token.FALSE, token.NULL, token.EOF,
	}
	require.Equal(t, want, tokenKinds(toks))
}

func TestScanIdentifierVsKeyword(t *testing.T) {
	toks, errs := scanAll(t, "forest fnord ifx")
	require.Empty(t, errs)
	require.Equal(t, []token.Token{token.IDENT, token.IDENT, token.IDENT, token.EOF}, tokenKinds(toks))
}

func TestScanCaseArrowAndHashBrace(t *testing.T) {
	toks, errs := scanAll(t, "x =>> y #{a: 1}")
	require.Empty(t, errs)
	require.Equal(t, []token.Token{
		token.IDENT, token.CASEARROW, token.IDENT, token.HASHBRACE, token.IDENT,
		token.COLON, token.INT, token.RBRACE, token.EOF,
	}, tokenKinds(toks))
}

func TestScanNamespaceQualifier(t *testing.T) {
	toks, errs := scanAll(t, "math::pi")
	require.Empty(t, errs)
	require.Equal(t, []token.Token{token.IDENT, token.COLONCOLON, token.IDENT, token.EOF}, tokenKinds(toks))
	require.Equal(t, "math", toks[0].Value.Raw)
	require.Equal(t, "pi", toks[2].Value.Raw)
}

func TestScanIntegers(t *testing.T) {
	toks, errs := scanAll(t, "0 123 1_000_000 0x1F 0o17 0b101")
	require.Empty(t, errs)
	for _, tv := range toks[:len(toks)-1] {
		require.Equal(t, token.INT, tv.Token)
	}
	require.Equal(t, int64(0), toks[0].Value.Int)
	require.Equal(t, int64(123), toks[1].Value.Int)
	require.Equal(t, int64(1000000), toks[2].Value.Int)
	require.Equal(t, int64(31), toks[3].Value.Int)
	require.Equal(t, int64(15), toks[4].Value.Int)
	require.Equal(t, int64(5), toks[5].Value.Int)
}

func TestScanFloats(t *testing.T) {
	toks, errs := scanAll(t, "1.5 0.25 1e10 1.5e-3 .5")
	require.Empty(t, errs)
	want := []float64{1.5, 0.25, 1e10, 1.5e-3, 0.5}
	for i, w := range want {
		require.Equal(t, token.FLOAT, toks[i].Token)
		require.Equal(t, w, toks[i].Value.Float)
	}
}

func TestScanStringLiteral(t *testing.T) {
	toks, errs := scanAll(t, `"hello\nworld"`)
	require.Empty(t, errs)
	require.Equal(t, token.STRING, toks[0].Token)
	require.Equal(t, "hello\nworld", toks[0].Value.String)
}

func TestScanCharLiteral(t *testing.T) {
	toks, errs := scanAll(t, `'a' '\n' '\u{1F600}'`)
	require.Empty(t, errs)
	require.Equal(t, token.CHAR, toks[0].Token)
	require.Equal(t, 'a', toks[0].Value.Char)
	require.Equal(t, token.CHAR, toks[1].Token)
	require.Equal(t, '\n', toks[1].Value.Char)
	require.Equal(t, token.CHAR, toks[2].Token)
	require.Equal(t, rune(0x1F600), toks[2].Value.Char)
}

func TestScanCharLiteralMultipleRunesErrors(t *testing.T) {
	_, errs := scanAll(t, `'ab'`)
	require.NotEmpty(t, errs)
}

func TestScanLineComment(t *testing.T) {
	toks, errs := scanAll(t, "let x = 1 // a comment\nlet y = 2")
	require.Empty(t, errs)
	require.Equal(t, token.COMMENT, toks[4].Token)
	require.Equal(t, " a comment", toks[4].Value.String)
}

func TestScanBlockComment(t *testing.T) {
	toks, errs := scanAll(t, "let x /* block\ncomment */ = 1")
	require.Empty(t, errs)
	require.Equal(t, token.COMMENT, toks[2].Token)
	require.Equal(t, " block\ncomment ", toks[2].Value.String)
}

func TestScanUnterminatedBlockComment(t *testing.T) {
	_, errs := scanAll(t, "let x /* oops")
	require.NotEmpty(t, errs)
}

func TestScanUnterminatedString(t *testing.T) {
	_, errs := scanAll(t, `"oops`)
	require.NotEmpty(t, errs)
}

func TestScanIllegalCharacter(t *testing.T) {
	_, errs := scanAll(t, "let x = 1 ~ 2")
	require.NotEmpty(t, errs)
}

func TestScanHashWithoutBrace(t *testing.T) {
	_, errs := scanAll(t, "#notabrace")
	require.NotEmpty(t, errs)
}

func TestScanPositions(t *testing.T) {
	toks, errs, f := scanAllFile(t, "let\nx = 1")
	require.Empty(t, errs)
	// "x" starts on line 2.
	pos := f.Position(toks[1].Value.Pos)
	require.Equal(t, 2, pos.Line)
}
