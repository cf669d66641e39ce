package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/liana/lang/ast"
	"github.com/mna/liana/lang/engine"
	"github.com/mna/liana/lang/parser"
	"github.com/mna/liana/lang/token"
	"github.com/mna/mainer"
)

func (c *Cmd) Parse(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return ParseFiles(ctx, stdio, engine.New(engine.DefaultConfig()), token.PosLong, "", args...)
}

func ParseFiles(ctx context.Context, stdio mainer.Stdio, eng *engine.Engine, posMode token.PosMode, nodeFmt string, files ...string) error {
	printer := ast.Printer{
		Output:  stdio.Stdout,
		Pos:     posMode,
		NodeFmt: nodeFmt,
	}
	fs, chunks, err := parser.ParseFiles(ctx, eng, files...)
	for _, ch := range chunks {
		start, _ := ch.Span()
		file := fs.File(start)
		if perr := printer.Print(ch, file); perr != nil {
			fmt.Fprintln(stdio.Stderr, perr)
			return perr
		}
	}
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
	}
	return err
}
