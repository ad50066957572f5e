package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/minipas/minipas/compiler"
	"github.com/minipas/minipas/compiler/scan"
)

func main() {
	compileCmd := &cli.Command{
		Name:        "compile",
		Description: "compile programs writing Syntax-Tree.txt, SymbolTable.txt and MIPS.asm",
		Action:      compileAct,
		Args:        cli.Args{},
		Flags: []*cli.Flag{
			cli.NewFlag("out,o", ".", "output directory"),
		},
	}

	parseCmd := &cli.Command{
		Name:        "parse",
		Description: "print the syntax tree",
		Action:      parseAct,
		Args:        cli.Args{},
	}

	tokensCmd := &cli.Command{
		Name:        "tokens",
		Description: "print the token stream",
		Action:      tokensAct,
		Args:        cli.Args{},
	}

	app := &cli.Command{
		Name:        "minipas",
		Description: "minipas compiles a small pascal subset to MIPS assembly",
		Before:      before,
		Flags: []*cli.Flag{
			cli.NewFlag("verbose,v", "", "tlog verbose topics (match, emit)"),
			cli.HelpFlag,
		},
		Commands: []*cli.Command{
			compileCmd,
			parseCmd,
			tokensCmd,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func before(c *cli.Command) error {
	tlog.SetVerbosity(c.String("verbose"))

	return nil
}

func compileAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	out := c.String("out")

	for _, a := range c.Args {
		res, err := compiler.CompileFile(ctx, a)
		if err != nil {
			return errors.Wrap(err, "compile %v", a)
		}

		dir := out
		if len(c.Args) > 1 {
			dir = filepath.Join(out, trimExt(filepath.Base(a)))
		}

		err = writeResult(ctx, dir, res)
		if err != nil {
			return errors.Wrap(err, "write %v", a)
		}

		for _, w := range res.Warnings {
			fmt.Fprintf(os.Stderr, "%v: warning: %v\n", a, w)
		}

		fmt.Printf("%v: compiled to %v\n", a, dir)
	}

	return nil
}

func writeResult(ctx context.Context, dir string, res *compiler.Result) error {
	err := os.MkdirAll(dir, 0o755)
	if err != nil {
		return errors.Wrap(err, "mkdir")
	}

	tree, err := res.Tree(ctx)
	if err != nil {
		return errors.Wrap(err, "format tree")
	}

	files := []struct {
		name string
		data []byte
	}{
		{"Syntax-Tree.txt", tree},
		{"SymbolTable.txt", res.SymbolDump()},
		{"MIPS.asm", res.Asm},
	}

	for _, f := range files {
		err = os.WriteFile(filepath.Join(dir, f.name), f.data, 0o644)
		if err != nil {
			return errors.Wrap(err, "write %v", f.name)
		}
	}

	return nil
}

func parseAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	for _, a := range c.Args {
		text, err := os.ReadFile(a)
		if err != nil {
			return errors.Wrap(err, "read %v", a)
		}

		res, err := compiler.Parse(ctx, a, text)
		if err != nil {
			return errors.Wrap(err, "parse %v", a)
		}

		tree, err := res.Tree(ctx)
		if err != nil {
			return errors.Wrap(err, "format %v", a)
		}

		fmt.Printf("%s", tree)
	}

	return nil
}

func tokensAct(c *cli.Command) (err error) {
	for _, a := range c.Args {
		s, err := scan.NewFile(a)
		if err != nil {
			return errors.Wrap(err, "open %v", a)
		}

		toks, err := s.All()

		for _, t := range toks {
			fmt.Println(t)
		}

		if err != nil {
			return errors.Wrap(err, "scan %v", a)
		}
	}

	return nil
}

func trimExt(name string) string {
	return name[:len(name)-len(filepath.Ext(name))]
}
