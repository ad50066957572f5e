package compiler

import (
	"context"
	"os"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/minipas/minipas/compiler/ast"
	"github.com/minipas/minipas/compiler/back"
	"github.com/minipas/minipas/compiler/format"
	"github.com/minipas/minipas/compiler/front"
	"github.com/minipas/minipas/compiler/scan"
	"github.com/minipas/minipas/compiler/symtab"
)

type (
	// Result is everything one successful compilation produces.
	Result struct {
		Name string

		Program  *ast.Program
		Symbols  *symtab.Table
		Asm      []byte
		Warnings []front.Warning
	}
)

func CompileFile(ctx context.Context, name string) (res *Result, err error) {
	text, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	tlog.SpanFromContext(ctx).Printw("read file", "size", len(text), "name", name)

	return Compile(ctx, name, text)
}

func Compile(ctx context.Context, name string, text []byte) (res *Result, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "compile", "name", name)
	defer tr.Finish("err", &err)

	res, err = Parse(ctx, name, text)
	if err != nil {
		return nil, err
	}

	res.Asm, err = back.New(res.Symbols).Generate(ctx, res.Program)
	if err != nil {
		return nil, errors.Wrap(err, "generate")
	}

	return res, nil
}

// Parse runs the front end only. Result.Asm is left empty.
func Parse(ctx context.Context, name string, text []byte) (res *Result, err error) {
	p := front.New(scan.New(text), symtab.New())

	x, err := p.Program(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "parse")
	}

	res = &Result{
		Name:     name,
		Program:  x,
		Symbols:  p.Symbols(),
		Warnings: p.Warnings(),
	}

	return res, nil
}

// Tree is the indented syntax tree text.
func (r *Result) Tree(ctx context.Context) ([]byte, error) {
	return format.Format(ctx, nil, r.Program)
}

// SymbolDump is the symbol table text.
func (r *Result) SymbolDump() []byte {
	return format.Symbols(nil, r.Symbols)
}
