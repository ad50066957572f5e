package format

import (
	"context"
	"sort"

	"github.com/nikandfor/hacked/hfmt"
	"tlog.app/go/errors"

	"github.com/minipas/minipas/compiler/ast"
	"github.com/minipas/minipas/compiler/symtab"
)

// Format appends the indented tree of x starting at level 1.
func Format(ctx context.Context, b []byte, x ast.Node) ([]byte, error) {
	return format(ctx, b, x, 1)
}

// FormatLevel is Format starting at level d.
func FormatLevel(ctx context.Context, b []byte, x ast.Node, d int) ([]byte, error) {
	return format(ctx, b, x, d)
}

func format(ctx context.Context, b []byte, x ast.Node, d int) (_ []byte, err error) {
	switch x := x.(type) {
	case *ast.Program:
		return formatProgram(ctx, b, x, d)
	case *ast.Declarations:
		return formatDecls(ctx, b, x, d)
	case *ast.SubProgramDeclarations:
		return formatSubs(ctx, b, x, d)
	case *ast.SubProgram:
		return formatSub(ctx, b, x, d)
	case *ast.Compound:
		b = app(b, d, "Compound Statement\n")

		for i, s := range x.Stmts {
			b, err = format(ctx, b, s, d+1)
			if err != nil {
				return nil, errors.Wrap(err, "stmt %d", i)
			}
		}
	case *ast.Assignment:
		b = app(b, d, "Assignment\n")

		b, err = format(ctx, b, x.LValue, d+1)
		if err != nil {
			return nil, errors.Wrap(err, "lvalue")
		}

		b, err = format(ctx, b, x.Expr, d+1)
		if err != nil {
			return nil, errors.Wrap(err, "expr")
		}
	case *ast.If:
		b = app(b, d, "If\n")

		b, err = format(ctx, b, x.Test, d+1)
		if err != nil {
			return nil, errors.Wrap(err, "test")
		}

		b, err = format(ctx, b, x.Then, d+1)
		if err != nil {
			return nil, errors.Wrap(err, "then")
		}

		b, err = format(ctx, b, x.Else, d+1)
		if err != nil {
			return nil, errors.Wrap(err, "else")
		}
	case *ast.While:
		b = app(b, d, "While\n")

		b, err = format(ctx, b, x.Test, d+1)
		if err != nil {
			return nil, errors.Wrap(err, "test")
		}

		b = app(b, d, "Do:\n")

		b, err = format(ctx, b, x.Do, d+1)
		if err != nil {
			return nil, errors.Wrap(err, "do")
		}
	case *ast.ProcedureCall:
		b = app(b, d, "Procedure:%s\n", x.Name)

		for i, a := range x.Args {
			b, err = format(ctx, b, a, d+1)
			if err != nil {
				return nil, errors.Wrap(err, "arg %d", i)
			}
		}
	case *ast.Operation:
		b = app(b, d, "Operation: %v\n", x.Op)

		b, err = format(ctx, b, x.Left, d+1)
		if err != nil {
			return nil, errors.Wrap(err, "left")
		}

		b, err = format(ctx, b, x.Right, d+1)
		if err != nil {
			return nil, errors.Wrap(err, "right")
		}
	case *ast.UnaryOperation:
		b = app(b, d, "Sign: %v, Type: %v\n", x.Op, x.Tp)

		b, err = format(ctx, b, x.Operand, d+1)
		if err != nil {
			return nil, errors.Wrap(err, "operand")
		}
	case *ast.Variable:
		b = app(b, d, "Name: %s Type: %v\n", x.Name, x.Tp)
	case *ast.Value:
		b = app(b, d, "Name: %s Type: %v\n", x.Lexeme, x.Tp)
	default:
		return nil, errors.New("unsupported node: %T", x)
	}

	return b, nil
}

func formatProgram(ctx context.Context, b []byte, x *ast.Program, d int) (_ []byte, err error) {
	b = app(b, d, "Program: %s\n", x.Name)

	b, err = formatDecls(ctx, b, x.Decls, d+1)
	if err != nil {
		return nil, errors.Wrap(err, "declarations")
	}

	b, err = formatSubs(ctx, b, x.Subs, d+1)
	if err != nil {
		return nil, errors.Wrap(err, "subprograms")
	}

	b, err = format(ctx, b, x.Main, d+1)
	if err != nil {
		return nil, errors.Wrap(err, "main")
	}

	return b, nil
}

func formatDecls(ctx context.Context, b []byte, x *ast.Declarations, d int) ([]byte, error) {
	b = app(b, d, "Declarations\n")

	if x == nil {
		return b, nil
	}

	for _, v := range x.Vars {
		b = app(b, d+1, "Name: %s Type: %v\n", v.Name, v.Tp)
	}

	return b, nil
}

func formatSubs(ctx context.Context, b []byte, x *ast.SubProgramDeclarations, d int) (_ []byte, err error) {
	b = app(b, d, "SubProgramDeclarations\n")

	if x == nil {
		return b, nil
	}

	for _, s := range x.Subs {
		b, err = formatSub(ctx, b, s, d+1)
		if err != nil {
			return nil, errors.Wrap(err, "subprogram %v", s.Name)
		}
	}

	return b, nil
}

func formatSub(ctx context.Context, b []byte, x *ast.SubProgram, d int) (_ []byte, err error) {
	b = app(b, d, "SubProgram: %s, Return: %v\n", x.Name, x.Return)
	b = app(b, d, "Arguments:")

	for i, a := range x.Args {
		if i != 0 {
			b = append(b, ',')
		}

		b = hfmt.Appendf(b, " %s[%v]", a.Name, a.Tp)
	}

	b = append(b, '\n')

	b, err = formatDecls(ctx, b, x.Decls, d+1)
	if err != nil {
		return nil, errors.Wrap(err, "declarations")
	}

	b, err = formatSubs(ctx, b, x.Subs, d+1)
	if err != nil {
		return nil, errors.Wrap(err, "subprograms")
	}

	b, err = format(ctx, b, x.Main, d+1)
	if err != nil {
		return nil, errors.Wrap(err, "main")
	}

	return b, nil
}

// Symbols appends a dump of every open frame, names sorted within a frame.
func Symbols(b []byte, t *symtab.Table) []byte {
	b = append(b, "SymbolTable {\n"...)

	for i := 0; i < t.Depth(); i++ {
		f := t.Frame(i)

		names := make([]string, 0, len(f))
		for n := range f {
			names = append(names, n)
		}

		sort.Strings(names)

		b = hfmt.Appendf(b, "Frame %d =\n", i)

		for _, n := range names {
			s := f[n]

			b = hfmt.Appendf(b, "\t%s = ( id=%s, Kind=%v, Type=%v", n, s.Name, s.Kind, s.Type)

			if s.Location != "" {
				b = hfmt.Appendf(b, ", Location=%s", s.Location)
			}

			b = append(b, " )\n"...)
		}
	}

	b = append(b, "}\n"...)

	return b
}

// app appends the level d marker and the formatted line.
// Level 1 is "|-- ", each next level adds "--- ".
func app(b []byte, d int, f string, args ...any) []byte {
	if d > 0 {
		b = append(b, "|-- "...)
	}

	for i := 1; i < d; i++ {
		b = append(b, "--- "...)
	}

	b = hfmt.Appendf(b, f, args...)

	return b
}
