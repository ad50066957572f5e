package back

import (
	"context"
	"fmt"
	"reflect"
	"strconv"

	"github.com/nikandfor/hacked/hfmt"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/minipas/minipas/compiler/asm"
	"github.com/minipas/minipas/compiler/ast"
	"github.com/minipas/minipas/compiler/symtab"
	"github.com/minipas/minipas/compiler/token"
	"github.com/minipas/minipas/compiler/tp"
)

type (
	// Generator lowers a parsed program to MIPS assembly text.
	// One Generator serves one program.
	Generator struct {
		syms *symtab.Table

		temp  int // next free $t
		saved int // $s of the statement being lowered

		ifs   int
		loops int
	}

	RegisterError struct {
		Class string
		Max   int
	}

	UnresolvedError struct {
		Name string
	}

	UnsupportedError struct {
		What string
		T    ast.Node
	}
)

func New(syms *symtab.Table) *Generator {
	return &Generator{
		syms: syms,
	}
}

func (g *Generator) Generate(ctx context.Context, p *ast.Program) (b []byte, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "generate", "program", p.Name)
	defer tr.Finish("err", &err)

	b = append(b, ".data\n"...)

	seen := map[string]struct{}{}

	for _, v := range p.Decls.Vars {
		if _, ok := seen[v.Name]; ok {
			continue
		}

		seen[v.Name] = struct{}{}

		b = hfmt.Appendf(b, "%s\t:.word\t0\n", v.Name)
		g.syms.SetLocation(v.Name, v.Name)
	}

	b = append(b, ".text\nmain:\n"...)

	b = g.prologue(b)

	for i, s := range p.Main.Stmts {
		b, err = g.stmt(ctx, b, s, asm.Saved(g.saved))
		if err != nil {
			return nil, errors.Wrap(err, "stmt %d", i)
		}
	}

	b = g.epilogue(b)

	tr.Printw("generated", "size", len(b), "vars", len(seen), "ifs", g.ifs, "loops", g.loops)

	return b, nil
}

func (g *Generator) stmt(ctx context.Context, b []byte, x ast.Stmt, dst asm.Reg) (_ []byte, err error) {
	if tr := tlog.SpanFromContext(ctx); tr.If("emit") {
		tr.Printw("stmt", "type", fmt.Sprintf("%T", x), "dst", dst, "temp", g.temp, "saved", g.saved)
	}

	switch x := x.(type) {
	case *ast.Assignment:
		return g.assignment(ctx, b, x, dst)
	case *ast.If:
		return g.ifStmt(ctx, b, x, dst)
	case *ast.While:
		return g.whileStmt(ctx, b, x, dst)
	case *ast.Compound:
		for i, s := range x.Stmts {
			b, err = g.stmt(ctx, b, s, dst)
			if err != nil {
				return nil, errors.Wrap(err, "stmt %d", i)
			}
		}

		return b, nil
	case *ast.ProcedureCall:
		return nil, &UnsupportedError{What: "procedure call " + x.Name, T: x}
	default:
		return nil, &UnsupportedError{What: "statement", T: x}
	}
}

func (g *Generator) assignment(ctx context.Context, b []byte, x *ast.Assignment, dst asm.Reg) (_ []byte, err error) {
	loc := g.syms.Location(x.LValue.Name)
	if loc == "" {
		return nil, &UnresolvedError{Name: x.LValue.Name}
	}

	b = hfmt.Appendf(b, "\n# assign %s\n", x.LValue.Name)

	b, err = g.expr(ctx, b, x.Expr, dst)
	if err != nil {
		return nil, errors.Wrap(err, "assignment to %v", x.LValue.Name)
	}

	b = asm.Append(b, "sw", dst, loc)

	return b, nil
}

func (g *Generator) ifStmt(ctx context.Context, b []byte, x *ast.If, dst asm.Reg) (_ []byte, err error) {
	n := g.ifs
	g.ifs++

	elseL := asm.Label{Name: "else", N: n}
	endL := asm.Label{Name: "endIf", N: n}

	b = hfmt.Appendf(b, "\n# if %d\n", n)

	b, err = g.test(ctx, b, x.Test, dst, elseL)
	if err != nil {
		return nil, errors.Wrap(err, "if test")
	}

	then, err := g.nextSaved()
	if err != nil {
		return nil, err
	}

	b, err = g.stmt(ctx, b, x.Then, then)
	if err != nil {
		return nil, errors.Wrap(err, "then")
	}

	b = asm.Append(b, "j", endL)
	b = hfmt.Appendf(b, "%v:\n", elseL)

	els, err := g.nextSaved()
	if err != nil {
		return nil, err
	}

	b, err = g.stmt(ctx, b, x.Else, els)
	if err != nil {
		return nil, errors.Wrap(err, "else")
	}

	b = hfmt.Appendf(b, "%v:\n", endL)

	g.saved -= 2

	return b, nil
}

func (g *Generator) whileStmt(ctx context.Context, b []byte, x *ast.While, dst asm.Reg) (_ []byte, err error) {
	n := g.loops
	g.loops++

	loopL := asm.Label{Name: "while", N: n}
	endL := asm.Label{Name: "endWhile", N: n}

	b = hfmt.Appendf(b, "\n# while %d\n%v:\n", n, loopL)

	b, err = g.test(ctx, b, x.Test, dst, endL)
	if err != nil {
		return nil, errors.Wrap(err, "while test")
	}

	body, err := g.nextSaved()
	if err != nil {
		return nil, err
	}

	b, err = g.stmt(ctx, b, x.Do, body)
	if err != nil {
		return nil, errors.Wrap(err, "do")
	}

	b = asm.Append(b, "j", loopL)
	b = hfmt.Appendf(b, "%v:\n", endL)

	g.saved--

	return b, nil
}

// test branches to target when x does not hold.
// A comparison becomes its negated branch, any other value is false when zero.
func (g *Generator) test(ctx context.Context, b []byte, x ast.Expr, dst asm.Reg, target asm.Label) (_ []byte, err error) {
	op, ok := x.(*ast.Operation)
	if !ok || !op.IsRelational() {
		b, err = g.expr(ctx, b, x, dst)
		if err != nil {
			return nil, err
		}

		return asm.Append(b, "beq", dst, asm.Zero, target), nil
	}

	b, l, r, err := g.operands(ctx, b, op)
	if err != nil {
		return nil, err
	}

	cond, _ := asm.Negated(op.Op)

	b = asm.Append(b, string(cond), l, r, target)

	g.temp -= 2

	return b, nil
}

func (g *Generator) expr(ctx context.Context, b []byte, x ast.Expr, dst asm.Reg) (_ []byte, err error) {
	switch x := x.(type) {
	case *ast.Value:
		if x.Tp != tp.Integer {
			return nil, &UnsupportedError{What: "real literal " + x.Lexeme, T: x}
		}

		// li takes a 32-bit decimal immediate.
		if _, err := strconv.ParseInt(x.Lexeme, 10, 32); err != nil {
			return nil, &UnsupportedError{What: "integer literal " + x.Lexeme, T: x}
		}

		return asm.Append(b, "li", dst, x.Lexeme), nil
	case *ast.Variable:
		s := g.syms.Get(x.Name)

		switch {
		case s != nil && s.Kind == symtab.Function:
			return nil, &UnsupportedError{What: "function reference " + x.Name, T: x}
		case s == nil || s.Location == "":
			return nil, &UnresolvedError{Name: x.Name}
		}

		return asm.Append(b, "lw", dst, s.Location), nil
	case *ast.UnaryOperation:
		b, err = g.expr(ctx, b, x.Operand, dst)
		if err != nil {
			return nil, errors.Wrap(err, "%v operand", x.Op)
		}

		switch x.Op {
		case token.MINUS:
			return asm.Append(b, "sub", dst, asm.Zero, dst), nil
		case token.PLUS:
			return b, nil
		case token.NOT:
			return asm.Append(b, "seq", dst, dst, asm.Zero), nil
		}

		return nil, &UnsupportedError{What: "unary " + x.Op.String(), T: x}
	case *ast.Operation:
		return g.operation(ctx, b, x, dst)
	default:
		return nil, &UnsupportedError{What: "expression", T: x}
	}
}

func (g *Generator) operation(ctx context.Context, b []byte, x *ast.Operation, dst asm.Reg) (_ []byte, err error) {
	if x.IsRelational() {
		return nil, &UnsupportedError{What: "comparison used as a value", T: x}
	}

	b, l, r, err := g.operands(ctx, b, x)
	if err != nil {
		return nil, err
	}

	switch x.Op {
	case token.PLUS:
		b = asm.Append(b, "add", dst, l, r)
	case token.MINUS:
		b = asm.Append(b, "sub", dst, l, r)
	case token.AND:
		b = asm.Append(b, "and", dst, l, r)
	case token.OR:
		b = asm.Append(b, "or", dst, l, r)
	case token.ASTERISK:
		b = asm.Append(b, "mult", l, r)
		b = asm.Append(b, "mflo", dst)
	case token.FSLASH, token.DIV:
		b = asm.Append(b, "div", l, r)
		b = asm.Append(b, "mflo", dst)
	case token.MOD:
		b = asm.Append(b, "div", l, r)
		b = asm.Append(b, "mfhi", dst)
	default:
		return nil, &UnsupportedError{What: "operator " + x.Op.String(), T: x}
	}

	g.temp -= 2

	return b, nil
}

// operands evaluates both sides of x into the next two scratch registers.
// The caller releases them when the operation is emitted.
func (g *Generator) operands(ctx context.Context, b []byte, x *ast.Operation) (_ []byte, l, r asm.Reg, err error) {
	l, err = g.nextTemp()
	if err != nil {
		return
	}

	b, err = g.expr(ctx, b, x.Left, l)
	if err != nil {
		return nil, l, r, errors.Wrap(err, "left")
	}

	r, err = g.nextTemp()
	if err != nil {
		return
	}

	b, err = g.expr(ctx, b, x.Right, r)
	if err != nil {
		return nil, l, r, errors.Wrap(err, "right")
	}

	return b, l, r, nil
}

func (g *Generator) nextTemp() (asm.Reg, error) {
	if g.temp >= asm.NumTemp {
		return 0, &RegisterError{Class: "temporary", Max: asm.NumTemp}
	}

	r := asm.Temp(g.temp)
	g.temp++

	return r, nil
}

func (g *Generator) nextSaved() (asm.Reg, error) {
	if g.saved+1 >= asm.NumSaved {
		return 0, &RegisterError{Class: "saved", Max: asm.NumSaved}
	}

	g.saved++

	return asm.Saved(g.saved), nil
}

// prologue reserves main's frame and stores every saved register, $fp and $ra.
func (g *Generator) prologue(b []byte) []byte {
	b = append(b, "\n# push to stack\n"...)
	b = asm.Append(b, "addi", asm.SP, asm.SP, -asm.FrameSize)

	for i := asm.NumSaved - 1; i >= 0; i-- {
		b = asm.Append(b, "sw", asm.Saved(i), asm.Mem(asm.SavedOffset(i), asm.SP))
	}

	b = asm.Append(b, "sw", asm.FP, asm.Mem(asm.FPOffset, asm.SP))
	b = asm.Append(b, "sw", asm.RA, asm.Mem(asm.RAOffset, asm.SP))

	return b
}

func (g *Generator) epilogue(b []byte) []byte {
	b = append(b, "\n# restore from stack\n"...)

	for i := asm.NumSaved - 1; i >= 0; i-- {
		b = asm.Append(b, "lw", asm.Saved(i), asm.Mem(asm.SavedOffset(i), asm.SP))
	}

	b = asm.Append(b, "lw", asm.FP, asm.Mem(asm.FPOffset, asm.SP))
	b = asm.Append(b, "lw", asm.RA, asm.Mem(asm.RAOffset, asm.SP))
	b = asm.Append(b, "addi", asm.SP, asm.SP, asm.FrameSize)
	b = asm.Append(b, "jr", asm.RA)

	return b
}

func (e *RegisterError) Error() string {
	return fmt.Sprintf("out of %s registers: more than %d needed", e.Class, e.Max)
}

func (e *UnresolvedError) Error() string {
	return fmt.Sprintf("variable %v has no storage location", e.Name)
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("unsupported %s: %v", e.What, reflect.TypeOf(e.T))
}
