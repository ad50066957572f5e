package front

import (
	"context"
	"fmt"

	"tlog.app/go/errors"
	"tlog.app/go/loc"
	"tlog.app/go/tlog"

	"github.com/minipas/minipas/compiler/ast"
	"github.com/minipas/minipas/compiler/scan"
	"github.com/minipas/minipas/compiler/symtab"
	"github.com/minipas/minipas/compiler/token"
)

type (
	// Parser is a single lookahead recursive descent parser.
	// It checks names and types while building the tree.
	Parser struct {
		src  token.Source
		syms *symtab.Table

		la     token.Token
		primed bool

		warns []Warning
	}
)

func New(src token.Source, syms *symtab.Table) *Parser {
	if syms == nil {
		syms = symtab.New()
	}

	return &Parser{
		src:  src,
		syms: syms,
	}
}

// NewText parses program text with a fresh symbol table.
func NewText(text []byte) *Parser {
	return New(scan.New(text), nil)
}

func (p *Parser) Symbols() *symtab.Table { return p.syms }

// Warnings returns non-fatal diagnostics in the order they were found.
func (p *Parser) Warnings() []Warning { return p.warns }

// Program parses a whole program up to the end of input.
func (p *Parser) Program(ctx context.Context) (x *ast.Program, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "parse program")
	defer tr.Finish("err", &err)

	err = p.prime()
	if err != nil {
		return nil, err
	}

	x, err = p.program(ctx)
	if err != nil {
		return nil, err
	}

	tr.Printw("parsed", "program", x.Name, "vars", len(x.Decls.Vars), "subprograms", len(x.Subs.Subs), "warnings", len(p.warns))

	return x, nil
}

func (p *Parser) Declarations(ctx context.Context) (*ast.Declarations, error) {
	err := p.prime()
	if err != nil {
		return nil, err
	}

	return p.declarations(ctx)
}

func (p *Parser) SubProgramDeclarations(ctx context.Context) (*ast.SubProgramDeclarations, error) {
	err := p.prime()
	if err != nil {
		return nil, err
	}

	return p.subprogramDeclarations(ctx)
}

func (p *Parser) Statement(ctx context.Context) (ast.Stmt, error) {
	err := p.prime()
	if err != nil {
		return nil, err
	}

	return p.statement(ctx)
}

func (p *Parser) Expression(ctx context.Context) (ast.Expr, error) {
	err := p.prime()
	if err != nil {
		return nil, err
	}

	return p.expression(ctx)
}

func (p *Parser) program(ctx context.Context) (x *ast.Program, err error) {
	_, err = p.match(ctx, token.PROGRAM)
	if err != nil {
		return nil, err
	}

	name, err := p.match(ctx, token.ID)
	if err != nil {
		return nil, err
	}

	if !p.syms.AddProgram(name.Lexeme) {
		p.warn(ctx, name.Line, "Program name: %s already exists", name.Lexeme)
	}

	_, err = p.match(ctx, token.SEMI)
	if err != nil {
		return nil, err
	}

	x = &ast.Program{Name: name.Lexeme}

	x.Decls, err = p.declarations(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "declarations")
	}

	x.Subs, err = p.subprogramDeclarations(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "subprograms")
	}

	x.Main, err = p.compound(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "main")
	}

	_, err = p.match(ctx, token.PERIOD)
	if err != nil {
		return nil, err
	}

	if p.la.Kind != token.EOF {
		return nil, &SyntaxError{Want: token.EOF, Got: p.la, Line: p.la.Line}
	}

	return x, nil
}

// match consumes the lookahead if it is of kind k.
func (p *Parser) match(ctx context.Context, k token.Kind) (t token.Token, err error) {
	if p.la.Kind != k {
		return t, &SyntaxError{Want: k, Got: p.la, Line: p.la.Line}
	}

	t = p.la

	if tr := tlog.SpanFromContext(ctx); tr.If("match") {
		tr.Printw("match", "tok", t, "from", loc.Caller(1))
	}

	err = p.advance()
	if err != nil {
		return t, err
	}

	return t, nil
}

func (p *Parser) advance() error {
	t, err := p.src.Next()
	if err != nil {
		return errors.Wrap(err, "scan")
	}

	p.la = t

	return nil
}

func (p *Parser) prime() error {
	if p.primed {
		return nil
	}

	p.primed = true

	return p.advance()
}

func (p *Parser) warn(ctx context.Context, line int, f string, args ...any) {
	w := Warning{
		Line: line,
		Msg:  fmt.Sprintf(f, args...),
	}

	p.warns = append(p.warns, w)

	tlog.SpanFromContext(ctx).Printw("warning", "line", w.Line, "msg", w.Msg)
}
