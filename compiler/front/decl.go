package front

import (
	"context"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/minipas/minipas/compiler/ast"
	"github.com/minipas/minipas/compiler/token"
	"github.com/minipas/minipas/compiler/tp"
)

// declarations parses zero or more "var ids : type ;" groups.
func (p *Parser) declarations(ctx context.Context) (x *ast.Declarations, err error) {
	x = &ast.Declarations{}

	for p.la.Kind == token.VAR {
		_, err = p.match(ctx, token.VAR)
		if err != nil {
			return nil, err
		}

		ids, err := p.identifierList(ctx)
		if err != nil {
			return nil, err
		}

		_, err = p.match(ctx, token.COLON)
		if err != nil {
			return nil, err
		}

		typ, err := p.typ(ctx)
		if err != nil {
			return nil, err
		}

		for _, id := range ids {
			if !p.syms.AddVariable(id.Lexeme, typ) {
				p.warn(ctx, id.Line, "Variable name: %s already exists", id.Lexeme)
			}

			x.Vars = append(x.Vars, &ast.Variable{Name: id.Lexeme, Tp: typ})
		}

		_, err = p.match(ctx, token.SEMI)
		if err != nil {
			return nil, err
		}
	}

	return x, nil
}

func (p *Parser) identifierList(ctx context.Context) (ids []token.Token, err error) {
	for {
		id, err := p.match(ctx, token.ID)
		if err != nil {
			return nil, err
		}

		ids = append(ids, id)

		if p.la.Kind != token.COMMA {
			return ids, nil
		}

		_, err = p.match(ctx, token.COMMA)
		if err != nil {
			return nil, err
		}
	}
}

// typ parses a standard type or "array [ n : m ] of" one.
// Array bounds are checked for shape and dropped.
func (p *Parser) typ(ctx context.Context) (tp.Type, error) {
	if p.la.Kind != token.ARRAY {
		return p.standardType(ctx)
	}

	for _, k := range []token.Kind{token.ARRAY, token.LBRACE, token.NUMBER, token.COLON, token.NUMBER, token.RBRACE, token.OF} {
		_, err := p.match(ctx, k)
		if err != nil {
			return tp.None, err
		}
	}

	return p.standardType(ctx)
}

func (p *Parser) standardType(ctx context.Context) (tp.Type, error) {
	switch p.la.Kind {
	case token.INTEGER, token.REAL:
	default:
		return tp.None, &SyntaxError{Expected: "standard type", Got: p.la, Line: p.la.Line}
	}

	t, err := p.match(ctx, p.la.Kind)
	if err != nil {
		return tp.None, err
	}

	return tp.FromKind(t.Kind), nil
}

func (p *Parser) subprogramDeclarations(ctx context.Context) (x *ast.SubProgramDeclarations, err error) {
	x = &ast.SubProgramDeclarations{}

	for p.la.Kind == token.FUNCTION || p.la.Kind == token.PROCEDURE {
		sub, err := p.subprogram(ctx)
		if err != nil {
			return nil, err
		}

		x.Subs = append(x.Subs, sub)

		_, err = p.match(ctx, token.SEMI)
		if err != nil {
			return nil, err
		}
	}

	return x, nil
}

// subprogram parses a function or procedure.
// Its parameters, result variable, locals and body live in their own frame.
func (p *Parser) subprogram(ctx context.Context) (x *ast.SubProgram, err error) {
	x, err = p.subprogramHead(ctx)
	if err != nil {
		return nil, err
	}

	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "parse subprogram", "name", x.Name, "depth", p.syms.Depth())
	defer tr.Finish("err", &err)

	x.Decls, err = p.declarations(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "subprogram %v: declarations", x.Name)
	}

	x.Subs, err = p.subprogramDeclarations(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "subprogram %v", x.Name)
	}

	x.Main, err = p.compound(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "subprogram %v: body", x.Name)
	}

	err = p.syms.Pop()
	if err != nil {
		return nil, errors.Wrap(err, "subprogram %v", x.Name)
	}

	return x, nil
}

// subprogramHead declares the subprogram in the current frame
// and leaves a new frame open holding its parameters.
func (p *Parser) subprogramHead(ctx context.Context) (x *ast.SubProgram, err error) {
	fn := p.la.Kind == token.FUNCTION

	_, err = p.match(ctx, p.la.Kind)
	if err != nil {
		return nil, err
	}

	name, err := p.match(ctx, token.ID)
	if err != nil {
		return nil, err
	}

	x = &ast.SubProgram{Name: name.Lexeme}

	args, ids, err := p.arguments(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "subprogram %v: arguments", x.Name)
	}

	x.Args = args

	if fn {
		_, err = p.match(ctx, token.COLON)
		if err != nil {
			return nil, err
		}

		x.Return, err = p.standardType(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "function %v: return type", x.Name)
		}

		if !p.syms.AddFunction(x.Name, x.Return) {
			p.warn(ctx, name.Line, "Function name: %s already exists", x.Name)
		}
	} else if !p.syms.AddProcedure(x.Name) {
		p.warn(ctx, name.Line, "Procedure name: %s already exists", x.Name)
	}

	_, err = p.match(ctx, token.SEMI)
	if err != nil {
		return nil, err
	}

	p.syms.Push()

	for i, a := range x.Args {
		if !p.syms.AddVariable(a.Name, a.Tp) {
			p.warn(ctx, ids[i].Line, "Variable name: %s already exists", a.Name)
		}
	}

	if fn && !p.syms.AddVariable(x.Name, x.Return) {
		p.warn(ctx, name.Line, "Variable name: %s already exists", x.Name)
	}

	return x, nil
}

// arguments parses the optional "( ids : type ; ... )" parameter list.
// Tokens are returned alongside for diagnostics.
func (p *Parser) arguments(ctx context.Context) (args []*ast.Variable, toks []token.Token, err error) {
	if p.la.Kind != token.LPAREN {
		return nil, nil, nil
	}

	_, err = p.match(ctx, token.LPAREN)
	if err != nil {
		return nil, nil, err
	}

	for {
		ids, err := p.identifierList(ctx)
		if err != nil {
			return nil, nil, err
		}

		_, err = p.match(ctx, token.COLON)
		if err != nil {
			return nil, nil, err
		}

		typ, err := p.typ(ctx)
		if err != nil {
			return nil, nil, err
		}

		for _, id := range ids {
			args = append(args, &ast.Variable{Name: id.Lexeme, Tp: typ})
		}

		toks = append(toks, ids...)

		if p.la.Kind != token.SEMI {
			break
		}

		_, err = p.match(ctx, token.SEMI)
		if err != nil {
			return nil, nil, err
		}
	}

	_, err = p.match(ctx, token.RPAREN)
	if err != nil {
		return nil, nil, err
	}

	return args, toks, nil
}
