package front

import (
	"context"

	"tlog.app/go/errors"

	"github.com/minipas/minipas/compiler/ast"
	"github.com/minipas/minipas/compiler/token"
	"github.com/minipas/minipas/compiler/tp"
)

// expression is a simple expression optionally compared with one more.
// Comparisons do not chain.
func (p *Parser) expression(ctx context.Context) (ast.Expr, error) {
	l, err := p.simpleExpression(ctx)
	if err != nil {
		return nil, err
	}

	if !p.la.Kind.IsRelop() {
		return l, nil
	}

	op, err := p.match(ctx, p.la.Kind)
	if err != nil {
		return nil, err
	}

	r, err := p.simpleExpression(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "right of %v", op.Kind)
	}

	if tp.Mismatch(l.Type(), r.Type()) {
		p.warn(ctx, op.Line, "Type mismatch in %v: %v and %v", op.Kind, l.Type(), r.Type())
	}

	return &ast.Operation{
		Op:    op.Kind,
		Left:  l,
		Right: r,
		Tp:    tp.Relational(l.Type()),
	}, nil
}

// simpleExpression is [sign] term {addop term}, folded to the left.
// The sign applies to the first term only.
func (p *Parser) simpleExpression(ctx context.Context) (x ast.Expr, err error) {
	var sign token.Token

	if k := p.la.Kind; k == token.PLUS || k == token.MINUS {
		sign, err = p.match(ctx, k)
		if err != nil {
			return nil, err
		}
	}

	x, err = p.term(ctx)
	if err != nil {
		return nil, err
	}

	if sign.Kind != token.Illegal {
		x = &ast.UnaryOperation{
			Op:      sign.Kind,
			Operand: x,
			Tp:      x.Type(),
		}
	}

	for p.la.Kind.IsAddop() {
		op, err := p.match(ctx, p.la.Kind)
		if err != nil {
			return nil, err
		}

		r, err := p.term(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "right of %v", op.Kind)
		}

		x = p.operation(ctx, op, x, r)
	}

	return x, nil
}

// term is factor {mulop factor}, folded to the left.
func (p *Parser) term(ctx context.Context) (x ast.Expr, err error) {
	x, err = p.factor(ctx)
	if err != nil {
		return nil, err
	}

	for p.la.Kind.IsMulop() {
		op, err := p.match(ctx, p.la.Kind)
		if err != nil {
			return nil, err
		}

		r, err := p.factor(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "right of %v", op.Kind)
		}

		x = p.operation(ctx, op, x, r)
	}

	return x, nil
}

func (p *Parser) operation(ctx context.Context, op token.Token, l, r ast.Expr) *ast.Operation {
	if tp.Mismatch(l.Type(), r.Type()) {
		p.warn(ctx, op.Line, "Type mismatch in %v: %v and %v", op.Kind, l.Type(), r.Type())
	}

	return &ast.Operation{
		Op:    op.Kind,
		Left:  l,
		Right: r,
		Tp:    tp.Arith(l.Type(), r.Type()),
	}
}

func (p *Parser) factor(ctx context.Context) (ast.Expr, error) {
	switch p.la.Kind {
	case token.ID:
		return p.reference(ctx)
	case token.NUMBER:
		t, err := p.match(ctx, token.NUMBER)
		if err != nil {
			return nil, err
		}

		return &ast.Value{Lexeme: t.Lexeme, Tp: tp.OfNumber(t.Lexeme)}, nil
	case token.LPAREN:
		_, err := p.match(ctx, token.LPAREN)
		if err != nil {
			return nil, err
		}

		x, err := p.expression(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "parenthesized")
		}

		_, err = p.match(ctx, token.RPAREN)
		if err != nil {
			return nil, err
		}

		return x, nil
	case token.NOT:
		_, err := p.match(ctx, token.NOT)
		if err != nil {
			return nil, err
		}

		x, err := p.factor(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "not")
		}

		return &ast.UnaryOperation{Op: token.NOT, Operand: x, Tp: x.Type()}, nil
	default:
		return nil, &SyntaxError{Expected: "factor", Got: p.la, Line: p.la.Line}
	}
}

// reference parses a name used as a value.
// Array indexes and call arguments are parsed and dropped.
func (p *Parser) reference(ctx context.Context) (x *ast.Variable, err error) {
	id, err := p.match(ctx, token.ID)
	if err != nil {
		return nil, err
	}

	x = &ast.Variable{Name: id.Lexeme}

	if s := p.syms.Get(id.Lexeme); s != nil {
		x.Tp = s.Type
	} else {
		p.warn(ctx, id.Line, "Undeclared identifier: %s", id.Lexeme)
	}

	switch p.la.Kind {
	case token.LBRACE:
		_, err = p.match(ctx, token.LBRACE)
		if err != nil {
			return nil, err
		}

		_, err = p.expression(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "index of %v", x.Name)
		}

		_, err = p.match(ctx, token.RBRACE)
	case token.LPAREN:
		_, err = p.match(ctx, token.LPAREN)
		if err != nil {
			return nil, err
		}

		_, err = p.expressionList(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "call %v", x.Name)
		}

		_, err = p.match(ctx, token.RPAREN)
	}

	if err != nil {
		return nil, err
	}

	return x, nil
}

func (p *Parser) expressionList(ctx context.Context) (l []ast.Expr, err error) {
	for {
		x, err := p.expression(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "expression %d", len(l))
		}

		l = append(l, x)

		if p.la.Kind != token.COMMA {
			return l, nil
		}

		_, err = p.match(ctx, token.COMMA)
		if err != nil {
			return nil, err
		}
	}
}
