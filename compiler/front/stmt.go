package front

import (
	"context"

	"tlog.app/go/errors"

	"github.com/minipas/minipas/compiler/ast"
	"github.com/minipas/minipas/compiler/token"
	"github.com/minipas/minipas/compiler/tp"
)

// compound parses "begin [stmt {; stmt}] end".
func (p *Parser) compound(ctx context.Context) (x *ast.Compound, err error) {
	_, err = p.match(ctx, token.BEGIN)
	if err != nil {
		return nil, err
	}

	x = &ast.Compound{}

	if isStatementStart(p.la.Kind) {
		for {
			s, err := p.statement(ctx)
			if err != nil {
				return nil, errors.Wrap(err, "stmt %d", len(x.Stmts))
			}

			x.Stmts = append(x.Stmts, s)

			if p.la.Kind != token.SEMI {
				break
			}

			_, err = p.match(ctx, token.SEMI)
			if err != nil {
				return nil, err
			}
		}
	}

	_, err = p.match(ctx, token.END)
	if err != nil {
		return nil, err
	}

	return x, nil
}

func isStatementStart(k token.Kind) bool {
	switch k {
	case token.ID, token.BEGIN, token.IF, token.WHILE:
		return true
	}

	return false
}

func (p *Parser) statement(ctx context.Context) (ast.Stmt, error) {
	switch p.la.Kind {
	case token.ID:
		switch name := p.la.Lexeme; {
		case p.syms.IsVariable(name):
			return p.assignment(ctx)
		case p.syms.IsProcedure(name):
			return p.procedureCall(ctx)
		default:
			return nil, &StatementError{Name: name, Got: token.ID, Line: p.la.Line}
		}
	case token.BEGIN:
		return p.compound(ctx)
	case token.IF:
		return p.ifStmt(ctx)
	case token.WHILE:
		return p.whileStmt(ctx)
	default:
		return nil, &StatementError{Name: p.la.Lexeme, Got: p.la.Kind, Line: p.la.Line}
	}
}

func (p *Parser) assignment(ctx context.Context) (x *ast.Assignment, err error) {
	line := p.la.Line

	lv, err := p.variable(ctx)
	if err != nil {
		return nil, err
	}

	_, err = p.match(ctx, token.ASSIGN)
	if err != nil {
		return nil, err
	}

	e, err := p.expression(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "assignment to %v", lv.Name)
	}

	if tp.Mismatch(lv.Tp, e.Type()) {
		p.warn(ctx, line, "Type mismatch has occurred for: %s", lv.Name)
	}

	return &ast.Assignment{LValue: lv, Expr: e}, nil
}

// variable parses an assignment target.
// An array index is parsed and dropped.
func (p *Parser) variable(ctx context.Context) (x *ast.Variable, err error) {
	id, err := p.match(ctx, token.ID)
	if err != nil {
		return nil, err
	}

	x = &ast.Variable{
		Name: id.Lexeme,
		Tp:   p.syms.Type(id.Lexeme),
	}

	if p.la.Kind != token.LBRACE {
		return x, nil
	}

	_, err = p.match(ctx, token.LBRACE)
	if err != nil {
		return nil, err
	}

	_, err = p.expression(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "index of %v", x.Name)
	}

	_, err = p.match(ctx, token.RBRACE)
	if err != nil {
		return nil, err
	}

	return x, nil
}

func (p *Parser) procedureCall(ctx context.Context) (x *ast.ProcedureCall, err error) {
	id, err := p.match(ctx, token.ID)
	if err != nil {
		return nil, err
	}

	x = &ast.ProcedureCall{Name: id.Lexeme}

	if p.la.Kind != token.LPAREN {
		return x, nil
	}

	_, err = p.match(ctx, token.LPAREN)
	if err != nil {
		return nil, err
	}

	x.Args, err = p.expressionList(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "call %v", x.Name)
	}

	_, err = p.match(ctx, token.RPAREN)
	if err != nil {
		return nil, err
	}

	return x, nil
}

func (p *Parser) ifStmt(ctx context.Context) (x *ast.If, err error) {
	_, err = p.match(ctx, token.IF)
	if err != nil {
		return nil, err
	}

	x = &ast.If{}

	x.Test, err = p.expression(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "if test")
	}

	_, err = p.match(ctx, token.THEN)
	if err != nil {
		return nil, err
	}

	x.Then, err = p.statement(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "then")
	}

	_, err = p.match(ctx, token.ELSE)
	if err != nil {
		return nil, err
	}

	x.Else, err = p.statement(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "else")
	}

	return x, nil
}

func (p *Parser) whileStmt(ctx context.Context) (x *ast.While, err error) {
	_, err = p.match(ctx, token.WHILE)
	if err != nil {
		return nil, err
	}

	x = &ast.While{}

	x.Test, err = p.expression(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "while test")
	}

	_, err = p.match(ctx, token.DO)
	if err != nil {
		return nil, err
	}

	x.Do, err = p.statement(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "do")
	}

	return x, nil
}
