package ast

import (
	"github.com/minipas/minipas/compiler/tp"
	"github.com/minipas/minipas/compiler/token"
)

type (
	// Node is any syntax tree node. The set of nodes is closed.
	Node interface {
		node()
	}

	Stmt interface {
		Node
		stmt()
	}

	// Expr is a node carrying a static type.
	Expr interface {
		Node
		expr()
		Type() tp.Type
	}

	Program struct {
		Name string

		Decls *Declarations
		Subs  *SubProgramDeclarations
		Main  *Compound
	}

	Declarations struct {
		Vars []*Variable
	}

	SubProgramDeclarations struct {
		Subs []*SubProgram
	}

	// SubProgram is a function or a procedure.
	// Procedures have no Return type.
	SubProgram struct {
		Name   string
		Return tp.Type
		Args   []*Variable

		Decls *Declarations
		Subs  *SubProgramDeclarations
		Main  *Compound
	}

	Compound struct {
		Stmts []Stmt
	}

	Assignment struct {
		LValue *Variable
		Expr   Expr
	}

	If struct {
		Test Expr
		Then Stmt
		Else Stmt
	}

	While struct {
		Test Expr
		Do   Stmt
	}

	ProcedureCall struct {
		Name string
		Args []Expr
	}

	// Variable is both a declared name and a reference to it.
	Variable struct {
		Name string
		Tp   tp.Type
	}

	Operation struct {
		Op    token.Kind
		Left  Expr
		Right Expr
		Tp    tp.Type
	}

	UnaryOperation struct {
		Op      token.Kind
		Operand Expr
		Tp      tp.Type
	}

	// Value is a numeric literal.
	Value struct {
		Lexeme string
		Tp     tp.Type
	}
)

func (*Program) node()                {}
func (*Declarations) node()           {}
func (*SubProgramDeclarations) node() {}
func (*SubProgram) node()             {}
func (*Compound) node()               {}
func (*Assignment) node()             {}
func (*If) node()                     {}
func (*While) node()                  {}
func (*ProcedureCall) node()          {}
func (*Variable) node()               {}
func (*Operation) node()              {}
func (*UnaryOperation) node()         {}
func (*Value) node()                  {}

func (*Compound) stmt()      {}
func (*Assignment) stmt()    {}
func (*If) stmt()            {}
func (*While) stmt()         {}
func (*ProcedureCall) stmt() {}

func (*Variable) expr()       {}
func (*Operation) expr()      {}
func (*UnaryOperation) expr() {}
func (*Value) expr()          {}

func (x *Variable) Type() tp.Type       { return x.Tp }
func (x *Operation) Type() tp.Type      { return x.Tp }
func (x *UnaryOperation) Type() tp.Type { return x.Tp }
func (x *Value) Type() tp.Type          { return x.Tp }

// IsFunction reports whether the subprogram returns a value.
func (x *SubProgram) IsFunction() bool { return x.Return.Resolved() }

// IsRelational reports whether the operation is a comparison.
func (x *Operation) IsRelational() bool { return x.Op.IsRelop() }
