package format

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minipas/minipas/compiler/ast"
	"github.com/minipas/minipas/compiler/symtab"
	"github.com/minipas/minipas/compiler/token"
	"github.com/minipas/minipas/compiler/tp"
)

func lines(l ...string) string {
	return strings.Join(l, "\n") + "\n"
}

func TestProgram(t *testing.T) {
	x := &ast.Program{
		Name:  "foo",
		Decls: &ast.Declarations{},
		Subs:  &ast.SubProgramDeclarations{},
		Main:  &ast.Compound{},
	}

	b, err := Format(context.Background(), nil, x)
	require.NoError(t, err)

	assert.Equal(t, lines(
		"|-- Program: foo",
		"|-- --- Declarations",
		"|-- --- SubProgramDeclarations",
		"|-- --- Compound Statement",
	), string(b))
}

func TestWhile(t *testing.T) {
	x := &ast.While{
		Test: &ast.Operation{
			Op:    token.GTHANEQ,
			Left:  &ast.Variable{Name: "i", Tp: tp.Integer},
			Right: &ast.Value{Lexeme: "1", Tp: tp.Integer},
			Tp:    tp.Integer,
		},
		Do: &ast.ProcedureCall{
			Name: "tick",
			Args: []ast.Expr{
				&ast.UnaryOperation{Op: token.MINUS, Operand: &ast.Value{Lexeme: "2.5", Tp: tp.Real}, Tp: tp.Real},
			},
		},
	}

	b, err := FormatLevel(context.Background(), nil, x, 2)
	require.NoError(t, err)

	assert.Equal(t, lines(
		"|-- --- While",
		"|-- --- --- Operation: GTHANEQ",
		"|-- --- --- --- Name: i Type: INTEGER",
		"|-- --- --- --- Name: 1 Type: INTEGER",
		"|-- --- Do:",
		"|-- --- --- Procedure:tick",
		"|-- --- --- --- Sign: MINUS, Type: REAL",
		"|-- --- --- --- --- Name: 2.5 Type: REAL",
	), string(b))
}

func TestSubProgram(t *testing.T) {
	x := &ast.SubProgramDeclarations{
		Subs: []*ast.SubProgram{{
			Name:   "doIt",
			Return: tp.Real,
			Args: []*ast.Variable{
				{Name: "a", Tp: tp.Integer},
				{Name: "b", Tp: tp.Real},
			},
			Decls: &ast.Declarations{Vars: []*ast.Variable{{Name: "jump", Tp: tp.Real}}},
			Subs:  &ast.SubProgramDeclarations{},
			Main:  &ast.Compound{},
		}, {
			Name:  "p",
			Decls: &ast.Declarations{},
			Subs:  &ast.SubProgramDeclarations{},
			Main:  &ast.Compound{},
		}},
	}

	b, err := Format(context.Background(), nil, x)
	require.NoError(t, err)

	assert.Equal(t, lines(
		"|-- SubProgramDeclarations",
		"|-- --- SubProgram: doIt, Return: REAL",
		"|-- --- Arguments: a[INTEGER], b[REAL]",
		"|-- --- --- Declarations",
		"|-- --- --- --- Name: jump Type: REAL",
		"|-- --- --- SubProgramDeclarations",
		"|-- --- --- Compound Statement",
		"|-- --- SubProgram: p, Return: null",
		"|-- --- Arguments:",
		"|-- --- --- Declarations",
		"|-- --- --- SubProgramDeclarations",
		"|-- --- --- Compound Statement",
	), string(b))
}

func TestIndentDepth(t *testing.T) {
	x := &ast.Compound{Stmts: []ast.Stmt{
		&ast.If{
			Test: &ast.Variable{Name: "c", Tp: tp.Integer},
			Then: &ast.Compound{Stmts: []ast.Stmt{
				&ast.Assignment{
					LValue: &ast.Variable{Name: "x", Tp: tp.Integer},
					Expr: &ast.Operation{
						Op:    token.ASTERISK,
						Left:  &ast.Value{Lexeme: "8", Tp: tp.Integer},
						Right: &ast.Value{Lexeme: "8", Tp: tp.Integer},
						Tp:    tp.Integer,
					},
				},
			}},
			Else: &ast.Compound{},
		},
	}}

	b, err := Format(context.Background(), nil, x)
	require.NoError(t, err)

	want := []int{1, 2, 3, 3, 4, 5, 5, 6, 6, 3}

	got := strings.Split(strings.TrimSuffix(string(b), "\n"), "\n")
	require.Len(t, got, len(want))

	for i, l := range got {
		require.True(t, strings.HasPrefix(l, "|-- "), "line %q", l)

		d := 1 + strings.Count(l, "--- ")
		assert.Equal(t, want[i], d, "line %q", l)
	}
}

func TestUnsupported(t *testing.T) {
	_, err := Format(context.Background(), nil, nil)
	assert.Error(t, err)

	_, err = Format(context.Background(), nil, &ast.Assignment{LValue: &ast.Variable{Name: "x"}})
	assert.Error(t, err)
}

func TestSymbols(t *testing.T) {
	st := symtab.New()
	st.AddProgram("foo")
	st.AddVariable("b", tp.Real)
	st.AddVariable("a", tp.Integer)
	st.SetLocation("a", "a")

	st.Push()
	st.AddFunction("f", tp.Integer)

	assert.Equal(t, lines(
		"SymbolTable {",
		"Frame 0 =",
		"\ta = ( id=a, Kind=VARIABLE, Type=INTEGER, Location=a )",
		"\tb = ( id=b, Kind=VARIABLE, Type=REAL )",
		"\tfoo = ( id=foo, Kind=PROGRAM, Type=null )",
		"Frame 1 =",
		"\tf = ( id=f, Kind=FUNCTION, Type=INTEGER )",
		"}",
	), string(Symbols(nil, st)))
}
