package front

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tlog.app/go/errors"

	"github.com/minipas/minipas/compiler/ast"
	"github.com/minipas/minipas/compiler/format"
	"github.com/minipas/minipas/compiler/scan"
	"github.com/minipas/minipas/compiler/symtab"
	"github.com/minipas/minipas/compiler/token"
	"github.com/minipas/minipas/compiler/tp"
)

func tree(t *testing.T, x ast.Node) string {
	t.Helper()

	b, err := format.Format(context.Background(), nil, x)
	require.NoError(t, err)

	return string(b)
}

func lines(l ...string) string {
	return strings.Join(l, "\n") + "\n"
}

func TestProgramEmpty(t *testing.T) {
	p := NewText([]byte("program foo; begin end."))

	x, err := p.Program(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "foo", x.Name)
	assert.Empty(t, x.Decls.Vars)
	assert.Empty(t, x.Subs.Subs)
	assert.Empty(t, x.Main.Stmts)
	assert.True(t, p.Symbols().IsProgram("foo"))
	assert.Empty(t, p.Warnings())

	assert.Equal(t, lines(
		"|-- Program: foo",
		"|-- --- Declarations",
		"|-- --- SubProgramDeclarations",
		"|-- --- Compound Statement",
	), tree(t, x))
}

func TestDeclarations(t *testing.T) {
	p := NewText([]byte("var fee, fi, fum, fo: real; var n: array [1 : 10] of integer;"))

	x, err := p.Declarations(context.Background())
	require.NoError(t, err)

	assert.Equal(t, lines(
		"|-- Declarations",
		"|-- --- Name: fee Type: REAL",
		"|-- --- Name: fi Type: REAL",
		"|-- --- Name: fum Type: REAL",
		"|-- --- Name: fo Type: REAL",
		"|-- --- Name: n Type: INTEGER",
	), tree(t, x))

	assert.True(t, p.Symbols().IsVariable("n"))
	assert.Equal(t, tp.Integer, p.Symbols().Type("n"))
}

func TestDuplicateDeclaration(t *testing.T) {
	p := NewText([]byte("var run, walk, jog, run: integer;"))

	x, err := p.Declarations(context.Background())
	require.NoError(t, err)

	assert.Len(t, x.Vars, 4, "tree keeps its shape")
	require.Len(t, p.Warnings(), 1)
	assert.Equal(t, "line 1: Variable name: run already exists", p.Warnings()[0].String())
}

func TestExpressionTypes(t *testing.T) {
	for _, tc := range []struct {
		decl tp.Type
		want tp.Type
	}{
		{tp.Real, tp.Real},
		{tp.Integer, tp.Integer},
	} {
		st := symtab.New()
		st.AddVariable("fi", tc.decl)

		p := New(scan.New([]byte("fi < 5")), st)

		x, err := p.Expression(context.Background())
		require.NoError(t, err)

		op, ok := x.(*ast.Operation)
		require.True(t, ok)
		assert.Equal(t, token.LTHAN, op.Op)
		assert.Equal(t, tc.want, op.Type())
	}
}

func TestMultiply(t *testing.T) {
	p := NewText([]byte("8 * 8"))

	x, err := p.Expression(context.Background())
	require.NoError(t, err)

	op, ok := x.(*ast.Operation)
	require.True(t, ok)
	assert.Equal(t, token.ASTERISK, op.Op)
	assert.Equal(t, tp.Integer, op.Type())
	assert.Equal(t, &ast.Value{Lexeme: "8", Tp: tp.Integer}, op.Left)
	assert.Equal(t, &ast.Value{Lexeme: "8", Tp: tp.Integer}, op.Right)
}

func TestLeftAssociative(t *testing.T) {
	p := NewText([]byte("1 - 2 - 3 * 4 / 5"))

	x, err := p.Expression(context.Background())
	require.NoError(t, err)

	assert.Equal(t, lines(
		"|-- Operation: MINUS",
		"|-- --- Operation: MINUS",
		"|-- --- --- Name: 1 Type: INTEGER",
		"|-- --- --- Name: 2 Type: INTEGER",
		"|-- --- Operation: FSLASH",
		"|-- --- --- Operation: ASTERISK",
		"|-- --- --- --- Name: 3 Type: INTEGER",
		"|-- --- --- --- Name: 4 Type: INTEGER",
		"|-- --- --- Name: 5 Type: INTEGER",
	), tree(t, x))
}

func TestSignFirstTerm(t *testing.T) {
	st := symtab.New()
	st.AddVariable("a", tp.Real)
	st.AddVariable("b", tp.Real)

	p := New(scan.New([]byte("-a + b * 2.0")), st)

	x, err := p.Expression(context.Background())
	require.NoError(t, err)

	assert.Equal(t, lines(
		"|-- Operation: PLUS",
		"|-- --- Sign: MINUS, Type: REAL",
		"|-- --- --- Name: a Type: REAL",
		"|-- --- Operation: ASTERISK",
		"|-- --- --- Name: b Type: REAL",
		"|-- --- --- Name: 2.0 Type: REAL",
	), tree(t, x))

	assert.Empty(t, p.Warnings())
}

func TestComparisonDoesNotChain(t *testing.T) {
	p := NewText([]byte("1 < 2 < 3"))

	x, err := p.Expression(context.Background())
	require.NoError(t, err)

	op := x.(*ast.Operation)
	assert.Equal(t, token.LTHAN, op.Op)
	assert.Equal(t, token.LTHAN, p.la.Kind, "second comparison is left for the caller")
}

func TestFactors(t *testing.T) {
	st := symtab.New()
	st.AddVariable("arr", tp.Integer)
	st.AddFunction("f", tp.Real)

	p := New(scan.New([]byte("not (arr[1 + 1] and f(1, arr))")), st)

	x, err := p.Expression(context.Background())
	require.NoError(t, err)

	assert.Equal(t, lines(
		"|-- Sign: NOT, Type: REAL",
		"|-- --- Operation: AND",
		"|-- --- --- Name: arr Type: INTEGER",
		"|-- --- --- Name: f Type: REAL",
	), tree(t, x))

	require.Len(t, p.Warnings(), 1)
	assert.Contains(t, p.Warnings()[0].Msg, "Type mismatch in AND")
}

func TestUndeclaredReference(t *testing.T) {
	p := NewText([]byte("program foo; var x: integer; begin x := y + 1 end."))

	x, err := p.Program(context.Background())
	require.NoError(t, err)

	as := x.Main.Stmts[0].(*ast.Assignment)
	assert.Equal(t, tp.None, as.Expr.(*ast.Operation).Left.Type())
	assert.Equal(t, tp.None, as.Expr.Type())

	require.Len(t, p.Warnings(), 1)
	assert.Equal(t, "Undeclared identifier: y", p.Warnings()[0].Msg)
}

func TestSubprogramScopes(t *testing.T) {
	text := `program foo;
var x: integer;
function sq(n: integer): integer;
  var x: real;
begin
  x := 1.5;
  sq := n * n
end;
procedure show(v: integer; w: real);
begin
  show(v, w)
end;
begin
  x := sq(3);
  show(x, 2.0)
end.`

	p := NewText([]byte(text))

	x, err := p.Program(context.Background())
	require.NoError(t, err)
	assert.Empty(t, p.Warnings())

	st := p.Symbols()
	assert.Equal(t, 1, st.Depth(), "subprogram frames are closed")
	assert.True(t, st.IsFunction("sq"))
	assert.True(t, st.IsProcedure("show"))
	assert.Equal(t, tp.Integer, st.Type("x"), "outer x is not shadowed after the function")
	assert.Nil(t, st.Get("n"))

	require.Len(t, x.Subs.Subs, 2)

	sq := x.Subs.Subs[0]
	assert.Equal(t, "sq", sq.Name)
	assert.Equal(t, tp.Integer, sq.Return)
	assert.True(t, sq.IsFunction())
	assert.Equal(t, []*ast.Variable{{Name: "n", Tp: tp.Integer}}, sq.Args)

	as := sq.Main.Stmts[0].(*ast.Assignment)
	assert.Equal(t, tp.Real, as.LValue.Tp, "inner x shadows the global")

	show := x.Subs.Subs[1]
	assert.False(t, show.IsFunction())
	assert.Len(t, show.Args, 2)
	assert.IsType(t, &ast.ProcedureCall{}, show.Main.Stmts[0])

	call := x.Main.Stmts[1].(*ast.ProcedureCall)
	assert.Equal(t, "show", call.Name)
	assert.Len(t, call.Args, 2)
}

func TestAssignmentMismatch(t *testing.T) {
	p := NewText([]byte("program foo; var fee, fi: real;\nbegin\n fee := 5;\n fi := 2.5\nend."))

	_, err := p.Program(context.Background())
	require.NoError(t, err)

	require.Len(t, p.Warnings(), 1)
	assert.Equal(t, Warning{Line: 3, Msg: "Type mismatch has occurred for: fee"}, p.Warnings()[0])
}

func TestFatalErrors(t *testing.T) {
	for _, tc := range []struct {
		name string
		text string
		msg  string
	}{
		{"missing semi", "program foo begin end.", `line 1: syntax error: expected SEMI, got BEGIN "begin"`},
		{"missing period", "program foo; begin end", "expected PERIOD, got end of input"},
		{"trailing tokens", "program foo; begin end. x", `expected EOF, got ID "x"`},
		{"no else", "program foo; var a: integer; begin if a then a := 1 end.", `expected ELSE, got END "end"`},
		{"bad factor", "program foo; var a: integer; begin a := * end.", `expected factor, got ASTERISK "*"`},
		{"bad type", "program foo; var a: string; begin end.", `expected standard type, got ID "string"`},
		{"bad bounds", "program foo; var a: array [x : 2] of real; begin end.", `expected NUMBER, got ID "x"`},
		{"function without type", "program foo; function f; begin end; begin end.", `expected COLON, got SEMI ";"`},
		{"scan error", "program foo; begin end. @", "unexpected character '@'"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewText([]byte(tc.text)).Program(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.msg)
		})
	}
}

func TestStatementErrors(t *testing.T) {
	_, err := NewText([]byte("program foo; function f: integer; begin end;\nbegin\n  f := 1\nend.")).Program(context.Background())

	var serr *StatementError
	require.True(t, errors.As(err, &serr), "got %v", err)
	assert.Equal(t, "f", serr.Name)
	assert.Equal(t, 3, serr.Line)

	_, err = NewText([]byte("program foo; begin 5 end.")).Program(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected END") // 5 is not a statement start

	p := NewText([]byte("do"))

	_, err = p.Statement(context.Background())
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, token.DO, serr.Got)
	assert.Contains(t, err.Error(), `unexpected DO "do"`)

	var synerr *SyntaxError
	_, err = NewText([]byte("program 5")).Program(context.Background())
	require.True(t, errors.As(err, &synerr))
	assert.Equal(t, token.ID, synerr.Want)
	assert.Equal(t, token.NUMBER, synerr.Got.Kind)
}

func TestSubProgramDeclarations(t *testing.T) {
	p := NewText([]byte("function doIt: real; var jump, duck: real; begin end ; ."))

	x, err := p.SubProgramDeclarations(context.Background())
	require.NoError(t, err)

	assert.Equal(t, lines(
		"|-- SubProgramDeclarations",
		"|-- --- SubProgram: doIt, Return: REAL",
		"|-- --- Arguments:",
		"|-- --- --- Declarations",
		"|-- --- --- --- Name: jump Type: REAL",
		"|-- --- --- --- Name: duck Type: REAL",
		"|-- --- --- SubProgramDeclarations",
		"|-- --- --- Compound Statement",
	), tree(t, x))

	assert.Equal(t, token.PERIOD, p.la.Kind)
}

func TestDuplicateParameterLine(t *testing.T) {
	text := "program foo;\nprocedure p(a: integer;\n  a: real);\nbegin end;\nfunction f(\n  f: integer): integer;\nbegin end;\nbegin end."

	p := NewText([]byte(text))

	_, err := p.Program(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []Warning{
		{Line: 3, Msg: "Variable name: a already exists"},
		{Line: 5, Msg: "Variable name: f already exists"},
	}, p.Warnings())
}
