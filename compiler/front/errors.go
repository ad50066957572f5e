package front

import (
	"fmt"

	"github.com/minipas/minipas/compiler/token"
)

type (
	// SyntaxError is a failed match against the lookahead token.
	SyntaxError struct {
		Want token.Kind

		// Expected replaces Want when more than one kind fits, like "factor".
		Expected string

		Got  token.Token
		Line int
	}

	// StatementError is a statement starting with something
	// that is neither a variable nor a procedure.
	StatementError struct {
		Name string
		Got  token.Kind
		Line int
	}

	// Warning is a non-fatal semantic diagnostic.
	Warning struct {
		Line int
		Msg  string
	}
)

func (e *SyntaxError) Error() string {
	want := e.Expected
	if want == "" {
		want = e.Want.String()
	}

	if e.Got.Kind == token.EOF {
		return fmt.Sprintf("line %d: syntax error: expected %v, got end of input", e.Line, want)
	}

	return fmt.Sprintf("line %d: syntax error: expected %v, got %v %q", e.Line, want, e.Got.Kind, e.Got.Lexeme)
}

func (e *StatementError) Error() string {
	if e.Got == token.ID {
		return fmt.Sprintf("line %d: statement error: %v is not kind VARIABLE or PROCEDURE", e.Line, e.Name)
	}

	return fmt.Sprintf("line %d: statement error: unexpected %v %q", e.Line, e.Got, e.Name)
}

func (w Warning) String() string {
	return fmt.Sprintf("line %d: %s", w.Line, w.Msg)
}
