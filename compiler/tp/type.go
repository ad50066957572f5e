package tp

import "github.com/minipas/minipas/compiler/token"

// Type is the static type tag carried by declarations and expressions.
// The zero value is the unresolved type.
type Type uint8

const (
	None Type = iota
	Integer
	Real
)

// FromKind maps a standard type keyword to its Type.
func FromKind(k token.Kind) Type {
	switch k {
	case token.INTEGER:
		return Integer
	case token.REAL:
		return Real
	default:
		return None
	}
}

// OfNumber types a numeric literal: a decimal point makes it Real.
func OfNumber(lexeme string) Type {
	for i := 0; i < len(lexeme); i++ {
		if lexeme[i] == '.' {
			return Real
		}
	}

	return Integer
}

// Arith is the type of an arithmetic or logical operation on x and y.
func Arith(x, y Type) Type {
	switch {
	case x == Real || y == Real:
		return Real
	case x == Integer && y == Integer:
		return Integer
	default:
		return None
	}
}

// Relational is the type of a comparison whose left operand has type x.
func Relational(x Type) Type {
	if x == Real {
		return Real
	}

	return Integer
}

// Mismatch reports whether both types are resolved and differ.
func Mismatch(x, y Type) bool {
	return x != None && y != None && x != y
}

func (t Type) Resolved() bool { return t != None }

func (t Type) String() string {
	switch t {
	case Integer:
		return "INTEGER"
	case Real:
		return "REAL"
	default:
		return "null"
	}
}
