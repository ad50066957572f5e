package asm

import (
	"strconv"

	"github.com/nikandfor/hacked/hfmt"

	"github.com/minipas/minipas/compiler/token"
)

type (
	// Reg is a MIPS register.
	Reg int

	// Cond is a conditional branch mnemonic.
	Cond string

	// Label is a generated jump target like else3 or endWhile0.
	Label struct {
		Name string
		N    int
	}
)

const (
	WordSize = 4

	NumTemp  = 8
	NumSaved = 8

	// FrameSize is the stack space main reserves:
	// every saved register plus $fp and $ra.
	FrameSize = (NumSaved + 2) * WordSize

	FPOffset = WordSize
	RAOffset = 0
)

const (
	Zero Reg = iota
	SP
	FP
	RA

	temp0
	saved0 = temp0 + NumTemp
)

var negated = map[token.Kind]Cond{
	token.LTHAN:   "bge",
	token.GTHAN:   "ble",
	token.LTHANEQ: "bgt",
	token.GTHANEQ: "blt",
	token.EQUAL:   "bne",
	token.NOTEQ:   "beq",
}

// Temp is scratch register $t<i>.
func Temp(i int) Reg { return temp0 + Reg(i) }

// Saved is callee-saved register $s<i>.
func Saved(i int) Reg { return saved0 + Reg(i) }

// SavedOffset is where main's prologue stores $s<i> relative to $sp.
func SavedOffset(i int) int { return WordSize * (i + 2) }

// Negated returns the branch taken when the relation op does not hold.
func Negated(op token.Kind) (Cond, bool) {
	c, ok := negated[op]
	return c, ok
}

func (r Reg) String() string {
	switch {
	case r == Zero:
		return "$zero"
	case r == SP:
		return "$sp"
	case r == FP:
		return "$fp"
	case r == RA:
		return "$ra"
	case r >= temp0 && r < saved0:
		return "$t" + strconv.Itoa(int(r-temp0))
	case r >= saved0 && r < saved0+NumSaved:
		return "$s" + strconv.Itoa(int(r-saved0))
	default:
		return "Reg(" + strconv.Itoa(int(r)) + ")"
	}
}

func (l Label) String() string {
	return l.Name + strconv.Itoa(l.N)
}

// Append appends one instruction line: the mnemonic and tab separated operands.
func Append(b []byte, op string, args ...any) []byte {
	b = append(b, op...)

	for i, a := range args {
		if i == 0 {
			b = append(b, '\t')
		} else {
			b = append(b, ",\t"...)
		}

		b = hfmt.Appendf(b, "%v", a)
	}

	return append(b, '\n')
}

// Mem formats a base plus offset operand like 8($sp).
func Mem(off int, base Reg) string {
	return strconv.Itoa(off) + "(" + base.String() + ")"
}
