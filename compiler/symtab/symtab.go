package symtab

import (
	"tlog.app/go/errors"

	"github.com/minipas/minipas/compiler/tp"
)

type (
	Kind uint8

	Symbol struct {
		Name string
		Kind Kind
		Type tp.Type

		// Location is the storage label backing a variable.
		// It stays empty until code generation assigns it.
		Location string
	}

	// Table is a stack of scope frames, innermost last.
	// It always holds at least one frame.
	Table struct {
		frames []frame
	}

	frame map[string]*Symbol
)

const (
	Program Kind = iota + 1
	Variable
	Procedure
	Function
)

var ErrLastFrame = errors.New("can't pop the outermost frame")

func New() *Table {
	return &Table{
		frames: []frame{{}},
	}
}

// Push opens a new innermost frame.
func (t *Table) Push() {
	t.frames = append(t.frames, frame{})
}

// Pop closes the innermost frame.
func (t *Table) Pop() error {
	if len(t.frames) == 1 {
		return ErrLastFrame
	}

	t.frames[len(t.frames)-1] = nil
	t.frames = t.frames[:len(t.frames)-1]

	return nil
}

// Depth is the number of open frames.
func (t *Table) Depth() int { return len(t.frames) }

func (t *Table) AddProgram(name string) bool {
	return t.add(&Symbol{Name: name, Kind: Program})
}

func (t *Table) AddVariable(name string, typ tp.Type) bool {
	return t.add(&Symbol{Name: name, Kind: Variable, Type: typ})
}

func (t *Table) AddProcedure(name string) bool {
	return t.add(&Symbol{Name: name, Kind: Procedure})
}

func (t *Table) AddFunction(name string, typ tp.Type) bool {
	return t.add(&Symbol{Name: name, Kind: Function, Type: typ})
}

// add inserts s into the innermost frame.
// It refuses and returns false if the frame already has the name.
func (t *Table) add(s *Symbol) bool {
	f := t.frames[len(t.frames)-1]

	if _, ok := f[s.Name]; ok {
		return false
	}

	f[s.Name] = s

	return true
}

func (t *Table) IsProgram(name string) bool   { return t.is(name, Program) }
func (t *Table) IsVariable(name string) bool  { return t.is(name, Variable) }
func (t *Table) IsProcedure(name string) bool { return t.is(name, Procedure) }
func (t *Table) IsFunction(name string) bool  { return t.is(name, Function) }

func (t *Table) is(name string, k Kind) bool {
	s := t.Get(name)

	return s != nil && s.Kind == k
}

// Get resolves name innermost frame first. It returns nil if no frame has it.
func (t *Table) Get(name string) *Symbol {
	for i := len(t.frames) - 1; i >= 0; i-- {
		if s, ok := t.frames[i][name]; ok {
			return s
		}
	}

	return nil
}

// Lookup is Get limited to the innermost frame.
func (t *Table) Lookup(name string) *Symbol {
	return t.frames[len(t.frames)-1][name]
}

func (t *Table) Type(name string) tp.Type {
	s := t.Get(name)
	if s == nil {
		return tp.None
	}

	return s.Type
}

func (t *Table) SetType(name string, typ tp.Type) {
	if s := t.Get(name); s != nil {
		s.Type = typ
	}
}

func (t *Table) Location(name string) string {
	s := t.Get(name)
	if s == nil {
		return ""
	}

	return s.Location
}

func (t *Table) SetLocation(name, loc string) {
	if s := t.Get(name); s != nil {
		s.Location = loc
	}
}

// Frame returns the symbols of frame i, 0 being the outermost.
func (t *Table) Frame(i int) map[string]*Symbol {
	return t.frames[i]
}

func (k Kind) String() string {
	switch k {
	case Program:
		return "PROGRAM"
	case Variable:
		return "VARIABLE"
	case Procedure:
		return "PROCEDURE"
	case Function:
		return "FUNCTION"
	default:
		return "UNKNOWN"
	}
}
