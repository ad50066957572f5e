package scan

import (
	"fmt"
	"os"
	"unicode/utf8"

	"tlog.app/go/errors"

	"github.com/minipas/minipas/compiler/token"
)

type (
	// Scanner turns program text into tokens on demand.
	Scanner struct {
		b []byte

		i    int
		line int
	}

	Error struct {
		Line int
		Msg  string
	}

	spaces uint64
)

var blank = newSpaces(' ', '\t', '\r', '\n', '\f', '\v')

func New(text []byte) *Scanner {
	return &Scanner{
		b:    text,
		line: 1,
	}
}

func NewFile(name string) (*Scanner, error) {
	text, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	return New(text), nil
}

// Line is the line of the last scanned position.
func (s *Scanner) Line() int { return s.line }

func (s *Scanner) Next() (t token.Token, err error) {
	err = s.skip()
	if err != nil {
		return token.Token{Kind: token.Illegal, Line: s.line}, err
	}

	if s.i == len(s.b) {
		return token.Token{Kind: token.EOF, Line: s.line}, nil
	}

	st := s.i
	c := s.b[st]

	switch {
	case isLetter(c):
		s.i = skipIdent(s.b, st+1)
		lex := string(s.b[st:s.i])

		return token.Token{Kind: token.Lookup(lex), Lexeme: lex, Line: s.line}, nil
	case isDigit(c):
		s.i = skipNum(s.b, st)

		return token.Token{Kind: token.NUMBER, Lexeme: string(s.b[st:s.i]), Line: s.line}, nil
	}

	if st+1 < len(s.b) {
		if k, ok := token.Symbols[string(s.b[st:st+2])]; ok {
			s.i += 2

			return token.Token{Kind: k, Lexeme: string(s.b[st:s.i]), Line: s.line}, nil
		}
	}

	if k, ok := token.Symbols[string(s.b[st:st+1])]; ok {
		s.i++

		return token.Token{Kind: k, Lexeme: string(s.b[st:s.i]), Line: s.line}, nil
	}

	r, _ := utf8.DecodeRune(s.b[st:])

	return token.Token{Kind: token.Illegal, Lexeme: string(r), Line: s.line}, &Error{
		Line: s.line,
		Msg:  fmt.Sprintf("unexpected character %q", r),
	}
}

// All scans the rest of the input. The final EOF token is not included.
func (s *Scanner) All() (l []token.Token, err error) {
	for {
		t, err := s.Next()
		if err != nil {
			return l, err
		}

		if t.Kind == token.EOF {
			return l, nil
		}

		l = append(l, t)
	}
}

// skip moves past blanks and { } comments.
func (s *Scanner) skip() error {
	for s.i < len(s.b) {
		c := s.b[s.i]

		switch {
		case blank.Has(c):
			if c == '\n' {
				s.line++
			}

			s.i++
		case c == '{':
			line := s.line

			for s.i++; s.i < len(s.b) && s.b[s.i] != '}'; s.i++ {
				if s.b[s.i] == '\n' {
					s.line++
				}
			}

			if s.i == len(s.b) {
				return &Error{Line: line, Msg: "unterminated comment"}
			}

			s.i++
		default:
			return nil
		}
	}

	return nil
}

func newSpaces(skip ...byte) (ss spaces) {
	for _, q := range skip {
		if q >= 64 {
			panic("too high char code")
		}

		ss |= 1 << q
	}

	return
}

func (ss spaces) Has(c byte) bool {
	return c < 64 && ss&(1<<c) != 0
}

func skipIdent(b []byte, i int) int {
	for i < len(b) && (isLetter(b[i]) || isDigit(b[i])) {
		i++
	}

	return i
}

// skipNum consumes digits, one optional fraction and one optional exponent.
// A dot not followed by a digit is left for the next token.
func skipNum(b []byte, i int) int {
	i = skipDigits(b, i)

	if i+1 < len(b) && b[i] == '.' && isDigit(b[i+1]) {
		i = skipDigits(b, i+1)
	}

	if i < len(b) && (b[i] == 'e' || b[i] == 'E') {
		j := i + 1

		if j < len(b) && (b[j] == '+' || b[j] == '-') {
			j++
		}

		if j < len(b) && isDigit(b[j]) {
			i = skipDigits(b, j)
		}
	}

	return i
}

func skipDigits(b []byte, i int) int {
	for i < len(b) && isDigit(b[i]) {
		i++
	}

	return i
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}
