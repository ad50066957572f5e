package token

import (
	"strconv"
	"strings"

	"tlog.app/go/tlog/tlwire"
)

type (
	Kind uint8

	Token struct {
		Kind   Kind
		Lexeme string
		Line   int
	}

	// Source produces tokens one at a time.
	// Once the input is exhausted it keeps returning an EOF token.
	Source interface {
		Next() (Token, error)
	}
)

const (
	Illegal Kind = iota
	EOF

	ID
	NUMBER
	READ
	WRITE

	keywordsStart

	AND
	ARRAY
	BEGIN
	DIV
	DO
	ELSE
	END
	FUNCTION
	IF
	INTEGER
	MOD
	NOT
	OF
	OR
	PROCEDURE
	PROGRAM
	REAL
	THEN
	VAR
	WHILE

	keywordsEnd

	SEMI
	COMMA
	PERIOD
	COLON
	LBRACE
	RBRACE
	LPAREN
	RPAREN
	PLUS
	MINUS
	EQUAL
	NOTEQ
	LTHAN
	LTHANEQ
	GTHAN
	GTHANEQ
	ASTERISK
	FSLASH
	ASSIGN

	numKinds
)

var names = [numKinds]string{
	Illegal: "ILLEGAL",
	EOF:     "EOF",

	ID:     "ID",
	NUMBER: "NUMBER",
	READ:   "READ",
	WRITE:  "WRITE",

	AND:       "AND",
	ARRAY:     "ARRAY",
	BEGIN:     "BEGIN",
	DIV:       "DIV",
	DO:        "DO",
	ELSE:      "ELSE",
	END:       "END",
	FUNCTION:  "FUNCTION",
	IF:        "IF",
	INTEGER:   "INTEGER",
	MOD:       "MOD",
	NOT:       "NOT",
	OF:        "OF",
	OR:        "OR",
	PROCEDURE: "PROCEDURE",
	PROGRAM:   "PROGRAM",
	REAL:      "REAL",
	THEN:      "THEN",
	VAR:       "VAR",
	WHILE:     "WHILE",

	SEMI:     "SEMI",
	COMMA:    "COMMA",
	PERIOD:   "PERIOD",
	COLON:    "COLON",
	LBRACE:   "LBRACE",
	RBRACE:   "RBRACE",
	LPAREN:   "LPAREN",
	RPAREN:   "RPAREN",
	PLUS:     "PLUS",
	MINUS:    "MINUS",
	EQUAL:    "EQUAL",
	NOTEQ:    "NOTEQ",
	LTHAN:    "LTHAN",
	LTHANEQ:  "LTHANEQ",
	GTHAN:    "GTHAN",
	GTHANEQ:  "GTHANEQ",
	ASTERISK: "ASTERISK",
	FSLASH:   "FSLASH",
	ASSIGN:   "ASSIGN",
}

var keywords = map[string]Kind{
	"read":  READ,
	"write": WRITE,
}

// Symbols maps punctuation lexemes to their kinds.
var Symbols = map[string]Kind{
	";":  SEMI,
	",":  COMMA,
	".":  PERIOD,
	":":  COLON,
	"[":  LBRACE,
	"]":  RBRACE,
	"(":  LPAREN,
	")":  RPAREN,
	"+":  PLUS,
	"-":  MINUS,
	"=":  EQUAL,
	"<>": NOTEQ,
	"<":  LTHAN,
	"<=": LTHANEQ,
	">":  GTHAN,
	">=": GTHANEQ,
	"*":  ASTERISK,
	"/":  FSLASH,
	":=": ASSIGN,
}

func init() {
	for k := keywordsStart + 1; k < keywordsEnd; k++ {
		keywords[strings.ToLower(names[k])] = k
	}
}

// Lookup returns the keyword kind for an identifier-shaped lexeme, or ID.
// Keywords are case-insensitive.
func Lookup(lexeme string) Kind {
	if k, ok := keywords[strings.ToLower(lexeme)]; ok {
		return k
	}

	return ID
}

func (k Kind) String() string {
	if k < numKinds && names[k] != "" {
		return names[k]
	}

	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

func (k Kind) IsKeyword() bool {
	return k > keywordsStart && k < keywordsEnd || k == READ || k == WRITE
}

// IsRelop reports whether k is a relational operator.
func (k Kind) IsRelop() bool {
	switch k {
	case EQUAL, NOTEQ, LTHAN, LTHANEQ, GTHAN, GTHANEQ:
		return true
	}

	return false
}

// IsAddop reports whether k is an adding operator: + - or.
func (k Kind) IsAddop() bool {
	return k == PLUS || k == MINUS || k == OR
}

// IsMulop reports whether k is a multiplying operator: * / div mod and.
func (k Kind) IsMulop() bool {
	switch k {
	case ASTERISK, FSLASH, DIV, MOD, AND:
		return true
	}

	return false
}

func (t Token) String() string {
	return "Token:\tLexeme:" + t.Lexeme + "\tType:" + t.Kind.String() + "\tLine:" + strconv.Itoa(t.Line)
}

func (t Token) TlogAppend(b []byte) []byte {
	var e tlwire.Encoder

	b = e.AppendMap(b, 3)
	b = e.AppendKeyString(b, "kind", t.Kind.String())
	b = e.AppendKeyString(b, "lexeme", t.Lexeme)
	b = e.AppendKeyInt64(b, "line", int64(t.Line))

	return b
}
