// Package mdcase extracts compiler test cases from Markdown documents.
//
// A case starts with a "Test: name" heading, has exactly one pascal fence
// with the program, and one or more assertion fences.
package mdcase

import (
	"bytes"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"tlog.app/go/errors"
)

type (
	Kind string

	Assertion struct {
		Kind    Kind
		Content string
		Line    int
	}

	Case struct {
		Name       string
		Input      string
		Line       int
		Assertions []Assertion
	}
)

const Input = "pascal"

const (
	Tree     Kind = "tree"
	Symbols  Kind = "symbols"
	Asm      Kind = "asm"
	Error    Kind = "error"
	Warnings Kind = "warnings"
)

const prefix = "Test: "

func ReadFile(name string) ([]Case, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	cs, err := Extract(data)
	if err != nil {
		return nil, errors.Wrap(err, "%v", name)
	}

	return cs, nil
}

// Extract returns the cases of the document in order.
func Extract(src []byte) (cs []Case, err error) {
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var cur *Case

	flush := func() error {
		if cur == nil {
			return nil
		}

		if cur.Input == "" {
			return errors.New("line %d: test %q: no %s fence", cur.Line, cur.Name, Input)
		}

		if len(cur.Assertions) == 0 {
			return errors.New("line %d: test %q: no assertion fences", cur.Line, cur.Name)
		}

		cs = append(cs, *cur)
		cur = nil

		return nil
	}

	err = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n := n.(type) {
		case *ast.Heading:
			h := headingText(n, src)
			if !strings.HasPrefix(h, prefix) {
				return ast.WalkSkipChildren, nil
			}

			err := flush()
			if err != nil {
				return ast.WalkStop, err
			}

			cur = &Case{
				Name: strings.TrimPrefix(h, prefix),
				Line: lineOf(n, src),
			}

			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock:
			lang := string(n.Language(src))
			line := lineOf(n, src)

			switch {
			case lang == "":
				return ast.WalkContinue, nil
			case cur == nil:
				return ast.WalkStop, errors.New("line %d: %s fence outside of a test", line, lang)
			case lang == Input:
				if cur.Input != "" {
					return ast.WalkStop, errors.New("line %d: test %q: second %s fence", line, cur.Name, Input)
				}

				cur.Input = blockText(n, src)
			case isAssertion(Kind(lang)):
				cur.Assertions = append(cur.Assertions, Assertion{
					Kind:    Kind(lang),
					Content: strings.TrimRight(blockText(n, src), "\n"),
					Line:    line,
				})
			default:
				return ast.WalkStop, errors.New("line %d: test %q: unknown fence %q", line, cur.Name, lang)
			}
		}

		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}

	err = flush()
	if err != nil {
		return nil, err
	}

	return cs, nil
}

// Get returns the first assertion of kind k.
func (c Case) Get(k Kind) (Assertion, bool) {
	for _, a := range c.Assertions {
		if a.Kind == k {
			return a, true
		}
	}

	return Assertion{}, false
}

func isAssertion(k Kind) bool {
	switch k {
	case Tree, Symbols, Asm, Error, Warnings:
		return true
	}

	return false
}

func headingText(n ast.Node, src []byte) string {
	var b bytes.Buffer

	_ = ast.Walk(n, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := n.(*ast.Text); ok && entering {
			b.Write(t.Segment.Value(src))
		}

		return ast.WalkContinue, nil
	})

	return b.String()
}

func blockText(n *ast.FencedCodeBlock, src []byte) string {
	var b bytes.Buffer

	for i := 0; i < n.Lines().Len(); i++ {
		s := n.Lines().At(i)
		b.Write(s.Value(src))
	}

	return b.String()
}

// lineOf is the 1-based line where n's content starts.
func lineOf(n ast.Node, src []byte) int {
	if n.Lines().Len() == 0 {
		return 1
	}

	st := n.Lines().At(0).Start
	if st > len(src) {
		st = len(src)
	}

	return 1 + bytes.Count(src[:st], []byte{'\n'})
}
