package parse

import (
	"context"
	"fmt"
	"os"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/NKID00/sbfnj/compiler/ir"
)

type (
	// SyntaxError is an unmatched loop bracket.
	// Off is the byte offset of the orphan bracket in the source.
	SyntaxError struct {
		Off int
		Tok byte
	}
)

// ParseFile reads and parses a source file.
func ParseFile(ctx context.Context, name string) (ir.Program, error) {
	text, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	tlog.SpanFromContext(ctx).Printw("read file", "size", len(text), "name", name)

	return Parse(ctx, text)
}

// Parse converts source text into a program.
//
// The eight command characters are significant, everything else is a
// comment. Loop brackets must balance; nesting becomes owned loop
// bodies in the result.
func Parse(ctx context.Context, text []byte) (p ir.Program, err error) {
	tr := tlog.SpanFromContext(ctx)

	// stack[0] is the top-level program, each open '[' pushes a body.
	stack := []ir.Program{nil}
	opens := []int{} // source offsets of open '['

	for i, c := range text {
		cur := len(stack) - 1

		switch c {
		case '>':
			stack[cur] = append(stack[cur], ir.Move{Delta: 1})
		case '<':
			stack[cur] = append(stack[cur], ir.Move{Delta: -1})
		case '+':
			stack[cur] = append(stack[cur], ir.Add{Delta: 1})
		case '-':
			stack[cur] = append(stack[cur], ir.Add{Delta: 255})
		case '.':
			stack[cur] = append(stack[cur], ir.Output{})
		case ',':
			stack[cur] = append(stack[cur], ir.Input{})
		case '[':
			stack = append(stack, nil)
			opens = append(opens, i)
		case ']':
			if len(stack) == 1 {
				return nil, SyntaxError{Off: i, Tok: ']'}
			}

			body := stack[cur]
			stack = stack[:cur]
			opens = opens[:len(opens)-1]

			stack[cur-1] = append(stack[cur-1], ir.Loop{Body: body})
		}
	}

	if len(stack) != 1 {
		return nil, SyntaxError{Off: opens[len(opens)-1], Tok: '['}
	}

	p = stack[0]

	tr.Printw("parsed", "insts", ir.Count(p))

	if tr.If("dump_ast") {
		tr.Printw("program", "listing", string(ir.Dump(nil, p)))
	}

	return p, nil
}

func (e SyntaxError) Error() string {
	return fmt.Sprintf("unmatched %q at offset %d", e.Tok, e.Off)
}
