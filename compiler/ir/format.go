package ir

import (
	"github.com/nikandfor/hacked/hfmt"
)

// Dump appends a human-readable listing of the program to b.
// It's a diagnostic form, not a parseable syntax.
func Dump(b []byte, p Program) []byte {
	return dump(b, p, 0)
}

func dump(b []byte, p Program, d int) []byte {
	for _, x := range p {
		switch x := x.(type) {
		case Move:
			b = app(b, d, "move %d\n", x.Delta)
		case Add:
			b = app(b, d, "add [%d], %d\n", x.Off, int8(x.Delta))
		case Set:
			b = app(b, d, "set [%d], %d\n", x.Off, x.Val)
		case Output:
			b = app(b, d, "out [%d]\n", x.Off)
		case Input:
			b = app(b, d, "in [%d]\n", x.Off)
		case MulAdd:
			b = app(b, d, "mul [%d] += [%d] * %d\n", x.Dst, x.Src, int8(x.Factor))
		case Loop:
			b = app(b, d, "loop {\n")
			b = dump(b, x.Body, d+1)
			b = app(b, d, "}\n")
		default:
			b = app(b, d, "unknown %T\n", x)
		}
	}

	return b
}

func app(b []byte, d int, format string, args ...interface{}) []byte {
	for i := 0; i < d; i++ {
		b = append(b, "  "...)
	}

	return hfmt.Appendf(b, format, args...)
}
