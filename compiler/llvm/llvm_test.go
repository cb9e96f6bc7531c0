package llvm

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NKID00/sbfnj/compiler/ir"
)

func emit(t *testing.T, p ir.Program) string {
	var buf bytes.Buffer

	err := New(&buf).Run(context.Background(), p)
	require.NoError(t, err)

	return buf.String()
}

func TestDeclarations(t *testing.T) {
	out := emit(t, nil)

	assert.Contains(t, out, "declare i8* @calloc(i64")
	assert.Contains(t, out, "declare i32 @putchar(i32")
	assert.Contains(t, out, "declare i32 @getchar()")
	assert.Contains(t, out, "define i32 @main()")
	assert.Contains(t, out, "ret i32 0")
}

func TestArith(t *testing.T) {
	out := emit(t, ir.Program{
		ir.Add{Off: 2, Delta: 255},
		ir.Move{Delta: -3},
	})

	assert.Contains(t, out, "add i8")
	assert.Contains(t, out, "getelementptr i8,")
	assert.Contains(t, out, "add i32")
}

func TestLoopBlocks(t *testing.T) {
	out := emit(t, ir.Program{
		ir.Loop{Body: ir.Program{
			ir.Add{Delta: 1},
		}},
	})

	assert.Contains(t, out, "icmp ne i8")
	assert.Contains(t, out, "br i1")
}

func TestInputSelectsZeroAtEOF(t *testing.T) {
	out := emit(t, ir.Program{
		ir.Input{},
	})

	assert.Contains(t, out, "call i32 @getchar()")
	assert.Contains(t, out, "icmp slt i32")
	assert.Contains(t, out, "select i1")
}

func TestMulAddIsStraightLine(t *testing.T) {
	out := emit(t, ir.Program{
		ir.MulAdd{Src: 0, Dst: 1, Factor: 3},
		ir.Set{Off: 0, Val: 0},
	})

	assert.Contains(t, out, "mul i8")
	assert.Contains(t, out, "store i8 0")

	// closed form means no control flow
	assert.NotContains(t, out, "br ")
	assert.Equal(t, 0, strings.Count(out, "icmp"))
}
