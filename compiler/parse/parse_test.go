package parse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NKID00/sbfnj/compiler/ir"
)

func TestParse(t *testing.T) {
	p, err := Parse(context.Background(), []byte("+-><.,"))
	require.NoError(t, err)

	assert.Equal(t, ir.Program{
		ir.Add{Delta: 1},
		ir.Add{Delta: 255},
		ir.Move{Delta: 1},
		ir.Move{Delta: -1},
		ir.Output{},
		ir.Input{},
	}, p)
}

func TestParseLoop(t *testing.T) {
	p, err := Parse(context.Background(), []byte("+[>-]"))
	require.NoError(t, err)

	assert.Equal(t, ir.Program{
		ir.Add{Delta: 1},
		ir.Loop{Body: ir.Program{
			ir.Move{Delta: 1},
			ir.Add{Delta: 255},
		}},
	}, p)
}

func TestParseNested(t *testing.T) {
	p, err := Parse(context.Background(), []byte("[[,]]"))
	require.NoError(t, err)

	assert.Equal(t, ir.Program{
		ir.Loop{Body: ir.Program{
			ir.Loop{Body: ir.Program{
				ir.Input{},
			}},
		}},
	}, p)
}

func TestParseComments(t *testing.T) {
	p, err := Parse(context.Background(), []byte("say + hi - to\nthe crowd"))
	require.NoError(t, err)

	assert.Equal(t, ir.Program{
		ir.Add{Delta: 1},
		ir.Add{Delta: 255},
	}, p)
}

func TestParseUnmatchedOpen(t *testing.T) {
	_, err := Parse(context.Background(), []byte("[+"))

	assert.Equal(t, SyntaxError{Off: 0, Tok: '['}, err)
}

func TestParseUnmatchedClose(t *testing.T) {
	_, err := Parse(context.Background(), []byte("+]"))

	assert.Equal(t, SyntaxError{Off: 1, Tok: ']'}, err)
}

func TestParseInnermostUnmatched(t *testing.T) {
	_, err := Parse(context.Background(), []byte("[+[>"))

	assert.Equal(t, SyntaxError{Off: 2, Tok: '['}, err)
}
