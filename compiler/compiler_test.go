package compiler

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NKID00/sbfnj/compiler/parse"
)

func TestRunInterpreter(t *testing.T) {
	var buf bytes.Buffer

	err := Run(context.Background(), []byte("++++++++[>++++++++<-]>+++++++++."), Config{
		Opt:    2,
		Input:  strings.NewReader(""),
		Output: &buf,
	})
	require.NoError(t, err)

	assert.Equal(t, "I", buf.String())
}

func TestRunFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "cat.b")

	err := os.WriteFile(name, []byte(",[.,]"), 0o644)
	require.NoError(t, err)

	var buf bytes.Buffer

	err = RunFile(context.Background(), name, Config{
		Opt:    1,
		Input:  strings.NewReader("meow"),
		Output: &buf,
	})
	require.NoError(t, err)

	assert.Equal(t, "meow", buf.String())
}

func TestRunText(t *testing.T) {
	var buf bytes.Buffer

	err := Run(context.Background(), []byte("+++[-]"), Config{
		Opt:    2,
		Text:   true,
		Output: &buf,
	})
	require.NoError(t, err)

	assert.Equal(t, "add [0], 3\nset [0], 0\n", buf.String())
}

func TestRunEmit(t *testing.T) {
	var buf bytes.Buffer

	err := Run(context.Background(), []byte("+."), Config{
		Emit:   true,
		Output: &buf,
	})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "@putchar")
}

func TestRunSyntaxError(t *testing.T) {
	err := Run(context.Background(), []byte("[+"), Config{})

	var se parse.SyntaxError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 0, se.Off)
}
