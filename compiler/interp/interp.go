// Package interp executes programs directly against a tape.
//
// The tape is 30000 cells of one byte each, all zero at start, with
// the pointer at cell 0. A cell access outside the tape stops the run
// with a BoundsError; moving the pointer alone does not fault.
// Reading input at end of stream stores 0. A multiply-add with a
// zero source cell leaves its destination untouched, exactly like
// the loop it replaced.
package interp

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/NKID00/sbfnj/compiler/ir"
)

// TapeSize is the number of cells addressable by a program.
const TapeSize = 30000

type (
	// Machine runs programs over an input and an output stream.
	Machine struct {
		in  *bufio.Reader
		out *bufio.Writer

		mem []byte
		ptr int
	}

	// BoundsError is a cell access outside the tape.
	BoundsError struct {
		Cell int
	}

	opcode uint8

	// op is one flattened instruction. Loop brackets become a pair of
	// conditional jumps with resolved targets, so execution is a flat
	// pc loop instead of tree recursion.
	op struct {
		code opcode
		off  int
		arg  int // move delta, add delta, set value, mul factor, jump target
		src  int // mul source offset
	}
)

const (
	opMove opcode = iota
	opAdd
	opSet
	opOut
	opIn
	opJz  // jump to arg if the current cell is zero
	opJnz // jump to arg if the current cell is nonzero
	opMul
)

// New creates a machine with a fresh zero tape.
func New(in io.Reader, out io.Writer) *Machine {
	return &Machine{
		in:  bufio.NewReader(in),
		out: bufio.NewWriter(out),
		mem: make([]byte, TapeSize),
	}
}

// Run executes the program to completion and flushes the output.
func (m *Machine) Run(ctx context.Context, p ir.Program) (err error) {
	tr, _ := tlog.SpawnFromContextAndWrap(ctx, "interpret", "insts", ir.Count(p))
	defer tr.Finish("err", &err)

	code := flatten(nil, p)

	defer func() {
		e := m.out.Flush()
		if err == nil && e != nil {
			err = errors.Wrap(e, "flush output")
		}
	}()

	for pc := 0; pc < len(code); pc++ {
		x := code[pc]

		switch x.code {
		case opMove:
			m.ptr += x.arg
		case opAdd:
			c := m.ptr + x.off
			if c < 0 || c >= len(m.mem) {
				return BoundsError{Cell: c}
			}

			m.mem[c] += byte(x.arg)
		case opSet:
			c := m.ptr + x.off
			if c < 0 || c >= len(m.mem) {
				return BoundsError{Cell: c}
			}

			m.mem[c] = byte(x.arg)
		case opOut:
			c := m.ptr + x.off
			if c < 0 || c >= len(m.mem) {
				return BoundsError{Cell: c}
			}

			err = m.out.WriteByte(m.mem[c])
			if err != nil {
				return errors.Wrap(err, "write output")
			}
		case opIn:
			c := m.ptr + x.off
			if c < 0 || c >= len(m.mem) {
				return BoundsError{Cell: c}
			}

			v, err := m.in.ReadByte()
			if err == io.EOF {
				v = 0
			} else if err != nil {
				return errors.Wrap(err, "read input")
			}

			m.mem[c] = v
		case opJz:
			c := m.ptr
			if c < 0 || c >= len(m.mem) {
				return BoundsError{Cell: c}
			}

			if m.mem[c] == 0 {
				pc = x.arg - 1
			}
		case opJnz:
			c := m.ptr
			if c < 0 || c >= len(m.mem) {
				return BoundsError{Cell: c}
			}

			if m.mem[c] != 0 {
				pc = x.arg - 1
			}
		case opMul:
			s := m.ptr + x.src

			if s < 0 || s >= len(m.mem) {
				return BoundsError{Cell: s}
			}

			// a zero source is a loop that ran zero times,
			// the destination is not touched then
			v := m.mem[s]
			if v == 0 {
				continue
			}

			d := m.ptr + x.off
			if d < 0 || d >= len(m.mem) {
				return BoundsError{Cell: d}
			}

			m.mem[d] += v * byte(x.arg)
		}
	}

	return nil
}

// flatten appends the program to code, resolving loop jump targets.
func flatten(code []op, p ir.Program) []op {
	for _, x := range p {
		switch x := x.(type) {
		case ir.Move:
			code = append(code, op{code: opMove, arg: x.Delta})
		case ir.Add:
			code = append(code, op{code: opAdd, off: x.Off, arg: int(x.Delta)})
		case ir.Set:
			code = append(code, op{code: opSet, off: x.Off, arg: int(x.Val)})
		case ir.Output:
			code = append(code, op{code: opOut, off: x.Off})
		case ir.Input:
			code = append(code, op{code: opIn, off: x.Off})
		case ir.MulAdd:
			code = append(code, op{code: opMul, off: x.Dst, src: x.Src, arg: int(x.Factor)})
		case ir.Loop:
			start := len(code)
			code = append(code, op{code: opJz})

			code = flatten(code, x.Body)

			code = append(code, op{code: opJnz, arg: start + 1})
			code[start].arg = len(code)
		}
	}

	return code
}

func (e BoundsError) Error() string {
	return fmt.Sprintf("cell %d is out of the tape", e.Cell)
}
