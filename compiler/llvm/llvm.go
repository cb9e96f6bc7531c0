// Package llvm lowers programs to textual LLVM IR.
//
// The module defines main with the tape pointer in an alloca and the
// tape itself obtained from calloc(30000, 1), and declares putchar
// and getchar for I/O. Each instruction kind has a fixed lowering;
// stores and multiply-adds lower to straight-line arithmetic, never
// back to loops. The produced text is meant for clang (or any LLVM
// toolchain); the emitted code does not bounds-check the tape.
package llvm

import (
	"context"
	"fmt"
	"io"

	lir "github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/NKID00/sbfnj/compiler/ir"
)

// TapeSize matches the interpreter's tape.
const TapeSize = 30000

type (
	// Emitter writes the lowered module text to w.
	Emitter struct {
		w io.Writer
	}

	lowering struct {
		m    *lir.Module
		main *lir.Func

		ptr value.Value // i32 cursor slot
		mem value.Value // tape base

		putchar *lir.Func
		getchar *lir.Func
	}
)

func New(w io.Writer) *Emitter {
	return &Emitter{w: w}
}

// Run lowers the program and writes the module text.
func (e *Emitter) Run(ctx context.Context, p ir.Program) (err error) {
	tr, _ := tlog.SpawnFromContextAndWrap(ctx, "emit llvm", "insts", ir.Count(p))
	defer tr.Finish("err", &err)

	l := newLowering()

	entry := l.main.Blocks[0]

	end := l.program(entry, p)
	end.NewRet(constant.NewInt(types.I32, 0))

	_, err = fmt.Fprint(e.w, l.m)
	if err != nil {
		return errors.Wrap(err, "write module")
	}

	return nil
}

func newLowering() *lowering {
	m := lir.NewModule()

	calloc := m.NewFunc("calloc", types.I8Ptr,
		lir.NewParam("", types.I64), lir.NewParam("", types.I64))
	putchar := m.NewFunc("putchar", types.I32, lir.NewParam("", types.I32))
	getchar := m.NewFunc("getchar", types.I32)

	main := m.NewFunc("main", types.I32)
	entry := main.NewBlock("entry")

	ptr := entry.NewAlloca(types.I32)
	entry.NewStore(constant.NewInt(types.I32, 0), ptr)

	mem := entry.NewCall(calloc,
		constant.NewInt(types.I64, TapeSize), constant.NewInt(types.I64, 1))

	return &lowering{
		m:       m,
		main:    main,
		ptr:     ptr,
		mem:     mem,
		putchar: putchar,
		getchar: getchar,
	}
}

// program lowers p into b, returning the block where control ends up.
func (l *lowering) program(b *lir.Block, p ir.Program) *lir.Block {
	for _, x := range p {
		switch x := x.(type) {
		case ir.Move:
			cur := b.NewLoad(types.I32, l.ptr)
			next := b.NewAdd(cur, constant.NewInt(types.I32, int64(x.Delta)))
			b.NewStore(next, l.ptr)
		case ir.Add:
			c := l.cell(b, x.Off)
			v := b.NewLoad(types.I8, c)
			v2 := b.NewAdd(v, constant.NewInt(types.I8, int64(int8(x.Delta))))
			b.NewStore(v2, c)
		case ir.Set:
			c := l.cell(b, x.Off)
			b.NewStore(constant.NewInt(types.I8, int64(int8(x.Val))), c)
		case ir.Output:
			c := l.cell(b, x.Off)
			v := b.NewLoad(types.I8, c)
			w := b.NewZExt(v, types.I32)
			b.NewCall(l.putchar, w)
		case ir.Input:
			// getchar returns -1 at end of stream, the cell becomes 0 then
			c := l.cell(b, x.Off)
			r := b.NewCall(l.getchar)
			eof := b.NewICmp(enum.IPredSLT, r, constant.NewInt(types.I32, 0))
			v := b.NewTrunc(r, types.I8)
			sel := b.NewSelect(eof, constant.NewInt(types.I8, 0), v)
			b.NewStore(sel, c)
		case ir.MulAdd:
			s := l.cell(b, x.Src)
			d := l.cell(b, x.Dst)
			sv := b.NewLoad(types.I8, s)
			mv := b.NewMul(sv, constant.NewInt(types.I8, int64(int8(x.Factor))))
			dv := b.NewLoad(types.I8, d)
			b.NewStore(b.NewAdd(dv, mv), d)
		case ir.Loop:
			cond := l.main.NewBlock("")
			b.NewBr(cond)

			c := l.cell(cond, 0)
			v := cond.NewLoad(types.I8, c)
			ne := cond.NewICmp(enum.IPredNE, v, constant.NewInt(types.I8, 0))

			body := l.main.NewBlock("")
			exit := l.main.NewBlock("")
			cond.NewCondBr(ne, body, exit)

			end := l.program(body, x.Body)
			end.NewBr(cond)

			b = exit
		}
	}

	return b
}

// cell resolves pointer+off to the address of a tape byte.
func (l *lowering) cell(b *lir.Block, off int) value.Value {
	idx := value.Value(b.NewLoad(types.I32, l.ptr))

	if off != 0 {
		idx = b.NewAdd(idx, constant.NewInt(types.I32, int64(off)))
	}

	return b.NewGetElementPtr(types.I8, l.mem, idx)
}
