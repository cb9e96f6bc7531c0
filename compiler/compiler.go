package compiler

import (
	"context"
	"io"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/NKID00/sbfnj/compiler/interp"
	"github.com/NKID00/sbfnj/compiler/ir"
	"github.com/NKID00/sbfnj/compiler/llvm"
	"github.com/NKID00/sbfnj/compiler/opt"
	"github.com/NKID00/sbfnj/compiler/parse"
)

type (
	// Backend consumes one optimized program and produces its effect:
	// the interpreter runs it, the emitter writes its lowered form.
	Backend interface {
		Run(ctx context.Context, p ir.Program) error
	}

	// Config selects the pipeline: optimization tier and what to do
	// with the resulting program.
	Config struct {
		Opt  int  // 0, 1 or 2
		Text bool // print the program listing instead of running
		Emit bool // lower to llvm ir instead of interpreting

		Input  io.Reader // program input stream
		Output io.Writer // program output, listing or lowered ir
	}
)

// RunFile compiles and runs (or emits) a source file.
func RunFile(ctx context.Context, name string, cfg Config) (err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "compile file", "name", name, "opt", cfg.Opt)
	defer tr.Finish("err", &err)

	p, err := parse.ParseFile(ctx, name)
	if err != nil {
		return errors.Wrap(err, "parse")
	}

	return run(ctx, p, cfg)
}

// Run drives the pipeline over source text: parse, optimize, then
// hand the program to exactly one backend.
func Run(ctx context.Context, text []byte, cfg Config) (err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "compile", "opt", cfg.Opt)
	defer tr.Finish("err", &err)

	p, err := parse.Parse(ctx, text)
	if err != nil {
		return errors.Wrap(err, "parse")
	}

	return run(ctx, p, cfg)
}

func run(ctx context.Context, p ir.Program, cfg Config) (err error) {
	p = opt.Apply(ctx, p, opt.Tier(cfg.Opt))

	if cfg.Text {
		_, err = cfg.Output.Write(ir.Dump(nil, p))
		if err != nil {
			return errors.Wrap(err, "write listing")
		}

		return nil
	}

	var b Backend

	if cfg.Emit {
		b = llvm.New(cfg.Output)
	} else {
		b = interp.New(cfg.Input, cfg.Output)
	}

	err = b.Run(ctx, p)
	if err != nil {
		return errors.Wrap(err, "backend")
	}

	return nil
}
