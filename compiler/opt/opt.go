package opt

import (
	"context"

	"tlog.app/go/tlog"

	"github.com/NKID00/sbfnj/compiler/ir"
)

type (
	// Pass is a pure program transform. It must preserve observable
	// behavior: same output bytes, same halting status, for every
	// input stream.
	Pass struct {
		Name string
		Fn   func(ir.Program) ir.Program
	}
)

var (
	o1Passes = []Pass{
		{"coalesce", coalesce},
		{"fold-offsets", foldOffsets},
		{"dead-code", deadCode},
	}

	o2Passes = []Pass{
		{"coalesce", coalesce},
		{"fold-offsets", foldOffsets},
		{"clear-loops", clearLoops},
		{"mul-loops", mulLoops},
		{"dead-code", deadCode},
	}
)

// Tier returns the pass list for an optimization level.
// Level 0 is empty, level 1 is peephole, level 2 and above add
// symbolic loop resolution.
func Tier(level int) []Pass {
	switch {
	case level <= 0:
		return nil
	case level == 1:
		return o1Passes
	default:
		return o2Passes
	}
}

// Apply runs passes in order, each building a new program.
func Apply(ctx context.Context, p ir.Program, passes []Pass) ir.Program {
	if len(passes) == 0 {
		return p
	}

	tr, _ := tlog.SpawnFromContextAndWrap(ctx, "optimize", "insts", ir.Count(p))
	defer tr.Finish()

	for _, pass := range passes {
		p = pass.Fn(p)

		tr.Printw("pass", "name", pass.Name, "insts", ir.Count(p))

		if tr.If("dump_ir") {
			tr.Printw("program", "pass", pass.Name, "listing", string(ir.Dump(nil, p)))
		}
	}

	return p
}
