package opt

import (
	"github.com/NKID00/sbfnj/compiler/ir"
)

// clearLoops rewrites `[-]` and `[+]` into a store of zero. Either
// body walks the controlling cell to zero one wrap step at a time
// with no other effect.
func clearLoops(p ir.Program) ir.Program {
	q := make(ir.Program, 0, len(p))

	for _, x := range p {
		l, ok := x.(ir.Loop)
		if !ok {
			q = append(q, x)
			continue
		}

		l.Body = clearLoops(l.Body)

		if len(l.Body) == 1 {
			if a, ok := l.Body[0].(ir.Add); ok && a.Off == 0 && (a.Delta == 1 || a.Delta == 255) {
				q = append(q, ir.Set{Off: 0, Val: 0})
				continue
			}
		}

		q = append(q, l)
	}

	return q
}

// mulLoops resolves counted loops into closed-form multiply-adds.
// Bodies are resolved innermost first; a loop that does not provably
// run a known number of times is left alone.
func mulLoops(p ir.Program) ir.Program {
	q := make(ir.Program, 0, len(p))

	for _, x := range p {
		l, ok := x.(ir.Loop)
		if !ok {
			q = append(q, x)
			continue
		}

		l.Body = mulLoops(l.Body)

		if r, ok := resolveLoop(l.Body); ok {
			q = append(q, r...)
			continue
		}

		q = append(q, l)
	}

	return q
}

// resolveLoop analyzes a body as a flat per-offset effect sum.
//
// The body must consist of moves and adds only, with zero net pointer
// displacement and the controlling cell stepping by exactly +1 or -1.
// Then the loop runs a number of times fixed by the cell's entry
// value, and each other touched offset accumulates a fixed multiple
// of that value. The multiply-adds read the controlling cell, so they
// are emitted before the store that clears it.
func resolveLoop(body ir.Program) (ir.Program, bool) {
	d := 0
	offs := []int{} // first-touch order
	eff := map[int]byte{}

	for _, x := range body {
		switch x := x.(type) {
		case ir.Move:
			d += x.Delta
		case ir.Add:
			o := d + x.Off

			if _, ok := eff[o]; !ok {
				offs = append(offs, o)
			}

			eff[o] += x.Delta
		default:
			// loops, i/o, or already-resolved effects: not a closed form
			return nil, false
		}
	}

	if d != 0 {
		return nil, false
	}

	step := eff[0]
	if step != 1 && step != 255 {
		// step 0 may diverge, anything else may skip over zero
		return nil, false
	}

	r := make(ir.Program, 0, len(offs))

	for _, o := range offs {
		if o == 0 || eff[o] == 0 {
			continue
		}

		f := eff[o]
		if step == 1 {
			// counting up: 256-v iterations, negate the factor
			f = -f
		}

		r = append(r, ir.MulAdd{Src: 0, Dst: o, Factor: f})
	}

	r = append(r, ir.Set{Off: 0, Val: 0})

	return r, true
}
