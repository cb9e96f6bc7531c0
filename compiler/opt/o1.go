package opt

import (
	"github.com/NKID00/sbfnj/compiler/ir"
)

// coalesce merges runs of pointer moves and runs of adds at the same
// offset, dropping the net-zero results. Merging is done against the
// tail of the output, so cancelled moves expose further merges.
func coalesce(p ir.Program) ir.Program {
	q := make(ir.Program, 0, len(p))

	for _, x := range p {
		switch x := x.(type) {
		case ir.Move:
			if len(q) != 0 {
				if prev, ok := q[len(q)-1].(ir.Move); ok {
					x.Delta += prev.Delta
					q = q[:len(q)-1]
				}
			}

			if x.Delta != 0 {
				q = append(q, x)
			}
		case ir.Add:
			if len(q) != 0 {
				if prev, ok := q[len(q)-1].(ir.Add); ok && prev.Off == x.Off {
					x.Delta += prev.Delta
					q = q[:len(q)-1]
				}
			}

			if x.Delta != 0 {
				q = append(q, x)
			}
		case ir.Loop:
			x.Body = coalesce(x.Body)
			q = append(q, x)
		default:
			q = append(q, x)
		}
	}

	return q
}

// foldOffsets absorbs straight-line pointer moves into the offsets of
// the following cell instructions. The pending displacement is flushed
// as a single move before each loop and at the end of the block, so
// the pointer is correct wherever it is actually observed.
func foldOffsets(p ir.Program) ir.Program {
	q := make(ir.Program, 0, len(p))
	d := 0

	flush := func() {
		if d != 0 {
			q = append(q, ir.Move{Delta: d})
			d = 0
		}
	}

	for _, x := range p {
		switch x := x.(type) {
		case ir.Move:
			d += x.Delta
		case ir.Add:
			x.Off += d
			q = append(q, x)
		case ir.Set:
			x.Off += d
			q = append(q, x)
		case ir.Output:
			x.Off += d
			q = append(q, x)
		case ir.Input:
			x.Off += d
			q = append(q, x)
		case ir.MulAdd:
			x.Src += d
			x.Dst += d
			q = append(q, x)
		case ir.Loop:
			flush()

			x.Body = foldOffsets(x.Body)
			q = append(q, x)
		default:
			flush()
			q = append(q, x)
		}
	}

	flush()

	return q
}

// deadCode drops no-op arithmetic and loops that cannot start because
// the controlling cell was just set to zero.
func deadCode(p ir.Program) ir.Program {
	q := make(ir.Program, 0, len(p))

	for _, x := range p {
		switch x := x.(type) {
		case ir.Move:
			if x.Delta == 0 {
				continue
			}

			q = append(q, x)
		case ir.Add:
			if x.Delta == 0 {
				continue
			}

			q = append(q, x)
		case ir.Loop:
			if len(q) != 0 {
				if s, ok := q[len(q)-1].(ir.Set); ok && s.Off == 0 && s.Val == 0 {
					continue
				}
			}

			x.Body = deadCode(x.Body)
			q = append(q, x)
		default:
			q = append(q, x)
		}
	}

	return q
}
