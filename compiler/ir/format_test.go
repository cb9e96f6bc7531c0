package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDump(t *testing.T) {
	b := Dump(nil, Program{
		Move{Delta: 2},
		Add{Off: 1, Delta: 255},
		Loop{Body: Program{
			MulAdd{Src: 0, Dst: 2, Factor: 3},
			MulAdd{Src: 0, Dst: 3, Factor: 255},
			Set{Off: 0, Val: 0},
		}},
		Output{Off: -1},
		Input{},
	})

	assert.Equal(t, `move 2
add [1], -1
loop {
  mul [2] += [0] * 3
  mul [3] += [0] * -1
  set [0], 0
}
out [-1]
in [0]
`, string(b))
}

func TestCount(t *testing.T) {
	p := Program{
		Add{Delta: 1},
		Loop{Body: Program{
			Loop{Body: Program{
				Move{Delta: 1},
			}},
		}},
	}

	assert.Equal(t, 4, Count(p))
}
