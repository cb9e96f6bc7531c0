package ir

type (
	// Program is an ordered instruction sequence.
	// The top level and every loop body are each a Program.
	Program []Inst

	// Inst is a tagged variant over the instruction structs below.
	Inst interface{}

	// Move displaces the cell pointer by Delta.
	Move struct {
		Delta int
	}

	// Add adds Delta to the cell at pointer+Off, wrapping mod 256.
	Add struct {
		Off   int
		Delta byte
	}

	// Set assigns the cell at pointer+Off. Produced by optimization only.
	Set struct {
		Off int
		Val byte
	}

	// Output emits the byte at pointer+Off.
	Output struct {
		Off int
	}

	// Input reads one byte into the cell at pointer+Off.
	Input struct {
		Off int
	}

	// Loop runs Body while the cell at the pointer is nonzero,
	// re-testing after each iteration. It exclusively owns Body.
	Loop struct {
		Body Program
	}

	// MulAdd adds Factor * cell[pointer+Src] to cell[pointer+Dst],
	// wrapping mod 256. Produced by optimization only.
	MulAdd struct {
		Src    int
		Dst    int
		Factor byte
	}
)

// Count returns the number of instructions, loop bodies included.
func Count(p Program) (n int) {
	for _, x := range p {
		n++

		if l, ok := x.(Loop); ok {
			n += Count(l.Body)
		}
	}

	return n
}
