package solver

import (
	"fmt"
	"math/rand"
)

// MoveKind distinguishes neighborhood moves.
type MoveKind uint8

const (
	// MoveFlip toggles one investment.
	MoveFlip MoveKind = iota
	// MoveSwap deallocates I and allocates J, keeping the allocated count.
	MoveSwap
)

func (k MoveKind) String() string {
	switch k {
	case MoveFlip:
		return "flip"
	case MoveSwap:
		return "swap"
	}
	return "unknown"
}

// Move is a change to the decision vector. J is -1 for flips.
// A move is its own undo.
type Move struct {
	Kind MoveKind
	I, J int
}

// Flip builds a flip of investment i.
func Flip(i int) Move { return Move{Kind: MoveFlip, I: i, J: -1} }

// Swap builds a swap of allocated investment on with unallocated investment off.
func Swap(on, off int) Move { return Move{Kind: MoveSwap, I: on, J: off} }

func (m Move) String() string {
	if m.Kind == MoveSwap {
		return fmt.Sprintf("swap(%d,%d)", m.I, m.J)
	}
	return fmt.Sprintf("flip(%d)", m.I)
}

// MoveGenerator enumerates the neighborhood of an allocation in seeded random order.
// Not safe for concurrent use; every search owns one.
type MoveGenerator struct {
	rng        *rand.Rand
	swapSample int

	buf []Move
	on  []int
	off []int
}

// NewMoveGenerator creates a generator for n decisions. swapSample caps the
// swap moves per neighborhood; 0 disables swaps.
func NewMoveGenerator(n, swapSample int, rng *rand.Rand) *MoveGenerator {
	return &MoveGenerator{
		rng:        rng,
		swapSample: swapSample,
		buf:        make([]Move, 0, n+swapSample),
		on:         make([]int, 0, n),
		off:        make([]int, 0, n),
	}
}

// Neighborhood returns every flip plus all swaps (or a uniform sample of
// swapSample swaps when there are more pairs), shuffled.
// The returned slice is reused by the next call.
func (g *MoveGenerator) Neighborhood(allocated []bool) []Move {
	g.buf = g.buf[:0]
	g.on = g.on[:0]
	g.off = g.off[:0]

	for i, a := range allocated {
		g.buf = append(g.buf, Flip(i))
		if a {
			g.on = append(g.on, i)
		} else {
			g.off = append(g.off, i)
		}
	}

	if g.swapSample > 0 && len(g.on) > 0 && len(g.off) > 0 {
		if len(g.on)*len(g.off) <= g.swapSample {
			for _, i := range g.on {
				for _, j := range g.off {
					g.buf = append(g.buf, Swap(i, j))
				}
			}
		} else {
			for k := 0; k < g.swapSample; k++ {
				i := g.on[g.rng.Intn(len(g.on))]
				j := g.off[g.rng.Intn(len(g.off))]
				g.buf = append(g.buf, Swap(i, j))
			}
		}
	}

	g.rng.Shuffle(len(g.buf), func(a, b int) { g.buf[a], g.buf[b] = g.buf[b], g.buf[a] })
	return g.buf
}
