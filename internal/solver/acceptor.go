package solver

import (
	"math"
	"math/rand"

	"github.com/wonny/allocator/internal/score"
)

// annealingAcceptor accepts every improvement and a worsening move with
// probability exp(diff/T) on the first level that worsens. Temperatures cool
// geometrically once per step.
type annealingAcceptor struct {
	hardTemp float64
	softTemp float64
	cooling  float64
	rng      *rand.Rand
}

func newAnnealingAcceptor(start Temperature, cooling float64, rng *rand.Rand) *annealingAcceptor {
	return &annealingAcceptor{
		hardTemp: start.Hard,
		softTemp: start.Soft,
		cooling:  cooling,
		rng:      rng,
	}
}

func (a *annealingAcceptor) accept(candidate, current score.Score) bool {
	if candidate.Better(current) {
		return true
	}

	diff := candidate.Sub(current)
	var p float64
	switch {
	case diff.Hard < 0:
		p = boltzmann(diff.Hard, a.hardTemp)
	case diff.Soft < 0:
		p = boltzmann(diff.Soft, a.softTemp)
	default:
		p = 1 // equal score
	}
	return a.rng.Float64() < p
}

func (a *annealingAcceptor) cool() {
	a.hardTemp *= a.cooling
	a.softTemp *= a.cooling
}

func boltzmann(diff int64, temp float64) float64 {
	if temp <= 0 {
		return 0
	}
	return math.Exp(float64(diff) / temp)
}
