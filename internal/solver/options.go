package solver

import (
	"fmt"
	"time"

	"github.com/wonny/allocator/internal/score"
)

// Temperature holds simulated-annealing temperatures per score level, in
// fixed-point score units.
type Temperature struct {
	Hard float64
	Soft float64
}

// Options tunes one solve.
// ⭐ SSOT: 같은 입력 + 같은 Seed → 같은 결과 (시간 제한에 걸리지 않는 한)
type Options struct {
	Seed    int64
	Workers int // independent searches; the best one wins

	// Termination
	TimeLimit           time.Duration
	BestScoreLimit      *score.Limit // nil disables the early stop
	StepLimit           int          // 0 = unlimited
	UnimprovedStepLimit int          // 0 = unlimited

	// Construction
	SkipConstruction bool // start from the caller's allocation instead of the greedy one

	// Local search
	TabuTenure          int
	SwapSampleSize      int
	StartingTemperature Temperature
	CoolingRate         float64

	// Logging
	ProgressInterval time.Duration
}

// DefaultOptions mirrors the original demo policy: stop at the first
// feasible best score, or after 30 seconds.
func DefaultOptions() Options {
	limit := score.FeasibleLimit
	return Options{
		Seed:                42,
		Workers:             1,
		TimeLimit:           30 * time.Second,
		BestScoreLimit:      &limit,
		TabuTenure:          7,
		SwapSampleSize:      64,
		StartingTemperature: Temperature{Hard: 1_000_000, Soft: 50_000},
		CoolingRate:         0.995,
		ProgressInterval:    time.Second,
	}
}

// Validate checks option ranges.
func (o Options) Validate() error {
	if o.Workers < 1 {
		return fmt.Errorf("workers must be >= 1, got %d", o.Workers)
	}
	if o.TimeLimit <= 0 && o.StepLimit <= 0 && o.UnimprovedStepLimit <= 0 && o.BestScoreLimit == nil {
		return fmt.Errorf("at least one termination condition is required")
	}
	if o.TimeLimit < 0 || o.StepLimit < 0 || o.UnimprovedStepLimit < 0 {
		return fmt.Errorf("termination limits must be >= 0")
	}
	if o.TabuTenure < 0 || o.SwapSampleSize < 0 {
		return fmt.Errorf("tabu tenure and swap sample size must be >= 0")
	}
	if o.StartingTemperature.Hard < 0 || o.StartingTemperature.Soft < 0 {
		return fmt.Errorf("starting temperature must be >= 0")
	}
	if o.CoolingRate <= 0 || o.CoolingRate > 1 {
		return fmt.Errorf("cooling rate must be in (0, 1], got %g", o.CoolingRate)
	}
	return nil
}
