package solver

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wonny/allocator/internal/portfolio"
	"github.com/wonny/allocator/pkg/logger"
)

func asset(id, sector string, expectedReturn, risk float64) *portfolio.Asset {
	return &portfolio.Asset{
		ID:             id,
		Name:           "Asset " + id,
		Sector:         sector,
		ExpectedReturn: expectedReturn,
		Risk:           risk,
	}
}

func newPortfolio(t *testing.T, limits portfolio.Limits, assets ...*portfolio.Asset) *portfolio.Portfolio {
	t.Helper()
	p := portfolio.New(limits, assets)
	require.NoError(t, portfolio.Validate(p))
	return p
}

// demoPortfolio mirrors the bundled sample: 100k cash, 12% risk, 40% per sector.
func demoPortfolio(t *testing.T) *portfolio.Portfolio {
	t.Helper()
	sectors := []string{"Tech", "Health", "Energy", "Finance"}
	assets := make([]*portfolio.Asset, 0, 16)
	for i := 0; i < 16; i++ {
		assets = append(assets, asset(
			fmt.Sprintf("A%02d", i),
			sectors[i%len(sectors)],
			0.04+float64(i%7)*0.015,
			0.05+float64(i%5)*0.03,
		))
	}
	return newPortfolio(t, portfolio.DefaultLimits(), assets...)
}

// searchOptions disables the early stop so the local search actually runs.
func searchOptions(steps int) Options {
	opts := DefaultOptions()
	opts.BestScoreLimit = nil
	opts.StepLimit = steps
	opts.ProgressInterval = 0
	return opts
}

func newTestSolver(opts Options) *Solver {
	return New(opts, logger.Nop())
}
