package portfolio

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/allocator/internal/score"
	"github.com/wonny/allocator/pkg/logger"
)

func sampleAssets() []*Asset {
	return []*Asset{
		{ID: "AAPL", Name: "Apple", Sector: "Tech", ExpectedReturn: 0.10, Risk: 0.08},
		{ID: "MSFT", Name: "Microsoft", Sector: "Tech", ExpectedReturn: 0.12, Risk: 0.14},
		{ID: "XOM", Name: "Exxon", Sector: "Energy", ExpectedReturn: 0.06, Risk: 0.04},
	}
}

func TestNewAsset(t *testing.T) {
	tests := []struct {
		name      string
		id        string
		assetName string
		sector    string
		ret       float64
		risk      float64
		wantField string
	}{
		{"valid", "A", "Alpha", "Tech", 0.1, 0.1, ""},
		{"zero risk allowed", "A", "Alpha", "Tech", 0.1, 0, ""},
		{"missing id", " ", "Alpha", "Tech", 0.1, 0.1, "asset.id"},
		{"missing name", "A", "", "Tech", 0.1, 0.1, "asset.name"},
		{"missing sector", "A", "Alpha", "", 0.1, 0.1, "asset.sector"},
		{"negative return", "A", "Alpha", "Tech", -0.1, 0.1, "asset.expectedReturn"},
		{"NaN risk", "A", "Alpha", "Tech", 0.1, math.NaN(), "asset.risk"},
		{"infinite return", "A", "Alpha", "Tech", math.Inf(1), 0.1, "asset.expectedReturn"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := NewAsset(tt.id, tt.assetName, tt.sector, tt.ret, tt.risk)
			if tt.wantField == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.id, a.ID)
				return
			}
			var verr ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.wantField, verr.Field)
			assert.Nil(t, a)
		})
	}
}

func TestAsset_ReturnRiskRatio(t *testing.T) {
	assert.InDelta(t, 2.0, (&Asset{ExpectedReturn: 0.1, Risk: 0.05}).ReturnRiskRatio(), 1e-12)
	assert.True(t, math.IsInf((&Asset{ExpectedReturn: 0.1}).ReturnRiskRatio(), 1))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(p *Portfolio)
		wantField string
	}{
		{"valid", func(*Portfolio) {}, ""},
		{"negative cash", func(p *Portfolio) { p.CashAvailable = -1 }, "cashAvailable"},
		{"risk above one", func(p *Portfolio) { p.MaxAverageRisk = 1.2 }, "maxAverageRisk"},
		{"sector fraction NaN", func(p *Portfolio) { p.MaxSectorAllocation = math.NaN() }, "maxSectorAllocation"},
		{"empty list", func(p *Portfolio) { p.Investments = nil }, "investmentList"},
		{"nil asset", func(p *Portfolio) { p.Investments[1].Asset = nil }, "investmentList[1].asset"},
		{"zero amount", func(p *Portfolio) { p.Investments[2].Amount = 0 }, "investmentList[2].amount"},
		{"bad asset", func(p *Portfolio) {
			p.Investments[0].Asset = &Asset{ID: "A", Name: "A", Sector: "Tech", Risk: -1}
		}, "investmentList[0].asset.risk"},
		{"duplicate id", func(p *Portfolio) {
			p.Investments[2].Asset = &Asset{ID: "AAPL", Name: "Again", Sector: "Tech"}
		}, "investmentList[2].asset.id"},
		{"cash too large", func(p *Portfolio) { p.CashAvailable = 1e16 }, "cashAvailable"},
		{"total amount too large", func(p *Portfolio) {
			for _, inv := range p.Investments {
				inv.Amount = 1e15
			}
		}, "investmentList[2].amount"},
		{"return sum too large", func(p *Portfolio) { p.Investments[0].Asset.ExpectedReturn = 1e12 }, "investmentList[0].asset.expectedReturn"},
		{"risk sum too large", func(p *Portfolio) { p.Investments[1].Asset.Risk = 1e12 }, "investmentList[1].asset.risk"},
		{"large but scorable", func(p *Portfolio) {
			p.CashAvailable = 1e14
			for _, inv := range p.Investments {
				inv.Amount = 1e14
			}
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(DefaultLimits(), sampleAssets())
			tt.modify(p)

			err := Validate(p)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var verr ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Equal(t, tt.wantField, verr.Field)
		})
	}

	assert.EqualError(t, Validate(nil), "portfolio: required")
}

func TestPortfolio_DerivedQueries(t *testing.T) {
	p := New(DefaultLimits(), sampleAssets())
	p.SetAllocation([]bool{true, true, false})

	assert.InDelta(t, 20_000, p.TotalInvested(), 1e-9)
	assert.InDelta(t, (0.08+0.14)/2, p.AverageRisk(), 1e-12)
	assert.InDelta(t, 2_200, p.ExpectedReturn(), 1e-9)
	assert.Equal(t, map[string]float64{"Tech": 20_000}, p.SectorAllocation())
	assert.Equal(t, 2, p.AllocatedCount())
	assert.Equal(t, []bool{true, true, false}, p.Allocation())
	assert.InDelta(t, 40_000, p.SectorLimit(), 1e-9)
}

func TestPortfolio_EmptyAllocation(t *testing.T) {
	p := New(DefaultLimits(), sampleAssets())

	assert.Zero(t, p.TotalInvested())
	assert.Zero(t, p.AverageRisk())
	assert.Zero(t, p.ExpectedReturn())
	assert.Empty(t, p.SectorAllocation())
}

func TestPortfolio_Clone(t *testing.T) {
	p := New(DefaultLimits(), sampleAssets())
	s := score.Of(-1, 2)
	p.Score = &s

	c := p.Clone()
	c.Investments[0].Allocated = true
	c.Score.Hard = 0

	assert.False(t, p.Investments[0].Allocated)
	assert.Equal(t, int64(-1), p.Score.Hard)
	assert.Same(t, p.Investments[0].Asset, c.Investments[0].Asset)
	assert.NotSame(t, p.Investments[0], c.Investments[0])
}

func TestConstructor_Construct(t *testing.T) {
	ctx := context.Background()

	t.Run("applies amount and flags", func(t *testing.T) {
		c := NewConstructor(DefaultLimits(), 5_000, logger.Nop())

		p, err := c.Construct(ctx, sampleAssets(), []bool{false, true, false})
		require.NoError(t, err)

		assert.Equal(t, []bool{false, true, false}, p.Allocation())
		for _, inv := range p.Investments {
			assert.Equal(t, 5_000.0, inv.Amount)
		}
		assert.Nil(t, p.Score)
	})

	t.Run("default amount", func(t *testing.T) {
		c := NewConstructor(DefaultLimits(), 0, logger.Nop())

		p, err := c.Construct(ctx, sampleAssets(), nil)
		require.NoError(t, err)

		assert.Equal(t, DefaultInvestmentAmount, p.Investments[0].Amount)
		assert.Equal(t, 0, p.AllocatedCount())
	})

	t.Run("flag length mismatch", func(t *testing.T) {
		c := NewConstructor(DefaultLimits(), 0, logger.Nop())

		_, err := c.Construct(ctx, sampleAssets(), []bool{true})

		var verr ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "investmentList", verr.Field)
	})

	t.Run("invalid limits", func(t *testing.T) {
		c := NewConstructor(Limits{CashAvailable: 1, MaxAverageRisk: 2, MaxSectorAllocation: 0.4}, 0, logger.Nop())

		_, err := c.Construct(ctx, sampleAssets(), nil)

		assert.ErrorContains(t, err, "maxAverageRisk")
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := NewConstructor(DefaultLimits(), 0, logger.Nop()).Construct(cctx, sampleAssets(), nil)

		assert.ErrorIs(t, err, context.Canceled)
	})
}
