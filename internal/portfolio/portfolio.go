// Package portfolio holds the allocation problem model: assets, the per-asset
// decisions and the limits a solution must respect.
package portfolio

import (
	"github.com/wonny/allocator/internal/score"
)

// Portfolio is both the problem and, once solved, the solution.
// ⭐ SSOT: 한 번의 solve 동안 Investments 길이와 순서는 고정
type Portfolio struct {
	CashAvailable       float64       `json:"cashAvailable"`
	MaxAverageRisk      float64       `json:"maxAverageRisk"`      // e.g. 0.12 = 12%
	MaxSectorAllocation float64       `json:"maxSectorAllocation"` // e.g. 0.4 = 40%
	Investments         []*Investment `json:"investmentList"`
	Score               *score.Score  `json:"score,omitempty"` // nil until scored
}

// New creates a portfolio with one unallocated investment per asset.
func New(limits Limits, assets []*Asset) *Portfolio {
	investments := make([]*Investment, 0, len(assets))
	for _, a := range assets {
		investments = append(investments, NewInvestment(a))
	}
	return &Portfolio{
		CashAvailable:       limits.CashAvailable,
		MaxAverageRisk:      limits.MaxAverageRisk,
		MaxSectorAllocation: limits.MaxSectorAllocation,
		Investments:         investments,
	}
}

// Limits returns the three configured limits.
func (p *Portfolio) Limits() Limits {
	return Limits{
		CashAvailable:       p.CashAvailable,
		MaxAverageRisk:      p.MaxAverageRisk,
		MaxSectorAllocation: p.MaxSectorAllocation,
	}
}

// SectorLimit is the per-sector cap in currency units.
func (p *Portfolio) SectorLimit() float64 {
	return p.Limits().SectorLimit()
}

// TotalInvested sums the funded amount of allocated investments.
func (p *Portfolio) TotalInvested() float64 {
	total := 0.0
	for _, inv := range p.Investments {
		total += inv.FundedAmount()
	}
	return total
}

// AverageRisk is the amount-weighted mean risk, 0 when nothing is allocated.
func (p *Portfolio) AverageRisk() float64 {
	total := p.TotalInvested()
	if total == 0 {
		return 0
	}
	riskSum := 0.0
	for _, inv := range p.Investments {
		riskSum += inv.FundedAmount() * inv.Asset.Risk
	}
	return riskSum / total
}

// ExpectedReturn is the amount-weighted return sum of allocated investments.
func (p *Portfolio) ExpectedReturn() float64 {
	sum := 0.0
	for _, inv := range p.Investments {
		sum += inv.FundedAmount() * inv.Asset.ExpectedReturn
	}
	return sum
}

// SectorAllocation maps sector to invested amount; only sectors with an
// allocated investment appear.
func (p *Portfolio) SectorAllocation() map[string]float64 {
	sectors := make(map[string]float64)
	for _, inv := range p.Investments {
		if inv.Allocated {
			sectors[inv.Asset.Sector] += inv.Amount
		}
	}
	return sectors
}

// AllocatedCount returns how many investments are funded.
func (p *Portfolio) AllocatedCount() int {
	n := 0
	for _, inv := range p.Investments {
		if inv.Allocated {
			n++
		}
	}
	return n
}

// Allocation returns the decision flags in investment order.
func (p *Portfolio) Allocation() []bool {
	flags := make([]bool, len(p.Investments))
	for i, inv := range p.Investments {
		flags[i] = inv.Allocated
	}
	return flags
}

// SetAllocation overwrites the decision flags; len(flags) must match.
func (p *Portfolio) SetAllocation(flags []bool) {
	for i, inv := range p.Investments {
		inv.Allocated = flags[i]
	}
}

// Clone deep-copies the decisions. Assets are shared since they are immutable.
func (p *Portfolio) Clone() *Portfolio {
	c := *p
	c.Investments = make([]*Investment, len(p.Investments))
	for i, inv := range p.Investments {
		cp := *inv
		c.Investments[i] = &cp
	}
	if p.Score != nil {
		s := *p.Score
		c.Score = &s
	}
	return &c
}
