package portfolio

import (
	"context"
	"fmt"

	"github.com/wonny/allocator/pkg/logger"
)

// Constructor builds a validated problem from raw assets.
// ⭐ SSOT: 문제(Portfolio) 생성과 검증은 여기서만
type Constructor struct {
	limits Limits
	amount float64
	logger *logger.Logger
}

// NewConstructor creates a constructor. amount <= 0 falls back to DefaultInvestmentAmount.
func NewConstructor(limits Limits, amount float64, logger *logger.Logger) *Constructor {
	if amount <= 0 {
		amount = DefaultInvestmentAmount
	}
	return &Constructor{
		limits: limits,
		amount: amount,
		logger: logger,
	}
}

// Construct creates the problem. allocated may be nil; otherwise it seeds the
// decision flags (used to score a caller-supplied allocation).
func (c *Constructor) Construct(ctx context.Context, assets []*Asset, allocated []bool) (*Portfolio, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if allocated != nil && len(allocated) != len(assets) {
		return nil, ValidationError{"investmentList", fmt.Sprintf("allocated flags (%d) do not match assets (%d)", len(allocated), len(assets))}
	}

	p := New(c.limits, assets)
	for i, inv := range p.Investments {
		inv.Amount = c.amount
		if allocated != nil {
			inv.Allocated = allocated[i]
		}
	}

	if err := Validate(p); err != nil {
		c.logger.WithError(err).Warn("Portfolio rejected")
		return nil, err
	}

	c.logger.WithFields(map[string]interface{}{
		"investments":    len(p.Investments),
		"cash_available": p.CashAvailable,
		"sector_limit":   p.SectorLimit(),
		"max_avg_risk":   p.MaxAverageRisk,
	}).Debug("Portfolio constructed")

	return p, nil
}
