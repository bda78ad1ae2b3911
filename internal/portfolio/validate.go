package portfolio

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/wonny/allocator/internal/score"
)

// ValidationError 입력 검증 실패 (solve 시작 전 거부)
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the whole problem before any search starts.
// 실패 시 첫 번째 위반을 ValidationError로 반환
func Validate(p *Portfolio) error {
	if p == nil {
		return ValidationError{"portfolio", "required"}
	}
	if err := p.Limits().Validate(); err != nil {
		return err
	}
	if len(p.Investments) == 0 {
		return ValidationError{"investmentList", "must not be empty"}
	}

	seen := make(map[string]int, len(p.Investments))
	for i, inv := range p.Investments {
		field := fmt.Sprintf("investmentList[%d]", i)
		if inv == nil || inv.Asset == nil {
			return ValidationError{field + ".asset", "required"}
		}
		if err := inv.Asset.validate(field + ".asset"); err != nil {
			return err
		}
		if math.IsNaN(inv.Amount) || math.IsInf(inv.Amount, 0) || inv.Amount <= 0 {
			return ValidationError{field + ".amount", "must be > 0"}
		}
		if prev, dup := seen[inv.Asset.ID]; dup {
			return ValidationError{field + ".asset.id", fmt.Sprintf("duplicate of investmentList[%d] (%s)", prev, inv.Asset.ID)}
		}
		seen[inv.Asset.ID] = i
	}
	return validateMagnitudes(p)
}

// validateMagnitudes rejects problems whose sums do not fit the fixed-point score.
func validateMagnitudes(p *Portfolio) error {
	if !score.FitsFixed(decimal.NewFromFloat(p.CashAvailable)) {
		return ValidationError{"cashAvailable", "too large for fixed-point scoring"}
	}

	var total, riskSum, returnSum decimal.Decimal
	for i, inv := range p.Investments {
		field := fmt.Sprintf("investmentList[%d]", i)
		amount := decimal.NewFromFloat(inv.Amount)

		total = total.Add(amount)
		if !score.FitsFixed(total) {
			return ValidationError{field + ".amount", "total amount too large for fixed-point scoring"}
		}
		riskSum = riskSum.Add(amount.Mul(decimal.NewFromFloat(inv.Asset.Risk)))
		if !score.FitsFixed(riskSum) {
			return ValidationError{field + ".asset.risk", "amount × risk sum too large for fixed-point scoring"}
		}
		returnSum = returnSum.Add(amount.Mul(decimal.NewFromFloat(inv.Asset.ExpectedReturn)))
		if !score.FitsFixed(returnSum) {
			return ValidationError{field + ".asset.expectedReturn", "amount × return sum too large for fixed-point scoring"}
		}
	}
	return nil
}

func validateNonNegative(v float64, field string) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ValidationError{field, "must be a finite number"}
	}
	if v < 0 {
		return ValidationError{field, fmt.Sprintf("must be >= 0, got %g", v)}
	}
	return nil
}

func validateFraction(v float64, field string) error {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return ValidationError{field, fmt.Sprintf("must be in [0, 1], got %g", v)}
	}
	return nil
}
