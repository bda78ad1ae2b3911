package portfolio

import (
	"math"
	"strings"
)

// Asset is an investable instrument. Read-only once built.
type Asset struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Sector         string  `json:"sector"`
	ExpectedReturn float64 `json:"expectedReturn"` // 기대수익률 (0.10 = 10%)
	Risk           float64 `json:"risk"`           // 위험도 (0.15 = 15%)
}

// NewAsset builds a validated asset.
// 수익률/위험도 음수는 거부 (fail-fast)
func NewAsset(id, name, sector string, expectedReturn, risk float64) (*Asset, error) {
	a := &Asset{
		ID:             id,
		Name:           name,
		Sector:         sector,
		ExpectedReturn: expectedReturn,
		Risk:           risk,
	}
	if err := a.validate("asset"); err != nil {
		return nil, err
	}
	return a, nil
}

// ReturnRiskRatio is the greedy construction key; zero risk ranks first.
func (a *Asset) ReturnRiskRatio() float64 {
	if a.Risk == 0 {
		return math.Inf(1)
	}
	return a.ExpectedReturn / a.Risk
}

func (a *Asset) validate(field string) error {
	if strings.TrimSpace(a.ID) == "" {
		return ValidationError{field + ".id", "required"}
	}
	if strings.TrimSpace(a.Name) == "" {
		return ValidationError{field + ".name", "required"}
	}
	if strings.TrimSpace(a.Sector) == "" {
		return ValidationError{field + ".sector", "required"}
	}
	if err := validateNonNegative(a.ExpectedReturn, field+".expectedReturn"); err != nil {
		return err
	}
	return validateNonNegative(a.Risk, field+".risk")
}
