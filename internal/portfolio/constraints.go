package portfolio

// Limits defines the hard limits an allocation must respect.
// ⭐ SSOT: 예산/평균위험/섹터 한도는 여기서만 정의
type Limits struct {
	CashAvailable       float64 // 투자 가능 현금 (예산 한도)
	MaxAverageRisk      float64 // 가중 평균 위험 한도 (0.0 ~ 1.0)
	MaxSectorAllocation float64 // 섹터당 최대 비중 (0.0 ~ 1.0, 현금 대비)
}

// SectorLimit is CashAvailable × MaxSectorAllocation.
func (l Limits) SectorLimit() float64 {
	return l.CashAvailable * l.MaxSectorAllocation
}

// Validate checks ranges of all three limits.
func (l Limits) Validate() error {
	if err := validateNonNegative(l.CashAvailable, "cashAvailable"); err != nil {
		return err
	}
	if err := validateFraction(l.MaxAverageRisk, "maxAverageRisk"); err != nil {
		return err
	}
	return validateFraction(l.MaxSectorAllocation, "maxSectorAllocation")
}

// DefaultLimits returns the demo limits: 100,000 cash, 12% average risk,
// 40% per sector (a 40,000 sector cap).
func DefaultLimits() Limits {
	return Limits{
		CashAvailable:       100_000,
		MaxAverageRisk:      0.12,
		MaxSectorAllocation: 0.40,
	}
}
