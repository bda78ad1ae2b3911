package portfolio

// DefaultInvestmentAmount is the fixed demo funding per allocated asset.
const DefaultInvestmentAmount = 10_000.0

// Investment is the 0/1 decision for one asset.
// Allocated is only written by the solver, on its own clone of the portfolio.
type Investment struct {
	Asset     *Asset  `json:"asset"`
	Allocated bool    `json:"allocated"`
	Amount    float64 `json:"amount"` // 배분 시 투자 금액 (고정)
}

// NewInvestment creates an unallocated decision for asset with the default amount.
func NewInvestment(asset *Asset) *Investment {
	return &Investment{Asset: asset, Amount: DefaultInvestmentAmount}
}

// FundedAmount returns Amount when allocated, otherwise 0.
func (i *Investment) FundedAmount() float64 {
	if i.Allocated {
		return i.Amount
	}
	return 0
}
