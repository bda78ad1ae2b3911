package contracts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/wonny/allocator/internal/portfolio"
	"github.com/wonny/allocator/internal/score"
	"github.com/wonny/allocator/internal/solver"
	"github.com/wonny/allocator/pkg/logger"
)

// PortfolioRequest is the JSON problem definition.
// ⭐ SSOT: 외부 JSON 필드명은 여기서만 정의
type PortfolioRequest struct {
	CashAvailable       float64         `json:"cashAvailable"`
	MaxAverageRisk      float64         `json:"maxAverageRisk"`
	MaxSectorAllocation float64         `json:"maxSectorAllocation"`
	InvestmentAmount    float64         `json:"investmentAmount,omitempty"` // 0 = 기본 10,000
	InvestmentList      []InvestmentDTO `json:"investmentList"`

	// 이전 solve 응답을 다시 입력할 때만 존재. 점수는 항상 재계산
	Score   *score.Score  `json:"score,omitempty"`
	Summary *SolveSummary `json:"summary,omitempty"`
}

// AssetDTO is one asset on the wire.
type AssetDTO struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Sector         string  `json:"sector"`
	ExpectedReturn float64 `json:"expectedReturn"`
	Risk           float64 `json:"risk"`
}

// InvestmentDTO is one decision on the wire. Allocated is optional on input.
type InvestmentDTO struct {
	Asset     AssetDTO `json:"asset"`
	Allocated bool     `json:"allocated"`
	Amount    float64  `json:"amount,omitempty"`
}

// PortfolioResponse echoes the request shape with decisions, score and summary filled in.
type PortfolioResponse struct {
	CashAvailable       float64         `json:"cashAvailable"`
	MaxAverageRisk      float64         `json:"maxAverageRisk"`
	MaxSectorAllocation float64         `json:"maxSectorAllocation"`
	InvestmentList      []InvestmentDTO `json:"investmentList"`
	Score               score.Score     `json:"score"` // "0hard/3000000soft" (×1000 units)
	Summary             SolveSummary    `json:"summary"`
}

// SolveSummary aggregates a scored allocation. Solve fields are empty for explain.
type SolveSummary struct {
	Feasible         bool               `json:"feasible"`
	AllocatedCount   int                `json:"allocatedCount"`
	TotalInvested    float64            `json:"totalInvested"`
	AverageRisk      float64            `json:"averageRisk"`
	ExpectedReturn   float64            `json:"expectedReturn"`
	SectorAllocation map[string]float64 `json:"sectorAllocation"`

	RunID     string `json:"runId,omitempty"`
	Reason    string `json:"reason,omitempty"`
	Steps     int    `json:"steps,omitempty"`
	Seed      int64  `json:"seed,omitempty"`
	Worker    int    `json:"worker,omitempty"`
	ElapsedMs int64  `json:"elapsedMs,omitempty"`
}

// DecodeRequest reads one request. Unknown fields are rejected.
func DecodeRequest(r io.Reader) (*PortfolioRequest, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var req PortfolioRequest
	if err := dec.Decode(&req); err != nil {
		return nil, fmt.Errorf("decode portfolio request: %w", err)
	}
	return &req, nil
}

// Limits returns the request's three limits.
func (r *PortfolioRequest) Limits() portfolio.Limits {
	return portfolio.Limits{
		CashAvailable:       r.CashAvailable,
		MaxAverageRisk:      r.MaxAverageRisk,
		MaxSectorAllocation: r.MaxSectorAllocation,
	}
}

// ToPortfolio builds and validates the problem.
// Per-investment amounts override InvestmentAmount when set.
func (r *PortfolioRequest) ToPortfolio(ctx context.Context, log *logger.Logger) (*portfolio.Portfolio, error) {
	assets := make([]*portfolio.Asset, len(r.InvestmentList))
	allocated := make([]bool, len(r.InvestmentList))
	for i, inv := range r.InvestmentList {
		a := inv.Asset
		assets[i] = &portfolio.Asset{
			ID:             a.ID,
			Name:           a.Name,
			Sector:         a.Sector,
			ExpectedReturn: a.ExpectedReturn,
			Risk:           a.Risk,
		}
		allocated[i] = inv.Allocated
	}

	constructor := portfolio.NewConstructor(r.Limits(), r.InvestmentAmount, log)
	p, err := constructor.Construct(ctx, assets, allocated)
	if err != nil {
		return nil, err
	}

	overridden := false
	for i, inv := range r.InvestmentList {
		if inv.Amount != 0 {
			p.Investments[i].Amount = inv.Amount
			overridden = true
		}
	}
	if overridden {
		if err := portfolio.Validate(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// NewPortfolioResponse renders a scored portfolio. The score is recomputed
// when p carries none.
func NewPortfolioResponse(p *portfolio.Portfolio) *PortfolioResponse {
	s := solver.Evaluate(p)
	if p.Score != nil {
		s = *p.Score
	}

	list := make([]InvestmentDTO, len(p.Investments))
	for i, inv := range p.Investments {
		list[i] = InvestmentDTO{
			Asset: AssetDTO{
				ID:             inv.Asset.ID,
				Name:           inv.Asset.Name,
				Sector:         inv.Asset.Sector,
				ExpectedReturn: inv.Asset.ExpectedReturn,
				Risk:           inv.Asset.Risk,
			},
			Allocated: inv.Allocated,
			Amount:    inv.Amount,
		}
	}

	sectors := p.SectorAllocation()
	for k, v := range sectors {
		sectors[k] = round(v, 2)
	}

	return &PortfolioResponse{
		CashAvailable:       p.CashAvailable,
		MaxAverageRisk:      p.MaxAverageRisk,
		MaxSectorAllocation: p.MaxSectorAllocation,
		InvestmentList:      list,
		Score:               s,
		Summary: SolveSummary{
			Feasible:         s.IsFeasible(),
			AllocatedCount:   p.AllocatedCount(),
			TotalInvested:    round(p.TotalInvested(), 2),
			AverageRisk:      round(p.AverageRisk(), 6),
			ExpectedReturn:   round(p.ExpectedReturn(), 2),
			SectorAllocation: sectors,
		},
	}
}

// NewSolveResponse renders a solve result.
func NewSolveResponse(result *solver.Result) *PortfolioResponse {
	resp := NewPortfolioResponse(result.Portfolio)
	resp.Summary.RunID = result.RunID
	resp.Summary.Reason = string(result.Reason)
	resp.Summary.Steps = result.Steps
	resp.Summary.Seed = result.Seed
	resp.Summary.Worker = result.Worker
	resp.Summary.ElapsedMs = result.Elapsed.Milliseconds()
	return resp
}

// round rounds half away from zero at places decimals.
func round(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}
