package audit

import (
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"

	"github.com/wonny/allocator/internal/score"
	"github.com/wonny/allocator/internal/solver"
	"github.com/wonny/allocator/internal/solverconfig"
)

// =============================================================================
// Allocation Reporter
// =============================================================================

// Reporter 배분 결과 리포트 생성기
// ⭐ SSOT: 결과 리포팅은 여기서만 (solve 결과는 읽기 전용)
type Reporter struct {
	log zerolog.Logger
}

// NewReporter 새 리포터 생성
func NewReporter(log zerolog.Logger) *Reporter {
	return &Reporter{
		log: log.With().Str("component", "audit.reporter").Logger(),
	}
}

// =============================================================================
// Report Types
// =============================================================================

// Report 배분 리포트
type Report struct {
	RunID       string                        `json:"run_id"`
	GeneratedAt time.Time                     `json:"generated_at"`
	Score       score.Score                   `json:"score"`
	Feasible    bool                          `json:"feasible"`
	Search      SearchSummary                 `json:"search"`
	Allocation  AllocationSummary             `json:"allocation"`
	Sectors     []SectorSummary               `json:"sectors"`
	Holdings    []Holding                     `json:"holdings"`
	Constraints []solver.ConstraintMatch      `json:"constraints"`
	Workers     *WorkerStats                  `json:"workers,omitempty"`
	Profile     *solverconfig.ProfileSnapshot `json:"profile,omitempty"`
}

// SearchSummary 탐색 통계
type SearchSummary struct {
	Reason           string      `json:"reason"`
	Steps            int         `json:"steps"`
	AcceptedMoves    int         `json:"accepted_moves"`
	ConstructedScore score.Score `json:"constructed_score"`
	Seed             int64       `json:"seed"`
	Worker           int         `json:"worker"`
	ElapsedMs        int64       `json:"elapsed_ms"`
}

// AllocationSummary 포트폴리오 전체 요약
type AllocationSummary struct {
	InvestmentCount int     `json:"investment_count"`
	AllocatedCount  int     `json:"allocated_count"`
	CashAvailable   float64 `json:"cash_available"`
	TotalInvested   float64 `json:"total_invested"`
	CashRemaining   float64 `json:"cash_remaining"` // 음수 = 예산 초과
	CashUsedPct     float64 `json:"cash_used_pct"`
	AverageRisk     float64 `json:"average_risk"`
	MaxAverageRisk  float64 `json:"max_average_risk"`
	ExpectedReturn  float64 `json:"expected_return"` // 금액 기준
	ReturnPct       float64 `json:"return_pct"`      // 투자금 대비
}

// SectorSummary 섹터별 배분
type SectorSummary struct {
	Sector   string  `json:"sector"`
	Invested float64 `json:"invested"`
	Weight   float64 `json:"weight"`    // 투자금 대비 비중
	CapUsage float64 `json:"cap_usage"` // 섹터 한도 대비 사용률
	Holdings int     `json:"holdings"`
	OverCap  bool    `json:"over_cap"`
}

// Holding 배분된 종목
type Holding struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Sector         string  `json:"sector"`
	Amount         float64 `json:"amount"`
	Weight         float64 `json:"weight"`
	ExpectedReturn float64 `json:"expected_return"`
	Risk           float64 `json:"risk"`
}

// WorkerStats 병렬 탐색 결과 분포 (soft 점수, 통화 단위)
type WorkerStats struct {
	Count         int     `json:"count"`
	FeasibleCount int     `json:"feasible_count"`
	MeanSoft      float64 `json:"mean_soft"`
	StdDevSoft    float64 `json:"stddev_soft"`
	BestSoft      float64 `json:"best_soft"`
	WorstSoft     float64 `json:"worst_soft"`
}

// =============================================================================
// Report Generation
// =============================================================================

// GenerateReport builds the report and attaches the profile snapshot, if any.
func (r *Reporter) GenerateReport(result *solver.Result, profile *solverconfig.ProfileSnapshot) *Report {
	report := Build(result)
	report.Profile = profile

	r.log.Info().
		Str("run_id", report.RunID).
		Str("score", report.Score.String()).
		Int("allocated", report.Allocation.AllocatedCount).
		Int("sectors", len(report.Sectors)).
		Msg("Allocation report generated")

	return report
}

// Build derives the report from a solve result. result is not modified.
func Build(result *solver.Result) *Report {
	p := result.Portfolio

	report := &Report{
		RunID:       result.RunID,
		GeneratedAt: time.Now(),
		Score:       result.Score,
		Feasible:    result.Feasible,
		Search: SearchSummary{
			Reason:           string(result.Reason),
			Steps:            result.Steps,
			AcceptedMoves:    result.AcceptedMoves,
			ConstructedScore: result.ConstructedScore,
			Seed:             result.Seed,
			Worker:           result.Worker,
			ElapsedMs:        result.Elapsed.Milliseconds(),
		},
		Constraints: result.Explain(),
	}

	total := p.TotalInvested()
	expected := p.ExpectedReturn()
	report.Allocation = AllocationSummary{
		InvestmentCount: len(p.Investments),
		AllocatedCount:  p.AllocatedCount(),
		CashAvailable:   p.CashAvailable,
		TotalInvested:   total,
		CashRemaining:   decimal.NewFromFloat(p.CashAvailable).Sub(decimal.NewFromFloat(total)).InexactFloat64(),
		CashUsedPct:     ratio(total, p.CashAvailable),
		AverageRisk:     p.AverageRisk(),
		MaxAverageRisk:  p.MaxAverageRisk,
		ExpectedReturn:  expected,
		ReturnPct:       ratio(expected, total),
	}

	report.Sectors = sectorBreakdown(result, total)

	for _, inv := range p.Investments {
		if !inv.Allocated {
			continue
		}
		report.Holdings = append(report.Holdings, Holding{
			ID:             inv.Asset.ID,
			Name:           inv.Asset.Name,
			Sector:         inv.Asset.Sector,
			Amount:         inv.Amount,
			Weight:         ratio(inv.Amount, total),
			ExpectedReturn: inv.Asset.ExpectedReturn,
			Risk:           inv.Asset.Risk,
		})
	}

	if len(result.Workers) > 1 {
		report.Workers = workerStats(result.WorkerScores())
	}

	return report
}

// sectorBreakdown lists allocated sectors by descending investment, then name.
func sectorBreakdown(result *solver.Result, total float64) []SectorSummary {
	p := result.Portfolio
	limit := p.SectorLimit()

	holdings := make(map[string]int)
	for _, inv := range p.Investments {
		if inv.Allocated {
			holdings[inv.Asset.Sector]++
		}
	}

	sectors := make([]SectorSummary, 0, len(holdings))
	for sector, invested := range p.SectorAllocation() {
		sectors = append(sectors, SectorSummary{
			Sector:   sector,
			Invested: invested,
			Weight:   ratio(invested, total),
			CapUsage: ratio(invested, limit),
			Holdings: holdings[sector],
			OverCap:  score.ToFixed(invested) > score.FixedProduct(p.CashAvailable, p.MaxSectorAllocation),
		})
	}
	sort.Slice(sectors, func(i, j int) bool {
		if sectors[i].Invested != sectors[j].Invested {
			return sectors[i].Invested > sectors[j].Invested
		}
		return sectors[i].Sector < sectors[j].Sector
	})
	return sectors
}

func workerStats(scores []score.Score) *WorkerStats {
	softs := make([]float64, len(scores))
	ws := &WorkerStats{Count: len(scores)}
	for i, s := range scores {
		softs[i] = score.FromFixed(s.Soft)
		if s.IsFeasible() {
			ws.FeasibleCount++
		}
	}

	ws.MeanSoft, ws.StdDevSoft = stat.MeanStdDev(softs, nil)

	sorted := append([]float64(nil), softs...)
	sort.Float64s(sorted)
	ws.WorstSoft = sorted[0]
	ws.BestSoft = sorted[len(sorted)-1]
	return ws
}

// ratio returns a/b, or 0 when b is 0.
func ratio(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}
