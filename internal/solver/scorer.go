package solver

import (
	"math"
	"sort"

	"github.com/wonny/allocator/internal/portfolio"
	"github.com/wonny/allocator/internal/score"
)

// Constraint names reported by Explain.
const (
	ConstraintBudget      = "Budget exceeded"
	ConstraintAverageRisk = "Average risk exceeded"
	ConstraintSector      = "Sector allocation exceeded"
	ConstraintReturn      = "Maximise return"
)

// Scorer evaluates allocations of one portfolio. It keeps running aggregates
// so a single flip or swap is scored in O(1).
// ⭐ SSOT: 한도 값은 생성자 인자로만 전달 (전역 상태 없음)
type Scorer struct {
	// per investment, fixed-point
	amount  []int64
	riskW   []int64
	returnW []int64
	sector  []int

	sectorNames []string
	sectorIndex map[string]int

	cashCap    int64
	sectorCap  int64
	maxAvgRisk float64

	// working state
	allocated    []bool
	total        int64
	riskSum      int64
	returnSum    int64
	sectorSum    []int64
	sectorExcess int64
}

// NewScorer precomputes fixed-point quantities for p and loads its current allocation.
func NewScorer(p *portfolio.Portfolio) *Scorer {
	n := len(p.Investments)
	s := &Scorer{
		amount:      make([]int64, n),
		riskW:       make([]int64, n),
		returnW:     make([]int64, n),
		sector:      make([]int, n),
		sectorIndex: make(map[string]int),
		cashCap:     score.ToFixed(p.CashAvailable),
		sectorCap:   score.FixedProduct(p.CashAvailable, p.MaxSectorAllocation),
		maxAvgRisk:  p.MaxAverageRisk,
		allocated:   make([]bool, n),
	}

	for i, inv := range p.Investments {
		s.amount[i] = score.ToFixed(inv.Amount)
		s.riskW[i] = score.FixedProduct(inv.Amount, inv.Asset.Risk)
		s.returnW[i] = score.FixedProduct(inv.Amount, inv.Asset.ExpectedReturn)

		idx, ok := s.sectorIndex[inv.Asset.Sector]
		if !ok {
			idx = len(s.sectorNames)
			s.sectorIndex[inv.Asset.Sector] = idx
			s.sectorNames = append(s.sectorNames, inv.Asset.Sector)
		}
		s.sector[i] = idx
	}
	s.sectorSum = make([]int64, len(s.sectorNames))

	s.Load(p.Allocation())
	return s
}

// Evaluate scores p from scratch.
func Evaluate(p *portfolio.Portfolio) score.Score {
	return NewScorer(p).FullScore()
}

// Len returns the number of decisions.
func (s *Scorer) Len() int { return len(s.allocated) }

// Load replaces the working allocation and rebuilds every aggregate.
func (s *Scorer) Load(flags []bool) {
	copy(s.allocated, flags)
	s.total, s.riskSum, s.returnSum = 0, 0, 0
	for k := range s.sectorSum {
		s.sectorSum[k] = 0
	}
	for i, on := range s.allocated {
		if !on {
			continue
		}
		s.total += s.amount[i]
		s.riskSum += s.riskW[i]
		s.returnSum += s.returnW[i]
		s.sectorSum[s.sector[i]] += s.amount[i]
	}
	s.sectorExcess = 0
	for _, sum := range s.sectorSum {
		s.sectorExcess += s.overCap(sum)
	}
}

// Allocated reports the working flag of investment i.
func (s *Scorer) Allocated(i int) bool { return s.allocated[i] }

// Allocation returns a copy of the working flags.
func (s *Scorer) Allocation() []bool {
	out := make([]bool, len(s.allocated))
	copy(out, s.allocated)
	return out
}

// Current returns the score of the working allocation from the aggregates.
func (s *Scorer) Current() score.Score {
	return s.compose(s.total, s.riskSum, s.returnSum, s.sectorExcess)
}

// FullScore rescans every investment, ignoring the cached aggregates.
func (s *Scorer) FullScore() score.Score {
	var total, riskSum, returnSum int64
	sectorSum := make([]int64, len(s.sectorNames))
	for i, on := range s.allocated {
		if !on {
			continue
		}
		total += s.amount[i]
		riskSum += s.riskW[i]
		returnSum += s.returnW[i]
		sectorSum[s.sector[i]] += s.amount[i]
	}
	var excess int64
	for _, sum := range sectorSum {
		excess += s.overCap(sum)
	}
	return s.compose(total, riskSum, returnSum, excess)
}

// Peek returns the score the working allocation would have after m, without applying it.
func (s *Scorer) Peek(m Move) score.Score {
	total, riskSum, returnSum, excess := s.total, s.riskSum, s.returnSum, s.sectorExcess

	di := s.direction(m.I)
	total += di * s.amount[m.I]
	riskSum += di * s.riskW[m.I]
	returnSum += di * s.returnW[m.I]
	si := s.sector[m.I]

	if m.J < 0 {
		old := s.sectorSum[si]
		excess += s.overCap(old+di*s.amount[m.I]) - s.overCap(old)
		return s.compose(total, riskSum, returnSum, excess)
	}

	dj := s.direction(m.J)
	total += dj * s.amount[m.J]
	riskSum += dj * s.riskW[m.J]
	returnSum += dj * s.returnW[m.J]
	sj := s.sector[m.J]

	if si == sj {
		old := s.sectorSum[si]
		excess += s.overCap(old+di*s.amount[m.I]+dj*s.amount[m.J]) - s.overCap(old)
	} else {
		oldI, oldJ := s.sectorSum[si], s.sectorSum[sj]
		excess += s.overCap(oldI+di*s.amount[m.I]) - s.overCap(oldI)
		excess += s.overCap(oldJ+dj*s.amount[m.J]) - s.overCap(oldJ)
	}
	return s.compose(total, riskSum, returnSum, excess)
}

// Delta returns Peek(m) - Current().
func (s *Scorer) Delta(m Move) score.Score {
	return s.Peek(m).Sub(s.Current())
}

// Apply performs m on the working allocation.
func (s *Scorer) Apply(m Move) {
	s.flip(m.I)
	if m.J >= 0 {
		s.flip(m.J)
	}
}

func (s *Scorer) flip(i int) {
	d := s.direction(i)
	s.total += d * s.amount[i]
	s.riskSum += d * s.riskW[i]
	s.returnSum += d * s.returnW[i]

	k := s.sector[i]
	old := s.sectorSum[k]
	s.sectorSum[k] = old + d*s.amount[i]
	s.sectorExcess += s.overCap(s.sectorSum[k]) - s.overCap(old)

	s.allocated[i] = !s.allocated[i]
}

// direction is +1 when flipping i allocates it, -1 when it deallocates it.
func (s *Scorer) direction(i int) int64 {
	if s.allocated[i] {
		return -1
	}
	return 1
}

func (s *Scorer) overCap(sectorSum int64) int64 {
	if sectorSum > s.sectorCap {
		return sectorSum - s.sectorCap
	}
	return 0
}

func (s *Scorer) budgetPenalty(total int64) int64 {
	if total > s.cashCap {
		return total - s.cashCap
	}
	return 0
}

func (s *Scorer) riskPenalty(total, riskSum int64) int64 {
	if total <= 0 {
		return 0
	}
	limit := int64(math.Round(float64(total) * s.maxAvgRisk))
	if riskSum > limit {
		return riskSum - limit
	}
	return 0
}

func (s *Scorer) compose(total, riskSum, returnSum, sectorExcess int64) score.Score {
	hard := s.budgetPenalty(total) + s.riskPenalty(total, riskSum) + sectorExcess
	return score.Score{Hard: -hard, Soft: returnSum}
}

// TotalInvested is the invested amount of the working allocation.
func (s *Scorer) TotalInvested() float64 { return score.FromFixed(s.total) }

// AverageRisk is the amount-weighted risk of the working allocation, 0 if empty.
func (s *Scorer) AverageRisk() float64 {
	if s.total == 0 {
		return 0
	}
	return float64(s.riskSum) / float64(s.total)
}

// SectorInvested is the invested amount in sector (0 for unknown sectors).
func (s *Scorer) SectorInvested(sector string) float64 {
	k, ok := s.sectorIndex[sector]
	if !ok {
		return 0
	}
	return score.FromFixed(s.sectorSum[k])
}

// ConstraintMatch is one constraint's contribution to the score.
type ConstraintMatch struct {
	Constraint string      `json:"constraint"`
	Sector     string      `json:"sector,omitempty"`
	Score      score.Score `json:"score"`
}

// Explain breaks the working score down per constraint. Only non-zero
// contributions are returned; the sum of all matches equals Current().
func (s *Scorer) Explain() []ConstraintMatch {
	var matches []ConstraintMatch

	if p := s.budgetPenalty(s.total); p > 0 {
		matches = append(matches, ConstraintMatch{Constraint: ConstraintBudget, Score: score.Of(-p, 0)})
	}
	if p := s.riskPenalty(s.total, s.riskSum); p > 0 {
		matches = append(matches, ConstraintMatch{Constraint: ConstraintAverageRisk, Score: score.Of(-p, 0)})
	}

	var sectors []ConstraintMatch
	for k, sum := range s.sectorSum {
		if p := s.overCap(sum); p > 0 {
			sectors = append(sectors, ConstraintMatch{
				Constraint: ConstraintSector,
				Sector:     s.sectorNames[k],
				Score:      score.Of(-p, 0),
			})
		}
	}
	sort.Slice(sectors, func(a, b int) bool { return sectors[a].Sector < sectors[b].Sector })
	matches = append(matches, sectors...)

	if s.returnSum != 0 {
		matches = append(matches, ConstraintMatch{Constraint: ConstraintReturn, Score: score.Of(0, s.returnSum)})
	}
	return matches
}
