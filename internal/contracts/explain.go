package contracts

import (
	"github.com/wonny/allocator/internal/portfolio"
	"github.com/wonny/allocator/internal/score"
	"github.com/wonny/allocator/internal/solver"
)

// ExplainResponse breaks the score of a given allocation down per constraint.
type ExplainResponse struct {
	Score       score.Score              `json:"score"`
	Feasible    bool                     `json:"feasible"`
	Constraints []solver.ConstraintMatch `json:"constraints"`
	Summary     SolveSummary             `json:"summary"`
}

// NewExplainResponse scores p as given, without searching.
func NewExplainResponse(p *portfolio.Portfolio) *ExplainResponse {
	scorer := solver.NewScorer(p)
	resp := NewPortfolioResponse(p)

	matches := scorer.Explain()
	if matches == nil {
		matches = []solver.ConstraintMatch{}
	}
	return &ExplainResponse{
		Score:       scorer.Current(),
		Feasible:    scorer.Current().IsFeasible(),
		Constraints: matches,
		Summary:     resp.Summary,
	}
}
