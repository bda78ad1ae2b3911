package solver

import (
	"time"

	"github.com/wonny/allocator/internal/portfolio"
	"github.com/wonny/allocator/internal/score"
)

// WorkerSummary describes one independent search of a parallel solve.
type WorkerSummary struct {
	Worker int               `json:"worker"`
	Seed   int64             `json:"seed"`
	Score  score.Score       `json:"score"`
	Steps  int               `json:"steps"`
	Reason TerminationReason `json:"reason"`
}

// Result is what a solve hands back to the caller.
// Portfolio is a solved copy; Portfolio.Score equals Score.
type Result struct {
	RunID            string               `json:"runId"`
	Portfolio        *portfolio.Portfolio `json:"portfolio"`
	Score            score.Score          `json:"score"`
	Feasible         bool                 `json:"feasible"`
	ConstructedScore score.Score          `json:"constructedScore"`
	Phase            Phase                `json:"-"`
	Reason           TerminationReason    `json:"reason"`
	Worker           int                  `json:"worker"`
	Seed             int64                `json:"seed"`
	Steps            int                  `json:"steps"`
	AcceptedMoves    int                  `json:"acceptedMoves"`
	Elapsed          time.Duration        `json:"elapsed"`
	Workers          []WorkerSummary      `json:"workers"`
}

func newResult(runID string, best searchResult, all []searchResult, elapsed time.Duration) *Result {
	workers := make([]WorkerSummary, len(all))
	for i, r := range all {
		workers[i] = WorkerSummary{
			Worker: r.worker,
			Seed:   r.seed,
			Score:  r.score,
			Steps:  r.steps,
			Reason: r.reason,
		}
	}

	return &Result{
		RunID:            runID,
		Portfolio:        best.portfolio,
		Score:            best.score,
		Feasible:         best.score.IsFeasible(),
		ConstructedScore: best.constructed,
		Phase:            best.phase,
		Reason:           best.reason,
		Worker:           best.worker,
		Seed:             best.seed,
		Steps:            best.steps,
		AcceptedMoves:    best.accepted,
		Elapsed:          elapsed,
		Workers:          workers,
	}
}

// Explain breaks the result score down per constraint.
func (r *Result) Explain() []ConstraintMatch {
	return NewScorer(r.Portfolio).Explain()
}

// WorkerScores returns each worker's best score in worker order.
func (r *Result) WorkerScores() []score.Score {
	scores := make([]score.Score, len(r.Workers))
	for i, w := range r.Workers {
		scores[i] = w.Score
	}
	return scores
}
