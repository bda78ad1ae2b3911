package solver

import (
	"context"
	"time"

	"github.com/wonny/allocator/internal/score"
)

// TerminationReason explains why a search stopped.
type TerminationReason string

const (
	ReasonNone            TerminationReason = ""
	ReasonBestScoreLimit  TerminationReason = "best_score_limit"
	ReasonTimeLimit       TerminationReason = "time_limit"
	ReasonStepLimit       TerminationReason = "step_limit"
	ReasonUnimprovedSteps TerminationReason = "unimproved_step_limit"
	ReasonCancelled       TerminationReason = "cancelled"
)

// termination decides when the search loop stops. It is queried once per step.
type termination struct {
	ctx             context.Context
	bestScoreLimit  *score.Limit
	deadline        time.Time
	stepLimit       int
	unimprovedLimit int
	now             func() time.Time
}

func newTermination(ctx context.Context, opts Options, start time.Time) *termination {
	t := &termination{
		ctx:             ctx,
		bestScoreLimit:  opts.BestScoreLimit,
		stepLimit:       opts.StepLimit,
		unimprovedLimit: opts.UnimprovedStepLimit,
		now:             time.Now,
	}
	if opts.TimeLimit > 0 {
		t.deadline = start.Add(opts.TimeLimit)
	}
	return t
}

// check returns ReasonNone while the search should continue.
// step is the number of completed steps, lastImproved the step that last raised the best score.
func (t *termination) check(step, lastImproved int, best score.Score) TerminationReason {
	if t.bestScoreLimit != nil && t.bestScoreLimit.Reached(best) {
		return ReasonBestScoreLimit
	}
	if t.ctx.Err() != nil {
		return ReasonCancelled
	}
	if t.stepLimit > 0 && step >= t.stepLimit {
		return ReasonStepLimit
	}
	if t.unimprovedLimit > 0 && step-lastImproved >= t.unimprovedLimit {
		return ReasonUnimprovedSteps
	}
	if !t.deadline.IsZero() && !t.now().Before(t.deadline) {
		return ReasonTimeLimit
	}
	return ReasonNone
}
