// Package solver finds a hard-feasible, return-maximizing 0/1 allocation with
// greedy construction followed by a tabu / simulated-annealing local search.
package solver

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/wonny/allocator/internal/portfolio"
	"github.com/wonny/allocator/pkg/logger"
)

// Solver is the engine entry point. It holds no per-solve state, so one
// Solver may serve concurrent Solve calls.
type Solver struct {
	opts   Options
	logger *logger.Logger
}

// New creates a solver.
func New(opts Options, log *logger.Logger) *Solver {
	return &Solver{
		opts:   opts,
		logger: log.Component("solver"),
	}
}

// Options returns the solver configuration.
func (s *Solver) Options() Options {
	return s.opts
}

// Solve validates p, searches on private copies of it and returns the best
// allocation found. p itself is never modified.
// Input errors are portfolio.ValidationError; an infeasible best score is not an error.
func (s *Solver) Solve(ctx context.Context, p *portfolio.Portfolio) (*Result, error) {
	if err := portfolio.Validate(p); err != nil {
		return nil, err
	}
	if err := s.opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid solver options: %w", err)
	}

	runID := uuid.NewString()
	log := s.logger.WithField("run_id", runID)
	start := time.Now()

	log.WithFields(map[string]interface{}{
		"investments": len(p.Investments),
		"workers":     s.opts.Workers,
		"seed":        s.opts.Seed,
		"time_limit":  s.opts.TimeLimit.String(),
	}).Info("Solve started")

	var results []searchResult
	if s.opts.Workers == 1 {
		results = []searchResult{newSearch(p.Clone(), s.opts, s.opts.Seed, 0, log).run(ctx, start)}
	} else {
		var err error
		if results, err = s.solveParallel(ctx, p, start, log); err != nil {
			return nil, err
		}
	}

	result := newResult(runID, pickBest(results), results, time.Since(start))

	log.WithFields(map[string]interface{}{
		"score":     result.Score.String(),
		"feasible":  result.Feasible,
		"allocated": result.Portfolio.AllocatedCount(),
		"steps":     result.Steps,
		"reason":    string(result.Reason),
		"elapsed":   result.Elapsed.String(),
	}).Info("Solve finished")

	return result, nil
}

// solveParallel runs one search per worker, each on its own clone with seed
// Seed+worker, and collects their results over a channel.
// Workers are not capped at GOMAXPROCS: all of them start at once and share the
// same deadline, so none is queued past it.
func (s *Solver) solveParallel(ctx context.Context, p *portfolio.Portfolio, start time.Time, log *logger.Logger) ([]searchResult, error) {
	out := make(chan searchResult, s.opts.Workers)

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < s.opts.Workers; w++ {
		worker := w
		g.Go(func() error {
			out <- newSearch(p.Clone(), s.opts, s.opts.Seed+int64(worker), worker, log).run(gctx, start)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	close(out)

	results := make([]searchResult, 0, s.opts.Workers)
	for r := range out {
		results = append(results, r)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].worker < results[j].worker })
	return results, nil
}

// pickBest returns the best-scoring result; ties go to the lowest worker index.
// results must be ordered by worker.
func pickBest(results []searchResult) searchResult {
	best := results[0]
	for _, r := range results[1:] {
		if r.score.Better(best.score) {
			best = r
		}
	}
	return best
}
