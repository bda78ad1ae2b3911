package solver

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/wonny/allocator/internal/portfolio"
	"github.com/wonny/allocator/internal/score"
	"github.com/wonny/allocator/pkg/logger"
)

// Phase is the engine state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseConstructing
	PhaseSearching
	PhaseTerminated
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseConstructing:
		return "constructing"
	case PhaseSearching:
		return "searching"
	case PhaseTerminated:
		return "terminated"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// search is one single-threaded construction + local search run over its
// own copy of the problem. Nothing in it is shared with other runs.
type search struct {
	p      *portfolio.Portfolio
	opts   Options
	seed   int64
	worker int
	log    *logger.Logger

	scorer   *Scorer
	moves    *MoveGenerator
	tabu     *tabuList
	acceptor *annealingAcceptor

	phase        Phase
	current      score.Score
	constructed  score.Score
	best         []bool
	bestScore    score.Score
	steps        int
	accepted     int
	lastImproved int
}

type searchResult struct {
	worker      int
	seed        int64
	portfolio   *portfolio.Portfolio
	score       score.Score
	constructed score.Score
	steps       int
	accepted    int
	reason      TerminationReason
	phase       Phase
}

func newSearch(p *portfolio.Portfolio, opts Options, seed int64, worker int, log *logger.Logger) *search {
	rng := rand.New(rand.NewSource(seed))
	n := len(p.Investments)
	return &search{
		p:        p,
		opts:     opts,
		seed:     seed,
		worker:   worker,
		log:      log.WithField("worker", worker),
		scorer:   NewScorer(p),
		moves:    NewMoveGenerator(n, opts.SwapSampleSize, rng),
		tabu:     newTabuList(n, opts.TabuTenure),
		acceptor: newAnnealingAcceptor(opts.StartingTemperature, opts.CoolingRate, rng),
		phase:    PhaseIdle,
	}
}

func (s *search) run(ctx context.Context, start time.Time) searchResult {
	s.phase = PhaseConstructing
	if !s.opts.SkipConstruction {
		n := construct(s.scorer, s.p.Investments)
		s.log.WithFields(map[string]interface{}{
			"allocated": n,
			"score":     s.scorer.Current().String(),
		}).Debug("Construction finished")
	}
	s.current = s.scorer.Current()
	s.constructed = s.current
	s.best = s.scorer.Allocation()
	s.bestScore = s.current

	s.phase = PhaseSearching
	term := newTermination(ctx, s.opts, start)
	progress := &rate.Sometimes{First: 1, Interval: s.opts.ProgressInterval}
	logProgress := s.logProgress
	verbose := s.log.Enabled(zerolog.DebugLevel)

	var reason TerminationReason
	for {
		if reason = term.check(s.steps, s.lastImproved, s.bestScore); reason != ReasonNone {
			break
		}
		s.step()
		s.steps++
		if verbose {
			progress.Do(logProgress)
		}
	}

	s.phase = PhaseTerminated
	s.p.SetAllocation(s.best)
	full := Evaluate(s.p)
	if full != s.bestScore {
		panic(fmt.Sprintf("solver: incremental best score %s diverged from full score %s", s.bestScore, full))
	}
	s.p.Score = &full

	s.log.WithFields(map[string]interface{}{
		"reason": string(reason),
		"steps":  s.steps,
		"score":  full.String(),
	}).Debug("Search terminated")

	return searchResult{
		worker:      s.worker,
		seed:        s.seed,
		portfolio:   s.p,
		score:       full,
		constructed: s.constructed,
		steps:       s.steps,
		accepted:    s.accepted,
		reason:      reason,
		phase:       s.phase,
	}
}

// step evaluates the shuffled neighborhood and applies the first accepted
// move. If nothing is accepted the best non-tabu candidate is forced.
func (s *search) step() {
	step := s.steps

	var (
		chosen, fallback Move
		fallbackScore    score.Score
		found, hasBackup bool
	)
	for _, m := range s.moves.Neighborhood(s.scorer.allocated) {
		next := s.scorer.Peek(m)
		if s.tabu.isTabu(m, step) && !next.Better(s.bestScore) {
			continue
		}
		if !hasBackup || next.Better(fallbackScore) {
			fallback, fallbackScore, hasBackup = m, next, true
		}
		if s.acceptor.accept(next, s.current) {
			chosen, found = m, true
			break
		}
	}
	s.acceptor.cool()

	if !found {
		if !hasBackup {
			return // everything is tabu; wait for the tenure to run out
		}
		chosen = fallback
	}

	s.scorer.Apply(chosen)
	s.current = s.scorer.Current()
	s.tabu.add(chosen, step)
	s.accepted++

	if s.current.Better(s.bestScore) {
		copy(s.best, s.scorer.allocated)
		s.bestScore = s.current
		s.lastImproved = step + 1
	}
}

func (s *search) logProgress() {
	s.log.WithFields(map[string]interface{}{
		"phase":      s.phase.String(),
		"step":       s.steps,
		"current":    s.current.String(),
		"best":       s.bestScore.String(),
		"invested":   s.scorer.TotalInvested(),
		"avg_risk":   s.scorer.AverageRisk(),
		"accepted":   s.accepted,
		"since_best": s.steps - s.lastImproved,
	}).Debug("Search progress")
}
