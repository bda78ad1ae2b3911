package solverconfig

import (
	"github.com/wonny/allocator/internal/score"
	"github.com/wonny/allocator/internal/solver"
)

// Default returns the profile equivalent of solver.DefaultOptions.
func Default() *Config {
	opts := solver.DefaultOptions()
	return &Config{
		Meta: Meta{
			ProfileID:   "default",
			Version:     "1",
			Description: "stop at the first feasible best score or after 30s",
		},
		Seed: opts.Seed,
		Termination: Termination{
			BestScoreLimit: opts.BestScoreLimit.String(),
			TimeLimit:      opts.TimeLimit.String(),
		},
		Construction: Construction{Enabled: true},
		LocalSearch: LocalSearch{
			TabuTenure:     opts.TabuTenure,
			SwapSampleSize: opts.SwapSampleSize,
			StartingTemperature: Temperature{
				Hard: opts.StartingTemperature.Hard,
				Soft: opts.StartingTemperature.Soft,
			},
			CoolingRate: opts.CoolingRate,
		},
		Parallel: Parallel{Workers: opts.Workers},
		Logging:  Logging{ProgressInterval: opts.ProgressInterval.String()},
	}
}

// Options converts a validated profile into solver options.
func (c *Config) Options() (solver.Options, error) {
	if err := Validate(c); err != nil {
		return solver.Options{}, err
	}

	timeLimit, _ := parseDuration(c.Termination.TimeLimit)
	progress, _ := parseDuration(c.Logging.ProgressInterval)

	opts := solver.Options{
		Seed:                c.Seed,
		Workers:             c.Parallel.Workers,
		TimeLimit:           timeLimit,
		StepLimit:           c.Termination.StepLimit,
		UnimprovedStepLimit: c.Termination.UnimprovedStepLimit,
		SkipConstruction:    !c.Construction.Enabled,
		TabuTenure:          c.LocalSearch.TabuTenure,
		SwapSampleSize:      c.LocalSearch.SwapSampleSize,
		StartingTemperature: solver.Temperature{
			Hard: c.LocalSearch.StartingTemperature.Hard,
			Soft: c.LocalSearch.StartingTemperature.Soft,
		},
		CoolingRate:      c.LocalSearch.CoolingRate,
		ProgressInterval: progress,
	}
	if c.Termination.BestScoreLimit != "" {
		limit, _ := score.ParseLimit(c.Termination.BestScoreLimit)
		opts.BestScoreLimit = &limit
	}
	return opts, nil
}
