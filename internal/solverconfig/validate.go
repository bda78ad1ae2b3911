package solverconfig

import (
	"fmt"
	"math"
	"time"

	"github.com/wonny/allocator/internal/score"
)

// ValidationError 검증 실패 (프로그램 중단)
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks all required constraints
// 실패 시 error 반환 (프로그램 중단)
func Validate(cfg *Config) error {
	// === Meta ===
	if cfg.Meta.ProfileID == "" {
		return ValidationError{"meta.profile_id", "required"}
	}

	// === Termination ===
	t := cfg.Termination
	if t.BestScoreLimit != "" {
		if _, err := score.ParseLimit(t.BestScoreLimit); err != nil {
			return ValidationError{"termination.best_score_limit", err.Error()}
		}
	}
	timeLimit, err := parseDuration(t.TimeLimit)
	if err != nil {
		return ValidationError{"termination.time_limit", err.Error()}
	}
	if t.StepLimit < 0 {
		return ValidationError{"termination.step_limit", "must be >= 0"}
	}
	if t.UnimprovedStepLimit < 0 {
		return ValidationError{"termination.unimproved_step_limit", "must be >= 0"}
	}
	// 종료 조건 최소 1개 필수
	if t.BestScoreLimit == "" && timeLimit == 0 && t.StepLimit == 0 && t.UnimprovedStepLimit == 0 {
		return ValidationError{"termination", "at least one condition is required"}
	}

	// === LocalSearch ===
	ls := cfg.LocalSearch
	if ls.TabuTenure < 0 {
		return ValidationError{"local_search.tabu_tenure", "must be >= 0"}
	}
	if ls.SwapSampleSize < 0 {
		return ValidationError{"local_search.swap_sample_size", "must be >= 0"}
	}
	if err := validateTemperature(ls.StartingTemperature.Hard); err != nil {
		return ValidationError{"local_search.starting_temperature.hard", err.Error()}
	}
	if err := validateTemperature(ls.StartingTemperature.Soft); err != nil {
		return ValidationError{"local_search.starting_temperature.soft", err.Error()}
	}
	if math.IsNaN(ls.CoolingRate) || ls.CoolingRate <= 0 || ls.CoolingRate > 1 {
		return ValidationError{"local_search.cooling_rate", fmt.Sprintf("must be in (0, 1], got %g", ls.CoolingRate)}
	}

	// === Parallel ===
	if cfg.Parallel.Workers < 1 {
		return ValidationError{"parallel.workers", "must be >= 1"}
	}

	// === Logging ===
	if _, err := parseDuration(cfg.Logging.ProgressInterval); err != nil {
		return ValidationError{"logging.progress_interval", err.Error()}
	}

	return nil
}

// parseDuration parses a Go duration; empty means 0 (disabled).
func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	if d < 0 {
		return 0, fmt.Errorf("must be >= 0, got %s", s)
	}
	return d, nil
}

func validateTemperature(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return fmt.Errorf("must be a finite number >= 0, got %g", v)
	}
	return nil
}
