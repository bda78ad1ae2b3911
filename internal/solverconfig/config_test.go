package solverconfig

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/allocator/internal/score"
	"github.com/wonny/allocator/internal/solver"
)

const defaultProfile = "../../config/solver/default.yaml"

func TestLoad(t *testing.T) {
	cfg, yamlData, err := Load(defaultProfile)
	require.NoError(t, err)

	assert.Equal(t, "default", cfg.Meta.ProfileID)
	assert.Equal(t, "0hard/*soft", cfg.Termination.BestScoreLimit)
	assert.NotEmpty(t, yamlData)

	// 동일 설정 → 동일 해시
	hash, err := Hash(cfg)
	require.NoError(t, err)
	assert.Len(t, hash, 64)
	hash2, _ := Hash(cfg)
	assert.Equal(t, hash, hash2)
}

func TestLoad_MatchesDefault(t *testing.T) {
	cfg, _, err := Load(defaultProfile)
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)

	opts, err := cfg.Options()
	require.NoError(t, err)
	assert.Equal(t, solver.DefaultOptions(), opts)
}

func TestLoad_Explore(t *testing.T) {
	cfg, _, err := Load("../../config/solver/explore.yaml")
	require.NoError(t, err)

	opts, err := cfg.Options()
	require.NoError(t, err)

	assert.Nil(t, opts.BestScoreLimit)
	assert.Equal(t, 4, opts.Workers)
	assert.Equal(t, 10*time.Second, opts.TimeLimit)
	assert.Equal(t, 20000, opts.StepLimit)
	assert.Equal(t, 500*time.Millisecond, opts.ProgressInterval)
	assert.NoError(t, opts.Validate())
}

func TestLoad_MissingFile(t *testing.T) {
	_, _, err := Load("testdata/does-not-exist.yaml")
	assert.Error(t, err)
}

func TestParse_UnknownFieldRejected(t *testing.T) {
	data := strings.Replace(validYAML, "cooling_rate: 0.995", "cooling_rate: 0.995\n  cooling_rat: 0.9", 1)

	_, err := Parse([]byte(data))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "cooling_rat")
}

func TestParse_Validation(t *testing.T) {
	tests := []struct {
		name      string
		from, to  string
		wantField string
	}{
		{"missing profile id", "profile_id: test", "profile_id: \"\"", "meta.profile_id"},
		{"bad score limit", `best_score_limit: "0hard/*soft"`, `best_score_limit: "*hard/*soft"`, "termination.best_score_limit"},
		{"bad time limit", "time_limit: 5s", "time_limit: soon", "termination.time_limit"},
		{"negative steps", "step_limit: 100", "step_limit: -1", "termination.step_limit"},
		{"negative tenure", "tabu_tenure: 7", "tabu_tenure: -2", "local_search.tabu_tenure"},
		{"negative temperature", "hard: 1000", "hard: -1", "local_search.starting_temperature.hard"},
		{"cooling above one", "cooling_rate: 0.995", "cooling_rate: 1.5", "local_search.cooling_rate"},
		{"no workers", "workers: 2", "workers: 0", "parallel.workers"},
		{"bad progress interval", "progress_interval: 1s", "progress_interval: -1s", "logging.progress_interval"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := strings.Replace(validYAML, tt.from, tt.to, 1)
			require.NotEqual(t, validYAML, data, "fixture replacement did not apply")

			_, err := Parse([]byte(data))

			var verr ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Equal(t, tt.wantField, verr.Field)
		})
	}
}

func TestValidate_RequiresTermination(t *testing.T) {
	cfg := Default()
	cfg.Termination = Termination{}

	err := Validate(cfg)

	assert.EqualError(t, err, "termination: at least one condition is required")
}

func TestConfig_Options(t *testing.T) {
	cfg, err := Parse([]byte(validYAML))
	require.NoError(t, err)

	opts, err := cfg.Options()
	require.NoError(t, err)

	limit := score.FeasibleLimit
	assert.Equal(t, solver.Options{
		Seed:                3,
		Workers:             2,
		TimeLimit:           5 * time.Second,
		BestScoreLimit:      &limit,
		StepLimit:           100,
		UnimprovedStepLimit: 0,
		SkipConstruction:    true,
		TabuTenure:          7,
		SwapSampleSize:      16,
		StartingTemperature: solver.Temperature{Hard: 1000, Soft: 10},
		CoolingRate:         0.995,
		ProgressInterval:    time.Second,
	}, opts)
}

func TestHash_ChangesWithContent(t *testing.T) {
	a := Default()
	b := Default()
	b.Seed++

	ha, err := Hash(a)
	require.NoError(t, err)
	hb, err := Hash(b)
	require.NoError(t, err)

	assert.NotEqual(t, ha, hb)
}

func TestNewSnapshot(t *testing.T) {
	cfg, data, err := Load(defaultProfile)
	require.NoError(t, err)

	snap, err := NewSnapshot(cfg, data)
	require.NoError(t, err)

	hash, _ := Hash(cfg)
	assert.Equal(t, hash, snap.ProfileHash)
	assert.Equal(t, "default", snap.ProfileID)
	assert.Equal(t, string(data), snap.ProfileYAML)
	assert.False(t, snap.CreatedAt.IsZero())
}

const validYAML = `
meta:
  profile_id: test
  version: "1"
seed: 3
termination:
  best_score_limit: "0hard/*soft"
  time_limit: 5s
  step_limit: 100
  unimproved_step_limit: 0
construction:
  enabled: false
local_search:
  tabu_tenure: 7
  swap_sample_size: 16
  starting_temperature:
    hard: 1000
    soft: 10
  cooling_rate: 0.995
parallel:
  workers: 2
logging:
  progress_interval: 1s
`
