package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/allocator/internal/audit"
	"github.com/wonny/allocator/internal/contracts"
	"github.com/wonny/allocator/internal/portfolio"
	"github.com/wonny/allocator/internal/solver"
	"github.com/wonny/allocator/internal/solverconfig"
	"github.com/wonny/allocator/pkg/config"
	"github.com/wonny/allocator/pkg/logger"
)

const (
	samplePath  = "testdata/portfolio.json"
	invalidPath = "testdata/invalid.json"
	exploreYAML = "../../../config/solver/explore.yaml"
)

func testConfig() *config.Config {
	return &config.Config{
		Env: "development",
		Solver: config.SolverConfig{
			TimeLimit: 30 * time.Second,
			Seed:      42,
			Workers:   1,
		},
		LogLevel:  "info",
		LogFormat: "json",
	}
}

func TestExecuteSolve_JSON(t *testing.T) {
	var out bytes.Buffer
	params := solveParams{input: samplePath, format: "json"}

	err := executeSolve(context.Background(), testConfig(), logger.Nop(), params, nil, &out)
	require.NoError(t, err)

	var resp contracts.PortfolioResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.True(t, resp.Summary.Feasible)
	assert.Equal(t, int64(0), resp.Score.Hard)
	assert.Len(t, resp.InvestmentList, 14)
	assert.NotEmpty(t, resp.Summary.RunID)
	assert.Equal(t, int64(42), resp.Summary.Seed)
}

func TestExecuteSolve_StdinAndOutputFile(t *testing.T) {
	data, err := os.ReadFile(samplePath)
	require.NoError(t, err)
	dir := t.TempDir()
	outPath := filepath.Join(dir, "solved.json")
	reportPath := filepath.Join(dir, "report.json")

	params := solveParams{input: "-", output: outPath, report: reportPath, format: "json"}
	var stdout bytes.Buffer
	err = executeSolve(context.Background(), testConfig(), logger.Nop(), params, bytes.NewReader(data), &stdout)
	require.NoError(t, err)
	assert.Empty(t, stdout.String())

	solved, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(solved), `"score": "0hard/`)

	raw, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	var report audit.Report
	require.NoError(t, json.Unmarshal(raw, &report))
	assert.True(t, report.Feasible)
	assert.NotEmpty(t, report.Sectors)
}

func TestExecuteSolve_Text(t *testing.T) {
	var out bytes.Buffer
	params := solveParams{input: samplePath, format: "text", profile: exploreYAML, workersSet: true, workers: 2}

	err := executeSolve(context.Background(), testConfig(), logger.Nop(), params, nil, &out)
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "Portfolio Allocation")
	assert.Contains(t, text, "explore@1")
	assert.Contains(t, text, "Workers")
	assert.Contains(t, text, "Maximise return")
}

func TestExecuteSolve_Errors(t *testing.T) {
	tests := []struct {
		name    string
		params  solveParams
		wantErr string
	}{
		{"missing input", solveParams{format: "json"}, "--input is required"},
		{"unknown format", solveParams{input: samplePath, format: "yaml"}, "unknown format"},
		{"missing file", solveParams{input: "testdata/nope.json", format: "json"}, "failed to open input"},
		{"invalid portfolio", solveParams{input: invalidPath, format: "json"}, "duplicate"},
		{"missing profile", solveParams{input: samplePath, format: "json", profile: "testdata/nope.yaml"}, "failed to load profile"},
		{"bad workers flag", solveParams{input: samplePath, format: "json", workersSet: true}, "workers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := executeSolve(context.Background(), testConfig(), logger.Nop(), tt.params, nil, &bytes.Buffer{})
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

type stubSolver struct {
	opts solver.Options
	err  error
}

func (s *stubSolver) Solve(ctx context.Context, p *portfolio.Portfolio) (*solver.Result, error) {
	return nil, s.err
}

func TestExecuteSolve_UsesSolverInterface(t *testing.T) {
	stub := &stubSolver{err: errors.New("engine unavailable")}
	orig := newSolver
	newSolver = func(opts solver.Options, _ *logger.Logger) contracts.Solver {
		stub.opts = opts
		return stub
	}
	t.Cleanup(func() { newSolver = orig })

	params := solveParams{input: samplePath, format: "json", seed: 5, seedSet: true}
	var out bytes.Buffer
	err := executeSolve(context.Background(), testConfig(), logger.Nop(), params, nil, &out)

	assert.EqualError(t, err, "engine unavailable")
	assert.Equal(t, int64(5), stub.opts.Seed)
	assert.Empty(t, out.String())
}

func TestExecuteSolve_InvalidPortfolioIsValidationError(t *testing.T) {
	params := solveParams{input: invalidPath, format: "json"}

	err := executeSolve(context.Background(), testConfig(), logger.Nop(), params, nil, &bytes.Buffer{})

	var verr portfolio.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "investmentList[1].asset.id", verr.Field)
}

func TestResolveOptions(t *testing.T) {
	t.Run("environment defaults", func(t *testing.T) {
		cfg := testConfig()
		cfg.Solver.TimeLimit = 5 * time.Second
		cfg.Solver.Seed = 9
		cfg.Solver.Workers = 3

		opts, snap, err := resolveOptions(cfg, solveParams{})
		require.NoError(t, err)

		assert.Nil(t, snap)
		assert.Equal(t, 5*time.Second, opts.TimeLimit)
		assert.Equal(t, int64(9), opts.Seed)
		assert.Equal(t, 3, opts.Workers)
		assert.NotNil(t, opts.BestScoreLimit)
	})

	t.Run("profile replaces environment", func(t *testing.T) {
		opts, snap, err := resolveOptions(testConfig(), solveParams{profile: exploreYAML})
		require.NoError(t, err)

		require.NotNil(t, snap)
		assert.Equal(t, "explore", snap.ProfileID)
		assert.Equal(t, int64(7), opts.Seed)
		assert.Equal(t, 4, opts.Workers)
		assert.Nil(t, opts.BestScoreLimit)
	})

	t.Run("profile from environment", func(t *testing.T) {
		cfg := testConfig()
		cfg.Solver.ProfilePath = exploreYAML

		_, snap, err := resolveOptions(cfg, solveParams{})
		require.NoError(t, err)
		require.NotNil(t, snap)
	})

	t.Run("flags win", func(t *testing.T) {
		params := solveParams{
			profile:      exploreYAML,
			seed:         1,
			seedSet:      true,
			timeLimit:    time.Second,
			timeLimitSet: true,
			workers:      2,
			workersSet:   true,
		}

		opts, _, err := resolveOptions(testConfig(), params)
		require.NoError(t, err)

		assert.Equal(t, int64(1), opts.Seed)
		assert.Equal(t, time.Second, opts.TimeLimit)
		assert.Equal(t, 2, opts.Workers)
	})
}

func TestExecuteValidate(t *testing.T) {
	var out bytes.Buffer
	err := executeValidate(context.Background(), logger.Nop(), samplePath, nil, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Valid portfolio: 14 investments in 5 sectors")
	assert.Contains(t, out.String(), "40,000.00")

	out.Reset()
	err = executeValidate(context.Background(), logger.Nop(), invalidPath, nil, &out)
	assert.ErrorContains(t, err, "invalid portfolio")
	assert.Contains(t, out.String(), "❌")
}

func TestExecuteExplain(t *testing.T) {
	// solve, then feed the solved JSON back in
	var solved bytes.Buffer
	err := executeSolve(context.Background(), testConfig(), logger.Nop(), solveParams{input: samplePath, format: "json"}, nil, &solved)
	require.NoError(t, err)

	var out bytes.Buffer
	err = executeExplain(context.Background(), logger.Nop(), "-", "json", bytes.NewReader(solved.Bytes()), &out)
	require.NoError(t, err)

	var first contracts.PortfolioResponse
	require.NoError(t, json.Unmarshal(solved.Bytes(), &first))
	var explained contracts.ExplainResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &explained))
	assert.Equal(t, first.Score, explained.Score)
	assert.True(t, explained.Feasible)

	out.Reset()
	err = executeExplain(context.Background(), logger.Nop(), samplePath, "text", nil, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "0hard/0soft")
	assert.Contains(t, out.String(), "no contributions")
}

func TestExecuteExplain_Infeasible(t *testing.T) {
	data, err := os.ReadFile(samplePath)
	require.NoError(t, err)
	allocated := strings.ReplaceAll(string(data), `}}`, `}, "allocated": true}`)

	var out bytes.Buffer
	err = executeExplain(context.Background(), logger.Nop(), "-", "text", strings.NewReader(allocated), &out)
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "Budget exceeded")
	assert.Contains(t, text, "Sector allocation exceeded")
	assert.Contains(t, text, "⚠️")
}

func TestExecuteProfile(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, executeProfileShow("", &out))
	assert.Contains(t, out.String(), "profile_id: default")

	parsed, err := solverconfig.Parse(out.Bytes())
	require.NoError(t, err)
	assert.Equal(t, solverconfig.Default(), parsed)

	out.Reset()
	require.NoError(t, executeProfileHash(exploreYAML, &out))
	assert.Regexp(t, `^[0-9a-f]{64}  explore@1\n$`, out.String())

	assert.Error(t, executeProfileShow("testdata/nope.yaml", &out))
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.00"},
		{999.5, "999.50"},
		{1000, "1,000.00"},
		{40000, "40,000.00"},
		{1234567.891, "1,234,567.89"},
		{-20000, "-20,000.00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatAmount(tt.in))
	}
	assert.Equal(t, "12.00%", formatPct(0.12))
	assert.Equal(t, "8.75%", formatPct(0.0875))
}
