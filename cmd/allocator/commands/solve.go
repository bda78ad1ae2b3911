package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/allocator/internal/audit"
	"github.com/wonny/allocator/internal/contracts"
	"github.com/wonny/allocator/internal/solver"
	"github.com/wonny/allocator/internal/solverconfig"
	"github.com/wonny/allocator/pkg/config"
	"github.com/wonny/allocator/pkg/logger"
)

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "포트폴리오 배분 탐색",
	Long: `입력 포트폴리오에 대해 greedy 초기해 + tabu/annealing 지역 탐색을 실행합니다.

설정 우선순위 (뒤가 우선):
  기본값 < 환경변수 (SOLVER_*) < 프로파일 (--profile / SOLVER_PROFILE) < 플래그

출력:
- json: 입력과 같은 형식 + allocated, score, summary
- text: 배분 리포트

Example:
  go run ./cmd/allocator solve --input portfolio.json
  go run ./cmd/allocator solve --input - --format text < portfolio.json
  go run ./cmd/allocator solve --input portfolio.json --profile config/solver/explore.yaml --workers 8
  go run ./cmd/allocator solve --input portfolio.json --report report.json`,
	RunE: runSolve,
}

// solveParams holds the solve flags. *Set fields record explicit overrides.
type solveParams struct {
	input     string
	output    string
	profile   string
	format    string
	report    string
	seed      int64
	timeLimit time.Duration
	workers   int

	seedSet      bool
	timeLimitSet bool
	workersSet   bool
}

var solveFlags solveParams

// newSolver builds the engine for one solve. Tests replace it.
var newSolver = func(opts solver.Options, log *logger.Logger) contracts.Solver {
	return solver.New(opts, log)
}

func init() {
	rootCmd.AddCommand(solveCmd)

	solveCmd.Flags().StringVarP(&solveFlags.input, "input", "i", "", "입력 JSON 파일 (- = stdin)")
	solveCmd.Flags().StringVarP(&solveFlags.output, "output", "o", "", "출력 파일 (기본: stdout)")
	solveCmd.Flags().StringVar(&solveFlags.profile, "profile", "", "solver 프로파일 YAML")
	solveCmd.Flags().StringVar(&solveFlags.format, "format", "json", "출력 형식 (json, text)")
	solveCmd.Flags().StringVar(&solveFlags.report, "report", "", "감사 리포트 JSON 파일")
	solveCmd.Flags().Int64Var(&solveFlags.seed, "seed", 0, "재현성용 시드")
	solveCmd.Flags().DurationVar(&solveFlags.timeLimit, "time-limit", 0, "시간 제한 (예: 30s)")
	solveCmd.Flags().IntVar(&solveFlags.workers, "workers", 0, "병렬 탐색 수")
	_ = solveCmd.MarkFlagRequired("input")
}

func runSolve(cmd *cobra.Command, args []string) error {
	cfg, log, err := initDeps()
	if err != nil {
		return err
	}

	params := solveFlags
	params.seedSet = cmd.Flags().Changed("seed")
	params.timeLimitSet = cmd.Flags().Changed("time-limit")
	params.workersSet = cmd.Flags().Changed("workers")

	return executeSolve(cmd.Context(), cfg, log, params, cmd.InOrStdin(), cmd.OutOrStdout())
}

func executeSolve(ctx context.Context, cfg *config.Config, log *logger.Logger, p solveParams, stdin io.Reader, stdout io.Writer) error {
	if p.format != "json" && p.format != "text" {
		return fmt.Errorf("unknown format %q (json, text)", p.format)
	}

	req, err := loadRequest(p.input, stdin)
	if err != nil {
		return err
	}
	problem, err := req.ToPortfolio(ctx, log)
	if err != nil {
		return fmt.Errorf("invalid portfolio: %w", err)
	}

	opts, snapshot, err := resolveOptions(cfg, p)
	if err != nil {
		return err
	}

	result, err := newSolver(opts, log).Solve(ctx, problem)
	if err != nil {
		return err
	}

	var report *audit.Report
	if p.report != "" || p.format == "text" {
		report = audit.NewReporter(log.Zerolog()).GenerateReport(result, snapshot)
	}
	if p.report != "" {
		if err := writeJSON(p.report, stdout, report); err != nil {
			return err
		}
	}

	if p.format == "text" {
		printReport(stdout, report)
		return nil
	}
	return writeJSON(p.output, stdout, contracts.NewSolveResponse(result))
}

// resolveOptions layers defaults, environment, profile and explicit flags.
func resolveOptions(cfg *config.Config, p solveParams) (solver.Options, *solverconfig.ProfileSnapshot, error) {
	opts := solver.DefaultOptions()
	opts.TimeLimit = cfg.Solver.TimeLimit
	opts.Seed = cfg.Solver.Seed
	opts.Workers = cfg.Solver.Workers

	path := p.profile
	if path == "" {
		path = cfg.Solver.ProfilePath
	}

	var snapshot *solverconfig.ProfileSnapshot
	if path != "" {
		profile, data, err := solverconfig.Load(path)
		if err != nil {
			return solver.Options{}, nil, fmt.Errorf("failed to load profile %s: %w", path, err)
		}
		if opts, err = profile.Options(); err != nil {
			return solver.Options{}, nil, err
		}
		if snapshot, err = solverconfig.NewSnapshot(profile, data); err != nil {
			return solver.Options{}, nil, err
		}
	}

	if p.seedSet {
		opts.Seed = p.seed
	}
	if p.timeLimitSet {
		opts.TimeLimit = p.timeLimit
	}
	if p.workersSet {
		opts.Workers = p.workers
	}

	if err := opts.Validate(); err != nil {
		return solver.Options{}, nil, fmt.Errorf("invalid solver options: %w", err)
	}
	return opts, snapshot, nil
}
