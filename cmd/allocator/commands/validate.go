package commands

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/wonny/allocator/pkg/logger"
)

var validateInput string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "입력 포트폴리오 검증",
	Long: `입력 JSON을 탐색 없이 검증합니다 (필드 범위, 중복 ID, 빈 목록 등).

Example:
  go run ./cmd/allocator validate --input portfolio.json`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVarP(&validateInput, "input", "i", "", "입력 JSON 파일 (- = stdin)")
	_ = validateCmd.MarkFlagRequired("input")
}

func runValidate(cmd *cobra.Command, args []string) error {
	_, log, err := initDeps()
	if err != nil {
		return err
	}
	return executeValidate(cmd.Context(), log, validateInput, cmd.InOrStdin(), cmd.OutOrStdout())
}

func executeValidate(ctx context.Context, log *logger.Logger, input string, stdin io.Reader, stdout io.Writer) error {
	req, err := loadRequest(input, stdin)
	if err != nil {
		return err
	}

	p, err := req.ToPortfolio(ctx, log)
	if err != nil {
		PrintError(stdout, err.Error())
		return fmt.Errorf("invalid portfolio: %w", err)
	}

	sectors := make(map[string]int)
	for _, inv := range p.Investments {
		sectors[inv.Asset.Sector]++
	}
	names := make([]string, 0, len(sectors))
	for name := range sectors {
		names = append(names, name)
	}
	sort.Strings(names)

	PrintSuccess(stdout, fmt.Sprintf("Valid portfolio: %d investments in %d sectors", len(p.Investments), len(sectors)))
	PrintKeyValue(stdout, "Cash", formatAmount(p.CashAvailable), 14)
	PrintKeyValue(stdout, "Max avg risk", formatPct(p.MaxAverageRisk), 14)
	PrintKeyValue(stdout, "Sector limit", formatAmount(p.SectorLimit()), 14)
	for _, name := range names {
		PrintKeyValue(stdout, name, fmt.Sprintf("%d assets", sectors[name]), 14)
	}
	return nil
}
