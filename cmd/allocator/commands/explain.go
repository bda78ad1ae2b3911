package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/wonny/allocator/internal/contracts"
	"github.com/wonny/allocator/pkg/logger"
)

var (
	explainInput  string
	explainFormat string
)

var explainCmd = &cobra.Command{
	Use:   "explain",
	Short: "주어진 배분의 점수 분해",
	Long: `입력의 allocated 값을 그대로 두고 제약 조건별 점수 기여를 보여줍니다.
solve 결과 JSON을 다시 입력으로 넣을 수 있습니다.

Example:
  go run ./cmd/allocator explain --input solved.json
  go run ./cmd/allocator explain --input solved.json --format json`,
	RunE: runExplain,
}

func init() {
	rootCmd.AddCommand(explainCmd)

	explainCmd.Flags().StringVarP(&explainInput, "input", "i", "", "입력 JSON 파일 (- = stdin)")
	explainCmd.Flags().StringVar(&explainFormat, "format", "text", "출력 형식 (text, json)")
	_ = explainCmd.MarkFlagRequired("input")
}

func runExplain(cmd *cobra.Command, args []string) error {
	_, log, err := initDeps()
	if err != nil {
		return err
	}
	return executeExplain(cmd.Context(), log, explainInput, explainFormat, cmd.InOrStdin(), cmd.OutOrStdout())
}

func executeExplain(ctx context.Context, log *logger.Logger, input, format string, stdin io.Reader, stdout io.Writer) error {
	req, err := loadRequest(input, stdin)
	if err != nil {
		return err
	}
	p, err := req.ToPortfolio(ctx, log)
	if err != nil {
		return fmt.Errorf("invalid portfolio: %w", err)
	}

	resp := contracts.NewExplainResponse(p)
	switch format {
	case "json":
		return writeJSON("", stdout, resp)
	case "text":
		printExplain(stdout, resp)
		return nil
	}
	return fmt.Errorf("unknown format %q (json, text)", format)
}
