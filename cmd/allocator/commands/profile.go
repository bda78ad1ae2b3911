package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/wonny/allocator/internal/solverconfig"
)

var profilePath string

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "solver 프로파일 관리",
	Long: `solver 튜닝 프로파일(YAML)을 검증하고 출력합니다.
--profile을 생략하면 기본 프로파일을 사용합니다.

명령어:
  show   유효 프로파일 출력 (YAML)
  hash   프로파일 해시 (SHA-256, 재현성 확인용)`,
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "유효 프로파일 출력",
	Long: `Example:
  go run ./cmd/allocator profile show
  go run ./cmd/allocator profile show --profile config/solver/explore.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return executeProfileShow(profilePath, cmd.OutOrStdout())
	},
}

var profileHashCmd = &cobra.Command{
	Use:   "hash",
	Short: "프로파일 해시 출력",
	Long: `Example:
  go run ./cmd/allocator profile hash --profile config/solver/default.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return executeProfileHash(profilePath, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileHashCmd)

	profileCmd.PersistentFlags().StringVar(&profilePath, "profile", "", "solver 프로파일 YAML (기본: 내장 기본값)")
}

// loadProfile returns the profile at path, or the built-in default when path is empty.
func loadProfile(path string) (*solverconfig.Config, error) {
	if path == "" {
		return solverconfig.Default(), nil
	}
	cfg, _, err := solverconfig.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile %s: %w", path, err)
	}
	return cfg, nil
}

func executeProfileShow(path string, stdout io.Writer) error {
	cfg, err := loadProfile(path)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}
	_, err = stdout.Write(data)
	return err
}

func executeProfileHash(path string, stdout io.Writer) error {
	cfg, err := loadProfile(path)
	if err != nil {
		return err
	}

	hash, err := solverconfig.Hash(cfg)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%s  %s@%s\n", hash, cfg.Meta.ProfileID, cfg.Meta.Version)
	return nil
}
