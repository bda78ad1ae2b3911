// Package solverconfig loads solver tuning profiles from YAML.
package solverconfig

import "time"

// Config는 solver 튜닝 프로파일 전체 설정
type Config struct {
	Meta         Meta         `yaml:"meta" json:"meta"`
	Seed         int64        `yaml:"seed" json:"seed"`
	Termination  Termination  `yaml:"termination" json:"termination"`
	Construction Construction `yaml:"construction" json:"construction"`
	LocalSearch  LocalSearch  `yaml:"local_search" json:"local_search"`
	Parallel     Parallel     `yaml:"parallel" json:"parallel"`
	Logging      Logging      `yaml:"logging" json:"logging"`
}

// Meta 메타 정보
type Meta struct {
	ProfileID   string `yaml:"profile_id" json:"profile_id"`
	Version     string `yaml:"version" json:"version"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Termination 종료 조건 (하나라도 충족 시 종료)
type Termination struct {
	BestScoreLimit      string `yaml:"best_score_limit" json:"best_score_limit"` // "0hard/*soft", 빈 값 = 비활성
	TimeLimit           string `yaml:"time_limit" json:"time_limit"`             // Go duration, "30s"
	StepLimit           int    `yaml:"step_limit" json:"step_limit"`
	UnimprovedStepLimit int    `yaml:"unimproved_step_limit" json:"unimproved_step_limit"`
}

// Construction 초기해 생성
type Construction struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
}

// LocalSearch tabu + simulated annealing
type LocalSearch struct {
	TabuTenure          int         `yaml:"tabu_tenure" json:"tabu_tenure"`
	SwapSampleSize      int         `yaml:"swap_sample_size" json:"swap_sample_size"`
	StartingTemperature Temperature `yaml:"starting_temperature" json:"starting_temperature"`
	CoolingRate         float64     `yaml:"cooling_rate" json:"cooling_rate"`
}

// Temperature is in fixed-point score units per level.
type Temperature struct {
	Hard float64 `yaml:"hard" json:"hard"`
	Soft float64 `yaml:"soft" json:"soft"`
}

// Parallel 독립 탐색 수
type Parallel struct {
	Workers int `yaml:"workers" json:"workers"`
}

type Logging struct {
	ProgressInterval string `yaml:"progress_interval" json:"progress_interval"`
}

// ProfileSnapshot 프로파일 스냅샷 (재현성용)
type ProfileSnapshot struct {
	ProfileHash string    `json:"profile_hash"`
	ProfileYAML string    `json:"profile_yaml"`
	ProfileID   string    `json:"profile_id"`
	Version     string    `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
}
