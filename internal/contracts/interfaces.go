package contracts

import (
	"context"

	"github.com/wonny/allocator/internal/portfolio"
	"github.com/wonny/allocator/internal/solver"
)

// Solver finds an allocation for a validated problem.
// ⭐ SSOT: 입력 Portfolio는 절대 수정하지 않음
type Solver interface {
	Solve(ctx context.Context, p *portfolio.Portfolio) (*solver.Result, error)
}

var _ Solver = (*solver.Solver)(nil)
