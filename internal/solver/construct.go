package solver

import (
	"sort"

	"github.com/wonny/allocator/internal/portfolio"
)

// constructionOrder ranks investments by descending return/risk ratio, then
// by higher expected return, then by position.
func constructionOrder(investments []*portfolio.Investment) []int {
	order := make([]int, len(investments))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ia, ib := investments[order[a]].Asset, investments[order[b]].Asset
		ra, rb := ia.ReturnRiskRatio(), ib.ReturnRiskRatio()
		if ra != rb {
			return ra > rb
		}
		return ia.ExpectedReturn > ib.ExpectedReturn
	})
	return order
}

// construct greedily allocates from an empty allocation, skipping any
// investment whose flip would break a hard limit. The result is always feasible.
func construct(scorer *Scorer, investments []*portfolio.Investment) int {
	scorer.Load(make([]bool, scorer.Len()))

	allocated := 0
	for _, i := range constructionOrder(investments) {
		m := Flip(i)
		if !scorer.Peek(m).IsFeasible() {
			continue
		}
		scorer.Apply(m)
		allocated++
	}
	return allocated
}
