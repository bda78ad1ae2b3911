package solver

// tabuList forbids touching recently changed investments for tenure steps.
type tabuList struct {
	tenure int
	until  []int // until[i]: first step at which i is free again
}

func newTabuList(n, tenure int) *tabuList {
	return &tabuList{tenure: tenure, until: make([]int, n)}
}

func (t *tabuList) isTabu(m Move, step int) bool {
	if t.tenure == 0 {
		return false
	}
	if t.until[m.I] > step {
		return true
	}
	return m.J >= 0 && t.until[m.J] > step
}

func (t *tabuList) add(m Move, step int) {
	if t.tenure == 0 {
		return
	}
	t.until[m.I] = step + 1 + t.tenure
	if m.J >= 0 {
		t.until[m.J] = step + 1 + t.tenure
	}
}
