package score

import (
	"fmt"
	"strconv"
)

const wildcard = "*"

// Limit is a best-score target where either level may be a wildcard,
// e.g. "0hard/*soft" means "stop once the solution is feasible".
type Limit struct {
	Hard         int64
	Soft         int64
	HardWildcard bool
	SoftWildcard bool
}

// FeasibleLimit is the default early-stop target.
var FeasibleLimit = Limit{Hard: 0, SoftWildcard: true}

// ParseLimit reads "<hard|*>hard/<soft|*>soft".
func ParseLimit(text string) (Limit, error) {
	hardText, softText, err := splitLevels(text)
	if err != nil {
		return Limit{}, err
	}

	var l Limit
	if hardText == wildcard {
		l.HardWildcard = true
	} else if l.Hard, err = strconv.ParseInt(hardText, 10, 64); err != nil {
		return Limit{}, fmt.Errorf("score limit %q: invalid hard level: %w", text, err)
	}
	if softText == wildcard {
		l.SoftWildcard = true
	} else if l.Soft, err = strconv.ParseInt(softText, 10, 64); err != nil {
		return Limit{}, fmt.Errorf("score limit %q: invalid soft level: %w", text, err)
	}
	if l.HardWildcard && l.SoftWildcard {
		return Limit{}, fmt.Errorf("score limit %q: at least one level must be set", text)
	}
	return l, nil
}

// Reached reports whether s is at least as good as the limit on its set levels.
func (l Limit) Reached(s Score) bool {
	if !l.HardWildcard {
		if s.Hard != l.Hard {
			return s.Hard > l.Hard
		}
	}
	if l.SoftWildcard {
		return true
	}
	return s.Soft >= l.Soft
}

func (l Limit) String() string {
	hard, soft := wildcard, wildcard
	if !l.HardWildcard {
		hard = strconv.FormatInt(l.Hard, 10)
	}
	if !l.SoftWildcard {
		soft = strconv.FormatInt(l.Soft, 10)
	}
	return hard + "hard/" + soft + "soft"
}
