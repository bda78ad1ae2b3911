// Package score defines the hard/soft score used to rank allocation candidates.
package score

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Digits is the number of decimal places kept by fixed-point conversion.
const Digits = 3

// Scale is the fixed-point multiplier (10^Digits).
// ⭐ SSOT: 모든 금액/위험 값은 이 배율로 정수화한 뒤에만 합산
const Scale = 1000

// MaxFixed bounds every scaled aggregate (total amount, risk sum, return sum).
// The hard level adds up to three of them, so each must stay below a quarter of int64.
const MaxFixed = math.MaxInt64 / 4

// Score is a lexicographically ordered (hard, soft) pair.
// Hard carries constraint-violation magnitude (0 = feasible), Soft the objective.
type Score struct {
	Hard int64 `json:"hard"`
	Soft int64 `json:"soft"`
}

// Zero is the score of an empty allocation.
var Zero = Score{}

// Of builds a score from its two levels.
func Of(hard, soft int64) Score {
	return Score{Hard: hard, Soft: soft}
}

// Add returns a + b, componentwise.
func Add(a, b Score) Score {
	return Score{Hard: a.Hard + b.Hard, Soft: a.Soft + b.Soft}
}

// Sub returns a - b, componentwise.
func Sub(a, b Score) Score {
	return Score{Hard: a.Hard - b.Hard, Soft: a.Soft - b.Soft}
}

// Compare orders by hard first and soft as tiebreak.
// Returns -1 if a < b, 0 if equal, +1 if a > b.
func Compare(a, b Score) int {
	switch {
	case a.Hard < b.Hard:
		return -1
	case a.Hard > b.Hard:
		return 1
	case a.Soft < b.Soft:
		return -1
	case a.Soft > b.Soft:
		return 1
	}
	return 0
}

func (s Score) Add(o Score) Score { return Add(s, o) }
func (s Score) Sub(o Score) Score { return Sub(s, o) }

// Negate flips the sign of both levels.
func (s Score) Negate() Score {
	return Score{Hard: -s.Hard, Soft: -s.Soft}
}

// Better reports whether s ranks strictly above o.
func (s Score) Better(o Score) bool { return Compare(s, o) > 0 }

// Equal reports whether both levels match.
func (s Score) Equal(o Score) bool { return s == o }

// IsFeasible reports whether no hard constraint is broken.
func (s Score) IsFeasible() bool { return s.Hard >= 0 }

// String renders the score as "<hard>hard/<soft>soft".
func (s Score) String() string {
	return fmt.Sprintf("%dhard/%dsoft", s.Hard, s.Soft)
}

// MarshalText implements encoding.TextMarshaler so scores travel as "0hard/10soft".
func (s Score) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Score) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Parse reads the "<hard>hard/<soft>soft" form.
func Parse(text string) (Score, error) {
	hardText, softText, err := splitLevels(text)
	if err != nil {
		return Score{}, err
	}
	hard, err := strconv.ParseInt(hardText, 10, 64)
	if err != nil {
		return Score{}, fmt.Errorf("score %q: invalid hard level: %w", text, err)
	}
	soft, err := strconv.ParseInt(softText, 10, 64)
	if err != nil {
		return Score{}, fmt.Errorf("score %q: invalid soft level: %w", text, err)
	}
	return Score{Hard: hard, Soft: soft}, nil
}

func splitLevels(text string) (string, string, error) {
	hardPart, softPart, ok := strings.Cut(strings.TrimSpace(text), "/")
	if !ok {
		return "", "", fmt.Errorf("score %q: expected <hard>hard/<soft>soft", text)
	}
	hard, okHard := strings.CutSuffix(hardPart, "hard")
	soft, okSoft := strings.CutSuffix(softPart, "soft")
	if !okHard || !okSoft {
		return "", "", fmt.Errorf("score %q: expected <hard>hard/<soft>soft", text)
	}
	return hard, soft, nil
}

// FitsFixed reports whether v, once scaled, is within MaxFixed.
func FitsFixed(v decimal.Decimal) bool {
	return v.Shift(Digits).Abs().LessThanOrEqual(decimal.NewFromInt(MaxFixed))
}

// ToFixed converts a real quantity to scaled integer units, rounding half away from zero.
func ToFixed(v float64) int64 {
	return decimal.NewFromFloat(v).Shift(Digits).Round(0).IntPart()
}

// FixedProduct converts a*b to scaled integer units without float multiplication drift.
func FixedProduct(a, b float64) int64 {
	return decimal.NewFromFloat(a).Mul(decimal.NewFromFloat(b)).Shift(Digits).Round(0).IntPart()
}

// FromFixed converts scaled integer units back to a real quantity (reporting only).
func FromFixed(v int64) float64 {
	return decimal.New(v, -Digits).InexactFloat64()
}
