package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLimit(t *testing.T) {
	l, err := ParseLimit("0hard/*soft")
	require.NoError(t, err)
	assert.Equal(t, FeasibleLimit, l)
	assert.Equal(t, "0hard/*soft", l.String())

	l, err = ParseLimit("0hard/2500soft")
	require.NoError(t, err)
	assert.Equal(t, Limit{Hard: 0, Soft: 2500}, l)

	l, err = ParseLimit("*hard/100soft")
	require.NoError(t, err)
	assert.True(t, l.HardWildcard)

	for _, bad := range []string{"*hard/*soft", "0hard", "ahard/*soft", "0hard/bsoft"} {
		_, err := ParseLimit(bad)
		assert.Error(t, err, bad)
	}
}

func TestLimitReached(t *testing.T) {
	tests := []struct {
		name  string
		limit string
		score Score
		want  bool
	}{
		{"feasible reaches", "0hard/*soft", Of(0, 0), true},
		{"infeasible misses", "0hard/*soft", Of(-1, 99_999), false},
		{"soft target met", "0hard/2500soft", Of(0, 2500), true},
		{"soft target missed", "0hard/2500soft", Of(0, 2499), false},
		{"better hard ignores soft", "-10hard/2500soft", Of(-5, 0), true},
		{"soft only", "*hard/100soft", Of(-7, 100), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := ParseLimit(tt.limit)
			require.NoError(t, err)
			assert.Equal(t, tt.want, l.Reached(tt.score))
		})
	}
}
