package numeric

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrent(t *testing.T) {
	tests := []struct {
		name string
		f    Func
		a, b float64
		want float64
	}{
		{"linear", func(x float64) (float64, error) { return 2*x - 1, nil }, 0, 1, 0.5},
		{"cubic", func(x float64) (float64, error) { return x*x*x - 2*x - 5, nil }, 2, 3, 2.0945514815423265},
		{"cosine", func(x float64) (float64, error) { return math.Cos(x) - x, nil }, 0, 1, 0.7390851332151607},
		{"reversed bracket", func(x float64) (float64, error) { return x*x - 2, nil }, 2, 0, math.Sqrt2},
		{"kink", func(x float64) (float64, error) {
			if x < 0.3 {
				return x - 0.3, nil
			}
			return 10 * (x - 0.3), nil
		}, 0, 1, 0.3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, iters, err := Brent(tt.f, tt.a, tt.b, 1e-12, 100)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, x, 1e-10)
			assert.LessOrEqual(t, iters, 100)
		})
	}
}

func TestBrentEndpointRoot(t *testing.T) {
	x, iters, err := Brent(func(x float64) (float64, error) { return x, nil }, 0, 1, 1e-12, 100)
	require.NoError(t, err)
	assert.Equal(t, 0.0, x)
	assert.Equal(t, 0, iters)
}

func TestBrentNoBracket(t *testing.T) {
	_, _, err := Brent(func(x float64) (float64, error) { return x*x + 1, nil }, -1, 1, 1e-12, 100)
	assert.ErrorIs(t, err, ErrConvergence)
}

func TestBrentBudget(t *testing.T) {
	_, _, err := Brent(func(x float64) (float64, error) { return math.Cos(x) - x, nil }, 0, 1, 1e-15, 2)
	assert.ErrorIs(t, err, ErrConvergence)

	_, _, err = Brent(func(x float64) (float64, error) { return x, nil }, -1, 1, 1e-12, 0)
	assert.ErrorIs(t, err, ErrConvergence)
}

func TestBrentPropagatesResidualError(t *testing.T) {
	boom := errors.New("boom")
	_, _, err := Brent(func(x float64) (float64, error) {
		if x > 0.2 && x < 0.8 {
			return 0, boom
		}
		return x - 0.5, nil
	}, 0, 1, 1e-12, 100)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrConvergence)
}

func TestInvert(t *testing.T) {
	x, _, err := Invert(func(x float64) (float64, error) { return math.Exp(x), nil }, 10, 0, 5, 1e-12, 100)
	require.NoError(t, err)
	assert.InDelta(t, math.Log(10), x, 1e-10)
}
