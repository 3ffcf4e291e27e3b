package values

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Amount_Add(t *testing.T) {
	tests := []struct {
		name    string
		a, b    Amount
		want    Amount
		wantErr bool
	}{
		{name: "small", a: 2, b: 3, want: 5},
		{name: "negative", a: -2, b: -3, want: -5},
		{name: "mixed signs", a: math.MaxInt64, b: math.MinInt64, want: -1},
		{name: "positive overflow", a: math.MaxInt64, b: 1, wantErr: true},
		{name: "negative overflow", a: math.MinInt64, b: -1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.a.Add(tt.b)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrOverflow)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func Test_Amount_Sub(t *testing.T) {
	tests := []struct {
		name    string
		a, b    Amount
		want    Amount
		wantErr bool
	}{
		{name: "small", a: 5, b: 3, want: 2},
		{name: "below zero", a: 3, b: 5, want: -2},
		{name: "min minus negative", a: math.MinInt64, b: -1, want: math.MinInt64 + 1},
		{name: "positive overflow", a: math.MaxInt64, b: -1, wantErr: true},
		{name: "negative overflow", a: math.MinInt64, b: 1, wantErr: true},
		{name: "subtract min", a: 0, b: math.MinInt64, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.a.Sub(tt.b)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrOverflow)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func Test_Amount_Mul(t *testing.T) {
	tests := []struct {
		name    string
		a, b    Amount
		want    Amount
		wantErr bool
	}{
		{name: "zero", a: 0, b: math.MaxInt64, want: 0},
		{name: "hours", a: 150, b: 10, want: 1500},
		{name: "negative", a: -4, b: 5, want: -20},
		{name: "overflow", a: math.MaxInt64, b: 2, wantErr: true},
		{name: "min times minus one", a: math.MinInt64, b: -1, wantErr: true},
		{name: "minus one times min", a: -1, b: math.MinInt64, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.a.Mul(tt.b)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrOverflow)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func Test_Amount_Div_Truncates(t *testing.T) {
	got, err := Amount(10000).Div(12)
	require.NoError(t, err)
	assert.Equal(t, Amount(833), got)

	got, err = Amount(11).Div(12)
	require.NoError(t, err)
	assert.Equal(t, Amount(0), got)

	got, err = Amount(-11).Div(12)
	require.NoError(t, err)
	assert.Equal(t, Amount(0), got, "truncation is toward zero")

	_, err = Amount(1).Div(0)
	assert.ErrorIs(t, err, ErrDivisionByZero)

	_, err = Amount(math.MinInt64).Div(-1)
	assert.ErrorIs(t, err, ErrOverflow)
}

func Test_Sum(t *testing.T) {
	total, err := Sum()
	require.NoError(t, err)
	assert.Equal(t, Zero, total)

	total, err = Sum(833, 500, 1500, 2500)
	require.NoError(t, err)
	assert.Equal(t, Amount(5333), total)

	_, err = Sum(math.MaxInt64, 1)
	assert.ErrorIs(t, err, ErrOverflow)
}

func Test_Amount_Max(t *testing.T) {
	assert.Equal(t, Amount(7), Amount(3).Max(7))
	assert.Equal(t, Amount(7), Amount(7).Max(3))
	assert.Equal(t, "42", Amount(42).String())
	assert.True(t, Amount(-1).IsNegative())
}
