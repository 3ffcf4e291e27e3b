package services

import (
	"context"
	"math"
	"testing"

	"github.com/reglet-dev/rollup/internal/domain/entities"
	"github.com/reglet-dev/rollup/internal/domain/values"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func fold(t *testing.T, comb entities.Combinator, amounts ...values.Amount) values.Amount {
	t.Helper()
	acc := comb.Identity()
	for _, a := range amounts {
		var err error
		acc, err = comb.Combine(acc, a)
		require.NoError(t, err)
	}
	return acc
}

func Test_Max(t *testing.T) {
	assert.Equal(t, values.Amount(0), fold(t, Max{}))
	assert.Equal(t, values.Amount(1000), fold(t, Max{}, 100, 1000, 75))
}

func Test_CompileCombinator(t *testing.T) {
	tests := []struct {
		name       string
		expression string
		inputs     []values.Amount
		expected   values.Amount
	}{
		{
			name:       "plain sum",
			expression: "acc + next",
			inputs:     []values.Amount{1, 2, 3},
			expected:   6,
		},
		{
			name:       "checked sum",
			expression: "add(acc, next)",
			inputs:     []values.Amount{100, 75},
			expected:   175,
		},
		{
			name:       "order sensitive",
			expression: "add(mul(acc, 10), next)",
			inputs:     []values.Amount{1, 2, 3},
			expected:   123,
		},
		{
			name:       "conditional",
			expression: "next > acc ? next : acc",
			inputs:     []values.Amount{3, 9, 4},
			expected:   9,
		},
		{
			name:       "checked difference",
			expression: "next - acc",
			inputs:     []values.Amount{3, 10},
			expected:   7,
		},
		{
			name:       "integer division",
			expression: "acc + next / 2",
			inputs:     []values.Amount{5, 9},
			expected:   6,
		},
		{
			name:       "empty input is identity",
			expression: "acc + next",
			expected:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := CompileCombinator(tt.expression)
			require.NoError(t, err)
			assert.Equal(t, tt.expression, c.String())
			assert.Equal(t, tt.expected, fold(t, c, tt.inputs...))
		})
	}
}

func Test_CompileCombinator_Errors(t *testing.T) {
	tests := []struct {
		name       string
		expression string
	}{
		{name: "empty", expression: "  "},
		{name: "syntax", expression: "acc +"},
		{name: "unknown variable", expression: "acc + index"},
		{name: "boolean result", expression: "acc > next"},
		{name: "float power", expression: "acc ** 2"},
		{name: "float literal", expression: "acc + 0.5"},
		{name: "too long", expression: "acc" + string(make([]byte, 1001))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CompileCombinator(tt.expression)
			assert.Error(t, err)
		})
	}
}

func Test_ExprCombinator_CheckedOverflow(t *testing.T) {
	c, err := CompileCombinator("add(acc, next)")
	require.NoError(t, err)

	_, err = c.Combine(math.MaxInt64, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "overflow")
}

func Test_ExprCombinator_OperatorsAreChecked(t *testing.T) {
	tests := []struct {
		name       string
		expression string
		acc, next  values.Amount
		wantErr    error
	}{
		{name: "plus", expression: "acc + next", acc: math.MaxInt64, next: 1, wantErr: values.ErrOverflow},
		{name: "plus with literal", expression: "acc + 1", acc: math.MaxInt64, wantErr: values.ErrOverflow},
		{name: "minus", expression: "acc - next", acc: math.MinInt64, next: 1, wantErr: values.ErrOverflow},
		{name: "times", expression: "acc * next", acc: math.MaxInt64 / 2, next: 3, wantErr: values.ErrOverflow},
		{name: "divide by zero", expression: "acc + next / 0", acc: 1, next: 1, wantErr: values.ErrDivisionByZero},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := CompileCombinator(tt.expression)
			require.NoError(t, err)

			_, err = c.Combine(tt.acc, tt.next)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Contains(t, err.Error(), tt.expression)
		})
	}
}

func Test_ExprCombinator_FoldOverflow(t *testing.T) {
	c, err := NewCombinatorRegistry().Resolve("acc + next")
	require.NoError(t, err)

	root := entities.NewComposite("root").
		Add(entities.NewEquipment("huge", math.MaxInt64)).
		Add(entities.NewEquipment("one", 1))

	_, err = root.Fold(YearlyCostVisitor{}, c)
	require.ErrorIs(t, err, values.ErrOverflow)
}

func Test_ExprCombinator_InComposite(t *testing.T) {
	c, err := CompileCombinator("add(mul(acc, 10), next)")
	require.NoError(t, err)

	root := entities.NewComposite("root").
		Add(entities.NewEquipment("one", 12)).
		Add(entities.NewEquipment("two", 24))

	got, err := root.Fold(MonthlyCostVisitor{}, c)
	require.NoError(t, err)
	assert.Equal(t, values.Amount(12), got)
}

func Test_CombinatorRegistry_Resolve(t *testing.T) {
	r := NewCombinatorRegistry()
	assert.Equal(t, []string{"max", "sum"}, r.Names())

	c, err := r.Resolve("")
	require.NoError(t, err)
	assert.Equal(t, entities.Sum{}, c)

	c, err = r.Resolve("MAX")
	require.NoError(t, err)
	assert.Equal(t, Max{}, c)

	first, err := r.Resolve("acc + next")
	require.NoError(t, err)
	second, err := r.Resolve(" acc + next ")
	require.NoError(t, err)
	assert.Same(t, first, second)

	_, err = r.Resolve("acc +")
	assert.Error(t, err)

	r.cacheMu.RLock()
	assert.Len(t, r.programCache, 1, "failed compilations are not cached")
	r.cacheMu.RUnlock()
}

func Test_CombinatorRegistry_Concurrent(t *testing.T) {
	r := NewCombinatorRegistry()
	g, _ := errgroup.WithContext(context.Background())

	for i := 0; i < 50; i++ {
		g.Go(func() error {
			c, err := r.Resolve("add(acc, next)")
			if err != nil {
				return err
			}
			_, err = c.Combine(1, 2)
			return err
		})
	}
	require.NoError(t, g.Wait())

	r.cacheMu.RLock()
	defer r.cacheMu.RUnlock()
	assert.Len(t, r.programCache, 1)
}
