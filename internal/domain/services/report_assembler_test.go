package services

import (
	"testing"

	"github.com/reglet-dev/rollup/internal/domain/entities"
	"github.com/reglet-dev/rollup/internal/domain/values"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPC() *entities.Composite {
	memory := entities.NewComposite("Memory").
		Add(entities.NewEquipment("ROM", 100)).
		Add(entities.NewEquipment("RAM", 75))

	return entities.NewComposite("PC").
		Add(memory).
		Add(entities.NewEquipment("Processor", 1000)).
		Add(entities.NewEquipment("Hard Drive", 250))
}

func Test_ReportAssembler_Tally(t *testing.T) {
	a := NewReportAssembler()

	total, err := a.Tally(MonthlyCostVisitor{})
	require.NoError(t, err)
	assert.Equal(t, values.Zero, total)

	total, err = a.Tally(YearlyCostVisitor{}, entities.NewFixedPriceContract("small", 11))
	require.NoError(t, err)
	assert.Equal(t, values.Amount(11), total)

	total, err = a.Tally(MonthlyCostVisitor{}, entities.NewFixedPriceContract("small", 11))
	require.NoError(t, err)
	assert.Equal(t, values.Amount(0), total)

	_, err = a.Tally(MonthlyCostVisitor{}, nil)
	assert.ErrorIs(t, err, entities.ErrNilEntity)
}

func Test_ReportAssembler_AssembleLeaves(t *testing.T) {
	a := NewReportAssembler()

	rep, err := a.AssembleLeaves("monthly", MonthlyCostVisitor{}, "", entities.Sum{}, project())
	require.NoError(t, err)

	assert.Equal(t, "monthly", rep.Visitor)
	assert.Equal(t, "sum", rep.Combinator)
	assert.Equal(t, values.Amount(5333), rep.Total)
	require.Len(t, rep.Lines, 4)
	assert.Equal(t, "alpha", rep.Lines[0].Name)
	assert.Equal(t, values.Amount(833), rep.Lines[0].Amount)
	assert.Equal(t, values.KindSupport, rep.Lines[1].Kind)
	assert.Equal(t, 2, rep.Lines[2].Index)

	rep, err = a.AssembleLeaves("yearly", YearlyCostVisitor{}, "max", Max{}, project())
	require.NoError(t, err)
	assert.Equal(t, values.Amount(10000), rep.Total)
}

func Test_ReportAssembler_Assemble(t *testing.T) {
	a := NewReportAssembler()

	rep, err := a.Assemble("yearly", YearlyCostVisitor{}, "sum", entities.Sum{}, newPC())
	require.NoError(t, err)

	assert.Equal(t, values.Amount(1425), rep.Total)

	paths := make([]string, 0, len(rep.Lines))
	for _, l := range rep.Lines {
		paths = append(paths, l.Path)
	}
	assert.Equal(t, []string{"PC/Memory/ROM", "PC/Memory/RAM", "PC/Processor", "PC/Hard Drive"}, paths)

	require.Len(t, rep.Groups, 2)
	assert.Equal(t, "PC", rep.Groups[0].Path)
	assert.Equal(t, values.Amount(1425), rep.Groups[0].Amount)
	assert.Equal(t, 0, rep.Groups[0].Depth)
	assert.Equal(t, 3, rep.Groups[0].Children)
	assert.Equal(t, "PC/Memory", rep.Groups[1].Path)
	assert.Equal(t, values.Amount(175), rep.Groups[1].Amount)
	assert.Equal(t, 1, rep.Groups[1].Depth)
}

func Test_ReportAssembler_Assemble_EdgeCases(t *testing.T) {
	a := NewReportAssembler()

	t.Run("empty composite", func(t *testing.T) {
		rep, err := a.Assemble("monthly", MonthlyCostVisitor{}, "", entities.Sum{}, entities.NewComposite("empty"))
		require.NoError(t, err)
		assert.Equal(t, values.Zero, rep.Total)
		assert.Empty(t, rep.Lines)
		require.Len(t, rep.Groups, 1)
	})

	t.Run("leaf root", func(t *testing.T) {
		rep, err := a.Assemble("monthly", MonthlyCostVisitor{}, "", entities.Sum{}, entities.NewSupportContract("beta", 500))
		require.NoError(t, err)
		assert.Equal(t, values.Amount(500), rep.Total)
		require.Len(t, rep.Lines, 1)
		assert.Equal(t, "beta", rep.Lines[0].Path)
	})

	t.Run("cycle", func(t *testing.T) {
		c := entities.NewComposite("loop")
		c.Add(c)
		_, err := a.Assemble("monthly", MonthlyCostVisitor{}, "", entities.Sum{}, c)
		assert.ErrorIs(t, err, entities.ErrCyclicGraph)
	})

	t.Run("overflow names the path", func(t *testing.T) {
		root := entities.NewComposite("root").
			Add(entities.NewComposite("inner").Add(entities.NewSupportContract("huge", 1<<62)))
		_, err := a.Assemble("yearly", YearlyCostVisitor{}, "", entities.Sum{}, root)
		require.ErrorIs(t, err, values.ErrOverflow)
		assert.Contains(t, err.Error(), "root")
	})
}
