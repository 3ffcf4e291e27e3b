// Package services contains domain services that encapsulate business logic
// spanning multiple entities. These services are stateless apart from caches
// and can be called from use cases, the CLI, or tests.
package services

import (
	"fmt"

	"github.com/reglet-dev/rollup/internal/domain/entities"
	"github.com/reglet-dev/rollup/internal/domain/values"
)

const monthsPerYear values.Amount = 12

// Ensure interface compliance. A missing rule is a compile error here.
var (
	_ entities.Visitor = MonthlyCostVisitor{}
	_ entities.Visitor = YearlyCostVisitor{}
	_ entities.Visitor = ScaledVisitor{}
)

// MonthlyCostVisitor reports the cost of each leaf for one month.
// Yearly amounts are divided by twelve with truncation toward zero.
type MonthlyCostVisitor struct{}

// VisitEquipment spreads the price over twelve months.
func (MonthlyCostVisitor) VisitEquipment(leaf entities.Equipment) (values.Amount, error) {
	return leaf.Price().Div(monthsPerYear)
}

// VisitFixedPrice returns costPerYear / 12.
func (MonthlyCostVisitor) VisitFixedPrice(leaf entities.FixedPriceContract) (values.Amount, error) {
	return leaf.CostPerYear().Div(monthsPerYear)
}

// VisitTimeAndMaterials returns costPerHour × hours.
func (MonthlyCostVisitor) VisitTimeAndMaterials(leaf entities.TimeAndMaterialsContract) (values.Amount, error) {
	return leaf.Total()
}

// VisitSupport returns costPerMonth.
func (MonthlyCostVisitor) VisitSupport(leaf entities.SupportContract) (values.Amount, error) {
	return leaf.CostPerMonth(), nil
}

// YearlyCostVisitor reports the cost of each leaf for one year.
type YearlyCostVisitor struct{}

// VisitEquipment returns the price.
func (YearlyCostVisitor) VisitEquipment(leaf entities.Equipment) (values.Amount, error) {
	return leaf.Price(), nil
}

// VisitFixedPrice returns costPerYear.
func (YearlyCostVisitor) VisitFixedPrice(leaf entities.FixedPriceContract) (values.Amount, error) {
	return leaf.CostPerYear(), nil
}

// VisitTimeAndMaterials returns costPerHour × hours.
func (YearlyCostVisitor) VisitTimeAndMaterials(leaf entities.TimeAndMaterialsContract) (values.Amount, error) {
	return leaf.Total()
}

// VisitSupport returns costPerMonth × 12.
func (YearlyCostVisitor) VisitSupport(leaf entities.SupportContract) (values.Amount, error) {
	return leaf.CostPerMonth().Mul(monthsPerYear)
}

// ScaledVisitor applies another visitor and scales each leaf result by
// Multiplier / Divisor, truncating toward zero. A quarterly report is the
// yearly visitor with Divisor 4.
type ScaledVisitor struct {
	Base       entities.Visitor
	Multiplier values.Amount
	Divisor    values.Amount
}

// NewScaledVisitor validates the scale factors and builds a ScaledVisitor.
func NewScaledVisitor(base entities.Visitor, multiplier, divisor int64) (ScaledVisitor, error) {
	if base == nil {
		return ScaledVisitor{}, fmt.Errorf("scaled visitor: base visitor cannot be nil")
	}
	if multiplier <= 0 {
		return ScaledVisitor{}, fmt.Errorf("scaled visitor: multiplier must be positive (got %d)", multiplier)
	}
	if divisor <= 0 {
		return ScaledVisitor{}, fmt.Errorf("scaled visitor: divisor must be positive (got %d)", divisor)
	}
	return ScaledVisitor{Base: base, Multiplier: values.Amount(multiplier), Divisor: values.Amount(divisor)}, nil
}

func (s ScaledVisitor) scale(a values.Amount, err error) (values.Amount, error) {
	if err != nil {
		return 0, err
	}
	scaled, err := a.Mul(s.Multiplier)
	if err != nil {
		return 0, err
	}
	return scaled.Div(s.Divisor)
}

// VisitEquipment scales the base result.
func (s ScaledVisitor) VisitEquipment(leaf entities.Equipment) (values.Amount, error) {
	return s.scale(s.Base.VisitEquipment(leaf))
}

// VisitFixedPrice scales the base result.
func (s ScaledVisitor) VisitFixedPrice(leaf entities.FixedPriceContract) (values.Amount, error) {
	return s.scale(s.Base.VisitFixedPrice(leaf))
}

// VisitTimeAndMaterials scales the base result.
func (s ScaledVisitor) VisitTimeAndMaterials(leaf entities.TimeAndMaterialsContract) (values.Amount, error) {
	return s.scale(s.Base.VisitTimeAndMaterials(leaf))
}

// VisitSupport scales the base result.
func (s ScaledVisitor) VisitSupport(leaf entities.SupportContract) (values.Amount, error) {
	return s.scale(s.Base.VisitSupport(leaf))
}
