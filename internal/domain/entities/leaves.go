package entities

import (
	"fmt"

	"github.com/reglet-dev/rollup/internal/domain/values"
)

const monthsPerYear values.Amount = 12

// Fields is the generic form of a leaf's data. Only the fields relevant to
// the leaf's kind are set; the rest stay zero.
type Fields struct {
	Price        values.Amount `json:"price,omitempty" yaml:"price,omitempty"`
	CostPerYear  values.Amount `json:"cost_per_year,omitempty" yaml:"cost_per_year,omitempty"`
	CostPerHour  values.Amount `json:"cost_per_hour,omitempty" yaml:"cost_per_hour,omitempty"`
	Hours        int64         `json:"hours,omitempty" yaml:"hours,omitempty"`
	CostPerMonth values.Amount `json:"cost_per_month,omitempty" yaml:"cost_per_month,omitempty"`
}

// NewLeaf builds a leaf of the given kind from generic fields.
// Fields that do not belong to the kind are ignored.
func NewLeaf(kind values.Kind, name string, f Fields) (Leaf, error) {
	switch kind {
	case values.KindEquipment:
		if err := nonNegative(name, "price", f.Price); err != nil {
			return nil, err
		}
		return NewEquipment(name, f.Price), nil
	case values.KindFixedPrice:
		if err := nonNegative(name, "cost_per_year", f.CostPerYear); err != nil {
			return nil, err
		}
		return NewFixedPriceContract(name, f.CostPerYear), nil
	case values.KindTimeAndMaterials:
		if err := nonNegative(name, "cost_per_hour", f.CostPerHour); err != nil {
			return nil, err
		}
		if err := nonNegative(name, "hours", values.Amount(f.Hours)); err != nil {
			return nil, err
		}
		return NewTimeAndMaterialsContract(name, f.CostPerHour, f.Hours), nil
	case values.KindSupport:
		if err := nonNegative(name, "cost_per_month", f.CostPerMonth); err != nil {
			return nil, err
		}
		return NewSupportContract(name, f.CostPerMonth), nil
	default:
		return nil, fmt.Errorf("%w: %w", ErrUnknownVariant, kind.Validate())
	}
}

func nonNegative(name, field string, v values.Amount) error {
	if v.IsNegative() {
		return fmt.Errorf("%w: %s: %s must not be negative (got %d)", ErrInvalidField, name, field, v)
	}
	return nil
}

func displayName(name string, kind values.Kind) string {
	if name == "" {
		return kind.Label()
	}
	return name
}

// ===== EQUIPMENT =====

// Equipment is a piece of hardware with a one-off price.
type Equipment struct {
	name  string
	price values.Amount
}

// NewEquipment creates an equipment leaf.
func NewEquipment(name string, price values.Amount) Equipment {
	return Equipment{name: displayName(name, values.KindEquipment), price: price}
}

// Name returns the display name.
func (e Equipment) Name() string { return e.name }

// Price returns the purchase price.
func (e Equipment) Price() values.Amount { return e.price }

// Kind returns values.KindEquipment.
func (e Equipment) Kind() values.Kind { return values.KindEquipment }

// Fields returns the leaf data in generic form.
func (e Equipment) Fields() Fields { return Fields{Price: e.price} }

// Value returns the price.
func (e Equipment) Value() (values.Amount, error) { return e.price, nil }

// Accept dispatches to VisitEquipment.
func (e Equipment) Accept(v Visitor) (values.Amount, error) { return v.VisitEquipment(e) }

func (Equipment) entityNode() {}
func (Equipment) leafNode()   {}

// ===== FIXED PRICE CONTRACT =====

// FixedPriceContract is billed a fixed amount per year.
type FixedPriceContract struct {
	name        string
	costPerYear values.Amount
}

// NewFixedPriceContract creates a fixed price contract leaf.
func NewFixedPriceContract(name string, costPerYear values.Amount) FixedPriceContract {
	return FixedPriceContract{name: displayName(name, values.KindFixedPrice), costPerYear: costPerYear}
}

// Name returns the display name.
func (c FixedPriceContract) Name() string { return c.name }

// CostPerYear returns the yearly cost.
func (c FixedPriceContract) CostPerYear() values.Amount { return c.costPerYear }

// Kind returns values.KindFixedPrice.
func (c FixedPriceContract) Kind() values.Kind { return values.KindFixedPrice }

// Fields returns the leaf data in generic form.
func (c FixedPriceContract) Fields() Fields { return Fields{CostPerYear: c.costPerYear} }

// Value returns the yearly cost.
func (c FixedPriceContract) Value() (values.Amount, error) { return c.costPerYear, nil }

// Accept dispatches to VisitFixedPrice.
func (c FixedPriceContract) Accept(v Visitor) (values.Amount, error) { return v.VisitFixedPrice(c) }

func (FixedPriceContract) entityNode() {}
func (FixedPriceContract) leafNode()   {}

// ===== TIME AND MATERIALS CONTRACT =====

// TimeAndMaterialsContract is billed per hour worked.
type TimeAndMaterialsContract struct {
	name        string
	costPerHour values.Amount
	hours       int64
}

// NewTimeAndMaterialsContract creates a time and materials contract leaf.
func NewTimeAndMaterialsContract(name string, costPerHour values.Amount, hours int64) TimeAndMaterialsContract {
	return TimeAndMaterialsContract{
		name:        displayName(name, values.KindTimeAndMaterials),
		costPerHour: costPerHour,
		hours:       hours,
	}
}

// Name returns the display name.
func (c TimeAndMaterialsContract) Name() string { return c.name }

// CostPerHour returns the hourly rate.
func (c TimeAndMaterialsContract) CostPerHour() values.Amount { return c.costPerHour }

// Hours returns the number of hours billed.
func (c TimeAndMaterialsContract) Hours() int64 { return c.hours }

// Kind returns values.KindTimeAndMaterials.
func (c TimeAndMaterialsContract) Kind() values.Kind { return values.KindTimeAndMaterials }

// Fields returns the leaf data in generic form.
func (c TimeAndMaterialsContract) Fields() Fields {
	return Fields{CostPerHour: c.costPerHour, Hours: c.hours}
}

// Total returns costPerHour × hours.
func (c TimeAndMaterialsContract) Total() (values.Amount, error) {
	return c.costPerHour.Mul(values.Amount(c.hours))
}

// Value returns costPerHour × hours.
func (c TimeAndMaterialsContract) Value() (values.Amount, error) { return c.Total() }

// Accept dispatches to VisitTimeAndMaterials.
func (c TimeAndMaterialsContract) Accept(v Visitor) (values.Amount, error) {
	return v.VisitTimeAndMaterials(c)
}

func (TimeAndMaterialsContract) entityNode() {}
func (TimeAndMaterialsContract) leafNode()   {}

// ===== SUPPORT CONTRACT =====

// SupportContract is billed a fixed amount per month.
type SupportContract struct {
	name         string
	costPerMonth values.Amount
}

// NewSupportContract creates a support contract leaf.
func NewSupportContract(name string, costPerMonth values.Amount) SupportContract {
	return SupportContract{name: displayName(name, values.KindSupport), costPerMonth: costPerMonth}
}

// Name returns the display name.
func (c SupportContract) Name() string { return c.name }

// CostPerMonth returns the monthly cost.
func (c SupportContract) CostPerMonth() values.Amount { return c.costPerMonth }

// Kind returns values.KindSupport.
func (c SupportContract) Kind() values.Kind { return values.KindSupport }

// Fields returns the leaf data in generic form.
func (c SupportContract) Fields() Fields { return Fields{CostPerMonth: c.costPerMonth} }

// Value returns the cost annualised over twelve months.
func (c SupportContract) Value() (values.Amount, error) { return c.costPerMonth.Mul(monthsPerYear) }

// Accept dispatches to VisitSupport.
func (c SupportContract) Accept(v Visitor) (values.Amount, error) { return v.VisitSupport(c) }

func (SupportContract) entityNode() {}
func (SupportContract) leafNode()   {}
