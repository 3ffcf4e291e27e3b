package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/reglet-dev/rollup/internal/domain/entities"
	"github.com/reglet-dev/rollup/internal/domain/values"
)

// Document field names accepted on leaf nodes.
const (
	FieldPrice        = "price"
	FieldCostPerYear  = "cost_per_year"
	FieldCostPerHour  = "cost_per_hour"
	FieldHours        = "hours"
	FieldCostPerMonth = "cost_per_month"
)

var fieldSetters = map[string]func(f *entities.Fields, v int64){
	FieldPrice:        func(f *entities.Fields, v int64) { f.Price = values.Amount(v) },
	FieldCostPerYear:  func(f *entities.Fields, v int64) { f.CostPerYear = values.Amount(v) },
	FieldCostPerHour:  func(f *entities.Fields, v int64) { f.CostPerHour = values.Amount(v) },
	FieldHours:        func(f *entities.Fields, v int64) { f.Hours = v },
	FieldCostPerMonth: func(f *entities.Fields, v int64) { f.CostPerMonth = values.Amount(v) },
}

// VariantDecoder describes how a node of one kind is read from a document.
type VariantDecoder struct {
	Kind     values.Kind
	Required []string
}

// DefaultVariantDecoders returns one decoder per built-in kind.
func DefaultVariantDecoders() []VariantDecoder {
	return []VariantDecoder{
		{Kind: values.KindEquipment, Required: []string{FieldPrice}},
		{Kind: values.KindFixedPrice, Required: []string{FieldCostPerYear}},
		{Kind: values.KindTimeAndMaterials, Required: []string{FieldCostPerHour, FieldHours}},
		{Kind: values.KindSupport, Required: []string{FieldCostPerMonth}},
	}
}

// VariantRegistry maps each kind to its decoder. A registry is only created
// when every kind in values.AllKinds has a decoder.
type VariantRegistry struct {
	decoders map[values.Kind]VariantDecoder
}

// NewVariantRegistry validates the decoders and builds a registry.
func NewVariantRegistry(decoders ...VariantDecoder) (*VariantRegistry, error) {
	r := &VariantRegistry{decoders: make(map[values.Kind]VariantDecoder, len(decoders))}

	for _, d := range decoders {
		if err := d.Kind.Validate(); err != nil {
			return nil, fmt.Errorf("variant decoder: %w", err)
		}
		if _, exists := r.decoders[d.Kind]; exists {
			return nil, fmt.Errorf("variant decoder for %s registered twice", d.Kind)
		}
		if len(d.Required) == 0 {
			return nil, fmt.Errorf("variant decoder for %s declares no fields", d.Kind)
		}
		for _, field := range d.Required {
			if _, ok := fieldSetters[field]; !ok {
				return nil, fmt.Errorf("variant decoder for %s: unknown field %q", d.Kind, field)
			}
		}
		r.decoders[d.Kind] = d
	}

	var missing []string
	for _, kind := range values.AllKinds() {
		if _, ok := r.decoders[kind]; !ok {
			missing = append(missing, kind.String())
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("no variant decoder for: %s", strings.Join(missing, ", "))
	}

	return r, nil
}

// MustNewVariantRegistry builds the registry from the default decoders and
// panics if any kind lacks one.
func MustNewVariantRegistry() *VariantRegistry {
	r, err := NewVariantRegistry(DefaultVariantDecoders()...)
	if err != nil {
		panic(err)
	}
	return r
}

// Kinds returns the registered kinds in sorted order.
func (r *VariantRegistry) Kinds() []values.Kind {
	kinds := make([]values.Kind, 0, len(r.decoders))
	for k := range r.decoders {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Decode builds a leaf from a document node. Every required field must be
// present and no other leaf field may be set.
func (r *VariantRegistry) Decode(spec *entities.NodeSpec) (entities.Leaf, error) {
	kind, err := values.ParseKind(spec.Kind)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entities.ErrUnknownVariant, err)
	}
	d, ok := r.decoders[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", entities.ErrUnknownVariant, kind)
	}

	present := NodeFieldValues(spec)
	required := make(map[string]bool, len(d.Required))
	var fields entities.Fields
	for _, name := range d.Required {
		required[name] = true
		v, ok := present[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s requires %s", entities.ErrInvalidField, kind, name)
		}
		fieldSetters[name](&fields, v)
	}

	var extra []string
	for name := range present {
		if !required[name] {
			extra = append(extra, name)
		}
	}
	if len(extra) > 0 {
		sort.Strings(extra)
		return nil, fmt.Errorf("%w: %s does not accept %s", entities.ErrInvalidField, kind, strings.Join(extra, ", "))
	}

	return entities.NewLeaf(kind, spec.Name, fields)
}

// NodeFieldValues returns the leaf fields set on a node, keyed by document
// field name.
func NodeFieldValues(spec *entities.NodeSpec) map[string]int64 {
	out := make(map[string]int64)
	set := func(name string, v *int64) {
		if v != nil {
			out[name] = *v
		}
	}
	set(FieldPrice, spec.Price)
	set(FieldCostPerYear, spec.CostPerYear)
	set(FieldCostPerHour, spec.CostPerHour)
	set(FieldHours, spec.Hours)
	set(FieldCostPerMonth, spec.CostPerMonth)
	return out
}
