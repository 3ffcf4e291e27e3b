package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/reglet-dev/rollup/internal/domain/entities"
)

// Built-in visitor names.
const (
	VisitorMonthly = "monthly"
	VisitorYearly  = "yearly"
)

// NamedVisitor is a visitor registered under a report name.
type NamedVisitor struct {
	Visitor     entities.Visitor
	Name        string
	Description string
}

// VisitorRegistry maps report names to visitors.
type VisitorRegistry struct {
	visitors map[string]NamedVisitor
}

// NewVisitorRegistry creates a registry holding the built-in visitors.
func NewVisitorRegistry() *VisitorRegistry {
	r := &VisitorRegistry{visitors: make(map[string]NamedVisitor)}
	// Built-ins cannot collide, so registration errors are impossible here.
	_ = r.Register(VisitorMonthly, "Cost per month", MonthlyCostVisitor{})
	_ = r.Register(VisitorYearly, "Cost per year", YearlyCostVisitor{})
	return r
}

// Register adds a visitor under the given name.
func (r *VisitorRegistry) Register(name, description string, v entities.Visitor) error {
	key := normalizeName(name)
	if key == "" {
		return fmt.Errorf("visitor name cannot be empty")
	}
	if v == nil {
		return fmt.Errorf("visitor %s: implementation cannot be nil", key)
	}
	if _, exists := r.visitors[key]; exists {
		return fmt.Errorf("visitor %s already registered", key)
	}

	r.visitors[key] = NamedVisitor{Name: key, Description: description, Visitor: v}
	return nil
}

// Get returns the visitor registered under name (case-insensitive).
func (r *VisitorRegistry) Get(name string) (NamedVisitor, error) {
	nv, ok := r.visitors[normalizeName(name)]
	if !ok {
		return NamedVisitor{}, fmt.Errorf("unknown visitor %q (available: %s)", name, strings.Join(r.Names(), ", "))
	}
	return nv, nil
}

// Resolve looks up several visitors, keeping the requested order and
// dropping repeats.
func (r *VisitorRegistry) Resolve(names []string) ([]NamedVisitor, error) {
	seen := make(map[string]bool)
	resolved := make([]NamedVisitor, 0, len(names))
	for _, name := range names {
		nv, err := r.Get(name)
		if err != nil {
			return nil, err
		}
		if seen[nv.Name] {
			continue
		}
		seen[nv.Name] = true
		resolved = append(resolved, nv)
	}
	return resolved, nil
}

// Names returns the registered names in sorted order.
func (r *VisitorRegistry) Names() []string {
	names := make([]string, 0, len(r.visitors))
	for name := range r.visitors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
