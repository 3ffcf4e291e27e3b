package values

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownKind is returned for a leaf kind outside the closed set.
var ErrUnknownKind = errors.New("unknown leaf kind")

// Kind identifies one of the closed set of leaf variants.
type Kind string

const (
	// KindEquipment is a priced piece of hardware
	KindEquipment Kind = "equipment"
	// KindFixedPrice is a contract billed at a fixed yearly cost
	KindFixedPrice Kind = "fixed_price"
	// KindTimeAndMaterials is a contract billed per hour worked
	KindTimeAndMaterials Kind = "time_and_materials"
	// KindSupport is a contract billed monthly
	KindSupport Kind = "support"
)

// AllKinds returns every leaf kind in declaration order.
// Adding a kind here without a decoder trips the variant registry check at startup.
func AllKinds() []Kind {
	return []Kind{KindEquipment, KindFixedPrice, KindTimeAndMaterials, KindSupport}
}

// ParseKind normalizes and validates a kind string.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if err := k.Validate(); err != nil {
		return "", err
	}
	return k, nil
}

// Validate returns an error if the kind is not part of the closed set
func (k Kind) Validate() error {
	switch k {
	case KindEquipment, KindFixedPrice, KindTimeAndMaterials, KindSupport:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, string(k))
	}
}

// Label returns a human-readable name for the kind.
func (k Kind) Label() string {
	switch k {
	case KindEquipment:
		return "Equipment"
	case KindFixedPrice:
		return "Fixed Price Contract"
	case KindTimeAndMaterials:
		return "Time and Materials Contract"
	case KindSupport:
		return "Support Contract"
	default:
		return string(k)
	}
}

// String returns the string representation
func (k Kind) String() string {
	return string(k)
}
