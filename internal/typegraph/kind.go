package typegraph

import "fmt"

// Kind classifies a Type's generation strategy.
type Kind int

const (
	KindUnknown Kind = iota
	KindPrimitive
	KindList
	KindPrimitiveContainer
	KindQuantity
	KindResource
	KindResourceContainer
	KindResourceInline
	KindElement
	KindAbstract
	// KindRaw marks externally defined content (embedded XHTML) kept verbatim.
	KindRaw
)

var kindNames = map[Kind]string{
	KindUnknown:            "UNKNOWN",
	KindPrimitive:          "PRIMITIVE",
	KindList:               "LIST",
	KindPrimitiveContainer: "PRIMITIVE_CONTAINER",
	KindQuantity:           "QUANTITY",
	KindResource:           "RESOURCE",
	KindResourceContainer:  "RESOURCE_CONTAINER",
	KindResourceInline:     "RESOURCE_INLINE",
	KindElement:            "ELEMENT",
	KindAbstract:           "ABSTRACT",
	KindRaw:                "RAW",
}

// String returns the string representation of the kind
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "UNKNOWN"
}

// ParseKind converts a string to a Kind
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s && k != KindUnknown {
			return k, nil
		}
	}
	return KindUnknown, fmt.Errorf("unknown type kind: %s", s)
}

// MarshalText renders the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses a kind name.
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// IsOneOf reports whether k equals any of kinds.
func (k Kind) IsOneOf(kinds ...Kind) bool {
	for _, other := range kinds {
		if k == other {
			return true
		}
	}
	return false
}

// IsContainer reports whether values of this kind are runtime-discriminated
// resource holders resolved through the version type map.
func (k Kind) IsContainer() bool {
	return k == KindResourceContainer || k == KindResourceInline
}

// IsPrimitiveOrList reports whether k is a simple value kind.
func (k Kind) IsPrimitiveOrList() bool {
	return k == KindPrimitive || k == KindList
}
