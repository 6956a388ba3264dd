package typegraph

// Placement tells where a property value is written when serialized.
type Placement int

const (
	// ElementAttribute writes the value as a nested element.
	ElementAttribute Placement = iota
	// ContainerAttribute writes the value as an attribute of the enclosing element.
	ContainerAttribute
)

func (p Placement) String() string {
	if p == ContainerAttribute {
		return "CONTAINER_ATTRIBUTE"
	}
	return "ELEMENT_ATTRIBUTE"
}

// MarshalText renders the placement by name.
func (p Placement) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// PlacementOf decides where the value of p, owned by t, is serialized.
// The first matching rule wins:
//
//   - a primitive or list value, or a value inheriting a primitive container,
//     is a container attribute inside primitive containers and an element elsewhere;
//   - the value property of t is an element in quantities and a container
//     attribute elsewhere;
//   - anything else is an element.
func PlacementOf(t *Type, p *Property) Placement {
	ownerWrapsPrimitive := t.IsPrimitiveContainer() || t.HasPrimitiveContainerParent()

	if vt := p.ValueType(); vt != nil && (vt.IsPrimitiveOrList() || vt.HasPrimitiveContainerParent()) {
		if ownerWrapsPrimitive {
			return ContainerAttribute
		}
		return ElementAttribute
	}

	if vp := t.ValueProperty(); vp != nil && vp == p {
		if t.IsQuantity() || t.HasQuantityParent() {
			return ElementAttribute
		}
		return ContainerAttribute
	}

	return ElementAttribute
}
