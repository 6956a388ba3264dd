package typegraph

import (
	"strconv"
	"strings"
)

// Property is a named or ref'd member of a Type.
type Property struct {
	name          string
	ref           string
	valueTypeName string
	valueType     TypeID
	minOccurs     int
	maxOccurs     int
	attribute     bool
	required      bool
	overloaded    bool
	choiceGroup   string
	documentation []string
	owner         TypeID
	graph         *Types
}

// PropertySpec describes a property before it is attached to a Type.
type PropertySpec struct {
	Name          string
	Ref           string
	ValueTypeName string
	MinOccurs     int
	// MaxOccurs is the upper bound; Unbounded for "unbounded". Zero is read as 1.
	MaxOccurs     int
	Attribute     bool
	Required      bool
	ChoiceGroup   string
	Documentation []string
}

func newProperty(spec PropertySpec) *Property {
	maxOccurs := spec.MaxOccurs
	if maxOccurs == 0 {
		maxOccurs = 1
	}
	return &Property{
		name:          spec.Name,
		ref:           spec.Ref,
		valueTypeName: spec.ValueTypeName,
		minOccurs:     spec.MinOccurs,
		maxOccurs:     maxOccurs,
		attribute:     spec.Attribute,
		required:      spec.Required,
		choiceGroup:   spec.ChoiceGroup,
		documentation: clone(spec.Documentation),
	}
}

// Name returns the property name. For ref-only properties it is the local part of the ref.
func (p *Property) Name() string {
	if p.name != "" {
		return p.name
	}
	if i := strings.LastIndex(p.ref, ":"); i >= 0 {
		return p.ref[i+1:]
	}
	return p.ref
}

// DeclaredName returns the name exactly as declared, possibly empty.
func (p *Property) DeclaredName() string { return p.name }

// Ref returns the declared ref, possibly empty.
func (p *Property) Ref() string { return p.ref }

// ValueTypeName returns the referenced value type name.
func (p *Property) ValueTypeName() string { return p.valueTypeName }

// ValueTypeID returns the value type handle, or NoType.
func (p *Property) ValueTypeID() TypeID { return p.valueType }

// ValueType returns the value type, or nil for untyped properties.
func (p *Property) ValueType() *Type {
	if p.graph == nil {
		return nil
	}
	return p.graph.Get(p.valueType)
}

// Owner returns the type that declared the property.
func (p *Property) Owner() *Type {
	if p.graph == nil {
		return nil
	}
	return p.graph.Get(p.owner)
}

// MinOccurs returns the lower occurrence bound.
func (p *Property) MinOccurs() int { return p.minOccurs }

// MaxOccurs returns the upper occurrence bound, Unbounded for no limit.
func (p *Property) MaxOccurs() int { return p.maxOccurs }

// IsCollection reports whether the property holds more than one value.
func (p *Property) IsCollection() bool {
	return p.maxOccurs == Unbounded || p.maxOccurs > 1
}

// IsAttribute reports whether the property was declared as a schema attribute.
func (p *Property) IsAttribute() bool { return p.attribute }

// IsRequired reports whether the property must be present.
func (p *Property) IsRequired() bool { return p.required || p.minOccurs > 0 }

// IsOverloaded reports whether the property redeclares an ancestor's property.
func (p *Property) IsOverloaded() bool { return p.overloaded }

// IsValueProperty reports whether this is the distinguished "value" property.
func (p *Property) IsValueProperty() bool { return p.Name() == ValuePropertyName }

// ChoiceGroup returns an identifier shared by the options of one choice, or "".
func (p *Property) ChoiceGroup() string { return p.choiceGroup }

// Documentation returns the annotation lines of the property.
func (p *Property) Documentation() []string { return clone(p.documentation) }

// Cardinality renders the occurrence bounds as "min..max".
func (p *Property) Cardinality() string {
	upper := "*"
	if p.maxOccurs != Unbounded {
		upper = strconv.Itoa(p.maxOccurs)
	}
	return strconv.Itoa(p.minOccurs) + ".." + upper
}

// ParseMaxOccurs reads a maxOccurs attribute value. Empty means 1.
func ParseMaxOccurs(s string) (int, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "":
		return 1, nil
	case "unbounded":
		return Unbounded, nil
	}
	return strconv.Atoi(s)
}

// ParseMinOccurs reads a minOccurs attribute value. Empty means def.
func ParseMinOccurs(s string, def int) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}
	return strconv.Atoi(s)
}
