package typegraph

// TypeID is a handle into a Types registry. IDs start at 1; NoType means "unset".
type TypeID int

// NoType is the zero TypeID.
const NoType TypeID = 0

// Type is one generated unit's structural definition.
type Type struct {
	id      TypeID
	name    string
	version string
	file    string
	line    int
	graph   *Types

	simple   bool
	list     bool
	union    bool
	abstract bool
	raw      bool

	kind       Kind
	classified bool

	parentName          string
	parent              TypeID
	restrictionBaseName string
	restrictionBase     TypeID
	primitiveBase       string

	className  string
	namespace  string
	interfaces []string
	traits     []string

	documentation []string
	enumeration   []string
	patterns      []string
	minLength     string
	maxLength     string

	properties *Properties
	imports    *TypeImports
}

func newType(graph *Types, name, version string) *Type {
	t := &Type{
		name:    name,
		version: version,
		graph:   graph,
	}
	t.properties = newProperties(t)
	return t
}

// ID returns the registry handle of the type.
func (t *Type) ID() TypeID { return t.id }

// Name returns the schema name of the type.
func (t *Type) Name() string { return t.name }

// Version returns the schema version the type belongs to.
func (t *Type) Version() string { return t.version }

// SourceFile returns the schema file of the first definition.
func (t *Type) SourceFile() string { return t.file }

// SourceLine returns the line of the first definition.
func (t *Type) SourceLine() int { return t.line }

// Kind returns the classification computed during Finalize.
func (t *Type) Kind() Kind { return t.kind }

// IsAbstract reports whether generated units of this type cannot be instantiated.
func (t *Type) IsAbstract() bool { return t.abstract || t.kind == KindAbstract }

// IsSimple reports whether the type was declared as a simple type.
func (t *Type) IsSimple() bool { return t.simple }

// IsUnion reports whether the type was derived by union.
func (t *Type) IsUnion() bool { return t.union }

// ParentID returns the parent handle, or NoType.
func (t *Type) ParentID() TypeID { return t.parent }

// ParentName returns the declared parent name, resolved or not.
func (t *Type) ParentName() string { return t.parentName }

// Parent returns the parent type, or nil.
func (t *Type) Parent() *Type { return t.graph.Get(t.parent) }

// RestrictionBaseName returns the declared restriction base name.
func (t *Type) RestrictionBaseName() string { return t.restrictionBaseName }

// RestrictionBase returns the schema type this simple type narrows, or nil.
func (t *Type) RestrictionBase() *Type { return t.graph.Get(t.restrictionBase) }

// PrimitiveBase returns the built-in datatype (e.g. "string", "boolean") the
// type ultimately narrows, following restriction bases.
func (t *Type) PrimitiveBase() string {
	for cur, seen := t, 0; cur != nil && seen <= t.graph.Len(); cur, seen = cur.RestrictionBase(), seen+1 {
		if cur.primitiveBase != "" {
			return cur.primitiveBase
		}
	}
	return ""
}

// ClassName returns the derived class name.
func (t *Type) ClassName() string { return t.className }

// Namespace returns the derived, fully qualified namespace.
func (t *Type) Namespace() string { return t.namespace }

// FullyQualifiedName returns the namespace-qualified class name.
func (t *Type) FullyQualifiedName() string {
	return qualify(t.namespace, t.className, t.graph.separator())
}

// Interfaces returns the capability abstractions this type declares directly.
func (t *Type) Interfaces() []string { return clone(t.interfaces) }

// Traits returns the mixins this type declares directly.
func (t *Type) Traits() []string { return clone(t.traits) }

// Documentation returns the annotation lines of the type.
func (t *Type) Documentation() []string { return clone(t.documentation) }

// Enumeration returns the allowed values of an enumerated simple type.
func (t *Type) Enumeration() []string { return clone(t.enumeration) }

// Patterns returns the pattern facets of a simple type.
func (t *Type) Patterns() []string { return clone(t.patterns) }

// LengthFacets returns the minLength and maxLength facets, "" when absent.
func (t *Type) LengthFacets() (minLength, maxLength string) { return t.minLength, t.maxLength }

// Properties returns the type's property collection.
func (t *Type) Properties() *Properties { return t.properties }

// Imports returns the resolved import set. It is only available after Finalize.
func (t *Type) Imports() *TypeImports {
	if t.imports == nil {
		invariantViolation(t.version, t.name, "imports requested before the registry was finalized")
	}
	return t.imports
}

// Ancestors returns the parent chain, nearest first.
func (t *Type) Ancestors() []*Type {
	var out []*Type
	for p := t.Parent(); p != nil && len(out) <= t.graph.Len(); p = p.Parent() {
		out = append(out, p)
	}
	return out
}

// HasAncestorOfKind reports whether any ancestor has one of kinds.
func (t *Type) HasAncestorOfKind(kinds ...Kind) bool {
	for _, a := range t.Ancestors() {
		if a.kind.IsOneOf(kinds...) {
			return true
		}
	}
	return false
}

// IsPrimitiveOrList reports whether the type is a simple value type.
func (t *Type) IsPrimitiveOrList() bool { return t.kind.IsPrimitiveOrList() }

// IsPrimitiveContainer reports whether the type wraps a primitive value.
func (t *Type) IsPrimitiveContainer() bool { return t.kind == KindPrimitiveContainer }

// HasPrimitiveContainerParent reports whether an ancestor wraps a primitive value.
func (t *Type) HasPrimitiveContainerParent() bool { return t.HasAncestorOfKind(KindPrimitiveContainer) }

// IsQuantity reports whether the type is quantity-like.
func (t *Type) IsQuantity() bool { return t.kind == KindQuantity }

// HasQuantityParent reports whether an ancestor is quantity-like.
func (t *Type) HasQuantityParent() bool { return t.HasAncestorOfKind(KindQuantity) }

// ValueProperty returns the distinguished "value" property from the full view, or nil.
func (t *Type) ValueProperty() *Property {
	return t.properties.Property(ValuePropertyName)
}

// String returns "version/name".
func (t *Type) String() string {
	return t.version + "/" + t.name
}

func qualify(namespace, name, sep string) string {
	if namespace == "" {
		return name
	}
	return namespace + sep + name
}

func clone(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
