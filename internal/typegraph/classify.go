package typegraph

import "strings"

// Classify returns the kind of t. Rules are applied in order and the first
// match wins; the name-based rules also look at t's ancestors. Kinds are only
// cached once the builder is finalized, since before that a parent may still
// be pending.
func (b *Builder) Classify(t *Type) Kind {
	if t.classified {
		return t.kind
	}
	k := classify(t, b.opts.Rules)
	if b.finalized {
		t.kind = k
		t.classified = true
	}
	return k
}

func classify(t *Type, rules KindRules) Kind {
	switch {
	case t.raw:
		return KindRaw
	case t.simple && (t.list || (rules.ListSuffix != "" && strings.HasSuffix(t.name, rules.ListSuffix))):
		return KindList
	case t.simple:
		return KindPrimitive
	case contains(rules.ContainerNames, t.name):
		return KindResourceContainer
	case contains(rules.InlineNames, t.name):
		return KindResourceInline
	case t.abstract:
		return KindAbstract
	case wrapsPrimitive(t):
		return KindPrimitiveContainer
	case inHierarchy(t, rules.QuantityNames):
		return KindQuantity
	case inHierarchy(t, rules.ResourceNames):
		return KindResource
	}
	return KindElement
}

// wrapsPrimitive reports whether t declares a value attribute of a simple type
// and no element content of its own.
func wrapsPrimitive(t *Type) bool {
	var value *Property
	for _, p := range t.properties.declared {
		switch {
		case p.Name() == ValuePropertyName:
			value = p
		case !p.attribute:
			return false
		}
	}
	if value == nil || !value.attribute {
		return false
	}
	vt := value.ValueType()
	return vt != nil && vt.simple
}

func inHierarchy(t *Type, names []string) bool {
	if len(names) == 0 {
		return false
	}
	if contains(names, t.name) {
		return true
	}
	for _, a := range t.Ancestors() {
		if contains(names, a.name) {
			return true
		}
	}
	return false
}
