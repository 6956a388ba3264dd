package typegraph

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	strutil "github.com/conduit-lang/schemagen/internal/util/strings"
)

// Properties is the property collection owned by one Type.
//
// Declared properties are the ones the schema lists on the type itself. The
// full view adds everything inherited from ancestors, and the local view is
// the declared properties minus the overloaded ones. Views are built once by
// Finalize and never change afterwards.
type Properties struct {
	owner    *Type
	declared []*Property

	all         []*Property
	allSorted   []*Property
	local       []*Property
	localSorted []*Property
	sealed      bool
}

func newProperties(owner *Type) *Properties {
	return &Properties{owner: owner}
}

// Add attaches p to the collection. A property whose non-empty name or ref is
// already present is merged into the existing entry: the original is kept and
// returned with merged=true, and a notice is logged. Adding a property with
// neither name nor ref fails.
func (ps *Properties) Add(p *Property, logger *zap.Logger) (kept *Property, merged bool, err error) {
	if ps.sealed {
		invariantViolation(ps.owner.version, ps.owner.name, "property %q added after finalize", p.Name())
	}
	if p.name == "" && p.ref == "" {
		return nil, false, fmt.Errorf("cannot add property to type %q: it has no name or ref", ps.owner.name)
	}

	for _, current := range ps.declared {
		if current == p {
			return current, false, nil
		}
		key, value := "", ""
		switch {
		case p.name != "" && current.name == p.name:
			key, value = "name", p.name
		case p.ref != "" && current.ref == p.ref:
			key, value = "ref", p.ref
		default:
			continue
		}

		logger.Info("type already has property, keeping original",
			zap.String("type", ps.owner.name),
			zap.String("property", value),
			zap.String("matched_by", key),
		)
		if current.valueTypeName != p.valueTypeName || current.maxOccurs != p.maxOccurs || current.minOccurs != p.minOccurs {
			logger.Debug("discarded property definition differs from the kept one",
				zap.String("type", ps.owner.name),
				zap.String("property", value),
				zap.String("kept_type", current.valueTypeName),
				zap.String("discarded_type", p.valueTypeName),
				zap.String("kept_cardinality", current.Cardinality()),
				zap.String("discarded_cardinality", p.Cardinality()),
			)
		}
		return current, true, nil
	}

	p.owner = ps.owner.id
	p.graph = ps.owner.graph
	ps.declared = append(ps.declared, p)
	return p, false, nil
}

// Property returns the property with the given name. After Finalize the full
// view is searched, before it only the declared properties.
func (ps *Properties) Property(name string) *Property {
	source := ps.declared
	if ps.sealed {
		source = ps.all
	}
	for _, p := range source {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// HasProperty reports whether Property(name) would return a property.
func (ps *Properties) HasProperty(name string) bool {
	return ps.Property(name) != nil
}

// Declared returns the properties declared on the type itself, in declaration order.
func (ps *Properties) Declared() []*Property { return cloneProps(ps.declared) }

// All returns the full view: inherited and declared properties, ancestors first.
func (ps *Properties) All() []*Property { return cloneProps(ps.all) }

// AllSorted returns the full view sorted by name.
func (ps *Properties) AllSorted() []*Property { return cloneProps(ps.allSorted) }

// Local returns the declared, non-overloaded properties in declaration order.
func (ps *Properties) Local() []*Property { return cloneProps(ps.local) }

// LocalSorted returns the local view sorted by name.
func (ps *Properties) LocalSorted() []*Property { return cloneProps(ps.localSorted) }

// Len returns the size of the full view.
func (ps *Properties) Len() int { return len(ps.all) }

// LocalLen returns the size of the local view.
func (ps *Properties) LocalLen() int { return len(ps.local) }

// HasLocal reports whether the local view is non-empty.
func (ps *Properties) HasLocal() bool { return len(ps.local) > 0 }

// LocalOfKinds returns local properties whose value type has one of kinds.
// Collections are skipped unless includeCollections is set.
func (ps *Properties) LocalOfKinds(includeCollections bool, kinds ...Kind) []*Property {
	var out []*Property
	for _, p := range ps.local {
		if !includeCollections && p.IsCollection() {
			continue
		}
		if vt := p.ValueType(); vt != nil && vt.kind.IsOneOf(kinds...) {
			out = append(out, p)
		}
	}
	return out
}

// seal builds the views from the parent's full view. The parent must already be sealed.
func (ps *Properties) seal(parent *Properties) {
	if ps.sealed {
		return
	}

	var inherited []*Property
	if parent != nil {
		inherited = parent.all
	}

	ps.all = make([]*Property, 0, len(inherited)+len(ps.declared))
	ps.all = append(ps.all, inherited...)
	index := make(map[string]int, len(ps.all))
	for i, p := range ps.all {
		index[p.Name()] = i
	}

	// Only a redeclared ancestor property is overloaded. Two declared
	// properties sharing a name (a ref and an attribute) both stay.
	for _, p := range ps.declared {
		if i, ok := index[p.Name()]; ok && i < len(inherited) {
			p.overloaded = true
			ps.all[i] = p
			continue
		}
		ps.all = append(ps.all, p)
	}

	for _, p := range ps.declared {
		if !p.overloaded {
			ps.local = append(ps.local, p)
		}
	}

	ps.allSorted = sortedByName(ps.all)
	ps.localSorted = sortedByName(ps.local)
	ps.sealed = true
}

func sortedByName(props []*Property) []*Property {
	out := cloneProps(props)
	sort.SliceStable(out, func(i, j int) bool {
		return strutil.NaturalCompareFold(out[i].Name(), out[j].Name()) < 0
	})
	return out
}

func cloneProps(props []*Property) []*Property {
	out := make([]*Property, len(props))
	copy(out, props)
	return out
}
