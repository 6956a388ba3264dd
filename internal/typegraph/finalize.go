package typegraph

import (
	"sort"

	"go.uber.org/zap"

	strutil "github.com/conduit-lang/schemagen/internal/util/strings"
)

// Finalize resolves pending references, rejects inheritance cycles, then
// classifies every type, builds its property views, derives its names and
// capabilities and its import set, and seals the registry.
//
// Errors recorded during registration are fatal too. All fatal diagnostics
// of a stage are collected before returning them as an ErrorList. Calling
// Finalize again returns the same outcome.
func (b *Builder) Finalize() (*Types, error) {
	if b.finalized {
		if b.fatal != nil {
			return nil, b.fatal
		}
		return b.types, nil
	}
	b.finalized = true

	b.diags = append(b.diags, b.resolvePending()...)
	if b.diags.HasErrors() {
		return nil, b.fail()
	}
	b.diags = append(b.diags, b.detectCycles()...)
	if b.diags.HasErrors() {
		return nil, b.fail()
	}

	order := ancestorsFirst(b.types.types)
	for _, t := range order {
		b.Classify(t)
		var parentProps *Properties
		if p := t.Parent(); p != nil {
			parentProps = p.properties
		}
		t.properties.seal(parentProps)
	}

	b.diags = append(b.diags, b.deriveNames(order)...)
	if b.diags.HasErrors() {
		return nil, b.fail()
	}
	b.deriveCapabilities(order)

	ts := b.types
	ts.sorted = ts.sortedByName()
	ts.sealed = true
	for _, t := range ts.types {
		t.imports = buildImports(t, b.opts.Support)
	}

	_, warnings := b.diags.ErrorCount()
	b.logger.Info("type graph finalized",
		zap.Int("types", ts.Len()),
		zap.Int("warnings", warnings),
	)
	return ts, nil
}

func (b *Builder) fail() error {
	b.fatal = b.diags.Errors()
	b.logger.Debug("type graph rejected", zap.Int("errors", len(b.fatal)), zap.Error(b.fatal))
	return b.fatal
}

// resolvePending links every parent, restriction base and property value type
// left pending during registration. Resolution only depends on the registry
// contents, so a single pass after registration reaches the fixed point.
func (b *Builder) resolvePending() ErrorList {
	ts := b.types
	for changed := true; changed; {
		changed = false
		for _, t := range ts.types {
			if t.parentName != "" && t.parent == NoType {
				if id := ts.resolve(t.parentName); id != NoType {
					t.parent, changed = id, true
				}
			}
			if t.restrictionBaseName != "" && t.restrictionBase == NoType {
				if id := ts.resolve(t.restrictionBaseName); id != NoType {
					t.restrictionBase, changed = id, true
				}
			}
			for _, p := range t.properties.declared {
				if p.valueTypeName != "" && p.valueType == NoType {
					if id := ts.resolve(p.valueTypeName); id != NoType {
						p.valueType, changed = id, true
					}
				}
			}
		}
	}

	var errs ErrorList
	for _, t := range ts.types {
		if t.parentName != "" && t.parent == NoType {
			errs = append(errs, NewUnresolvedReference(b.opts.Version, t.name, "parent", t.parentName))
		}
		if t.restrictionBaseName != "" && t.restrictionBase == NoType {
			errs = append(errs, NewUnresolvedReference(b.opts.Version, t.name, "restriction base", t.restrictionBaseName))
		}
		for _, p := range t.properties.declared {
			if p.valueTypeName != "" && p.valueType == NoType {
				errs = append(errs, NewUnresolvedReference(b.opts.Version, t.name, "property "+p.Name(), p.valueTypeName))
			}
		}
	}
	return errs
}

// detectCycles reports every type that is its own ancestor, through parents
// or through restriction bases. Each cycle is reported once.
func (b *Builder) detectCycles() ErrorList {
	var errs ErrorList
	errs = append(errs, b.detectCyclesVia(func(t *Type) *Type { return t.Parent() })...)
	errs = append(errs, b.detectCyclesVia(func(t *Type) *Type { return t.RestrictionBase() })...)
	return errs
}

func (b *Builder) detectCyclesVia(next func(*Type) *Type) ErrorList {
	const (
		unvisited = iota
		visiting
		done
	)
	var errs ErrorList
	state := make(map[TypeID]int, len(b.types.types))

	for _, t := range b.types.types {
		var path []*Type
		cur := t
		for cur != nil && state[cur.id] == unvisited {
			state[cur.id] = visiting
			path = append(path, cur)
			cur = next(cur)
		}
		if cur != nil && state[cur.id] == visiting {
			var names []string
			start := 0
			for i, p := range path {
				if p == cur {
					start = i
					break
				}
			}
			for _, p := range path[start:] {
				names = append(names, p.name)
			}
			names = append(names, cur.name)
			errs = append(errs, NewInheritanceCycle(b.opts.Version, names))
		}
		for _, p := range path {
			state[p.id] = done
		}
	}
	return errs
}

// ancestorsFirst orders types so every type follows its parent. Types of equal
// depth keep registration order.
func ancestorsFirst(types []*Type) []*Type {
	depth := make(map[TypeID]int, len(types))
	for _, t := range types {
		depth[t.id] = len(t.Ancestors())
	}
	out := make([]*Type, len(types))
	copy(out, types)
	sort.SliceStable(out, func(i, j int) bool { return depth[out[i].id] < depth[out[j].id] })
	return out
}

// deriveNames assigns class names and namespaces. A type lives in the types
// namespace of its version, below the class names of its ancestors.
func (b *Builder) deriveNames(order []*Type) ErrorList {
	var errs ErrorList
	ts := b.types
	sep := ts.separator()
	version := b.opts.Version

	for _, ns := range []string{ts.RootNamespace(), ts.TypesNamespace()} {
		if ns != "" && !strutil.IsNamespace(ns, sep) {
			errs = append(errs, NewInvalidIdentifier(version, "", "namespace", ns))
			return errs
		}
	}

	byFQN := make(map[string]*Type, len(order))
	for _, t := range order {
		t.className = b.opts.ClassPrefix + strutil.ToPascalCase(t.name)
		if !strutil.IsIdentifier(t.className) {
			errs = append(errs, NewInvalidIdentifier(version, t.name, "class", t.className))
			continue
		}

		segments := []string{ts.TypesNamespace()}
		ancestors := t.Ancestors()
		for i := len(ancestors) - 1; i >= 0; i-- {
			segments = append(segments, b.opts.ClassPrefix+strutil.ToPascalCase(ancestors[i].name))
		}
		t.namespace = join(sep, segments...)
		if !strutil.IsNamespace(t.namespace, sep) {
			errs = append(errs, NewInvalidIdentifier(version, t.name, "namespace", t.namespace))
			continue
		}

		fqn := t.FullyQualifiedName()
		if other, taken := byFQN[fqn]; taken {
			errs = append(errs, NewDuplicateClassName(version, t.name, other.name, fqn))
			continue
		}
		byFQN[fqn] = t
	}
	return errs
}

// deriveCapabilities records the interfaces and traits each type declares
// itself: those of its kind that no ancestor already declares. Parentless
// types also declare the base capabilities.
func (b *Builder) deriveCapabilities(order []*Type) {
	support := b.opts.Support
	inherited := make(map[TypeID]map[string]bool, len(order))

	for _, t := range order {
		have := make(map[string]bool)
		if p := t.Parent(); p != nil {
			for name := range inherited[p.id] {
				have[name] = true
			}
		}

		own := support.ByKind[t.kind]
		var ifaces, traits []string
		if t.parent == NoType {
			ifaces = append(ifaces, support.Base.Interfaces...)
			traits = append(traits, support.Base.Traits...)
		}
		ifaces = append(ifaces, own.Interfaces...)
		traits = append(traits, own.Traits...)

		for _, name := range ifaces {
			if !have[name] {
				have[name] = true
				t.interfaces = append(t.interfaces, name)
			}
		}
		for _, name := range traits {
			if !have[name] {
				have[name] = true
				t.traits = append(t.traits, name)
			}
		}
		inherited[t.id] = have
	}
}

func join(sep string, segments ...string) string {
	return strutil.JoinNamespace(sep, segments...)
}
