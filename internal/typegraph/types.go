// Package typegraph builds an inheritance-aware graph of schema types and
// derives, per type, the cross-references and serialization placement a
// generated unit needs.
package typegraph

import (
	"sort"
)

// Types is the registry owning every Type of one schema version.
// Links between types are TypeID handles into this registry. Once sealed by
// Finalize the registry is immutable and safe for concurrent readers.
type Types struct {
	version          string
	rootNamespace    string
	versionNamespace string
	sep              string

	types   []*Type
	byName  map[string]TypeID
	aliases map[string]string
	sorted  []*Type
	sealed  bool
}

func newTypes(opts Options) *Types {
	return &Types{
		version:          opts.Version,
		rootNamespace:    opts.RootNamespace,
		versionNamespace: opts.VersionNamespace,
		sep:              opts.Separator,
		byName:           make(map[string]TypeID),
		aliases:          make(map[string]string),
	}
}

// Version returns the schema version name.
func (ts *Types) Version() string { return ts.version }

// RootNamespace returns the namespace of the shared support entities.
func (ts *Types) RootNamespace() string { return ts.rootNamespace }

// VersionNamespace returns the namespace of version-scoped support entities.
func (ts *Types) VersionNamespace() string {
	return join(ts.sep, ts.rootNamespace, NamespaceVersions, ts.versionNamespace)
}

// TypesNamespace returns the namespace under which generated types live.
func (ts *Types) TypesNamespace() string {
	return join(ts.sep, ts.VersionNamespace(), NamespaceTypes)
}

// Separator returns the namespace separator.
func (ts *Types) Separator() string { return ts.separator() }

// Sealed reports whether Finalize completed.
func (ts *Types) Sealed() bool { return ts.sealed }

// Len returns the number of registered types.
func (ts *Types) Len() int {
	if ts == nil {
		return 0
	}
	return len(ts.types)
}

// Get returns the type for id, or nil for NoType and unknown ids.
func (ts *Types) Get(id TypeID) *Type {
	if ts == nil || id <= NoType || int(id) > len(ts.types) {
		return nil
	}
	return ts.types[id-1]
}

// Lookup returns the type registered under name.
func (ts *Types) Lookup(name string) (*Type, bool) {
	id, ok := ts.byName[name]
	if !ok {
		return nil, false
	}
	return ts.Get(id), true
}

// Sorted returns all types ordered by name.
func (ts *Types) Sorted() []*Type {
	if ts.sealed {
		out := make([]*Type, len(ts.sorted))
		copy(out, ts.sorted)
		return out
	}
	return ts.sortedByName()
}

// OfKind returns the types of the given kinds, ordered by name.
func (ts *Types) OfKind(kinds ...Kind) []*Type {
	var out []*Type
	for _, t := range ts.Sorted() {
		if t.kind.IsOneOf(kinds...) {
			out = append(out, t)
		}
	}
	return out
}

// TypeMap returns the concrete resource types a container can hold, keyed by
// schema name. It is the content of the version's name to constructor registry.
func (ts *Types) TypeMap() map[string]*Type {
	out := make(map[string]*Type)
	for _, t := range ts.types {
		if t.kind == KindResource && !t.IsAbstract() {
			out[t.name] = t
		}
	}
	return out
}

func (ts *Types) add(t *Type) TypeID {
	ts.types = append(ts.types, t)
	t.id = TypeID(len(ts.types))
	ts.byName[t.name] = t.id
	return t.id
}

// resolve looks name up directly, then through element aliases.
func (ts *Types) resolve(name string) TypeID {
	seen := 0
	for name != "" && seen <= len(ts.aliases) {
		if id, ok := ts.byName[name]; ok {
			return id
		}
		name = ts.aliases[name]
		seen++
	}
	return NoType
}

func (ts *Types) sortedByName() []*Type {
	out := make([]*Type, len(ts.types))
	copy(out, ts.types)
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

func (ts *Types) separator() string {
	if ts == nil || ts.sep == "" {
		return DefaultSeparator
	}
	return ts.sep
}
