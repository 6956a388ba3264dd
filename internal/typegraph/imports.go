package typegraph

import (
	"sort"
	"strconv"

	strutil "github.com/conduit-lang/schemagen/internal/util/strings"
)

// TypeImport is one entity a generated unit references.
type TypeImport struct {
	className      string
	namespace      string
	aliased        bool
	alias          string
	requiresImport bool
	sep            string
}

// ClassName returns the referenced class name.
func (ti *TypeImport) ClassName() string { return ti.className }

// Namespace returns the namespace of the referenced class.
func (ti *TypeImport) Namespace() string { return ti.namespace }

// IsAliased reports whether the import must be referenced through its alias.
func (ti *TypeImport) IsAliased() bool { return ti.aliased }

// Alias returns the generated alias, or "".
func (ti *TypeImport) Alias() string { return ti.alias }

// RequiresImport reports whether the class lives in another namespace than the importer.
func (ti *TypeImport) RequiresImport() bool { return ti.requiresImport }

// FullyQualifiedName returns the namespace-qualified class name.
func (ti *TypeImport) FullyQualifiedName() string {
	return qualify(ti.namespace, ti.className, ti.sep)
}

// ImportedName returns the name the importer uses: the alias when aliased,
// the class name otherwise.
func (ti *TypeImport) ImportedName() string {
	if ti.aliased {
		return ti.alias
	}
	return ti.className
}

// TypeImports is the ordered, deduplicated import set of one type.
type TypeImports struct {
	owner *Type
	list  []*TypeImport
	byKey map[string]*TypeImport
	seen  map[[2]string]bool
}

// ResolveImports returns the import list of t. The list is built once by
// Finalize; every call returns the same entries in the same order.
func ResolveImports(t *Type) []*TypeImport {
	return t.Imports().All()
}

// All returns the imports: the type itself first, the rest sorted by fully
// qualified name in natural, case-insensitive order.
func (tis *TypeImports) All() []*TypeImport {
	out := make([]*TypeImport, len(tis.list))
	copy(out, tis.list)
	return out
}

// Len returns the number of imports.
func (tis *TypeImports) Len() int { return len(tis.list) }

// ByType returns the import referencing t, or nil.
func (tis *TypeImports) ByType(t *Type) *TypeImport {
	for _, ti := range tis.list {
		if ti.className == t.className && ti.namespace == t.namespace {
			return ti
		}
	}
	return nil
}

// ByAlias returns the import registered under name, which is either an
// unaliased class name or a generated alias.
func (tis *TypeImports) ByAlias(name string) *TypeImport {
	return tis.byKey[name]
}

func buildImports(t *Type, support SupportNames) *TypeImports {
	ts := t.graph
	tis := &TypeImports{
		owner: t,
		byKey: make(map[string]*TypeImport),
		seen:  make(map[[2]string]bool),
	}
	root := ts.RootNamespace()

	tis.add(t.className, t.namespace)

	if !t.IsAbstract() {
		for _, name := range support.Concrete {
			tis.add(name, root)
		}
	}

	if t.namespace != root {
		for _, name := range support.Nested {
			tis.add(name, root)
		}
		for _, name := range t.interfaces {
			tis.add(name, root)
		}
		for _, name := range t.traits {
			tis.add(name, root)
		}
	}

	if p := t.Parent(); p != nil {
		tis.addType(p)
	}
	if r := t.RestrictionBase(); r != nil {
		tis.addType(r)
	}

	for _, p := range t.properties.all {
		if p.valueTypeName == "" {
			continue
		}
		vt := p.ValueType()
		if vt == nil {
			invariantViolation(t.version, t.name, "property %q references unresolved type %q", p.Name(), p.valueTypeName)
		}

		switch {
		case vt.kind.IsContainer():
			versionNS := ts.VersionNamespace()
			if support.ContainedType != "" {
				tis.add(support.ContainedType, versionNS)
			}
			if support.TypeMap != "" {
				tis.add(support.TypeMap, versionNS)
			}
		case vt.kind == KindPrimitiveContainer:
			if vp := vt.ValueProperty(); vp != nil && vp.valueTypeName != "" {
				inner := vp.ValueType()
				if inner == nil {
					invariantViolation(t.version, t.name, "value property of %q references unresolved type %q", vt.name, vp.valueTypeName)
				}
				tis.addType(inner)
			}
			tis.addType(vt)
		default:
			tis.addType(vt)
		}
	}

	rest := tis.list[1:]
	sort.SliceStable(rest, func(i, j int) bool {
		return strutil.NaturalCompareFold(rest[i].FullyQualifiedName(), rest[j].FullyQualifiedName()) < 0
	})
	return tis
}

func (tis *TypeImports) addType(t *Type) {
	tis.add(t.className, t.namespace)
}

// add appends className from namespace unless the same pair is already present.
// A short name already taken by another namespace gets the next free numeric alias.
func (tis *TypeImports) add(className, namespace string) {
	key := [2]string{className, namespace}
	if tis.seen[key] {
		return
	}
	tis.seen[key] = true

	ti := &TypeImport{
		className:      className,
		namespace:      namespace,
		requiresImport: namespace != tis.owner.namespace,
		sep:            tis.owner.graph.separator(),
	}

	if _, taken := tis.byKey[className]; taken {
		ti.aliased = true
		ti.alias = tis.nextAlias(className)
		tis.byKey[ti.alias] = ti
	} else {
		tis.byKey[className] = ti
	}
	tis.list = append(tis.list, ti)
}

func (tis *TypeImports) nextAlias(className string) string {
	for i := 1; ; i++ {
		alias := className + strconv.Itoa(i)
		if _, taken := tis.byKey[alias]; !taken {
			return alias
		}
	}
}
