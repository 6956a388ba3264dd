package typegraph

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/conduit-lang/schemagen/internal/xsd"
)

// Builder turns parsed schema declarations of one version into a Types registry.
//
// Construction is two-phase: every declaration is registered and decorated
// (references that point forward stay pending), then Finalize resolves
// pending references, classifies types, builds property views, derives names
// and import sets, and seals the registry. A Builder is not safe for
// concurrent use; distinct versions use distinct Builders.
type Builder struct {
	opts    Options
	logger  *zap.Logger
	types   *Types
	diags   ErrorList
	choices map[TypeID]int
	// decorated records types whose first definition has been applied.
	decorated map[TypeID]bool

	finalized bool
	fatal     ErrorList
}

// NewBuilder creates a builder for one version and registers its raw types.
func NewBuilder(opts Options) *Builder {
	opts = opts.withDefaults()
	b := &Builder{
		opts:      opts,
		logger:    opts.Logger.With(zap.String("version", opts.Version)),
		types:     newTypes(opts),
		choices:   make(map[TypeID]int),
		decorated: make(map[TypeID]bool),
	}

	refs := make([]string, 0, len(opts.Rules.RawTypes))
	for ref := range opts.Rules.RawTypes {
		refs = append(refs, ref)
	}
	sort.Strings(refs)
	for _, ref := range refs {
		name := opts.Rules.RawTypes[ref]
		if _, exists := b.types.byName[name]; !exists {
			t := newType(b.types, name, opts.Version)
			t.raw = true
			b.types.add(t)
		}
		b.types.aliases[ref] = name
	}

	return b
}

// Types returns the registry under construction. It is sealed only after Finalize.
func (b *Builder) Types() *Types { return b.types }

// Diagnostics returns every warning and error recorded so far.
func (b *Builder) Diagnostics() ErrorList {
	out := make(ErrorList, len(b.diags))
	copy(out, b.diags)
	return out
}

// Build registers, decorates and finalizes all declarations of one version.
// Element declarations that only name a type are registered as aliases.
func (b *Builder) Build(decls []*xsd.Node) (*Types, error) {
	type pending struct {
		t    *Type
		node *xsd.Node
	}
	var work []pending

	for _, n := range decls {
		switch {
		case xsd.IsElementAlias(n):
			b.RegisterAlias(n.Name(), n.Attr("type"))
		case n.Is(xsd.ElementComplexType, xsd.ElementSimpleType), xsd.IsTypeDeclaration(n):
			t, err := b.RegisterType(n)
			if err != nil {
				continue
			}
			work = append(work, pending{t: t, node: n})
		}
	}

	for _, w := range work {
		b.Decorate(w.t, w.node)
	}

	return b.Finalize()
}

// RegisterType registers the type declared by node. A second declaration with
// an already registered name is merged into the first: the first Type is
// returned and a duplicate-definition warning is recorded.
func (b *Builder) RegisterType(node *xsd.Node) (*Type, error) {
	b.mustBeOpen()

	name := node.Name()
	if name == "" {
		err := NewMissingName(b.opts.Version, "", node.Local, node.File)
		b.diags = append(b.diags, err)
		return nil, err
	}

	if existing, ok := b.types.Lookup(name); ok {
		b.diags = append(b.diags, NewDuplicateDefinition(b.opts.Version, name, node.File))
		b.logger.Info("type defined more than once, keeping first definition",
			zap.String("type", name),
			zap.String("file", node.File),
			zap.String("first_file", existing.file),
		)
		return existing, nil
	}

	def := definitionOf(node)
	t := newType(b.types, name, b.opts.Version)
	t.file = node.File
	t.line = node.Line
	t.simple = def.Local == xsd.ElementSimpleType
	t.abstract = isTrue(def.Attr("abstract")) || isTrue(node.Attr("abstract"))
	b.types.add(t)

	b.logger.Debug("registered type", zap.String("type", name), zap.Bool("simple", t.simple))
	return t, nil
}

// RegisterAlias records that element name refers to typeName, so refs to the
// element resolve to the type.
func (b *Builder) RegisterAlias(name, typeName string) {
	b.mustBeOpen()
	typeName, _ = splitBuiltin(typeName)
	if name == "" || typeName == "" || name == typeName {
		return
	}
	if _, exists := b.types.aliases[name]; !exists {
		b.types.aliases[name] = typeName
	}
}

// Decorate applies the content of node to t: documentation, inheritance,
// facets of simple types and properties of complex types. A repeated
// definition only contributes properties to a complex type; a repeated
// simple type is left as its first definition made it.
func (b *Builder) Decorate(t *Type, node *xsd.Node) {
	b.mustBeOpen()
	def := definitionOf(node)

	again := b.decorated[t.id]
	b.decorated[t.id] = true
	if again && t.simple {
		return
	}

	if len(t.documentation) == 0 {
		t.documentation = node.Documentation()
		if len(t.documentation) == 0 && def != node {
			t.documentation = def.Documentation()
		}
	}

	b.ResolveInheritance(t, node)

	if t.simple {
		b.decorateFacets(t, def)
		return
	}
	b.walkContent(t, def, "", 1)
}

// ResolveInheritance reads the derivation of node and links t to its parent
// or restriction base. Extension is checked before restriction and the first
// match wins. Bases not yet registered stay pending until Finalize.
func (b *Builder) ResolveInheritance(t *Type, node *xsd.Node) {
	b.mustBeOpen()
	def := definitionOf(node)

	if t.simple {
		if list := def.Child(xsd.ElementList); list != nil {
			t.list = true
			b.setRestrictionBase(t, list.Attr("itemType"))
			return
		}
		if res := def.Child(xsd.ElementRestriction); res != nil {
			if base := res.Attr("base"); base != "" {
				b.setRestrictionBase(t, base)
				return
			}
			if union := res.Child(xsd.ElementUnion); union != nil {
				b.setUnion(t, union)
			}
			return
		}
		if union := def.Child(xsd.ElementUnion); union != nil {
			b.setUnion(t, union)
		}
		return
	}

	if ext := findDerivation(def, xsd.ElementExtension); ext != nil {
		b.setParent(t, ext.Attr("base"))
		return
	}
	if res := findDerivation(def, xsd.ElementRestriction); res != nil {
		b.setParent(t, res.Attr("base"))
	}
}

// AddProperty adds the element or attribute declared by node to t.
// Duplicates are merged into the existing property (see Properties.Add).
func (b *Builder) AddProperty(t *Type, node *xsd.Node) (*Property, error) {
	b.mustBeOpen()
	return b.addProperty(t, node, "", 1)
}

func (b *Builder) addProperty(t *Type, node *xsd.Node, choiceGroup string, choiceMax int) (*Property, error) {
	spec := PropertySpec{
		Name:          node.Name(),
		Ref:           strings.TrimSpace(node.Attr("ref")),
		Attribute:     node.Local == xsd.ElementAttribute,
		ChoiceGroup:   choiceGroup,
		Documentation: node.Documentation(),
	}

	typeName := strings.TrimSpace(node.Attr("type"))
	if typeName == "" {
		typeName = spec.Ref
	}
	if name, builtin := splitBuiltin(typeName); builtin && isBuiltinDatatype(name) {
		typeName = ""
	}
	spec.ValueTypeName = typeName

	if spec.Attribute {
		spec.Required = node.Attr("use") == "required"
		if spec.Required {
			spec.MinOccurs = 1
		}
		spec.MaxOccurs = 1
	} else {
		spec.MinOccurs = b.occurs(t, node, "minOccurs", 1)
		spec.MaxOccurs = b.occurs(t, node, "maxOccurs", 1)
	}
	if choiceGroup != "" {
		spec.MinOccurs = 0
		if choiceMax == Unbounded {
			spec.MaxOccurs = Unbounded
		}
	}

	p := newProperty(spec)
	kept, merged, err := t.properties.Add(p, b.logger)
	if err != nil {
		ge := NewMissingName(b.opts.Version, t.name, node.Local, node.File)
		b.diags = append(b.diags, ge)
		return nil, ge
	}

	if merged {
		key, value := "ref", spec.Ref
		if spec.Name != "" && kept.name == spec.Name {
			key, value = "name", spec.Name
		}
		b.diags = append(b.diags, NewDuplicateProperty(b.opts.Version, t.name, key, value))
		return kept, nil
	}

	if kept.valueTypeName != "" {
		kept.valueType = b.types.resolve(kept.valueTypeName)
	}
	return kept, nil
}

// walkContent adds the properties found below n, descending through content
// models and derivations.
func (b *Builder) walkContent(t *Type, n *xsd.Node, choiceGroup string, choiceMax int) {
	for _, c := range n.Children {
		switch c.Local {
		case xsd.ElementComplexContent, xsd.ElementSimpleContent, xsd.ElementExtension,
			xsd.ElementRestriction, xsd.ElementSequence, xsd.ElementAll:
			b.walkContent(t, c, choiceGroup, choiceMax)
		case xsd.ElementChoice:
			group := choiceGroup
			if group == "" {
				b.choices[t.id]++
				group = fmt.Sprintf("choice%d", b.choices[t.id])
			}
			max := b.occurs(t, c, "maxOccurs", 1)
			if choiceMax == Unbounded {
				max = Unbounded
			}
			b.walkContent(t, c, group, max)
		case xsd.ElementElement, xsd.ElementAttribute:
			_, _ = b.addProperty(t, c, choiceGroup, choiceMax)
		}
	}
}

func (b *Builder) decorateFacets(t *Type, def *xsd.Node) {
	res := def.Child(xsd.ElementRestriction)
	if res == nil {
		return
	}
	for _, c := range res.Children {
		switch c.Local {
		case xsd.ElementEnumeration:
			t.enumeration = append(t.enumeration, c.Attr("value"))
		case xsd.ElementPattern:
			t.patterns = append(t.patterns, c.Attr("value"))
		case xsd.ElementMinLength:
			t.minLength = c.Attr("value")
		case xsd.ElementMaxLength:
			t.maxLength = c.Attr("value")
		}
	}
}

func (b *Builder) setParent(t *Type, base string) {
	name, builtin := splitBuiltin(base)
	if name == "" {
		return
	}
	if builtin && isBuiltinDatatype(name) {
		if t.primitiveBase == "" && !isAnyType(name) {
			t.primitiveBase = name
		}
		return
	}
	if t.parentName != "" {
		return
	}
	t.parentName = name
	t.parent = b.types.resolve(name)
}

func (b *Builder) setRestrictionBase(t *Type, base string) {
	name, builtin := splitBuiltin(base)
	if name == "" {
		return
	}
	if builtin && isBuiltinDatatype(name) {
		if t.primitiveBase == "" && !isAnyType(name) {
			t.primitiveBase = name
		}
		return
	}
	if t.restrictionBaseName != "" {
		return
	}
	t.restrictionBaseName = name
	t.restrictionBase = b.types.resolve(name)
}

func (b *Builder) setUnion(t *Type, union *xsd.Node) {
	t.union = true
	for _, member := range strings.Fields(union.Attr("memberTypes")) {
		b.setRestrictionBase(t, member)
		if t.primitiveBase != "" || t.restrictionBaseName != "" {
			return
		}
	}
}

func (b *Builder) occurs(t *Type, n *xsd.Node, attr string, def int) int {
	raw, ok := n.LookupAttr(attr)
	if !ok {
		return def
	}
	var v int
	var err error
	if attr == "maxOccurs" {
		v, err = ParseMaxOccurs(raw)
	} else {
		v, err = ParseMinOccurs(raw, def)
	}
	if err != nil {
		b.logger.Warn("ignoring malformed occurrence bound",
			zap.String("type", t.name),
			zap.String("attribute", attr),
			zap.String("value", raw),
		)
		return def
	}
	return v
}

func (b *Builder) mustBeOpen() {
	if b.finalized {
		invariantViolation(b.opts.Version, "", "builder mutated after Finalize")
	}
}

// definitionOf returns the complexType/simpleType carrying the content of a
// declaration: the node itself, or the inline type of an element declaration.
func definitionOf(node *xsd.Node) *xsd.Node {
	if node.Local == xsd.ElementElement {
		if c := node.Child(xsd.ElementComplexType); c != nil {
			return c
		}
		if s := node.Child(xsd.ElementSimpleType); s != nil {
			return s
		}
	}
	return node
}

// findDerivation finds an extension or restriction directly below def or
// inside its complexContent/simpleContent.
func findDerivation(def *xsd.Node, local string) *xsd.Node {
	for _, c := range def.Children {
		if c.Is(xsd.ElementComplexContent, xsd.ElementSimpleContent) {
			if d := c.Child(local); d != nil {
				return d
			}
			continue
		}
		if c.Local == local {
			return c
		}
	}
	return nil
}

func isTrue(s string) bool {
	s = strings.TrimSpace(s)
	return s == "true" || s == "1"
}
