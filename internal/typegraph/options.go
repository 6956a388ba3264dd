package typegraph

import (
	"go.uber.org/zap"
)

// DefaultSeparator separates namespace segments.
const DefaultSeparator = "."

// Namespace segments inserted between the root namespace and a type's ancestors.
const (
	NamespaceVersions = "Versions"
	NamespaceTypes    = "Types"
)

// ValuePropertyName is the distinguished property holding a container's primitive value.
const ValuePropertyName = "value"

// Unbounded is the MaxOccurs value of maxOccurs="unbounded".
const Unbounded = -1

// KindRules holds the schema names that steer classification. Everything else
// is classified from the parsed shape alone.
type KindRules struct {
	// ContainerNames are polymorphic resource holders.
	ContainerNames []string `mapstructure:"containers" yaml:"containers"`
	// InlineNames are inline (embedded) resource holders.
	InlineNames []string `mapstructure:"inline" yaml:"inline"`
	// QuantityNames are roots of quantity-like hierarchies.
	QuantityNames []string `mapstructure:"quantities" yaml:"quantities"`
	// ResourceNames are roots of resource hierarchies.
	ResourceNames []string `mapstructure:"resources" yaml:"resources"`
	// ListSuffix marks simple types that enumerate a value set.
	ListSuffix string `mapstructure:"list_suffix" yaml:"list_suffix"`
	// RawTypes maps external element refs to the raw type registered for them.
	RawTypes map[string]string `mapstructure:"raw" yaml:"raw"`
}

// DefaultKindRules returns rules matching FHIR-style schemas.
func DefaultKindRules() KindRules {
	return KindRules{
		ContainerNames: []string{"ResourceContainer"},
		InlineNames:    []string{"Resource.Inline"},
		QuantityNames:  []string{"Quantity"},
		ResourceNames:  []string{"Resource", "DomainResource"},
		ListSuffix:     "-list",
		RawTypes:       map[string]string{"xhtml:div": "XHTML"},
	}
}

// Capabilities lists the interfaces and mixins a kind of type declares.
type Capabilities struct {
	Interfaces []string `mapstructure:"interfaces" yaml:"interfaces"`
	Traits     []string `mapstructure:"traits" yaml:"traits"`
}

// SupportNames are the hand-written support entities generated units reference.
type SupportNames struct {
	// Concrete is imported from the root namespace by every non-abstract type.
	Concrete []string `mapstructure:"concrete" yaml:"concrete"`
	// Nested is imported from the root namespace by types outside it.
	Nested []string `mapstructure:"nested" yaml:"nested"`
	// ContainedType is the version-scoped capability shared by container variants.
	ContainedType string `mapstructure:"contained_type" yaml:"contained_type"`
	// TypeMap is the version-scoped name to constructor lookup registry.
	TypeMap string `mapstructure:"type_map" yaml:"type_map"`
	// Base is declared by every type without a parent, whatever its kind.
	Base Capabilities `mapstructure:"base" yaml:"base"`
	// ByKind is declared per kind.
	ByKind map[Kind]Capabilities `mapstructure:"-" yaml:"-"`
}

// DefaultSupportNames returns the support entity names of the reference runtime.
func DefaultSupportNames() SupportNames {
	return SupportNames{
		Concrete: []string{
			"SerializeConfig",
			"XMLWriter",
			"ConfigKeyEnum",
			"ValueXMLLocationEnum",
			"ExtraPrimitive",
			"ExtraComplex",
		},
		Nested:        []string{"TypeInterface", "Constants"},
		ContainedType: "VersionContainedTypeInterface",
		TypeMap:       "VersionTypeMap",
		Base: Capabilities{
			Interfaces: []string{"TypeInterface"},
		},
		ByKind: map[Kind]Capabilities{
			KindPrimitive: {Interfaces: []string{"PrimitiveTypeInterface"}},
			KindList:      {Interfaces: []string{"PrimitiveTypeInterface"}},
			KindPrimitiveContainer: {
				Interfaces: []string{"PrimitiveContainerTypeInterface", "ValueContainerTypeInterface"},
				Traits:     []string{"ValueContainerTrait"},
			},
			KindElement: {
				Interfaces: []string{"ElementTypeInterface", "CommentContainerInterface"},
				Traits:     []string{"CommentContainerTrait", "SourceXMLNamespaceTrait"},
			},
			KindQuantity: {
				Interfaces: []string{"ElementTypeInterface", "CommentContainerInterface"},
				Traits:     []string{"CommentContainerTrait", "SourceXMLNamespaceTrait"},
			},
			KindResource: {
				Interfaces: []string{"ResourceTypeInterface", "CommentContainerInterface"},
				Traits:     []string{"CommentContainerTrait", "SourceXMLNamespaceTrait"},
			},
			KindResourceContainer: {Interfaces: []string{"ResourceContainerTypeInterface"}},
			KindResourceInline:    {Interfaces: []string{"ResourceContainerTypeInterface"}},
		},
	}
}

// Options configures a Builder for one schema version.
type Options struct {
	// Version is the schema version name, e.g. "R4".
	Version string
	// RootNamespace hosts the hand-written support entities.
	RootNamespace string
	// VersionNamespace is the version's segment below RootNamespace/Versions.
	VersionNamespace string
	// Separator joins namespace segments. Defaults to DefaultSeparator.
	Separator string
	// ClassPrefix is prepended to every derived class name.
	ClassPrefix string
	Rules       KindRules
	Support     SupportNames
	Logger      *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.Separator == "" {
		o.Separator = DefaultSeparator
	}
	if o.VersionNamespace == "" {
		o.VersionNamespace = o.Version
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Rules.ContainerNames == nil && o.Rules.InlineNames == nil && o.Rules.QuantityNames == nil &&
		o.Rules.ResourceNames == nil && o.Rules.RawTypes == nil && o.Rules.ListSuffix == "" {
		o.Rules = DefaultKindRules()
	}
	if o.Support.Concrete == nil && o.Support.Nested == nil && o.Support.ByKind == nil &&
		o.Support.ContainedType == "" && o.Support.TypeMap == "" {
		o.Support = DefaultSupportNames()
	}
	return o
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
