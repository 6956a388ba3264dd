// Package manifest captures a finalized type graph, with the import list and
// serialization placement of every type, as a document a renderer can consume.
package manifest

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/conduit-lang/schemagen/internal/pipeline"
	"github.com/conduit-lang/schemagen/internal/typegraph"
)

// SchemaVersion is the version of the manifest layout.
const SchemaVersion = "1"

// Manifest is the top-level generation document of one run.
type Manifest struct {
	SchemaVersion string    `json:"schema_version" yaml:"schema_version"` // Layout version for evolution
	RunID         string    `json:"run_id" yaml:"run_id"`                 // Unique id of the run
	Generator     string    `json:"generator,omitempty" yaml:"generator,omitempty"`
	Generated     time.Time `json:"generated" yaml:"generated"`
	Versions      []Version `json:"versions" yaml:"versions"`
}

// Version holds the types of one schema version, or the reason it failed.
type Version struct {
	Name           string       `json:"name" yaml:"name"`
	Namespace      string       `json:"namespace,omitempty" yaml:"namespace,omitempty"`             // Version-scoped support namespace
	TypesNamespace string       `json:"types_namespace,omitempty" yaml:"types_namespace,omitempty"` // Namespace generated types live under
	Files          []string     `json:"files,omitempty" yaml:"files,omitempty"`
	Error          string       `json:"error,omitempty" yaml:"error,omitempty"`
	Diagnostics    []Diagnostic `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
	Types          []Type       `json:"types,omitempty" yaml:"types,omitempty"`
	// TypeMap maps the schema name of every concrete resource to its fully
	// qualified class name. Kind filters do not apply to it.
	TypeMap map[string]string `json:"type_map,omitempty" yaml:"type_map,omitempty"`
}

// Diagnostic is a warning or error recorded while building the graph.
type Diagnostic struct {
	Code      string `json:"code" yaml:"code"`
	Severity  string `json:"severity" yaml:"severity"`
	Type      string `json:"type,omitempty" yaml:"type,omitempty"`
	Reference string `json:"reference,omitempty" yaml:"reference,omitempty"`
	Message   string `json:"message" yaml:"message"`
}

// Type is one generated unit.
type Type struct {
	Name            string     `json:"name" yaml:"name"`
	Kind            string     `json:"kind" yaml:"kind"`
	ClassName       string     `json:"class_name" yaml:"class_name"`
	Namespace       string     `json:"namespace" yaml:"namespace"`
	Abstract        bool       `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	Parent          string     `json:"parent,omitempty" yaml:"parent,omitempty"`
	RestrictionBase string     `json:"restriction_base,omitempty" yaml:"restriction_base,omitempty"`
	PrimitiveBase   string     `json:"primitive_base,omitempty" yaml:"primitive_base,omitempty"` // Built-in datatype the type narrows
	SourceFile      string     `json:"source_file,omitempty" yaml:"source_file,omitempty"`
	Documentation   []string   `json:"documentation,omitempty" yaml:"documentation,omitempty"`
	Enumeration     []string   `json:"enumeration,omitempty" yaml:"enumeration,omitempty"`
	Patterns        []string   `json:"patterns,omitempty" yaml:"patterns,omitempty"`
	Interfaces      []string   `json:"interfaces,omitempty" yaml:"interfaces,omitempty"`
	Traits          []string   `json:"traits,omitempty" yaml:"traits,omitempty"`
	Properties      []Property `json:"properties,omitempty" yaml:"properties,omitempty"` // Full view, ancestors first
	Imports         []Import   `json:"imports" yaml:"imports"`
}

// Property is one member of a type's full property view.
type Property struct {
	Name        string `json:"name" yaml:"name"`
	Ref         string `json:"ref,omitempty" yaml:"ref,omitempty"`
	ValueType   string `json:"value_type,omitempty" yaml:"value_type,omitempty"`
	Cardinality string `json:"cardinality" yaml:"cardinality"`
	Collection  bool   `json:"collection,omitempty" yaml:"collection,omitempty"`
	Attribute   bool   `json:"attribute,omitempty" yaml:"attribute,omitempty"`
	Inherited   bool   `json:"inherited,omitempty" yaml:"inherited,omitempty"`   // Declared on an ancestor
	Overloaded  bool   `json:"overloaded,omitempty" yaml:"overloaded,omitempty"` // Redeclares an ancestor property
	ChoiceGroup string `json:"choice_group,omitempty" yaml:"choice_group,omitempty"`
	Placement   string `json:"placement" yaml:"placement"`
}

// Import is one entry of a type's import list.
type Import struct {
	ClassName      string `json:"class_name" yaml:"class_name"`
	Namespace      string `json:"namespace" yaml:"namespace"`
	Alias          string `json:"alias,omitempty" yaml:"alias,omitempty"`
	RequiresImport bool   `json:"requires_import" yaml:"requires_import"`
}

// Options controls what Build includes.
type Options struct {
	Generator string
	// Kinds limits the types listed; empty means all.
	Kinds []typegraph.Kind
	// Now defaults to time.Now.
	Now func() time.Time
}

// Build assembles the manifest of a pipeline run.
func Build(results []*pipeline.Result, opts Options) *Manifest {
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}

	m := &Manifest{
		SchemaVersion: SchemaVersion,
		RunID:         uuid.NewString(),
		Generator:     opts.Generator,
		Generated:     now().UTC(),
		Versions:      make([]Version, 0, len(results)),
	}
	for _, res := range results {
		m.Versions = append(m.Versions, buildVersion(res, opts.Kinds))
	}
	return m
}

func buildVersion(res *pipeline.Result, kinds []typegraph.Kind) Version {
	v := Version{Name: res.Version.Name}
	if res.Schema != nil {
		v.Files = res.Schema.Files
	}
	for _, d := range res.Diagnostics {
		v.Diagnostics = append(v.Diagnostics, Diagnostic{
			Code:      string(d.Code),
			Severity:  string(d.Severity),
			Type:      d.TypeName,
			Reference: d.Reference,
			Message:   d.Message,
		})
	}
	if res.Err != nil {
		v.Error = res.Err.Error()
		return v
	}

	ts := res.Types
	v.Namespace = ts.VersionNamespace()
	v.TypesNamespace = ts.TypesNamespace()

	types := ts.Sorted()
	if len(kinds) > 0 {
		types = ts.OfKind(kinds...)
	}
	for _, t := range types {
		v.Types = append(v.Types, FromType(t))
	}

	for name, t := range ts.TypeMap() {
		if v.TypeMap == nil {
			v.TypeMap = make(map[string]string)
		}
		v.TypeMap[name] = t.FullyQualifiedName()
	}
	return v
}

// FromType describes a finalized type.
func FromType(t *typegraph.Type) Type {
	out := Type{
		Name:            t.Name(),
		Kind:            t.Kind().String(),
		ClassName:       t.ClassName(),
		Namespace:       t.Namespace(),
		Abstract:        t.IsAbstract(),
		Parent:          t.ParentName(),
		RestrictionBase: t.RestrictionBaseName(),
		PrimitiveBase:   t.PrimitiveBase(),
		SourceFile:      t.SourceFile(),
		Documentation:   t.Documentation(),
		Enumeration:     t.Enumeration(),
		Patterns:        t.Patterns(),
		Interfaces:      t.Interfaces(),
		Traits:          t.Traits(),
	}

	for _, p := range t.Properties().All() {
		prop := Property{
			Name:        p.Name(),
			Ref:         p.Ref(),
			Cardinality: p.Cardinality(),
			Collection:  p.IsCollection(),
			Attribute:   p.IsAttribute(),
			Inherited:   p.Owner() != t,
			Overloaded:  p.IsOverloaded(),
			ChoiceGroup: p.ChoiceGroup(),
			Placement:   typegraph.PlacementOf(t, p).String(),
		}
		if vt := p.ValueType(); vt != nil {
			prop.ValueType = vt.Name()
		}
		out.Properties = append(out.Properties, prop)
	}

	for _, ti := range typegraph.ResolveImports(t) {
		out.Imports = append(out.Imports, Import{
			ClassName:      ti.ClassName(),
			Namespace:      ti.Namespace(),
			Alias:          ti.Alias(),
			RequiresImport: ti.RequiresImport(),
		})
	}
	return out
}

// Format is a manifest encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat converts a format name, case-insensitively. "yml" is accepted for YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown manifest format %q (expected json or yaml)", s)
}

// Encode writes m to w in the given format.
func (m *Manifest) Encode(w io.Writer, format Format) error {
	return EncodeValue(w, format, m)
}

// EncodeValue writes any manifest fragment, such as a single Type, to w.
func EncodeValue(w io.Writer, format Format, v any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown manifest format %q", format)
}

// TypeCount returns the number of types listed across all versions.
func (m *Manifest) TypeCount() int {
	n := 0
	for _, v := range m.Versions {
		n += len(v.Types)
	}
	return n
}
