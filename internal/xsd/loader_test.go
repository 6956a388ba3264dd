package xsd

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	src := `<?xml version="1.0"?>
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema">
  <xs:complexType name="Foo">
    <xs:annotation>
      <xs:documentation>First line
        second line</xs:documentation>
    </xs:annotation>
    <xs:attribute name="value" type="xs:string"/>
  </xs:complexType>
</xs:schema>`

	root, err := Parse(strings.NewReader(src), "foo.xsd")
	require.NoError(t, err)

	assert.Equal(t, ElementSchema, root.Local)
	assert.Equal(t, "http://www.w3.org/2001/XMLSchema", root.Space)
	require.Len(t, root.Children, 1)

	foo := root.Children[0]
	assert.Equal(t, ElementComplexType, foo.Local)
	assert.Equal(t, "Foo", foo.Name())
	assert.Equal(t, "foo.xsd", foo.File)
	assert.Equal(t, 3, foo.Line)
	assert.Equal(t, []string{"First line", "second line"}, foo.Documentation())

	attr := foo.Child(ElementAttribute)
	require.NotNil(t, attr)
	assert.Equal(t, "xs:string", attr.Attr("type"))
	_, ok := attr.LookupAttr("use")
	assert.False(t, ok)
}

func TestParseErrors(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		_, err := Parse(strings.NewReader(""), "empty.xsd")
		assert.Error(t, err)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := Parse(strings.NewReader("<xs:schema><xs:complexType></xs:schema>"), "bad.xsd")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bad.xsd")
	})
}

func TestSkip(t *testing.T) {
	assert.True(t, Skip("xml.xsd"))
	assert.True(t, Skip("/tmp/schema/fhir-xhtml.xsd"))
	assert.True(t, Skip("tombstone.xsd"))
	assert.True(t, Skip("fhir-atom-single.xsd"))
	assert.False(t, Skip("fhir-base.xsd"))
	assert.False(t, Skip("patient.xsd"))
}

func TestLoadDir(t *testing.T) {
	schema, err := LoadDir("testdata/r4", "R4")
	require.NoError(t, err)

	assert.Equal(t, "R4", schema.Version)
	require.Len(t, schema.Files, 3)
	assert.True(t, strings.HasSuffix(schema.Files[0], "fhir-base.xsd"))

	var names []string
	for _, n := range schema.Types() {
		names = append(names, n.Name())
	}
	assert.Contains(t, names, "Patient")
	assert.Contains(t, names, "string-primitive")
	assert.NotContains(t, names, "AtomFeed")

	aliases := schema.Aliases()
	require.Len(t, aliases, 2)
	assert.Equal(t, "Observation", aliases[0].Name())
	assert.Equal(t, "Patient", aliases[1].Attr("type"))
}

func TestLoadDirMissing(t *testing.T) {
	_, err := LoadDir("testdata/does-not-exist", "R4")
	assert.Error(t, err)
}

func TestLoadFS(t *testing.T) {
	fsys := fstest.MapFS{
		"a.xsd":   {Data: []byte(`<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema"><xs:simpleType name="a"/></xs:schema>`)},
		"xml.xsd": {Data: []byte(`not xml at all <`)},
	}

	schema, err := LoadFS(fsys, "STU3")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.xsd"}, schema.Files)
	require.Len(t, schema.Types(), 1)
	assert.Equal(t, "a", schema.Types()[0].Name())
}

func TestLoadFSRejectsNonSchemaRoot(t *testing.T) {
	fsys := fstest.MapFS{
		"a.xsd":     {Data: []byte(`<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema"><xs:simpleType name="a"/></xs:schema>`)},
		"notes.xsd": {Data: []byte(`<notes><note>not a schema</note></notes>`)},
	}

	_, err := LoadFS(fsys, "STU3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `notes.xsd: root element is "notes"`)
}

func TestIsTypeDeclaration(t *testing.T) {
	inline := &Node{Local: ElementElement, Attrs: []Attr{{Name: "name", Value: "Bundle"}},
		Children: []*Node{{Local: ElementComplexType}}}
	alias := &Node{Local: ElementElement, Attrs: []Attr{{Name: "name", Value: "Patient"}, {Name: "type", Value: "Patient"}}}
	anonymous := &Node{Local: ElementComplexType}

	assert.True(t, IsTypeDeclaration(inline))
	assert.False(t, IsTypeDeclaration(alias))
	assert.False(t, IsTypeDeclaration(anonymous))
	assert.True(t, IsElementAlias(alias))
	assert.False(t, IsElementAlias(inline))
}
