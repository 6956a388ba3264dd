package typegraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/schemagen/internal/xsd"
)

func TestBuild_R4Testdata(t *testing.T) {
	ts, diags := loadR4(t)

	assert.True(t, ts.Sealed())
	assert.Equal(t, "R4", ts.Version())
	assert.Equal(t, testVersionNS, ts.VersionNamespace())
	assert.Equal(t, testTypesNS, ts.TypesNamespace())

	kinds := map[string]Kind{
		"string-primitive":          KindPrimitive,
		"code-primitive":            KindPrimitive,
		"AdministrativeGender-list": KindList,
		"string":                    KindPrimitiveContainer,
		"code":                      KindPrimitiveContainer,
		"AdministrativeGender":      KindPrimitiveContainer,
		"Element":                   KindElement,
		"Extension":                 KindElement,
		"BackboneElement":           KindElement,
		"Narrative":                 KindElement,
		"Quantity":                  KindQuantity,
		"Age":                       KindQuantity,
		"Resource":                  KindResource,
		"DomainResource":            KindResource,
		"Patient":                   KindResource,
		"Observation":               KindResource,
		"Patient.Contact":           KindElement,
		"ResourceContainer":         KindResourceContainer,
		"XHTML":                     KindRaw,
	}
	for name, want := range kinds {
		assert.Equal(t, want, mustType(t, ts, name).Kind(), name)
	}

	t.Run("sorted iteration", func(t *testing.T) {
		sorted := ts.Sorted()
		require.Len(t, sorted, ts.Len())
		for i := 1; i < len(sorted); i++ {
			assert.Less(t, sorted[i-1].Name(), sorted[i].Name())
		}
	})

	t.Run("names and namespaces", func(t *testing.T) {
		contact := mustType(t, ts, "Patient.Contact")
		assert.Equal(t, "PatientContact", contact.ClassName())
		assert.Equal(t, testTypesNS+".Element.BackboneElement", contact.Namespace())
		assert.Equal(t, testTypesNS+".Element.BackboneElement.PatientContact", contact.FullyQualifiedName())

		patient := mustType(t, ts, "Patient")
		assert.Equal(t, testTypesNS+".Resource.DomainResource", patient.Namespace())

		prim := mustType(t, ts, "string-primitive")
		assert.Equal(t, "StringPrimitive", prim.ClassName())
		assert.Equal(t, testTypesNS, prim.Namespace())
	})

	t.Run("inheritance", func(t *testing.T) {
		patient := mustType(t, ts, "Patient")
		var chain []string
		for _, a := range patient.Ancestors() {
			chain = append(chain, a.Name())
		}
		assert.Equal(t, []string{"DomainResource", "Resource"}, chain)

		code := mustType(t, ts, "code-primitive")
		assert.Nil(t, code.Parent())
		require.NotNil(t, code.RestrictionBase())
		assert.Equal(t, "string-primitive", code.RestrictionBase().Name())
		assert.Equal(t, "string", code.PrimitiveBase())

		gender := mustType(t, ts, "AdministrativeGender-list")
		assert.Equal(t, []string{"male", "female", "other", "unknown"}, gender.Enumeration())

		min, max := mustType(t, ts, "string-primitive").LengthFacets()
		assert.Equal(t, "1", min)
		assert.Empty(t, max)
	})

	t.Run("documentation", func(t *testing.T) {
		doc := mustType(t, ts, "Patient").Documentation()
		require.Len(t, doc, 2)
		assert.Equal(t, "Demographics and other administrative information about an individual.", doc[0])
	})

	t.Run("raw reference", func(t *testing.T) {
		div := mustType(t, ts, "Narrative").Properties().Property("div")
		require.NotNil(t, div)
		assert.Equal(t, "xhtml:div", div.Ref())
		require.NotNil(t, div.ValueType())
		assert.Equal(t, "XHTML", div.ValueType().Name())
	})

	t.Run("container choice", func(t *testing.T) {
		container := mustType(t, ts, "ResourceContainer")
		props := container.Properties().Local()
		assert.Equal(t, []string{"Patient", "Observation"}, propertyNames(props))
		for _, p := range props {
			assert.Equal(t, "choice1", p.ChoiceGroup())
			assert.Equal(t, 0, p.MinOccurs())
		}
	})

	t.Run("duplicate status", func(t *testing.T) {
		obs := mustType(t, ts, "Observation")
		var statuses []*Property
		for _, p := range obs.Properties().Declared() {
			if p.Name() == "status" {
				statuses = append(statuses, p)
			}
		}
		require.Len(t, statuses, 1)
		assert.Equal(t, "code", statuses[0].ValueTypeName())
		assert.Equal(t, "1..1", statuses[0].Cardinality())

		dups := diags.WithCode(ErrDuplicateProperty)
		require.Len(t, dups, 1)
		assert.Equal(t, "Observation", dups[0].TypeName)
		assert.Equal(t, "status", dups[0].Reference)
		assert.False(t, diags.HasErrors())
	})
}

func TestRegisterType_Duplicate(t *testing.T) {
	logger, logs := observedLogger()
	b := NewBuilder(testOptions(logger))

	nodes := schemaNodes(t, `
<xs:complexType name="Thing"><xs:sequence><xs:element name="a" type="xs:string"/></xs:sequence></xs:complexType>
<xs:complexType name="Thing"><xs:sequence><xs:element name="b" type="xs:string"/></xs:sequence></xs:complexType>`)

	first, err := b.RegisterType(nodes[0])
	require.NoError(t, err)
	second, err := b.RegisterType(nodes[1])
	require.NoError(t, err)
	assert.Same(t, first, second)

	b.Decorate(first, nodes[0])
	b.Decorate(second, nodes[1])

	ts, err := b.Finalize()
	require.NoError(t, err)
	assert.Equal(t, 2, ts.Len(), "the raw XHTML type plus Thing")
	assert.Equal(t, []string{"a", "b"}, propertyNames(first.Properties().All()))

	warnings := b.Diagnostics().WithCode(ErrDuplicateDefinition)
	require.Len(t, warnings, 1)
	assert.Equal(t, SeverityWarning, warnings[0].Severity)
	assert.Equal(t, "Thing", warnings[0].TypeName)

	notices := logs.FilterMessage("type defined more than once, keeping first definition").All()
	require.Len(t, notices, 1)
	assert.Equal(t, "Thing", notices[0].ContextMap()["type"])
	assert.Equal(t, "R4", notices[0].ContextMap()["version"])
}

func TestRegisterType_DuplicateSimpleTypeKeepsFirstFacets(t *testing.T) {
	ts := buildGraph(t, `
<xs:simpleType name="status-list">
  <xs:restriction base="xs:string"><xs:enumeration value="a"/><xs:enumeration value="b"/></xs:restriction>
</xs:simpleType>
<xs:simpleType name="status-list">
  <xs:restriction base="xs:string"><xs:enumeration value="a"/><xs:enumeration value="b"/><xs:pattern value="[ab]"/></xs:restriction>
</xs:simpleType>`)

	status, ok := ts.Lookup("status-list")
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, status.Enumeration())
	assert.Empty(t, status.Patterns())
}

func TestRegisterType_MissingName(t *testing.T) {
	b := NewBuilder(testOptions(nil))
	nodes := schemaNodes(t, `<xs:complexType><xs:sequence/></xs:complexType>`)

	typ, err := b.RegisterType(nodes[0])
	assert.Nil(t, typ)
	require.Error(t, err)
	assert.True(t, HasCode(err, ErrMissingName))

	_, err = b.Finalize()
	require.Error(t, err)
	assert.True(t, HasCode(err, ErrMissingName))
}

func TestRegisterType_InlineElement(t *testing.T) {
	ts := buildGraph(t, `
<xs:element name="Wrapper">
  <xs:complexType>
    <xs:sequence><xs:element name="inner" type="xs:string"/></xs:sequence>
  </xs:complexType>
</xs:element>`)

	wrapper := mustType(t, ts, "Wrapper")
	assert.Equal(t, KindElement, wrapper.Kind())
	assert.Equal(t, []string{"inner"}, propertyNames(wrapper.Properties().All()))
}

func TestAddProperty_DuplicateStatus(t *testing.T) {
	logger, logs := observedLogger()
	b := NewBuilder(testOptions(logger))

	nodes := schemaNodes(t, `
<xs:simpleType name="code-primitive"><xs:restriction base="xs:token"/></xs:simpleType>
<xs:complexType name="Observation">
  <xs:sequence>
    <xs:element name="status" type="code-primitive" minOccurs="1"/>
    <xs:element name="status" type="code-primitive" minOccurs="0" maxOccurs="unbounded"/>
  </xs:sequence>
</xs:complexType>`)

	_, err := b.RegisterType(nodes[0])
	require.NoError(t, err)
	obs, err := b.RegisterType(nodes[1])
	require.NoError(t, err)

	elems := nodes[1].Child(xsd.ElementSequence).ChildrenNamed(xsd.ElementElement)
	require.Len(t, elems, 2)

	kept, err := b.AddProperty(obs, elems[0])
	require.NoError(t, err)
	again, err := b.AddProperty(obs, elems[1])
	require.NoError(t, err)
	assert.Same(t, kept, again)

	_, err = b.Finalize()
	require.NoError(t, err)

	assert.Len(t, obs.Properties().All(), 1)
	assert.Equal(t, "1..1", kept.Cardinality())

	assert.Equal(t, 1, logs.FilterMessage("type already has property, keeping original").Len())
	assert.Equal(t, 1, logs.FilterMessage("discarded property definition differs from the kept one").Len())
	assert.Len(t, b.Diagnostics().WithCode(ErrDuplicateProperty), 1)
}

func TestAddProperty_RequiresNameOrRef(t *testing.T) {
	b := NewBuilder(testOptions(nil))
	nodes := schemaNodes(t, `<xs:complexType name="T"><xs:sequence><xs:element type="xs:string"/></xs:sequence></xs:complexType>`)

	typ, err := b.RegisterType(nodes[0])
	require.NoError(t, err)

	elem := nodes[0].Child(xsd.ElementSequence).Child(xsd.ElementElement)
	_, err = b.AddProperty(typ, elem)
	require.Error(t, err)
	assert.True(t, HasCode(err, ErrMissingName))
}

func TestAddProperty_Shapes(t *testing.T) {
	ts := buildGraph(t, `
<xs:complexType name="Shape">
  <xs:sequence>
    <xs:element name="many" type="xs:string" minOccurs="0" maxOccurs="unbounded"/>
    <xs:element name="few" type="xs:string" maxOccurs="3"/>
    <xs:choice maxOccurs="unbounded">
      <xs:element name="optA" type="xs:string"/>
      <xs:element name="optB" type="xs:string"/>
    </xs:choice>
    <xs:choice>
      <xs:element name="optC" type="xs:string"/>
    </xs:choice>
  </xs:sequence>
  <xs:attribute name="id" type="xs:string" use="required"/>
  <xs:attribute name="lang" type="xs:string"/>
</xs:complexType>`)

	props := mustType(t, ts, "Shape").Properties()

	many := props.Property("many")
	require.NotNil(t, many)
	assert.True(t, many.IsCollection())
	assert.Equal(t, Unbounded, many.MaxOccurs())
	assert.Equal(t, "0..*", many.Cardinality())
	assert.Empty(t, many.ValueTypeName(), "built-in datatypes are not registry types")
	assert.Nil(t, many.ValueType())

	few := props.Property("few")
	assert.True(t, few.IsCollection())
	assert.True(t, few.IsRequired())
	assert.Equal(t, "1..3", few.Cardinality())

	assert.Equal(t, "choice1", props.Property("optA").ChoiceGroup())
	assert.Equal(t, "choice1", props.Property("optB").ChoiceGroup())
	assert.True(t, props.Property("optB").IsCollection())
	assert.Equal(t, "choice2", props.Property("optC").ChoiceGroup())
	assert.False(t, props.Property("optC").IsRequired())

	id := props.Property("id")
	assert.True(t, id.IsAttribute())
	assert.True(t, id.IsRequired())
	assert.False(t, props.Property("lang").IsRequired())
}

func TestFinalize_ForwardReferences(t *testing.T) {
	ts := buildGraph(t, `
<xs:complexType name="Child">
  <xs:complexContent>
    <xs:extension base="Parent">
      <xs:sequence><xs:element name="friend" type="Later"/></xs:sequence>
    </xs:extension>
  </xs:complexContent>
</xs:complexType>
<xs:complexType name="Parent"><xs:sequence><xs:element name="x" type="xs:string"/></xs:sequence></xs:complexType>
<xs:complexType name="Later"><xs:sequence/></xs:complexType>`)

	child := mustType(t, ts, "Child")
	require.NotNil(t, child.Parent())
	assert.Equal(t, "Parent", child.Parent().Name())
	assert.Equal(t, "Later", child.Properties().Property("friend").ValueType().Name())
}

func TestFinalize_ElementAliases(t *testing.T) {
	ts := buildGraph(t, `
<xs:element name="Holder" type="HolderType"/>
<xs:complexType name="HolderType"><xs:sequence/></xs:complexType>
<xs:complexType name="User"><xs:sequence><xs:element ref="Holder"/></xs:sequence></xs:complexType>`)

	holder := mustType(t, ts, "User").Properties().Property("Holder")
	require.NotNil(t, holder)
	require.NotNil(t, holder.ValueType())
	assert.Equal(t, "HolderType", holder.ValueType().Name())
}

func TestFinalize_UnresolvedReference(t *testing.T) {
	logger, logs := observedLogger()
	b := NewBuilder(testOptions(logger))

	_, err := b.Build(schemaNodes(t, `
<xs:complexType name="Orphan">
  <xs:complexContent>
    <xs:extension base="Missing">
      <xs:sequence><xs:element name="thing" type="Nowhere"/></xs:sequence>
    </xs:extension>
  </xs:complexContent>
</xs:complexType>`))
	require.Error(t, err)
	assert.True(t, HasCode(err, ErrUnresolvedReference))

	var list ErrorList
	require.ErrorAs(t, err, &list)
	require.Len(t, list, 2)
	assert.Equal(t, "R4", list[0].Version)
	assert.Equal(t, "Orphan", list[0].TypeName)
	assert.Equal(t, "parent", list[0].Construct)
	assert.Equal(t, "Missing", list[0].Reference)
	assert.Equal(t, "property thing", list[1].Construct)
	assert.Equal(t, "Nowhere", list[1].Reference)

	assert.Equal(t, 1, logs.FilterMessage("type graph rejected").Len())
}

func TestFinalize_InheritanceCycle(t *testing.T) {
	_, err := NewBuilder(testOptions(nil)).Build(schemaNodes(t, `
<xs:complexType name="A"><xs:complexContent><xs:extension base="B"/></xs:complexContent></xs:complexType>
<xs:complexType name="B"><xs:complexContent><xs:extension base="A"/></xs:complexContent></xs:complexType>`))
	require.Error(t, err)

	var list ErrorList
	require.ErrorAs(t, err, &list)
	cycles := list.WithCode(ErrInheritanceCycle)
	require.Len(t, cycles, 1)
	assert.Contains(t, cycles[0].Message, "A -> B -> A")
}

func TestFinalize_InvalidIdentifier(t *testing.T) {
	t.Run("class name", func(t *testing.T) {
		_, err := NewBuilder(testOptions(nil)).Build(schemaNodes(t, `<xs:complexType name="1st"><xs:sequence/></xs:complexType>`))
		require.Error(t, err)
		assert.True(t, HasCode(err, ErrInvalidIdentifier))
	})

	t.Run("root namespace", func(t *testing.T) {
		opts := testOptions(nil)
		opts.RootNamespace = "Bad..Root"
		_, err := NewBuilder(opts).Build(schemaNodes(t, `<xs:complexType name="Fine"><xs:sequence/></xs:complexType>`))
		require.Error(t, err)

		var list ErrorList
		require.ErrorAs(t, err, &list)
		require.Len(t, list, 1)
		assert.Equal(t, ErrInvalidIdentifier, list[0].Code)
		assert.Equal(t, "namespace", list[0].Construct)
	})
}

func TestFinalize_DuplicateClassName(t *testing.T) {
	_, err := NewBuilder(testOptions(nil)).Build(schemaNodes(t, `
<xs:complexType name="foo-bar"><xs:sequence/></xs:complexType>
<xs:complexType name="foo_bar"><xs:sequence/></xs:complexType>`))
	require.Error(t, err)
	assert.True(t, HasCode(err, ErrDuplicateClassName))
}

func TestFinalize_Idempotent(t *testing.T) {
	b := NewBuilder(testOptions(nil))
	first, err := b.Build(schemaNodes(t, `<xs:complexType name="Only"><xs:sequence/></xs:complexType>`))
	require.NoError(t, err)

	second, err := b.Finalize()
	require.NoError(t, err)
	assert.Same(t, first, second)

	failing := NewBuilder(testOptions(nil))
	_, err1 := failing.Build(schemaNodes(t, `<xs:complexType name="X"><xs:complexContent><xs:extension base="Y"/></xs:complexContent></xs:complexType>`))
	_, err2 := failing.Finalize()
	require.Error(t, err1)
	assert.Equal(t, err1, err2)
}

func TestBuilder_RefusesMutationAfterFinalize(t *testing.T) {
	b := NewBuilder(testOptions(nil))
	nodes := schemaNodes(t, `<xs:complexType name="Late"><xs:sequence/></xs:complexType>`)

	_, err := b.Finalize()
	require.NoError(t, err)

	assert.Panics(t, func() { _, _ = b.RegisterType(nodes[0]) })
	assert.Panics(t, func() { b.RegisterAlias("a", "b") })
}

func TestClassify(t *testing.T) {
	ts := buildGraph(t, `
<xs:simpleType name="codes"><xs:list itemType="xs:token"/></xs:simpleType>
<xs:simpleType name="word"><xs:restriction base="xs:string"/></xs:simpleType>
<xs:simpleType name="either"><xs:union memberTypes="xs:string xs:int"/></xs:simpleType>
<xs:complexType name="Base" abstract="true"><xs:sequence/></xs:complexType>
<xs:complexType name="Wrapper"><xs:attribute name="value" type="word"/></xs:complexType>
<xs:complexType name="Mixed">
  <xs:sequence><xs:element name="extra" type="xs:string"/></xs:sequence>
  <xs:attribute name="value" type="word"/>
</xs:complexType>
<xs:complexType name="ElementValue"><xs:sequence><xs:element name="value" type="word"/></xs:sequence></xs:complexType>
<xs:complexType name="Quantity"><xs:sequence><xs:element name="value" type="Wrapper"/></xs:sequence></xs:complexType>
<xs:complexType name="Money"><xs:complexContent><xs:extension base="Quantity"/></xs:complexContent></xs:complexType>
<xs:complexType name="Resource"><xs:sequence/></xs:complexType>
<xs:complexType name="Account"><xs:complexContent><xs:extension base="Resource"/></xs:complexContent></xs:complexType>
<xs:complexType name="ResourceContainer"><xs:choice><xs:element ref="Account"/></xs:choice></xs:complexType>
<xs:complexType name="Resource.Inline"><xs:choice><xs:element ref="Account"/></xs:choice></xs:complexType>`)

	tests := []struct {
		name string
		want Kind
	}{
		{"codes", KindList},
		{"word", KindPrimitive},
		{"either", KindPrimitive},
		{"Base", KindAbstract},
		{"Wrapper", KindPrimitiveContainer},
		{"Mixed", KindElement},
		{"ElementValue", KindElement},
		{"Quantity", KindQuantity},
		{"Money", KindQuantity},
		{"Resource", KindResource},
		{"Account", KindResource},
		{"ResourceContainer", KindResourceContainer},
		{"Resource.Inline", KindResourceInline},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			typ := mustType(t, ts, tt.name)
			assert.Equal(t, tt.want, typ.Kind())
		})
	}

	either := mustType(t, ts, "either")
	assert.True(t, either.IsUnion())
	assert.Equal(t, "string", either.PrimitiveBase())
	assert.True(t, mustType(t, ts, "Base").IsAbstract())
}

func TestClassify_CustomRules(t *testing.T) {
	opts := testOptions(nil)
	opts.Rules = KindRules{
		ResourceNames: []string{"Entity"},
		ListSuffix:    "Set",
	}

	ts, err := NewBuilder(opts).Build(schemaNodes(t, `
<xs:simpleType name="ColorSet"><xs:restriction base="xs:string"/></xs:simpleType>
<xs:complexType name="Entity"><xs:sequence/></xs:complexType>
<xs:complexType name="Resource"><xs:sequence/></xs:complexType>`))
	require.NoError(t, err)

	assert.Equal(t, KindList, mustType(t, ts, "ColorSet").Kind())
	assert.Equal(t, KindResource, mustType(t, ts, "Entity").Kind())
	assert.Equal(t, KindElement, mustType(t, ts, "Resource").Kind())
	_, hasRaw := ts.Lookup("XHTML")
	assert.False(t, hasRaw)
}

func TestPropertyViews(t *testing.T) {
	ts := buildGraph(t, `
<xs:complexType name="Parent">
  <xs:sequence>
    <xs:element name="item10" type="xs:string"/>
    <xs:element name="Item2" type="xs:string"/>
    <xs:element name="shared" type="xs:string"/>
  </xs:sequence>
</xs:complexType>
<xs:complexType name="Empty"><xs:complexContent><xs:extension base="Parent"/></xs:complexContent></xs:complexType>
<xs:complexType name="Redeclares">
  <xs:complexContent>
    <xs:extension base="Parent">
      <xs:sequence>
        <xs:element name="shared" type="xs:int" maxOccurs="unbounded"/>
        <xs:element name="own" type="xs:string"/>
      </xs:sequence>
    </xs:extension>
  </xs:complexContent>
</xs:complexType>`)

	parent := mustType(t, ts, "Parent")

	t.Run("no local properties", func(t *testing.T) {
		empty := mustType(t, ts, "Empty").Properties()
		assert.False(t, empty.HasLocal())
		assert.Empty(t, empty.Local())
		assert.Equal(t, 0, empty.LocalLen())
		assert.Equal(t, parent.Properties().All(), empty.All())
		assert.Equal(t, 3, empty.Len())
	})

	t.Run("overloaded property", func(t *testing.T) {
		props := mustType(t, ts, "Redeclares").Properties()
		assert.Equal(t, []string{"item10", "Item2", "shared", "own"}, propertyNames(props.All()))
		assert.Equal(t, []string{"own"}, propertyNames(props.Local()))

		shared := props.Property("shared")
		require.NotNil(t, shared)
		assert.True(t, shared.IsOverloaded())
		assert.True(t, shared.IsCollection())
		assert.Equal(t, "Redeclares", shared.Owner().Name())

		assert.False(t, parent.Properties().Property("shared").IsOverloaded())
	})

	t.Run("natural order", func(t *testing.T) {
		assert.Equal(t, []string{"Item2", "item10", "shared"}, propertyNames(parent.Properties().AllSorted()))
		assert.Equal(t, []string{"Item2", "item10", "shared"}, propertyNames(parent.Properties().LocalSorted()))
	})
}

func TestPropertyViews_DeclaredNameCollision(t *testing.T) {
	ts := buildGraph(t, `
<xs:complexType name="Holder">
  <xs:sequence><xs:element ref="xhtml:div"/></xs:sequence>
  <xs:attribute name="div" type="xs:string"/>
</xs:complexType>`)

	props := mustType(t, ts, "Holder").Properties()
	assert.Equal(t, []string{"div", "div"}, propertyNames(props.Declared()))
	assert.Equal(t, []string{"div", "div"}, propertyNames(props.Local()))
	assert.Equal(t, []string{"div", "div"}, propertyNames(props.All()))
	for _, p := range props.All() {
		assert.False(t, p.IsOverloaded(), "a parentless type overloads nothing")
	}
	assert.Equal(t, "xhtml:div", props.All()[0].Ref())
	assert.True(t, props.All()[1].IsAttribute())
}

func TestLocalOfKinds(t *testing.T) {
	ts, _ := loadR4(t)
	patient := mustType(t, ts, "Patient").Properties()

	single := patient.LocalOfKinds(false, KindPrimitiveContainer)
	assert.Equal(t, []string{"active", "gender"}, propertyNames(single))

	withCollections := patient.LocalOfKinds(true, KindElement)
	assert.Equal(t, []string{"contact"}, propertyNames(withCollections))
	assert.Empty(t, patient.LocalOfKinds(false, KindElement))
}

func TestCapabilities(t *testing.T) {
	ts, _ := loadR4(t)

	resource := mustType(t, ts, "Resource")
	assert.Equal(t, []string{"TypeInterface", "ResourceTypeInterface", "CommentContainerInterface"}, resource.Interfaces())
	assert.Equal(t, []string{"CommentContainerTrait", "SourceXMLNamespaceTrait"}, resource.Traits())

	patient := mustType(t, ts, "Patient")
	assert.Empty(t, patient.Interfaces())
	assert.Empty(t, patient.Traits())

	str := mustType(t, ts, "string")
	assert.Equal(t, []string{"PrimitiveContainerTypeInterface", "ValueContainerTypeInterface"}, str.Interfaces())
	assert.Equal(t, []string{"ValueContainerTrait"}, str.Traits())
}
