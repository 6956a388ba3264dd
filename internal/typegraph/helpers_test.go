package typegraph

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/conduit-lang/schemagen/internal/xsd"
)

const (
	testRoot      = "HL7.FHIR"
	testVersionNS = "HL7.FHIR.Versions.R4"
	testTypesNS   = "HL7.FHIR.Versions.R4.Types"
)

func testOptions(logger *zap.Logger) Options {
	return Options{
		Version:       "R4",
		RootNamespace: testRoot,
		Logger:        logger,
	}
}

func observedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core), logs
}

// schemaNodes parses body wrapped in a schema element and returns its top-level declarations.
func schemaNodes(t *testing.T, body string) []*xsd.Node {
	t.Helper()
	src := `<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema">` + body + `</xs:schema>`
	root, err := xsd.Parse(strings.NewReader(src), "test.xsd")
	require.NoError(t, err)
	return root.Children
}

func buildGraph(t *testing.T, body string) *Types {
	t.Helper()
	ts, err := NewBuilder(testOptions(nil)).Build(schemaNodes(t, body))
	require.NoError(t, err)
	return ts
}

func loadR4(t *testing.T) (*Types, ErrorList) {
	t.Helper()
	schema, err := xsd.LoadDir("../xsd/testdata/r4", "R4")
	require.NoError(t, err)

	b := NewBuilder(testOptions(nil))
	ts, err := b.Build(schema.Declarations)
	require.NoError(t, err)
	return ts, b.Diagnostics()
}

func mustType(t *testing.T, ts *Types, name string) *Type {
	t.Helper()
	typ, ok := ts.Lookup(name)
	require.True(t, ok, "type %q not registered", name)
	return typ
}

func propertyNames(props []*Property) []string {
	names := make([]string, 0, len(props))
	for _, p := range props {
		names = append(names, p.Name())
	}
	return names
}
