package pipeline

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/conduit-lang/schemagen/internal/typegraph"
	"github.com/conduit-lang/schemagen/internal/xsd"
)

const brokenSchema = `<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema">
  <xs:complexType name="Orphan">
    <xs:complexContent><xs:extension base="Missing"/></xs:complexContent>
  </xs:complexType>
</xs:schema>`

const tinySchema = `<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema">
  <xs:complexType name="Thing"><xs:sequence/></xs:complexType>
</xs:schema>`

func fsLoader(files map[string]string) LoadFunc {
	return func(_ context.Context, v Version) (*xsd.Schema, error) {
		src, ok := files[v.Name]
		if !ok {
			return nil, errors.New("no such version")
		}
		return xsd.LoadFS(fstest.MapFS{"schema.xsd": {Data: []byte(src)}}, v.Name)
	}
}

func TestRun_R4Testdata(t *testing.T) {
	runner := New(Options{RootNamespace: "HL7.FHIR"})

	results, err := runner.Run(context.Background(), []Version{
		{Name: "R4", SchemaDir: "../xsd/testdata/r4"},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)

	res := results[0]
	assert.False(t, res.Failed())
	require.NotNil(t, res.Types)
	assert.Equal(t, "HL7.FHIR.Versions.R4", res.Types.VersionNamespace())
	assert.Len(t, res.Schema.Files, 3)
	assert.Len(t, res.Diagnostics.WithCode(typegraph.ErrDuplicateProperty), 1)

	patient, ok := res.Types.Lookup("Patient")
	require.True(t, ok)
	assert.Equal(t, typegraph.KindResource, patient.Kind())
}

func TestRun_FailuresAreVersionScoped(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	runner := New(Options{
		RootNamespace: "Gen",
		Concurrency:   2,
		Load: fsLoader(map[string]string{
			"V1": tinySchema,
			"V2": brokenSchema,
			"V3": tinySchema,
		}),
		Logger: zap.New(core),
	})

	results, err := runner.Run(context.Background(), []Version{
		{Name: "V1"}, {Name: "V2"}, {Name: "V3"}, {Name: "V4"},
	})
	require.Error(t, err)
	require.Len(t, results, 4)

	assert.False(t, results[0].Failed())
	assert.True(t, results[1].Failed())
	assert.False(t, results[2].Failed())
	assert.True(t, results[3].Failed())

	assert.True(t, typegraph.HasCode(results[1].Err, typegraph.ErrUnresolvedReference))
	assert.Nil(t, results[1].Types)
	assert.Contains(t, err.Error(), "version V2")
	assert.Contains(t, err.Error(), "version V4: loading schema: no such version")

	_, ok := results[2].Types.Lookup("Thing")
	assert.True(t, ok)

	failures := logs.FilterMessage("version failed").All()
	require.Len(t, failures, 2)
	versions := []string{
		failures[0].ContextMap()["version"].(string),
		failures[1].ContextMap()["version"].(string),
	}
	assert.ElementsMatch(t, []string{"V2", "V4"}, versions)
	assert.Equal(t, 2, logs.FilterMessage("version processed").Len())
}

func TestRun_VersionNamespace(t *testing.T) {
	runner := New(Options{
		RootNamespace: "Gen",
		Load:          fsLoader(map[string]string{"STU3": tinySchema}),
	})

	results, err := runner.Run(context.Background(), []Version{{Name: "STU3", Namespace: "Stu3"}})
	require.NoError(t, err)

	thing, ok := results[0].Types.Lookup("Thing")
	require.True(t, ok)
	assert.Equal(t, "Gen.Versions.Stu3.Types", thing.Namespace())
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := New(Options{Load: fsLoader(map[string]string{"V1": tinySchema})})
	results, err := runner.Run(ctx, []Version{{Name: "V1"}})
	require.Error(t, err)
	assert.ErrorIs(t, results[0].Err, context.Canceled)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		versions []Version
		wantErr  string
	}{
		{"empty", nil, "no versions"},
		{"missing name", []Version{{SchemaDir: "x"}}, "name is required"},
		{"duplicate", []Version{{Name: "R4"}, {Name: "R4"}}, "listed more than once"},
		{"duplicate ignoring case", []Version{{Name: "R4"}, {Name: "r4"}}, "version r4: listed more than once"},
		{"ok", []Version{{Name: "R4"}, {Name: "R5"}}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.versions)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
