package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/schemagen/internal/cli/config"
	"github.com/conduit-lang/schemagen/internal/typegraph"
)

func TestInit(t *testing.T) {
	testProject(t, "")

	stdout, _, err := execute("init", "--root", "HL7.FHIR", "--prefix", "FHIR",
		"--version", "R4=schemas/r4", "--version", "R5 = schemas/r5", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Created schemagen.yaml")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "HL7.FHIR", cfg.RootNamespace)
	assert.Equal(t, "FHIR", cfg.ClassPrefix)
	assert.Equal(t, []string{"R4", "R5"}, cfg.VersionNames())
	assert.Equal(t, "R4", cfg.Versions[0].Namespace)
	assert.Equal(t, typegraph.DefaultKindRules().ResourceNames, cfg.Kinds.ResourceNames)
	assert.Equal(t, "XHTML", cfg.Kinds.RawTypes["xhtml:div"])
}

func TestInit_RefusesToOverwrite(t *testing.T) {
	testProject(t, "root_namespace: Existing\n")

	_, _, err := execute("init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")

	_, _, err = execute("init", "--force", "--root", "Fresh")
	require.NoError(t, err)

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "Fresh", cfg.RootNamespace)
}

func TestInit_RejectedOverwriteKeepsExistingConfig(t *testing.T) {
	dir := testProject(t, "root_namespace: Existing\n")

	_, _, err := execute("init", "--force", "--root", "Not A Namespace")
	require.Error(t, err)

	data, err := os.ReadFile("schemagen.yaml")
	require.NoError(t, err)
	assert.Equal(t, "root_namespace: Existing\n", string(data))

	leftovers, _ := filepath.Glob(filepath.Join(dir, ".schemagen-*"))
	assert.Empty(t, leftovers)
}

func TestInit_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"version without dir", []string{"--version", "R4"}},
		{"version without name", []string{"--version", "=schemas"}},
		{"bad root namespace", []string{"--root", "Not A Namespace"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testProject(t, "")

			_, _, err := execute(append([]string{"init"}, tt.args...)...)
			require.Error(t, err)

			_, statErr := os.Stat("schemagen.yaml")
			assert.True(t, os.IsNotExist(statErr), "no config file should be left behind")
		})
	}
}

func TestParseVersionFlag(t *testing.T) {
	v, err := parseVersionFlag(" STU3 = ./schemas/stu3 ")
	require.NoError(t, err)
	assert.Equal(t, "STU3", v.Name)
	assert.Equal(t, "./schemas/stu3", v.SchemaDir)
}
