package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/groupsheets/processor/pipeline"
	"github.com/c360studio/groupsheets/vocabulary/belfast"
)

const sheetNT = `<http://example.org/ms/1> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://purl.org/ontology/bibo/Manuscript> .
<http://example.org/ms/1> <http://schema.org/mentions> <http://viaf.org/viaf/123393054> .
<http://example.org/ms/1> <http://schema.org/author> <http://example.org/poet1> .
<http://example.org/ms/1> <http://purl.org/dc/terms/title> "Spring Poem" .
`

const canonicalSpringPoem = belfast.CanonicalNamespace + "1bdb7dfb66a5fc7978c0d6eda56ee6c8"

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	var stdout, stderr bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeSheet(t *testing.T) (dir, path string) {
	t.Helper()
	dir = t.TempDir()
	path = filepath.Join(dir, "sheet.nt")
	require.NoError(t, os.WriteFile(path, []byte(sheetNT), 0644))
	return dir, path
}

func TestRunCommand(t *testing.T) {
	dir, path := writeSheet(t)

	stdout, _, err := execute(t, "--json", "run", dir)
	require.NoError(t, err)

	var summary pipeline.Summary
	require.NoError(t, json.Unmarshal([]byte(stdout), &summary))
	require.Len(t, summary.Stages, 3)
	assert.Equal(t, "identify", summary.Stages[0].Stage)
	assert.Equal(t, 1, summary.Stages[1].Resolved)
	assert.Equal(t, 1, summary.Stages[2].Added)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<"+canonicalSpringPoem+">")
	assert.Contains(t, string(data), "<"+belfast.PropAffiliation+">")
}

func TestStageCommandRunsOneStage(t *testing.T) {
	_, path := writeSheet(t)

	stdout, _, err := execute(t, "identify", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "identify")
	assert.NotContains(t, stdout, "smush")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<"+belfast.ClassGroupSheet+">")
	assert.NotContains(t, string(data), canonicalSpringPoem)
}

func TestDryRunLeavesFilesAlone(t *testing.T) {
	_, path := writeSheet(t)

	_, _, err := execute(t, "--dry-run", "run", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, sheetNT, string(data))
}

func TestMetricsFile(t *testing.T) {
	_, path := writeSheet(t)
	metricsPath := filepath.Join(t.TempDir(), "groupsheets.prom")

	_, _, err := execute(t, "--metrics-file", metricsPath, "run", path)
	require.NoError(t, err)

	data, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `groupsheets_files_total{outcome="written",stage="smush"} 1`)
}

func TestConfigFileOverridesVocabulary(t *testing.T) {
	_, path := writeSheet(t)
	cfgPath := filepath.Join(t.TempDir(), "groupsheets.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("vocabulary:\n  canonical_namespace: \"urn:sheet:\"\n"), 0644))

	_, _, err := execute(t, "-c", cfgPath, "run", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<urn:sheet:1bdb7dfb66a5fc7978c0d6eda56ee6c8>")
}

func TestParseErrorFailsRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.nt")
	require.NoError(t, os.WriteFile(path, []byte(`<http://example.org/ms/1> "no predicate" .`), 0644))

	_, _, err := execute(t, "run", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "identify")
	assert.Contains(t, err.Error(), "broken.nt")
}

func TestInvalidLogLevel(t *testing.T) {
	_, path := writeSheet(t)
	_, _, err := execute(t, "--log-level", "loud", "run", path)
	require.Error(t, err)
}

func TestRunRequiresPaths(t *testing.T) {
	_, _, err := execute(t, "run")
	require.Error(t, err)
}

func TestConfigCommand(t *testing.T) {
	stdout, _, err := execute(t, "config")
	require.NoError(t, err)
	assert.Contains(t, stdout, "group_uri:")
	assert.Contains(t, stdout, belfast.GroupURI)
	assert.Contains(t, stdout, "debounce:")
}

func TestConfigInitCommand(t *testing.T) {
	stdout, _, err := execute(t, "config", "init")
	require.NoError(t, err)

	path := strings.TrimSpace(stdout)
	assert.True(t, strings.HasSuffix(path, filepath.Join(".config", "groupsheets", "config.yaml")))
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "groupsheets version "+Version+" (build: "+BuildTime+")\n", stdout)
}
