package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"journeymap/internal/config"
	"journeymap/internal/journey"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(t.Context())
	return out.String(), err
}

func setupCLI(t *testing.T) string {
	t.Helper()
	color.NoColor = true
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("JOURNEYMAP_STORAGE", "file")
	t.Setenv("JOURNEYMAP_DSN", "")
	return dir
}

const exported = `{
  "nodes": [
    {"id": "n1", "content": {"id": "c1", "name": "Teaser", "format": "Video", "type": "", "status": "", "qualityScore": 82, "campaign": "Summer"}, "position": {"x": 10, "y": 20}},
    {"id": "n2", "content": {"id": "c2", "name": "Landing", "format": "Web", "type": "", "status": "", "qualityScore": 70, "campaign": "Summer"}, "position": {"x": 300, "y": 20}}
  ],
  "connections": [{"id": "e1", "from": "n1", "to": "n2"}],
  "title": "Summer Journey"
}`

func TestImportShowExport(t *testing.T) {
	setupCLI(t)
	path := writeFile(t, "in.json", exported)

	out, err := runCmd(t, "import", path, "--brand", "Acme", "--campaign", "Summer")
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 nodes and 1 connections into journey-map-Acme-Summer")

	out, err = runCmd(t, "show", "-b", "Acme", "-c", "Summer")
	require.NoError(t, err)
	assert.Contains(t, out, "Summer Journey")
	assert.Contains(t, out, "Teaser")
	assert.Contains(t, out, "10,20")
	assert.Contains(t, out, "Landing")

	outDir := t.TempDir()
	_, err = runCmd(t, "export", "-b", "Acme", "-c", "Summer", "-o", outDir)
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(outDir, "Acme-Summer-journey.json"))
	require.NoError(t, err)
	m, err := journey.Decode(data)
	require.NoError(t, err)
	assert.Len(t, m.Nodes, 2)
	assert.Len(t, m.Connections, 1)

	_, err = runCmd(t, "export", "-b", "Acme", "-c", "Summer", "-o", outDir, "--format", "png")
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(outDir, "Acme-Summer-journey.png"))
	assert.NoError(t, err)

	out, err = runCmd(t, "export", "-b", "Acme", "-c", "Summer", "--stdout")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "{\n  \"nodes\""))

	_, err = runCmd(t, "export", "-b", "Acme", "--format", "gif")
	assert.Error(t, err)
}

func TestRenameClearKeys(t *testing.T) {
	setupCLI(t)

	out, err := runCmd(t, "keys")
	require.NoError(t, err)
	assert.Contains(t, out, "No journeys saved yet")

	_, err = runCmd(t, "rename", "-b", "Acme", "Launch", "plan")
	require.NoError(t, err)
	out, err = runCmd(t, "show", "-b", "Acme")
	require.NoError(t, err)
	assert.Contains(t, out, "Launch plan")
	assert.Contains(t, out, "No content on this journey yet")

	_, err = runCmd(t, "clear", "-b", "Acme")
	require.NoError(t, err)
	out, err = runCmd(t, "show", "-b", "Acme")
	require.NoError(t, err)
	assert.Contains(t, out, "Campaign Journey")

	out, err = runCmd(t, "keys")
	require.NoError(t, err)
	assert.Contains(t, out, "journey-map-Acme-all")
}

func TestConfigCommand(t *testing.T) {
	dir := setupCLI(t)

	_, err := runCmd(t, "config", "init")
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "journeymap", "config.toml"))
	require.NoError(t, err)

	out, err := runCmd(t, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "[canvas]")
	assert.Contains(t, out, "node_width = 150.0")
}

func TestStoreOptions(t *testing.T) {
	setupCLI(t)
	cfg, err := config.Load()
	require.NoError(t, err)

	cfg.Storage.Backend = "sqlite"
	opts, err := storeOptions(cfg)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cfg.Storage.Path, "journeys.sqlite"), opts.Path)

	cfg.Storage.Backend = "postgres"
	_, err = storeOptions(cfg)
	assert.Error(t, err)
}
