package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findCommand(parent *cobra.Command, name string) *cobra.Command {
	for _, c := range parent.Commands() {
		if c.Name() == name {
			return c
		}
	}
	return nil
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("LOG_PATH", filepath.Join(t.TempDir(), "app.log"))
	t.Setenv("CONFIG_FILE", "")

	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommandContainsTopLevelCommands(t *testing.T) {
	root := NewRootCommand()
	for _, name := range []string{"serve", "consume", "render", "version"} {
		assert.NotNil(t, findCommand(root, name), "comando %q ausente", name)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, BuildVersion+"\n", out)
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "scan.json")
	require.NoError(t, os.WriteFile(input, []byte(`{
		"report_id": "local-1",
		"repo_url": "https://github.com/acme/tools.git",
		"vulnerability_count": {"High": 2},
		"scan_results": {"main.go": {"analysis": "* **Severity:** High"}}
	}`), 0o644))
	outDir := filepath.Join(dir, "out")

	out, err := execute(t, "render", "--input", input, "--out", outDir, "--engine", "fpdf")
	require.NoError(t, err)
	assert.Contains(t, out, "report_id: local-1")

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	var exts []string
	for _, e := range entries {
		exts = append(exts, filepath.Ext(e.Name()))
	}
	assert.ElementsMatch(t, []string{".pdf", ".docx"}, exts)
	assert.True(t, strings.Contains(out, outDir))
}

func TestRenderCommandJSON(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "scan.json")
	require.NoError(t, os.WriteFile(input, []byte(`{"report_id": "local-2", "vulnerability_count": {"critical": 1}}`), 0o644))

	out, err := execute(t, "render", "--input", input, "--out", filepath.Join(dir, "out"), "--engine", "fpdf", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"report_id": "local-2"`)
	assert.Contains(t, out, `"critical": 1`)
}

func TestRenderCommandRequiresInput(t *testing.T) {
	_, err := execute(t, "render")
	assert.Error(t, err)
}

func TestConsumeRequiresSQSEnabled(t *testing.T) {
	t.Setenv("ENABLE_SQS", "false")
	_, err := execute(t, "consume")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ENABLE_SQS")
}
