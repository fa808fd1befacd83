package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/pgte-bot/internal/services/character"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNormalize_JSONLegacyHits(t *testing.T) {
	path := writeFile(t, "old.json", `{"resources":{"hits":{"value":2,"max":3}}}`)

	var out bytes.Buffer
	require.NoError(t, runNormalize(&out, path, "resources.hits.physical.value"))
	assert.Equal(t, "2", strings.TrimSpace(out.String()))

	out.Reset()
	require.NoError(t, runNormalize(&out, path, "resources.hits.mental.max"))
	assert.Equal(t, "0", strings.TrimSpace(out.String()))
}

func TestNormalize_WholeDocument(t *testing.T) {
	path := writeFile(t, "garbage.json", `not json`)

	var out bytes.Buffer
	require.NoError(t, runNormalize(&out, path, ""))
	assert.Contains(t, out.String(), `"stats"`)
	assert.Contains(t, out.String(), `"storyDie"`)
}

func TestNormalize_YAMLFixture(t *testing.T) {
	path := writeFile(t, "sheet.yaml", "name: Fixture\nsystem:\n  profile:\n    archetype: The Liar\n")

	var out bytes.Buffer
	require.NoError(t, runNormalize(&out, path, "profile.archetype"))
	assert.Equal(t, "The Liar", strings.TrimSpace(out.String()))
}

func TestNormalize_Errors(t *testing.T) {
	var out bytes.Buffer
	assert.Error(t, runNormalize(&out, filepath.Join(t.TempDir(), "missing.json"), ""))

	path := writeFile(t, "ok.json", `{}`)
	err := runNormalize(&out, path, "no.such.path")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no.such.path")
}

func TestPreview_BuiltinSample(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"preview", "--width", "0"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "Maren Holt")
	assert.Contains(t, out.String(), "Chalk × 5")
}

func TestPrintMigrateReport(t *testing.T) {
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)

	printMigrateReport(cmd, &character.MigrateOutput{
		Checked:  3,
		Repaired: []string{"c1"},
		Failed:   map[string]error{"c3": errors.New("boom")},
	}, true)

	text := out.String()
	assert.Contains(t, text, "Dry run")
	assert.Contains(t, text, "Checked: 3")
	assert.Contains(t, text, "Needs repair: 1")
	assert.Contains(t, text, "c3: boom")
}
