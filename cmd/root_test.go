package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	cmds := rootCmd.Commands()

	// Collect subcommand names.
	names := make(map[string]bool)
	for _, c := range cmds {
		names[c.Name()] = true
	}

	expected := []string{"serve", "suppliers", "recommend", "compare", "analyze", "history", "materials", "onboard"}
	for _, name := range expected {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "sourcing-cli", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestServeCommand_Flags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag, "serve command should have --port flag")
	assert.Equal(t, "0", flag.DefValue)
}

func TestSuppliersCommand_Flags(t *testing.T) {
	for _, name := range []string{"unsorted", "overview"} {
		assert.NotNil(t, suppliersCmd.Flags().Lookup(name), "suppliers should have --%s flag", name)
	}
}

func TestRecommendCommand_Flags(t *testing.T) {
	for _, name := range []string{"local", "limit", "json"} {
		assert.NotNil(t, recommendCmd.Flags().Lookup(name), "recommend should have --%s flag", name)
	}
}

func TestCompareCommand_Flags(t *testing.T) {
	flag := compareCmd.Flags().Lookup("format")
	require.NotNil(t, flag)
	assert.Equal(t, "table", flag.DefValue)
	assert.NotNil(t, compareCmd.Flags().Lookup("out"))
	assert.Error(t, compareCmd.Args(compareCmd, []string{"Germany"}))
	assert.NoError(t, compareCmd.Args(compareCmd, []string{"Germany", "Vietnam"}))
}

func TestAnalyzeCommand_Args(t *testing.T) {
	assert.Error(t, analyzeCmd.Args(analyzeCmd, nil))
	assert.NoError(t, analyzeCmd.Args(analyzeCmd, []string{"42"}))
}

func TestHistoryCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range historyCmd.Commands() {
		names[c.Name()] = true
	}
	for _, name := range []string{"list", "delete", "clear"} {
		assert.True(t, names[name], "history should have subcommand %q", name)
	}
}

func TestOnboardCommand_Flags(t *testing.T) {
	for _, name := range []string{"file", "name", "type", "material", "country", "notes", "show"} {
		assert.NotNil(t, onboardCmd.Flags().Lookup(name), "onboard should have --%s flag", name)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
	return dir
}

func TestMaterialsCommand(t *testing.T) {
	dir := chdirTemp(t)
	override := filepath.Join(dir, "materials.yaml")
	require.NoError(t, os.WriteFile(override, []byte("materials:\n  graphite: [China, Mozambique]\n"), 0644))
	t.Setenv("SOURCING_MATERIALS_OVERRIDE_PATH", override)
	t.Setenv("SOURCING_LOG_LEVEL", "error")

	out, err := execute(t, "materials", "steel", "graphite", "unobtainium")
	require.NoError(t, err)
	assert.Contains(t, out, "India, China, Germany")
	assert.Contains(t, out, "China, Mozambique")
	assert.Contains(t, out, "unobtainium  -")
}

func TestHistoryCommands_SQLite(t *testing.T) {
	dir := chdirTemp(t)
	t.Setenv("SOURCING_STORE_DRIVER", "sqlite")
	t.Setenv("SOURCING_STORE_DATABASE_URL", filepath.Join(dir, "sourcing.db"))
	t.Setenv("SOURCING_LOG_LEVEL", "error")

	out, err := execute(t, "history", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No analyses recorded.")

	out, err = execute(t, "history", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "History cleared")

	_, err = execute(t, "history", "delete", "abc")
	assert.Error(t, err)
}
