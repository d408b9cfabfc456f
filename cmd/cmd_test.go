package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pilotgen/pilotgen/internal/registry"
	"github.com/pilotgen/pilotgen/internal/types"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// setupProject points viper at a throwaway project with one template.
func setupProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "project-config.yml", "project:\n  name: demo\n")
	writeFile(t, root, "templates/greeting.template.md", "# {{PROJECT_NAME}}\n")

	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.Set("project.config_file", filepath.Join(root, "project-config.yml"))
	viper.Set("templates.dir", filepath.Join(root, "templates"))
	viper.Set("output.dir", filepath.Join(root, "out"))

	// The run functions are invoked directly, so cobra never sets a
	// context on the commands; give them one as Execute would.
	ctx := context.Background()
	generateCmd.SetContext(ctx)
	validateCmd.SetContext(ctx)
	renderCmd.SetContext(ctx)
	return root
}

func TestRootCommandStructure(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"generate", "render", "validate", "list", "init", "watch", "serve", "version"} {
		assert.True(t, names[want], "missing command %q", want)
	}
}

func TestRunGenerate(t *testing.T) {
	root := setupProject(t)

	generateGroups = nil
	generateDryRun = false
	generateOutput = ""
	require.NoError(t, runGenerate(generateCmd, nil))

	content, err := os.ReadFile(filepath.Join(root, "out", "greeting.md"))
	require.NoError(t, err)
	assert.Equal(t, "# demo\n", string(content))
}

func TestRunGenerateDryRun(t *testing.T) {
	root := setupProject(t)

	generateGroups = nil
	generateDryRun = true
	generateOutput = ""
	require.NoError(t, runGenerate(generateCmd, nil))

	_, err := os.Stat(filepath.Join(root, "out", "greeting.md"))
	assert.True(t, os.IsNotExist(err))
	generateDryRun = false
}

func TestRunGenerateReportsBrokenTemplates(t *testing.T) {
	root := setupProject(t)
	writeFile(t, root, "templates/broken.template.md", "{{#if X}} never closed")

	generateGroups = nil
	generateDryRun = false
	generateOutput = ""
	err := runGenerate(generateCmd, nil)
	require.Error(t, err)
}

func TestRunValidate(t *testing.T) {
	setupProject(t)

	validateOutputs = false
	require.NoError(t, runValidate(validateCmd, nil))
}

func TestRunValidateOutputsBeforeGenerate(t *testing.T) {
	setupProject(t)

	// Nothing generated yet, so verifying outputs must fail.
	validateOutputs = true
	err := runValidate(validateCmd, nil)
	require.Error(t, err)
	validateOutputs = false
}

func TestCollectListings(t *testing.T) {
	entries := []*registry.Entry{
		{Info: &types.TemplateInfo{Name: "b", OutputPath: "b.md", Group: "copilot", FilePath: "/tmp/b"}},
		{Info: &types.TemplateInfo{Name: "a", OutputPath: "a.md", Group: "claude", Embedded: true}},
	}

	listings := collectListings(entries)
	require.Len(t, listings, 2)
	assert.Equal(t, "a", listings[0].Name)
	assert.Equal(t, "(embedded)", listings[0].Source)
	assert.Equal(t, "b", listings[1].Name)
	assert.Equal(t, "/tmp/b", listings[1].Source)
}

func TestRunRenderUnknownTemplate(t *testing.T) {
	setupProject(t)
	err := runRender(renderCmd, []string{"nope"})
	require.Error(t, err)
}

func TestGroupsValue(t *testing.T) {
	var groups []string
	v := newGroupsValue(&groups)

	require.NoError(t, v.Set("claude"))
	require.NoError(t, v.Set("copilot,issue-template"))
	assert.Equal(t, []string{"claude", "copilot", "issue-template"}, groups)
	assert.Equal(t, "claude,copilot,issue-template", v.String())
	assert.Equal(t, "group", v.Type())

	err := v.Set("cockpit")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid group")
}
