package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Conceptual-Machines/music-prompt-api/internal/presets"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRenderSelection(t *testing.T) {
	out, errOut, err := execute(t, "render",
		"--blueprint", "ad_brand_fast_hook",
		"--profile", "bright_pop_electro",
		"--delivery", "balanced_studio",
	)
	require.NoError(t, err)
	assert.Empty(t, errOut)

	lines := strings.Split(out, "\n")
	assert.Equal(t, "Bright Pop Electro Brand Hook", lines[0])
	assert.Contains(t, out, "```text\n")
	assert.Contains(t, out, "E major")
}

func TestRenderDefaultsReportMissingAxes(t *testing.T) {
	out, errOut, err := execute(t, "render")
	require.NoError(t, err)

	assert.Contains(t, errOut, "project_blueprint defaulted")
	assert.Contains(t, errOut, "sound_profile defaulted")
	assert.Contains(t, errOut, "delivery_and_control defaulted")
	assert.True(t, strings.HasPrefix(out, "Lofi Cozy"), out)
}

func TestRenderInstrumentalWithRules(t *testing.T) {
	out, _, err := execute(t, "render",
		"--blueprint", "standalone_song_mini",
		"--instrumental",
		"--narrative", "summer lyrics",
		"--rules",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "Fully instrumental")
	assert.NotContains(t, out, "summer")
	assert.Contains(t, out, "rules: [instrumental_override")
}

func TestPresetsYAMLMatchesCatalog(t *testing.T) {
	out, _, err := execute(t, "presets")
	require.NoError(t, err)

	var got presets.CatalogListing
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	if diff := cmp.Diff(presets.Catalog(), got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("catalog mismatch (-want +got):\n%s", diff)
	}
}

func TestPresetsText(t *testing.T) {
	out, _, err := execute(t, "presets", "--format", "text")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "AXIS"))
	for _, id := range presets.ProfileIDs() {
		assert.Contains(t, out, string(id))
	}
	assert.Equal(t, 1+len(presets.BlueprintIDs())+len(presets.ProfileIDs())+len(presets.DeliveryIDs()),
		strings.Count(out, "\n"))
}

func TestPresetsUnknownFormat(t *testing.T) {
	_, _, err := execute(t, "presets", "--format", "xml")
	assert.ErrorContains(t, err, `unknown format "xml"`)
}
