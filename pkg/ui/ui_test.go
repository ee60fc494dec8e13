package ui_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/frux-technologies/parcel/pkg/errors"
	"github.com/frux-technologies/parcel/pkg/ui"
	"github.com/frux-technologies/parcel/pkg/ui/display"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRenderer(t *testing.T) {
	for _, format := range []ui.Format{ui.FormatAuto, ui.FormatTerminal, ui.FormatText, ui.FormatJSON} {
		t.Run(format.String(), func(t *testing.T) {
			renderer, err := ui.NewRenderer(format, &bytes.Buffer{})
			require.NoError(t, err)
			assert.NotNil(t, renderer)
		})
	}

	_, err := ui.NewRenderer(ui.Format(999), &bytes.Buffer{})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func phaseResult() *display.PhaseResult {
	return &display.PhaseResult{
		Phase:  "transformers",
		Target: "src/index.ts",
		Plugins: []display.PluginRow{
			{ID: "@parcel/transformer-typescript", Version: "2.1.0"},
			{ID: "@parcel/transformer-js"},
		},
	}
}

func TestTextRenderer(t *testing.T) {
	buf := &bytes.Buffer{}
	renderer, err := ui.NewRenderer(ui.FormatText, buf)
	require.NoError(t, err)

	require.NoError(t, renderer.RenderResult(phaseResult()))
	assert.Equal(t, "transformers for src/index.ts:\n  @parcel/transformer-typescript@2.1.0\n  @parcel/transformer-js\n", buf.String())

	buf.Reset()
	report := &display.ValidationReport{
		ConfigPath: "/app/.parcelrc",
		Checks: []display.Check{
			{ID: "a", OK: true},
			{ID: "b", Error: "not found"},
		},
	}
	require.NoError(t, renderer.RenderResult(report))
	assert.Contains(t, buf.String(), "FAIL  b: not found")
	assert.Contains(t, buf.String(), "2 plugins, 1 failed")

	buf.Reset()
	require.NoError(t, renderer.RenderResult(&display.Document{Content: "bundler: x"}))
	assert.Equal(t, "bundler: x\n", buf.String())
}

func TestTerminalRenderer(t *testing.T) {
	buf := &bytes.Buffer{}
	renderer, err := ui.NewRenderer(ui.FormatTerminal, buf)
	require.NoError(t, err)

	require.NoError(t, renderer.RenderResult(phaseResult()))
	assert.Contains(t, buf.String(), "@parcel/transformer-typescript")
	assert.Contains(t, buf.String(), "src/index.ts")

	buf.Reset()
	require.NoError(t, renderer.RenderResult(&display.PhaseResult{Phase: "optimizers"}))
	assert.Contains(t, buf.String(), "no plugins")
}

func TestJSONRenderer(t *testing.T) {
	buf := &bytes.Buffer{}
	renderer, err := ui.NewRenderer(ui.FormatJSON, buf)
	require.NoError(t, err)

	require.NoError(t, renderer.RenderResult(phaseResult()))
	var decoded display.PhaseResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, *phaseResult(), decoded)

	buf.Reset()
	cause := errors.New(errors.ErrPluginNotFound, "missing").WithDetail("plugin", "x")
	require.NoError(t, renderer.RenderError(cause))

	var obj map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &obj))
	assert.Equal(t, "PLUGIN_NOT_FOUND", obj["code"])
	assert.Equal(t, map[string]interface{}{"plugin": "x"}, obj["details"])
}
