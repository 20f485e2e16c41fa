package presenter

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestPresenter() (*TerminalPresenter, *bytes.Buffer, *bytes.Buffer) {
	var output, errorOutput bytes.Buffer
	return NewWithOptions(&output, &errorOutput, ColorNever), &output, &errorOutput
}

func TestError(t *testing.T) {
	t.Run("with context", func(t *testing.T) {
		p, _, errOut := newTestPresenter()
		p.Error(errors.New("boom"), "installing demo")
		assert.Equal(t, "[ERROR] installing demo: boom\n", errOut.String())
	})

	t.Run("without context", func(t *testing.T) {
		p, _, errOut := newTestPresenter()
		p.Error(errors.New("boom"), "")
		assert.Equal(t, "[ERROR] boom\n", errOut.String())
	})

	t.Run("nil error prints nothing", func(t *testing.T) {
		p, _, errOut := newTestPresenter()
		p.Error(nil, "context")
		assert.Empty(t, errOut.String())
	})
}

func TestMessages(t *testing.T) {
	p, out, _ := newTestPresenter()

	p.Success("installed 2 files")
	p.Warning("source missing")
	p.Info("plain info")

	text := out.String()
	assert.Contains(t, text, "✓ installed 2 files")
	assert.Contains(t, text, "⚠ source missing")
	assert.Contains(t, text, "plain info")
}

func TestSection(t *testing.T) {
	p, out, _ := newTestPresenter()
	p.Section("Claude")
	assert.Equal(t, "Claude\n------\n", out.String())
}

func TestQuietMode(t *testing.T) {
	p, out, errOut := newTestPresenter()
	p.SetQuiet(true)
	assert.True(t, p.IsQuiet())

	p.Success("hidden")
	p.Warning("hidden")
	p.Info("hidden")
	p.Section("hidden")
	p.Separator()
	assert.Empty(t, out.String())

	// Errors always surface.
	p.Error(errors.New("boom"), "")
	assert.Equal(t, "[ERROR] boom\n", errOut.String())
}

func TestDetectColorMode(t *testing.T) {
	tests := []struct {
		name     string
		noColor  string
		skmColor string
		want     ColorMode
	}{
		{"NO_COLOR set", "1", "", ColorNever},
		{"SKM_COLOR always", "", "always", ColorAlways},
		{"SKM_COLOR force", "", "force", ColorAlways},
		{"SKM_COLOR never", "", "never", ColorNever},
		{"SKM_COLOR off", "", "off", ColorNever},
		{"default", "", "", ColorAuto},
		{"unrecognized value", "", "rainbow", ColorAuto},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// Empty values read as unset: detection only checks non-empty.
			t.Setenv("NO_COLOR", tc.noColor)
			t.Setenv("SKM_COLOR", tc.skmColor)
			assert.Equal(t, tc.want, detectColorMode())
		})
	}
}
