package ui_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/frux-technologies/parcel/pkg/errors"
	"github.com/frux-technologies/parcel/pkg/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatString(t *testing.T) {
	tests := []struct {
		name     string
		format   ui.Format
		expected string
	}{
		{
			name:     "auto format",
			format:   ui.FormatAuto,
			expected: "auto",
		},
		{
			name:     "terminal format",
			format:   ui.FormatTerminal,
			expected: "term",
		},
		{
			name:     "text format",
			format:   ui.FormatText,
			expected: "text",
		},
		{
			name:     "json format",
			format:   ui.FormatJSON,
			expected: "json",
		},
		{
			name:     "unknown format",
			format:   ui.Format(999),
			expected: "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.format.String())
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected ui.Format
	}{
		{"auto", ui.FormatAuto},
		{"", ui.FormatAuto},
		{"term", ui.FormatTerminal},
		{"terminal", ui.FormatTerminal},
		{"TERM", ui.FormatTerminal},
		{"text", ui.FormatText},
		{"plain", ui.FormatText},
		{"json", ui.FormatJSON},
		{"Json", ui.FormatJSON},
		{" json ", ui.FormatJSON},
	}

	for _, tt := range tests {
		t.Run("parse "+tt.input, func(t *testing.T) {
			format, err := ui.ParseFormat(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, format)
		})
	}

	t.Run("invalid format", func(t *testing.T) {
		format, err := ui.ParseFormat("yaml")
		require.Error(t, err)
		assert.Equal(t, ui.FormatAuto, format)
		assert.Contains(t, err.Error(), "unknown format")
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	})
}

func TestDetectFormat(t *testing.T) {
	t.Run("NO_COLOR environment variable set", func(t *testing.T) {
		t.Setenv("NO_COLOR", "1")
		assert.Equal(t, ui.FormatText, ui.DetectFormat(os.Stdout))
	})

	t.Run("regular file is not a terminal", func(t *testing.T) {
		f, err := os.Create(filepath.Join(t.TempDir(), "out.txt"))
		if !assert.NoError(t, err) {
			return
		}
		defer func() { _ = f.Close() }()

		assert.Equal(t, ui.FormatText, ui.DetectFormat(f))
	})
}
