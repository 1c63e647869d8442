package cmd

import (
	"log/slog"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in     string
		want   slog.Level
		wantOK bool
	}{
		{"trace", levelTrace, true},
		{"TRACE", levelTrace, true},
		{"debug", slog.LevelDebug, true},
		{"warn", slog.LevelWarn, true},
		{"debug+1", slog.LevelDebug + 1, true},
		{"loud", slog.LevelInfo, false},
	}
	for _, tc := range tests {
		got, ok := parseLevel(tc.in)
		assert.Equal(t, tc.wantOK, ok, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestLoadOptions(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	c := NewAnnotateCommand()
	require.NoError(t, c.Flags().Parse([]string{
		"--input-file", "/specs/petstore.yaml",
		"--legacy-type-hints=false",
		"--model-package", `\Acme\`,
	}))
	viper.Set("composerVendorName", "acme")

	opts, err := loadOptions(c)
	require.NoError(t, err)
	assert.Equal(t, "/specs/petstore.yaml", opts.InFile)
	assert.False(t, opts.LegacyTypeHintSupport)
	assert.True(t, opts.HideGenerationTimestamp)
	assert.Equal(t, "Acme", opts.ModelPackage)
	assert.Equal(t, "acme", opts.VendorName)
	assert.Equal(t, "types_gen.yaml", opts.OutFile)
}
