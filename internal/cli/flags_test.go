package cli

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterGlobalFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "test", RunE: func(*cobra.Command, []string) error { return nil }}
	var flags CommandFlags
	RegisterGlobalFlags(cmd, &flags)

	for _, name := range []string{"debug", "quiet", "config-path"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), name)
	}

	cmd.SetArgs([]string{"-d", "-q", "--config-path", "/tmp/cfg"})
	require.NoError(t, cmd.Execute())

	assert.True(t, flags.Debug)
	assert.True(t, flags.Quiet)
	assert.Equal(t, "/tmp/cfg", flags.ConfigPath)
}

func TestRegisterOutputFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "test", RunE: func(*cobra.Command, []string) error { return nil }}
	var flags OutputFlags
	RegisterOutputFlags(cmd, &flags)

	assert.Equal(t, "table", cmd.Flags().Lookup("output").DefValue)

	cmd.SetArgs([]string{"-o", "yaml", "--no-headers"})
	require.NoError(t, cmd.Execute())

	assert.Equal(t, OutputFormatYAML, flags.Format())
	assert.True(t, flags.NoHeaders)
}

func TestOutputFlags_Format(t *testing.T) {
	tests := []struct {
		name     string
		flags    OutputFlags
		expected OutputFormat
	}{
		{"default", OutputFlags{}, OutputFormatTable},
		{"explicit table", OutputFlags{OutputFormat: "table"}, OutputFormatTable},
		{"yaml", OutputFlags{OutputFormat: "yaml"}, OutputFormatYAML},
		{"raw wins", OutputFlags{Raw: true, OutputFormat: "yaml"}, OutputFormatJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.flags.Format())
			assert.NoError(t, tt.flags.Validate())
		})
	}

	bad := OutputFlags{OutputFormat: "xml"}
	assert.ErrorContains(t, bad.Validate(), "unsupported output format")
}
