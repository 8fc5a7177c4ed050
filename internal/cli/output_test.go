package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"myges/internal/display"
)

func TestValidateOutputFormat(t *testing.T) {
	for _, format := range ValidOutputFormats {
		assert.NoError(t, ValidateOutputFormat(string(format)))
	}
	assert.Error(t, ValidateOutputFormat("wide"))
	assert.Error(t, ValidateOutputFormat(""))
}

func TestWriteRaw(t *testing.T) {
	data := json.RawMessage(`[{"course_name":"Go","justified":false}]`)

	t.Run("json is compact", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteRaw(&buf, OutputFormatJSON, data))
		assert.Equal(t, `[{"course_name":"Go","justified":false}]`+"\n", buf.String())
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteRaw(&buf, OutputFormatYAML, data))
		assert.Equal(t, "- course_name: Go\n  justified: false\n", buf.String())
	})
}

func TestOutput_Table(t *testing.T) {
	records := []*display.Record{
		display.NewRecord(display.F("A", "x"), display.F("B", "22")),
	}

	t.Run("with headers", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewOutput(&buf, OutputFlags{}).Table(records))
		assert.Equal(t, "A   B \nx   22\n\n", buf.String())
	})

	t.Run("no headers", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewOutput(&buf, OutputFlags{NoHeaders: true}).Table(records))
		assert.Equal(t, "x   22\n\n", buf.String())
	})

	t.Run("empty", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewOutput(&buf, OutputFlags{}).Table(nil))
		assert.Equal(t, NothingToDisplay+"\n", buf.String())
	})
}

func TestOutput_Group(t *testing.T) {
	tables := [][]*display.Record{
		{display.NewRecord(display.F("A", "1"))},
		{display.NewRecord(display.F("A", "22"), display.F("B", "z"))},
	}

	var buf bytes.Buffer
	require.NoError(t, NewOutput(&buf, OutputFlags{}).Group(tables))
	assert.Equal(t, "A    B\n1     \n\nA    B\n22   z\n\n", buf.String())

	buf.Reset()
	require.NoError(t, NewOutput(&buf, OutputFlags{}).Group([][]*display.Record{{}, nil}))
	assert.Equal(t, NothingToDisplay+"\n", buf.String())
}

func TestOutput_Tables(t *testing.T) {
	tables := [][]*display.Record{
		{display.NewRecord(display.F("A", "1"))},
		{display.NewRecord(display.F("A", "22"), display.F("B", "z"))},
	}

	var buf bytes.Buffer
	require.NoError(t, NewOutput(&buf, OutputFlags{}).Tables(tables))
	assert.Equal(t, "A\n1\n\nA    B\n22   z\n\n", buf.String())
}

func TestOutput_KeyValueIgnoresHeaders(t *testing.T) {
	records := []*display.Record{
		display.NewRecord(display.F("Name", "ID"), display.F("Value", 12)),
	}

	var buf bytes.Buffer
	require.NoError(t, NewOutput(&buf, OutputFlags{}).KeyValue(records))
	assert.Equal(t, "ID     12   \n\n", buf.String())
}

func TestOutput_Structured(t *testing.T) {
	assert.False(t, NewOutput(&bytes.Buffer{}, OutputFlags{}).Structured())
	assert.True(t, NewOutput(&bytes.Buffer{}, OutputFlags{Raw: true}).Structured())
	assert.True(t, NewOutput(&bytes.Buffer{}, OutputFlags{OutputFormat: "yaml"}).Structured())
}
