package helpers

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

type rowsResult struct{}

func (rowsResult) Headers() []string { return []string{"ID", "TITLE"} }
func (rowsResult) Rows() [][]string {
	return [][]string{{"1", "Week 1"}, {"2", "Week 2"}}
}

func TestOutputWriter(t *testing.T) {
	data := map[string]any{"api.base_url": "http://localhost:8080", "api.retry_count": 3}

	t.Run("Should write indented JSON", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewOutputWriter(&buf, OutputFormatJSON).WriteData(data))
		assert.Contains(t, buf.String(), "\n  ")
		assert.Equal(t, int64(3), gjson.GetBytes(buf.Bytes(), `api\.retry_count`).Int())
	})

	t.Run("Should write YAML using JSON keys", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewOutputWriter(&buf, OutputFormatYAML).WriteData(data))
		assert.Contains(t, buf.String(), "api.base_url: http://localhost:8080")
	})

	t.Run("Should write maps as sorted key value tables", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewOutputWriter(&buf, OutputFormatTable).WriteData(data))
		out := buf.String()
		assert.Contains(t, out, "KEY")
		assert.Less(t, bytes.Index(buf.Bytes(), []byte("api.base_url")),
			bytes.Index(buf.Bytes(), []byte("api.retry_count")))
	})

	t.Run("Should write tabular results", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewOutputWriter(&buf, OutputFormatTable).WriteData(rowsResult{}))
		assert.Contains(t, buf.String(), "Week 2")
	})

	t.Run("Should reject tables for unsupported values", func(t *testing.T) {
		var buf bytes.Buffer
		err := NewOutputWriter(&buf, OutputFormatTable).WriteData(42)
		assert.ErrorContains(t, err, "table output is not supported")
	})
}

func TestParseOutputFormat(t *testing.T) {
	t.Run("Should default to JSON", func(t *testing.T) {
		f, err := ParseOutputFormat("")
		require.NoError(t, err)
		assert.Equal(t, OutputFormatJSON, f)
	})
	t.Run("Should reject unknown formats", func(t *testing.T) {
		_, err := ParseOutputFormat("xml")
		assert.Error(t, err)
	})
}

func TestReadInput(t *testing.T) {
	t.Run("Should read a file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "body.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"title":"x"}`), 0o600))
		data, err := ReadInput(t.Context(), path)
		require.NoError(t, err)
		assert.JSONEq(t, `{"title":"x"}`, string(data))
	})

	t.Run("Should report missing files", func(t *testing.T) {
		_, err := ReadInput(t.Context(), filepath.Join(t.TempDir(), "missing.json"))
		var cliErr *CliError
		require.ErrorAs(t, err, &cliErr)
		assert.Equal(t, "FILE_NOT_FOUND", cliErr.Code)
	})
}
