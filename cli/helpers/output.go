package helpers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/MLinh204/Class-Helper-Admin/pkg/logger"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/tidwall/pretty"
	"gopkg.in/yaml.v3"
)

// Tabular is implemented by results that know how to lay themselves out as
// rows. Plain maps are rendered as KEY/VALUE pairs instead.
type Tabular interface {
	Headers() []string
	Rows() [][]string
}

// OutputWriter handles different output formats
type OutputWriter struct {
	writer io.Writer
	format OutputFormat
	color  bool
}

func NewOutputWriter(writer io.Writer, format OutputFormat) *OutputWriter {
	return &OutputWriter{writer: writer, format: format}
}

// WithColor enables ANSI styling of JSON and table output.
func (ow *OutputWriter) WithColor(color bool) *OutputWriter {
	ow.color = color
	return ow
}

// WriteData writes data in the configured format
func (ow *OutputWriter) WriteData(data any) error {
	switch ow.format {
	case OutputFormatJSON, "":
		return ow.writeJSON(data)
	case OutputFormatTable:
		return ow.writeTable(data)
	case OutputFormatYAML:
		return ow.writeYAML(data)
	default:
		return fmt.Errorf("unsupported output format: %s", ow.format)
	}
}

func (ow *OutputWriter) writeJSON(data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	out := pretty.Pretty(raw)
	if ow.color {
		out = pretty.Color(out, nil)
	}
	_, err = ow.writer.Write(out)
	return err
}

func (ow *OutputWriter) writeYAML(data any) error {
	// Round-trip through JSON so json tags and custom marshalers decide the keys.
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	var generic any
	if err := yaml.Unmarshal(raw, &generic); err != nil {
		return fmt.Errorf("failed to convert output: %w", err)
	}
	enc := yaml.NewEncoder(ow.writer)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return enc.Close()
}

func (ow *OutputWriter) writeTable(data any) error {
	var headers []string
	var rows [][]string
	switch v := data.(type) {
	case Tabular:
		headers, rows = v.Headers(), v.Rows()
	case map[string]any:
		headers = []string{"KEY", "VALUE"}
		for _, key := range slices.Sorted(maps.Keys(v)) {
			rows = append(rows, []string{key, fmt.Sprint(v[key])})
		}
	default:
		return fmt.Errorf("table output is not supported for %T", data)
	}
	t := table.New().Headers(headers...).Rows(rows...)
	if ow.color {
		header := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
		t = t.StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	} else {
		t = t.Border(lipgloss.ASCIIBorder()).StyleFunc(func(_, _ int) lipgloss.Style {
			return lipgloss.NewStyle().Padding(0, 1)
		})
	}
	_, err := fmt.Fprintln(ow.writer, t.Render())
	return err
}

// WriteJSON pretty-prints data to stdout.
func WriteJSON(data any) error {
	return NewOutputWriter(os.Stdout, OutputFormatJSON).WriteData(data)
}

// ReadInput reads a request body from a file, or from stdin when source is
// "-".
func ReadInput(ctx context.Context, source string) ([]byte, error) {
	log := logger.FromContext(ctx)
	if source == "-" {
		log.Debug("reading from stdin")
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, NewCliError("INPUT_READ_ERROR", "Failed to read stdin", err.Error())
		}
		return data, nil
	}
	if source == "" {
		return nil, NewCliError("INVALID_PATH", "File path cannot be empty")
	}
	log.Debug("reading from file", "file", source)
	data, err := os.ReadFile(source)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewCliError("FILE_NOT_FOUND", fmt.Sprintf("File not found: %s", source))
		}
		return nil, NewCliError("FILE_READ_ERROR", fmt.Sprintf("Failed to read file: %s", source), err.Error())
	}
	return data, nil
}
