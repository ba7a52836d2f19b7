package helpers

// Mode selects how a command renders its result.
type Mode string

const (
	// ModeTUI renders through bubbletea.
	ModeTUI Mode = "tui"
	// ModeJSON writes machine-readable JSON to stdout.
	ModeJSON Mode = "json"
)

// OutputFormat is the renderer used for command results.
type OutputFormat string

const (
	OutputFormatJSON  OutputFormat = "json"
	OutputFormatTable OutputFormat = "table"
	OutputFormatYAML  OutputFormat = "yaml"
	OutputFormatTUI   OutputFormat = "tui"
)

// ParseOutputFormat maps a --output value to an OutputFormat. Empty means JSON.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case "":
		return OutputFormatJSON, nil
	case OutputFormatJSON, OutputFormatTable, OutputFormatYAML:
		return OutputFormat(s), nil
	default:
		return "", ValidateEnum(s, []string{"json", "table", "yaml"}, "output")
	}
}
