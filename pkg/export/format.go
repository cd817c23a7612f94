package export

import (
	"fmt"
	"io"
	"strings"

	toon "github.com/Dicklesworthstone/toon-go"
	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Format is an output encoding
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatTOON     Format = "toon"
)

// ParseFormat accepts the format names and common aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toon":
		return FormatTOON, nil
	}
	return "", fmt.Errorf("unknown format %q (want markdown, json, yaml or toon)", s)
}

// Encode writes v in the given data format. Markdown is not a data format;
// use GenerateMarkdown for it.
func Encode(w io.Writer, v any, f Format) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case FormatTOON:
		if !toon.Available() {
			return fmt.Errorf("toon output needs the tru binary on PATH (or TOON_TRU_BIN)")
		}
		out, err := toon.Encode(v)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	}
	return fmt.Errorf("format %s cannot encode data", f)
}
