package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// TextRenderer is implemented by values that have a human-readable rendering.
type TextRenderer interface {
	RenderText() string
}

// Write writes output in the requested format.
//
// Supported formats:
// - json (default)
// - text (values implementing TextRenderer; anything else falls back to pretty JSON)
func Write(w io.Writer, v any, format string, pretty bool) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json":
		return WriteJSON(w, v, pretty)
	case "text":
		return WriteText(w, v)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WriteJSON writes strict JSON output for CLI commands.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	var b []byte
	var err error
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(b))
	return err
}

func WriteText(w io.Writer, v any) error {
	tr, ok := v.(TextRenderer)
	if !ok {
		return WriteJSON(w, v, true)
	}
	_, err := fmt.Fprintln(w, strings.TrimRight(tr.RenderText(), "\n"))
	return err
}
