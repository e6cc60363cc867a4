// Package format writes CLI payloads as json, edn, yaml or plain text.
package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Texter is implemented by payloads with a human-readable rendering for
// --format text. Payloads without one fall back to indented JSON.
type Texter interface {
	Text() string
}

// Envelope is the top-level shape of every command's output.
type Envelope struct {
	Data  any      `json:"data" yaml:"data"`
	Hints []string `json:"_hints,omitempty" yaml:"_hints,omitempty"`
}

func (e Envelope) Text() string {
	var b strings.Builder
	if t, ok := e.Data.(Texter); ok {
		b.WriteString(t.Text())
	} else {
		out, err := json.MarshalIndent(e.Data, "", "  ")
		if err != nil {
			return fmt.Sprint(e.Data)
		}
		b.Write(out)
	}
	for _, h := range e.Hints {
		b.WriteString("\nhint: ")
		b.WriteString(h)
	}
	return b.String()
}

// Write writes v in the requested format: json (default), edn, yaml or text.
func Write(w io.Writer, v any, format string, pretty bool) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json":
		return WriteJSON(w, v, pretty)
	case "edn":
		return WriteEDN(w, v, pretty)
	case "yaml", "yml":
		return WriteYAML(w, v)
	case "text":
		return WriteText(w, v)
	default:
		return fmt.Errorf("unknown format: %s (want json|edn|yaml|text)", format)
	}
}

// WriteJSON writes strict JSON, one document per line unless pretty.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

// WriteYAML writes v through its JSON form, so field names match the json
// and edn output.
func WriteYAML(w io.Writer, v any) error {
	x, err := jsonValue(v)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(x); err != nil {
		return err
	}
	return enc.Close()
}

func WriteText(w io.Writer, v any) error {
	var s string
	switch t := v.(type) {
	case Texter:
		s = t.Text()
	case string:
		s = t
	default:
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		s = string(b)
	}
	_, err := fmt.Fprintln(w, strings.TrimRight(s, "\n"))
	return err
}

// jsonValue converts v into maps, slices and scalars using its json tags.
func jsonValue(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var x any
	if err := json.Unmarshal(b, &x); err != nil {
		return nil, err
	}
	return x, nil
}
