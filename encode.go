package physcalc

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// YAML encoding.

// EncodeAsYaml encodes results, formatted values or packs as a YAML document.
func EncodeAsYaml(v any) (string, error) {
	bs, err := yaml.Marshal(v)
	return string(bs), err
}

func (v ExactVal) MarshalYAML() (interface{}, error) {
	return v.String(), nil
}

func (v ComplexVal) MarshalYAML() (interface{}, error) {
	return v.String(), nil
}

func (v QuantityVal) MarshalYAML() (interface{}, error) {
	return v.String(), nil
}

func (v SymbolicVal) MarshalYAML() (interface{}, error) {
	return v.String(), nil
}

// JSON encoding. Values without a native JSON counterpart are encoded as strings.

func (v ExactVal) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.String())
}

func (v ComplexVal) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.String())
}

func (v QuantityVal) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.String())
}

func (v SymbolicVal) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.String())
}

// EncodeAsJson encodes v as a compact JSON value (without newlines).
func EncodeAsJson(v any) (string, error) {
	return encodeAsJsonIndent(v, "", "")
}

// EncodeAsJsonIndent encodes v as an indented, multi-line JSON value.
func EncodeAsJsonIndent(v any) (string, error) {
	return encodeAsJsonIndent(v, "", "  ")
}

func encodeAsJsonIndent(v any, prefix, indent string) (string, error) {
	var sb strings.Builder
	enc := json.NewEncoder(&sb)
	enc.SetEscapeHTML(false)
	doIndent := len(prefix) > 0 || len(indent) > 0
	if doIndent {
		enc.SetIndent(prefix, indent)
	}
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	s := sb.String()
	return strings.TrimRight(s, "\n"), nil
}

// ResultWriter writes a single result to w.
type ResultWriter func(w io.Writer, r Result) error

// NewResultWriter returns a ResultWriter for the output format text, json or yaml.
func NewResultWriter(format string) (ResultWriter, error) {
	switch format {
	case "text":
		return writeText, nil
	case "json":
		return func(w io.Writer, r Result) error {
			js, err := EncodeAsJson(r)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(w, js)
			return err
		}, nil
	case "yaml":
		return func(w io.Writer, r Result) error {
			y, err := EncodeAsYaml(r)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(w, "---\n", y)
			return err
		}, nil
	}
	return nil, fmt.Errorf("unknown output format: %s", format)
}

func writeText(w io.Writer, r Result) error {
	_, err := fmt.Fprintln(w, r)
	return err
}
