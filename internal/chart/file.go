package chart

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format selects the on-disk chart encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath picks a format from the file extension. Unknown extensions read as YAML.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	default:
		return FormatYAML
	}
}

// document is the serialized shape of a chart file.
type document struct {
	Meta  `yaml:",inline"`
	Notes []Note `yaml:"notes" json:"notes"`
}

// Load reads a chart file. Relative audio paths are resolved against the chart's directory.
func Load(path string) (*Chart, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("chart: cannot open %s: %w", path, err)
	}
	defer f.Close()

	c, err := Decode(f, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("chart: %s: %w", path, err)
	}
	if c.Audio != "" && !filepath.IsAbs(c.Audio) {
		c.Audio = filepath.Join(filepath.Dir(path), c.Audio)
	}
	return c, nil
}

// Decode parses a chart from r.
func Decode(r io.Reader, format Format) (*Chart, error) {
	var doc document
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("cannot parse json: %w", err)
		}
	default:
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
			return nil, fmt.Errorf("cannot parse yaml: %w", err)
		}
	}
	return New(doc.Meta, doc.Notes)
}

// Encode writes the chart as YAML, notes in chart order.
func (c *Chart) Encode(w io.Writer) error {
	doc := document{Meta: c.Meta, Notes: c.notes}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("chart: cannot encode: %w", err)
	}
	return enc.Close()
}
