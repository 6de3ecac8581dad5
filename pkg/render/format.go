package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	errs "github.com/hiroksarker/jina/pkg/errors"
	"github.com/hiroksarker/jina/pkg/manifest"
)

// Output format names.
const (
	FormatText         = "text"
	FormatRequirements = "requirements"
	FormatJSON         = "json"
	FormatYAML         = "yaml"
	FormatTOML         = "toml"
)

// DefaultFormat is used when no format is requested.
const DefaultFormat = FormatText

var formats = []string{FormatText, FormatRequirements, FormatJSON, FormatYAML, FormatTOML}

// Formats lists the supported output formats.
func Formats() []string {
	return append([]string(nil), formats...)
}

// ValidateFormat checks that format is one of [Formats].
func ValidateFormat(format string) error {
	for _, f := range formats {
		if f == format {
			return nil
		}
	}
	return errs.New(errs.ErrCodeInvalidFormat, "invalid format: %q (must be one of %s)", format, strings.Join(formats, ", "))
}

// Document is the structured form of a resolution written by the json, yaml
// and toml formats.
type Document struct {
	Tags     []string               `json:"tags" yaml:"tags" toml:"tags"`
	Packages []manifest.PackageSpec `json:"packages" yaml:"packages" toml:"packages"`
	Warnings []WarningDoc           `json:"warnings" yaml:"warnings" toml:"warnings"`
}

// WarningDoc is a warning flattened to its kind and message.
type WarningDoc struct {
	Kind    string `json:"kind" yaml:"kind" toml:"kind"`
	Message string `json:"message" yaml:"message" toml:"message"`
}

// NewDocument builds the structured form of res for the requested tags.
func NewDocument(tags []string, res manifest.Result) Document {
	doc := Document{
		Tags:     append([]string{}, tags...),
		Packages: append([]manifest.PackageSpec{}, res.Packages...),
		Warnings: make([]WarningDoc, len(res.Warnings)),
	}
	for i, w := range res.Warnings {
		doc.Warnings[i] = WarningDoc{Kind: string(w.Kind()), Message: w.String()}
	}
	return doc
}

// Write encodes res for the requested tags in the given format.
func Write(w io.Writer, format string, tags []string, res manifest.Result) error {
	if err := ValidateFormat(format); err != nil {
		return err
	}

	switch format {
	case FormatText:
		return writeLines(w, res.Specs())
	case FormatRequirements:
		header := "# all tagged packages"
		if len(tags) > 0 {
			header = "# extras: " + strings.Join(tags, ", ")
		}
		return writeLines(w, append([]string{header}, res.Specs()...))
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(NewDocument(tags, res))
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(NewDocument(tags, res)); err != nil {
			return err
		}
		return enc.Close()
	default:
		return toml.NewEncoder(w).Encode(NewDocument(tags, res))
	}
}

func writeLines(w io.Writer, lines []string) error {
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}
