package manifest

import (
	"slices"
	"strings"

	errs "github.com/hiroksarker/jina/pkg/errors"
)

// nameTerminators end the package name inside a package spec.
const nameTerminators = "[<>=!~ \t"

// PackageSpec identifies an installable package.
type PackageSpec struct {
	// Name is the bare package identifier. It is case-sensitive and is the
	// key used for merging declarations across lines.
	Name string `json:"name" yaml:"name" toml:"name"`

	// Extras are the bracketed qualifiers (e.g. "standard" in
	// uvicorn[standard]). They never affect index keys.
	Extras []string `json:"extras,omitempty" yaml:"extras,omitempty" toml:"extras,omitempty"`

	// Constraint is the version comparison suffix, kept verbatim.
	// Empty means any version.
	Constraint string `json:"constraint,omitempty" yaml:"constraint,omitempty" toml:"constraint,omitempty"`
}

// Unconstrained reports whether p accepts any version.
func (p PackageSpec) Unconstrained() bool { return p.Constraint == "" }

// String renders p as name[extras]constraint, the form accepted by pip.
func (p PackageSpec) String() string {
	var b strings.Builder
	b.WriteString(p.Name)
	if len(p.Extras) > 0 {
		b.WriteByte('[')
		b.WriteString(strings.Join(p.Extras, ","))
		b.WriteByte(']')
	}
	b.WriteString(p.Constraint)
	return b.String()
}

// ParseSpec splits the left-hand side of a manifest line into name, extras
// and constraint.
//
// The name runs up to the first of '[', '<', '>', '=', '!', '~' or
// whitespace. Extras are comma-separated inside brackets, trimmed and
// deduplicated in order. Whatever follows is the constraint, trimmed but
// otherwise untouched; no version syntax is checked.
func ParseSpec(s string) (PackageSpec, error) {
	s = strings.TrimSpace(s)

	end := strings.IndexAny(s, nameTerminators)
	if end < 0 {
		end = len(s)
	}
	spec := PackageSpec{Name: s[:end]}
	if spec.Name == "" {
		return PackageSpec{}, errs.New(errs.ErrCodeMalformedLine, "missing package name in %q", s)
	}

	rest := strings.TrimLeft(s[end:], " \t")
	if strings.HasPrefix(rest, "[") {
		closing := strings.IndexByte(rest, ']')
		if closing < 0 {
			return PackageSpec{}, errs.New(errs.ErrCodeMalformedLine, "unterminated extras in %q", s)
		}
		spec.Extras = splitList(rest[1:closing])
		rest = rest[closing+1:]
	}

	spec.Constraint = strings.TrimSpace(rest)
	return spec, nil
}

// splitList splits a comma-separated list, trimming items and dropping
// empties and repeats while keeping first-seen order.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" || slices.Contains(out, item) {
			continue
		}
		out = append(out, item)
	}
	return out
}
