package manifest

import (
	"strings"

	errs "github.com/hiroksarker/jina/pkg/errors"
)

// Entry is one parsed manifest line. Entries are created once at parse time
// and not modified afterwards.
type Entry struct {
	Package PackageSpec
	Tags    []string // set semantics; first-seen order within the line
	Line    int      // 1-based source line, zero when parsed standalone
}

// HasTag reports whether the entry declares tag.
func (e Entry) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// ParseLine parses a single manifest line of the form
//
//	<package-spec>: <tag1>, <tag2>, ...
//
// Blank lines and lines whose first non-space character is '#' yield
// ok == false and no error. A line without a ':' separator, with an empty
// package spec, or with unterminated extras yields a *MalformedLineError.
func ParseLine(line string) (entry Entry, ok bool, err error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || trimmed[0] == '#' {
		return Entry{}, false, nil
	}

	left, right, found := strings.Cut(trimmed, ":")
	if !found {
		return Entry{}, false, &MalformedLineError{Text: line, Reason: "missing ':' separator"}
	}

	spec, err := ParseSpec(left)
	if err != nil {
		return Entry{}, false, &MalformedLineError{Text: line, Reason: errs.UserMessage(err)}
	}

	return Entry{Package: spec, Tags: splitList(right)}, true, nil
}
