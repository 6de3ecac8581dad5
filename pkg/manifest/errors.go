package manifest

import (
	"encoding/json"
	"fmt"
	"strings"

	errs "github.com/hiroksarker/jina/pkg/errors"
)

// MalformedLineError reports a manifest line that is neither blank, a
// comment, nor a valid "spec: tags" declaration. It aborts the whole load.
type MalformedLineError struct {
	Line   int    // 1-based line number, zero when unknown
	Text   string // the offending line as written
	Reason string
}

func (e *MalformedLineError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: malformed manifest line %q: %s", e.Line, strings.TrimSpace(e.Text), e.Reason)
	}
	return fmt.Sprintf("malformed manifest line %q: %s", strings.TrimSpace(e.Text), e.Reason)
}

// Code returns the error code for this error type.
func (e *MalformedLineError) Code() errs.Code { return errs.ErrCodeMalformedLine }

// ReservedTagError reports a manifest line that declares the reserved tag
// "all" literally. It aborts the whole load.
type ReservedTagError struct {
	Line    int
	Package string
	Tag     string
}

func (e *ReservedTagError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: package %q declares reserved tag %q", e.Line, e.Package, e.Tag)
	}
	return fmt.Sprintf("package %q declares reserved tag %q", e.Package, e.Tag)
}

// Code returns the error code for this error type.
func (e *ReservedTagError) Code() errs.Code { return errs.ErrCodeReservedTag }

// WarningKind classifies a resolution warning.
type WarningKind string

const (
	KindUnknownTag         WarningKind = "unknown_tag"
	KindConstraintConflict WarningKind = "constraint_conflict"
)

// Warning is a non-fatal notice produced while resolving tags.
type Warning interface {
	Kind() WarningKind
	String() string
}

// UnknownTagWarning is emitted when a requested tag matches nothing in the
// index. The tag contributes no packages.
type UnknownTagWarning struct {
	Tag string
}

func (w UnknownTagWarning) Kind() WarningKind { return KindUnknownTag }

func (w UnknownTagWarning) String() string {
	return fmt.Sprintf("unknown tag %q", w.Tag)
}

func (w UnknownTagWarning) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind    WarningKind `json:"kind"`
		Tag     string      `json:"tag"`
		Message string      `json:"message"`
	}{w.Kind(), w.Tag, w.String()})
}

// ConstraintConflictWarning is emitted when a package carries more than one
// distinct non-empty constraint. Chosen is the first in constraint order.
type ConstraintConflictWarning struct {
	Package     string
	Constraints []string // distinct, in constraint order
	Chosen      string
}

func (w ConstraintConflictWarning) Kind() WarningKind { return KindConstraintConflict }

func (w ConstraintConflictWarning) String() string {
	return fmt.Sprintf("package %q has conflicting constraints %s, using %q",
		w.Package, quoteAll(w.Constraints), w.Chosen)
}

func (w ConstraintConflictWarning) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind        WarningKind `json:"kind"`
		Package     string      `json:"package"`
		Constraints []string    `json:"constraints"`
		Chosen      string      `json:"chosen"`
		Message     string      `json:"message"`
	}{w.Kind(), w.Package, w.Constraints, w.Chosen, w.String()})
}

func quoteAll(ss []string) string {
	q := make([]string, len(ss))
	for i, s := range ss {
		q[i] = fmt.Sprintf("%q", s)
	}
	return "[" + strings.Join(q, ", ") + "]"
}
