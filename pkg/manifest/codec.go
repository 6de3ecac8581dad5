package manifest

import (
	"encoding/json"
	"fmt"
)

// UnmarshalJSON decodes a Result written by its JSON encoding, restoring
// each warning to its concrete type by kind.
func (r *Result) UnmarshalJSON(data []byte) error {
	var raw struct {
		Packages []PackageSpec    `json:"packages"`
		Warnings []json.RawMessage `json:"warnings"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := Result{Packages: raw.Packages, Warnings: make([]Warning, 0, len(raw.Warnings))}
	if out.Packages == nil {
		out.Packages = []PackageSpec{}
	}
	for _, w := range raw.Warnings {
		dec, err := decodeWarning(w)
		if err != nil {
			return err
		}
		out.Warnings = append(out.Warnings, dec)
	}
	*r = out
	return nil
}

func decodeWarning(data []byte) (Warning, error) {
	var w struct {
		Kind        WarningKind `json:"kind"`
		Tag         string      `json:"tag"`
		Package     string      `json:"package"`
		Constraints []string    `json:"constraints"`
		Chosen      string      `json:"chosen"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, err
	}
	switch w.Kind {
	case KindUnknownTag:
		return UnknownTagWarning{Tag: w.Tag}, nil
	case KindConstraintConflict:
		return ConstraintConflictWarning{Package: w.Package, Constraints: w.Constraints, Chosen: w.Chosen}, nil
	default:
		return nil, fmt.Errorf("unknown warning kind %q", w.Kind)
	}
}
