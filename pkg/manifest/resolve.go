package manifest

import (
	"cmp"
	"slices"
	"strings"

	errs "github.com/hiroksarker/jina/pkg/errors"
)

// Result is the outcome of resolving a set of tags.
type Result struct {
	Packages []PackageSpec `json:"packages"`
	Warnings []Warning     `json:"warnings"`
}

// Specs renders every package as a pip-style specifier.
func (r Result) Specs() []string {
	out := make([]string, len(r.Packages))
	for i, p := range r.Packages {
		out[i] = p.String()
	}
	return out
}

// Names returns the resolved package names in order.
func (r Result) Names() []string {
	out := make([]string, len(r.Packages))
	for i, p := range r.Packages {
		out[i] = p.Name
	}
	return out
}

// Resolve turns requested tags into a deduplicated install list.
//
// Requesting "all" selects every tagged package and makes the other
// requested tags redundant. Otherwise each known tag contributes its
// packages and each unknown tag adds an UnknownTagWarning. Packages come
// back in the order their names first appear in the manifest, each with a
// single reconciled constraint. Resolution never fails and never mutates
// the index; the same input always yields the same Result.
func (x *Index) Resolve(tags []string) Result {
	requested := slices.Clone(tags)
	slices.Sort(requested)
	requested = slices.Compact(requested)

	res := Result{Packages: []PackageSpec{}, Warnings: []Warning{}}

	var selected map[string]bool
	if slices.Contains(requested, errs.ReservedTag) {
		selected = x.allTagged()
	} else {
		selected = make(map[string]bool)
		for _, tag := range requested {
			names, ok := x.tagToPackages[tag]
			if !ok {
				res.Warnings = append(res.Warnings, UnknownTagWarning{Tag: tag})
				continue
			}
			for _, n := range names {
				selected[n] = true
			}
		}
	}

	for _, name := range x.names(selected) {
		constraint, conflict := reconcile(name, x.packageToConstraints[name])
		if conflict != nil {
			res.Warnings = append(res.Warnings, *conflict)
		}
		res.Packages = append(res.Packages, PackageSpec{
			Name:       name,
			Extras:     slices.Clone(x.extras[name]),
			Constraint: constraint,
		})
	}

	return res
}

// reconcile picks the final constraint for a package. Empty declarations are
// ignored; a single distinct constraint wins outright; several distinct ones
// are a conflict resolved by taking the first in constraint order.
func reconcile(name string, declared []string) (string, *ConstraintConflictWarning) {
	var distinct []string
	for _, c := range declared {
		if c != "" && !slices.Contains(distinct, c) {
			distinct = append(distinct, c)
		}
	}

	switch len(distinct) {
	case 0:
		return "", nil
	case 1:
		return distinct[0], nil
	}

	slices.SortFunc(distinct, compareConstraints)
	return distinct[0], &ConstraintConflictWarning{
		Package:     name,
		Constraints: distinct,
		Chosen:      distinct[0],
	}
}

// compareConstraints orders constraint strings lexicographically by their
// version text (operators stripped), then by the full string. Under this
// order ">=1.0" sorts before "==2.0".
func compareConstraints(a, b string) int {
	if c := cmp.Compare(versionText(a), versionText(b)); c != 0 {
		return c
	}
	return cmp.Compare(a, b)
}

func versionText(c string) string {
	return strings.TrimLeft(c, "<>=!~ \t")
}
