package manifest

import (
	"slices"

	errs "github.com/hiroksarker/jina/pkg/errors"
)

// Index maps tags to packages and packages to their declared constraints.
// It is built once from a list of entries and never mutated afterwards, so
// any number of goroutines may resolve against it concurrently.
type Index struct {
	tagToPackages        map[string][]string // tag -> names, first-encounter order
	packageToConstraints map[string][]string // name -> distinct constraints, "" means none
	extras               map[string][]string // name -> unioned extras
	tagsOf               map[string][]string // name -> tags, first-seen order

	tagOrder []string       // declared tags, first-seen order
	order    []string       // package names, first-encounter order
	position map[string]int // name -> index into order
	entries  int
}

func newIndex() *Index {
	return &Index{
		tagToPackages:        make(map[string][]string),
		packageToConstraints: make(map[string][]string),
		extras:               make(map[string][]string),
		tagsOf:               make(map[string][]string),
		position:             make(map[string]int),
	}
}

// Build folds entries into an Index. It is pure and deterministic.
//
// A literal "all" tag fails the build with a *ReservedTagError and no index
// is returned.
func Build(entries []Entry) (*Index, error) {
	idx := newIndex()
	for _, e := range entries {
		if e.HasTag(errs.ReservedTag) {
			return nil, &ReservedTagError{Line: e.Line, Package: e.Package.Name, Tag: errs.ReservedTag}
		}
		idx.add(e)
	}
	return idx, nil
}

func (x *Index) add(e Entry) {
	name := e.Package.Name
	x.entries++

	if _, seen := x.position[name]; !seen {
		x.position[name] = len(x.order)
		x.order = append(x.order, name)
	}

	if !slices.Contains(x.packageToConstraints[name], e.Package.Constraint) {
		x.packageToConstraints[name] = append(x.packageToConstraints[name], e.Package.Constraint)
	}

	for _, extra := range e.Package.Extras {
		if !slices.Contains(x.extras[name], extra) {
			x.extras[name] = append(x.extras[name], extra)
		}
	}

	for _, tag := range e.Tags {
		if _, known := x.tagToPackages[tag]; !known {
			x.tagOrder = append(x.tagOrder, tag)
		}
		if !slices.Contains(x.tagToPackages[tag], name) {
			x.tagToPackages[tag] = append(x.tagToPackages[tag], name)
		}
		if !slices.Contains(x.tagsOf[name], tag) {
			x.tagsOf[name] = append(x.tagsOf[name], tag)
		}
	}
}

// Tags returns every declared tag in first-seen order. The reserved tag is
// never included.
func (x *Index) Tags() []string {
	return slices.Clone(x.tagOrder)
}

// HasTag reports whether tag is declared by at least one line.
func (x *Index) HasTag(tag string) bool {
	_, ok := x.tagToPackages[tag]
	return ok
}

// Packages returns the package names declared under tag, in manifest order.
// The reserved tag returns every tagged package.
func (x *Index) Packages(tag string) []string {
	if tag == errs.ReservedTag {
		return x.names(x.allTagged())
	}
	return x.names(setOf(x.tagToPackages[tag]))
}

// Names returns every declared package name in first-encounter order,
// including packages declared without tags.
func (x *Index) Names() []string {
	return slices.Clone(x.order)
}

// TagsOf returns the tags under which name is declared.
func (x *Index) TagsOf(name string) []string {
	return slices.Clone(x.tagsOf[name])
}

// Constraints returns the distinct constraint strings declared for name in
// declaration order. An empty string stands for a declaration without one.
func (x *Index) Constraints(name string) []string {
	return slices.Clone(x.packageToConstraints[name])
}

// Len returns the number of distinct package names.
func (x *Index) Len() int { return len(x.order) }

// Entries returns the number of manifest entries folded into the index.
func (x *Index) Entries() int { return x.entries }

// Conflicts reports every package with more than one distinct non-empty
// constraint, in manifest order, independent of any tag request.
func (x *Index) Conflicts() []ConstraintConflictWarning {
	var out []ConstraintConflictWarning
	for _, name := range x.order {
		if _, w := reconcile(name, x.packageToConstraints[name]); w != nil {
			out = append(out, *w)
		}
	}
	return out
}

func (x *Index) allTagged() map[string]bool {
	set := make(map[string]bool)
	for _, names := range x.tagToPackages {
		for _, n := range names {
			set[n] = true
		}
	}
	return set
}

// names returns the members of set in manifest order.
func (x *Index) names(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for _, n := range x.order {
		if set[n] {
			out = append(out, n)
		}
	}
	return out
}

func setOf(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}
