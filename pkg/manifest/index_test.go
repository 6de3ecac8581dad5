package manifest

import (
	"errors"
	"slices"
	"testing"
)

func mustEntries(t *testing.T, lines ...string) []Entry {
	t.Helper()
	var entries []Entry
	for i, l := range lines {
		e, ok, err := ParseLine(l)
		if err != nil {
			t.Fatalf("ParseLine(%q): %v", l, err)
		}
		if ok {
			e.Line = i + 1
			entries = append(entries, e)
		}
	}
	return entries
}

func mustBuild(t *testing.T, lines ...string) *Index {
	t.Helper()
	idx, err := Build(mustEntries(t, lines...))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return idx
}

func TestBuild(t *testing.T) {
	idx := mustBuild(t,
		"numpy: core",
		"requests: http, devel",
		"uvicorn[standard]>=0.14.0: http",
		"numpy: devel",
	)

	if got := idx.Len(); got != 3 {
		t.Errorf("Len() = %d, want 3", got)
	}
	if got := idx.Entries(); got != 4 {
		t.Errorf("Entries() = %d, want 4", got)
	}
	if got, want := idx.Tags(), []string{"core", "http", "devel"}; !slices.Equal(got, want) {
		t.Errorf("Tags() = %v, want %v", got, want)
	}
	if got, want := idx.Names(), []string{"numpy", "requests", "uvicorn"}; !slices.Equal(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
	if got, want := idx.Packages("devel"), []string{"numpy", "requests"}; !slices.Equal(got, want) {
		t.Errorf("Packages(devel) = %v, want %v", got, want)
	}
	if got, want := idx.TagsOf("numpy"), []string{"core", "devel"}; !slices.Equal(got, want) {
		t.Errorf("TagsOf(numpy) = %v, want %v", got, want)
	}
	if got, want := idx.Constraints("uvicorn"), []string{">=0.14.0"}; !slices.Equal(got, want) {
		t.Errorf("Constraints(uvicorn) = %v, want %v", got, want)
	}
	if got, want := idx.Constraints("numpy"), []string{""}; !slices.Equal(got, want) {
		t.Errorf("Constraints(numpy) = %v, want %v", got, want)
	}
	if !idx.HasTag("http") || idx.HasTag("all") || idx.HasTag("nope") {
		t.Error("HasTag reported wrong membership")
	}
}

func TestBuildEveryTaggedNameHasConstraints(t *testing.T) {
	idx := mustBuild(t,
		"a: x",
		"b>=1: x, y",
		"c: y",
		"b>=1: z",
	)
	for _, tag := range idx.Tags() {
		for _, name := range idx.Packages(tag) {
			if _, ok := idx.packageToConstraints[name]; !ok {
				t.Errorf("package %q under tag %q has no constraint entry", name, tag)
			}
		}
	}
}

func TestBuildDeduplicatesIdenticalConstraints(t *testing.T) {
	idx := mustBuild(t,
		"kubernetes>=18.20.0: test",
		"kubernetes>=18.20.0: cicd",
	)
	if got, want := idx.Constraints("kubernetes"), []string{">=18.20.0"}; !slices.Equal(got, want) {
		t.Errorf("Constraints = %v, want %v", got, want)
	}
	if len(idx.Conflicts()) != 0 {
		t.Errorf("Conflicts() = %v, want none", idx.Conflicts())
	}
}

func TestBuildUnionsExtras(t *testing.T) {
	idx := mustBuild(t,
		"uvicorn[standard]: a",
		"uvicorn[watch, standard]: b",
	)
	res := idx.Resolve([]string{"a"})
	if len(res.Packages) != 1 {
		t.Fatalf("got %d packages, want 1", len(res.Packages))
	}
	if got, want := res.Packages[0].Extras, []string{"standard", "watch"}; !slices.Equal(got, want) {
		t.Errorf("Extras = %v, want %v", got, want)
	}
}

func TestBuildReservedTag(t *testing.T) {
	entries := mustEntries(t,
		"numpy: core",
		"somepkg: test, all",
	)
	idx, err := Build(entries)
	if idx != nil {
		t.Error("Build should not return an index on reserved tag")
	}
	var rte *ReservedTagError
	if !errors.As(err, &rte) {
		t.Fatalf("error = %v, want *ReservedTagError", err)
	}
	if rte.Package != "somepkg" || rte.Tag != "all" || rte.Line != 2 {
		t.Errorf("ReservedTagError = %+v", rte)
	}
}

func TestBuildReservedTagIsCaseSensitive(t *testing.T) {
	idx := mustBuild(t, "pkg: All, ALL")
	if got, want := idx.Tags(), []string{"All", "ALL"}; !slices.Equal(got, want) {
		t.Errorf("Tags() = %v, want %v", got, want)
	}
}

func TestBuildEmpty(t *testing.T) {
	idx, err := Build(nil)
	if err != nil {
		t.Fatalf("Build(nil): %v", err)
	}
	if idx.Len() != 0 || len(idx.Tags()) != 0 {
		t.Error("empty build should produce an empty index")
	}
}

func TestConflicts(t *testing.T) {
	idx := mustBuild(t,
		"a>=1.0: x",
		"b: x",
		"a==2.0: y",
		"c<3: y",
		"c: z",
		"a: z",
	)
	got := idx.Conflicts()
	if len(got) != 1 {
		t.Fatalf("Conflicts() = %v, want 1 conflict", got)
	}
	if got[0].Package != "a" || got[0].Chosen != ">=1.0" {
		t.Errorf("conflict = %+v", got[0])
	}
	if want := []string{">=1.0", "==2.0"}; !slices.Equal(got[0].Constraints, want) {
		t.Errorf("Constraints = %v, want %v", got[0].Constraints, want)
	}
}
