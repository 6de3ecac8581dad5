// Package manifest parses optional-dependency manifests and resolves
// requested feature tags into install lists.
//
// A manifest is plain text, one declaration per line:
//
//	# comment
//	numpy:                      core
//	uvicorn[standard]>=0.14.0:  standard, devel
//	pytest:                     test
//
// The left side of the first ':' is a package spec (name, optional
// bracketed extras, optional version constraint); the right side is a
// comma-separated list of tags.
//
// # Loading
//
// [Load], [Parse] and [LoadFile] turn manifest text into an immutable
// [Index]. Loading is all or nothing: a line without ':' yields a
// [MalformedLineError], a literal "all" tag yields a [ReservedTagError], and
// no index is produced in either case.
//
// # Resolving
//
// [Index.Resolve] maps a set of tags to a [Result]:
//
//	idx, err := manifest.Load(text)
//	if err != nil {
//	    return err
//	}
//	res := idx.Resolve([]string{"standard", "test"})
//	for _, p := range res.Packages {
//	    fmt.Println(p) // name[extras]constraint
//	}
//
// The reserved tag "all" selects every tagged package. Unknown tags and
// conflicting constraints are reported as [Warning] values and never abort
// resolution. When one package is declared with several distinct
// constraints, the one whose version text sorts first is used, so ">=1.0"
// wins over "==2.0".
//
// # Reloading
//
// A [Holder] keeps the current index behind an atomic pointer so servers can
// re-read the manifest while requests are resolving against the old one.
package manifest
