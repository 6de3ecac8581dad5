// Package pkg provides the libraries behind the extras resolver.
//
// # Overview
//
// An optional-dependency manifest maps pip requirements to tags:
//
//	numpy: core
//	uvicorn[standard]: http
//	aiohttp>=3.8: http, test
//
// extras resolves requested tags, or the reserved tag "all", into a
// deduplicated install list and reports unknown tags and conflicting
// constraints as warnings.
//
// # Architecture
//
//	manifest text
//	     ↓
//	[manifest] parse lines, build the tag index, resolve tags
//	     ↓
//	[pipeline] cache results, fan out per-tag resolution
//	     ↓
//	[render] text/requirements/JSON/YAML/TOML, DOT/SVG tag graph
//
// [server] exposes the same flow over HTTP, swapping indices atomically on
// reload.
//
// # Quick Start
//
//	idx, err := manifest.Load("numpy: core\npytest: test\n")
//	if err != nil {
//	    return err
//	}
//	res := idx.Resolve([]string{"core", "test"})
//	for _, p := range res.Packages {
//	    fmt.Println(p)
//	}
//
// # Packages
//
//   - [manifest]: line parser, constraint normalizer, tag index, resolver, atomic holder
//   - [errors]: coded errors and input validation
//   - [cache]: file, Redis and null caches with key derivation
//   - [pipeline]: load/resolve/render runner with caching
//   - [render]: output encoders and tag graphs
//   - [config]: TOML configuration
//   - [server]: HTTP API
//   - [observability]: hooks for metrics and tracing
//   - [buildinfo]: version information
//
// [manifest]: https://pkg.go.dev/github.com/hiroksarker/jina/pkg/manifest
// [errors]: https://pkg.go.dev/github.com/hiroksarker/jina/pkg/errors
// [cache]: https://pkg.go.dev/github.com/hiroksarker/jina/pkg/cache
// [pipeline]: https://pkg.go.dev/github.com/hiroksarker/jina/pkg/pipeline
// [render]: https://pkg.go.dev/github.com/hiroksarker/jina/pkg/render
// [config]: https://pkg.go.dev/github.com/hiroksarker/jina/pkg/config
// [server]: https://pkg.go.dev/github.com/hiroksarker/jina/pkg/server
// [observability]: https://pkg.go.dev/github.com/hiroksarker/jina/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/hiroksarker/jina/pkg/buildinfo
package pkg
