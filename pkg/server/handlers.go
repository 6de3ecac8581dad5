package server

import (
	"net/http"
	"strings"
	"time"

	errs "github.com/hiroksarker/jina/pkg/errors"
	"github.com/hiroksarker/jina/pkg/manifest"
	"github.com/hiroksarker/jina/pkg/observability"
	"github.com/hiroksarker/jina/pkg/pipeline"
	"github.com/hiroksarker/jina/pkg/render"
)

// HealthStatus is the body of GET /healthz.
type HealthStatus struct {
	Status     string    `json:"status"`
	Version    string    `json:"version"`
	Generation string    `json:"generation"`
	Digest     string    `json:"digest"`
	Source     string    `json:"source"`
	LoadedAt   time.Time `json:"loaded_at"`
}

// TagInfo describes one declared tag as it resolves on its own.
type TagInfo struct {
	Tag       string `json:"tag"`
	Packages  int    `json:"packages"`
	Conflicts int    `json:"conflicts"`
}

// TagsResponse is the body of GET /tags.
type TagsResponse struct {
	Generation string    `json:"generation"`
	Tags       []TagInfo `json:"tags"`
}

// ResolveResponse is the JSON body of GET /resolve.
type ResolveResponse struct {
	Generation string                 `json:"generation"`
	Tags       []string               `json:"tags"`
	Cached     bool                   `json:"cached"`
	Packages   []manifest.PackageSpec `json:"packages"`
	Warnings   []manifest.Warning     `json:"warnings"`
}

// ReloadResponse is the body of POST /reload.
type ReloadResponse struct {
	Generation string `json:"generation"`
	Digest     string `json:"digest"`
	Changed    bool   `json:"changed"`
}

func (s *Server) Healthz(w http.ResponseWriter, r *http.Request) {
	snap := s.holder.Current()
	s.writeJSON(w, http.StatusOK, HealthStatus{
		Status:     "healthy",
		Version:    s.version,
		Generation: snap.ID,
		Digest:     snap.Digest,
		Source:     snap.Source,
		LoadedAt:   snap.LoadedAt,
	})
}

func (s *Server) Tags(w http.ResponseWriter, r *http.Request) {
	snap := s.holder.Current()
	tags := snap.Index.Tags()
	results, err := s.runner.ResolveEach(r.Context(), snap.Index, tags)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := TagsResponse{Generation: snap.ID, Tags: []TagInfo{}}
	for _, t := range tags {
		res := results[t]
		resp.Tags = append(resp.Tags, TagInfo{Tag: t, Packages: len(res.Packages), Conflicts: len(res.Warnings)})
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) Resolve(w http.ResponseWriter, r *http.Request) {
	snap := s.holder.Current()
	format := r.URL.Query().Get("format")

	opts := pipeline.Options{Tags: queryTags(r), Format: format, Logger: s.logger}
	if format == "" {
		opts.Format = render.FormatJSON
	}

	res, out, hit, err := s.runner.ResolveWithCacheInfo(r.Context(), snap, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	for _, warn := range res.Warnings {
		s.logger.Debug("resolution warning", "kind", warn.Kind(), "warning", warn.String())
	}

	if format != "" {
		s.writeBytes(w, contentType(format), out)
		return
	}
	tags := opts.Tags
	if len(tags) == 0 {
		tags = []string{errs.ReservedTag}
	}
	s.writeJSON(w, http.StatusOK, ResolveResponse{
		Generation: snap.ID,
		Tags:       tags,
		Cached:     hit,
		Packages:   res.Packages,
		Warnings:   res.Warnings,
	})
}

func (s *Server) Conflicts(w http.ResponseWriter, r *http.Request) {
	conflicts := s.holder.Index().Conflicts()
	if conflicts == nil {
		conflicts = []manifest.ConstraintConflictWarning{}
	}
	s.writeJSON(w, http.StatusOK, conflicts)
}

func (s *Server) Graph(w http.ResponseWriter, r *http.Request) {
	dot := render.ToDOT(s.holder.Index(), render.GraphOptions{Tags: queryTags(r)})

	switch format := r.URL.Query().Get("format"); format {
	case "", "dot":
		s.writeBytes(w, "text/vnd.graphviz", []byte(dot))
	case "svg":
		svg, err := render.RenderSVG(r.Context(), dot)
		if err != nil {
			s.writeError(w, errs.Wrap(errs.ErrCodeInternal, err, "render graph"))
			return
		}
		s.writeBytes(w, "image/svg+xml", svg)
	default:
		s.writeError(w, errs.New(errs.ErrCodeInvalidFormat, "invalid graph format: %q (must be dot or svg)", format))
	}
}

func (s *Server) Reload(w http.ResponseWriter, r *http.Request) {
	snap, changed, err := s.holder.Reload(r.Context())
	observability.Server().OnReload(r.Context(), changed, err)
	if err != nil {
		s.logger.Warn("reload failed, keeping current manifest", "generation", snap.ID, "error", errs.UserMessage(err))
		s.writeError(w, err)
		return
	}
	if changed {
		s.logger.Info("manifest reloaded", "generation", snap.ID, "packages", snap.Index.Len())
	}
	s.writeJSON(w, http.StatusOK, ReloadResponse{Generation: snap.ID, Digest: snap.Digest, Changed: changed})
}

// queryTags collects ?tag= values, also accepting comma-separated lists.
func queryTags(r *http.Request) []string {
	var tags []string
	for _, v := range r.URL.Query()["tag"] {
		for _, t := range strings.Split(v, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
	}
	return tags
}
