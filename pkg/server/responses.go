package server

import (
	"encoding/json"
	"net/http"

	errs "github.com/hiroksarker/jina/pkg/errors"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", "error", err)
	}
}

func (s *Server) writeBytes(w http.ResponseWriter, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.logger.Error("failed to write response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := httpStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	code := string(errs.GetCode(err))
	if code == "" {
		code = string(errs.ErrCodeInternal)
	}
	s.writeJSON(w, status, ErrorResponse{Error: code, Message: errs.UserMessage(err)})
}

func httpStatus(err error) int {
	switch errs.GetCode(err) {
	case errs.ErrCodeInvalidInput, errs.ErrCodeInvalidTag, errs.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case errs.ErrCodeNotFound:
		return http.StatusNotFound
	case errs.ErrCodeInvalidManifest, errs.ErrCodeFileNotFound, errs.ErrCodeMalformedLine, errs.ErrCodeReservedTag:
		// the manifest on disk is bad, not the request
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func contentType(format string) string {
	switch format {
	case "json":
		return "application/json"
	case "yaml":
		return "application/yaml"
	case "toml":
		return "application/toml"
	default:
		return "text/plain; charset=utf-8"
	}
}
