package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"linkie-web/internal/app"
	"linkie-web/internal/core"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleVersions(w http.ResponseWriter, r *http.Request) {
	versions, err := s.service.Versions(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, versions)
}

func (s *Server) handleLoaderVersions(w http.ResponseWriter, r *http.Request) {
	loader := strings.ToLower(strings.TrimSpace(r.PathValue("loader")))
	if app.IsAllLoaders(loader) {
		all, err := s.service.AllLoaderVersions(r.Context())
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, all)
		return
	}
	versions, err := s.service.LoaderVersions(r.Context(), loader)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, versions)
}

func (s *Server) handleOSS(w http.ResponseWriter, r *http.Request) {
	entries, err := s.service.OSSLicenses()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleNamespaces(w http.ResponseWriter, r *http.Request) {
	entries, err := s.service.Namespaces(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	req, err := parseSearchRequest(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	result, err := s.service.Search(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.metrics.observeSearch(strings.ToLower(req.Namespace), result.Fuzzy, req.TranslateNamespace != "")
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleSource(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := app.SourceRequest{
		Namespace: strings.ToLower(query.Get("namespace")),
		Version:   query.Get("version"),
		Class:     query.Get("class"),
	}
	for _, required := range []struct{ name, value string }{
		{"namespace", req.Namespace},
		{"class", req.Class},
		{"version", req.Version},
	} {
		if strings.TrimSpace(required.value) == "" {
			s.writeError(w, r, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("no %s specified", required.name)))
			return
		}
	}
	result, err := s.service.Source(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(result.Text))
}

func parseSearchRequest(r *http.Request) (app.SearchRequest, error) {
	query := r.URL.Query()
	req := app.SearchRequest{
		Namespace:          strings.ToLower(strings.TrimSpace(query.Get("namespace"))),
		TranslateNamespace: strings.ToLower(strings.TrimSpace(query.Get("translate"))),
		Version:            query.Get("version"),
		Query:              query.Get("query"),
		Limit:              core.DefaultSearchLimit,
	}
	if req.Namespace == "" {
		return app.SearchRequest{}, invalidParam("no namespace specified")
	}
	if !query.Has("query") {
		return app.SearchRequest{}, invalidParam("no query specified")
	}
	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return app.SearchRequest{}, invalidParam(fmt.Sprintf("invalid limit: %s", raw))
		}
		req.Limit = limit
	}
	var err error
	if req.AllowClasses, err = boolParam(query.Get("allowClasses")); err != nil {
		return app.SearchRequest{}, err
	}
	if req.AllowMethods, err = boolParam(query.Get("allowMethods")); err != nil {
		return app.SearchRequest{}, err
	}
	if req.AllowFields, err = boolParam(query.Get("allowFields")); err != nil {
		return app.SearchRequest{}, err
	}
	return req, nil
}

// boolParam defaults to true when the parameter is absent.
func boolParam(raw string) (bool, error) {
	if raw == "" {
		return true, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, invalidParam(fmt.Sprintf("invalid boolean: %s", raw))
	}
	return value, nil
}

func invalidParam(message string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(message)
}

func statusForError(err error) int {
	switch errbuilder.CodeOf(err) {
	case errbuilder.CodeInvalidArgument:
		return http.StatusBadRequest
	case errbuilder.CodeNotFound:
		return http.StatusNotFound
	case errbuilder.CodeFailedPrecondition:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusForError(err)
	message := errorMessage(err)
	if status == http.StatusInternalServerError {
		log.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		message = "internal server error"
	}
	writeJSON(w, status, errorResponse{Error: message})
}

func errorMessage(err error) string {
	var builder *errbuilder.ErrBuilder
	if errors.As(err, &builder) && strings.TrimSpace(builder.Msg) != "" {
		return builder.Msg
	}
	return err.Error()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}
