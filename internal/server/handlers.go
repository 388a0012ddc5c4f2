package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matzehuels/webern/pkg/buildinfo"
	"github.com/matzehuels/webern/pkg/core/matrix"
	"github.com/matzehuels/webern/pkg/core/row"
	"github.com/matzehuels/webern/pkg/errors"
	"github.com/matzehuels/webern/pkg/pipeline"
	"github.com/matzehuels/webern/pkg/render/sink"
)

// Response headers.
const (
	HeaderRenderID = "X-Render-ID"
	HeaderCache    = "X-Cache"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

func (s *Server) handleMatrix(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, pipeline.FormatJSON)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	f, err := pipeline.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, r, f)
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, f pipeline.Format) {
	rw, opts, err := s.requestOptions(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	opts.Formats = []pipeline.Format{f}

	result, err := s.runner.Execute(r.Context(), rw, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", f.ContentType())
	w.Header().Set(HeaderRenderID, uuid.NewString())
	w.Header().Set(HeaderCache, cacheStatus(result.CacheInfo.Hits[f]))
	if r.URL.Query().Has("download") {
		w.Header().Set("Content-Disposition", `attachment; filename="`+pipeline.ArtifactName(opts.Filename, f)+`"`)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[f])
}

func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	label, err := matrix.ParseLabel(chi.URLParam(r, "label"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	rw, opts, err := s.requestOptions(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	in, err := pipeline.NewInput(rw, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	form, ok := in.Matrix.Form(label)
	if !ok {
		s.fail(w, r, errors.New(errors.ErrCodeNotFound, "form %s not found", label))
		return
	}
	w.Header().Set(HeaderRenderID, uuid.NewString())
	writeJSON(w, http.StatusOK, sink.NewFormDocument(form, in.Label))
}

// requestOptions reads the row and render options from the query string,
// starting from the server defaults.
func (s *Server) requestOptions(r *http.Request) (row.Row, pipeline.Options, error) {
	q := r.URL.Query()
	opts := s.opts.Defaults
	opts.Formats = nil
	opts.Logger = nil

	raw := q.Get("row")
	if raw == "" {
		return row.Row{}, opts, errors.New(errors.ErrCodeInvalidRowInput, "missing row parameter")
	}
	rw, err := row.Parse(raw)
	if err != nil {
		return row.Row{}, opts, err
	}

	if v := q.Get("pitches"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return row.Row{}, opts, errors.New(errors.ErrCodeInvalidInput, "invalid pitches value %q", v)
		}
		opts.ShowPitches = b
	}
	if v := q.Get("labels"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return row.Row{}, opts, errors.New(errors.ErrCodeInvalidInput, "invalid labels value %q", v)
		}
		opts.Labels = b
	}
	if v := q.Get("names"); v != "" {
		opts.Names = v
	}
	if v := q.Get("filename"); v != "" {
		opts.Filename = v
	}
	if err := opts.Validate(); err != nil {
		return row.Row{}, opts, err
	}
	opts.SetDefaults()
	return rw, opts, nil
}

// fail writes err as a JSON error with the status its code maps to.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	}
	code := string(errors.GetCode(err))
	if code == "" {
		code = string(errors.ErrCodeInternal)
	}
	writeError(w, status, code, errors.UserMessage(err))
}

// statusFor maps error codes to HTTP status codes.
func statusFor(err error) int {
	code := errors.GetCode(err)
	switch {
	case code.IsValidation():
		return http.StatusBadRequest
	case code == errors.ErrCodeNotFound:
		return http.StatusNotFound
	case code == errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func cacheStatus(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}

type errorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Error: message})
}
