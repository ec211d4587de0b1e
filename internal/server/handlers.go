package server

import (
	stderrors "errors"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/segmentio/encoding/json"

	"github.com/matzehuels/boxypic/pkg/buildinfo"
	"github.com/matzehuels/boxypic/pkg/errors"
	"github.com/matzehuels/boxypic/pkg/pipeline"
	"github.com/matzehuels/boxypic/pkg/render/sink"
)

func handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok\n"))
}

func handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

// handleRender decomposes the request body and returns one artifact.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	opts, err := s.requestOptions(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(opts.Formats) > 1 {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidFormat, "render returns a single format, got %d", len(opts.Formats)))
		return
	}
	if len(opts.Formats) == 0 {
		opts.Formats = []string{pipeline.DefaultFormat}
	}
	f, err := sink.ParseFormat(opts.Formats[0])
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	h := w.Header()
	h.Set("Content-Type", f.ContentType())
	h.Set(HeaderCache, cacheStatus(result.CacheInfo.RenderHit))
	h.Set(HeaderLeaves, strconv.Itoa(result.Summary.Tree.Leaves))
	w.WriteHeader(http.StatusOK)
	w.Write(result.Artifacts[string(f)])
}

// statsResponse is the body of POST /v1/stats.
type statsResponse struct {
	Summary pipeline.Summary `json:"summary"`
	Cached  bool             `json:"cached"`
}

// handleStats decomposes the request body and returns the tree summary.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	opts, err := s.requestOptions(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	result, cached, err := s.runner.SummarizeWithCacheInfo(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set(HeaderCache, cacheStatus(cached))
	w.Header().Set(HeaderLeaves, strconv.Itoa(result.Summary.Tree.Leaves))
	writeJSON(w, http.StatusOK, statsResponse{Summary: result.Summary, Cached: cached})
}

// requestOptions reads the body and query into pipeline options.
func (s *Server) requestOptions(w http.ResponseWriter, r *http.Request) (pipeline.Options, error) {
	opts := s.cfg.Defaults
	opts.Logger = s.cfg.Logger.With("request_id", requestIDFrom(r.Context()))
	if err := parseQuery(r.URL.Query(), &opts); err != nil {
		return opts, err
	}

	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	data, err := io.ReadAll(body)
	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) {
		return opts, errors.New(errors.ErrCodeTooLarge, "image exceeds %d bytes", tooLarge.Limit)
	}
	if err != nil {
		return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body")
	}
	opts.Image = data
	return opts, nil
}

// parseQuery overlays query arguments onto opts.
func parseQuery(q url.Values, opts *pipeline.Options) error {
	var err error
	float := func(key string, dst *float64) {
		if v := q.Get(key); v != "" && err == nil {
			*dst, err = strconv.ParseFloat(v, 64)
			if err != nil {
				err = errors.New(errors.ErrCodeInvalidInput, "%s: not a number: %q", key, v)
			}
		}
	}
	integer := func(key string, dst *int) {
		if v := q.Get(key); v != "" && err == nil {
			*dst, err = strconv.Atoi(v)
			if err != nil {
				err = errors.New(errors.ErrCodeInvalidInput, "%s: not an integer: %q", key, v)
			}
		}
	}
	boolean := func(key string, dst *bool) {
		if v := q.Get(key); v != "" && err == nil {
			*dst, err = strconv.ParseBool(v)
			if err != nil {
				err = errors.New(errors.ErrCodeInvalidInput, "%s: not a boolean: %q", key, v)
			}
		}
	}

	float("threshold", &opts.Threshold)
	integer("depth", &opts.MaxDepth)
	integer("max_size", &opts.MaxSize)
	integer("quality", &opts.Quality)
	boolean("outline", &opts.Outline)
	boolean("greyscale", &opts.Greyscale)
	boolean("fill", &opts.Fill)
	boolean("grid", &opts.Grid)
	boolean("refresh", &opts.Refresh)
	if err != nil {
		return err
	}

	if v := q.Get("format"); v != "" {
		formats, err := sink.ParseFormats(v)
		if err != nil {
			return err
		}
		opts.Formats = opts.Formats[:0:0]
		for _, f := range formats {
			opts.Formats = append(opts.Formats, string(f))
		}
	}
	if v := q.Get("engine"); v != "" {
		opts.Engine = v
	}
	return nil
}

func cacheStatus(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}

// errorResponse is the body of every error reply.
type errorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// statusCode maps an error code to an HTTP status.
func statusCode(err error) int {
	switch {
	case errors.IsInvalid(err):
		return http.StatusBadRequest
	case errors.Is(err, errors.ErrCodeTooLarge), errors.Is(err, errors.ErrCodeResourceExhausted):
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusCode(err)
	code := errors.GetCode(err)
	msg := errors.UserMessage(err)
	if status == http.StatusInternalServerError {
		s.cfg.Logger.Error("request failed", "err", err, "request_id", requestIDFrom(r.Context()))
		if code == "" {
			code = errors.ErrCodeInternal
			msg = "internal error"
		}
	}
	writeJSON(w, status, errorResponse{
		Code:      string(code),
		Message:   msg,
		RequestID: requestIDFrom(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(data, '\n'))
}
