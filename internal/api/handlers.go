package api

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/filtergraph/pkg/archive"
	"github.com/matzehuels/filtergraph/pkg/buildinfo"
	fgerr "github.com/matzehuels/filtergraph/pkg/errors"
	"github.com/matzehuels/filtergraph/pkg/filters"
	"github.com/matzehuels/filtergraph/pkg/graph"
	"github.com/matzehuels/filtergraph/pkg/graphdesc"
	"github.com/matzehuels/filtergraph/pkg/pipeline"
	"github.com/matzehuels/filtergraph/pkg/render"
)

// =============================================================================
// Response Types
// =============================================================================

// ConfigureResponse is the body of a configure request.
type ConfigureResponse struct {
	Report    graph.Report `json:"report"`
	DescHash  string       `json:"desc_hash"`
	Cached    bool         `json:"cached"`
	Nodes     int          `json:"nodes"`
	Links     int          `json:"links"`
	Converted int          `json:"auto_inserted"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Node    string `json:"node,omitempty"`
	Pad     string `json:"pad,omitempty"`
}

// ReportList is the body of GET /v1/reports.
type ReportList struct {
	Reports []ReportSummary `json:"reports"`
}

// ReportSummary is one entry of a report listing.
type ReportSummary struct {
	ID         string `json:"id"`
	Name       string `json:"name,omitempty"`
	Configured bool   `json:"configured"`
	CreatedAt  string `json:"created_at"`
	Nodes      int    `json:"nodes"`
	Links      int    `json:"links"`
	ErrorCode  string `json:"error_code,omitempty"`
}

// =============================================================================
// Handlers
// =============================================================================

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) handleFilters(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, filters.Describe(s.runner.Registry))
}

// handleConfigure configures the description in the request body. With a
// format query parameter other than json the rendered artifact is returned
// instead of the JSON envelope.
func (s *Server) handleConfigure(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, fgerr.New(fgerr.ErrCodeInvalidInput, "description exceeds %d bytes", tooLarge.Limit))
			return
		}
		writeError(w, http.StatusBadRequest, fgerr.New(fgerr.ErrCodeInvalidInput, "read body: %v", err))
		return
	}

	opts, err := s.configureOptions(r, body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if result == nil {
		writeError(w, statusFor(err), err)
		return
	}

	status := http.StatusOK
	if err != nil {
		status = http.StatusUnprocessableEntity
	}

	if len(opts.Formats) == 1 && opts.Formats[0] != render.FormatJSON && err == nil {
		format := opts.Formats[0]
		w.Header().Set("Content-Type", contentType(format))
		w.Header().Set("X-Report-ID", result.Report.ID)
		w.WriteHeader(status)
		_, _ = w.Write(result.Artifacts[format])
		return
	}

	writeJSON(w, status, ConfigureResponse{
		Report:    result.Report,
		DescHash:  result.DescHash,
		Cached:    result.CacheInfo.ReportHit,
		Nodes:     result.Stats.NodeCount,
		Links:     result.Stats.LinkCount,
		Converted: result.Stats.AutoInserted,
	})
}

func (s *Server) configureOptions(r *http.Request, body []byte) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := pipeline.Options{
		Description:  body,
		Format:       requestFormat(r),
		ScaleOptions: q.Get("scale_options"),
		Logger:       s.logger,
	}
	if len(body) == 0 {
		return opts, fgerr.New(fgerr.ErrCodeInvalidInput, "request body must contain a graph description")
	}
	if v := q.Get("max_nodes"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return opts, fgerr.New(fgerr.ErrCodeInvalidArgs, "max_nodes must be a non-negative integer, got %q", v)
		}
		opts.MaxNodes = n
	}
	if v := q.Get("format"); v != "" {
		if err := pipeline.ValidateFormat(v); err != nil {
			return opts, err
		}
		opts.Formats = []string{v}
	}
	var err error
	if opts.Detailed, err = boolParam(q.Get("detailed")); err != nil {
		return opts, err
	}
	if opts.Refresh, err = boolParam(q.Get("refresh")); err != nil {
		return opts, err
	}
	return opts, nil
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	limit := archive.DefaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, fgerr.New(fgerr.ErrCodeInvalidArgs, "limit must be a positive integer, got %q", v))
			return
		}
		limit = n
	}

	reports, err := s.runner.Reports(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	list := ReportList{Reports: make([]ReportSummary, 0, len(reports))}
	for _, rep := range reports {
		list.Reports = append(list.Reports, summarize(rep))
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.loadReport(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleRenderReport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = render.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	detailed, err := boolParam(r.URL.Query().Get("detailed"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	rep, ok := s.loadReport(w, r)
	if !ok {
		return
	}
	data, err := render.Render(r.Context(), rep, format, render.Options{Detailed: detailed})
	if err != nil {
		writeError(w, http.StatusInternalServerError, fgerr.Wrap(fgerr.ErrCodeInternal, err, "render %s: %v", format, err))
		return
	}
	w.Header().Set("Content-Type", contentType(format))
	_, _ = w.Write(data)
}

func (s *Server) loadReport(w http.ResponseWriter, r *http.Request) (graph.Report, bool) {
	id := chi.URLParam(r, "id")
	rep, err := s.runner.Report(r.Context(), id)
	if errors.Is(err, archive.ErrNotFound) {
		writeError(w, http.StatusNotFound, fgerr.New(fgerr.ErrCodeNotFound, "no report %q", id))
		return graph.Report{}, false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return graph.Report{}, false
	}
	return rep, true
}

// =============================================================================
// Helpers
// =============================================================================

// statusFor maps an error code to an HTTP status. Input problems are coded
// where they are detected, so an uncoded error is a server fault.
func statusFor(err error) int {
	switch fgerr.GetCode(err) {
	case fgerr.ErrCodeInvalidInput, fgerr.ErrCodeInvalidName, fgerr.ErrCodeInvalidLink,
		fgerr.ErrCodeInvalidFormat, fgerr.ErrCodeInvalidArgs, fgerr.ErrCodeDuplicateName,
		fgerr.ErrCodeNotFound, fgerr.ErrCodeUnsupported:
		return http.StatusBadRequest
	case fgerr.ErrCodeAllocation, fgerr.ErrCodeDisconnectedPad, fgerr.ErrCodeUnsupportedMediaType,
		fgerr.ErrCodeConversionFilter, fgerr.ErrCodeIncompatibleFormats, fgerr.ErrCodeNodeConfiguration,
		fgerr.ErrCodeAlreadyConfigured:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// requestFormat picks the description encoding from the Content-Type header.
func requestFormat(r *http.Request) graphdesc.Format {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err == nil && mt == "application/json" {
		return graphdesc.FormatJSON
	}
	return graphdesc.FormatTOML
}

func contentType(format string) string {
	switch format {
	case render.FormatSVG:
		return "image/svg+xml"
	case render.FormatPNG:
		return "image/png"
	case render.FormatJSON:
		return "application/json"
	}
	return "text/vnd.graphviz; charset=utf-8"
}

func boolParam(v string) (bool, error) {
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fgerr.New(fgerr.ErrCodeInvalidArgs, "expected a boolean, got %q", v)
	}
	return b, nil
}

func summarize(r graph.Report) ReportSummary {
	s := ReportSummary{
		ID:         r.ID,
		Name:       r.Name,
		Configured: r.Configured,
		CreatedAt:  r.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		Nodes:      len(r.Nodes),
		Links:      len(r.Links),
	}
	if r.Error != nil {
		s.ErrorCode = r.Error.Code
	}
	return s
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	resp := ErrorResponse{
		Code:    string(fgerr.GetCode(err)),
		Message: fgerr.UserMessage(err),
	}
	if resp.Code == "" {
		resp.Code = string(fgerr.ErrCodeInvalidInput)
		if status >= http.StatusInternalServerError {
			resp.Code = string(fgerr.ErrCodeInternal)
		}
		resp.Message = err.Error()
	}
	if e, ok := fgerr.Details(err); ok {
		resp.Node = e.Node
		resp.Pad = e.Pad
	}
	writeJSON(w, status, resp)
}
