package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/filtergraph/pkg/archive"
	fgerr "github.com/matzehuels/filtergraph/pkg/errors"
	"github.com/matzehuels/filtergraph/pkg/filtergraph"
	"github.com/matzehuels/filtergraph/pkg/filters"
	"github.com/matzehuels/filtergraph/pkg/observability"
	"github.com/matzehuels/filtergraph/pkg/pipeline"
)

const scaledTOML = `
name = "scaled"

[[node]]
name = "in"
filter = "buffer"
args = "320:240:rgb24"

[[node]]
name = "out"
filter = "buffersink"
args = "yuv420p"

[[link]]
from = "in"
to = "out"
`

const resampledJSON = `{
  "nodes": [
    {"name": "in", "filter": "abuffer", "args": "48000:mono:s16"},
    {"name": "out", "filter": "abuffersink", "args": "fltp"}
  ],
  "links": [{"from": "in", "to": "out"}]
}`

func newTestServer(t *testing.T) (*Server, *pipeline.Runner) {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	runner := pipeline.NewRunner(nil, nil, logger)
	runner.Store = archive.NewMemoryStore()
	t.Cleanup(func() { runner.Close() })
	return NewServer(runner, Config{Logger: logger}), runner
}

func do(t *testing.T, s *Server, method, target, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/healthz", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	resp := decode[HealthResponse](t, rec)
	if resp.Status != "ok" || resp.Build.Version == "" {
		t.Errorf("health = %+v", resp)
	}
}

func TestListFilters(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/v1/filters", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	infos := decode[[]filters.Info](t, rec)
	found := map[string]bool{}
	for _, info := range infos {
		found[info.Name] = true
	}
	for _, name := range []string{"buffer", "buffersink", "scale", "abuffer", "abuffersink", "resample"} {
		if !found[name] {
			t.Errorf("filter %q missing from listing", name)
		}
	}
}

func TestConfigure(t *testing.T) {
	s, _ := newTestServer(t)

	tests := []struct {
		name        string
		contentType string
		body        string
		wantNodes   int
	}{
		{"TOML", "application/toml", scaledTOML, 3},
		{"TOMLWithoutContentType", "", scaledTOML, 3},
		{"JSON", "application/json; charset=utf-8", resampledJSON, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/v1/graphs/configure", tt.contentType, tt.body)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
			}
			resp := decode[ConfigureResponse](t, rec)
			if !resp.Report.Configured || resp.Report.ID == "" {
				t.Errorf("report = %+v", resp.Report)
			}
			if resp.Nodes != tt.wantNodes || resp.Converted != 1 {
				t.Errorf("nodes = %d, auto_inserted = %d", resp.Nodes, resp.Converted)
			}
		})
	}
}

func TestConfigureCached(t *testing.T) {
	logger := log.NewWithOptions(io.Discard, log.Options{})
	runner := pipeline.NewRunner(newMapCache(), nil, logger)
	s := NewServer(runner, Config{Logger: logger})

	first := decode[ConfigureResponse](t, do(t, s, http.MethodPost, "/v1/graphs/configure", "", scaledTOML))
	second := decode[ConfigureResponse](t, do(t, s, http.MethodPost, "/v1/graphs/configure", "", scaledTOML))
	if first.Cached || !second.Cached {
		t.Errorf("cached = %v, %v; want false, true", first.Cached, second.Cached)
	}
	if first.DescHash != second.DescHash {
		t.Error("same description should hash the same")
	}

	refreshed := decode[ConfigureResponse](t, do(t, s, http.MethodPost, "/v1/graphs/configure?refresh=true", "", scaledTOML))
	if refreshed.Cached {
		t.Error("refresh should bypass the cache")
	}
}

func TestConfigureArtifact(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/v1/graphs/configure?format=dot&detailed=true", "", scaledTOML)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/vnd.graphviz") {
		t.Errorf("Content-Type = %q", ct)
	}
	if rec.Header().Get("X-Report-ID") == "" {
		t.Error("missing X-Report-ID")
	}
	body := rec.Body.String()
	if !strings.Contains(body, "digraph") || !strings.Contains(body, "320x240") {
		t.Errorf("body = %s", body)
	}
}

func TestConfigureFailure(t *testing.T) {
	s, runner := newTestServer(t)
	runner.Registry = filtergraph.NewRegistry(filters.NewABuffer(), filters.NewABufferSink())

	rec := do(t, s, http.MethodPost, "/v1/graphs/configure", "application/json", resampledJSON)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	resp := decode[ConfigureResponse](t, rec)
	if resp.Report.Configured || resp.Report.Error == nil {
		t.Fatalf("report = %+v", resp.Report)
	}
	if resp.Report.Error.Code != string(fgerr.ErrCodeConversionFilter) {
		t.Errorf("error code = %s", resp.Report.Error.Code)
	}
}

func TestConfigureBadRequest(t *testing.T) {
	s, _ := newTestServer(t)

	tests := []struct {
		name     string
		target   string
		body     string
		wantCode fgerr.Code
	}{
		{"EmptyBody", "/v1/graphs/configure", "", fgerr.ErrCodeInvalidInput},
		{"Malformed", "/v1/graphs/configure", "[[node]\n", fgerr.ErrCodeInvalidInput},
		{"UnknownFilter", "/v1/graphs/configure", "[[node]]\nname = \"x\"\nfilter = \"nope\"\n", fgerr.ErrCodeNotFound},
		{"BadFormat", "/v1/graphs/configure?format=gif", scaledTOML, fgerr.ErrCodeInvalidArgs},
		{"BadMaxNodes", "/v1/graphs/configure?max_nodes=-1", scaledTOML, fgerr.ErrCodeInvalidArgs},
		{"BadBool", "/v1/graphs/configure?refresh=maybe", scaledTOML, fgerr.ErrCodeInvalidArgs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, tt.target, "", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
			}
			resp := decode[ErrorResponse](t, rec)
			if resp.Code != string(tt.wantCode) {
				t.Errorf("code = %s, want %s (%s)", resp.Code, tt.wantCode, resp.Message)
			}
		})
	}
}

func TestConfigureBodyTooLarge(t *testing.T) {
	logger := log.NewWithOptions(io.Discard, log.Options{})
	s := NewServer(pipeline.NewRunner(nil, nil, logger), Config{Logger: logger, MaxBodyBytes: 16})
	rec := do(t, s, http.MethodPost, "/v1/graphs/configure", "", scaledTOML)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestReports(t *testing.T) {
	s, _ := newTestServer(t)
	created := decode[ConfigureResponse](t, do(t, s, http.MethodPost, "/v1/graphs/configure", "", scaledTOML))
	id := created.Report.ID

	t.Run("List", func(t *testing.T) {
		rec := do(t, s, http.MethodGet, "/v1/reports", "", "")
		list := decode[ReportList](t, rec)
		if len(list.Reports) != 1 || list.Reports[0].ID != id || list.Reports[0].Name != "scaled" {
			t.Errorf("list = %+v", list)
		}
	})

	t.Run("BadLimit", func(t *testing.T) {
		rec := do(t, s, http.MethodGet, "/v1/reports?limit=0", "", "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d", rec.Code)
		}
	})

	t.Run("Get", func(t *testing.T) {
		rec := do(t, s, http.MethodGet, "/v1/reports/"+id, "", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `"configured": true`) {
			t.Errorf("body = %s", rec.Body)
		}
	})

	t.Run("GetMissing", func(t *testing.T) {
		rec := do(t, s, http.MethodGet, "/v1/reports/missing", "", "")
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d", rec.Code)
		}
	})

	t.Run("RenderDOT", func(t *testing.T) {
		rec := do(t, s, http.MethodGet, "/v1/reports/"+id+"/render?format=dot", "", "")
		if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "digraph") {
			t.Errorf("status = %d, body %s", rec.Code, rec.Body)
		}
	})

	t.Run("RenderBadFormat", func(t *testing.T) {
		rec := do(t, s, http.MethodGet, "/v1/reports/"+id+"/render?format=bmp", "", "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d", rec.Code)
		}
	})
}

type recordingHTTPHooks struct {
	mu        sync.Mutex
	requests  int
	responses []string
}

func (h *recordingHTTPHooks) OnRequest(context.Context, string, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.requests++
}

func (h *recordingHTTPHooks) OnResponse(_ context.Context, method, path string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.responses = append(h.responses, method+" "+path+" "+http.StatusText(status))
}

func TestHTTPHooks(t *testing.T) {
	hooks := &recordingHTTPHooks{}
	observability.SetHTTPHooks(hooks)
	t.Cleanup(observability.Reset)

	s, _ := newTestServer(t)
	do(t, s, http.MethodGet, "/v1/reports/abc", "", "")

	if hooks.requests != 1 || len(hooks.responses) != 1 {
		t.Fatalf("requests = %d, responses = %v", hooks.requests, hooks.responses)
	}
	if want := "GET /v1/reports/{id} Not Found"; hooks.responses[0] != want {
		t.Errorf("response = %q, want %q", hooks.responses[0], want)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code fgerr.Code
		want int
	}{
		{fgerr.ErrCodeInvalidName, http.StatusBadRequest},
		{fgerr.ErrCodeDisconnectedPad, http.StatusUnprocessableEntity},
		{fgerr.ErrCodeIncompatibleFormats, http.StatusUnprocessableEntity},
		{fgerr.ErrCodeAllocation, http.StatusUnprocessableEntity},
		{fgerr.ErrCodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := statusFor(fgerr.New(tt.code, "x")); got != tt.want {
				t.Errorf("statusFor(%s) = %d, want %d", tt.code, got, tt.want)
			}
		})
	}
}

func TestStatusForWrappedAndUncoded(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"WrappedInput", fmt.Errorf("parse: %w", fgerr.New(fgerr.ErrCodeInvalidInput, "bad toml")), http.StatusBadRequest},
		{"WrappedConfigure", fmt.Errorf("configure: %w", fgerr.New(fgerr.ErrCodeNotFound, "no filter")), http.StatusBadRequest},
		{"RenderFailure", fmt.Errorf("render: %w", errors.New("graphviz: layout failed")), http.StatusInternalServerError},
		{"Uncoded", errors.New("disk full"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusFor(tt.err); got != tt.want {
				t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

// mapCache is a map-backed cache.Cache.
type mapCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMapCache() *mapCache { return &mapCache{data: map[string][]byte{}} }

func (c *mapCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *mapCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	return nil
}

func (c *mapCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *mapCache) Close() error { return nil }
