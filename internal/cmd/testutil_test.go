// Test helpers for running commands against a fake API Colombia.
//
// A typical test routes the upstream paths it needs, points the CLI at the
// fake server and captures stdout:
//
//	handler := newRouteHandler().
//	    On("GET", "/api/v1/Department/5", jsonResponse(200, `{"id": 5, "name": "Antioquia"}`))
//	setupTestEnvWithHandler(t, handler)
//
//	output := captureStdout(t, func() {
//	    if err := Execute(context.Background(), []string{"departments", "get", "5"}); err != nil {
//	        t.Fatalf("failed: %v", err)
//	    }
//	})
//
// Unrouted requests answer 404, which the client reports as "HTTP Error: 404".
package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// captureStdout executes fn and returns what it wrote to stdout.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		done <- buf.String()
	}()

	fn()

	_ = w.Close()
	os.Stdout = old
	return <-done
}

// captureStderr executes fn and returns what it wrote to stderr.
func captureStderr(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		done <- buf.String()
	}()

	fn()

	_ = w.Close()
	os.Stderr = old
	return <-done
}

// testEnv is the fake upstream plus the files the CLI was pointed at.
type testEnv struct {
	server     *httptest.Server
	configPath string
	cacheDir   string
}

// setupTestEnvWithHandler starts handler as the upstream and points the CLI at
// it through the environment:
//   - COLOMBIA_BASE_URL is the server URL plus /api/v1
//   - COLOMBIA_ALLOW_PRIVATE permits the loopback address
//   - COLOMBIA_CONFIG and COLOMBIA_CACHE_DIR live in a per-test temp dir
//
// Everything is restored on cleanup.
func setupTestEnvWithHandler(t *testing.T, handler http.Handler) *testEnv {
	t.Helper()

	server := httptest.NewServer(handler)
	dir := t.TempDir()
	env := &testEnv{
		server:     server,
		configPath: filepath.Join(dir, "config.yaml"),
		cacheDir:   filepath.Join(dir, "cache"),
	}

	t.Setenv("COLOMBIA_BASE_URL", server.URL+"/api/v1")
	t.Setenv("COLOMBIA_ALLOW_PRIVATE", "1")
	t.Setenv("COLOMBIA_CONFIG", env.configPath)
	t.Setenv("COLOMBIA_CACHE_DIR", env.cacheDir)
	t.Setenv("COLOMBIA_OUTPUT", "text")
	t.Setenv("COLOMBIA_NO_UPDATE_CHECK", "1")
	for _, key := range []string{
		"COLOMBIA_TIMEOUT", "COLOMBIA_INSECURE", "COLOMBIA_MAX_RETRIES", "COLOMBIA_RETRY_DELAY",
		"COLOMBIA_RPS", "COLOMBIA_CACHE", "COLOMBIA_CACHE_BACKEND", "COLOMBIA_CACHE_TTL",
		"COLOMBIA_REDIS_URL", "COLOMBIA_SERVE_ADDR", "COLOMBIA_NO_CACHE",
	} {
		t.Setenv(key, "")
	}

	t.Cleanup(server.Close)
	return env
}

// routeHandler answers "METHOD PATH" routes and counts the hits per route.
type routeHandler struct {
	mu     sync.Mutex
	routes map[string]http.HandlerFunc
	hits   map[string]int
}

func newRouteHandler() *routeHandler {
	return &routeHandler{
		routes: make(map[string]http.HandlerFunc),
		hits:   make(map[string]int),
	}
}

// On registers fn for method and path (the decoded URL path).
func (h *routeHandler) On(method, path string, fn http.HandlerFunc) *routeHandler {
	h.routes[method+" "+path] = fn
	return h
}

// Hits returns how many requests reached method and path.
func (h *routeHandler) Hits(method, path string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.hits[method+" "+path]
}

func (h *routeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := r.Method + " " + r.URL.Path
	h.mu.Lock()
	h.hits[key]++
	fn, ok := h.routes[key]
	h.mu.Unlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	fn(w, r)
}

// jsonResponse answers with status and body as application/json.
func jsonResponse(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

// decodeJSON unmarshals command output into v, failing the test on error.
func decodeJSON(t *testing.T, output string, v any) {
	t.Helper()
	if err := json.Unmarshal([]byte(output), v); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, output)
	}
}

const departmentsJSON = `[
  {"id": 2, "name": "Antioquia", "description": "Departamento del noroeste", "regionId": 2},
  {"id": 5, "name": "Bolívar", "description": "Departamento del Caribe", "regionId": 3},
  {"id": 14, "name": "Boyacá", "description": "Departamento andino", "regionId": 2}
]`
