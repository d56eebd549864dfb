package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/moogar0880/problems"
	"github.com/sourceplane/wfviz/internal/schema"
	"github.com/sourceplane/wfviz/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ciWorkflow = `
name: CI
on:
  push: {}
  schedule:
    - cron: "0 6 * * *"
jobs:
  build:
    runs-on: ubuntu-latest
    steps:
      - run: make
  test:
    needs: build
    steps:
      - run: make test
  deploy:
    needs: [build, test]
    if: github.ref == 'refs/heads/main'
    steps:
      - uses: ./deploy
`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	linter, err := schema.NewLinter()
	require.NoError(t, err)

	srv := NewServer("localhost:0", session.New(), linter, 2)
	srv.now = func() time.Time { return time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC) }
	return srv
}

func do(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func TestLoadAndQuery(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodPut, "/workflow", ciWorkflow)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var loaded struct {
		ID   string   `json:"id"`
		Name string   `json:"name"`
		Jobs []string `json:"jobs"`
	}
	decode(t, rec, &loaded)
	assert.NotEmpty(t, loaded.ID)
	assert.Equal(t, "CI", loaded.Name)
	assert.Equal(t, []string{"build", "test", "deploy"}, loaded.Jobs)

	rec = do(t, srv, http.MethodGet, "/workflow/order", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var order struct {
		Levels [][]string `json:"levels"`
		Cycles []string   `json:"cycles"`
	}
	decode(t, rec, &order)
	assert.Equal(t, [][]string{{"build"}, {"test"}, {"deploy"}}, order.Levels)
	assert.Empty(t, order.Cycles)

	rec = do(t, srv, http.MethodGet, "/workflow/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var stats map[string]interface{}
	decode(t, rec, &stats)
	assert.Equal(t, float64(3), stats["totalJobs"])
	assert.Equal(t, true, stats["hasConditions"])

	rec = do(t, srv, http.MethodGet, "/workflow/jobs/deploy/dependencies", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"job":"deploy","dependencies":["build","test"]}`, rec.Body.String())

	rec = do(t, srv, http.MethodGet, "/workflow/jobs/build/dependents", "")
	assert.JSONEq(t, `{"job":"build","dependents":["test","deploy"]}`, rec.Body.String())

	rec = do(t, srv, http.MethodGet, "/workflow/jobs/test/dependents?transitive=true", "")
	assert.JSONEq(t, `{"job":"test","dependents":["deploy"]}`, rec.Body.String())

	rec = do(t, srv, http.MethodGet, "/workflow/jobs/build", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var job map[string]interface{}
	decode(t, rec, &job)
	assert.Equal(t, "ubuntu-latest", job["runs-on"])

	rec = do(t, srv, http.MethodGet, "/workflow/triggers", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var triggers []struct {
		Name     string   `json:"name"`
		NextRuns []string `json:"nextRuns"`
	}
	decode(t, rec, &triggers)
	require.Len(t, triggers, 2)
	assert.Equal(t, []string{"2024-06-02T06:00:00Z", "2024-06-03T06:00:00Z"}, triggers[1].NextRuns)

	rec = do(t, srv, http.MethodGet, "/workflow/graph", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var graph struct {
		Edges []struct{ ID string } `json:"edges"`
		Roots []string              `json:"roots"`
	}
	decode(t, rec, &graph)
	assert.Len(t, graph.Edges, 3)
	assert.Equal(t, []string{"deploy"}, graph.Roots)

	rec = do(t, srv, http.MethodGet, "/workflow", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"kind":"WorkflowReport"`)
}

func TestLoadFailureKeepsWorkflow(t *testing.T) {
	srv := newTestServer(t)
	require.Equal(t, http.StatusOK, do(t, srv, http.MethodPut, "/workflow", ciWorkflow).Code)

	tests := []struct {
		name        string
		body        string
		problemType string
	}{
		{name: "missing jobs", body: "name: CI\non: push\n", problemType: "validation_error"},
		{name: "bad yaml", body: "name: [CI", problemType: "parse_error"},
		{name: "blank", body: "   \n", problemType: "no_content"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv, http.MethodPut, "/workflow", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, problems.ProblemMediaType, rec.Header().Get("Content-Type"))

			var problem problems.DefaultProblem
			decode(t, rec, &problem)
			assert.Equal(t, tt.problemType, problem.Type)
			assert.Equal(t, "/workflow", problem.Instance)

			rec = do(t, srv, http.MethodGet, "/workflow/status", "")
			var status map[string]interface{}
			decode(t, rec, &status)
			assert.Equal(t, true, status["loaded"])
			assert.Equal(t, "CI", status["name"])
			assert.NotEmpty(t, status["error"])
		})
	}

	rec := do(t, srv, http.MethodGet, "/workflow/jobs/build", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestClearAndNotFound(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/workflow", "/workflow/stats", "/workflow/order", "/workflow/graph", "/workflow/jobs/build"} {
		rec := do(t, srv, http.MethodGet, path, "")
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}

	require.Equal(t, http.StatusOK, do(t, srv, http.MethodPut, "/workflow", ciWorkflow).Code)

	rec := do(t, srv, http.MethodGet, "/workflow/jobs/missing", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `job \"missing\" not found`)

	rec = do(t, srv, http.MethodDelete, "/workflow", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodGet, "/workflow/stats", "").Code)

	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodGet, "/nowhere", "").Code)
}

func TestLint(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/workflow/lint", ciWorkflow)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"valid":true,"violations":[]}`, rec.Body.String())

	rec = do(t, srv, http.MethodPost, "/workflow/lint", "name: CI\non: push\njobs:\n  a:\n    steps:\n      - name: empty\n")
	require.Equal(t, http.StatusOK, rec.Code)
	var result schema.Result
	decode(t, rec, &result)
	assert.False(t, result.Valid)
	assert.NotEmpty(t, result.Violations)

	// Linting never loads the document.
	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodGet, "/workflow", "").Code)

	rec = do(t, srv, http.MethodPost, "/workflow/lint", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBodyTooLarge(t *testing.T) {
	srv := newTestServer(t)
	body := "name: CI\n# " + strings.Repeat("x", MaxBodyBytes) + "\n"

	rec := do(t, srv, http.MethodPut, "/workflow", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "too_large")
}

func TestReportDuringClear(t *testing.T) {
	srv := newTestServer(t)
	require.Equal(t, http.StatusOK, do(t, srv, http.MethodPut, "/workflow", ciWorkflow).Code)

	done := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				for _, path := range []string{"/workflow", "/workflow/order", "/workflow/jobs/deploy/dependencies"} {
					rec := do(t, srv, http.MethodGet, path, "")
					assert.Contains(t, []int{http.StatusOK, http.StatusNotFound}, rec.Code, path)
				}
			}
		}()
	}

	for i := 0; i < 100; i++ {
		if i%2 == 0 {
			do(t, srv, http.MethodDelete, "/workflow", "")
		} else {
			do(t, srv, http.MethodPut, "/workflow", ciWorkflow)
		}
	}
	close(done)
	wg.Wait()
}
