package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlasbruce/bramble"
	httpAdapter "github.com/atlasbruce/bramble/internal/adapters/http"
	"github.com/atlasbruce/bramble/pkg/adapters/memory"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	editor := bramble.New(bramble.WithStore(memory.NewStore()))
	srv := httptest.NewServer(httpAdapter.NewHandler(editor, nil))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader([]byte("{}"))
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func createGraph(t *testing.T, base string) string {
	t.Helper()
	resp, body := doJSON(t, http.MethodPost, base+"/graphs", map[string]string{
		"name": "patrol",
		"kind": "BehaviorTree",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id, _ := body["id"].(string)
	require.NotEmpty(t, id)
	return id
}

func createNode(t *testing.T, base, graphID, nodeType string) int {
	t.Helper()
	resp, body := doJSON(t, http.MethodPost, base+"/graphs/"+graphID+"/nodes", map[string]any{
		"type": nodeType,
		"name": nodeType,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return int(body["id"].(float64))
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	resp, body := doJSON(t, http.MethodGet, srv.URL+"/healthz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

func TestGraphLifecycle(t *testing.T) {
	srv := newTestServer(t)
	id := createGraph(t, srv.URL)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/graphs/"+id, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "patrol", body["name"])
	assert.Equal(t, "BehaviorTree", body["type"])

	resp, _ = doJSON(t, http.MethodDelete, srv.URL+"/graphs/"+id, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/graphs/"+id, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateGraph_UnknownKind(t *testing.T) {
	srv := newTestServer(t)
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/graphs", map[string]string{
		"name": "x",
		"kind": "DecisionTable",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["error"], "unknown graph kind")
}

func TestNodeEndpoints(t *testing.T) {
	srv := newTestServer(t)
	id := createGraph(t, srv.URL)
	base := srv.URL + "/graphs/" + id

	nodeID := createNode(t, srv.URL, id, "Sequence")

	t.Run("UnknownType", func(t *testing.T) {
		resp, body := doJSON(t, http.MethodPost, base+"/nodes", map[string]any{"type": "Sprocket"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, body["error"], "unknown node type")
	})

	t.Run("Move", func(t *testing.T) {
		resp, _ := doJSON(t, http.MethodPost, fmt.Sprintf("%s/nodes/%d/move", base, nodeID), map[string]float64{"x": 10, "y": 20})
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})

	t.Run("Duplicate", func(t *testing.T) {
		resp, body := doJSON(t, http.MethodPost, fmt.Sprintf("%s/nodes/%d/duplicate", base, nodeID), nil)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.NotEqual(t, float64(nodeID), body["id"])
	})

	t.Run("DeleteMissing", func(t *testing.T) {
		resp, _ := doJSON(t, http.MethodDelete, base+"/nodes/999", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("Delete", func(t *testing.T) {
		victim := createNode(t, srv.URL, id, "Action")
		resp, _ := doJSON(t, http.MethodDelete, fmt.Sprintf("%s/nodes/%d", base, victim), nil)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})
}

func TestLinkEndpoints(t *testing.T) {
	srv := newTestServer(t)
	id := createGraph(t, srv.URL)
	base := srv.URL + "/graphs/" + id

	seq := createNode(t, srv.URL, id, "Sequence")
	act := createNode(t, srv.URL, id, "Action")

	t.Run("ValidLink", func(t *testing.T) {
		resp, _ := doJSON(t, http.MethodPost, base+"/links", map[string]int{"parentId": seq, "childId": act})
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
	})

	t.Run("RejectedLinkIs422WithReason", func(t *testing.T) {
		// A leaf cannot parent anything; the validator's reason must come back.
		other := createNode(t, srv.URL, id, "Condition")
		resp, body := doJSON(t, http.MethodPost, base+"/links", map[string]int{"parentId": act, "childId": other})
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		assert.Contains(t, body["error"], "cannot have children")
	})

	t.Run("Unlink", func(t *testing.T) {
		resp, _ := doJSON(t, http.MethodDelete, base+"/links", map[string]int{"parentId": seq, "childId": act})
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})
}

func TestUndoRedoEndpoints(t *testing.T) {
	srv := newTestServer(t)
	id := createGraph(t, srv.URL)

	createNode(t, srv.URL, id, "Action")

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/undo", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["undone"])

	resp, body = doJSON(t, http.MethodPost, srv.URL+"/redo", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["redone"])

	// Exhausted history answers false, not an error.
	_, _ = doJSON(t, http.MethodPost, srv.URL+"/undo", nil)
	resp, body = doJSON(t, http.MethodPost, srv.URL+"/undo", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["undone"])

	// The history is session-wide, so there is no graph-scoped undo route.
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/graphs/"+id+"/undo", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestConcurrentNodeCreation(t *testing.T) {
	srv := newTestServer(t)
	id := createGraph(t, srv.URL)
	url := srv.URL + "/graphs/" + id + "/nodes"

	const workers = 16
	const perWorker = 8

	statuses := make(chan int, workers*perWorker)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				data, _ := json.Marshal(map[string]any{"type": "Action", "name": "n"})
				resp, err := http.Post(url, "application/json", bytes.NewReader(data))
				if err != nil {
					statuses <- 0
					continue
				}
				_ = resp.Body.Close()
				statuses <- resp.StatusCode
			}
		}()
	}
	wg.Wait()
	close(statuses)

	for status := range statuses {
		require.Equal(t, http.StatusCreated, status)
	}

	// Every request landed exactly once and ids never collided.
	resp, body := doJSON(t, http.MethodGet, srv.URL+"/graphs/"+id, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	nodes, _ := body["nodes"].([]any)
	require.Len(t, nodes, workers*perWorker)

	seen := make(map[float64]bool, len(nodes))
	for _, raw := range nodes {
		node, _ := raw.(map[string]any)
		nid, _ := node["id"].(float64)
		assert.False(t, seen[nid], "duplicate node id %v", nid)
		seen[nid] = true
	}
}

func TestLintEndpoint(t *testing.T) {
	srv := newTestServer(t)
	id := createGraph(t, srv.URL)
	base := srv.URL + "/graphs/" + id

	// Two nodes and no designated root: the graph is invalid, and once a
	// root exists the remaining strays become orphan warnings.
	createNode(t, srv.URL, id, "Selector")
	createNode(t, srv.URL, id, "Action")

	resp, body := doJSON(t, http.MethodGet, base+"/lint", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["valid"], "no root designated yet")

	// Designate the root via node creation flag.
	resp, _ = doJSON(t, http.MethodPost, base+"/nodes", map[string]any{"type": "Action", "name": "r", "root": true})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body = doJSON(t, http.MethodGet, base+"/lint", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	warnings, _ := body["warnings"].([]any)
	assert.NotEmpty(t, warnings, "stray nodes must be reported")
}

func TestSaveEndpoint(t *testing.T) {
	srv := newTestServer(t)
	id := createGraph(t, srv.URL)

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/graphs/"+id+"/save", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/graphs/unknown/save", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
