package httpadapter_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	httpadapter "github.com/studycircle/studycircle/internal/adapters/http"
	"github.com/studycircle/studycircle/internal/adapters/llm"
	"github.com/studycircle/studycircle/internal/adapters/storage/memory"
	"github.com/studycircle/studycircle/internal/app/studio"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()

	svc := studio.NewService(llm.NewMockLLM(), memory.NewSessionStore(), memory.NewStateStore(), nil, nil)
	return httpadapter.NewServer(svc)
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func createSession(t *testing.T, h http.Handler) string {
	t.Helper()

	rec := doJSON(t, h, http.MethodPost, "/sessions", map[string]string{"title": "测试小组"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Session struct {
			ID string `json:"id"`
		} `json:"session"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Session.ID)
	return resp.Session.ID
}

func TestSubmitFlow(t *testing.T) {
	h := newTestHandler(t)
	id := createSession(t, h)

	rec := doJSON(t, h, http.MethodPost, "/sessions/"+id+"/submissions",
		map[string]string{"draft": "工业革命改变了社会。"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Messages []struct {
			Sender  string `json:"sender"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Messages, 4)
	require.Equal(t, "user", resp.Messages[0].Sender)
	require.Equal(t, "reviewer", resp.Messages[1].Sender)
	require.Equal(t, "researcher", resp.Messages[2].Sender)
	require.Equal(t, "visualizer", resp.Messages[3].Sender)

	// The transcript is visible on the session resource.
	rec = doJSON(t, h, http.MethodGet, "/sessions/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var getResp struct {
		Transcript  []json.RawMessage `json:"transcript"`
		JustCleared bool              `json:"just_cleared"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &getResp))
	require.Len(t, getResp.Transcript, 4)
	require.False(t, getResp.JustCleared)
}

func TestSubmitEmptyDraftSignals(t *testing.T) {
	h := newTestHandler(t)
	id := createSession(t, h)

	rec := doJSON(t, h, http.MethodPost, "/sessions/"+id+"/submissions",
		map[string]string{"draft": "   "})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "draft_required", resp["signal"])
}

func TestClearFlow(t *testing.T) {
	h := newTestHandler(t)
	id := createSession(t, h)

	rec := doJSON(t, h, http.MethodPost, "/sessions/"+id+"/submissions",
		map[string]string{"draft": "第一稿"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/sessions/"+id+"/clear", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/sessions/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var getResp struct {
		Transcript  []json.RawMessage `json:"transcript"`
		JustCleared bool              `json:"just_cleared"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &getResp))
	require.Empty(t, getResp.Transcript)
	require.True(t, getResp.JustCleared)
}

func TestUnknownSessionIs404(t *testing.T) {
	h := newTestHandler(t)

	rec := doJSON(t, h, http.MethodGet, "/sessions/missing", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/sessions/missing/submissions",
		map[string]string{"draft": "草稿"})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListSessions(t *testing.T) {
	h := newTestHandler(t)
	createSession(t, h)
	createSession(t, h)

	rec := doJSON(t, h, http.MethodGet, "/sessions", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Sessions []json.RawMessage `json:"sessions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Sessions, 2)
}

func TestMethodNotAllowed(t *testing.T) {
	h := newTestHandler(t)
	id := createSession(t, h)

	rec := doJSON(t, h, http.MethodDelete, "/sessions/"+id, nil)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHealthz(t *testing.T) {
	h := newTestHandler(t)

	rec := doJSON(t, h, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}
