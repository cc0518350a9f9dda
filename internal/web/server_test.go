package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"todo-cli/internal/bridge"
	"todo-cli/internal/model"
	"todo-cli/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	srv     *httptest.Server
	store   *store.Store
	metrics *Metrics
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	s := store.New(store.NewMemoryBlobStore())
	s.Load(context.Background())
	m := NewMetrics()
	d := bridge.NewDispatcher(s, bridge.WithObserver(m.Observe))
	server, err := NewServer(ServerConfig{Addr: "127.0.0.1:0"}, d, m, nil)
	require.NoError(t, err)
	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)
	return &testEnv{srv: ts, store: s, metrics: m}
}

// noRedirect keeps the 303 visible to the test.
func noRedirect(ts *httptest.Server) *http.Client {
	c := ts.Client()
	c.CheckRedirect = func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }
	return c
}

func (e *testEnv) postForm(t *testing.T, path string, form url.Values, asJSON bool) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, e.srv.URL+path, strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if asJSON {
		req.Header.Set("Accept", "application/json")
	}
	resp, err := noRedirect(e.srv).Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func (e *testEnv) get(t *testing.T, path string) (int, string) {
	t.Helper()
	resp, err := e.srv.Client().Get(e.srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(b)
}

func decodeSnapshot(t *testing.T, resp *http.Response) bridge.Snapshot {
	t.Helper()
	var snap bridge.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	return snap
}

func TestNewServer_RequiresAddrAndDispatcher(t *testing.T) {
	d := bridge.NewDispatcher(store.New(store.NewMemoryBlobStore()))
	_, err := NewServer(ServerConfig{}, d, nil, nil)
	assert.Error(t, err)
	_, err = NewServer(ServerConfig{Addr: ":0"}, nil, nil, nil)
	assert.Error(t, err)
}

func TestHome_RendersSeedList(t *testing.T) {
	e := newTestEnv(t)
	status, body := e.get(t, "/")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Complete online JavaScript course")
	assert.Contains(t, body, "Jog around the park 3x")
	assert.Contains(t, body, "2 items left")
	assert.Contains(t, body, `data-theme="light"`)
	assert.Equal(t, 3, strings.Count(body, `class="todo-item`))
}

func TestAdd_EscapesText(t *testing.T) {
	e := newTestEnv(t)
	resp := e.postForm(t, "/todos", url.Values{"text": {"<script>alert(1)</script>"}}, false)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)

	_, body := e.get(t, "/")
	assert.NotContains(t, body, "<script>alert(1)</script>")
	assert.Contains(t, body, "&lt;script&gt;alert(1)&lt;/script&gt;")
	assert.Equal(t, "<script>alert(1)</script>", e.store.Items()[0].Text)
}

func TestAdd_BlankIsIgnored(t *testing.T) {
	e := newTestEnv(t)
	resp := e.postForm(t, "/todos", url.Values{"text": {"   "}}, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	snap := decodeSnapshot(t, resp)
	assert.Equal(t, 3, snap.Total)
}

func TestToggleDeleteAndClear(t *testing.T) {
	e := newTestEnv(t)

	resp := e.postForm(t, "/todos/2/toggle", nil, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	snap := decodeSnapshot(t, resp)
	assert.Equal(t, 1, snap.ActiveCount)
	assert.Equal(t, "1 item left", snap.ItemsLeft)

	resp = e.postForm(t, "/todos/3/delete", nil, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, decodeSnapshot(t, resp).Total)

	resp = e.postForm(t, "/clear-completed", nil, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	snap = decodeSnapshot(t, resp)
	assert.Equal(t, 0, snap.Total)
	require.NotNil(t, snap.Empty)
	assert.Equal(t, "No todos yet", snap.Empty.Message)

	resp = e.postForm(t, "/todos/abc/toggle", nil, false)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestFilter_FormAndQuery(t *testing.T) {
	e := newTestEnv(t)

	resp := e.postForm(t, "/filter", url.Values{"filter": {"completed"}}, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	snap := decodeSnapshot(t, resp)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "Complete online JavaScript course", snap.Items[0].Text)
	assert.Equal(t, model.FilterCompleted, e.store.Filter())

	resp = e.postForm(t, "/filter", url.Values{"filter": {"bogus"}}, false)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	status, body := e.get(t, "/?filter=active")
	require.Equal(t, http.StatusOK, status)
	assert.NotContains(t, body, "Complete online JavaScript course")
	assert.Contains(t, body, "Jog around the park 3x")
	assert.Contains(t, body, `name="view" value="active"`)
	// Viewing is read-only: the active filter is untouched.
	assert.Equal(t, model.FilterCompleted, e.store.Filter())

	status, _ = e.get(t, "/?filter=bogus")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestViewFilter_ReorderAndRedirect(t *testing.T) {
	e := newTestEnv(t)

	// [1(done), 2, 3]; viewed as active the page shows [2, 3].
	resp := e.postForm(t, "/reorder", url.Values{"from": {"1"}, "to": {"0"}, "view": {"active"}}, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	snap := decodeSnapshot(t, resp)
	assert.Equal(t, model.FilterActive, snap.Filter)
	assert.Equal(t, []int64{3, 2}, []int64{snap.Items[0].ID, snap.Items[1].ID})
	assert.Equal(t, []int64{1, 3, 2}, []int64{e.store.Items()[0].ID, e.store.Items()[1].ID, e.store.Items()[2].ID})
	assert.Equal(t, model.FilterAll, e.store.Filter())

	resp = e.postForm(t, "/todos/2/toggle", url.Values{"view": {"active"}}, false)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/?filter=active", resp.Header.Get("Location"))
	assert.Equal(t, model.FilterAll, e.store.Filter())

	resp = e.postForm(t, "/filter", url.Values{"filter": {"completed"}, "view": {"active"}}, false)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
	assert.Equal(t, model.FilterCompleted, e.store.Filter())
}

func TestReorder(t *testing.T) {
	e := newTestEnv(t)

	resp := e.postForm(t, "/reorder", url.Values{"from": {"0"}, "to": {"2"}}, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	snap := decodeSnapshot(t, resp)
	require.Len(t, snap.Items, 3)
	assert.Equal(t, []int64{2, 3, 1}, []int64{snap.Items[0].ID, snap.Items[1].ID, snap.Items[2].ID})

	resp = e.postForm(t, "/reorder", url.Values{"from": {"0"}, "to": {"7"}}, true)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, int64(2), e.store.Items()[0].ID)

	resp = e.postForm(t, "/reorder", url.Values{"from": {"x"}, "to": {"1"}}, false)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestTheme_Toggle(t *testing.T) {
	e := newTestEnv(t)
	resp := e.postForm(t, "/theme", nil, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, model.ThemeDark, decodeSnapshot(t, resp).Theme)

	_, body := e.get(t, "/")
	assert.Contains(t, body, `data-theme="dark"`)
}

func TestSnapshotJSON(t *testing.T) {
	e := newTestEnv(t)
	status, body := e.get(t, "/api/todos")
	require.Equal(t, http.StatusOK, status)
	var snap bridge.Snapshot
	require.NoError(t, json.Unmarshal([]byte(body), &snap))
	assert.Equal(t, 3, snap.Total)
	assert.Equal(t, model.FilterAll, snap.Filter)
	assert.Equal(t, "2 items left", snap.ItemsLeft)
}

func TestStaticAssets(t *testing.T) {
	e := newTestEnv(t)
	status, body := e.get(t, "/static/app.js")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "/reorder")
	status, _ = e.get(t, "/static/app.css")
	assert.Equal(t, http.StatusOK, status)
}

func TestMetrics_CountsGestures(t *testing.T) {
	e := newTestEnv(t)
	e.postForm(t, "/todos/1/toggle", nil, true)
	e.postForm(t, "/reorder", url.Values{"from": {"0"}, "to": {"9"}}, true)

	status, body := e.get(t, "/metrics")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `todo_gestures_total{kind="toggle",result="ok"} 1`)
	assert.Contains(t, body, `todo_gestures_total{kind="reorder",result="rejected"} 1`)
}
