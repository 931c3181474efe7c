package http

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/aria"
	"github.com/aretw0/aria/pkg/domain"
	"github.com/aretw0/aria/pkg/history"
	"github.com/aretw0/aria/pkg/observability"
	"github.com/aretw0/aria/pkg/registry"
	"github.com/aretw0/aria/pkg/runner"
	"github.com/aretw0/aria/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T, opts ...Option) (http.Handler, *session.Manager) {
	t.Helper()
	reg, err := registry.NewBuilder().
		Immediate("help", "", domain.Plain("cmd1 - desc1"), domain.Plain("cmd2 - desc2")).
		Pipeline(domain.Pipeline{
			Name:  "deploy",
			Steps: []domain.Step{{Line: domain.Plain("phase 1"), Delay: time.Hour}},
		}, "Deploy").
		Build()
	require.NoError(t, err)

	mgr := session.NewManager(func(ctx context.Context, id string) (*aria.Console, error) {
		return aria.New(aria.WithRegistry(reg), aria.WithName(id))
	})
	t.Cleanup(mgr.Close)
	return NewHandler(mgr, opts...), mgr
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeSession(t *testing.T, w *httptest.ResponseRecorder) SessionResponse {
	t.Helper()
	var resp SessionResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func TestSubmitCommand_ExampleScenario(t *testing.T) {
	h, _ := newTestHandler(t)

	w := do(t, h, "POST", "/sessions/s1/commands", `{"input":"help"}`)
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, []string{"aria@prompt: help", "cmd1 - desc1", "cmd2 - desc2"}, domain.Texts(decodeSession(t, w).Lines))

	w = do(t, h, "POST", "/sessions/s1/commands", `{"input":"frobnicate"}`)
	require.Equal(t, http.StatusAccepted, w.Code)
	lines := decodeSession(t, w).Lines
	assert.Equal(t, "unrecognized command", lines[len(lines)-1].Text)

	w = do(t, h, "POST", "/sessions/s1/commands", `{"input":"deploy"}`)
	resp := decodeSession(t, w)
	assert.True(t, resp.Busy)
	assert.Equal(t, "deploy", resp.Running)

	before := len(resp.Lines)
	w = do(t, h, "POST", "/sessions/s1/commands", `{"input":"help"}`)
	assert.Equal(t, http.StatusAccepted, w.Code, "busy rejections are still accepted requests")
	assert.Len(t, decodeSession(t, w).Lines, before)
}

func TestSubmitCommand_BadBody(t *testing.T) {
	h, mgr := newTestHandler(t)
	w := do(t, h, "POST", "/sessions/s1/commands", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, mgr.Len())
}

func TestSubmitCommand_SanitizesInput(t *testing.T) {
	h, mgr := newTestHandler(t)

	w := do(t, h, "POST", "/sessions/s1/commands", `{"input":"he\u0007lp"}`)
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, []string{"aria@prompt: help", "cmd1 - desc1", "cmd2 - desc2"}, domain.Texts(decodeSession(t, w).Lines))

	w = do(t, h, "POST", "/sessions/s2/commands", `{"input":"`+strings.Repeat("a", runner.DefaultMaxInputSize+1)+`"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 1, mgr.Len())
}

func TestSessionLifecycle(t *testing.T) {
	h, _ := newTestHandler(t)

	w := do(t, h, "GET", "/sessions/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, h, "POST", "/sessions", "")
	require.Equal(t, http.StatusCreated, w.Code)
	id := decodeSession(t, w).ID
	require.NotEmpty(t, id)

	w = do(t, h, "GET", "/sessions", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"sessions":["`+id+`"]}`, w.Body.String())

	w = do(t, h, "GET", "/sessions/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeSession(t, w)
	assert.Equal(t, "aria@prompt:", resp.Prompt)
	assert.NotNil(t, resp.Lines)

	w = do(t, h, "GET", "/sessions/"+id+"/commands", "")
	require.Equal(t, http.StatusOK, w.Code)
	var cmds []CommandInfo
	require.NoError(t, json.NewDecoder(w.Body).Decode(&cmds))
	assert.Equal(t, []CommandInfo{
		{Token: "clear", Kind: domain.KindClear, Description: "Clear the console"},
		{Token: "help", Kind: domain.KindImmediate},
		{Token: "deploy", Kind: domain.KindPipeline, Description: "Deploy"},
	}, cmds)

	w = do(t, h, "DELETE", "/sessions/"+id, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = do(t, h, "DELETE", "/sessions/"+id, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetGraph(t *testing.T) {
	h, _ := newTestHandler(t)

	w := do(t, h, "GET", "/sessions/s1/graph", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	do(t, h, "POST", "/sessions/s1/commands", `{"input":"help"}`)
	do(t, h, "POST", "/sessions/s1/commands", `{"input":"deploy"}`)

	w = do(t, h, "GET", "/sessions/s1/graph", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	body := w.Body.String()
	assert.True(t, strings.HasPrefix(body, "graph TD\n"))
	assert.Contains(t, body, "class cmd_help visited;")
	assert.Contains(t, body, "class cmd_deploy current;")
}

func TestHealthzAndMetrics(t *testing.T) {
	promReg := prometheus.NewRegistry()
	metrics, err := observability.NewMetrics(promReg)
	require.NoError(t, err)
	_ = metrics

	h, _ := newTestHandler(t, WithGatherer(promReg))

	w := do(t, h, "GET", "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())

	w = do(t, h, "GET", "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMetricsNotMountedWithoutGatherer(t *testing.T) {
	h, _ := newTestHandler(t)
	w := do(t, h, "GET", "/metrics", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	h, _ := newTestHandler(t)
	w := do(t, h, "OPTIONS", "/sessions/x/commands", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestSubscribeEvents(t *testing.T) {
	h, mgr := newTestHandler(t)
	srv := httptest.NewServer(h)
	defer srv.Close()

	console, _, err := mgr.GetOrCreate(context.Background(), "live")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, "GET", srv.URL+"/sessions/live/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	next := eventReader(t, resp)

	event, _ := next()
	assert.Equal(t, "snapshot", event)

	console.SubmitCommand("help")
	event, data := next()
	assert.Equal(t, "change", event)
	assert.Contains(t, data, `"kind":"appended"`)
	assert.Contains(t, data, "cmd1 - desc1")

	require.NoError(t, mgr.Delete(context.Background(), "live"))
	event, _ = next()
	assert.Equal(t, "closed", event)
}

// eventReader returns a func yielding the next SSE event name and data.
func eventReader(t *testing.T, resp *http.Response) func() (string, string) {
	reader := bufio.NewReader(resp.Body)
	return func() (string, string) {
		var event, data string
		for {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			line = strings.TrimRight(line, "\n")
			switch {
			case strings.HasPrefix(line, "event: "):
				event = strings.TrimPrefix(line, "event: ")
			case strings.HasPrefix(line, "data: "):
				data = strings.TrimPrefix(line, "data: ")
			case line == "" && event != "":
				return event, data
			}
		}
	}
}

func TestSubscribeEvents_SlowClientIsResynced(t *testing.T) {
	reg, err := registry.NewBuilder().
		Immediate("help", "", domain.PlainLines("cmd1 - desc1")...).
		Build()
	require.NoError(t, err)
	mgr := session.NewManager(func(ctx context.Context, id string) (*aria.Console, error) {
		return aria.New(aria.WithRegistry(reg), aria.WithHistoryOptions(history.WithSubscriberBuffer(1)))
	})
	defer mgr.Close()
	srv := httptest.NewServer(NewHandler(mgr))
	defer srv.Close()

	console, _, err := mgr.GetOrCreate(context.Background(), "live")
	require.NoError(t, err)
	console.SubmitCommand("help")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, "GET", srv.URL+"/sessions/live/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	next := eventReader(t, resp)

	event, data := next()
	require.Equal(t, "snapshot", event)
	var snap SessionResponse
	require.NoError(t, json.Unmarshal([]byte(data), &snap))
	assert.Len(t, snap.Lines, 2)

	const submits = 50
	for i := 0; i < submits; i++ {
		console.SubmitCommand("help")
	}

	total := len(snap.Lines)
	for total < 2*(submits+1) {
		event, data := next()
		require.Equal(t, "change", event, "the stream must survive a dropped subscription")
		var c history.Change
		require.NoError(t, json.Unmarshal([]byte(data), &c))
		require.Equal(t, history.Appended, c.Kind)
		total += len(c.Lines)
		assert.Equal(t, total, c.Len, "no line is delivered twice")
	}
}

func TestSubscribeEvents_UnknownSession(t *testing.T) {
	h, _ := newTestHandler(t)
	w := do(t, h, "GET", "/sessions/nope/events", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
