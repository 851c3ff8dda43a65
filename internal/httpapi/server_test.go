package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dealerdesk/concierge/internal/analytics"
	"github.com/dealerdesk/concierge/internal/config"
	"github.com/dealerdesk/concierge/internal/convo"
	"github.com/dealerdesk/concierge/internal/gather"
	"github.com/dealerdesk/concierge/internal/knowledge"
	"github.com/dealerdesk/concierge/internal/llm"
	"github.com/dealerdesk/concierge/internal/observability"
	"github.com/dealerdesk/concierge/internal/provider"
	"github.com/dealerdesk/concierge/internal/router"
	"github.com/dealerdesk/concierge/internal/session"
)

var metricsSeq atomic.Int64

func newTestServer(t *testing.T, llmClient llm.Client, stubs ...provider.Source) (*httptest.Server, *llm.Mock) {
	t.Helper()

	mock, _ := llmClient.(*llm.Mock)
	cfg := config.Config{SessionInactivityTimeout: 2 * time.Minute}
	sessions := session.NewManager(cfg.SessionInactivityTimeout)
	metrics := observability.NewMetrics(fmt.Sprintf("test_httpapi_%d", metricsSeq.Add(1)))

	core := router.New(
		knowledge.NewCache(time.Hour, 64),
		convo.NewInMemoryStore(),
		sessions,
		gather.NewRegistry(stubs...),
		llmClient,
		metrics,
	)

	srv := New(cfg, sessions, core, metrics, analytics.NewLogger("", false))
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts, mock
}

func postChat(t *testing.T, ts *httptest.Server, message, sessionID string) chatResponse {
	t.Helper()
	body, _ := json.Marshal(chatRequest{Message: message, SessionID: sessionID})
	res, err := http.Post(ts.URL+"/api/chat", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("chat request error = %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("chat status = %d, want %d", res.StatusCode, http.StatusOK)
	}
	var out chatResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		t.Fatalf("decode chat response: %v", err)
	}
	return out
}

func TestChatHoursEndToEnd(t *testing.T) {
	ts, mock := newTestServer(t, llm.NewMock("never"),
		&provider.Stub{SourceName: provider.SourceRealtime, Payload: map[string]any{"current_time": "x"}})

	first := postChat(t, ts, "What are your hours?", "visitor-1")
	if first.Source != "knowledge_base" {
		t.Fatalf("first Source = %q, want knowledge_base", first.Source)
	}
	if !strings.Contains(first.Response, "Sales Hours") || !strings.Contains(first.Response, "Service Hours") {
		t.Fatalf("hours response missing sections: %q", first.Response)
	}
	if mock.Calls() != 0 {
		t.Fatalf("LLM called %d times for hours question, want 0", mock.Calls())
	}

	second := postChat(t, ts, "What are your hours?", "visitor-1")
	if second.Source != "cache" {
		t.Fatalf("repeat Source = %q, want cache", second.Source)
	}
	if second.Response != first.Response {
		t.Fatalf("cached text differs from knowledge_base text")
	}
}

func TestChatDegradedProvidersEndToEnd(t *testing.T) {
	ts, _ := newTestServer(t, llm.NewMock("Q5 overview"),
		&provider.Stub{SourceName: provider.SourceInventory, Fail: true},
		&provider.Stub{SourceName: provider.SourceSpecs, Fail: true},
		&provider.Stub{SourceName: provider.SourceSafety, Fail: true},
		&provider.Stub{SourceName: provider.SourceRealtime, Fail: true},
	)

	out := postChat(t, ts, "Tell me about the Audi Q5", "visitor-1")
	if out.Source != "llm" {
		t.Fatalf("Source = %q, want llm", out.Source)
	}
	if out.Response != "Q5 overview" {
		t.Fatalf("Response = %q", out.Response)
	}
	if out.ErrorCode != "" {
		t.Fatalf("ErrorCode = %q, want empty", out.ErrorCode)
	}
}

func TestChatRejectsEmptyMessage(t *testing.T) {
	ts, _ := newTestServer(t, llm.NewMock(""))

	body, _ := json.Marshal(chatRequest{Message: "   ", SessionID: "v"})
	res, err := http.Post(ts.URL+"/api/chat", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("request error = %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusBadRequest)
	}
}

func TestResetEndpoint(t *testing.T) {
	ts, _ := newTestServer(t, llm.NewMock("reply"),
		&provider.Stub{SourceName: provider.SourceRealtime, Payload: map[string]any{"current_time": "x"}})

	before := postChat(t, ts, "hello there", "visitor-9")

	body, _ := json.Marshal(resetRequest{SessionID: "visitor-9"})
	res, err := http.Post(ts.URL+"/api/reset", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("reset request error = %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("reset status = %d", res.StatusCode)
	}
	var out map[string]any
	json.NewDecoder(res.Body).Decode(&out)
	newConv, _ := out["conversation_id"].(string)
	if newConv == "" || newConv == before.ConversationID {
		t.Fatalf("reset conversation id = %q, want fresh id (old %q)", newConv, before.ConversationID)
	}
}

func TestResetRequiresSessionID(t *testing.T) {
	ts, _ := newTestServer(t, llm.NewMock(""))

	res, err := http.Post(ts.URL+"/api/reset", "application/json", bytes.NewReader([]byte(`{}`)))
	if err != nil {
		t.Fatalf("request error = %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusBadRequest)
	}
}

func TestDealershipInfoEndpoint(t *testing.T) {
	ts, _ := newTestServer(t, llm.NewMock(""))

	res, err := http.Get(ts.URL + "/api/dealership-info")
	if err != nil {
		t.Fatalf("request error = %v", err)
	}
	defer res.Body.Close()
	var out map[string]any
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	info, _ := out["info"].(map[string]any)
	if info["name"] != "Jack Ingram Motors" {
		t.Fatalf("dealership info = %+v", out)
	}
	brands, _ := out["brands"].(map[string]any)
	if len(brands) != 6 {
		t.Fatalf("brands = %d, want 6", len(brands))
	}
}

func TestHealthEndpoints(t *testing.T) {
	ts, _ := newTestServer(t, llm.NewMock(""))
	for _, path := range []string{"/healthz", "/readyz"} {
		res, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatalf("%s error = %v", path, err)
		}
		res.Body.Close()
		if res.StatusCode != http.StatusOK {
			t.Fatalf("%s status = %d", path, res.StatusCode)
		}
	}
}

func TestChatWebSocketRoundTrip(t *testing.T) {
	ts, _ := newTestServer(t, llm.NewMock("ws reply"),
		&provider.Stub{SourceName: provider.SourceRealtime, Payload: map[string]any{"current_time": "x"}})

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/chat/ws?session_id=ws-visitor"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("ws dial error = %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(chatRequest{Message: "hello over ws"}); err != nil {
		t.Fatalf("ws write error = %v", err)
	}

	var out chatResponse
	if err := conn.ReadJSON(&out); err != nil {
		t.Fatalf("ws read error = %v", err)
	}
	if out.Response != "ws reply" || out.Source != "llm" {
		t.Fatalf("ws response = %+v", out)
	}
	if out.SessionID != "ws-visitor" {
		t.Fatalf("ws session id = %q", out.SessionID)
	}
}
