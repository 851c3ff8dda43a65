package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/dealerdesk/concierge/internal/analytics"
	"github.com/dealerdesk/concierge/internal/config"
	"github.com/dealerdesk/concierge/internal/knowledge"
	"github.com/dealerdesk/concierge/internal/observability"
	"github.com/dealerdesk/concierge/internal/router"
	"github.com/dealerdesk/concierge/internal/session"
)

// Orchestrator is the request-processing core consumed by the transport.
type Orchestrator interface {
	ProcessRequest(ctx context.Context, message, sessionID string) router.Response
	Reset(ctx context.Context, sessionID string) (string, error)
}

type Server struct {
	cfg          config.Config
	sessions     *session.Manager
	orchestrator Orchestrator
	metrics      *observability.Metrics
	analytics    *analytics.Logger
	upgrader     websocket.Upgrader
}

func New(cfg config.Config, sessions *session.Manager, orchestrator Orchestrator, metrics *observability.Metrics, analyticsLog *analytics.Logger) *Server {
	if analyticsLog == nil {
		analyticsLog = analytics.NewLogger("", false)
	}
	return &Server{
		cfg:          cfg,
		sessions:     sessions,
		orchestrator: orchestrator,
		metrics:      metrics,
		analytics:    analyticsLog,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				// Only allow browser websocket connections from the same
				// origin unless explicitly opened up. Non-browser clients
				// often omit Origin; allow them.
				if cfg.AllowAnyOrigin {
					return true
				}
				origin := strings.TrimSpace(r.Header.Get("Origin"))
				if origin == "" {
					return true
				}
				u, err := url.Parse(origin)
				if err != nil {
					return false
				}
				if u.Scheme != "http" && u.Scheme != "https" {
					return false
				}
				return strings.EqualFold(u.Host, r.Host)
			},
		},
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		observability.MetricsHandler().ServeHTTP(w, r)
	})

	r.Post("/api/chat", s.handleChat)
	r.Get("/api/chat/ws", s.handleChatWS)
	r.Post("/api/reset", s.handleReset)
	r.Get("/api/dealership-info", s.handleDealershipInfo)

	return r
}

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

type chatResponse struct {
	Response       string `json:"response"`
	ConversationID string `json:"conversation_id"`
	SessionID      string `json:"session_id"`
	Source         string `json:"source"`
	Data           any    `json:"data,omitempty"`
	ErrorCode      string `json:"error_code,omitempty"`
}

type resetRequest struct {
	SessionID string `json:"session_id"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"status": "ready"})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		respondError(w, http.StatusBadRequest, "empty_message", "no message provided")
		return
	}

	sess := s.sessions.Ensure(req.SessionID)
	s.metrics.ActiveSessions.Set(float64(s.sessions.ActiveCount()))

	res := s.orchestrator.ProcessRequest(r.Context(), req.Message, sess.ID)

	s.analytics.Log(analyticsEntryFor(req.Message, res, sess.ID, r.UserAgent()))

	respondJSON(w, http.StatusOK, chatResponse{
		Response:       res.Text,
		ConversationID: res.ConversationID,
		SessionID:      sess.ID,
		Source:         res.Source,
		Data:           auxOrNil(res),
		ErrorCode:      res.ErrorCode,
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if strings.TrimSpace(req.SessionID) == "" {
		respondError(w, http.StatusBadRequest, "missing_session_id", "session_id is required")
		return
	}

	convID, err := s.orchestrator.Reset(r.Context(), req.SessionID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "reset_failed", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"status":          "success",
		"message":         "Conversation reset",
		"conversation_id": convID,
	})
}

func (s *Server) handleDealershipInfo(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"info":     knowledge.Info(),
		"brands":   knowledge.Brands(),
		"services": map[string][]string{
			"sales":    knowledge.Services("sales"),
			"service":  knowledge.Services("service"),
			"specials": knowledge.Services("specials"),
		},
	})
}

var errEmptyBody = errors.New("empty body")

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		return err
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return errEmptyBody
	}
	return json.Unmarshal(body, v)
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: message, Code: code})
}

func analyticsEntryFor(message string, res router.Response, sessionID, userAgent string) analytics.Entry {
	return analytics.Entry{
		UserMessage:       message,
		AssistantResponse: res.Text,
		Metadata: map[string]any{
			"conversation_id": res.ConversationID,
			"session_id":      sessionID,
			"source":          res.Source,
			"user_agent":      userAgent,
		},
	}
}

func auxOrNil(res router.Response) any {
	if len(res.Aux) == 0 {
		return nil
	}
	return res.Aux
}

// ServeWithShutdown runs the HTTP server until the context is cancelled,
// then drains within the configured shutdown timeout.
func ServeWithShutdown(ctx context.Context, srv *http.Server, timeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		_ = srv.Close()
		return err
	}
	return <-errCh
}
