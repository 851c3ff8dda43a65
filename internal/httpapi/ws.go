package httpapi

import (
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
)

// handleChatWS relays chat over a websocket: each inbound JSON frame is a
// chatRequest, each outbound frame the matching chatResponse. The session
// binds at upgrade time via the session_id query parameter.
func (s *Server) handleChatWS(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Ensure(strings.TrimSpace(r.URL.Query().Get("session_id")))
	s.metrics.ActiveSessions.Set(float64(s.sessions.ActiveCount()))

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		log.Printf("httpapi: ws upgrade: %v", err)
		return
	}
	defer conn.Close()

	for {
		var req chatRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("httpapi: ws read: %v", err)
			}
			return
		}
		if strings.TrimSpace(req.Message) == "" {
			if err := conn.WriteJSON(errorResponse{Error: "no message provided", Code: "empty_message"}); err != nil {
				return
			}
			continue
		}

		res := s.orchestrator.ProcessRequest(r.Context(), req.Message, sess.ID)

		s.analytics.Log(analyticsEntryFor(req.Message, res, sess.ID, r.UserAgent()))

		out := chatResponse{
			Response:       res.Text,
			ConversationID: res.ConversationID,
			SessionID:      sess.ID,
			Source:         res.Source,
			Data:           auxOrNil(res),
			ErrorCode:      res.ErrorCode,
		}
		if err := conn.WriteJSON(out); err != nil {
			log.Printf("httpapi: ws write: %v", err)
			return
		}
	}
}
