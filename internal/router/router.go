// Package router is the request orchestrator: it classifies an inbound
// message, consults the knowledge cache, fans out to the relevant data
// providers and the LLM concurrently, merges the results under a fixed
// priority policy, and threads conversation history into the LLM call.
package router

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/dealerdesk/concierge/internal/classify"
	"github.com/dealerdesk/concierge/internal/convo"
	"github.com/dealerdesk/concierge/internal/gather"
	"github.com/dealerdesk/concierge/internal/knowledge"
	"github.com/dealerdesk/concierge/internal/llm"
	"github.com/dealerdesk/concierge/internal/observability"
	"github.com/dealerdesk/concierge/internal/provider"
	"github.com/dealerdesk/concierge/internal/session"
)

// Response source tags.
const (
	SourceCache         = "cache"
	SourceKnowledgeBase = "knowledge_base"
	SourceLLM           = "llm"
	SourceRealtime      = "realtime"
)

const apologyText = "I'm sorry, I'm having trouble processing your request right now. Please try again in a moment."

// Response is the orchestration outcome. ProcessRequest never returns a
// Go error: a terminal LLM failure appears here as the apology text plus
// an ErrorCode.
type Response struct {
	Text           string         `json:"response"`
	Aux            gather.Payload `json:"data,omitempty"`
	ConversationID string         `json:"conversation_id"`
	Source         string         `json:"source"`
	ErrorCode      string         `json:"error_code,omitempty"`
}

// Router drives one request through classify, cache, gather, merge, and
// history update.
type Router struct {
	cache    *knowledge.Cache
	history  convo.Store
	sessions *session.Manager
	registry *gather.Registry
	llm      llm.Client
	metrics  *observability.Metrics

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func New(
	cache *knowledge.Cache,
	history convo.Store,
	sessions *session.Manager,
	registry *gather.Registry,
	llmClient llm.Client,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		cache:    cache,
		history:  history,
		sessions: sessions,
		registry: registry,
		llm:      llmClient,
		metrics:  metrics,
		locks:    make(map[string]*sync.Mutex),
	}
}

// sessionLock serializes request processing per session so the history
// append/read pair stays atomic when a client issues overlapping requests.
func (r *Router) sessionLock(sessionID string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.locks[sessionID]
	if !ok {
		l = &sync.Mutex{}
		r.locks[sessionID] = l
	}
	return l
}

// ProcessRequest handles one inbound message end to end.
func (r *Router) ProcessRequest(ctx context.Context, message, sessionID string) Response {
	sess := r.sessions.Ensure(sessionID)

	lock := r.sessionLock(sess.ID)
	lock.Lock()
	defer lock.Unlock()

	query := classify.Classify(message)
	if query.HasMake() {
		query.Tone = knowledge.BrandTone(query.Make)
		query.PopularModels = knowledge.BrandModels(query.Make)
	}

	// Cache first: a repeated question inside the TTL window never
	// reaches a provider or the LLM.
	if text, ok := r.cache.Lookup(message); ok {
		r.metrics.CacheEvents.WithLabelValues("hit").Inc()
		r.metrics.ChatRequests.WithLabelValues(SourceCache).Inc()
		return Response{Text: text, ConversationID: sess.ConversationID, Source: SourceCache}
	}
	r.metrics.CacheEvents.WithLabelValues("miss").Inc()

	// Static knowledge second: administrative questions (hours, location,
	// contact, services) are answered from the reference tables and cached,
	// short-circuiting before any provider or LLM call.
	if category := classify.StaticCategory(message); category != "" {
		if text := knowledge.Answer(category, query.Make); text != "" {
			r.cache.Store(message, text)
			r.metrics.ChatRequests.WithLabelValues(SourceKnowledgeBase).Inc()
			return Response{Text: text, ConversationID: sess.ConversationID, Source: SourceKnowledgeBase}
		}
	}

	history, err := r.history.History(ctx, sess.ID)
	if err != nil {
		log.Printf("router: read history for %s: %v", sess.ID, err)
		history = nil
	}

	// Gather and the LLM call run concurrently; merge waits for both.
	var (
		payload gather.Payload
		reply   llm.Reply
		llmErr  error
		wg      sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		payload = gather.Gather(ctx, query, r.registry.Select(query))
	}()
	go func() {
		defer wg.Done()
		start := time.Now()
		reply, llmErr = r.llm.Complete(ctx, llm.Request{
			History:     history,
			UserMessage: message,
			ContextNote: contextNote(query),
		})
		r.metrics.ObserveLLMLatency(time.Since(start))
	}()
	wg.Wait()

	for name, res := range payload {
		if !res.OK {
			r.metrics.ProviderErrors.WithLabelValues(name, "fetch").Inc()
		}
	}

	return r.merge(ctx, sess, message, payload, reply, llmErr)
}

// merge applies the fixed priority policy: date/time override beats the
// LLM text, which otherwise wins with the provider payload attached as
// auxiliary data.
func (r *Router) merge(
	ctx context.Context,
	sess *session.Session,
	message string,
	payload gather.Payload,
	reply llm.Reply,
	llmErr error,
) Response {
	if classify.MatchesTime(message) {
		if res, ok := payload[provider.SourceRealtime]; ok && res.OK {
			if ct, ok := res.Payload["current_time"].(string); ok && ct != "" {
				text := fmt.Sprintf("It is currently %s.", ct)
				r.updateHistory(ctx, sess.ID, message, text)
				r.metrics.ChatRequests.WithLabelValues(SourceRealtime).Inc()
				return Response{
					Text:           text,
					Aux:            payload,
					ConversationID: sess.ConversationID,
					Source:         SourceRealtime,
				}
			}
		}
	}

	if llmErr != nil {
		code := llm.Classify(llmErr)
		log.Printf("router: llm failure (%s): %v", code, llmErr)
		r.metrics.ProviderErrors.WithLabelValues("llm", string(code)).Inc()
		r.metrics.ChatRequests.WithLabelValues(SourceLLM).Inc()
		return Response{
			Text:           apologyText,
			Aux:            payload,
			ConversationID: sess.ConversationID,
			Source:         SourceLLM,
			ErrorCode:      string(code),
		}
	}

	r.updateHistory(ctx, sess.ID, message, reply.Text)
	r.metrics.ChatRequests.WithLabelValues(SourceLLM).Inc()
	return Response{
		Text:           reply.Text,
		Aux:            payload,
		ConversationID: sess.ConversationID,
		Source:         SourceLLM,
	}
}

func (r *Router) updateHistory(ctx context.Context, sessionID, userText, assistantText string) {
	if err := r.history.Append(ctx, convo.Turn{SessionID: sessionID, Role: convo.RoleUser, Content: userText}); err != nil {
		log.Printf("router: append user turn: %v", err)
		return
	}
	if err := r.history.Append(ctx, convo.Turn{SessionID: sessionID, Role: convo.RoleAssistant, Content: assistantText}); err != nil {
		log.Printf("router: append assistant turn: %v", err)
	}
}

// Reset clears the session's conversation history and mints a fresh
// conversation id. Idempotent.
func (r *Router) Reset(ctx context.Context, sessionID string) (string, error) {
	lock := r.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	if err := r.history.Reset(ctx, sessionID); err != nil {
		return "", fmt.Errorf("reset history: %w", err)
	}
	sess := r.sessions.ResetConversation(sessionID)
	return sess.ConversationID, nil
}

// contextNote summarizes the classified query for the LLM system prompt so
// brand tone and popular models inform the reply.
func contextNote(query classify.Query) string {
	if !query.HasMake() {
		return ""
	}
	tone := query.Tone
	if tone == "" {
		tone = knowledge.BrandTone(query.Make)
	}
	note := fmt.Sprintf("The customer is asking about %s. Use a %s tone.", query.Make, tone)
	if models := query.PopularModels; len(models) > 0 {
		note += " Popular models at this showroom: "
		for i, m := range models {
			if i > 0 {
				note += ", "
			}
			note += m
		}
		note += "."
	}
	return note
}
