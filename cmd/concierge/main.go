package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dealerdesk/concierge/internal/analytics"
	"github.com/dealerdesk/concierge/internal/config"
	"github.com/dealerdesk/concierge/internal/convo"
	"github.com/dealerdesk/concierge/internal/gather"
	"github.com/dealerdesk/concierge/internal/httpapi"
	"github.com/dealerdesk/concierge/internal/knowledge"
	"github.com/dealerdesk/concierge/internal/llm"
	"github.com/dealerdesk/concierge/internal/observability"
	"github.com/dealerdesk/concierge/internal/provider"
	"github.com/dealerdesk/concierge/internal/router"
	"github.com/dealerdesk/concierge/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	metrics := observability.NewMetrics(cfg.MetricsNamespace)

	ctx := context.Background()
	history, err := convo.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("conversation store init failed: %v", err)
	}
	defer history.Close()

	registry := gather.NewRegistry(
		provider.NewInventory(cfg.InventoryBaseURL, cfg.ProviderTimeout),
		provider.NewSpecs(cfg.SpecsBaseURL, cfg.ProviderTimeout),
		provider.NewSafety(cfg.SafetyBaseURL, cfg.ProviderTimeout),
		provider.NewRealtime(cfg.RealtimeBaseURL, cfg.Timezone, cfg.ProviderTimeout),
	)

	var llmClient llm.Client
	if cfg.AnthropicAPIKey != "" {
		llmClient = llm.NewHTTPClient(llm.HTTPConfig{
			APIURL:    cfg.AnthropicAPIURL,
			APIKey:    cfg.AnthropicAPIKey,
			Model:     cfg.AnthropicModel,
			MaxTokens: cfg.LLMMaxTokens,
			Timeout:   cfg.LLMTimeout,
		})
		log.Printf("llm client: anthropic (%s)", cfg.AnthropicModel)
	} else {
		llmClient = llm.NewMock("")
		log.Printf("llm client: mock (no ANTHROPIC_API_KEY set)")
	}

	sessions := session.NewManager(cfg.SessionInactivityTimeout)

	cache := knowledge.NewCache(cfg.CacheTTL, cfg.CacheCapacity)
	core := router.New(cache, history, sessions, registry, llmClient, metrics)

	// An expired session's history is cleared so a returning visitor with
	// the same id starts a fresh conversation.
	sessions.SetExpireHook(func(s *session.Session) {
		resetCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := history.Reset(resetCtx, s.ID); err != nil {
			log.Printf("expire reset for %s: %v", s.ID, err)
		}
		metrics.ActiveSessions.Set(float64(sessions.ActiveCount()))
	})

	analyticsLog := analytics.NewLogger(cfg.AnalyticsLogFile, cfg.AnalyticsEnabled)

	api := httpapi.New(cfg, sessions, core, metrics, analyticsLog)
	httpServer := &http.Server{
		Addr:    cfg.BindAddr,
		Handler: api.Router(),
	}

	runCtx, runCancel := context.WithCancel(context.Background())
	defer runCancel()
	sessions.StartJanitor(runCtx, 30*time.Second)

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Printf("shutdown signal received")
		runCancel()
	}()

	log.Printf("server listening on %s", cfg.BindAddr)
	if err := httpapi.ServeWithShutdown(runCtx, httpServer, cfg.ShutdownTimeout); err != nil {
		log.Fatalf("server error: %v", err)
	}
	log.Printf("shutdown complete")
}
