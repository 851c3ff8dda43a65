package provider

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/dealerdesk/concierge/internal/classify"
)

// TimeFormat renders the dealership-local timestamp in responses.
const TimeFormat = "January 2, 2006 15:04:05 MST"

// Realtime combines the dealership-local current time with best-effort
// live web data (offers, search snippets). The current time is computed
// locally and is always present in a successful payload; only the remote
// fields degrade when the web backend is unreachable.
type Realtime struct {
	baseURL string
	client  *http.Client
	loc     *time.Location
	now     func() time.Time
}

func NewRealtime(baseURL, timezone string, timeout time.Duration) *Realtime {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		log.Printf("realtime provider: unknown timezone %q, using UTC", timezone)
		loc = time.UTC
	}
	return &Realtime{
		baseURL: baseURL,
		client:  newHTTPClient(timeout),
		loc:     loc,
		now:     time.Now,
	}
}

func (p *Realtime) Name() string { return SourceRealtime }

func (p *Realtime) Fetch(ctx context.Context, query classify.Query) Result {
	payload := map[string]any{
		"current_time": p.now().In(p.loc).Format(TimeFormat),
	}

	if p.baseURL != "" {
		params := url.Values{}
		if query.HasMake() {
			params.Set("make", query.Make)
		}
		if query.HasTopic() {
			params.Set("topic", query.Topic)
		}
		if obj, err := getJSON(ctx, p.client, p.baseURL, "/search", params); err == nil {
			payload["web"] = obj
		} else {
			log.Printf("realtime provider: %v", err)
		}
	}

	return success(SourceRealtime, payload)
}
