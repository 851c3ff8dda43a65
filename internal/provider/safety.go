package provider

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dealerdesk/concierge/internal/classify"
)

// Safety fetches crash-test ratings from the NHTSA-style safety API.
type Safety struct {
	baseURL string
	client  *http.Client
}

func NewSafety(baseURL string, timeout time.Duration) *Safety {
	return &Safety{baseURL: baseURL, client: newHTTPClient(timeout)}
}

func (p *Safety) Name() string { return SourceSafety }

func (p *Safety) Fetch(ctx context.Context, query classify.Query) Result {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("modelYear", strconv.Itoa(time.Now().Year()))
	if query.HasMake() {
		params.Set("make", query.Make)
	}

	obj, err := getJSON(ctx, p.client, p.baseURL, "/api/SafetyRatings", params)
	if err != nil {
		log.Printf("safety provider: %v", err)
		return failure(SourceSafety)
	}
	return success(SourceSafety, obj)
}
