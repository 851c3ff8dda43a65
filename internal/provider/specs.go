package provider

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/dealerdesk/concierge/internal/classify"
)

// Specs fetches vehicle specification data from the car API.
type Specs struct {
	baseURL string
	client  *http.Client
}

func NewSpecs(baseURL string, timeout time.Duration) *Specs {
	return &Specs{baseURL: baseURL, client: newHTTPClient(timeout)}
}

func (p *Specs) Name() string { return SourceSpecs }

func (p *Specs) Fetch(ctx context.Context, query classify.Query) Result {
	params := url.Values{}
	if query.HasMake() {
		params.Set("make", query.Make)
	}

	obj, err := getJSON(ctx, p.client, p.baseURL, "/specs", params)
	if err != nil {
		log.Printf("specs provider: %v", err)
		return failure(SourceSpecs)
	}
	return success(SourceSpecs, obj)
}
