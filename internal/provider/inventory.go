package provider

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/dealerdesk/concierge/internal/classify"
)

// Inventory fetches live stock and current offers from the dealership
// inventory API.
type Inventory struct {
	baseURL string
	client  *http.Client
}

func NewInventory(baseURL string, timeout time.Duration) *Inventory {
	return &Inventory{baseURL: baseURL, client: newHTTPClient(timeout)}
}

func (p *Inventory) Name() string { return SourceInventory }

func (p *Inventory) Fetch(ctx context.Context, query classify.Query) Result {
	params := url.Values{}
	if query.HasMake() {
		params.Set("make", query.Make)
	}

	vehicles, err := getJSON(ctx, p.client, p.baseURL, "/vehicles", params)
	if err != nil {
		log.Printf("inventory provider: %v", err)
		return failure(SourceInventory)
	}

	payload := map[string]any{"vehicles": vehicles["vehicles"]}

	// Current offers ride along best-effort; a failure here only drops
	// the offers field, not the whole result.
	if offers, err := getJSON(ctx, p.client, p.baseURL, "/offers", params); err == nil {
		payload["offers"] = filterExpiredOffers(offers["offers"], time.Now())
	} else {
		log.Printf("inventory provider offers: %v", err)
	}

	return success(SourceInventory, payload)
}

// filterExpiredOffers drops offers whose "expires" date (YYYY-MM-DD) is in
// the past. Malformed entries are kept rather than guessed at.
func filterExpiredOffers(raw any, now time.Time) []any {
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	today := now.Format("2006-01-02")
	kept := make([]any, 0, len(items))
	for _, item := range items {
		offer, ok := item.(map[string]any)
		if !ok {
			continue
		}
		expires, ok := offer["expires"].(string)
		if ok {
			if exp, err := time.Parse("2006-01-02", expires); err == nil {
				if exp.Format("2006-01-02") < today {
					continue
				}
			}
		}
		kept = append(kept, offer)
	}
	return kept
}
