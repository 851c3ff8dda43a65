// Package provider wraps each external data source behind a uniform,
// non-raising fetch contract. A failing provider call is absorbed here:
// it logs and yields an empty Result instead of returning an error, so
// the aggregation layer never has to branch on provider identity or
// failure mode.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/dealerdesk/concierge/internal/classify"
)

// Source names used as aggregation keys.
const (
	SourceInventory = "inventory"
	SourceSpecs     = "specs"
	SourceSafety    = "safety"
	SourceRealtime  = "realtime"
)

// Result is the normalized outcome of one provider fetch. OK is false
// when the provider failed or returned nothing usable; Payload is nil in
// that case.
type Result struct {
	Source  string         `json:"source"`
	Payload map[string]any `json:"payload,omitempty"`
	OK      bool           `json:"ok"`
}

// Source is one external data provider. Fetch never returns an error:
// transport failures, timeouts, and malformed payloads all degrade to an
// empty Result.
type Source interface {
	Name() string
	Fetch(ctx context.Context, query classify.Query) Result
}

func failure(name string) Result {
	return Result{Source: name, OK: false}
}

func success(name string, payload map[string]any) Result {
	return Result{Source: name, Payload: payload, OK: true}
}

// getJSON issues a GET with the given query parameters and decodes a JSON
// object response. The per-adapter timeout lives in the http.Client.
func getJSON(ctx context.Context, client *http.Client, baseURL, path string, params url.Values) (map[string]any, error) {
	u := baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	res, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		return nil, fmt.Errorf("status %d: %s", res.StatusCode, string(body))
	}

	raw, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return obj, nil
}

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &http.Client{Timeout: timeout}
}
