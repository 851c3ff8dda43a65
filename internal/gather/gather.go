// Package gather fans out one request to the selected data providers
// concurrently and collects every result, success or failure, before
// returning. Aggregation is best-effort: one slow or failing source never
// blocks or discards the others.
package gather

import (
	"context"
	"sync"

	"github.com/sourcegraph/conc"

	"github.com/dealerdesk/concierge/internal/classify"
	"github.com/dealerdesk/concierge/internal/provider"
)

// Payload maps source name to its result. It is built once per request
// and read-only after Gather returns.
type Payload map[string]provider.Result

// OK reports whether the named source returned usable data.
func (p Payload) OK(source string) bool {
	r, ok := p[source]
	return ok && r.OK
}

// Registry holds the configured providers keyed by name.
type Registry struct {
	sources map[string]provider.Source
}

func NewRegistry(sources ...provider.Source) *Registry {
	m := make(map[string]provider.Source, len(sources))
	for _, s := range sources {
		m[s.Name()] = s
	}
	return &Registry{sources: m}
}

func (r *Registry) Get(name string) (provider.Source, bool) {
	s, ok := r.sources[name]
	return s, ok
}

// Select picks the providers relevant to a classified query. Vehicle data
// sources only fire when a make was recognized; the realtime source fires
// on every non-cached request.
func (r *Registry) Select(query classify.Query) []provider.Source {
	var out []provider.Source
	if query.HasMake() {
		for _, name := range []string{provider.SourceInventory, provider.SourceSpecs, provider.SourceSafety} {
			if s, ok := r.sources[name]; ok {
				out = append(out, s)
			}
		}
	}
	if s, ok := r.sources[provider.SourceRealtime]; ok {
		out = append(out, s)
	}
	return out
}

// Gather runs one fetch per source concurrently and waits for all of them
// to settle. Failed sources appear in the payload with OK=false; the call
// itself never fails.
func Gather(ctx context.Context, query classify.Query, sources []provider.Source) Payload {
	payload := make(Payload, len(sources))
	if len(sources) == 0 {
		return payload
	}

	var mu sync.Mutex
	var wg conc.WaitGroup
	for _, src := range sources {
		src := src // pin per-iteration copy; module builds with pre-1.22 loopvar semantics
		wg.Go(func() {
			res := src.Fetch(ctx, query)
			mu.Lock()
			payload[src.Name()] = res
			mu.Unlock()
		})
	}
	wg.Wait()

	return payload
}
