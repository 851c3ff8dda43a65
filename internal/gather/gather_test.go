package gather

import (
	"context"
	"testing"
	"time"

	"github.com/dealerdesk/concierge/internal/classify"
	"github.com/dealerdesk/concierge/internal/provider"
)

func TestSelectNoMakeSkipsVehicleSources(t *testing.T) {
	reg := NewRegistry(
		&provider.Stub{SourceName: provider.SourceInventory},
		&provider.Stub{SourceName: provider.SourceSpecs},
		&provider.Stub{SourceName: provider.SourceSafety},
		&provider.Stub{SourceName: provider.SourceRealtime},
	)

	selected := reg.Select(classify.Query{})
	if len(selected) != 1 || selected[0].Name() != provider.SourceRealtime {
		names := make([]string, 0, len(selected))
		for _, s := range selected {
			names = append(names, s.Name())
		}
		t.Fatalf("Select(empty query) = %v, want only realtime", names)
	}
}

func TestSelectWithMakeIncludesAllVehicleSources(t *testing.T) {
	reg := NewRegistry(
		&provider.Stub{SourceName: provider.SourceInventory},
		&provider.Stub{SourceName: provider.SourceSpecs},
		&provider.Stub{SourceName: provider.SourceSafety},
		&provider.Stub{SourceName: provider.SourceRealtime},
	)

	selected := reg.Select(classify.Query{Make: "audi"})
	if len(selected) != 4 {
		t.Fatalf("Select(make query) returned %d sources, want 4", len(selected))
	}
}

func TestGatherPartialFailure(t *testing.T) {
	good := &provider.Stub{SourceName: provider.SourceInventory, Payload: map[string]any{"n": 2}}
	bad := &provider.Stub{SourceName: provider.SourceSpecs, Fail: true}
	slow := &provider.Stub{
		SourceName: provider.SourceSafety,
		Payload:    map[string]any{"stars": 5},
		Delay:      30 * time.Millisecond,
	}

	payload := Gather(context.Background(), classify.Query{Make: "audi"}, []provider.Source{good, bad, slow})

	if len(payload) != 3 {
		t.Fatalf("payload has %d entries, want 3 (failures included)", len(payload))
	}
	if !payload.OK(provider.SourceInventory) {
		t.Fatalf("inventory result should be OK")
	}
	if payload.OK(provider.SourceSpecs) {
		t.Fatalf("specs result should be degraded")
	}
	if !payload.OK(provider.SourceSafety) {
		t.Fatalf("slow safety result should still be collected")
	}
}

func TestGatherAllFailing(t *testing.T) {
	sources := []provider.Source{
		&provider.Stub{SourceName: provider.SourceInventory, Fail: true},
		&provider.Stub{SourceName: provider.SourceSpecs, Fail: true},
	}
	payload := Gather(context.Background(), classify.Query{Make: "audi"}, sources)
	for name, res := range payload {
		if res.OK {
			t.Fatalf("source %s reported OK, want failure", name)
		}
	}
	if len(payload) != 2 {
		t.Fatalf("payload has %d entries, want 2", len(payload))
	}
}

func TestGatherEmptySelection(t *testing.T) {
	payload := Gather(context.Background(), classify.Query{}, nil)
	if len(payload) != 0 {
		t.Fatalf("payload = %v, want empty", payload)
	}
}
