package convo

import (
	"context"
	"fmt"
	"sync"
	"testing"
)

func TestAppendPreservesOrder(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		role := RoleUser
		if i%2 == 1 {
			role = RoleAssistant
		}
		if err := s.Append(ctx, Turn{SessionID: "s1", Role: role, Content: fmt.Sprintf("m%d", i)}); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	turns, err := s.History(ctx, "s1")
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(turns) != 5 {
		t.Fatalf("History() len = %d, want 5", len(turns))
	}
	for i, turn := range turns {
		if turn.Content != fmt.Sprintf("m%d", i) {
			t.Fatalf("turn %d content = %q, want m%d", i, turn.Content, i)
		}
		if turn.ID == "" {
			t.Fatalf("turn %d missing generated id", i)
		}
	}
}

func TestSessionIsolation(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	s.Append(ctx, Turn{SessionID: "a", Role: RoleUser, Content: "from a"})
	s.Append(ctx, Turn{SessionID: "b", Role: RoleUser, Content: "from b"})

	turnsA, _ := s.History(ctx, "a")
	if len(turnsA) != 1 || turnsA[0].Content != "from a" {
		t.Fatalf("session a history = %+v", turnsA)
	}

	if err := s.Reset(ctx, "a"); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	turnsA, _ = s.History(ctx, "a")
	if len(turnsA) != 0 {
		t.Fatalf("session a history after reset = %+v, want empty", turnsA)
	}
	turnsB, _ := s.History(ctx, "b")
	if len(turnsB) != 1 {
		t.Fatalf("reset of a must not touch b, got %+v", turnsB)
	}
}

func TestResetIsIdempotent(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()
	s.Append(ctx, Turn{SessionID: "s", Role: RoleUser, Content: "hi"})

	for i := 0; i < 2; i++ {
		if err := s.Reset(ctx, "s"); err != nil {
			t.Fatalf("Reset() #%d error = %v", i+1, err)
		}
		turns, _ := s.History(ctx, "s")
		if len(turns) != 0 {
			t.Fatalf("history after reset #%d = %+v, want empty", i+1, turns)
		}
	}
}

func TestHistoryReturnsCopy(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()
	s.Append(ctx, Turn{SessionID: "s", Role: RoleUser, Content: "original"})

	turns, _ := s.History(ctx, "s")
	turns[0].Content = "mutated"

	again, _ := s.History(ctx, "s")
	if again[0].Content != "original" {
		t.Fatalf("History() must return a copy, store content = %q", again[0].Content)
	}
}

func TestConcurrentAppendsAllLand(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.Append(ctx, Turn{SessionID: "s", Role: RoleUser, Content: fmt.Sprintf("m%d", i)})
		}(i)
	}
	wg.Wait()

	turns, _ := s.History(ctx, "s")
	if len(turns) != 20 {
		t.Fatalf("History() len = %d, want 20", len(turns))
	}
}
