package llm

import (
	"context"
	"sync/atomic"
)

// Mock is a deterministic Client for tests and keyless local runs.
type Mock struct {
	Text string
	Err  error

	calls atomic.Int64
}

func NewMock(text string) *Mock { return &Mock{Text: text} }

func (m *Mock) Complete(ctx context.Context, req Request) (Reply, error) {
	m.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return Reply{}, &ProviderError{Code: CodeTransport, Err: err}
	}
	if m.Err != nil {
		return Reply{}, m.Err
	}
	text := m.Text
	if text == "" {
		text = "I heard you: " + req.UserMessage
	}
	return Reply{Text: text, ConversationID: "mock-conv", Model: "mock"}, nil
}

// Calls reports how many times Complete ran.
func (m *Mock) Calls() int { return int(m.calls.Load()) }
