package mock

import (
	"context"
	"sync/atomic"

	"github.com/poiesic/counselbase/ai"
)

// MockCompleter is a test double for ai.Completer.
// It allows custom behavior injection via function fields.
//
// Complete is safe for concurrent use, matching the ai.Completer contract.
// CompleteFunc must be set before the mock is shared.
type MockCompleter struct {
	// CompleteFunc is called by Complete if set.
	// If nil, returns a canned reply.
	CompleteFunc func(ctx context.Context, messages []ai.Message) (string, error)

	callCount atomic.Int64
}

// NewMockCompleter creates a mock completer with default canned behavior.
func NewMockCompleter() *MockCompleter {
	return &MockCompleter{}
}

// Complete returns the injected reply or a canned one.
func (m *MockCompleter) Complete(ctx context.Context, messages []ai.Message) (string, error) {
	m.callCount.Add(1)

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, messages)
	}

	return "mock completion", nil
}

// CallCount returns the number of times Complete was called.
func (m *MockCompleter) CallCount() int {
	return int(m.callCount.Load())
}

// Reset clears the call count and injected behavior.
func (m *MockCompleter) Reset() {
	m.callCount.Store(0)
	m.CompleteFunc = nil
}
