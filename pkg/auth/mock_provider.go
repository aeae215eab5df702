package auth

import (
	"context"
	"sync"
)

// MockProvider implements Provider for testing purposes
type MockProvider struct {
	Cookies Cookies
	Err     error

	mu    sync.Mutex
	calls int
}

// Acquire returns the configured cookies or error
func (m *MockProvider) Acquire(ctx context.Context) (Cookies, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	return m.Cookies, nil
}

// Calls reports how many times Acquire ran
func (m *MockProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
