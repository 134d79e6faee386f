package mocks

import (
	"context"
	"sync"

	"github.com/curio-labs/searchlab-core/internal/core/domain"
	"github.com/curio-labs/searchlab-core/internal/core/ports/driven"
)

var _ driven.SearchBackend = (*MockSearchBackend)(nil)

// BackendCall records one call made against the mock
type BackendCall struct {
	Op       string
	Method   domain.Method
	Query    string
	Filename string
	Payload  []byte
}

// MockSearchBackend is a mock implementation of SearchBackend for
// testing. Responses and errors are scripted per method; a gate channel
// can hold a method's calls open until released, which lets tests drive
// overlapping queries deterministically.
type MockSearchBackend struct {
	mu        sync.Mutex
	responses map[domain.Method]*domain.MethodResponse
	errors    map[domain.Method]error
	gates     map[domain.Method]chan struct{}
	calls     []BackendCall
}

// NewMockSearchBackend creates a new MockSearchBackend
func NewMockSearchBackend() *MockSearchBackend {
	return &MockSearchBackend{
		responses: make(map[domain.Method]*domain.MethodResponse),
		errors:    make(map[domain.Method]error),
		gates:     make(map[domain.Method]chan struct{}),
	}
}

// SetResponse scripts the response returned for a method
func (m *MockSearchBackend) SetResponse(method domain.Method, resp *domain.MethodResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[method] = resp
}

// SetError scripts a failure for a method
func (m *MockSearchBackend) SetError(method domain.Method, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[method] = err
}

// Gate makes calls for a method block until Release is invoked
func (m *MockSearchBackend) Gate(method domain.Method) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gates[method] = make(chan struct{})
}

// Release unblocks all held calls for a gated method
func (m *MockSearchBackend) Release(method domain.Method) {
	m.mu.Lock()
	gate := m.gates[method]
	delete(m.gates, method)
	m.mu.Unlock()
	if gate != nil {
		close(gate)
	}
}

// Calls returns a copy of all recorded calls in arrival order
func (m *MockSearchBackend) Calls() []BackendCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]BackendCall(nil), m.calls...)
}

func (m *MockSearchBackend) SearchText(ctx context.Context, method domain.Method, query string) (*domain.MethodResponse, error) {
	return m.respond(ctx, BackendCall{Op: "text", Method: method, Query: query})
}

func (m *MockSearchBackend) SearchAudio(ctx context.Context, method domain.Method, audio []byte, filename string) (*domain.MethodResponse, error) {
	return m.respond(ctx, BackendCall{Op: "audio", Method: method, Filename: filename, Payload: audio})
}

func (m *MockSearchBackend) SearchImage(ctx context.Context, method domain.Method, image []byte, filename string) (*domain.MethodResponse, error) {
	return m.respond(ctx, BackendCall{Op: "image", Method: method, Filename: filename, Payload: image})
}

func (m *MockSearchBackend) respond(ctx context.Context, call BackendCall) (*domain.MethodResponse, error) {
	m.mu.Lock()
	m.calls = append(m.calls, call)
	gate := m.gates[call.Method]
	m.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.errors[call.Method]; err != nil {
		return nil, err
	}
	if resp, ok := m.responses[call.Method]; ok {
		return resp, nil
	}
	return &domain.MethodResponse{Method: call.Method}, nil
}
