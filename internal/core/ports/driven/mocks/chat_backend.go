package mocks

import (
	"context"
	"sync"

	"github.com/curio-labs/searchlab-core/internal/core/domain"
	"github.com/curio-labs/searchlab-core/internal/core/ports/driven"
)

var _ driven.ChatBackend = (*MockChatBackend)(nil)

// ChatCall records one call made against the mock
type ChatCall struct {
	Op       string
	Content  string
	Language string
	Filename string
	Payload  []byte
}

// MockChatBackend is a mock implementation of ChatBackend for testing.
// It keeps an in-memory transcript and aggregate so exchanges come back
// consistent, the way the real backends behave.
type MockChatBackend struct {
	mu       sync.Mutex
	messages []*domain.Message
	state    domain.AccumulatedState

	snapshotErr error
	sendErr     error
	clearErr    error

	userMetadata domain.Metadata
	reply        string

	calls      []ChatCall
	clearCount int
}

// NewMockChatBackend creates a new MockChatBackend
func NewMockChatBackend() *MockChatBackend {
	return &MockChatBackend{reply: "ok"}
}

// SetSnapshot seeds the state returned by Snapshot
func (m *MockChatBackend) SetSnapshot(messages []*domain.Message, state domain.AccumulatedState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = messages
	m.state = state
}

// SetSnapshotError scripts a Snapshot failure
func (m *MockChatBackend) SetSnapshotError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshotErr = err
}

// SetSendError scripts a failure for every send
func (m *MockChatBackend) SetSendError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sendErr = err
}

// SetClearError scripts a Clear failure
func (m *MockChatBackend) SetClearError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearErr = err
}

// SetUserMetadata scripts the metadata merged into the user entry on the
// next successful exchange
func (m *MockChatBackend) SetUserMetadata(meta domain.Metadata) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.userMetadata = meta
}

// SetReply scripts the assistant reply text
func (m *MockChatBackend) SetReply(reply string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reply = reply
}

// Calls returns a copy of all recorded calls
func (m *MockChatBackend) Calls() []ChatCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ChatCall(nil), m.calls...)
}

// ClearCount returns how many times Clear was called
func (m *MockChatBackend) ClearCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clearCount
}

func (m *MockChatBackend) Snapshot(ctx context.Context) (*driven.ChatSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.snapshotErr != nil {
		return nil, m.snapshotErr
	}
	return &driven.ChatSnapshot{
		State:    m.state.Clone(),
		Messages: m.messages,
	}, nil
}

func (m *MockChatBackend) SendText(ctx context.Context, content string) (*driven.ChatExchange, error) {
	return m.exchange(ChatCall{Op: "text", Content: content}, domain.KindText, content, nil)
}

func (m *MockChatBackend) SendAudio(ctx context.Context, audio []byte, filename string) (*driven.ChatExchange, error) {
	return m.exchange(ChatCall{Op: "audio", Filename: filename, Payload: audio}, domain.KindAudio, filename, nil)
}

func (m *MockChatBackend) SendImage(ctx context.Context, image []byte, filename string) (*driven.ChatExchange, error) {
	return m.exchange(ChatCall{Op: "image", Filename: filename, Payload: image}, domain.KindImage, filename, nil)
}

func (m *MockChatBackend) SendSnippet(ctx context.Context, content, language string) (*driven.ChatExchange, error) {
	return m.exchange(ChatCall{Op: "snippet", Content: content, Language: language}, domain.KindSnippet, content, domain.Metadata{
		domain.MetaLanguage: language,
	})
}

func (m *MockChatBackend) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearCount++
	if m.clearErr != nil {
		return m.clearErr
	}
	m.messages = nil
	m.state = domain.AccumulatedState{}
	return nil
}

func (m *MockChatBackend) exchange(call ChatCall, kind domain.MessageKind, content string, metadata domain.Metadata) (*driven.ChatExchange, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, call)
	if m.sendErr != nil {
		return nil, m.sendErr
	}

	user := &domain.Message{Kind: kind, Content: content, Role: domain.RoleUser, Metadata: metadata}
	m.state = m.state.Apply(user)
	m.messages = append(m.messages, user)

	assistant := &domain.Message{Kind: domain.KindText, Content: m.reply, Role: domain.RoleAssistant}
	m.messages = append(m.messages, assistant)

	return &driven.ChatExchange{
		Assistant:    assistant,
		UserMetadata: m.userMetadata.Clone(),
		State:        m.state.Clone(),
	}, nil
}
