package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// MockResponse is a canned response for the MockProvider.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// Standing replies used by the mock provider built from configuration, so
// `ADAPTIQ_LLM_PROVIDER=mock` exercises hint refinement and the provider
// check end to end.
var defaultMockReplies = map[string]MockResponse{
	PurposeHintRefinement: {
		Content: json.RawMessage(`{"content":"Work through the problem one step at a time and check each step before moving on.","reasoning":"Neutral step-by-step guidance suits any learner.","related_concepts":["problem_decomposition"]}`),
		Usage:   Usage{InputTokens: 120, OutputTokens: 32},
	},
	PurposePing: {
		Content: json.RawMessage(`ready`),
		Usage:   Usage{InputTokens: 12, OutputTokens: 1},
	},
}

// MockProvider is a deterministic Provider for testing.
//
// A call takes the next response queued for the context's purpose, then
// the next response from the shared queue, then the standing reply for
// the purpose. With none of those it fails with ErrProviderUnavailable.
// Responses are validated against the request schema like real providers.
type MockProvider struct {
	mu        sync.Mutex
	responses []MockResponse
	byPurpose map[string][]MockResponse
	standing  map[string]MockResponse

	Calls    []Request
	Purposes []string
}

// NewMockProvider creates a MockProvider with the given canned responses
// on the shared queue.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{
		responses: responses,
		byPurpose: make(map[string][]MockResponse),
		standing:  make(map[string]MockResponse),
	}
}

// newConfiguredMock is the provider NewProvider builds for ProviderMock.
func newConfiguredMock() *MockProvider {
	m := NewMockProvider()
	for purpose, resp := range defaultMockReplies {
		m.standing[purpose] = resp
	}
	return m
}

func (m *MockProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	purpose := PurposeFrom(ctx)

	m.mu.Lock()
	m.Calls = append(m.Calls, req)
	m.Purposes = append(m.Purposes, purpose)
	resp, ok := m.next(purpose)
	m.mu.Unlock()

	if !ok {
		return nil, &ErrProviderUnavailable{}
	}
	if resp.Err != nil {
		return nil, resp.Err
	}
	return finish(req, resp.Content, "mock", StopEnd, resp.Usage)
}

// next pops a response for purpose. Callers hold m.mu.
func (m *MockProvider) next(purpose string) (MockResponse, bool) {
	if q := m.byPurpose[purpose]; len(q) > 0 {
		m.byPurpose[purpose] = q[1:]
		return q[0], true
	}
	if len(m.responses) > 0 {
		resp := m.responses[0]
		m.responses = m.responses[1:]
		return resp, true
	}
	resp, ok := m.standing[purpose]
	return resp, ok
}

func (m *MockProvider) ModelID() string {
	return "mock"
}

// AddResponse appends a canned response to the shared queue.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// AddPurposeResponse queues resp for calls made under purpose only.
func (m *MockProvider) AddPurposeResponse(purpose string, resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byPurpose[purpose] = append(m.byPurpose[purpose], resp)
}

// SetStandingReply answers every otherwise unserved call under purpose
// with resp.
func (m *MockProvider) SetStandingReply(purpose string, resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.standing[purpose] = resp
}

// CallCount returns the number of Generate calls made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
