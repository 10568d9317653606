package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

// MockProvider is a test provider that records calls and returns canned responses.
type MockProvider struct {
	mu       sync.Mutex
	Calls    []CompletionRequest
	Response *CompletionResponse
	Err      error
	ProvName string
}

func NewMockProvider(name string) *MockProvider {
	return &MockProvider{
		ProvName: name,
		Response: &CompletionResponse{
			Content:      "mock response",
			InputTokens:  10,
			OutputTokens: 20,
			Model:        "mock-model",
			FinishReason: "stop",
		},
	}
}

func (m *MockProvider) Name() string {
	return m.ProvName
}

func (m *MockProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, req)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Response, nil
}

func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

var _ Provider = (*MockProvider)(nil)

// --- Tests ---

func TestMockProviderRecordsCalls(t *testing.T) {
	mock := NewMockProvider("test")

	req := CompletionRequest{
		Model:    "test-model",
		Messages: []Message{{Role: RoleUser, Content: "hello"}},
	}

	resp, err := mock.Complete(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Content != "mock response" {
		t.Errorf("expected 'mock response', got %q", resp.Content)
	}
	if mock.CallCount() != 1 {
		t.Errorf("expected 1 call, got %d", mock.CallCount())
	}
	if mock.Calls[0].Model != "test-model" {
		t.Errorf("expected model 'test-model', got %q", mock.Calls[0].Model)
	}
}

func TestServiceErrorClassification(t *testing.T) {
	base := errors.New("connection refused")
	se := &ServiceError{Provider: "openai", Err: base}

	if !IsServiceError(se) {
		t.Error("expected *ServiceError to be classified as service error")
	}
	if !IsServiceError(fmt.Errorf("completing: %w", se)) {
		t.Error("expected wrapped *ServiceError to be classified as service error")
	}
	if !errors.Is(se, base) {
		t.Error("expected ServiceError to unwrap to its cause")
	}
	if IsServiceError(base) {
		t.Error("plain error must not be a service error")
	}
	if IsServiceError(ErrEmptyCompletion) {
		t.Error("ErrEmptyCompletion must not be a service error")
	}
	if IsServiceError(nil) {
		t.Error("nil must not be a service error")
	}
}

func TestServiceErrorMessage(t *testing.T) {
	withStatus := &ServiceError{Provider: "anthropic", StatusCode: 529, Err: errors.New("overloaded")}
	if !strings.Contains(withStatus.Error(), "529") {
		t.Errorf("expected status in message, got %q", withStatus.Error())
	}
	noStatus := &ServiceError{Provider: "openai", Err: errors.New("dial tcp: refused")}
	if !strings.Contains(noStatus.Error(), "dial tcp") {
		t.Errorf("expected cause in message, got %q", noStatus.Error())
	}
}

// chatServer fakes an OpenAI-style chat completions endpoint.
func chatServer(t *testing.T, status int, body string, gotPrompt *string, calls *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			atomic.AddInt32(calls, 1)
		}
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
			t.Errorf("missing bearer token")
		}
		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		if gotPrompt != nil && len(req.Messages) == 1 && req.Messages[0].Role == "user" {
			*gotPrompt = req.Messages[0].Content
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

const chatOK = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "created": 1700000000,
  "model": "gpt-4-turbo",
  "choices": [{"index": 0, "message": {"role": "assistant", "content": "pong"}, "finish_reason": "stop"}],
  "usage": {"prompt_tokens": 5, "completion_tokens": 1, "total_tokens": 6}
}`

const chatNoChoices = `{"id":"chatcmpl-2","object":"chat.completion","created":1700000000,"model":"gpt-4-turbo","choices":[]}`

const chatError = `{"error":{"message":"upstream overloaded","type":"server_error","code":null}}`

func userRequest(text string) CompletionRequest {
	return CompletionRequest{Messages: []Message{{Role: RoleUser, Content: text}}}
}

func TestOpenAIProviderComplete(t *testing.T) {
	var prompt string
	srv := chatServer(t, http.StatusOK, chatOK, &prompt, nil)

	p := NewOpenAIProvider("sk-test", "gpt-4-turbo", srv.URL+"/v1")
	resp, err := p.Complete(context.Background(), userRequest("ping"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Content != "pong" {
		t.Errorf("expected content 'pong', got %q", resp.Content)
	}
	if resp.InputTokens != 5 || resp.OutputTokens != 1 {
		t.Errorf("unexpected usage: %d/%d", resp.InputTokens, resp.OutputTokens)
	}
	if prompt != "ping" {
		t.Errorf("expected single user message 'ping', got %q", prompt)
	}
}

func TestOpenAIProviderServerError(t *testing.T) {
	srv := chatServer(t, http.StatusServiceUnavailable, chatError, nil, nil)

	p := NewOpenAIProvider("sk-test", "gpt-4-turbo", srv.URL+"/v1")
	_, err := p.Complete(context.Background(), userRequest("ping"))
	if err == nil {
		t.Fatal("expected error")
	}
	var se *ServiceError
	if !errors.As(err, &se) {
		t.Fatalf("expected *ServiceError, got %T: %v", err, err)
	}
	if se.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", se.StatusCode)
	}
}

func TestOpenAIProviderNoChoices(t *testing.T) {
	srv := chatServer(t, http.StatusOK, chatNoChoices, nil, nil)

	p := NewOpenAIProvider("sk-test", "gpt-4-turbo", srv.URL+"/v1")
	_, err := p.Complete(context.Background(), userRequest("ping"))
	if !errors.Is(err, ErrEmptyCompletion) {
		t.Fatalf("expected ErrEmptyCompletion, got %v", err)
	}
	if IsServiceError(err) {
		t.Error("empty completion must not be a service error")
	}
}

func TestOpenAIProviderUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	p := NewOpenAIProvider("sk-test", "gpt-4-turbo", url+"/v1")
	_, err := p.Complete(context.Background(), userRequest("ping"))
	if !IsServiceError(err) {
		t.Fatalf("expected service error for unreachable backend, got %v", err)
	}
}

func TestCompatibleProviderComplete(t *testing.T) {
	var prompt string
	srv := chatServer(t, http.StatusOK, chatOK, &prompt, nil)

	p := NewCompatibleProvider("key", "llama3", srv.URL+"/v1")
	resp, err := p.Complete(context.Background(), userRequest("ping"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Content != "pong" {
		t.Errorf("expected content 'pong', got %q", resp.Content)
	}
	if prompt != "ping" {
		t.Errorf("expected single user message 'ping', got %q", prompt)
	}
}

func TestCompatibleProviderServerErrorNotRetried(t *testing.T) {
	var calls int32
	srv := chatServer(t, http.StatusInternalServerError, chatError, nil, &calls)

	p := NewCompatibleProvider("key", "llama3", srv.URL+"/v1")
	_, err := p.Complete(context.Background(), userRequest("ping"))

	var se *ServiceError
	if !errors.As(err, &se) {
		t.Fatalf("expected *ServiceError, got %T: %v", err, err)
	}
	if se.StatusCode != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", se.StatusCode)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("expected exactly 1 request, got %d", n)
	}
}

func anthropicServer(t *testing.T, status int, body string, calls *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		if !strings.HasSuffix(r.URL.Path, "/v1/messages") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("X-Api-Key") != "ak-test" {
			t.Errorf("expected api key header, got %q", r.Header.Get("X-Api-Key"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestAnthropicProviderComplete(t *testing.T) {
	var calls int32
	srv := anthropicServer(t, http.StatusOK, `{
  "id": "msg_1",
  "type": "message",
  "role": "assistant",
  "model": "claude-sonnet-4-5-20250929",
  "content": [{"type": "text", "text": "pong"}],
  "stop_reason": "end_turn",
  "usage": {"input_tokens": 7, "output_tokens": 2}
}`, &calls)

	p := NewAnthropicProvider("ak-test", "claude-sonnet-4-5-20250929", srv.URL)
	resp, err := p.Complete(context.Background(), userRequest("ping"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Content != "pong" {
		t.Errorf("expected content 'pong', got %q", resp.Content)
	}
	if resp.InputTokens != 7 || resp.OutputTokens != 2 {
		t.Errorf("unexpected usage: %d/%d", resp.InputTokens, resp.OutputTokens)
	}
}

func TestAnthropicProviderOverloaded(t *testing.T) {
	var calls int32
	srv := anthropicServer(t, 529,
		`{"type":"error","error":{"type":"overloaded_error","message":"Overloaded"}}`, &calls)

	p := NewAnthropicProvider("ak-test", "claude-sonnet-4-5-20250929", srv.URL)
	_, err := p.Complete(context.Background(), userRequest("ping"))

	var se *ServiceError
	if !errors.As(err, &se) {
		t.Fatalf("expected *ServiceError, got %T: %v", err, err)
	}
	if se.StatusCode != 529 {
		t.Errorf("expected status 529, got %d", se.StatusCode)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("expected exactly 1 request, got %d", n)
	}
}

func TestFactoryReturnsErrorForMissingAPIKey(t *testing.T) {
	for _, provider := range []string{"openai", "anthropic", "compatible"} {
		_, err := NewProvider(provider, "", "model", "http://localhost:1234/v1")
		if err == nil {
			t.Errorf("expected error for %s with empty API key", provider)
		}
	}
}

func TestFactoryReturnsErrorForUnknownProvider(t *testing.T) {
	_, err := NewProvider("unknown", "key", "model", "")
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestFactoryCompatibleRequiresBaseURL(t *testing.T) {
	_, err := NewProvider("compatible", "key", "llama3", "")
	if err == nil {
		t.Fatal("expected error for compatible provider without base URL")
	}
}

func TestFactoryCreatesProviders(t *testing.T) {
	tests := []struct {
		provider string
		baseURL  string
		wantName string
	}{
		{"openai", "", "openai"},
		{"anthropic", "", "anthropic"},
		{"compatible", "http://localhost:11434/v1", "compatible"},
	}
	for _, tt := range tests {
		p, err := NewProvider(tt.provider, "key", "model", tt.baseURL)
		if err != nil {
			t.Fatalf("NewProvider(%s): %v", tt.provider, err)
		}
		if p.Name() != tt.wantName {
			t.Errorf("expected name %q, got %q", tt.wantName, p.Name())
		}
	}
}

func TestEstimateCostKnownModels(t *testing.T) {
	tests := []struct {
		model string
		input int
		want  float64
	}{
		{"gpt-4-turbo", 1_000_000, 10.00},
		{"gpt-4o-mini", 1_000_000, 0.15},
		{"claude-sonnet-4-5-20250929", 1_000_000, 3.00},
	}
	for _, tt := range tests {
		got := EstimateCost(tt.model, tt.input, 0)
		if got != tt.want {
			t.Errorf("EstimateCost(%s) = %f, want %f", tt.model, got, tt.want)
		}
	}
}

func TestEstimateCostUnknownModel(t *testing.T) {
	if cost := EstimateCost("unknown-model", 1000, 1000); cost != 0 {
		t.Errorf("expected 0 for unknown model, got %f", cost)
	}
}

func TestEstimateCostAccuracy(t *testing.T) {
	// 500 input + 100 output on gpt-4-turbo: 0.005 + 0.003
	cost := EstimateCost("gpt-4-turbo", 500, 100)
	want := 0.008
	if diff := cost - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("expected %f, got %f", want, cost)
	}
}

const chatMalformed = `{"choices": "not-a-list"`

func TestProvidersMalformedSuccessBody(t *testing.T) {
	var calls int32
	chat := chatServer(t, http.StatusOK, chatMalformed, nil, nil)
	messages := anthropicServer(t, http.StatusOK, `{"content": "not-a-list"`, &calls)

	providers := []Provider{
		NewOpenAIProvider("sk-test", "gpt-4-turbo", chat.URL+"/v1"),
		NewCompatibleProvider("key", "llama3", chat.URL+"/v1"),
		NewAnthropicProvider("ak-test", "claude-sonnet-4-5-20250929", messages.URL),
	}
	for _, p := range providers {
		t.Run(p.Name(), func(t *testing.T) {
			_, err := p.Complete(context.Background(), userRequest("ping"))
			if err == nil {
				t.Fatal("expected error for undecodable body")
			}
			if IsServiceError(err) {
				t.Errorf("undecodable 200 body must not be a service error: %v", err)
			}
		})
	}
}

func TestProvidersCancelledContext(t *testing.T) {
	var calls int32
	chat := chatServer(t, http.StatusOK, chatOK, nil, nil)
	messages := anthropicServer(t, http.StatusOK, `{}`, &calls)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	providers := []Provider{
		NewOpenAIProvider("sk-test", "gpt-4-turbo", chat.URL+"/v1"),
		NewCompatibleProvider("key", "llama3", chat.URL+"/v1"),
		NewAnthropicProvider("ak-test", "claude-sonnet-4-5-20250929", messages.URL),
	}
	for _, p := range providers {
		t.Run(p.Name(), func(t *testing.T) {
			_, err := p.Complete(ctx, userRequest("ping"))
			if !IsServiceError(err) {
				t.Errorf("expected service error for cancelled request, got %v", err)
			}
		})
	}
}

func TestWrapTransportError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		service bool
	}{
		{"deadline", fmt.Errorf("post: %w", context.DeadlineExceeded), true},
		{"canceled", context.Canceled, true},
		{"url error", &url.Error{Op: "Post", URL: "http://x", Err: errors.New("connection refused")}, true},
		{"decode error", fmt.Errorf("error parsing response json: %w", io.ErrUnexpectedEOF), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := wrapTransportError("test", tt.err)
			if IsServiceError(err) != tt.service {
				t.Errorf("IsServiceError = %v, want %v", !tt.service, tt.service)
			}
			if !errors.Is(err, tt.err) {
				t.Error("wrapped error should unwrap to its cause")
			}
		})
	}
}
