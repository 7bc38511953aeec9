package responder_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vhht/vhhtbot/internal/app/assistant/responder"
	"go.uber.org/zap"
)

type fakeCompleter struct {
	text   string
	err    error
	prompt string
}

func (f *fakeCompleter) Name() string { return "fake" }

func (f *fakeCompleter) Complete(_ context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.text, f.err
}

func TestRespond(t *testing.T) {
	tests := []struct {
		name string
		c    *fakeCompleter
		want string
	}{
		{"success is trimmed", &fakeCompleter{text: "  Dạ, em chào anh/chị!\n"}, "Dạ, em chào anh/chị!"},
		{"provider error", &fakeCompleter{err: &responder.ProviderError{Provider: "fake", StatusCode: 500, Message: "boom"}}, responder.FailureReply},
		{"transport error", &fakeCompleter{err: errors.New("dial tcp: refused")}, responder.FailureReply},
		{"empty completion", &fakeCompleter{text: "   "}, responder.FailureReply},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := responder.New(tt.c, 0, zap.NewNop())
			if got := r.Respond(context.Background(), "xin chào"); got != tt.want {
				t.Errorf("Respond = %q, want %q", got, tt.want)
			}
			if tt.c.prompt != "xin chào" {
				t.Errorf("prompt forwarded as %q", tt.c.prompt)
			}
		})
	}
}

func TestProviderError(t *testing.T) {
	err := &responder.ProviderError{Provider: "openai", StatusCode: 401, Message: "invalid key"}
	if got := err.Error(); got != "openai: 401: invalid key" {
		t.Errorf("Error() = %q", got)
	}
	err = &responder.ProviderError{Provider: "openai", Message: "timeout"}
	if got := err.Error(); got != "openai: timeout" {
		t.Errorf("Error() = %q", got)
	}
}

func TestOpenAI_Complete(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			http.NotFound(w, r)
			return
		}
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Dạ có ạ"}}]}`))
	}))
	defer srv.Close()

	c := responder.NewOpenAI(responder.Config{APIKey: "sk-test", BaseURL: srv.URL + "/", Model: "gpt-4o"})
	got, err := c.Complete(context.Background(), "có chiến dịch nào không")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if got != "Dạ có ạ" {
		t.Errorf("Complete = %q", got)
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("Authorization = %q, want bearer key", gotAuth)
	}
	if gotBody["model"] != "gpt-4o" {
		t.Errorf("model = %v", gotBody["model"])
	}
	msgs, _ := gotBody["messages"].([]any)
	if len(msgs) != 1 {
		t.Fatalf("messages = %v, want one user message", gotBody["messages"])
	}
	if m, _ := msgs[0].(map[string]any); m["role"] != "user" || m["content"] != "có chiến dịch nào không" {
		t.Errorf("message = %v", msgs[0])
	}
}

func TestOpenAI_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key"}}`))
	}))
	defer srv.Close()

	c := responder.NewOpenAI(responder.Config{APIKey: "bad", BaseURL: srv.URL})
	_, err := c.Complete(context.Background(), "x")

	var pe *responder.ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want ProviderError", err)
	}
	if pe.StatusCode != http.StatusUnauthorized || pe.Message != "Incorrect API key" {
		t.Errorf("ProviderError = %+v", pe)
	}
}

func TestAnthropic_Complete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Api-Key") != "ak-test" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_01",
			"type": "message",
			"role": "assistant",
			"model": "claude-sonnet-4-5",
			"content": [{"type": "text", "text": "Dạ, "}, {"type": "text", "text": "em đây"}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 10, "output_tokens": 4}
		}`))
	}))
	defer srv.Close()

	c := responder.NewAnthropic(responder.Config{APIKey: "ak-test", BaseURL: srv.URL})
	got, err := c.Complete(context.Background(), "xin chào")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if got != "Dạ, em đây" {
		t.Errorf("Complete = %q", got)
	}
}

func TestNewCompleter(t *testing.T) {
	c, err := responder.NewCompleter(context.Background(), responder.Config{Provider: "anthropic", APIKey: "k"})
	if err != nil || c.Name() != "anthropic" {
		t.Errorf("anthropic: got %v, %v", c, err)
	}
	c, err = responder.NewCompleter(context.Background(), responder.Config{})
	if err != nil || c.Name() != "openai" {
		t.Errorf("default: got %v, %v", c, err)
	}
	if _, err := responder.NewCompleter(context.Background(), responder.Config{Provider: "llama"}); err == nil {
		t.Error("expected error for unknown provider")
	}
}
