package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/timmy/memegpt/internal/domain"
)

// scriptedCompleter replays canned replies and records every conversation.
type scriptedCompleter struct {
	replies []string
	err     error
	calls   [][]domain.Message
}

func (c *scriptedCompleter) Complete(_ context.Context, messages []domain.Message) (string, error) {
	c.calls = append(c.calls, messages)
	if c.err != nil {
		return "", c.err
	}
	if len(c.replies) == 0 {
		return "", domain.ErrEmptyResponse
	}
	reply := c.replies[0]
	c.replies = c.replies[1:]
	return reply, nil
}

type recordedChat struct {
	Auth        string
	Model       string
	Temperature float32
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
}

// fakeLLM is an OpenAI-compatible /chat/completions endpoint.
type fakeLLM struct {
	mu       sync.Mutex
	replies  []string
	status   int
	body     string
	requests []recordedChat
	server   *httptest.Server
}

func newFakeLLM(t *testing.T, replies ...string) *fakeLLM {
	t.Helper()
	f := &fakeLLM{replies: replies}
	f.server = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeLLM) handle(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if r.URL.Path != "/chat/completions" || r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var body struct {
		Model       string  `json:"model"`
		Temperature float32 `json:"temperature"`
		Messages    []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	data, _ := io.ReadAll(r.Body)
	if err := json.Unmarshal(data, &body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f.requests = append(f.requests, recordedChat{
		Auth:        r.Header.Get("Authorization"),
		Model:       body.Model,
		Temperature: body.Temperature,
		Messages:    body.Messages,
	})

	if f.status != 0 {
		w.Header().Set("Content-Type", contentTypeFor(f.body))
		w.WriteHeader(f.status)
		_, _ = io.WriteString(w, f.body)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	type choice struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	}
	resp := struct {
		Choices []choice `json:"choices"`
	}{Choices: []choice{}}
	if len(f.replies) > 0 {
		var c choice
		c.Message.Role = "assistant"
		c.Message.Content = f.replies[0]
		f.replies = f.replies[1:]
		resp.Choices = append(resp.Choices, c)
	}
	_ = json.NewEncoder(w).Encode(resp)
}

func (f *fakeLLM) service(t *testing.T) *CompletionService {
	t.Helper()
	return NewCompletionService(&CompletionConfig{
		Model:       "test-model",
		Temperature: 0.7,
		APIKey:      "sk-test",
		BaseURL:     f.server.URL,
	})
}

func (f *fakeLLM) Requests() []recordedChat {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedChat(nil), f.requests...)
}

// contentTypeFor labels JSON bodies as JSON so resty decodes them.
func contentTypeFor(body string) string {
	if strings.HasPrefix(strings.TrimSpace(body), "{") {
		return "application/json"
	}
	return "text/plain; charset=utf-8"
}

// fakeImgflip is the caption_image endpoint.
type fakeImgflip struct {
	mu     sync.Mutex
	status int
	body   string
	forms  []url.Values
	server *httptest.Server
}

func newFakeImgflip(t *testing.T, body string) *fakeImgflip {
	t.Helper()
	f := &fakeImgflip{body: body}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		if r.URL.Path != "/caption_image" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.forms = append(f.forms, r.PostForm)

		w.Header().Set("Content-Type", contentTypeFor(f.body))
		if f.status != 0 {
			w.WriteHeader(f.status)
		}
		_, _ = io.WriteString(w, f.body)
	}))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeImgflip) renderer() *MemeRenderer {
	return NewMemeRenderer(&RendererConfig{
		Username: "imgflip-user",
		Password: "imgflip-pass",
		BaseURL:  f.server.URL,
	})
}

func (f *fakeImgflip) Forms() []url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]url.Values(nil), f.forms...)
}
