package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timmy/memegpt/internal/domain"
)

func TestCompletionService_Complete(t *testing.T) {
	llm := newFakeLLM(t, "Drake Hotline Bling")
	svc := llm.service(t)

	reply, err := svc.Complete(context.Background(), []domain.Message{
		domain.SystemMessage("pick one"),
		domain.UserMessage("scenario"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Drake Hotline Bling", reply)

	reqs := llm.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "Bearer sk-test", reqs[0].Auth)
	assert.Equal(t, "test-model", reqs[0].Model)
	assert.InDelta(t, 0.7, reqs[0].Temperature, 1e-6)
	require.Len(t, reqs[0].Messages, 2)
	assert.Equal(t, "system", reqs[0].Messages[0].Role)
	assert.Equal(t, "user", reqs[0].Messages[1].Role)
	assert.Equal(t, "scenario", reqs[0].Messages[1].Content)
}

func TestCompletionService_ReplyIsVerbatim(t *testing.T) {
	llm := newFakeLLM(t, "  padded reply\n")
	reply, err := llm.service(t).Complete(context.Background(), []domain.Message{domain.UserMessage("x")})
	require.NoError(t, err)
	assert.Equal(t, "  padded reply\n", reply)
}

func TestCompletionService_NoChoices(t *testing.T) {
	llm := newFakeLLM(t)
	_, err := llm.service(t).Complete(context.Background(), []domain.Message{domain.UserMessage("x")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrEmptyResponse))
	assert.False(t, errors.Is(err, domain.ErrService))
}

func TestCompletionService_HTTPError(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{
			name:        "openai error envelope",
			status:      http.StatusUnauthorized,
			body:        `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`,
			wantMessage: "Incorrect API key provided",
		},
		{
			name:        "plain body",
			status:      http.StatusBadGateway,
			body:        `upstream unavailable`,
			wantMessage: "upstream unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := newFakeLLM(t)
			llm.status = tt.status
			llm.body = tt.body

			_, err := llm.service(t).Complete(context.Background(), []domain.Message{domain.UserMessage("x")})
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrService))

			var svcErr *domain.ServiceError
			require.True(t, errors.As(err, &svcErr))
			assert.Equal(t, tt.status, svcErr.StatusCode)
			assert.Equal(t, "completion", svcErr.Service)
			assert.Contains(t, svcErr.Message, tt.wantMessage)
		})
	}
}

func TestCompletionService_TransportError(t *testing.T) {
	llm := newFakeLLM(t, "unused")
	svc := llm.service(t)
	llm.server.Close()

	_, err := svc.Complete(context.Background(), []domain.Message{domain.UserMessage("x")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrService))

	var svcErr *domain.ServiceError
	require.True(t, errors.As(err, &svcErr))
	assert.Zero(t, svcErr.StatusCode)
}

func TestCompletionService_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	t.Cleanup(server.Close)

	svc := NewCompletionService(&CompletionConfig{
		Model:   "m",
		APIKey:  "k",
		BaseURL: server.URL,
		Timeout: 50 * time.Millisecond,
	})

	_, err := svc.Complete(context.Background(), []domain.Message{domain.UserMessage("x")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrService))
}

func TestNewCompletionService_DefaultEndpoint(t *testing.T) {
	svc := NewCompletionService(&CompletionConfig{Model: "m", APIKey: "k"})
	assert.Equal(t, "https://api.openai.com/v1/chat/completions", svc.endpoint)

	svc = NewCompletionService(&CompletionConfig{Model: "m", APIKey: "k", BaseURL: "http://localhost:8080/v1/"})
	assert.Equal(t, "http://localhost:8080/v1/chat/completions", svc.endpoint)
}
