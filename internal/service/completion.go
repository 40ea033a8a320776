package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/timmy/memegpt/internal/domain"
	"github.com/timmy/memegpt/internal/logger"
)

const completionServiceName = "completion"

// Completer sends a conversation to a chat model and returns its reply.
type Completer interface {
	Complete(ctx context.Context, messages []domain.Message) (string, error)
}

// CompletionService talks to an OpenAI-compatible chat completion API.
type CompletionService struct {
	client      *resty.Client
	model       string
	temperature float32
	endpoint    string
}

// CompletionConfig holds configuration for the completion service.
type CompletionConfig struct {
	Model       string
	Temperature float32
	APIKey      string
	BaseURL     string
	Timeout     time.Duration
}

// NewCompletionService creates a new completion service.
// Parameters:
//   - cfg: model, sampling temperature, credentials and endpoint.
//
// Returns:
//   - *CompletionService: initialized client wrapper.
func NewCompletionService(cfg *CompletionConfig) *CompletionService {
	client := resty.New()
	client.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	client.SetHeader("Content-Type", "application/json")
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}

	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	return &CompletionService{
		client:      client,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		endpoint:    baseURL + "/chat/completions",
	}
}

// OpenAI-compatible Chat Completion API request/response structures
type chatRequest struct {
	Model       string           `json:"model"`
	Messages    []domain.Message `json:"messages"`
	Temperature float32          `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type chatErrorResponse struct {
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Complete sends messages to the model and returns the first choice verbatim.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - messages: the full conversation, oldest first.
//
// Returns:
//   - string: reply text of the first choice.
//   - error: *domain.ServiceError on transport failure or non-2xx status,
//     domain.ErrEmptyResponse when no choice comes back.
func (s *CompletionService) Complete(ctx context.Context, messages []domain.Message) (string, error) {
	start := time.Now()

	req := chatRequest{
		Model:       s.model,
		Messages:    messages,
		Temperature: s.temperature,
	}

	var resp chatResponse
	var errResp chatErrorResponse
	httpResp, err := s.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&resp).
		SetError(&errResp).
		Post(s.endpoint)

	if err != nil {
		return "", &domain.ServiceError{Service: completionServiceName, Err: err}
	}

	if httpResp.StatusCode() < 200 || httpResp.StatusCode() >= 300 {
		msg := strings.TrimSpace(string(httpResp.Body()))
		if errResp.Error != nil && errResp.Error.Message != "" {
			msg = errResp.Error.Message
		}
		return "", &domain.ServiceError{
			Service:    completionServiceName,
			StatusCode: httpResp.StatusCode(),
			Message:    msg,
		}
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: model %s returned no choices", domain.ErrEmptyResponse, s.model)
	}

	logger.With(logger.Fields{
		logger.FieldModel: s.model,
		logger.FieldCount: len(messages),
	}).WithDuration(time.Since(start).Milliseconds()).Debug(ctx, "Completion received")

	return resp.Choices[0].Message.Content, nil
}
