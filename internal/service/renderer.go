package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/timmy/memegpt/internal/domain"
	"github.com/timmy/memegpt/internal/logger"
)

const captioningServiceName = "captioning"

// Renderer turns a template and caption texts into a rendered meme URL.
type Renderer interface {
	Render(ctx context.Context, templateID int, captions []string) (string, error)
}

// MemeRenderer calls the Imgflip caption_image API.
type MemeRenderer struct {
	client   *resty.Client
	username string
	password string
	endpoint string
}

// RendererConfig holds configuration for the meme renderer.
type RendererConfig struct {
	Username string
	Password string
	BaseURL  string
	Timeout  time.Duration
}

// NewMemeRenderer creates a new captioning service client.
func NewMemeRenderer(cfg *RendererConfig) *MemeRenderer {
	client := resty.New()
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}

	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.imgflip.com"
	}

	return &MemeRenderer{
		client:   client,
		username: cfg.Username,
		password: cfg.Password,
		endpoint: baseURL + "/caption_image",
	}
}

type captionImageResponse struct {
	Success      *bool  `json:"success"`
	ErrorMessage string `json:"error_message"`
	Data         *struct {
		URL     string `json:"url"`
		PageURL string `json:"page_url"`
	} `json:"data"`
}

// captionForm builds the form payload: template id, credentials and one
// boxes[i][text] field per caption, in order.
func captionForm(templateID int, captions []string, username, password string) map[string]string {
	form := make(map[string]string, len(captions)+3)
	form["template_id"] = strconv.Itoa(templateID)
	form["username"] = username
	form["password"] = password
	for i, text := range captions {
		form[fmt.Sprintf("boxes[%d][text]", i)] = text
	}
	return form
}

// Render posts the captions and returns the URL of the rendered image.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - templateID: Imgflip template id.
//   - captions: caption texts, box 0 first.
//
// Returns:
//   - string: data.url from the response.
//   - error: *domain.ServiceError on transport failure, non-2xx status,
//     success=false or a response without data.url.
func (r *MemeRenderer) Render(ctx context.Context, templateID int, captions []string) (string, error) {
	start := time.Now()

	var resp captionImageResponse
	httpResp, err := r.client.R().
		SetContext(ctx).
		SetFormData(captionForm(templateID, captions, r.username, r.password)).
		SetResult(&resp).
		Post(r.endpoint)

	if err != nil {
		return "", &domain.ServiceError{Service: captioningServiceName, Err: err}
	}

	if httpResp.StatusCode() < 200 || httpResp.StatusCode() >= 300 {
		return "", &domain.ServiceError{
			Service:    captioningServiceName,
			StatusCode: httpResp.StatusCode(),
			Message:    strings.TrimSpace(string(httpResp.Body())),
		}
	}

	if resp.Success != nil && !*resp.Success {
		msg := resp.ErrorMessage
		if msg == "" {
			msg = "request was not successful"
		}
		return "", &domain.ServiceError{
			Service:    captioningServiceName,
			StatusCode: httpResp.StatusCode(),
			Message:    msg,
		}
	}

	if resp.Data == nil || resp.Data.URL == "" {
		return "", &domain.ServiceError{
			Service:    captioningServiceName,
			StatusCode: httpResp.StatusCode(),
			Message:    "response has no data.url",
		}
	}

	logger.With(logger.Fields{
		"template_id":     templateID,
		logger.FieldCount: len(captions),
	}).WithDuration(time.Since(start).Milliseconds()).Debug(ctx, "Meme rendered")

	return resp.Data.URL, nil
}
