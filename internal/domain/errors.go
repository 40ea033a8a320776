package domain

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the generator. Every error returned by the
// packages under internal/ matches exactly one of these via errors.Is.
var (
	// ErrConfig marks bad or missing settings or a malformed catalog.
	ErrConfig = errors.New("configuration error")

	// ErrService marks a transport failure or non-success response from
	// the completion or captioning service.
	ErrService = errors.New("service error")

	// ErrEmptyResponse marks a completion response without choices.
	ErrEmptyResponse = errors.New("empty completion response")

	// ErrUnknownTemplate marks a template name the catalog does not know.
	ErrUnknownTemplate = errors.New("unknown template")

	// ErrMalformedJSON marks a caption reply that is not a JSON object of strings.
	ErrMalformedJSON = errors.New("malformed caption JSON")

	// ErrSchema marks captions whose slots disagree with the template.
	ErrSchema = errors.New("caption schema mismatch")

	// ErrEmptyScenario marks a blank scenario.
	ErrEmptyScenario = errors.New("scenario is empty")
)

// ServiceError describes a failed call to an external service.
type ServiceError struct {
	Service    string // "completion" or "captioning"
	StatusCode int    // 0 when the request never got a response
	Message    string
	Err        error
}

func (e *ServiceError) Error() string {
	msg := e.Service + " service"
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" returned HTTP %d", e.StatusCode)
	} else {
		msg += " request failed"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying transport error, if any.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// Is makes every ServiceError match ErrService.
func (e *ServiceError) Is(target error) bool {
	return target == ErrService
}

// UnknownTemplateError carries the model reply that matched no template.
type UnknownTemplateError struct {
	Reply string
}

func (e *UnknownTemplateError) Error() string {
	return fmt.Sprintf("unknown template %q", e.Reply)
}

// Is makes every UnknownTemplateError match ErrUnknownTemplate.
func (e *UnknownTemplateError) Is(target error) bool {
	return target == ErrUnknownTemplate
}

// ConfigErrorf formats a message that matches ErrConfig.
func ConfigErrorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrConfig, fmt.Sprintf(format, args...))
}
