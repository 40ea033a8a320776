package service

import (
	"context"
	"fmt"

	"github.com/timmy/memegpt/internal/catalog"
	"github.com/timmy/memegpt/internal/domain"
	"github.com/timmy/memegpt/internal/logger"
	"github.com/timmy/memegpt/internal/prompts"
)

// TemplateSelector asks the model which catalog template fits a scenario.
type TemplateSelector struct {
	completer Completer
	catalog   *catalog.Catalog
	prefix    []domain.Message
}

// NewTemplateSelector builds the selection prompt once for cat.
func NewTemplateSelector(completer Completer, cat *catalog.Catalog) *TemplateSelector {
	return &TemplateSelector{
		completer: completer,
		catalog:   cat,
		prefix:    prompts.BuildSelectionPrompt(cat),
	}
}

// Select maps a free-text scenario to a catalog template.
// The reply must equal a template name exactly; it is not trimmed or
// case-folded, so "drake hotline bling" does not select "Drake Hotline Bling".
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - scenario: the user's scenario.
//
// Returns:
//   - domain.Template: the selected template.
//   - error: *domain.UnknownTemplateError when the reply names no template,
//     or the completer's error.
func (s *TemplateSelector) Select(ctx context.Context, scenario string) (domain.Template, error) {
	reply, err := s.completer.Complete(ctx, prompts.SelectionRequest(s.prefix, scenario))
	if err != nil {
		return domain.Template{}, fmt.Errorf("template selection failed: %w", err)
	}

	tmpl, ok := s.catalog.Lookup(reply)
	if !ok {
		logger.FromContext(ctx).WithField("reply", reply).Warn("Model replied with an unknown template")
		return domain.Template{}, &domain.UnknownTemplateError{Reply: reply}
	}

	logger.CtxInfo(logger.WithField(ctx, logger.FieldTemplate, tmpl.Name), "Template selected")
	return tmpl, nil
}
