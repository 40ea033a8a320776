package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/timmy/memegpt/internal/catalog"
	"github.com/timmy/memegpt/internal/domain"
	"github.com/timmy/memegpt/internal/logger"
	"github.com/timmy/memegpt/internal/prompts"
)

// CaptionGenerator asks the model for caption text for a chosen template.
type CaptionGenerator struct {
	completer Completer
	prefix    []domain.Message
	strict    bool
}

// CaptionConfig holds configuration for the caption generator.
type CaptionConfig struct {
	// Strict rejects replies whose keys differ from the template's caption
	// names and reorders accepted captions to the declared slot order.
	// When false the reply is passed through unchecked; it is still put in
	// declared slot order if every slot is present.
	Strict bool
}

// NewCaptionGenerator builds the caption prompt once for cat.
func NewCaptionGenerator(completer Completer, cat *catalog.Catalog, cfg *CaptionConfig) (*CaptionGenerator, error) {
	prefix, err := prompts.BuildCaptionPrompt(cat)
	if err != nil {
		return nil, err
	}
	strict := false
	if cfg != nil {
		strict = cfg.Strict
	}
	return &CaptionGenerator{
		completer: completer,
		prefix:    prefix,
		strict:    strict,
	}, nil
}

// Generate returns the captions for req.Template.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - req: scenario and the template selected for it.
//
// Returns:
//   - domain.Captions: slot to text, see CaptionConfig.Strict for ordering.
//   - error: domain.ErrMalformedJSON if the reply is not a JSON object of
//     strings, domain.ErrSchema on slot mismatch in strict mode, or the
//     completer's error.
func (g *CaptionGenerator) Generate(ctx context.Context, req domain.MemeRequest) (domain.Captions, error) {
	messages, err := prompts.CaptionRequest(g.prefix, req)
	if err != nil {
		return nil, err
	}

	reply, err := g.completer.Complete(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("caption generation failed: %w", err)
	}

	captions, err := parseCaptions(reply)
	if err != nil {
		logger.FromContext(ctx).WithField("reply", reply).Warn("Model replied with malformed captions")
		return nil, err
	}

	if !g.strict {
		return orderCaptions(captions, req.Template), nil
	}
	return conformCaptions(captions, req.Template)
}

// parseCaptions decodes reply as a JSON object of strings. The only
// wrapping tolerated is a single markdown code fence around the whole reply;
// prose or trailing text makes the reply malformed.
func parseCaptions(reply string) (domain.Captions, error) {
	var captions domain.Captions
	if err := json.Unmarshal([]byte(stripCodeFence(reply)), &captions); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedJSON, err)
	}
	return captions, nil
}

// stripCodeFence removes a ``` or ```json fence enclosing the entire reply.
func stripCodeFence(reply string) string {
	s := strings.TrimSpace(reply)
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") || len(s) < 6 {
		return reply
	}

	body := strings.TrimSuffix(s, "```")
	nl := strings.IndexByte(body, '\n')
	if nl == -1 {
		return reply
	}
	lang := strings.TrimSpace(body[3:nl])
	if lang != "" && lang != "json" {
		return reply
	}
	return body[nl+1:]
}

// orderCaptions puts the template's declared slots first when the reply
// carries all of them. Extra keys follow in the order received. Incomplete
// replies are returned unchanged.
func orderCaptions(captions domain.Captions, tmpl domain.Template) domain.Captions {
	ordered := make(domain.Captions, 0, len(captions))
	for _, slot := range tmpl.CaptionNames {
		text, ok := captions.Get(slot)
		if !ok {
			return captions
		}
		ordered = append(ordered, domain.Caption{Slot: slot, Text: text})
	}
	for _, c := range captions {
		if !tmpl.HasSlot(c.Slot) {
			ordered = append(ordered, c)
		}
	}
	return ordered
}

// conformCaptions checks captions against the template's slots and returns
// them in declared slot order.
func conformCaptions(captions domain.Captions, tmpl domain.Template) (domain.Captions, error) {
	var unknown, missing []string
	for _, c := range captions {
		if !tmpl.HasSlot(c.Slot) {
			unknown = append(unknown, c.Slot)
		}
	}

	ordered := make(domain.Captions, 0, len(tmpl.CaptionNames))
	for _, slot := range tmpl.CaptionNames {
		text, ok := captions.Get(slot)
		if !ok {
			missing = append(missing, slot)
			continue
		}
		ordered = append(ordered, domain.Caption{Slot: slot, Text: text})
	}

	if len(unknown) > 0 || len(missing) > 0 {
		var parts []string
		if len(unknown) > 0 {
			parts = append(parts, fmt.Sprintf("unknown slots %q", unknown))
		}
		if len(missing) > 0 {
			parts = append(parts, fmt.Sprintf("missing slots %q", missing))
		}
		return nil, fmt.Errorf("%w for template %q: %s", domain.ErrSchema, tmpl.Name, strings.Join(parts, ", "))
	}

	return ordered, nil
}
