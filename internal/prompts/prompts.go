// Package prompts builds the few-shot conversations that steer the
// completion service toward terse template names and JSON captions.
package prompts

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/timmy/memegpt/internal/catalog"
	"github.com/timmy/memegpt/internal/domain"
)

// ============================================================================
// Worked examples
// ============================================================================

const (
	exampleGamingScenario = "My parents are always mad at me for playing video games because they think they will make me violent. " +
		"But all I ever play is Minecraft and I'm just building houses and stuff..."

	exampleRaiseScenario = "All those dumb employers are not willing to pay an extra 20K to give their good employees a raise. " +
		"So then the good workers quit and the employers end up paying 50K extra to hire new workers."

	exampleGamingTemplate = "Woman Yelling At Cat"
	exampleRaiseTemplate  = "Drake Hotline Bling"
)

// exampleGamingCaptions is the answer to the gaming scenario, keyed by the
// caption names of exampleGamingTemplate in the default catalog.
var exampleGamingCaptions = map[string]string{
	"Woman":        "my parents screaming at me that video games cause violence",
	"Confused cat": "me building a house in Minecraft",
}

// ============================================================================
// Template selection
// ============================================================================

// selectionSystemPrompt is formatted with the quoted, comma-joined template names.
const selectionSystemPrompt = "You are an assistant designed to create memes. " +
	"Given a scenario, you will respond with the name of a well known meme template " +
	"that can be used to create a good and funny meme for that scenario. " +
	"You must choose one of the following templates: %s. " +
	"Respond with the template name only, exactly as written, without quotes or punctuation."

// BuildSelectionPrompt returns the conversation prefix for template selection.
// The two worked examples are included only when the catalog contains the
// template they answer with.
func BuildSelectionPrompt(cat *catalog.Catalog) []domain.Message {
	messages := []domain.Message{
		domain.SystemMessage(fmt.Sprintf(selectionSystemPrompt, JoinTemplateNames(cat))),
	}

	examples := []struct {
		scenario string
		template string
	}{
		{exampleGamingScenario, exampleGamingTemplate},
		{exampleRaiseScenario, exampleRaiseTemplate},
	}
	for _, ex := range examples {
		if _, ok := cat.Lookup(ex.template); !ok {
			continue
		}
		messages = append(messages,
			domain.UserMessage(ex.scenario),
			domain.AssistantMessage(ex.template),
		)
	}

	return messages
}

// JoinTemplateNames renders the catalog names as 'a', 'b', 'c'.
func JoinTemplateNames(cat *catalog.Catalog) string {
	names := cat.Names()
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = "'" + name + "'"
	}
	return strings.Join(quoted, ", ")
}

// SelectionRequest appends the live scenario to a selection prefix.
func SelectionRequest(prefix []domain.Message, scenario string) []domain.Message {
	return appendMessage(prefix, domain.UserMessage(scenario))
}

// ============================================================================
// Caption generation
// ============================================================================

const captionSystemPrompt = "You are an assistant designed to create memes. " +
	"You will be given a scenario, a well known meme template and the names of the captions for that template. " +
	"You will respond with the text for each caption in order to create " +
	"a good and funny meme for the given scenario. " +
	"You communicate in JSON format: respond with a single JSON object whose keys are exactly the caption names " +
	"and whose values are the caption texts, and nothing else."

// BuildCaptionPrompt returns the conversation prefix for caption generation.
func BuildCaptionPrompt(cat *catalog.Catalog) ([]domain.Message, error) {
	messages := []domain.Message{domain.SystemMessage(captionSystemPrompt)}

	tmpl, ok := cat.Lookup(exampleGamingTemplate)
	if !ok {
		return messages, nil
	}

	// A custom catalog may rename the slots; the example only fits the
	// default ones.
	answer := make(domain.Captions, 0, len(tmpl.CaptionNames))
	for _, slot := range tmpl.CaptionNames {
		text, ok := exampleGamingCaptions[slot]
		if !ok {
			return messages, nil
		}
		answer = append(answer, domain.Caption{Slot: slot, Text: text})
	}

	request, err := domain.MemeRequest{Scenario: exampleGamingScenario, Template: tmpl}.JSON()
	if err != nil {
		return nil, err
	}
	reply, err := json.Marshal(answer)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal example captions: %w", err)
	}

	return append(messages,
		domain.UserMessage(request),
		domain.AssistantMessage(string(reply)),
	), nil
}

// CaptionRequest appends the serialized meme request to a caption prefix.
func CaptionRequest(prefix []domain.Message, req domain.MemeRequest) ([]domain.Message, error) {
	content, err := req.JSON()
	if err != nil {
		return nil, err
	}
	return appendMessage(prefix, domain.UserMessage(content)), nil
}

// appendMessage copies prefix so callers can reuse it across requests.
func appendMessage(prefix []domain.Message, msg domain.Message) []domain.Message {
	out := make([]domain.Message, 0, len(prefix)+1)
	out = append(out, prefix...)
	return append(out, msg)
}
