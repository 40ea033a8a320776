package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/timmy/memegpt/internal/domain"
	"github.com/timmy/memegpt/internal/logger"
)

// Stage is a state of a generation run.
// A run moves Start → TemplateSelected → CaptionsGenerated → Rendered → Done;
// any failure moves it to Failed and stops it.
type Stage string

const (
	StageStart             Stage = "start"
	StageTemplateSelected  Stage = "template_selected"
	StageCaptionsGenerated Stage = "captions_generated"
	StageRendered          Stage = "rendered"
	StageDone              Stage = "done"
	StageFailed            Stage = "failed"
)

// StageError reports the last stage a failed run reached.
type StageError struct {
	Reached Stage
	Err     error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("meme generation failed after %s: %v", e.Reached, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// TemplateChooser picks a template for a scenario.
type TemplateChooser interface {
	Select(ctx context.Context, scenario string) (domain.Template, error)
}

// CaptionWriter writes captions for a scenario and template.
type CaptionWriter interface {
	Generate(ctx context.Context, req domain.MemeRequest) (domain.Captions, error)
}

// Pipeline runs select → caption → render for one scenario.
type Pipeline struct {
	selector TemplateChooser
	captions CaptionWriter
	renderer Renderer
}

// NewPipeline wires the three steps together.
func NewPipeline(selector TemplateChooser, captions CaptionWriter, renderer Renderer) *Pipeline {
	return &Pipeline{
		selector: selector,
		captions: captions,
		renderer: renderer,
	}
}

// Run generates a meme for scenario. The first error aborts the run; later
// steps are not attempted.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - scenario: non-blank free-text scenario.
//
// Returns:
//   - *domain.Meme: template, captions and rendered URL.
//   - error: *StageError wrapping the step's error, or domain.ErrEmptyScenario.
func (p *Pipeline) Run(ctx context.Context, scenario string) (*domain.Meme, error) {
	if strings.TrimSpace(scenario) == "" {
		return nil, domain.ErrEmptyScenario
	}

	start := time.Now()
	stage := StageStart
	ctx = logger.SetStage(ctx, string(stage))

	fail := func(err error) error {
		logger.With(logger.Fields{"error": err.Error()}).
			WithStatus(string(StageFailed)).
			WithDuration(time.Since(start).Milliseconds()).
			Debug(ctx, "Meme generation failed")
		return &StageError{Reached: stage, Err: err}
	}
	advance := func(next Stage) {
		stage = next
		ctx = logger.SetStage(ctx, string(stage))
		logger.CtxDebug(ctx, "Stage reached")
	}

	tmpl, err := p.selector.Select(ctx, scenario)
	if err != nil {
		return nil, fail(err)
	}
	advance(StageTemplateSelected)
	ctx = logger.WithField(ctx, logger.FieldTemplate, tmpl.Name)

	captions, err := p.captions.Generate(ctx, domain.MemeRequest{Scenario: scenario, Template: tmpl})
	if err != nil {
		return nil, fail(err)
	}
	advance(StageCaptionsGenerated)

	url, err := p.renderer.Render(ctx, tmpl.ID, captions.Texts())
	if err != nil {
		return nil, fail(err)
	}
	advance(StageRendered)

	advance(StageDone)
	logger.With(nil).
		WithStatus(string(StageDone)).
		WithCount(len(captions)).
		WithDuration(time.Since(start).Milliseconds()).
		Info(ctx, "Meme generated: %s", url)

	return &domain.Meme{
		Template: tmpl,
		Captions: captions,
		URL:      url,
	}, nil
}
