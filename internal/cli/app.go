// Package cli drives one meme generation from the terminal: it reads the
// scenario, runs the pipeline, prints the result and opens it in a browser.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/timmy/memegpt/internal/browser"
	"github.com/timmy/memegpt/internal/catalog"
	"github.com/timmy/memegpt/internal/domain"
	"github.com/timmy/memegpt/internal/logger"
)

const scenarioPrompt = "Enter Scenario: "

// Generator produces a meme for a scenario.
type Generator interface {
	Run(ctx context.Context, scenario string) (*domain.Meme, error)
}

// Options configures an App.
type Options struct {
	Generator   Generator
	Catalog     *catalog.Catalog
	Opener      browser.Opener
	OpenBrowser bool
	In          io.Reader
	Out         io.Writer
	Err         io.Writer
}

// App is the terminal front end.
type App struct {
	generator   Generator
	catalog     *catalog.Catalog
	opener      browser.Opener
	openBrowser bool
	in          io.Reader
	out         io.Writer
	errOut      io.Writer

	label *color.Color
	link  *color.Color
}

// New creates an App.
func New(opts Options) *App {
	return &App{
		generator:   opts.Generator,
		catalog:     opts.Catalog,
		opener:      opts.Opener,
		openBrowser: opts.OpenBrowser && opts.Opener != nil,
		in:          opts.In,
		out:         opts.Out,
		errOut:      opts.Err,
		label:       color.New(color.FgCyan, color.Bold),
		link:        color.New(color.FgGreen),
	}
}

// Run generates one meme. An empty scenario is read from the input after
// prompting on the error stream. Output is written only once every step
// has succeeded.
func (a *App) Run(ctx context.Context, scenario string) error {
	if scenario == "" {
		line, err := a.readScenario()
		if err != nil {
			return err
		}
		scenario = line
	}

	meme, err := a.generator.Run(ctx, scenario)
	if err != nil {
		return err
	}

	a.printMeme(meme)

	if !a.openBrowser {
		return nil
	}
	if err := a.opener.Open(ctx, meme.URL); err != nil {
		logger.CtxWarn(ctx, "Could not open browser: %v", err)
	}
	return nil
}

func (a *App) readScenario() (string, error) {
	fmt.Fprint(a.errOut, scenarioPrompt)

	reader := bufio.NewReader(a.in)
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read scenario: %w", err)
	}
	line = strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(line) == "" {
		return "", domain.ErrEmptyScenario
	}
	return line, nil
}

func (a *App) printMeme(meme *domain.Meme) {
	a.label.Fprint(a.out, "Template: ")
	fmt.Fprintln(a.out, meme.Template.Name)
	for _, c := range meme.Captions {
		a.label.Fprintf(a.out, "%s: ", c.Slot)
		fmt.Fprintln(a.out, c.Text)
	}
	a.link.Fprintln(a.out, meme.URL)
}

// ListTemplates prints one "<id>\t<name>\t<slot, slot>" line per template.
func (a *App) ListTemplates() {
	for _, t := range a.catalog.Templates() {
		fmt.Fprintf(a.out, "%d\t%s\t%s\n", t.ID, t.Name, strings.Join(t.CaptionNames, ", "))
	}
}

// ReportError prints err to w.
func ReportError(w io.Writer, err error) {
	color.New(color.FgRed).Fprintf(w, "Error: %v\n", err)
}

// ExitCode maps a run error to a process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, domain.ErrConfig):
		return 2
	default:
		return 1
	}
}
