package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/timmy/memegpt/internal/browser"
	"github.com/timmy/memegpt/internal/catalog"
	"github.com/timmy/memegpt/internal/cli"
	"github.com/timmy/memegpt/internal/config"
	"github.com/timmy/memegpt/internal/logger"
	"github.com/timmy/memegpt/internal/service"
)

type flags struct {
	scenario      string
	configPath    string
	listTemplates bool
	noBrowser     bool
}

func main() {
	// Initialize logger first (with defaults)
	logger.SetDefaultLogger(logger.New(logger.DefaultConfig()))

	// Parse command line flags
	var f flags
	flag.StringVar(&f.scenario, "scenario", "", "Scenario to make a meme about (prompted for when empty)")
	flag.StringVar(&f.configPath, "config", "", "Path to config file")
	flag.BoolVar(&f.listTemplates, "list-templates", false, "Print the template catalog and exit")
	flag.BoolVar(&f.noBrowser, "no-browser", false, "Do not open the meme in a browser")
	flag.Parse()

	os.Exit(run(f))
}

func run(f flags) int {
	fail := func(err error) int {
		cli.ReportError(os.Stderr, err)
		return cli.ExitCode(err)
	}

	// Load configuration
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return fail(err)
	}

	logger.SetDefaultLogger(logger.New(&logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Output:      os.Stderr,
		ServiceName: "memegpt",
		File:        cfg.Log.File,
		MaxSizeMB:   cfg.Log.MaxSizeMB,
		MaxBackups:  cfg.Log.MaxBackups,
		MaxAgeDays:  cfg.Log.MaxAgeDays,
		Compress:    true,
	}))
	defer func() { _ = logger.Sync() }()

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return fail(err)
	}

	opts := cli.Options{
		Catalog:     cat,
		Opener:      browser.NewSystemOpener(),
		OpenBrowser: cfg.Browser.Open && !f.noBrowser,
		In:          os.Stdin,
		Out:         os.Stdout,
		Err:         os.Stderr,
	}

	if f.listTemplates {
		cli.New(opts).ListTemplates()
		return 0
	}

	// Credentials are only required once a meme is generated
	if err := cfg.Validate(); err != nil {
		return fail(err)
	}

	// Initialize services
	completer := service.NewCompletionService(&service.CompletionConfig{
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Timeout:     cfg.LLM.Timeout,
	})

	captions, err := service.NewCaptionGenerator(completer, cat, &service.CaptionConfig{
		Strict: cfg.Captions.Strict,
	})
	if err != nil {
		return fail(err)
	}

	renderer := service.NewMemeRenderer(&service.RendererConfig{
		Username: cfg.Imgflip.Username,
		Password: cfg.Imgflip.Password,
		BaseURL:  cfg.Imgflip.BaseURL,
		Timeout:  cfg.Imgflip.Timeout,
	})

	opts.Generator = service.NewPipeline(service.NewTemplateSelector(completer, cat), captions, renderer)

	// Cancel in-flight calls on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ctx = logger.SetRunID(ctx, uuid.NewString())
	ctx = logger.SetComponent(ctx, "memegpt")

	logger.FromContext(ctx).WithFields(logger.Fields{
		logger.FieldModel: cfg.LLM.Model,
		logger.FieldCount: cat.Len(),
		"strict":          cfg.Captions.Strict,
	}).Info("Starting meme generation")

	if err := cli.New(opts).Run(ctx, f.scenario); err != nil {
		return fail(err)
	}
	return 0
}
