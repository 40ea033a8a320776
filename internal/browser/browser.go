// Package browser opens URLs in the user's default browser.
package browser

import (
	"context"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

// Opener shows a URL to the user.
type Opener interface {
	Open(ctx context.Context, u string) error
}

// SystemOpener launches the platform's URL handler.
type SystemOpener struct {
	goos string
}

// NewSystemOpener returns an opener for the running platform.
func NewSystemOpener() *SystemOpener {
	return &SystemOpener{goos: runtime.GOOS}
}

// Open starts the browser and returns without waiting for it to exit.
func (o *SystemOpener) Open(ctx context.Context, u string) error {
	parsed, err := url.Parse(u)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return fmt.Errorf("refusing to open %q: not an http(s) URL", u)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	cmd := command(o.goos, u)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	// Reap the launcher in the background.
	go func() { _ = cmd.Wait() }()
	return nil
}

func command(goos, u string) *exec.Cmd {
	switch goos {
	case "darwin":
		return exec.Command("open", u)
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", u)
	default: // linux, freebsd, etc.
		return exec.Command("xdg-open", u)
	}
}
