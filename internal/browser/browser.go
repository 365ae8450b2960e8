// Package browser owns the playwright-go process lifecycle BrowserLens
// needs to observe a real page: launching Chromium and opening a page ready
// to hand to internal/page.NewPlaywrightHandle. Unlike the teacher's
// original Controller, nothing here issues page actions (click/fill/scroll)
// — BrowserLens only observes a page, it never drives one, so that surface
// has no home in this module.
package browser

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
)

const (
	defaultNavTimeout = 30 * time.Second
	headlessEnv       = "BROWSERLENS_HEADLESS"
)

// Launcher owns the playwright process and one Chromium instance.
type Launcher struct {
	pw      *playwright.Playwright
	browser playwright.Browser
}

// NewLauncher starts playwright and launches Chromium. headless, if nil,
// falls back to the BROWSERLENS_HEADLESS environment variable (default true).
func NewLauncher(ctx context.Context, headless *bool) (*Launcher, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("start playwright: %w", err)
	}
	wantHeadless := true
	if headless != nil {
		wantHeadless = *headless
	} else {
		wantHeadless = parseBoolEnv(headlessEnv, true)
	}
	b, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(wantHeadless),
		Args: []string{
			"--disable-dev-shm-usage",
			"--no-sandbox",
		},
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("launch chromium: %w", err)
	}
	return &Launcher{pw: pw, browser: b}, nil
}

// NewPage opens a fresh browser context and page, navigated nowhere yet.
func (l *Launcher) NewPage(storagePath string) (playwright.Page, error) {
	opts := playwright.BrowserNewContextOptions{
		IgnoreHttpsErrors: playwright.Bool(true),
	}
	if strings.TrimSpace(storagePath) != "" {
		opts.StorageStatePath = playwright.String(storagePath)
	}
	bctx, err := l.browser.NewContext(opts)
	if err != nil {
		return nil, fmt.Errorf("new context: %w", err)
	}
	pg, err := bctx.NewPage()
	if err != nil {
		_ = bctx.Close()
		return nil, fmt.Errorf("new page: %w", err)
	}
	pg.SetDefaultTimeout(float64(defaultNavTimeout.Milliseconds()))
	return pg, nil
}

// Close tears down the browser and the playwright process.
func (l *Launcher) Close() error {
	if l.browser != nil {
		_ = l.browser.Close()
	}
	if l.pw != nil {
		return l.pw.Stop()
	}
	return nil
}

func parseBoolEnv(name string, def bool) bool {
	val := strings.TrimSpace(os.Getenv(name))
	if val == "" {
		return def
	}
	switch strings.ToLower(val) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return def
	}
}
