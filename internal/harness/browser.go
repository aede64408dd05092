package harness

import (
	"fmt"

	"github.com/playwright-community/playwright-go"

	"github.com/redbaez/airwave-e2e/internal/config"
)

// Browser owns the Playwright runtime and a launched Chromium instance.
// One Browser serves many isolated contexts; contexts share nothing.
type Browser struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	cfg     *config.Config
}

// Launch starts Playwright and launches Chromium per the configuration.
func Launch(cfg *config.Config) (*Browser, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("launch chromium: %w", err)
	}

	return &Browser{pw: pw, browser: browser, cfg: cfg}, nil
}

// NewContext creates an isolated browser context with the harness's default
// timeouts applied.
func (b *Browser) NewContext() (playwright.BrowserContext, error) {
	ctx, err := b.browser.NewContext()
	if err != nil {
		return nil, fmt.Errorf("create browser context: %w", err)
	}
	ctx.SetDefaultTimeout(float64(b.cfg.ActionTimeout.Milliseconds()))
	ctx.SetDefaultNavigationTimeout(float64(b.cfg.NavigationTimeout.Milliseconds()))
	return ctx, nil
}

// NewPage creates a page in a fresh context.
func (b *Browser) NewPage() (playwright.Page, error) {
	page, err := b.browser.NewPage()
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	page.SetDefaultTimeout(float64(b.cfg.ActionTimeout.Milliseconds()))
	page.SetDefaultNavigationTimeout(float64(b.cfg.NavigationTimeout.Milliseconds()))
	return page, nil
}

// Config returns the harness configuration the browser was launched with.
func (b *Browser) Config() *config.Config {
	return b.cfg
}

// Close releases the browser and the Playwright runtime.
func (b *Browser) Close() {
	if b.browser != nil {
		_ = b.browser.Close()
	}
	if b.pw != nil {
		_ = b.pw.Stop()
	}
}
