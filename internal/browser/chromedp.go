// internal/browser/chromedp.go
package browser

import (
	"context"
	"fmt"

	"github.com/chromedp/chromedp"
	"golang.org/x/time/rate"
)

// ChromeRetriever renders pages with headless Chrome. Every FetchHTML call
// launches its own browser session and tears it down on return, so no
// browser state leaks between requests.
type ChromeRetriever struct {
	cfg     *Config
	limiter *rate.Limiter
}

// NewChromeRetriever creates a Chrome-backed page retriever.
func NewChromeRetriever(cfg *Config) *ChromeRetriever {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &ChromeRetriever{
		cfg:     cfg,
		limiter: newLimiter(cfg),
	}
}

// FetchHTML navigates to url in a fresh browser session and returns the
// rendered document markup. The session is closed unconditionally before
// returning, success or failure.
func (r *ChromeRetriever) FetchHTML(ctx context.Context, url string) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, stealthOpts(r.cfg)...)
	defer cancelAlloc()

	tabCtx, cancelTab := chromedp.NewContext(allocCtx)
	defer cancelTab()

	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		tabCtx, cancel = context.WithTimeout(tabCtx, r.cfg.Timeout)
		defer cancel()
	}

	tasks := []chromedp.Action{
		chromedp.Navigate(url),
		hideWebDriver(),
		chromedp.WaitReady("body"),
	}
	if r.cfg.WaitDelay > 0 {
		tasks = append(tasks, chromedp.Sleep(r.cfg.WaitDelay))
	}

	var html string
	tasks = append(tasks, chromedp.OuterHTML("html", &html))

	if err := chromedp.Run(tabCtx, tasks...); err != nil {
		return "", fmt.Errorf("render %s: %w", url, err)
	}
	return html, nil
}

// stealthOpts returns Chrome launch options that hide the usual automation
// markers. Marketplaces serve block pages to clients that look like bots.
func stealthOpts(cfg *Config) []chromedp.ExecAllocatorOption {
	ua := cfg.UserAgent
	if ua == "" {
		ua = randomUserAgent()
	}

	opts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("excludeSwitches", "enable-automation"),
		chromedp.Flag("useAutomationExtension", false),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.WindowSize(1920, 1080),
		chromedp.UserAgent(ua),
	}
	if cfg.Headless {
		opts = append(opts, chromedp.Flag("headless", "new"))
	}
	return opts
}

// hideWebDriver patches the JS properties that site scripts probe even when
// the launch flags above are set.
func hideWebDriver() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		return chromedp.Evaluate(`
			Object.defineProperty(navigator, 'webdriver', { get: () => undefined });
			Object.defineProperty(navigator, 'plugins', { get: () => [1, 2, 3, 4, 5] });
			Object.defineProperty(navigator, 'languages', { get: () => ['en-US', 'en'] });
		`, nil).Do(ctx)
	})
}
