package fetch

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

// MinContentLength is the shortest static extraction accepted before falling
// back to a headless render.
const MinContentLength = 500

// DefaultBrowserTimeout bounds a single headless render.
const DefaultBrowserTimeout = 45 * time.Second

// settleDelay gives client-side job boards time to inject the posting body.
const settleDelay = 3 * time.Second

// Renderer renders a URL and returns the resulting HTML.
type Renderer func(ctx context.Context, url string) (string, error)

var headlessFlags = []chromedp.ExecAllocatorOption{
	chromedp.Flag("headless", true),
	chromedp.Flag("disable-gpu", true),
	chromedp.Flag("no-sandbox", true),
	chromedp.Flag("disable-dev-shm-usage", true),
}

// ShouldUseBrowser reports whether a static extraction is too thin to be a
// real job description.
func ShouldUseBrowser(extractedText string) bool {
	return len(strings.TrimSpace(extractedText)) < MinContentLength
}

// WithBrowser renders url in headless Chrome and returns the page HTML.
func WithBrowser(ctx context.Context, url string, timeout time.Duration, verbose bool) (string, error) {
	opts := append(append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...), headlessFlags...)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	tabCtx, cancelTab := chromedp.NewContext(allocCtx)
	defer cancelTab()

	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, timeout)
	defer cancelTimeout()

	if verbose {
		log.Printf("[fetch] rendering %s in headless browser (timeout %s)", url, timeout)
	}

	var html string
	if err := chromedp.Run(tabCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.Sleep(settleDelay),
		chromedp.OuterHTML("html", &html),
	); err != nil {
		return "", fmt.Errorf("browser rendering failed for %s: %w", url, err)
	}

	if verbose {
		log.Printf("[fetch] rendered %d bytes from %s", len(html), url)
	}
	return html, nil
}

// BrowserRenderer adapts WithBrowser to a Renderer.
func BrowserRenderer(timeout time.Duration, verbose bool) Renderer {
	return func(ctx context.Context, url string) (string, error) {
		return WithBrowser(ctx, url, timeout, verbose)
	}
}
