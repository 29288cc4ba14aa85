package replay

import (
	"context"
	"fmt"
	"log"
	"os/exec"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
)

const (
	// UserAgent sent by both fetch modes.
	UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// MinRequestInterval spaces out headless page loads.
	MinRequestInterval = 2 * time.Second

	curlTimeoutSeconds = "10"
	browserTimeout     = 30 * time.Second
)

// Fetcher returns the HTML of a page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// CurlFetcher downloads pages with curl.
type CurlFetcher struct{}

func (CurlFetcher) Fetch(ctx context.Context, url string) (string, error) {
	cmd := exec.CommandContext(ctx, "curl", "-s", "-L", "-f", "-m", curlTimeoutSeconds, "-A", UserAgent, url)
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("curl failed for %s: %w", url, err)
	}
	if len(output) == 0 {
		return "", fmt.Errorf("empty response from %s", url)
	}
	return string(output), nil
}

// BrowserFetcher renders pages in headless Chrome, for replay mirrors that
// build their link lists with JavaScript.
type BrowserFetcher struct {
	mu          sync.Mutex
	lastRequest time.Time
	interval    time.Duration

	allocCtx context.Context
	cancel   context.CancelFunc
}

// NewBrowserFetcher starts a headless Chrome allocator. Close must be called
// to release it.
func NewBrowserFetcher() *BrowserFetcher {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(UserAgent),
	)

	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &BrowserFetcher{
		interval: MinRequestInterval,
		allocCtx: allocCtx,
		cancel:   cancel,
	}
}

// Close releases the browser allocator.
func (b *BrowserFetcher) Close() {
	if b.cancel != nil {
		b.cancel()
	}
}

func (b *BrowserFetcher) Fetch(ctx context.Context, url string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.lastRequest.IsZero() {
		if wait := b.interval - time.Since(b.lastRequest); wait > 0 {
			log.Printf("[replay] rate limiting: waiting %v before next page load", wait)
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
	}

	html, err := b.render(ctx, url)
	b.lastRequest = time.Now()
	return html, err
}

func (b *BrowserFetcher) render(ctx context.Context, url string) (string, error) {
	browserCtx, cancel := chromedp.NewContext(b.allocCtx)
	defer cancel()

	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, browserTimeout)
	defer cancelTimeout()

	// Stop the page load when the caller gives up.
	stop := context.AfterFunc(ctx, cancelTimeout)
	defer stop()

	var htmlContent string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitVisible(`body`, chromedp.ByQuery),
		chromedp.Sleep(1*time.Second),
		chromedp.OuterHTML(`html`, &htmlContent, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("chromedp error: %w", err)
	}
	if htmlContent == "" {
		return "", fmt.Errorf("empty HTML content returned")
	}
	return htmlContent, nil
}

// NewFetcher picks the fetch mode by name. The returned close func is a no-op
// for curl.
func NewFetcher(mode string) (Fetcher, func(), error) {
	switch mode {
	case "", "curl":
		return CurlFetcher{}, func() {}, nil
	case "browser":
		b := NewBrowserFetcher()
		return b, b.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown replay fetch mode %q", mode)
	}
}
