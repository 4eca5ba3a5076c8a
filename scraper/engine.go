package scraper

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

// Snapshot is what headless Chrome saw when loading a company website.
type Snapshot struct {
	URL        string
	Title      string
	Screenshot []byte // PNG
}

// Options configures the browser used for snapshots.
type Options struct {
	Proxy   string
	Timeout time.Duration
}

// Capture loads website and grabs its title and a screenshot.
func Capture(ctx context.Context, website string, opts Options) (*Snapshot, error) {
	target, err := NormalizeURL(website)
	if err != nil {
		return nil, err
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("ignore-certificate-errors", true),
	)
	if opts.Proxy != "" {
		allocOpts = append(allocOpts, chromedp.ProxyServer(opts.Proxy))
	}
	allocCtx, cancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	browserCtx, cancel = context.WithTimeout(browserCtx, timeout)
	defer cancel()

	var title string
	var buf []byte

	log.Printf("capturing snapshot of %s", target)

	err = chromedp.Run(browserCtx,
		chromedp.Navigate(target),
		chromedp.Title(&title),
		chromedp.CaptureScreenshot(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to capture %s: %w", target, err)
	}

	if title == "" {
		title = hostOf(target)
	}
	return &Snapshot{URL: target, Title: title, Screenshot: buf}, nil
}

// NormalizeURL turns a bare website like "acme.com" into an https URL.
func NormalizeURL(website string) (string, error) {
	website = strings.TrimSpace(website)
	if website == "" {
		return "", fmt.Errorf("empty website")
	}
	if !strings.Contains(website, "://") {
		website = "https://" + website
	}
	u, err := url.Parse(website)
	if err != nil {
		return "", fmt.Errorf("invalid website %q: %w", website, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid website %q", website)
	}
	return u.String(), nil
}

func hostOf(target string) string {
	u, err := url.Parse(target)
	if err != nil {
		return target
	}
	return u.Hostname()
}
