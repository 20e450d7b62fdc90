package browser

import (
	"context"
	"math/rand"
	"strings"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// userAgents rotate across desktop Chrome builds when CRAWLER_USER_AGENT is unset.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/130.0.0.0 Safari/537.36 Edg/130.0.0.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/129.0.0.0 Safari/537.36 Whale/3.28.266.14",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/130.0.0.0 Safari/537.36",
}

func RandomUserAgent() string {
	return userAgents[rand.Intn(len(userAgents))]
}

// hideWebDriverScript patches the JS properties bot checks look at.
const hideWebDriverScript = `
	Object.defineProperty(navigator, 'webdriver', { get: () => undefined });
	Object.defineProperty(navigator, 'plugins', { get: () => [1, 2, 3, 4, 5] });
	Object.defineProperty(navigator, 'languages', { get: () => ['ko-KR', 'ko', 'en-US', 'en'] });
`

// StealthOpts builds the Chrome launch flags for a listing crawl. The
// AutomationControlled blink feature is turned off so navigator.webdriver
// is not set. Headless runs use the new headless mode. Headed runs open
// fullscreen so the lazy loader sees a full-size viewport. The window size
// and user agent come from opts, with a rotated agent when none is set.
func StealthOpts(opts Options) []chromedp.ExecAllocatorOption {
	ua := strings.TrimSpace(opts.UserAgent)
	if ua == "" {
		ua = RandomUserAgent()
	}

	allocOpts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("enable-automation", false),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.WindowSize(opts.windowWidth(), opts.windowHeight()),
		chromedp.UserAgent(ua),
	}

	if opts.Headless {
		allocOpts = append(allocOpts, chromedp.Flag("headless", "new"))
	} else {
		allocOpts = append(allocOpts, chromedp.Flag("start-fullscreen", true))
	}

	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}

	return allocOpts
}

// HideWebDriver registers the patch script for every document the tab
// loads, so it runs before page scripts.
func HideWebDriver() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		_, err := page.AddScriptToEvaluateOnNewDocument(hideWebDriverScript).Do(ctx)
		return err
	})
}

// AcceptLanguage sends the header on every request of the tab.
func AcceptLanguage(value string) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		if value == "" {
			return nil
		}
		if err := network.Enable().Do(ctx); err != nil {
			return err
		}
		return network.SetExtraHTTPHeaders(network.Headers{"Accept-Language": value}).Do(ctx)
	})
}
