package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"naver-shop-crawler/config"
	"naver-shop-crawler/scraper/naver"
	"naver-shop-crawler/utils"

	"github.com/chromedp/chromedp"
)

const (
	scrollHeightJS   = `document.body.scrollHeight`
	scrollToBottomJS = `window.scrollTo(0, document.body.scrollHeight);`
)

type Options struct {
	Headless       bool
	UserAgent      string
	AcceptLanguage string
	ExecPath       string
	WindowWidth    int
	WindowHeight   int
	// NavigateTimeout bounds a single Navigate call.
	NavigateTimeout time.Duration
}

func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Headless:        cfg.Headless,
		UserAgent:       cfg.UserAgent,
		AcceptLanguage:  cfg.AcceptLanguage,
		NavigateTimeout: cfg.RequestTimeout,
	}
}

func (o Options) windowWidth() int {
	if o.WindowWidth > 0 {
		return o.WindowWidth
	}
	return 1920
}

func (o Options) windowHeight() int {
	if o.WindowHeight > 0 {
		return o.WindowHeight
	}
	return 1080
}

// ChromeSession is a naver.Session backed by one Chrome tab.
type ChromeSession struct {
	opts        Options
	tabCtx      context.Context
	tabCancel   context.CancelFunc
	allocCancel context.CancelFunc
	log         *utils.Logger
}

var _ naver.Session = (*ChromeSession)(nil)

// NewChromeSession launches Chrome and opens a tab with the stealth patches
// applied. The browser process lives until Close.
func NewChromeSession(ctx context.Context, opts Options, log *utils.Logger) (*ChromeSession, error) {
	if log == nil {
		log = utils.Discard()
	}

	log.Info("Launching Chrome browser...")
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.WithoutCancel(ctx), StealthOpts(opts)...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(log.Logf))

	// The first Run starts the browser and must use the tab context itself,
	// otherwise the browser dies with the derived context.
	if err := chromedp.Run(tabCtx, HideWebDriver(), AcceptLanguage(opts.AcceptLanguage)); err != nil {
		tabCancel()
		allocCancel()
		return nil, fmt.Errorf("launch chrome: %w", err)
	}

	log.Success("Browser ready")
	return &ChromeSession{
		opts:        opts,
		tabCtx:      tabCtx,
		tabCancel:   tabCancel,
		allocCancel: allocCancel,
		log:         log,
	}, nil
}

// Factory adapts NewChromeSession to naver.SessionFactory.
func Factory(opts Options, log *utils.Logger) naver.SessionFactory {
	return func(ctx context.Context) (naver.Session, error) {
		return NewChromeSession(ctx, opts, log)
	}
}

func (s *ChromeSession) Close() {
	s.log.Info("Closing browser...")
	s.tabCancel()
	s.allocCancel()
}

// scoped derives a context from the tab that also ends with ctx.
func (s *ChromeSession) scoped(ctx context.Context) (context.Context, context.CancelFunc) {
	runCtx, cancel := context.WithCancel(s.tabCtx)
	if deadline, ok := ctx.Deadline(); ok {
		var cancelDeadline context.CancelFunc
		runCtx, cancelDeadline = context.WithDeadline(runCtx, deadline)
		inner := cancel
		cancel = func() {
			cancelDeadline()
			inner()
		}
	}
	stop := context.AfterFunc(ctx, cancel)
	return runCtx, func() {
		stop()
		cancel()
	}
}

func (s *ChromeSession) Navigate(ctx context.Context, url string) error {
	runCtx, cancel := s.scoped(ctx)
	defer cancel()

	if s.opts.NavigateTimeout > 0 {
		var cancelNav context.CancelFunc
		runCtx, cancelNav = context.WithTimeout(runCtx, s.opts.NavigateTimeout)
		defer cancelNav()
	}

	if err := chromedp.Run(runCtx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	return nil
}

func (s *ChromeSession) WaitReady(ctx context.Context, selector string, timeout time.Duration) error {
	runCtx, cancel := s.scoped(ctx)
	defer cancel()

	waitCtx, cancelWait := context.WithTimeout(runCtx, timeout)
	defer cancelWait()

	err := chromedp.Run(waitCtx, chromedp.WaitReady(selector, chromedp.ByQuery))
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		return fmt.Errorf("%w: %s after %v", naver.ErrWaitTimeout, selector, timeout)
	}
	return fmt.Errorf("wait for %s: %w", selector, err)
}

func (s *ChromeSession) ScrollHeight(ctx context.Context) (int64, error) {
	runCtx, cancel := s.scoped(ctx)
	defer cancel()

	var height int64
	if err := chromedp.Run(runCtx, chromedp.Evaluate(scrollHeightJS, &height)); err != nil {
		return 0, err
	}
	return height, nil
}

func (s *ChromeSession) ScrollToBottom(ctx context.Context) error {
	runCtx, cancel := s.scoped(ctx)
	defer cancel()

	return chromedp.Run(runCtx, chromedp.Evaluate(scrollToBottomJS, nil))
}

func (s *ChromeSession) OuterHTML(ctx context.Context, selector string) (string, error) {
	runCtx, cancel := s.scoped(ctx)
	defer cancel()

	var markup string
	if err := chromedp.Run(runCtx, chromedp.OuterHTML(selector, &markup, chromedp.ByQuery)); err != nil {
		return "", err
	}
	return markup, nil
}
