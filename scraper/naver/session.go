package naver

import (
	"context"
	"errors"
	"time"
)

//go:generate mockgen -destination=../../mocks/mock_session.go -package=mocks naver-shop-crawler/scraper/naver Session

// ErrWaitTimeout is returned by Session.WaitReady when the selector did not
// show up within the wait bound. The caller's own deadline is reported as
// its context error instead.
var ErrWaitTimeout = errors.New("timed out waiting for element")

// Session is the slice of a browser tab the crawler needs.
// Implementations are not safe for concurrent navigations.
type Session interface {
	Navigate(ctx context.Context, url string) error
	WaitReady(ctx context.Context, selector string, timeout time.Duration) error
	ScrollHeight(ctx context.Context) (int64, error)
	ScrollToBottom(ctx context.Context) error
	OuterHTML(ctx context.Context, selector string) (string, error)
	Close()
}

// SessionFactory opens a fresh browser session.
type SessionFactory func(ctx context.Context) (Session, error)
