package naver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"

	"naver-shop-crawler/mocks"
	"naver-shop-crawler/models"
	"naver-shop-crawler/utils"
)

func TestCrawlerRunIsolatesFailingJob(t *testing.T) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	sess := mocks.NewMockSession(ctrl)
	listing := renderListing(wellFormed("p1", 1), wellFormed("p2", 2))

	gomock.InOrder(
		sess.EXPECT().Navigate(gomock.Any(), "https://shop.example/a").Return(nil),
		sess.EXPECT().WaitReady(gomock.Any(), "#container", gomock.Any()).Return(nil),
		sess.EXPECT().ScrollHeight(gomock.Any()).Return(int64(500), nil),
		sess.EXPECT().ScrollToBottom(gomock.Any()).Return(nil),
		sess.EXPECT().ScrollHeight(gomock.Any()).Return(int64(500), nil),
		sess.EXPECT().WaitReady(gomock.Any(), "#container", gomock.Any()).Return(nil),
		sess.EXPECT().OuterHTML(gomock.Any(), "#container").Return(listing, nil),
		sess.EXPECT().Navigate(gomock.Any(), "https://shop.example/b").
			Return(errors.New("net::ERR_NAME_NOT_RESOLVED")).Times(2),
	)

	opts := zeroOptions()
	opts.MaxRetries = 1
	crawler := NewCrawler(sess, opts, utils.Discard())

	results := crawler.Run(context.Background(), []models.Job{
		{CategoryID: "A", URL: "https://shop.example/a"},
		{CategoryID: "B", URL: "https://shop.example/b"},
	})

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	a := results[0]
	if a.CategoryID != "A" || a.Result.Code != models.CodeOK || a.Result.Count != 2 || len(a.Result.Data) != 2 {
		t.Fatalf("unexpected result for A: %+v", a)
	}
	if a.Result.Data[0].ProductID != "p1" || a.Result.Error != "" {
		t.Fatalf("unexpected data for A: %+v", a.Result)
	}

	b := results[1]
	if b.CategoryID != "B" || b.Result.Code != models.CodeNotFound {
		t.Fatalf("unexpected result for B: %+v", b)
	}
	if b.Result.URL != "https://shop.example/b" || b.Result.CategoryID != "B" {
		t.Fatalf("B did not echo its job: %+v", b.Result)
	}
	if !strings.Contains(b.Result.Error, "ERR_NAME_NOT_RESOLVED") {
		t.Fatalf("B error does not carry the cause: %q", b.Result.Error)
	}
	if b.Result.Count != 0 || len(b.Result.Data) != 0 {
		t.Fatalf("B should carry no data: %+v", b.Result)
	}
}

func TestCrawlerRunOneContainerTimeout(t *testing.T) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	sess := mocks.NewMockSession(ctrl)
	timeout := fmt.Errorf("%w: #container", ErrWaitTimeout)

	sess.EXPECT().Navigate(gomock.Any(), "x").Return(nil)
	sess.EXPECT().WaitReady(gomock.Any(), "#container", gomock.Any()).Return(timeout).Times(2)
	sess.EXPECT().ScrollHeight(gomock.Any()).Return(int64(0), nil).Times(2)
	sess.EXPECT().ScrollToBottom(gomock.Any()).Return(nil)

	got := NewCrawler(sess, zeroOptions(), utils.Discard()).RunOne(context.Background(), "x")

	if got.Code != models.CodeOK || got.Count != 0 || got.Data == nil || len(got.Data) != 0 {
		t.Fatalf("container timeout should be an empty success, got %+v", got)
	}
	if got.CategoryID != "" || got.URL != "x" {
		t.Fatalf("unexpected envelope identity: %+v", got)
	}
}

func TestCrawlerPageLoadFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	sess := mocks.NewMockSession(ctrl)
	sess.EXPECT().Navigate(gomock.Any(), "https://shop.example/c").Return(nil)
	sess.EXPECT().WaitReady(gomock.Any(), "#container", gomock.Any()).Return(errors.New("target crashed"))

	got := NewCrawler(sess, zeroOptions(), utils.Discard()).RunJob(context.Background(), models.Job{CategoryID: "C", URL: "https://shop.example/c"})
	if got.Code != models.CodeNotFound || !strings.Contains(got.Error, "target crashed") {
		t.Fatalf("expected 404 with cause, got %+v", got)
	}
}

func TestCrawlerEmptyURL(t *testing.T) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	got := NewCrawler(mocks.NewMockSession(ctrl), zeroOptions(), utils.Discard()).RunJob(context.Background(), models.Job{CategoryID: "E"})
	if got.Code != models.CodeNotFound || got.Error == "" {
		t.Fatalf("expected 404 for empty url, got %+v", got)
	}
}

type panicSession struct{ fakeSession }

func (p *panicSession) Navigate(context.Context, string) error {
	panic("boom")
}

func TestCrawlerRecoversPanics(t *testing.T) {
	crawler := NewCrawler(&panicSession{}, zeroOptions(), utils.Discard())
	results := crawler.Run(context.Background(), []models.Job{
		{CategoryID: "P", URL: "https://shop.example/p"},
		{CategoryID: "Q", URL: "https://shop.example/q"},
	})
	if len(results) != 2 {
		t.Fatalf("expected both jobs to report, got %d", len(results))
	}
	for _, r := range results {
		if r.Result.Code != models.CodeNotFound || !strings.Contains(r.Result.Error, "boom") {
			t.Fatalf("unexpected result: %+v", r)
		}
	}
}

func TestCrawlerJobDeadline(t *testing.T) {
	opts := zeroOptions()
	opts.JobTimeout = 5 * time.Millisecond
	opts.ScrollPause = utils.DelayRange{Min: time.Second, Max: time.Second}
	s := &fakeSession{height: func(call int) int64 { return int64(call) }}

	got := NewCrawler(s, opts, utils.Discard()).RunOne(context.Background(), "https://shop.example/slow")
	if got.Code != models.CodeNotFound || !strings.Contains(got.Error, "deadline") {
		t.Fatalf("expected deadline failure, got %+v", got)
	}
}
