package naver

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

type itemFixture struct {
	id       string
	rank     string
	price    string
	delivery string
	lowest   bool
	noRank   bool
	noPrice  bool
	noText   bool
	noIcon   bool
	noLabel  bool
	script   string
}

func renderItem(it itemFixture) string {
	var b strings.Builder
	if it.id != "" {
		fmt.Fprintf(&b, `<li id="%s">`, it.id)
	} else {
		b.WriteString(`<li>`)
	}
	b.WriteString(`<a href="https://search.shopping.naver.com/catalog/1">`)

	if it.noRank {
		b.WriteString(`<div><div></div></div>`)
	} else {
		fmt.Fprintf(&b, `<div><div><span class="rank">%s</span></div></div>`, it.rank)
	}

	if it.noText {
		b.WriteString(`</a></li>`)
		return b.String()
	}

	b.WriteString(`<div><div class="info">`)
	switch {
	case it.noLabel && !it.noIcon:
		b.WriteString(`<em><svg width="12"><path d="M0 0"></path></svg></em>`)
	case it.noIcon && !it.noLabel:
		fmt.Fprintf(&b, `<span class="delivery">%s</span>`, it.delivery)
	case !it.noIcon && !it.noLabel:
		fmt.Fprintf(&b, `<span class="delivery"><svg width="12"><path d="M0 0"></path></svg>%s</span>`, it.delivery)
	}
	if !it.noPrice {
		fmt.Fprintf(&b, `<div class="price"><strong>%s</strong>원</div>`, it.price)
	}
	if it.lowest {
		b.WriteString(`<div class="badge">최저가</div>`)
	}
	if it.script != "" {
		fmt.Fprintf(&b, `<script>%s</script><style>.badge::after{content:"%s"}</style>`, it.script, it.script)
	}
	b.WriteString(`</div><div class="meta">리뷰 12</div></div>`)

	b.WriteString(`</a></li>`)
	return b.String()
}

func renderListing(items ...itemFixture) string {
	var b strings.Builder
	b.WriteString(`<div id="container"><div class="header">베스트</div><div class="category_panel"><ul class="list">`)
	for _, it := range items {
		b.WriteString(renderItem(it))
	}
	b.WriteString(`</ul></div></div>`)
	return b.String()
}

func wellFormed(id string, n int) itemFixture {
	return itemFixture{
		id:       id,
		rank:     fmt.Sprint(n),
		price:    fmt.Sprintf("%d,900", 10+n),
		delivery: "3,000원",
	}
}

// fakeSession replays scripted page state.
type fakeSession struct {
	mu sync.Mutex

	height      func(call int) int64
	heightErr   error
	heightCalls int
	scrolls     int

	waitErr  error
	navErr   map[string]error
	markup   string
	markupBy map[string]string

	navigated []string
	closed    bool
}

func (f *fakeSession) Navigate(_ context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.navigated = append(f.navigated, url)
	if err, ok := f.navErr[url]; ok {
		return err
	}
	return nil
}

func (f *fakeSession) WaitReady(_ context.Context, _ string, _ time.Duration) error {
	return f.waitErr
}

func (f *fakeSession) ScrollHeight(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.heightErr != nil {
		return 0, f.heightErr
	}
	call := f.heightCalls
	f.heightCalls++
	if f.height == nil {
		return 1000, nil
	}
	return f.height(call), nil
}

func (f *fakeSession) ScrollToBottom(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scrolls++
	return nil
}

func (f *fakeSession) OuterHTML(_ context.Context, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.markupBy != nil && len(f.navigated) > 0 {
		if m, ok := f.markupBy[f.navigated[len(f.navigated)-1]]; ok {
			return m, nil
		}
	}
	return f.markup, nil
}

func (f *fakeSession) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

// heightsThen returns the listed heights, then repeats the last one.
func heightsThen(hs ...int64) func(int) int64 {
	return func(call int) int64 {
		if call < len(hs) {
			return hs[call]
		}
		return hs[len(hs)-1]
	}
}

func zeroOptions() Options {
	return Options{MaxScrolls: 10}
}
