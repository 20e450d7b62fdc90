package naver

import (
	"context"
	"fmt"

	"naver-shop-crawler/utils"
)

// Scroller is the part of a Session the scroll driver uses.
type Scroller interface {
	ScrollHeight(ctx context.Context) (int64, error)
	ScrollToBottom(ctx context.Context) error
}

// ScrollResult describes one exhaustion run.
type ScrollResult struct {
	// Iterations counts scrolls that grew the page.
	Iterations int
	// Settled is false when the iteration bound was hit first.
	Settled bool
}

// ExhaustScroll scrolls to the bottom until the page height stops changing
// or maxIterations growth steps have happened. Hitting the bound is not an
// error; whatever has loaded so far is kept.
func ExhaustScroll(ctx context.Context, s Scroller, maxIterations int, pause utils.DelayRange) (ScrollResult, error) {
	last, err := s.ScrollHeight(ctx)
	if err != nil {
		return ScrollResult{}, fmt.Errorf("read scroll height: %w", err)
	}

	res := ScrollResult{}
	for res.Iterations < maxIterations {
		if err := s.ScrollToBottom(ctx); err != nil {
			return res, fmt.Errorf("scroll to bottom: %w", err)
		}
		if err := utils.RandomDelay(ctx, pause); err != nil {
			return res, err
		}

		height, err := s.ScrollHeight(ctx)
		if err != nil {
			return res, fmt.Errorf("read scroll height: %w", err)
		}
		if height == last {
			res.Settled = true
			return res, nil
		}

		last = height
		res.Iterations++
	}

	return res, nil
}
