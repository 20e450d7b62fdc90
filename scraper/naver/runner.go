package naver

import (
	"context"
	"fmt"

	"naver-shop-crawler/models"
	"naver-shop-crawler/utils"
)

// Runner turns a parsed request into a response, owning the browser
// sessions it opens for the duration of the call.
type Runner struct {
	newSession SessionFactory
	opts       Options
	workers    int
	log        *utils.Logger
}

func NewRunner(newSession SessionFactory, opts Options, workers int, log *utils.Logger) *Runner {
	if log == nil {
		log = utils.Discard()
	}
	return &Runner{newSession: newSession, opts: opts, workers: workers, log: log}
}

// Execute returns an error only for failures outside the job loop, such as
// a browser that will not start. Job failures live inside the response.
func (r *Runner) Execute(ctx context.Context, req models.Request) (models.Response, error) {
	if !req.Single && r.workers > 1 && len(req.Jobs) > 1 {
		pool := NewWorkerPool(r.newSession, r.opts, r.workers, r.log)
		batch, err := pool.Run(ctx, req.Jobs)
		if err != nil {
			return models.Response{}, err
		}
		return models.Response{Batch: batch}, nil
	}

	session, err := r.newSession(ctx)
	if err != nil {
		return models.Response{}, fmt.Errorf("open browser session: %w", err)
	}
	defer session.Close()

	crawler := NewCrawler(session, r.opts, r.log)
	if req.Single {
		result := crawler.RunOne(ctx, req.URL)
		return models.Response{Single: &result}, nil
	}
	return models.Response{Batch: crawler.Run(ctx, req.Jobs)}, nil
}
