package naver

import (
	"context"
	"fmt"
	"time"

	"naver-shop-crawler/models"
	"naver-shop-crawler/utils"

	"golang.org/x/sync/errgroup"
)

type indexedJob struct {
	index int
	job   models.Job
}

// WorkerPool crawls a batch with several browser sessions at once. Each
// worker owns its session; results come back in input order.
type WorkerPool struct {
	newSession SessionFactory
	opts       Options
	workers    int
	log        *utils.Logger
}

func NewWorkerPool(newSession SessionFactory, opts Options, workers int, log *utils.Logger) *WorkerPool {
	if workers < 1 {
		workers = 1
	}
	if log == nil {
		log = utils.Discard()
	}
	return &WorkerPool{
		newSession: newSession,
		opts:       opts,
		workers:    workers,
		log:        log,
	}
}

// Run returns an error only when a worker could not open its session.
func (p *WorkerPool) Run(ctx context.Context, jobs []models.Job) ([]models.CategoryResult, error) {
	results := make([]models.CategoryResult, len(jobs))
	if len(jobs) == 0 {
		return results, nil
	}

	workerCount := p.workers
	if len(jobs) < workerCount {
		workerCount = len(jobs)
	}

	queue := make(chan indexedJob, len(jobs))
	for i, job := range jobs {
		queue <- indexedJob{index: i, job: job}
	}
	close(queue)

	p.log.Info("Crawling %d categories with %d workers", len(jobs), workerCount)

	g, gctx := errgroup.WithContext(ctx)
	for id := 1; id <= workerCount; id++ {
		id := id
		g.Go(func() error {
			return p.worker(gctx, id, queue, results)
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (p *WorkerPool) worker(ctx context.Context, id int, queue <-chan indexedJob, results []models.CategoryResult) error {
	log := p.log.With("worker", id)

	session, err := p.newSession(ctx)
	if err != nil {
		return fmt.Errorf("worker %d: open browser session: %w", id, err)
	}
	defer session.Close()

	crawler := NewCrawler(session, p.opts, log)
	first := true
	for item := range queue {
		if !first {
			pause(ctx, p.opts.JobDelay, log)
		}
		first = false

		results[item.index] = models.CategoryResult{
			CategoryID: item.job.CategoryID,
			Result:     crawler.RunJob(ctx, item.job),
		}
	}
	return nil
}

func pause(ctx context.Context, d time.Duration, log *utils.Logger) {
	if err := utils.Sleep(ctx, d); err != nil {
		log.Warn("Inter-job delay interrupted: %v", err)
	}
}
