package naver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"naver-shop-crawler/config"
	"naver-shop-crawler/models"
	"naver-shop-crawler/utils"
)

// Options tune one crawler. Zero pauses and delays make it run flat out,
// which is what tests want.
type Options struct {
	PageLoadTimeout  time.Duration
	ContainerTimeout time.Duration
	JobTimeout       time.Duration
	MaxScrolls       int
	ScrollPause      utils.DelayRange
	JobDelay         time.Duration
	MaxRetries       int
	RetryBackoff     time.Duration
}

func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		PageLoadTimeout:  cfg.PageLoadTimeout,
		ContainerTimeout: cfg.ContainerTimeout,
		JobTimeout:       cfg.JobTimeout,
		MaxScrolls:       cfg.MaxScrolls,
		ScrollPause:      utils.DelayRange{Min: cfg.MinScrollPause, Max: cfg.MaxScrollPause},
		JobDelay:         cfg.JobDelay,
		MaxRetries:       cfg.MaxRetries,
		RetryBackoff:     cfg.RetryBackoff,
	}
}

// Crawler drives one Session through category jobs, strictly in order.
type Crawler struct {
	session Session
	opts    Options
	log     *utils.Logger
}

func NewCrawler(session Session, opts Options, log *utils.Logger) *Crawler {
	if log == nil {
		log = utils.Discard()
	}
	return &Crawler{session: session, opts: opts, log: log}
}

// Run crawls every job in input order. A failing job becomes a 404
// envelope and never stops the jobs after it.
func (c *Crawler) Run(ctx context.Context, jobs []models.Job) []models.CategoryResult {
	results := make([]models.CategoryResult, 0, len(jobs))

	for i, job := range jobs {
		if i > 0 {
			pause(ctx, c.opts.JobDelay, c.log)
		}
		results = append(results, models.CategoryResult{
			CategoryID: job.CategoryID,
			Result:     c.RunJob(ctx, job),
		})
	}
	return results
}

// RunOne crawls a single URL and returns its envelope directly.
func (c *Crawler) RunOne(ctx context.Context, url string) models.JobResult {
	return c.RunJob(ctx, models.Job{URL: url})
}

// RunJob crawls one job under its own deadline.
func (c *Crawler) RunJob(ctx context.Context, job models.Job) (result models.JobResult) {
	log := c.log.WithFields(map[string]interface{}{"category": job.CategoryID, "url": job.URL})

	defer func() {
		if r := recover(); r != nil {
			log.Error("Job panicked: %v", r)
			result = models.FailedResult(job, fmt.Errorf("unexpected failure: %v", r))
		}
	}()

	if c.opts.JobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.JobTimeout)
		defer cancel()
	}

	log.Info("Crawling category %q", job.CategoryID)
	products, err := c.crawl(ctx, job, log)
	if err != nil {
		log.Error("Category %q failed: %v", job.CategoryID, err)
		return models.FailedResult(job, err)
	}

	log.Success("Category %q done: %d products", job.CategoryID, len(products))
	return models.SuccessResult(job, products)
}

func (c *Crawler) crawl(ctx context.Context, job models.Job, log *utils.Logger) ([]models.ProductRecord, error) {
	if strings.TrimSpace(job.URL) == "" {
		return nil, errors.New("empty url")
	}

	err := utils.Retry(ctx, c.opts.MaxRetries, c.opts.RetryBackoff, log, func() error {
		return c.session.Navigate(ctx, job.URL)
	})
	if err != nil {
		return nil, fmt.Errorf("navigate: %w", err)
	}

	if err := c.session.WaitReady(ctx, containerSelector, c.opts.PageLoadTimeout); err != nil {
		if !errors.Is(err, ErrWaitTimeout) {
			return nil, fmt.Errorf("wait for page load: %w", err)
		}
		log.Warn("Page load marker did not appear within %v", c.opts.PageLoadTimeout)
	}

	scroll, err := ExhaustScroll(ctx, c.session, c.opts.MaxScrolls, c.opts.ScrollPause)
	if err != nil {
		return nil, err
	}
	if scroll.Settled {
		log.Info("Scrolling done (%d times)", scroll.Iterations)
	} else {
		log.Warn("Page still growing after %d scrolls, using what has loaded", scroll.Iterations)
	}

	products, err := ExtractListing(ctx, c.session, c.opts.ContainerTimeout, log)
	if errors.Is(err, ErrContainerNotFound) {
		log.Warn("Listing container not found within %v, no products", c.opts.ContainerTimeout)
		return []models.ProductRecord{}, nil
	}
	if err != nil {
		return nil, err
	}
	return products, nil
}
