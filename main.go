package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"naver-shop-crawler/browser"
	"naver-shop-crawler/config"
	"naver-shop-crawler/models"
	"naver-shop-crawler/scraper/naver"
	"naver-shop-crawler/server"
	"naver-shop-crawler/services"
	"naver-shop-crawler/storage"
	"naver-shop-crawler/utils"

	"github.com/alecthomas/kong"
)

type CLI struct {
	EnvFile  string `help:"Optional .env file with CRAWLER_* settings." default:".env" name:"env-file"`
	LogLevel string `help:"Log level (debug, info, warn, error)." name:"log-level"`
	Headed   bool   `help:"Show the browser window instead of running headless."`
	Workers  int    `help:"Parallel browser sessions for batch payloads (0 keeps the configured value)." default:"0"`

	Crawl CrawlCmd `cmd:"" default:"withargs" help:"Crawl the URLs of a JSON payload and print one JSON document."`
	Serve ServeCmd `cmd:"" help:"Run crawls on demand over HTTP."`
}

type CrawlCmd struct {
	Payload string `arg:"" optional:"" help:"{\"<categoryId>\": \"<url>\", ...} or {\"url\": \"<url>\"}."`
	Output  string `help:"Also write the JSON document to this file."`
}

type ServeCmd struct {
	Listen string `help:"Listen address, overrides CRAWLER_LISTEN_ADDR."`
}

type runtime struct {
	ctx        context.Context
	cfg        *config.Config
	log        *utils.Logger
	stdout     io.Writer
	newSession naver.SessionFactory
}

// sessionFactory builds the browser the crawl uses. Tests swap it out.
var sessionFactory = func(cfg *config.Config, log *utils.Logger) naver.SessionFactory {
	return browser.Factory(browser.OptionsFromConfig(cfg), log)
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run returns the process exit code. Crawls always exit 0 and report every
// failure inside the JSON document.
func run(args []string, stdout, stderr io.Writer) int {
	var cli CLI
	// kong exits after --help; record it instead so stdout still gets a document.
	helped := false
	parser, err := kong.New(&cli,
		kong.Name("naver-crawler"),
		kong.Description("Scrolls Naver Shopping category pages and extracts product records."),
		kong.Writers(stderr, stderr),
		kong.Exit(func(int) { helped = true }),
	)
	if err != nil {
		emit(stdout, models.NewErrorEnvelope(models.CodeServerError, err))
		return 0
	}

	kctx, err := parser.Parse(args)
	if helped {
		emit(stdout, models.NewErrorEnvelope(models.CodeBadRequest, models.ErrMissingPayload))
		return 0
	}
	if err != nil {
		emit(stdout, models.NewErrorEnvelope(models.CodeBadRequest, err))
		return 0
	}
	serving := strings.HasPrefix(kctx.Command(), "serve")

	cfg, err := config.Load(cli.EnvFile)
	if err != nil {
		if serving {
			fmt.Fprintf(stderr, "config: %v\n", err)
			return 1
		}
		emit(stdout, models.NewErrorEnvelope(models.CodeServerError, err))
		return 0
	}
	applyFlags(cfg, &cli)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := utils.NewLogger(stderr, cfg.LogLevel)
	rt := &runtime{
		ctx:        ctx,
		cfg:        cfg,
		log:        log,
		stdout:     stdout,
		newSession: sessionFactory(cfg, log),
	}

	if err := kctx.Run(rt); err != nil {
		log.Error("%v", err)
		if serving {
			return 1
		}
	}
	return 0
}

func applyFlags(cfg *config.Config, cli *CLI) {
	if cli.LogLevel != "" {
		cfg.LogLevel = cli.LogLevel
	}
	if cli.Headed {
		cfg.Headless = false
	}
	if cli.Workers > 0 {
		cfg.MaxWorkers = cli.Workers
	}
	if cli.Crawl.Output != "" {
		cfg.OutputPath = cli.Crawl.Output
	}
	if cli.Serve.Listen != "" {
		cfg.ListenAddr = cli.Serve.Listen
	}
}

func (c *CrawlCmd) Run(rt *runtime) error {
	doc := crawlDocument(rt, c.Payload)

	writer := storage.NewJSONWriter(rt.stdout, rt.cfg.OutputPath)
	if err := writer.Write(doc); err != nil {
		rt.log.Error("Failed to save output: %v", err)
	}
	return nil
}

func (s *ServeCmd) Run(rt *runtime) error {
	runner := naver.NewRunner(rt.newSession, naver.OptionsFromConfig(rt.cfg), rt.cfg.MaxWorkers, rt.log)
	srv := server.NewServer(runner, rt.cfg, rt.log)
	return srv.ListenAndServe(rt.ctx)
}

// crawlDocument never fails: input problems become a 400 envelope and
// anything unexpected a 500 envelope.
func crawlDocument(rt *runtime, payload string) (doc interface{}) {
	defer func() {
		if r := recover(); r != nil {
			rt.log.Error("Unexpected failure: %v", r)
			doc = models.NewErrorEnvelope(models.CodeServerError, fmt.Errorf("unexpected failure: %v", r))
		}
	}()

	req, err := models.ParseRequest(payload)
	if err != nil {
		rt.log.Error("Bad payload: %v", err)
		return models.NewErrorEnvelope(models.CodeBadRequest, err)
	}

	if req.Single {
		rt.log.Info("Scraper starting | url=%s", req.URL)
	} else {
		rt.log.Info("Scraper starting | categories=%d workers=%d", len(req.Jobs), rt.cfg.MaxWorkers)
	}

	runner := naver.NewRunner(rt.newSession, naver.OptionsFromConfig(rt.cfg), rt.cfg.MaxWorkers, rt.log)
	resp, err := runner.Execute(rt.ctx, req)
	if err != nil {
		rt.log.Error("Crawl aborted: %v", err)
		return models.NewErrorEnvelope(models.CodeServerError, err)
	}

	services.LogSummary(rt.log, services.Summarize(resp.Results()))
	return resp
}

func emit(w io.Writer, doc interface{}) {
	if err := storage.NewJSONWriter(w, "").Write(doc); err != nil {
		fmt.Fprintf(os.Stderr, "write output: %v\n", err)
	}
}
