package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/lexandro/snapmatch/config"
	"github.com/lexandro/snapmatch/failure"
	"github.com/lexandro/snapmatch/pairing"
	"github.com/lexandro/snapmatch/rank"
	"github.com/lexandro/snapmatch/report"
	"github.com/lexandro/snapmatch/resolve"
	"github.com/lexandro/snapmatch/scrape"
	"github.com/lexandro/snapmatch/similarity"
	"github.com/lexandro/snapmatch/validate"
)

// runRequest is everything one invocation compares.
type runRequest struct {
	Inputs      []string // snapshot files or directories
	HTMLPages   []string // export pages scraped before resolution
	DownloadDir string
	Client      *http.Client
	Config      *config.Config
}

// runContext is the state threaded through the stages of one run.
type runContext struct {
	cfg    *config.Config
	sink   *failure.Sink
	stats  report.Stats
	logger *slog.Logger
}

// compareSlot holds one pair's outcome at the pair's index.
type compareSlot struct {
	score similarity.Score
	err   error
}

// runPipeline resolves, pairs, compares and ranks. Per-path and per-pair
// problems end up in the report; only a ConfigError or an unexpected fault is
// returned.
func runPipeline(ctx context.Context, req runRequest, logger *slog.Logger) (*report.Report, error) {
	if len(req.Inputs) == 0 && len(req.HTMLPages) == 0 {
		return nil, failure.Configf("no input paths supplied")
	}
	cfg := req.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	convention, err := cfg.NewConvention()
	if err != nil {
		return nil, err
	}

	run := &runContext{
		cfg:    cfg,
		sink:   failure.NewSink(),
		stats:  report.Stats{Inputs: len(req.Inputs) + len(req.HTMLPages)},
		logger: logger,
	}
	start := time.Now()

	inputs := append([]string{}, req.Inputs...)
	if len(req.HTMLPages) > 0 {
		scraped, err := run.scrapePages(ctx, req)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, scraped...)
	}

	var validated []resolve.ValidatedPath
	if len(inputs) > 0 {
		resolver := &resolve.Resolver{
			Validator: cfg.NewValidator(),
			Excludes:  cfg.Exclude,
			Logger:    logger,
		}
		resolved, err := resolver.Resolve(inputs)
		if err != nil {
			return nil, err
		}
		run.sink.Append(resolved.Failed...)
		validated = resolved.Succeeded
	}
	run.stats.Resolved = len(validated)

	pairer := &pairing.Pairer{Convention: convention, Logger: logger}
	paired := pairer.Pair(validated)
	run.sink.Append(paired.Failed...)
	pairs := paired.Ordered()
	run.stats.Pairs = len(pairs)

	scores := run.compare(ctx, pairs)
	ranked := rank.Scores(scores)

	logger.Info("run complete",
		"pairs", len(pairs),
		"ranked", len(ranked),
		"failed", run.sink.Len(),
		"duration", time.Since(start).Round(time.Millisecond),
	)
	run.stats.ByKind = run.sink.CountByKind()
	rep := report.New(convention.Name(), ranked, run.sink.Records(), run.stats)
	rep.RuleNote = convention.Describe()
	return rep, nil
}

// scrapePages validates the export pages and returns the snapshot paths they link to.
func (run *runContext) scrapePages(ctx context.Context, req runRequest) ([]string, error) {
	pageResolver := &resolve.Resolver{Validator: validate.HTMLValidator{}, Logger: run.logger}
	pages, err := pageResolver.Resolve(req.HTMLPages)
	if err != nil {
		return nil, err
	}
	run.sink.Append(pages.Failed...)

	pagePaths := make([]string, 0, len(pages.Succeeded))
	for _, p := range pages.Succeeded {
		pagePaths = append(pagePaths, p.Path)
	}
	if len(pagePaths) == 0 {
		return nil, nil
	}

	scraper := &scrape.Scraper{
		Client:           req.Client,
		DownloadDir:      req.DownloadDir,
		Extensions:       run.cfg.Extensions,
		MaxDownloadBytes: run.cfg.MaxFileSize,
		Logger:           run.logger,
	}
	result := scraper.Scrape(ctx, pagePaths)
	run.sink.Append(result.Failed...)
	run.stats.Scraped = len(result.Succeeded)
	return result.Succeeded, nil
}

// compare scores every pair on a bounded pool. Outcomes land in a slot per
// pair index and are flattened in pair order once all workers finish.
func (run *runContext) compare(ctx context.Context, pairs []pairing.FilePair) []similarity.Score {
	engine := &similarity.Engine{
		Normalizer:  run.cfg.NewNormalizer(),
		MaxFileSize: run.cfg.NewValidator().MaxFileSize(),
		Logger:      run.logger,
	}

	slots := make([]compareSlot, len(pairs))
	p := pool.New().WithMaxGoroutines(run.cfg.WorkerCount())
	for i, pair := range pairs {
		p.Go(func() {
			if err := ctx.Err(); err != nil {
				slots[i].err = err
				return
			}
			slots[i].score, slots[i].err = engine.Compare(pair)
		})
	}
	p.Wait()

	scores := make([]similarity.Score, 0, len(pairs))
	for i, slot := range slots {
		if slot.err != nil {
			run.logger.Warn("comparison failed", "identity", pairs[i].Identity, "error", slot.err)
			run.sink.Add(string(pairs[i].Identity), failure.CompareFailed, slot.err.Error())
			continue
		}
		scores = append(scores, slot.score)
	}
	return scores
}
