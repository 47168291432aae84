// Package poller runs the poll cycle: fetch the CSV feed, rebuild the
// record set, aggregate and project it, render the chart, and publish the
// resulting snapshot. Everything downstream of the fetch is synchronous;
// only the fetch can time out.
package poller

import (
	"context"
	"errors"
	"log"
	"time"

	"trading-dashboard/internal/aggregation"
	"trading-dashboard/internal/domain"
	"trading-dashboard/internal/feed"
	"trading-dashboard/internal/ingestion"
	"trading-dashboard/internal/observability"
	"trading-dashboard/internal/projection"
	"trading-dashboard/internal/render"
)

// Fetcher retrieves the raw CSV document.
type Fetcher interface {
	Fetch(ctx context.Context) (string, error)
}

// Publisher receives the outcome of each cycle. Publish hands over a
// fresh snapshot; PublishError reports a transport failure (the cycle
// produced nothing).
type Publisher interface {
	Publish(*domain.Snapshot)
	PublishError(error)
}

// Poller owns the cycle schedule and the current chart handle. Cycles are
// serialized: a tick that fires while a cycle is still running is dropped.
type Poller struct {
	fetcher     Fetcher
	publisher   Publisher
	interval    time.Duration
	signalCount int
	chartOpts   render.Options
	metrics     *observability.Metrics
	logger      *log.Logger

	running chan struct{}
}

// Options configures the Poller.
type Options struct {
	Fetcher     Fetcher
	Publisher   Publisher
	Interval    time.Duration
	SignalCount int
	ChartWidth  int
	ChartHeight int
	Metrics     *observability.Metrics // optional
	Logger      *log.Logger
}

// New creates a Poller.
func New(opts Options) *Poller {
	interval := opts.Interval
	if interval == 0 {
		interval = 60 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	p := &Poller{
		fetcher:     opts.Fetcher,
		publisher:   opts.Publisher,
		interval:    interval,
		signalCount: opts.SignalCount,
		chartOpts:   render.Options{Width: opts.ChartWidth, Height: opts.ChartHeight},
		metrics:     opts.Metrics,
		logger:      logger,
		running:     make(chan struct{}, 1),
	}
	return p
}

// Run performs one immediate cycle, then cycles on the interval until ctx
// is done.
func (p *Poller) Run(ctx context.Context) {
	p.tick(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

// tick starts a cycle unless one is still in flight; an overlapping tick
// is dropped, never queued.
func (p *Poller) tick(ctx context.Context) {
	select {
	case p.running <- struct{}{}:
	default:
		p.logger.Printf("cycle still running, skipping tick")
		if p.metrics != nil {
			p.metrics.TicksSkipped.Inc()
		}
		return
	}
	go func() {
		defer func() { <-p.running }()
		p.RunCycle(ctx)
	}()
}

// RunCycle executes one full fetch→parse→aggregate→publish cycle.
func (p *Poller) RunCycle(ctx context.Context) {
	start := time.Now()

	text, err := p.fetcher.Fetch(ctx)
	if err != nil {
		outcome := observability.OutcomeFetchError
		if errors.Is(err, feed.ErrTimeout) {
			outcome = observability.OutcomeTimeout
		}
		p.logger.Printf("fetch failed: %v", err)
		if p.metrics != nil {
			p.metrics.CyclesTotal.WithLabelValues(outcome).Inc()
		}
		p.publisher.PublishError(err)
		return
	}

	records, rejected := ingestion.BuildDataset(text)
	series := aggregation.AggregateEquity(records)

	snap := &domain.Snapshot{
		GeneratedAt: time.Now().UTC(),
		RecordCount: len(records),
		Status:      projection.LatestStatus(records),
		Equity:      series,
		Positions:   projection.OpenPositions(records),
		Signals:     projection.LatestSignals(records, p.signalCount),
	}

	// The previous cycle's PNG dies with the snapshot it belongs to; this
	// cycle owns a fresh one.
	chartPNG, err := render.EquityPNG(series.Timeline, series.PerSystem, series.Total, p.chartOpts)
	switch {
	case err == nil:
		snap.Chart = chartPNG
	case errors.Is(err, render.ErrNoData):
		// Empty feed; chart endpoint answers 404.
	default:
		p.logger.Printf("chart render failed: %v", err)
	}

	p.publisher.Publish(snap)

	if p.metrics != nil {
		p.metrics.CyclesTotal.WithLabelValues(observability.OutcomeOK).Inc()
		p.metrics.CycleDuration.Observe(time.Since(start).Seconds())
		p.metrics.RecordsParsed.Add(float64(len(records)))
		p.metrics.RowsRejected.Add(float64(rejected))
		p.metrics.SystemsTracked.Set(float64(len(series.PerSystem)))
		p.metrics.OpenPositions.Set(float64(len(snap.Positions)))
		p.metrics.TimelineLength.Set(float64(series.Len()))
		p.metrics.LastCycleTime.Set(float64(snap.GeneratedAt.Unix()))
	}

	p.logger.Printf("cycle complete: %d records (%d rejected), %d systems, %d timeline points in %s",
		len(records), rejected, len(series.PerSystem), series.Len(), time.Since(start).Round(time.Millisecond))
}
