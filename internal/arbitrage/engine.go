package arbitrage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jclinedev/hiddencity/internal/domain"
)

// EngineConfig configures a run engine.
type EngineConfig struct {
	Origin      string
	Destination string
	Date        string

	Source   domain.ItinerarySource
	Airports domain.AirportLister

	// Blob is optional; when set, every fetched raw batch and the finished
	// run record are archived to object storage.
	Blob domain.BlobWriter

	// OnFinding is optional; when set it is invoked synchronously for each
	// finding as it is emitted, in emission order.
	OnFinding func(domain.Finding)

	Logger *slog.Logger
}

// Engine drives one arbitrage search end to end: it resolves the direct-route
// baseline, then scans every candidate destination in lister order, skipping
// the configured origin, and aggregates findings in scan order.
//
// Scanning is strictly sequential; the cohort tracker is seeded once by
// baseline resolution and only read afterwards.
type Engine struct {
	cfg    EngineConfig
	logger *slog.Logger
}

// NewEngine creates an engine from cfg.
func NewEngine(cfg EngineConfig) *Engine {
	return &Engine{
		cfg:    cfg,
		logger: cfg.Logger.With(slog.String("component", "engine")),
	}
}

// Run executes one full search. On a source transport failure mid-scan it
// stops fetching further candidates and returns the run with every finding
// aggregated so far alongside the error. Empty or fully unusable batches are
// normal results and never abort the run.
func (e *Engine) Run(ctx context.Context) (domain.Run, error) {
	run := domain.Run{
		ID:          uuid.NewString(),
		Origin:      e.cfg.Origin,
		Destination: e.cfg.Destination,
		Date:        e.cfg.Date,
		StartedAt:   time.Now().UTC(),
	}

	e.logger.InfoContext(ctx, "run started",
		slog.String("run_id", run.ID),
		slog.String("origin", run.Origin),
		slog.String("destination", run.Destination),
		slog.String("date", run.Date),
	)

	directQuery := domain.RouteQuery{Origin: run.Origin, Destination: run.Destination, Date: run.Date}
	direct, err := e.cfg.Source.FetchOffers(ctx, directQuery)
	if err != nil {
		run.Error = err.Error()
		run.FinishedAt = time.Now().UTC()
		return run, fmt.Errorf("engine: fetch direct offers %s-%s: %w", run.Origin, run.Destination, err)
	}
	e.archiveBatch(ctx, run.ID, directQuery, direct)

	base, cohorts := ResolveBaseline(direct)
	run.BasePrice = base
	if base == NoBaseline {
		e.logger.WarnContext(ctx, "no baseline fare resolved, scan will yield no findings",
			slog.String("run_id", run.ID),
		)
	} else {
		e.logger.InfoContext(ctx, "baseline resolved",
			slog.String("run_id", run.ID),
			slog.Float64("base_price", base),
		)
	}

	candidates, err := e.cfg.Airports.ListAirports(ctx)
	if err != nil {
		run.Error = err.Error()
		run.FinishedAt = time.Now().UTC()
		return run, fmt.Errorf("engine: list candidate airports: %w", err)
	}

	scanner := NewScanner(run.Origin, run.Destination, base, cohorts, e.logger)

	var scanErr error
	for _, candidate := range candidates {
		if candidate == run.Origin {
			continue
		}
		if err := ctx.Err(); err != nil {
			scanErr = err
			break
		}

		q := domain.RouteQuery{Origin: run.Origin, Destination: candidate, Date: run.Date}
		offers, err := e.cfg.Source.FetchOffers(ctx, q)
		if err != nil {
			// Transport failure: keep what we have, stop scanning.
			scanErr = fmt.Errorf("engine: fetch offers %s-%s: %w", run.Origin, candidate, err)
			break
		}
		e.archiveBatch(ctx, run.ID, q, offers)

		findings, summary := scanner.ScanCandidate(candidate, offers)
		for _, f := range findings {
			if e.cfg.OnFinding != nil {
				e.cfg.OnFinding(f)
			}
		}
		run.Findings = append(run.Findings, findings...)
		run.Summaries = append(run.Summaries, summary)

		if summary.NoOffers {
			e.logger.InfoContext(ctx, "candidate scanned, no available offers",
				slog.String("candidate", candidate),
			)
		} else {
			e.logger.InfoContext(ctx, "candidate scanned",
				slog.String("candidate", candidate),
				slog.Float64("lowest_stop_fare", summary.LowestStopFare),
				slog.Int("findings", summary.Findings),
			)
		}
	}

	run.FinishedAt = time.Now().UTC()
	if scanErr != nil {
		run.Error = scanErr.Error()
	}
	e.archiveRun(ctx, run)

	e.logger.InfoContext(ctx, "run finished",
		slog.String("run_id", run.ID),
		slog.Int("findings", len(run.Findings)),
		slog.Int("candidates_scanned", len(run.Summaries)),
		slog.Duration("elapsed", run.FinishedAt.Sub(run.StartedAt)),
	)
	return run, scanErr
}

// archiveBatch uploads one raw batch as JSON. Archive failures are logged and
// never affect the run.
func (e *Engine) archiveBatch(ctx context.Context, runID string, q domain.RouteQuery, offers []domain.RawOffer) {
	if e.cfg.Blob == nil {
		return
	}
	data, err := json.Marshal(offers)
	if err != nil {
		e.logger.WarnContext(ctx, "archive batch: marshal failed", slog.String("error", err.Error()))
		return
	}
	path := fmt.Sprintf("scrapes/%s/%s/%s-%s.json", sanitizeDate(q.Date), runID, q.Origin, q.Destination)
	if err := e.cfg.Blob.Put(ctx, path, bytes.NewReader(data), "application/json"); err != nil {
		e.logger.WarnContext(ctx, "archive batch failed",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
	}
}

// archiveRun uploads the finished run record. Large runs carry a batch of
// findings per candidate, so the multipart path is used.
func (e *Engine) archiveRun(ctx context.Context, run domain.Run) {
	if e.cfg.Blob == nil {
		return
	}
	data, err := json.Marshal(run)
	if err != nil {
		e.logger.WarnContext(ctx, "archive run: marshal failed", slog.String("error", err.Error()))
		return
	}
	path := fmt.Sprintf("runs/%s/%s.json", sanitizeDate(run.Date), run.ID)
	if err := e.cfg.Blob.PutMultipart(ctx, path, bytes.NewReader(data), 0); err != nil {
		e.logger.WarnContext(ctx, "archive run failed",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
	}
}

// sanitizeDate makes a source date string ("07/10/2021") safe for object keys.
func sanitizeDate(date string) string {
	return strings.ReplaceAll(date, "/", "-")
}
