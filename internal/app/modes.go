package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jclinedev/hiddencity/internal/arbitrage"
	"github.com/jclinedev/hiddencity/internal/domain"
	"github.com/jclinedev/hiddencity/internal/notify"
	"github.com/jclinedev/hiddencity/internal/server"
	"github.com/jclinedev/hiddencity/internal/server/handler"
	"github.com/jclinedev/hiddencity/internal/server/ws"
)

// ScanMode executes a single run, prints the findings, and exits.
func (a *App) ScanMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting scan mode")

	run, err := a.runOnce(ctx, deps, nil)
	printRun(run)

	if err != nil {
		// Findings gathered before the failure were already printed.
		return fmt.Errorf("scan mode: %w", err)
	}
	return nil
}

// WatchMode runs a scan on the configured interval. When the status server
// is enabled it serves the API and WebSocket feed alongside the loop, and
// POST /api/scan triggers an extra run between ticks.
func (a *App) WatchMode(ctx context.Context, deps *Dependencies) error {
	interval := a.cfg.Search.Interval.Duration
	a.logger.InfoContext(ctx, "starting watch mode",
		slog.Duration("interval", interval),
	)

	g, ctx := errgroup.WithContext(ctx)

	var hub *ws.Hub
	if a.cfg.Server.Enabled {
		hub = ws.NewHub(a.logger, ws.Config{
			Mode:      a.cfg.Mode,
			StartedAt: time.Now().UTC(),
		})
		g.Go(func() error {
			return hub.Run(ctx)
		})

		trigger := func(ctx context.Context) error {
			_, err := a.runOnce(ctx, deps, hub)
			return err
		}
		a.startServer(ctx, g, deps, hub, trigger)
	}

	g.Go(func() error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			if _, err := a.runOnce(ctx, deps, hub); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				// A failed run keeps the loop alive; the next tick retries.
				a.logger.ErrorContext(ctx, "run failed",
					slog.String("error", err.Error()),
				)
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
			}
		}
	})

	return g.Wait()
}

// ServeMode serves the status API over previously recorded runs without
// scanning. The history starts empty, so this mode is mainly useful behind a
// watch-mode process during maintenance or for API development.
func (a *App) ServeMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting serve mode")

	g, ctx := errgroup.WithContext(ctx)

	hub := ws.NewHub(a.logger, ws.Config{
		Mode:      a.cfg.Mode,
		StartedAt: time.Now().UTC(),
	})
	g.Go(func() error {
		return hub.Run(ctx)
	})

	a.startServer(ctx, g, deps, hub, nil)

	return g.Wait()
}

// runOnce executes one full search, records it in the history, and fans the
// results out to the WebSocket hub and notifier.
func (a *App) runOnce(ctx context.Context, deps *Dependencies, hub *ws.Hub) (domain.Run, error) {
	engine := arbitrage.NewEngine(arbitrage.EngineConfig{
		Origin:      a.cfg.Search.LeavingFrom,
		Destination: a.cfg.Search.GoingTo,
		Date:        a.cfg.Search.Date,
		Source:      deps.Source,
		Airports:    deps.Airports,
		Blob:        deps.Blob,
		OnFinding: func(f domain.Finding) {
			if hub != nil {
				hub.BroadcastFinding(f)
			}
			title, message := notify.FindingAlert(f)
			if err := deps.Notifier.Notify(ctx, notify.EventArbFound, title, message); err != nil {
				a.logger.WarnContext(ctx, "finding alert failed",
					slog.String("error", err.Error()),
				)
			}
		},
		Logger: a.logger,
	})

	run, err := engine.Run(ctx)

	deps.History.Record(run)
	if hub != nil {
		hub.BroadcastRun(run)
	}

	title, message := notify.RunAlert(run)
	event := notify.EventRunComplete
	if run.Error != "" {
		event = notify.EventError
	}
	if nerr := deps.Notifier.Notify(ctx, event, title, message); nerr != nil {
		a.logger.WarnContext(ctx, "run alert failed",
			slog.String("error", nerr.Error()),
		)
	}

	return run, err
}

// startServer adds the status server and its graceful shutdown to the group.
func (a *App) startServer(
	ctx context.Context,
	g *errgroup.Group,
	deps *Dependencies,
	hub *ws.Hub,
	trigger func(ctx context.Context) error,
) {
	handlers := server.Handlers{
		Health:   handler.NewHealthHandler(deps.Pingers, a.logger),
		Findings: handler.NewFindingsHandler(deps.History),
		Runs:     handler.NewRunsHandler(deps.History),
	}
	if trigger != nil {
		handlers.Scan = handler.NewScanHandler(trigger, a.logger)
	}

	srv := server.NewServer(server.Config{
		Port:        a.cfg.Server.Port,
		CORSOrigins: a.cfg.Server.CORSOrigins,
		APIKey:      a.cfg.Server.APIKey,
	}, handlers, hub, a.logger)

	g.Go(srv.Start)

	g.Go(func() error {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	})
}

// printRun renders a finished run for scan mode.
func printRun(run domain.Run) {
	if run.BasePrice >= 0 {
		fmt.Fprintf(os.Stdout, "Direct %s-%s on %s: $%.2f\n", run.Origin, run.Destination, run.Date, run.BasePrice)
	} else {
		fmt.Fprintf(os.Stdout, "Direct %s-%s on %s: no usable fare\n", run.Origin, run.Destination, run.Date)
	}

	if len(run.Findings) == 0 {
		fmt.Fprintln(os.Stdout, "No hidden-city fares found.")
	}
	for _, f := range run.Findings {
		fmt.Fprintf(os.Stdout, "  %s-%s via %s: $%.2f (saves $%.2f)\n",
			f.Origin, f.Destination, f.CandidateDestination, f.TicketPrice, f.Savings)
	}

	if run.Error != "" {
		fmt.Fprintf(os.Stdout, "Scan ended early: %s\n", run.Error)
	}
}
