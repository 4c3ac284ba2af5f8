// Package app wires the menu generator, its HTTP API and background
// publishers into a runnable service.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/kilianp07/menucycle/api/menu"
	"github.com/kilianp07/menucycle/config"
	"github.com/kilianp07/menucycle/core/catalogue"
	coremetrics "github.com/kilianp07/menucycle/core/metrics"
	"github.com/kilianp07/menucycle/core/quota"
	"github.com/kilianp07/menucycle/core/schedule"
	_ "github.com/kilianp07/menucycle/infra/catalogue"
	"github.com/kilianp07/menucycle/infra/logger"
	"github.com/kilianp07/menucycle/infra/metrics"
	"github.com/kilianp07/menucycle/infra/mqtt"
	"github.com/kilianp07/menucycle/internal/eventbus"
)

// Service runs the HTTP API around a Generator.
type Service struct {
	Generator *Generator

	cfg       *config.Config
	bus       *eventbus.Bus[schedule.Schedule]
	publisher *mqtt.PahoPublisher
	log       logger.Logger
}

// NewGeneratorFromConfig builds a Generator from the configuration.
func NewGeneratorFromConfig(cfg *config.Config, sink coremetrics.MetricsSink, bus *eventbus.Bus[schedule.Schedule]) (*Generator, error) {
	provider, err := catalogue.NewProvider(cfg.Catalogue)
	if err != nil {
		return nil, fmt.Errorf("catalogue: %w", err)
	}
	policy, err := quota.New(cfg.Quota)
	if err != nil {
		return nil, fmt.Errorf("quota: %w", err)
	}
	grid, err := cfg.Calendar.Grid()
	if err != nil {
		return nil, fmt.Errorf("calendar: %w", err)
	}
	return NewGenerator(GeneratorDeps{
		Catalogue: provider,
		Policy:    policy,
		Grid:      grid,
		Solver:    cfg.Solver,
		Bus:       bus,
		Sink:      sink,
		Log:       logger.New("generator"),
	})
}

// New creates a Service from the configuration. The MQTT broker is
// contacted here when enabled.
func New(cfg *config.Config) (*Service, error) {
	log := logger.New("service")
	if err := logger.SetLevel(cfg.Log.Level); err != nil {
		return nil, err
	}
	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	bus := eventbus.New[schedule.Schedule](0)
	gen, err := NewGeneratorFromConfig(cfg, sink, bus)
	if err != nil {
		return nil, err
	}
	svc := &Service{Generator: gen, cfg: cfg, bus: bus, log: log}
	if cfg.MQTT.Enabled {
		pub, err := mqtt.NewPahoPublisher(cfg.MQTT)
		if err != nil {
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
		svc.publisher = pub
	}
	return svc, nil
}

// Handler returns the HTTP API of the service.
func (s *Service) Handler() http.Handler {
	return menu.NewHandler(s.Generator, s.cfg.HTTP.AllowedOrigin)
}

// Run starts the HTTP server, the Prometheus server and the MQTT forwarder
// and blocks until the context is cancelled or the HTTP server fails.
func (s *Service) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	if s.publisher != nil {
		wait := mqtt.NewForwarder(s.bus, s.publisher).Start(ctx)
		wg.Add(1)
		go func() { defer wg.Done(); wait() }()
	}
	if port := s.cfg.Metrics.PrometheusPort; port != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := metrics.StartPromServer(ctx, port); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	srv := &http.Server{
		Addr:              s.cfg.HTTP.Address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case err, ok := <-errCh:
		if ok {
			runErr = fmt.Errorf("http server: %w", err)
		}
	}
	cancel()
	shutdownCtx, done := context.WithTimeout(context.Background(), time.Duration(s.cfg.HTTP.ShutdownSeconds)*time.Second)
	defer done()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.log.Errorf("http shutdown: %v", err)
	}
	wg.Wait()
	s.log.Infof("service stopped")
	return runErr
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	if s.publisher != nil {
		s.publisher.Disconnect()
	}
	return nil
}
