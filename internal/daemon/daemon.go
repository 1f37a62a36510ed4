package daemon

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/username/candidate-scheduler/internal/schedule"
)

// Prefetcher loads holiday years ahead of requests
type Prefetcher interface {
	Prefetch(ctx context.Context, years []int)
}

// Options configures a Daemon
type Options struct {
	Listen          string
	PrefetchCron    string // standard 5-field cron spec, empty disables the job
	Location        *time.Location
	ShutdownTimeout time.Duration
	Clock           schedule.Clock
}

// Daemon serves the HTTP API and keeps the holiday cache warm
type Daemon struct {
	handler    http.Handler
	prefetcher Prefetcher
	opts       Options
	logger     *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	ready  chan struct{}
	addr   net.Addr

	mu          sync.Mutex // Protect against concurrent warm-ups
	warmRunning bool
	lastWarmUp  time.Time
	warmedYears []int
}

// NewDaemon creates a new daemon instance
func NewDaemon(handler http.Handler, prefetcher Prefetcher, opts Options, logger *zap.Logger) *Daemon {
	if opts.Clock == nil {
		opts.Clock = schedule.SystemClock{}
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Daemon{
		handler:    handler,
		prefetcher: prefetcher,
		opts:       opts,
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
		ready:      make(chan struct{}),
	}
}

// Start runs the daemon until Stop is called or a termination signal arrives
func (d *Daemon) Start() error {
	ln, err := net.Listen("tcp", d.opts.Listen)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", d.opts.Listen, err)
	}
	d.addr = ln.Addr()

	server := &http.Server{
		Handler:           d.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var scheduler *cron.Cron
	if d.opts.PrefetchCron != "" {
		scheduler = cron.New(cron.WithLocation(d.opts.Location))
		if _, err := scheduler.AddFunc(d.opts.PrefetchCron, func() {
			if err := d.WarmUp(d.ctx); err != nil {
				d.logger.Warn("Scheduled holiday warm-up skipped", zap.Error(err))
			}
		}); err != nil {
			_ = server.Close()
			return fmt.Errorf("invalid prefetch schedule %q: %w", d.opts.PrefetchCron, err)
		}
		scheduler.Start()
	}

	d.logger.Info("Daemon started",
		zap.String("listen", d.addr.String()),
		zap.String("prefetch_cron", d.opts.PrefetchCron),
		zap.String("timezone", d.opts.Location.String()))

	// Warm the cache for this year and next right away
	go func() {
		if err := d.WarmUp(d.ctx); err != nil {
			d.logger.Debug("Initial holiday warm-up skipped", zap.Error(err))
		}
	}()

	close(d.ready)

	// Setup signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	var runErr error
	select {
	case <-d.ctx.Done():
		d.logger.Info("Daemon stopping")

	case sig := <-sigChan:
		d.logger.Info("Received signal, shutting down",
			zap.String("signal", sig.String()))

	case err := <-serveErr:
		runErr = fmt.Errorf("http server failed: %w", err)
	}

	d.cancel()
	d.shutdown(server, scheduler)

	d.logger.Info("Daemon stopped")
	return runErr
}

func (d *Daemon) shutdown(server *http.Server, scheduler *cron.Cron) {
	ctx, cancel := context.WithTimeout(context.Background(), d.opts.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		d.logger.Warn("HTTP server shutdown incomplete", zap.Error(err))
	}

	if scheduler != nil {
		select {
		case <-scheduler.Stop().Done():
		case <-ctx.Done():
			d.logger.Warn("Warm-up job still running at shutdown")
		}
	}
}

// Ready is closed once the listener is bound
func (d *Daemon) Ready() <-chan struct{} {
	return d.ready
}

// Addr returns the bound listener address; valid after Ready is closed
func (d *Daemon) Addr() net.Addr {
	return d.addr
}

// Stop stops the daemon
func (d *Daemon) Stop() {
	d.cancel()
}

// WarmUp prefetches holidays for the current and the next year
func (d *Daemon) WarmUp(ctx context.Context) error {
	d.mu.Lock()
	if d.warmRunning {
		d.mu.Unlock()
		return fmt.Errorf("warm-up already in progress")
	}
	d.warmRunning = true
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		d.warmRunning = false
		d.mu.Unlock()
	}()

	now := d.opts.Clock.Now().In(d.opts.Location)
	years := []int{now.Year(), now.Year() + 1}

	d.logger.Info("Warming holiday cache", zap.Ints("years", years))
	d.prefetcher.Prefetch(ctx, years)

	d.mu.Lock()
	d.lastWarmUp = now
	d.warmedYears = years
	d.mu.Unlock()

	return nil
}

// GetStatus returns daemon status
func (d *Daemon) GetStatus() map[string]interface{} {
	d.mu.Lock()
	defer d.mu.Unlock()

	status := map[string]interface{}{
		"running":       d.ctx.Err() == nil,
		"prefetch_cron": d.opts.PrefetchCron,
	}
	if !d.lastWarmUp.IsZero() {
		status["last_warm_up"] = d.lastWarmUp.Format(time.RFC3339)
		status["warmed_years"] = append([]int(nil), d.warmedYears...)
	}
	return status
}
