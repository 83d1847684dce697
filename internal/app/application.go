package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"odidscan/internal/capture"
	"odidscan/internal/logging"
	"odidscan/internal/metrics"
	"odidscan/internal/odid"
	"odidscan/internal/store"
)

// frameBuffer is the capacity of the channel between capture and decoding
const frameBuffer = 256

// shutdownTimeout bounds how long shutdown waits for background goroutines
const shutdownTimeout = 5 * time.Second

// namedSink pairs a sink with the name used in logs and metrics
type namedSink struct {
	name string
	sink Sink
}

// Application represents the main application
type Application struct {
	config  Config
	logger  *logrus.Logger
	stdout  io.Writer
	source  capture.Source
	decoder *odid.Decoder
	metrics *metrics.Metrics

	scheduler     *Scheduler
	recordLog     *logging.RecordLog
	db            *store.DB
	metricsServer *http.Server
	sinks         []namedSink

	wg sync.WaitGroup
}

// NewApplication creates a new application instance
func NewApplication(config Config) *Application {
	logger := logrus.New()
	if config.Verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}
	if config.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	logger.SetOutput(os.Stderr)

	return &Application{
		config:  config,
		logger:  logger,
		stdout:  os.Stdout,
		decoder: odid.NewDecoder(logger),
		metrics: metrics.NewMetrics(),
	}
}

// Start runs the application until the scan finishes or a shutdown signal arrives
func (app *Application) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return app.Run(ctx)
}

// Run initializes every component, scans until ctx is cancelled (or the
// single pass ends when Repeat is off), then shuts down.
func (app *Application) Run(ctx context.Context) error {
	app.logger.WithFields(logrus.Fields{
		"version":    Version,
		"build_time": BuildTime,
		"git_commit": GitCommit,
	}).Info("Starting Remote ID scanner")

	if err := app.config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := app.initializeComponents(); err != nil {
		app.closeComponents()
		return fmt.Errorf("failed to initialize components: %w", err)
	}

	bgCtx, cancel := context.WithCancel(ctx)
	app.startBackground(bgCtx)

	frames := make(chan odid.RawFrame, frameBuffer)

	var workers sync.WaitGroup
	for i := 0; i < app.config.Workers; i++ {
		workers.Add(1)
		go func() {
			defer workers.Done()
			app.processFrames(bgCtx, frames)
		}()
	}

	app.logger.WithFields(logrus.Fields{
		"workers": app.config.Workers,
		"repeat":  app.config.Repeat,
		"sinks":   len(app.sinks),
	}).Info("All components started successfully")

	scanErr := app.scheduler.Run(ctx, frames)
	close(frames)
	workers.Wait()

	if ctx.Err() != nil {
		app.logger.Info("Received shutdown signal")
	}

	cancel()
	app.shutdown()

	return scanErr
}

// initializeComponents creates the capture source, scheduler and sinks
func (app *Application) initializeComponents() error {
	var err error

	if app.config.PcapFile != "" {
		app.source = capture.NewFileSource(capture.FileConfig{
			Path:            app.config.PcapFile,
			Frequency:       app.config.Frequency,
			SpeedMultiplier: app.config.ReplaySpeed,
		}, app.logger)
	} else {
		live, err := capture.NewLiveSource(capture.LiveConfig{
			Interface:    app.config.Interface,
			Frequency:    app.config.Frequency,
			Monitor:      app.config.Monitor,
			ScanDuration: app.config.ScanDuration,
		}, app.logger)
		if err != nil {
			return fmt.Errorf("failed to open interface %s: %w", app.config.Interface, err)
		}
		app.source = live
	}

	app.scheduler = NewScheduler(app.source, SchedulerConfig{
		Interval: app.config.ScanInterval,
		Repeat:   app.config.Repeat,
		OnStateChange: func(state ScanState) {
			app.metrics.SetScanState(int(state))
		},
		OnPassComplete: app.metrics.RecordScan,
	}, app.logger)

	if !app.config.Quiet {
		app.addSink("stdout", NewTextSink(app.stdout, app.config.Verbose))
	}

	if app.config.LogDir != "" {
		app.recordLog, err = logging.NewRecordLog(app.config.LogDir, app.config.LogRotateUTC, app.logger)
		if err != nil {
			return fmt.Errorf("failed to initialize record log: %w", err)
		}
		app.addSink("record_log", NewRecordSink(app.recordLog))
	}

	if app.config.DBPath != "" {
		app.db, err = store.Open(app.config.DBPath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		app.addSink("store", NewStoreSink(app.db))
	}

	if app.config.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", app.metrics.Handler())
		app.metricsServer = &http.Server{
			Addr:              app.config.MetricsAddr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
	}

	return nil
}

func (app *Application) addSink(name string, sink Sink) {
	app.sinks = append(app.sinks, namedSink{name: name, sink: sink})
}

// startBackground launches rotation, metrics and statistics goroutines
func (app *Application) startBackground(ctx context.Context) {
	if app.recordLog != nil {
		if app.config.LogRetentionDays > 0 {
			app.pruneRecordLog()
		}

		app.wg.Add(1)
		go func() {
			defer app.wg.Done()
			app.recordLog.Start(ctx)
		}()
	}

	if app.metricsServer != nil {
		app.wg.Add(1)
		go func() {
			defer app.wg.Done()
			app.logger.WithField("addr", app.metricsServer.Addr).Info("Serving metrics")
			if err := app.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				app.logger.WithError(err).Error("Metrics server failed")
			}
		}()
	}

	if app.config.StatsInterval > 0 {
		app.wg.Add(1)
		go func() {
			defer app.wg.Done()
			app.reportStatistics(ctx)
		}()
	}
}

// pruneRecordLog removes record files older than the retention period
func (app *Application) pruneRecordLog() {
	removed, err := app.recordLog.Cleanup(app.config.LogRetentionDays)
	if err != nil {
		app.logger.WithError(err).Warn("Failed to clean up record log")
		return
	}
	if removed > 0 {
		app.logger.WithFields(logrus.Fields{
			"removed":        removed,
			"retention_days": app.config.LogRetentionDays,
		}).Info("Removed old record log files")
	}
}

// processFrames decodes frames until the channel is closed
func (app *Application) processFrames(ctx context.Context, frames <-chan odid.RawFrame) {
	for frame := range frames {
		app.handleFrame(ctx, frame)
	}
}

// handleFrame applies the RSSI gate, decodes the frame and feeds the sinks
func (app *Application) handleFrame(ctx context.Context, frame odid.RawFrame) {
	app.metrics.RecordFrameReceived()

	if frame.RSSI < app.config.MinRSSI {
		app.metrics.RecordFrameDropped()
		return
	}

	result := app.decoder.DecodeFrame(frame)
	if !result.Found() {
		return
	}

	app.metrics.RecordMatch(frame.RSSI)
	if result.Truncated() {
		app.metrics.RecordTruncated()
	}
	if result.Skipped > 0 {
		app.metrics.RecordUnrecognized(result.Skipped)
	}
	for _, msg := range result.Messages {
		app.metrics.RecordMessage(msg.Type().String())
	}

	for _, s := range app.sinks {
		if err := s.sink.Write(ctx, result); err != nil {
			app.metrics.RecordSinkError(s.name)
			app.logger.WithError(err).WithField("sink", s.name).Warn("Failed to write decoded frame")
		}
	}
}

// reportStatistics reports processing statistics periodically
func (app *Application) reportStatistics(ctx context.Context) {
	ticker := time.NewTicker(app.config.StatsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			app.logStatistics()
		}
	}
}

func (app *Application) logStatistics() {
	stats := app.decoder.Stats()
	passes, failed := app.scheduler.Passes()

	matchRate := 0.0
	if stats.Frames > 0 {
		matchRate = float64(stats.Matches) / float64(stats.Frames) * 100
	}

	fields := logrus.Fields{
		"scan_passes":   passes,
		"scan_failures": failed,
		"scan_state":    app.scheduler.State().String(),
		"frames":        stats.Frames,
		"matches":       stats.Matches,
		"match_rate":    fmt.Sprintf("%.2f%%", matchRate),
		"messages":      stats.Messages,
		"basic_id":      stats.MessageByType[odid.MessageTypeBasicID],
		"location":      stats.MessageByType[odid.MessageTypeLocation],
		"system":        stats.MessageByType[odid.MessageTypeSystem],
		"truncated":     stats.Truncated,
		"unrecognized":  stats.Unrecognized,
	}
	if file, ok := app.source.(*capture.FileSource); ok {
		replay := file.Stats()
		fields["packets"] = replay.Packets
		fields["non_management"] = replay.Ignored
	}

	app.logger.WithFields(fields).Info("Remote ID processing statistics")
}

// shutdown stops background goroutines and releases resources
func (app *Application) shutdown() {
	app.logger.Info("Shutting down application")

	if app.metricsServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := app.metricsServer.Shutdown(ctx); err != nil {
			app.logger.WithError(err).Warn("Metrics server shutdown failed")
		}
		cancel()
	}

	done := make(chan struct{})
	go func() {
		app.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		app.logger.Info("All goroutines finished")
	case <-time.After(shutdownTimeout):
		app.logger.Warn("Shutdown timeout, forcing exit")
	}

	app.logStatistics()
	app.closeComponents()

	app.logger.Info("Shutdown completed")
}

// closeComponents closes whatever was opened
func (app *Application) closeComponents() {
	if app.source != nil {
		if err := app.source.Close(); err != nil {
			app.logger.WithError(err).Warn("Failed to close capture source")
		}
	}
	if app.recordLog != nil {
		if err := app.recordLog.Close(); err != nil {
			app.logger.WithError(err).Warn("Failed to close record log")
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.WithError(err).Warn("Failed to close database")
		}
	}
}
