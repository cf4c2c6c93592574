package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"nfeditor/loader/internal"
	"nfeditor/metrics"
	"nfeditor/store"
	"nfeditor/types"
)

const shutdownTimeout = 5 * time.Second

type Service struct {
	logger      *slog.Logger
	store       store.DBStorer
	loader      *internal.XMLLoader
	metrics     *metrics.Metrics
	metricsAddr string
}

func New(storer store.DBStorer, cfg types.LoaderConfig) (*Service, error) {
	m := metrics.New()
	loader, err := internal.NewXMLLoader(cfg, m)
	if err != nil {
		return nil, err
	}
	return &Service{
		logger:      slog.Default(),
		store:       storer,
		loader:      loader,
		metrics:     m,
		metricsAddr: cfg.MetricsAddr,
	}, nil
}

func (s *Service) Stop() {
	s.logger.Info("Loader Service stopped")
}

// Run serves until SIGINT or SIGTERM.
func (s *Service) Run() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s.Serve(ctx)
	s.Stop()
}

// Serve runs the watch → process → save pipeline until ctx is cancelled,
// then waits up to shutdownTimeout for the stages to drain.
func (s *Service) Serve(ctx context.Context) {
	fileChan := make(chan string, 10)
	recChan := make(chan *types.InvoiceRecord)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(fileChan)
		s.loader.WatchFile(ctx, fileChan)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(recChan)
		s.loader.ProcessFile(ctx, fileChan, recChan)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		s.InvoiceSave(ctx, recChan)
	}()

	var srv *http.Server
	if s.metricsAddr != "" {
		srv = &http.Server{
			Addr:         s.metricsAddr,
			Handler:      s.MetricsHandler(),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		}
		go func() {
			s.logger.Info("serving loader metrics", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				s.logger.Error("metrics server failed", "error", err)
			}
		}()
	}

	<-ctx.Done()
	s.logger.Info("shutting down loader pipeline")

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("metrics server shutdown", "error", err)
		}
		cancel()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("all goroutines stopped")
	case <-time.After(shutdownTimeout):
		s.logger.Warn("timeout waiting for goroutines to stop")
	}
}

// InvoiceSave stores each record and archives its file. Records older than
// the stored version are archived without saving.
func (s *Service) InvoiceSave(ctx context.Context, recChan <-chan *types.InvoiceRecord) {
	for rec := range recChan {
		prev, err := s.store.GetInvoiceByID(ctx, rec.ID)
		switch {
		case err == nil:
			if !rec.UpdatedAt.After(prev.UpdatedAt) {
				s.logger.Info("stored invoice is up to date", "id", rec.ID, "number", rec.Number)
				s.metrics.RecordLoaderFile("skipped")
				s.archive(rec.SourcePath, internal.StateArchived)
				continue
			}
			rec.CreatedAt = prev.CreatedAt
			rec.Version = prev.Version + 1
		case !errors.Is(err, sql.ErrNoRows):
			s.logger.Error("error reading invoice", "id", rec.ID, "error", err)
			s.retry(rec.SourcePath)
			continue
		}

		if err := s.store.SaveInvoice(ctx, *rec); err != nil {
			s.logger.Error("error saving invoice", "id", rec.ID, "error", err)
			s.retry(rec.SourcePath)
			continue
		}

		s.logger.Info("invoice saved", "id", rec.ID, "number", rec.Number, "version", rec.Version)
		s.metrics.RecordLoaderFile("saved")
		s.archive(rec.SourcePath, internal.StateArchived)
	}
}

// retry leaves the file in the inbox and hands it back to the watcher.
func (s *Service) retry(path string) {
	s.metrics.RecordLoaderFile("retry")
	s.loader.Release(path)
}

func (s *Service) archive(path string, state internal.FileState) {
	if _, err := s.loader.MoveToArchive(path, state); err != nil {
		s.logger.Error("error archiving file", "path", path, "error", err)
	}
}

// Metrics exposes the loader counters.
func (s *Service) Metrics() *metrics.Metrics {
	return s.metrics
}

// MetricsHandler serves /metrics from the loader registry and a
// /health probe.
func (s *Service) MetricsHandler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", s.metrics.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"result":"ok"}`))
	})
	return mux
}
