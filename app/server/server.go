package server

import (
	"log/slog"
	"time"

	"nfeditor/app/api"
	"nfeditor/app/middleware"
	"nfeditor/metrics"
	"nfeditor/store"
	"nfeditor/types"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	listenAddr string
	logger     *slog.Logger
	app        *fiber.App
	store      store.DBStorer
}

func NewServer(cfg types.ServerConfig, s store.DBStorer) *Server {
	logger := slog.Default()
	m := metrics.New()

	var (
		app = fiber.New(fiber.Config{
			ErrorHandler:   api.ErrorHandler,
			BodyLimit:      cfg.BodyLimit,
			ReadBufferSize: cfg.ReadBufferSize,
		})
		checkHandler   = api.NewCheckHandler()
		fileHandler    = api.NewFileHandler(cfg.StagingFile)
		invoiceHandler = api.NewInvoiceHandler(s, fileHandler, m)
		check          = app.Group("/check")
		apiv1          = app.Group("/api/v1")
		invoices       = apiv1.Group("/invoices")
	)

	app.Use(middleware.RequestLogger(logger, m))

	check.Get("/healthy", checkHandler.HandleHealthy)
	app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))

	invoices.Post("/upload", invoiceHandler.HandleUpload)
	invoices.Get("/edit", invoiceHandler.HandleSnapshot)
	invoices.Post("/edit", invoiceHandler.HandleEdit)
	invoices.Get("/download", fileHandler.HandleDownload)
	invoices.Post("/summary", invoiceHandler.HandleSummary)
	invoices.Get("/:id/edits", invoiceHandler.HandleEdits)

	return &Server{
		listenAddr: cfg.ListenAddr,
		logger:     logger,
		app:        app,
		store:      s,
	}
}

// App exposes the fiber app, e.g. for app.Test.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Run() {
	s.logger.Info("server starting", "addr", s.listenAddr)
	if err := s.app.Listen(s.listenAddr); err != nil {
		s.logger.Error("error to start server", "error", err.Error())
	}
}

func (s *Server) Stop() {
	if err := s.app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		s.logger.Error("error to shutdown server", "error", err.Error())
	}
	if err := s.store.Close(); err != nil {
		s.logger.Error("error to close store", "error", err.Error())
	}
	s.logger.Info("server stopped")
}
