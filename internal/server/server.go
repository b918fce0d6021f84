package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"max.ks1230/fintrack/internal/logger"
	"max.ks1230/fintrack/internal/model/auth"
	"max.ks1230/fintrack/internal/model/files"
	"max.ks1230/fintrack/internal/model/records"
)

const (
	readHeaderTimeout = 5 * time.Second
	writeTimeout      = 30 * time.Second
)

type config interface {
	Port() int
}

type Server struct {
	auth    *auth.Service
	records *records.Service
	files   *files.Service
	server  *http.Server
}

func New(config config, authService *auth.Service, recordService *records.Service, fileService *files.Service) *Server {
	s := &Server{
		auth:    authService,
		records: recordService,
		files:   fileService,
	}

	router := mux.NewRouter()
	router.Use(withObservability)

	router.HandleFunc("/auth/register", s.handleRegister).Methods(http.MethodPost)
	router.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	protected := router.PathPrefix("/").Subrouter()
	protected.Use(s.withAuth)
	protected.HandleFunc("/auth/user", s.handleCurrentUser).Methods(http.MethodGet)

	protected.HandleFunc("/operation/window", s.handleWindow).Methods(http.MethodGet)
	protected.HandleFunc("/operation/", s.handleListRecords).Methods(http.MethodGet)
	protected.HandleFunc("/operation/", s.handleCreateRecord).Methods(http.MethodPost)
	protected.HandleFunc("/operation/{id}", s.handleGetRecord).Methods(http.MethodGet)
	protected.HandleFunc("/operation/{id}", s.handleUpdateRecord).Methods(http.MethodPut)
	protected.HandleFunc("/operation/{id}", s.handleDeleteRecord).Methods(http.MethodDelete)

	protected.HandleFunc("/file/dump", s.handleImport).Methods(http.MethodPost)
	protected.HandleFunc("/file/load", s.handleExport).Methods(http.MethodGet)

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", config.Port()),
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
	}
	return s
}

func (s *Server) Run() error {
	logger.Info("http server listening", zap.String("addr", s.server.Addr))
	err := s.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return errors.Wrap(err, "http server")
}

func (s *Server) Shutdown(ctx context.Context) error {
	logger.Info("http server shutting down")
	return s.server.Shutdown(ctx)
}

// Handler exposes the routing tree; handler tests drive it directly.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}
