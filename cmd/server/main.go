package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"github.com/uber/jaeger-client-go"
	jaegercfg "github.com/uber/jaeger-client-go/config"
	"go.uber.org/zap"

	"max.ks1230/fintrack/internal/config"
	"max.ks1230/fintrack/internal/logger"
	"max.ks1230/fintrack/internal/model/auth"
	"max.ks1230/fintrack/internal/model/files"
	"max.ks1230/fintrack/internal/model/records"
	"max.ks1230/fintrack/internal/model/storage"
	"max.ks1230/fintrack/internal/server"
)

const serviceName = "fintrack"

const shutdownTimeout = 5 * time.Second

func main() {
	logger.Info("Server init - start")

	conf, err := config.New()
	if err != nil {
		logger.Fatal("failed to init config:", zap.Error(err))
	}

	closer, err := initTracing(serviceName)
	if err != nil {
		logger.Fatal("failed to init tracing:", zap.Error(err))
	}
	defer func() {
		if err := closer.Close(); err != nil {
			logger.Error("failed to close tracer", zap.Error(err))
		}
	}()

	gateway, err := newStorage(conf.Postgres())
	if err != nil {
		logger.Fatal("failed to init storage:", zap.Error(err))
	}

	authService := auth.NewService(conf.Auth(), gateway)
	recordService := records.NewService(gateway)
	fileService := files.NewService(recordService)

	srv := server.New(conf.Server(), authService, recordService, fileService)

	logger.Info("Server init - end")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown", zap.Error(err))
		}
	}()

	if err = srv.Run(); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newStorage(conf *config.PostgresConfig) (storage.Gateway, error) {
	if !conf.Enabled() {
		logger.Warn("postgres is not configured, using in-memory storage")
		return storage.NewInMemStorage(), nil
	}
	return storage.NewPostgresStorage(conf)
}

func initTracing(service string) (io.Closer, error) {
	cfg := jaegercfg.Configuration{
		ServiceName: service,
		Sampler: &jaegercfg.SamplerConfig{
			Type:  jaeger.SamplerTypeConst,
			Param: 1,
		},
	}

	tracer, closer, err := cfg.NewTracer()
	if err != nil {
		return nil, errors.Wrap(err, "init tracing")
	}
	opentracing.SetGlobalTracer(tracer)
	return closer, nil
}
