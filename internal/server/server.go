package server

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-task-keeper/internal/config"
	"github.com/MKhiriev/go-task-keeper/internal/handler"
	"github.com/MKhiriev/go-task-keeper/internal/logger"
)

// Server owns the configured transports.
type Server interface {
	// RunServer blocks until a stop signal arrives or a transport fails.
	RunServer()

	// Run blocks until ctx is done or a transport fails, then shuts every
	// transport down.
	Run(ctx context.Context) error

	Shutdown()
}

type server struct {
	httpServer *httpServer
	gRPCServer *grpcServer
	logger     *logger.Logger
}

func NewServer(handlers *handler.Handlers, cfg config.Server, logger *logger.Logger) (Server, error) {
	logger.Info().Msg("creating new server...")
	servers := &server{logger: logger}

	if cfg.HTTPAddress != "" && handlers.HTTP != nil {
		servers.httpServer = newHTTPServer(handlers.HTTP.Init(), cfg, logger)
	}
	if cfg.GRPCAddress != "" && handlers.GRPC != nil {
		gRPCServer, err := newGRPCServer(handlers.GRPC, cfg, logger)
		if err != nil {
			return nil, err
		}
		servers.gRPCServer = gRPCServer
	}

	if servers.httpServer == nil && servers.gRPCServer == nil {
		return nil, errNoServersAreCreated
	}

	return servers, nil
}

func (s *server) RunServer() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer stop()

	if err := s.Run(ctx); err != nil {
		s.logger.Err(err).Msg("server stopped with error")
		return
	}
	s.logger.Info().Msg("server shut down gracefully")
}

func (s *server) Run(ctx context.Context) error {
	if s.httpServer == nil && s.gRPCServer == nil {
		return errNoServersAreCreated
	}

	// buffered so that a transport failing after shutdown never blocks
	failed := make(chan error, 2)

	if s.httpServer != nil {
		s.logger.Info().Msg("launching HTTP server")
		go func() { failed <- s.httpServer.serve() }()
	}
	if s.gRPCServer != nil {
		s.logger.Info().Msg("launching gRPC server")
		go func() { failed <- s.gRPCServer.serve() }()
	}

	var err error
	select {
	case <-ctx.Done():
	case err = <-failed:
	}

	s.Shutdown()
	return err
}

func (s *server) Shutdown() {
	if s.httpServer != nil {
		s.httpServer.shutdown()
	}
	if s.gRPCServer != nil {
		s.gRPCServer.shutdown()
	}
}
