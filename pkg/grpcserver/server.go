package grpcserver

import (
	"log/slog"
	"net"
	"time"

	hello "greeter/api/hello"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/reflection"
)

type Options struct {
	Addr       string
	Reflection bool
	Logger     *slog.Logger
}

type Server struct {
	server *grpc.Server
	health *health.Server
	addr   string
	logger *slog.Logger
}

// NewServer создает gRPC сервер с keepalive, health checking и сервисом Greeter
func NewServer(handler hello.GreeterServer, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	kaep := keepalive.EnforcementPolicy{
		MinTime:             5 * time.Second,
		PermitWithoutStream: true,
	}

	kasp := keepalive.ServerParameters{
		MaxConnectionIdle:     15 * time.Second,
		MaxConnectionAge:      30 * time.Second,
		MaxConnectionAgeGrace: 5 * time.Second,
		Time:                  5 * time.Second,
		Timeout:               1 * time.Second,
	}

	s := grpc.NewServer(
		grpc.KeepaliveEnforcementPolicy(kaep),
		grpc.KeepaliveParams(kasp),
	)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(s, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(hello.Greeter_ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	hello.RegisterGreeterServer(s, handler)

	if opts.Reflection {
		reflection.Register(s)
	}

	return &Server{
		server: s,
		health: healthServer,
		addr:   opts.Addr,
		logger: opts.Logger,
	}
}

// Run слушает addr и обслуживает запросы до остановки
func (s *Server) Run() error {
	lis, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	return s.Serve(lis)
}

func (s *Server) Serve(lis net.Listener) error {
	s.logger.Info("gRPC server listening", "addr", lis.Addr().String())
	if err := s.server.Serve(lis); err != nil && err != grpc.ErrServerStopped {
		return err
	}
	return nil
}

// GracefulStop переводит health в NOT_SERVING и останавливает сервер
func (s *Server) GracefulStop() {
	s.health.Shutdown()
	s.server.GracefulStop()
	s.logger.Info("gRPC server stopped")
}
