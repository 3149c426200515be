package grpcserver

import (
	"context"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	hello "greeter/api/hello"
	grpchandler "greeter/internal/delivery/grpc"
	"greeter/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"
)

func TestServer(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := grpchandler.NewHandler(service.NewHelloService(nil, logger), logger)
	srv := NewServer(handler, Options{Reflection: true, Logger: logger})

	lis := bufconn.Listen(1 << 20)
	done := make(chan error, 1)
	go func() {
		done <- srv.Serve(lis)
	}()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	healthClient := grpc_health_v1.NewHealthClient(conn)
	for _, name := range []string{"", hello.Greeter_ServiceName} {
		resp, err := healthClient.Check(ctx, &grpc_health_v1.HealthCheckRequest{Service: name})
		require.NoError(t, err)
		assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, resp.GetStatus())
	}

	reply, err := hello.NewGreeterClient(conn).SayHello(ctx, &hello.HelloRequest{Name: "World"})
	require.NoError(t, err)
	assert.Equal(t, "Hello, World!", reply.GetMessage())

	srv.GracefulStop()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
