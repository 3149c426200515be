package httpgateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	hello "greeter/api/hello"

	"google.golang.org/grpc"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/keepalive"
)

var (
	ErrNoConnection = errors.New("no connection available")
	ErrNotReady     = errors.New("gRPC connection did not become ready")
)

type GRPCConnectionManager struct {
	mu           sync.RWMutex
	conn         *grpc.ClientConn
	addr         string
	dialOpts     []grpc.DialOption
	retries      int
	maxRetries   int
	baseDelay    time.Duration
	readyTimeout time.Duration
	// старое соединение закрывается через drainGrace, чтобы дать завершиться текущим RPC
	drainGrace   time.Duration
	sleep        func(time.Duration)
	reconnecting atomic.Bool
	logger       *slog.Logger
}

// NewGRPCConnectionManager создает новый менеджер соединений.
// extra добавляются к стандартным опциям подключения.
func NewGRPCConnectionManager(addr string, logger *slog.Logger, extra ...grpc.DialOption) *GRPCConnectionManager {
	if logger == nil {
		logger = slog.Default()
	}

	kacp := keepalive.ClientParameters{
		Time:                30 * time.Second,
		Timeout:             5 * time.Second,
		PermitWithoutStream: true,
	}

	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithKeepaliveParams(kacp),
		grpc.WithDefaultServiceConfig(`{"loadBalancingPolicy": "round_robin"}`),
	}

	mgr := &GRPCConnectionManager{
		addr:         addr,
		dialOpts:     append(dialOpts, extra...),
		maxRetries:   5,
		baseDelay:    time.Second,
		readyTimeout: 5 * time.Second,
		drainGrace:   15 * time.Second,
		sleep:        time.Sleep,
		logger:       logger,
	}

	// первое подключение ленивое: gateway стартует и без gRPC сервера
	conn, err := mgr.dial()
	if err != nil {
		logger.Error("initial connection failed", "addr", addr, "error", err)
		return mgr
	}
	conn.Connect()
	mgr.conn = conn
	return mgr
}

func (m *GRPCConnectionManager) dial() (*grpc.ClientConn, error) {
	conn, err := grpc.NewClient(m.addr, m.dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to gRPC server: %w", err)
	}
	return conn, nil
}

// waitReady ждет состояния Ready не дольше readyTimeout
func (m *GRPCConnectionManager) waitReady(conn *grpc.ClientConn) error {
	ctx, cancel := context.WithTimeout(context.Background(), m.readyTimeout)
	defer cancel()

	conn.Connect()
	for {
		state := conn.GetState()
		switch state {
		case connectivity.Ready:
			return nil
		case connectivity.Shutdown:
			return fmt.Errorf("%w: connection shut down", ErrNotReady)
		}
		if !conn.WaitForStateChange(ctx, state) {
			return fmt.Errorf("%w: last state %s", ErrNotReady, state)
		}
	}
}

// connect создает новое соединение и подменяет текущее только после того,
// как новое стало Ready.
func (m *GRPCConnectionManager) connect() error {
	conn, err := m.dial()
	if err != nil {
		return err
	}
	if err := m.waitReady(conn); err != nil {
		conn.Close()
		return err
	}

	m.mu.Lock()
	old := m.conn
	m.conn = conn
	m.mu.Unlock()

	if old != nil {
		time.AfterFunc(m.drainGrace, func() { old.Close() })
	}

	m.logger.Info("connected to gRPC server", "addr", m.addr)
	return nil
}

func (m *GRPCConnectionManager) Client() (hello.GreeterClient, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.conn == nil {
		return nil, ErrNoConnection
	}
	return hello.NewGreeterClient(m.conn), nil
}

func (m *GRPCConnectionManager) State() (connectivity.State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.conn == nil {
		return connectivity.Shutdown, ErrNoConnection
	}
	return m.conn.GetState(), nil
}

// Reconnect пересоздает соединение с экспоненциальной задержкой.
// Одновременно выполняется не больше одной попытки, всего не больше maxRetries
// неудачных попыток подряд.
func (m *GRPCConnectionManager) Reconnect() {
	if !m.reconnecting.CompareAndSwap(false, true) {
		return
	}
	defer m.reconnecting.Store(false)

	m.mu.Lock()
	if m.conn != nil && m.conn.GetState() == connectivity.Ready {
		m.retries = 0
		m.mu.Unlock()
		return
	}
	if m.retries >= m.maxRetries {
		m.mu.Unlock()
		m.logger.Warn("max retries reached for gRPC connection", "addr", m.addr)
		return
	}
	m.retries++
	attempt := m.retries
	m.mu.Unlock()

	m.logger.Info("reconnecting to gRPC server", "attempt", attempt, "max", m.maxRetries)

	m.sleep(m.baseDelay << uint(attempt))

	if err := m.connect(); err != nil {
		m.logger.Error("reconnect failed", "attempt", attempt, "error", err)
		return
	}

	m.mu.Lock()
	m.retries = 0
	m.mu.Unlock()
}

func (m *GRPCConnectionManager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.conn != nil {
		m.conn.Close()
		m.conn = nil
		m.logger.Info("gRPC connection closed")
	}
}
