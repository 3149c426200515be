package grpchandler

import (
	"context"
	"errors"
	"log/slog"

	hello "greeter/api/hello"
	"greeter/internal/domain"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type Handler struct {
	hello.UnimplementedGreeterServer
	service domain.HelloService
	logger  *slog.Logger
}

// NewHandler создает новый обработчик
func NewHandler(service domain.HelloService, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// SayHello обрабатывает gRPC вызов
func (h *Handler) SayHello(ctx context.Context, req *hello.HelloRequest) (*hello.HelloReply, error) {
	h.logger.InfoContext(ctx, "SayHello request", "name", req.GetName())

	resp, err := h.service.SayHello(ctx, &domain.HelloRequest{
		Name: req.GetName(),
	})
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}

	return &hello.HelloReply{
		Message: resp.Message,
	}, nil
}

func (h *Handler) Add(ctx context.Context, req *hello.AddRequest) (*hello.AddReply, error) {
	h.logger.InfoContext(ctx, "Add request", "a", req.GetA(), "b", req.GetB())

	resp, err := h.service.Add(ctx, &domain.AddRequest{
		A: int(req.GetA()),
		B: int(req.GetB()),
	})
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}

	return &hello.AddReply{
		Sum: int64(resp.Sum),
	}, nil
}

func (h *Handler) ListCalls(ctx context.Context, req *hello.ListCallsRequest) (*hello.ListCallsReply, error) {
	h.logger.InfoContext(ctx, "ListCalls request", "limit", req.GetLimit())

	if req.GetLimit() < 0 {
		return nil, status.Error(codes.InvalidArgument, "limit must not be negative")
	}

	calls, err := h.service.ListCalls(ctx, int(req.GetLimit()))
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}

	reply := &hello.ListCallsReply{
		Calls: make([]*hello.Call, 0, len(calls)),
	}
	for _, c := range calls {
		reply.Calls = append(reply.Calls, &hello.Call{
			ID:        c.ID,
			Operation: string(c.Operation),
			Input:     c.Input,
			Output:    c.Output,
			CreatedAt: c.CreatedAt,
		})
	}
	return reply, nil
}

// toStatus переводит доменные ошибки в gRPC статусы
func (h *Handler) toStatus(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrJournalDisabled):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}
	h.logger.ErrorContext(ctx, "service error", "error", err)
	return status.Error(codes.Internal, err.Error())
}
