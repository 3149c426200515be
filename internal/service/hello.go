package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	"greeter/internal/domain"
	"greeter/pkg/example"

	"github.com/google/uuid"
)

const recordTimeout = 2 * time.Second

type helloService struct {
	journal domain.CallRepository
	logger  *slog.Logger
}

// NewHelloService создает сервис. journal может быть nil - тогда журнал отключен.
func NewHelloService(journal domain.CallRepository, logger *slog.Logger) domain.HelloService {
	if logger == nil {
		logger = slog.Default()
	}
	return &helloService{
		journal: journal,
		logger:  logger,
	}
}

func (s *helloService) SayHello(ctx context.Context, req *domain.HelloRequest) (*domain.HelloResponse, error) {
	message := example.Greet(req.Name)

	s.record(ctx, domain.OperationGreet, map[string]any{"name": req.Name}, message)

	return &domain.HelloResponse{
		Message: message,
	}, nil
}

func (s *helloService) Add(ctx context.Context, req *domain.AddRequest) (*domain.AddResponse, error) {
	sum := example.AddNumbers(req.A, req.B)

	s.record(ctx, domain.OperationAddNumbers, map[string]any{"a": req.A, "b": req.B}, strconv.Itoa(sum))

	return &domain.AddResponse{
		Sum: sum,
	}, nil
}

func (s *helloService) ListCalls(ctx context.Context, limit int) ([]*domain.CallRecord, error) {
	if s.journal == nil {
		return nil, domain.ErrJournalDisabled
	}
	return s.journal.Recent(ctx, domain.NormalizeLimit(limit))
}

// record пишет вызов в журнал. Ошибки журнала не влияют на результат операции.
func (s *helloService) record(ctx context.Context, op domain.Operation, args map[string]any, output string) {
	if s.journal == nil {
		return
	}

	input, err := json.Marshal(args)
	if err != nil {
		s.logger.Warn("failed to encode call arguments", "operation", op, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()

	call := &domain.CallRecord{
		ID:        uuid.New().String(),
		Operation: op,
		Input:     string(input),
		Output:    output,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.journal.Record(ctx, call); err != nil {
		s.logger.Warn("failed to record call", "operation", op, "id", call.ID, "error", err)
	}
}
