package domain

import (
	"context"
	"time"
)

type HelloRequest struct {
	Name string
}

type HelloResponse struct {
	Message string
}

type AddRequest struct {
	A int
	B int
}

type AddResponse struct {
	Sum int
}

// Operation - имя операции в журнале вызовов
type Operation string

const (
	OperationGreet      Operation = "greet"
	OperationAddNumbers Operation = "add_numbers"
)

// CallRecord - запись журнала вызовов
type CallRecord struct {
	ID        string
	Operation Operation
	Input     string // JSON аргументов
	Output    string
	CreatedAt time.Time
}

const (
	DefaultCallsLimit = 50
	MaxCallsLimit     = 1000
)

// NormalizeLimit приводит лимит выборки журнала к допустимому диапазону
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultCallsLimit
	}
	if limit > MaxCallsLimit {
		return MaxCallsLimit
	}
	return limit
}

type HelloService interface {
	SayHello(ctx context.Context, req *HelloRequest) (*HelloResponse, error)
	Add(ctx context.Context, req *AddRequest) (*AddResponse, error)
	ListCalls(ctx context.Context, limit int) ([]*CallRecord, error)
}

// CallRepository - хранилище журнала вызовов
type CallRepository interface {
	Record(ctx context.Context, call *CallRecord) error
	Recent(ctx context.Context, limit int) ([]*CallRecord, error)
	Ping(ctx context.Context) error
}
