// Package hello описывает gRPC API сервиса Greeter: сообщения, кодек и
// регистрацию сервиса. Сообщения - обычные Go-структуры, их переносит
// кодек "json".
package hello

import "time"

type HelloRequest struct {
	Name string `json:"name"`
}

func (r *HelloRequest) GetName() string {
	if r == nil {
		return ""
	}
	return r.Name
}

type HelloReply struct {
	Message string `json:"message"`
}

func (r *HelloReply) GetMessage() string {
	if r == nil {
		return ""
	}
	return r.Message
}

type AddRequest struct {
	A int64 `json:"a"`
	B int64 `json:"b"`
}

func (r *AddRequest) GetA() int64 {
	if r == nil {
		return 0
	}
	return r.A
}

func (r *AddRequest) GetB() int64 {
	if r == nil {
		return 0
	}
	return r.B
}

type AddReply struct {
	Sum int64 `json:"sum"`
}

func (r *AddReply) GetSum() int64 {
	if r == nil {
		return 0
	}
	return r.Sum
}

type ListCallsRequest struct {
	Limit int32 `json:"limit"`
}

func (r *ListCallsRequest) GetLimit() int32 {
	if r == nil {
		return 0
	}
	return r.Limit
}

type Call struct {
	ID        string    `json:"id"`
	Operation string    `json:"operation"`
	Input     string    `json:"input"`
	Output    string    `json:"output"`
	CreatedAt time.Time `json:"created_at"`
}

type ListCallsReply struct {
	Calls []*Call `json:"calls"`
}

func (r *ListCallsReply) GetCalls() []*Call {
	if r == nil {
		return nil
	}
	return r.Calls
}
