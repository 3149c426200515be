package httpgateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	hello "greeter/api/hello"

	"github.com/gorilla/mux"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/status"
)

const GatewayVersion = "1.0"

// Upstream - источник gRPC клиента для Gateway
type Upstream interface {
	Client() (hello.GreeterClient, error)
	State() (connectivity.State, error)
	Reconnect()
}

// Gateway представляет HTTP Gateway
type Gateway struct {
	upstream Upstream
	router   *mux.Router
	gwmux    *runtime.ServeMux
	server   *http.Server
	timeout  time.Duration
	logger   *slog.Logger
}

// NewGateway создает новый Gateway
func NewGateway(upstream Upstream, httpAddr string, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}

	g := &Gateway{
		upstream: upstream,
		router:   mux.NewRouter(),
		timeout:  10 * time.Second,
		logger:   logger,
	}
	g.gwmux = runtime.NewServeMux(
		runtime.WithErrorHandler(g.errorHandler),
	)
	g.server = &http.Server{
		Addr:         httpAddr,
		Handler:      g.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return g
}

// SetupRoutes настраивает маршруты
func (g *Gateway) SetupRoutes() error {
	routes := []struct {
		method  string
		pattern string
		handler runtime.HandlerFunc
	}{
		{http.MethodGet, "/v1/hello/{name}", g.sayHelloPath},
		{http.MethodPost, "/v1/hello", g.sayHelloBody},
		{http.MethodGet, "/v1/add", g.addQuery},
		{http.MethodPost, "/v1/add", g.addBody},
		{http.MethodGet, "/v1/calls", g.listCalls},
	}
	for _, rt := range routes {
		if err := g.gwmux.HandlePath(rt.method, rt.pattern, rt.handler); err != nil {
			return fmt.Errorf("failed to register %s %s: %w", rt.method, rt.pattern, err)
		}
	}

	g.router.HandleFunc("/", g.homeHandler).Methods(http.MethodGet)
	g.router.HandleFunc("/health", g.healthHandler).Methods(http.MethodGet)

	// Все запросы к /v1/ передаем в gRPC Gateway
	g.router.PathPrefix("/v1/").Handler(g.gwmux)

	return nil
}

func (g *Gateway) Handler() http.Handler {
	return g.router
}

func (g *Gateway) sayHelloPath(w http.ResponseWriter, r *http.Request, params map[string]string) {
	g.sayHello(w, r, &hello.HelloRequest{Name: params["name"]})
}

func (g *Gateway) sayHelloBody(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	var req hello.HelloRequest
	if err := decodeBody(r, &req); err != nil {
		g.fail(w, r, err)
		return
	}
	g.sayHello(w, r, &req)
}

func (g *Gateway) sayHello(w http.ResponseWriter, r *http.Request, req *hello.HelloRequest) {
	client, ctx, cancel, err := g.call(r)
	if err != nil {
		g.fail(w, r, err)
		return
	}
	defer cancel()

	resp, err := client.SayHello(ctx, req)
	if err != nil {
		g.fail(w, r, err)
		return
	}
	g.forward(w, r, resp)
}

func (g *Gateway) addQuery(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	q := r.URL.Query()

	a, err := parseIntParam(q.Get("a"), "a", 64)
	if err != nil {
		g.fail(w, r, err)
		return
	}
	b, err := parseIntParam(q.Get("b"), "b", 64)
	if err != nil {
		g.fail(w, r, err)
		return
	}
	g.add(w, r, &hello.AddRequest{A: a, B: b})
}

func (g *Gateway) addBody(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	var req hello.AddRequest
	if err := decodeBody(r, &req); err != nil {
		g.fail(w, r, err)
		return
	}
	g.add(w, r, &req)
}

func (g *Gateway) add(w http.ResponseWriter, r *http.Request, req *hello.AddRequest) {
	client, ctx, cancel, err := g.call(r)
	if err != nil {
		g.fail(w, r, err)
		return
	}
	defer cancel()

	resp, err := client.Add(ctx, req)
	if err != nil {
		g.fail(w, r, err)
		return
	}
	g.forward(w, r, resp)
}

func (g *Gateway) listCalls(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	var limit int64
	if raw := r.URL.Query().Get("limit"); raw != "" {
		var err error
		if limit, err = parseIntParam(raw, "limit", 32); err != nil {
			g.fail(w, r, err)
			return
		}
	}

	client, ctx, cancel, err := g.call(r)
	if err != nil {
		g.fail(w, r, err)
		return
	}
	defer cancel()

	resp, err := client.ListCalls(ctx, &hello.ListCallsRequest{Limit: int32(limit)})
	if err != nil {
		g.fail(w, r, err)
		return
	}
	g.forward(w, r, resp)
}

func (g *Gateway) call(r *http.Request) (hello.GreeterClient, context.Context, context.CancelFunc, error) {
	client, err := g.upstream.Client()
	if err != nil {
		return nil, nil, nil, status.Error(codes.Unavailable, err.Error())
	}
	ctx, cancel := context.WithTimeout(r.Context(), g.timeout)
	return client, ctx, cancel, nil
}

// forward пишет ответ через marshaler grpc-gateway
func (g *Gateway) forward(w http.ResponseWriter, r *http.Request, resp any) {
	_, outbound := runtime.MarshalerForRequest(g.gwmux, r)

	data, err := outbound.Marshal(resp)
	if err != nil {
		g.fail(w, r, status.Error(codes.Internal, err.Error()))
		return
	}

	w.Header().Set("Content-Type", outbound.ContentType(resp))
	w.Header().Set("X-Gateway-Version", GatewayVersion)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		g.logger.Warn("failed to write response", "error", err)
	}
}

func (g *Gateway) fail(w http.ResponseWriter, r *http.Request, err error) {
	_, outbound := runtime.MarshalerForRequest(g.gwmux, r)
	runtime.HTTPError(r.Context(), g.gwmux, outbound, w, r, err)
}

// errorHandler обрабатывает ошибки gRPC
func (g *Gateway) errorHandler(ctx context.Context, mux *runtime.ServeMux,
	marshaler runtime.Marshaler, w http.ResponseWriter, r *http.Request, err error) {

	g.logger.Warn("gRPC Gateway error", "path", r.URL.Path, "error", err)

	// Если ошибка связана с соединением, пытаемся переподключиться
	if status.Code(err) == codes.Unavailable {
		go g.upstream.Reconnect()
	}

	w.Header().Set("X-Gateway-Version", GatewayVersion)
	runtime.DefaultHTTPErrorHandler(ctx, mux, marshaler, w, r, err)
}

// homeHandler обрабатывает главную страницу
func (g *Gateway) homeHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, `
		<h1>Greeter Gateway</h1>
		<p>Available endpoints:</p>
		<ul>
			<li><a href="/v1/hello/World">GET /v1/hello/{name}</a></li>
			<li>POST /v1/hello with JSON: {"name": "World"}</li>
			<li><a href="/v1/add?a=2&amp;b=3">GET /v1/add?a=2&amp;b=3</a></li>
			<li>POST /v1/add with JSON: {"a": 2, "b": 3}</li>
			<li><a href="/v1/calls">GET /v1/calls?limit=50</a></li>
			<li><a href="/health">GET /health</a></li>
		</ul>
	`)
}

type healthResponse struct {
	Status    string `json:"status"`
	GRPCState string `json:"grpc_state,omitempty"`
	Error     string `json:"error,omitempty"`
}

// healthHandler обрабатывает проверку здоровья
func (g *Gateway) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	state, err := g.upstream.State()
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable", Error: err.Error()})
		return
	}

	if state == connectivity.Ready || state == connectivity.Idle {
		writeJSON(w, http.StatusOK, healthResponse{Status: "ok", GRPCState: state.String()})
		return
	}
	writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "degraded", GRPCState: state.String()})
}

// Run запускает HTTP сервер
func (g *Gateway) Run() error {
	g.logger.Info("starting HTTP gateway", "addr", g.server.Addr)
	if err := g.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown останавливает HTTP сервер
func (g *Gateway) Shutdown(ctx context.Context) error {
	return g.server.Shutdown(ctx)
}

// decodeBody читает ровно один JSON объект; пустое тело допустимо
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return status.Errorf(codes.InvalidArgument, "invalid request body: %v", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return status.Error(codes.InvalidArgument, "invalid request body: unexpected data after JSON object")
	}
	return nil
}

func parseIntParam(raw, name string, bitSize int) (int64, error) {
	if raw == "" {
		return 0, status.Errorf(codes.InvalidArgument, "missing parameter %q", name)
	}
	v, err := strconv.ParseInt(raw, 10, bitSize)
	if err != nil {
		return 0, status.Errorf(codes.InvalidArgument, "invalid parameter %q: %v", name, err)
	}
	return v, nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
