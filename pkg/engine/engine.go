package engine

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/stubdock/stubdock/pkg/auth"
	"github.com/stubdock/stubdock/pkg/catalog"
	"github.com/stubdock/stubdock/pkg/chaos"
	"github.com/stubdock/stubdock/pkg/clock"
	"github.com/stubdock/stubdock/pkg/config"
	"github.com/stubdock/stubdock/pkg/gateway"
	"github.com/stubdock/stubdock/pkg/metrics"
	"github.com/stubdock/stubdock/pkg/ratelimit"
	"github.com/stubdock/stubdock/pkg/shipments"
	"github.com/stubdock/stubdock/pkg/webhook"
)

// Engine owns all simulation state and the ordered route table.
type Engine struct {
	log       *slog.Logger
	clk       clock.Clock
	latency   *chaos.LatencyInjector
	limiter   *ratelimit.FixedWindow
	auth      *auth.Simulator
	shipments *shipments.Store
	catalog   *catalog.Store
	webhooks  *webhook.Log
	gateway   *gateway.Client
	metrics   metrics.Recorder
	scenarios []*scenarioRoute
	routes    []route
}

// Options configures a new Engine. Zero values select defaults: the
// default config, a discarding logger, the system clock, and no metrics.
type Options struct {
	Config  *config.Config
	Logger  *slog.Logger
	Clock   clock.Clock
	Metrics metrics.Recorder
}

// New builds an engine from the given options. It fails only on
// configuration problems: unparsable durations or scenario predicates
// that do not compile.
func New(opts Options) (*Engine, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	} else {
		cfg.ApplyDefaults()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(127)}))
	}
	clk := opts.Clock
	if clk == nil {
		clk = clock.System{}
	}
	rec := opts.Metrics
	if rec == nil {
		rec = metrics.Nop{}
	}

	latency, err := cfg.LatencyDuration()
	if err != nil {
		return nil, err
	}
	window, err := cfg.WindowDuration()
	if err != nil {
		return nil, err
	}

	scenarios, err := compileScenarios(cfg.Scenarios)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		log:       log,
		clk:       clk,
		latency:   chaos.NewLatencyInjector(latency, clk),
		limiter:   ratelimit.New(cfg.RateLimit.Limit, window, clk.Now),
		auth:      auth.NewSimulator(cfg.Credentials, clk.Now),
		shipments: shipments.NewStore(cfg.Shipments...),
		catalog:   catalog.NewStore(cfg.Inventory),
		webhooks:  webhook.NewLog(cfg.Webhooks.Bound, clk.Now),
		gateway:   gateway.NewClient(),
		metrics:   rec,
		scenarios: scenarios,
	}
	e.routes = e.buildRoutes()
	return e, nil
}

// Dispatch routes one request through the precedence table and returns a
// structured response. It never panics and never returns an error.
func (e *Engine) Dispatch(ctx context.Context, req Request) Response {
	if err := e.latency.Apply(ctx); err != nil {
		return Response{
			Status: http.StatusInternalServerError,
			Data:   map[string]any{"error": "request cancelled", "code": "CANCELLED"},
		}
	}

	// The rate-limit gate runs before any route logic; a denied request
	// short-circuits the whole table.
	if strings.HasPrefix(req.Path, RateLimitedPrefix) {
		if d := e.limiter.Check(); !d.Allowed {
			e.metrics.RateLimited()
			retry := int(math.Ceil(d.RetryAfter.Seconds()))
			resp := Response{
				Status: http.StatusTooManyRequests,
				Data: map[string]any{
					"error":      "Too many requests",
					"code":       "RATE_LIMITED",
					"retryAfter": retry,
				},
				Headers: map[string]string{"Retry-After": strconv.Itoa(retry)},
			}
			e.observe("rate-limit", req, resp)
			return resp
		}
	}

	for _, rt := range e.routes {
		if !rt.match(req) {
			continue
		}
		resp := rt.handle(req)
		e.observe(rt.name, req, resp)
		return resp
	}

	// Unreachable: the table ends with a catch-all.
	return notFound(req.Path)
}

func (e *Engine) observe(routeName string, req Request, resp Response) {
	e.metrics.ObserveDispatch(routeName, resp.Status)
	e.log.Debug("dispatch",
		"route", routeName,
		"method", req.Method,
		"path", req.Path,
		"status", resp.Status,
	)
}

// Reset restores all mutable state: shipments back to seed, webhook log
// emptied, rate window cleared. Useful between test scenarios.
func (e *Engine) Reset() {
	e.shipments.Reset()
	e.webhooks.Reset()
	e.limiter.Reset()
	e.metrics.SetShipments(e.shipments.Count())
}

// Shipments exposes the shipment store for callers embedding the engine.
func (e *Engine) Shipments() *shipments.Store { return e.shipments }

// Webhooks exposes the webhook event log.
func (e *Engine) Webhooks() *webhook.Log { return e.webhooks }

// Catalog exposes the read-only inventory store.
func (e *Engine) Catalog() *catalog.Store { return e.catalog }

// errorResponse maps typed component errors to a response envelope.
func errorResponse(err error) Response {
	status := http.StatusInternalServerError
	var sc interface{ StatusCode() int }
	if errors.As(err, &sc) {
		status = sc.StatusCode()
	}
	return Response{
		Status: status,
		Data:   map[string]any{"error": err.Error(), "code": codeForStatus(status)},
	}
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "VALIDATION_FAILED"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusTooManyRequests:
		return "RATE_LIMITED"
	default:
		return "INTERNAL_ERROR"
	}
}

func notFound(path string) Response {
	return Response{
		Status: http.StatusNotFound,
		Data: map[string]any{
			"error": "Endpoint not found",
			"code":  "NOT_FOUND",
			"path":  path,
		},
	}
}
