package engine

import (
	"errors"
	"net/http"
	"strings"

	"github.com/stubdock/stubdock/pkg/auth"
	"github.com/stubdock/stubdock/pkg/gateway"
)

// buildRoutes assembles the ordered dispatch table. Order is the contract:
// canned errors before auth, auth before the gateway proxy, the bearer
// gate before resource CRUD, catch-all last.
func (e *Engine) buildRoutes() []route {
	routes := []route{
		{
			name:   "error-internal",
			match:  exact("/errors/internal"),
			handle: canned(http.StatusInternalServerError, map[string]any{
				"error": "Simulated internal server error",
				"code":  "INTERNAL_ERROR",
			}),
		},
		{
			name:   "error-bad-gateway",
			match:  exact("/errors/bad-gateway"),
			handle: canned(http.StatusBadGateway, map[string]any{
				"error": "Simulated upstream failure",
				"code":  "UPSTREAM_UNAVAILABLE",
			}),
		},
	}

	for _, sc := range e.scenarios {
		routes = append(routes, sc.asRoute())
	}

	routes = append(routes,
		route{
			name:   "auth-token",
			match:  methodExact(MethodPost, "/auth/token"),
			handle: e.handleIssueToken,
		},
		route{
			name:   "auth-api-key-pro",
			match:  exact("/auth/api-key/pro"),
			handle: func(r Request) Response { return fromAuth(e.auth.CheckProKey(r.Header("X-API-Key"))) },
		},
		route{
			name:   "auth-api-key",
			match:  exact("/auth/api-key"),
			handle: func(r Request) Response { return fromAuth(e.auth.CheckSandboxKey(r.Header("X-API-Key"))) },
		},
		route{
			name:   "auth-jwt",
			match:  exact("/auth/jwt"),
			handle: func(r Request) Response { return fromAuth(e.auth.CheckJWT(r.Header("Authorization"))) },
		},
		route{
			name:   "gateway-charge",
			match:  methodExact(MethodPost, "/gateway/charge"),
			handle: e.handleGatewayCharge,
		},
		route{
			name:   "webhook-trigger",
			match:  methodExact(MethodPost, "/webhooks/trigger"),
			handle: e.handleWebhookTrigger,
		},
		route{
			name:   "webhook-history",
			match:  methodExact(MethodGet, "/webhooks/history"),
			handle: e.handleWebhookHistory,
		},
		route{
			name:   "secure",
			match:  func(r Request) bool { return strings.HasPrefix(r.Path, ProtectedPrefix) },
			handle: e.handleSecure,
		},
		route{
			name: "shipments-collection",
			match: func(r Request) bool {
				return r.Path == "/shipments" && (r.Method == MethodGet || r.Method == MethodPost)
			},
			handle: e.handleShipmentsCollection,
		},
		route{
			name: "shipments-item",
			match: func(r Request) bool {
				_, ok := shipmentIDFromPath(r.Path)
				return ok
			},
			handle: e.handleShipmentsItem,
		},
		route{
			name:   "inventory",
			match:  methodExact(MethodGet, "/inventory"),
			handle: func(Request) Response { return Response{Status: http.StatusOK, Data: e.catalog.List()} },
		},
		route{
			name:   "limited-ping",
			match:  exact("/limited/ping"),
			handle: canned(http.StatusOK, map[string]any{"message": "pong"}),
		},
		route{
			name:   "not-found",
			match:  func(Request) bool { return true },
			handle: func(r Request) Response { return notFound(r.Path) },
		},
	)
	return routes
}

// canned returns a handler producing a fixed status/body pair regardless
// of method, body, or auth state.
func canned(status int, body map[string]any) func(Request) Response {
	return func(Request) Response {
		return Response{Status: status, Data: body}
	}
}

func fromAuth(res auth.Result) Response {
	return Response{Status: res.Status, Data: res.Body, Headers: res.Headers}
}

func (e *Engine) handleIssueToken(r Request) Response {
	return fromAuth(e.auth.IssueToken(r.BodyString("username"), r.BodyString("password")))
}

func (e *Engine) handleGatewayCharge(r Request) Response {
	result, err := e.gateway.Charge(r.Body)
	if err != nil {
		var ire *gateway.InvalidRequestError
		if errors.As(err, &ire) {
			return Response{
				Status: http.StatusBadRequest,
				Data: map[string]any{
					"error":  "Charge request validation failed",
					"code":   "VALIDATION_FAILED",
					"fields": ire.Fields,
				},
			}
		}
		return errorResponse(err)
	}
	return Response{
		Status:  http.StatusOK,
		Data:    result,
		Headers: map[string]string{"X-Gateway-Provider": gateway.Provider},
	}
}

func (e *Engine) handleWebhookTrigger(r Request) Response {
	ev := e.webhooks.Trigger(r.BodyString("type"), r.Body["payload"])
	e.metrics.WebhookTriggered()
	// Accepted, not delivered: the trigger is fire-and-forget.
	return Response{
		Status: http.StatusAccepted,
		Data:   map[string]any{"eventId": ev.ID, "status": "queued"},
	}
}

func (e *Engine) handleWebhookHistory(Request) Response {
	events := e.webhooks.History()
	return Response{
		Status: http.StatusOK,
		Data:   map[string]any{"events": events, "count": len(events)},
	}
}

// handleSecure gates the whole /secure prefix on bearer-token membership
// before any resource logic runs.
func (e *Engine) handleSecure(r Request) Response {
	token := auth.BearerFromHeader(r.Header("Authorization"))
	if !e.auth.HasBearerToken(token) {
		return Response{
			Status: http.StatusUnauthorized,
			Data: map[string]any{
				"error": "Missing or invalid bearer token",
				"code":  "UNAUTHORIZED",
			},
		}
	}

	if r.Method == MethodGet && r.Path == "/secure/profile" {
		return Response{
			Status: http.StatusOK,
			Data: map[string]any{
				"user": map[string]any{
					"id":    "usr_mock_1",
					"name":  "Sandbox Developer",
					"roles": []string{"developer"},
				},
				"tokenValid": true,
			},
		}
	}
	return notFound(r.Path)
}

func (e *Engine) handleShipmentsCollection(r Request) Response {
	switch r.Method {
	case MethodPost:
		created := e.shipments.Create(r.Body)
		e.metrics.SetShipments(e.shipments.Count())
		return Response{Status: http.StatusCreated, Data: created}
	default:
		return Response{Status: http.StatusOK, Data: e.shipments.List()}
	}
}

func (e *Engine) handleShipmentsItem(r Request) Response {
	shipmentID, _ := shipmentIDFromPath(r.Path)

	switch r.Method {
	case MethodGet:
		item, err := e.shipments.Get(shipmentID)
		if err != nil {
			return errorResponse(err)
		}
		return Response{Status: http.StatusOK, Data: item}
	case MethodPut, MethodPatch:
		item, err := e.shipments.Update(shipmentID, r.Body)
		if err != nil {
			return errorResponse(err)
		}
		return Response{Status: http.StatusOK, Data: item}
	case MethodDelete:
		if err := e.shipments.Delete(shipmentID); err != nil {
			return errorResponse(err)
		}
		e.metrics.SetShipments(e.shipments.Count())
		return Response{Status: http.StatusNoContent}
	default:
		return notFound(r.Path)
	}
}

// shipmentIDFromPath extracts the trailing id segment from a
// /shipments/{id} path.
func shipmentIDFromPath(path string) (string, bool) {
	rest, ok := strings.CutPrefix(path, "/shipments/")
	if !ok || rest == "" || strings.Contains(rest, "/") {
		return "", false
	}
	return rest, true
}
