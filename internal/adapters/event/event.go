// Package event runs invocation descriptors through the five request handlers.
package event

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/atvirokodosprendimai/labelhub/internal/application"
	"github.com/atvirokodosprendimai/labelhub/internal/domain"
	"github.com/atvirokodosprendimai/labelhub/internal/logging"
	"github.com/atvirokodosprendimai/labelhub/internal/metrics"
	"github.com/goccy/go-json"
)

// Event is the invocation descriptor a handler receives.
type Event struct {
	HTTPMethod            string            `json:"httpMethod"`
	QueryStringParameters map[string]string `json:"queryStringParameters"`
	Body                  *string           `json:"body"`
}

// Response is the descriptor a handler returns.
type Response struct {
	StatusCode      int               `json:"statusCode"`
	Headers         map[string]string `json:"headers"`
	Body            string            `json:"body"`
	IsBase64Encoded bool              `json:"isBase64Encoded"`
}

type Handler interface {
	Name() string
	Path() string
	Methods() []string
	Handle(ctx context.Context, ev Event) Response
}

// ErrUnknownResource is reported at 200 for compatibility with existing clients.
var ErrUnknownResource = errors.New("Unknown resource")

const allowHeaders = "Content-Type, X-User-Id"

type route func(ctx context.Context, method string, req request) (any, error)

type endpoint struct {
	name    string
	path    string
	methods []string
	route   route
}

func (e *endpoint) Name() string      { return e.name }
func (e *endpoint) Path() string      { return e.path }
func (e *endpoint) Methods() []string { return append([]string(nil), e.methods...) }

func (e *endpoint) Handle(ctx context.Context, ev Event) (resp Response) {
	method := strings.ToUpper(strings.TrimSpace(ev.HTTPMethod))
	if method == "" {
		method = http.MethodGet
	}
	if method == http.MethodOptions {
		return e.preflight()
	}

	start := time.Now()
	log := logging.Ctx(ctx).With().Str("handler", e.name).Str("method", method).Logger()
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("handler panicked")
			resp = jsonResponse(http.StatusInternalServerError, internalErrorBody)
		}
		metrics.ObserveInvocation(e.name, method, resp.StatusCode, time.Since(start))
	}()

	if !e.allows(method) {
		return jsonResponse(http.StatusMethodNotAllowed, map[string]any{"error": "Method not allowed"})
	}

	req := newRequest(ev)
	result, err := e.route(ctx, method, req)
	if err != nil {
		return errorResponse(ctx, e.name, err)
	}
	return jsonResponse(http.StatusOK, result)
}

func (e *endpoint) allows(method string) bool {
	for _, m := range e.methods {
		if m == method {
			return true
		}
	}
	return false
}

func (e *endpoint) preflight() Response {
	return Response{
		StatusCode: http.StatusOK,
		Headers: map[string]string{
			"Access-Control-Allow-Origin":  "*",
			"Access-Control-Allow-Methods": strings.Join(e.methods, ", ") + ", OPTIONS",
			"Access-Control-Allow-Headers": allowHeaders,
			"Access-Control-Max-Age":       "86400",
		},
		Body: "",
	}
}

var internalErrorBody = map[string]any{"error": "Internal server error", "code": string(domain.KindInternal)}

func errorResponse(ctx context.Context, handler string, err error) Response {
	if errors.Is(err, ErrUnknownResource) || errors.Is(err, application.ErrNoFields) {
		return jsonResponse(http.StatusOK, map[string]any{"error": err.Error()})
	}

	kind := domain.KindOf(err)
	switch kind {
	case domain.KindValidation:
		var verr *domain.ValidationError
		errors.As(err, &verr)
		return jsonResponse(http.StatusBadRequest, map[string]any{"error": verr.Message, "code": string(kind)})
	case domain.KindNotFound:
		return jsonResponse(http.StatusNotFound, map[string]any{"error": "Not found", "code": string(kind)})
	case domain.KindConflict:
		return jsonResponse(http.StatusConflict, map[string]any{"error": "Conflicts with existing data", "code": string(kind)})
	default:
		logging.Ctx(ctx).Error().Err(err).Str("handler", handler).Msg("request failed")
		return jsonResponse(http.StatusInternalServerError, internalErrorBody)
	}
}

func jsonResponse(status int, payload any) Response {
	body, err := json.Marshal(payload)
	if err != nil {
		status = http.StatusInternalServerError
		body = []byte(fmt.Sprintf(`{"error":"Internal server error","code":%q}`, domain.KindInternal))
	}
	return Response{
		StatusCode: status,
		Headers: map[string]string{
			"Content-Type":                "application/json",
			"Access-Control-Allow-Origin": "*",
		},
		Body: string(body),
	}
}

// Lookup finds a handler by name.
func Lookup(handlers []Handler, name string) (Handler, bool) {
	for _, h := range handlers {
		if h.Name() == name {
			return h, true
		}
	}
	return nil, false
}
