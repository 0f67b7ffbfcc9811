// Copyright (c) 2026 Finstack. All rights reserved.
// Author: dev@finstack.app

/*
Package middleware wraps the router with the cross-cutting request pipeline.

Every request passes through the same chain before reaching a domain handler:
correlation ID assignment, per-request structured logging, panic containment,
CORS screening, and (on protected routes) bearer-token authentication. Domain
handlers therefore never deal with these concerns directly.
*/
package middleware

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/finstack/finstack/internal/platform/apperr"
	"github.com/finstack/finstack/internal/platform/constants"
	"github.com/finstack/finstack/internal/platform/ctxutil"
	"github.com/finstack/finstack/pkg/uuidv7"
)

// # Request Correlation

// RequestID ensures every request carries a correlation ID. A client-supplied
// X-Request-ID is honored so upstream proxies can stitch traces together;
// otherwise a fresh time-sortable UUID is minted.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			requestID := request.Header.Get(constants.HeaderXRequestID)
			if requestID == "" {
				requestID = uuidv7.New()
			}

			// Echo the ID back so clients can reference it in support requests.
			writer.Header().Set(constants.HeaderXRequestID, requestID)

			ctx := ctxutil.WithRequestID(request.Context(), requestID)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// # Access Logging

// responseCapture records the status code and body size written by downstream
// handlers so the access log can report them.
type responseCapture struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (capture *responseCapture) WriteHeader(code int) {
	capture.status = code
	capture.ResponseWriter.WriteHeader(code)
}

func (capture *responseCapture) Write(payload []byte) (int, error) {
	written, err := capture.ResponseWriter.Write(payload)
	capture.bytes += written
	return written, err
}

// levelForStatus maps a response class to a log severity: server faults are
// errors, client faults are warnings, everything else is informational.
func levelForStatus(status int) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// StructuredLogger emits one access-log line per request and seeds the
// request context with a logger pre-tagged with the correlation fields, so
// downstream code logs with the same identity automatically.
func StructuredLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			startedAt := time.Now()

			requestLogger := logger.With(
				slog.String("request_id", ctxutil.GetRequestID(request.Context())),
				slog.String("method", request.Method),
				slog.String("path", request.URL.Path),
				slog.String("ip", RealIP(request)),
			)

			ctx := ctxutil.WithLogger(request.Context(), requestLogger)
			capture := &responseCapture{ResponseWriter: writer, status: http.StatusOK}

			next.ServeHTTP(capture, request.WithContext(ctx))

			attributes := []any{
				slog.Int("status", capture.status),
				slog.Int("bytes", capture.bytes),
				slog.Int64("latency_ms", time.Since(startedAt).Milliseconds()),
				slog.String("user_agent", request.UserAgent()),
			}
			if claims := ctxutil.GetClaims(ctx); claims != nil {
				attributes = append(attributes, slog.String("user_id", claims.Subject))
			}

			requestLogger.Log(ctx, levelForStatus(capture.status), "http_request_finished", attributes...)
		})
	}
}

// # Panic Containment

// PanicRecovery converts handler panics into a logged 500 response so one bad
// request cannot take the process down. http.ErrAbortHandler is re-raised
// untouched since the server uses it to abort the connection deliberately.
func PanicRecovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			defer func() {
				recovered := recover()
				if recovered == nil {
					return
				}
				if recovered == http.ErrAbortHandler {
					panic(recovered)
				}

				stackTrace := make([]byte, 2048)
				length := runtime.Stack(stackTrace, false)

				ctxutil.GetLogger(request.Context()).ErrorContext(request.Context(), "panic_recovered",
					slog.Any("error", recovered),
					slog.String("stack", string(stackTrace[:length])),
				)

				writeError(writer, apperr.CodeInternal, "An unexpected error occurred")
			}()

			next.ServeHTTP(writer, request)
		})
	}
}

// # Cross-Origin Resource Sharing

// allowedOriginSuffix is the production origin allowlist. Any origin ending
// in this suffix (app, dashboard, marketing subdomains) may call the API.
const allowedOriginSuffix = "finstack.app"

// AppConfig exposes the environment switch the CORS policy depends on.
type AppConfig interface {
	IsDevelopment() bool
}

// originAllowed reports whether the browser origin may receive CORS grants.
// Development accepts everything so local frontends work without config.
func originAllowed(cfg AppConfig, origin string) bool {
	if cfg.IsDevelopment() {
		return true
	}
	return strings.HasSuffix(origin, allowedOriginSuffix)
}

// CORS applies the origin policy and answers pre-flight requests.
func CORS(cfg AppConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// Same-origin and non-browser traffic carries no Origin header.
			origin := request.Header.Get(constants.HeaderOrigin)
			if origin == "" {
				next.ServeHTTP(writer, request)
				return
			}

			if originAllowed(cfg, origin) {
				header := writer.Header()
				header.Set("Access-Control-Allow-Origin", origin)
				header.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
				header.Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Authorization, X-Request-ID")
				header.Set("Access-Control-Expose-Headers", "Content-Length, X-Request-ID")
				header.Set("Access-Control-Allow-Credentials", "true")
				header.Set("Access-Control-Max-Age", "300")
			}

			if request.Method == http.MethodOptions {
				writer.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// # Helpers

// RealIP resolves the originating client address, preferring the proxy
// headers set by the load balancer over the raw socket peer.
func RealIP(request *http.Request) string {
	if ip := request.Header.Get(constants.HeaderXRealIP); ip != "" {
		return ip
	}
	if forwarded := request.Header.Get(constants.HeaderXForwardedFor); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}

	host, _, _ := net.SplitHostPort(request.RemoteAddr)
	return host
}

// writeError emits a minimal JSON error body without going through the
// respond package, since the panic path must not assume anything about the
// request that failed.
func writeError(writer http.ResponseWriter, code apperr.Code, message string) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(apperr.StatusOf(code))
	_ = json.NewEncoder(writer).Encode(map[string]string{
		constants.FieldCode:  string(code),
		constants.FieldError: message,
	})
}
