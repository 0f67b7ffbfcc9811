// Copyright (c) 2026 Finstack. All rights reserved.
// Author: dev@finstack.app

// Package api contains the health check handlers for liveness and dependency probes.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/finstack/finstack/internal/platform/constants"
	"github.com/finstack/finstack/internal/platform/respond"
)

// HealthDependencies holds the injectable dependency checkers for the
// /health/detailed endpoint.
type HealthDependencies struct {
	// CheckDatabase pings the PostgreSQL pool.
	CheckDatabase func() error

	// CheckCache pings the Redis client.
	CheckCache func() error
}

type healthHandler struct {
	dependencies HealthDependencies
	logger       *slog.Logger
}

// NewHealthHandlers creates the /health and /health/detailed http.HandlerFuncs.
func NewHealthHandlers(deps HealthDependencies, logger *slog.Logger) (liveness, detailed http.HandlerFunc) {
	handler := &healthHandler{dependencies: deps, logger: logger}
	return handler.liveness, handler.detailed
}

// liveness handles GET /health. It only proves the process is serving; a
// degraded dependency never fails this probe.
func (handler *healthHandler) liveness(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, map[string]string{
		"status":    "ok",
		"service":   constants.AppName,
		"version":   constants.AppVersion,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// detailed handles GET /health/detailed: every dependency is pinged and the
// response degrades to 503 when any check fails.
func (handler *healthHandler) detailed(writer http.ResponseWriter, request *http.Request) {
	type checkResult struct {
		Name  string `json:"name"`
		IsOK  bool   `json:"ok"`
		Error string `json:"error,omitempty"`
	}

	checks := map[string]func() error{
		"postgres": handler.dependencies.CheckDatabase,
		"redis":    handler.dependencies.CheckCache,
	}

	results := make([]checkResult, 0, len(checks))
	isHealthy := true

	for _, name := range []string{"postgres", "redis"} {
		check := checks[name]
		if check == nil {
			continue
		}

		result := checkResult{Name: name, IsOK: true}
		if err := check(); err != nil {
			result.IsOK = false
			result.Error = err.Error()
			isHealthy = false
			handler.logger.Error("health_check_failed",
				slog.String("dependency", name),
				slog.Any("error", err),
			)
		}
		results = append(results, result)
	}

	status, httpStatus := "ok", http.StatusOK
	if !isHealthy {
		status, httpStatus = "degraded", http.StatusServiceUnavailable
	}

	respond.JSON(writer, httpStatus, map[string]any{
		"status":    status,
		"service":   constants.AppName,
		"version":   constants.AppVersion,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks":    results,
	})
}
