package handler

import (
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// UserServiceName is the health check service name of the user store.
const UserServiceName = "users"

// ReadinessChecker reports whether a component can serve requests.
type ReadinessChecker interface {
	Ready() bool
}

// Health serves grpc.health.v1 for the process and the user store.
type Health struct {
	*health.Server
	checker ReadinessChecker
}

// NewHealth creates a Health handler reporting NOT_SERVING until Sync
// observes a ready checker.
func NewHealth(checker ReadinessChecker) *Health {
	h := &Health{
		Server:  health.NewServer(),
		checker: checker,
	}
	h.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	h.SetServingStatus(UserServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	return h
}

// Sync publishes the current readiness of the checker.
func (h *Health) Sync() {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if h.checker.Ready() {
		st = healthpb.HealthCheckResponse_SERVING
	}
	h.SetServingStatus("", st)
	h.SetServingStatus(UserServiceName, st)
}
