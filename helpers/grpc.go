package helpers

import (
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// NewHealthServer creates a gRPC server exposing the standard
// health service, reporting SERVING for the whole server
func NewHealthServer() (*grpc.Server, *health.Server) {
	server := grpc.NewServer()
	checker := health.NewServer()
	checker.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(server, checker)

	return server, checker
}
