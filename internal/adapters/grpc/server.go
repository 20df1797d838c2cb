// Package grpc exposes the internal mesh surface. Today that is the standard
// health protocol only; sibling services probe it before routing traffic.
package grpc

import (
	"context"

	"google.golang.org/grpc"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/sellforge/marketplace/internal/application"
)

type MarketplaceInternalServer struct {
	grpc_health_v1.UnimplementedHealthServer
	service *application.Service
}

func NewMarketplaceInternalServer(service *application.Service) *MarketplaceInternalServer {
	return &MarketplaceInternalServer{service: service}
}

func Register(server grpc.ServiceRegistrar, svc *MarketplaceInternalServer) {
	grpc_health_v1.RegisterHealthServer(server, svc)
}

func (s *MarketplaceInternalServer) Check(_ context.Context, _ *grpc_health_v1.HealthCheckRequest) (*grpc_health_v1.HealthCheckResponse, error) {
	return &grpc_health_v1.HealthCheckResponse{Status: grpc_health_v1.HealthCheckResponse_SERVING}, nil
}

func (s *MarketplaceInternalServer) Watch(_ *grpc_health_v1.HealthCheckRequest, stream grpc_health_v1.Health_WatchServer) error {
	return stream.Send(&grpc_health_v1.HealthCheckResponse{Status: grpc_health_v1.HealthCheckResponse_SERVING})
}
