// Package app contains the application setup for the product service.
package app

import (
	"log/slog"
	"net/http"

	"github.com/abgdnv/productcatalog/internal/config"
	"github.com/abgdnv/productcatalog/internal/platform/messaging"
	"github.com/abgdnv/productcatalog/internal/platform/server"
	"github.com/abgdnv/productcatalog/internal/product/service"
	"github.com/abgdnv/productcatalog/internal/product/store"
	grpcImpl "github.com/abgdnv/productcatalog/internal/product/transport/grpc"
	"github.com/abgdnv/productcatalog/internal/product/transport/rest"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"gorm.io/gorm"
)

const httpOperationName = "product-http"

type Dependencies struct {
	ProductService service.ProductService
	ProductStore   *store.GormStore
	Logger         *slog.Logger
	// MetricsHandler serves /metrics when set.
	MetricsHandler http.Handler
}

// SetupDependencies wires the store, the service and the publisher together.
// A nil publisher disables lifecycle events.
func SetupDependencies(db *gorm.DB, publisher messaging.Publisher, logger *slog.Logger) *Dependencies {
	productStore := store.NewGormStore(db)
	pService := service.NewService(productStore, publisher, logger)

	return &Dependencies{
		ProductService: pService,
		ProductStore:   productStore,
		Logger:         logger,
	}
}

// SetupHttpHandler initializes the HTTP routes and middleware for the product service.
// Used by E2E tests to set up the HTTP server with the necessary routes and middleware.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	mux := server.NewChiRouter(deps.Logger, server.WithHealthCheck(), server.WithMetrics(deps.MetricsHandler))
	rest.NewHandler(deps.ProductService, deps.Logger).RegisterRoutes(mux)
	return otelhttp.NewHandler(mux, httpOperationName)
}

// SetupHttpServer creates and configures an HTTP server for the product service.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	return server.NewHTTPServer(cfg.HTTPServer, SetupHttpHandler(deps))
}

// SetupPprofServer creates the profiling server; it is only started when pprof is enabled.
func SetupPprofServer(cfg *config.Config) *http.Server {
	return server.NewPprofServer(cfg.PProf, cfg.HTTPServer.Timeout.ReadHeader)
}

// SetupGrpcServer initializes the gRPC server with the product lookup service.
func SetupGrpcServer(deps *Dependencies, reflectionEnabled bool) (*grpc.Server, *health.Server) {
	productRegisterFunc := func(s *grpc.Server) {
		grpcImpl.RegisterLookupServer(s, grpcImpl.NewServer(deps.ProductService, deps.Logger))
	}
	return server.NewGRPCServer(reflectionEnabled, productRegisterFunc)
}
