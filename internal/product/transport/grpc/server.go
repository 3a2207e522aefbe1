// Package grpc exposes a read-only product lookup over gRPC.
//
// The service is described by hand with protobuf well-known types:
//
//	service ProductLookup {
//	  rpc GetProduct(google.protobuf.Int64Value) returns (google.protobuf.Struct);
//	  rpc SearchProducts(google.protobuf.StringValue) returns (google.protobuf.ListValue);
//	}
//
// A product is encoded as a Struct with the fields "id" (number) and "name" (string).
package grpc

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	perrors "github.com/abgdnv/productcatalog/internal/product/errors"
	"github.com/abgdnv/productcatalog/internal/product/store"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	ServiceName          = "product.v1.ProductLookup"
	GetProductMethod     = "/" + ServiceName + "/GetProduct"
	SearchProductsMethod = "/" + ServiceName + "/SearchProducts"
)

// ProductService is the part of the product service used by the lookup.
type ProductService interface {
	GetByID(ctx context.Context, id int64) (*store.Product, error)
	SearchByName(ctx context.Context, fragment string) ([]store.Product, error)
}

// LookupServer is the server API for the ProductLookup service.
type LookupServer interface {
	GetProduct(context.Context, *wrapperspb.Int64Value) (*structpb.Struct, error)
	SearchProducts(context.Context, *wrapperspb.StringValue) (*structpb.ListValue, error)
}

// LookupServiceDesc is the grpc.ServiceDesc for the ProductLookup service.
var LookupServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*LookupServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetProduct", Handler: getProductHandler},
		{MethodName: "SearchProducts", Handler: searchProductsHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "product/v1/lookup.proto",
}

// RegisterLookupServer registers srv on the given registrar.
func RegisterLookupServer(s grpc.ServiceRegistrar, srv LookupServer) {
	s.RegisterService(&LookupServiceDesc, srv)
}

type Server struct {
	service ProductService
	logger  *slog.Logger
}

func NewServer(service ProductService, logger *slog.Logger) *Server {
	return &Server{
		service: service,
		logger:  logger.With("component", "grpc"),
	}
}

// GetProduct returns the active product with the requested id.
func (s *Server) GetProduct(ctx context.Context, req *wrapperspb.Int64Value) (*structpb.Struct, error) {
	id := req.GetValue()
	logger := s.logger.With("ID", id)
	logger.InfoContext(ctx, "received grpc request GetProduct")
	if id <= 0 {
		return nil, status.Errorf(codes.InvalidArgument, "invalid product ID: %d", id)
	}

	found, err := s.service.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, perrors.ErrProductNotFound) {
			return nil, status.Errorf(codes.NotFound, "product with ID %d not found", id)
		}
		logger.ErrorContext(ctx, "service.GetByID failed", "error", err)
		return nil, status.Error(codes.Internal, "internal server error")
	}
	product, err := toStruct(found)
	if err != nil {
		logger.ErrorContext(ctx, "failed to encode product", "error", err)
		return nil, status.Error(codes.Internal, "internal server error")
	}
	return product, nil
}

// SearchProducts returns every active product whose name contains the requested fragment.
func (s *Server) SearchProducts(ctx context.Context, req *wrapperspb.StringValue) (*structpb.ListValue, error) {
	fragment := req.GetValue()
	logger := s.logger.With("name", fragment)
	logger.InfoContext(ctx, "received grpc request SearchProducts")

	found, err := s.service.SearchByName(ctx, fragment)
	if err != nil {
		logger.ErrorContext(ctx, "service.SearchByName failed", "error", err)
		return nil, status.Error(codes.Internal, "internal server error")
	}
	list := &structpb.ListValue{Values: make([]*structpb.Value, 0, len(found))}
	for i := range found {
		product, err := toStruct(&found[i])
		if err != nil {
			logger.ErrorContext(ctx, "failed to encode product", "error", err)
			return nil, status.Error(codes.Internal, "internal server error")
		}
		list.Values = append(list.Values, structpb.NewStructValue(product))
	}
	return list, nil
}

func toStruct(p *store.Product) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"id":   p.ID,
		"name": strings.TrimSpace(p.Name),
	})
}

func getProductHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.Int64Value)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LookupServer).GetProduct(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GetProductMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(LookupServer).GetProduct(ctx, req.(*wrapperspb.Int64Value))
	}
	return interceptor(ctx, in, info, handler)
}

func searchProductsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LookupServer).SearchProducts(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: SearchProductsMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(LookupServer).SearchProducts(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}
