package grpc

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophtodo/internal/api"
	"github.com/dmitrijs2005/gophtodo/internal/server/identity"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// protected lists the methods that act on behalf of a user.
var protected = map[string]bool{
	api.MethodListTasks:   true,
	api.MethodCreateTask:  true,
	api.MethodUpdateTask:  true,
	api.MethodDeleteTask:  true,
	api.MethodExportTasks: true,
}

func (s *GRPCServer) authInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if !protected[info.FullMethod] {
		return handler(ctx, req)
	}

	var credential string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(s.credentialKey); len(values) > 0 {
			credential = values[0]
		}
	}

	userID, err := s.gate.Resolve(ctx, credential)
	if err != nil {
		s.logger.Debug(ctx, "rejected call", "method", info.FullMethod, "error", err.Error())
		return nil, api.ToStatus(err)
	}

	return handler(identity.WithUserID(ctx, userID), req)
}

func (s *GRPCServer) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	s.logger.Info(ctx, "rpc",
		"method", info.FullMethod,
		"code", status.Code(err).String(),
		"duration", time.Since(start).String(),
	)
	return resp, err
}
