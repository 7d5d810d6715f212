// Package grpc serves todo.v1.TodoService and the standard health service.
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/gophtodo/internal/api"
	"github.com/dmitrijs2005/gophtodo/internal/logging"
	"github.com/dmitrijs2005/gophtodo/internal/server/identity"
	"github.com/dmitrijs2005/gophtodo/internal/server/models"
	"github.com/dmitrijs2005/gophtodo/internal/server/services"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type userSvc interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
}

type taskSvc interface {
	Create(ctx context.Context, owner, text string, deadline *time.Time) (*models.Task, error)
	List(ctx context.Context, owner string) ([]*models.Task, error)
	Update(ctx context.Context, owner, id string, upd models.TaskUpdate) (*models.Task, error)
	Delete(ctx context.Context, owner, id string) error
}

type exportSvc interface {
	Export(ctx context.Context, owner string) (*services.Export, error)
}

type GRPCServer struct {
	api.UnimplementedTodoServiceServer
	address       string
	users         userSvc
	tasks         taskSvc
	exports       exportSvc
	gate          *identity.Gate
	credentialKey string
	logger        logging.Logger
}

// NewGRPCServer builds a server listening on address. Task calls must carry
// a credential under the metadata key credentialKey, which gate resolves to
// the caller's user id.
func NewGRPCServer(address string, l logging.Logger, us userSvc, ts taskSvc, es exportSvc,
	gate *identity.Gate, credentialKey string) *GRPCServer {
	return &GRPCServer{
		address:       address,
		logger:        l.With("module", "grpc_server"),
		users:         us,
		tasks:         ts,
		exports:       es,
		gate:          gate,
		credentialKey: credentialKey,
	}
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is done, then stops gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.authInterceptor))

	api.RegisterTodoServiceServer(srv, s)

	hs := health.NewServer()
	hs.SetServingStatus(api.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, hs)

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		hs.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}
	<-stopped
	return nil
}
