// Package httpapi serves the JSON REST surface under /api with echo. It uses
// the same services and identity gate as the gRPC transport.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophtodo/internal/logging"
	"github.com/dmitrijs2005/gophtodo/internal/server/identity"
	"github.com/dmitrijs2005/gophtodo/internal/server/models"
	"github.com/dmitrijs2005/gophtodo/internal/server/services"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const shutdownTimeout = 5 * time.Second

type userSvc interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*services.TokenPair, error)
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

type Server struct {
	address    string
	e          *echo.Echo
	logger     logging.Logger
	users      userSvc
	tasks      taskSvc
	exports    exportSvc
	gate       *identity.Gate
	credential CredentialFunc
}

// NewServer wires the routes. credential extracts the caller's credential
// from a request; gate turns it into a user id.
func NewServer(address string, l logging.Logger, us userSvc, ts taskSvc, es exportSvc,
	gate *identity.Gate, credential CredentialFunc) *Server {
	s := &Server{
		address:    address,
		e:          echo.New(),
		logger:     l.With("module", "http_server"),
		users:      us,
		tasks:      ts,
		exports:    es,
		gate:       gate,
		credential: credential,
	}

	s.e.HideBanner = true
	s.e.HidePort = true
	s.e.HTTPErrorHandler = s.handleError
	s.e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURIPath:  true,
		LogStatus:   true,
		LogLatency:  true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			s.logger.Info(c.Request().Context(), "request",
				"method", v.Method,
				"path", v.URIPath,
				"status", v.Status,
				"latency", v.Latency.String(),
			)
			return nil
		},
	}))
	s.e.Use(middleware.Recover())

	s.routes()
	return s
}

func (s *Server) routes() {
	s.e.GET("/api/ping", s.ping)

	s.e.POST("/api/register", s.register)
	s.e.POST("/api/login", s.login)

	s.e.GET("/api/todos", s.listTodos, s.requireUser)
	s.e.POST("/api/todos", s.createTodo, s.requireUser)
	s.e.PUT("/api/todos", s.updateTodo, s.requireUser)
	s.e.DELETE("/api/todos", s.deleteTodo, s.requireUser)
	s.e.POST("/api/todos/export", s.exportTodos, s.requireUser)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.e
}

// Run serves until ctx is done and then shuts down, waiting up to
// shutdownTimeout for in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", s.address)
		if err := s.e.Start(s.address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.e.Shutdown(shutdownCtx)
}
