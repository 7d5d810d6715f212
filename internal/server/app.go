// Package server assembles the to-do server: configuration, the Postgres
// pool and migrations, services, and the gRPC and HTTP endpoints. Run blocks
// until a termination signal arrives or an endpoint fails.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/gophtodo/internal/common"
	"github.com/dmitrijs2005/gophtodo/internal/logging"
	"github.com/dmitrijs2005/gophtodo/internal/server/config"
	"github.com/dmitrijs2005/gophtodo/internal/server/httpapi"
	"github.com/dmitrijs2005/gophtodo/internal/server/identity"
	"github.com/dmitrijs2005/gophtodo/internal/server/objectstore"
	"github.com/dmitrijs2005/gophtodo/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophtodo/internal/server/services"

	gs "github.com/dmitrijs2005/gophtodo/internal/server/grpc"
)

type runner interface {
	Run(ctx context.Context) error
}

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	servers map[string]runner
}

// identitySetup selects how callers are identified on each transport.
type identitySetup struct {
	gate       *identity.Gate
	grpcKey    string
	credential httpapi.CredentialFunc
}

func newIdentitySetup(c *config.Config) (identitySetup, error) {
	switch c.IdentityMode {
	case config.IdentityJWT:
		return identitySetup{
			gate:       identity.NewGate(identity.NewJWTVerifier([]byte(c.SecretKey))),
			grpcKey:    common.AccessTokenHeaderName,
			credential: httpapi.BearerToken,
		}, nil
	case config.IdentityPresence:
		return identitySetup{
			gate:       identity.NewGate(identity.PresenceVerifier{}),
			grpcKey:    common.UserIDHeaderName,
			credential: httpapi.PresenceID,
		}, nil
	default:
		return identitySetup{}, fmt.Errorf("unknown identity mode %q", c.IdentityMode)
	}
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	ids, err := newIdentitySetup(c)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	store, err := objectstore.NewS3Store(ctx, objectstore.Options{
		User:     c.S3RootUser,
		Password: c.S3RootPassword,
		Bucket:   c.S3Bucket,
		Region:   c.S3Region,
		Endpoint: c.S3BaseEndpoint,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("object store init error: %w", err)
	}

	us := services.NewUserService(db, rm, c)
	ts := services.NewTaskService(db, rm)
	es := services.NewExportService(ts, store, c.ExportURLValidityDuration)

	if c.IdentityMode == config.IdentityPresence {
		logger.Warn(ctx, "identity mode is presence: callers are trusted without proof")
	}

	return &App{
		config: c,
		logger: logger,
		db:     db,
		servers: map[string]runner{
			"grpc": gs.NewGRPCServer(c.EndpointAddrGRPC, logger, us, ts, es, ids.gate, ids.grpcKey),
			"http": httpapi.NewServer(c.EndpointAddrHTTP, logger, us, ts, es, ids.gate, ids.credential),
		},
	}, nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case sig := <-sigs:
			app.logger.Info(ctx, "Received signal", "signal", sig.String())
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

// Run starts every endpoint and waits for all of them to stop. A failing
// endpoint stops the others.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(ctx, cancelFunc)

	var wg sync.WaitGroup
	for name, s := range app.servers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.Run(ctx); err != nil {
				app.logger.Error(ctx, "server failed", "server", name, "error", err.Error())
				cancelFunc()
			}
		}()
	}

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err.Error())
	}
	app.logger.Info(ctx, "App stopped")
}
