package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"fleetbase/app/handler"
	"fleetbase/app/router"
	"fleetbase/internal/feed"
	"fleetbase/internal/service"
	"fleetbase/pkg/config"
	"fleetbase/pkg/logger"
	redistransport "fleetbase/pkg/transport/redis"
	"fleetbase/pkg/transport/ws"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

const tickChannel = "feed:ticks"

// Application manages the lifecycle of the worker process
type Application struct {
	// Infrastructure components
	config      *config.Config
	redisClient *redis.Client

	// Monitor transports
	heartbeatClient *ws.HeartbeatClient
	controlSub      *redistransport.ControlSubscription

	// Core service
	service *service.Service

	// Ops HTTP surface
	statusHandler *handler.StatusHandler
	httpServer    *http.Server
	ginEngine     *gin.Engine

	// Context management
	ctx    context.Context
	cancel context.CancelFunc
}

// NewApplication creates a new Application instance
func NewApplication() *Application {
	ctx, cancel := context.WithCancel(context.Background())
	return &Application{
		ctx:    ctx,
		cancel: cancel,
	}
}

// Initialize initializes all components in dependency order
func (app *Application) Initialize() error {
	// 1. Configuration
	if err := config.Init(); err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}
	app.config = config.GlobalConfig

	// 2. Logger
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	// 3. Redis (control subscription and the feed body's publish channel)
	redisClient, err := redistransport.NewClient(app.config)
	if err != nil {
		return err
	}
	app.redisClient = redisClient
	app.controlSub = redistransport.Subscribe(redisClient, app.config.Monitor.ControlChannel)

	// 4. Heartbeat channel to the monitor
	heartbeatClient, err := ws.Dial(app.config.Monitor.HeartbeatURL)
	if err != nil {
		return err
	}
	app.heartbeatClient = heartbeatClient

	// 5. Core service with its worker body
	body := feed.New(redisClient, tickChannel, "BTCUSDT")
	app.service = service.New(app.config.Service.SID, body, heartbeatClient, app.controlSub)

	// 6. Ops HTTP surface
	if app.config.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	app.statusHandler = handler.NewStatusHandler(app.service)
	app.ginEngine = gin.New()
	router.NewRouter(app.statusHandler).Setup(app.ginEngine)
	app.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", app.config.Server.Port),
		Handler: app.ginEngine,
	}

	logger.Infof("worker %s initialized", app.service.SID())
	return nil
}

// Start launches the service loops and the ops HTTP server
func (app *Application) Start() error {
	hostname, _ := os.Hostname()
	infos := map[string]interface{}{
		"host": hostname,
		"pid":  os.Getpid(),
	}

	app.service.Serve(app.ctx, infos)

	go func() {
		if err := app.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Errorf("ops http server terminated: %v", err)
		}
	}()

	logger.Infof("worker %s started, ops surface on :%d", app.service.SID(), app.config.Server.Port)
	return nil
}

// Shutdown stops all components, waiting up to timeout
func (app *Application) Shutdown(timeout time.Duration) error {
	app.cancel()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := app.httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("failed to shut down ops http server: %v", err)
	}

	// Closing the transports unblocks any loop still parked on I/O
	if err := app.heartbeatClient.Close(); err != nil {
		logger.Errorf("failed to close heartbeat channel: %v", err)
	}
	if err := app.controlSub.Close(); err != nil {
		logger.Errorf("failed to close control subscription: %v", err)
	}

	done := make(chan struct{})
	go func() {
		app.service.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-shutdownCtx.Done():
		return fmt.Errorf("service loops did not exit within %v", timeout)
	}

	if err := app.redisClient.Close(); err != nil {
		return fmt.Errorf("failed to close redis client: %w", err)
	}

	_ = logger.Sync()
	return nil
}
