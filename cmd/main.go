package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "heating_controller/docs"
	"heating_controller/internal/config"
	"heating_controller/internal/handlers"
	"heating_controller/internal/logger"
	"heating_controller/internal/mqtt"
	"heating_controller/internal/repository"
	"heating_controller/internal/repository/db"
	"heating_controller/internal/server"
	"heating_controller/internal/service"
)

const configDir = "configs"

// @title                       Heating Controller API
// @version                     1.0
// @description                 Weekly heating schedules, manual holds and the resolved target temperature.
// @host                        localhost:8080
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load(configDir)
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}

	// init logger
	log := logger.Configure(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})

	// open DB
	sqlDB, err := openDB(cfg, log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	publisher := openPublisher(cfg, log)
	defer func() { _ = publisher.Close() }()

	// wire dependencies
	repos := repository.NewRepository(sqlDB)
	services := service.NewService(repos, service.Deps{
		Publisher: publisher,
		Log:       log,
		Defaults:  cfg.Settings(),
		Auth: service.AuthConfig{
			SigningKey: cfg.Auth.SigningKey,
			TokenTTL:   cfg.Auth.TokenTTL,
		},
	})
	apiHandler := handlers.NewHandler(services, log)

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go services.Controller.Run(ctx, cfg.Controller.Tick)
	log.Infow("controller_started", "tick", cfg.Controller.Tick)

	srv := &server.Server{}
	runHTTPServer(srv, cfg.Port, apiHandler, log)

	waitForShutdown(cancel, srv, log)
}

func openDB(cfg *config.Config, log *logger.Logger) (*sql.DB, error) {
	log.Infow("opening database", "path", cfg.DB.Path)
	return db.InitDB(cfg.DB.Path)
}

// openPublisher connects to the broker when one is configured. A broker that
// cannot be reached disables publishing rather than the whole controller.
func openPublisher(cfg *config.Config, log *logger.Logger) mqtt.Publisher {
	if cfg.MQTT.Broker == "" {
		log.Infow("mqtt disabled; no broker configured")
		return mqtt.NopPublisher{}
	}
	p, err := mqtt.NewRealPublisher(cfg.MQTT.Broker, cfg.MQTT.ClientID, cfg.MQTT.Topic)
	if err != nil {
		log.Errorw("mqtt connect failed; publishing disabled", "broker", cfg.MQTT.Broker, "err", err)
		return mqtt.NopPublisher{}
	}
	log.Infow("mqtt connected", "broker", cfg.MQTT.Broker, "topic", cfg.MQTT.Topic)
	return p
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop background goroutines
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
