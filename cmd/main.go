package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"phoneauth/internal/config"
	"phoneauth/internal/handlers"
	"phoneauth/internal/logger"
	"phoneauth/internal/repository"
	"phoneauth/internal/repository/db"
	"phoneauth/internal/server"
	"phoneauth/internal/service"
)

const dbConnectTimeout = 15 * time.Second

// @title       phoneauth API
// @version     1.0
// @description Item catalog and phone-number registration/login.
// @BasePath    /
// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Get(logger.InfoLevel, logger.ConsoleFormat).Fatalw("error reading config", "err", err)
	}

	log := logger.Get(cfg.Log.Level, cfg.Log.Format)
	defer func() { _ = log.Sync() }()

	conn, err := openDB(cfg.Storage, log)
	if err != nil {
		log.Fatalw("failed to open storage", "driver", cfg.Storage.Driver, "err", err)
	}
	if conn != nil {
		defer func() {
			if cerr := conn.Close(); cerr != nil {
				log.Errorw("failed to close storage", "err", cerr)
			}
		}()
	}

	tokens, err := service.NewTokenIssuer(cfg.Auth)
	if err != nil {
		log.Fatalw("failed to init token issuer", "err", err)
	}
	if cfg.Auth.TokenMode == config.TokenModeDemo {
		log.Warnw("demo tokens are unsigned and forgeable; do not use outside development")
	}

	// wire dependencies
	repos, err := repository.NewRepository(cfg.Storage.Driver, conn)
	if err != nil {
		log.Fatalw("failed to init repository", "err", err)
	}
	services := service.NewService(repos, service.NewBcryptHasher(cfg.Auth.BcryptCost), tokens)
	apiHandler := handlers.NewHandler(services, log, handlers.Options{
		AdminSecret:    cfg.Admin.Secret,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})

	srv := server.New(cfg.Server.Port, apiHandler.InitRoutes())
	runHTTPServer(srv, log)

	waitForShutdown(srv, cfg.Server.ShutdownTimeout, log)
}

// openDB connects to the relational backend. It returns a nil *sql.DB for
// the memory driver.
func openDB(cfg config.StorageConfig, log *logger.Logger) (*sql.DB, error) {
	if cfg.Driver == config.DriverMemory {
		log.Warnw("using in-memory user store; registrations are lost on restart")
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), dbConnectTimeout)
	defer cancel()

	conn, err := db.Open(ctx, cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, err
	}
	log.Infow("storage ready", "driver", cfg.Driver)
	return conn, nil
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, log *logger.Logger) {
	go func() {
		log.Infow("http server listening", "addr", srv.Addr())
		if err := srv.Run(); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(srv *server.Server, timeout time.Duration, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// allow in-flight requests to complete
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
