package service

import (
	"context"
	"errors"
	"fmt"
	stdlog "log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dentalrcm/app/config"
	"dentalrcm/app/repositories"
	"dentalrcm/app/routes"

	"github.com/sirupsen/logrus"
)

// openStore applies pending migrations when cfg asks for it and opens the
// storage backend named by cfg.DatabaseURL.
func openStore(cfg config.Config, log logrus.FieldLogger) (repositories.Storage, error) {
	if cfg.AutoMigrate {
		m, err := repositories.NewMigrator(cfg.DatabaseURL, log)
		switch {
		case errors.Is(err, repositories.ErrNoSchema):
		case err != nil:
			return nil, err
		default:
			if err := m.Up(); err != nil {
				return nil, err
			}
		}
	}
	return repositories.Open(cfg.DatabaseURL, log)
}

// RunAppServer serves the API until SIGINT or SIGTERM, then drains in-flight
// requests for at most cfg.ShutdownTimeout.
func RunAppServer(cfg config.Config, log *logrus.Logger) error {
	store, err := openStore(cfg, log)
	if err != nil {
		return err
	}
	defer store.Close()

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.Addr, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	router := routes.SetupRoutes(store, log)
	return runServer(ctx, ln, router, cfg.ShutdownTimeout, log)
}

func runServer(ctx context.Context, ln net.Listener, handler http.Handler, shutdownTimeout time.Duration, log *logrus.Logger) error {
	errorLog := log.WriterLevel(logrus.WarnLevel)
	defer errorLog.Close()

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          stdlog.New(errorLog, "", 0),
	}

	errc := make(chan error, 1)
	go func() {
		log.WithField("addr", ln.Addr().String()).Info("listening")
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	log.Info("server stopped")
	return nil
}
