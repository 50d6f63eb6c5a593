package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront-backend/internal/config"
	"storefront-backend/pkg/container"
)

const shutdownGrace = 15 * time.Second

// Serve build container, chạy HTTP server và chờ signal để shutdown
func Serve() {
	app, err := container.NewContainer()
	if err != nil {
		log.Fatalf("❌ Container init failed: %v", err)
	}
	defer app.Cleanup()

	// Pool monitor dừng cùng server
	monitorCtx, stopMonitor := context.WithCancel(context.Background())
	defer stopMonitor()
	go app.DB.MonitorPoolHealth(monitorCtx, 30*time.Second)

	srv := newHTTPServer(app.Config.App, SetupRouter(app))

	errCh := make(chan error, 1)
	go func() {
		log.Printf("🛍️  %s v%s listening on %s (%s)",
			app.Config.App.Name, app.Config.App.Version, srv.Addr, app.Config.App.Environment)
		errCh <- srv.ListenAndServe()
	}()

	if err := waitForShutdown(srv, errCh); err != nil {
		log.Printf("⚠️  %v", err)
		return
	}
	log.Println("👋 API stopped")
}

func newHTTPServer(cfg config.AppConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           handler,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
}

// waitForShutdown block tới khi nhận SIGINT/SIGTERM hoặc server lỗi khi start
func waitForShutdown(srv *http.Server, errCh <-chan error) error {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sig)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case s := <-sig:
		log.Printf("🛑 Received %s, draining connections...", s)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	return srv.Shutdown(ctx)
}
