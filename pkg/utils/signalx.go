package utils

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const shutdownTimeout = 5 * time.Second

// WatchSignal blocks until SIGTERM/SIGINT arrives or ctx is done.
func WatchSignal(ctx context.Context) {
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(signalCh)

	select {
	case s := <-signalCh:
		logger.Infof("received signal %s", s)
	case <-ctx.Done():
	}
}

// ListenAndServe serves h on port until a signal arrives or ctx is done,
// then shuts the server down gracefully. onShutdown hooks run when the
// shutdown starts, long-lived handlers use them to return. A listen
// failure is returned.
func ListenAndServe(ctx context.Context, h http.Handler, port int, onShutdown ...func()) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: h,
	}
	for _, f := range onShutdown {
		srv.RegisterOnShutdown(f)
	}

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var listenErr error
	served := make(chan struct{})
	go func() {
		defer close(served)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr = fmt.Errorf("listen: %w", err)
			cancel()
		}
	}()

	WatchSignal(watchCtx)

	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("server shutdown: %s", err)
	}
	<-served
	logger.Info("server shutdown")

	return listenErr
}
