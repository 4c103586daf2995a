package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dukerupert/tidyhouse/internal/cache"
	"github.com/dukerupert/tidyhouse/internal/reminder"
	"github.com/dukerupert/tidyhouse/internal/server"
)

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, websocket feed and daily reminders",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()
			return serve(cmd.Context(), a)
		},
	}
}

func serve(parent context.Context, a *app) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if a.cfg.Redis.URL != "" {
		rdb, err := cache.Connect(ctx, a.cfg.Redis.URL)
		if err != nil {
			a.logger.Warn("redis unavailable, caching disabled", "error", err)
		} else {
			defer rdb.Close()
			a.tracker.SetCache(cache.NewOwnerCache(rdb, a.cfg.Redis.TTL))
			a.logger.Info("redis cache enabled", "ttl", a.cfg.Redis.TTL)
		}
	}

	srv := server.New(a.tracker, server.Options{
		RateLimit:  a.cfg.RateLimit.Requests,
		RateWindow: a.cfg.RateLimit.Window,
	}, a.logger)

	cleanupStop := make(chan struct{})
	defer close(cleanupStop)
	srv.StartCleanup(cleanupStop)

	if a.cfg.Reminder.Enabled {
		sched := reminder.NewScheduler(a.tracker, srv.Hub(), a.tracker.Now, a.tracker.Location(), a.logger)
		if _, err := sched.ScheduleDaily(a.cfg.Reminder.Time); err != nil {
			return fmt.Errorf("schedule reminders: %w", err)
		}
		sched.Start()
		defer sched.Stop()
		a.logger.Info("daily reminders scheduled", "time", a.cfg.Reminder.Time, "timezone", a.tracker.Location().String())
	}

	httpServer := &http.Server{
		Addr:         ":" + a.cfg.Port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("tidyhouse listening", "addr", "http://localhost:"+a.cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
