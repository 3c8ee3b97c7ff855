// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package httpserver adapts a [http.Server] to the bedrock application
// lifecycle. [App.Run] serves an already bound [net.Listener] until its
// context is cancelled, then drains in-flight requests before returning.
package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"

	"golang.org/x/sync/errgroup"
)

// AppOptions holds configuration for an [App].
type AppOptions struct {
	errorLogHandler slog.Handler
}

// AppOption configures an [App] created with [NewApp].
type AppOption interface {
	ApplyAppOption(*AppOptions)
}

type appOptionFunc func(*AppOptions)

func (f appOptionFunc) ApplyAppOption(ao *AppOptions) {
	f(ao)
}

// ErrorLog configures the [slog.Handler] backing [http.Server.ErrorLog],
// which reports accept failures, TLS handshake errors and the like.
// Without it those records are discarded.
func ErrorLog(h slog.Handler) AppOption {
	return appOptionFunc(func(ao *AppOptions) {
		ao.errorLogHandler = h
	})
}

// App implements the [bedrock.App] interface around a [http.Server].
type App struct {
	ls     net.Listener
	server *http.Server
}

// NewApp initializes an [App] which serves h on the given listener.
// The listener is expected to already be bound, so port conflicts
// surface during configuration rather than mid-run.
func NewApp(ls net.Listener, h http.Handler, opts ...AppOption) *App {
	ao := &AppOptions{
		errorLogHandler: slog.DiscardHandler,
	}
	for _, opt := range opts {
		opt.ApplyAppOption(ao)
	}

	return &App{
		ls: ls,
		server: &http.Server{
			Handler:  h,
			ErrorLog: slog.NewLogLogger(ao.errorLogHandler, slog.LevelError),
		},
	}
}

// Run implements the [bedrock.App] interface. Cancelling ctx begins a
// graceful shutdown; Run returns once every in-flight request has been
// served. [http.ErrServerClosed] is the expected way for Serve to stop
// and is not reported as a failure.
func (a *App) Run(ctx context.Context) error {
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return a.server.Serve(a.ls)
	})
	eg.Go(func() error {
		<-egCtx.Done()

		// Shutdown gets a fresh context so draining is not cut short
		// by the very cancellation which requested it.
		return a.server.Shutdown(context.Background())
	})

	err := eg.Wait()
	if err == nil || errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
