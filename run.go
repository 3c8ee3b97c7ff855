// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package speccify

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"syscall"

	"github.com/z5labs/speccify/internal/httpserver"

	"github.com/z5labs/bedrock"
	"github.com/z5labs/bedrock/app"
	"github.com/z5labs/bedrock/appbuilder"
	"github.com/z5labs/bedrock/config"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

//go:embed default_config.yaml
var defaultConfig []byte

// ConfigSource standardizes the configuration template for speccify
// applications. The [io.Reader] is expected to be YAML with support for Go
// templating. Currently, only 2 template functions are supported:
//   - env - substitute an environment variable into the YAML
//   - default - define a default value in case the original value is nil
func ConfigSource(r io.Reader) config.Source {
	return config.FromYaml(
		config.RenderTextTemplate(
			r,
			config.TemplateFunc("env", func(key string) any {
				v, ok := os.LookupEnv(key)
				if ok {
					return v
				}
				return nil
			}),
			config.TemplateFunc("default", func(def, v any) any {
				if v == nil {
					return def
				}
				return v
			}),
		),
	)
}

// DefaultConfig returns the default config source which corresponds to
// the [Config] type.
func DefaultConfig() config.Source {
	return ConfigSource(bytes.NewReader(defaultConfig))
}

// Configer is leveraged to constrain the custom config type into
// supporting specific initialization behaviour required by [Run].
type Configer interface {
	Listener(context.Context) (net.Listener, error)
}

// Config is the default config which can be easily embedded into a
// more custom app specific config.
type Config struct {
	OpenApi struct {
		Title   string `config:"title"`
		Version string `config:"version"`
	} `config:"openapi"`

	HTTP struct {
		Port uint `config:"port"`
	} `config:"http"`
}

// Listener implements the [Configer] interface.
func (c Config) Listener(ctx context.Context) (net.Listener, error) {
	return net.Listen("tcp", fmt.Sprintf(":%d", c.HTTP.Port))
}

// Run begins by reading, parsing and unmarshaling your custom config into
// the type T. Then it calls the provided function to initialize your [Api]
// before serving it over HTTP. Panic recovery and OS signal based shutdown
// are applied for your convenience.
func Run[T Configer](r io.Reader, f func(context.Context, T) (*Api, error)) {
	builder := appbuilder.FromConfig(
		appbuilder.Recover(
			bedrock.AppBuilderFunc[T](func(ctx context.Context, cfg T) (bedrock.App, error) {
				api, err := f(ctx, cfg)
				if err != nil {
					return nil, err
				}

				ls, err := cfg.Listener(ctx)
				if err != nil {
					return nil, err
				}

				var base bedrock.App = httpserver.NewApp(
					ls,
					otelhttp.NewHandler(
						api,
						"speccify",
						otelhttp.WithMessageEvents(otelhttp.ReadEvents, otelhttp.WriteEvents),
					),
					httpserver.ErrorLog(LogHandler("speccify")),
				)
				base = app.Recover(base)
				base = app.InterruptOn(base, os.Kill, os.Interrupt, syscall.SIGTERM)
				return base, nil
			}),
		),
	)

	src := config.MultiSource(
		DefaultConfig(),
		ConfigSource(r),
	)

	ctx := context.Background()
	base, err := builder.Build(ctx, src)
	if err == nil {
		err = base.Run(ctx)
	}
	if err == nil {
		return
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{}))
	log.Error("failed to run speccify app", slog.String("error", err.Error()))
}
