package cli

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/kagemusha/pkg/adapters/logsink"
	"github.com/m-mizutani/kagemusha/pkg/cli/config"
	server "github.com/m-mizutani/kagemusha/pkg/controller/http"
	"github.com/m-mizutani/kagemusha/pkg/service/llm"
	"github.com/m-mizutani/kagemusha/pkg/service/registry"
	"github.com/m-mizutani/kagemusha/pkg/service/router"
	"github.com/m-mizutani/kagemusha/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var (
		addr     string
		seedPath string
		llmCfg   config.LLM
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Aliases:     []string{"a"},
			Sources:     cli.EnvVars("KAGEMUSHA_ADDR"),
			Usage:       "Listen address (default: 127.0.0.1:8080)",
			Value:       "127.0.0.1:8080",
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "seed",
			Sources:     cli.EnvVars("KAGEMUSHA_SEED"),
			Usage:       "Path to a YAML file with initial versions, routing config and pins",
			Destination: &seedPath,
		},
	}
	flags = append(flags, llmCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Run server",
		Flags:   flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			logger := ctxlog.From(ctx)
			logger.Info("starting server",
				"addr", addr,
				"seed", seedPath,
				"llm", llmCfg,
			)

			reg := registry.New()
			rt := router.New(reg)

			if seedPath != "" {
				seed, err := config.LoadSeed(seedPath)
				if err != nil {
					return err
				}
				if err := seed.Apply(ctx, reg, rt); err != nil {
					return goerr.Wrap(err, "failed to apply seed",
						goerr.V("path", seedPath),
					)
				}
				logger.Info("seed applied",
					"versions", len(seed.Versions),
					"tenants", len(seed.Tenants),
					"pins", len(seed.Pins),
				)
			}

			factory := llmCfg.BuildFactory()
			logger.Info("llm providers configured", "providers", factory.ReadyProviders())

			uc := usecase.New(
				usecase.WithRegistry(reg),
				usecase.WithRouter(rt),
				usecase.WithCompletionClient(llm.NewClient(factory)),
				usecase.WithRecordSink(logsink.New()),
			)

			httpServer := http.Server{
				Addr:              addr,
				Handler:           server.New(uc),
				ReadTimeout:       30 * time.Second,
				ReadHeaderTimeout: 10 * time.Second,
				BaseContext: func(l net.Listener) context.Context {
					return ctx
				},
			}

			errCh := make(chan error, 1)
			go func() {
				defer close(errCh)
				ctxlog.From(ctx).Info("server started", "addr", addr)
				if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- err
				}
			}()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case <-sigCh:
				ctxlog.From(ctx).Info("shutting down server...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return httpServer.Shutdown(shutdownCtx)
			}
		},
	}
}
