package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/jusunglee/ptv-mcp-go/api/handlers"
	"github.com/jusunglee/ptv-mcp-go/api/mcpserver"
	"github.com/jusunglee/ptv-mcp-go/internal/config"
	"github.com/jusunglee/ptv-mcp-go/internal/logging"
	"github.com/jusunglee/ptv-mcp-go/pkg/ptv"

	_ "time/tzdata"
)

var version = "dev"

func main() {
	logging.Setup(strings.ToUpper(os.Getenv(config.EnvLogFormat)), os.Getenv(config.EnvDebug) == "YES")

	app := &cli.App{
		Name:           "ptv-mcp",
		Usage:          "MCP server for Public Transport Victoria timetable data",
		Version:        version,
		DefaultCommand: "stdio",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "optional YAML config file; environment variables override it",
				EnvVars: []string{"PTV_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "stdio",
				Usage:  "serve MCP over stdin/stdout (for assistant subprocess use)",
				Action: runStdio,
			},
			{
				Name:  "http",
				Usage: "serve MCP over streamable HTTP at /mcp plus the JSON API",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "listen",
						Usage: "listen address, overrides " + config.EnvListen,
					},
				},
				Action: runHTTP,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Send()
	}
}

// setup loads configuration and creates the upstream client
// Missing credentials are fatal here, before any request is served
func setup(c *cli.Context) (config.AppConfig, *ptv.RemoteClient) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	logging.Setup(cfg.Log.Format, cfg.Log.Debug)

	client, err := ptv.NewRemote(cfg.Client())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create PTV client")
	}

	log.Info().
		Str("base_url", cfg.PTV.BaseURL).
		Str("api_version", cfg.PTV.APIVersion).
		Str("dev_id", cfg.PTV.DevID).
		Msg("PTV client ready")

	return cfg, client
}

func runStdio(c *cli.Context) error {
	_, client := setup(c)
	defer client.Close()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := mcpserver.NewServer(client, version).ServeStdio(ctx, os.Stdin, os.Stdout)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func runHTTP(c *cli.Context) error {
	cfg, client := setup(c)
	defer client.Close()

	listen := cfg.Server.Listen
	if c.IsSet("listen") {
		listen = c.String("listen")
	}

	r := mux.NewRouter()
	r.PathPrefix("/mcp").Handler(mcpserver.NewServer(client, version).HTTPHandler())
	handlers.NewHandler(client).RegisterRoutes(r)

	srv := &http.Server{
		Addr:              listen,
		Handler:           handlers.CORSMiddleware(handlers.LoggingMiddleware(r)),
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("listen", listen).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	log.Info().Msg("Server stopped")
	return nil
}
