// Package app wires configuration, logging, the hub and the HTTP surface
// into a runnable server process.
package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	server "lane-dash/server"
	servernet "lane-dash/server/internal/net"
	"lane-dash/server/internal/telemetry"
	"lane-dash/server/logging"
	loggingSinks "lane-dash/server/logging/sinks"
)

// Config carries the process-level dependencies main cannot default.
type Config struct {
	Logger telemetry.Logger
}

// Run starts the simulation loop and serves HTTP until ListenAndServe fails.
// Environment variables override the shipped defaults; a .env file in the
// working directory is loaded first when present.
func Run(ctx context.Context, cfg Config) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("skipping .env: %v", err)
	}

	telemetryLogger := cfg.Logger
	if telemetryLogger == nil {
		telemetryLogger = telemetry.WrapLogger(log.Default())
	}

	logConfig := logging.DefaultConfig()
	if raw := os.Getenv("LOG_SINKS"); raw != "" {
		logConfig.EnabledSinks = splitList(raw)
	}
	if path := os.Getenv("LOG_JSON_PATH"); path != "" {
		logConfig.JSONPath = path
		if !logConfig.HasSink("json") {
			logConfig.EnabledSinks = append(logConfig.EnabledSinks, "json")
		}
	}

	namedSinks := []logging.NamedSink{
		{Name: "console", Sink: loggingSinks.NewConsole(os.Stdout)},
	}
	if logConfig.HasSink("json") {
		path := logConfig.JSONPath
		if path == "" {
			path = "lane-dash.ndjson"
		}
		jsonSink, err := loggingSinks.NewJSONFile(path)
		if err != nil {
			return fmt.Errorf("failed to open json log %s: %w", path, err)
		}
		namedSinks = append(namedSinks, logging.NamedSink{Name: "json", Sink: jsonSink})
	}

	router := logging.NewRouter(logging.SystemClock{}, logConfig, namedSinks)
	defer func() {
		if cerr := router.Close(ctx); cerr != nil {
			telemetryLogger.Printf("failed to close logging router: %v", cerr)
		}
	}()

	hubCfg := server.DefaultHubConfig()
	hubCfg.Logger = telemetryLogger
	if raw := os.Getenv("TICK_RATE"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			hubCfg.TickRate = value
		} else {
			telemetryLogger.Printf("invalid TICK_RATE=%q: %v", raw, err)
		}
	}
	if raw := os.Getenv("SIM_SEED"); raw != "" {
		if value, err := strconv.ParseInt(raw, 10, 64); err == nil {
			hubCfg.Sim.Seed = value
		} else {
			telemetryLogger.Printf("invalid SIM_SEED=%q: %v", raw, err)
		}
	}

	hub := server.NewHubWithConfig(hubCfg, router)
	stop := make(chan struct{})
	go hub.RunSimulation(stop)
	defer close(stop)

	clientDir := os.Getenv("CLIENT_DIR")
	if clientDir == "" {
		clientDir = "client"
	}
	handler := servernet.NewHTTPHandler(hub, servernet.HTTPHandlerConfig{
		ClientDir:   clientDir,
		Logger:      telemetryLogger,
		RouterStats: router.Stats,
	})

	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = ":8080"
	}
	srv := &http.Server{Addr: addr, Handler: handler}
	telemetryLogger.Printf("server listening on %s (tick rate %d)", srv.Addr, hub.TickRate())

	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
