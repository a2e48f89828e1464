package main

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/cribwatch/relay/internal/config"
	"github.com/cribwatch/relay/internal/metrics"
	"github.com/cribwatch/relay/internal/signalling"
	"github.com/gofiber/fiber/v2"
	"github.com/lmittmann/tint"
)

func main() {
	level := slog.LevelInfo
	if os.Getenv("RELAY_DEBUG") != "" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
	})))

	configDir := os.Getenv("RELAY_CONF_DIR")
	if configDir == "" {
		configDir = "conf"
	}

	manager, err := config.NewManager(configDir)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024,
	})

	server := signalling.NewServer(manager, app)
	defer server.Close()
	server.SetupRoutes()

	metrics.StartTime.Set(float64(time.Now().Unix()))

	conf := manager.Get()
	port := conf.Server.Port
	// Hosting platforms commonly inject PORT.
	if env := os.Getenv("PORT"); env != "" {
		if p, err := strconv.Atoi(env); err == nil {
			port = p
		}
	}

	addr := ":" + strconv.Itoa(port)
	if conf.Security.TLSCrtFile != nil && conf.Security.TLSKeyFile != nil {
		slog.Info("starting TLS server", "addr", addr)
		if err := app.ListenTLS(addr, *conf.Security.TLSCrtFile, *conf.Security.TLSKeyFile); err != nil {
			slog.Error("server stopped", "error", err)
			os.Exit(1)
		}
		return
	}

	slog.Info("starting server", "addr", addr)
	if err := app.Listen(addr); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
