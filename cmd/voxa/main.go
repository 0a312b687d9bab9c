package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	cli "github.com/spf13/pflag"

	"github.com/lmittmann/tint"
	log "log/slog"

	"voxa/internal/config"
)

var logLevelMap = map[string]log.Level{
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

func main() {
	os.Exit(run())
}

func run() int {
	envFile := cli.StringP("env", "e", ".env", "Env file path")
	cfgFile := cli.StringP("config", "c", "", "Config file path (default ./voxa.yaml when present)")
	logLevel := cli.StringP("log", "l", "info", "Log level")
	metricsAddr := cli.StringP("metrics", "m", "", "Serve Prometheus metrics on this address")
	cli.Parse()

	log.SetDefault(log.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level: logLevelMap[*logLevel],
	})))

	log.Info("Booting up")

	if err := godotenv.Load(*envFile); err != nil {
		log.Debug("No env file loaded", "path", *envFile, "err", err)
	}

	cfg, err := config.Load(*cfgFile)
	if err != nil {
		log.Error("Failed to load config", "err", err)
		return 1
	}
	if *metricsAddr != "" {
		cfg.Metrics.Addr = *metricsAddr
	}

	log.Debug("Loaded config",
		"listen", cfg.Listen.Backend,
		"stt", cfg.STT.Backend,
		"tts", cfg.TTS.Backend,
		"messaging", cfg.Messaging.Transport,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := build(ctx, cfg)
	if err != nil {
		log.Error("Boot up failed", "err", err)
		return 1
	}
	defer a.close()

	log.Info("Boot up - successful")

	if err := a.session.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			log.Info("Interrupted")
			return 0
		}
		log.Error("Session ended", "err", err)
		return 1
	}

	log.Info("Goodbye")
	return 0
}
