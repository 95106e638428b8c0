package main

import (
	"context"
	"errors"
	"flag"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"

	"github.com/haventide/wellspring/internal/api"
	"github.com/haventide/wellspring/internal/cli"
	"github.com/haventide/wellspring/internal/config"
	"github.com/haventide/wellspring/internal/db"
)

func main() {
	resetEmail := flag.String("reset-password", "", "reset the password for the given account email and exit")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg := config.LoadServer()

	if *resetEmail != "" {
		if err := cli.RunResetPasswordCommand(cfg.DBPath, *resetEmail); err != nil {
			logger.WithError(err).Fatal("password reset failed")
		}
		return
	}

	location := mustLoadLocation(cfg.Timezone, logger)
	time.Local = location

	secretKey, err := resolveSecretKey(cfg.SecretKey)
	if err != nil {
		logger.WithError(err).Fatal("refusing to start")
	}

	database, err := db.OpenSQLite(cfg.DBPath)
	if err != nil {
		logger.WithError(err).Fatal("database init failed")
	}

	handler := api.NewHandler(database, secretKey, location, logger)

	app := fiber.New(fiber.Config{
		AppName:               "Wellspring",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(compress.New())
	api.RegisterRoutes(app, handler)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			logger.WithError(err).Warn("server shutdown failed")
		}
	}()

	logger.WithFields(logrus.Fields{
		"port": cfg.Port,
		"db":   cfg.DBPath,
		"tz":   location.String(),
	}).Info("wellspring server listening")
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.WithError(err).Fatal("server exited")
	}
}

// resolveSecretKey rejects missing, placeholder and short signing keys.
func resolveSecretKey(raw string) (string, error) {
	secret := strings.TrimSpace(raw)
	if secret == "" {
		return "", errors.New("SECRET_KEY is required")
	}
	switch secret {
	case "change_me_in_production", "replace_with_at_least_32_random_characters":
		return "", errors.New("SECRET_KEY uses a placeholder value")
	}
	if len(secret) < 32 {
		return "", errors.New("SECRET_KEY must be at least 32 characters")
	}
	return secret, nil
}

func mustLoadLocation(name string, logger *logrus.Logger) *time.Location {
	location, err := time.LoadLocation(name)
	if err != nil {
		logger.WithField("tz", name).Warn("invalid TZ, falling back to UTC")
		return time.UTC
	}
	return location
}
