package main

import (
	"context"
	"flag"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/haventide/wellspring/internal/cli"
	"github.com/haventide/wellspring/internal/config"
	"github.com/haventide/wellspring/internal/db"
	"github.com/haventide/wellspring/internal/models"
	"github.com/haventide/wellspring/internal/remote"
	"github.com/haventide/wellspring/internal/security"
	"github.com/haventide/wellspring/internal/services"
	"github.com/haventide/wellspring/internal/sync"
)

func main() {
	loginFlag := flag.Bool("login", false, "log in to the server and store the session")
	registerFlag := flag.Bool("register", false, "create an account, then log in")
	onceFlag := flag.Bool("once", false, "run a single sync cycle and exit")
	statusFlag := flag.Bool("status", false, "print session and streak state and exit")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg := config.LoadAgent()
	location := mustLoadLocation(cfg.Timezone, logger)

	database, err := db.OpenSQLite(cfg.DBPath)
	if err != nil {
		logger.WithError(err).Fatal("database init failed")
	}
	repositories := db.NewRepositories(database)

	deviceID, err := ensureDeviceID(repositories.Settings)
	if err != nil {
		logger.WithError(err).Fatal("device id init failed")
	}

	client := remote.NewClient(cfg.ServerURL)

	if *loginFlag || *registerFlag {
		if err := cli.RunLoginCommand(repositories.Settings, client, *registerFlag); err != nil {
			logger.WithError(err).Fatal("login failed")
		}
		return
	}

	token, userID, email, loggedIn, err := loadSession(repositories.Settings)
	if err != nil {
		logger.WithError(err).Fatal("load session failed")
	}
	if !loggedIn {
		logger.Fatal("not logged in, run: wellspring -login")
	}
	client.SetToken(token)

	if *statusFlag {
		printStatus(repositories, deviceID, userID, email, cfg)
		return
	}

	features := services.NewFeatures(repositories, client, location, logger)
	drainer := sync.NewDrainer(repositories.Outbox, client, logger)
	engine := sync.NewEngine(features, drainer, userID, cfg.SyncInterval, logger)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	if *onceFlag {
		engine.RunOnce(sigCtx)
		return
	}

	drainer.Start(sigCtx)
	engine.Start(sigCtx)

	logger.WithFields(logrus.Fields{
		"server":   cfg.ServerURL,
		"db":       cfg.DBPath,
		"device":   deviceID,
		"interval": cfg.SyncInterval.String(),
	}).Info("wellspring agent running")

	<-sigCtx.Done()
	logger.Info("wellspring agent stopped")
}

func ensureDeviceID(settings *db.SettingsRepository) (string, error) {
	deviceID, found, err := settings.Get(models.SettingDeviceID)
	if err != nil {
		return "", err
	}
	if found {
		return deviceID, nil
	}

	deviceID, err = security.NewDeviceID()
	if err != nil {
		return "", err
	}
	if err := settings.Set(models.SettingDeviceID, deviceID); err != nil {
		return "", err
	}
	return deviceID, nil
}

func loadSession(settings *db.SettingsRepository) (token string, userID string, email string, loggedIn bool, err error) {
	token, hasToken, err := settings.Get(models.SettingAPIToken)
	if err != nil {
		return "", "", "", false, err
	}
	userID, hasUser, err := settings.Get(models.SettingUserID)
	if err != nil {
		return "", "", "", false, err
	}
	email, _, err = settings.Get(models.SettingUserEmail)
	if err != nil {
		return "", "", "", false, err
	}
	return token, userID, email, hasToken && hasUser, nil
}

func printStatus(repositories *db.Repositories, deviceID string, userID string, email string, cfg config.Agent) {
	fmt.Printf("Device:  %s\n", deviceID)
	fmt.Printf("Account: %s (%s)\n", email, userID)
	fmt.Printf("Server:  %s\n", cfg.ServerURL)

	streak, found, err := repositories.Streaks.FindByUser(userID)
	switch {
	case err != nil:
		fmt.Printf("Streak:  unavailable (%v)\n", err)
	case !found:
		fmt.Println("Streak:  no activity recorded yet")
	default:
		fmt.Printf("Streak:  %d day(s), longest %d, last activity %s\n",
			streak.Count, streak.LongestCount, streak.UpdatedAt.Format("2006-01-02 15:04"))
	}

	pending, err := repositories.Outbox.CountPending(userID)
	if err != nil {
		fmt.Printf("Outbox:  unavailable (%v)\n", err)
	} else {
		fmt.Printf("Outbox:  %d pending write(s)\n", pending)
	}

	collections := []struct {
		label string
		count func(string) (int64, error)
	}{
		{"notes", repositories.Notes.CountByUser},
		{"prayers", repositories.Prayers.CountByUser},
		{"meals", repositories.Meals.CountByUser},
		{"journals", repositories.Journals.CountByUser},
		{"plans", repositories.Plans.CountByUser},
		{"shares", repositories.Shares.CountByUser},
		{"comments", repositories.Comments.CountByUser},
		{"runs", repositories.Runs.CountByUser},
		{"workouts", repositories.Workouts.CountByUser},
	}

	fmt.Println("Records:")
	for _, entry := range collections {
		total, err := entry.count(userID)
		if err != nil {
			fmt.Printf("  %-9s unavailable (%v)\n", entry.label, err)
			continue
		}
		fmt.Printf("  %-9s %d\n", entry.label, total)
	}
}

func mustLoadLocation(name string, logger *logrus.Logger) *time.Location {
	location, err := time.LoadLocation(name)
	if err != nil {
		logger.WithField("tz", name).Warn("invalid TZ, falling back to UTC")
		return time.UTC
	}
	return location
}
