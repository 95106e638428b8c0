package api

import (
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/haventide/wellspring/internal/db"
)

const (
	authTokenTTL   = 30 * 24 * time.Hour
	contextUserKey = "current_user_id"

	loginAttemptsLimit  = 8
	loginAttemptsWindow = 15 * time.Minute
)

type Handler struct {
	repositories *db.Repositories
	secretKey    []byte
	location     *time.Location
	logger       *logrus.Logger
	loginLimiter *attemptLimiter
}

func NewHandler(database *gorm.DB, secretKey string, location *time.Location, logger *logrus.Logger) *Handler {
	if location == nil {
		location = time.UTC
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Handler{
		repositories: db.NewRepositories(database),
		secretKey:    []byte(secretKey),
		location:     location,
		logger:       logger,
		loginLimiter: newAttemptLimiter(loginAttemptsLimit, loginAttemptsWindow),
	}
}
