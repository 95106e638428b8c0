package api

import (
	"net/mail"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/haventide/wellspring/internal/models"
)

const minPasswordLength = 8

type credentialsInput struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

func parseCredentials(c *fiber.Ctx) (credentialsInput, error) {
	credentials := credentialsInput{}
	if err := c.BodyParser(&credentials); err != nil {
		return credentialsInput{}, err
	}

	credentials.Email = strings.ToLower(strings.TrimSpace(credentials.Email))
	if _, err := mail.ParseAddress(credentials.Email); err != nil {
		return credentialsInput{}, err
	}
	return credentials, nil
}

func (handler *Handler) Register(c *fiber.Ctx) error {
	credentials, err := parseCredentials(c)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	if len(credentials.Password) < minPasswordLength {
		return apiError(c, fiber.StatusBadRequest, "weak password")
	}

	exists, err := handler.repositories.Users.ExistsByNormalizedEmail(credentials.Email)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to check email")
	}
	if exists {
		return apiError(c, fiber.StatusConflict, "email already exists")
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(credentials.Password), bcrypt.DefaultCost)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to secure password")
	}

	user := models.User{
		ID:           uuid.NewString(),
		Email:        credentials.Email,
		PasswordHash: string(passwordHash),
		CreatedAt:    time.Now().In(handler.location),
	}
	if err := handler.repositories.Users.Create(&user); err != nil {
		return apiError(c, fiber.StatusConflict, "email already exists")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"ok":      true,
		"user_id": user.ID,
	})
}

func (handler *Handler) Login(c *fiber.Ctx) error {
	now := time.Now().In(handler.location)
	limiterKey := requestLimiterKey(c)
	if handler.loginLimiter.blocked(limiterKey, now) {
		return apiError(c, fiber.StatusTooManyRequests, "too many login attempts")
	}

	credentials, err := parseCredentials(c)
	if err != nil {
		handler.loginLimiter.addFailure(limiterKey, now)
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	user, found, err := handler.repositories.Users.FindByNormalizedEmail(credentials.Email)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load user")
	}
	if !found {
		handler.loginLimiter.addFailure(limiterKey, now)
		return apiError(c, fiber.StatusUnauthorized, "invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(credentials.Password)); err != nil {
		handler.loginLimiter.addFailure(limiterKey, now)
		return apiError(c, fiber.StatusUnauthorized, "invalid credentials")
	}

	token, err := handler.buildToken(&user, authTokenTTL)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create token")
	}

	handler.loginLimiter.reset(limiterKey)
	return c.JSON(fiber.Map{
		"token":   token,
		"user_id": user.ID,
	})
}
