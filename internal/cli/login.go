package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/mail"
	"os"
	"strings"
	"time"

	"github.com/haventide/wellspring/internal/db"
	"github.com/haventide/wellspring/internal/models"
	"github.com/haventide/wellspring/internal/remote"
)

const loginTimeout = 30 * time.Second

// RunLoginCommand prompts for credentials, exchanges them for an API
// token and persists the session in the agent database. Registering
// first is the same flow with an extra register call.
func RunLoginCommand(settings *db.SettingsRepository, client *remote.Client, registerFirst bool) error {
	email, err := promptLine("Email: ")
	if err != nil {
		return err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("invalid email address: %w", err)
	}

	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}
	if len(password) == 0 {
		return errors.New("password is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), loginTimeout)
	defer cancel()

	if registerFirst {
		if err := client.Register(ctx, email, string(password)); err != nil {
			return fmt.Errorf("register failed: %w", err)
		}
		fmt.Println("✅ Account created")
	}

	result, err := client.Login(ctx, email, string(password))
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	if err := settings.Set(models.SettingAPIToken, result.Token); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	if err := settings.Set(models.SettingUserID, result.UserID); err != nil {
		return fmt.Errorf("store user id: %w", err)
	}
	if err := settings.Set(models.SettingUserEmail, email); err != nil {
		return fmt.Errorf("store email: %w", err)
	}

	fmt.Printf("✅ Logged in as %s\n", email)
	return nil
}

func promptLine(label string) (string, error) {
	fmt.Print(label)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func promptPassword(label string) ([]byte, error) {
	fmt.Print(label)
	password, err := readPasswordNoEcho(os.Stdin)
	fmt.Println()
	if err != nil {
		return nil, fmt.Errorf("read password: %w", err)
	}
	return password, nil
}
