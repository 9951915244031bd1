package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/footwear-wholesale/domain/user"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedOperator creates the operator account when it does not exist yet.
// It reports whether a row was inserted. An empty username disables seeding.
func SeedOperator(ctx context.Context, db *gorm.DB, username, password string) (bool, error) {
	if username == "" {
		return false, nil
	}
	if password == "" {
		return false, fmt.Errorf("operator %q has no password", username)
	}

	var existing user.User
	err := db.WithContext(ctx).Where("username = ?", username).First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("failed to look up operator: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("failed to hash operator password: %w", err)
	}

	op := &user.User{
		ID:       uuid.New().String(),
		Username: username,
		Password: string(hash),
	}
	if err := db.WithContext(ctx).Create(op).Error; err != nil {
		return false, fmt.Errorf("failed to create operator: %w", err)
	}
	return true, nil
}
