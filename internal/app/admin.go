package app

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"evcatalog/internal/config"
	"evcatalog/internal/models"
	"evcatalog/internal/security"
)

// EnsureAdminUser provisions the configured administrator account.
// An existing account keeps its stored password; accounts are never
// created through the API.
func EnsureAdminUser(conn *gorm.DB, seed config.AdminSeed) error {
	if conn == nil {
		return fmt.Errorf("nil db")
	}
	if seed.Login == "" {
		log.Warn("no admin account configured, mutating endpoints stay locked")
		return nil
	}
	if seed.Password == "" {
		return fmt.Errorf("admin password is required for %q", seed.Login)
	}

	var existing models.AuthUser
	errFind := conn.Where("login = ?", seed.Login).First(&existing).Error
	if errFind == nil {
		return nil
	}
	if !errors.Is(errFind, gorm.ErrRecordNotFound) {
		return fmt.Errorf("query auth user: %w", errFind)
	}

	hashed, errHash := security.HashPassword(seed.Password)
	if errHash != nil {
		return errHash
	}
	user := models.AuthUser{Login: seed.Login, PasswordHash: hashed}
	if errCreate := conn.Create(&user).Error; errCreate != nil {
		return fmt.Errorf("create auth user: %w", errCreate)
	}
	log.Infof("provisioned admin account %q", seed.Login)
	return nil
}
