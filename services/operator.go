package services

import (
	"context"
	"errors"
	"log"

	"agenda-backend/models"

	"gorm.io/gorm"
)

// EnsureOperator creates the operator account unless it already exists.
// An empty username disables seeding.
func EnsureOperator(ctx context.Context, db *gorm.DB, username, password string) error {
	if username == "" {
		return nil
	}
	if password == "" {
		return errors.New("APP_PASSWORD is required when APP_USERNAME is set")
	}

	var existing models.User
	err := db.WithContext(ctx).Where("username = ?", username).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	user := models.User{Username: username, Password: password, IsActive: true}
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		return err
	}
	log.Printf("Operator account %q created", username)
	return nil
}

// EnsureDefaultReminderTemplate seeds the session reminder template when none
// exists.
func EnsureDefaultReminderTemplate(ctx context.Context, db *gorm.DB) error {
	var count int64
	if err := db.WithContext(ctx).Model(&models.ReminderTemplate{}).
		Where("type = ?", ReminderTypeSession).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	template := models.ReminderTemplate{
		Type:     ReminderTypeSession,
		Message:  defaultReminderMessage,
		IsActive: true,
	}
	return db.WithContext(ctx).Create(&template).Error
}
