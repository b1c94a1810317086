package service

import (
	"errors"
	"fmt"
	"time"

	"selfvault/file-api/internal/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Users mirrors identity-provider subjects into local rows. The provider
// already verified the credential; this layer only persists what it said
type Users struct {
	DB *gorm.DB
}

func NewUsers(db *gorm.DB) *Users {
	return &Users{DB: db}
}

// FindOrCreate is called on the first authenticated touch of any request
func (u *Users) FindOrCreate(userID, email string) (*model.User, error) {
	var user model.User

	err := u.DB.
		Where("id = ?", userID).
		First(&user).
		Error
	if err == nil {
		return &user, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to fetch user, %w", err)
	}

	user = model.User{
		ID:        userID,
		Email:     email,
		CreatedAt: time.Now().Unix(),
	}

	err = u.DB.Create(&user).Error
	if err != nil {
		// Concurrent first requests race to the insert; the loser reads
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if err := u.DB.Where("id = ?", userID).First(&user).Error; err == nil {
				return &user, nil
			}
		}

		return nil, fmt.Errorf("failed to create user, %w", err)
	}

	zap.L().Info("New user created", zap.String("user_id", userID))
	return &user, nil
}

// UpdateUsername sets the display name shown on public listings
func (u *Users) UpdateUsername(userID, email, username string) (*model.User, error) {
	user, err := u.FindOrCreate(userID, email)
	if err != nil {
		return nil, err
	}

	err = u.DB.
		Model(user).
		Updates(map[string]any{
			"username":   username,
			"updated_at": time.Now().Unix(),
		}).
		Error
	if err != nil {
		return nil, fmt.Errorf("failed to update user, %w", err)
	}

	return user, nil
}
