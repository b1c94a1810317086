package service

import (
	"errors"
	"fmt"

	"selfvault/file-api/internal/model"

	"github.com/spf13/viper"
	"gorm.io/gorm"
)

// Settings manages per-user settings rows, created lazily on first access
type Settings struct {
	DB *gorm.DB
}

func NewSettings(db *gorm.DB) *Settings {
	return &Settings{DB: db}
}

func (s *Settings) Get(ownerID string) (*model.UserSettings, error) {
	var settings model.UserSettings

	err := s.DB.
		Where("owner_id = ?", ownerID).
		First(&settings).
		Error
	if err == nil {
		return &settings, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to fetch user settings, %w", err)
	}

	settings = model.UserSettings{
		OwnerID:      ownerID,
		StorageLimit: viper.GetInt64("quota.default_limit"),
		Preferences:  model.JSONMap{},
	}

	// A concurrent first request may have raced us to the insert
	err = s.DB.Create(&settings).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			err = s.DB.Where("owner_id = ?", ownerID).First(&settings).Error
		}
		if err != nil {
			return nil, fmt.Errorf("failed to create default user settings, %w", err)
		}
	}

	return &settings, nil
}

type SettingsPatch struct {
	StorageLimit *int64        `json:"storage_limit"`
	Preferences  model.JSONMap `json:"preferences"`
}

func (s *Settings) Update(ownerID string, patch SettingsPatch) (*model.UserSettings, error) {
	if patch.StorageLimit != nil && *patch.StorageLimit <= 0 {
		return nil, fmt.Errorf("%w: storage limit must be positive", ErrValidation)
	}

	settings, err := s.Get(ownerID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if patch.StorageLimit != nil {
		updates["storage_limit"] = *patch.StorageLimit
	}
	if patch.Preferences != nil {
		updates["preferences"] = patch.Preferences
	}

	if len(updates) == 0 {
		return settings, nil
	}

	err = s.DB.
		Model(settings).
		Updates(updates).
		Error
	if err != nil {
		return nil, fmt.Errorf("failed to update user settings, %w", err)
	}

	return settings, nil
}
