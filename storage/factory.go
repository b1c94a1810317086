package storage

import (
	"fmt"

	"github.com/spf13/viper"
)

// New builds the configured backend. Config validation has already
// rejected unknown provider names by the time this runs
func New() (Store, error) {
	switch provider := viper.GetString("storage.provider"); provider {
	case ProviderLocal:
		return NewLocal(viper.GetString("storage.local_path"))
	case ProviderS3:
		return NewS3()
	default:
		return nil, fmt.Errorf("unknown storage provider %q", provider)
	}
}
