// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
)

var (
	migrateOnly = pflag.Bool("migrate-only", false, "Runs database migrations and exits")

	validLogLevels        = []string{"debug", "info", "warn", "error", "fatal"}
	validStorageProviders = []string{"local", "s3"}
	validDBDrivers        = []string{"sqlite", "postgres"}
)

func genSecret() string {
	b := make([]byte, 64)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// MigrateOnly reports whether the process should stop after migrations
func MigrateOnly() bool {
	return *migrateOnly
}

// Setup prepares everything config-related so that the app can
// start working. Function will return an error if something
// is critically wrong and the application can't run because of
// that.
func Setup() error {
	pflag.Parse()
	v.BindPFlags(pflag.CommandLine)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")

	v.AutomaticEnv()

	//
	// ENVS
	//
	v.BindEnv("app.log_level", "app_log_level")

	v.BindEnv("host.port", "host_port")
	v.BindEnv("host.cors_origins", "host_cors_origins")

	v.BindEnv("auth.jwt_secret", "auth_jwt_secret")

	v.BindEnv("db.driver", "db_driver")
	v.BindEnv("db.dsn", "db_dsn")

	v.BindEnv("storage.provider", "storage_provider")
	v.BindEnv("storage.local_path", "storage_local_path")

	v.BindEnv("storage.s3.endpoint", "storage_s3_endpoint")
	v.BindEnv("storage.s3.region", "storage_s3_region")
	v.BindEnv("storage.s3.bucket", "storage_s3_bucket")
	v.BindEnv("storage.s3.access_key_id", "storage_s3_access_key_id")
	v.BindEnv("storage.s3.secret_access_key", "storage_s3_secret_access_key")
	v.BindEnv("storage.s3.force_path_style", "storage_s3_force_path_style")

	v.BindEnv("upload.max_size", "upload_max_size")
	v.BindEnv("quota.default_limit", "quota_default_limit")

	v.BindEnv("share.base_url", "share_base_url")
	v.BindEnv("share.signed_url_ttl", "share_signed_url_ttl")
	v.BindEnv("security.public_rate_limit", "security_public_rate_limit")

	//
	// Defaults
	//
	v.SetDefault("app.log_level", "info")

	v.SetDefault("host.port", 8080)
	v.SetDefault("host.cors_origins", []string{"http://localhost:5173"})

	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "selfvault.db")

	v.SetDefault("storage.provider", "local")
	v.SetDefault("storage.local_path", "./data/uploads")
	v.SetDefault("storage.s3.region", "us-east-1")

	// Megabytes before the shift below
	v.SetDefault("upload.max_size", 100)

	// 5 GiB per user unless their settings row says otherwise
	v.SetDefault("quota.default_limit", int64(5)<<30)

	v.SetDefault("share.base_url", "http://localhost:5173")
	v.SetDefault("share.signed_url_ttl", 3600)
	v.SetDefault("security.public_rate_limit", 20)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(v.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file, %w", err)
		}
	}

	if !slices.Contains(validLogLevels, v.GetString("app.log_level")) {
		return errors.New("invalid log level provided")
	}

	if v.GetInt("host.port") <= 0 {
		return errors.New("invalid port provided")
	}

	if !slices.Contains(validDBDrivers, v.GetString("db.driver")) {
		return errors.New("invalid database driver provided")
	}

	if v.GetString("db.dsn") == "" {
		return errors.New("database DSN can't be empty")
	}

	if v.GetString("auth.jwt_secret") == "" {
		fmt.Println("WARNING: You haven't set a JWT secret, so it has been generated for you. Please set it as an environment variable or in the config.toml file.\nYour random JWT secret:\n\n" + genSecret() + "\n\nPaste it into your config.toml file.")
		os.Exit(0)
	}

	switch v.GetString("storage.provider") {
	case "s3":
		{
			if v.GetString("storage.s3.bucket") == "" {
				return errors.New("bucket can't be empty")
			}
			if v.GetString("storage.s3.access_key_id") == "" {
				return errors.New("access key id can't be empty")
			}
			if v.GetString("storage.s3.secret_access_key") == "" {
				return errors.New("secret access key can't be empty")
			}
		}
	case "local":
		{
			if v.GetString("storage.local_path") == "" {
				return errors.New("local storage path can't be empty")
			}
		}
	default:
		return errors.New("invalid storage provider provided")
	}

	if !slices.Contains(validStorageProviders, v.GetString("storage.provider")) {
		return errors.New("invalid storage provider provided")
	}

	if v.GetInt64("upload.max_size") <= 0 {
		return errors.New("max upload size must be bigger than 0")
	}

	if v.GetInt64("quota.default_limit") <= 0 {
		return errors.New("default storage quota must be bigger than 0")
	}

	if v.GetInt("share.signed_url_ttl") <= 0 {
		return errors.New("signed URL TTL must be bigger than 0")
	}

	if v.GetInt("security.public_rate_limit") <= 0 {
		return errors.New("public rate limit must be bigger than 0")
	}

	v.Set("upload.max_size", v.GetInt64("upload.max_size")<<20)
	return nil
}
