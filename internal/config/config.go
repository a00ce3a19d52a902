// internal/config/config.go
package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"mapayl/pkg/crypto"
	"mapayl/pkg/db" // Import db package for its Config struct
)

// AppConfig holds all application-wide configurations.
type AppConfig struct {
	ServerPort     string
	Env            string // "production" or "development"; selects the log encoder
	DB             db.Config
	AutoMigrate    bool // Apply embedded schema migrations at startup
	BcryptCost     int
	AllowedOrigins []string // CORS origins allowed to call the API
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("APP_ENV", "production")
	// Local development defaults
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "user")
	v.SetDefault("DB_PASSWORD", "password")
	v.SetDefault("DB_NAME", "mapayl")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_AUTO_MIGRATE", false)
	v.SetDefault("BCRYPT_COST", strconv.Itoa(crypto.DefaultCost))
	v.SetDefault("CORS_ALLOWED_ORIGINS", "https://*,http://*")
}

// LoadConfig loads configuration from environment variables, after reading a
// .env file when one is present. Variables already set in the environment win.
// It returns an AppConfig instance or an error if any variable is invalid.
func LoadConfig() (*AppConfig, error) {
	_ = godotenv.Load() // A missing .env file is normal outside local development

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	dbPort, err := strconv.Atoi(v.GetString("DB_PORT"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	bcryptCost, err := strconv.Atoi(v.GetString("BCRYPT_COST"))
	if err != nil {
		return nil, fmt.Errorf("invalid BCRYPT_COST: %w", err)
	}

	return &AppConfig{
		ServerPort:  v.GetString("SERVER_PORT"),
		Env:         v.GetString("APP_ENV"),
		AutoMigrate: v.GetBool("DB_AUTO_MIGRATE"),
		BcryptCost:  bcryptCost,
		DB: db.Config{
			Host:     v.GetString("DB_HOST"),
			Port:     dbPort,
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
	}, nil
}

// splitList splits a comma separated value, dropping blank entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
