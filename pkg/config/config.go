package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Admin     AdminConfig
	Redis     RedisConfig
	Inventory InventoryConfig
	Predictor PredictorConfig
	Cron      CronConfig
	Selection SelectionConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type JWTConfig struct {
	SecretKey string
}

type AdminConfig struct {
	Username     string
	PasswordHash string
}

type RedisConfig struct {
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
}

type InventoryConfig struct {
	BaseURL string
	Token   string
}

type PredictorConfig struct {
	BaseURL string
}

type CronConfig struct {
	// 5-field cron expressions; empty disables the job.
	DailySelection string
	NightlyRescore string
}

type SelectionConfig struct {
	// Optional YAML file overriding the engine's default tunables.
	TunablesPath string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return nil, errors.New("invalid redis database")
		}
		redisDB = parsed
	}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "crateDigger API"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
		},
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "crate_digger"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET", ""),
		},
		Admin: AdminConfig{
			Username:     getEnv("ADMIN_USERNAME", "admin"),
			PasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		},
		Redis: RedisConfig{
			RedisHost:     getEnv("REDIS_HOST", "localhost"),
			RedisPort:     getEnv("REDIS_PORT", "6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       redisDB,
		},
		Inventory: InventoryConfig{
			BaseURL: getEnv("INVENTORY_BASE_URL", "https://api.discogs.com"),
			Token:   getEnv("INVENTORY_TOKEN", ""),
		},
		Predictor: PredictorConfig{
			BaseURL: getEnv("PREDICTOR_BASE_URL", "http://localhost:5000"),
		},
		Cron: CronConfig{
			DailySelection: getEnv("CRON_DAILY_SELECTION", "5 0 * * *"),
			NightlyRescore: getEnv("CRON_NIGHTLY_RESCORE", "30 2 * * *"),
		},
		Selection: SelectionConfig{
			TunablesPath: getEnv("SELECTION_TUNABLES_PATH", ""),
		},
	}

	if cfg.JWT.SecretKey == "" {
		return nil, errors.New("missing jwt secret")
	}

	if cfg.Database.Password == "" {
		return nil, errors.New("missing database password")
	}

	if cfg.Admin.PasswordHash == "" {
		return nil, errors.New("missing admin password hash")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}
