package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Config хранит все настройки приложения
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Uploads  UploadsConfig  `mapstructure:"uploads"`
	Email    EmailConfig    `mapstructure:"email"`
	Seed     SeedConfig     `mapstructure:"seed"`
}

// ServerConfig содержит настройки HTTP сервера
type ServerConfig struct {
	Port         string   `mapstructure:"port"`
	Mode         string   `mapstructure:"mode"` // debug или release
	ReadTimeout  int      `mapstructure:"read_timeout"`
	WriteTimeout int      `mapstructure:"write_timeout"`
	CORSOrigins  []string `mapstructure:"cors_origins"`
}

// DatabaseConfig содержит настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// RedisConfig содержит настройки подключения к Redis.
// Mode: "single" (по умолчанию), "sentinel" или "cluster".
type RedisConfig struct {
	Mode       string   `mapstructure:"mode"`
	Addrs      []string `mapstructure:"addrs"`
	Addr       string   `mapstructure:"addr"`
	Password   string   `mapstructure:"password"`
	DB         int      `mapstructure:"db"`
	MasterName string   `mapstructure:"master_name"`
}

// JWTConfig содержит настройки JWT
type JWTConfig struct {
	Secret        string `mapstructure:"secret"`
	ExpirationHrs int    `mapstructure:"expiration_hrs"`
}

// UploadsConfig содержит настройки хранения видеоответов
type UploadsConfig struct {
	Dir          string `mapstructure:"dir"`
	PublicPrefix string `mapstructure:"public_prefix"`
	MaxSizeMB    int64  `mapstructure:"max_size_mb"`
}

// MaxSizeBytes возвращает лимит размера файла в байтах
func (u UploadsConfig) MaxSizeBytes() int64 {
	return u.MaxSizeMB << 20
}

// EmailConfig содержит настройки уведомлений по почте (Resend)
type EmailConfig struct {
	ResendAPIKey string `mapstructure:"resend_api_key"`
	From         string `mapstructure:"from"`
}

// SeedConfig управляет начальными данными при старте
type SeedConfig struct {
	DefaultAdmin bool `mapstructure:"default_admin"`
	DemoData     bool `mapstructure:"demo_data"`
}

// IsRelease возвращает true для production режима
func (s ServerConfig) IsRelease() bool {
	return s.Mode == "release"
}

// PostgresConnectionString формирует строку подключения к PostgreSQL
func (d *DatabaseConfig) PostgresConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

func setDefaults(vip *viper.Viper) {
	vip.SetDefault("server.port", "8080")
	vip.SetDefault("server.mode", "debug")
	vip.SetDefault("server.read_timeout", 30)
	vip.SetDefault("server.write_timeout", 120)
	vip.SetDefault("server.cors_origins", []string{"http://localhost:3000"})
	vip.SetDefault("database.port", "5432")
	vip.SetDefault("database.sslmode", "disable")
	vip.SetDefault("redis.mode", "single")
	vip.SetDefault("jwt.expiration_hrs", 24)
	vip.SetDefault("uploads.dir", "uploads")
	vip.SetDefault("uploads.public_prefix", "/uploads")
	vip.SetDefault("uploads.max_size_mb", 100)
	vip.SetDefault("seed.default_admin", true)
	vip.SetDefault("seed.demo_data", false)
}

// Load загружает конфигурацию из .env, YAML файла и переменных окружения
func Load(configPath string) (*Config, error) {
	// .env не обязателен, переменные окружения процесса имеют приоритет
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Msg("failed to read .env file")
	}

	vip := viper.New()
	setDefaults(vip)

	bindings := map[string]string{
		"server.port":          "SERVER_PORT",
		"server.mode":          "GIN_MODE",
		"database.host":        "DATABASE_HOST",
		"database.port":        "DATABASE_PORT",
		"database.user":        "DATABASE_USER",
		"database.password":    "DATABASE_PASSWORD",
		"database.dbname":      "DATABASE_DBNAME",
		"database.sslmode":     "DATABASE_SSLMODE",
		"redis.mode":           "REDIS_MODE",
		"redis.addrs":          "REDIS_ADDRS",
		"redis.addr":           "REDIS_ADDR",
		"redis.password":       "REDIS_PASSWORD",
		"redis.db":             "REDIS_DB",
		"redis.master_name":    "REDIS_MASTER_NAME",
		"jwt.secret":           "JWT_SECRET",
		"jwt.expiration_hrs":   "JWT_EXPIRATION_HRS",
		"uploads.dir":          "UPLOADS_DIR",
		"uploads.max_size_mb":  "UPLOADS_MAX_SIZE_MB",
		"email.resend_api_key": "RESEND_API_KEY",
		"email.from":           "EMAIL_FROM",
		"seed.default_admin":   "SEED_DEFAULT_ADMIN",
		"seed.demo_data":       "SEED_DEMO_DATA",
	}
	for key, env := range bindings {
		if err := vip.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind env %s: %w", env, err)
		}
	}

	if configPath != "" {
		vip.SetConfigFile(configPath)
		if err := vip.ReadInConfig(); err != nil {
			// Файл не обязателен, значения могут прийти из окружения
			log.Warn().Err(err).Str("path", configPath).Msg("config file not read, using env/defaults")
		}
	}

	var cfg Config
	if err := vip.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if !cfg.Server.IsRelease() {
		log.Debug().
			Str("db_host", cfg.Database.Host).
			Str("db_name", cfg.Database.DBName).
			Str("redis_addr", cfg.Redis.Addr).
			Str("port", cfg.Server.Port).
			Str("uploads_dir", cfg.Uploads.Dir).
			Bool("email_enabled", cfg.Email.ResendAPIKey != "").
			Msg("configuration loaded")
	}
	return &cfg, nil
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt secret is required (check JWT_SECRET env var)")
	}
	if c.Database.Host == "" || c.Database.DBName == "" || c.Database.User == "" {
		return fmt.Errorf("database configuration (host, dbname, user) is incomplete (check DATABASE_HOST, DATABASE_DBNAME, DATABASE_USER env vars)")
	}
	if c.Server.IsRelease() && c.Database.Password == "" {
		return fmt.Errorf("database password is required in release mode (check DATABASE_PASSWORD env var)")
	}
	if c.Uploads.MaxSizeMB <= 0 {
		return fmt.Errorf("uploads.max_size_mb must be positive")
	}
	return nil
}
