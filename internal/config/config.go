package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"tgstore/internal/entity"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
)

type (
	Config struct {
		App      App      `yaml:"app"      env-prefix:"APP_"`
		Logger   Logger   `yaml:"logger"   env-prefix:"LOGGER_"`
		Postgres Postgres `yaml:"postgres" env-prefix:"DB_"`
		HTTP     HTTP     `yaml:"http"     env-prefix:"HTTP_"`
		Cache    Cache    `yaml:"cache"    env-prefix:"CACHE_"`
		Telegram Telegram `yaml:"telegram" env-prefix:"TELEGRAM_"`
		Kafka    Kafka    `yaml:"kafka"    env-prefix:"KAFKA_"`
		Metrics  Metrics  `yaml:"metrics"  env-prefix:"METRICS_"`
		Env      string   `yaml:"env"      env:"ENV"              env-default:"local" validate:"oneof=local dev staging prod"`
	}

	App struct {
		Name    string `yaml:"name"    env:"NAME"    validate:"required"`
		Version string `yaml:"version" env:"VERSION" validate:"required"`
	}

	Postgres struct {
		Host           string        `yaml:"host"             env:"HOST"             validate:"required"`
		Port           string        `yaml:"port"             env:"PORT"             validate:"required,gte=1,lte=65535"`
		Name           string        `yaml:"name"             env:"NAME"             validate:"required"`
		User           string        `yaml:"user"             env:"USER"             validate:"required"`
		Password       string        `yaml:"password"         env:"PASSWORD"         validate:"required"`
		SSLMode        string        `yaml:"ssl_mode"         env:"SSL_MODE"         validate:"required"`
		PoolMax        int32         `yaml:"pool_max"         env:"POOL_MAX"         validate:"min=1,max=100"            env-default:"20"`
		ConnAttempts   int           `yaml:"conn_attempts"    env:"CONN_ATTEMPTS"    validate:"min=1,max=10"             env-default:"5"`
		BaseRetryDelay time.Duration `yaml:"base_retry_delay" env:"BASE_RETRY_DELAY" validate:"gte=10ms,lte=10s"         env-default:"100ms"`
		MaxRetryDelay  time.Duration `yaml:"max_retry_delay"  env:"MAX_RETRY_DELAY"  validate:"gte=100ms,lte=30s,gtefield=BaseRetryDelay" env-default:"5s"`
	}

	HTTP struct {
		Host              string        `yaml:"host"                env:"HOST"                validate:"required"                 env-default:"0.0.0.0"`
		Port              string        `yaml:"port"                env:"PORT"                validate:"required,gte=1,lte=65535" env-default:"8080"`
		ReadTimeout       time.Duration `yaml:"read_timeout"        env:"READ_TIMEOUT"        validate:"gte=10ms,lte=30s"         env-default:"5s"`
		WriteTimeout      time.Duration `yaml:"write_timeout"       env:"WRITE_TIMEOUT"       validate:"gte=10ms,lte=30s"         env-default:"5s"`
		IdleTimeout       time.Duration `yaml:"idle_timeout"        env:"IDLE_TIMEOUT"        validate:"gte=10ms,lte=30s"         env-default:"60s"`
		ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"    env:"SHUTDOWN_TIMEOUT"    validate:"gte=10ms,lte=30s"         env-default:"10s"`
		ReadHeaderTimeout time.Duration `yaml:"read_header_timeout" env:"READ_HEADER_TIMEOUT" validate:"gte=10ms,lte=30s"         env-default:"5s"`
	}

	Cache struct {
		Capacity int           `yaml:"capacity" env:"CAPACITY" validate:"required,min=1,max=1000000"`
		TTL      time.Duration `yaml:"ttl"      env:"TTL"      validate:"required,gt=0s,lte=24h"     env-default:"5m"`
	}

	// Telegram holds everything the notification client needs. An empty Token
	// disables sending: every notification call logs a warning and reports
	// failure without doing network I/O. There is deliberately no default
	// token value.
	Telegram struct {
		Token         string        `yaml:"token"           env:"BOT_TOKEN"`
		AdminChatID   int64         `yaml:"admin_chat_id"   env:"ADMIN_CHAT_ID"`
		APIBaseURL    string        `yaml:"api_base_url"    env:"API_BASE_URL"    validate:"required,url" env-default:"https://api.telegram.org"`
		WebAppBaseURL string        `yaml:"webapp_base_url" env:"WEBAPP_BASE_URL" validate:"required,url"`
		SendTimeout   time.Duration `yaml:"send_timeout"    env:"SEND_TIMEOUT"    validate:"gte=100ms,lte=30s" env-default:"5s"`
	}

	Kafka struct {
		GroupID string   `yaml:"group_id" env:"GROUP_ID" validate:"required"`
		Brokers []string `yaml:"brokers"  env:"BROKERS"  validate:"min=1,dive,hostname_port" env-separator:","`
		Topic   string   `yaml:"topic"    env:"TOPIC"    validate:"required"`
	}

	Metrics struct {
		Host              string        `yaml:"host"                env:"HOST"                validate:"required"                 env-default:"0.0.0.0"`
		Port              string        `yaml:"port"                env:"PORT"                validate:"required,gte=1,lte=65535" env-default:"9090"`
		ReadTimeout       time.Duration `yaml:"read_timeout"        env:"READ_TIMEOUT"        validate:"gte=10ms,lte=30s"         env-default:"5s"`
		WriteTimeout      time.Duration `yaml:"write_timeout"       env:"WRITE_TIMEOUT"       validate:"gte=10ms,lte=30s"         env-default:"5s"`
		ReadHeaderTimeout time.Duration `yaml:"read_header_timeout" env:"READ_HEADER_TIMEOUT" validate:"gte=10ms,lte=30s"         env-default:"5s"`
	}

	Logger struct {
		Level      string `yaml:"level"       env:"LEVEL"       env-default:"info"                     validate:"oneof=debug info warn error"`
		Filename   string `yaml:"filename"    env:"FILENAME"    env-default:"./logs/order-service.log"`
		MaxSize    int    `yaml:"max_size"    env:"MAX_SIZE"    env-default:"100"                      validate:"min=1,max=1000"`
		MaxBackups int    `yaml:"max_backups" env:"MAX_BACKUPS" env-default:"3"                        validate:"min=0,max=20"`
		MaxAge     int    `yaml:"max_age"     env:"MAX_AGE"     env-default:"28"                       validate:"min=1,max=365"`
	}
)

func Load() (*Config, error) {
	path := fetchConfigPath()
	if path == "" {
		return nil, entity.ErrConfigPathNotSet
	}
	return LoadPath(path)
}

func LoadPath(configPath string) (*Config, error) {
	const op = "config.LoadPath"

	validate := validator.New()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: config file does not exist: %s", op, configPath)
	} else if err != nil {
		return nil, fmt.Errorf("%s: checking config file: %w", op, err)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("%s: read config: %w", op, err)
	}

	var validationErrors []string
	if err := validate.Struct(&cfg); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			for _, ve := range validationErrs {
				validationErrors = append(validationErrors,
					fmt.Sprintf("%s=%v must satisfy '%s'", ve.Field(), ve.Value(), ve.Tag()))
			}
			return nil, fmt.Errorf(
				"%s: config validation: %v", op,
				strings.Join(validationErrors, "; "),
			)
		}
		return nil, fmt.Errorf("%s: config validation: %w", op, err)
	}

	return &cfg, nil
}

func fetchConfigPath() string {
	var path string
	flag.StringVar(&path, "config", "", "Path to config file")
	flag.Parse()

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	return path
}
