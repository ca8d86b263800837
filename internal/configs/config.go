package configs

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverSQLite   = "sqlite"
)

// StoreConfig - хранилище объектов. URL и Key могут отсутствовать: тогда
// сервис стартует с недоступным хранилищем и отдает встроенный набор.
type StoreConfig struct {
	Driver         string
	URL            string
	Key            string
	MigrateOnStart bool
}

// Configured - true, если значений достаточно, чтобы открыть хранилище.
// SQLite не требует ключа.
func (c StoreConfig) Configured() bool {
	if c.URL == "" {
		return false
	}
	return c.Driver == StoreDriverSQLite || c.Key != ""
}

type RESTconfig struct {
	PORT           string
	AllowedOrigins []string
}

type SeedConfig struct {
	BatchSize int
	// DataPath - JSON-файл с объектами вместо встроенного набора.
	DataPath string
}

type StdoutLogConfig struct {
	Level  string
	IsJSON bool
}

type FluentBitConfig struct {
	Host    string
	Port    int
	Enabled bool
	Level   string
}

type RabbitMQConfig struct {
	Enabled  bool
	URL      string
	Exchange string
}

// AppConfig хранит всю конфигурацию приложения
type AppConfig struct {
	AppName      string
	Store        StoreConfig
	Rest         RESTconfig
	Seed         SeedConfig
	StdoutLogger StdoutLogConfig
	FluentBit    FluentBitConfig
	RabbitMQ     RabbitMQConfig

	// Warnings - замечания, найденные при загрузке; приложение пишет их
	// в лог, когда логгер уже создан.
	Warnings []string
}

// LoadConfig загружает конфигурацию из .env (если файл есть) и переменных окружения.
func LoadConfig(envPath ...string) (*AppConfig, error) {
	var err error
	if len(envPath) > 0 {
		err = godotenv.Load(envPath[0])
	} else {
		err = godotenv.Load()
	}
	if err != nil {
		// без .env работаем на переменных окружения
		log.Printf("Info: Could not load .env file (path: %v): %v. Using process environment.\n", envPath, err)
	}

	cfg := &AppConfig{}

	cfg.AppName = getEnvAsString("APP_NAME", "estatemap-api")

	cfg.Store.Driver = strings.ToLower(getEnvAsString("STORE_DRIVER", StoreDriverPostgres))
	if cfg.Store.Driver != StoreDriverPostgres && cfg.Store.Driver != StoreDriverSQLite {
		return nil, fmt.Errorf("unsupported STORE_DRIVER %q (expected %q or %q)", cfg.Store.Driver, StoreDriverPostgres, StoreDriverSQLite)
	}
	cfg.Store.URL = os.Getenv("LISTING_STORE_URL")
	cfg.Store.Key = os.Getenv("LISTING_STORE_KEY")
	cfg.Store.MigrateOnStart = getEnvAsBool("STORE_MIGRATE_ON_START", true)
	if cfg.Store.URL == "" {
		cfg.Warnings = append(cfg.Warnings, "LISTING_STORE_URL is not set, listing store is unavailable")
	} else if cfg.Store.Driver == StoreDriverPostgres && cfg.Store.Key == "" {
		cfg.Warnings = append(cfg.Warnings, "LISTING_STORE_KEY is not set, listing store is unavailable")
	}

	// Читаем конфигурацию для REST
	cfg.Rest.PORT = getEnvAsString("PORT", "3000")
	cfg.Rest.AllowedOrigins = getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"})

	cfg.Seed.BatchSize = getEnvAsInt("SEED_BATCH_SIZE", 50)
	if cfg.Seed.BatchSize <= 0 {
		return nil, fmt.Errorf("SEED_BATCH_SIZE must be positive, got %d", cfg.Seed.BatchSize)
	}
	cfg.Seed.DataPath = os.Getenv("SEED_DATA_PATH")

	cfg.StdoutLogger.Level = getEnvAsString("STDOUT_LOG_LEVEL", "debug")
	cfg.StdoutLogger.IsJSON = getEnvAsBool("STDOUT_LOG_JSON", false)

	cfg.FluentBit.Enabled = getEnvAsBool("FLUENTBIT_ENABLED", false)
	if cfg.FluentBit.Enabled {
		cfg.FluentBit.Host = os.Getenv("FLUENTBIT_HOST")
		if cfg.FluentBit.Host == "" {
			cfg.Warnings = append(cfg.Warnings, "FLUENTBIT_ENABLED is true, but FLUENTBIT_HOST is not set. Disabling Fluent Bit.")
			cfg.FluentBit.Enabled = false
		}
		cfg.FluentBit.Port = getEnvAsInt("FLUENTBIT_PORT", 24224)
		cfg.FluentBit.Level = getEnvAsString("FLUENTBIT_LOG_LEVEL", "info")
	}

	cfg.RabbitMQ.Enabled = getEnvAsBool("RABBITMQ_ENABLED", false)
	if cfg.RabbitMQ.Enabled {
		cfg.RabbitMQ.URL = os.Getenv("RABBITMQ_URL")
		if cfg.RabbitMQ.URL == "" {
			return nil, fmt.Errorf("RABBITMQ_URL environment variable is required when RABBITMQ_ENABLED is true")
		}
		cfg.RabbitMQ.Exchange = getEnvAsString("RABBITMQ_EXCHANGE", "estatemap_events")
	}

	return cfg, nil
}

func getEnvAsString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as int: %v. Using default value: %d\n", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return valueInt
}

// getEnvAsBool читает переменную окружения как bool или возвращает значение по умолчанию
func getEnvAsBool(key string, defaultValue bool) bool {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valBool, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as bool: %v. Using default value: %t\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return valBool
}

// getEnvAsList - список через запятую, пустые элементы отбрасываются.
func getEnvAsList(key string, defaultValue []string) []string {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(valStr, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
