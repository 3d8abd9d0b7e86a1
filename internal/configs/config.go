package configs

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"eri-tracker-service/internal/constants"

	"github.com/joho/godotenv"
)

// RabbitMQConfig хранит конфигурацию для RabbitMQ
type RabbitMQConfig struct {
	URL string
}

// DBconfig хранит конфигурацию для БД
type DBconfig struct {
	URL string
}

type StdoutLogConfig struct {
	Level string // По умолчанию DEBUG
}

type FluentBitConfig struct {
	Host    string
	Port    int
	Enabled bool
	Level   string // По умолчанию INFO
}

// TrackerConfig - параметры самого конвейера
type TrackerConfig struct {
	Region string

	// off | map | geocode
	CoordsStrategy string

	// Пауза между страницами поиска
	PageDelay time.Duration
	// Пауза между объектами при определении координат
	ListingDelay time.Duration

	// Периодический запуск конвейера; 0 - только по запросу через REST
	RefreshInterval time.Duration
}

// BrowserConfig - параметры извлечения координат через headless-браузер
type BrowserConfig struct {
	// Ожидание появления маркера на карте
	MarkerTimeout time.Duration
}

// GeocoderConfig - параметры стратегии геокодирования
type GeocoderConfig struct {
	BaseURL   string
	UserAgent string
	// Пауза между вариантами адреса (политика Nominatim - не чаще 1 rps)
	CandidateDelay time.Duration
}

type RESTConfig struct {
	Port string
}

// AppConfig хранит всю конфигурацию приложения
type AppConfig struct {
	AppName      string
	Database     DBconfig
	RabbitMQ     RabbitMQConfig
	FluentBit    FluentBitConfig
	StdoutLogger StdoutLogConfig
	Tracker      TrackerConfig
	Browser      BrowserConfig
	Geocoder     GeocoderConfig
	REST         RESTConfig
}

// LoadConfig загружает конфигурацию из переменных окружения.
func LoadConfig(envPath ...string) (*AppConfig, error) {
	var err error
	if len(envPath) > 0 {
		err = godotenv.Load(envPath[0])
	} else {
		err = godotenv.Load()
	}
	if err != nil {
		// .env не обязателен: в контейнере все приходит через окружение
		log.Printf("Info: Could not load .env file (path: %v): %v.\n", envPath, err)
	}

	cfg := &AppConfig{}

	cfg.AppName = getEnvAsString("APP_NAME", "eri-tracker-service")

	cfg.Database.URL = os.Getenv("DATABASE_URL")
	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	cfg.RabbitMQ.URL = os.Getenv("RABBITMQ_URL")
	if cfg.RabbitMQ.URL == "" {
		return nil, fmt.Errorf("RABBITMQ_URL environment variable is required")
	}

	cfg.FluentBit.Enabled = getEnvAsBool("FLUENTBIT_ENABLED", false)
	if cfg.FluentBit.Enabled {
		cfg.FluentBit.Host = os.Getenv("FLUENTBIT_HOST")
		if cfg.FluentBit.Host == "" {
			log.Println("WARNING: FLUENTBIT_ENABLED is true, but FLUENTBIT_HOST is not set. Disabling Fluent Bit.")
			cfg.FluentBit.Enabled = false
		}

		cfg.FluentBit.Port = getEnvAsInt("FLUENTBIT_PORT", 24224)
		cfg.FluentBit.Level = getEnvAsString("FLUENTBIT_LOG_LEVEL", "info")
	}

	cfg.StdoutLogger.Level = getEnvAsString("STDOUT_LOG_LEVEL", "debug")

	cfg.Tracker.Region = getEnvAsString("TRACKER_REGION", constants.DefaultRegion)
	cfg.Tracker.CoordsStrategy = getEnvAsString("COORDS_STRATEGY", "map")
	switch cfg.Tracker.CoordsStrategy {
	case "off", "map", "geocode":
	default:
		return nil, fmt.Errorf("COORDS_STRATEGY must be one of: off, map, geocode (got %q)", cfg.Tracker.CoordsStrategy)
	}
	cfg.Tracker.PageDelay = getEnvAsDuration("PAGE_FETCH_DELAY", 2*time.Second)
	cfg.Tracker.ListingDelay = getEnvAsDuration("LISTING_DELAY", 1200*time.Millisecond)
	cfg.Tracker.RefreshInterval = getEnvAsDuration("REFRESH_INTERVAL", 0)

	cfg.Browser.MarkerTimeout = getEnvAsDuration("BROWSER_MARKER_TIMEOUT", 15*time.Second)

	cfg.Geocoder.BaseURL = getEnvAsString("GEOCODER_URL", constants.NominatimSearchURL)
	cfg.Geocoder.UserAgent = getEnvAsString("GEOCODER_USER_AGENT", constants.NominatimUserAgent)
	cfg.Geocoder.CandidateDelay = getEnvAsDuration("GEOCODER_CANDIDATE_DELAY", time.Second)

	cfg.REST.Port = getEnvAsString("REST_PORT", "8080")

	return cfg, nil
}

// getEnvAsString читает переменную окружения как строку или возвращает значение по умолчанию
func getEnvAsString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt читает переменную окружения как int или возвращает значение по умолчанию
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

// getEnvAsDuration читает переменную окружения как time.Duration ("2s", "500ms")
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valDur, err := time.ParseDuration(valStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as duration: %v. Using default value: %s\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return valDur
}
