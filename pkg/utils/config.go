package utils

import (
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Store    StoreConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Catalog  CatalogConfig
	Pricing  PricingConfig
	Checkout CheckoutConfig
	Session  SessionConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

// StoreConfig selects the key-value backend used for layouts, orders and
// profiles. Backend is one of: memory, file, postgres, redis.
type StoreConfig struct {
	Backend  string
	FilePath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type CatalogConfig struct {
	URL            string
	TimeoutSeconds int
}

// PricingConfig drives the per-movie pricing table. The second and third
// category prices are fixed ratios of the base price.
type PricingConfig struct {
	BasePrice   float64
	SecondRatio float64
	ThirdRatio  float64
	TaxRate     float64

	// DefaultQuantityCap bounds how many tickets the first category absorbs
	// when the seat selection changes.
	DefaultQuantityCap int
}

type CheckoutConfig struct {
	SettlementDelayMs int
}

type SessionConfig struct {
	ExpiryHours int
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("STORE_BACKEND", "file")
	viper.SetDefault("STORE_FILE_PATH", "data/")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("CATALOG_TIMEOUT_SECONDS", 5)
	viper.SetDefault("TICKET_BASE_PRICE", 12.0)
	viper.SetDefault("TICKET_SECOND_RATIO", 0.85)
	viper.SetDefault("TICKET_THIRD_RATIO", 0.6)
	viper.SetDefault("TICKET_TAX_RATE", 0.08)
	viper.SetDefault("TICKET_DEFAULT_CAP", 4)
	viper.SetDefault("SETTLEMENT_DELAY_MS", 1500)
	viper.SetDefault("SESSION_EXPIRY_HOURS", 24)

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Store: StoreConfig{
			Backend:  viper.GetString("STORE_BACKEND"),
			FilePath: viper.GetString("STORE_FILE_PATH"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Catalog: CatalogConfig{
			URL:            viper.GetString("CATALOG_URL"),
			TimeoutSeconds: viper.GetInt("CATALOG_TIMEOUT_SECONDS"),
		},
		Pricing: PricingConfig{
			BasePrice:          viper.GetFloat64("TICKET_BASE_PRICE"),
			SecondRatio:        viper.GetFloat64("TICKET_SECOND_RATIO"),
			ThirdRatio:         viper.GetFloat64("TICKET_THIRD_RATIO"),
			TaxRate:            viper.GetFloat64("TICKET_TAX_RATE"),
			DefaultQuantityCap: viper.GetInt("TICKET_DEFAULT_CAP"),
		},
		Checkout: CheckoutConfig{
			SettlementDelayMs: viper.GetInt("SETTLEMENT_DELAY_MS"),
		},
		Session: SessionConfig{
			ExpiryHours: viper.GetInt("SESSION_EXPIRY_HOURS"),
		},
	}

	return config, nil
}
