package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/agrofel/sales-agent/internal/domain/constants"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config ilovaning konfiguratsiyasi
type Config struct {
	GeminiAPIKey      string
	GeminiModel       string
	TelegramToken     string
	AllowEmptySecrets bool
	MaxContextSize    int

	Catalog CatalogConfig

	HTTPAddr  string
	LogLevel  string
	LogFormat string
}

// CatalogConfig katalog manbasi sozlamalari
type CatalogConfig struct {
	Source        string // file | postgres
	DataDir       string
	OrdersFile    string
	PricesFile    string
	PortfolioFile string
	CSVSeparator  string
	PostgresDSN   string
}

// OrdersPath returns the orders file path inside DataDir.
func (c CatalogConfig) OrdersPath() string { return c.resolve(c.OrdersFile) }

// PricesPath returns the prices file path inside DataDir.
func (c CatalogConfig) PricesPath() string { return c.resolve(c.PricesFile) }

// PortfolioPath returns the portfolio file path inside DataDir.
func (c CatalogConfig) PortfolioPath() string { return c.resolve(c.PortfolioFile) }

func (c CatalogConfig) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.DataDir, name)
}

// fileConfig CONFIG_FILE dagi YAML tuzilmasi
type fileConfig struct {
	Gemini struct {
		Model string `yaml:"model"`
	} `yaml:"gemini"`
	Catalog struct {
		Source        string `yaml:"source"`
		DataDir       string `yaml:"data_dir"`
		OrdersFile    string `yaml:"orders_file"`
		PricesFile    string `yaml:"prices_file"`
		PortfolioFile string `yaml:"portfolio_file"`
		CSVSeparator  string `yaml:"csv_separator"`
		PostgresDSN   string `yaml:"postgres_dsn"`
	} `yaml:"catalog"`
	HTTP struct {
		Addr string `yaml:"addr"`
	} `yaml:"http"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	MaxContextSize int `yaml:"max_context_size"`
}

func defaults() *Config {
	return &Config{
		GeminiModel:    constants.GeminiModelName,
		MaxContextSize: constants.DefaultMaxContextSize,
		Catalog: CatalogConfig{
			Source:        "file",
			DataDir:       constants.DefaultDataDir,
			OrdersFile:    constants.DefaultOrdersFile,
			PricesFile:    constants.DefaultPricesFile,
			PortfolioFile: constants.DefaultPortfolioFile,
			CSVSeparator:  constants.DefaultCSVSeparator,
		},
		HTTPAddr:  ":8080",
		LogLevel:  "info",
		LogFormat: "console",
	}
}

// Load konfiguratsiyani yuklash: default -> YAML (CONFIG_FILE) -> env
func Load() (*Config, error) {
	return load(true)
}

// LoadOffline loads the config for commands that never call the LLM or Telegram.
func LoadOffline() (*Config, error) {
	return load(false)
}

func load(requireSecrets bool) (*Config, error) {
	// .env faylini yuklash (mavjud bo'lsa)
	_ = godotenv.Load()

	config := defaults()

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := applyFile(config, path); err != nil {
			return nil, err
		}
	}

	applyEnv(config)
	if !requireSecrets {
		config.AllowEmptySecrets = true
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate majburiy qiymatlarni tekshiradi
func (c *Config) Validate() error {
	switch c.Catalog.Source {
	case "file", "postgres":
	default:
		return fmt.Errorf("CATALOG_SOURCE noto'g'ri: %q (file yoki postgres)", c.Catalog.Source)
	}
	if c.Catalog.Source == "postgres" && strings.TrimSpace(c.Catalog.PostgresDSN) == "" {
		return fmt.Errorf("CATALOG_SOURCE=postgres uchun POSTGRES_DSN kerak")
	}
	if len([]rune(c.Catalog.CSVSeparator)) != 1 {
		return fmt.Errorf("CSV_SEPARATOR bitta belgi bo'lishi kerak: %q", c.Catalog.CSVSeparator)
	}
	if c.MaxContextSize <= 0 {
		return fmt.Errorf("MAX_CONTEXT_SIZE musbat bo'lishi kerak: %d", c.MaxContextSize)
	}
	if !c.AllowEmptySecrets && strings.TrimSpace(c.GeminiAPIKey) == "" {
		return fmt.Errorf("GOOGLE_API_KEY environment variable bo'sh")
	}
	return nil
}

func applyFile(config *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("error parsing YAML: %w", err)
	}

	setIfNotEmpty(&config.GeminiModel, fc.Gemini.Model)
	setIfNotEmpty(&config.Catalog.Source, fc.Catalog.Source)
	setIfNotEmpty(&config.Catalog.DataDir, fc.Catalog.DataDir)
	setIfNotEmpty(&config.Catalog.OrdersFile, fc.Catalog.OrdersFile)
	setIfNotEmpty(&config.Catalog.PricesFile, fc.Catalog.PricesFile)
	setIfNotEmpty(&config.Catalog.PortfolioFile, fc.Catalog.PortfolioFile)
	setIfNotEmpty(&config.Catalog.CSVSeparator, fc.Catalog.CSVSeparator)
	setIfNotEmpty(&config.Catalog.PostgresDSN, fc.Catalog.PostgresDSN)
	setIfNotEmpty(&config.HTTPAddr, fc.HTTP.Addr)
	setIfNotEmpty(&config.LogLevel, fc.Log.Level)
	setIfNotEmpty(&config.LogFormat, fc.Log.Format)
	if fc.MaxContextSize > 0 {
		config.MaxContextSize = fc.MaxContextSize
	}
	return nil
}

func applyEnv(config *Config) {
	// Asl ilova GOOGLE_API_KEY ishlatadi, GEMINI_API_KEY ham qabul qilinadi
	setIfNotEmpty(&config.GeminiAPIKey, getenvAny("GOOGLE_API_KEY", "GEMINI_API_KEY"))
	setIfNotEmpty(&config.GeminiModel, os.Getenv("GEMINI_MODEL"))
	setIfNotEmpty(&config.TelegramToken, os.Getenv("TELEGRAM_BOT_TOKEN"))
	config.AllowEmptySecrets = getEnvBool("ALLOW_EMPTY_SECRETS", config.AllowEmptySecrets)
	config.MaxContextSize = getEnvInt("MAX_CONTEXT_SIZE", config.MaxContextSize)

	setIfNotEmpty(&config.Catalog.Source, strings.ToLower(os.Getenv("CATALOG_SOURCE")))
	setIfNotEmpty(&config.Catalog.DataDir, os.Getenv("DATA_DIR"))
	setIfNotEmpty(&config.Catalog.OrdersFile, os.Getenv("ORDERS_FILE"))
	setIfNotEmpty(&config.Catalog.PricesFile, os.Getenv("PRICES_FILE"))
	setIfNotEmpty(&config.Catalog.PortfolioFile, os.Getenv("PORTFOLIO_FILE"))
	setIfNotEmpty(&config.Catalog.CSVSeparator, os.Getenv("CSV_SEPARATOR"))
	setIfNotEmpty(&config.Catalog.PostgresDSN, os.Getenv("POSTGRES_DSN"))

	setIfNotEmpty(&config.HTTPAddr, os.Getenv("HTTP_ADDR"))
	setIfNotEmpty(&config.LogLevel, os.Getenv("LOG_LEVEL"))
	setIfNotEmpty(&config.LogFormat, os.Getenv("LOG_FORMAT"))
}

func setIfNotEmpty(dst *string, value string) {
	if v := strings.TrimSpace(value); v != "" {
		*dst = v
	}
}

func getenvAny(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}

func getEnvInt(key string, defaultValue int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvBool(key string, defaultValue bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	switch strings.ToLower(value) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return defaultValue
	}
}
