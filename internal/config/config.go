package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"

	"printstore/internal/pricing"
)

type Config struct {
	Port            string        `envconfig:"PORT" default:"8080"`
	GinMode         string        `envconfig:"GIN_MODE" default:"release"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`

	MySQLUser        string        `envconfig:"MYSQL_USER" default:"root"`
	MySQLPassword    string        `envconfig:"MYSQL_PASSWORD"`
	MySQLHost        string        `envconfig:"MYSQL_HOST" default:"localhost"`
	MySQLPort        string        `envconfig:"MYSQL_PORT" default:"3306"`
	MySQLDatabase    string        `envconfig:"MYSQL_DATABASE" default:"printstore"`
	MySQLMaxOpen     int           `envconfig:"MYSQL_MAX_OPEN_CONNS" default:"100"`
	MySQLMaxIdle     int           `envconfig:"MYSQL_MAX_IDLE_CONNS" default:"20"`
	MySQLMaxLifetime time.Duration `envconfig:"MYSQL_CONN_MAX_LIFETIME" default:"5m"`
	MySQLMaxIdleTime time.Duration `envconfig:"MYSQL_CONN_MAX_IDLE_TIME" default:"1m"`
	MySQLAutoMigrate bool          `envconfig:"MYSQL_AUTO_MIGRATE" default:"true"`

	RedisAddr     string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisDB       int           `envconfig:"REDIS_DB" default:"0"`
	QuoteCacheTTL time.Duration `envconfig:"VARIANT_QUOTE_TTL" default:"1m"`

	RabbitMQURL   string `envconfig:"RABBITMQ_URL"`
	OrderExchange string `envconfig:"ORDER_EXCHANGE" default:"order.exchange"`

	JWTSecret string `envconfig:"JWT_SECRET"`

	FlatShippingFee string `envconfig:"PRICING_FLAT_SHIPPING_FEE" default:"50000"`
	TaxRate         string `envconfig:"PRICING_TAX_RATE" default:"0.06"`
	DiscountBase    string `envconfig:"PRICING_DISCOUNT_BASE" default:"TAX_BASE"`

	OrderUpdateMaxAttempts int `envconfig:"ORDER_UPDATE_MAX_ATTEMPTS" default:"3"`

	VNPayTmnCode    string `envconfig:"VNPAY_TMN_CODE"`
	VNPayHashSecret string `envconfig:"VNPAY_HASH_SECRET"`
	VNPayPayURL     string `envconfig:"VNPAY_PAY_URL" default:"https://sandbox.vnpayment.vn/paymentv2/vpcpay.html"`
	VNPayReturnURL  string `envconfig:"VNPAY_RETURN_URL"`
	VNPayLocale     string `envconfig:"VNPAY_LOCALE" default:"vn"`
}

// Load reads an optional .env file, then the process environment. Secrets
// can be mounted as files through the matching *_FILE variable.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	secrets := []struct {
		fileKey string
		target  *string
	}{
		{"MYSQL_PASSWORD_FILE", &cfg.MySQLPassword},
		{"JWT_SECRET_FILE", &cfg.JWTSecret},
		{"VNPAY_HASH_SECRET_FILE", &cfg.VNPayHashSecret},
	}
	for _, s := range secrets {
		if err := readSecretFile(s.fileKey, s.target); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func readSecretFile(fileKey string, target *string) error {
	path := os.Getenv(fileKey)
	if path == "" {
		return nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", fileKey, err)
	}
	*target = strings.TrimSpace(string(content))
	return nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.OrderUpdateMaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("ORDER_UPDATE_MAX_ATTEMPTS must be >= 1, got %d", c.OrderUpdateMaxAttempts))
	}
	if _, err := c.Policy(); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Policy builds the pricing policy from the PRICING_* variables.
func (c *Config) Policy() (pricing.Policy, error) {
	fee, err := decimal.NewFromString(c.FlatShippingFee)
	if err != nil {
		return pricing.Policy{}, fmt.Errorf("PRICING_FLAT_SHIPPING_FEE: %w", err)
	}
	rate, err := decimal.NewFromString(c.TaxRate)
	if err != nil {
		return pricing.Policy{}, fmt.Errorf("PRICING_TAX_RATE: %w", err)
	}

	p := pricing.Policy{
		FlatShippingFee: fee,
		TaxRate:         rate,
		DiscountBase:    pricing.DiscountBase(strings.ToUpper(c.DiscountBase)),
	}
	if err := p.Validate(); err != nil {
		return pricing.Policy{}, err
	}
	return p, nil
}

func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		c.MySQLUser, c.MySQLPassword, c.MySQLHost, c.MySQLPort, c.MySQLDatabase)
}

func (c *Config) VNPayEnabled() bool {
	return c.VNPayTmnCode != "" && c.VNPayHashSecret != ""
}
