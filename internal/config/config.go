package config

import "time"

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	DatabaseURL string `env:"DATABASE_URL"`

	Session Session `envPrefix:"SESSION_"`
	Payment Payment `envPrefix:"PAYMENT_"`
	Catalog Catalog `envPrefix:"CATALOG_"`
	Cache   Cache   `envPrefix:"CACHE_"`
	Pricing Pricing `envPrefix:"PRICING_"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}

type Session struct {
	Secret     string        `env:"SECRET"`
	CookieName string        `env:"COOKIE_NAME" envDefault:"storefront_session"`
	TTL        time.Duration `env:"TTL" envDefault:"72h"`
}

type Payment struct {
	BaseApiURL    string `env:"BASE_API_URL"`
	SecretKey     string `env:"SECRET_KEY"`
	WebhookSecret string `env:"WEBHOOK_SECRET"`
}

type Catalog struct {
	BaseURL string `env:"BASE_URL"`
}

type Cache struct {
	DefaultTTL    time.Duration `env:"DEFAULT_TTL" envDefault:"5m"`
	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"1m"`

	// per-resource TTLs; category lists change rarely, search results go stale fast
	CategoryTTL time.Duration `env:"CATEGORY_TTL" envDefault:"1h"`
	ListTTL     time.Duration `env:"LIST_TTL" envDefault:"2m"`
	DetailTTL   time.Duration `env:"DETAIL_TTL" envDefault:"10m"`
	SearchTTL   time.Duration `env:"SEARCH_TTL" envDefault:"1m"`
}

type Pricing struct {
	// TaxRateBps is the flat tax rate in basis points (1000 = 10%).
	TaxRateBps    int64  `env:"TAX_RATE_BPS" envDefault:"1000"`
	ShippingCents int64  `env:"SHIPPING_CENTS" envDefault:"0"`
	Currency      string `env:"CURRENCY" envDefault:"usd"`
}
