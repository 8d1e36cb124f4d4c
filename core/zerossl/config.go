package zerossl

import "time"

// DefaultBaseURL is the public ZeroSSL REST endpoint.
const DefaultBaseURL = "https://api.zerossl.com"

// DefaultValidityDays is the certificate lifetime requested from the CA.
const DefaultValidityDays = 90

// Config holds CA client settings.
type Config struct {
	BaseURL      string        `env:"ZEROSSL_API_URL" envDefault:"https://api.zerossl.com"`
	APIKey       string        `env:"ZEROSSL_API_KEY"`
	ValidityDays int           `env:"ZEROSSL_VALIDITY_DAYS" envDefault:"90"`
	HTTPTimeout  time.Duration `env:"ZEROSSL_HTTP_TIMEOUT" envDefault:"30s"`
}
