package issuer

import "time"

// Config controls the issuance flow.
type Config struct {
	// Polling. MaxAttempts and Timeout both bound the loop; zero disables
	// that one bound, and New restores both defaults when both are zero.
	// Unbounded ignores both and polls until issuance or context cancellation.
	PollInterval    time.Duration `env:"ISSUER_POLL_INTERVAL" envDefault:"2s"`
	PollMaxAttempts int           `env:"ISSUER_POLL_MAX_ATTEMPTS" envDefault:"150"`
	PollTimeout     time.Duration `env:"ISSUER_POLL_TIMEOUT" envDefault:"10m"`
	PollUnbounded   bool          `env:"ISSUER_POLL_UNBOUNDED" envDefault:"false"`

	// ChallengeAddr is where the validation server listens. Request.Port
	// replaces its port when set.
	ChallengeAddr string `env:"ISSUER_CHALLENGE_ADDR" envDefault:":80"`

	KeyBits int `env:"ISSUER_KEY_BITS" envDefault:"2048"`

	// Literal prefixes and suffixes stripped from requested domains.
	StripSchemes []string `env:"ISSUER_STRIP_SCHEMES" envDefault:"https://" envSeparator:","`
	StripPorts   []string `env:"ISSUER_STRIP_PORTS" envDefault:":3001" envSeparator:","`
}

// DefaultConfig returns the defaults used when loading from the environment.
func DefaultConfig() Config {
	return Config{
		PollInterval:    2 * time.Second,
		PollMaxAttempts: 150,
		PollTimeout:     10 * time.Minute,
		ChallengeAddr:   ":80",
		KeyBits:         2048,
		StripSchemes:    DefaultNormalization.Schemes,
		StripPorts:      DefaultNormalization.PortSuffixes,
	}
}
