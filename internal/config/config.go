// Package config defines service configuration structures and loading hooks.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// OwnerAddress is the platform operator: the only caller allowed to
	// extend the scoring-function registry and the skill catalog.
	OwnerAddress string `koanf:"owner_address"`

	// JWTSecret signs the bearer tokens binding addresses to accounts.
	JWTSecret string `koanf:"jwt_secret"`

	// TokenTTLMinutes bounds the lifetime of issued bearer tokens.
	TokenTTLMinutes int `koanf:"token_ttl_minutes"`

	// Skills seeds the skill catalog at startup.
	Skills []string `koanf:"skills"`
}

// New creates a Config with defaults. The skill seeds mirror the catalog the
// platform ships with.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		Addr:            ":9090",
		OwnerAddress:    "0xalice",
		JWTSecret:       "change-me",
		TokenTTLMinutes: 12 * 60,
		Skills:          []string{"Vegetarian", "Meat", "Sushi", "Fish"},
	}
}
