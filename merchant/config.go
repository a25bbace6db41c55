package merchant

import "github.com/alovak/bacgateway/gateway"

// Config is a configuration for the merchant application
type Config struct {
	HTTPAddr string
	// RepoBackend selects the journal store: "pg" or "mem".
	RepoBackend string
	DBDSN       string
	// NATSURL enables result events when set.
	NATSURL string
	// ExpiryTZ is an IANA timezone name used for card expiry checks.
	ExpiryTZ string
	Gateway  *gateway.Config
}

func DefaultConfig() *Config {
	return &Config{
		HTTPAddr:    "localhost:9090",
		RepoBackend: "mem",
		Gateway:     gateway.DefaultConfig(),
	}
}
