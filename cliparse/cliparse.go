package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port              int
	BackendURL        string
	DatabaseURL       string
	DatabaseType      string
	UpstreamTimeoutMS int
	StreamDelayMS     int
}

// ParseFlags validates flags with env-variable fallback
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("khobor-relay", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.BackendURL, "b", "", "Answer backend base URL")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Tuning knobs
	fs.IntVar(&cfg.UpstreamTimeoutMS, "upstream-timeout", 0, "Upstream call timeout in ms")
	fs.IntVar(&cfg.StreamDelayMS, "stream-delay", -1, "Synthesized stream pacing delay in ms")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 4117 // default
		}
	}

	if cfg.BackendURL == "" {
		cfg.BackendURL = os.Getenv("BACKEND_URL")
	}
	if cfg.BackendURL == "" {
		return Config{}, errors.New("backend URL required (use -b or BACKEND_URL env)")
	}
	cfg.BackendURL = strings.TrimRight(cfg.BackendURL, "/")

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "file:khobor.db"
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, errors.New("database type must be sqlite or postgres")
	}

	if cfg.UpstreamTimeoutMS == 0 {
		if s := os.Getenv("UPSTREAM_TIMEOUT_MS"); s != "" {
			v, err := strconv.Atoi(s)
			if err != nil {
				return Config{}, errors.New("invalid UPSTREAM_TIMEOUT_MS env variable")
			}
			cfg.UpstreamTimeoutMS = v
		} else {
			cfg.UpstreamTimeoutMS = 30000
		}
	}

	if cfg.StreamDelayMS < 0 {
		if s := os.Getenv("STREAM_DELAY_MS"); s != "" {
			v, err := strconv.Atoi(s)
			if err != nil {
				return Config{}, errors.New("invalid STREAM_DELAY_MS env variable")
			}
			cfg.StreamDelayMS = v
		} else {
			cfg.StreamDelayMS = 50
		}
	}

	return cfg, nil
}
