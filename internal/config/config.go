// Package config reads server settings from flags, falling back to
// environment variables and then to defaults.
package config

import (
	"flag"
	"fmt"
	"os"
	"time"
)

type Config struct {
	Addr          string
	AllowOrigins  string
	Clock         time.Duration
	MatchInterval time.Duration
}

func Default() Config {
	return Config{
		Addr:          ":3000",
		AllowOrigins:  "http://localhost:5173",
		Clock:         10 * time.Minute,
		MatchInterval: time.Second,
	}
}

// Load parses args (without the program name) over env and default values.
func Load(args []string) (Config, error) {
	def := Default()
	fs := flag.NewFlagSet("server", flag.ContinueOnError)

	addr := fs.String("addr", getenv("CHESS_ADDR", def.Addr), "listen address")
	origins := fs.String("origins", getenv("CHESS_ALLOW_ORIGINS", def.AllowOrigins), "comma-separated CORS origins")
	clock := fs.String("clock", getenv("CHESS_CLOCK", def.Clock.String()), "per-side clock, e.g. 10m")
	interval := fs.String("match-interval", getenv("CHESS_MATCH_INTERVAL", def.MatchInterval.String()), "matchmaking tick")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg := Config{Addr: *addr, AllowOrigins: *origins}
	var err error
	if cfg.Clock, err = positiveDuration("clock", *clock); err != nil {
		return Config{}, err
	}
	if cfg.MatchInterval, err = positiveDuration("match-interval", *interval); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func positiveDuration(name, v string) (time.Duration, error) {
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s: must be positive, got %s", name, v)
	}
	return d, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
