package config

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Store drivers.
const (
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

// Config stores agent settings.
type Config struct {
	Port      int
	LogLevel  string
	Backend   Backend
	Device    Device
	Location  Location
	Offer     Offer
	Store     Store
	Kafka     Kafka
	RateLimit RateLimit
	Pprof     Pprof
}

// Retry describes a retry policy with capped exponential backoff.
type Retry struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// Backend is the courier REST backend.
type Backend struct {
	BaseURL string
	Timeout time.Duration
	Retry   Retry
}

// Device is the device bridge exposing OS location APIs.
type Device struct {
	BridgeURL   string
	TierTimeout time.Duration
	// Fixed, when set, replaces the bridge with a constant position (lat,lon).
	Fixed string
}

// Location tunes the acquisition cascade and the tracker.
type Location struct {
	Freshness         time.Duration
	MaxCachedAccuracy float64
	Interval          time.Duration
	WatchdogWindow    time.Duration
	WatchdogCheck     time.Duration
	MinDistance       float64
	EscalateAfter     int
}

// Offer tunes the order offer state machine.
type Offer struct {
	DecisionWindow    time.Duration
	CollapseThreshold float64
}

// DB is a postgres connection.
type DB struct {
	Host string
	Port string
	User string
	Pass string
	Name string
}

// DSN builds a pgx connection string.
func (d DB) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Pass),
		Host:     d.Host + ":" + d.Port,
		Path:     "/" + d.Name,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// Store selects the local persistence backend.
type Store struct {
	Driver     string
	SQLitePath string
	DB         DB
}

// Kafka is the push notification bus. Empty brokers disable the consumer.
type Kafka struct {
	Brokers []string
	GroupID string
	Topic   string
}

// RateLimit configures the HTTP rate limiter.
type RateLimit struct {
	Enabled    bool
	Rate       float64
	Burst      int
	TTL        time.Duration
	MaxBuckets int
}

// Pprof configures the optional profiling server.
type Pprof struct {
	Enabled bool
	Addr    string
	User    string
	Pass    string
}

// Load reads configuration in order: .env (if present) → config file → environment → flags.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: .env not loaded: %v", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	fs := pflag.CommandLine
	if fs.Lookup("port") == nil {
		fs.IntP("port", "p", defaultPort, "port to listen on")
	}
	if fs.Lookup("config") == nil {
		fs.String("config", "", "path to a config file (yaml, json, toml)")
	}
	if err := fs.Parse(os.Args[1:]); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}
	if err := v.BindPFlag("port", fs.Lookup("port")); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}

	if path, _ := fs.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := fromViper(v)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", defaultPort)
	v.SetDefault("log.level", defaultLogLevel)

	v.SetDefault("backend.base_url", defaultBackend.BaseURL)
	v.SetDefault("backend.timeout", defaultBackend.Timeout)
	v.SetDefault("backend.retry.max_attempts", defaultBackend.Retry.MaxAttempts)
	v.SetDefault("backend.retry.base_delay", defaultBackend.Retry.BaseDelay)
	v.SetDefault("backend.retry.max_delay", defaultBackend.Retry.MaxDelay)

	v.SetDefault("device.bridge_url", defaultDevice.BridgeURL)
	v.SetDefault("device.tier_timeout", defaultDevice.TierTimeout)
	v.SetDefault("device.fixed", "")

	v.SetDefault("location.freshness", defaultLocation.Freshness)
	v.SetDefault("location.max_cached_accuracy", defaultLocation.MaxCachedAccuracy)
	v.SetDefault("location.interval", defaultLocation.Interval)
	v.SetDefault("location.watchdog_window", defaultLocation.WatchdogWindow)
	v.SetDefault("location.watchdog_check", defaultLocation.WatchdogCheck)
	v.SetDefault("location.min_distance", defaultLocation.MinDistance)
	v.SetDefault("location.escalate_after", defaultLocation.EscalateAfter)

	v.SetDefault("offer.decision_window", defaultOffer.DecisionWindow)
	v.SetDefault("offer.collapse_threshold", defaultOffer.CollapseThreshold)

	v.SetDefault("store.driver", defaultStore.Driver)
	v.SetDefault("store.sqlite_path", defaultStore.SQLitePath)
	v.SetDefault("postgres.host", defaultStore.DB.Host)
	v.SetDefault("postgres.port", defaultStore.DB.Port)
	v.SetDefault("postgres.user", defaultStore.DB.User)
	v.SetDefault("postgres.password", defaultStore.DB.Pass)
	v.SetDefault("postgres.db", defaultStore.DB.Name)

	v.SetDefault("kafka.brokers", "")
	v.SetDefault("kafka.group_id", "courier-agent")
	v.SetDefault("kafka.topic", "")

	v.SetDefault("rate_limit.enabled", defaultRateLimit.Enabled)
	v.SetDefault("rate_limit.rate", defaultRateLimit.Rate)
	v.SetDefault("rate_limit.burst", defaultRateLimit.Burst)
	v.SetDefault("rate_limit.ttl", defaultRateLimit.TTL)
	v.SetDefault("rate_limit.max_buckets", defaultRateLimit.MaxBuckets)

	v.SetDefault("pprof.enabled", false)
	v.SetDefault("pprof.addr", defaultPprof.Addr)
	v.SetDefault("pprof.user", "")
	v.SetDefault("pprof.pass", "")
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Port:     v.GetInt("port"),
		LogLevel: v.GetString("log.level"),
		Backend: Backend{
			BaseURL: strings.TrimRight(strings.TrimSpace(v.GetString("backend.base_url")), "/"),
			Timeout: v.GetDuration("backend.timeout"),
			Retry: Retry{
				MaxAttempts: v.GetInt("backend.retry.max_attempts"),
				BaseDelay:   v.GetDuration("backend.retry.base_delay"),
				MaxDelay:    v.GetDuration("backend.retry.max_delay"),
			},
		},
		Device: Device{
			BridgeURL:   strings.TrimRight(strings.TrimSpace(v.GetString("device.bridge_url")), "/"),
			TierTimeout: v.GetDuration("device.tier_timeout"),
			Fixed:       strings.TrimSpace(v.GetString("device.fixed")),
		},
		Location: Location{
			Freshness:         v.GetDuration("location.freshness"),
			MaxCachedAccuracy: v.GetFloat64("location.max_cached_accuracy"),
			Interval:          v.GetDuration("location.interval"),
			WatchdogWindow:    v.GetDuration("location.watchdog_window"),
			WatchdogCheck:     v.GetDuration("location.watchdog_check"),
			MinDistance:       v.GetFloat64("location.min_distance"),
			EscalateAfter:     v.GetInt("location.escalate_after"),
		},
		Offer: Offer{
			DecisionWindow:    v.GetDuration("offer.decision_window"),
			CollapseThreshold: v.GetFloat64("offer.collapse_threshold"),
		},
		Store: Store{
			Driver:     strings.ToLower(strings.TrimSpace(v.GetString("store.driver"))),
			SQLitePath: v.GetString("store.sqlite_path"),
			DB: DB{
				Host: v.GetString("postgres.host"),
				Port: v.GetString("postgres.port"),
				User: v.GetString("postgres.user"),
				Pass: v.GetString("postgres.password"),
				Name: v.GetString("postgres.db"),
			},
		},
		Kafka: Kafka{
			Brokers: splitList(v.GetString("kafka.brokers")),
			GroupID: strings.TrimSpace(v.GetString("kafka.group_id")),
			Topic:   strings.TrimSpace(v.GetString("kafka.topic")),
		},
		RateLimit: RateLimit{
			Enabled:    v.GetBool("rate_limit.enabled"),
			Rate:       v.GetFloat64("rate_limit.rate"),
			Burst:      v.GetInt("rate_limit.burst"),
			TTL:        v.GetDuration("rate_limit.ttl"),
			MaxBuckets: v.GetInt("rate_limit.max_buckets"),
		},
		Pprof: Pprof{
			Enabled: v.GetBool("pprof.enabled"),
			Addr:    v.GetString("pprof.addr"),
			User:    v.GetString("pprof.user"),
			Pass:    v.GetString("pprof.pass"),
		},
	}
}

func (c *Config) validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid port: %d", c.Port))
	}
	if c.Backend.BaseURL == "" {
		errs = append(errs, errors.New("backend base url is empty"))
	}
	durations := map[string]time.Duration{
		"backend timeout":          c.Backend.Timeout,
		"device tier timeout":      c.Device.TierTimeout,
		"location freshness":       c.Location.Freshness,
		"location interval":        c.Location.Interval,
		"location watchdog window": c.Location.WatchdogWindow,
		"location watchdog check":  c.Location.WatchdogCheck,
		"offer decision window":    c.Offer.DecisionWindow,
	}
	for name, d := range durations {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("invalid %s: %s", name, d))
		}
	}
	if c.Backend.Retry.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("invalid backend retry attempts: %d", c.Backend.Retry.MaxAttempts))
	}
	switch c.Store.Driver {
	case StoreSQLite:
		if strings.TrimSpace(c.Store.SQLitePath) == "" {
			errs = append(errs, errors.New("sqlite path is empty"))
		}
	case StorePostgres:
	default:
		errs = append(errs, fmt.Errorf("unknown store driver: %q", c.Store.Driver))
	}
	return errors.Join(errs...)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
