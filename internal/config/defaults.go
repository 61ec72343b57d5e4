package config

import "time"

const defaultPort = 8080

const defaultLogLevel = "info"

var defaultBackend = Backend{
	BaseURL: "https://api.tibetskayacrm.kz",
	Timeout: 30 * time.Second,
	Retry: Retry{
		MaxAttempts: 4,
		BaseDelay:   150 * time.Millisecond,
		MaxDelay:    2 * time.Second,
	},
}

var defaultDevice = Device{
	BridgeURL:   "http://127.0.0.1:8765",
	TierTimeout: 15 * time.Second,
}

var defaultLocation = Location{
	Freshness:         10 * time.Minute,
	MaxCachedAccuracy: 1000,
	Interval:          5 * time.Minute,
	WatchdogWindow:    7 * time.Minute,
	WatchdogCheck:     time.Minute,
	MinDistance:       50,
	EscalateAfter:     3,
}

var defaultOffer = Offer{
	DecisionWindow:    20 * time.Second,
	CollapseThreshold: 50,
}

var defaultStore = Store{
	Driver:     StoreSQLite,
	SQLitePath: "courier-agent.db",
	DB: DB{
		Host: "127.0.0.1",
		Port: "5432",
		User: "myuser",
		Pass: "mypassword",
		Name: "courier_agent",
	},
}

var defaultRateLimit = RateLimit{
	Enabled:    true,
	Rate:       20,
	Burst:      40,
	TTL:        10 * time.Minute,
	MaxBuckets: 1024,
}

var defaultPprof = Pprof{
	Addr: "127.0.0.1:6060",
}

// DefaultPort returns the default port.
func DefaultPort() int {
	return defaultPort
}

// DefaultBackend returns the default backend settings.
func DefaultBackend() Backend {
	return defaultBackend
}

// DefaultDevice returns the default device bridge settings.
func DefaultDevice() Device {
	return defaultDevice
}

// DefaultLocation returns the default location engine settings.
func DefaultLocation() Location {
	return defaultLocation
}

// DefaultOffer returns the default offer settings.
func DefaultOffer() Offer {
	return defaultOffer
}

// DefaultStore returns the default store settings.
func DefaultStore() Store {
	return defaultStore
}
