package defs

import (
	"time"

	"go.uber.org/zap"
)

const DefaultDB = "snoreguard"

// Intervals.
const (
	FetchInterval    = 1 * time.Minute
	UpdaterInterval  = 1 * time.Minute
	AnalyzerInterval = 5 * time.Minute
	TimeoutInterval  = 2 * time.Second
)

// Channels.
const (
	AlertsChannel  = "alerts"
	ReportsChannel = "reports"
)

type Config struct {
	API      APIConfig     `yaml:"api"`
	Discord  DiscordConfig `yaml:"discord"`
	Mongo    MongoConfig   `yaml:"mongo"`
	Redis    RedisConfig   `yaml:"redis"`
	Alerts   AlertsConfig  `yaml:"alerts"`
	HTTPAddr string        `yaml:"httpAddress"`
	Timezone string        `yaml:"timezone"`
	Logger   *zap.Logger   `yaml:"_,omitempty"`
}

type APIConfig struct {
	BaseURL string `yaml:"baseUrl"`
}

type DiscordConfig struct {
	Token string `yaml:"token"`
	Guild string `yaml:"guild"`
}

type MongoConfig struct {
	URI      string `yaml:"uri"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type RedisConfig struct {
	Addr     string `yaml:"address"`
	Password string `yaml:"password"`
}

type AlertsConfig struct {
	SnoringRate int     `yaml:"snoringRate"` // Alert at or above, 0-100.
	AHI         float64 `yaml:"ahi"`         // Alert at or above events/hour.
}
