package main

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	APIURL string `envconfig:"DM_API_URL" default:"http://localhost:8080"`
	Token  string `envconfig:"DM_TOKEN" required:"true"`
	// POLL_INTERVAL re-pulls the list and the open transcript; zero disables polling
	PollInterval    time.Duration `envconfig:"POLL_INTERVAL" default:"0s"`
	RequestTimeout  time.Duration `envconfig:"REQUEST_TIMEOUT" default:"5s"`
	TranscriptLimit int           `envconfig:"TRANSCRIPT_LIMIT" default:"50"`
	Colours         bool          `envconfig:"DM_COLOURS" default:"true"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"WARN"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
