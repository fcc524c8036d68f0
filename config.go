package main

import (
	"strconv"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

// Config is the process configuration, read from API_* environment variables
// (optionally via a .env file).
type Config struct {
	Host        string `default:"0.0.0.0"`
	Port        int    `default:"5000"`
	Debug       bool   `default:"false"`
	DefaultPins string `envconfig:"DEFAULT_PINS"`
}

func loadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("api", &cfg)
	return cfg, err
}

// parsePinList splits a comma-separated pin list. Malformed entries are
// logged and skipped; a bad DEFAULT_PINS value must never prevent startup.
func parsePinList(raw string, log *logrus.Entry) []int {
	var pins []int
	for _, field := range strings.Split(raw, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		pin, err := strconv.Atoi(field)
		if err != nil {
			log.WithField("entry", field).Warn("skipping unparseable default pin")
			continue
		}
		pins = append(pins, pin)
	}
	return pins
}
