package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
)

type config struct {
	Device   string
	LogLevel zerolog.Level
}

func defaultConfig() config {
	return config{
		Device:   "platform:/dev/i2c-1:0x68",
		LogLevel: zerolog.InfoLevel,
	}
}

type fileConfig struct {
	Device   string `toml:"device"`
	LogLevel string `toml:"log_level"`
}

func loadConfig(path string) (config, error) {
	cfg := defaultConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return config{}, fmt.Errorf("load config: %w", err)
	}

	if meta.IsDefined("device") {
		device := strings.TrimSpace(raw.Device)
		if device != "" {
			cfg.Device = device
		}
	}

	if meta.IsDefined("log_level") {
		level, err := zerolog.ParseLevel(strings.TrimSpace(raw.LogLevel))
		if err != nil {
			return config{}, fmt.Errorf("parse log_level: %w", err)
		}
		cfg.LogLevel = level
	}

	return cfg, nil
}
