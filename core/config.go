package core

import (
	"strings"

	"github.com/goliatone/go-usersig/codec"
	"github.com/goliatone/go-usersig/sigerr"
)

type Config struct {
	ServiceName          string `koanf:"service_name" mapstructure:"service_name"`
	Version              string `koanf:"version" mapstructure:"version"`
	DefaultExpireSeconds int64  `koanf:"default_expire_seconds" mapstructure:"default_expire_seconds"`
	MaxPayloadBytes      int    `koanf:"max_payload_bytes" mapstructure:"max_payload_bytes"`
}

func DefaultConfig() Config {
	return Config{
		ServiceName:          "usersig",
		Version:              ProtocolVersion,
		DefaultExpireSeconds: int64(DefaultExpireAfter.Seconds()),
		MaxPayloadBytes:      codec.DefaultDecompressLimit,
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.ServiceName) == "" {
		return sigerr.New(sigerr.TextCodeBadInput, "core: service_name is required")
	}
	if strings.TrimSpace(c.Version) == "" {
		return sigerr.New(sigerr.TextCodeBadInput, "core: version is required")
	}
	if c.DefaultExpireSeconds <= 0 {
		return sigerr.New(sigerr.TextCodeBadInput, "core: default_expire_seconds must be positive")
	}
	if c.MaxPayloadBytes <= 0 {
		return sigerr.New(sigerr.TextCodeBadInput, "core: max_payload_bytes must be positive")
	}
	return nil
}
