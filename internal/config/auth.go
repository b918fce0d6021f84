package config

import (
	"os"
	"time"
)

const (
	defaultTTLSeconds = 3600

	// secret can be supplied via env to keep it out of the config file
	secretEnvKey = "JWT_SECRET"
)

type AuthConfig struct {
	JWTSecret  string `yaml:"jwt-secret"`
	TTLSeconds int64  `yaml:"token-ttl-seconds"`
}

func (s *AuthConfig) Secret() string {
	if env := os.Getenv(secretEnvKey); env != "" {
		return env
	}
	return s.JWTSecret
}

func (s *AuthConfig) TokenTTL() time.Duration {
	ttl := s.TTLSeconds
	if ttl == 0 {
		ttl = defaultTTLSeconds
	}
	return time.Duration(ttl) * time.Second
}
