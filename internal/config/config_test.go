package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const sampleYAML = `
server:
  port: 9000

postgres:
  host: db.local
  db: fintrack
  username: svc
  password: pass

auth:
  jwt-secret: super-secret
  token-ttl-seconds: 60
`

func Test_OnParseConfig_ShouldExposeAllSections(t *testing.T) {
	var c config
	require.NoError(t, yaml.Unmarshal([]byte(sampleYAML), &c))
	s := &Service{config: c}

	assert.Equal(t, 9000, s.Server().Port())

	assert.True(t, s.Postgres().Enabled())
	assert.Equal(t, "db.local", s.Postgres().Host())
	assert.Equal(t, "fintrack", s.Postgres().Database())
	assert.Equal(t, "svc", s.Postgres().Username())
	assert.Equal(t, "pass", s.Postgres().Password())

	assert.Equal(t, "super-secret", s.Auth().Secret())
	assert.Equal(t, time.Minute, s.Auth().TokenTTL())
}

func Test_OnEmptyConfig_ShouldFallBackToDefaults(t *testing.T) {
	s := &Service{}

	assert.Equal(t, 8000, s.Server().Port())
	assert.Equal(t, time.Hour, s.Auth().TokenTTL())
	assert.False(t, s.Postgres().Enabled())
}

func Test_OnSecretEnvSet_ShouldOverrideFile(t *testing.T) {
	t.Setenv("JWT_SECRET", "from-env")

	s := &Service{config: config{Auth: AuthConfig{JWTSecret: "from-file"}}}
	assert.Equal(t, "from-env", s.Auth().Secret())
}
