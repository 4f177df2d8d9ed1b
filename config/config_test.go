package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", "templates.db")
	t.Setenv("TEMPLATE_HOME", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "4242", cfg.HTTPPort)
	assert.Equal(t, "@hourly", cfg.SweepSchedule)
	assert.Equal(t, time.Hour, cfg.SweepGrace)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 5432, cfg.DBPort)
}

func TestLoadRejectsZeroSweepGrace(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("TEMPLATE_HOME", t.TempDir())
	t.Setenv("SWEEP_GRACE", "0s")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRequiresTemplateHome(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("TEMPLATE_HOME", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := Config{
		DBDriver:     DriverPostgres,
		DBHost:       "localhost",
		DBUser:       "templates",
		DBName:       "templates",
		TemplateHome: "/var/lib/mrrt",
		SweepGrace:   time.Hour,
		LogLevel:     "info",
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		modify func(c *Config)
	}{
		{"unknown driver", func(c *Config) { c.DBDriver = "mysql" }},
		{"postgres without host", func(c *Config) { c.DBHost = "" }},
		{"sqlite without path", func(c *Config) { c.DBDriver = DriverSQLite; c.DBPath = "" }},
		{"no template home", func(c *Config) { c.TemplateHome = "" }},
		{"negative grace", func(c *Config) { c.SweepGrace = -time.Minute }},
		{"zero grace", func(c *Config) { c.SweepGrace = 0 }},
		{"grace below minimum", func(c *Config) { c.SweepGrace = time.Second }},
		{"unknown log level", func(c *Config) { c.LogLevel = "verbose" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.modify(&c)
			assert.Error(t, c.Validate())
		})
	}

	sqlite := Config{DBDriver: DriverSQLite, DBPath: "x.db", TemplateHome: "/tmp/t", SweepGrace: MinSweepGrace, LogLevel: "debug"}
	assert.NoError(t, sqlite.Validate())
}

func TestDSN(t *testing.T) {
	c := Config{DBHost: "db", DBUser: "u", DBPassword: "p", DBName: "n", DBPort: 5433}
	assert.Equal(t, "host=db user=u password=p dbname=n port=5433 sslmode=disable", c.DSN())
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger("debug")
	require.NoError(t, err)
	assert.NotNil(t, logger)

	_, err = NewLogger("loud")
	assert.Error(t, err)
}
