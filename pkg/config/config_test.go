package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCSV(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "empty", in: "", want: nil},
		{name: "single", in: "kafka:9092", want: []string{"kafka:9092"}},
		{name: "trims and skips blanks", in: " a:1 , ,b:2,", want: []string{"a:1", "b:2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CSV(tt.in))
		})
	}
}

func TestEnvDefaults(t *testing.T) {
	t.Setenv("HS_STR", "value")
	t.Setenv("HS_INT", "42")
	t.Setenv("HS_BAD_INT", "forty-two")
	t.Setenv("HS_DUR", "45s")
	t.Setenv("HS_BAD_DUR", "-3s")

	assert.Equal(t, "value", EnvDefault("HS_STR", "def"))
	assert.Equal(t, "def", EnvDefault("HS_MISSING", "def"))

	assert.Equal(t, 42, EnvIntDefault("HS_INT", 7))
	assert.Equal(t, 7, EnvIntDefault("HS_BAD_INT", 7))
	assert.Equal(t, 7, EnvIntDefault("HS_MISSING", 7))

	assert.Equal(t, 45*time.Second, EnvDurationDefault("HS_DUR", time.Second))
	assert.Equal(t, time.Second, EnvDurationDefault("HS_BAD_DUR", time.Second))
	assert.Equal(t, time.Second, EnvDurationDefault("HS_MISSING", time.Second))
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg := Load()
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "pgx", cfg.DBDriver)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
}
