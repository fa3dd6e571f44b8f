package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInitFromEnv(t *testing.T) {
	t.Setenv("SERVER_ADDR", ":9999")
	t.Setenv("DATABASE_URL", "sqlite://dev.db")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("FEED_PAGE_SIZE", "25")
	t.Setenv("KAFKA_BROKER", "kafka:9092")

	cfg := Init()
	assert.Equal(t, ":9999", cfg.ServerAddr)
	assert.Equal(t, "sqlite://dev.db", cfg.DatabaseURL)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, 2*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 25, cfg.FeedPageSize)
	assert.Equal(t, "kafka:9092", cfg.KafkaBroker)
	assert.Equal(t, "activity", cfg.KafkaTopic)
	assert.Same(t, cfg, Get())
}

func TestInitBadDurationFallsBack(t *testing.T) {
	t.Setenv("JWT_TTL", "soon")
	t.Setenv("KAFKA_WRITE_TIMEOUT", "")

	cfg := Init()
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 10*time.Second, cfg.KafkaWriteTO)
}
