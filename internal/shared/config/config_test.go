package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_HOST", "")
	t.Setenv("JWT_ACCESS_TTL", "")

	cfg := Load()

	assert.Equal(t, "localhost", cfg.DB.Host)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTTL)
	assert.Equal(t, "3000", cfg.Port)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("KAFKA_BROKER", "kafka-1:9092, kafka-2:9092")
	t.Setenv("OUTBOX_POLL_INTERVAL", "5")
	t.Setenv("DB_AUTO_MIGRATE", "true")
	t.Setenv("APP_ENV", "production")

	cfg := Load()

	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 5*time.Second, cfg.Kafka.PollInterval)
	assert.True(t, cfg.DB.AutoMigrate)
	assert.True(t, cfg.IsProduction())
}

func TestAttendanceConfig_Location(t *testing.T) {
	t.Setenv("ATTENDANCE_TIMEZONE", "Asia/Jakarta")

	cfg := Load()

	assert.Equal(t, "Asia/Jakarta", cfg.Attendance.Location().String())
	assert.Equal(t, 555, cfg.Attendance.LateAfter)

	bad := AttendanceConfig{Timezone: "Mars/Olympus"}
	assert.Equal(t, time.UTC, bad.Location())
}
