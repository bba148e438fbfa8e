package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv string
	Port   string

	DB         DBConfig
	Redis      RedisConfig
	Kafka      KafkaConfig
	JWT        JWTConfig
	Storage    StorageConfig
	Server     ServerConfig
	Payroll    PayrollConfig
	Attendance AttendanceConfig
	Seed       SeedConfig
	LogLevel   string
}

type DBConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxRetries      int
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
}

type RedisConfig struct {
	Addr       string
	Password   string
	DB         int
	MaxRetries int
}

type KafkaConfig struct {
	Brokers       []string
	ConsumerGroup string
	PollInterval  time.Duration
	MaxRetries    int
}

type JWTConfig struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// StorageConfig points at any S3 compatible bucket (AWS, R2, MinIO).
type StorageConfig struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	PublicURL string
}

type ServerConfig struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type PayrollConfig struct {
	Currency string
}

// AttendanceConfig sets the office clock used to date records and flag
// late arrivals. LateAfter is minutes past local midnight.
type AttendanceConfig struct {
	Timezone  string
	LateAfter int
}

// Location falls back to UTC when the configured zone is unknown.
func (a AttendanceConfig) Location() *time.Location {
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

type SeedConfig struct {
	DefaultPassword string
}

// Load reads .env when present and falls back to process env and defaults.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppEnv:   getEnvString("APP_ENV", "development"),
		Port:     getEnvString("PORT", "3000"),
		LogLevel: getEnvString("LOG_LEVEL", "info"),
		DB: DBConfig{
			Host:            getEnvString("DB_HOST", "localhost"),
			Port:            getEnvString("DB_PORT", "5432"),
			User:            getEnvString("DB_USER", "postgres"),
			Password:        getEnvString("DB_PASSWORD", "postgres"),
			Name:            getEnvString("DB_NAME", "hrms"),
			SSLMode:         getEnvString("DB_SSLMODE", "disable"),
			MaxRetries:      getEnvInt("DB_MAX_RETRIES", 5),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", time.Hour),
			AutoMigrate:     getEnvBool("DB_AUTO_MIGRATE", false),
		},
		Redis: RedisConfig{
			Addr:       getEnvString("REDIS_ADDR", "localhost:6379"),
			Password:   getEnvString("REDIS_PASSWORD", ""),
			DB:         getEnvInt("REDIS_DB", 0),
			MaxRetries: getEnvInt("REDIS_MAX_RETRIES", 5),
		},
		Kafka: KafkaConfig{
			Brokers:       getEnvList("KAFKA_BROKER", nil),
			ConsumerGroup: getEnvString("KAFKA_CONSUMER_GROUP", "go-hrms-payslip"),
			PollInterval:  getEnvDuration("OUTBOX_POLL_INTERVAL", 3*time.Second),
			MaxRetries:    getEnvInt("KAFKA_MAX_RETRIES", 5),
		},
		JWT: JWTConfig{
			Secret:     getEnvString("JWT_SECRET", ""),
			AccessTTL:  getEnvDuration("JWT_ACCESS_TTL", 15*time.Minute),
			RefreshTTL: getEnvDuration("JWT_REFRESH_TTL", 7*24*time.Hour),
		},
		Storage: StorageConfig{
			Endpoint:  getEnvString("S3_ENDPOINT", ""),
			Region:    getEnvString("S3_REGION", "auto"),
			AccessKey: getEnvString("S3_ACCESS_KEY", ""),
			SecretKey: getEnvString("S3_SECRET_KEY", ""),
			Bucket:    getEnvString("S3_BUCKET", "payslips"),
			PublicURL: getEnvString("S3_PUBLIC_URL", ""),
		},
		Server: ServerConfig{
			ReadTimeout:  getEnvDuration("HTTP_READ_TIMEOUT", 5*time.Second),
			WriteTimeout: getEnvDuration("HTTP_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:  getEnvDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
		},
		Payroll: PayrollConfig{
			Currency: getEnvString("PAYROLL_CURRENCY", "USD"),
		},
		Attendance: AttendanceConfig{
			Timezone:  getEnvString("ATTENDANCE_TIMEZONE", "UTC"),
			LateAfter: getEnvInt("ATTENDANCE_LATE_AFTER_MINUTES", 9*60+15),
		},
		Seed: SeedConfig{
			DefaultPassword: getEnvString("DEFAULT_EMPLOYEE_PASSWORD", "Welcome@123"),
		},
	}
}

func (c Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnvString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
		if i, err := strconv.Atoi(val); err == nil {
			return time.Duration(i) * time.Second
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
