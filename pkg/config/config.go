package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	CORS      CORSConfig
	Log       LogConfig
	Calendar  CalendarConfig
	Timetable TimetableConfig
	SlotAPI   SlotAPIConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// CalendarConfig tunes academic-year lookups.
type CalendarConfig struct {
	CacheTTL time.Duration
}

// TimetableConfig carries defaults applied to newly added schedule slots
// and to academic years created without explicit week counts.
type TimetableConfig struct {
	DefaultStartTime    string
	DefaultEndTime      string
	DefaultQuarterWeeks [4]int
}

// SlotAPIConfig points the sync CLI at a remote slot-storage service.
type SlotAPIConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret: v.GetString("JWT_SECRET"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Calendar = CalendarConfig{
		CacheTTL: parseDuration(v.GetString("CALENDAR_CACHE_TTL"), 5*time.Minute),
	}

	cfg.Timetable = TimetableConfig{
		DefaultStartTime: v.GetString("TIMETABLE_DEFAULT_START"),
		DefaultEndTime:   v.GetString("TIMETABLE_DEFAULT_END"),
		DefaultQuarterWeeks: [4]int{
			v.GetInt("QUARTER1_WEEKS"),
			v.GetInt("QUARTER2_WEEKS"),
			v.GetInt("QUARTER3_WEEKS"),
			v.GetInt("QUARTER4_WEEKS"),
		},
	}

	cfg.SlotAPI = SlotAPIConfig{
		BaseURL: v.GetString("SLOT_API_BASE_URL"),
		Token:   v.GetString("SLOT_API_TOKEN"),
		Timeout: parseDuration(v.GetString("SLOT_API_TIMEOUT"), 10*time.Second),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "timetable")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("CALENDAR_CACHE_TTL", "5m")

	v.SetDefault("TIMETABLE_DEFAULT_START", "09:00")
	v.SetDefault("TIMETABLE_DEFAULT_END", "10:30")
	v.SetDefault("QUARTER1_WEEKS", 8)
	v.SetDefault("QUARTER2_WEEKS", 8)
	v.SetDefault("QUARTER3_WEEKS", 10)
	v.SetDefault("QUARTER4_WEEKS", 8)

	v.SetDefault("SLOT_API_BASE_URL", "http://localhost:8080/api/v1")
	v.SetDefault("SLOT_API_TOKEN", "")
	v.SetDefault("SLOT_API_TIMEOUT", "10s")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
