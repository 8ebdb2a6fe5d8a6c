package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config aggregates application settings that may be sourced from a config
// file, a .env file or environment variables.
type Config struct {
	Log      LogConfig      `mapstructure:"log"`
	Layout   LayoutConfig   `mapstructure:"layout"`
	Measure  MeasureConfig  `mapstructure:"measure"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Store    StoreConfig    `mapstructure:"store"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	MinIO    MinIOConfig    `mapstructure:"minio"`
	Export   ExportConfig   `mapstructure:"export"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// LogConfig 日志级别：debug / info / warn / error。
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// LayoutConfig contains the page geometry the paginator works against.
type LayoutConfig struct {
	Budget float64 `mapstructure:"budget"`
	Width  float64 `mapstructure:"width"`
}

// MeasureConfig 选择测量面：browser（headless Chromium）或 estimate（离线估算）。
type MeasureConfig struct {
	Driver    string        `mapstructure:"driver"`
	ChromeBin string        `mapstructure:"chrome_bin"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// CacheConfig controls the measurement memo.
type CacheConfig struct {
	Driver string        `mapstructure:"driver"`
	TTL    time.Duration `mapstructure:"ttl"`
	Prefix string        `mapstructure:"prefix"`
}

// StoreConfig 决定简历快照的持久化位置。
type StoreConfig struct {
	Driver string `mapstructure:"driver"`
	Path   string `mapstructure:"path"`
	Key    string `mapstructure:"key"`
}

// DatabaseConfig contains connection options for SQLite or PostgreSQL.
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"`
	Path     string `mapstructure:"path"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"sslmode"`
	LogLevel string `mapstructure:"log_level"`
}

// RedisConfig 包含 Redis 连接配置。
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// MinIOConfig contains connection options for MinIO/S3-compatible storage.
type MinIOConfig struct {
	Endpoint         string `mapstructure:"endpoint"`
	AccessKeyID      string `mapstructure:"access_key_id"`
	SecretAccessKey  string `mapstructure:"secret_access_key"`
	UseSSL           bool   `mapstructure:"use_ssl"`
	Bucket           string `mapstructure:"bucket"`
	Region           string `mapstructure:"region"`
	BucketLookup     string `mapstructure:"bucket_lookup"`
	AutoCreateBucket bool   `mapstructure:"auto_create_bucket"`
	Prefix           string `mapstructure:"prefix"`
}

// ExportConfig 导出相关配置。
type ExportConfig struct {
	Sink      string        `mapstructure:"sink"`
	Dir       string        `mapstructure:"dir"`
	Mode      string        `mapstructure:"mode"`
	Quality   int           `mapstructure:"quality"`
	Scale     float64       `mapstructure:"scale"`
	PageDelay time.Duration `mapstructure:"page_delay"`
	Verify    bool          `mapstructure:"verify"`
}

// MetricsConfig 指标落盘路径；为空时不写出。
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"`
}

// DSN builds a lib/pq compatible connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host,
		d.Port,
		d.User,
		d.Password,
		d.Name,
		d.SSLMode,
	)
}

// Addr returns host:port.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// Load reads configuration from environment variables, an optional .env file
// in the working directory and an optional config file at path.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if err := bindEnv(v); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	normalize(&cfg)

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// MustLoad wraps Load and panics on failure.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("layout.budget", 1115.0)
	v.SetDefault("layout.width", 793.7)
	v.SetDefault("measure.driver", "browser")
	v.SetDefault("measure.timeout", 90*time.Second)
	v.SetDefault("cache.driver", "memory")
	v.SetDefault("cache.ttl", 24*time.Hour)
	v.SetDefault("cache.prefix", "cvbuilder:")
	v.SetDefault("store.driver", "file")
	v.SetDefault("store.path", "cv_builder_data.json")
	v.SetDefault("store.key", "cv_builder_data")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "cvbuilder.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "cvbuilder")
	v.SetDefault("database.user", "cvbuilder")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("minio.endpoint", "localhost:9000")
	v.SetDefault("minio.use_ssl", false)
	v.SetDefault("minio.bucket", "cv-exports")
	v.SetDefault("minio.bucket_lookup", "auto")
	v.SetDefault("minio.auto_create_bucket", true)
	v.SetDefault("export.sink", "dir")
	v.SetDefault("export.dir", ".")
	v.SetDefault("export.mode", "raster")
	v.SetDefault("export.quality", 95)
	v.SetDefault("export.scale", 2.0)
	v.SetDefault("export.page_delay", 500*time.Millisecond)
	v.SetDefault("export.verify", true)
}

func bindEnv(v *viper.Viper) error {
	mappings := map[string]string{
		"log.level":                "CV_LOG_LEVEL",
		"layout.budget":            "CV_LAYOUT_BUDGET",
		"layout.width":             "CV_LAYOUT_WIDTH",
		"measure.driver":           "CV_MEASURE_DRIVER",
		"measure.chrome_bin":       "CV_CHROME_BIN",
		"measure.timeout":          "CV_MEASURE_TIMEOUT",
		"cache.driver":             "CV_CACHE_DRIVER",
		"cache.ttl":                "CV_CACHE_TTL",
		"cache.prefix":             "CV_CACHE_PREFIX",
		"store.driver":             "CV_STORE_DRIVER",
		"store.path":               "CV_STORE_PATH",
		"store.key":                "CV_STORE_KEY",
		"database.driver":          "CV_DATABASE_DRIVER",
		"database.path":            "CV_DATABASE_PATH",
		"database.host":            "DATABASE_HOST",
		"database.port":            "DATABASE_PORT",
		"database.name":            "POSTGRES_DB",
		"database.user":            "POSTGRES_USER",
		"database.password":        "POSTGRES_PASSWORD",
		"database.sslmode":         "DATABASE_SSLMODE",
		"database.log_level":       "CV_DATABASE_LOG_LEVEL",
		"redis.host":               "REDIS_HOST",
		"redis.port":               "REDIS_PORT",
		"redis.password":           "REDIS_PASSWORD",
		"redis.db":                 "REDIS_DB",
		"minio.endpoint":           "MINIO_ENDPOINT",
		"minio.access_key_id":      "MINIO_ACCESS_KEY_ID",
		"minio.secret_access_key":  "MINIO_SECRET_ACCESS_KEY",
		"minio.use_ssl":            "MINIO_USE_SSL",
		"minio.bucket":             "MINIO_BUCKET",
		"minio.region":             "MINIO_REGION",
		"minio.bucket_lookup":      "MINIO_BUCKET_LOOKUP",
		"minio.auto_create_bucket": "MINIO_AUTO_CREATE_BUCKET",
		"minio.prefix":             "MINIO_PREFIX",
		"export.sink":              "CV_EXPORT_SINK",
		"export.dir":               "CV_EXPORT_DIR",
		"export.mode":              "CV_EXPORT_MODE",
		"export.quality":           "CV_EXPORT_QUALITY",
		"export.scale":             "CV_EXPORT_SCALE",
		"export.page_delay":        "CV_EXPORT_PAGE_DELAY",
		"export.verify":            "CV_EXPORT_VERIFY",
		"metrics.textfile":         "CV_METRICS_TEXTFILE",
	}

	for key, env := range mappings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("bind %s to %s: %w", key, env, err)
		}
	}

	return nil
}

func normalize(cfg *Config) {
	lower := func(s *string) { *s = strings.ToLower(strings.TrimSpace(*s)) }
	lower(&cfg.Log.Level)
	lower(&cfg.Measure.Driver)
	lower(&cfg.Cache.Driver)
	lower(&cfg.Store.Driver)
	lower(&cfg.Database.Driver)
	lower(&cfg.Export.Sink)
	lower(&cfg.Export.Mode)
}

func oneOf(value string, allowed ...string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}

func validate(cfg Config) error {
	if !oneOf(cfg.Log.Level, "debug", "info", "warn", "error") {
		return fmt.Errorf("invalid log level %q", cfg.Log.Level)
	}
	if cfg.Layout.Budget <= 0 {
		return errors.New("layout budget must be positive")
	}
	if cfg.Layout.Width <= 0 {
		return errors.New("layout width must be positive")
	}
	if !oneOf(cfg.Measure.Driver, "browser", "estimate") {
		return fmt.Errorf("invalid measure driver %q", cfg.Measure.Driver)
	}
	if !oneOf(cfg.Cache.Driver, "memory", "redis", "none") {
		return fmt.Errorf("invalid cache driver %q", cfg.Cache.Driver)
	}
	if !oneOf(cfg.Store.Driver, "file", "redis", "database") {
		return fmt.Errorf("invalid store driver %q", cfg.Store.Driver)
	}
	if cfg.Store.Key == "" {
		return errors.New("store key is required")
	}
	if cfg.Store.Driver == "file" && cfg.Store.Path == "" {
		return errors.New("store path is required for the file store")
	}
	if cfg.Store.Driver == "database" {
		if err := validateDatabase(cfg.Database); err != nil {
			return err
		}
	}
	if cfg.Store.Driver == "redis" || cfg.Cache.Driver == "redis" {
		if cfg.Redis.Host == "" {
			return errors.New("redis host is required")
		}
		if cfg.Redis.Port <= 0 {
			return errors.New("redis port must be positive")
		}
	}
	if !oneOf(cfg.Export.Sink, "dir", "minio") {
		return fmt.Errorf("invalid export sink %q", cfg.Export.Sink)
	}
	if !oneOf(cfg.Export.Mode, "raster", "print") {
		return fmt.Errorf("invalid export mode %q", cfg.Export.Mode)
	}
	if cfg.Export.Quality < 1 || cfg.Export.Quality > 100 {
		return errors.New("export quality must be within 1..100")
	}
	if cfg.Export.Scale <= 0 {
		return errors.New("export scale must be positive")
	}
	if cfg.Export.PageDelay < 0 {
		return errors.New("export page delay must not be negative")
	}
	if cfg.Export.Sink == "minio" {
		if cfg.MinIO.Endpoint == "" {
			return errors.New("minio endpoint is required")
		}
		if cfg.MinIO.AccessKeyID == "" {
			return errors.New("minio access key id is required")
		}
		if cfg.MinIO.SecretAccessKey == "" {
			return errors.New("minio secret access key is required")
		}
		if cfg.MinIO.Bucket == "" {
			return errors.New("minio bucket is required")
		}
	}
	return nil
}

func validateDatabase(db DatabaseConfig) error {
	switch db.Driver {
	case "sqlite":
		if db.Path == "" {
			return errors.New("database path is required for sqlite")
		}
	case "postgres":
		if db.Host == "" {
			return errors.New("database host is required")
		}
		if db.Port <= 0 {
			return errors.New("database port must be positive")
		}
		if db.Name == "" {
			return errors.New("database name is required")
		}
		if db.User == "" {
			return errors.New("database user is required")
		}
		if db.SSLMode == "" {
			return errors.New("database sslmode is required")
		}
	default:
		return fmt.Errorf("invalid database driver %q", db.Driver)
	}
	return nil
}
