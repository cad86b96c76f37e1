package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

// AppConfig holds the service configuration. Secrets have no defaults and
// must come from config.json, a .env file or the environment.
type AppConfig struct {
	AppPort            string
	JWTSecret          string
	RateLimitPerMinute int
	AllowedOrigins     []string
	// Gin framework configuration
	GinMode string
	GinPath string
	// MySQL for analytics
	DatabaseURI string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	// Redis for onboarding state and token revocation
	RedisHost     string
	RedisPort     int
	RedisDB       int
	RedisPassword string
	// Logging configuration
	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool
	// Onboarding
	BaseQuestionReward int
	FollowUpReward     int
	ReviewBonus        int
	StateMaxAgeHours   int
	SessionIdleMinutes int
	SessionTokenHours  int
	StorageKeyPrefix   string
	AnalyticsEnabled   bool
}

// ErrMissingSecret is returned when no JWT secret is configured.
var ErrMissingSecret = errors.New("JWT_SECRET must be set")

var (
	cfg    AppConfig
	loaded bool
	mu     sync.Mutex
)

// Load reads the configuration once: config/config.json, then defaults for
// unset values, then environment overrides.
func Load() (AppConfig, error) {
	mu.Lock()
	defer mu.Unlock()
	if loaded {
		return cfg, nil
	}
	c, err := LoadFrom(filepath.Join("config", "config.json"))
	if err != nil {
		return AppConfig{}, err
	}
	cfg, loaded = c, true
	return cfg, nil
}

// LoadFrom builds a configuration from the JSON file at path (optional) and
// the environment. It does not touch the cached configuration.
func LoadFrom(path string) (AppConfig, error) {
	var c AppConfig
	if err := loadJSONConfig(path, &c); err != nil {
		return AppConfig{}, fmt.Errorf("config %s: %w", path, err)
	}
	applyDefaults(&c)
	if err := applyEnvOverrides(&c); err != nil {
		return AppConfig{}, err
	}
	if c.JWTSecret == "" {
		return AppConfig{}, ErrMissingSecret
	}
	return c, nil
}

// Get returns the loaded configuration. It panics if Load failed or was never called.
func Get() AppConfig {
	mu.Lock()
	defer mu.Unlock()
	if !loaded {
		panic("config: Get called before Load")
	}
	return cfg
}

// fileConfig mirrors the grouped layout of config.json.
type fileConfig struct {
	App struct {
		AppPort            string
		JWTSecret          string
		RateLimitPerMinute int
		AllowedOrigins     []string
	} `json:"app"`
	Onboarding struct {
		BaseQuestionReward int
		FollowUpReward     int
		ReviewBonus        int
		StateMaxAgeHours   int
		SessionIdleMinutes int
		SessionTokenHours  int
		StorageKeyPrefix   string
		AnalyticsEnabled   *bool
	} `json:"onboarding"`
	Database struct {
		DatabaseURI string
		DBHost      string
		DBPort      string
		DBUser      string
		DBPassword  string
		DBName      string
	} `json:"database"`
	Redis struct {
		RedisHost     string
		RedisPort     int
		RedisDB       int
		RedisPassword string
	} `json:"redis"`
	Log struct {
		Level      string
		Path       string
		GinMode    string
		GinPath    string
		MaxSizeMB  int
		MaxBackups int
		MaxAgeDays int
		Compress   bool
	} `json:"log"`
}

// loadJSONConfig fills out from the file at path. A missing file is not an error.
func loadJSONConfig(path string, out *AppConfig) error {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	var f fileConfig
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}

	out.AppPort = f.App.AppPort
	out.JWTSecret = f.App.JWTSecret
	out.RateLimitPerMinute = f.App.RateLimitPerMinute
	out.AllowedOrigins = f.App.AllowedOrigins

	o := f.Onboarding
	out.BaseQuestionReward = o.BaseQuestionReward
	out.FollowUpReward = o.FollowUpReward
	out.ReviewBonus = o.ReviewBonus
	out.StateMaxAgeHours = o.StateMaxAgeHours
	out.SessionIdleMinutes = o.SessionIdleMinutes
	out.SessionTokenHours = o.SessionTokenHours
	out.StorageKeyPrefix = o.StorageKeyPrefix
	if o.AnalyticsEnabled != nil {
		out.AnalyticsEnabled = *o.AnalyticsEnabled
	}

	d := f.Database
	out.DatabaseURI, out.DBHost, out.DBPort = d.DatabaseURI, d.DBHost, d.DBPort
	out.DBUser, out.DBPassword, out.DBName = d.DBUser, d.DBPassword, d.DBName

	r := f.Redis
	out.RedisHost, out.RedisPort, out.RedisDB, out.RedisPassword = r.RedisHost, r.RedisPort, r.RedisDB, r.RedisPassword

	l := f.Log
	out.LogLevel, out.LogPath = l.Level, l.Path
	out.GinMode, out.GinPath = l.GinMode, l.GinPath
	out.LogMaxSizeMB, out.LogMaxBackups, out.LogMaxAgeDays = l.MaxSizeMB, l.MaxBackups, l.MaxAgeDays
	out.LogCompress = l.Compress
	return nil
}

func applyDefaults(c *AppConfig) {
	setString := func(p *string, def string) {
		if *p == "" {
			*p = def
		}
	}
	setInt := func(p *int, def int) {
		if *p == 0 {
			*p = def
		}
	}
	setString(&c.AppPort, "8080")
	setString(&c.GinMode, "release")
	setString(&c.GinPath, "logs/go_gin.log")
	setString(&c.LogLevel, "info")
	setString(&c.LogPath, "logs/app.log")
	setInt(&c.RateLimitPerMinute, 120)
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}

	setString(&c.DBHost, "127.0.0.1")
	setString(&c.DBPort, "3306")
	setString(&c.DBUser, "root")
	setString(&c.DBName, "betterfly")
	setString(&c.RedisHost, "127.0.0.1")
	setInt(&c.RedisPort, 6379)

	setInt(&c.BaseQuestionReward, 10)
	setInt(&c.FollowUpReward, 15)
	setInt(&c.ReviewBonus, 100)
	setInt(&c.StateMaxAgeHours, 7*24)
	setInt(&c.SessionIdleMinutes, 60)
	setInt(&c.SessionTokenHours, 7*24)
	setString(&c.StorageKeyPrefix, "betterfly")
}

func applyEnvOverrides(c *AppConfig) error {
	strs := map[string]*string{
		"APP_PORT":           &c.AppPort,
		"JWT_SECRET":         &c.JWTSecret,
		"GIN_MODE":           &c.GinMode,
		"GIN_PATH":           &c.GinPath,
		"DATABASE_URI":       &c.DatabaseURI,
		"DB_HOST":            &c.DBHost,
		"DB_PORT":            &c.DBPort,
		"DB_USER":            &c.DBUser,
		"DB_PASSWORD":        &c.DBPassword,
		"DB_NAME":            &c.DBName,
		"REDIS_HOST":         &c.RedisHost,
		"REDIS_PASSWORD":     &c.RedisPassword,
		"LOG_LEVEL":          &c.LogLevel,
		"LOG_PATH":           &c.LogPath,
		"STORAGE_KEY_PREFIX": &c.StorageKeyPrefix,
	}
	for key, p := range strs {
		if v := os.Getenv(key); v != "" {
			*p = v
		}
	}

	ints := map[string]*int{
		"RATE_LIMIT_PER_MINUTE": &c.RateLimitPerMinute,
		"REDIS_PORT":            &c.RedisPort,
		"REDIS_DB":              &c.RedisDB,
		"LOG_MAX_SIZE_MB":       &c.LogMaxSizeMB,
		"LOG_MAX_BACKUPS":       &c.LogMaxBackups,
		"LOG_MAX_AGE_DAYS":      &c.LogMaxAgeDays,
		"BASE_QUESTION_REWARD":  &c.BaseQuestionReward,
		"FOLLOW_UP_REWARD":      &c.FollowUpReward,
		"REVIEW_BONUS":          &c.ReviewBonus,
		"STATE_MAX_AGE_HOURS":   &c.StateMaxAgeHours,
		"SESSION_IDLE_MINUTES":  &c.SessionIdleMinutes,
		"SESSION_TOKEN_HOURS":   &c.SessionTokenHours,
	}
	for key, p := range ints {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*p = n
	}

	bools := map[string]*bool{
		"LOG_COMPRESS":      &c.LogCompress,
		"ANALYTICS_ENABLED": &c.AnalyticsEnabled,
	}
	for key, p := range bools {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*p = b
	}

	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		c.AllowedOrigins = splitAndTrim(v)
	}
	return nil
}

func splitAndTrim(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
