package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config 儲存 gateway、參考上游及外部相依的執行設定。
type Config struct {
	App       AppConfig       `yaml:"app"`
	HTTP      HTTPConfig      `yaml:"http"`
	Log       LogConfig       `yaml:"log"`
	Upstream  UpstreamConfig  `yaml:"upstream"`
	Auth      AuthConfig      `yaml:"auth"`
	Session   SessionConfig   `yaml:"session"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Notifier  NotifierConfig  `yaml:"notifier"`
	DevAPI    DevAPIConfig    `yaml:"devapi"`
	DB        DBConfig        `yaml:"db"`
}

type AppConfig struct {
	Env string `yaml:"env"`
}

type HTTPConfig struct {
	Addr         string   `yaml:"addr"`
	AllowOrigins []string `yaml:"allow_origins"`
	SecureCookie bool     `yaml:"secure_cookie"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type UpstreamConfig struct {
	BaseURL      string            `yaml:"base_url"`
	Environments map[string]string `yaml:"environments"`
	Timeout      time.Duration     `yaml:"timeout"`
}

type AuthConfig struct {
	TokenTTL time.Duration `yaml:"token_ttl"`
	Secret   string        `yaml:"secret"`
}

type SessionConfig struct {
	Store     string `yaml:"store"`
	RedisURL  string `yaml:"redis_url"`
	KeyPrefix string `yaml:"key_prefix"`
}

type DashboardConfig struct {
	Timezone         string `yaml:"timezone"`
	SkipClientFilter bool   `yaml:"skip_client_filter"`
	TrendPoints      int    `yaml:"trend_points"`
}

type NotifierConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

type TelegramConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Token    string        `yaml:"token"`
	ChatID   int64         `yaml:"chat_id"`
	Interval time.Duration `yaml:"interval"`
	Period   string        `yaml:"period"`
	TopN     int           `yaml:"top_n"`
	Email    string        `yaml:"email"`
	Password string        `yaml:"password"`
}

type DevAPIConfig struct {
	Addr        string        `yaml:"addr"`
	Secret      string        `yaml:"secret"`
	TokenTTL    time.Duration `yaml:"token_ttl"`
	ManagerCode string        `yaml:"manager_code"`
	AdminCode   string        `yaml:"admin_code"`
	Seed        bool          `yaml:"seed"`
}

type DBConfig struct {
	DSN          string        `yaml:"dsn"`
	MaxOpenConns int           `yaml:"max_open_conns"`
	MaxIdleConns int           `yaml:"max_idle_conns"`
	MaxIdleTime  time.Duration `yaml:"max_idle_time"`
}

// UpstreamURL 依環境挑選上游位址，base_url 有值時優先。
func (c Config) UpstreamURL() string {
	if c.Upstream.BaseURL != "" {
		return c.Upstream.BaseURL
	}
	if u, ok := c.Upstream.Environments[c.App.Env]; ok && u != "" {
		return u
	}
	return c.Upstream.Environments["development"]
}

// Location 回傳統計區間使用的時區，無法解析時使用 UTC。
func (c Config) Location() *time.Location {
	if c.Dashboard.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Dashboard.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// LoadFromFile 從 YAML 組態檔載入設定。
func LoadFromFile(path string) (Config, error) {
	// 嘗試載入 .env 檔案（如果存在）
	_ = godotenv.Load()

	var cfg Config
	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config yaml: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	cfg = applyDefaults(cfg)
	cfg = applyEnv(cfg)
	return cfg, nil
}

// ApplyDefaults 補齊未設定欄位，供測試與內嵌使用。
func ApplyDefaults(cfg Config) Config {
	return applyDefaults(cfg)
}

func applyDefaults(cfg Config) Config {
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":8080"
	}
	if len(cfg.HTTP.AllowOrigins) == 0 {
		cfg.HTTP.AllowOrigins = []string{"http://localhost:3000", "capacitor://localhost"}
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Upstream.Environments == nil {
		cfg.Upstream.Environments = map[string]string{}
	}
	if cfg.Upstream.Environments["development"] == "" {
		cfg.Upstream.Environments["development"] = "http://localhost:5000/api"
	}
	if cfg.Upstream.Timeout == 0 {
		cfg.Upstream.Timeout = 10 * time.Second
	}
	if cfg.Auth.TokenTTL == 0 {
		cfg.Auth.TokenTTL = 24 * time.Hour
	}
	if cfg.Auth.Secret == "" {
		cfg.Auth.Secret = "dev-secret-change-me"
	}
	if cfg.Session.Store == "" {
		cfg.Session.Store = "memory"
	}
	if cfg.Session.KeyPrefix == "" {
		cfg.Session.KeyPrefix = "dashboard:session:"
	}
	if cfg.Dashboard.TrendPoints == 0 {
		cfg.Dashboard.TrendPoints = 7
	}
	if cfg.Notifier.Telegram.Interval == 0 {
		cfg.Notifier.Telegram.Interval = 24 * time.Hour
	}
	if cfg.Notifier.Telegram.Period == "" {
		cfg.Notifier.Telegram.Period = "today"
	}
	if cfg.Notifier.Telegram.TopN == 0 {
		cfg.Notifier.Telegram.TopN = 3
	}
	if cfg.DevAPI.Addr == "" {
		cfg.DevAPI.Addr = ":5000"
	}
	if cfg.DevAPI.Secret == "" {
		cfg.DevAPI.Secret = "devapi-secret-change-me"
	}
	if cfg.DevAPI.TokenTTL == 0 {
		cfg.DevAPI.TokenTTL = 7 * 24 * time.Hour
	}
	if cfg.DB.MaxOpenConns == 0 {
		cfg.DB.MaxOpenConns = 5
	}
	if cfg.DB.MaxIdleConns == 0 {
		cfg.DB.MaxIdleConns = 2
	}
	if cfg.DB.MaxIdleTime == 0 {
		cfg.DB.MaxIdleTime = 15 * time.Minute
	}
	return cfg
}

func applyEnv(cfg Config) Config {
	if val := os.Getenv("APP_ENV"); val != "" {
		cfg.App.Env = val
	}
	if val := os.Getenv("HTTP_ADDR"); val != "" {
		cfg.HTTP.Addr = val
	}
	if val := os.Getenv("PORT"); val != "" {
		cfg.HTTP.Addr = ":" + val
	}
	if val := os.Getenv("CORS_ORIGINS"); val != "" {
		cfg.HTTP.AllowOrigins = splitList(val)
	}
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		cfg.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		cfg.Log.Format = val
	}
	if val := os.Getenv("API_URL"); val != "" {
		cfg.Upstream.BaseURL = val
	}
	if val := os.Getenv("UPSTREAM_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Upstream.Timeout = d
		}
	}
	if val := os.Getenv("AUTH_SECRET"); val != "" {
		cfg.Auth.Secret = val
	}
	if val := os.Getenv("SESSION_STORE"); val != "" {
		cfg.Session.Store = val
	}
	if val := os.Getenv("REDIS_URL"); val != "" {
		cfg.Session.RedisURL = val
	}
	if val := os.Getenv("TIMEZONE"); val != "" {
		cfg.Dashboard.Timezone = val
	}
	if val := os.Getenv("TELEGRAM_TOKEN"); val != "" {
		cfg.Notifier.Telegram.Token = val
	}
	if val := os.Getenv("TELEGRAM_CHAT_ID"); val != "" {
		if id, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.Notifier.Telegram.ChatID = id
		}
	}
	if val := os.Getenv("TELEGRAM_ENABLED"); val != "" {
		cfg.Notifier.Telegram.Enabled = (val == "true")
	}
	if val := os.Getenv("DIGEST_EMAIL"); val != "" {
		cfg.Notifier.Telegram.Email = val
	}
	if val := os.Getenv("DIGEST_PASSWORD"); val != "" {
		cfg.Notifier.Telegram.Password = val
	}
	if val := os.Getenv("DEVAPI_ADDR"); val != "" {
		cfg.DevAPI.Addr = val
	}
	if val := os.Getenv("DEVAPI_SECRET"); val != "" {
		cfg.DevAPI.Secret = val
	}
	if val := os.Getenv("MANAGER_SECRET_CODE"); val != "" {
		cfg.DevAPI.ManagerCode = val
	}
	if val := os.Getenv("ADMIN_SECRET_CODE"); val != "" {
		cfg.DevAPI.AdminCode = val
	}
	if val := os.Getenv("DEVAPI_SEED"); val != "" {
		cfg.DevAPI.Seed = (val == "true")
	}
	if val := os.Getenv("DB_DSN"); val != "" {
		cfg.DB.DSN = val
	}
	return cfg
}

func splitList(val string) []string {
	var out []string
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
