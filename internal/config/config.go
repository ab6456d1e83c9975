package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	BotToken    string `json:"bot_token"`
	AdminChatID int64  `json:"admin_chat_id"`
	DatabaseURL string `json:"database_url"`

	// 传话会话配置
	SessionTimeout time.Duration `json:"session_timeout"` // 会话空闲超时
	SweepInterval  time.Duration `json:"sweep_interval"`  // 超时扫描间隔

	// 游戏配置
	InitialBalance int64 `json:"initial_balance"` // 新用户初始余额

	// 心跳/看门狗配置
	HeartbeatInterval time.Duration `json:"heartbeat_interval"`
	WatchdogTimeout   time.Duration `json:"watchdog_timeout"`

	// Webhook模式配置（默认长轮询）
	EnableWebhook bool   `json:"enable_webhook"`
	Domain        string `json:"domain"`
	Port          string `json:"port"`
	HTTPSPort     string `json:"https_port"`
	CertCacheDir  string `json:"cert_cache_dir"`
	AdminEmail    string `json:"admin_email"`
}

func Load() (*Config, error) {
	cfg := &Config{
		BotToken:    getEnv("BOT_TOKEN", ""),
		AdminChatID: getEnvInt("ADMIN_CHAT_ID", 0),
		DatabaseURL: getEnv("DATABASE_URL", "users.db"),

		SessionTimeout: getEnvDuration("SESSION_TIMEOUT_SECONDS", 300*time.Second),
		SweepInterval:  getEnvDuration("SWEEP_INTERVAL_SECONDS", 60*time.Second),

		InitialBalance: getEnvInt("INITIAL_BALANCE", 1000),

		HeartbeatInterval: getEnvDuration("HEARTBEAT_INTERVAL_SECONDS", 15*time.Second),
		WatchdogTimeout:   getEnvDuration("WATCHDOG_TIMEOUT_SECONDS", 40*time.Second),

		EnableWebhook: getEnvBool("ENABLE_WEBHOOK", false),
		Domain:        getEnv("DOMAIN", ""),
		Port:          getEnv("PORT", "8080"),
		HTTPSPort:     getEnv("HTTPS_PORT", "443"),
		CertCacheDir:  getEnv("CERT_CACHE_DIR", "./certs"),
		AdminEmail:    getEnv("ADMIN_EMAIL", ""),
	}

	if cfg.BotToken == "" {
		return nil, fmt.Errorf("未设置BOT_TOKEN环境变量")
	}

	if cfg.AdminChatID == 0 {
		return nil, fmt.Errorf("未设置ADMIN_CHAT_ID环境变量")
	}

	if cfg.EnableWebhook && cfg.Domain == "" {
		return nil, fmt.Errorf("启用Webhook模式时必须设置DOMAIN")
	}

	return cfg, nil
}

// IsAdmin 判断是否为管理员身份
func (c *Config) IsAdmin(userID int64) bool {
	return userID == c.AdminChatID
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil && i > 0 {
			return time.Duration(i) * time.Second
		}
	}
	return defaultValue
}
