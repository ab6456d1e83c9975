package https

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/crypto/acme/autocert"

	"telegram-baccarat-bot/internal/logger"
)

// Config Webhook HTTPS配置
type Config struct {
	Domain    string // 域名
	CacheDir  string // 证书缓存目录
	Email     string // Let's Encrypt邮箱
	HTTPSPort string // HTTPS端口
}

// Manager Webhook模式的HTTPS管理器，证书由Let's Encrypt自动签发
type Manager struct {
	config      *Config
	certManager *autocert.Manager
	logger      *logger.Logger
}

// NewManager 创建HTTPS管理器
func NewManager(config *Config, log *logger.Logger) *Manager {
	cacheDir := config.CacheDir
	if cacheDir == "" {
		cacheDir = "./certs"
	}

	certManager := &autocert.Manager{
		Prompt:     autocert.AcceptTOS,
		HostPolicy: autocert.HostWhitelist(config.Domain),
		Cache:      autocert.DirCache(cacheDir),
		Email:      config.Email,
	}

	return &Manager{
		config:      config,
		certManager: certManager,
		logger:      log,
	}
}

// GetTLSConfig 获取TLS配置
func (m *Manager) GetTLSConfig() *tls.Config {
	return &tls.Config{
		GetCertificate: m.certManager.GetCertificate,
		NextProtos:     []string{"h2", "http/1.1"},
		MinVersion:     tls.VersionTLS12,
	}
}

// ValidateDomain 验证域名配置
func (m *Manager) ValidateDomain() error {
	if m.config.Domain == "" {
		return fmt.Errorf("域名不能为空")
	}

	if len(m.config.Domain) < 3 || !strings.Contains(m.config.Domain, ".") {
		return fmt.Errorf("域名格式无效: %s", m.config.Domain)
	}

	return nil
}

// StartHTTPRedirectServer 启动80端口的HTTP重定向服务器（兼ACME挑战）
func (m *Manager) StartHTTPRedirectServer() {
	redirectHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		target := "https://" + r.Host + r.URL.Path
		if len(r.URL.RawQuery) > 0 {
			target += "?" + r.URL.RawQuery
		}
		http.Redirect(w, r, target, http.StatusMovedPermanently)
	})

	handler := m.certManager.HTTPHandler(redirectHandler)

	server := &http.Server{
		Addr:    ":80",
		Handler: handler,
	}

	m.logger.Info("HTTP重定向服务器启动在端口 :80")
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			m.logger.Error("HTTP重定向服务器错误: %v", err)
		}
	}()
}

// StartWebhookServer 启动HTTPS Webhook服务器，阻塞运行
func (m *Manager) StartWebhookServer(handler http.Handler) error {
	httpsPort := m.config.HTTPSPort
	if httpsPort == "" {
		httpsPort = "443"
	}

	server := &http.Server{
		Addr:      ":" + httpsPort,
		Handler:   handler,
		TLSConfig: m.GetTLSConfig(),
	}

	m.logger.Info("HTTPS Webhook服务器启动在端口 :%s，域名: %s", httpsPort, m.config.Domain)

	return server.ListenAndServeTLS("", "")
}

// WebhookURL 机器人Webhook回调地址
func (m *Manager) WebhookURL(token string) string {
	return fmt.Sprintf("https://%s/webhook/%s", m.config.Domain, token)
}
