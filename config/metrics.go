package config

import (
	"errors"
	"strings"
)

// MetricsConfig Prometheus 指标配置
type MetricsConfig struct {
	// Enabled 是否收集指标
	Enabled bool `json:"enabled"`

	// ListenAddr 指标 HTTP 服务监听地址，空表示不对外暴露
	ListenAddr string `json:"listen_addr,omitempty"`

	// Path 指标 HTTP 路径
	Path string `json:"path,omitempty"`
}

// DefaultMetricsConfig 返回默认指标配置
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Enabled: true,
		Path:    "/metrics",
	}
}

// Validate 验证指标配置
func (c MetricsConfig) Validate() error {
	if c.ListenAddr != "" && !c.Enabled {
		return errors.New("metrics listen addr requires metrics to be enabled")
	}
	if c.ListenAddr != "" && !strings.HasPrefix(c.Path, "/") {
		return errors.New("metrics path must start with /")
	}
	return nil
}
