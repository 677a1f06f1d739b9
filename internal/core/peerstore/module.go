package peerstore

import (
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/fx"

	"github.com/dep2p/go-rtps/config"
)

// Config 注册表配置
type Config struct {
	// TTL 注册表整体清空间隔
	TTL time.Duration
}

// NewConfig 创建默认配置
func NewConfig() Config {
	return Config{TTL: 5 * time.Second}
}

// ConfigFromUnified 从统一配置创建注册表配置
func ConfigFromUnified(cfg *config.Config) Config {
	c := NewConfig()
	if cfg != nil && cfg.Discovery.PeerTTL > 0 {
		c.TTL = cfg.Discovery.PeerTTL.Duration()
	}
	return c
}

// Params 注册表依赖参数
type Params struct {
	fx.In

	UnifiedCfg *config.Config `optional:"true"`
	Clock      clock.Clock    `optional:"true"`
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("peerstore",
		fx.Provide(
			ProvideConfig,
			ProvideStore,
		),
	)
}

// ProvideConfig 从统一配置提供注册表配置
func ProvideConfig(p Params) Config {
	return ConfigFromUnified(p.UnifiedCfg)
}

// ProvideStore 提供注册表实例
func ProvideStore(cfg Config, p Params) (*Store, error) {
	return NewStore(cfg.TTL, p.Clock)
}
