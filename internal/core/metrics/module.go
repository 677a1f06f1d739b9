package metrics

import (
	"context"

	"github.com/benbjohnson/clock"
	"go.uber.org/fx"

	"github.com/dep2p/go-rtps/config"
	"github.com/dep2p/go-rtps/pkg/interfaces"
	"github.com/dep2p/go-rtps/pkg/types"
)

// Config 指标配置
type Config struct {
	// Enabled 是否启用指标收集
	Enabled bool

	// ListenAddr HTTP 监听地址，空表示不启动服务
	ListenAddr string

	// Path HTTP 路径
	Path string
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		Enabled: true,
		Path:    "/metrics",
	}
}

// ConfigFromUnified 从统一配置创建指标配置
func ConfigFromUnified(cfg *config.Config) Config {
	if cfg == nil {
		return DefaultConfig()
	}
	return Config{
		Enabled:    cfg.Metrics.Enabled,
		ListenAddr: cfg.Metrics.ListenAddr,
		Path:       cfg.Metrics.Path,
	}
}

// Params 指标模块依赖参数
type Params struct {
	fx.In

	UnifiedCfg *config.Config      `optional:"true"`
	ID         types.ParticipantID `optional:"true"`
	Clock      clock.Clock         `optional:"true"`
}

// Output 指标模块输出
type Output struct {
	fx.Out

	Collector *Collector
	Reporter  interfaces.Reporter
}

// Module 是 metrics 的 Fx 模块
var Module = fx.Module("metrics",
	fx.Provide(
		ProvideConfig,
		Provide,
	),
	fx.Invoke(registerLifecycle),
)

// ProvideConfig 从统一配置提供指标配置
func ProvideConfig(p Params) Config {
	return ConfigFromUnified(p.UnifiedCfg)
}

// Provide 提供 Collector 与 Reporter
//
// 关闭指标时 Collector 为 nil，Reporter 为 NopReporter。
func Provide(cfg Config, p Params) Output {
	if !cfg.Enabled {
		return Output{Reporter: NopReporter{}}
	}
	c := NewCollector(p.ID, p.Clock)
	return Output{Collector: c, Reporter: c}
}

// registerLifecycle 配置了监听地址时启动 HTTP 服务
func registerLifecycle(lc fx.Lifecycle, cfg Config, c *Collector) {
	if c == nil || cfg.ListenAddr == "" {
		return
	}
	srv := NewServer(cfg.ListenAddr, cfg.Path, c)
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			return srv.Start()
		},
		OnStop: func(ctx context.Context) error {
			return srv.Stop(ctx)
		},
	})
}
