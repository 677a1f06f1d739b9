package transport

import (
	"context"

	"go.uber.org/fx"

	"github.com/dep2p/go-rtps/config"
	"github.com/dep2p/go-rtps/pkg/interfaces"
)

// Params 传输模块依赖参数
type Params struct {
	fx.In

	UnifiedCfg *config.Config      `optional:"true"`
	Reporter   interfaces.Reporter `optional:"true"`
}

// Output 传输模块输出
type Output struct {
	fx.Out

	Transport *Transport
	Iface     interfaces.Transport
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("transport",
		fx.Provide(
			ProvideConfig,
			ProvideTransport,
		),
		fx.Invoke(registerLifecycle),
	)
}

// ProvideConfig 从统一配置提供传输配置
func ProvideConfig(p Params) Config {
	return ConfigFromUnified(p.UnifiedCfg)
}

// ProvideTransport 打开传输并同时以接口形式提供
func ProvideTransport(cfg Config, p Params) (Output, error) {
	t, err := Open(cfg, p.Reporter)
	if err != nil {
		return Output{}, err
	}
	return Output{Transport: t, Iface: t}, nil
}

// registerLifecycle 注册生命周期钩子
func registerLifecycle(lc fx.Lifecycle, t *Transport) {
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return t.Close()
		},
	})
}
