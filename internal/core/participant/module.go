package participant

import (
	"context"

	"github.com/benbjohnson/clock"
	"go.uber.org/fx"

	"github.com/dep2p/go-rtps/config"
	"github.com/dep2p/go-rtps/internal/core/peerstore"
	"github.com/dep2p/go-rtps/pkg/interfaces"
	"github.com/dep2p/go-rtps/pkg/types"
)

// Params 参与者依赖参数
type Params struct {
	fx.In

	UnifiedCfg *config.Config `optional:"true"`
	Transport  interfaces.Transport
	Peers      *peerstore.Store
	Reporter   interfaces.Reporter `optional:"true"`
	Clock      clock.Clock         `optional:"true"`
	ID         types.ParticipantID `optional:"true"`
}

// Module 返回 Fx 模块
//
// 应用启动时在后台协程运行处理循环，停止时等待循环退出。
func Module() fx.Option {
	return fx.Module("participant",
		fx.Provide(
			ProvideConfig,
			ProvideParticipant,
		),
		fx.Invoke(registerLifecycle),
	)
}

// ProvideConfig 从统一配置提供引擎配置
func ProvideConfig(p Params) Config {
	return ConfigFromUnified(p.UnifiedCfg)
}

// ProvideParticipant 提供参与者实例
func ProvideParticipant(cfg Config, p Params) (*Participant, error) {
	return New(cfg, p.Transport, p.Peers,
		WithReporter(p.Reporter),
		WithClock(p.Clock),
		WithID(p.ID),
	)
}

// registerLifecycle 注册生命周期钩子
func registerLifecycle(lc fx.Lifecycle, p *Participant) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			return p.Start()
		},
		OnStop: func(ctx context.Context) error {
			return p.Stop(ctx)
		},
	})
}
