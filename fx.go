package rtps

import (
	"github.com/benbjohnson/clock"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/dep2p/go-rtps/config"
	"github.com/dep2p/go-rtps/internal/core/metrics"
	"github.com/dep2p/go-rtps/internal/core/participant"
	"github.com/dep2p/go-rtps/internal/core/peerstore"
	"github.com/dep2p/go-rtps/internal/core/transport"
	"github.com/dep2p/go-rtps/pkg/types"
)

// buildFxApp 构建 Fx 应用
//
// 加载顺序（按依赖）：
//  1. Metrics（条件加载，提供 Reporter）
//  2. Peerstore → Transport → Participant
//  3. 用户扩展与组件注入
//
// 传输层在构造阶段绑定套接字，处理循环在 OnStart 中启动。
func buildFxApp(cfg *config.Config, o *options, p *Participant) *fx.App {
	modules := []fx.Option{
		// 配置注入
		fx.Supply(cfg),
		fx.Supply(o.id),
	}

	if o.clock != nil {
		clk := o.clock
		modules = append(modules, fx.Provide(func() clock.Clock { return clk }))
	}

	// 指标（条件加载，未加载时各模块使用空实现）
	if cfg.Metrics.Enabled {
		modules = append(modules, metrics.Module)
	}

	modules = append(modules,
		peerstore.Module(),
		transport.Module(),
		participant.Module(),
	)

	// 用户扩展
	if len(o.userFxOptions) > 0 {
		modules = append(modules, o.userFxOptions...)
	}

	modules = append(modules,
		fx.Invoke(injectComponents(p)),
		// 禁用 Fx 日志输出（避免干扰用户日志）
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: zap.NewNop()}
		}),
	)

	return fx.New(modules...)
}

// componentParams 门面组件注入参数
type componentParams struct {
	fx.In

	ID        types.ParticipantID
	Engine    *participant.Participant
	Transport *transport.Transport
	Peers     *peerstore.Store
	Collector *metrics.Collector `optional:"true"`
}

// injectComponents 将内部组件注入门面
func injectComponents(p *Participant) func(componentParams) {
	return func(c componentParams) {
		p.id = c.ID
		p.engine = c.Engine
		p.transport = c.Transport
		p.peers = c.Peers
		p.collector = c.Collector
	}
}
