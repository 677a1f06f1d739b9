package rtps

import (
	"context"
	"fmt"
	"net/netip"
	"sync"
	"time"

	"go.uber.org/fx"

	"github.com/dep2p/go-rtps/config"
	"github.com/dep2p/go-rtps/internal/core/metrics"
	"github.com/dep2p/go-rtps/internal/core/participant"
	"github.com/dep2p/go-rtps/internal/core/peerstore"
	"github.com/dep2p/go-rtps/internal/core/transport"
	"github.com/dep2p/go-rtps/pkg/lib/log"
	"github.com/dep2p/go-rtps/pkg/types"
)

var logger = log.Logger("rtps")

// startTimeout Fx App 启动超时
const startTimeout = 10 * time.Second

// ════════════════════════════════════════════════════════════════════════════
//                              参与者状态
// ════════════════════════════════════════════════════════════════════════════

// State 参与者状态
type State int

const (
	// StateIdle 已创建，未启动
	StateIdle State = iota

	// StateRunning 处理循环运行中
	StateRunning

	// StateStopped 已停止（可重新启动）
	StateStopped

	// StateClosed 已关闭，套接字已释放
	StateClosed
)

// String 返回状态的字符串表示
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// ════════════════════════════════════════════════════════════════════════════
//                              Participant
// ════════════════════════════════════════════════════════════════════════════

// Participant go-rtps 参与者
//
// Participant 是门面（Facade），聚合 transport、peerstore、participant 引擎
// 与 metrics 组件。New 时绑定多播发现端点与单播数据端点，
// Start 后在后台协程运行处理循环。
type Participant struct {
	mu         sync.Mutex
	app        *fx.App
	appStarted bool
	cfg        *config.Config
	state      State

	// 由 Fx 注入
	id        types.ParticipantID
	engine    *participant.Participant
	transport *transport.Transport
	peers     *peerstore.Store
	collector *metrics.Collector
}

// New 创建参与者
//
// 绑定套接字失败（端口范围耗尽、多播不可用）时返回 transport.ErrBindFailure。
func New(opts ...Option) (*Participant, error) {
	o := newOptions()
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, fmt.Errorf("apply option: %w", err)
		}
	}

	cfg, err := o.resolveConfig()
	if err != nil {
		return nil, err
	}
	if o.id.IsZero() {
		o.id = types.NewParticipantID()
	}

	p := &Participant{cfg: cfg}
	p.app = buildFxApp(cfg, o, p)
	if err := p.app.Err(); err != nil {
		return nil, fmt.Errorf("build fx app: %w", err)
	}

	logger.Info("参与者已创建",
		"id", p.id.ShortString(),
		"unicast", p.transport.LocalAddr().String(),
		"group", p.transport.Group().String())
	return p, nil
}

// Start 启动处理循环
func (p *Participant) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.syncStateLocked()

	switch p.state {
	case StateClosed:
		return ErrClosed
	case StateRunning:
		return ErrAlreadyStarted
	}

	if p.appStarted {
		// Stop 之后重新启动，只恢复处理循环
		if err := p.engine.Start(); err != nil {
			return err
		}
	} else {
		startCtx, cancel := context.WithTimeout(ctx, startTimeout)
		defer cancel()
		if err := p.app.Start(startCtx); err != nil {
			return fmt.Errorf("start: %w", err)
		}
		p.appStarted = true
	}

	p.state = StateRunning
	logger.Info("参与者已启动", "id", p.id.ShortString())
	return nil
}

// Stop 停止处理循环，保留套接字以便重新启动
func (p *Participant) Stop(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.syncStateLocked()

	if p.state != StateRunning {
		return ErrNotStarted
	}
	if err := p.engine.Stop(ctx); err != nil {
		return err
	}
	p.state = StateStopped
	logger.Info("参与者已停止", "id", p.id.ShortString())
	return nil
}

// Close 停止处理循环并释放套接字
//
// Close 可重复调用。
func (p *Participant) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == StateClosed {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), startTimeout)
	defer cancel()

	var err error
	if p.appStarted {
		err = p.app.Stop(ctx)
	} else {
		// 未经 Start 的 App 不会执行 OnStop，直接关闭传输
		err = p.transport.Close()
	}
	p.state = StateClosed
	logger.Info("参与者已关闭", "id", p.id.ShortString())
	return err
}

// ════════════════════════════════════════════════════════════════════════════
//                              基本信息
// ════════════════════════════════════════════════════════════════════════════

// ID 返回参与者标识
func (p *Participant) ID() types.ParticipantID {
	return p.id
}

// State 返回当前状态
//
// 处理循环因错误退出后返回 StateStopped，错误可通过 Err 获取。
func (p *Participant) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.syncStateLocked()
	return p.state
}

// syncStateLocked 处理循环已自行退出时切换到 StateStopped
func (p *Participant) syncStateLocked() {
	if p.state != StateRunning {
		return
	}
	done := p.engine.Done()
	if done == nil {
		return
	}
	select {
	case <-done:
		// 循环已退出，Stop 只清理句柄，保留 Err
		_ = p.engine.Stop(context.Background())
		p.state = StateStopped
		logger.Warn("处理循环已退出", "id", p.id.ShortString(), "error", p.engine.Err())
	default:
	}
}

// Config 返回生效配置的副本
func (p *Participant) Config() *config.Config {
	return p.cfg.Clone()
}

// LocalAddr 返回单播数据端点地址
func (p *Participant) LocalAddr() netip.AddrPort {
	return p.transport.LocalAddr()
}

// Group 返回多播发现组地址
func (p *Participant) Group() netip.AddrPort {
	return p.transport.Group()
}

// Peers 返回当前已知对端，按地址排序
func (p *Participant) Peers() []peerstore.Peer {
	return p.peers.Peers()
}

// Done 返回处理循环退出信号，未运行时返回 nil
//
// 循环因错误退出后通道关闭，直到下一次 State、Start 或 Stop 调用。
func (p *Participant) Done() <-chan struct{} {
	return p.engine.Done()
}

// Err 返回处理循环的退出错误（套接字读失败）
func (p *Participant) Err() error {
	return p.engine.Err()
}

// Stats 返回指标快照，关闭指标时返回零值
func (p *Participant) Stats() metrics.Snapshot {
	if p.collector == nil {
		return metrics.Snapshot{}
	}
	return p.collector.Snapshot()
}

// LogStats 以 Info 级别输出指标快照，关闭指标时只输出提示
func (p *Participant) LogStats(msg string) {
	if p.collector == nil {
		logger.Info(msg, "id", p.id.ShortString(), "metrics", "disabled")
		return
	}
	p.collector.LogSnapshot(msg, "id", p.id.ShortString())
}

// ════════════════════════════════════════════════════════════════════════════
//                              实体注册
// ════════════════════════════════════════════════════════════════════════════

// RegisterWriter 注册 Writer(topic)
//
// 新实体在下一个 tick 随公告发出。
func (p *Participant) RegisterWriter(topic string) *Writer {
	return &Writer{state: p.engine.RegisterWriter(topic)}
}

// RegisterReader 注册 Reader(topic)
func (p *Participant) RegisterReader(topic string) *Reader {
	return &Reader{state: p.engine.RegisterReader(topic)}
}

// Entities 返回全部本地实体，写者在前
func (p *Participant) Entities() []types.Entity {
	return p.engine.Entities()
}
