package participant

import (
	"context"
	"net/netip"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"golang.org/x/time/rate"

	"github.com/dep2p/go-rtps/internal/core/cache"
	"github.com/dep2p/go-rtps/internal/core/metrics"
	"github.com/dep2p/go-rtps/internal/core/peerstore"
	"github.com/dep2p/go-rtps/pkg/interfaces"
	"github.com/dep2p/go-rtps/pkg/lib/log"
	"github.com/dep2p/go-rtps/pkg/types"
)

var logger = log.Logger("core/participant")

// Participant 本地参与者
type Participant struct {
	id        types.ParticipantID
	cfg       Config
	transport interfaces.Transport
	peers     *peerstore.Store
	reporter  interfaces.Reporter
	clock     clock.Clock

	// 实体注册表，应用协程注册、处理协程读取快照
	mu      sync.RWMutex
	writers []*cache.WriterState
	readers []*cache.ReaderState

	// 以下字段只由处理协程访问
	lastAnnounce time.Time
	announced    bool
	warnLimit    *rate.Limiter

	running atomic.Bool
	loopMu  sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	loopErr error
}

// New 创建参与者
func New(cfg Config, transport interfaces.Transport, peers *peerstore.Store, opts ...Option) (*Participant, error) {
	if transport == nil {
		return nil, ErrNilTransport
	}
	if peers == nil {
		return nil, ErrNilPeerstore
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := &Participant{
		id:        types.NewParticipantID(),
		cfg:       cfg,
		transport: transport,
		peers:     peers,
		reporter:  metrics.NopReporter{},
		clock:     clock.New(),
		warnLimit: rate.NewLimiter(rate.Every(time.Second), 3),
	}
	for _, opt := range opts {
		opt(p)
	}

	logger.Debug("创建参与者",
		"id", p.id.ShortString(),
		"unicast", transport.LocalAddr().String(),
		"policy", cfg.DeliveryPolicy)
	return p, nil
}

// ID 返回参与者标识
func (p *Participant) ID() types.ParticipantID {
	return p.id
}

// LocalAddr 返回单播端点地址
func (p *Participant) LocalAddr() netip.AddrPort {
	return p.transport.LocalAddr()
}

// Peers 返回对端注册表
func (p *Participant) Peers() *peerstore.Store {
	return p.peers
}

// ============================================================================
//                              实体注册
// ============================================================================

// RegisterWriter 注册 Writer(topic)，返回应用侧写入句柄
//
// 同一主题可以注册多个写者，各自独立缓冲。
func (p *Participant) RegisterWriter(topic string) *cache.WriterState {
	w := cache.NewWriterState(topic, p.cfg.MaxDatagramSize)

	p.mu.Lock()
	p.writers = append(p.writers, w)
	p.mu.Unlock()

	logger.Info("注册写者", "id", p.id.ShortString(), "topic", topic)
	return w
}

// RegisterReader 注册 Reader(topic)，返回应用侧读取句柄
func (p *Participant) RegisterReader(topic string) *cache.ReaderState {
	r := cache.NewReaderState(topic)

	p.mu.Lock()
	p.readers = append(p.readers, r)
	p.mu.Unlock()

	logger.Info("注册读者", "id", p.id.ShortString(), "topic", topic)
	return r
}

// Entities 返回全部本地实体，写者在前
func (p *Participant) Entities() []types.Entity {
	p.mu.RLock()
	defer p.mu.RUnlock()

	entities := make([]types.Entity, 0, len(p.writers)+len(p.readers))
	for _, w := range p.writers {
		entities = append(entities, w.Entity())
	}
	for _, r := range p.readers {
		entities = append(entities, r.Entity())
	}
	return entities
}

func (p *Participant) writerSnapshot() []*cache.WriterState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]*cache.WriterState(nil), p.writers...)
}

func (p *Participant) readersFor(topic string) []*cache.ReaderState {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var matched []*cache.ReaderState
	for _, r := range p.readers {
		if r.Topic() == topic {
			matched = append(matched, r)
		}
	}
	return matched
}

// ============================================================================
//                              发现
// ============================================================================

// Advertise 向多播组公告全部本地实体
func (p *Participant) Advertise() error {
	msg := types.ParticipantRegister{Participant: types.RemoteParticipant{Entities: p.Entities()}}
	return p.transport.SendDiscovery(msg)
}

// IngestDiscoveryTick 处理一个 tick 的发现流程
//
// 先按 TTL 整体清空注册表，再最多读取一条发现消息。
// 只有发现端点的读错误会返回。
func (p *Participant) IngestDiscoveryTick() error {
	if p.peers.ExpireIfDue() {
		p.reporter.RegistryCleared()
	}

	env, err := p.transport.TryReceiveDiscovery()
	if err != nil {
		return err
	}
	if env != nil {
		p.ingest(env)
	}
	p.reporter.PeersKnown(p.peers.Len())
	return nil
}

func (p *Participant) ingest(env *types.Envelope) {
	switch msg := env.Message.(type) {
	case types.ParticipantRegister:
		_, known := p.peers.Get(env.From)
		if err := p.peers.Put(env.From, msg.Participant); err != nil {
			logger.Debug("忽略无效来源的公告", "from", env.From.String(), "error", err)
			return
		}
		if !known {
			logger.Info("发现对端",
				"id", p.id.ShortString(),
				"peer", env.From.String(),
				"entities", len(msg.Participant.Entities))
		}
	case types.TopicData:
		logger.Debug("发现通道收到主题数据，已丢弃", "from", env.From.String(), "topic", msg.Topic)
	}
}

// warn 限频输出告警
func (p *Participant) warn(msg string, args ...any) {
	if p.warnLimit.Allow() {
		logger.Warn(msg, args...)
	}
}
