package participant

import (
	"net/netip"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-rtps/config"
	"github.com/dep2p/go-rtps/internal/core/metrics"
	"github.com/dep2p/go-rtps/internal/core/peerstore"
	"github.com/dep2p/go-rtps/pkg/types"
)

const (
	addrA = "10.0.0.1:7400"
	addrB = "10.0.0.2:7400"
	addrC = "10.0.0.3:7400"
)

func newTestParticipant(t *testing.T, tr *fakeTransport, clk clock.Clock, opts ...Option) *Participant {
	t.Helper()
	if clk == nil {
		clk = clock.New()
	}
	peers, err := peerstore.NewStore(5*time.Second, clk)
	require.NoError(t, err)

	p, err := New(NewConfig(), tr, peers, append([]Option{WithClock(clk)}, opts...)...)
	require.NoError(t, err)
	return p
}

func announce(entities ...types.Entity) types.ParticipantRegister {
	return types.ParticipantRegister{Participant: types.RemoteParticipant{Entities: entities}}
}

// TestNew_Errors 测试构造参数校验
func TestNew_Errors(t *testing.T) {
	nw := newFakeNetwork()
	tr := nw.newTransport(addrA)
	peers, err := peerstore.NewStore(time.Second, nil)
	require.NoError(t, err)

	_, err = New(NewConfig(), nil, peers)
	assert.ErrorIs(t, err, ErrNilTransport)

	_, err = New(NewConfig(), tr, nil)
	assert.ErrorIs(t, err, ErrNilPeerstore)

	cfg := NewConfig()
	cfg.DeliveryPolicy = "random"
	_, err = New(cfg, tr, peers)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	id := types.NewParticipantID()
	p, err := New(NewConfig(), tr, peers, WithID(id))
	require.NoError(t, err)
	assert.Equal(t, id, p.ID())
	assert.Equal(t, netip.MustParseAddrPort(addrA), p.LocalAddr())
}

// TestConfigFromUnified 测试从统一配置转换
func TestConfigFromUnified(t *testing.T) {
	assert.Equal(t, NewConfig(), ConfigFromUnified(nil))

	cfg := config.NewConfig()
	cfg.Engine.TickInterval = config.Duration(10 * time.Millisecond)
	cfg.Engine.DeliveryPolicy = config.DeliveryAll
	cfg.Discovery.AnnounceInterval = config.Duration(time.Second)

	c := ConfigFromUnified(cfg)
	assert.Equal(t, 10*time.Millisecond, c.TickInterval)
	assert.Equal(t, config.DeliveryAll, c.DeliveryPolicy)
	assert.Equal(t, time.Second, c.AnnounceInterval)
	assert.Equal(t, 128, c.MaxDatagramSize)
	assert.NoError(t, c.Validate())
}

// TestRegister_Entities 测试实体注册与快照顺序
func TestRegister_Entities(t *testing.T) {
	p := newTestParticipant(t, newFakeNetwork().newTransport(addrA), nil)

	r := p.RegisterReader("/b")
	w := p.RegisterWriter("/a")
	p.RegisterWriter("/a")

	assert.Equal(t, types.Writer("/a"), w.Entity())
	assert.Equal(t, types.Reader("/b"), r.Entity())
	assert.Equal(t, []types.Entity{types.Writer("/a"), types.Writer("/a"), types.Reader("/b")}, p.Entities())
}

// TestAdvertise 测试公告包含全部本地实体
func TestAdvertise(t *testing.T) {
	nw := newFakeNetwork()
	a := nw.newTransport(addrA)
	b := nw.newTransport(addrB)
	p := newTestParticipant(t, a, nil)
	p.RegisterWriter("/hello")
	p.RegisterReader("/world")

	require.NoError(t, p.Advertise())

	env, err := b.TryReceiveDiscovery()
	require.NoError(t, err)
	require.NotNil(t, env)
	assert.Equal(t, netip.MustParseAddrPort(addrA), env.From)
	assert.Equal(t, announce(types.Writer("/hello"), types.Reader("/world")), env.Message)
}

// TestIngestDiscoveryTick_OnePerTick 测试每个 tick 最多消费一条公告
func TestIngestDiscoveryTick_OnePerTick(t *testing.T) {
	tr := newFakeNetwork().newTransport(addrA)
	p := newTestParticipant(t, tr, nil)

	tr.injectDiscovery(addrB, announce(types.Reader("/t")))
	tr.injectDiscovery(addrC, announce(types.Reader("/t")))

	require.NoError(t, p.IngestDiscoveryTick())
	assert.Equal(t, 1, p.Peers().Len())

	require.NoError(t, p.IngestDiscoveryTick())
	assert.Equal(t, 2, p.Peers().Len())

	require.NoError(t, p.IngestDiscoveryTick())
	assert.Equal(t, 2, p.Peers().Len())
}

// TestIngestDiscoveryTick_Replace 测试公告整体替换
func TestIngestDiscoveryTick_Replace(t *testing.T) {
	tr := newFakeNetwork().newTransport(addrA)
	p := newTestParticipant(t, tr, nil)

	tr.injectDiscovery(addrB, announce(types.Reader("/old")))
	tr.injectDiscovery(addrB, announce(types.Reader("/new")))
	require.NoError(t, p.IngestDiscoveryTick())
	require.NoError(t, p.IngestDiscoveryTick())

	rp, ok := p.Peers().Get(netip.MustParseAddrPort(addrB))
	require.True(t, ok)
	assert.Equal(t, []types.Entity{types.Reader("/new")}, rp.Entities)
}

// TestIngestDiscoveryTick_DiscardsTopicData 测试发现通道上的主题数据被丢弃
func TestIngestDiscoveryTick_DiscardsTopicData(t *testing.T) {
	tr := newFakeNetwork().newTransport(addrA)
	p := newTestParticipant(t, tr, nil)
	r := p.RegisterReader("/t")

	tr.injectDiscovery(addrB, types.TopicData{Topic: "/t", Data: "x"})
	require.NoError(t, p.IngestDiscoveryTick())

	assert.Equal(t, 0, p.Peers().Len())
	assert.Empty(t, r.Pop())
}

// TestIngestDiscoveryTick_Expiry 测试满 TTL 后注册表整体清空
func TestIngestDiscoveryTick_Expiry(t *testing.T) {
	clk := clock.NewMock()
	collector := metrics.NewCollector(types.NewParticipantID(), clk)
	tr := newFakeNetwork().newTransport(addrA)
	p := newTestParticipant(t, tr, clk, WithReporter(collector))

	tr.injectDiscovery(addrB, announce(types.Reader("/t")))
	tr.injectDiscovery(addrC, announce(types.Reader("/t")))
	require.NoError(t, p.IngestDiscoveryTick())
	require.NoError(t, p.IngestDiscoveryTick())
	require.Equal(t, 2, p.Peers().Len())

	clk.Add(4 * time.Second)
	require.NoError(t, p.IngestDiscoveryTick())
	assert.Equal(t, 2, p.Peers().Len())

	clk.Add(time.Second)
	require.NoError(t, p.IngestDiscoveryTick())
	assert.Equal(t, 0, p.Peers().Len())

	s := collector.Snapshot()
	assert.Equal(t, int64(1), s.RegistryClears)
	assert.Equal(t, 0, s.PeersKnown)
}

// TestIngestDiscoveryTick_ExpiryBeforeIngest 测试清空发生在读取本 tick 公告之前
func TestIngestDiscoveryTick_ExpiryBeforeIngest(t *testing.T) {
	clk := clock.NewMock()
	tr := newFakeNetwork().newTransport(addrA)
	p := newTestParticipant(t, tr, clk)

	tr.injectDiscovery(addrB, announce(types.Reader("/t")))
	require.NoError(t, p.IngestDiscoveryTick())

	clk.Add(6 * time.Second)
	tr.injectDiscovery(addrC, announce(types.Reader("/t")))
	require.NoError(t, p.IngestDiscoveryTick())

	peers := p.Peers().Peers()
	require.Len(t, peers, 1)
	assert.Equal(t, netip.MustParseAddrPort(addrC), peers[0].Addr)
}
