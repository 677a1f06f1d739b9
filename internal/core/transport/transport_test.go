package transport

import (
	"errors"
	"net"
	"net/netip"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-rtps/internal/core/metrics"
	"github.com/dep2p/go-rtps/internal/core/wire"
	"github.com/dep2p/go-rtps/pkg/types"
)

func loopback(addr netip.AddrPort) netip.AddrPort {
	return netip.AddrPortFrom(netip.MustParseAddr("127.0.0.1"), addr.Port())
}

// TestConfig_Validate 测试配置校验
func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, NewConfig().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"IPv6 接口", func(c *Config) { c.Interface = netip.IPv6Unspecified() }},
		{"空端口范围", func(c *Config) { c.PortRangeEnd = c.PortRangeStart }},
		{"零读超时", func(c *Config) { c.ReadTimeout = 0 }},
		{"零数据报容量", func(c *Config) { c.MaxDatagramSize = 0 }},
		{"单播组地址", func(c *Config) { c.Group = netip.MustParseAddrPort("10.0.0.1:7399") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

// TestOpen_PortRange 测试端口范围内依次绑定
func TestOpen_PortRange(t *testing.T) {
	a := openTest(t, testConfig(47400), nil)
	b := openTest(t, testConfig(47400), nil)

	assert.Equal(t, uint16(47400), a.LocalAddr().Port())
	assert.Equal(t, uint16(47401), b.LocalAddr().Port())
}

// TestOpen_BindFailure 测试端口范围耗尽
func TestOpen_BindFailure(t *testing.T) {
	busy, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 47460})
	require.NoError(t, err)
	defer busy.Close()

	cfg := testConfig(47460)
	cfg.PortRangeEnd = 47461

	_, err = Open(cfg, nil)
	assert.ErrorIs(t, err, ErrBindFailure)

	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "bind", te.Op)
}

// TestSendReceive 测试单播收发
func TestSendReceive(t *testing.T) {
	a := openTest(t, testConfig(47500), nil)
	b := openTest(t, testConfig(47500), nil)

	msg := types.TopicData{Topic: "/hello", Data: "ping"}
	require.NoError(t, a.Send(msg, loopback(b.LocalAddr())))

	env, err := receiveWithin(b.TryReceive, 2*time.Second)
	require.NoError(t, err)
	require.NotNil(t, env)
	assert.Equal(t, msg, env.Message)
	assert.Equal(t, loopback(a.LocalAddr()), env.From)
}

// TestTryReceive_Timeout 测试读超时返回 (nil, nil)
func TestTryReceive_Timeout(t *testing.T) {
	a := openTest(t, testConfig(47560), nil)

	start := time.Now()
	env, err := a.TryReceive()
	assert.NoError(t, err)
	assert.Nil(t, env)
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

// TestTryReceive_DropsMalformed 测试畸形与超长数据报被丢弃
func TestTryReceive_DropsMalformed(t *testing.T) {
	collector := metrics.NewCollector(types.NewParticipantID(), nil)
	a := openTest(t, testConfig(47620), collector)

	raw, err := net.DialUDP("udp4", nil, net.UDPAddrFromAddrPort(loopback(a.LocalAddr())))
	require.NoError(t, err)
	defer raw.Close()

	_, err = raw.Write([]byte("hello world"))
	require.NoError(t, err)
	_, err = raw.Write([]byte(strings.Repeat("x", 200)))
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		env, err := receiveWithin(a.TryReceive, 200*time.Millisecond)
		assert.NoError(t, err)
		assert.Nil(t, env)
	}

	s := collector.Snapshot()
	assert.Equal(t, int64(2), s.DatagramsReceived)
	assert.Equal(t, int64(2), s.DecodeFailures)
}

// TestSend_TooLarge 测试超出容量的消息不发送
func TestSend_TooLarge(t *testing.T) {
	collector := metrics.NewCollector(types.NewParticipantID(), nil)
	a := openTest(t, testConfig(47680), collector)

	err := a.Send(types.TopicData{Topic: "/t", Data: strings.Repeat("x", 200)}, loopback(a.LocalAddr()))
	assert.ErrorIs(t, err, wire.ErrMessageTooLarge)
	assert.Equal(t, int64(0), collector.Snapshot().DatagramsSent)
}

// TestClose 测试关闭后的行为
func TestClose(t *testing.T) {
	a := openTest(t, testConfig(47740), nil)

	require.NoError(t, a.Close())
	assert.NoError(t, a.Close())

	_, err := a.TryReceive()
	assert.ErrorIs(t, err, ErrIOFailure)
	_, err = a.TryReceiveDiscovery()
	assert.ErrorIs(t, err, ErrIOFailure)

	err = a.Send(types.TopicData{Topic: "/t"}, loopback(a.LocalAddr()))
	assert.ErrorIs(t, err, ErrSendFailure)
	assert.ErrorIs(t, err, ErrIOFailure)
	assert.ErrorIs(t, err, ErrClosed)
}

// TestDiscovery_Multicast 测试多播公告的来源是单播端点
func TestDiscovery_Multicast(t *testing.T) {
	cfg := testConfig(47800)
	cfg.Interface = netip.IPv4Unspecified()
	a := openTest(t, cfg, nil)
	b := openTest(t, cfg, nil)

	msg := types.ParticipantRegister{Participant: types.RemoteParticipant{
		Entities: []types.Entity{types.Reader("/hello")},
	}}
	if err := a.SendDiscovery(msg); err != nil {
		t.Skipf("环境不支持发送多播: %v", err)
	}

	env, err := receiveWithin(b.TryReceiveDiscovery, 2*time.Second)
	require.NoError(t, err)
	if env == nil {
		t.Skip("未收到多播回送")
	}
	assert.Equal(t, msg, env.Message)
	assert.Equal(t, a.LocalAddr().Port(), env.From.Port())
}
