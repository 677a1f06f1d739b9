package metrics

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-rtps/pkg/interfaces"
	"github.com/dep2p/go-rtps/pkg/lib/log"
	"github.com/dep2p/go-rtps/pkg/types"
)

// TestCollector_Counters 测试计数器与快照一致
func TestCollector_Counters(t *testing.T) {
	clk := clock.NewMock()
	c := NewCollector(types.NewParticipantID(), clk)

	c.DatagramSent(interfaces.ChannelData)
	c.DatagramSent(interfaces.ChannelDiscovery)
	c.DatagramSent(interfaces.ChannelDiscovery)
	c.DatagramReceived(interfaces.ChannelData)
	c.DecodeFailure(interfaces.ChannelDiscovery)
	c.SendFailure()
	c.MessagesForwarded(3)
	c.MessagesDropped(2)
	c.MessagesDropped(0)
	c.MessagesDelivered(4)
	c.PeersKnown(5)
	c.PeersKnown(2)
	c.RegistryCleared()

	assert.Equal(t, 1.0, testutil.ToFloat64(c.datagramsSent.WithLabelValues(interfaces.ChannelData)))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.datagramsSent.WithLabelValues(interfaces.ChannelDiscovery)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.decodeFailures.WithLabelValues(interfaces.ChannelDiscovery)))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.forwarded))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.dropped))
	assert.Equal(t, 4.0, testutil.ToFloat64(c.delivered))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.peersKnown))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.registryClears))

	clk.Add(90 * time.Second)
	s := c.Snapshot()
	assert.Equal(t, int64(90), s.UptimeSeconds)
	assert.Equal(t, int64(3), s.DatagramsSent)
	assert.Equal(t, int64(1), s.DatagramsReceived)
	assert.Equal(t, int64(1), s.DecodeFailures)
	assert.Equal(t, int64(1), s.SendFailures)
	assert.Equal(t, int64(3), s.MessagesForwarded)
	assert.Equal(t, int64(2), s.MessagesDropped)
	assert.Equal(t, int64(4), s.MessagesDelivered)
	assert.Equal(t, 2, s.PeersKnown)
	assert.Equal(t, int64(1), s.RegistryClears)
	// 窗口已滑出
	assert.Zero(t, s.SendRate)
}

// TestCollector_Exposition 测试导出格式带 participant 标签
func TestCollector_Exposition(t *testing.T) {
	id := types.NewParticipantID()
	c := NewCollector(id, nil)
	c.SendFailure()

	expected := `
# HELP rtps_send_failures_total Total number of messages that failed to send
# TYPE rtps_send_failures_total counter
rtps_send_failures_total{participant="` + id.String() + `"} 1
`
	require.NoError(t, testutil.GatherAndCompare(c.Registry(), strings.NewReader(expected), "rtps_send_failures_total"))

	n, err := testutil.GatherAndCount(c.Registry(), "rtps_peers_known", "rtps_peer_registry_clears_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

// TestCollector_LogSnapshot 测试快照日志输出
func TestCollector_LogSnapshot(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutputWithLevel(&buf, log.LevelInfo)
	t.Cleanup(func() { log.SetOutputWithLevel(os.Stderr, log.LevelInfo) })

	c := NewCollector(types.NewParticipantID(), clock.NewMock())
	c.MessagesForwarded(3)
	c.PeersKnown(2)
	c.LogSnapshot("运行统计", "topic", "/hello")

	out := buf.String()
	assert.Contains(t, out, "运行统计")
	assert.Contains(t, out, "topic=/hello")
	assert.Contains(t, out, "forwarded=3")
	assert.Contains(t, out, "peers=2")
}

// TestRateMeter 测试滑动窗口速率
func TestRateMeter(t *testing.T) {
	clk := clock.NewMock()
	r := NewRateMeter(clk)

	r.Add(30)
	clk.Add(time.Second)
	r.Add(30)
	assert.Equal(t, int64(60), r.Total())
	assert.Equal(t, 1.0, r.Rate())

	clk.Add(59 * time.Second)
	assert.Equal(t, int64(30), r.Total())

	clk.Add(time.Second)
	assert.Equal(t, int64(0), r.Total())

	r.Add(5)
	r.Reset()
	assert.Equal(t, int64(0), r.Total())
}

// TestNopReporter 测试空实现可安全调用
func TestNopReporter(t *testing.T) {
	var r interfaces.Reporter = NopReporter{}
	r.DatagramSent(interfaces.ChannelData)
	r.DatagramReceived(interfaces.ChannelData)
	r.DecodeFailure(interfaces.ChannelData)
	r.SendFailure()
	r.MessagesForwarded(1)
	r.MessagesDropped(1)
	r.MessagesDelivered(1)
	r.PeersKnown(1)
	r.RegistryCleared()
}
