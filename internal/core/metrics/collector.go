package metrics

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dep2p/go-rtps/pkg/interfaces"
	"github.com/dep2p/go-rtps/pkg/lib/log"
	"github.com/dep2p/go-rtps/pkg/types"
)

var logger = log.Logger("core/metrics")

const namespace = "rtps"

var _ interfaces.Reporter = (*Collector)(nil)

// Collector Prometheus 指标收集器
type Collector struct {
	registry *prometheus.Registry
	clock    clock.Clock
	started  time.Time

	datagramsSent     *prometheus.CounterVec
	datagramsReceived *prometheus.CounterVec
	decodeFailures    *prometheus.CounterVec
	sendFailures      prometheus.Counter
	forwarded         prometheus.Counter
	dropped           prometheus.Counter
	delivered         prometheus.Counter
	peersKnown        prometheus.Gauge
	registryClears    prometheus.Counter

	// 快照用的累计值，避免每次都 Gather
	sentTotal      atomic.Int64
	recvTotal      atomic.Int64
	decodeFailTot  atomic.Int64
	sendFailTotal  atomic.Int64
	forwardedTotal atomic.Int64
	droppedTotal   atomic.Int64
	deliveredTotal atomic.Int64
	peers          atomic.Int64
	clearsTotal    atomic.Int64

	sendRate *RateMeter
	recvRate *RateMeter
}

// NewCollector 创建指标收集器
//
// 指标注册在私有 Registry 上，并附带 participant 常量标签。
// clk 为 nil 时使用真实时钟。
func NewCollector(id types.ParticipantID, clk clock.Clock) *Collector {
	if clk == nil {
		clk = clock.New()
	}
	labels := prometheus.Labels{"participant": id.String()}

	counterVec := func(subsystem, name, help string) *prometheus.CounterVec {
		return prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: labels,
		}, []string{"channel"})
	}
	counter := func(subsystem, name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: labels,
		})
	}

	c := &Collector{
		registry: prometheus.NewRegistry(),
		clock:    clk,
		started:  clk.Now(),

		datagramsSent:     counterVec("datagrams", "sent_total", "Total number of datagrams sent"),
		datagramsReceived: counterVec("datagrams", "received_total", "Total number of datagrams received"),
		decodeFailures:    counterVec("", "decode_failures_total", "Total number of datagrams dropped because they failed to decode"),
		sendFailures:      counter("", "send_failures_total", "Total number of messages that failed to send"),
		forwarded:         counter("messages", "forwarded_total", "Total number of writer messages sent to a matched peer"),
		dropped:           counter("messages", "dropped_total", "Total number of writer messages dropped for lack of a matching peer"),
		delivered:         counter("messages", "delivered_total", "Total number of messages pushed into local reader buffers"),
		peersKnown: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "peers_known",
			Help:        "Number of remote participants currently in the peer registry",
			ConstLabels: labels,
		}),
		registryClears: counter("peer_registry", "clears_total", "Total number of peer registry expiry clears"),

		sendRate: NewRateMeter(clk),
		recvRate: NewRateMeter(clk),
	}

	c.registry.MustRegister(
		c.datagramsSent,
		c.datagramsReceived,
		c.decodeFailures,
		c.sendFailures,
		c.forwarded,
		c.dropped,
		c.delivered,
		c.peersKnown,
		c.registryClears,
		collectors.NewGoCollector(),
	)
	return c
}

// Registry 返回私有 Registry
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler 返回 /metrics HTTP 处理器
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// ============================================================================
//                              interfaces.Reporter
// ============================================================================

// DatagramSent 实现 Reporter
func (c *Collector) DatagramSent(channel string) {
	c.datagramsSent.WithLabelValues(channel).Inc()
	c.sentTotal.Add(1)
	c.sendRate.Add(1)
}

// DatagramReceived 实现 Reporter
func (c *Collector) DatagramReceived(channel string) {
	c.datagramsReceived.WithLabelValues(channel).Inc()
	c.recvTotal.Add(1)
	c.recvRate.Add(1)
}

// DecodeFailure 实现 Reporter
func (c *Collector) DecodeFailure(channel string) {
	c.decodeFailures.WithLabelValues(channel).Inc()
	c.decodeFailTot.Add(1)
}

// SendFailure 实现 Reporter
func (c *Collector) SendFailure() {
	c.sendFailures.Inc()
	c.sendFailTotal.Add(1)
}

// MessagesForwarded 实现 Reporter
func (c *Collector) MessagesForwarded(n int) {
	if n <= 0 {
		return
	}
	c.forwarded.Add(float64(n))
	c.forwardedTotal.Add(int64(n))
}

// MessagesDropped 实现 Reporter
func (c *Collector) MessagesDropped(n int) {
	if n <= 0 {
		return
	}
	c.dropped.Add(float64(n))
	c.droppedTotal.Add(int64(n))
}

// MessagesDelivered 实现 Reporter
func (c *Collector) MessagesDelivered(n int) {
	if n <= 0 {
		return
	}
	c.delivered.Add(float64(n))
	c.deliveredTotal.Add(int64(n))
}

// PeersKnown 实现 Reporter
func (c *Collector) PeersKnown(n int) {
	c.peersKnown.Set(float64(n))
	c.peers.Store(int64(n))
}

// RegistryCleared 实现 Reporter
func (c *Collector) RegistryCleared() {
	c.registryClears.Inc()
	c.clearsTotal.Add(1)
}
