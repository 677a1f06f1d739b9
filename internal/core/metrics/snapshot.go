package metrics

import "time"

// Snapshot 指标快照
//
// 便于日志输出与诊断，数值与 Prometheus 指标一致。
type Snapshot struct {
	Timestamp     time.Time `json:"timestamp"`
	UptimeSeconds int64     `json:"uptimeSeconds"`

	// 数据报统计
	DatagramsSent     int64   `json:"datagramsSent"`
	DatagramsReceived int64   `json:"datagramsReceived"`
	SendRate          float64 `json:"sendRate"`
	RecvRate          float64 `json:"recvRate"`
	DecodeFailures    int64   `json:"decodeFailures"`
	SendFailures      int64   `json:"sendFailures"`

	// 消息统计
	MessagesForwarded int64 `json:"messagesForwarded"`
	MessagesDropped   int64 `json:"messagesDropped"`
	MessagesDelivered int64 `json:"messagesDelivered"`

	// 注册表统计
	PeersKnown     int   `json:"peersKnown"`
	RegistryClears int64 `json:"registryClears"`
}

// Snapshot 返回当前指标快照
func (c *Collector) Snapshot() Snapshot {
	now := c.clock.Now()
	return Snapshot{
		Timestamp:         now,
		UptimeSeconds:     int64(now.Sub(c.started).Seconds()),
		DatagramsSent:     c.sentTotal.Load(),
		DatagramsReceived: c.recvTotal.Load(),
		SendRate:          c.sendRate.Rate(),
		RecvRate:          c.recvRate.Rate(),
		DecodeFailures:    c.decodeFailTot.Load(),
		SendFailures:      c.sendFailTotal.Load(),
		MessagesForwarded: c.forwardedTotal.Load(),
		MessagesDropped:   c.droppedTotal.Load(),
		MessagesDelivered: c.deliveredTotal.Load(),
		PeersKnown:        int(c.peers.Load()),
		RegistryClears:    c.clearsTotal.Load(),
	}
}

// LogSnapshot 以 Info 级别输出快照，args 追加在指标字段之前
func (c *Collector) LogSnapshot(msg string, args ...any) {
	s := c.Snapshot()
	logger.Info(msg, append(args,
		"uptime", s.UptimeSeconds,
		"sent", s.DatagramsSent,
		"recv", s.DatagramsReceived,
		"sendRate", s.SendRate,
		"recvRate", s.RecvRate,
		"decodeFailures", s.DecodeFailures,
		"sendFailures", s.SendFailures,
		"forwarded", s.MessagesForwarded,
		"dropped", s.MessagesDropped,
		"delivered", s.MessagesDelivered,
		"peers", s.PeersKnown,
		"clears", s.RegistryClears,
	)...)
}
