// Package metrics 提供引擎运行指标
//
// Collector 实现 interfaces.Reporter，把传输层与引擎上报的事件记录到
// 私有的 prometheus.Registry 上（不污染全局 DefaultRegisterer），
// 所有指标带 participant 常量标签：
//
//	rtps_datagrams_sent_total{channel}
//	rtps_datagrams_received_total{channel}
//	rtps_decode_failures_total{channel}
//	rtps_send_failures_total
//	rtps_messages_forwarded_total
//	rtps_messages_dropped_total
//	rtps_messages_delivered_total
//	rtps_peers_known
//	rtps_peer_registry_clears_total
//
// 同时维护最近 60 秒的数据报速率（RateMeter），Snapshot 返回一份
// 可直接写入日志的汇总。
//
// 配置 Metrics.ListenAddr 后，Module 会在该地址启动 promhttp 服务。
// 关闭指标时 Module 提供 NopReporter。
package metrics
