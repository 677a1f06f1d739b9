// Package peerstore 实现对端参与者注册表
//
// 注册表以对端的单播地址（发现公告的来源地址）为键，保存该对端
// 最近一次公告的实体集合。每条公告整体替换旧值（后写者胜）。
//
// # 过期
//
// 注册表不按条目计时，而是整体清空：距离上次清空已满 TTL（默认 5s）
// 时，ExpireIfDue 清空全部条目并重置计时。持续公告的对端会在下一次
// 公告时重新加入，停止公告的对端在至多两个 TTL 内消失。
//
// 时间源使用 github.com/benbjohnson/clock，测试中可用 clock.NewMock 推进。
//
// # 并发
//
// Store 内部使用 RWMutex，可以被处理循环写、被诊断接口并发读。
package peerstore
