// Package interfaces 定义 go-rtps 的内部契约接口
//
// 引擎（internal/core/participant）只依赖这里的接口，
// 具体实现由 internal/core 下的各模块提供：
//   - transport.go - Transport，双通道 UDP 传输（internal/core/transport）
//   - metrics.go   - Reporter，引擎指标上报（internal/core/metrics）
package interfaces
