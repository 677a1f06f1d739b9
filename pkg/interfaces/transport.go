// Package interfaces 定义 go-rtps 的内部契约接口
//
// 本文件定义 Transport 接口，抽象双通道 UDP 传输。
package interfaces

import (
	"net/netip"

	"github.com/dep2p/go-rtps/pkg/types"
)

// 通道名称，用于日志与指标标签
const (
	ChannelData      = "data"
	ChannelDiscovery = "discovery"
)

// Transport 定义传输层接口
//
// Transport 持有两个 UDP 端点：单播数据端点与多播发现端点。
// 所有方法只由处理协程调用，接收方法受读超时约束，不会无限阻塞。
type Transport interface {
	// Send 在单播端点上编码并发送消息到任意单播或多播地址
	Send(msg types.Message, dst netip.AddrPort) error

	// SendDiscovery 从单播端点向多播组发送发现消息
	//
	// 发送方的源地址即其单播端点，对端据此得知回复地址。
	SendDiscovery(msg types.Message) error

	// TryReceive 从单播端点读取一条消息
	//
	// 超时或解码失败返回 (nil, nil)；其他套接字错误返回 error。
	TryReceive() (*types.Envelope, error)

	// TryReceiveDiscovery 从多播端点读取一条消息，约定同 TryReceive
	TryReceiveDiscovery() (*types.Envelope, error)

	// LocalAddr 返回单播端点的本地地址
	LocalAddr() netip.AddrPort

	// Close 关闭两个端点
	Close() error
}
