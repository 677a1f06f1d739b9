// Package interfaces 定义 go-rtps 的内部契约接口
//
// 本文件定义 Reporter 接口，供传输层与引擎上报运行指标。
package interfaces

// Reporter 运行指标上报接口
//
// 实现必须并发安全且不阻塞调用方。
type Reporter interface {
	// DatagramSent 记录一次成功发送的数据报
	DatagramSent(channel string)

	// DatagramReceived 记录一次收到的数据报（解码前）
	DatagramReceived(channel string)

	// DecodeFailure 记录一次解码失败（数据报被丢弃）
	DecodeFailure(channel string)

	// SendFailure 记录一次转发失败
	SendFailure()

	// MessagesForwarded 记录写者缓冲中成功转发的消息数
	MessagesForwarded(n int)

	// MessagesDropped 记录因无匹配对端而丢弃的消息数
	MessagesDropped(n int)

	// MessagesDelivered 记录投递到本地读者缓冲的消息数
	MessagesDelivered(n int)

	// PeersKnown 更新当前已知对端数量
	PeersKnown(n int)

	// RegistryCleared 记录一次对端注册表过期清空
	RegistryCleared()
}
