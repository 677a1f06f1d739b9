// Package transport 实现双通道 UDP 传输
//
// 每个参与者持有两个 UDP 端点：
//
//   - 单播数据端点：在端口范围 [PortRangeStart, PortRangeEnd) 内依次尝试，
//     绑定第一个可用端口。主题数据与发现公告都从这里发出，因此公告的
//     源地址就是对端回复数据时使用的地址。
//   - 多播发现端点：以 SO_REUSEADDR/SO_REUSEPORT 绑定发现端口，
//     加入多播组（golang.org/x/net/ipv4），同一主机上的多个参与者可以共享。
//
// 两个端点都使用读超时作为轮询粒度，TryReceive/TryReceiveDiscovery
// 最多阻塞一个读超时。超时与无法解码的数据报都返回 (nil, nil)，
// 只有真正的套接字错误才返回 ErrIOFailure。
//
// # 使用示例
//
//	t, err := transport.Open(transport.NewConfig(), nil)
//	if err != nil {
//	    return err
//	}
//	defer t.Close()
//
//	_ = t.SendDiscovery(types.ParticipantRegister{...})
//	env, err := t.TryReceiveDiscovery()
//
// # Fx 模块集成
//
//	app := fx.New(
//	    transport.Module(),
//	    fx.Invoke(func(t *transport.Transport) { ... }),
//	)
package transport
