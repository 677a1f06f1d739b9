// Package rtps 提供基于多播发现、单播传输的最小发布/订阅核心
//
// 参与者在局域网内通过多播组公告自身的写者与读者，
// 对端按主题名与方向（Writer/Reader）匹配后直接以单播交换数据。
// 语义为尽力而为的 UDP：不保证送达、不保证顺序、没有流控。
//
// 快速开始：
//
//	p, err := rtps.New(
//	    rtps.WithDeliveryPolicy(config.DeliveryAll),
//	)
//	if err != nil {
//	    return err
//	}
//	if err := p.Start(ctx); err != nil {
//	    return err
//	}
//	defer p.Close()
//
//	w := p.RegisterWriter("/hello")
//	_ = w.Write("ping")
//
//	r := p.RegisterReader("/hello")
//	for _, data := range r.Pop() {
//	    fmt.Println(data)
//	}
//
// 内部由 go.uber.org/fx 装配 transport、peerstore、participant、metrics 模块，
// 处理循环在 Start 后运行于独立协程，应用协程只持有 Writer/Reader 句柄。
package rtps
