// Package cache 实现应用协程与处理循环之间的消息交接缓冲
//
// WriterState 是写者的出站队列：应用协程 Write 追加，处理循环 DrainAll
// 一次取走全部并清空。ReaderState 是读者的入站队列：处理循环 Push，
// 应用协程 Pop 一次取走全部并清空（至多一次，无重放）。
//
// 两者都以指针共享，内部用 sync.Mutex 保护，每次加锁范围只覆盖
// 一次队列操作，绝不跨越套接字调用。
//
//	w := p.RegisterWriter("/hello")
//	_ = w.Write("ping")
//
//	r := p.RegisterReader("/hello")
//	for _, data := range r.Pop() {
//	    fmt.Println(data)
//	}
package cache
