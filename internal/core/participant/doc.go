// Package participant 实现实体注册表与匹配转发引擎
//
// Participant 是一个本地参与者：持有本地 Writer/Reader 实体、
// 对端注册表（peerstore.Store）与传输（interfaces.Transport），
// 由单个处理协程按固定周期驱动：
//
//	Tick = Advertise → IngestDiscoveryTick → ProcessWriters → ProcessReaders
//
// # 发现
//
// Advertise 把全部本地实体作为 ParticipantRegister 发往多播组；
// IngestDiscoveryTick 先按 TTL 整体清空注册表，再最多读取一条发现消息，
// 以发送方地址为键记录对端公告。每个 tick 只消费一条公告，
// 公告会周期重复，无需一次读尽。
//
// # 匹配与转发
//
// ProcessWriters 取走每个写者缓冲中的全部数据，找出公告了互补实体
// （Writer(t) 对应 Reader(t)）的对端，按目的地址分批发送。
// 没有匹配对端时数据直接丢弃，不重试。多个对端订阅同一主题时由
// DeliveryPolicy 决定：first 只发给地址最小的对端，all 发给所有对端。
//
// ProcessReaders 读尽单播端点，把每条 Topic{t, d} 推入所有主题为 t 的
// 本地读者缓冲。
//
// # 并发
//
// 注册表与传输只由处理协程访问；应用协程只持有 WriterState/ReaderState。
// RegisterWriter/RegisterReader 可以在循环运行期间从任意协程调用，
// 处理协程每个 tick 取一次实体快照。
package participant
