package cache

import (
	"github.com/dep2p/go-rtps/internal/core/wire"
	"github.com/dep2p/go-rtps/pkg/types"
)

// WriterState 写者出站缓冲
type WriterState struct {
	topic    string
	capacity int
	q        queue
}

// NewWriterState 创建写者缓冲
//
// capacity 为单条消息编码后的最大字节数，<=0 时使用 wire.DefaultCapacity。
func NewWriterState(topic string, capacity int) *WriterState {
	if capacity <= 0 {
		capacity = wire.DefaultCapacity
	}
	return &WriterState{topic: topic, capacity: capacity}
}

// Write 追加一条待发送数据
//
// 编码后超出数据报容量的数据直接拒绝，返回 wire.ErrMessageTooLarge。
func (w *WriterState) Write(data string) error {
	if err := wire.CheckTopicData(w.topic, data, w.capacity); err != nil {
		return err
	}
	w.q.push(data)
	return nil
}

// DrainAll 按入队顺序取走全部待发送数据并清空
func (w *WriterState) DrainAll() []string {
	return w.q.drainAll()
}

// Len 返回待发送数据条数
func (w *WriterState) Len() int {
	return w.q.len()
}

// Topic 返回主题
func (w *WriterState) Topic() string {
	return w.topic
}

// Entity 返回 Writer(topic)
func (w *WriterState) Entity() types.Entity {
	return types.Writer(w.topic)
}
