package rtps

import (
	"github.com/dep2p/go-rtps/internal/core/cache"
	"github.com/dep2p/go-rtps/pkg/types"
)

// Writer 应用侧写入句柄
//
// 可在任意协程并发调用，数据在下一个 tick 由处理循环取走并转发给匹配的读者。
type Writer struct {
	state *cache.WriterState
}

// Write 追加一条数据
//
// 编码后超过数据报上限时返回 wire.ErrMessageTooLarge，数据不入队。
func (w *Writer) Write(data string) error {
	return w.state.Write(data)
}

// Topic 返回主题名
func (w *Writer) Topic() string {
	return w.state.Topic()
}

// Entity 返回对应的实体
func (w *Writer) Entity() types.Entity {
	return w.state.Entity()
}

// Pending 返回尚未转发的数据条数
func (w *Writer) Pending() int {
	return w.state.Len()
}

// Reader 应用侧读取句柄
type Reader struct {
	state *cache.ReaderState
}

// Pop 取走全部已收到的数据，按到达顺序返回
//
// 每条数据只返回一次。
func (r *Reader) Pop() []string {
	return r.state.Pop()
}

// Topic 返回主题名
func (r *Reader) Topic() string {
	return r.state.Topic()
}

// Entity 返回对应的实体
func (r *Reader) Entity() types.Entity {
	return r.state.Entity()
}

// Len 返回待取数据条数
func (r *Reader) Len() int {
	return r.state.Len()
}
