package cache

import "github.com/dep2p/go-rtps/pkg/types"

// ReaderState 读者入站缓冲
type ReaderState struct {
	topic string
	q     queue
}

// NewReaderState 创建读者缓冲
func NewReaderState(topic string) *ReaderState {
	return &ReaderState{topic: topic}
}

// Push 追加一条收到的数据（由处理循环调用）
func (r *ReaderState) Push(data string) {
	r.q.push(data)
}

// Pop 取走自上次 Pop 以来收到的全部数据
//
// 没有新数据时返回空切片。
func (r *ReaderState) Pop() []string {
	return r.q.drainAll()
}

// Len 返回尚未取走的数据条数
func (r *ReaderState) Len() int {
	return r.q.len()
}

// Topic 返回主题
func (r *ReaderState) Topic() string {
	return r.topic
}

// Entity 返回 Reader(topic)
func (r *ReaderState) Entity() types.Entity {
	return types.Reader(r.topic)
}
