package cache

import "sync"

// queue 互斥保护的 FIFO 字符串队列
type queue struct {
	mu    sync.Mutex
	items []string
}

func (q *queue) push(items ...string) {
	q.mu.Lock()
	q.items = append(q.items, items...)
	q.mu.Unlock()
}

// drainAll 取走全部元素并清空，空队列返回 nil
func (q *queue) drainAll() []string {
	q.mu.Lock()
	items := q.items
	q.items = nil
	q.mu.Unlock()
	return items
}

func (q *queue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
