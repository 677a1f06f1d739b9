package metrics

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// ============================================================================
// RateMeter - 速率计算器
// ============================================================================

// rateBuckets 滑动窗口桶数（每桶 1 秒）
const rateBuckets = 60

// RateMeter 速率计算器（基于滑动窗口）
//
// 使用 60 个 1 秒桶来计算最近 60 秒的平均速率。
type RateMeter struct {
	mu       sync.Mutex
	clock    clock.Clock
	buckets  [rateBuckets]int64
	lastIdx  int
	lastTime time.Time
}

// NewRateMeter 创建速率计算器，clk 为 nil 时使用真实时钟
func NewRateMeter(clk clock.Clock) *RateMeter {
	if clk == nil {
		clk = clock.New()
	}
	return &RateMeter{clock: clk, lastTime: clk.Now()}
}

// advanceLocked 把窗口推进到当前时间，清空经过的桶
func (r *RateMeter) advanceLocked() {
	now := r.clock.Now()
	seconds := int(now.Sub(r.lastTime) / time.Second)
	if seconds <= 0 {
		return
	}
	if seconds >= rateBuckets {
		r.buckets = [rateBuckets]int64{}
		r.lastIdx = 0
	} else {
		for i := 0; i < seconds; i++ {
			r.lastIdx = (r.lastIdx + 1) % rateBuckets
			r.buckets[r.lastIdx] = 0
		}
	}
	r.lastTime = r.lastTime.Add(time.Duration(seconds) * time.Second)
}

// Add 计入 n 个事件
func (r *RateMeter) Add(n int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.advanceLocked()
	r.buckets[r.lastIdx] += n
}

// Rate 返回最近 60 秒的平均速率（个/秒）
func (r *RateMeter) Rate() float64 {
	return float64(r.Total()) / rateBuckets
}

// Total 返回窗口内的总量
func (r *RateMeter) Total() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.advanceLocked()

	var total int64
	for _, v := range r.buckets {
		total += v
	}
	return total
}

// Reset 重置速率计算器
func (r *RateMeter) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buckets = [rateBuckets]int64{}
	r.lastIdx = 0
	r.lastTime = r.clock.Now()
}
