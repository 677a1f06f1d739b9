package participant

import (
	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-rtps/pkg/interfaces"
	"github.com/dep2p/go-rtps/pkg/types"
)

// Option 参与者选项
type Option func(*Participant)

// WithReporter 设置指标上报
func WithReporter(r interfaces.Reporter) Option {
	return func(p *Participant) {
		if r != nil {
			p.reporter = r
		}
	}
}

// WithClock 设置时间源（处理循环周期与公告节流）
func WithClock(c clock.Clock) Option {
	return func(p *Participant) {
		if c != nil {
			p.clock = c
		}
	}
}

// WithID 设置参与者标识
func WithID(id types.ParticipantID) Option {
	return func(p *Participant) {
		if !id.IsZero() {
			p.id = id
		}
	}
}
