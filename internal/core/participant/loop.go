package participant

import (
	"context"
	"errors"

	"github.com/dep2p/go-rtps/internal/core/wire"
)

// Tick 执行一个完整处理周期
//
// 公告发送失败只记录日志，公告会在后续 tick 重发；
// 公告编码失败（本地实体超出数据报容量）以及
// 发现端点或单播端点的读错误返回给调用方。
func (p *Participant) Tick() error {
	if p.announceDue() {
		if err := p.Advertise(); err != nil {
			if errors.Is(err, wire.ErrEncodeFailure) {
				return err
			}
			p.warn("公告失败", "id", p.id.ShortString(), "error", err)
		}
	}
	if err := p.IngestDiscoveryTick(); err != nil {
		return err
	}
	return p.ProcessAll()
}

// announceDue 判断本 tick 是否需要公告，并记录公告时间
func (p *Participant) announceDue() bool {
	now := p.clock.Now()
	if p.cfg.AnnounceInterval > 0 && p.announced && now.Sub(p.lastAnnounce) < p.cfg.AnnounceInterval {
		return false
	}
	p.announced = true
	p.lastAnnounce = now
	return true
}

// Run 在当前协程运行处理循环
//
// 按 TickInterval 周期调用 Tick，ctx 取消时返回 nil，
// Tick 返回错误（公告编码失败、套接字读失败）时停止并返回该错误。
func (p *Participant) Run(ctx context.Context) error {
	if !p.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer p.running.Store(false)

	ticker := p.clock.Ticker(p.cfg.TickInterval)
	defer ticker.Stop()

	logger.Info("处理循环已启动",
		"id", p.id.ShortString(),
		"unicast", p.transport.LocalAddr().String(),
		"tick", p.cfg.TickInterval)

	for {
		select {
		case <-ctx.Done():
			logger.Info("处理循环已停止", "id", p.id.ShortString())
			return nil
		default:
		}

		if err := p.Tick(); err != nil {
			logger.Error("处理循环异常退出", "id", p.id.ShortString(), "error", err)
			return err
		}

		select {
		case <-ctx.Done():
			logger.Info("处理循环已停止", "id", p.id.ShortString())
			return nil
		case <-ticker.C:
		}
	}
}

// Start 在后台协程启动处理循环
func (p *Participant) Start() error {
	p.loopMu.Lock()
	defer p.loopMu.Unlock()

	if p.done != nil {
		return ErrAlreadyRunning
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	p.cancel = cancel
	p.done = done
	p.loopErr = nil

	go func() {
		defer close(done)
		err := p.Run(ctx)
		p.loopMu.Lock()
		p.loopErr = err
		p.loopMu.Unlock()
	}()
	return nil
}

// Stop 停止后台处理循环并等待退出
func (p *Participant) Stop(ctx context.Context) error {
	p.loopMu.Lock()
	cancel, done := p.cancel, p.done
	p.loopMu.Unlock()

	if done == nil {
		return nil
	}
	cancel()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	p.loopMu.Lock()
	p.cancel = nil
	p.done = nil
	p.loopMu.Unlock()
	return nil
}

// Done 返回后台循环退出信号，未启动时返回 nil
func (p *Participant) Done() <-chan struct{} {
	p.loopMu.Lock()
	defer p.loopMu.Unlock()
	return p.done
}

// Err 返回后台循环的退出错误
func (p *Participant) Err() error {
	p.loopMu.Lock()
	defer p.loopMu.Unlock()
	return p.loopErr
}
