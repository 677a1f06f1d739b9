package participant

import (
	"net/netip"
	"slices"

	"go.uber.org/multierr"

	"github.com/dep2p/go-rtps/config"
	"github.com/dep2p/go-rtps/pkg/types"
)

// ProcessWriters 转发全部写者缓冲
//
// 每个非空写者缓冲都会被取空：有匹配对端则按目的地址分批，
// 否则丢弃。扫描完全部写者后逐个目的地址发送，单条发送失败
// 只记录日志，不影响其余消息。
func (p *Participant) ProcessWriters() {
	batches := make(map[netip.AddrPort][]types.TopicData)
	dropped := 0

	for _, w := range p.writerSnapshot() {
		data := w.DrainAll()
		if len(data) == 0 {
			continue
		}

		dsts := p.destinations(w.Entity())
		if len(dsts) == 0 {
			dropped += len(data)
			logger.Debug("无匹配对端，丢弃写者数据", "topic", w.Topic(), "count", len(data))
			continue
		}

		for _, dst := range dsts {
			for _, d := range data {
				batches[dst] = append(batches[dst], types.TopicData{Topic: w.Topic(), Data: d})
			}
		}
	}

	p.reporter.MessagesDropped(dropped)
	p.flush(batches)
}

// destinations 返回写者的目的地址
func (p *Participant) destinations(writer types.Entity) []netip.AddrPort {
	matches := p.peers.Match(writer.Reverse())
	if len(matches) == 0 {
		return nil
	}
	if p.cfg.DeliveryPolicy == config.DeliveryAll {
		return matches
	}
	// 注册表按地址升序返回，first 策略取最小地址
	return matches[:1]
}

// flush 按地址顺序发送各目的地址的批次
func (p *Participant) flush(batches map[netip.AddrPort][]types.TopicData) {
	dsts := make([]netip.AddrPort, 0, len(batches))
	for dst := range batches {
		dsts = append(dsts, dst)
	}
	slices.SortFunc(dsts, func(a, b netip.AddrPort) int { return a.Compare(b) })

	for _, dst := range dsts {
		var errs error
		sent := 0
		for _, msg := range batches[dst] {
			if err := p.transport.Send(msg, dst); err != nil {
				p.reporter.SendFailure()
				errs = multierr.Append(errs, err)
				continue
			}
			sent++
		}
		p.reporter.MessagesForwarded(sent)

		if errs != nil {
			p.warn("转发到对端失败",
				"peer", dst.String(),
				"failed", len(multierr.Errors(errs)),
				"sent", sent,
				"error", errs)
		}
	}
}

// ProcessReaders 读尽单播端点并分发到本地读者
//
// 端点无数据（读超时）时返回 nil；读错误直接返回。
func (p *Participant) ProcessReaders() error {
	for {
		env, err := p.transport.TryReceive()
		if err != nil {
			return err
		}
		if env == nil {
			return nil
		}
		p.dispatch(env)
	}
}

func (p *Participant) dispatch(env *types.Envelope) {
	switch msg := env.Message.(type) {
	case types.TopicData:
		readers := p.readersFor(msg.Topic)
		if len(readers) == 0 {
			logger.Debug("无本地读者，忽略主题数据", "from", env.From.String(), "topic", msg.Topic)
			return
		}
		for _, r := range readers {
			r.Push(msg.Data)
		}
		p.reporter.MessagesDelivered(len(readers))
	case types.ParticipantRegister:
		logger.Debug("数据通道收到公告，已忽略", "from", env.From.String())
	}
}

// ProcessAll 依次执行 ProcessWriters 与 ProcessReaders
func (p *Participant) ProcessAll() error {
	p.ProcessWriters()
	return p.ProcessReaders()
}
