package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"os"
	"sync/atomic"
	"time"

	"go.uber.org/multierr"
	"golang.org/x/net/ipv4"
	"golang.org/x/time/rate"

	"github.com/dep2p/go-rtps/internal/core/metrics"
	"github.com/dep2p/go-rtps/internal/core/wire"
	"github.com/dep2p/go-rtps/pkg/interfaces"
	"github.com/dep2p/go-rtps/pkg/lib/log"
	"github.com/dep2p/go-rtps/pkg/types"
)

var logger = log.Logger("core/transport")

var _ interfaces.Transport = (*Transport)(nil)

// Transport 双通道 UDP 传输
//
// 除 Close 外的方法只应由处理协程调用：接收缓冲区按端点复用。
type Transport struct {
	cfg      Config
	reporter interfaces.Reporter

	unicast   *net.UDPConn
	multicast *net.UDPConn
	local     netip.AddrPort

	unicastBuf   []byte
	multicastBuf []byte

	// decodeLog 限制解码失败日志频率，外来流量可能持续涌入
	decodeLog *rate.Limiter

	closed atomic.Bool
}

// Open 打开单播与多播两个端点
//
// reporter 为 nil 时不上报指标。
func Open(cfg Config, reporter interfaces.Reporter) (*Transport, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if reporter == nil {
		reporter = metrics.NopReporter{}
	}

	ifi, err := multicastInterface(cfg.MulticastInterface)
	if err != nil {
		return nil, newError("bind", cfg.Group, ErrBindFailure, err)
	}

	uc, err := bindUnicast(cfg)
	if err != nil {
		return nil, err
	}

	mc, err := bindMulticast(cfg, ifi)
	if err != nil {
		_ = uc.Close()
		return nil, err
	}

	if err := configureSender(uc, cfg, ifi); err != nil {
		// 不影响单播收发，但可能导致本机参与者彼此发现不了
		logger.Warn("设置多播发送参数失败", "error", err)
	}

	t := &Transport{
		cfg:          cfg,
		reporter:     reporter,
		unicast:      uc,
		multicast:    mc,
		local:        uc.LocalAddr().(*net.UDPAddr).AddrPort(),
		unicastBuf:   make([]byte, cfg.MaxDatagramSize+1),
		multicastBuf: make([]byte, cfg.MaxDatagramSize+1),
		decodeLog:    rate.NewLimiter(rate.Every(time.Second), 5),
	}

	logger.Info("传输层已打开",
		"unicast", t.local.String(),
		"group", cfg.Group.String())
	return t, nil
}

// bindUnicast 在端口范围内绑定第一个可用端口
func bindUnicast(cfg Config) (*net.UDPConn, error) {
	var lastErr error
	for port := cfg.PortRangeStart; port < cfg.PortRangeEnd; port++ {
		addr := net.UDPAddrFromAddrPort(netip.AddrPortFrom(cfg.Interface, uint16(port)))
		conn, err := net.ListenUDP("udp4", addr)
		if err == nil {
			return conn, nil
		}
		lastErr = err
	}
	return nil, newError("bind", netip.AddrPortFrom(cfg.Interface, uint16(cfg.PortRangeStart)), ErrBindFailure,
		fmt.Errorf("no free port in [%d, %d): %w", cfg.PortRangeStart, cfg.PortRangeEnd, lastErr))
}

// bindMulticast 绑定发现端口并加入多播组
func bindMulticast(cfg Config, ifi *net.Interface) (*net.UDPConn, error) {
	addr := netip.AddrPortFrom(netip.IPv4Unspecified(), cfg.Group.Port())

	lc := net.ListenConfig{Control: reuseControl}
	pc, err := lc.ListenPacket(context.Background(), "udp4", addr.String())
	if err != nil {
		return nil, newError("bind", addr, ErrBindFailure, err)
	}
	conn := pc.(*net.UDPConn)

	p := ipv4.NewPacketConn(conn)
	group := &net.UDPAddr{IP: net.IP(cfg.Group.Addr().AsSlice())}
	if err := p.JoinGroup(ifi, group); err != nil {
		_ = conn.Close()
		return nil, newError("join", cfg.Group, ErrBindFailure, err)
	}
	return conn, nil
}

// configureSender 设置单播端点发送多播时的参数
func configureSender(conn *net.UDPConn, cfg Config, ifi *net.Interface) error {
	p := ipv4.NewPacketConn(conn)
	err := multierr.Combine(
		p.SetMulticastLoopback(cfg.MulticastLoopback),
		p.SetMulticastTTL(cfg.MulticastTTL),
	)
	if ifi != nil {
		err = multierr.Append(err, p.SetMulticastInterface(ifi))
	}
	return err
}

func multicastInterface(name string) (*net.Interface, error) {
	if name == "" {
		return nil, nil
	}
	return net.InterfaceByName(name)
}

// ============================================================================
//                              发送
// ============================================================================

// Send 编码消息并从单播端点发送到 dst
//
// 编码失败返回 wire.ErrEncodeFailure，套接字错误返回 ErrSendFailure。
func (t *Transport) Send(msg types.Message, dst netip.AddrPort) error {
	return t.send(msg, dst, interfaces.ChannelData)
}

// SendDiscovery 从单播端点向多播组发送消息
func (t *Transport) SendDiscovery(msg types.Message) error {
	return t.send(msg, t.cfg.Group, interfaces.ChannelDiscovery)
}

func (t *Transport) send(msg types.Message, dst netip.AddrPort, channel string) error {
	b, err := wire.Encode(msg, t.cfg.MaxDatagramSize)
	if err != nil {
		return err
	}
	if t.closed.Load() {
		return newError("send", dst, ErrSendFailure, ErrClosed)
	}
	if _, err := t.unicast.WriteToUDPAddrPort(b, dst); err != nil {
		return newError("send", dst, ErrSendFailure, err)
	}
	t.reporter.DatagramSent(channel)
	return nil
}

// ============================================================================
//                              接收
// ============================================================================

// TryReceive 从单播端点读取一条消息
//
// 读超时或解码失败返回 (nil, nil)。
func (t *Transport) TryReceive() (*types.Envelope, error) {
	return t.receive(t.unicast, t.unicastBuf, interfaces.ChannelData)
}

// TryReceiveDiscovery 从多播端点读取一条消息
func (t *Transport) TryReceiveDiscovery() (*types.Envelope, error) {
	return t.receive(t.multicast, t.multicastBuf, interfaces.ChannelDiscovery)
}

func (t *Transport) receive(conn *net.UDPConn, buf []byte, channel string) (*types.Envelope, error) {
	if t.closed.Load() {
		return nil, newError("recv", netip.AddrPort{}, ErrIOFailure, ErrClosed)
	}
	if err := conn.SetReadDeadline(time.Now().Add(t.cfg.ReadTimeout)); err != nil {
		return nil, newError("recv", netip.AddrPort{}, ErrIOFailure, err)
	}

	n, from, err := conn.ReadFromUDPAddrPort(buf)
	if err != nil {
		if errors.Is(err, os.ErrDeadlineExceeded) {
			return nil, nil
		}
		return nil, newError("recv", netip.AddrPort{}, ErrIOFailure, err)
	}
	t.reporter.DatagramReceived(channel)
	from = netip.AddrPortFrom(from.Addr().Unmap(), from.Port())

	// 缓冲区比容量多 1 字节，读满即说明数据报超限
	if n > t.cfg.MaxDatagramSize {
		t.decodeFailed(channel, from, fmt.Errorf("%w: datagram exceeds %d bytes", wire.ErrDecodeFailure, t.cfg.MaxDatagramSize))
		return nil, nil
	}

	msg, err := wire.Decode(buf[:n])
	if err != nil {
		t.decodeFailed(channel, from, err)
		return nil, nil
	}
	return &types.Envelope{From: from, Message: msg}, nil
}

func (t *Transport) decodeFailed(channel string, from netip.AddrPort, err error) {
	t.reporter.DecodeFailure(channel)
	if t.decodeLog.Allow() {
		logger.Warn("丢弃无法解码的数据报", "channel", channel, "from", from.String(), "error", err)
	}
}

// ============================================================================
//                              其他
// ============================================================================

// LocalAddr 返回单播端点的本地地址
func (t *Transport) LocalAddr() netip.AddrPort {
	return t.local
}

// Group 返回多播组地址
func (t *Transport) Group() netip.AddrPort {
	return t.cfg.Group
}

// Close 关闭两个端点，重复调用返回 nil
func (t *Transport) Close() error {
	if !t.closed.CompareAndSwap(false, true) {
		return nil
	}
	err := multierr.Combine(t.unicast.Close(), t.multicast.Close())
	logger.Info("传输层已关闭", "unicast", t.local.String())
	return err
}
