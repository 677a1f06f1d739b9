package transport

import (
	"fmt"
	"net/netip"
	"time"

	"github.com/dep2p/go-rtps/config"
	"github.com/dep2p/go-rtps/internal/core/wire"
)

// Config 传输配置
type Config struct {
	// Interface 单播端点绑定地址
	Interface netip.Addr

	// PortRangeStart/PortRangeEnd 单播端口范围 [start, end)
	PortRangeStart int
	PortRangeEnd   int

	// ReadTimeout 读超时（轮询粒度）
	ReadTimeout time.Duration

	// MaxDatagramSize 单条消息编码后的最大字节数
	MaxDatagramSize int

	// Group 多播组地址与发现端口
	Group netip.AddrPort

	// MulticastInterface 加入多播组的网卡名，空表示系统默认
	MulticastInterface string

	// MulticastTTL 多播 TTL
	MulticastTTL int

	// MulticastLoopback 是否回送本机发出的多播
	MulticastLoopback bool
}

// NewConfig 创建默认配置
func NewConfig() Config {
	return Config{
		Interface:         netip.IPv4Unspecified(),
		PortRangeStart:    7400,
		PortRangeEnd:      8000,
		ReadTimeout:       100 * time.Millisecond,
		MaxDatagramSize:   wire.DefaultCapacity,
		Group:             netip.MustParseAddrPort("224.0.0.23:7399"),
		MulticastTTL:      1,
		MulticastLoopback: true,
	}
}

// ConfigFromUnified 从统一配置创建传输配置
//
// 统一配置应已通过 Validate，地址解析失败时保留默认值。
func ConfigFromUnified(cfg *config.Config) Config {
	c := NewConfig()
	if cfg == nil {
		return c
	}
	if addr, err := netip.ParseAddr(cfg.Transport.Interface); err == nil {
		c.Interface = addr
	}
	c.PortRangeStart = cfg.Transport.PortRangeStart
	c.PortRangeEnd = cfg.Transport.PortRangeEnd
	c.ReadTimeout = cfg.Transport.ReadTimeout.Duration()
	c.MaxDatagramSize = cfg.Transport.MaxDatagramSize
	c.MulticastTTL = cfg.Transport.MulticastTTL
	c.MulticastLoopback = cfg.Transport.MulticastLoopback
	if err := cfg.Discovery.Validate(); err == nil {
		c.Group = cfg.Discovery.GroupAddrPort()
	}
	c.MulticastInterface = cfg.Discovery.MulticastInterface
	return c
}

// Validate 验证配置
func (c Config) Validate() error {
	if !c.Interface.Is4() {
		return fmt.Errorf("transport: interface must be IPv4: %s", c.Interface)
	}
	if c.PortRangeStart <= 0 || c.PortRangeEnd <= c.PortRangeStart || c.PortRangeEnd > 65536 {
		return fmt.Errorf("transport: invalid port range [%d, %d)", c.PortRangeStart, c.PortRangeEnd)
	}
	if c.ReadTimeout <= 0 {
		return fmt.Errorf("transport: read timeout must be positive")
	}
	if c.MaxDatagramSize <= 0 {
		return fmt.Errorf("transport: max datagram size must be positive")
	}
	if !c.Group.Addr().Is4() || !c.Group.Addr().IsMulticast() || c.Group.Port() == 0 {
		return fmt.Errorf("transport: invalid multicast group %s", c.Group)
	}
	return nil
}
