package config

import (
	"errors"
	"fmt"
	"net/netip"
	"time"
)

// TransportConfig 单播数据端点配置
type TransportConfig struct {
	// Interface 单播端点绑定的 IPv4 地址，默认 0.0.0.0
	Interface string `json:"interface"`

	// PortRangeStart 单播端口范围起点（含）
	PortRangeStart int `json:"port_range_start"`

	// PortRangeEnd 单播端口范围终点（不含）
	PortRangeEnd int `json:"port_range_end"`

	// ReadTimeout 套接字读超时，即处理循环的轮询粒度
	ReadTimeout Duration `json:"read_timeout"`

	// MaxDatagramSize 单条消息编码后的最大字节数
	MaxDatagramSize int `json:"max_datagram_size"`

	// MulticastTTL 发现公告的多播 TTL（跳数）
	MulticastTTL int `json:"multicast_ttl"`

	// MulticastLoopback 是否把自身发出的多播回送本机
	MulticastLoopback bool `json:"multicast_loopback"`
}

// DefaultTransportConfig 返回默认传输配置
func DefaultTransportConfig() TransportConfig {
	return TransportConfig{
		Interface:         "0.0.0.0",
		PortRangeStart:    7400,
		PortRangeEnd:      8000,
		ReadTimeout:       Duration(100 * time.Millisecond),
		MaxDatagramSize:   128,
		MulticastTTL:      1,
		MulticastLoopback: true,
	}
}

// Validate 验证传输配置
func (c TransportConfig) Validate() error {
	addr, err := netip.ParseAddr(c.Interface)
	if err != nil || !addr.Is4() {
		return fmt.Errorf("transport interface must be an IPv4 address: %q", c.Interface)
	}
	if c.PortRangeStart <= 0 || c.PortRangeStart > 65535 {
		return fmt.Errorf("transport port range start out of range: %d", c.PortRangeStart)
	}
	if c.PortRangeEnd <= c.PortRangeStart || c.PortRangeEnd > 65536 {
		return fmt.Errorf("transport port range end must be in (%d, 65536]: %d", c.PortRangeStart, c.PortRangeEnd)
	}
	if c.ReadTimeout <= 0 {
		return errors.New("transport read timeout must be positive")
	}
	if c.MaxDatagramSize < 16 || c.MaxDatagramSize > 65507 {
		return fmt.Errorf("transport max datagram size must be in [16, 65507]: %d", c.MaxDatagramSize)
	}
	if c.MulticastTTL < 0 || c.MulticastTTL > 255 {
		return fmt.Errorf("transport multicast ttl must be in [0, 255]: %d", c.MulticastTTL)
	}
	return nil
}

// WithPortRange 设置单播端口范围 [start, end)
func (c TransportConfig) WithPortRange(start, end int) TransportConfig {
	c.PortRangeStart = start
	c.PortRangeEnd = end
	return c
}

// WithReadTimeout 设置读超时
func (c TransportConfig) WithReadTimeout(timeout time.Duration) TransportConfig {
	c.ReadTimeout = Duration(timeout)
	return c
}
