package config

import (
	"errors"
	"fmt"
	"net/netip"
	"time"
)

// DiscoveryConfig 多播发现配置
//
// 参与者周期性地向多播组公告自身的实体集合；
// 注册表每隔 PeerTTL 整体清空一次，只有持续公告的对端才会被保留。
type DiscoveryConfig struct {
	// MulticastGroup 多播组地址（IPv4）
	MulticastGroup string `json:"multicast_group"`

	// MulticastPort 发现端口
	MulticastPort int `json:"multicast_port"`

	// MulticastInterface 加入多播组使用的网卡名，空表示系统默认
	MulticastInterface string `json:"multicast_interface,omitempty"`

	// PeerTTL 对端注册表的整体清空间隔
	PeerTTL Duration `json:"peer_ttl"`

	// AnnounceInterval 公告最小间隔，0 表示每个 tick 都公告
	AnnounceInterval Duration `json:"announce_interval"`
}

// DefaultDiscoveryConfig 返回默认发现配置
func DefaultDiscoveryConfig() DiscoveryConfig {
	return DiscoveryConfig{
		MulticastGroup:   "224.0.0.23",
		MulticastPort:    7399,
		PeerTTL:          Duration(5 * time.Second),
		AnnounceInterval: 0,
	}
}

// Validate 验证发现配置
func (c DiscoveryConfig) Validate() error {
	group, err := netip.ParseAddr(c.MulticastGroup)
	if err != nil || !group.Is4() || !group.IsMulticast() {
		return fmt.Errorf("discovery multicast group must be an IPv4 multicast address: %q", c.MulticastGroup)
	}
	if c.MulticastPort <= 0 || c.MulticastPort > 65535 {
		return fmt.Errorf("discovery multicast port out of range: %d", c.MulticastPort)
	}
	if c.PeerTTL <= 0 {
		return errors.New("discovery peer ttl must be positive")
	}
	if c.AnnounceInterval < 0 {
		return errors.New("discovery announce interval must not be negative")
	}
	return nil
}

// GroupAddrPort 返回多播组地址与端口
//
// 调用前应先通过 Validate。
func (c DiscoveryConfig) GroupAddrPort() netip.AddrPort {
	group, _ := netip.ParseAddr(c.MulticastGroup)
	return netip.AddrPortFrom(group, uint16(c.MulticastPort))
}

// WithPeerTTL 设置对端 TTL
func (c DiscoveryConfig) WithPeerTTL(ttl time.Duration) DiscoveryConfig {
	c.PeerTTL = Duration(ttl)
	return c
}
