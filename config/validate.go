package config

import (
	"errors"
	"fmt"
)

// ValidateAll 验证整个配置的有效性
//
// 这是 Config.Validate() 的别名，额外处理 nil 配置，
// 并检查子配置之间的兼容性。
func ValidateAll(c *Config) error {
	if c == nil {
		return errors.New("config is nil")
	}
	if err := c.Validate(); err != nil {
		return err
	}
	return ValidateCompatibility(c)
}

// ValidateAndFix 验证配置并尝试自动修复常见问题
//
// 可修复的问题：
//   - 端口范围首尾颠倒 -> 交换
//   - 时长为 0 -> 使用默认值
//   - 投递策略、指标路径为空 -> 使用默认值
func ValidateAndFix(c *Config) (*Config, error) {
	if c == nil {
		return NewConfig(), nil
	}

	// 传输：修复端口范围与零值
	if c.Transport.PortRangeStart > c.Transport.PortRangeEnd {
		c.Transport.PortRangeStart, c.Transport.PortRangeEnd = c.Transport.PortRangeEnd, c.Transport.PortRangeStart
	}
	if c.Transport.ReadTimeout <= 0 {
		c.Transport.ReadTimeout = DefaultTransportConfig().ReadTimeout
	}
	if c.Transport.MaxDatagramSize <= 0 {
		c.Transport.MaxDatagramSize = DefaultTransportConfig().MaxDatagramSize
	}

	// 发现：TTL 为 0 时使用默认值
	if c.Discovery.PeerTTL <= 0 {
		c.Discovery.PeerTTL = DefaultDiscoveryConfig().PeerTTL
	}

	// 引擎
	if c.Engine.TickInterval <= 0 {
		c.Engine.TickInterval = DefaultEngineConfig().TickInterval
	}
	if c.Engine.DeliveryPolicy == "" {
		c.Engine.DeliveryPolicy = DeliveryFirst
	}

	// 指标
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsConfig().Path
	}

	if err := ValidateAll(c); err != nil {
		return nil, fmt.Errorf("validation failed after fixes: %w", err)
	}
	return c, nil
}

// ValidateSubConfig 验证特定子配置
//
// 用于单独验证某个子配置而不验证整个配置树。
type ValidateSubConfig interface {
	Validate() error
}

var (
	_ ValidateSubConfig = TransportConfig{}
	_ ValidateSubConfig = DiscoveryConfig{}
	_ ValidateSubConfig = EngineConfig{}
	_ ValidateSubConfig = MetricsConfig{}
)

// ValidateCompatibility 验证配置之间的兼容性
//
// 公告间隔必须小于对端 TTL，否则对端会在两次公告之间被整体清空。
func ValidateCompatibility(c *Config) error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Discovery.AnnounceInterval > 0 && c.Discovery.AnnounceInterval >= c.Discovery.PeerTTL {
		return fmt.Errorf("announce interval %s must be shorter than peer ttl %s",
			c.Discovery.AnnounceInterval, c.Discovery.PeerTTL)
	}

	return nil
}
