package participant

import (
	"fmt"
	"time"

	"github.com/dep2p/go-rtps/config"
	"github.com/dep2p/go-rtps/internal/core/wire"
)

// Config 引擎配置
type Config struct {
	// TickInterval 处理循环周期
	TickInterval time.Duration

	// AnnounceInterval 公告最小间隔，0 表示每个 tick 都公告
	AnnounceInterval time.Duration

	// DeliveryPolicy 投递策略：config.DeliveryFirst 或 config.DeliveryAll
	DeliveryPolicy string

	// MaxDatagramSize 写者入队时的容量检查
	MaxDatagramSize int
}

// NewConfig 创建默认配置
func NewConfig() Config {
	return Config{
		TickInterval:    20 * time.Millisecond,
		DeliveryPolicy:  config.DeliveryFirst,
		MaxDatagramSize: wire.DefaultCapacity,
	}
}

// ConfigFromUnified 从统一配置创建引擎配置
func ConfigFromUnified(cfg *config.Config) Config {
	if cfg == nil {
		return NewConfig()
	}
	return Config{
		TickInterval:     cfg.Engine.TickInterval.Duration(),
		AnnounceInterval: cfg.Discovery.AnnounceInterval.Duration(),
		DeliveryPolicy:   cfg.Engine.DeliveryPolicy,
		MaxDatagramSize:  cfg.Transport.MaxDatagramSize,
	}
}

// Validate 验证配置
func (c Config) Validate() error {
	if c.TickInterval <= 0 {
		return fmt.Errorf("%w: tick interval must be positive", ErrInvalidConfig)
	}
	if c.AnnounceInterval < 0 {
		return fmt.Errorf("%w: announce interval must not be negative", ErrInvalidConfig)
	}
	switch c.DeliveryPolicy {
	case config.DeliveryFirst, config.DeliveryAll:
	default:
		return fmt.Errorf("%w: unknown delivery policy %q", ErrInvalidConfig, c.DeliveryPolicy)
	}
	if c.MaxDatagramSize <= 0 {
		return fmt.Errorf("%w: max datagram size must be positive", ErrInvalidConfig)
	}
	return nil
}
