package config

import (
	"errors"
	"fmt"
	"time"
)

// 投递策略
const (
	// DeliveryFirst 每个写者只投递给一个匹配对端（按地址排序最小者）
	DeliveryFirst = "first"

	// DeliveryAll 投递给所有匹配对端
	DeliveryAll = "all"
)

// EngineConfig 匹配转发引擎配置
type EngineConfig struct {
	// TickInterval 处理循环的 tick 周期（建议 10-50ms）
	TickInterval Duration `json:"tick_interval"`

	// DeliveryPolicy 多个对端订阅同一主题时的投递策略
	DeliveryPolicy string `json:"delivery_policy"`
}

// DefaultEngineConfig 返回默认引擎配置
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		TickInterval:   Duration(20 * time.Millisecond),
		DeliveryPolicy: DeliveryFirst,
	}
}

// Validate 验证引擎配置
func (c EngineConfig) Validate() error {
	if c.TickInterval <= 0 {
		return errors.New("engine tick interval must be positive")
	}
	switch c.DeliveryPolicy {
	case DeliveryFirst, DeliveryAll:
	default:
		return fmt.Errorf("engine delivery policy must be %q or %q: %q", DeliveryFirst, DeliveryAll, c.DeliveryPolicy)
	}
	return nil
}
