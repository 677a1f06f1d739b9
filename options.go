package rtps

import (
	"errors"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/fx"

	"github.com/dep2p/go-rtps/config"
	"github.com/dep2p/go-rtps/pkg/types"
)

// Option 用户配置选项函数
type Option func(*options) error

// options 内部选项结构
type options struct {
	// 基础配置，优先级：config > configFile > 默认
	config     *config.Config
	configFile string

	// 按调用顺序应用的覆盖项
	overrides []func(*config.Config)

	id    types.ParticipantID
	clock clock.Clock

	// 用户自定义 Fx 选项
	userFxOptions []fx.Option
}

func newOptions() *options {
	return &options{}
}

// resolveConfig 计算最终配置并校验
func (o *options) resolveConfig() (*config.Config, error) {
	var cfg *config.Config
	switch {
	case o.config != nil:
		cfg = o.config.Clone()
	case o.configFile != "":
		loaded, err := config.LoadFile(o.configFile)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	default:
		cfg = config.NewConfig()
	}

	for _, apply := range o.overrides {
		apply(cfg)
	}

	if err := config.ValidateAll(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (o *options) override(fn func(*config.Config)) {
	o.overrides = append(o.overrides, fn)
}

// ════════════════════════════════════════════════════════════════════════════
//                              配置来源
// ════════════════════════════════════════════════════════════════════════════

// WithConfig 使用完整配置
//
// 传入的配置会被复制，后续修改不影响参与者。
func WithConfig(cfg *config.Config) Option {
	return func(o *options) error {
		if cfg == nil {
			return errors.New("config is nil")
		}
		o.config = cfg
		return nil
	}
}

// WithConfigFile 从 JSON 文件加载配置
func WithConfigFile(path string) Option {
	return func(o *options) error {
		if path == "" {
			return errors.New("config file path is empty")
		}
		o.configFile = path
		return nil
	}
}

// ════════════════════════════════════════════════════════════════════════════
//                              网络参数
// ════════════════════════════════════════════════════════════════════════════

// WithInterface 设置单播端点绑定地址
func WithInterface(addr string) Option {
	return func(o *options) error {
		o.override(func(c *config.Config) { c.Transport.Interface = addr })
		return nil
	}
}

// WithPortRange 设置单播端口范围 [start, end)
func WithPortRange(start, end int) Option {
	return func(o *options) error {
		if start <= 0 || end <= start {
			return fmt.Errorf("invalid port range [%d, %d)", start, end)
		}
		o.override(func(c *config.Config) {
			c.Transport.PortRangeStart = start
			c.Transport.PortRangeEnd = end
		})
		return nil
	}
}

// WithMulticastGroup 设置多播组地址与发现端口
func WithMulticastGroup(group string, port int) Option {
	return func(o *options) error {
		o.override(func(c *config.Config) {
			c.Discovery.MulticastGroup = group
			c.Discovery.MulticastPort = port
		})
		return nil
	}
}

// WithReadTimeout 设置套接字读超时
func WithReadTimeout(d time.Duration) Option {
	return func(o *options) error {
		o.override(func(c *config.Config) { c.Transport.ReadTimeout = config.Duration(d) })
		return nil
	}
}

// WithPeerTTL 设置对端注册表清空间隔
func WithPeerTTL(d time.Duration) Option {
	return func(o *options) error {
		o.override(func(c *config.Config) { c.Discovery.PeerTTL = config.Duration(d) })
		return nil
	}
}

// WithAnnounceInterval 设置公告间隔，0 表示每个 tick 都公告
func WithAnnounceInterval(d time.Duration) Option {
	return func(o *options) error {
		o.override(func(c *config.Config) { c.Discovery.AnnounceInterval = config.Duration(d) })
		return nil
	}
}

// ════════════════════════════════════════════════════════════════════════════
//                              引擎参数
// ════════════════════════════════════════════════════════════════════════════

// WithTickInterval 设置处理循环周期
func WithTickInterval(d time.Duration) Option {
	return func(o *options) error {
		o.override(func(c *config.Config) { c.Engine.TickInterval = config.Duration(d) })
		return nil
	}
}

// WithDeliveryPolicy 设置投递策略（config.DeliveryFirst / config.DeliveryAll）
func WithDeliveryPolicy(policy string) Option {
	return func(o *options) error {
		o.override(func(c *config.Config) { c.Engine.DeliveryPolicy = policy })
		return nil
	}
}

// ════════════════════════════════════════════════════════════════════════════
//                              可观测性
// ════════════════════════════════════════════════════════════════════════════

// WithMetrics 启用或关闭指标收集
func WithMetrics(enabled bool) Option {
	return func(o *options) error {
		o.override(func(c *config.Config) { c.Metrics.Enabled = enabled })
		return nil
	}
}

// WithMetricsAddr 在指定地址暴露 Prometheus 指标
func WithMetricsAddr(addr string) Option {
	return func(o *options) error {
		o.override(func(c *config.Config) {
			c.Metrics.Enabled = true
			c.Metrics.ListenAddr = addr
		})
		return nil
	}
}

// ════════════════════════════════════════════════════════════════════════════
//                              高级选项
// ════════════════════════════════════════════════════════════════════════════

// WithID 指定参与者标识，默认随机生成
func WithID(id types.ParticipantID) Option {
	return func(o *options) error {
		if id.IsZero() {
			return errors.New("participant id is zero")
		}
		o.id = id
		return nil
	}
}

// WithClock 设置时间源（注册表 TTL、处理循环、指标速率）
func WithClock(clk clock.Clock) Option {
	return func(o *options) error {
		o.clock = clk
		return nil
	}
}

// WithFxOptions 追加自定义 Fx 选项
func WithFxOptions(opts ...fx.Option) Option {
	return func(o *options) error {
		o.userFxOptions = append(o.userFxOptions, opts...)
		return nil
	}
}
