// Package config 提供统一的配置管理
//
// 本包采用混合配置模式：
//   - 主 Config 结构体嵌入所有子配置
//   - 每个子配置在独立文件中定义
//   - 支持从 JSON 加载和保存配置
//   - 支持 RTPS_* 环境变量覆盖
//
// 所有网络参数（多播组、发现端口、单播端口范围、对端 TTL、轮询间隔）
// 都在这里集中定义，启动时构造一次后传入各模块，不存在全局可变状态。
//
// 使用示例：
//
//	// 创建默认配置
//	cfg := config.NewConfig()
//	cfg.Discovery.PeerTTL = config.Duration(10 * time.Second)
//
//	// 从 JSON 加载
//	cfg, err := config.FromJSON(data)
//
//	// 应用环境变量覆盖
//	err = config.ApplyEnv(cfg)
package config

// Config 是 go-rtps 的完整配置结构
//
// 配置按照功能模块组织：
//   - Transport: 单播数据端点（绑定接口、端口范围、读超时、数据报上限）
//   - Discovery: 多播发现（组地址、端口、对端 TTL、公告间隔）
//   - Engine: 匹配转发引擎（轮询间隔、投递策略）
//   - Metrics: Prometheus 指标
type Config struct {
	// Transport 传输层配置
	Transport TransportConfig `json:"transport"`

	// Discovery 发现配置
	Discovery DiscoveryConfig `json:"discovery"`

	// Engine 引擎配置
	Engine EngineConfig `json:"engine"`

	// Metrics 指标配置
	Metrics MetricsConfig `json:"metrics"`

	// LogLevel 日志级别（debug/info/warn/error）
	LogLevel string `json:"log_level,omitempty"`
}

// NewConfig 创建默认配置
//
// 默认值与参考部署保持一致：多播组 224.0.0.23:7399，
// 单播端口 7400-7999，对端 TTL 5s，数据报上限 128 字节。
func NewConfig() *Config {
	return &Config{
		Transport: DefaultTransportConfig(),
		Discovery: DefaultDiscoveryConfig(),
		Engine:    DefaultEngineConfig(),
		Metrics:   DefaultMetricsConfig(),
		LogLevel:  "info",
	}
}

// Validate 验证配置
//
// 检查所有子配置是否有效，如果发现无效配置则返回错误。
func (c *Config) Validate() error {
	if err := c.Transport.Validate(); err != nil {
		return err
	}
	if err := c.Discovery.Validate(); err != nil {
		return err
	}
	if err := c.Engine.Validate(); err != nil {
		return err
	}
	if err := c.Metrics.Validate(); err != nil {
		return err
	}
	return nil
}

// Clone 返回配置副本
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}
