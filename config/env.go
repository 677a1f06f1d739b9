package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// 环境变量名（均使用 RTPS_ 前缀）
const (
	EnvPrefix = "RTPS_"

	EnvInterface        = "INTERFACE"         // 单播绑定地址
	EnvPortRange        = "PORT_RANGE"        // 单播端口范围，如 7400-8000
	EnvReadTimeout      = "READ_TIMEOUT"      // 读超时
	EnvMulticastGroup   = "MULTICAST_GROUP"   // 多播组
	EnvMulticastPort    = "MULTICAST_PORT"    // 发现端口
	EnvMulticastIface   = "MULTICAST_IFACE"   // 多播网卡名
	EnvPeerTTL          = "PEER_TTL"          // 对端 TTL
	EnvAnnounceInterval = "ANNOUNCE_INTERVAL" // 公告间隔
	EnvTickInterval     = "TICK_INTERVAL"     // tick 周期
	EnvDeliveryPolicy   = "DELIVERY_POLICY"   // 投递策略
	EnvMetricsAddr      = "METRICS_ADDR"      // 指标监听地址
	EnvLogLevel         = "LOG_LEVEL"         // 日志级别
)

// ApplyEnv 应用环境变量覆盖配置
//
// 环境变量优先级高于配置文件，但低于命令行参数。
// 格式错误的值返回错误，而不是静默忽略。
func ApplyEnv(cfg *Config) error {
	return applyEnv(cfg, os.LookupEnv)
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	get := func(name string) (string, bool) {
		v, ok := lookup(EnvPrefix + name)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get(EnvInterface); ok {
		cfg.Transport.Interface = v
	}
	if v, ok := get(EnvPortRange); ok {
		start, end, err := parsePortRange(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, EnvPortRange, err)
		}
		cfg.Transport.PortRangeStart, cfg.Transport.PortRangeEnd = start, end
	}
	if v, ok := get(EnvReadTimeout); ok {
		if err := cfg.Transport.ReadTimeout.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, EnvReadTimeout, err)
		}
	}
	if v, ok := get(EnvMulticastGroup); ok {
		cfg.Discovery.MulticastGroup = v
	}
	if v, ok := get(EnvMulticastPort); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, EnvMulticastPort, err)
		}
		cfg.Discovery.MulticastPort = port
	}
	if v, ok := get(EnvMulticastIface); ok {
		cfg.Discovery.MulticastInterface = v
	}
	if v, ok := get(EnvPeerTTL); ok {
		if err := cfg.Discovery.PeerTTL.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, EnvPeerTTL, err)
		}
	}
	if v, ok := get(EnvAnnounceInterval); ok {
		if err := cfg.Discovery.AnnounceInterval.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, EnvAnnounceInterval, err)
		}
	}
	if v, ok := get(EnvTickInterval); ok {
		if err := cfg.Engine.TickInterval.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, EnvTickInterval, err)
		}
	}
	if v, ok := get(EnvDeliveryPolicy); ok {
		cfg.Engine.DeliveryPolicy = strings.ToLower(v)
	}
	if v, ok := get(EnvMetricsAddr); ok {
		cfg.Metrics.ListenAddr = v
	}
	if v, ok := get(EnvLogLevel); ok {
		cfg.LogLevel = v
	}
	return nil
}

// parsePortRange 解析 "start-end" 形式的端口范围（end 不含）
func parsePortRange(s string) (int, int, error) {
	lo, hi, found := strings.Cut(s, "-")
	if !found {
		return 0, 0, fmt.Errorf("port range must look like 7400-8000: %q", s)
	}
	start, err := strconv.Atoi(strings.TrimSpace(lo))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid port range start: %w", err)
	}
	end, err := strconv.Atoi(strings.TrimSpace(hi))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid port range end: %w", err)
	}
	return start, end, nil
}
