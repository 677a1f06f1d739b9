package main

import (
	"flag"
	"strings"

	"github.com/dep2p/go-rtps/config"
	"github.com/dep2p/go-rtps/pkg/lib/log"
)

// ============================================================================
//                              配置加载（CLI 专用）
// ============================================================================

// loadConfig 按优先级合并配置并设置日志级别
//
// 配置优先级（从高到低）：
//  1. 命令行参数
//  2. 环境变量（RTPS_* 前缀）
//  3. 配置文件
//  4. 默认值
func loadConfig() (*config.Config, error) {
	cfg := config.NewConfig()
	if *configFile != "" {
		loaded, err := config.LoadFile(*configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if err := config.ApplyEnv(cfg); err != nil {
		return nil, err
	}
	applyFlags(cfg)

	cfg, err := config.ValidateAndFix(cfg)
	if err != nil {
		return nil, err
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	log.SetLevel(level)
	return cfg, nil
}

// applyFlags 应用显式设置的命令行参数
func applyFlags(cfg *config.Config) {
	if isFlagSet("interface") {
		cfg.Transport.Interface = *iface
	}
	if isFlagSet("policy") {
		cfg.Engine.DeliveryPolicy = strings.ToLower(*policy)
	}
	if isFlagSet("metrics-addr") {
		cfg.Metrics.Enabled = true
		cfg.Metrics.ListenAddr = *metricsAddr
	}
	if isFlagSet("log-level") {
		cfg.LogLevel = *logLevel
	}
}

// isFlagSet 检查参数是否在命令行中显式设置
func isFlagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
