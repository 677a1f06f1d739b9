package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// FromJSON 从 JSON 数据创建配置
//
// 未出现在 JSON 中的字段保留默认值。
//
// 示例 JSON:
//
//	{
//	  "discovery": {"multicast_group": "239.255.0.1", "peer_ttl": "10s"},
//	  "engine": {"delivery_policy": "all"}
//	}
func FromJSON(data []byte) (*Config, error) {
	cfg := NewConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// ToJSON 将配置序列化为带缩进的 JSON
func ToJSON(cfg *Config) ([]byte, error) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// LoadFile 从 JSON 文件加载配置
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: 用户指定的配置文件路径是预期行为
	if err != nil {
		return nil, err
	}
	return FromJSON(data)
}
