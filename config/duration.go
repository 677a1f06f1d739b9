package config

import (
	"encoding/json"
	"fmt"
	"time"
)

// Duration 是支持 JSON 与环境变量字符串解析的 time.Duration 包装类型
//
// 支持的格式:
//   - 字符串: "5s", "100ms", "1m30s" 等
//   - 数字: 纳秒数
//
//	// JSON: {"peer_ttl": "5s"} 或 {"peer_ttl": 5000000000}
type Duration time.Duration

// UnmarshalJSON 实现 json.Unmarshaler 接口
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return d.UnmarshalText([]byte(s))
	}

	var n int64
	if err := json.Unmarshal(data, &n); err == nil {
		*d = Duration(n)
		return nil
	}

	return fmt.Errorf("duration must be a string (e.g., \"5s\") or number (nanoseconds)")
}

// MarshalJSON 实现 json.Marshaler 接口，输出为可读字符串
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalText 实现 encoding.TextUnmarshaler，用于环境变量与命令行
func (d *Duration) UnmarshalText(text []byte) error {
	duration, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration string %q: %w", text, err)
	}
	*d = Duration(duration)
	return nil
}

// Duration 返回底层的 time.Duration 值
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// String 返回字符串表示
func (d Duration) String() string {
	return time.Duration(d).String()
}
