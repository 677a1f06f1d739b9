// Package log 提供 go-rtps 统一日志接口
//
// 基于 Go 标准库 log/slog 封装，各模块通过 Logger(component) 获取
// 带组件名的 logger，所有输出都走当前的 slog.Default()。
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// 日志级别常量（从 slog 导出，方便使用）
const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

var (
	mu     sync.Mutex
	output io.Writer = os.Stderr
	level            = new(slog.LevelVar)
)

// SetDefault 设置默认 logger
func SetDefault(l *slog.Logger) {
	slog.SetDefault(l)
}

// SetOutput 设置日志输出目标，保留当前级别
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	install()
}

// SetLevel 设置日志级别
//
// 级别通过 slog.LevelVar 生效，已创建的 LazyLogger 立即感知。
func SetLevel(l slog.Level) {
	level.Set(l)
}

// SetOutputWithLevel 同时设置日志输出目标和级别
func SetOutputWithLevel(w io.Writer, l slog.Level) {
	level.Set(l)
	SetOutput(w)
}

// ParseLevel 解析日志级别字符串（debug/info/warn/error，大小写不敏感）
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

func install() {
	slog.SetDefault(slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{Level: level})))
}

// ============================================================================
//                              LazyLogger
// ============================================================================

// LazyLogger 懒加载 logger
//
// 每次日志调用时都从 slog.Default() 获取最新的 handler，
// 支持在运行时动态切换日志输出目标。
//
//	var logger = log.Logger("core/transport")
//	logger.Info("传输层已打开", "addr", addr)
type LazyLogger struct {
	component string
}

// Logger 返回带组件名的 LazyLogger
func Logger(component string) *LazyLogger {
	return &LazyLogger{component: component}
}

func (l *LazyLogger) base() *slog.Logger {
	return slog.Default().With("component", l.component)
}

// Debug 输出 Debug 级别日志
func (l *LazyLogger) Debug(msg string, args ...any) {
	l.base().Debug(msg, args...)
}

// Info 输出 Info 级别日志
func (l *LazyLogger) Info(msg string, args ...any) {
	l.base().Info(msg, args...)
}

// Warn 输出 Warn 级别日志
func (l *LazyLogger) Warn(msg string, args ...any) {
	l.base().Warn(msg, args...)
}

// Error 输出 Error 级别日志
func (l *LazyLogger) Error(msg string, args ...any) {
	l.base().Error(msg, args...)
}

// With 添加额外的属性
func (l *LazyLogger) With(args ...any) *slog.Logger {
	return l.base().With(args...)
}

// Component 返回组件名
func (l *LazyLogger) Component() string {
	return l.component
}

// ============================================================================
//                              工具函数
// ============================================================================

// TruncateID 截取 ID 前缀用于日志显示，maxLen <= 0 时原样返回
func TruncateID(id string, maxLen int) string {
	if maxLen <= 0 || len(id) <= maxLen {
		return id
	}
	return id[:maxLen]
}

func init() {
	level.Set(LevelInfo)
	install()
}
