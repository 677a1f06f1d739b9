package transport

import (
	"errors"
	"fmt"
	"net/netip"
)

var (
	// ErrBindFailure 端口范围内没有可绑定的端口，或多播端点无法建立
	ErrBindFailure = errors.New("transport: bind failure")

	// ErrIOFailure 套接字读写失败（超时除外）
	ErrIOFailure = errors.New("transport: io failure")

	// ErrSendFailure 发送失败，属于 ErrIOFailure
	ErrSendFailure = fmt.Errorf("%w: send", ErrIOFailure)

	// ErrClosed 传输已关闭
	ErrClosed = errors.New("transport: closed")
)

// TransportError 带上下文的传输错误
//
// errors.Is 同时匹配 Kind 与底层 Err。
type TransportError struct {
	Op   string         // 操作：bind / join / send / recv
	Addr netip.AddrPort // 相关地址，可能为零值
	Kind error          // 错误分类：ErrBindFailure / ErrIOFailure / ErrSendFailure
	Err  error          // 底层错误
}

// Error 实现 error 接口
func (e *TransportError) Error() string {
	msg := e.Kind.Error() + ": " + e.Op
	if e.Addr.IsValid() {
		msg += " " + e.Addr.String()
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap 返回错误分类与底层错误
func (e *TransportError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(op string, addr netip.AddrPort, kind, err error) error {
	return &TransportError{Op: op, Addr: addr, Kind: kind, Err: err}
}
