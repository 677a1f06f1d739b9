package wire

import (
	"errors"
	"fmt"
)

// 预定义错误
var (
	// ErrEncodeFailure 编码失败
	ErrEncodeFailure = errors.New("wire: encode failure")

	// ErrDecodeFailure 解码失败（畸形或外来数据报）
	ErrDecodeFailure = errors.New("wire: decode failure")

	// ErrMessageTooLarge 编码长度超出数据报容量
	ErrMessageTooLarge = fmt.Errorf("%w: message exceeds datagram capacity", ErrEncodeFailure)
)

func encodeError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrEncodeFailure, fmt.Sprintf(format, args...))
}

func decodeError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrDecodeFailure, fmt.Sprintf(format, args...))
}
