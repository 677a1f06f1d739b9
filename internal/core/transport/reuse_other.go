//go:build !unix

package transport

import "syscall"

// reuseControl 非 unix 平台不设置端口复用
func reuseControl(_, _ string, _ syscall.RawConn) error {
	return nil
}
