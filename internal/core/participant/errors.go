package participant

import "errors"

var (
	// ErrNilTransport 未提供传输
	ErrNilTransport = errors.New("participant: transport is required")

	// ErrNilPeerstore 未提供对端注册表
	ErrNilPeerstore = errors.New("participant: peerstore is required")

	// ErrInvalidConfig 配置无效
	ErrInvalidConfig = errors.New("participant: invalid config")

	// ErrAlreadyRunning 处理循环已在运行
	ErrAlreadyRunning = errors.New("participant: loop already running")
)
