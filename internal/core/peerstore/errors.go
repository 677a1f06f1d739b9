package peerstore

import "errors"

var (
	// ErrInvalidTTL TTL 必须为正
	ErrInvalidTTL = errors.New("peerstore: ttl must be positive")

	// ErrInvalidAddr 无效的对端地址
	ErrInvalidAddr = errors.New("peerstore: invalid peer address")
)
