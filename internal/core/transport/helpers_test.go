package transport

import (
	"errors"
	"net/netip"
	"testing"
	"time"

	"github.com/dep2p/go-rtps/pkg/interfaces"
	"github.com/dep2p/go-rtps/pkg/types"
)

// testConfig 返回绑定在回环地址上的测试配置
func testConfig(portStart int) Config {
	cfg := NewConfig()
	cfg.Interface = netip.MustParseAddr("127.0.0.1")
	cfg.PortRangeStart = portStart
	cfg.PortRangeEnd = portStart + 50
	cfg.ReadTimeout = 50 * time.Millisecond
	cfg.Group = netip.MustParseAddrPort("239.255.77.23:47399")
	return cfg
}

// openTest 打开测试传输，环境不支持多播时跳过
func openTest(t *testing.T, cfg Config, reporter interfaces.Reporter) *Transport {
	t.Helper()
	tr, err := Open(cfg, reporter)
	if errors.Is(err, ErrBindFailure) {
		t.Skipf("环境不支持 UDP 多播: %v", err)
	}
	if err != nil {
		t.Fatalf("open transport: %v", err)
	}
	t.Cleanup(func() { _ = tr.Close() })
	return tr
}

// receiveWithin 轮询 recv 直到收到消息或超时
func receiveWithin(recv func() (*types.Envelope, error), d time.Duration) (*types.Envelope, error) {
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		env, err := recv()
		if err != nil || env != nil {
			return env, err
		}
	}
	return nil, nil
}
