package transport

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"

	"github.com/dep2p/go-rtps/config"
	"github.com/dep2p/go-rtps/pkg/interfaces"
)

// TestConfigFromUnified 测试从统一配置转换
func TestConfigFromUnified(t *testing.T) {
	assert.Equal(t, NewConfig(), ConfigFromUnified(nil))

	cfg := config.NewConfig()
	cfg.Transport.Interface = "127.0.0.1"
	cfg.Transport = cfg.Transport.WithPortRange(9000, 9010).WithReadTimeout(30 * time.Millisecond)
	cfg.Discovery.MulticastGroup = "239.1.2.3"
	cfg.Discovery.MulticastPort = 9999
	cfg.Discovery.MulticastInterface = "lo"

	c := ConfigFromUnified(cfg)
	assert.Equal(t, "127.0.0.1", c.Interface.String())
	assert.Equal(t, 9000, c.PortRangeStart)
	assert.Equal(t, 9010, c.PortRangeEnd)
	assert.Equal(t, 30*time.Millisecond, c.ReadTimeout)
	assert.Equal(t, "239.1.2.3:9999", c.Group.String())
	assert.Equal(t, "lo", c.MulticastInterface)
	assert.Equal(t, 128, c.MaxDatagramSize)
}

// TestModule 测试 Fx 模块生命周期
func TestModule(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Transport.Interface = "127.0.0.1"
	cfg.Transport = cfg.Transport.WithPortRange(47900, 47950)
	cfg.Discovery.MulticastGroup = "239.255.77.24"
	cfg.Discovery.MulticastPort = 47398

	var (
		tr    *Transport
		iface interfaces.Transport
	)
	app := fx.New(
		fx.NopLogger,
		fx.Supply(cfg),
		Module(),
		fx.Populate(&tr, &iface),
	)
	if err := app.Err(); err != nil {
		if errors.Is(err, ErrBindFailure) {
			t.Skipf("环境不支持 UDP 多播: %v", err)
		}
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, app.Start(ctx))

	assert.Same(t, tr, iface)
	assert.Equal(t, uint16(47900), tr.LocalAddr().Port())

	require.NoError(t, app.Stop(ctx))
	_, err := tr.TryReceive()
	assert.ErrorIs(t, err, ErrIOFailure)
}
