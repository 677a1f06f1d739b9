package metrics

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/dep2p/go-rtps/config"
	"github.com/dep2p/go-rtps/pkg/interfaces"
	"github.com/dep2p/go-rtps/pkg/types"
)

// TestModule_Provides 测试模块提供 Collector 与 Reporter
func TestModule_Provides(t *testing.T) {
	var (
		collector *Collector
		reporter  interfaces.Reporter
	)
	app := fxtest.New(t,
		fx.Supply(config.NewConfig(), types.NewParticipantID()),
		Module,
		fx.Populate(&collector, &reporter),
	)
	defer app.RequireStart().RequireStop()

	require.NotNil(t, collector)
	reporter.SendFailure()
	assert.Equal(t, int64(1), collector.Snapshot().SendFailures)
}

// TestModule_Disabled 测试关闭指标时提供 NopReporter
func TestModule_Disabled(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Metrics.Enabled = false

	var reporter interfaces.Reporter
	app := fxtest.New(t,
		fx.Supply(cfg),
		Module,
		fx.Populate(&reporter),
	)
	defer app.RequireStart().RequireStop()

	assert.IsType(t, NopReporter{}, reporter)
}

// TestServer 测试 HTTP 暴露
func TestServer(t *testing.T) {
	c := NewCollector(types.NewParticipantID(), nil)
	c.DatagramSent(interfaces.ChannelData)

	srv := NewServer("127.0.0.1:0", "/metrics", c)
	require.NoError(t, srv.Start())
	defer func() { _ = srv.Stop(context.Background()) }()

	assert.Error(t, srv.Start())

	resp, err := http.Get("http://" + srv.Addr() + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "rtps_datagrams_sent_total")

	health, err := http.Get("http://" + srv.Addr() + "/health")
	require.NoError(t, err)
	health.Body.Close()
	assert.Equal(t, http.StatusOK, health.StatusCode)

	require.NoError(t, srv.Stop(context.Background()))
	assert.Empty(t, srv.Addr())
	assert.NoError(t, srv.Stop(context.Background()))
}
