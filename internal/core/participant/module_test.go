package participant

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/dep2p/go-rtps/config"
	"github.com/dep2p/go-rtps/internal/core/metrics"
	"github.com/dep2p/go-rtps/internal/core/peerstore"
	"github.com/dep2p/go-rtps/pkg/interfaces"
	"github.com/dep2p/go-rtps/pkg/types"
)

// TestModule 测试 Fx 模块装配与生命周期
func TestModule(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Engine.TickInterval = config.Duration(5 * time.Millisecond)
	id := types.NewParticipantID()
	tr := newFakeNetwork().newTransport(addrA)

	var (
		p         *Participant
		collector *metrics.Collector
	)
	app := fxtest.New(t,
		fx.Supply(cfg, id),
		fx.Provide(func() interfaces.Transport { return tr }),
		peerstore.Module(),
		metrics.Module,
		Module(),
		fx.Populate(&p, &collector),
	)
	app.RequireStart()

	require.NotNil(t, p)
	assert.Equal(t, id, p.ID())
	assert.NotNil(t, p.Done())

	// 自身公告经回送被记录
	assert.Eventually(t, func() bool {
		return collector.Snapshot().PeersKnown == 1
	}, 2*time.Second, 10*time.Millisecond)

	app.RequireStop()
	assert.Nil(t, p.Done())
}
