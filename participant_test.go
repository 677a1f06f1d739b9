package rtps

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-rtps/internal/core/transport"
	"github.com/dep2p/go-rtps/pkg/lib/log"
	"github.com/dep2p/go-rtps/pkg/types"
)

// newLoopbackParticipant 创建依赖多播回送的本机参与者，无法绑定套接字时跳过
//
// 单播端点绑定在 0.0.0.0，绑定在 127.0.0.1 时多播公告不会回送。
func newLoopbackParticipant(t *testing.T, opts ...Option) *Participant {
	t.Helper()
	base := []Option{
		WithInterface("0.0.0.0"),
		WithPortRange(47500, 47550),
		WithMulticastGroup("239.255.77.24", 47398),
		WithReadTimeout(20 * time.Millisecond),
		WithTickInterval(10 * time.Millisecond),
	}
	p, err := New(append(base, opts...)...)
	if errors.Is(err, transport.ErrBindFailure) {
		t.Skipf("环境不支持 UDP 多播: %v", err)
	}
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })
	return p
}

// TestParticipant_Lifecycle 测试启停状态机
func TestParticipant_Lifecycle(t *testing.T) {
	id := types.NewParticipantID()
	p := newLoopbackParticipant(t, WithID(id))
	ctx := context.Background()

	assert.Equal(t, id, p.ID())
	assert.Equal(t, StateIdle, p.State())
	assert.True(t, p.LocalAddr().IsValid())
	assert.Equal(t, "239.255.77.24:47398", p.Group().String())
	assert.ErrorIs(t, p.Stop(ctx), ErrNotStarted)

	require.NoError(t, p.Start(ctx))
	assert.Equal(t, StateRunning, p.State())
	assert.ErrorIs(t, p.Start(ctx), ErrAlreadyStarted)
	assert.NotNil(t, p.Done())

	require.NoError(t, p.Stop(ctx))
	assert.Equal(t, StateStopped, p.State())
	assert.Nil(t, p.Done())

	// 停止后可以恢复
	require.NoError(t, p.Start(ctx))
	assert.Equal(t, StateRunning, p.State())

	require.NoError(t, p.Close())
	assert.Equal(t, StateClosed, p.State())
	assert.NoError(t, p.Close())
	assert.ErrorIs(t, p.Start(ctx), ErrClosed)
}

// TestParticipant_CloseWithoutStart 测试未启动直接关闭
func TestParticipant_CloseWithoutStart(t *testing.T) {
	p := newLoopbackParticipant(t)
	require.NoError(t, p.Close())
	assert.Equal(t, StateClosed, p.State())
}

// TestParticipant_Entities 测试实体注册
func TestParticipant_Entities(t *testing.T) {
	p := newLoopbackParticipant(t, WithMetrics(false))

	w := p.RegisterWriter("/hello")
	r := p.RegisterReader("/hello")

	assert.Equal(t, "/hello", w.Topic())
	assert.Equal(t, types.Writer("/hello"), w.Entity())
	assert.Equal(t, types.Reader("/hello"), r.Entity())
	assert.Equal(t, []types.Entity{types.Writer("/hello"), types.Reader("/hello")}, p.Entities())

	require.NoError(t, w.Write("ping"))
	assert.Equal(t, 1, w.Pending())
	assert.Equal(t, 0, r.Len())
	assert.Empty(t, r.Pop())

	// 关闭指标时快照为零值
	assert.Zero(t, p.Stats().DatagramsSent)
}

// TestParticipant_HelloPing 测试两个参与者经回环多播发现并转发数据
func TestParticipant_HelloPing(t *testing.T) {
	a := newLoopbackParticipant(t)
	b := newLoopbackParticipant(t)
	require.NotEqual(t, a.LocalAddr(), b.LocalAddr())

	w := a.RegisterWriter("/hello")
	r := b.RegisterReader("/hello")

	ctx := context.Background()
	require.NoError(t, a.Start(ctx))
	require.NoError(t, b.Start(ctx))

	// 发现完成前写入的数据会被丢弃，持续写入直到读者收到
	var got []string
	deadline := time.Now().Add(5 * time.Second)
	for len(got) == 0 && time.Now().Before(deadline) {
		require.NoError(t, w.Write("ping"))
		time.Sleep(20 * time.Millisecond)
		got = r.Pop()
	}
	require.NotEmpty(t, got, "读者未收到数据")

	for _, data := range got {
		assert.Equal(t, "ping", data)
	}
	assert.Positive(t, a.Stats().MessagesForwarded)
	assert.Positive(t, b.Stats().MessagesDelivered)
	assert.NotEmpty(t, a.Peers())
}

// TestParticipant_LoopFailure 测试处理循环因读错误退出后状态与重新启动
func TestParticipant_LoopFailure(t *testing.T) {
	p := newLoopbackParticipant(t)
	ctx := context.Background()

	require.NoError(t, p.Start(ctx))
	require.NoError(t, p.transport.Close())

	require.Eventually(t, func() bool { return p.State() == StateStopped }, 2*time.Second, 10*time.Millisecond)
	assert.ErrorIs(t, p.Err(), transport.ErrIOFailure)
	assert.Nil(t, p.Done())
	assert.ErrorIs(t, p.Stop(ctx), ErrNotStarted)

	// 不再返回 ErrAlreadyStarted
	require.NoError(t, p.Start(ctx))
	require.NoError(t, p.Close())
	assert.Equal(t, StateClosed, p.State())
}

// TestParticipant_LogStats 测试指标快照日志
func TestParticipant_LogStats(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutputWithLevel(&buf, log.LevelInfo)
	t.Cleanup(func() { log.SetOutputWithLevel(os.Stderr, log.LevelInfo) })

	on := newLoopbackParticipant(t)
	on.LogStats("运行统计")
	assert.Contains(t, buf.String(), "peers=0")

	buf.Reset()
	off := newLoopbackParticipant(t, WithMetrics(false))
	off.LogStats("运行统计")
	assert.Contains(t, buf.String(), "metrics=disabled")
}
