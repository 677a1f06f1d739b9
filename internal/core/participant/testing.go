package participant

import (
	"errors"
	"net/netip"
	"sync"

	"github.com/dep2p/go-rtps/internal/core/wire"
	"github.com/dep2p/go-rtps/pkg/interfaces"
	"github.com/dep2p/go-rtps/pkg/types"
)

// errFakeUnreachable 模拟不可达的目的地址
var errFakeUnreachable = errors.New("fake: destination unreachable")

// fakeNetwork 内存网络，连接多个 fakeTransport
//
// 发现消息投递给所有端点（包括发送方自身，相当于多播回送），
// 数据消息投递给目的地址对应的端点，不存在时静默丢弃。
type fakeNetwork struct {
	mu        sync.Mutex
	endpoints map[netip.AddrPort]*fakeTransport
}

func newFakeNetwork() *fakeNetwork {
	return &fakeNetwork{endpoints: make(map[netip.AddrPort]*fakeTransport)}
}

// sentMessage 记录一次 Send 调用
type sentMessage struct {
	dst netip.AddrPort
	msg types.Message
}

// fakeTransport interfaces.Transport 的内存实现
type fakeTransport struct {
	network *fakeNetwork
	addr    netip.AddrPort

	mu          sync.Mutex
	data        []*types.Envelope
	discovery   []*types.Envelope
	sent        []sentMessage
	unreachable map[netip.AddrPort]bool
	recvErr     error
	closed      bool
}

var _ interfaces.Transport = (*fakeTransport)(nil)

func (n *fakeNetwork) newTransport(addr string) *fakeTransport {
	t := &fakeTransport{
		network:     n,
		addr:        netip.MustParseAddrPort(addr),
		unreachable: make(map[netip.AddrPort]bool),
	}
	n.mu.Lock()
	n.endpoints[t.addr] = t
	n.mu.Unlock()
	return t
}

func (n *fakeNetwork) lookup(addr netip.AddrPort) *fakeTransport {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.endpoints[addr]
}

func (n *fakeNetwork) all() []*fakeTransport {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]*fakeTransport, 0, len(n.endpoints))
	for _, t := range n.endpoints {
		out = append(out, t)
	}
	return out
}

func (t *fakeTransport) Send(msg types.Message, dst netip.AddrPort) error {
	if _, err := wire.Encode(msg, wire.DefaultCapacity); err != nil {
		return err
	}

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return errors.New("fake: closed")
	}
	if t.unreachable[dst] {
		t.mu.Unlock()
		return errFakeUnreachable
	}
	t.sent = append(t.sent, sentMessage{dst: dst, msg: msg})
	t.mu.Unlock()

	if peer := t.network.lookup(dst); peer != nil {
		peer.deliver(&types.Envelope{From: t.addr, Message: msg}, false)
	}
	return nil
}

func (t *fakeTransport) SendDiscovery(msg types.Message) error {
	if _, err := wire.Encode(msg, wire.DefaultCapacity); err != nil {
		return err
	}
	for _, peer := range t.network.all() {
		peer.deliver(&types.Envelope{From: t.addr, Message: msg}, true)
	}
	return nil
}

func (t *fakeTransport) deliver(env *types.Envelope, discovery bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if discovery {
		t.discovery = append(t.discovery, env)
	} else {
		t.data = append(t.data, env)
	}
}

func (t *fakeTransport) TryReceive() (*types.Envelope, error) {
	return t.pop(&t.data)
}

func (t *fakeTransport) TryReceiveDiscovery() (*types.Envelope, error) {
	return t.pop(&t.discovery)
}

func (t *fakeTransport) pop(q *[]*types.Envelope) (*types.Envelope, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.recvErr != nil {
		return nil, t.recvErr
	}
	if len(*q) == 0 {
		return nil, nil
	}
	env := (*q)[0]
	*q = (*q)[1:]
	return env, nil
}

func (t *fakeTransport) LocalAddr() netip.AddrPort {
	return t.addr
}

func (t *fakeTransport) Close() error {
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()
	return nil
}

// sentTo 返回发往 dst 的消息
func (t *fakeTransport) sentTo(dst netip.AddrPort) []types.Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []types.Message
	for _, s := range t.sent {
		if s.dst == dst {
			out = append(out, s.msg)
		}
	}
	return out
}

func (t *fakeTransport) sentCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.sent)
}

func (t *fakeTransport) setRecvErr(err error) {
	t.mu.Lock()
	t.recvErr = err
	t.mu.Unlock()
}

func (t *fakeTransport) setUnreachable(dst netip.AddrPort) {
	t.mu.Lock()
	t.unreachable[dst] = true
	t.mu.Unlock()
}

// injectData 模拟收到一条单播数据报
func (t *fakeTransport) injectData(from string, msg types.Message) {
	t.deliver(&types.Envelope{From: netip.MustParseAddrPort(from), Message: msg}, false)
}

// injectDiscovery 模拟收到一条发现数据报
func (t *fakeTransport) injectDiscovery(from string, msg types.Message) {
	t.deliver(&types.Envelope{From: netip.MustParseAddrPort(from), Message: msg}, true)
}
