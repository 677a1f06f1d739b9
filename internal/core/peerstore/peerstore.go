package peerstore

import (
	"net/netip"
	"slices"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-rtps/pkg/lib/log"
	"github.com/dep2p/go-rtps/pkg/types"
)

var logger = log.Logger("core/peerstore")

// Peer 注册表中的一个对端
type Peer struct {
	Addr        netip.AddrPort
	Participant types.RemoteParticipant
}

// Store 对端参与者注册表
type Store struct {
	mu          sync.RWMutex
	clock       clock.Clock
	ttl         time.Duration
	peers       map[netip.AddrPort]types.RemoteParticipant
	lastCleared time.Time
}

// NewStore 创建注册表
//
// clk 为 nil 时使用真实时钟。创建时刻视为最近一次清空。
func NewStore(ttl time.Duration, clk clock.Clock) (*Store, error) {
	if ttl <= 0 {
		return nil, ErrInvalidTTL
	}
	if clk == nil {
		clk = clock.New()
	}
	return &Store{
		clock:       clk,
		ttl:         ttl,
		peers:       make(map[netip.AddrPort]types.RemoteParticipant),
		lastCleared: clk.Now(),
	}, nil
}

// TTL 返回清空间隔
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// ExpireIfDue 距上次清空已满 TTL 时清空整个注册表
//
// 返回是否发生了清空。
func (s *Store) ExpireIfDue() bool {
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if now.Sub(s.lastCleared) < s.ttl {
		return false
	}
	n := len(s.peers)
	s.clearLocked(now)
	logger.Debug("对端注册表已清空", "dropped", n)
	return true
}

// Clear 立即清空注册表并重置计时
func (s *Store) Clear() {
	now := s.clock.Now()
	s.mu.Lock()
	s.clearLocked(now)
	s.mu.Unlock()
}

func (s *Store) clearLocked(now time.Time) {
	clear(s.peers)
	s.lastCleared = now
}

// Put 记录对端最近一次公告，整体替换旧值
func (s *Store) Put(addr netip.AddrPort, p types.RemoteParticipant) error {
	if !addr.IsValid() {
		return ErrInvalidAddr
	}
	s.mu.Lock()
	s.peers[addr] = p.Clone()
	s.mu.Unlock()
	return nil
}

// Get 返回对端最近一次公告
func (s *Store) Get(addr netip.AddrPort) (types.RemoteParticipant, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.peers[addr]
	if !ok {
		return types.RemoteParticipant{}, false
	}
	return p.Clone(), true
}

// Len 返回已知对端数量
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.peers)
}

// Peers 返回全部对端，按地址升序
func (s *Store) Peers() []Peer {
	s.mu.RLock()
	peers := make([]Peer, 0, len(s.peers))
	for addr, p := range s.peers {
		peers = append(peers, Peer{Addr: addr, Participant: p.Clone()})
	}
	s.mu.RUnlock()

	slices.SortFunc(peers, func(a, b Peer) int { return a.Addr.Compare(b.Addr) })
	return peers
}

// Match 返回公告了实体 e 的对端地址，按地址升序
//
// 查找本地 Writer(t) 的订阅者时传入 Reader(t)。
func (s *Store) Match(e types.Entity) []netip.AddrPort {
	s.mu.RLock()
	var addrs []netip.AddrPort
	for addr, p := range s.peers {
		if p.Has(e) {
			addrs = append(addrs, addr)
		}
	}
	s.mu.RUnlock()

	slices.SortFunc(addrs, func(a, b netip.AddrPort) int { return a.Compare(b) })
	return addrs
}
