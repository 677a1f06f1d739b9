package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"
)

// Server 指标 HTTP 服务
type Server struct {
	addr      string
	path      string
	collector *Collector

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
}

// NewServer 创建指标 HTTP 服务
func NewServer(addr, path string, collector *Collector) *Server {
	if path == "" {
		path = "/metrics"
	}
	return &Server{addr: addr, path: path, collector: collector}
}

// Start 监听并在后台提供服务
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server != nil {
		return errors.New("metrics server already running")
	}

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("metrics server listen on %s: %w", s.addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle(s.path, s.collector.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	s.listener = ln
	s.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func(srv *http.Server) {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("指标服务异常退出", "error", err)
		}
	}(s.server)

	logger.Info("指标服务已启动", "addr", ln.Addr().String(), "path", s.path)
	return nil
}

// Addr 返回实际监听地址，未启动时返回空串
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop 关闭服务
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.server
	s.server = nil
	s.listener = nil
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}
