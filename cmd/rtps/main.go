// Package main 提供 rtps 演示命令行入口
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dep2p/go-rtps"
	"github.com/dep2p/go-rtps/pkg/lib/log"
)

var logger = log.Logger("rtps/cmd")

// ═══════════════════════════════════════════════════════════════════════════
// 命令行参数
// ═══════════════════════════════════════════════════════════════════════════
var (
	// ─────────────────────────────────────────────────────────────────────
	// 角色
	// ─────────────────────────────────────────────────────────────────────
	serverMode = flag.Bool("server", false, "写者模式：把标准输入的每一行写入主题")
	clientMode = flag.Bool("client", false, "读者模式：打印主题收到的数据")
	topic      = flag.String("topic", "/hello", "主题名")

	// ─────────────────────────────────────────────────────────────────────
	// 运行时参数
	// ─────────────────────────────────────────────────────────────────────
	configFile  = flag.String("config", "", "配置文件路径")
	iface       = flag.String("interface", "", "单播绑定地址（默认 0.0.0.0）")
	policy      = flag.String("policy", "", "投递策略 (first/all)")
	metricsAddr = flag.String("metrics-addr", "", "Prometheus 指标监听地址")
	logLevel    = flag.String("log-level", "", "日志级别 (debug/info/warn/error)")

	// ─────────────────────────────────────────────────────────────────────
	// 信息显示
	// ─────────────────────────────────────────────────────────────────────
	showVersion = flag.Bool("version", false, "显示版本信息")
)

// pollInterval 读者模式下的取数周期
const pollInterval = 50 * time.Millisecond

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flag.Parse()

	if *showVersion {
		fmt.Println(rtps.VersionInfo())
		return nil
	}
	if *serverMode == *clientMode {
		flag.Usage()
		return errors.New("必须且只能指定 --server 或 --client")
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("配置错误: %w", err)
	}

	p, err := rtps.New(rtps.WithConfig(cfg))
	if err != nil {
		return fmt.Errorf("创建参与者失败: %w", err)
	}
	defer func() { _ = p.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := p.Start(ctx); err != nil {
		return fmt.Errorf("启动失败: %w", err)
	}
	logger.Info("参与者已启动",
		"version", rtps.Version,
		"id", p.ID().String(),
		"unicast", p.LocalAddr().String(),
		"group", p.Group().String(),
		"topic", *topic)

	if *serverMode {
		err = runServer(ctx, p)
	} else {
		err = runClient(ctx, p)
	}

	p.LogStats("运行统计")
	return err
}

// runServer 把标准输入的每一行写入写者，收到信号时退出
//
// 标准输入结束后继续运行，已写入的数据在后续 tick 中发出。
func runServer(ctx context.Context, p *rtps.Participant) error {
	w := p.RegisterWriter(*topic)
	fmt.Printf("写者 %s 已就绪，输入内容后回车发送，Ctrl+C 退出\n", *topic)

	return pumpLines(ctx, os.Stdin, w.Write, p.Done, p.Err)
}

// pumpLines 逐行读取 in 并交给 write，直到 ctx 取消或处理循环退出
//
// 读到 EOF 不退出；读取出错时返回该错误。
func pumpLines(ctx context.Context, in io.Reader, write func(string) error,
	loopDone func() <-chan struct{}, loopErr func() error) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-loopDone():
			return loopErr()
		case err := <-scanErr:
			if err != nil {
				return err
			}
			logger.Info("标准输入已结束，等待信号退出")
			scanErr = nil
		case line := <-lines:
			if err := write(line); err != nil {
				fmt.Fprintf(os.Stderr, "写入失败: %v\n", err)
			}
		}
	}
}

// runClient 周期性取出读者收到的数据并打印
func runClient(ctx context.Context, p *rtps.Participant) error {
	r := p.RegisterReader(*topic)
	fmt.Printf("读者 %s 已就绪，Ctrl+C 退出\n", *topic)

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-p.Done():
			return p.Err()
		case <-ticker.C:
			for _, data := range r.Pop() {
				fmt.Printf("got data: %s\n", data)
			}
		}
	}
}
