package tcp

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/DrStiev/MyRedis/interface/database"
	"github.com/DrStiev/MyRedis/lib/logger"
)

// Config stores tcp server properties
type Config struct {
	Address    string
	MaxClients int
}

// ListenAndServeWithSignal binds the port and handles requests, blocking
// until a stop signal arrives
// 创建一个os level chan和子协程监听系统是否发来关闭信号，如果发来信号，则通知事件循环关闭
func ListenAndServeWithSignal(cfg *Config, db database.Database) error {
	closeChan := make(chan struct{})
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGHUP, syscall.SIGQUIT, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		sig := <-sigCh
		switch sig {
		case syscall.SIGHUP, syscall.SIGQUIT, syscall.SIGTERM, syscall.SIGINT:
			closeChan <- struct{}{}
		}
	}()

	loop, err := newLoop(cfg, db)
	if err != nil {
		return err
	}
	logger.Info(fmt.Sprintf("bind: %s, start listening...", cfg.Address))
	return loop.serve(closeChan)
}

// resolveAddr turns "host:port" into a sockaddr. An empty or wildcard host
// binds 0.0.0.0.
func resolveAddr(address string) (*unix.SockaddrInet4, error) {
	host, portStr, err := net.SplitHostPort(address)
	if err != nil {
		return nil, err
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("bad port in address %s", address)
	}
	sa := &unix.SockaddrInet4{Port: port}
	if host != "" {
		ip := net.ParseIP(host)
		if ip == nil {
			return nil, fmt.Errorf("bad host in address %s", address)
		}
		ip4 := ip.To4()
		if ip4 == nil {
			return nil, fmt.Errorf("not an IPv4 address: %s", host)
		}
		copy(sa.Addr[:], ip4)
	}
	return sa, nil
}

// listen creates the nonblocking listening socket. Any failure here aborts
// server startup.
func listen(address string) (int, error) {
	sa, err := resolveAddr(address)
	if err != nil {
		return -1, err
	}

	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM, 0)
	if err != nil {
		return -1, fmt.Errorf("socket(): %w", err)
	}
	if err = unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		_ = unix.Close(fd)
		return -1, fmt.Errorf("setsockopt(): %w", err)
	}
	if err = unix.Bind(fd, sa); err != nil {
		_ = unix.Close(fd)
		return -1, fmt.Errorf("bind(): %w", err)
	}
	if err = unix.SetNonblock(fd, true); err != nil {
		_ = unix.Close(fd)
		return -1, fmt.Errorf("fcntl(): %w", err)
	}
	if err = unix.Listen(fd, unix.SOMAXCONN); err != nil {
		_ = unix.Close(fd)
		return -1, fmt.Errorf("listen(): %w", err)
	}
	return fd, nil
}
