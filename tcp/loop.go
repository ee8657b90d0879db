package tcp

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/DrStiev/MyRedis/interface/database"
	"github.com/DrStiev/MyRedis/lib/logger"
	"github.com/DrStiev/MyRedis/resp/connection"
	"github.com/DrStiev/MyRedis/resp/parser"
)

// read up to this much per readiness event
const readChunk = 64 * 1024

// eventLoop multiplexes the listening socket and every client connection on
// one thread. poll is the only blocking call in the whole server.
type eventLoop struct {
	listenFd   int
	wakeupR    int // self-pipe, written by the signal goroutine
	wakeupW    int
	maxClients int

	db database.Database

	conns    []*connection.Connection // keyed by fd
	numConns int

	// scratch storage reused across ticks
	pollFds   []unix.PollFd
	pollConns []*connection.Connection
	rbuf      [readChunk]byte
}

func newLoop(cfg *Config, db database.Database) (*eventLoop, error) {
	fd, err := listen(cfg.Address)
	if err != nil {
		return nil, err
	}
	var pipeFds [2]int
	if err := unix.Pipe(pipeFds[:]); err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("pipe(): %w", err)
	}
	return &eventLoop{
		listenFd:   fd,
		wakeupR:    pipeFds[0],
		wakeupW:    pipeFds[1],
		maxClients: cfg.MaxClients,
		db:         db,
	}, nil
}

// serve runs the loop until closeChan fires. Each tick polls for readiness,
// accepts new clients and invokes the read/write handlers.
func (l *eventLoop) serve(closeChan <-chan struct{}) error {
	go func() {
		<-closeChan
		logger.Info("shutting down...")
		_, _ = unix.Write(l.wakeupW, []byte{0}) // wake the poller
	}()
	defer l.shutdown()

	for {
		// construct the fd list: the wakeup pipe and the listening socket
		// first, then one entry per connection
		l.pollFds = l.pollFds[:0]
		l.pollConns = l.pollConns[:0]
		l.pollFds = append(l.pollFds,
			unix.PollFd{Fd: int32(l.wakeupR), Events: unix.POLLIN},
			unix.PollFd{Fd: int32(l.listenFd), Events: unix.POLLIN},
		)
		for _, conn := range l.conns {
			if conn == nil {
				continue
			}
			// always poll for error
			pfd := unix.PollFd{Fd: int32(conn.Fd), Events: unix.POLLERR}
			// poll flags from the application's intent
			if conn.WantRead {
				pfd.Events |= unix.POLLIN
			}
			if conn.WantWrite {
				pfd.Events |= unix.POLLOUT
			}
			l.pollFds = append(l.pollFds, pfd)
			l.pollConns = append(l.pollConns, conn)
		}

		// wait for readiness with no timeout
		_, err := unix.Poll(l.pollFds, -1)
		if err == unix.EINTR {
			continue // not an error
		}
		if err != nil {
			return fmt.Errorf("poll(): %w", err)
		}

		// stop signal
		if l.pollFds[0].Revents != 0 {
			return nil
		}

		// handle the listening socket
		if l.pollFds[1].Revents != 0 {
			l.handleAccept()
		}

		// handle connection sockets, read before write
		for i, conn := range l.pollConns {
			ready := l.pollFds[2+i].Revents
			if ready == 0 {
				continue
			}
			if ready&unix.POLLIN != 0 {
				l.handleRead(conn)
			}
			if ready&unix.POLLOUT != 0 {
				l.handleWrite(conn)
			}
			if ready&unix.POLLERR != 0 || conn.WantClose {
				l.destroyConn(conn)
			}
		}
	}
}

func (l *eventLoop) shutdown() {
	for _, conn := range l.conns {
		if conn != nil {
			// pending response bytes are discarded
			l.destroyConn(conn)
		}
	}
	_ = unix.Close(l.listenFd)
	_ = unix.Close(l.wakeupR)
	_ = unix.Close(l.wakeupW)
	l.db.Close()
}

func (l *eventLoop) handleAccept() {
	nfd, sa, err := unix.Accept(l.listenFd)
	if err != nil {
		if err != unix.EAGAIN {
			logger.Warn("accept() error:", err)
		}
		return
	}
	if l.maxClients > 0 && l.numConns >= l.maxClients {
		logger.Warn("refusing connection, maxclients reached")
		_ = unix.Close(nfd)
		return
	}
	if err = unix.SetNonblock(nfd, true); err != nil {
		logger.Warn("fcntl() error:", err)
		_ = unix.Close(nfd)
		return
	}

	conn := connection.NewConn(nfd, formatAddr(sa))
	// widen the fd-indexed table if needed
	for len(l.conns) <= nfd {
		l.conns = append(l.conns, nil)
	}
	l.conns[nfd] = conn
	l.numConns++
	logger.Info("accept link from", conn.RemoteAddr())
}

func (l *eventLoop) destroyConn(conn *connection.Connection) {
	_ = unix.Close(conn.Fd)
	l.conns[conn.Fd] = nil
	l.numConns--
	logger.Info("connection closed:", conn.RemoteAddr())
}

func (l *eventLoop) handleRead(conn *connection.Connection) {
	n, err := unix.Read(conn.Fd, l.rbuf[:])
	if err == unix.EAGAIN || err == unix.EINTR {
		return // actually not ready
	}
	if err != nil {
		logger.Warn("read() error:", err)
		conn.WantClose = true
		return
	}
	if n == 0 { // EOF
		if conn.Incoming.Len() == 0 {
			logger.Info("client closed:", conn.RemoteAddr())
		} else {
			logger.Warn("unexpected EOF:", conn.RemoteAddr())
		}
		conn.WantClose = true
		return
	}

	conn.Incoming.Append(l.rbuf[:n])
	// parse requests and generate responses, pipelined
	for l.tryOneRequest(conn) {
	}

	if conn.Outgoing.Len() > 0 {
		conn.WantRead = false
		conn.WantWrite = true
		// the socket is likely ready to write in a request-response
		// protocol, try to write without waiting for the next iteration
		l.handleWrite(conn)
	}
}

// tryOneRequest consumes one complete framed request from the incoming
// buffer, or reports that more data is needed
func (l *eventLoop) tryOneRequest(conn *connection.Connection) bool {
	data := conn.Incoming.Data()
	if len(data) < 4 {
		return false // want read
	}
	bodyLen := binary.LittleEndian.Uint32(data)
	if bodyLen > parser.MaxMsg { // protocol error
		logger.Warn("message too long:", conn.RemoteAddr())
		conn.WantClose = true
		return false
	}
	if len(data) < 4+int(bodyLen) {
		return false // want read
	}

	cmd, err := parser.ParseRequest(data[4 : 4+bodyLen])
	if err != nil {
		logger.Warn("bad request:", conn.RemoteAddr())
		conn.WantClose = true
		return false
	}

	conn.PushReply(l.db.Exec(cmd))
	conn.Incoming.Consume(4 + int(bodyLen))
	return true
}

func (l *eventLoop) handleWrite(conn *connection.Connection) {
	n, err := unix.Write(conn.Fd, conn.Outgoing.Data())
	if err == unix.EAGAIN || err == unix.EINTR {
		return // actually not ready
	}
	if err != nil {
		logger.Warn("write() error:", err)
		conn.WantClose = true
		return
	}

	conn.Outgoing.Consume(n)
	if conn.Outgoing.Len() == 0 { // all data is written
		conn.WantRead = true
		conn.WantWrite = false
	} // else: want write
}

func formatAddr(sa unix.Sockaddr) string {
	if sa4, ok := sa.(*unix.SockaddrInet4); ok {
		return fmt.Sprintf("%d.%d.%d.%d:%d",
			sa4.Addr[0], sa4.Addr[1], sa4.Addr[2], sa4.Addr[3], sa4.Port)
	}
	return "unknown"
}
