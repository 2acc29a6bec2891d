package api

import (
	"log/slog"
	"net"

	"go4.org/netipx"
)

// allowListener drops TCP connections from clients outside allowed.
type allowListener struct {
	net.Listener
	allowed *netipx.IPSet
	log     *slog.Logger
}

func newAllowListener(l net.Listener, allowed *netipx.IPSet, logger *slog.Logger) *allowListener {
	return &allowListener{Listener: l, allowed: allowed, log: logger}
}

func (l *allowListener) Accept() (net.Conn, error) {
	for {
		conn, err := l.Listener.Accept()
		if err != nil {
			return nil, err
		}

		if l.permits(conn.RemoteAddr()) {
			return conn, nil
		}

		l.log.Warn("rejected api connection", "remote", conn.RemoteAddr())
		conn.Close()
	}
}

func (l *allowListener) permits(addr net.Addr) bool {
	if l.allowed == nil {
		return false
	}

	tcpAddr, ok := addr.(*net.TCPAddr)
	if !ok {
		return false
	}

	ap, ok := netipx.FromStdAddr(tcpAddr.IP, tcpAddr.Port, tcpAddr.Zone)
	if !ok {
		return false
	}

	return l.allowed.Contains(ap.Addr().WithZone("").Unmap())
}
