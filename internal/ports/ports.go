// Package ports hands out free TCP ports for ephemeral server instances.
package ports

import (
	"fmt"
	"net"
)

// Provider returns an available TCP port. Implementations must not hand the
// same port to concurrent callers while both listeners could still bind it.
type Provider interface {
	Acquire() (int, error)
}

// TCP asks the OS for an ephemeral loopback port by binding port 0 and
// immediately closing the listener. The kernel keeps recently released ports
// out of rotation long enough for the server to bind it.
type TCP struct{}

// Acquire implements Provider.
func (TCP) Acquire() (int, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, fmt.Errorf("resolve free port: %w", err)
	}
	defer l.Close()

	addr, ok := l.Addr().(*net.TCPAddr)
	if !ok {
		return 0, fmt.Errorf("resolve free port: unexpected address %v", l.Addr())
	}
	return addr.Port, nil
}

// Free returns an available loopback TCP port using the default provider.
func Free() (int, error) {
	return TCP{}.Acquire()
}
