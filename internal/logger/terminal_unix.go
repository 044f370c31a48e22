//go:build linux || darwin

package logger

import "golang.org/x/sys/unix"

// isTerminal reports whether fd refers to a terminal, so color output can be
// disabled for pipes and files.
func isTerminal(fd uintptr) bool {
	_, err := unix.IoctlGetTermios(int(fd), ioctlReadTermios)
	return err == nil
}
