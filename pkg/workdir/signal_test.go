//go:build !windows

package workdir

import (
	"os"
	"os/signal"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Not parallel: signal dispositions are process-wide.
func TestHeldSignalIsRedelivered(t *testing.T) {
	// Our own registration keeps the re-raised interrupt from terminating
	// the test process.
	got := make(chan os.Signal, 4)
	signal.Notify(got, os.Interrupt)
	defer signal.Stop(got)

	resume := holdSignals()
	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGINT))

	// The original delivery reaches every registered channel, ours included.
	select {
	case <-got:
	case <-time.After(2 * time.Second):
		t.Fatal("signal never delivered")
	}

	resume()

	// The held copy is re-raised once normal delivery resumes.
	select {
	case s := <-got:
		assert.Equal(t, os.Interrupt, s)
	case <-time.After(2 * time.Second):
		t.Fatal("held signal was dropped")
	}
}
