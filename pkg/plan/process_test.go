package plan

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/circuithub/tmp-postgres/pkg/partial"
)

func TestProcessConfig_CompleteStandard(t *testing.T) {
	t.Parallel()

	cfg := StandardProcessConfig().Combine(ProcessConfig{
		Args: Args{KeyBased: KeyArgs(map[string]string{"-p ": "5432"})},
	})

	complete, err := cfg.Complete([]string{"PATH=/bin"})
	require.NoError(t, err)

	assert.Equal(t, []string{"PATH=/bin"}, complete.Env)
	assert.Equal(t, []string{"-p 5432"}, complete.Argv)
	assert.Same(t, os.Stdin, complete.StdIn)
	assert.Same(t, os.Stdout, complete.StdOut)
	assert.Same(t, os.Stderr, complete.StdErr)
}

func TestProcessConfig_CompleteAccumulatesAllErrors(t *testing.T) {
	t.Parallel()

	// Inherit unset plus both output streams unset: three independent
	// failures, reported together.
	cfg := ProcessConfig{StdIn: partial.Some(os.Stdin)}

	_, err := cfg.Complete(nil)
	require.Error(t, err)

	list := partial.Collect(err)
	require.Len(t, list, 3)
	assert.ErrorContains(t, err, "inherit")
	assert.ErrorContains(t, err, "stdOut")
	assert.ErrorContains(t, err, "stdErr")
}

func TestProcessConfig_CombineOverrideWins(t *testing.T) {
	t.Parallel()

	devNull, err := OpenDevNull()
	require.NoError(t, err)
	defer devNull.Close()

	base := StandardProcessConfig()
	merged := base.Combine(SilentConfig(devNull))

	complete, err := merged.Complete(nil)
	require.NoError(t, err)
	assert.Same(t, devNull, complete.StdOut)
	assert.Same(t, devNull, complete.StdErr)
	assert.Same(t, devNull, complete.StdIn)
}

func TestSilentConfig_LeavesEnvironmentUnset(t *testing.T) {
	t.Parallel()

	devNull, err := OpenDevNull()
	require.NoError(t, err)
	defer devNull.Close()

	// SilentConfig alone is not completable: inherit is still unresolved.
	_, err = SilentConfig(devNull).Complete(nil)
	require.Error(t, err)
	assert.ErrorContains(t, err, "inherit")
}
