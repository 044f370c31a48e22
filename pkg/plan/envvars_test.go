package plan

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/circuithub/tmp-postgres/pkg/partial"
)

func TestEnvVars_CompleteInherit(t *testing.T) {
	t.Parallel()

	e := EnvVars{
		Inherit:  partial.Some(true),
		Specific: map[string]string{"PGPASSWORD": "s3cret", "LC_ALL": "C"},
	}

	env, err := e.Complete([]string{"PATH=/bin", "HOME=/root"})
	require.NoError(t, err)
	assert.Equal(t, []string{"PATH=/bin", "HOME=/root", "LC_ALL=C", "PGPASSWORD=s3cret"}, env)
}

func TestEnvVars_CompleteNoInherit(t *testing.T) {
	t.Parallel()

	e := EnvVars{
		Inherit:  partial.Some(false),
		Specific: map[string]string{"B": "2", "A": "1"},
	}

	env, err := e.Complete([]string{"PATH=/bin"})
	require.NoError(t, err)
	assert.Equal(t, []string{"A=1", "B=2"}, env)
}

func TestEnvVars_CompleteMissingInherit(t *testing.T) {
	t.Parallel()

	_, err := EnvVars{}.Complete(nil)
	require.Error(t, err)

	var missing *partial.MissingError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "inherit", missing.Field)
}

func TestEnvVars_DuplicateKeysCoexist(t *testing.T) {
	t.Parallel()

	// A key present in both the host snapshot and Specific is kept twice.
	// Which entry a later exec honors is platform-dependent and deliberately
	// left unresolved here.
	e := EnvVars{
		Inherit:  partial.Some(true),
		Specific: map[string]string{"PATH": "/override"},
	}

	env, err := e.Complete([]string{"PATH=/bin"})
	require.NoError(t, err)
	assert.Equal(t, []string{"PATH=/bin", "PATH=/override"}, env)
}

func TestEnvVars_Combine(t *testing.T) {
	t.Parallel()

	base := EnvVars{Inherit: partial.Some(true), Specific: map[string]string{"A": "1", "B": "2"}}
	override := EnvVars{Inherit: partial.Some(false), Specific: map[string]string{"B": "two"}}

	merged := base.Combine(override)
	assert.Equal(t, partial.Some(false), merged.Inherit)
	assert.Equal(t, map[string]string{"A": "1", "B": "two"}, merged.Specific)

	// Unset override leaves the base value alone.
	merged = base.Combine(EnvVars{})
	assert.Equal(t, partial.Some(true), merged.Inherit)
}
