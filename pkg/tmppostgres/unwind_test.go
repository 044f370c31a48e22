package tmppostgres

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnwindRollbackReverseOrder(t *testing.T) {
	t.Parallel()

	var order []string
	var u unwind
	u.push(func() error { order = append(order, "first"); return nil })
	u.push(func() error { order = append(order, "second"); return nil })
	u.push(func() error { order = append(order, "third"); return nil })

	require.NoError(t, u.rollback())
	assert.Equal(t, []string{"third", "second", "first"}, order)
}

func TestUnwindRollbackCollectsAllErrors(t *testing.T) {
	t.Parallel()

	errA := errors.New("undo a failed")
	errB := errors.New("undo b failed")

	var ran bool
	var u unwind
	u.push(func() error { ran = true; return nil })
	u.push(func() error { return errA })
	u.push(func() error { return errB })

	err := u.rollback()
	require.Error(t, err)
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
	assert.True(t, ran, "a failing undo must not stop the ones below it")
}

func TestUnwindEmptyRollback(t *testing.T) {
	t.Parallel()

	var u unwind
	require.NoError(t, u.rollback())
}
