package workdir

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectoryType_CombineTable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b DirectoryType
		want DirectoryType
	}{
		{"temporary beats nothing", Temporary(), Temporary(), Temporary()},
		{"permanent wins on the right", Temporary(), Permanent("/p"), Permanent("/p")},
		{"permanent wins on the left", Permanent("/p"), Temporary(), Permanent("/p")},
		{"right permanent wins", Permanent("/p"), Permanent("/q"), Permanent("/q")},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.a.Combine(tt.b))
		})
	}
}

func TestDirectoryType_Associative(t *testing.T) {
	t.Parallel()

	values := []DirectoryType{Temporary(), Permanent("/p"), Permanent("/q")}
	for _, a := range values {
		for _, b := range values {
			for _, c := range values {
				assert.Equal(t, a.Combine(b).Combine(c), a.Combine(b.Combine(c)))
			}
		}
	}
}

func TestAcquire_Temporary(t *testing.T) {
	t.Parallel()

	root := t.TempDir()

	dir, err := Acquire(root, "tmp-postgres-data-", Temporary())
	require.NoError(t, err)

	assert.True(t, dir.Owned)
	assert.True(t, strings.HasPrefix(filepath.Base(dir.Path), "tmp-postgres-data-"))

	info, err := os.Stat(dir.Path)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// Concurrent acquisitions never collide.
	other, err := Acquire(root, "tmp-postgres-data-", Temporary())
	require.NoError(t, err)
	assert.NotEqual(t, dir.Path, other.Path)
}

func TestAcquire_TemporaryFailsOnBadRoot(t *testing.T) {
	t.Parallel()

	notADir := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(notADir, []byte("x"), 0o600))

	_, err := Acquire(notADir, "tmp-postgres-", Temporary())
	assert.Error(t, err)
}

func TestAcquire_Permanent(t *testing.T) {
	t.Parallel()

	// Never creates or verifies the path.
	dir, err := Acquire(t.TempDir(), "unused-", Permanent("/does/not/exist"))
	require.NoError(t, err)
	assert.False(t, dir.Owned)
	assert.Equal(t, "/does/not/exist", dir.Path)
}

func TestAcquire_PermanentExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	dir, err := Acquire(t.TempDir(), "unused-", Permanent("~/pgdata"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "pgdata"), dir.Path)

	dir, err = Acquire(t.TempDir(), "unused-", Permanent("~"))
	require.NoError(t, err)
	assert.Equal(t, home, dir.Path)
}

func TestAcquire_PermanentUnknownUser(t *testing.T) {
	t.Parallel()

	_, err := Acquire(t.TempDir(), "unused-", Permanent("~no-such-user-tmp-postgres/data"))
	assert.Error(t, err)
}

func TestExpandHome_Verbatim(t *testing.T) {
	t.Parallel()

	p, err := ExpandHome("/plain/path")
	require.NoError(t, err)
	assert.Equal(t, "/plain/path", p)
}

func TestRelease_RemovesOwnedTree(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	dir, err := Acquire(root, "tmp-postgres-", Temporary())
	require.NoError(t, err)

	// Populate so removal has to recurse.
	require.NoError(t, os.MkdirAll(filepath.Join(dir.Path, "base", "1"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir.Path, "base", "1", "pg_filenode.map"), []byte("x"), 0o600))

	require.NoError(t, Release(dir))

	_, err = os.Stat(dir.Path)
	assert.True(t, os.IsNotExist(err))

	// Nothing renamed is left behind.
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRelease_Idempotent(t *testing.T) {
	t.Parallel()

	dir, err := Acquire(t.TempDir(), "tmp-postgres-", Temporary())
	require.NoError(t, err)

	require.NoError(t, Release(dir))
	require.NoError(t, Release(dir))
}

func TestRelease_ExternallyRemoved(t *testing.T) {
	t.Parallel()

	dir, err := Acquire(t.TempDir(), "tmp-postgres-", Temporary())
	require.NoError(t, err)
	require.NoError(t, os.RemoveAll(dir.Path))

	assert.NoError(t, Release(dir))
}

func TestRelease_PermanentIsNoop(t *testing.T) {
	t.Parallel()

	target := t.TempDir()
	require.NoError(t, Release(CompleteDirectory{Path: target, Owned: false}))

	_, err := os.Stat(target)
	assert.NoError(t, err)
}
