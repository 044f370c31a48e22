package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/circuithub/tmp-postgres/pkg/partial"
)

func TestArgs_RenderKeyOrdering(t *testing.T) {
	t.Parallel()

	// Insertion order must not matter; keys render ascending.
	a := Args{KeyBased: KeyArgs(map[string]string{
		"-p ": "5432",
		"-D ": "x",
	})}
	assert.Equal(t, []string{"-D x", "-p 5432"}, a.Render())
}

func TestArgs_RenderBareKey(t *testing.T) {
	t.Parallel()

	a := Args{KeyBased: map[string]partial.Opt[string]{
		"--no-sync": partial.None[string](),
		"--pgdata=": partial.Some("/tmp/d"),
	}}
	assert.Equal(t, []string{"--no-sync", "--pgdata=/tmp/d"}, a.Render())
}

func TestArgs_PositionalTruncation(t *testing.T) {
	t.Parallel()

	a := Args{IndexBased: map[int]string{0: "a", 1: "b", 3: "d"}}
	assert.Equal(t, []string{"a", "b"}, a.Render())
}

func TestArgs_PositionalWithoutZeroRendersNothing(t *testing.T) {
	t.Parallel()

	a := Args{IndexBased: map[int]string{1: "b"}}
	assert.Empty(t, a.Render())
}

func TestArgs_KeyedBeforePositional(t *testing.T) {
	t.Parallel()

	a := Args{
		KeyBased:   KeyArgs(map[string]string{"-U ": "alice"}),
		IndexBased: map[int]string{0: "mydb"},
	}
	assert.Equal(t, []string{"-U alice", "mydb"}, a.Render())
}

func TestArgs_CombineOverrideWins(t *testing.T) {
	t.Parallel()

	base := Args{
		KeyBased:   KeyArgs(map[string]string{"-p ": "5432", "-D ": "/a"}),
		IndexBased: map[int]string{0: "one"},
	}
	override := Args{
		KeyBased:   KeyArgs(map[string]string{"-p ": "6000"}),
		IndexBased: map[int]string{0: "two", 1: "three"},
	}

	merged := base.Combine(override)
	assert.Equal(t, []string{"-D /a", "-p 6000", "two", "three"}, merged.Render())
}

func TestArgs_CombineIdentity(t *testing.T) {
	t.Parallel()

	a := Args{KeyBased: KeyArgs(map[string]string{"-p ": "5432"})}
	assert.Equal(t, a.Render(), a.Combine(Args{}).Render())
	assert.Equal(t, a.Render(), Args{}.Combine(a).Render())
}
