package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/circuithub/tmp-postgres/pkg/partial"
)

func TestConnectionOptions_ConnString(t *testing.T) {
	t.Parallel()

	opts := ConnectionOptions{
		Host:   partial.Some("/tmp/s"),
		Port:   partial.Some(5433),
		DBName: partial.Some("postgres"),
	}
	assert.Equal(t, "host=/tmp/s port=5433 dbname=postgres sslmode=disable", opts.ConnString())
}

func TestConnectionOptions_ConnStringQuotes(t *testing.T) {
	t.Parallel()

	opts := ConnectionOptions{
		Host:     partial.Some("/tmp/with space"),
		Password: partial.Some("it's"),
	}
	assert.Equal(t, `host='/tmp/with space' password='it\'s' sslmode=disable`, opts.ConnString())
}

func TestConnectionOptions_PGConfig(t *testing.T) {
	t.Parallel()

	opts := ConnectionOptions{
		Host:   partial.Some("/tmp/s"),
		Port:   partial.Some(5433),
		DBName: partial.Some("mydb"),
		User:   partial.Some("alice"),
	}

	cfg, err := opts.PGConfig()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/s", cfg.Host)
	assert.Equal(t, uint16(5433), cfg.Port)
	assert.Equal(t, "mydb", cfg.Database)
	assert.Equal(t, "alice", cfg.User)
}

func TestConnectionOptions_Combine(t *testing.T) {
	t.Parallel()

	base := ConnectionOptions{Host: partial.Some("/a"), DBName: partial.Some("postgres")}
	override := ConnectionOptions{DBName: partial.Some("mydb"), User: partial.Some("bob")}

	merged := base.Combine(override)
	assert.Equal(t, partial.Some("/a"), merged.Host)
	assert.Equal(t, partial.Some("mydb"), merged.DBName)
	assert.Equal(t, partial.Some("bob"), merged.User)
}

func TestParseOptions(t *testing.T) {
	t.Parallel()

	opts, err := ParseOptions("host=/tmp/sock port=6001 dbname=fixture_db user=fixture_user password=pw")
	require.NoError(t, err)

	assert.Equal(t, partial.Some("/tmp/sock"), opts.Host)
	assert.Equal(t, partial.Some(6001), opts.Port)
	assert.Equal(t, partial.Some("fixture_db"), opts.DBName)
	assert.Equal(t, partial.Some("fixture_user"), opts.User)
	assert.Equal(t, partial.Some("pw"), opts.Password)
}

func TestNeedsCreateDB(t *testing.T) {
	t.Parallel()

	assert.False(t, NeedsCreateDB(ConnectionOptions{}))
	assert.False(t, NeedsCreateDB(ConnectionOptions{DBName: partial.Some("postgres")}))
	assert.False(t, NeedsCreateDB(ConnectionOptions{DBName: partial.Some("template1")}))
	assert.True(t, NeedsCreateDB(ConnectionOptions{DBName: partial.Some("fixture_db")}))
}

func TestWithOptions(t *testing.T) {
	t.Parallel()

	opts := ConnectionOptions{
		DBName:   partial.Some("fixture_db"),
		User:     partial.Some("alice"),
		Password: partial.Some("pw"),
	}
	p := Generate(true, true, 5433, "/tmp/s", "/tmp/d").WithOptions(opts)

	assert.Equal(t, partial.Some("fixture_db"), p.Postgres.Options.DBName)

	require.NotNil(t, p.InitDB)
	assert.Contains(t, p.InitDB.Args.Render(), "--username=alice")

	require.NotNil(t, p.CreateDB)
	createArgv := p.CreateDB.Args.Render()
	assert.Contains(t, createArgv, "-U alice")
	assert.Equal(t, "fixture_db", createArgv[len(createArgv)-1])
	assert.Equal(t, "pw", p.CreateDB.Environment.Specific["PGPASSWORD"])

	// The generated arguments survive the translation.
	assert.Contains(t, createArgv, "-h /tmp/s")
	assert.Contains(t, createArgv, "-p 5433")
}

func TestWithOptions_DefaultDatabaseLeavesCreateDBAlone(t *testing.T) {
	t.Parallel()

	opts := ConnectionOptions{DBName: partial.Some("postgres")}
	p := Generate(true, true, 5433, "/tmp/s", "/tmp/d").WithOptions(opts)

	require.NotNil(t, p.CreateDB)
	assert.NotContains(t, p.CreateDB.Args.Render(), "postgres")
}
