package migrations

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	ups, err := fs.Glob(postgresFS, "postgres/*.up.sql")
	require.NoError(t, err)
	downs, err := fs.Glob(postgresFS, "postgres/*.down.sql")
	require.NoError(t, err)

	assert.NotEmpty(t, ups)
	assert.Len(t, downs, len(ups))

	body, err := fs.ReadFile(postgresFS, "postgres/000001_create_hostname_rules.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(body), "hostname_rules")
}
