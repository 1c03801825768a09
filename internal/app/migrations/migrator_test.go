package migrations

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDriverURL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@db:5432/studbuds?sslmode=disable", driverURL("postgres://u:p@db:5432/studbuds?sslmode=disable"))
	assert.Equal(t, "pgx5://db/studbuds", driverURL("postgresql://db/studbuds"))
	assert.Equal(t, "pgx5://db/studbuds", driverURL("pgx5://db/studbuds"))
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	ups, err := fs.Glob(migrationFiles, "sql/*.up.sql")
	require.NoError(t, err)
	downs, err := fs.Glob(migrationFiles, "sql/*.down.sql")
	require.NoError(t, err)

	require.NotEmpty(t, ups)
	assert.Equal(t, len(ups), len(downs))
}
