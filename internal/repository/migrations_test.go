package repository

import (
	"io/fs"
	"testing"

	"github.com/golang-migrate/migrate/v4/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreviousVersion(t *testing.T) {
	assert.Equal(t, database.NilVersion, previousVersion(1))
	assert.Equal(t, database.NilVersion, previousVersion(0))
	assert.Equal(t, 2, previousVersion(3))
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	up, err := fs.Glob(migrationsFS, "migrations/*.up.sql")
	require.NoError(t, err)
	down, err := fs.Glob(migrationsFS, "migrations/*.down.sql")
	require.NoError(t, err)

	require.NotEmpty(t, up)
	assert.Len(t, down, len(up))
}
