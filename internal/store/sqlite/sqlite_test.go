package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"saki/internal/store"
	"saki/internal/store/storetest"
)

func TestSQLiteStore(t *testing.T) {
	var path string
	open := func() store.Store {
		s, err := New(path)
		require.NoError(t, err)
		return s
	}
	suite.Run(t, &storetest.Suite{
		NewStore: func() store.Store {
			path = filepath.Join(t.TempDir(), "saki.db")
			return open()
		},
		Reopen: open,
	})
}

func TestMigrationsAreRepeatable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "saki.db")
	s, err := New(path)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Initialize(context.Background()))
	version, err := RunMigrations(path)
	require.NoError(t, err)
	require.Equal(t, uint(1), version)

	var recorded int
	require.NoError(t, s.db.QueryRow("SELECT version FROM "+MigrationsTable).Scan(&recorded))
	require.Equal(t, 1, recorded)
}
