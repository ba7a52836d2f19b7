package credentials

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	const path = "/home/admin/.config/classhelper/credentials.yaml"

	t.Run("Should report not logged in when nothing is stored", func(t *testing.T) {
		store := NewStore(afero.NewMemMapFs(), path)
		_, err := store.Load()
		assert.ErrorIs(t, err, ErrNotLoggedIn)
		assert.Empty(t, store.Token())
	})

	t.Run("Should save and load a session", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		store := NewStore(fs, path)
		require.NoError(t, store.Save(context.Background(), Credentials{Token: "tok-1", Username: "admin"}))

		creds, err := store.Load()
		require.NoError(t, err)
		assert.Equal(t, "tok-1", creds.Token)
		assert.Equal(t, "admin", creds.Username)
		assert.WithinDuration(t, time.Now(), creds.SavedAt, time.Minute)
		assert.Equal(t, "tok-1", store.Token())

		info, err := fs.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, "-rw-------", info.Mode().Perm().String())
		exists, err := afero.Exists(fs, path+".tmp")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("Should refuse an empty token", func(t *testing.T) {
		store := NewStore(afero.NewMemMapFs(), path)
		assert.Error(t, store.Save(context.Background(), Credentials{}))
	})

	t.Run("Should clear a session and tolerate clearing twice", func(t *testing.T) {
		store := NewStore(afero.NewMemMapFs(), path)
		require.NoError(t, store.Save(context.Background(), Credentials{Token: "tok"}))
		require.NoError(t, store.Clear(context.Background()))
		require.NoError(t, store.Clear(context.Background()))
		assert.Empty(t, store.Token())
	})

	t.Run("Should treat a file without token as logged out", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, path, []byte("username: admin\n"), 0o600))
		_, err := NewStore(fs, path).Load()
		assert.ErrorIs(t, err, ErrNotLoggedIn)
	})

	t.Run("Should report corrupt files", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, path, []byte("token: [unterminated"), 0o600))
		_, err := NewStore(fs, path).Load()
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrNotLoggedIn)
	})

	t.Run("Should lock on the OS filesystem", func(t *testing.T) {
		osPath := filepath.Join(t.TempDir(), "nested", "credentials.yaml")
		store := NewStore(afero.NewOsFs(), osPath)
		require.NoError(t, store.Save(context.Background(), Credentials{Token: "os-token"}))
		assert.Equal(t, "os-token", store.Token())
		require.NoError(t, store.Clear(context.Background()))
	})
}
