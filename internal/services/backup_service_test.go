package services

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestCreateAndListBackups(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db, bcrypt.MinCost)
	_, err := users.Register("alice", "pw")
	require.NoError(t, err)

	svc := NewBackupService(db, nil, t.TempDir())

	backup, err := svc.CreateBackup()
	require.NoError(t, err)
	assert.NotEmpty(t, backup.ID)
	assert.Positive(t, backup.Size)

	fi, err := os.Stat(backup.Path)
	require.NoError(t, err)
	assert.Equal(t, backup.Size, fi.Size())

	backups, err := svc.ListBackups()
	require.NoError(t, err)
	require.Len(t, backups, 1)
	assert.Equal(t, backup.ID, backups[0].ID)
}

func TestPruneBackupsKeepsNewest(t *testing.T) {
	db := newTestDB(t)
	svc := NewBackupService(db, nil, t.TempDir())

	var paths []string
	for i := 0; i < 3; i++ {
		backup, err := svc.CreateBackup()
		require.NoError(t, err)
		paths = append(paths, backup.Path)
	}

	require.NoError(t, svc.PruneBackups(1))

	backups, err := svc.ListBackups()
	require.NoError(t, err)
	require.Len(t, backups, 1)

	// The surviving entry still has its file; the pruned ones are gone.
	_, err = os.Stat(backups[0].Path)
	assert.NoError(t, err)

	removed := 0
	for _, p := range paths {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			removed++
		}
	}
	assert.Equal(t, 2, removed)
}
