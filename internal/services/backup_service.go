package services

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/edvass/notevault/internal/models"
)

// BackupServiceProvider defines the interface for backup services.
type BackupServiceProvider interface {
	CreateBackup() (models.Backup, error)
	ListBackups() ([]models.Backup, error)
	PruneBackups(keep int) error
}

// BackupService snapshots the database into standalone sqlite files.
type BackupService struct {
	db           *sql.DB
	eventService EventServiceProvider
	backupPath   string
}

// NewBackupService creates a new BackupService.
func NewBackupService(db *sql.DB, eventService EventServiceProvider, backupPath string) *BackupService {
	// Ensure the base directory for backups exists
	if err := os.MkdirAll(backupPath, 0755); err != nil {
		log.Error().Err(err).Str("path", backupPath).Msg("Failed to create backup directory")
	}
	return &BackupService{db: db, eventService: eventService, backupPath: backupPath}
}

// CreateBackup writes a consistent snapshot of the database with
// VACUUM INTO and records it in the backups table.
func (s *BackupService) CreateBackup() (models.Backup, error) {
	backup := models.Backup{ID: uuid.New().String()}

	// VACUUM INTO refuses to overwrite; the id suffix keeps names unique
	// even within one second.
	fileName := fmt.Sprintf("notevault_%s_%s.db", time.Now().Format("20060102150405"), backup.ID[:8])
	backup.Path = filepath.Join(s.backupPath, fileName)

	if _, err := s.db.Exec("VACUUM INTO ?", backup.Path); err != nil {
		return models.Backup{}, fmt.Errorf("failed to snapshot database: %w", err)
	}

	fi, err := os.Stat(backup.Path)
	if err != nil {
		return models.Backup{}, fmt.Errorf("could not stat backup file: %w", err)
	}
	backup.Size = fi.Size()
	backup.CreatedAt = time.Now()

	_, err = s.db.Exec(
		"INSERT INTO backups (id, path, size, created_at) VALUES (?, ?, ?, ?)",
		backup.ID, backup.Path, backup.Size, backup.CreatedAt,
	)
	if err != nil {
		os.Remove(backup.Path) // Clean up the orphaned file
		return models.Backup{}, err
	}

	if s.eventService != nil {
		s.eventService.CreateEvent("backup.create", "info", fmt.Sprintf("Backup '%s' created (%d bytes).", fileName, backup.Size), nil)
	}

	return backup, nil
}

// ListBackups retrieves all recorded backups, newest first.
func (s *BackupService) ListBackups() ([]models.Backup, error) {
	rows, err := s.db.Query("SELECT id, path, size, created_at FROM backups ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var backups []models.Backup
	for rows.Next() {
		var backup models.Backup
		if err := rows.Scan(&backup.ID, &backup.Path, &backup.Size, &backup.CreatedAt); err != nil {
			return nil, err
		}
		backups = append(backups, backup)
	}
	return backups, rows.Err()
}

// PruneBackups deletes all but the newest keep backups, files included.
func (s *BackupService) PruneBackups(keep int) error {
	backups, err := s.ListBackups()
	if err != nil {
		return err
	}
	if len(backups) <= keep {
		return nil
	}

	for _, backup := range backups[keep:] {
		if err := os.Remove(backup.Path); err != nil && !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", backup.Path).Msg("Failed to remove backup file")
			continue
		}
		if _, err := s.db.Exec("DELETE FROM backups WHERE id = ?", backup.ID); err != nil {
			return err
		}
	}
	return nil
}
