package service

import (
	"context"
	"fmt"
)

// Backup snapshots the whole store file and returns the backup path.
func (s *Service) Backup(ctx context.Context) (string, error) {
	path, err := s.store.Backup(ctx)
	if err != nil {
		return "", fmt.Errorf("backup: %w", err)
	}
	s.log.WithField("path", path).Info("Backup.Complete")
	return path, nil
}

// Restore replaces the store with the last backup. storage.ErrNoBackup is
// returned, wrapped, when there is none; the store is then left untouched.
func (s *Service) Restore(ctx context.Context) error {
	if err := s.store.Restore(ctx); err != nil {
		return fmt.Errorf("restore: %w", err)
	}
	s.log.Info("Restore.Complete")
	return nil
}
