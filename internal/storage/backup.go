package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// BackupPath returns where Backup writes and Restore reads.
func (s *Store) BackupPath() string {
	return s.path + BackupSuffix
}

// Backup copies the store file byte for byte to BackupPath, replacing any
// previous backup. It returns the backup path.
func (s *Store) Backup(ctx context.Context) (string, error) {
	if s.inMemory() {
		return "", ErrNoBackingFile
	}

	// Holding the only connection keeps writers out while the file is copied.
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return "", fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	// No-op in rollback-journal mode; flushes the WAL if one is in use.
	if _, err := conn.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return "", fmt.Errorf("checkpoint: %w", err)
	}

	dst := s.BackupPath()
	if err := copyFile(s.path, dst); err != nil {
		return "", fmt.Errorf("backup to %s: %w", dst, err)
	}
	return dst, nil
}

// Restore replaces the store file with the backup and reopens the store.
// It returns ErrNoBackup, leaving the store untouched, when no backup exists.
func (s *Store) Restore(ctx context.Context) error {
	if s.inMemory() {
		return ErrNoBackingFile
	}

	src := s.BackupPath()
	if _, err := os.Stat(src); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNoBackup
		}
		return fmt.Errorf("stat backup: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}

	copyErr := copyFile(src, s.path)
	if copyErr == nil {
		for _, suffix := range []string{"-journal", "-wal", "-shm"} {
			if err := os.Remove(s.path + suffix); err != nil && !errors.Is(err, fs.ErrNotExist) {
				copyErr = fmt.Errorf("remove stale %s: %w", suffix, err)
				break
			}
		}
	}

	// Reopen even when the copy failed: copyFile only renames a complete
	// file into place, so the previous store is still intact.
	if err := s.open(); err != nil {
		return fmt.Errorf("reopen store: %w", err)
	}
	if copyErr != nil {
		return fmt.Errorf("restore from %s: %w", src, copyErr)
	}
	return nil
}

// copyFile writes src to a temporary file next to dst and renames it over
// dst, so dst is either fully replaced or left as it was.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), filepath.Base(dst)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, info.Mode().Perm()); err != nil {
		return err
	}
	return os.Rename(tmpName, dst)
}
