package storage

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"sbbd/internal/providers"
	"sbbd/internal/storage/interfaces"
	"sbbd/internal/structures"
)

const backupSuffix = ".json.zst"

// BackupManager keeps zstd-compressed copies of the snapshot file in a side
// directory and prunes copies older than the configured TTL. Backups are a
// recovery net for the lossy-restart behavior of FileManager.Load, not a
// second source of truth.
type BackupManager struct {
	dataFile   string
	dir        string
	ttl        time.Duration
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewBackupManager(fileManager *FileManager, conf *structures.Config, compressor interfaces.CompressorInterface, logger providers.Logger) *BackupManager {
	dir := conf.Backup.Dir
	if dir == "" {
		dir = filepath.Join(conf.Storage.DataDir, "backups")
	}
	return &BackupManager{
		dataFile:   fileManager.DataFile(),
		dir:        dir,
		ttl:        conf.Backup.TTL,
		compressor: compressor,
		logger:     logger,
	}
}

// Backup compresses the current snapshot file into the backup directory and
// prunes expired copies. A missing snapshot file is not an error.
func (b *BackupManager) Backup() error {
	data, err := os.ReadFile(b.dataFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	compressed, err := b.compressor.Compress(data)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(b.dir, 0755); err != nil {
		return err
	}

	path := filepath.Join(b.dir, "snapshot-"+time.Now().UTC().Format("20060102T150405.000")+backupSuffix)
	tmpFile := path + ".tmp"
	if err := os.WriteFile(tmpFile, compressed, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmpFile, path); err != nil {
		return err
	}

	return b.prune()
}

// Restore decompresses the newest backup over the snapshot file. Used as an
// operator escape hatch when the snapshot itself is unreadable.
func (b *BackupManager) Restore() error {
	backups, err := b.list()
	if err != nil || len(backups) == 0 {
		return err
	}

	latest := backups[len(backups)-1]
	data, err := os.ReadFile(latest)
	if err != nil {
		return err
	}
	decompressed, err := b.compressor.Decompress(data)
	if err != nil {
		return err
	}

	tmpFile := b.dataFile + ".tmp"
	if err := os.WriteFile(tmpFile, decompressed, 0644); err != nil {
		return err
	}
	return os.Rename(tmpFile, b.dataFile)
}

func (b *BackupManager) Close() {
	b.compressor.Close()
}

// list returns backup paths sorted oldest first. Timestamped names make the
// lexical order the chronological order.
func (b *BackupManager) list() ([]string, error) {
	files, err := filepath.Glob(filepath.Join(b.dir, "snapshot-*"+backupSuffix))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func (b *BackupManager) prune() error {
	if b.ttl <= 0 {
		return nil
	}

	backups, err := b.list()
	if err != nil {
		return err
	}

	cutoff := time.Now().UTC().Add(-b.ttl)
	for _, path := range backups {
		stamp := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(path), "snapshot-"), backupSuffix)
		created, err := time.Parse("20060102T150405.000", stamp)
		if err != nil {
			continue
		}
		if created.Before(cutoff) {
			if err := os.Remove(path); err != nil {
				b.logger.Errorf(providers.TypeApp, "Failed to prune backup %s: %s", path, err)
			}
		}
	}
	return nil
}
