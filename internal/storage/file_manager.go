package storage

import (
	"os"
	"path/filepath"
	"time"

	json "github.com/goccy/go-json"

	"sbbd/internal/models"
	"sbbd/internal/providers"
	"sbbd/internal/structures"
)

const dataFileName = "data.json"

// FileManager mirrors the store to one JSON file. Every Persist rewrites the
// whole snapshot; there is no incremental log. Writes go through a temp file
// with fsync and rename, so a crash mid-write leaves the previous snapshot
// intact.
type FileManager struct {
	store    *models.BoardStore
	dataFile string
	logger   providers.Logger
	metrics  providers.MetricsProviderInterface
}

// NewFileManager ensures the data directory exists; that failure is the only
// fatal storage error at startup.
func NewFileManager(store *models.BoardStore, conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface) (*FileManager, error) {
	if err := os.MkdirAll(conf.Storage.DataDir, 0755); err != nil {
		return nil, err
	}
	return &FileManager{
		store:    store,
		dataFile: filepath.Join(conf.Storage.DataDir, dataFileName),
		logger:   logger,
		metrics:  metrics,
	}, nil
}

// DataFile returns the snapshot file path.
func (f *FileManager) DataFile() string {
	return f.dataFile
}

func (f *FileManager) Persist() error {
	start := time.Now()

	snapshot := f.store.Snapshot()
	jsonData, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return err
	}

	tmpFile := f.dataFile + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(jsonData)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	if err = os.Rename(tmpFile, f.dataFile); err != nil {
		return err
	}

	f.metrics.ObservePersistenceDuration(time.Since(start))
	return nil
}

// Load reads the snapshot file into the store. A missing file means a fresh
// start. An unparsable file is logged and treated as empty storage rather
// than failing startup; the broken file stays on disk until the first
// committed mutation overwrites it.
func (f *FileManager) Load() error {
	data, err := os.ReadFile(f.dataFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var persisted models.DataStorePersistence
	if err := json.Unmarshal(data, &persisted); err != nil {
		f.logger.Warnf(providers.TypeApp, "Snapshot file %s is unreadable, starting empty: %s", f.dataFile, err)
		return nil
	}

	f.store.Replace(persisted.ToDataStore())
	return nil
}
