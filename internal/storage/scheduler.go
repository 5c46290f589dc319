package storage

import (
	"sync"
	"time"

	"github.com/roylee0704/gron"

	"sbbd/internal/providers"
	"sbbd/internal/storage/interfaces"
	"sbbd/internal/structures"
)

// Scheduler drives the periodic backup cycle. Snapshot persistence itself is
// synchronous per mutation; only backups run on a timer.
type Scheduler struct {
	config        *structures.Config
	logger        providers.Logger
	fileManager   *FileManager
	backupManager *BackupManager
	cron          *gron.Cron
	opsMu         sync.Mutex
}

func (s *Scheduler) Init() {
	if !s.config.Backup.Enabled {
		return
	}

	s.cron = gron.New()
	interval := s.config.Backup.Interval
	if interval < time.Minute {
		interval = time.Minute
	}

	s.cron.AddFunc(gron.Every(interval), func() {
		s.opsMu.Lock()
		defer s.opsMu.Unlock()

		if err := s.backupManager.Backup(); err != nil {
			s.logger.Errorf(providers.TypeApp, "Error while writing backup: %s", err)
			return
		}
		s.logger.Infof(providers.TypeApp, "Snapshot backup written")
	})

	s.cron.Start()
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) Restore() error {
	return s.fileManager.Load()
}

// Persist flushes the snapshot and, when backups are enabled, takes a final
// backup. Called on graceful shutdown.
func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	s.logger.Infof(providers.TypeApp, "Persisting board data to file...")
	if err := s.fileManager.Persist(); err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting data: %s", err)
		return err
	}
	if s.config.Backup.Enabled {
		if err := s.backupManager.Backup(); err != nil {
			s.logger.Errorf(providers.TypeApp, "Error while writing final backup: %s", err)
			return err
		}
	}
	return nil
}

func NewScheduler(config *structures.Config, logger providers.Logger, fileManager *FileManager, backupManager *BackupManager) interfaces.SchedulerInterface {
	return &Scheduler{
		config:        config,
		logger:        logger,
		fileManager:   fileManager,
		backupManager: backupManager,
	}
}
