package service

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"backoffice/internal/models"
	"backoffice/internal/store"
	"backoffice/internal/util"

	"go.uber.org/zap"
)

// BackupService wraps the external dump/restore tools. The dump content is
// never parsed; only the {type, file path, status, timestamp} record is the
// service's concern.
type BackupService struct {
	store       *store.Store
	databaseURL string
	backupDir   string
	logger      *zap.Logger
}

// NewBackupService creates a new backup service
func NewBackupService(store *store.Store, databaseURL, backupDir string) *BackupService {
	return &BackupService{
		store:       store,
		databaseURL: databaseURL,
		backupDir:   backupDir,
		logger:      util.GetLogger(),
	}
}

// Create runs pg_dump and records the attempt. A failed dump still produces
// a backup_logs row with status failed.
func (b *BackupService) Create(ctx context.Context, backupType string) (*models.BackupLog, error) {
	ctx, span := util.StartSpan(ctx, "BackupService.Create")
	defer span.End()

	if err := os.MkdirAll(b.backupDir, 0o755); err != nil {
		return nil, fmt.Errorf("create backup dir: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	filePath := filepath.Join(b.backupDir, fmt.Sprintf("backup_%s.sql", timestamp))

	cmd := exec.CommandContext(ctx, "pg_dump", "--no-owner", "--file", filePath, b.databaseURL)
	dumpErr := cmd.Run()

	entry := &models.BackupLog{
		BackupType: backupType,
		FilePath:   filePath,
		Status:     models.BackupStatusSuccess,
	}
	if dumpErr != nil {
		entry.FilePath = ""
		entry.Status = models.BackupStatusFailed
		util.BackupsTotal.WithLabelValues(models.BackupStatusFailed).Inc()
		b.logger.Error("Backup failed", zap.String("type", backupType), zap.Error(dumpErr))
	} else {
		util.BackupsTotal.WithLabelValues(models.BackupStatusSuccess).Inc()
		b.logger.Info("Backup created",
			zap.String("type", backupType),
			zap.String("file", filePath))
	}

	if err := b.store.InsertBackupLog(ctx, entry); err != nil {
		return nil, fmt.Errorf("record backup log: %w", err)
	}

	if dumpErr != nil {
		return entry, fmt.Errorf("pg_dump: %v: %w", dumpErr, models.ErrDependencyFailure)
	}
	return entry, nil
}

// Restore feeds a dump file to psql
func (b *BackupService) Restore(ctx context.Context, filePath string) error {
	ctx, span := util.StartSpan(ctx, "BackupService.Restore")
	defer span.End()

	if _, err := os.Stat(filePath); err != nil {
		return fmt.Errorf("backup file %s: %w", filePath, models.ErrNotFound)
	}

	cmd := exec.CommandContext(ctx, "psql", "--file", filePath, b.databaseURL)
	if err := cmd.Run(); err != nil {
		b.logger.Error("Restore failed", zap.String("file", filePath), zap.Error(err))
		return fmt.Errorf("psql restore: %v: %w", err, models.ErrDependencyFailure)
	}

	b.logger.Info("Database restored", zap.String("file", filePath))
	return nil
}

// List retrieves the most recent backup log entries
func (b *BackupService) List(ctx context.Context) ([]models.BackupLog, error) {
	return b.store.ListBackupLogs(ctx, 20)
}
