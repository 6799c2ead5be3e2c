package repo

import (
	"context"
	"time"

	"github.com/iceymoss/sentinelpost/pkg/db"
	"github.com/iceymoss/sentinelpost/pkg/db/objects"
	"github.com/iceymoss/sentinelpost/pkg/logger"

	"go.uber.org/zap"
)

type IngestLogRepo struct{}

func NewIngestLogRepo() *IngestLogRepo { return &IngestLogRepo{} }

// Record writes one batch log row. Logging must never fail an ingestion
// batch, so errors are logged and swallowed here.
func (r *IngestLogRepo) Record(ctx context.Context, entry *objects.IngestLog) {
	now := time.Now()
	if entry.EndTime == nil {
		entry.EndTime = &now
	}
	entry.DurationMs = entry.EndTime.Sub(entry.StartTime).Milliseconds()

	conn := db.GetGormConn(db.DB_SENTINELPOST)
	if conn == nil {
		return
	}
	if err := conn.WithContext(ctx).Create(entry).Error; err != nil {
		logger.Warn("ingest log write failed", zap.Error(err))
	}
}

// Recent returns the latest batch logs, newest first.
func (r *IngestLogRepo) Recent(ctx context.Context, limit int) ([]objects.IngestLog, error) {
	var list []objects.IngestLog
	err := db.GetGormConn(db.DB_SENTINELPOST).WithContext(ctx).
		Order("start_time DESC").Limit(limit).Find(&list).Error
	return list, err
}
