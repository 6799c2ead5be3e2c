package objects

import "time"

// IngestLog corresponds to the ingest_logs table.
// One row per ingestion batch, written best-effort outside the batch
// transaction.
type IngestLog struct {
	ID         uint   `gorm:"primarykey"`
	Query      string `gorm:"index;size:255"`
	Fetched    int    // raw payloads returned by the source
	Stored     int    // rows committed
	Skipped    int    // payloads rejected by validation
	Status     int    // 0 Running, 1 Success, 2 Failed
	ErrorMsg   string `gorm:"type:text"`
	DurationMs int64
	StartTime  time.Time
	EndTime    *time.Time
}

func (IngestLog) TableName() string {
	return "ingest_logs"
}
