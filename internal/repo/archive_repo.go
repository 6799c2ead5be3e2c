package repo

import (
	"context"
	"time"

	"github.com/iceymoss/sentinelpost/internal/core"
	"github.com/iceymoss/sentinelpost/pkg/db"
	"github.com/iceymoss/sentinelpost/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// ArchiveRepo keeps the unvalidated raw payloads in MongoDB so a batch can
// be replayed or audited later. Entirely best-effort: with no Mongo
// configured every call is a no-op.
type ArchiveRepo struct{}

func NewArchiveRepo() *ArchiveRepo { return &ArchiveRepo{} }

const (
	archiveDB         = "sentinelpost"
	archiveCollection = "raw_articles"
)

// SaveRaw archives the payloads fetched for one query. Failures are logged
// and swallowed; archiving never blocks ingestion.
func (r *ArchiveRepo) SaveRaw(ctx context.Context, query string, payloads []core.RawArticle) {
	client := db.GetMongoConn()
	if client == nil || len(payloads) == 0 {
		return
	}

	docs := make([]interface{}, 0, len(payloads))
	fetchedAt := time.Now()
	for _, p := range payloads {
		docs = append(docs, bson.M{
			"query":      query,
			"fetched_at": fetchedAt,
			"payload":    p,
		})
	}

	coll := client.Database(archiveDB).Collection(archiveCollection)
	if _, err := coll.InsertMany(ctx, docs); err != nil {
		logger.Warn("raw payload archive failed", zap.String("query", query), zap.Error(err))
	}
}
