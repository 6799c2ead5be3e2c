package repo

import (
	"context"
	"time"

	"github.com/iceymoss/sentinelpost/pkg/db"
	"github.com/iceymoss/sentinelpost/pkg/db/objects"
	"github.com/iceymoss/sentinelpost/pkg/transaction"
)

type ArticleRepo struct{}

func NewArticleRepo() *ArticleRepo { return &ArticleRepo{} }

// All returns every stored article.
func (r *ArticleRepo) All(ctx context.Context) ([]objects.Article, error) {
	var list []objects.Article
	conn := transaction.GetTransactionOrDB(ctx, db.GetGormConn(db.DB_SENTINELPOST))
	err := conn.Find(&list).Error
	return list, err
}

// Latest returns the most recently ingested articles, newest first.
func (r *ArticleRepo) Latest(ctx context.Context, limit int) ([]objects.Article, error) {
	var list []objects.Article
	conn := transaction.GetTransactionOrDB(ctx, db.GetGormConn(db.DB_SENTINELPOST))
	err := conn.Order("created_at DESC").Limit(limit).Find(&list).Error
	return list, err
}

// FindByID returns one article by primary key.
func (r *ArticleRepo) FindByID(ctx context.Context, id uint64) (*objects.Article, error) {
	var a objects.Article
	conn := transaction.GetTransactionOrDB(ctx, db.GetGormConn(db.DB_SENTINELPOST))
	if err := conn.First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// FindByURL returns the first article whose source URL equals url.
// Ingestion does not enforce URL uniqueness; with duplicates the first match
// wins.
func (r *ArticleRepo) FindByURL(ctx context.Context, url string) (*objects.Article, error) {
	var a objects.Article
	conn := transaction.GetTransactionOrDB(ctx, db.GetGormConn(db.DB_SENTINELPOST))
	if err := conn.Where("url = ?", url).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// MissingImage returns articles that have no illustration attached yet.
func (r *ArticleRepo) MissingImage(ctx context.Context, limit int) ([]objects.Article, error) {
	var list []objects.Article
	conn := transaction.GetTransactionOrDB(ctx, db.GetGormConn(db.DB_SENTINELPOST))
	err := conn.Where("image = '' OR image IS NULL").Limit(limit).Find(&list).Error
	return list, err
}

// CreateBatch inserts the whole batch through the transaction carried in ctx.
// Callers wrap this in transaction.Manager.Execute so a failure rolls the
// entire batch back.
func (r *ArticleRepo) CreateBatch(ctx context.Context, articles []*objects.Article) error {
	if len(articles) == 0 {
		return nil
	}
	conn := transaction.GetTransactionOrDB(ctx, db.GetGormConn(db.DB_SENTINELPOST))
	return conn.Create(&articles).Error
}

// AttachImage sets the image URL on the article found by source URL.
func (r *ArticleRepo) AttachImage(ctx context.Context, url, imageURL string) error {
	conn := transaction.GetTransactionOrDB(ctx, db.GetGormConn(db.DB_SENTINELPOST))
	return conn.Model(&objects.Article{}).
		Where("url = ?", url).
		Update("image", imageURL).Error
}

// RecordHistory links delivered search results to the requesting user.
func (r *ArticleRepo) RecordHistory(ctx context.Context, userID string, articleIDs []uint64) error {
	if userID == "" || len(articleIDs) == 0 {
		return nil
	}
	rows := make([]*objects.UserHistory, 0, len(articleIDs))
	for _, id := range articleIDs {
		rows = append(rows, &objects.UserHistory{UserID: userID, ArticleID: id})
	}
	conn := transaction.GetTransactionOrDB(ctx, db.GetGormConn(db.DB_SENTINELPOST))
	return conn.Create(&rows).Error
}

// HistoryFor returns the user's delivered articles, newest first.
func (r *ArticleRepo) HistoryFor(ctx context.Context, userID string, limit int) ([]objects.UserHistory, error) {
	var rows []objects.UserHistory
	conn := transaction.GetTransactionOrDB(ctx, db.GetGormConn(db.DB_SENTINELPOST))
	err := conn.Preload("Article").
		Where("user_id = ?", userID).
		Order("id DESC").Limit(limit).
		Find(&rows).Error
	return rows, err
}

// Since returns articles ingested at or after the cutoff, used by the daily
// digest. Ordering is left to the caller.
func (r *ArticleRepo) Since(ctx context.Context, cutoff time.Time) ([]objects.Article, error) {
	var list []objects.Article
	conn := transaction.GetTransactionOrDB(ctx, db.GetGormConn(db.DB_SENTINELPOST))
	err := conn.Where("created_at >= ?", cutoff).Find(&list).Error
	return list, err
}
