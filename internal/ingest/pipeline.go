package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/iceymoss/sentinelpost/internal/core"
	"github.com/iceymoss/sentinelpost/pkg/db/objects"
	"github.com/iceymoss/sentinelpost/pkg/logger"
	"github.com/iceymoss/sentinelpost/pkg/sensitive"

	"go.uber.org/zap"
)

// publishedLayout is the upstream published_date format. Anything that does
// not parse falls back to the ingestion time.
const publishedLayout = "2006-01-02 15:04:05"

// ArticleWriter persists a batch of articles.
type ArticleWriter interface {
	CreateBatch(ctx context.Context, articles []*objects.Article) error
}

// TxRunner runs an operation inside a single store transaction.
type TxRunner interface {
	Execute(ctx context.Context, opts *sql.TxOptions, operation func(ctx context.Context) error) error
}

// Archiver keeps raw payloads for replay. Best-effort.
type Archiver interface {
	SaveRaw(ctx context.Context, query string, payloads []core.RawArticle)
}

// BatchLogger records one log row per ingestion batch. Best-effort.
type BatchLogger interface {
	Record(ctx context.Context, entry *objects.IngestLog)
}

// Pipeline is the fetch-summarize-store path. Per-article problems (missing
// fields, summarization failure) skip that article; a store failure aborts
// the whole batch, nothing is partially committed, and the error surfaces to
// the caller.
type Pipeline struct {
	source     core.NewsSource
	summarizer core.Summarizer
	writer     ArticleWriter
	tx         TxRunner
	archive    Archiver
	batchLog   BatchLogger
	filter     *sensitive.Word
}

func NewPipeline(source core.NewsSource, summarizer core.Summarizer, writer ArticleWriter, tx TxRunner) *Pipeline {
	return &Pipeline{
		source:     source,
		summarizer: summarizer,
		writer:     writer,
		tx:         tx,
	}
}

// WithArchive enables best-effort raw payload archiving.
func (p *Pipeline) WithArchive(a Archiver) *Pipeline {
	p.archive = a
	return p
}

// WithBatchLog enables best-effort batch logging.
func (p *Pipeline) WithBatchLog(l BatchLogger) *Pipeline {
	p.batchLog = l
	return p
}

// WithSafetyFilter masks listed words in stored summaries.
func (p *Pipeline) WithSafetyFilter(w *sensitive.Word) *Pipeline {
	p.filter = w
	return p
}

// Run fetches articles for the keyword tokens, summarizes each and commits
// the surviving records in one transaction.
func (p *Pipeline) Run(ctx context.Context, tokens []string) error {
	start := time.Now()
	query := strings.Join(tokens, ",")

	entry := &objects.IngestLog{Query: query, StartTime: start}
	defer func() {
		if p.batchLog != nil {
			p.batchLog.Record(ctx, entry)
		}
	}()

	logger.Info("fetching news", zap.Strings("tokens", tokens))
	payloads, err := p.source.FetchNews(ctx, tokens)
	if err != nil {
		entry.Status = 2
		entry.ErrorMsg = err.Error()
		return fmt.Errorf("fetch news: %w", err)
	}
	entry.Fetched = len(payloads)

	if p.archive != nil {
		p.archive.SaveRaw(ctx, query, payloads)
	}

	batch := make([]*objects.Article, 0, len(payloads))
	for _, raw := range payloads {
		article, ok := p.process(ctx, raw, query)
		if !ok {
			entry.Skipped++
			continue
		}
		batch = append(batch, article)
	}

	err = p.tx.Execute(ctx, nil, func(txCtx context.Context) error {
		return p.writer.CreateBatch(txCtx, batch)
	})
	if err != nil {
		entry.Status = 2
		entry.ErrorMsg = err.Error()
		return fmt.Errorf("store batch: %w", err)
	}

	entry.Stored = len(batch)
	entry.Status = 1
	logger.Info("batch stored",
		zap.String("query", query),
		zap.Int("fetched", entry.Fetched),
		zap.Int("stored", entry.Stored),
		zap.Int("skipped", entry.Skipped))
	return nil
}

// process validates and summarizes one payload. A false return means the
// payload was skipped; no article is partially stored.
func (p *Pipeline) process(ctx context.Context, raw core.RawArticle, query string) (*objects.Article, bool) {
	if missing := essentialMissing(raw); len(missing) > 0 {
		logger.Warn("article missing essential keys",
			zap.Strings("missing", missing),
			zap.String("title", raw.Title))
		return nil, false
	}

	candidates, err := p.summarizer.Summarize(ctx, raw.Summary)
	if err != nil {
		logger.Warn("summarization failed, skipping article",
			zap.String("title", raw.Title), zap.Error(err))
		return nil, false
	}
	if len(candidates) == 0 {
		logger.Warn("summarizer returned no candidates, skipping article",
			zap.String("title", raw.Title))
		return nil, false
	}
	// Multiple candidates are joined with a literal ".". Downstream
	// consumers rely on this exact join.
	summary := candidates[0]
	if len(candidates) > 1 {
		summary = strings.Join(candidates, ".")
	}

	if p.filter != nil {
		summary = p.filter.Mask(summary)
	}

	publishedAt, err := time.Parse(publishedLayout, raw.PublishedDate)
	if err != nil {
		publishedAt = time.Now()
	}

	return &objects.Article{
		Title:       raw.Title,
		Summary:     summary,
		Content:     raw.Summary,
		URL:         raw.Link,
		Source:      raw.Rights,
		PublishedAt: publishedAt,
		Category:    orDefault(raw.Topic),
		QueryParam:  query,
		Language:    orDefault(raw.Language),
		Country:     orDefault(raw.Country),
		CreatedAt:   time.Now(),
		Rank:        raw.Rank,
	}, true
}

// essentialMissing lists the absent required fields. Rank is required too:
// the tie-break depends on it, so a payload without one is rejected instead
// of stored with a sentinel.
func essentialMissing(raw core.RawArticle) []string {
	var missing []string
	if raw.Title == "" {
		missing = append(missing, "title")
	}
	if raw.Link == "" {
		missing = append(missing, "link")
	}
	if raw.Rights == "" {
		missing = append(missing, "rights")
	}
	if raw.PublishedDate == "" {
		missing = append(missing, "published_date")
	}
	if raw.Rank == nil {
		missing = append(missing, "rank")
	}
	return missing
}

func orDefault(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
