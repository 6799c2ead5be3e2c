package ingest

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/iceymoss/sentinelpost/internal/core"
	"github.com/iceymoss/sentinelpost/pkg/db/objects"
	"github.com/iceymoss/sentinelpost/pkg/sensitive"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	payloads []core.RawArticle
	err      error
}

func (f *fakeSource) FetchNews(ctx context.Context, keywords []string) ([]core.RawArticle, error) {
	return f.payloads, f.err
}

type fakeSummarizer struct {
	candidates []string
	err        error
	calls      int
}

func (f *fakeSummarizer) Summarize(ctx context.Context, text string) ([]string, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.candidates, nil
}

type fakeWriter struct {
	batches [][]*objects.Article
	err     error
}

func (f *fakeWriter) CreateBatch(ctx context.Context, articles []*objects.Article) error {
	if f.err != nil {
		return f.err
	}
	f.batches = append(f.batches, articles)
	return nil
}

// fakeTx runs the operation inline, mirroring a committed transaction.
type fakeTx struct{}

func (fakeTx) Execute(ctx context.Context, opts *sql.TxOptions, operation func(ctx context.Context) error) error {
	return operation(ctx)
}

func intPtr(v int) *int { return &v }

func validPayload(title, link string) core.RawArticle {
	return core.RawArticle{
		Title:         title,
		Link:          link,
		Rights:        "Example Wire",
		PublishedDate: "2026-08-29 10:30:00",
		Summary:       "long form article body",
		Topic:         "technology",
		Language:      "en",
		Country:       "US",
		Rank:          intPtr(120),
	}
}

func TestRunSkipsPayloadsMissingEssentialKeys(t *testing.T) {
	noRights := validPayload("No rights", "https://a.example/1")
	noRights.Rights = ""
	noDate := validPayload("No date", "https://a.example/2")
	noDate.PublishedDate = ""
	noRank := validPayload("No rank", "https://a.example/3")
	noRank.Rank = nil

	writer := &fakeWriter{}
	p := NewPipeline(
		&fakeSource{payloads: []core.RawArticle{
			noRights,
			validPayload("Kept", "https://a.example/4"),
			noDate,
			noRank,
		}},
		&fakeSummarizer{candidates: []string{"summary"}},
		writer,
		fakeTx{},
	)

	require.NoError(t, p.Run(context.Background(), []string{"tech"}))

	require.Len(t, writer.batches, 1)
	require.Len(t, writer.batches[0], 1)
	assert.Equal(t, "Kept", writer.batches[0][0].Title)
}

func TestRunJoinsMultipleSummaryCandidatesWithDot(t *testing.T) {
	writer := &fakeWriter{}
	p := NewPipeline(
		&fakeSource{payloads: []core.RawArticle{validPayload("A", "https://a.example/1")}},
		&fakeSummarizer{candidates: []string{"First candidate", "Second candidate"}},
		writer,
		fakeTx{},
	)

	require.NoError(t, p.Run(context.Background(), []string{"tech"}))

	require.Len(t, writer.batches[0], 1)
	assert.Equal(t, "First candidate.Second candidate", writer.batches[0][0].Summary)
}

func TestRunSingleCandidateStoredVerbatim(t *testing.T) {
	writer := &fakeWriter{}
	p := NewPipeline(
		&fakeSource{payloads: []core.RawArticle{validPayload("A", "https://a.example/1")}},
		&fakeSummarizer{candidates: []string{"The only candidate."}},
		writer,
		fakeTx{},
	)

	require.NoError(t, p.Run(context.Background(), []string{"tech"}))
	assert.Equal(t, "The only candidate.", writer.batches[0][0].Summary)
}

func TestRunMalformedPublishedDateFallsBackToNow(t *testing.T) {
	bad := validPayload("Bad date", "https://a.example/1")
	bad.PublishedDate = "29/08/2026"
	good := validPayload("Good date", "https://a.example/2")

	writer := &fakeWriter{}
	p := NewPipeline(
		&fakeSource{payloads: []core.RawArticle{bad, good}},
		&fakeSummarizer{candidates: []string{"s"}},
		writer,
		fakeTx{},
	)

	before := time.Now()
	require.NoError(t, p.Run(context.Background(), []string{"tech"}))
	after := time.Now()

	stored := writer.batches[0]
	require.Len(t, stored, 2)

	assert.WithinRange(t, stored[0].PublishedAt, before, after)
	assert.Equal(t, time.Date(2026, 8, 29, 10, 30, 0, 0, time.UTC), stored[1].PublishedAt)
}

func TestRunSummarizerFailureSkipsArticleOnly(t *testing.T) {
	writer := &fakeWriter{}
	p := NewPipeline(
		&fakeSource{payloads: []core.RawArticle{validPayload("A", "https://a.example/1")}},
		&fakeSummarizer{err: errors.New("model overloaded")},
		writer,
		fakeTx{},
	)

	// per-article failure skips the article, the batch itself still commits
	require.NoError(t, p.Run(context.Background(), []string{"tech"}))
	require.Len(t, writer.batches, 1)
	assert.Empty(t, writer.batches[0])
}

func TestRunEmptyCandidateSliceSkipsArticleOnly(t *testing.T) {
	writer := &fakeWriter{}
	p := NewPipeline(
		&fakeSource{payloads: []core.RawArticle{validPayload("A", "https://a.example/1")}},
		&fakeSummarizer{candidates: []string{}},
		writer,
		fakeTx{},
	)

	require.NoError(t, p.Run(context.Background(), []string{"tech"}))
	require.Len(t, writer.batches, 1)
	assert.Empty(t, writer.batches[0])
}

func TestRunStoreFailureAbortsWholeBatch(t *testing.T) {
	writer := &fakeWriter{err: errors.New("deadlock")}
	p := NewPipeline(
		&fakeSource{payloads: []core.RawArticle{
			validPayload("A", "https://a.example/1"),
			validPayload("B", "https://a.example/2"),
		}},
		&fakeSummarizer{candidates: []string{"s"}},
		writer,
		fakeTx{},
	)

	err := p.Run(context.Background(), []string{"tech"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store batch")
	assert.Empty(t, writer.batches, "nothing is partially committed")
}

func TestRunFetchFailurePropagates(t *testing.T) {
	p := NewPipeline(
		&fakeSource{err: errors.New("connection refused")},
		&fakeSummarizer{},
		&fakeWriter{},
		fakeTx{},
	)

	err := p.Run(context.Background(), []string{"tech"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch news")
}

func TestRunMasksSensitiveWordsInSummary(t *testing.T) {
	word, err := sensitive.NewWord("../../resources/sensitive", sensitive.ALL_FILE)
	require.NoError(t, err)

	writer := &fakeWriter{}
	p := NewPipeline(
		&fakeSource{payloads: []core.RawArticle{validPayload("A", "https://a.example/1")}},
		&fakeSummarizer{candidates: []string{"footage contained gore throughout"}},
		writer,
		fakeTx{},
	).WithSafetyFilter(word)

	require.NoError(t, p.Run(context.Background(), []string{"tech"}))

	summary := writer.batches[0][0].Summary
	assert.NotContains(t, summary, "gore")
	assert.Contains(t, summary, "****")
}

func TestRunDoesNotDeduplicateRepeatedURLs(t *testing.T) {
	// No uniqueness is enforced on write: two batches carrying the same URL
	// both store a row. Image attachment later picks the first match.
	writer := &fakeWriter{}
	p := NewPipeline(
		&fakeSource{payloads: []core.RawArticle{validPayload("A", "https://a.example/same")}},
		&fakeSummarizer{candidates: []string{"s"}},
		writer,
		fakeTx{},
	)

	require.NoError(t, p.Run(context.Background(), []string{"tech"}))
	require.NoError(t, p.Run(context.Background(), []string{"tech"}))

	require.Len(t, writer.batches, 2)
	assert.Equal(t, writer.batches[0][0].URL, writer.batches[1][0].URL)
}

func TestRunRecordsQueryParamFromTokens(t *testing.T) {
	writer := &fakeWriter{}
	p := NewPipeline(
		&fakeSource{payloads: []core.RawArticle{validPayload("A", "https://a.example/1")}},
		&fakeSummarizer{candidates: []string{"s"}},
		writer,
		fakeTx{},
	)

	require.NoError(t, p.Run(context.Background(), []string{"ai", "chips"}))
	assert.Equal(t, "ai,chips", writer.batches[0][0].QueryParam)
}
