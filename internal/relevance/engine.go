package relevance

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/iceymoss/sentinelpost/pkg/db/objects"
	"github.com/iceymoss/sentinelpost/pkg/logger"

	"go.uber.org/zap"
)

// ArticleLister reads the current contents of the article store.
type ArticleLister interface {
	All(ctx context.Context) ([]objects.Article, error)
}

// Ingestor fetches, summarizes and stores fresh articles for the tokens.
type Ingestor interface {
	Run(ctx context.Context, tokens []string) error
}

const (
	// DefaultLimit is the number of distinct-titled results a successful
	// ranking returns.
	DefaultLimit = 5

	// DefaultMaxFetchAttempts bounds how many backfill rounds a single
	// search may trigger.
	DefaultMaxFetchAttempts = 2
)

// Engine ranks stored articles against a user query by TF-IDF cosine
// similarity, backfilling the store from the news source when too few
// relevant articles exist.
type Engine struct {
	store            ArticleLister
	ingestor         Ingestor
	limit            int
	maxFetchAttempts int
}

func NewEngine(store ArticleLister, ingestor Ingestor) *Engine {
	return &Engine{
		store:            store,
		ingestor:         ingestor,
		limit:            DefaultLimit,
		maxFetchAttempts: DefaultMaxFetchAttempts,
	}
}

// NewEngineWithBounds overrides the result limit and backfill bound.
func NewEngineWithBounds(store ArticleLister, ingestor Ingestor, limit, maxFetchAttempts int) *Engine {
	return &Engine{
		store:            store,
		ingestor:         ingestor,
		limit:            limit,
		maxFetchAttempts: maxFetchAttempts,
	}
}

type scored struct {
	article objects.Article
	score   float64
}

// Search returns up to limit distinct-titled articles ranked by similarity
// to the query. An article counts as relevant only with similarity > 0.
//
// The backfill is an explicit bounded loop: rank, and when fewer than limit
// relevant articles exist, ingest fresh ones and rank again, at most
// maxFetchAttempts times. Exhausting the bound returns an empty result, not
// a partial one. Ingestion failures propagate to the caller unguarded.
func (e *Engine) Search(ctx context.Context, query string) ([]objects.Article, error) {
	tokens := NormalizeQuery(query)
	// A query that normalizes to nothing has a zero vector: nothing can
	// score above zero, so fetching more articles cannot help either.
	if len(tokens) == 0 {
		return []objects.Article{}, nil
	}
	normalized := strings.Join(tokens, " ")

	for attempt := 0; ; attempt++ {
		results, err := e.rank(ctx, normalized)
		if err != nil {
			return nil, err
		}
		if len(results) == e.limit {
			return results, nil
		}
		if attempt == e.maxFetchAttempts {
			logger.Warn("relevance: backfill bound reached",
				zap.String("query", normalized),
				zap.Int("found", len(results)),
				zap.Int("attempts", attempt))
			return []objects.Article{}, nil
		}
		if err := e.ingestor.Run(ctx, tokens); err != nil {
			return nil, fmt.Errorf("backfill ingest: %w", err)
		}
	}
}

// rank loads the full store, scores every summary against the normalized
// query and walks the ordering keeping the first article per distinct title.
func (e *Engine) rank(ctx context.Context, normalized string) ([]objects.Article, error) {
	articles, err := e.store.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load articles: %w", err)
	}
	if len(articles) == 0 {
		return []objects.Article{}, nil
	}

	// The vector space spans all stored summaries plus the query itself.
	corpus := make([]string, 0, len(articles)+1)
	for _, a := range articles {
		corpus = append(corpus, a.Summary)
	}
	corpus = append(corpus, normalized)

	v := NewVectorizer()
	if err := v.Fit(corpus); err != nil {
		return nil, fmt.Errorf("fit vectorizer: %w", err)
	}

	qvec, err := v.Transform(normalized)
	if err != nil {
		return nil, err
	}

	candidates := make([]scored, 0, len(articles))
	for _, a := range articles {
		avec, err := v.Transform(a.Summary)
		if err != nil {
			return nil, err
		}
		score := Cosine(qvec, avec)
		if score <= 0 {
			continue
		}
		candidates = append(candidates, scored{article: a, score: score})
	}

	// Similarity descending; ties by rank ascending with missing rank
	// sorting last; ID ascending keeps the order total and repeatable.
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		ri, rj := candidates[i].article.Rank, candidates[j].article.Rank
		switch {
		case ri != nil && rj != nil && *ri != *rj:
			return *ri < *rj
		case ri != nil && rj == nil:
			return true
		case ri == nil && rj != nil:
			return false
		}
		return candidates[i].article.ID < candidates[j].article.ID
	})

	results := make([]objects.Article, 0, e.limit)
	seenTitles := make(map[string]struct{}, e.limit)
	for _, c := range candidates {
		if _, dup := seenTitles[c.article.Title]; dup {
			continue
		}
		seenTitles[c.article.Title] = struct{}{}
		results = append(results, c.article)
		if len(results) == e.limit {
			break
		}
	}
	return results, nil
}
