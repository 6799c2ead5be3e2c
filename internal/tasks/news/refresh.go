package news

import (
	"context"
	"fmt"
	"log"

	"github.com/iceymoss/sentinelpost/internal/core"
	"github.com/iceymoss/sentinelpost/internal/ingest"
	"github.com/iceymoss/sentinelpost/internal/newsapi"
	"github.com/iceymoss/sentinelpost/internal/repo"
	"github.com/iceymoss/sentinelpost/internal/summarizer"
	"github.com/iceymoss/sentinelpost/internal/tasks"
	conf "github.com/iceymoss/sentinelpost/pkg/config"
	"github.com/iceymoss/sentinelpost/pkg/sensitive"
	"github.com/iceymoss/sentinelpost/pkg/transaction"
)

// RefreshTask keeps the store warm: every run ingests fresh articles for the
// configured standing topics so interactive searches start from a populated
// table instead of an empty one.
type RefreshTask struct{}

func init() {
	tasks.Register("news:refresh", NewRefreshTask)
}

func NewRefreshTask() core.Task {
	return &RefreshTask{}
}

func (t *RefreshTask) Identifier() string {
	return "news:refresh"
}

// RefreshParams task parameters
type RefreshParams struct {
	Topics []string

	NewsBaseURL string
	NewsAPIKey  string
	Lang        string
	Page        int

	LLMAPIKey  string
	LLMBaseURL string
	LLMModel   string
	Candidates int
}

func (t *RefreshTask) Run(ctx context.Context, params map[string]any) error {
	p := t.parseParams(params)
	if len(p.Topics) == 0 {
		return fmt.Errorf("missing topics")
	}
	if p.NewsAPIKey == "" {
		return fmt.Errorf("missing news_api_key")
	}

	source := newsapi.NewClient(p.NewsBaseURL, p.NewsAPIKey, p.Lang, p.Page)
	summ := summarizer.NewLLMSummarizer(p.LLMAPIKey, p.LLMBaseURL, p.LLMModel, p.Candidates)

	pipeline := ingest.NewPipeline(source, summ, repo.NewArticleRepo(), transaction.NewManager()).
		WithArchive(repo.NewArchiveRepo()).
		WithBatchLog(repo.NewIngestLogRepo())

	if conf.ServiceConf != nil && conf.ServiceConf.Safety.WordlistDir != "" {
		word, err := sensitive.NewWord(conf.ServiceConf.Safety.WordlistDir, sensitive.ALL_FILE)
		if err != nil {
			log.Printf("⚠️ [Refresh] safety filter unavailable: %v", err)
		} else {
			pipeline = pipeline.WithSafetyFilter(word)
		}
	}

	ok := 0
	for _, topic := range p.Topics {
		if err := pipeline.Run(ctx, []string{topic}); err != nil {
			log.Printf("❌ [Refresh] Topic %q failed: %v", topic, err)
			continue
		}
		ok++
	}

	log.Printf("📰 [Refresh] Done. Topics refreshed: %d/%d", ok, len(p.Topics))
	return nil
}

func (t *RefreshTask) parseParams(params map[string]any) RefreshParams {
	p := RefreshParams{Lang: "en", Page: 1, Candidates: 1}
	if v, ok := params["topics"].([]any); ok {
		for _, item := range v {
			if s, ok := item.(string); ok {
				p.Topics = append(p.Topics, s)
			}
		}
	}
	if v, ok := params["news_base_url"].(string); ok {
		p.NewsBaseURL = v
	}
	if v, ok := params["news_api_key"].(string); ok {
		p.NewsAPIKey = v
	}
	if v, ok := params["lang"].(string); ok {
		p.Lang = v
	}
	if v, ok := params["page"].(int); ok && v > 0 {
		p.Page = v
	}
	if v, ok := params["llm_api_key"].(string); ok {
		p.LLMAPIKey = v
	}
	if v, ok := params["llm_base_url"].(string); ok {
		p.LLMBaseURL = v
	}
	if v, ok := params["llm_model"].(string); ok {
		p.LLMModel = v
	}
	if v, ok := params["candidates"].(int); ok && v > 0 {
		p.Candidates = v
	}
	return p
}
