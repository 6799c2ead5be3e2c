package news

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/iceymoss/sentinelpost/internal/core"
	"github.com/iceymoss/sentinelpost/internal/repo"
	"github.com/iceymoss/sentinelpost/internal/tasks"
	conf "github.com/iceymoss/sentinelpost/pkg/config"
	mailer "github.com/iceymoss/sentinelpost/pkg/message/email"
)

// DigestTask mails the best-ranked articles of the last day to the
// configured recipient.
type DigestTask struct{}

func init() {
	tasks.Register("news:digest", NewDigestTask)
}

func NewDigestTask() core.Task {
	return &DigestTask{}
}

func (t *DigestTask) Identifier() string {
	return "news:digest"
}

// DigestParams task parameters
type DigestParams struct {
	To    string
	Hours int
	Limit int
}

func (t *DigestTask) Run(ctx context.Context, params map[string]any) error {
	p := t.parseParams(params)
	if p.To == "" {
		return fmt.Errorf("missing to")
	}

	articleRepo := repo.NewArticleRepo()
	cutoff := time.Now().Add(-time.Duration(p.Hours) * time.Hour)
	articles, err := articleRepo.Since(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("load recent articles: %w", err)
	}
	if len(articles) == 0 {
		log.Printf("📭 [Digest] Nothing to send, no articles in the last %dh", p.Hours)
		return nil
	}

	// best producer rank first, unranked articles last
	sort.SliceStable(articles, func(i, j int) bool {
		ri, rj := articles[i].Rank, articles[j].Rank
		switch {
		case ri != nil && rj != nil:
			return *ri < *rj
		case ri != nil:
			return true
		default:
			return false
		}
	})
	if len(articles) > p.Limit {
		articles = articles[:p.Limit]
	}

	var body strings.Builder
	body.WriteString("<h2>SentinelPost Daily Digest</h2>")
	for _, a := range articles {
		body.WriteString(fmt.Sprintf(
			`<h3><a href="%s">%s</a></h3><p>%s</p><small>%s · %s</small><hr>`,
			a.URL, a.Title, a.Summary, a.Source, a.PublishedAt.Format("2006-01-02 15:04")))
	}

	email := conf.ServiceConf.Email
	m := mailer.NewMailer(email.Host, email.Port, email.Username, email.Password)
	subject := fmt.Sprintf("SentinelPost digest · %s", time.Now().Format("2006-01-02"))
	if err := m.SendDigest(p.To, subject, body.String()); err != nil {
		return err
	}

	log.Printf("📨 [Digest] Sent %d articles to %s", len(articles), p.To)
	return nil
}

func (t *DigestTask) parseParams(params map[string]any) DigestParams {
	p := DigestParams{Hours: 24, Limit: 10}
	if v, ok := params["to"].(string); ok {
		p.To = v
	}
	if v, ok := params["hours"].(int); ok && v > 0 {
		p.Hours = v
	}
	if v, ok := params["limit"].(int); ok && v > 0 {
		p.Limit = v
	}
	return p
}
