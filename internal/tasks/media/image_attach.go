package media

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"log"

	"github.com/iceymoss/sentinelpost/internal/core"
	"github.com/iceymoss/sentinelpost/internal/imagegen"
	"github.com/iceymoss/sentinelpost/internal/repo"
	"github.com/iceymoss/sentinelpost/internal/tasks"
	conf "github.com/iceymoss/sentinelpost/pkg/config"
	"github.com/iceymoss/sentinelpost/pkg/db/objects"
	"github.com/iceymoss/sentinelpost/pkg/storage"
)

// ImageAttachTask illustrates stored articles after the fact: every article
// without an image gets one generated from its title. Strictly best-effort,
// a failed article never stops the sweep and never touches text fields.
type ImageAttachTask struct{}

func init() {
	// self-starting with local defaults; a YAML job entry can replace the
	// schedule and parameters per deployment
	tasks.RegisterAuto("media:image_attach", "0 */10 * * * *", NewImageAttachTask, map[string]any{
		"base_url":    "http://127.0.0.1:7860",
		"model":       "stable-diffusion-v1-4",
		"steps":       20,
		"batch_limit": 10,
	})
}

func NewImageAttachTask() core.Task {
	return &ImageAttachTask{}
}

func (t *ImageAttachTask) Identifier() string {
	return "media:image_attach"
}

// imageAttacher links a stored illustration to the article found by URL.
type imageAttacher interface {
	AttachImage(ctx context.Context, url, imageURL string) error
}

// AttachParams task parameters
type AttachParams struct {
	BaseURL    string
	Model      string
	Steps      int
	BatchLimit int
}

func (t *ImageAttachTask) Run(ctx context.Context, params map[string]any) error {
	p := t.parseParams(params)
	if p.BaseURL == "" {
		return fmt.Errorf("missing base_url")
	}

	articleRepo := repo.NewArticleRepo()
	gen := imagegen.NewClient(p.BaseURL, p.Model, p.Steps)
	store := storage.NewLocalStorage(conf.ServiceConf.Upload.BasePath, conf.ServiceConf.Upload.BaseURL)

	articles, err := articleRepo.MissingImage(ctx, p.BatchLimit)
	if err != nil {
		return fmt.Errorf("load articles without image: %w", err)
	}

	attached := t.sweep(ctx, gen, store, articleRepo, articles)

	log.Printf("🎨 [Media] Sweep finished. Images attached: %d/%d", attached, len(articles))
	return nil
}

// sweep attaches an image to each article in turn. A failed article is
// logged and skipped; the rest of the batch still gets processed.
func (t *ImageAttachTask) sweep(ctx context.Context, gen core.ImageGenerator, store storage.FileStorage, attacher imageAttacher, articles []objects.Article) int {
	attached := 0
	for _, article := range articles {
		if err := t.attachOne(ctx, gen, store, attacher, article.Title, article.URL); err != nil {
			log.Printf("⚠️ [Media] Image attach failed for %q: %v", article.Title, err)
			continue
		}
		attached++
	}
	return attached
}

// attachOne generates, decodes, persists and links one illustration.
func (t *ImageAttachTask) attachOne(ctx context.Context, gen core.ImageGenerator, store storage.FileStorage, attacher imageAttacher, title, url string) error {
	payload, err := gen.Generate(ctx, title)
	if err != nil {
		return err
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return fmt.Errorf("decode image payload: %w", err)
	}

	// filename derived from the title hash; storage may add its own prefix,
	// so repeated generations for a title accumulate rather than overwrite
	sum := md5.Sum([]byte(title))
	filename := hex.EncodeToString(sum[:]) + ".png"

	imageURL, err := store.UploadFile(ctx, bytes.NewReader(raw), filename, "articles")
	if err != nil {
		return fmt.Errorf("store image: %w", err)
	}

	// the article is looked up by source URL; with duplicate URLs the first
	// match receives the image
	if err := attacher.AttachImage(ctx, url, imageURL); err != nil {
		return fmt.Errorf("attach image: %w", err)
	}
	return nil
}

func (t *ImageAttachTask) parseParams(params map[string]any) AttachParams {
	p := AttachParams{Steps: 20, BatchLimit: 10}
	if v, ok := params["base_url"].(string); ok {
		p.BaseURL = v
	}
	if v, ok := params["model"].(string); ok {
		p.Model = v
	}
	if v, ok := params["steps"].(int); ok && v > 0 {
		p.Steps = v
	}
	if v, ok := params["batch_limit"].(int); ok && v > 0 {
		p.BatchLimit = v
	}
	return p
}
