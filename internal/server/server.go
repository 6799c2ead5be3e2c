package server

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"io/fs"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iceymoss/sentinelpost/internal/conf"
	"github.com/iceymoss/sentinelpost/internal/core"
	"github.com/iceymoss/sentinelpost/internal/engine"
	"github.com/iceymoss/sentinelpost/internal/ingest"
	"github.com/iceymoss/sentinelpost/internal/newsapi"
	"github.com/iceymoss/sentinelpost/internal/relevance"
	"github.com/iceymoss/sentinelpost/internal/repo"
	"github.com/iceymoss/sentinelpost/internal/summarizer"
	"github.com/iceymoss/sentinelpost/internal/tasks"
	svcConf "github.com/iceymoss/sentinelpost/pkg/config"
	"github.com/iceymoss/sentinelpost/pkg/db"
	"github.com/iceymoss/sentinelpost/pkg/sensitive"
	"github.com/iceymoss/sentinelpost/pkg/transaction"
	"github.com/iceymoss/sentinelpost/pkg/xerr"

	qrcode "github.com/skip2/go-qrcode"
)

type Server struct {
	engine    *gin.Engine
	scheduler *engine.Scheduler
}

func NewServer(cfg *conf.Config, staticFS fs.FS) *Server {
	scheduler := engine.NewScheduler()

	tasks.ApplyAutoJobs(scheduler)

	// register all config-driven jobs
	for _, job := range cfg.Jobs {
		if !job.Enable {
			continue
		}
		err := scheduler.AddJob(job.Cron, job.Name, job.Name, job.Params, tasks.SourceYAML)
		if err != nil {
			log.Printf("⚠️ Failed to schedule %s: %v", job.Name, err)
		} else {
			log.Printf("✅ Job scheduled: %s [%s]", job.Name, job.Cron)
		}
	}

	articleRepo := repo.NewArticleRepo()
	searchEngine := buildSearchEngine(cfg, articleRepo)

	router := gin.Default()

	api := router.Group("/api")
	{
		api.POST("/search", searchHandler(cfg, searchEngine, articleRepo))

		api.GET("/history", func(c *gin.Context) {
			history, err := articleRepo.HistoryFor(c.Request.Context(), clientIdentity(c), 50)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"code": xerr.DB_ERROR, "error": err.Error()})
				return
			}
			c.JSON(http.StatusOK, gin.H{"data": history})
		})

		api.GET("/articles", func(c *gin.Context) {
			articles, err := articleRepo.Latest(c.Request.Context(), 50)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"code": xerr.DB_ERROR, "error": err.Error()})
				return
			}
			c.JSON(http.StatusOK, gin.H{"data": articles})
		})

		api.GET("/articles/:id/qr", func(c *gin.Context) {
			id, err := strconv.ParseUint(c.Param("id"), 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"code": xerr.ErrInvalidInput, "error": "invalid article id"})
				return
			}
			article, err := articleRepo.FindByID(c.Request.Context(), id)
			if err != nil {
				c.JSON(http.StatusNotFound, gin.H{"code": xerr.ErrResourceNotFound, "error": "article not found"})
				return
			}
			png, err := qrcode.Encode(article.URL, qrcode.Medium, 256)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"code": xerr.SERVER_COMMON_ERROR, "error": err.Error()})
				return
			}
			c.Data(http.StatusOK, "image/png", png)
		})

		api.GET("/tasks", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"data": scheduler.Stats.GetAll()})
		})

		api.POST("/tasks/:name/run", func(c *gin.Context) {
			name := c.Param("name")
			if err := scheduler.ManualRun(name); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"code": xerr.ErrBadRequest, "error": err.Error()})
				return
			}
			c.JSON(http.StatusOK, gin.H{"message": "Triggered"})
		})
	}

	// generated article illustrations
	if svcConf.ServiceConf != nil && svcConf.ServiceConf.Upload.BasePath != "" {
		router.Static("/static", svcConf.ServiceConf.Upload.BasePath)
	}

	router.NoRoute(func(c *gin.Context) {
		// keep API 404s as JSON, never fall through to the HTML page
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, gin.H{"code": xerr.ErrNotFound, "error": "API not found"})
			return
		}

		http.FileServer(http.FS(staticFS)).ServeHTTP(c.Writer, c.Request)
	})

	return &Server{engine: router, scheduler: scheduler}
}

// buildSearchEngine wires the relevance engine onto the live collaborators.
func buildSearchEngine(cfg *conf.Config, articleRepo *repo.ArticleRepo) *relevance.Engine {
	var source core.NewsSource
	if cfg.News.Source == "rss" {
		source = newsapi.NewRSSSource(cfg.News.Feeds)
	} else {
		source = newsapi.NewClient(cfg.News.BaseURL, cfg.News.APIKey, cfg.News.Lang, cfg.News.Page)
	}

	summ := summarizer.NewLLMSummarizer(
		cfg.Summarizer.APIKey,
		cfg.Summarizer.BaseURL,
		cfg.Summarizer.Model,
		cfg.Summarizer.Candidates,
	)

	pipeline := ingest.NewPipeline(source, summ, articleRepo, transaction.NewManager()).
		WithArchive(repo.NewArchiveRepo()).
		WithBatchLog(repo.NewIngestLogRepo())

	if svcConf.ServiceConf != nil && svcConf.ServiceConf.Safety.WordlistDir != "" {
		word, err := sensitive.NewWord(svcConf.ServiceConf.Safety.WordlistDir, sensitive.ALL_FILE)
		if err != nil {
			log.Printf("⚠️ Safety filter unavailable: %v", err)
		} else {
			pipeline = pipeline.WithSafetyFilter(word)
		}
	}

	return relevance.NewEngineWithBounds(articleRepo, pipeline, cfg.Relevance.Limit, cfg.Relevance.MaxFetchAttempts)
}

type searchRequest struct {
	Query string `json:"query"`
}

// searchHandler runs one ranking to completion, including any bounded
// backfill, before responding. Results are cached briefly in Redis keyed by
// the raw query.
func searchHandler(cfg *conf.Config, searchEngine *relevance.Engine, articleRepo *repo.ArticleRepo) gin.HandlerFunc {
	ttl := time.Duration(cfg.Cache.TTLSeconds) * time.Second

	return func(c *gin.Context) {
		var req searchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": xerr.ErrInvalidJSON, "error": err.Error()})
			return
		}

		cacheKey := searchCacheKey(req.Query)
		if cfg.Cache.Enabled {
			if cached, err := db.GetRedisConn().Get(c.Request.Context(), cacheKey).Result(); err == nil {
				c.Data(http.StatusOK, "application/json", []byte(cached))
				return
			}
		}

		results, err := searchEngine.Search(c.Request.Context(), req.Query)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"code": xerr.SERVER_COMMON_ERROR, "error": err.Error()})
			return
		}

		if len(results) > 0 {
			ids := make([]uint64, 0, len(results))
			for _, a := range results {
				ids = append(ids, a.ID)
			}
			if err := articleRepo.RecordHistory(c.Request.Context(), clientIdentity(c), ids); err != nil {
				log.Printf("⚠️ history not recorded: %v", err)
			}
		}

		payload, _ := json.Marshal(gin.H{"data": results})
		if cfg.Cache.Enabled {
			cacheCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			db.GetRedisConn().Set(cacheCtx, cacheKey, payload, ttl)
		}
		c.Data(http.StatusOK, "application/json", payload)
	}
}

// clientIdentity names the requester for history rows. An explicit header
// wins so a fronting proxy can pass a stable user id; the client IP is the
// fallback.
func clientIdentity(c *gin.Context) string {
	if uid := c.GetHeader("X-User-ID"); uid != "" {
		return uid
	}
	return c.ClientIP()
}

func searchCacheKey(query string) string {
	sum := sha1.Sum([]byte(query))
	return "search:" + hex.EncodeToString(sum[:])
}

func (s *Server) Run(addr string) error {
	// start the task scheduler
	s.scheduler.Start()

	// start the web server
	return s.engine.Run(addr)
}
