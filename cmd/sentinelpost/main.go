package main

import (
	"log"

	"github.com/iceymoss/sentinelpost/internal/conf"
	"github.com/iceymoss/sentinelpost/internal/server"
	"github.com/iceymoss/sentinelpost/web"
	// import anonymously to register tasks to the list
	_ "github.com/iceymoss/sentinelpost/internal/tasks/media"
	_ "github.com/iceymoss/sentinelpost/internal/tasks/news"
	"github.com/iceymoss/sentinelpost/pkg/logger"

	config "github.com/iceymoss/sentinelpost/pkg/config"
	"github.com/iceymoss/sentinelpost/pkg/db"
	"github.com/iceymoss/sentinelpost/pkg/db/objects"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("⚠️ no .env file loaded: %v", err)
	}

	config.InitConfig("configs/config.yaml")

	cfg, err := conf.LoadConfig("configs/config.yaml")
	if err != nil {
		logger.Fatal("❌ LoadConfig error", zap.Error(err))
	}

	// schema for the article store (manual migrations are preferable in
	// production, this is a demo deployment)
	conn := db.GetGormConn(db.DB_SENTINELPOST)
	if conn == nil {
		logger.Fatal("❌ article store unreachable")
	}
	if err := conn.AutoMigrate(&objects.Article{}, &objects.UserHistory{}, &objects.IngestLog{}); err != nil {
		logger.Fatal("❌ AutoMigrate error", zap.Error(err))
	}

	srv := server.NewServer(cfg, web.StaticFiles)

	port := cfg.Server.Port
	if port == "" {
		port = ":8080"
	}

	log.Printf("🌐 SentinelPost running at http://localhost%s", port)
	if err := srv.Run(port); err != nil {
		logger.Fatal("❌ Server error", zap.Error(err))
	}
}
