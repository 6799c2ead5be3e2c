package db

import (
	"fmt"
	"strconv"
	"sync"

	conf "github.com/iceymoss/sentinelpost/pkg/config"
	zLog "github.com/iceymoss/sentinelpost/pkg/logger"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

const DB_SENTINELPOST = "sentinelpost"

var gormConn = make(map[string]*gorm.DB)
var gormMutex sync.RWMutex

// GetGormConn returns a lazily-built GORM connection for the named database.
// The dialector is chosen by the configured driver (mysql or postgres).
func GetGormConn(db string) *gorm.DB {
	gormMutex.RLock()
	conn, ok := gormConn[db]
	gormMutex.RUnlock()
	if !ok {
		gormMutex.Lock()
		defer gormMutex.Unlock()
		if conn, ok = gormConn[db]; ok {
			return conn
		}

		cfg := conf.ServiceConf.DB
		port := strconv.Itoa(cfg.Port)

		var gormlevel gormLogger.LogLevel
		switch cfg.LogLevel {
		case "debug", "info":
			gormlevel = gormLogger.Info
		case "warning":
			gormlevel = gormLogger.Warn
		default:
			gormlevel = gormLogger.Error
		}

		var dialector gorm.Dialector
		switch cfg.Driver {
		case "postgres":
			dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
				cfg.Host, cfg.User, cfg.Password, db, port)
			dialector = postgres.Open(dsn)
		default:
			dsn := cfg.User + ":" + cfg.Password + "@tcp(" + cfg.Host + ":" + port + ")/" + db + "?charset=utf8mb4&parseTime=True&loc=Local"
			dialector = mysql.Open(dsn)
		}

		dbConn, err := gorm.Open(dialector, &gorm.Config{
			Logger: gormLogger.Default.LogMode(gormlevel),
		})
		if err != nil {
			zLog.Error(err.Error())
			return nil
		}

		pool, poolErr := dbConn.DB()
		if poolErr != nil {
			zLog.Error(poolErr.Error())
		} else {
			pool.SetMaxOpenConns(30)
			pool.SetMaxIdleConns(15)
		}

		if cfg.LogLevel == "debug" {
			gormConn[db] = dbConn.Debug()
		} else {
			gormConn[db] = dbConn
		}
		conn = gormConn[db]
	}

	return conn
}
