package db

import (
	"context"
	"sync"
	"time"

	conf "github.com/iceymoss/sentinelpost/pkg/config"
	zLog "github.com/iceymoss/sentinelpost/pkg/logger"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var mongoConn = make(map[string]*mongo.Client)
var mongoMutex sync.RWMutex

// GetMongoConn returns the shared Mongo client, or nil when the archive
// database is not configured or unreachable. Callers treat nil as "archiving
// disabled".
func GetMongoConn() *mongo.Client {
	if conf.ServiceConf == nil || conf.ServiceConf.Mongo.Link == "" {
		return nil
	}
	mongoMutex.RLock()
	conn, ok := mongoConn["main"]
	mongoMutex.RUnlock()
	if !ok {
		mongoMutex.Lock()
		mongoUri := conf.ServiceConf.Mongo.Link
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoUri).SetMaxPoolSize(120))
		if err != nil {
			zLog.Error(err.Error())
			mongoMutex.Unlock()
			return nil
		}

		mongoConn["main"] = client
		conn = client
		mongoMutex.Unlock()
	}

	return conn
}
