// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/placementhub/internal/app/system/ratelimit"
	"github.com/dalemusser/placementhub/internal/app/system/realtime"
	"github.com/dalemusser/placementhub/internal/app/system/workers"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database and back-end dependencies for the app.
//
// WAFFLE passes DBDeps by value to every hook after ConnectDB, so state
// created in Startup and needed again by BuildHandler or Shutdown lives
// behind the Runtime pointer.
type DBDeps struct {
	PlacementHubMongoClient   *mongo.Client
	PlacementHubMongoDatabase *mongo.Database

	Runtime *Runtime
}

// Runtime holds the in-process services started in Startup.
type Runtime struct {
	Jobs *workers.Runner
	Hub  *realtime.Hub

	limiter *ratelimit.LoginLimiter
	stopHub context.CancelFunc
}
