// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown stops background work, closes websocket clients and
// disconnects from MongoDB.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if rt := deps.Runtime; rt != nil {
		if rt.Jobs != nil {
			logger.Info("stopping background jobs")
			rt.Jobs.Stop()
		}
		if rt.limiter != nil {
			rt.limiter.Stop()
		}
		if rt.stopHub != nil {
			rt.stopHub()
		}
	}

	if deps.PlacementHubMongoClient != nil {
		logger.Info("disconnecting PlacementHub MongoDB client")
		if err := deps.PlacementHubMongoClient.Disconnect(ctx); err != nil {
			logger.Error("MongoDB disconnect failed", zap.Error(err))
			return err
		}
	}
	return nil
}
