// Command seedcompanies loads the company catalogue from a YAML file.
//
//	seedcompanies --seed_file companies.yaml
//
// Connection settings use the same PLACEMENTHUB_* keys as the server.
package main

import (
	"context"
	"fmt"
	"os"

	companystore "github.com/dalemusser/placementhub/internal/app/store/companies"
	"github.com/dalemusser/placementhub/internal/app/system/seed"
	"github.com/dalemusser/placementhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

var keys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "placement_hub", Desc: "MongoDB database name"},
	{Name: "seed_file", Default: "companies.yaml", Desc: "YAML file with the companies to load"},
}

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(logger); err != nil {
		logger.Error("seed failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(logger *zap.Logger) error {
	_, values, err := config.LoadWithAppConfig(logger, "PLACEMENTHUB", keys)
	if err != nil {
		return err
	}

	path := values.String("seed_file")
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	companies, err := seed.Parse(data)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeouts.Batch())
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(values.String("mongo_uri")))
	if err != nil {
		return fmt.Errorf("mongo connect: %w", err)
	}
	defer client.Disconnect(context.Background())

	store := companystore.New(client.Database(values.String("mongo_database")))
	res, err := seed.Load(ctx, store, companies, logger)
	if err != nil {
		return err
	}
	logger.Info("seed complete",
		zap.String("file", path),
		zap.Int("created", res.Created),
		zap.Int("updated", res.Updated))
	return nil
}
