package main

import (
	"context"
	"database/sql"
	"time"

	redisdriver "github.com/redis/go-redis/v9"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"chat-relay-server/internal/config"
	"chat-relay-server/internal/repository/mongo"
	"chat-relay-server/internal/repository/postgres"
	"chat-relay-server/internal/repository/redis"
	"chat-relay-server/internal/service"
)

func provideContext() (context.Context, func()) {
	ctx, cancel := context.WithCancel(context.Background())
	return ctx, func() { cancel() }
}

func providePostgresDB(cfg *config.Config) (*sql.DB, func(), error) {
	db, err := postgres.NewDB(cfg.PostgresURL)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { db.Close() }
	return db, cleanup, nil
}

func provideMongoDB(ctx context.Context, cfg *config.Config) (*mongodriver.Database, func(), error) {
	db, err := mongo.NewDB(ctx, cfg.MongoURL)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { db.Client().Disconnect(ctx) }
	return db, cleanup, nil
}

func provideRedisClient(ctx context.Context, cfg *config.Config) (*redisdriver.Client, func(), error) {
	client, err := redis.NewClient(ctx, cfg.RedisAddr)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { client.Close() }
	return client, cleanup, nil
}

func provideTimeLocation(cfg *config.Config) (*time.Location, error) {
	return time.LoadLocation(cfg.TimeZone)
}

func provideSessionTTL(cfg *config.Config) service.SessionTTL {
	return service.SessionTTL(time.Duration(cfg.SessionTTLHours) * time.Hour)
}
