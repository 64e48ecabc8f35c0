package app

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/slot_board/internal/config"
	"github.com/Freeeeeet/slot_board/internal/repository"
	"github.com/Freeeeeet/slot_board/internal/repository/memory"
	"github.com/Freeeeeet/slot_board/internal/repository/mongorepo"
	"github.com/Freeeeeet/slot_board/internal/repository/postgres"
	"github.com/Freeeeeet/slot_board/internal/repository/redisrepo"
	"github.com/Freeeeeet/slot_board/internal/service"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// OpenStore создаёт хранилище по STORAGE_DRIVER, готовит схему и заполняет участников
func OpenStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.Store, error) {
	var (
		store repository.Store
		err   error
	)

	switch cfg.StorageDriver {
	case config.DriverMemory:
		store = memory.NewStore()
	case config.DriverPostgres:
		store, err = openPostgres(ctx, cfg, logger)
	case config.DriverRedis:
		store, err = openRedis(ctx, cfg)
	case config.DriverMongo:
		store, err = openMongo(ctx, cfg)
	default:
		err = fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
	if err != nil {
		return nil, err
	}

	logger.Info("Storage opened", zap.String("driver", store.Name()))

	if cfg.SeedMembers {
		if err := service.NewMemberService(store, logger).Seed(ctx, service.DefaultMembers); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("seed members: %w", err)
		}
	}

	return store, nil
}

func openPostgres(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.Store, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DBDSN)
	if err != nil {
		return nil, fmt.Errorf("parse DB_DSN: %w", err)
	}
	// отдельная схема на окружение
	poolCfg.ConnConfig.RuntimeParams["search_path"] = cfg.DBSchema

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	schema := pgx.Identifier{cfg.DBSchema}.Sanitize()
	if _, err := pool.Exec(ctx, "CREATE SCHEMA IF NOT EXISTS "+schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	migrator, err := NewMigrator(pool, logger)
	if err != nil {
		pool.Close()
		return nil, err
	}
	defer migrator.Close()

	if err := migrator.Run(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("Connected to PostgreSQL", zap.String("schema", cfg.DBSchema))
	return postgres.NewStore(pool), nil
}

func openRedis(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return redisrepo.NewStore(client, cfg.RedisPrefix), nil
}

func openMongo(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	client, err := mongorepo.Connect(ctx, cfg.MongoURI)
	if err != nil {
		return nil, err
	}

	store := mongorepo.NewStore(client, cfg.MongoDatabase)
	if err := store.EnsureIndexes(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}
