package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	connectTimeout    = 10 * time.Second
	disconnectTimeout = 5 * time.Second
)

// DB holds the database connections
type DB struct {
	Postgres *gorm.DB
	Mongo    *mongo.Client
	MongoDB  *mongo.Database

	log *slog.Logger
}

// InitDB opens and pings both stores. Profiles, comments and notifications
// live in PostgreSQL; posts live in MongoDB.
func InitDB(ctx context.Context, cfg *Config, log *slog.Logger) (*DB, error) {
	if cfg.PostgresConnStr == "" {
		return nil, errors.New("POSTGRES_CONN_STR environment variable not set")
	}
	if cfg.MongoURI == "" {
		return nil, errors.New("MONGO_URI environment variable not set")
	}

	postgresDB, err := initPostgres(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	log.Info("connected to PostgreSQL")

	mongoClient, err := initMongo(ctx, cfg.MongoURI)
	if err != nil {
		closePostgres(postgresDB, log)
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	log.Info("connected to MongoDB", "database", cfg.MongoDatabase)

	return &DB{
		Postgres: postgresDB,
		Mongo:    mongoClient,
		MongoDB:  mongoClient.Database(cfg.MongoDatabase),
		log:      log,
	}, nil
}

func initPostgres(ctx context.Context, cfg *Config) (*gorm.DB, error) {
	level := gormlogger.Warn
	if cfg.IsProduction() {
		level = gormlogger.Error
	}
	db, err := gorm.Open(postgres.Open(cfg.PostgresConnStr), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(level),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err = sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return db, nil
}

func initMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err = client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}

// PingPostgres reports whether PostgreSQL answers.
func (db *DB) PingPostgres(ctx context.Context) error {
	sqlDB, err := db.Postgres.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// PingMongo reports whether the MongoDB primary answers.
func (db *DB) PingMongo(ctx context.Context) error {
	return db.Mongo.Ping(ctx, nil)
}

// CloseDB closes the database connections
func (db *DB) CloseDB() {
	if db.Postgres != nil {
		closePostgres(db.Postgres, db.log)
	}

	if db.Mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), disconnectTimeout)
		defer cancel()
		if err := db.Mongo.Disconnect(ctx); err != nil {
			db.log.Error("closing MongoDB connection", "error", err)
		} else {
			db.log.Info("MongoDB connection closed")
		}
	}
}

func closePostgres(gdb *gorm.DB, log *slog.Logger) {
	sqlDB, err := gdb.DB()
	if err != nil {
		log.Error("getting SQL DB from GORM", "error", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Error("closing PostgreSQL connection", "error", err)
		return
	}
	log.Info("PostgreSQL connection closed")
}
