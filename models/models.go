package models

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/pocketbase/dbx"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	_ "modernc.org/sqlite"
)

func ConnectDatabase(dsnURL, env string) (*gorm.DB, error) {

	// Configure logger
	var logLevel logger.LogLevel
	if env == "prod" {
		logLevel = logger.Error
	} else {
		logLevel = logger.Info
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logLevel,
			Colorful:      env != "prod",
		},
	)

	database, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsnURL,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger:                 newLogger,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening postgres: %w", err)
	}

	getDb, err := database.DB()
	if err != nil {
		return nil, fmt.Errorf("getting postgres pool: %w", err)
	}
	getDb.SetMaxIdleConns(10)
	getDb.SetMaxOpenConns(100)
	getDb.SetConnMaxLifetime(time.Hour)

	return database, nil
}

func ConnectRedis(ctx context.Context, rawURL, env string) (*redis.Client, error) {
	options, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}

	// Managed redis in prod always terminates TLS, even for redis:// urls.
	if env == "prod" && options.TLSConfig == nil {
		host := options.Addr
		if h, _, err := net.SplitHostPort(host); err == nil {
			host = h
		}
		options.TLSConfig = &tls.Config{
			ServerName: host,
		}
	}

	rdb := redis.NewClient(options)

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	return rdb, nil
}

// ConnectSQLite opens a standalone SQLite file outside of the app data dir.
func ConnectSQLite(path string) (*dbx.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating sqlite directory: %w", err)
		}
	}

	db, err := dbx.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(10000)")
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}
	return db, nil
}
