package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Database wraps gorm connectivity. A postgres DSN takes precedence; without
// one the sqlite file carries the whole application, which is how the dev
// runtime and repository tests run.
type Database struct {
	DB *gorm.DB
}

func Connect(postgresDSN, sqlitePath string) (*Database, error) {
	if postgresDSN != "" {
		return connect(postgres.Open(postgresDSN), "postgres")
	}
	if sqlitePath == "" {
		return nil, errors.New("either a postgres dsn or a sqlite path is required")
	}
	return connect(sqlite.Open(sqlitePath), "sqlite")
}

func connect(dialector gorm.Dialector, name string) (*Database, error) {
	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open gorm %s: %w", name, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("resolve %s sql db handle: %w", name, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping %s: %w", name, err)
	}
	return &Database{DB: db}, nil
}

func (d *Database) Close() error {
	if d == nil || d.DB == nil {
		return nil
	}
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
