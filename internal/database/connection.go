// connection.go
//
// Resonance aggregation service for the habit tracker
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of resonance.
// resonance is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// resonance is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with resonance.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package database

import (
	"fmt"
	"net"
	"strings"
	"time"

	glebarez "github.com/glebarez/sqlite"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/localnerve/resonance/internal/config"
	"github.com/localnerve/resonance/internal/logger"
	"github.com/localnerve/resonance/internal/models"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Dialector builds the gorm dialector for the configured DB_TYPE
func Dialector(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.DBType {
	case "mysql", "mariadb":
		dsn := mysqldriver.NewConfig()
		dsn.User = cfg.DBUser
		dsn.Passwd = cfg.DBPassword
		dsn.Net = "tcp"
		dsn.Addr = net.JoinHostPort(cfg.DBHost, cfg.DBPort)
		dsn.DBName = cfg.DBDatabase
		dsn.ParseTime = true
		dsn.Loc = time.UTC
		dsn.Params = map[string]string{"charset": "utf8mb4"}
		return mysql.Open(dsn.FormatDSN()), nil

	case "postgres", "postgresql":
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			cfg.DBHost,
			cfg.DBUser,
			cfg.DBPassword,
			cfg.DBDatabase,
			cfg.DBPort,
		)
		return postgres.Open(dsn), nil

	case "sqlite":
		// For SQLite, DBDatabase is the file path
		return sqlite.Open(cfg.DBDatabase), nil

	case "sqlite-pure":
		// Same as sqlite, without cgo
		return glebarez.Open(cfg.DBDatabase), nil

	case "sqlserver", "mssql":
		dsn := fmt.Sprintf("sqlserver://%s:%s@%s:%s?database=%s",
			cfg.DBUser,
			cfg.DBPassword,
			cfg.DBHost,
			cfg.DBPort,
			cfg.DBDatabase,
		)
		return sqlserver.Open(dsn), nil

	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.DBType)
	}
}

// Connect establishes a database connection based on the configured DB_TYPE
func Connect(cfg *config.Config, log *logger.Logger) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(LogLevel(cfg.DBLogLevel)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB for connection pool configuration
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying SQL DB: %w", err)
	}

	limit := cfg.DBConnectionLimit
	if isSQLite(cfg.DBType) {
		// one writer at a time, transactions hold the connection
		limit = 1
	}
	sqlDB.SetMaxOpenConns(limit)
	sqlDB.SetMaxIdleConns(max(limit/2, 1))

	log.Info("connected to database", "type", cfg.DBType, "database", cfg.DBDatabase)

	return db, nil
}

// LogLevel maps DB_LOG_LEVEL onto the gorm logger levels
func LogLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}

func isSQLite(dbType string) bool {
	return dbType == "sqlite" || dbType == "sqlite-pure"
}

// AutoMigrate runs automatic migrations for all models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Category{},
		&models.CompletionFact{},
		&models.ResonanceEvent{},
		&models.ConstellationAggregate{},
	)
}

// Close closes the database connection
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
