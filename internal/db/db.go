package db

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// DB 是一个全局的数据库连接实例
var DB *gorm.DB

// Init 打开数据库连接、执行自动迁移并保存到全局 DB。
// databasePath 为空时将回退到默认值 quillblog.db。
func Init(driver, databasePath, logLevel string) error {
	gdb, err := Open(driver, databasePath, logLevel)
	if err != nil {
		return err
	}
	if err := Migrate(gdb); err != nil {
		return err
	}
	DB = gdb
	return nil
}

// Open connects to sqlite (default) or mysql without migrating.
func Open(driver, databasePath, logLevel string) (*gorm.DB, error) {
	path := strings.TrimSpace(databasePath)
	if path == "" {
		path = "quillblog.db"
	}

	cfg := &gorm.Config{Logger: logger.Default.LogMode(parseLogLevel(logLevel))}

	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", DriverSQLite:
		if err := ensureParentDir(sqliteFilePath(path)); err != nil {
			return nil, err
		}
		return gorm.Open(sqlite.Open(withForeignKeys(path)), cfg)
	case DriverMySQL:
		return gorm.Open(mysql.Open(withParseTime(path)), cfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Migrate 自动迁移核心模型。
func Migrate(gdb *gorm.DB) error {
	if gdb == nil {
		return errors.New("database not initialized")
	}
	return gdb.AutoMigrate(
		&User{},
		&Post{},
		&Comment{},
		&Page{},
	)
}

func parseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

func withForeignKeys(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys") || strings.Contains(dsn, "_fk=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&_foreign_keys=1"
	}
	return dsn + "?_foreign_keys=1"
}

// withParseTime 让 mysql 驱动把 DATETIME 扫描为 time.Time。
func withParseTime(dsn string) string {
	if strings.Contains(dsn, "parseTime=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&parseTime=true"
	}
	return dsn + "?parseTime=true"
}

func sqliteFilePath(dsn string) string {
	path := strings.TrimPrefix(dsn, "file:")
	if idx := strings.Index(path, "?"); idx >= 0 {
		path = path[:idx]
	}
	return path
}

func ensureParentDir(path string) error {
	if path == "" || path == ":memory:" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return errors.New("database path parent is not a directory")
		}
		return nil
	}

	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}

	return err
}
