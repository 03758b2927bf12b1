package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr        string
	Port              string
	DatabaseDriver    string
	DatabasePath      string
	DBLogLevel        string
	SessionSecret     string
	GinMode           string
	SiteName          string
	SuperRootUserName string
	SuperRootPassword string
}

// Load 从环境变量（以及可选的 .env 文件）读取应用配置，并为缺失项提供安全的默认值。
func Load() AppConfig {
	_ = godotenv.Load()

	port := getEnv("PORT", "8080")

	return AppConfig{
		ListenAddr:        getEnv("LISTEN_ADDR", fmt.Sprintf(":%s", port)),
		Port:              port,
		DatabaseDriver:    strings.ToLower(getEnv("DATABASE_DRIVER", "sqlite")),
		DatabasePath:      getEnv("DATABASE_PATH", "quillblog.db"),
		DBLogLevel:        strings.ToLower(getEnv("DB_LOG_LEVEL", "warn")),
		SessionSecret:     getEnv("SESSION_SECRET", "quillblog-dev-secret"),
		GinMode:           getEnv("GIN_MODE", "release"),
		SiteName:          getEnv("SITE_NAME", "Quill"),
		SuperRootUserName: getEnv("SUPER_ROOT_USER_NAME", ""),
		SuperRootPassword: getEnv("SUPER_ROOT_PASSWORD", ""),
	}
}

func getEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}
